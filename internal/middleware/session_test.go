package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/session"
	"github.com/payorbit/wallet-panel-api/internal/tokenstore"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

func signToken(t *testing.T, data models.TokenData, exp time.Time) string {
	t.Helper()
	claims := models.TokenClaims{
		Data:             data,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("key"))
	require.NoError(t, err)
	return signed
}

func newGuardedEngine(store tokenstore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(store, session.NewResolver(""), zap.NewNop()))
	r.GET("/protected", func(c *gin.Context) {
		principal, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"actor_id": principal.Session.ActorID})
	})
	return r
}

func TestSessionMiddlewareAllowsValidToken(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	token := signToken(t, models.TokenData{DistributorID: "dist-1"}, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(context.Background(), "key-1", tokenstore.Credentials{
		Token: token,
		Role:  models.RoleDistributor,
	}, 0))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer key-1")
	newGuardedEngine(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dist-1")
}

func TestSessionMiddlewareMissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	newGuardedEngine(tokenstore.NewMemoryStore()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), appErrors.ErrAuthMissing.Code)
}

func TestSessionMiddlewareExpiredTokenClearsStore(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	token := signToken(t, models.TokenData{DistributorID: "dist-1"}, time.Now().Add(-time.Minute))
	require.NoError(t, store.Save(context.Background(), "key-1", tokenstore.Credentials{
		Token: token,
		Role:  models.RoleDistributor,
	}, 0))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer key-1")
	newGuardedEngine(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), appErrors.ErrAuthExpired.Code)

	// The credential slot is gone; a retry cannot resurrect the session.
	_, err := store.Read(context.Background(), "key-1")
	assert.Equal(t, appErrors.ErrAuthMissing.Code, appErrors.FromError(err).Code)
}

func TestSessionMiddlewareRoleDriftClearsStore(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	token := signToken(t, models.TokenData{DistributorID: "dist-1"}, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(context.Background(), "key-1", tokenstore.Credentials{
		Token: token,
		Role:  models.RoleMaster,
	}, 0))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer key-1")
	newGuardedEngine(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), appErrors.ErrAuthMalformed.Code)

	_, err := store.Read(context.Background(), "key-1")
	assert.Error(t, err)
}

func TestRequireRoleRejectsMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := tokenstore.NewMemoryStore()
	token := signToken(t, models.TokenData{DistributorID: "dist-1"}, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(context.Background(), "key-1", tokenstore.Credentials{
		Token: token,
		Role:  models.RoleDistributor,
	}, 0))

	r := gin.New()
	r.Use(Session(store, session.NewResolver(""), zap.NewNop()))
	master := r.Group("/master", RequireRole(store, zap.NewNop(), models.RoleMaster))
	master.GET("/distributors", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/master/distributors", nil)
	req.Header.Set("Authorization", "Bearer key-1")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A role mismatch is treated like an expired session.
	_, err := store.Read(context.Background(), "key-1")
	assert.Error(t, err)
}
