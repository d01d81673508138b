package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/service"
	"github.com/payorbit/wallet-panel-api/internal/session"
	"github.com/payorbit/wallet-panel-api/internal/tokenstore"
	"github.com/payorbit/wallet-panel-api/internal/upstream"
)

func signTestToken(t *testing.T, data models.TokenData) string {
	t.Helper()
	claims := models.TokenClaims{
		Data:             data,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)
	return signed
}

func newAuthFixture(t *testing.T, upstreamToken string) (*AuthHandler, *tokenstore.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{"token":"` + upstreamToken + `"}}`))
	}))
	t.Cleanup(srv.Close)

	client := upstream.NewClient(srv.URL, 5*time.Second, zap.NewNop(), nil)
	store := tokenstore.NewMemoryStore()
	resolver := session.NewResolver("")
	svc := service.NewAuthService(client, store, resolver, zap.NewNop(), time.Hour)
	return NewAuthHandler(svc, NewResponder(store, zap.NewNop())), store
}

func TestLoginIssuesSessionKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token := signTestToken(t, models.TokenData{
		MasterDistributorID:   "md-1",
		MasterDistributorName: "Asha",
	})
	handler, store := newAuthFixture(t, token)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"md@example.com","password":"secret1","role":"master"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			SessionKey string          `json:"session_key"`
			Session    *models.Session `json:"session"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.SessionKey)
	assert.Equal(t, models.RoleMaster, envelope.Data.Session.Role)

	// The upstream token lives only in the store, keyed by the session key.
	creds, err := store.Read(c.Request.Context(), envelope.Data.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, token, creds.Token)
	assert.NotContains(t, rec.Body.String(), token)
}

func TestLoginRejectsRoleMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// The upstream issues a distributor token while the user asked for the
	// master role.
	token := signTestToken(t, models.TokenData{DistributorID: "dist-1"})
	handler, _ := newAuthFixture(t, token)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"md@example.com","password":"secret1","role":"master"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Login(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginValidatesPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAuthFixture(t, "unused")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"not-an-email","password":"x","role":"admin"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
