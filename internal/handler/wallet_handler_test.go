package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/middleware"
	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/service"
	"github.com/payorbit/wallet-panel-api/internal/tokenstore"
	"github.com/payorbit/wallet-panel-api/internal/upstream"
	"github.com/payorbit/wallet-panel-api/pkg/export"
)

func newWalletHandlerFixture(t *testing.T, upstreamHandler http.HandlerFunc) (*WalletHandler, *tokenstore.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(upstreamHandler)
	t.Cleanup(srv.Close)

	client := upstream.NewClient(srv.URL, 5*time.Second, zap.NewNop(), nil)
	cacheSvc := service.NewCacheService(nil, nil, 0, zap.NewNop(), false)
	svc := service.NewWalletService(client, cacheSvc, zap.NewNop())
	store := tokenstore.NewMemoryStore()
	return NewWalletHandler(svc, export.NewCSVExporter(), export.NewPDFExporter(), NewResponder(store, zap.NewNop())), store
}

func principalContext(t *testing.T, rec *httptest.ResponseRecorder, method, target string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Set(middleware.ContextPrincipalKey, &middleware.Principal{
		Key:   "key-1",
		Token: "upstream-token",
		Session: &models.Session{
			Role:      models.RoleMaster,
			ActorID:   "md-1",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	})
	return c
}

func TestWalletBalanceEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newWalletHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/md/wallet/get/balance/md-1", r.URL.Path)
		assert.Equal(t, "Bearer upstream-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":"success","data":{"balance":"320.75"}}`))
	})

	rec := httptest.NewRecorder()
	c := principalContext(t, rec, http.MethodGet, "/wallet/balance")

	handler.Balance(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data models.WalletBalance `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 320.75, envelope.Data.Amount)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestWalletBalanceRequiresPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newWalletHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/wallet/balance", nil)

	handler.Balance(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpstreamAuthFailureClearsCredentialSlot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, store := newWalletHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"token expired"}`))
	})
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "key-1", tokenstore.Credentials{
		Token: "upstream-token",
		Role:  models.RoleMaster,
	}, time.Hour))

	rec := httptest.NewRecorder()
	c := principalContext(t, rec, http.MethodGet, "/wallet/balance")

	handler.Balance(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The dead upstream token must not survive for a retry.
	_, err := store.Read(ctx, "key-1")
	require.Error(t, err)
}

func TestWalletTransactionsPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newWalletHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":[
			{"transaction_id":"T1","amount":"10"},
			{"transaction_id":"T2","amount":"20"},
			{"transaction_id":"T3","amount":"30"}
		]}`))
	})

	rec := httptest.NewRecorder()
	c := principalContext(t, rec, http.MethodGet, "/wallet/transactions?page=1&page_size=2")

	handler.Transactions(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data       []models.Transaction `json:"data"`
		Pagination *models.Pagination   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, 3, envelope.Pagination.TotalCount)
	assert.Equal(t, 2, envelope.Pagination.TotalPages)
}

func TestWalletExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newWalletHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":[{"transaction_id":"T1","amount":"10","transaction_type":"CREDIT"}]}`))
	})

	rec := httptest.NewRecorder()
	c := principalContext(t, rec, http.MethodGet, "/wallet/transactions/export?format=csv")

	handler.ExportTransactions(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Transaction ID")
	assert.Contains(t, rec.Body.String(), "T1")
}

func TestWalletExportRejectsUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newWalletHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":[]}`))
	})

	rec := httptest.NewRecorder()
	c := principalContext(t, rec, http.MethodGet, "/wallet/transactions/export?format=xlsx")

	handler.ExportTransactions(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
