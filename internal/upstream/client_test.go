package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/models"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zap.NewNop(), nil)
}

func TestGetListBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"distributor_unique_id":"D1","distributor_name":"One"}]`))
	})

	var list []models.Distributor
	err := client.GetList(context.Background(), "tok", "/admin/get/distributors/md-1", []string{"distributors"}, &list)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "D1", list[0].UniqueID)
}

func TestGetListEnvelopeArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":[{"distributor_unique_id":"D1"}]}`))
	})

	var list []models.Distributor
	err := client.GetList(context.Background(), "tok", "/admin/get/distributors/md-1", []string{"distributors"}, &list)

	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestGetListNestedKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"users":[{"user_unique_id":"R1"},{"user_unique_id":"R2"}]}}`))
	})

	var list []models.Retailer
	err := client.GetList(context.Background(), "tok", "/admin/get/users/d-1", []string{"users"}, &list)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "R2", list[1].UniqueID)
}

func TestGetListUnexpectedNestedKeyStillFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{"revert_history":[{"revert_id":"RV1"}]}}`))
	})

	// The expected key list names something else; the lone array value is
	// still picked up.
	var list []models.RevertRecord
	err := client.GetList(context.Background(), "tok", "/md/revert/get/history/999", []string{"records"}, &list)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "RV1", list[0].RevertID)
}

func TestGetListEmptyBodyIsEmptyList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	list := []models.Distributor{{UniqueID: "stale"}}
	err := client.GetList(context.Background(), "tok", "/admin/get/distributors/md-1", []string{"distributors"}, &list)

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetListEnvelopeFailureCarriesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"record not found"}`))
	})

	var list []models.Distributor
	err := client.GetList(context.Background(), "tok", "/admin/get/distributors/md-1", []string{"distributors"}, &list)

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
	assert.Equal(t, "record not found", appErr.Message)
}

func TestGetListMsgFieldFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"msg":"bad input"}`))
	})

	var list []models.Distributor
	err := client.GetList(context.Background(), "tok", "/admin/get/distributors/md-1", []string{"distributors"}, &list)

	require.Error(t, err)
	assert.Equal(t, "bad input", appErrors.FromError(err).Message)
}

func TestUnauthorizedEscalates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"token expired"}`))
	})

	var out map[string]interface{}
	err := client.Get(context.Background(), "tok", "/md/wallet/get/balance/md-1", &out)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestGetDecodesData(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"success","data":{"balance":"1250.50"}}`))
	})

	var data struct {
		Balance string `json:"balance"`
	}
	err := client.Get(context.Background(), "tok-123", "/md/wallet/get/balance/md-1", &data)

	require.NoError(t, err)
	assert.Equal(t, "1250.50", data.Balance)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestPostReturnsMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"success":true,"message":"funds transferred"}`))
	})

	msg, err := client.Post(context.Background(), "tok", "/md/fund/retailer", map[string]string{"amount": "10"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "funds transferred", msg)
}

func TestTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, zap.NewNop(), nil)

	var out map[string]interface{}
	err := client.Get(context.Background(), "tok", "/md/wallet/get/balance/md-1", &out)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTransport.Code, appErrors.FromError(err).Code)
}

func TestObserverSeesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	var observedStatus int
	client := NewClient(srv.URL, time.Second, zap.NewNop(), func(method, path string, status int, duration time.Duration) {
		observedStatus = status
	})

	require.NoError(t, client.Get(context.Background(), "tok", "/md/wallet/get/balance/md-1", nil))
	assert.Equal(t, http.StatusOK, observedStatus)
}
