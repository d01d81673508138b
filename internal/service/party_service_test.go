package service

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
	"github.com/payorbit/wallet-panel-api/internal/selection"
	"github.com/payorbit/wallet-panel-api/internal/upstream"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

func newPartyFixture(t *testing.T, handler http.HandlerFunc) *PartyService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := upstream.NewClient(srv.URL, 5*time.Second, zap.NewNop(), nil)
	return NewPartyService(client, zap.NewNop())
}

func TestDistributorsNormalised(t *testing.T) {
	svc := newPartyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/get/distributors/md-1", r.URL.Path)
		w.Write([]byte(`{"status":"success","data":{"distributors":[
			{"distributor_unique_id":"D1","distributor_id":"17","distributor_name":"One","distributor_phone":"9000000009","distributor_wallet_balance":"250.50"}
		]}}`))
	})
	sess := &models.Session{Role: models.RoleMaster, ActorID: "md-1"}

	list, err := svc.Distributors(context.Background(), "tok", sess)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "D1", list[0].UniqueID)
	assert.Equal(t, "17", list[0].InternalID)
	assert.Equal(t, 250.5, list[0].WalletBalance)
}

func TestDistributorsMasterOnly(t *testing.T) {
	svc := newPartyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	})
	sess := &models.Session{Role: models.RoleDistributor, ActorID: "dist-1"}

	_, err := svc.Distributors(context.Background(), "tok", sess)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRoleMismatch.Code, appErrors.FromError(err).Code)
}

func TestRetailersDistributorLimitedToOwn(t *testing.T) {
	svc := newPartyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	})
	sess := &models.Session{Role: models.RoleDistributor, ActorID: "dist-1"}

	_, err := svc.Retailers(context.Background(), "tok", sess, "dist-2")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

// selectionUpstream serves the two calls a master's parent pick makes: the
// distributor list (to resolve the picked parent's record) and the retailer
// list below it.
func selectionUpstream(t *testing.T, retailers http.HandlerFunc) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/get/distributors/md-1":
			w.Write([]byte(`{"status":"success","data":{"distributors":[
				{"distributor_unique_id":"dist-9","distributor_id":"9","distributor_name":"Nine","distributor_phone":"9000000009","distributor_wallet_balance":"300"}
			]}}`))
		default:
			retailers(w, r)
		}
	}
}

func TestSelectionServiceLoadsChildren(t *testing.T) {
	svc := newPartyFixture(t, selectionUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/get/users/dist-9", r.URL.Path)
		w.Write([]byte(`{"status":"success","data":{"users":[
			{"user_unique_id":"R1","user_name":"Retailer One","user_phone":"9000000001","user_wallet_balance":"75"}
		]}}`))
	}))
	coordinator := selection.NewCoordinator(newMemCache(), time.Minute)
	selectionSvc := NewSelectionService(coordinator, svc, zap.NewNop())
	sess := &models.Session{Role: models.RoleMaster, ActorID: "md-1"}

	sel, err := selectionSvc.SelectParent(context.Background(), "tok", sess, "dist-9")

	require.NoError(t, err)
	assert.Equal(t, selection.StateChildrenLoaded, sel.State)
	require.Len(t, sel.Children, 1)
	assert.Equal(t, 75.0, sel.Children[0].WalletBalance)

	// The picked distributor's own record rides along for mutations.
	require.NotNil(t, sel.Parent)
	assert.Equal(t, "9000000009", sel.Parent.Phone)
	assert.Equal(t, 300.0, sel.Parent.WalletBalance)
}

func TestSelectParentRejectsUnknownDistributor(t *testing.T) {
	svc := newPartyFixture(t, selectionUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("retailer list must not be fetched for an unknown parent")
	}))
	coordinator := selection.NewCoordinator(newMemCache(), time.Minute)
	selectionSvc := NewSelectionService(coordinator, svc, zap.NewNop())
	sess := &models.Session{Role: models.RoleMaster, ActorID: "md-1"}

	_, err := selectionSvc.SelectParent(context.Background(), "tok", sess, "dist-404")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	sel, err := coordinator.Get(context.Background(), "md-1")
	require.NoError(t, err)
	assert.Equal(t, selection.StateUnselected, sel.State)
}

func TestSelectionServiceUpstreamFailureLeavesLoading(t *testing.T) {
	svc := newPartyFixture(t, selectionUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"no such distributor"}`))
	}))
	coordinator := selection.NewCoordinator(newMemCache(), time.Minute)
	selectionSvc := NewSelectionService(coordinator, svc, zap.NewNop())
	sess := &models.Session{Role: models.RoleMaster, ActorID: "md-1"}

	_, err := selectionSvc.SelectParent(context.Background(), "tok", sess, "dist-9")
	require.Error(t, err)

	sel, err := coordinator.Get(context.Background(), "md-1")
	require.NoError(t, err)
	assert.Equal(t, selection.StateLoadingChildren, sel.State)
	assert.Empty(t, sel.Children)
}
