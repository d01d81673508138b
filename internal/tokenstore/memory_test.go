package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payorbit/wallet-panel-api/internal/models"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	creds := Credentials{Token: "jwt-value", Role: models.RoleMaster, Email: "md@example.com"}
	require.NoError(t, store.Save(ctx, "key-1", creds, time.Minute))

	got, err := store.Read(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, creds, got)
}

func TestMemoryStoreReadAbsent(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Read(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAuthMissing.Code, appErrors.FromError(err).Code)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "key-1", Credentials{Token: "jwt"}, 0))
	require.NoError(t, store.Clear(ctx, "key-1"))

	_, err := store.Read(ctx, "key-1")
	assert.Equal(t, appErrors.ErrAuthMissing.Code, appErrors.FromError(err).Code)

	// Clearing an already-absent slot is not an error.
	assert.NoError(t, store.Clear(ctx, "key-1"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "key-1", Credentials{Token: "jwt"}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Read(ctx, "key-1")
	assert.Equal(t, appErrors.ErrAuthMissing.Code, appErrors.FromError(err).Code)
}
