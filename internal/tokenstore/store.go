// Package tokenstore holds the persisted credential slot for each signed-in
// actor: the upstream bearer token plus the role and email it was issued for.
// Clearing the slot is logout; every auth failure clears it before the
// client is told to re-authenticate.
package tokenstore

import (
	"context"
	"time"

	"github.com/payorbit/wallet-panel-api/internal/models"
)

// Field names kept from the browser client this service replaced, where the
// same three values lived in local storage.
const (
	fieldToken = "authToken"
	fieldRole  = "userRole"
	fieldEmail = "userEmail"
)

// Credentials is the full persisted-state surface of a session.
type Credentials struct {
	Token string
	Role  models.Role
	Email string
}

// Store is a single-slot credential register per session key. Read and Clear
// must be atomic with respect to each other so an auth-failure clear cannot
// race a concurrent login into a half-written slot.
type Store interface {
	Save(ctx context.Context, key string, creds Credentials, ttl time.Duration) error
	Read(ctx context.Context, key string) (Credentials, error)
	Clear(ctx context.Context, key string) error
}
