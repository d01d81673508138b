package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies which side of the distribution tree an actor logs in as.
// Retailers never authenticate against this panel.
type Role string

const (
	RoleMaster      Role = "master"
	RoleDistributor Role = "distributor"
)

// Valid reports whether the role is one the panel recognises.
func (r Role) Valid() bool {
	return r == RoleMaster || r == RoleDistributor
}

// RequesterType is the upstream enum spelling used on fund requests.
func (r Role) RequesterType() string {
	if r == RoleMaster {
		return "MASTER_DISTRIBUTOR"
	}
	return "DISTRIBUTOR"
}

// TokenData mirrors the `data` claim block of upstream-issued tokens. Exactly
// one of the master/distributor identifier groups is populated.
type TokenData struct {
	AdminID                   string `json:"admin_id"`
	MasterDistributorID       string `json:"master_distributor_id"`
	MasterDistributorUniqueID string `json:"master_distributor_unique_id"`
	MasterDistributorName     string `json:"master_distributor_name"`
	DistributorID             string `json:"distributor_id"`
	DistributorUniqueID       string `json:"distributor_unique_id"`
	DistributorName           string `json:"distributor_name"`
}

// TokenClaims is the full claim set of an upstream token.
type TokenClaims struct {
	Data TokenData `json:"data"`
	jwt.RegisteredClaims
}

// Session is the typed identity resolved from a stored token. It is never
// mutated; re-login replaces it wholesale.
type Session struct {
	Role          Role      `json:"role"`
	ActorID       string    `json:"actor_id"`
	ActorUniqueID string    `json:"actor_unique_id"`
	ActorName     string    `json:"actor_name"`
	AdminID       string    `json:"admin_id"`
	Email         string    `json:"email,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
