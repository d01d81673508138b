// Package session turns a stored upstream token into a typed identity
// without a network round trip.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/payorbit/wallet-panel-api/internal/models"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// Resolver decodes upstream token claims. When a shared secret is configured
// the signature is verified; otherwise the claims are decoded unverified,
// matching the browser client this service replaced (the upstream API is the
// signing authority either way).
type Resolver struct {
	secret string
	now    func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver constructs a Resolver. secret may be empty.
func NewResolver(secret string, opts ...Option) *Resolver {
	r := &Resolver{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve classifies the token and returns the Session it carries.
//
// Failure classification is exhaustive: decode problems are AUTH_MALFORMED,
// an exp at or before now is AUTH_EXPIRED, and a claim set naming neither a
// master distributor nor a distributor is AUTH_ROLE_MISSING. Callers must
// clear the token store on any of these.
func (r *Resolver) Resolve(tokenString string) (*models.Session, error) {
	claims := &models.TokenClaims{}

	if r.secret != "" {
		parser := jwt.NewParser(jwt.WithoutClaimsValidation())
		token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, appErrors.ErrAuthMalformed
			}
			return []byte(r.secret), nil
		})
		if err != nil || !token.Valid {
			return nil, appErrors.Wrap(err, appErrors.ErrAuthMalformed.Code, appErrors.ErrAuthMalformed.Status, appErrors.ErrAuthMalformed.Message)
		}
	} else {
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrAuthMalformed.Code, appErrors.ErrAuthMalformed.Status, appErrors.ErrAuthMalformed.Message)
		}
	}

	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(r.now()) {
		return nil, appErrors.ErrAuthExpired
	}

	return sessionFromClaims(claims)
}

func sessionFromClaims(claims *models.TokenClaims) (*models.Session, error) {
	data := claims.Data
	expiresAt := claims.ExpiresAt.Time

	switch {
	case data.MasterDistributorID != "":
		return &models.Session{
			Role:          models.RoleMaster,
			ActorID:       data.MasterDistributorID,
			ActorUniqueID: data.MasterDistributorUniqueID,
			ActorName:     data.MasterDistributorName,
			AdminID:       data.AdminID,
			ExpiresAt:     expiresAt,
		}, nil
	case data.DistributorID != "":
		return &models.Session{
			Role:          models.RoleDistributor,
			ActorID:       data.DistributorID,
			ActorUniqueID: data.DistributorUniqueID,
			ActorName:     data.DistributorName,
			AdminID:       data.AdminID,
			ExpiresAt:     expiresAt,
		}, nil
	default:
		return nil, appErrors.ErrRoleMissing
	}
}
