package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/middleware"
	"github.com/payorbit/wallet-panel-api/internal/tokenstore"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// Responder writes error responses for protected handlers. When the error is
// an auth failure (typically an upstream 401 surfaced through a data fetch)
// it first clears the caller's credential slot, so the dead upstream token
// cannot be retried; the client has to log in again.
type Responder struct {
	store  tokenstore.Store
	logger *zap.Logger
}

// NewResponder constructs a Responder.
func NewResponder(store tokenstore.Store, logger *zap.Logger) *Responder {
	return &Responder{store: store, logger: logger}
}

// Error answers the request with the mapped error, clearing the credential
// slot first on auth failures.
func (r *Responder) Error(c *gin.Context, err error) {
	if r != nil && r.store != nil && appErrors.IsAuthFailure(err) {
		if principal, ok := middleware.CurrentPrincipal(c); ok && principal.Key != "" {
			if clearErr := r.store.Clear(c.Request.Context(), principal.Key); clearErr != nil && r.logger != nil {
				r.logger.Warn("failed to clear credentials after auth failure",
					zap.String("key", principal.Key), zap.Error(clearErr))
			}
		}
	}
	response.Error(c, err)
}
