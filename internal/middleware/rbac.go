package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/tokenstore"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// RequireRole gates a route group on the session role. A mismatch is
// treated exactly like an expired session: the credential slot is cleared
// and the caller must authenticate again. The check runs before any
// data-fetching handler.
func RequireRole(store tokenstore.Store, logger *zap.Logger, required models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok || principal.Session == nil {
			response.Error(c, appErrors.ErrAuthMissing)
			c.Abort()
			return
		}

		if principal.Session.Role != required {
			if err := store.Clear(c.Request.Context(), principal.Key); err != nil && logger != nil {
				logger.Warn("failed to clear credentials after role mismatch", zap.Error(err))
			}
			response.Error(c, appErrors.ErrRoleMismatch)
			c.Abort()
			return
		}

		c.Next()
	}
}
