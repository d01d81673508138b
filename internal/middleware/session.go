package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/session"
	"github.com/payorbit/wallet-panel-api/internal/tokenstore"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// ContextPrincipalKey is the gin context key storing the resolved principal.
const ContextPrincipalKey = "currentPrincipal"

// Principal is everything a protected handler needs about the caller: the
// session slot key, the upstream bearer token, and the resolved identity.
type Principal struct {
	Key     string
	Token   string
	Session *models.Session
	Email   string
}

// Session protects routes: it reads the stored credentials for the bearer
// key and resolves the upstream token into a typed session. Every auth
// failure clears the credential slot before the client is answered, so a
// dead session can never be retried into a half-authorized state.
func Session(store tokenstore.Store, resolver *session.Resolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrAuthMissing)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrAuthMissing, "invalid authorization header"))
			c.Abort()
			return
		}
		key := parts[1]

		creds, err := store.Read(c.Request.Context(), key)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		sess, err := resolver.Resolve(creds.Token)
		if err != nil {
			if clearErr := store.Clear(c.Request.Context(), key); clearErr != nil && logger != nil {
				logger.Warn("failed to clear credentials after auth failure", zap.Error(clearErr))
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		if creds.Role != "" && creds.Role != sess.Role {
			if clearErr := store.Clear(c.Request.Context(), key); clearErr != nil && logger != nil {
				logger.Warn("failed to clear credentials after role drift", zap.Error(clearErr))
			}
			response.Error(c, appErrors.Clone(appErrors.ErrAuthMalformed, "stored role disagrees with token"))
			c.Abort()
			return
		}

		sess.Email = creds.Email
		c.Set(ContextPrincipalKey, &Principal{Key: key, Token: creds.Token, Session: sess, Email: creds.Email})
		c.Next()
	}
}

// CurrentPrincipal returns the principal set by the Session middleware.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}
