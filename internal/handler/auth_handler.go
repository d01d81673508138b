package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/payorbit/wallet-panel-api/internal/dto"
	"github.com/payorbit/wallet-panel-api/internal/service"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
	respond *Responder
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, respond *Responder) *AuthHandler {
	return &AuthHandler{service: svc, respond: respond}
}

// Login authenticates panel credentials for the requested role and returns
// an opaque session key.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(requestContext(c), req)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Logout clears the caller's credential slot.
func (h *AuthHandler) Logout(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	if err := h.service.Logout(requestContext(c), principal.Key); err != nil {
		h.respond.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Me returns the caller's resolved session identity.
func (h *AuthHandler) Me(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	response.JSON(c, http.StatusOK, principal.Session, nil)
}
