package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/payorbit/wallet-panel-api/internal/service"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// DashboardHandler serves the landing-page snapshot.
type DashboardHandler struct {
	service *service.DashboardService
	respond *Responder
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService, respond *Responder) *DashboardHandler {
	return &DashboardHandler{service: svc, respond: respond}
}

// Summary returns the actor's dashboard snapshot.
func (h *DashboardHandler) Summary(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	summary, err := h.service.Summary(requestContext(c), principal.Token, principal.Session)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}
