package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/payorbit/wallet-panel-api/internal/repository"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// AuditHandler serves the actor's local mutation trail.
type AuditHandler struct {
	repo    *repository.AuditRepository
	respond *Responder
}

// NewAuditHandler creates a new handler.
func NewAuditHandler(repo *repository.AuditRepository, respond *Responder) *AuditHandler {
	return &AuditHandler{repo: repo, respond: respond}
}

// List returns the newest audit entries for the caller.
func (h *AuditHandler) List(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}

	entries, err := h.repo.ListByActor(requestContext(c), principal.Session.ActorID, limit)
	if err != nil {
		h.respond.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load audit trail"))
		return
	}

	response.JSON(c, http.StatusOK, entries, nil)
}
