package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/payorbit/wallet-panel-api/internal/service"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// FundRequestHandler serves the actor's fund request history.
type FundRequestHandler struct {
	service *service.FundRequestService
	respond *Responder
}

// NewFundRequestHandler creates a new handler.
func NewFundRequestHandler(svc *service.FundRequestService, respond *Responder) *FundRequestHandler {
	return &FundRequestHandler{service: svc, respond: respond}
}

// List returns one page of the actor's fund requests.
func (h *FundRequestHandler) List(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	page, pageSize := pageParams(c)
	list, pagination, err := h.service.List(requestContext(c), principal.Token, principal.Session, page, pageSize)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, pagination)
}
