package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/payorbit/wallet-panel-api/internal/dto"
	"github.com/payorbit/wallet-panel-api/internal/service"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// MutationHandler serves the money-moving endpoints.
type MutationHandler struct {
	service *service.MutationService
	respond *Responder
}

// NewMutationHandler creates a new handler.
func NewMutationHandler(svc *service.MutationService, respond *Responder) *MutationHandler {
	return &MutationHandler{service: svc, respond: respond}
}

// Transfer funds the currently selected party's wallet.
func (h *MutationHandler) Transfer(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid transfer payload"))
		return
	}

	result, err := h.service.Transfer(requestContext(c), principal.Token, principal.Session, req)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Revert pulls funds back out of the currently selected party's wallet.
func (h *MutationHandler) Revert(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	var req dto.RevertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid revert payload"))
		return
	}

	result, err := h.service.Revert(requestContext(c), principal.Token, principal.Session, req)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// CreateFundRequest raises a wallet top-up request towards the admin.
func (h *MutationHandler) CreateFundRequest(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	var req dto.FundRequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fund request payload"))
		return
	}

	result, err := h.service.CreateFundRequest(requestContext(c), principal.Token, principal.Session, req)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.Created(c, result)
}
