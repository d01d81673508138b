package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/payorbit/wallet-panel-api/internal/service"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/export"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// WalletHandler serves wallet reads: balance, transaction history, revert
// history, and ledger exports.
type WalletHandler struct {
	service *service.WalletService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	respond *Responder
}

// NewWalletHandler creates a new handler. Exporters may be nil when exports
// are disabled.
func NewWalletHandler(svc *service.WalletService, csv *export.CSVExporter, pdf *export.PDFExporter, respond *Responder) *WalletHandler {
	return &WalletHandler{service: svc, csv: csv, pdf: pdf, respond: respond}
}

// Balance returns the actor's current wallet balance.
func (h *WalletHandler) Balance(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	balance, err := h.service.Balance(requestContext(c), principal.Token, principal.Session.Role, principal.Session.ActorID)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, balance, nil)
}

// Transactions returns one page of the actor's ledger.
func (h *WalletHandler) Transactions(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	page, pageSize := pageParams(c)
	list, pagination, err := h.service.Transactions(requestContext(c), principal.Token, principal.Session.Role, principal.Session.ActorID, page, pageSize)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, pagination)
}

// RevertHistory returns the revert trail for a party phone, newest first.
func (h *WalletHandler) RevertHistory(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	phone := c.Param("phone")
	if phone == "" {
		h.respond.Error(c, appErrors.Clone(appErrors.ErrValidation, "phone is required"))
		return
	}

	list, err := h.service.RevertHistory(requestContext(c), principal.Token, principal.Session.Role, phone)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}

// ExportTransactions streams the full ledger as CSV or PDF, selected by the
// `format` query parameter.
func (h *WalletHandler) ExportTransactions(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}
	if h.csv == nil || h.pdf == nil {
		h.respond.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	all, err := h.service.AllTransactions(requestContext(c), principal.Token, principal.Session.Role, principal.Session.ActorID)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	dataset := export.TransactionDataset(all)
	stamp := time.Now().UTC().Format("20060102")

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			h.respond.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transactions_%s.csv", stamp))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.pdf.Render(dataset, "Transaction History")
		if err != nil {
			h.respond.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf export"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transactions_%s.pdf", stamp))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		h.respond.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}
