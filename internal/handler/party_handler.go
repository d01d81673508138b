package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/payorbit/wallet-panel-api/internal/dto"
	"github.com/payorbit/wallet-panel-api/internal/service"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
	"github.com/payorbit/wallet-panel-api/pkg/response"
)

// PartyHandler serves the distribution tree reads and the cascading
// selection flow.
type PartyHandler struct {
	parties   *service.PartyService
	selection *service.SelectionService
	respond   *Responder
}

// NewPartyHandler creates a new handler.
func NewPartyHandler(parties *service.PartyService, selection *service.SelectionService, respond *Responder) *PartyHandler {
	return &PartyHandler{parties: parties, selection: selection, respond: respond}
}

// Distributors lists the master's distributors.
func (h *PartyHandler) Distributors(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	list, err := h.parties.Distributors(requestContext(c), principal.Token, principal.Session)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}

// Retailers lists retailers. A distributor gets its own; a master names the
// distributor via the `distributor_id` query parameter.
func (h *PartyHandler) Retailers(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	distributorID := c.DefaultQuery("distributor_id", principal.Session.ActorID)
	list, err := h.parties.Retailers(requestContext(c), principal.Token, principal.Session, distributorID)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}

// DistributorByPhone looks up one distributor by phone (master only).
func (h *PartyHandler) DistributorByPhone(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	party, err := h.parties.FindDistributorByPhone(requestContext(c), principal.Token, principal.Session, c.Param("phone"))
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, party, nil)
}

// RetailerByPhone looks up one retailer by phone.
func (h *PartyHandler) RetailerByPhone(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	party, err := h.parties.FindRetailerByPhone(requestContext(c), principal.Token, principal.Session, c.Param("phone"))
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, party, nil)
}

// Selection returns the actor's current cascade state.
func (h *PartyHandler) Selection(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	sel, err := h.selection.Current(requestContext(c), principal.Session.ActorID)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sel, nil)
}

// SelectParent picks the cascade's parent node and loads its children.
func (h *PartyHandler) SelectParent(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	var req dto.SelectParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}

	sel, err := h.selection.SelectParent(requestContext(c), principal.Token, principal.Session, req.ParentID)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sel, nil)
}

// SelectChild picks a leaf party out of the loaded child list.
func (h *PartyHandler) SelectChild(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	var req dto.SelectChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respond.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}

	sel, err := h.selection.SelectChild(requestContext(c), principal.Session.ActorID, req.ChildID)
	if err != nil {
		h.respond.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sel, nil)
}

// ClearSelection resets the cascade to the unselected state.
func (h *PartyHandler) ClearSelection(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		h.respond.Error(c, appErrors.ErrAuthMissing)
		return
	}

	if err := h.selection.Clear(requestContext(c), principal.Session.ActorID); err != nil {
		h.respond.Error(c, err)
		return
	}

	response.NoContent(c)
}
