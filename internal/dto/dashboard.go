package dto

import "github.com/payorbit/wallet-panel-api/internal/models"

// DashboardSummary is the landing-page snapshot for either role.
type DashboardSummary struct {
	Role          models.Role `json:"role"`
	ActorName     string      `json:"actor_name"`
	WalletBalance float64     `json:"wallet_balance"`
	PartyCount    int         `json:"party_count"`
}

// SelectParentRequest picks (or re-picks) the upstream node of a cascade.
type SelectParentRequest struct {
	ParentID string `json:"parent_id" validate:"required"`
}

// SelectChildRequest picks a leaf party out of the loaded child list.
type SelectChildRequest struct {
	ChildID string `json:"child_id" validate:"required"`
}
