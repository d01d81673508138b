package models

import "time"

// Mutation audit actions.
const (
	AuditActionTransfer    = "FUND_TRANSFER"
	AuditActionRevert      = "REVERT"
	AuditActionFundRequest = "FUND_REQUEST"
)

// AuditEntry records a mutation submitted through this panel. The upstream
// ledger keeps the money truth; this trail keeps who asked for what and how
// the upstream answered.
type AuditEntry struct {
	ID          string    `db:"id" json:"id"`
	ActorID     string    `db:"actor_id" json:"actor_id"`
	ActorRole   string    `db:"actor_role" json:"actor_role"`
	Action      string    `db:"action" json:"action"`
	TargetPhone string    `db:"target_phone" json:"target_phone"`
	Amount      string    `db:"amount" json:"amount"`
	Succeeded   bool      `db:"succeeded" json:"succeeded"`
	Message     string    `db:"message" json:"message"`
	RequestID   string    `db:"request_id" json:"request_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
