package models

// Fund request status values. Transitions happen only upstream and are
// observed via re-fetch.
const (
	FundRequestPending  = "pending"
	FundRequestApproved = "approved"
	FundRequestRejected = "rejected"
)

// FundRequest is a wallet top-up request raised by a distributor or master
// distributor towards the admin, carrying bank-transfer evidence.
type FundRequest struct {
	RequestUniqueID   string `json:"request_unique_id"`
	RequesterUniqueID string `json:"requester_unique_id"`
	RequesterName     string `json:"requester_name"`
	RequesterType     string `json:"requester_type"`
	Amount            string `json:"amount"`
	Remarks           string `json:"remarks"`
	Status            string `json:"request_status"`
}
