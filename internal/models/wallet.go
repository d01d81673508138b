package models

import "time"

// WalletBalance is a point-in-time read of an actor's wallet. It is fetched
// fresh per request and never authoritative for mutation decisions beyond
// simple sufficiency checks.
type WalletBalance struct {
	OwnerID string  `json:"owner_id"`
	Amount  float64 `json:"amount"`
}

// Transaction is a read-only ledger entry as returned by the upstream wallet
// transaction list.
type Transaction struct {
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Type          string `json:"transaction_type"`
	Service       string `json:"transaction_service"`
	Status        string `json:"transaction_status"`
	Remarks       string `json:"remarks"`
}

// Transaction type enum values observed upstream.
const (
	TransactionCredit = "CREDIT"
	TransactionDebit  = "DEBIT"
)

// RevertRecord is one entry of a party's revert history.
type RevertRecord struct {
	RevertID  string `json:"revert_id"`
	UniqueID  string `json:"unique_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// CreatedAtTime parses the record timestamp. Unparseable values sort as the
// epoch so a defensive newest-first sort pushes them to the end.
func (r RevertRecord) CreatedAtTime() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, r.CreatedAt); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}
