package models

import "strconv"

// Distributor is the raw upstream record for a distributor under a master
// distributor. Balances arrive as strings.
type Distributor struct {
	UniqueID      string `json:"distributor_unique_id"`
	ID            string `json:"distributor_id"`
	Name          string `json:"distributor_name"`
	Phone         string `json:"distributor_phone"`
	WalletBalance string `json:"distributor_wallet_balance"`
}

// Retailer is the raw upstream record for a retailer under a distributor.
type Retailer struct {
	UniqueID      string `json:"user_unique_id"`
	ID            string `json:"user_id"`
	Name          string `json:"user_name"`
	Phone         string `json:"user_phone"`
	WalletBalance string `json:"user_wallet_balance"`
}

// Party is the canonical read-only snapshot the panel exposes for either
// party kind. The two upstream shapes are structurally identical apart from
// field prefixes, so they normalise to one type.
type Party struct {
	UniqueID      string  `json:"unique_id"`
	InternalID    string  `json:"internal_id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	WalletBalance float64 `json:"wallet_balance"`
}

// ToParty normalises a distributor record.
func (d Distributor) ToParty() Party {
	return Party{
		UniqueID:      d.UniqueID,
		InternalID:    d.ID,
		Name:          d.Name,
		Phone:         d.Phone,
		WalletBalance: parseAmount(d.WalletBalance),
	}
}

// ToParty normalises a retailer record.
func (r Retailer) ToParty() Party {
	return Party{
		UniqueID:      r.UniqueID,
		InternalID:    r.ID,
		Name:          r.Name,
		Phone:         r.Phone,
		WalletBalance: parseAmount(r.WalletBalance),
	}
}

// parseAmount tolerates the upstream habit of sending balances as strings
// that are occasionally empty.
func parseAmount(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
