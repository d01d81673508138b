package dto

// Mutation target kinds.
const (
	TargetDistributor = "distributor"
	TargetRetailer    = "retailer"
)

// TransferRequest funds the currently selected party's wallet.
type TransferRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=distributor retailer"`
	Amount     string `json:"amount" validate:"required"`
}

// RevertRequest pulls funds back out of the currently selected party's
// wallet. The client-side sufficiency pre-check uses the party snapshot from
// the selection; the upstream ledger remains the authority.
type RevertRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=distributor retailer"`
	Amount     string `json:"amount" validate:"required"`
}

// FundRequestCreate raises a wallet top-up request towards the admin,
// carrying the bank-transfer evidence fields the upstream expects.
type FundRequestCreate struct {
	Amount        string `json:"amount" validate:"required"`
	BankName      string `json:"bank_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	IFSCCode      string `json:"ifsc_code" validate:"required"`
	BankBranch    string `json:"bank_branch" validate:"required"`
	UTRNumber     string `json:"utr_number" validate:"required"`
	Remarks       string `json:"remarks"`
}

// MutationResult reports the upstream outcome of a submitted mutation.
type MutationResult struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}
