package upstream

import (
	"fmt"

	"github.com/payorbit/wallet-panel-api/internal/models"
)

// Endpoints is the role-keyed path set for the upstream API. The master and
// distributor panels hit structurally identical endpoints under different
// prefixes; keeping the whole set in one place is what lets every flow be
// implemented once instead of per role.
type Endpoints struct {
	role models.Role
}

// ForRole returns the endpoint set for a role.
func ForRole(role models.Role) Endpoints {
	return Endpoints{role: role}
}

func (e Endpoints) prefix() string {
	if e.role == models.RoleMaster {
		return "/md"
	}
	return "/distributor"
}

// Login is the credential endpoint. Field names differ per role, see
// LoginPayload.
func (e Endpoints) Login() string {
	return e.prefix() + "/login"
}

// LoginPayload builds the role-specific credential body.
func (e Endpoints) LoginPayload(email, password string) map[string]string {
	if e.role == models.RoleMaster {
		return map[string]string{
			"master_distributor_email":    email,
			"master_distributor_password": password,
		}
	}
	return map[string]string{
		"distributor_email":    email,
		"distributor_password": password,
	}
}

// WalletBalance returns the balance read for the actor.
func (e Endpoints) WalletBalance(actorID string) string {
	return fmt.Sprintf("%s/wallet/get/balance/%s", e.prefix(), actorID)
}

// WalletTransactions returns the full transaction list for the actor.
func (e Endpoints) WalletTransactions(actorID string) string {
	return fmt.Sprintf("%s/wallet/get/transactions/%s", e.prefix(), actorID)
}

// Distributors lists the distributors under a master distributor.
func (e Endpoints) Distributors(masterID string) string {
	return fmt.Sprintf("/admin/get/distributors/%s", masterID)
}

// Retailers lists the retailers under a distributor.
func (e Endpoints) Retailers(distributorID string) string {
	return fmt.Sprintf("/admin/get/users/%s", distributorID)
}

// DistributorByPhone looks a distributor up by phone (master only).
func (e Endpoints) DistributorByPhone(phone string) string {
	return fmt.Sprintf("/md/get/distributor/phone/%s", phone)
}

// RetailerByPhone looks a retailer up by phone.
func (e Endpoints) RetailerByPhone(phone string) string {
	return fmt.Sprintf("%s/get/user/phone/%s", e.prefix(), phone)
}

// RevertHistory returns the revert trail for a party phone.
func (e Endpoints) RevertHistory(phone string) string {
	return fmt.Sprintf("%s/revert/get/history/%s", e.prefix(), phone)
}

// FundRequests lists the actor's fund requests.
func (e Endpoints) FundRequests(actorID string) string {
	return fmt.Sprintf("%s/get/fund/request/%s", e.prefix(), actorID)
}

// CreateFundRequest submits a new fund request.
func (e Endpoints) CreateFundRequest() string {
	return e.prefix() + "/create/fund/request"
}

// FundDistributor transfers funds to a distributor wallet (master only).
func (e Endpoints) FundDistributor() string {
	return "/md/fund/distributor"
}

// FundRetailer transfers funds to a retailer wallet.
func (e Endpoints) FundRetailer() string {
	return e.prefix() + "/fund/retailer"
}

// RefundDistributor reverts funds out of a distributor wallet (master only).
func (e Endpoints) RefundDistributor() string {
	return "/md/refund/distributor"
}

// RefundRetailer reverts funds out of a retailer wallet.
func (e Endpoints) RefundRetailer() string {
	return e.prefix() + "/refund/retailer"
}

// ActorIDField is the snake_case identifier key mutations must carry.
func (e Endpoints) ActorIDField() string {
	if e.role == models.RoleMaster {
		return "master_distributor_id"
	}
	return "distributor_id"
}
