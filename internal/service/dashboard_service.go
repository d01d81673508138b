package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/dto"
	"github.com/payorbit/wallet-panel-api/internal/models"
)

// DashboardService composes the landing-page snapshot: the actor's balance
// plus the size of the tier directly below them.
type DashboardService struct {
	wallets *WalletService
	parties *PartyService
	logger  *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(wallets *WalletService, parties *PartyService, logger *zap.Logger) *DashboardService {
	return &DashboardService{wallets: wallets, parties: parties, logger: logger}
}

// Summary builds the snapshot. A failed party count degrades to zero rather
// than failing the whole dashboard; the balance read is required.
func (s *DashboardService) Summary(ctx context.Context, token string, sess *models.Session) (*dto.DashboardSummary, error) {
	balance, err := s.wallets.Balance(ctx, token, sess.Role, sess.ActorID)
	if err != nil {
		return nil, err
	}

	count := 0
	switch sess.Role {
	case models.RoleMaster:
		if parties, err := s.parties.Distributors(ctx, token, sess); err == nil {
			count = len(parties)
		} else {
			s.logger.Warn("distributor count unavailable", zap.Error(err))
		}
	case models.RoleDistributor:
		if parties, err := s.parties.Retailers(ctx, token, sess, sess.ActorID); err == nil {
			count = len(parties)
		} else {
			s.logger.Warn("retailer count unavailable", zap.Error(err))
		}
	}

	return &dto.DashboardSummary{
		Role:          sess.Role,
		ActorName:     sess.ActorName,
		WalletBalance: balance.Amount,
		PartyCount:    count,
	}, nil
}
