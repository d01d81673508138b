package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/upstream"
)

// WalletService serves the actor's own wallet reads: balance, transaction
// history, and the revert trail of downstream parties.
type WalletService struct {
	client *upstream.Client
	cache  *CacheService
	logger *zap.Logger
}

// NewWalletService constructs a WalletService.
func NewWalletService(client *upstream.Client, cache *CacheService, logger *zap.Logger) *WalletService {
	return &WalletService{client: client, cache: cache, logger: logger}
}

func balanceKey(role models.Role, actorID string) string {
	return fmt.Sprintf("balance:%s:%s", role, actorID)
}

// balanceData tolerates the upstream sending the balance as a string or a
// number.
type balanceData struct {
	Balance json.Number `json:"balance"`
}

// Balance reads the actor's wallet balance, serving from the short-lived
// cache when it is warm. A stale read here only delays the dashboard figure;
// mutations always re-read upstream.
func (s *WalletService) Balance(ctx context.Context, token string, role models.Role, actorID string) (*models.WalletBalance, error) {
	key := balanceKey(role, actorID)

	cached := &models.WalletBalance{}
	if hit, _ := s.cache.Get(ctx, key, cached); hit {
		return cached, nil
	}

	ep := upstream.ForRole(role)
	var data balanceData
	if err := s.client.Get(ctx, token, ep.WalletBalance(actorID), &data); err != nil {
		return nil, err
	}

	amount, err := data.Balance.Float64()
	if err != nil {
		amount = 0
	}

	balance := &models.WalletBalance{OwnerID: actorID, Amount: amount}
	if err := s.cache.Set(ctx, key, balance, 0); err != nil {
		s.logger.Debug("balance cache write skipped", zap.Error(err))
	}
	return balance, nil
}

// InvalidateBalance drops the cached balance so the next read is fresh. Used
// after any mutation that moves money for this actor.
func (s *WalletService) InvalidateBalance(ctx context.Context, role models.Role, actorID string) {
	if err := s.cache.Invalidate(ctx, balanceKey(role, actorID)); err != nil {
		s.logger.Debug("balance invalidation skipped", zap.Error(err))
	}
}

// Transactions returns one page of the actor's ledger entries. The upstream
// returns the full list; pagination happens locally.
func (s *WalletService) Transactions(ctx context.Context, token string, role models.Role, actorID string, page, pageSize int) ([]models.Transaction, *models.Pagination, error) {
	all, err := s.AllTransactions(ctx, token, role, actorID)
	if err != nil {
		return nil, nil, err
	}

	pagination := models.NewPagination(page, pageSize, len(all))
	start, end := pagination.Slice(len(all))
	return all[start:end], pagination, nil
}

// AllTransactions returns the full, unpaginated ledger. Export flows use it
// directly.
func (s *WalletService) AllTransactions(ctx context.Context, token string, role models.Role, actorID string) ([]models.Transaction, error) {
	ep := upstream.ForRole(role)
	var list []models.Transaction
	if err := s.client.GetList(ctx, token, ep.WalletTransactions(actorID), []string{"transactions", "data"}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// RevertHistory returns the revert trail for a party phone, newest first.
// Records with unparseable timestamps sort to the end.
func (s *WalletService) RevertHistory(ctx context.Context, token string, role models.Role, phone string) ([]models.RevertRecord, error) {
	ep := upstream.ForRole(role)
	var list []models.RevertRecord
	if err := s.client.GetList(ctx, token, ep.RevertHistory(phone), []string{"revert_history"}, &list); err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAtTime().After(list[j].CreatedAtTime())
	})
	return list, nil
}
