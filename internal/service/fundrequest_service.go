package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/upstream"
)

// FundRequestService reads the actor's wallet top-up requests. Creation goes
// through the mutation service so it shares the in-flight latch and audit
// trail.
type FundRequestService struct {
	client *upstream.Client
	logger *zap.Logger
}

// NewFundRequestService constructs a FundRequestService.
func NewFundRequestService(client *upstream.Client, logger *zap.Logger) *FundRequestService {
	return &FundRequestService{client: client, logger: logger}
}

// List returns one page of the actor's fund requests, newest upstream order
// preserved.
func (s *FundRequestService) List(ctx context.Context, token string, sess *models.Session, page, pageSize int) ([]models.FundRequest, *models.Pagination, error) {
	ep := upstream.ForRole(sess.Role)

	var all []models.FundRequest
	if err := s.client.GetList(ctx, token, ep.FundRequests(sess.ActorID), []string{"fund_requests", "data"}, &all); err != nil {
		return nil, nil, err
	}

	pagination := models.NewPagination(page, pageSize, len(all))
	start, end := pagination.Slice(len(all))
	return all[start:end], pagination, nil
}
