package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/upstream"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// PartyService reads the distribution tree below the acting user. Masters see
// their distributors and, through a chosen distributor, that distributor's
// retailers; distributors see only their own retailers.
type PartyService struct {
	client *upstream.Client
	logger *zap.Logger
}

// NewPartyService constructs a PartyService.
func NewPartyService(client *upstream.Client, logger *zap.Logger) *PartyService {
	return &PartyService{client: client, logger: logger}
}

// Distributors lists the distributors under a master distributor.
func (s *PartyService) Distributors(ctx context.Context, token string, sess *models.Session) ([]models.Party, error) {
	if sess.Role != models.RoleMaster {
		return nil, appErrors.Clone(appErrors.ErrRoleMismatch, "only a master distributor has distributors")
	}

	ep := upstream.ForRole(sess.Role)
	var raw []models.Distributor
	if err := s.client.GetList(ctx, token, ep.Distributors(sess.ActorID), []string{"distributors", "data"}, &raw); err != nil {
		return nil, err
	}

	parties := make([]models.Party, 0, len(raw))
	for _, d := range raw {
		parties = append(parties, d.ToParty())
	}
	return parties, nil
}

// Retailers lists the retailers under the given distributor. A distributor
// may only name itself; a master may name any of its distributors (the
// upstream enforces ownership).
func (s *PartyService) Retailers(ctx context.Context, token string, sess *models.Session, distributorID string) ([]models.Party, error) {
	if sess.Role == models.RoleDistributor && distributorID != sess.ActorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "a distributor can only list its own retailers")
	}

	ep := upstream.ForRole(sess.Role)
	var raw []models.Retailer
	if err := s.client.GetList(ctx, token, ep.Retailers(distributorID), []string{"users", "data"}, &raw); err != nil {
		return nil, err
	}

	parties := make([]models.Party, 0, len(raw))
	for _, r := range raw {
		parties = append(parties, r.ToParty())
	}
	return parties, nil
}

// Children returns the next tier below the given parent for this actor. For
// a master the parent is one of its distributors; for a distributor the
// parent is the distributor itself.
func (s *PartyService) Children(ctx context.Context, token string, sess *models.Session, parentID string) ([]models.Party, error) {
	switch sess.Role {
	case models.RoleMaster:
		return s.Retailers(ctx, token, sess, parentID)
	case models.RoleDistributor:
		return s.Retailers(ctx, token, sess, sess.ActorID)
	default:
		return nil, appErrors.ErrRoleMissing
	}
}

// FindDistributorByPhone looks up one distributor by phone (master only).
func (s *PartyService) FindDistributorByPhone(ctx context.Context, token string, sess *models.Session, phone string) (*models.Party, error) {
	if sess.Role != models.RoleMaster {
		return nil, appErrors.Clone(appErrors.ErrRoleMismatch, "only a master distributor can look up distributors")
	}

	ep := upstream.ForRole(sess.Role)
	var raw models.Distributor
	if err := s.client.Get(ctx, token, ep.DistributorByPhone(phone), &raw); err != nil {
		return nil, err
	}
	if raw.UniqueID == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no distributor with that phone")
	}
	party := raw.ToParty()
	return &party, nil
}

// FindRetailerByPhone looks up one retailer by phone.
func (s *PartyService) FindRetailerByPhone(ctx context.Context, token string, sess *models.Session, phone string) (*models.Party, error) {
	ep := upstream.ForRole(sess.Role)
	var raw models.Retailer
	if err := s.client.Get(ctx, token, ep.RetailerByPhone(phone), &raw); err != nil {
		return nil, err
	}
	if raw.UniqueID == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no retailer with that phone")
	}
	party := raw.ToParty()
	return &party, nil
}
