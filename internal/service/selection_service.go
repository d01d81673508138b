package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/selection"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// SelectionService orchestrates the cascading pickers: a parent pick loads
// the child tier from upstream and attaches it; a child pick resolves against
// the already-loaded list.
type SelectionService struct {
	coordinator *selection.Coordinator
	parties     *PartyService
	logger      *zap.Logger
}

// NewSelectionService constructs a SelectionService.
func NewSelectionService(coordinator *selection.Coordinator, parties *PartyService, logger *zap.Logger) *SelectionService {
	return &SelectionService{coordinator: coordinator, parties: parties, logger: logger}
}

// Current returns the actor's selection state.
func (s *SelectionService) Current(ctx context.Context, actorID string) (*selection.Selection, error) {
	return s.coordinator.Get(ctx, actorID)
}

// SelectParent records the parent pick, wipes everything downstream, loads
// the child tier, and attaches it. For a master the pick is resolved against
// its distributor list so the slot holds the distributor's own record (phone,
// balance), which distributor-targeted mutations work against. If the
// upstream load fails the slot stays in the loading state with no children,
// so a retry starts clean.
func (s *SelectionService) SelectParent(ctx context.Context, token string, sess *models.Session, parentID string) (*selection.Selection, error) {
	parent, err := s.resolveParent(ctx, token, sess, parentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.coordinator.SelectParent(ctx, sess.ActorID, parentID, parent); err != nil {
		return nil, err
	}

	children, err := s.parties.Children(ctx, token, sess, parentID)
	if err != nil {
		s.logger.Warn("child list load failed",
			zap.String("actor_id", sess.ActorID),
			zap.String("parent_id", parentID),
			zap.Error(err),
		)
		return nil, err
	}

	return s.coordinator.SetChildren(ctx, sess.ActorID, parentID, children)
}

// resolveParent finds the picked parent's own record. A master's parent is
// one of its distributors and must exist in the distributor list; a
// distributor is its own parent tier and carries no record of itself.
func (s *SelectionService) resolveParent(ctx context.Context, token string, sess *models.Session, parentID string) (*models.Party, error) {
	if sess.Role != models.RoleMaster {
		return nil, nil
	}
	distributors, err := s.parties.Distributors(ctx, token, sess)
	if err != nil {
		return nil, err
	}
	for i := range distributors {
		if distributors[i].UniqueID == parentID || distributors[i].InternalID == parentID {
			parent := distributors[i]
			return &parent, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "selected distributor is not in your network")
}

// SelectChild picks a leaf party out of the loaded list.
func (s *SelectionService) SelectChild(ctx context.Context, actorID, childID string) (*selection.Selection, error) {
	return s.coordinator.SelectChild(ctx, actorID, childID)
}

// SelectedChild returns the selected leaf party, or the selection-required
// error when nothing is picked.
func (s *SelectionService) SelectedChild(ctx context.Context, actorID string) (*models.Party, error) {
	return s.coordinator.SelectedChild(ctx, actorID)
}

// SelectedParent returns the picked parent's own record, or the
// selection-required error when no parent with a record is picked.
func (s *SelectionService) SelectedParent(ctx context.Context, actorID string) (*models.Party, error) {
	return s.coordinator.SelectedParent(ctx, actorID)
}

// Clear resets the actor to the unselected state.
func (s *SelectionService) Clear(ctx context.Context, actorID string) error {
	return s.coordinator.ClearParent(ctx, actorID)
}

// Reset drops the selection slot after a successful mutation so the next
// read starts from fresh upstream data.
func (s *SelectionService) Reset(ctx context.Context, actorID string) error {
	return s.coordinator.Reset(ctx, actorID)
}
