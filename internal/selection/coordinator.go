// Package selection manages the cascading distributor → retailer pickers.
// Its one hard rule: changing the upstream pick always wipes everything
// downstream of it before new children are loaded, so an amount can never be
// submitted against a party belonging to a previously selected parent.
package selection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/payorbit/wallet-panel-api/internal/models"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// State is the coordinator phase for one actor.
type State string

const (
	StateUnselected      State = "UNSELECTED"
	StateLoadingChildren State = "LOADING_CHILDREN"
	StateChildrenLoaded  State = "CHILDREN_LOADED"
	StateChildSelected   State = "CHILD_SELECTED"
)

// Selection is the persisted picker state for one actor. Parent carries the
// picked node's own snapshot (phone, balance) so parent-targeted mutations
// work against the parent itself, never a child.
type Selection struct {
	State    State          `json:"state"`
	ParentID string         `json:"parent_id,omitempty"`
	Parent   *models.Party  `json:"parent,omitempty"`
	Children []models.Party `json:"children,omitempty"`
	ChildID  string         `json:"child_id,omitempty"`
	Child    *models.Party  `json:"child,omitempty"`
}

// stateStore is the persistence the coordinator needs; the Redis cache
// repository satisfies it.
type stateStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Coordinator drives the selection state machine, one slot per actor.
type Coordinator struct {
	store stateStore
	ttl   time.Duration
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(store stateStore, ttl time.Duration) *Coordinator {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Coordinator{store: store, ttl: ttl}
}

func selectionKey(actorID string) string {
	return fmt.Sprintf("selection:%s", actorID)
}

// Get returns the actor's current selection; an absent slot is Unselected.
func (c *Coordinator) Get(ctx context.Context, actorID string) (*Selection, error) {
	sel := &Selection{}
	err := c.store.Get(ctx, selectionKey(actorID), sel)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return &Selection{State: StateUnselected}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load selection state")
	}
	if sel.State == "" {
		sel.State = StateUnselected
	}
	return sel, nil
}

// SelectParent records a new parent pick with its snapshot. All downstream
// state (child list, child selection, details) is discarded before anything
// else happens. parent may be nil when the actor has no parent record of its
// own (a distributor picking itself).
func (c *Coordinator) SelectParent(ctx context.Context, actorID, parentID string, parent *models.Party) (*Selection, error) {
	if parentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "parent id is required")
	}
	sel := &Selection{State: StateLoadingChildren, ParentID: parentID, Parent: parent}
	if err := c.save(ctx, actorID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// ClearParent resets the actor to the initial state.
func (c *Coordinator) ClearParent(ctx context.Context, actorID string) error {
	return c.Reset(ctx, actorID)
}

// SetChildren attaches the freshly loaded child list. A list that arrives
// for a parent the actor has since deselected is dropped as stale.
func (c *Coordinator) SetChildren(ctx context.Context, actorID, parentID string, children []models.Party) (*Selection, error) {
	sel, err := c.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if sel.ParentID != parentID {
		return sel, nil
	}
	sel.State = StateChildrenLoaded
	sel.Children = children
	sel.ChildID = ""
	sel.Child = nil
	if err := c.save(ctx, actorID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// SelectChild picks one child by unique ID. Details are derived from the
// already-loaded list; no extra upstream call is made.
func (c *Coordinator) SelectChild(ctx context.Context, actorID, childID string) (*Selection, error) {
	sel, err := c.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if sel.State != StateChildrenLoaded && sel.State != StateChildSelected {
		return nil, appErrors.Clone(appErrors.ErrSelectionRequired, "no party list loaded")
	}
	for i := range sel.Children {
		if sel.Children[i].UniqueID == childID {
			child := sel.Children[i]
			sel.State = StateChildSelected
			sel.ChildID = childID
			sel.Child = &child
			if err := c.save(ctx, actorID, sel); err != nil {
				return nil, err
			}
			return sel, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "selected party is not in the loaded list")
}

// SelectedParent returns the snapshot of the currently picked parent party.
func (c *Coordinator) SelectedParent(ctx context.Context, actorID string) (*models.Party, error) {
	sel, err := c.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if sel.State == StateUnselected || sel.Parent == nil {
		return nil, appErrors.ErrSelectionRequired
	}
	return sel.Parent, nil
}

// SelectedChild returns the currently selected leaf party.
func (c *Coordinator) SelectedChild(ctx context.Context, actorID string) (*models.Party, error) {
	sel, err := c.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if sel.State != StateChildSelected || sel.Child == nil {
		return nil, appErrors.ErrSelectionRequired
	}
	return sel.Child, nil
}

// Reset drops the actor's selection slot entirely, used after successful
// mutations so the next read starts from fresh upstream data.
func (c *Coordinator) Reset(ctx context.Context, actorID string) error {
	if err := c.store.Delete(ctx, selectionKey(actorID)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "reset selection state")
	}
	return nil
}

func (c *Coordinator) save(ctx context.Context, actorID string, sel *Selection) error {
	if err := c.store.Set(ctx, selectionKey(actorID), sel, c.ttl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist selection state")
	}
	return nil
}
