package tokenstore

import (
	"context"
	"sync"
	"time"

	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// MemoryStore is an in-process Store used in tests and single-node
// development runs.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]memorySlot
}

type memorySlot struct {
	creds     Credentials
	expiresAt time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]memorySlot)}
}

func (s *MemoryStore) Save(_ context.Context, key string, creds Credentials, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := memorySlot{creds: creds}
	if ttl > 0 {
		slot.expiresAt = time.Now().Add(ttl)
	}
	s.slots[key] = slot
	return nil
}

func (s *MemoryStore) Read(_ context.Context, key string) (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slots[key]
	if !ok {
		return Credentials{}, appErrors.ErrAuthMissing
	}
	if !slot.expiresAt.IsZero() && time.Now().After(slot.expiresAt) {
		return Credentials{}, appErrors.ErrAuthMissing
	}
	return slot.creds, nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}
