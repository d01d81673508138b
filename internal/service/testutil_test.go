package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// memCache is an in-process CacheRepository for tests.
type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
