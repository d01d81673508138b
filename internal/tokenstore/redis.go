package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/payorbit/wallet-panel-api/internal/models"
	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// RedisStore persists credentials in a Redis hash per session key. A single
// HSET/DEL keeps save and clear atomic.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(key string) string {
	return fmt.Sprintf("session:%s", key)
}

// Save writes all three credential fields in one operation and arms the TTL.
func (s *RedisStore) Save(ctx context.Context, key string, creds Credentials, ttl time.Duration) error {
	rk := sessionKey(key)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, rk, fieldToken, creds.Token, fieldRole, string(creds.Role), fieldEmail, creds.Email)
	if ttl > 0 {
		pipe.Expire(ctx, rk, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}

// Read returns the stored credentials or ErrAuthMissing when the slot is
// empty or has expired.
func (s *RedisStore) Read(ctx context.Context, key string) (Credentials, error) {
	values, err := s.client.HGetAll(ctx, sessionKey(key)).Result()
	if err != nil {
		return Credentials{}, fmt.Errorf("read session %s: %w", key, err)
	}
	token, ok := values[fieldToken]
	if !ok || token == "" {
		return Credentials{}, appErrors.ErrAuthMissing
	}
	return Credentials{
		Token: token,
		Role:  models.Role(values[fieldRole]),
		Email: values[fieldEmail],
	}, nil
}

// Clear removes the slot. Clearing an absent slot is not an error.
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, sessionKey(key)).Err(); err != nil {
		return fmt.Errorf("clear session %s: %w", key, err)
	}
	return nil
}
