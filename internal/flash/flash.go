// Package flash stores one-time flags shown once by the next page load.
package flash

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const DefaultTTL = 10 * time.Minute

type Store interface {
	Set(ctx context.Context, key string, ttl time.Duration) error
	// Pop reports whether key was set and clears it in the same step.
	Pop(ctx context.Context, key string) (bool, error)
}

func PaymentSuccessKey(userID uint) string {
	return fmt.Sprintf("flash:payment_success:%d", userID)
}

// ======================================================
// Redis
// ======================================================

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, key, "1", ttl).Err()
}

func (s *RedisStore) Pop(ctx context.Context, key string) (bool, error) {
	_, err := s.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("flash pop: %w", err)
	}
	return true, nil
}

// ======================================================
// Memory (single instance / tests)
// ======================================================

type MemoryStore struct {
	mu    sync.Mutex
	flags map[string]time.Time
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: map[string]time.Time{}, now: time.Now}
}

func (s *MemoryStore) Set(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.flags[key]
	if !ok {
		return false, nil
	}
	delete(s.flags, key)
	return s.now().Before(exp), nil
}
