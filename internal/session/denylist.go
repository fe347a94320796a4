package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Denylist holds revoked token ids until the token would expire anyway.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func denyKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denyKey(tokenID), "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denyKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: map[string]time.Time{}}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for id, exp := range d.revoked {
		if now.After(exp) {
			delete(d.revoked, id)
		}
	}
	d.revoked[tokenID] = until
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.revoked[tokenID]
	return ok && time.Now().Before(exp), nil
}
