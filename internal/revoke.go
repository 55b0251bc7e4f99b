package internal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations remembers token ids that were logged out before they expired.
type Revocations interface {
	// Revoke marks jti as unusable until ttl has passed.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// Revoked reports whether jti was revoked.
	Revoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocations keeps revoked ids in Redis so every instance sees them.
type RedisRevocations struct {
	client *redis.Client
	prefix string
}

func NewRedisRevocations(client *redis.Client, prefix string) *RedisRevocations {
	return &RedisRevocations{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisRevocations) key(jti string) string { return r.prefix + "revoked:" + jti }

func (r *RedisRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(jti), 1, ttl).Err()
}

func (r *RedisRevocations) Revoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, r.key(jti)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MemoryRevocations is the single-instance fallback used when Redis is not configured.
type MemoryRevocations struct {
	mu  sync.Mutex
	ids map[string]time.Time
	now func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{ids: map[string]time.Time{}, now: time.Now}
}

func (m *MemoryRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, until := range m.ids {
		if !now.Before(until) {
			delete(m.ids, id)
		}
	}
	m.ids[jti] = now.Add(ttl)
	return nil
}

func (m *MemoryRevocations) Revoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.ids[jti]
	return ok && m.now().Before(until), nil
}
