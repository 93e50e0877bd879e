package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fitbattle-service/internal/database"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked token ids until the token would have
// expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RateLimiter admits at most limit events per key within window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type RedisRepository struct {
	client *database.RedisClient
	now    func() time.Time
}

func NewRedisRepository(client *database.RedisClient) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func revokedKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

func (r *RedisRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.GetClient().Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (r *RedisRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.GetClient().Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CheckRateLimit implements a sliding window over a sorted set of request
// timestamps.
func (r *RedisRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := r.now()
	windowStart := now.Add(-window).UnixNano()

	pipe := r.client.GetClient().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	card := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return card.Val() < int64(limit), nil
}

// MemoryBlacklist is the single-process TokenBlacklist used without redis.
type MemoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryBlacklist) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	if expiresAt.After(now) {
		m.revoked[jti] = expiresAt
	}
	return nil
}

func (m *MemoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[jti]
	return ok && exp.After(m.now()), nil
}
