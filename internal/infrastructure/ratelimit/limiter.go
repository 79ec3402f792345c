package ratelimit

import (
	"context"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Limiter answers whether one more request under key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter implements a leaky bucket per key for single-instance runs.
type MemoryLimiter struct {
	limit int
	burst int
	store map[string]*bucket
	mu    sync.Mutex
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewMemoryLimiter builds the in-process limiter.
func NewMemoryLimiter(limit, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		limit: limit,
		burst: burst,
		store: make(map[string]*bucket),
	}
}

// Allow implements Limiter.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	b, ok := m.store[key]
	if !ok {
		m.store[key] = &bucket{tokens: float64(m.limit + m.burst - 1), last: now}
		return true, nil
	}
	refill := now.Sub(b.last).Minutes() * float64(m.limit)
	b.tokens = min(float64(m.limit+m.burst), b.tokens+refill)
	b.last = now
	if b.tokens >= 1 {
		b.tokens--
		return true, nil
	}
	return false, nil
}

// RedisLimiter coordinates distributed throttling with a fixed window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	prefix string
}

// NewRedisLimiter builds the redis-backed limiter.
func NewRedisLimiter(client *redis.Client, limit int, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, prefix: prefix}
}

// Allow implements Limiter.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := r.prefix + ":" + key
	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// First hit in the window owns the expiry.
		if err := r.client.Expire(ctx, redisKey, time.Minute).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(r.limit), nil
}
