package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts hits per key in fixed windows.
type RateLimiter interface {
	// Allow records a hit for key and reports whether it is within the limit,
	// plus how many hits remain in the current window.
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

const rateLimitPrefix = "stagelink:ratelimit:"

// RedisRateLimiter uses INCR + EXPIRE on a key per window.
type RedisRateLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisRateLimiter(client redis.Cmdable, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

func (l *RedisRateLimiter) Limit() int { return l.limit }

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	redisKey := rateLimitPrefix + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit: %w", err)
	}
	count := int(incr.Val())
	return count <= l.limit, max(l.limit-count, 0), nil
}

// InMemoryRateLimiter is the single-instance fallback.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*fixedWindow
	now     func() time.Time
}

type fixedWindow struct {
	start time.Time
	count int
}

func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*fixedWindow),
		now:     time.Now,
	}
}

func (l *InMemoryRateLimiter) Limit() int { return l.limit }

func (l *InMemoryRateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.sweep(now)
		w = &fixedWindow{start: now}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.limit, max(l.limit-w.count, 0), nil
}

// sweep drops expired windows; called with mu held.
func (l *InMemoryRateLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
		}
	}
}
