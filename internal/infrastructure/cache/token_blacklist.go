package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes bearer tokens before they expire.
type TokenBlacklist interface {
	// AddToBlacklist revokes a single token ID for ttl.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// AddUserTokensToBlacklist revokes every token issued to userID up to now.
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error
	IsUserTokenInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const blacklistPrefix = "stagelink:token:"

// RedisTokenBlacklist shares revocations across API instances.
type RedisTokenBlacklist struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisTokenBlacklist(client redis.Cmdable) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client, now: time.Now}
}

func jtiKey(jti string) string     { return blacklistPrefix + "jti:" + jti }
func userKey(userID string) string { return blacklistPrefix + "user:" + userID }

func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return n > 0, nil
}

// AddUserTokensToBlacklist stores the invalidation time in unix seconds, the
// resolution of the iat claim.
func (b *RedisTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, userKey(userID), b.now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("invalidate user tokens: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user token invalidation: %w", err)
	}
	invalidatedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse invalidation timestamp: %w", err)
	}
	return issuedAt.Unix() <= invalidatedAt, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is a single-instance TokenBlacklist used when Redis is disabled.
// Expired entries are swept on writes at most once per sweepInterval.
type InMemoryTokenBlacklist struct {
	mu        sync.Mutex
	jtis      map[string]time.Time
	users     map[string]userInvalidation
	now       func() time.Time
	nextSweep time.Time
}

const sweepInterval = time.Minute

type userInvalidation struct {
	at        int64
	expiresAt time.Time
}

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		jtis:  make(map[string]time.Time),
		users: make(map[string]userInvalidation),
		now:   time.Now,
	}
}

func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.sweep(now)
	b.jtis[jti] = now.Add(ttl)
	return nil
}

func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	expiresAt, ok := b.jtis[jti]
	if !ok {
		return false, nil
	}
	if !b.now().Before(expiresAt) {
		delete(b.jtis, jti)
		return false, nil
	}
	return true, nil
}

func (b *InMemoryTokenBlacklist) AddUserTokensToBlacklist(_ context.Context, userID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.sweep(now)
	b.users[userID] = userInvalidation{at: now.Unix(), expiresAt: now.Add(ttl)}
	return nil
}

// sweep drops expired entries. Callers hold b.mu.
func (b *InMemoryTokenBlacklist) sweep(now time.Time) {
	if now.Before(b.nextSweep) {
		return
	}
	b.nextSweep = now.Add(sweepInterval)
	for jti, expiresAt := range b.jtis {
		if !now.Before(expiresAt) {
			delete(b.jtis, jti)
		}
	}
	for userID, entry := range b.users {
		if !now.Before(entry.expiresAt) {
			delete(b.users, userID)
		}
	}
}

func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.users[userID]
	if !ok {
		return false, nil
	}
	if !b.now().Before(entry.expiresAt) {
		delete(b.users, userID)
		return false, nil
	}
	return issuedAt.Unix() <= entry.at, nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
