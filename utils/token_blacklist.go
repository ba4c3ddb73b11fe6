package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "jwt:blacklist:"

// TokenBlacklist records revoked tokens until they would have expired.
// It uses Redis when a client is given and an in-memory map otherwise.
type TokenBlacklist struct {
	rc  *redis.Client
	mu  sync.Mutex
	mem map[string]time.Time
	now func() time.Time
}

// NewTokenBlacklist returns a blacklist; rc may be nil.
func NewTokenBlacklist(rc *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rc: rc, mem: map[string]time.Time{}, now: time.Now}
}

// Revoke blacklists token until expiresAt.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return b.rc.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
	}
	b.mu.Lock()
	b.mem[token] = expiresAt
	b.mu.Unlock()
	return nil
}

// IsRevoked reports whether token was revoked before its natural expiry.
// Redis errors fail open.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := b.rc.Exists(ctx, blacklistPrefix+token).Result()
		return err == nil && n > 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.mem[token]
	if !ok {
		return false
	}
	if b.now().After(exp) {
		delete(b.mem, token)
		return false
	}
	return true
}
