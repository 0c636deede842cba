// Package ratelimit caps how often one caller may run one operation per day.
//
// Counters live in Redis under rate-limit:{operation}:{caller}. The first
// increment starts a 24h window; later increments never extend it, and
// rejected calls still count.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stcker/backend/internal/model"
)

const (
	keyPrefix = "rate-limit"
	Window    = 24 * time.Hour
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)

// Counter is the part of a Redis client the limiter needs.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type Limiter struct {
	store  Counter
	window time.Duration
}

func New(store Counter) *Limiter {
	return &Limiter{store: store, window: Window}
}

// Key identifies authenticated callers by user id and everyone else by
// network address.
func Key(operation string, identity *model.Identity, addr string) string {
	caller := addr
	if identity != nil {
		caller = identity.ID.String()
	}
	return fmt.Sprintf("%s:%s:%s", keyPrefix, operation, caller)
}

// Allow counts one call and returns ErrRateLimited once the count passes limit.
func (l *Limiter) Allow(ctx context.Context, operation string, limit int64, identity *model.Identity, addr string) error {
	key := Key(operation, identity, addr)

	count, err := l.store.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if count > limit {
		return ErrRateLimited
	}

	// Only the caller that created the key starts the window.
	if count == 1 {
		if err := l.store.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	return nil
}
