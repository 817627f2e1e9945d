package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Store is the key-value backing for the idempotency layer and the rate
// limiter. Two implementations exist: RedisCache for cross-instance
// correctness and MemoryStore as an in-process fallback selected at startup
// or on Redis failure.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores the value only if the key is absent and reports whether
	// this call claimed the key. This is the atomic insert-if-absent that
	// serializes duplicate deliveries of the same logical event.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	// IncrWindow increments a fixed counting window, opening it with the
	// given duration on first increment, and returns the new count plus the
	// window reset time.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}
