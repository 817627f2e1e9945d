package security

import (
	"context"
	"fmt"
	"time"

	"github.com/hireloop/marketplace/cache"
	"github.com/hireloop/marketplace/utils"
)

// RateLimiter bounds operation frequency per key with fixed-window
// counting. The primary store (Redis) gives cross-instance counts; when it
// errors the limiter degrades to the in-process fallback rather than
// failing the caller's request.
type RateLimiter struct {
	primary  cache.Store
	fallback cache.Store
}

type RateLimitConfig struct {
	Limit  int64
	Window time.Duration
}

type RateLimitResult struct {
	Allowed   bool
	Remaining int64
	// RetryAfter is the whole seconds until the window resets, at least 1
	// when the request was limited.
	RetryAfter int64
}

type RateLimitedError struct {
	RetryAfter int64
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfter)
}

// CreateRateLimiter builds a limiter over the primary store. primary may be
// nil when Redis is unavailable at startup; all traffic then counts in
// process.
func CreateRateLimiter(primary cache.Store) *RateLimiter {
	return &RateLimiter{
		primary:  primary,
		fallback: cache.CreateMemoryStore(),
	}
}

func (rl *RateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) RateLimitResult {
	store := rl.primary
	if store == nil {
		store = rl.fallback
	}

	count, resetAt, err := store.IncrWindow(ctx, key, config.Window)
	if err != nil && store != rl.fallback {
		utils.Warn(ctx, "rate limiter primary store failed, using in-process fallback", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		count, resetAt, err = rl.fallback.IncrWindow(ctx, key, config.Window)
	}
	if err != nil {
		// Counting is unavailable everywhere; let the request through
		// rather than hard-failing it.
		return RateLimitResult{Allowed: true, Remaining: 0}
	}

	if count <= config.Limit {
		return RateLimitResult{Allowed: true, Remaining: config.Limit - count}
	}

	retryAfter := int64((time.Until(resetAt) + time.Second - 1) / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}
	return RateLimitResult{Allowed: false, RetryAfter: retryAfter}
}
