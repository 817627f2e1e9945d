package security

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := CreateRateLimiter(nil)
	ctx := context.Background()

	t.Run("Allow within limit", func(t *testing.T) {
		config := RateLimitConfig{Limit: 3, Window: time.Minute}
		for i := 0; i < 3; i++ {
			result := limiter.Allow(ctx, "key-1", config)
			if !result.Allowed {
				t.Errorf("request %d should be allowed", i+1)
			}
		}
	})

	t.Run("Block after limit with retry delay", func(t *testing.T) {
		config := RateLimitConfig{Limit: 3, Window: time.Minute}
		for i := 0; i < 3; i++ {
			limiter.Allow(ctx, "key-2", config)
		}

		result := limiter.Allow(ctx, "key-2", config)
		if result.Allowed {
			t.Error("request over the limit should be blocked")
		}
		if result.RetryAfter < 1 {
			t.Errorf("RetryAfter = %d, want >= 1", result.RetryAfter)
		}
	})

	t.Run("Distinct keys count separately", func(t *testing.T) {
		config := RateLimitConfig{Limit: 1, Window: time.Minute}
		if result := limiter.Allow(ctx, "key-3a", config); !result.Allowed {
			t.Error("first request on key-3a should be allowed")
		}
		if result := limiter.Allow(ctx, "key-3b", config); !result.Allowed {
			t.Error("first request on key-3b should be allowed")
		}
	})
}

func TestRateLimiter_WindowReset(t *testing.T) {
	limiter := CreateRateLimiter(nil)
	ctx := context.Background()
	config := RateLimitConfig{Limit: 2, Window: 50 * time.Millisecond}

	limiter.Allow(ctx, "key-reset", config)
	limiter.Allow(ctx, "key-reset", config)

	if result := limiter.Allow(ctx, "key-reset", config); result.Allowed {
		t.Error("request over the limit should be blocked")
	}

	time.Sleep(60 * time.Millisecond)

	if result := limiter.Allow(ctx, "key-reset", config); !result.Allowed {
		t.Error("request after window reset should be allowed")
	}
}

func TestRateLimiter_RemainingCount(t *testing.T) {
	limiter := CreateRateLimiter(nil)
	ctx := context.Background()
	config := RateLimitConfig{Limit: 3, Window: time.Minute}

	result := limiter.Allow(ctx, "key-remaining", config)
	if result.Remaining != 2 {
		t.Errorf("Remaining = %d, want 2", result.Remaining)
	}
}
