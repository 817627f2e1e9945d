package utils

import (
	"context"
	"errors"
	"testing"
)

func TestRetry_Success(t *testing.T) {
	config := DefaultRetryConfig()
	ctx := context.Background()
	attempts := 0

	err := Retry(ctx, config, func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Retry() error = %v, want nil", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_EventualSuccess(t *testing.T) {
	config := DefaultRetryConfig()
	config.BaseDelay = 1
	ctx := context.Background()
	attempts := 0

	err := Retry(ctx, config, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Retry() error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_Exhausted(t *testing.T) {
	config := DefaultRetryConfig()
	config.BaseDelay = 1
	ctx := context.Background()
	permanent := errors.New("permanent error")
	attempts := 0

	err := Retry(ctx, config, func() error {
		attempts++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Errorf("Retry() error = %v, want %v", err, permanent)
	}
	if attempts != config.MaxAttempts {
		t.Errorf("attempts = %d, want %d", attempts, config.MaxAttempts)
	}
}

func TestRetry_ContextCanceled(t *testing.T) {
	config := DefaultRetryConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, config, func() error {
		return errors.New("always fails")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}
