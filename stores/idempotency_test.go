package stores

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hireloop/marketplace/cache"
)

func newTestStore() (*IdempotencyStore, *cache.MemoryStore) {
	kv := cache.CreateMemoryStore()
	store := CreateIdempotencyStore(kv)
	store.pollInterval = 5 * time.Millisecond
	return store, kv
}

func TestWithIdempotency_ExecutesOnce(t *testing.T) {
	store, kv := newTestStore()
	defer kv.Close()
	ctx := context.Background()

	executions := 0
	op := func(ctx context.Context) (interface{}, error) {
		executions++
		return map[string]string{"booking_id": "b-1"}, nil
	}

	first, err := store.WithIdempotency(ctx, "k", time.Minute, op)
	if err != nil {
		t.Fatalf("WithIdempotency() error = %v", err)
	}
	if first.Replayed {
		t.Error("first call should not be replayed")
	}

	second, err := store.WithIdempotency(ctx, "k", time.Minute, op)
	if err != nil {
		t.Fatalf("WithIdempotency() error = %v", err)
	}
	if !second.Replayed {
		t.Error("second call should be replayed")
	}
	if string(first.Result) != string(second.Result) {
		t.Errorf("replayed result = %s, want %s", second.Result, first.Result)
	}
	if executions != 1 {
		t.Errorf("executions = %d, want 1", executions)
	}
}

func TestWithIdempotency_ReexecutesAfterTTL(t *testing.T) {
	store, kv := newTestStore()
	defer kv.Close()
	ctx := context.Background()

	executions := 0
	op := func(ctx context.Context) (interface{}, error) {
		executions++
		return executions, nil
	}

	if _, err := store.WithIdempotency(ctx, "k", 20*time.Millisecond, op); err != nil {
		t.Fatalf("WithIdempotency() error = %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	result, err := store.WithIdempotency(ctx, "k", 20*time.Millisecond, op)
	if err != nil {
		t.Fatalf("WithIdempotency() error = %v", err)
	}
	if result.Replayed {
		t.Error("call after TTL should re-execute")
	}
	if executions != 2 {
		t.Errorf("executions = %d, want 2", executions)
	}
}

func TestWithIdempotency_FailureIsNotCached(t *testing.T) {
	store, kv := newTestStore()
	defer kv.Close()
	ctx := context.Background()

	opErr := errors.New("processor unavailable")
	executions := 0
	op := func(ctx context.Context) (interface{}, error) {
		executions++
		if executions == 1 {
			return nil, opErr
		}
		return "ok", nil
	}

	if _, err := store.WithIdempotency(ctx, "k", time.Minute, op); !errors.Is(err, opErr) {
		t.Fatalf("WithIdempotency() error = %v, want %v", err, opErr)
	}

	result, err := store.WithIdempotency(ctx, "k", time.Minute, op)
	if err != nil {
		t.Fatalf("retry after failure error = %v", err)
	}
	if result.Replayed {
		t.Error("retry after failure should execute, not replay")
	}
	if executions != 2 {
		t.Errorf("executions = %d, want 2", executions)
	}
}

func TestWithIdempotency_ConcurrentCallersExecuteOnce(t *testing.T) {
	store, kv := newTestStore()
	defer kv.Close()
	ctx := context.Background()

	var executions int32
	op := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&executions, 1)
		time.Sleep(20 * time.Millisecond)
		return "done", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.WithIdempotency(ctx, "k", time.Minute, op)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d error = %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Errorf("executions = %d, want 1", got)
	}
}

func TestWithIdempotency_DistinctKeysDoNotCollide(t *testing.T) {
	store, kv := newTestStore()
	defer kv.Close()
	ctx := context.Background()

	executions := 0
	op := func(ctx context.Context) (interface{}, error) {
		executions++
		return executions, nil
	}

	if _, err := store.WithIdempotency(ctx, "evt_1", time.Minute, op); err != nil {
		t.Fatalf("WithIdempotency() error = %v", err)
	}
	if _, err := store.WithIdempotency(ctx, "evt_2", time.Minute, op); err != nil {
		t.Fatalf("WithIdempotency() error = %v", err)
	}
	if executions != 2 {
		t.Errorf("executions = %d, want 2", executions)
	}
}
