package stores

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hireloop/marketplace/cache"
	"github.com/hireloop/marketplace/models"
)

var (
	ErrIdempotencyInProgress = errors.New("idempotent operation still in progress")
	ErrIdempotencyCorrupt    = errors.New("idempotency record is not valid JSON")
)

const (
	defaultLockTTL      = time.Minute
	defaultPollInterval = 50 * time.Millisecond
)

// IdempotencyStore deduplicates execution of keyed operations. The first
// caller for a key claims it with an atomic SetNX and runs the operation;
// concurrent and later callers for the same key get the stored result back
// without re-executing. Keys live in the fast key-value store, separate
// from the relational ledger.
type IdempotencyStore struct {
	kv           cache.Store
	lockTTL      time.Duration
	pollInterval time.Duration
}

func CreateIdempotencyStore(kv cache.Store) *IdempotencyStore {
	return &IdempotencyStore{
		kv:           kv,
		lockTTL:      defaultLockTTL,
		pollInterval: defaultPollInterval,
	}
}

// IdempotencyResult carries the stored outcome and whether it was replayed
// from a previous execution rather than computed by this call.
type IdempotencyResult struct {
	Result   json.RawMessage
	Replayed bool
}

// WithIdempotency executes op at most once per key within the TTL.
//
// Losing a SetNX race means another caller is executing the same logical
// operation right now; we poll for its result instead of re-executing. If
// the winner fails, its pending claim is released and a poller may claim
// the key and retry the operation itself. Operation failures are never
// cached: a failed execution leaves no record, so the caller's retry runs
// the operation again.
func (s *IdempotencyStore) WithIdempotency(ctx context.Context, key string, ttl time.Duration, op func(context.Context) (interface{}, error)) (*IdempotencyResult, error) {
	deadline := time.Now().Add(s.lockTTL)

	for {
		record, err := s.load(ctx, key)
		if err != nil && err != cache.ErrCacheMiss {
			return nil, err
		}

		if record != nil && record.State == models.IdempotencyStateCompleted {
			return &IdempotencyResult{Result: record.Result, Replayed: true}, nil
		}

		if record == nil {
			claimed, err := s.claim(ctx, key)
			if err != nil {
				return nil, err
			}
			if claimed {
				return s.execute(ctx, key, ttl, op)
			}
		}

		// Someone else holds the pending claim; wait for their result.
		if time.Now().After(deadline) {
			return nil, ErrIdempotencyInProgress
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *IdempotencyStore) load(ctx context.Context, key string) (*models.IdempotencyRecord, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var record models.IdempotencyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, ErrIdempotencyCorrupt
	}
	return &record, nil
}

func (s *IdempotencyStore) claim(ctx context.Context, key string) (bool, error) {
	pending := models.IdempotencyRecord{
		State:     models.IdempotencyStatePending,
		StartedAt: time.Now(),
	}
	raw, err := json.Marshal(pending)
	if err != nil {
		return false, err
	}
	// The pending claim expires after lockTTL so a crashed winner cannot
	// wedge the key forever.
	return s.kv.SetNX(ctx, key, string(raw), s.lockTTL)
}

func (s *IdempotencyStore) execute(ctx context.Context, key string, ttl time.Duration, op func(context.Context) (interface{}, error)) (*IdempotencyResult, error) {
	result, err := op(ctx)
	if err != nil {
		// Release the claim; the operation left no partial state behind, so
		// a retry is safe.
		if delErr := s.kv.Delete(ctx, key); delErr != nil {
			return nil, errors.Join(err, delErr)
		}
		return nil, err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	completed := models.IdempotencyRecord{
		State:       models.IdempotencyStateCompleted,
		Result:      resultJSON,
		StartedAt:   now,
		CompletedAt: &now,
	}
	raw, err := json.Marshal(completed)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, key, string(raw), ttl); err != nil {
		return nil, err
	}

	return &IdempotencyResult{Result: resultJSON, Replayed: false}, nil
}
