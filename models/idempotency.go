package models

import (
	"encoding/json"
	"time"
)

type IdempotencyState string

const (
	IdempotencyStatePending   IdempotencyState = "pending"
	IdempotencyStateCompleted IdempotencyState = "completed"
)

// IdempotencyRecord is the value stored against an idempotency key in the
// key-value store. A pending record marks an in-flight execution; a
// completed record carries the stored result replayed to duplicate callers.
type IdempotencyRecord struct {
	State       IdempotencyState `json:"state"`
	Result      json.RawMessage  `json:"result,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}
