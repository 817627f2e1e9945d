package models

import (
	"time"
)

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusCompleted RefundStatus = "completed"
	RefundStatusFailed    RefundStatus = "failed"
)

// Refund records one reduction against a booking's collected amount.
// PlatformFeeRefunded + ProviderAmountRefunded == Amount exactly; the sum of
// completed refund amounts for a booking never exceeds the booking price.
// ProviderRefundID is the processor's refund object id; the unique index
// guarantees each processor refund lands on the ledger at most once however
// many webhook deliveries describe it.
type Refund struct {
	ID                     string       `json:"id" gorm:"primaryKey;type:uuid"`
	BookingID              string       `json:"booking_id" gorm:"not null;index"`
	Amount                 int64        `json:"amount" gorm:"not null"`
	Reason                 string       `json:"reason"`
	PlatformFeeRefunded    int64        `json:"platform_fee_refunded" gorm:"not null"`
	ProviderAmountRefunded int64        `json:"provider_amount_refunded" gorm:"not null"`
	Status                 RefundStatus `json:"status" gorm:"not null;default:'pending';index"`
	ProviderRefundID       *string      `json:"provider_refund_id,omitempty" gorm:"uniqueIndex"`
	ProcessedAt            *time.Time   `json:"processed_at"`
	CreatedAt              time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt              time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

type ProcessRefundRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

type RefundResponse struct {
	Refund *Refund `json:"refund"`
}
