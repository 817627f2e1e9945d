package models

import (
	"time"
)

type ProcessorEventType string

const (
	ProcessorEventPaymentSucceeded ProcessorEventType = "payment.succeeded"
	ProcessorEventPaymentFailed    ProcessorEventType = "payment.failed"
	ProcessorEventRefundIssued     ProcessorEventType = "refund.issued"
	ProcessorEventPayoutSettled    ProcessorEventType = "payout.settled"
	ProcessorEventPayoutFailed     ProcessorEventType = "payout.failed"
)

// ProcessorEvent is the processor-neutral form of an inbound payment
// notification. ID is the processor's own event identifier and doubles as
// the idempotency key, so redelivery of the same event is a no-op.
type ProcessorEvent struct {
	ID          string             `json:"id"`
	Type        ProcessorEventType `json:"type"`
	BookingID   string             `json:"booking_id,omitempty"`
	ProviderID  string             `json:"provider_id,omitempty"`
	Account     string             `json:"account,omitempty"`
	PaymentRef  string             `json:"payment_ref,omitempty"`
	RefundRef   string             `json:"refund_ref,omitempty"`
	PayoutRef   string             `json:"payout_ref,omitempty"`
	Amount      int64              `json:"amount,omitempty"`
	Currency    string             `json:"currency,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	ArrivalDate *time.Time         `json:"arrival_date,omitempty"`
}
