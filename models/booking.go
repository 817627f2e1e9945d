package models

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending          BookingStatus = "pending"
	BookingStatusAccepted         BookingStatus = "accepted"
	BookingStatusDeclined         BookingStatus = "declined"
	BookingStatusPaid             BookingStatus = "paid"
	BookingStatusCompleted        BookingStatus = "completed"
	BookingStatusCanceledCustomer BookingStatus = "canceled_customer"
	BookingStatusCanceledProvider BookingStatus = "canceled_provider"
	BookingStatusDisputed         BookingStatus = "disputed"
	BookingStatusRefunded         BookingStatus = "refunded"
)

// bookingTransitions is the single source of truth for legal status moves.
// completed and disputed keep an exit so the dispute/refund flow stays
// reachable after service delivery; every other terminal state is final.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusAccepted, BookingStatusDeclined},
	BookingStatusAccepted:  {BookingStatusPaid, BookingStatusCanceledCustomer, BookingStatusCanceledProvider},
	BookingStatusPaid:      {BookingStatusCompleted, BookingStatusDisputed, BookingStatusRefunded},
	BookingStatusCompleted: {BookingStatusDisputed},
	BookingStatusDisputed:  {BookingStatusRefunded, BookingStatusCompleted},
}

type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking transition: %s -> %s", e.From, e.To)
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusDeclined,
		BookingStatusPaid, BookingStatusCompleted, BookingStatusCanceledCustomer,
		BookingStatusCanceledProvider, BookingStatusDisputed, BookingStatusRefunded:
		return true
	}
	return false
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// AssertTransition validates a requested status change. Re-requesting the
// current status is a no-op success, so duplicate webhook deliveries and
// client retries never surface an error for an already-applied transition.
func AssertTransition(current, requested BookingStatus) (BookingStatus, error) {
	if requested == current {
		return current, nil
	}
	if current.CanTransitionTo(requested) {
		return requested, nil
	}
	return current, &InvalidTransitionError{From: current, To: requested}
}

type Booking struct {
	ID          string        `json:"id" gorm:"primaryKey;type:uuid"`
	CustomerID  string        `json:"customer_id" gorm:"not null;index"`
	ProviderID  string        `json:"provider_id" gorm:"not null;index"`
	ServiceName string        `json:"service_name"`
	Status      BookingStatus `json:"status" gorm:"not null;default:'pending';index"`
	PriceCents  int64         `json:"price_cents" gorm:"not null"`
	Currency    string        `json:"currency" gorm:"not null;default:'AUD'"`
	ScheduledAt *time.Time    `json:"scheduled_at"`
	PaymentRef  string        `json:"payment_ref" gorm:"index"`
	CompletedAt *time.Time    `json:"completed_at"`
	Metadata    JSON          `json:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// RevenueBearingStatuses are the states in which a booking is expected to
// have a ledger row.
var RevenueBearingStatuses = []BookingStatus{
	BookingStatusPaid,
	BookingStatusCompleted,
	BookingStatusDisputed,
}

func (b *Booking) IsRevenueBearing() bool {
	for _, s := range RevenueBearingStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

type CreateBookingRequest struct {
	CustomerID  string     `json:"customer_id"`
	ProviderID  string     `json:"provider_id"`
	ServiceName string     `json:"service_name"`
	PriceCents  int64      `json:"price_cents"`
	Currency    string     `json:"currency,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Metadata    JSON       `json:"metadata,omitempty"`
}

type TransitionRequest struct {
	TargetStatus BookingStatus `json:"target_status"`
}

type BookingResponse struct {
	Booking *Booking `json:"booking"`
}
