package models

import (
	"errors"
	"testing"
)

var allStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusAccepted,
	BookingStatusDeclined,
	BookingStatusPaid,
	BookingStatusCompleted,
	BookingStatusCanceledCustomer,
	BookingStatusCanceledProvider,
	BookingStatusDisputed,
	BookingStatusRefunded,
}

var allowedPairs = map[[2]BookingStatus]bool{
	{BookingStatusPending, BookingStatusAccepted}:          true,
	{BookingStatusPending, BookingStatusDeclined}:          true,
	{BookingStatusAccepted, BookingStatusPaid}:             true,
	{BookingStatusAccepted, BookingStatusCanceledCustomer}: true,
	{BookingStatusAccepted, BookingStatusCanceledProvider}: true,
	{BookingStatusPaid, BookingStatusCompleted}:            true,
	{BookingStatusPaid, BookingStatusDisputed}:             true,
	{BookingStatusPaid, BookingStatusRefunded}:             true,
	{BookingStatusCompleted, BookingStatusDisputed}:        true,
	{BookingStatusDisputed, BookingStatusRefunded}:         true,
	{BookingStatusDisputed, BookingStatusCompleted}:        true,
}

func TestAssertTransition_Table(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			got, err := AssertTransition(from, to)

			switch {
			case from == to:
				if err != nil {
					t.Errorf("AssertTransition(%s, %s) error = %v, want no-op success", from, to, err)
				}
				if got != from {
					t.Errorf("AssertTransition(%s, %s) = %s, want %s", from, to, got, from)
				}
			case allowedPairs[[2]BookingStatus{from, to}]:
				if err != nil {
					t.Errorf("AssertTransition(%s, %s) error = %v, want success", from, to, err)
				}
				if got != to {
					t.Errorf("AssertTransition(%s, %s) = %s, want %s", from, to, got, to)
				}
			default:
				var invalid *InvalidTransitionError
				if !errors.As(err, &invalid) {
					t.Errorf("AssertTransition(%s, %s) error = %v, want InvalidTransitionError", from, to, err)
					continue
				}
				if invalid.From != from || invalid.To != to {
					t.Errorf("InvalidTransitionError = %s -> %s, want %s -> %s", invalid.From, invalid.To, from, to)
				}
				if got != from {
					t.Errorf("AssertTransition(%s, %s) = %s, want unchanged %s", from, to, got, from)
				}
			}
		}
	}
}

func TestAssertTransition_SkippingStatesRejected(t *testing.T) {
	if _, err := AssertTransition(BookingStatusPending, BookingStatusPaid); err == nil {
		t.Error("pending -> paid should be rejected")
	}
	if _, err := AssertTransition(BookingStatusAccepted, BookingStatusCompleted); err == nil {
		t.Error("accepted -> completed should be rejected")
	}
}

func TestAssertTransition_DisputeFlowReachableAfterCompletion(t *testing.T) {
	status := BookingStatusCompleted

	status, err := AssertTransition(status, BookingStatusDisputed)
	if err != nil {
		t.Fatalf("completed -> disputed error = %v", err)
	}

	if _, err := AssertTransition(status, BookingStatusRefunded); err != nil {
		t.Errorf("disputed -> refunded error = %v", err)
	}
	if _, err := AssertTransition(status, BookingStatusCompleted); err != nil {
		t.Errorf("disputed -> completed (resolved for provider) error = %v", err)
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	terminal := []BookingStatus{
		BookingStatusDeclined,
		BookingStatusCanceledCustomer,
		BookingStatusCanceledProvider,
		BookingStatusRefunded,
	}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	// completed keeps the dispute exit, so it is not fully terminal.
	if BookingStatusCompleted.IsTerminal() {
		t.Error("completed must keep the dispute transition")
	}
}

func TestBookingStatus_Valid(t *testing.T) {
	for _, s := range allStatuses {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if BookingStatus("shipped").Valid() {
		t.Error("unknown status should be invalid")
	}
}
