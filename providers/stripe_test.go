package providers

import (
	"errors"
	"testing"

	"github.com/hireloop/marketplace/models"
	"github.com/stripe/stripe-go/v76"
)

func refundEvent(eventID, eventType, refundID, status string) *stripe.Event {
	return &stripe.Event{
		ID:   eventID,
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{
			Object: map[string]interface{}{
				"id":       refundID,
				"status":   status,
				"amount":   float64(2000),
				"currency": "aud",
				"reason":   "requested_by_customer",
				"metadata": map[string]interface{}{
					"booking_id": "b1",
				},
			},
		},
	}
}

// A refund object surfaces as both refund.created and refund.updated with
// distinct event ids. Only the terminal succeeded state may map to a
// money-moving event; everything else is ignored.
func TestMapEvent_RefundLifecycle(t *testing.T) {
	t.Run("pending creation is ignored", func(t *testing.T) {
		_, err := mapEvent(refundEvent("evt_1", "refund.created", "re_1", "pending"))
		if !errors.Is(err, ErrUnhandledEvent) {
			t.Fatalf("error = %v, want ErrUnhandledEvent", err)
		}
	})

	t.Run("succeeded refund maps", func(t *testing.T) {
		event, err := mapEvent(refundEvent("evt_2", "refund.updated", "re_1", "succeeded"))
		if err != nil {
			t.Fatalf("mapEvent error = %v", err)
		}
		if event.Type != models.ProcessorEventRefundIssued {
			t.Errorf("type = %s, want refund.issued", event.Type)
		}
		if event.RefundRef != "re_1" || event.BookingID != "b1" || event.Amount != 2000 {
			t.Errorf("mapped event = %+v", event)
		}
	})

	t.Run("failed update is ignored", func(t *testing.T) {
		_, err := mapEvent(refundEvent("evt_3", "refund.updated", "re_1", "failed"))
		if !errors.Is(err, ErrUnhandledEvent) {
			t.Fatalf("error = %v, want ErrUnhandledEvent", err)
		}
	})
}

func TestMapEvent_RefundRequiresBookingRef(t *testing.T) {
	event := refundEvent("evt_4", "refund.created", "re_2", "succeeded")
	delete(event.Data.Object["metadata"].(map[string]interface{}), "booking_id")

	if _, err := mapEvent(event); !errors.Is(err, ErrMissingBookingRef) {
		t.Fatalf("error = %v, want ErrMissingBookingRef", err)
	}
}

func TestMapEvent_PaymentSucceeded(t *testing.T) {
	event, err := mapEvent(&stripe.Event{
		ID:   "evt_5",
		Type: "payment_intent.succeeded",
		Data: &stripe.EventData{
			Object: map[string]interface{}{
				"id":              "pi_1",
				"amount_received": float64(5000),
				"currency":        "aud",
				"metadata": map[string]interface{}{
					"booking_id": "b1",
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("mapEvent error = %v", err)
	}
	if event.Type != models.ProcessorEventPaymentSucceeded || event.PaymentRef != "pi_1" || event.Amount != 5000 {
		t.Errorf("mapped event = %+v", event)
	}
}

func TestMapEvent_UnknownTypeRejected(t *testing.T) {
	_, err := mapEvent(&stripe.Event{
		ID:   "evt_6",
		Type: "customer.created",
		Data: &stripe.EventData{Object: map[string]interface{}{}},
	})
	if !errors.Is(err, ErrUnhandledEvent) {
		t.Fatalf("error = %v, want ErrUnhandledEvent", err)
	}
}
