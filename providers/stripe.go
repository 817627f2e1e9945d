package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/hireloop/marketplace/models"
	"github.com/hireloop/marketplace/utils"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/payout"
	"github.com/stripe/stripe-go/v76/webhook"
	"golang.org/x/time/rate"
)

// Stripe allows 100 read calls per second in live mode; pace ourselves well
// under that so reconciliation sweeps never trip the processor's limiter.
const stripeAPIRate = 25

type StripeProvider struct {
	apiKey        string
	webhookSecret string
	apiLimiter    *rate.Limiter
	retry         *utils.RetryConfig
}

func NewStripeProvider(apiKey, webhookSecret string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		apiLimiter:    rate.NewLimiter(rate.Limit(stripeAPIRate), stripeAPIRate),
		retry:         utils.DefaultRetryConfig(),
	}
}

func (p *StripeProvider) VerifyAndParseEvent(payload []byte, signature string) (*models.ProcessorEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return mapEvent(&event)
}

func mapEvent(event *stripe.Event) (*models.ProcessorEvent, error) {
	obj := event.Data.Object

	switch string(event.Type) {
	case "payment_intent.succeeded":
		return &models.ProcessorEvent{
			ID:         event.ID,
			Type:       models.ProcessorEventPaymentSucceeded,
			BookingID:  metadataString(obj, "booking_id"),
			PaymentRef: objString(obj, "id"),
			Amount:     objInt(obj, "amount_received"),
			Currency:   objString(obj, "currency"),
		}, nil

	case "payment_intent.payment_failed":
		return &models.ProcessorEvent{
			ID:         event.ID,
			Type:       models.ProcessorEventPaymentFailed,
			BookingID:  metadataString(obj, "booking_id"),
			PaymentRef: objString(obj, "id"),
			Currency:   objString(obj, "currency"),
		}, nil

	case "refund.created", "refund.updated":
		// Both lifecycle events describe the same refund object. Only its
		// terminal succeeded state moves money; a refund still pending at
		// creation is acknowledged and picked up again when it settles.
		if objString(obj, "status") != "succeeded" {
			return nil, fmt.Errorf("%w: %s refund %s", ErrUnhandledEvent,
				objString(obj, "status"), objString(obj, "id"))
		}
		bookingID := metadataString(obj, "booking_id")
		if bookingID == "" {
			return nil, ErrMissingBookingRef
		}
		return &models.ProcessorEvent{
			ID:        event.ID,
			Type:      models.ProcessorEventRefundIssued,
			BookingID: bookingID,
			RefundRef: objString(obj, "id"),
			Amount:    objInt(obj, "amount"),
			Currency:  objString(obj, "currency"),
			Reason:    objString(obj, "reason"),
		}, nil

	case "payout.paid":
		return payoutEvent(event, models.ProcessorEventPayoutSettled), nil

	case "payout.failed":
		return payoutEvent(event, models.ProcessorEventPayoutFailed), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnhandledEvent, event.Type)
}

func payoutEvent(event *stripe.Event, eventType models.ProcessorEventType) *models.ProcessorEvent {
	obj := event.Data.Object

	var arrival *time.Time
	if ts := objInt(obj, "arrival_date"); ts > 0 {
		t := time.Unix(ts, 0)
		arrival = &t
	}

	return &models.ProcessorEvent{
		ID:          event.ID,
		Type:        eventType,
		ProviderID:  metadataString(obj, "provider_id"),
		Account:     event.Account,
		PayoutRef:   objString(obj, "id"),
		Amount:      objInt(obj, "amount"),
		Currency:    objString(obj, "currency"),
		ArrivalDate: arrival,
	}
}

func (p *StripeProvider) ListPayouts(ctx context.Context, limit int64) ([]*models.Payout, error) {
	if err := p.apiLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var payouts []*models.Payout
	err := utils.Retry(ctx, p.retry, func() error {
		payouts = payouts[:0]

		params := &stripe.PayoutListParams{}
		params.Limit = stripe.Int64(limit)
		iter := payout.List(params)
		for iter.Next() {
			payouts = append(payouts, mapStripePayout(iter.Payout()))
		}
		return iter.Err()
	})
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

func mapStripePayout(po *stripe.Payout) *models.Payout {
	var arrival *time.Time
	if po.ArrivalDate > 0 {
		t := time.Unix(po.ArrivalDate, 0)
		arrival = &t
	}

	return &models.Payout{
		ID:          po.ID,
		ProviderID:  po.Metadata["provider_id"],
		Amount:      po.Amount,
		Currency:    string(po.Currency),
		Status:      mapStripePayoutStatus(po.Status),
		ArrivalDate: arrival,
	}
}

func mapStripePayoutStatus(status stripe.PayoutStatus) models.PayoutStatus {
	switch status {
	case stripe.PayoutStatusPaid:
		return models.PayoutStatusPaid
	case stripe.PayoutStatusInTransit:
		return models.PayoutStatusInTransit
	case stripe.PayoutStatusFailed, stripe.PayoutStatusCanceled:
		return models.PayoutStatusFailed
	default:
		return models.PayoutStatusPending
	}
}

func objString(obj map[string]interface{}, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func objInt(obj map[string]interface{}, key string) int64 {
	if v, ok := obj[key].(float64); ok {
		return int64(v)
	}
	return 0
}

func metadataString(obj map[string]interface{}, key string) string {
	metadata, ok := obj["metadata"].(map[string]interface{})
	if !ok {
		return ""
	}
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}
