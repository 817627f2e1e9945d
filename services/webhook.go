package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hireloop/marketplace/models"
	"github.com/hireloop/marketplace/stores"
	"github.com/hireloop/marketplace/utils"
	"gorm.io/gorm"
)

var ErrUnknownEventType = errors.New("unknown processor event type")

const defaultEventTTL = 24 * time.Hour

// ProcessorEventService applies payment-processor notifications to the
// ledger. Every event runs through the idempotency store keyed by the
// processor's event id, so redelivery replays the stored outcome instead of
// moving money twice.
type ProcessorEventService struct {
	bookings  *stores.BookingRepository
	earnings  *EarningService
	refunds   *RefundService
	payouts   *stores.PayoutRepository
	earnRepo  *stores.EarningRepository
	providers *stores.ProviderRepository
	idem      *stores.IdempotencyStore
	eventTTL  time.Duration
}

func CreateProcessorEventService(bookings *stores.BookingRepository, earnings *EarningService, refunds *RefundService, payouts *stores.PayoutRepository, earnRepo *stores.EarningRepository, providers *stores.ProviderRepository, idem *stores.IdempotencyStore, eventTTL time.Duration) *ProcessorEventService {
	if eventTTL <= 0 {
		eventTTL = defaultEventTTL
	}
	return &ProcessorEventService{
		bookings:  bookings,
		earnings:  earnings,
		refunds:   refunds,
		payouts:   payouts,
		earnRepo:  earnRepo,
		providers: providers,
		idem:      idem,
		eventTTL:  eventTTL,
	}
}

func (s *ProcessorEventService) HandleEvent(ctx context.Context, event *models.ProcessorEvent) error {
	key := "processor_event:" + event.ID
	result, err := s.idem.WithIdempotency(ctx, key, s.eventTTL, func(opCtx context.Context) (interface{}, error) {
		return s.apply(opCtx, event)
	})
	if err != nil {
		return err
	}
	if result.Replayed {
		utils.Debug(ctx, "processor event replayed from idempotency store", map[string]interface{}{
			"event_id":   event.ID,
			"event_type": string(event.Type),
		})
	}
	return nil
}

func (s *ProcessorEventService) apply(ctx context.Context, event *models.ProcessorEvent) (interface{}, error) {
	switch event.Type {
	case models.ProcessorEventPaymentSucceeded:
		return s.applyPaymentSucceeded(ctx, event)
	case models.ProcessorEventPaymentFailed:
		utils.Warn(ctx, "payment failed at processor", map[string]interface{}{
			"event_id":    event.ID,
			"booking_id":  event.BookingID,
			"payment_ref": event.PaymentRef,
		})
		return map[string]string{"status": "acknowledged"}, nil
	case models.ProcessorEventRefundIssued:
		refund, err := s.refunds.ProcessRefund(ctx, event.BookingID, event.Amount, event.Reason, event.RefundRef)
		if err != nil {
			return nil, err
		}
		return refund, nil
	case models.ProcessorEventPayoutSettled:
		return s.applyPayoutSettled(ctx, event, models.PayoutStatusPaid)
	case models.ProcessorEventPayoutFailed:
		return s.applyPayoutSettled(ctx, event, models.PayoutStatusFailed)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, event.Type)
	}
}

func (s *ProcessorEventService) applyPaymentSucceeded(ctx context.Context, event *models.ProcessorEvent) (interface{}, error) {
	var booking *models.Booking
	err := s.bookings.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if event.BookingID != "" {
			booking, err = s.bookings.GetByIDForUpdate(txCtx, event.BookingID)
		} else {
			booking, err = s.bookings.GetByPaymentRef(txCtx, event.PaymentRef)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		next, err := models.AssertTransition(booking.Status, models.BookingStatusPaid)
		if err != nil {
			return err
		}
		booking.Status = next
		booking.PaymentRef = event.PaymentRef
		return s.bookings.Update(txCtx, booking)
	})
	if err != nil {
		return nil, err
	}

	earning, err := s.earnings.RecordEarning(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	return earning, nil
}

// applyPayoutSettled upserts the payout row and, for committed payouts,
// marks unpaid earnings paid_out oldest first until the payout amount is
// covered.
func (s *ProcessorEventService) applyPayoutSettled(ctx context.Context, event *models.ProcessorEvent, status models.PayoutStatus) (interface{}, error) {
	providerID := event.ProviderID
	if providerID == "" {
		provider, err := s.providers.GetByStripeAccount(ctx, event.Account)
		if err != nil {
			return nil, ErrProviderNotFound
		}
		providerID = provider.ID
	}

	payout := &models.Payout{
		ID:          event.PayoutRef,
		ProviderID:  providerID,
		Amount:      event.Amount,
		Currency:    event.Currency,
		Status:      status,
		ArrivalDate: event.ArrivalDate,
	}

	err := s.payouts.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.payouts.Upsert(txCtx, payout); err != nil {
			return err
		}
		if !status.Committed() {
			return nil
		}

		unpaid, err := s.earnRepo.ListUnpaidByProviderForUpdate(txCtx, providerID)
		if err != nil {
			return err
		}

		covered := int64(0)
		for _, earning := range unpaid {
			if covered >= event.Amount {
				break
			}
			earning.Status = models.EarningStatusPaidOut
			earning.PayoutID = &payout.ID
			if err := s.earnRepo.Update(txCtx, earning); err != nil {
				return err
			}
			covered += earning.NetAmount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.Info(ctx, "payout applied", map[string]interface{}{
		"payout_id":   payout.ID,
		"provider_id": providerID,
		"amount":      event.Amount,
		"status":      string(status),
	})

	return payout, nil
}
