package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hireloop/marketplace/models"
	"github.com/hireloop/marketplace/utils"
	"gorm.io/gorm"
)

var (
	ErrRefundExceedsBalance = errors.New("refund amount exceeds remaining unrefunded balance")
	ErrInvalidRefundAmount  = errors.New("refund amount must be positive")
	ErrEarningNotFound      = errors.New("earning not found for booking")
)

// ApportionRefund splits a refund between the platform fee and the provider
// amount, proportional to the fee rate actually charged on the booking. The
// provider share is the residual, so the two always sum to the refund
// amount exactly.
func ApportionRefund(refundAmount, platformFeeBps int64) (feeRefunded, providerRefunded int64) {
	feeRefunded = ceilDiv(refundAmount*platformFeeBps, bpsDenominator)
	providerRefunded = refundAmount - feeRefunded
	return feeRefunded, providerRefunded
}

type refundBookingStore interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
	GetByIDForUpdate(ctx context.Context, id string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
}

type refundEarningStore interface {
	GetByBookingIDForUpdate(ctx context.Context, bookingID string) (*models.Earning, error)
	Update(ctx context.Context, earning *models.Earning) error
}

type refundLedgerStore interface {
	Create(ctx context.Context, refund *models.Refund) error
	GetByProviderRefundID(ctx context.Context, providerRefundID string) (*models.Refund, error)
	TotalCompletedByBooking(ctx context.Context, bookingID string) (int64, error)
}

type RefundService struct {
	bookings refundBookingStore
	earnings refundEarningStore
	refunds  refundLedgerStore
}

func CreateRefundService(bookings refundBookingStore, earnings refundEarningStore, refunds refundLedgerStore) *RefundService {
	return &RefundService{
		bookings: bookings,
		earnings: earnings,
		refunds:  refunds,
	}
}

// ProcessRefund applies a partial or full refund against a booking's
// collected amount. The balance check, ledger mutation and refund row share
// one transaction with the booking and earning rows locked, so two
// concurrent refunds cannot both pass the check against a stale balance.
// On any failure nothing is committed.
//
// When providerRefundID is set the call is keyed to that processor refund:
// the same refund object delivered again, under any number of webhook
// events, replays the stored row instead of deducting twice.
func (s *RefundService) ProcessRefund(ctx context.Context, bookingID string, amount int64, reason, providerRefundID string) (*models.Refund, error) {
	if amount <= 0 {
		return nil, ErrInvalidRefundAmount
	}

	if providerRefundID != "" {
		existing, err := s.refunds.GetByProviderRefundID(ctx, providerRefundID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var refund *models.Refund
	err := s.bookings.WithTransaction(ctx, func(txCtx context.Context) error {
		booking, err := s.bookings.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		earning, err := s.earnings.GetByBookingIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEarningNotFound
			}
			return err
		}

		alreadyRefunded, err := s.refunds.TotalCompletedByBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		remaining := booking.PriceCents - alreadyRefunded
		if amount > remaining {
			return ErrRefundExceedsBalance
		}

		feeRefunded, providerRefunded := ApportionRefund(amount, earning.PlatformFeeBps)

		earning.GrossAmount -= amount
		earning.PlatformFeeAmount -= feeRefunded
		earning.NetAmount -= providerRefunded
		if err := s.earnings.Update(txCtx, earning); err != nil {
			return err
		}

		now := time.Now()
		refund = &models.Refund{
			ID:                     uuid.NewString(),
			BookingID:              bookingID,
			Amount:                 amount,
			Reason:                 reason,
			PlatformFeeRefunded:    feeRefunded,
			ProviderAmountRefunded: providerRefunded,
			Status:                 models.RefundStatusCompleted,
			ProcessedAt:            &now,
		}
		if providerRefundID != "" {
			refund.ProviderRefundID = &providerRefundID
		}
		if err := s.refunds.Create(txCtx, refund); err != nil {
			return err
		}

		// A fully refunded booking moves to refunded where the state machine
		// allows it. A completed booking keeps its status; it only reaches
		// refunded through the dispute flow.
		if amount == remaining && booking.Status.CanTransitionTo(models.BookingStatusRefunded) {
			booking.Status = models.BookingStatusRefunded
			if err := s.bookings.Update(txCtx, booking); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// A concurrent delivery of the same processor refund won the unique
		// provider_refund_id index; its row is the authoritative one.
		if errors.Is(err, gorm.ErrDuplicatedKey) && providerRefundID != "" {
			return s.refunds.GetByProviderRefundID(ctx, providerRefundID)
		}
		return nil, err
	}

	utils.Info(ctx, "refund processed", map[string]interface{}{
		"booking_id":      bookingID,
		"amount":          amount,
		"fee_refunded":    refund.PlatformFeeRefunded,
		"provider_refund": refund.ProviderAmountRefunded,
		"reason":          reason,
	})

	return refund, nil
}
