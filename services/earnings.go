package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hireloop/marketplace/models"
	"github.com/hireloop/marketplace/stores"
	"github.com/hireloop/marketplace/utils"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrBookingNotPaid   = errors.New("booking has not reached a revenue-bearing status")
)

const bpsDenominator = 10000

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

// CalculateEarnings computes the revenue split for one booking. The
// platform fee is charged on gross price; GST is charged on the platform
// fee, not on gross. Net is the residual, so the components always sum back
// to gross regardless of rounding.
func CalculateEarnings(grossAmount int64, chargesGST bool, platformFeeBps, gstBps int64) models.EarningsBreakdown {
	fee := ceilDiv(grossAmount*platformFeeBps, bpsDenominator)

	var gst int64
	if chargesGST {
		gst = ceilDiv(fee*gstBps, bpsDenominator)
	}

	return models.EarningsBreakdown{
		GrossAmount:       grossAmount,
		PlatformFeeAmount: fee,
		GSTAmount:         gst,
		NetAmount:         grossAmount - fee - gst,
	}
}

type EarningService struct {
	bookings  *stores.BookingRepository
	earnings  *stores.EarningRepository
	providers *stores.ProviderRepository
	plans     *stores.PlanRepository
	gstBps    int64
}

func CreateEarningService(bookings *stores.BookingRepository, earnings *stores.EarningRepository, providers *stores.ProviderRepository, plans *stores.PlanRepository, gstBps int64) *EarningService {
	return &EarningService{
		bookings:  bookings,
		earnings:  earnings,
		providers: providers,
		plans:     plans,
		gstBps:    gstBps,
	}
}

// RecordEarning creates the ledger row for a booking that has reached a
// revenue-bearing status. One row per booking: a second call returns the
// existing row, so replayed payment events are harmless.
func (s *EarningService) RecordEarning(ctx context.Context, bookingID string) (*models.Earning, error) {
	if existing, err := s.earnings.GetByBookingID(ctx, bookingID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !booking.IsRevenueBearing() {
		return nil, ErrBookingNotPaid
	}

	provider, plan, err := s.resolvePlan(ctx, booking.ProviderID)
	if err != nil {
		return nil, err
	}

	breakdown := CalculateEarnings(booking.PriceCents, provider.ChargesGST, plan.PlatformFeeBps, s.gstBps)
	now := time.Now()

	earning := &models.Earning{
		ID:                uuid.NewString(),
		BookingID:         booking.ID,
		ProviderID:        booking.ProviderID,
		GrossAmount:       breakdown.GrossAmount,
		PlatformFeeAmount: breakdown.PlatformFeeAmount,
		GSTAmount:         breakdown.GSTAmount,
		NetAmount:         breakdown.NetAmount,
		PlatformFeeBps:    plan.PlatformFeeBps,
		Currency:          booking.Currency,
		Status:            models.EarningStatusHeld,
		PaidAt:            &now,
	}

	if err := s.earnings.Create(ctx, earning); err != nil {
		// A concurrent recorder won the unique booking_id index; theirs is
		// the authoritative row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.earnings.GetByBookingID(ctx, bookingID)
		}
		return nil, err
	}

	utils.Info(ctx, "earning recorded", map[string]interface{}{
		"booking_id": booking.ID,
		"provider":   booking.ProviderID,
		"gross":      breakdown.GrossAmount,
		"fee":        breakdown.PlatformFeeAmount,
		"gst":        breakdown.GSTAmount,
		"net":        breakdown.NetAmount,
	})

	return earning, nil
}

// ReleaseEarning moves a held earning to awaiting_payout once the service
// has been delivered. Already-released rows are left alone.
func (s *EarningService) ReleaseEarning(ctx context.Context, bookingID string) error {
	earning, err := s.earnings.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if earning.Status != models.EarningStatusHeld {
		return nil
	}
	earning.Status = models.EarningStatusAwaitingPayout
	return s.earnings.Update(ctx, earning)
}

func (s *EarningService) resolvePlan(ctx context.Context, providerID string) (*models.Provider, *models.Plan, error) {
	provider, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProviderNotFound
		}
		return nil, nil, err
	}

	plan, err := s.plans.GetByID(ctx, provider.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPlanNotFound
		}
		return nil, nil, err
	}

	return provider, plan, nil
}
