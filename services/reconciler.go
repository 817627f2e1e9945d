package services

import (
	"context"
	"errors"
	"time"

	"github.com/hireloop/marketplace/models"
	"github.com/hireloop/marketplace/stores"
	"github.com/hireloop/marketplace/utils"
	"gorm.io/gorm"
)

const trailingWindow = 30 * 24 * time.Hour

type ReconcilerService struct {
	bookings  *stores.BookingRepository
	earnings  *stores.EarningRepository
	payouts   *stores.PayoutRepository
	providers *stores.ProviderRepository
	plans     *stores.PlanRepository
	gstBps    int64
}

func CreateReconcilerService(bookings *stores.BookingRepository, earnings *stores.EarningRepository, payouts *stores.PayoutRepository, providers *stores.ProviderRepository, plans *stores.PlanRepository, gstBps int64) *ReconcilerService {
	return &ReconcilerService{
		bookings:  bookings,
		earnings:  earnings,
		payouts:   payouts,
		providers: providers,
		plans:     plans,
		gstBps:    gstBps,
	}
}

// SummarizeEarnings folds ledger rows into provider totals. Pending payout
// is derived from lifetime earned net minus paid-out net, never stored, so
// it self-corrects as payouts settle.
func SummarizeEarnings(earnings []*models.Earning, paidOutNet int64, now time.Time) models.ProviderEarningsSummary {
	var summary models.ProviderEarningsSummary
	cutoff := now.Add(-trailingWindow)

	for _, e := range earnings {
		summary.Lifetime.Add(e)
		if e.BucketTime().After(cutoff) {
			summary.Last30Days.Add(e)
		}
	}

	summary.PaidOutNet = paidOutNet
	pending := summary.Lifetime.NetAmount - paidOutNet
	if pending < 0 {
		pending = 0
	}
	summary.PendingPayoutsNet = pending

	return summary
}

// GetProviderEarningsSummary aggregates the provider's ledger into
// lifetime, trailing-30-day, pending and paid-out totals. Bookings that are
// revenue-bearing but missing a ledger row (webhook gap) are recomputed on
// the fly and folded in; the recomputed figures affect only this read and
// are never persisted.
func (s *ReconcilerService) GetProviderEarningsSummary(ctx context.Context, providerID string) (*models.ProviderEarningsSummary, error) {
	provider, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	rows, err := s.earnings.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	fallbacks, err := s.gapFallbackRows(ctx, provider)
	if err != nil {
		return nil, err
	}
	rows = append(rows, fallbacks...)

	paidOutNet, err := s.payouts.SumCommittedByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	summary := SummarizeEarnings(rows, paidOutNet, time.Now())
	summary.ProviderID = providerID
	return &summary, nil
}

// gapFallbackRows recomputes earnings for bookings whose ledger row never
// arrived, using the booking price and the provider's current plan. The
// rows exist only in memory for this read.
func (s *ReconcilerService) gapFallbackRows(ctx context.Context, provider *models.Provider) ([]*models.Earning, error) {
	gaps, err := s.bookings.ListRevenueBearingWithoutEarning(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	if len(gaps) == 0 {
		return nil, nil
	}

	plan, err := s.plans.GetByID(ctx, provider.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	utils.Warn(ctx, "reconciler recomputing earnings for bookings missing ledger rows", map[string]interface{}{
		"provider_id": provider.ID,
		"count":       len(gaps),
	})

	rows := make([]*models.Earning, 0, len(gaps))
	for _, booking := range gaps {
		breakdown := CalculateEarnings(booking.PriceCents, provider.ChargesGST, plan.PlatformFeeBps, s.gstBps)
		rows = append(rows, &models.Earning{
			BookingID:         booking.ID,
			ProviderID:        provider.ID,
			GrossAmount:       breakdown.GrossAmount,
			PlatformFeeAmount: breakdown.PlatformFeeAmount,
			GSTAmount:         breakdown.GSTAmount,
			NetAmount:         breakdown.NetAmount,
			PlatformFeeBps:    plan.PlatformFeeBps,
			Currency:          booking.Currency,
			Status:            models.EarningStatusHeld,
			CreatedAt:         booking.CreatedAt,
		})
	}
	return rows, nil
}
