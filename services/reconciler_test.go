package services

import (
	"testing"
	"time"

	"github.com/hireloop/marketplace/models"
)

func earningFixture(net int64, status models.EarningStatus, bucketTime time.Time) *models.Earning {
	// Keep the exact-sum invariant in fixtures too.
	return &models.Earning{
		GrossAmount:       net + 110,
		PlatformFeeAmount: 100,
		GSTAmount:         10,
		NetAmount:         net,
		Status:            status,
		PaidAt:            &bucketTime,
	}
}

func TestSummarizeEarnings(t *testing.T) {
	now := time.Now()
	recent := now.Add(-24 * time.Hour)
	old := now.Add(-45 * 24 * time.Hour)

	earnings := []*models.Earning{
		earningFixture(4000, models.EarningStatusPaidOut, old),
		earningFixture(3000, models.EarningStatusAwaitingPayout, recent),
		earningFixture(2000, models.EarningStatusHeld, recent),
	}

	summary := SummarizeEarnings(earnings, 4000, now)

	if summary.Lifetime.NetAmount != 9000 {
		t.Errorf("lifetime net = %d, want 9000", summary.Lifetime.NetAmount)
	}
	if summary.Lifetime.Count != 3 {
		t.Errorf("lifetime count = %d, want 3", summary.Lifetime.Count)
	}
	if summary.Last30Days.NetAmount != 5000 {
		t.Errorf("last 30 days net = %d, want 5000", summary.Last30Days.NetAmount)
	}
	if summary.PaidOutNet != 4000 {
		t.Errorf("paid out net = %d, want 4000", summary.PaidOutNet)
	}
	if summary.PendingPayoutsNet != 5000 {
		t.Errorf("pending payouts net = %d, want 5000", summary.PendingPayoutsNet)
	}
}

func TestSummarizeEarnings_PendingIsDerivedNeverNegative(t *testing.T) {
	now := time.Now()
	earnings := []*models.Earning{
		earningFixture(1000, models.EarningStatusPaidOut, now),
	}

	// Paid-out total exceeds lifetime net, e.g. a payout settled before its
	// ledger row arrived. Pending clamps to zero instead of going negative.
	summary := SummarizeEarnings(earnings, 2500, now)
	if summary.PendingPayoutsNet != 0 {
		t.Errorf("pending payouts net = %d, want 0", summary.PendingPayoutsNet)
	}

	for _, paidOut := range []int64{0, 1, 999, 1000} {
		summary := SummarizeEarnings(earnings, paidOut, now)
		want := summary.Lifetime.NetAmount - paidOut
		if want < 0 {
			want = 0
		}
		if summary.PendingPayoutsNet != want {
			t.Errorf("paidOut=%d: pending = %d, want %d", paidOut, summary.PendingPayoutsNet, want)
		}
	}
}

func TestSummarizeEarnings_BucketFallsBackToCreation(t *testing.T) {
	now := time.Now()

	withoutPaidAt := &models.Earning{
		GrossAmount:       1110,
		PlatformFeeAmount: 100,
		GSTAmount:         10,
		NetAmount:         1000,
		Status:            models.EarningStatusHeld,
		CreatedAt:         now.Add(-2 * 24 * time.Hour),
	}

	summary := SummarizeEarnings([]*models.Earning{withoutPaidAt}, 0, now)
	if summary.Last30Days.NetAmount != 1000 {
		t.Errorf("last 30 days net = %d, want 1000 (creation-time bucketing)", summary.Last30Days.NetAmount)
	}
}

func TestSummarizeEarnings_Empty(t *testing.T) {
	summary := SummarizeEarnings(nil, 0, time.Now())
	if summary.Lifetime.NetAmount != 0 || summary.PendingPayoutsNet != 0 || summary.PaidOutNet != 0 {
		t.Errorf("empty summary should be all zeros, got %+v", summary)
	}
}

// Gap fallback figures fold into the summary exactly like persisted rows:
// a booking priced at 5000 with a 500bps plan and GST contributes the same
// net whether its webhook arrived or not.
func TestSummarizeEarnings_FallbackRowsFoldIn(t *testing.T) {
	now := time.Now()

	persisted := earningFixture(4000, models.EarningStatusAwaitingPayout, now.Add(-time.Hour))

	breakdown := CalculateEarnings(5000, true, 500, testGSTBps)
	fallback := &models.Earning{
		GrossAmount:       breakdown.GrossAmount,
		PlatformFeeAmount: breakdown.PlatformFeeAmount,
		GSTAmount:         breakdown.GSTAmount,
		NetAmount:         breakdown.NetAmount,
		Status:            models.EarningStatusHeld,
		CreatedAt:         now.Add(-time.Hour),
	}

	summary := SummarizeEarnings([]*models.Earning{persisted, fallback}, 0, now)

	wantNet := int64(4000) + breakdown.NetAmount
	if summary.Lifetime.NetAmount != wantNet {
		t.Errorf("lifetime net = %d, want %d", summary.Lifetime.NetAmount, wantNet)
	}
	if summary.PendingPayoutsNet != wantNet {
		t.Errorf("pending = %d, want %d", summary.PendingPayoutsNet, wantNet)
	}
}
