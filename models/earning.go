package models

import (
	"time"
)

type EarningStatus string

const (
	EarningStatusHeld           EarningStatus = "held"
	EarningStatusAwaitingPayout EarningStatus = "awaiting_payout"
	EarningStatusPaidOut        EarningStatus = "paid_out"
)

// Earning is the ledger row for one revenue-bearing booking. The invariant
// GrossAmount == PlatformFeeAmount + GSTAmount + NetAmount holds at creation
// and after every refund mutation. PlatformFeeBps records the rate actually
// charged so later refunds apportion against it, not the provider's current
// plan.
type Earning struct {
	ID                string        `json:"id" gorm:"primaryKey;type:uuid"`
	BookingID         string        `json:"booking_id" gorm:"not null;uniqueIndex"`
	ProviderID        string        `json:"provider_id" gorm:"not null;index"`
	GrossAmount       int64         `json:"gross_amount" gorm:"not null"`
	PlatformFeeAmount int64         `json:"platform_fee_amount" gorm:"not null"`
	GSTAmount         int64         `json:"gst_amount" gorm:"not null"`
	NetAmount         int64         `json:"net_amount" gorm:"not null"`
	PlatformFeeBps    int64         `json:"platform_fee_bps" gorm:"not null"`
	Currency          string        `json:"currency" gorm:"not null;default:'AUD'"`
	Status            EarningStatus `json:"status" gorm:"not null;default:'held';index"`
	PayoutID          *string       `json:"payout_id" gorm:"index"`
	PaidAt            *time.Time    `json:"paid_at"`
	CreatedAt         time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// BucketTime is the timestamp used for trailing-window aggregation: the paid
// timestamp when present, otherwise creation time.
func (e *Earning) BucketTime() time.Time {
	if e.PaidAt != nil {
		return *e.PaidAt
	}
	return e.CreatedAt
}

type EarningsBreakdown struct {
	GrossAmount       int64 `json:"gross_amount"`
	PlatformFeeAmount int64 `json:"platform_fee_amount"`
	GSTAmount         int64 `json:"gst_amount"`
	NetAmount         int64 `json:"net_amount"`
}

type EarningsTotals struct {
	GrossAmount       int64 `json:"gross_amount"`
	PlatformFeeAmount int64 `json:"platform_fee_amount"`
	GSTAmount         int64 `json:"gst_amount"`
	NetAmount         int64 `json:"net_amount"`
	Count             int   `json:"count"`
}

func (t *EarningsTotals) Add(e *Earning) {
	t.GrossAmount += e.GrossAmount
	t.PlatformFeeAmount += e.PlatformFeeAmount
	t.GSTAmount += e.GSTAmount
	t.NetAmount += e.NetAmount
	t.Count++
}

type ProviderEarningsSummary struct {
	ProviderID        string         `json:"provider_id"`
	Lifetime          EarningsTotals `json:"lifetime"`
	Last30Days        EarningsTotals `json:"last_30_days"`
	PendingPayoutsNet int64          `json:"pending_payouts_net"`
	PaidOutNet        int64          `json:"paid_out_net"`
}

type EarningResponse struct {
	Earning *Earning `json:"earning"`
}
