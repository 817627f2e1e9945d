package models

import (
	"time"
)

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusInTransit PayoutStatus = "in_transit"
	PayoutStatusPaid      PayoutStatus = "paid"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// Committed reports whether the processor has already committed the funds.
// Paid-out totals are sourced from committed payouts, not from ledger
// status, since ledger updates may lag settlement.
func (s PayoutStatus) Committed() bool {
	return s == PayoutStatusPaid || s == PayoutStatusInTransit
}

// Payout mirrors a transfer created by the payment processor's payout
// cycle. The engine references payouts, it never initiates them; the ID is
// the processor's payout identifier.
type Payout struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	ProviderID  string       `json:"provider_id" gorm:"not null;index"`
	Amount      int64        `json:"amount" gorm:"not null"`
	Currency    string       `json:"currency" gorm:"not null;default:'AUD'"`
	Status      PayoutStatus `json:"status" gorm:"not null;default:'pending';index"`
	ArrivalDate *time.Time   `json:"arrival_date"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

type PayoutResponse struct {
	Payout *Payout `json:"payout"`
}

type PayoutListResponse struct {
	Payouts []*Payout `json:"payouts"`
	Total   int       `json:"total"`
}
