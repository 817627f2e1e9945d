package models

import (
	"time"
)

// Provider is a marketplace service provider. ChargesGST drives whether GST
// is added on the platform fee for their bookings; PlanID resolves the fee
// rate.
type Provider struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name            string    `json:"name" gorm:"not null"`
	Email           string    `json:"email" gorm:"index"`
	PlanID          string    `json:"plan_id" gorm:"not null;index"`
	ChargesGST      bool      `json:"charges_gst" gorm:"not null;default:false"`
	StripeAccountID string    `json:"stripe_account_id" gorm:"index"`
	Active          bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type ProviderResponse struct {
	Provider *Provider `json:"provider"`
}
