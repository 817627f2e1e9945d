package models

import (
	"time"
)

type PlanTier string

const (
	PlanTierBase    PlanTier = "base"
	PlanTierPremium PlanTier = "premium"
)

// Plan maps a provider subscription tier to the platform fee rate in basis
// points of gross booking price. The base tier pays a higher fee than
// premium.
type Plan struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name           string    `json:"name" gorm:"not null"`
	Tier           PlanTier  `json:"tier" gorm:"not null;uniqueIndex"`
	PlatformFeeBps int64     `json:"platform_fee_bps" gorm:"not null"`
	Active         bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type PlanResponse struct {
	Plan *Plan `json:"plan"`
}

type PlanListResponse struct {
	Plans []*Plan `json:"plans"`
	Total int     `json:"total"`
}
