package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hireloop/marketplace/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate brings the schema up to date for all ledger tables.
func Migrate(database *gorm.DB) error {
	err := database.AutoMigrate(
		&models.Plan{},
		&models.Provider{},
		&models.Booking{},
		&models.Earning{},
		&models.Refund{},
		&models.Payout{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %v", err)
	}

	return seedPlans(database)
}

// seedPlans inserts the default fee plans. Existing rows win so operators can
// adjust fee rates in place without a redeploy clobbering them.
func seedPlans(database *gorm.DB) error {
	plans := []models.Plan{
		{
			ID:             uuid.New().String(),
			Tier:           models.PlanTierBase,
			Name:           "Base",
			PlatformFeeBps: 1000,
			Active:         true,
		},
		{
			ID:             uuid.New().String(),
			Tier:           models.PlanTierPremium,
			Name:           "Premium",
			PlatformFeeBps: 500,
			Active:         true,
		},
	}

	for _, plan := range plans {
		err := database.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tier"}},
			DoNothing: true,
		}).Create(&plan).Error
		if err != nil {
			return fmt.Errorf("failed to seed %s plan: %v", plan.Tier, err)
		}
	}

	return nil
}
