package stores

import (
	"context"

	"github.com/hireloop/marketplace/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EarningRepository struct {
	BaseStore
}

func CreateEarningRepository(db *gorm.DB) *EarningRepository {
	return &EarningRepository{BaseStore: BaseStore{db: db}}
}

func (r *EarningRepository) Create(ctx context.Context, earning *models.Earning) error {
	return r.GetDB(ctx).Create(earning).Error
}

func (r *EarningRepository) Update(ctx context.Context, earning *models.Earning) error {
	return r.GetDB(ctx).Save(earning).Error
}

func (r *EarningRepository) GetByBookingID(ctx context.Context, bookingID string) (*models.Earning, error) {
	var earning models.Earning
	if err := r.GetDB(ctx).First(&earning, "booking_id = ?", bookingID).Error; err != nil {
		return nil, err
	}
	return &earning, nil
}

func (r *EarningRepository) GetByBookingIDForUpdate(ctx context.Context, bookingID string) (*models.Earning, error) {
	var earning models.Earning
	err := r.GetDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&earning, "booking_id = ?", bookingID).Error
	if err != nil {
		return nil, err
	}
	return &earning, nil
}

func (r *EarningRepository) ListByProvider(ctx context.Context, providerID string) ([]*models.Earning, error) {
	var earnings []*models.Earning
	err := r.GetDB(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at ASC").
		Find(&earnings).Error
	if err != nil {
		return nil, err
	}
	return earnings, nil
}

// ListUnpaidByProviderForUpdate returns held and awaiting-payout earnings
// oldest first, row-locked, for payout application.
func (r *EarningRepository) ListUnpaidByProviderForUpdate(ctx context.Context, providerID string) ([]*models.Earning, error) {
	var earnings []*models.Earning
	err := r.GetDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("provider_id = ? AND status IN ?", providerID,
			[]models.EarningStatus{models.EarningStatusHeld, models.EarningStatusAwaitingPayout}).
		Order("created_at ASC").
		Find(&earnings).Error
	if err != nil {
		return nil, err
	}
	return earnings, nil
}
