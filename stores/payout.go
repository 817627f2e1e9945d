package stores

import (
	"context"

	"github.com/hireloop/marketplace/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayoutRepository struct {
	BaseStore
}

func CreatePayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{BaseStore: BaseStore{db: db}}
}

// Upsert writes a payout keyed by the processor's payout id, so redelivered
// settlement events converge on one row.
func (r *PayoutRepository) Upsert(ctx context.Context, payout *models.Payout) error {
	return r.GetDB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "amount", "arrival_date", "updated_at"}),
		}).
		Create(payout).Error
}

func (r *PayoutRepository) GetByID(ctx context.Context, id string) (*models.Payout, error) {
	var payout models.Payout
	if err := r.GetDB(ctx).First(&payout, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *PayoutRepository) ListByProvider(ctx context.Context, providerID string) ([]*models.Payout, error) {
	var payouts []*models.Payout
	err := r.GetDB(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&payouts).Error
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

// SumCommittedByProvider totals payouts the processor has already committed
// (paid or in transit). Pending and failed payouts do not count.
func (r *PayoutRepository) SumCommittedByProvider(ctx context.Context, providerID string) (int64, error) {
	var total int64
	err := r.GetDB(ctx).
		Model(&models.Payout{}).
		Where("provider_id = ? AND status IN ?", providerID,
			[]models.PayoutStatus{models.PayoutStatusPaid, models.PayoutStatusInTransit}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
