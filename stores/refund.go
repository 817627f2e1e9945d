package stores

import (
	"context"

	"github.com/hireloop/marketplace/models"
	"gorm.io/gorm"
)

type RefundRepository struct {
	BaseStore
}

func CreateRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{BaseStore: BaseStore{db: db}}
}

func (r *RefundRepository) Create(ctx context.Context, refund *models.Refund) error {
	return r.GetDB(ctx).Create(refund).Error
}

func (r *RefundRepository) GetByID(ctx context.Context, id string) (*models.Refund, error) {
	var refund models.Refund
	if err := r.GetDB(ctx).First(&refund, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *RefundRepository) GetByProviderRefundID(ctx context.Context, providerRefundID string) (*models.Refund, error) {
	var refund models.Refund
	if err := r.GetDB(ctx).First(&refund, "provider_refund_id = ?", providerRefundID).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *RefundRepository) ListByBooking(ctx context.Context, bookingID string) ([]*models.Refund, error) {
	var refunds []*models.Refund
	if err := r.GetDB(ctx).Where("booking_id = ?", bookingID).Find(&refunds).Error; err != nil {
		return nil, err
	}
	return refunds, nil
}

// TotalCompletedByBooking sums completed refund amounts for the remaining
// balance check. Must be called inside the same transaction that writes the
// new refund row.
func (r *RefundRepository) TotalCompletedByBooking(ctx context.Context, bookingID string) (int64, error) {
	var total int64
	err := r.GetDB(ctx).
		Model(&models.Refund{}).
		Where("booking_id = ? AND status = ?", bookingID, models.RefundStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
