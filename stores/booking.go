package stores

import (
	"context"

	"github.com/hireloop/marketplace/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	BaseStore
}

func CreateBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{BaseStore: BaseStore{db: db}}
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.GetDB(ctx).Create(booking).Error
}

func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return r.GetDB(ctx).Save(booking).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.GetDB(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByIDForUpdate takes a row lock so a status transition or refund cannot
// race another writer on the same booking.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.GetDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.GetDB(ctx).First(&booking, "payment_ref = ?", paymentRef).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	if err := r.GetDB(ctx).Where("customer_id = ?", customerID).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListRevenueBearingWithoutEarning finds bookings that should have a ledger
// row but do not, the known consequence of a missed or delayed webhook. The
// reconciler recomputes these read-time; nothing is persisted here.
func (r *BookingRepository) ListRevenueBearingWithoutEarning(ctx context.Context, providerID string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.GetDB(ctx).
		Joins("LEFT JOIN earnings ON earnings.booking_id = bookings.id").
		Where("bookings.provider_id = ?", providerID).
		Where("bookings.status IN ?", models.RevenueBearingStatuses).
		Where("earnings.id IS NULL").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
