package stores

import (
	"context"

	"github.com/hireloop/marketplace/models"
	"gorm.io/gorm"
)

type ProviderRepository struct {
	BaseStore
}

func CreateProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{BaseStore: BaseStore{db: db}}
}

func (r *ProviderRepository) Create(ctx context.Context, provider *models.Provider) error {
	return r.GetDB(ctx).Create(provider).Error
}

func (r *ProviderRepository) Update(ctx context.Context, provider *models.Provider) error {
	return r.GetDB(ctx).Save(provider).Error
}

func (r *ProviderRepository) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	var provider models.Provider
	if err := r.GetDB(ctx).First(&provider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}

func (r *ProviderRepository) GetByStripeAccount(ctx context.Context, accountID string) (*models.Provider, error) {
	var provider models.Provider
	if err := r.GetDB(ctx).First(&provider, "stripe_account_id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}
