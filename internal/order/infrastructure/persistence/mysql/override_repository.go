package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/stockkeeper/internal/order/domain"
)

// OverrideRepository persists suggestion overrides in MySQL.
type OverrideRepository struct {
	db *gorm.DB
}

// NewOverrideRepository creates a MySQL-backed override repository.
func NewOverrideRepository(db *gorm.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

func (r *OverrideRepository) Get(ctx context.Context, productID string) (*domain.Override, error) {
	var po OverridePO
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Override{
		ProductID:      po.ProductID,
		CustomQuantity: po.CustomQuantity,
		Hidden:         po.Hidden,
	}, nil
}

func (r *OverrideRepository) List(ctx context.Context) (map[string]domain.Override, error) {
	var pos []OverridePO
	if err := r.db.WithContext(ctx).Find(&pos).Error; err != nil {
		return nil, err
	}
	overrides := make(map[string]domain.Override, len(pos))
	for _, po := range pos {
		overrides[po.ProductID] = domain.Override{
			ProductID:      po.ProductID,
			CustomQuantity: po.CustomQuantity,
			Hidden:         po.Hidden,
		}
	}
	return overrides, nil
}

func (r *OverrideRepository) Put(ctx context.Context, override *domain.Override) error {
	po := OverridePO{
		ProductID:      override.ProductID,
		CustomQuantity: override.CustomQuantity,
		Hidden:         override.Hidden,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&po).Error
}

// Delete removes one override; absent product ids are a no-op.
func (r *OverrideRepository) Delete(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Delete(&OverridePO{}, "product_id = ?", productID).Error
}

func (r *OverrideRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&OverridePO{}).Error
}
