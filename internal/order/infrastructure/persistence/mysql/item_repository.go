package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/stockkeeper/internal/order/domain"
)

// ItemRepository persists manual order items in MySQL. Insertion order is
// kept through the auto-increment sequence column.
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a MySQL-backed manual item repository.
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	var pos []ItemPO
	if err := r.db.WithContext(ctx).Order("seq").Find(&pos).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(pos))
	for i := range pos {
		items = append(items, toItem(&pos[i]))
	}
	return items, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *domain.Item) error {
	po := toItemPO(item)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&po).Error
}

func (r *ItemRepository) ReplaceAll(ctx context.Context, items []domain.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&ItemPO{}).Error; err != nil {
			return err
		}
		for i := range items {
			po := toItemPO(&items[i])
			if err := tx.Create(&po).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes one item; absent ids are a no-op.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&ItemPO{}, "id = ?", id).Error
}

func (r *ItemRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&ItemPO{}).Error
}
