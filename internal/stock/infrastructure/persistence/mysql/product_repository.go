package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
)

// ProductRepository persists products in MySQL.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a MySQL-backed product repository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetAll returns products ordered by insertion time, keeping query
// results stable across identical calls.
func (r *ProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	var pos []ProductPO
	if err := r.db.WithContext(ctx).Order("added_at, id").Find(&pos).Error; err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(pos))
	for i := range pos {
		products = append(products, toProduct(&pos[i]))
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return r.getOne(ctx, "barcode = ?", barcode)
}

func (r *ProductRepository) getOne(ctx context.Context, query string, arg string) (*domain.Product, error) {
	var po ProductPO
	err := r.db.WithContext(ctx).Where(query, arg).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := toProduct(&po)
	return &p, nil
}

func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	po := toProductPO(product)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&po).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&ProductPO{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
