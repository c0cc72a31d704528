// Package redis stores each collection as one JSON blob in the key-value
// store, mirroring the original deployment's storage model. Concurrent
// read-modify-write safety is provided by the application services.
package redis

import (
	"context"
	"fmt"

	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
	"github.com/wyfcoding/stockkeeper/pkg/cache"
)

const productsKey = "stockkeeper:products"

// ProductRepository persists the product collection in Redis.
type ProductRepository struct {
	kv *cache.RedisCache
}

// NewProductRepository creates a Redis-backed product repository.
func NewProductRepository(kv *cache.RedisCache) *ProductRepository {
	return &ProductRepository{kv: kv}
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.kv.GetJSON(ctx, productsKey, &products); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Barcode == barcode {
			return &products[i], nil
		}
	}
	return nil, nil
}

// Save inserts or replaces by id, preserving storage order for existing
// products and appending new ones.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	products, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = *product
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, *product)
	}
	return r.kv.SetJSON(ctx, productsKey, products, 0)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	products, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return domain.ErrProductNotFound
	}
	return r.kv.SetJSON(ctx, productsKey, kept, 0)
}
