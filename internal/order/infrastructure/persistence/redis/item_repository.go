// Package redis stores the manual order list and the override table as
// JSON blobs in the key-value store.
package redis

import (
	"context"
	"fmt"

	"github.com/wyfcoding/stockkeeper/internal/order/domain"
	"github.com/wyfcoding/stockkeeper/pkg/cache"
)

const itemsKey = "stockkeeper:order_items"

// ItemRepository persists manual order items in Redis.
type ItemRepository struct {
	kv *cache.RedisCache
}

// NewItemRepository creates a Redis-backed manual item repository.
func NewItemRepository(kv *cache.RedisCache) *ItemRepository {
	return &ItemRepository{kv: kv}
}

func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := r.kv.GetJSON(ctx, itemsKey, &items); err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

func (r *ItemRepository) Save(ctx context.Context, item *domain.Item) error {
	items, err := r.List(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = *item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, *item)
	}
	return r.kv.SetJSON(ctx, itemsKey, items, 0)
}

func (r *ItemRepository) ReplaceAll(ctx context.Context, items []domain.Item) error {
	return r.kv.SetJSON(ctx, itemsKey, items, 0)
}

// Delete removes one item; absent ids are a no-op.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	items, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return r.kv.SetJSON(ctx, itemsKey, kept, 0)
}

func (r *ItemRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, itemsKey)
}
