package redis

import (
	"context"
	"fmt"

	"github.com/wyfcoding/stockkeeper/internal/order/domain"
	"github.com/wyfcoding/stockkeeper/pkg/cache"
)

const overridesKey = "stockkeeper:order_overrides"

// OverrideRepository persists suggestion overrides in Redis, keyed by
// product id.
type OverrideRepository struct {
	kv *cache.RedisCache
}

// NewOverrideRepository creates a Redis-backed override repository.
func NewOverrideRepository(kv *cache.RedisCache) *OverrideRepository {
	return &OverrideRepository{kv: kv}
}

func (r *OverrideRepository) Get(ctx context.Context, productID string) (*domain.Override, error) {
	overrides, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if ov, ok := overrides[productID]; ok {
		return &ov, nil
	}
	return nil, nil
}

func (r *OverrideRepository) List(ctx context.Context) (map[string]domain.Override, error) {
	overrides := make(map[string]domain.Override)
	if err := r.kv.GetJSON(ctx, overridesKey, &overrides); err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	return overrides, nil
}

func (r *OverrideRepository) Put(ctx context.Context, override *domain.Override) error {
	overrides, err := r.List(ctx)
	if err != nil {
		return err
	}
	overrides[override.ProductID] = *override
	return r.kv.SetJSON(ctx, overridesKey, overrides, 0)
}

// Delete removes one override; absent product ids are a no-op.
func (r *OverrideRepository) Delete(ctx context.Context, productID string) error {
	overrides, err := r.List(ctx)
	if err != nil {
		return err
	}
	delete(overrides, productID)
	return r.kv.SetJSON(ctx, overridesKey, overrides, 0)
}

func (r *OverrideRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, overridesKey)
}
