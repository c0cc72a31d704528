package redis

import (
	"context"
	"fmt"

	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
	"github.com/wyfcoding/stockkeeper/pkg/cache"
)

const movementsKey = "stockkeeper:movements"

// MovementRepository persists the append-only movement log in Redis.
type MovementRepository struct {
	kv *cache.RedisCache
}

// NewMovementRepository creates a Redis-backed movement repository.
func NewMovementRepository(kv *cache.RedisCache) *MovementRepository {
	return &MovementRepository{kv: kv}
}

func (r *MovementRepository) Append(ctx context.Context, movement *domain.Movement) error {
	if err := movement.Validate(); err != nil {
		return err
	}
	movements, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	movements = append(movements, *movement)
	return r.kv.SetJSON(ctx, movementsKey, movements, 0)
}

func (r *MovementRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	movements, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Movement, 0)
	for _, m := range movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MovementRepository) ListAll(ctx context.Context) ([]domain.Movement, error) {
	var movements []domain.Movement
	if err := r.kv.GetJSON(ctx, movementsKey, &movements); err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	if movements == nil {
		movements = []domain.Movement{}
	}
	return movements, nil
}
