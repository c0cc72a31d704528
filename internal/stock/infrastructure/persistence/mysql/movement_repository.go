package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
)

// MovementRepository persists the append-only movement log in MySQL.
// Rows are only ever inserted.
type MovementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a MySQL-backed movement repository.
func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) Append(ctx context.Context, movement *domain.Movement) error {
	if err := movement.Validate(); err != nil {
		return err
	}
	po := toMovementPO(movement)
	return r.db.WithContext(ctx).Create(&po).Error
}

func (r *MovementRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	var pos []MovementPO
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("date, id").Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return toMovements(pos), nil
}

func (r *MovementRepository) ListAll(ctx context.Context) ([]domain.Movement, error) {
	var pos []MovementPO
	if err := r.db.WithContext(ctx).Order("date, id").Find(&pos).Error; err != nil {
		return nil, err
	}
	return toMovements(pos), nil
}

func toMovements(pos []MovementPO) []domain.Movement {
	movements := make([]domain.Movement, 0, len(pos))
	for i := range pos {
		movements = append(movements, toMovement(&pos[i]))
	}
	return movements
}
