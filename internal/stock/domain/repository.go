package domain

import "context"

// ProductRepository persists products. GetAll returns products in stable
// storage order. GetByID and GetByBarcode return (nil, nil) when absent.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}

// MovementRepository persists the append-only movement log.
type MovementRepository interface {
	Append(ctx context.Context, movement *Movement) error
	ListByProduct(ctx context.Context, productID string) ([]Movement, error)
	ListAll(ctx context.Context) ([]Movement, error)
}
