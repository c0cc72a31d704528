package domain

import "context"

// ItemRepository persists the manual order list in storage order.
type ItemRepository interface {
	List(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, item *Item) error
	ReplaceAll(ctx context.Context, items []Item) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// OverrideRepository persists per-product suggestion overrides. Get
// returns (nil, nil) when no override exists.
type OverrideRepository interface {
	Get(ctx context.Context, productID string) (*Override, error)
	List(ctx context.Context) (map[string]Override, error)
	Put(ctx context.Context, override *Override) error
	Delete(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
}
