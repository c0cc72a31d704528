package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wyfcoding/stockkeeper/internal/order/domain"
	stockdomain "github.com/wyfcoding/stockkeeper/internal/stock/domain"
	"github.com/wyfcoding/stockkeeper/pkg/logger"
	"github.com/wyfcoding/stockkeeper/pkg/metrics"
)

// ProductSource is the narrow view of the stock ledger the reconciliation
// engine needs.
type ProductSource interface {
	GetAllProducts(ctx context.Context) ([]stockdomain.Product, error)
}

// OrderService merges derived automatic suggestions, the persisted
// override layer and the manual order list into one de-duplicated view.
// The merged view is recomputed on every read; only the deltas (manual
// items, overrides) are stored. A mutex serializes read-modify-write
// cycles against the underlying collections.
type OrderService struct {
	items     domain.ItemRepository
	overrides domain.OverrideRepository
	source    ProductSource
	metrics   *metrics.Metrics

	mu sync.Mutex
}

// NewOrderService wires the reconciliation engine. m may be nil.
func NewOrderService(
	items domain.ItemRepository,
	overrides domain.OverrideRepository,
	source ProductSource,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		items:     items,
		overrides: overrides,
		source:    source,
		metrics:   m,
	}
}

// GetOrderItems returns the automatic suggestions followed by the manual
// list. The two groups are simply unioned; no further ordering is
// imposed.
func (s *OrderService) GetOrderItems(ctx context.Context) ([]domain.Item, error) {
	auto, err := s.GetAutoOrderItems(ctx)
	if err != nil {
		return nil, err
	}
	manual, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manual order items: %w", err)
	}
	return append(auto, manual...), nil
}

// GetAutoOrderItems derives the automatic order list from current stock
// state with the override layer applied.
func (s *OrderService) GetAutoOrderItems(ctx context.Context) ([]domain.Item, error) {
	products, err := s.source.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	overrides, err := s.overrides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	return domain.BuildAutoItems(products, overrides, time.Now().UTC()), nil
}

// AddItemInput carries a user request to order something.
type AddItemInput struct {
	Name     string
	Brand    string
	Quantity int
	Barcode  string
	ImageURL string
}

// AddOrderItem adds a manual order entry, de-duplicating by barcode:
// an existing automatic suggestion for the barcode absorbs the quantity
// into its override; an existing manual entry merges quantities; only
// then is a new entry appended. Items without a barcode always append,
// since there is no stable key to merge on.
func (s *OrderService) AddOrderItem(ctx context.Context, in AddItemInput) error {
	item := domain.Item{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Brand:    in.Brand,
		Quantity: in.Quantity,
		Barcode:  in.Barcode,
		ImageURL: in.ImageURL,
		AddedAt:  time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Barcode != "" {
		merged, err := s.mergeIntoAutoSuggestion(ctx, in)
		if err != nil {
			return err
		}
		if merged {
			return nil
		}

		manual, err := s.items.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to load manual order items: %w", err)
		}
		for i := range manual {
			if manual[i].Barcode == in.Barcode {
				manual[i].Quantity += in.Quantity
				manual[i].AddedAt = time.Now().UTC()
				return s.items.ReplaceAll(ctx, manual)
			}
		}
	}

	if err := s.items.Save(ctx, &item); err != nil {
		return fmt.Errorf("failed to save order item: %w", err)
	}
	if s.metrics != nil {
		s.metrics.OrderItemsTotal.Inc()
	}
	return nil
}

// mergeIntoAutoSuggestion folds an incoming manual add into the override
// of a visible automatic suggestion with the same barcode. The override's
// custom quantity becomes the currently displayed quantity plus the added
// one, so the user sees one line with the combined total.
func (s *OrderService) mergeIntoAutoSuggestion(ctx context.Context, in AddItemInput) (bool, error) {
	auto, err := s.GetAutoOrderItems(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range auto {
		if a.Barcode != in.Barcode {
			continue
		}
		line := domain.ParseLineID(a.ID)
		total := a.Quantity + in.Quantity
		ov := domain.Override{ProductID: line.ProductID, CustomQuantity: &total}
		if err := s.overrides.Put(ctx, &ov); err != nil {
			return false, fmt.Errorf("failed to save override: %w", err)
		}
		logger.Debug(ctx, "Manual add merged into automatic suggestion",
			"product_id", line.ProductID, "quantity", total)
		return true, nil
	}
	return false, nil
}

// UpdateOrderItemQuantity changes one line's quantity. For automatic
// lines only the override changes; the product's stock numbers are left
// alone. For manual lines the entry is updated in place, or removed when
// the quantity reaches zero. Absent lines are a no-op: a stale UI
// reference to a deleted item is an expected race.
func (s *OrderService) UpdateOrderItemQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 0 {
		return &stockdomain.ValidationError{Message: "quantity must not be negative"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := domain.ParseLineID(id)
	switch line.Kind {
	case domain.LineAuto:
		existing, err := s.overrides.Get(ctx, line.ProductID)
		if err != nil {
			return fmt.Errorf("failed to load override: %w", err)
		}
		ov := domain.Override{ProductID: line.ProductID, CustomQuantity: &quantity}
		if existing != nil {
			ov.Hidden = existing.Hidden
		}
		if err := s.overrides.Put(ctx, &ov); err != nil {
			return fmt.Errorf("failed to save override: %w", err)
		}
		return nil

	default:
		if quantity == 0 {
			return s.items.Delete(ctx, line.ItemID)
		}
		manual, err := s.items.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to load manual order items: %w", err)
		}
		for i := range manual {
			if manual[i].ID == line.ItemID {
				manual[i].Quantity = quantity
				manual[i].AddedAt = time.Now().UTC()
				return s.items.ReplaceAll(ctx, manual)
			}
		}
		return nil
	}
}

// RemoveOrderItem removes one line from the view. Automatic lines are
// suppressed through their override (the suggestion can resurface after
// a restore); manual lines are deleted outright.
func (s *OrderService) RemoveOrderItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := domain.ParseLineID(id)
	switch line.Kind {
	case domain.LineAuto:
		existing, err := s.overrides.Get(ctx, line.ProductID)
		if err != nil {
			return fmt.Errorf("failed to load override: %w", err)
		}
		ov := domain.Override{ProductID: line.ProductID, Hidden: true}
		if existing != nil {
			ov.CustomQuantity = existing.CustomQuantity
			ov.Hidden = true
		}
		if err := s.overrides.Put(ctx, &ov); err != nil {
			return fmt.Errorf("failed to save override: %w", err)
		}
		return nil

	default:
		return s.items.Delete(ctx, line.ItemID)
	}
}

// RestoreAutoOrderItem deletes the product's override entirely, returning
// it to its purely derived suggestion.
func (s *OrderService) RestoreAutoOrderItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overrides.Delete(ctx, productID)
}

// GetHiddenAutoOrderItems returns the products whose suggestion the user
// dismissed, for a "previously dismissed" view.
func (s *OrderService) GetHiddenAutoOrderItems(ctx context.Context) ([]stockdomain.Product, error) {
	overrides, err := s.overrides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	products, err := s.source.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	hidden := make([]stockdomain.Product, 0)
	for _, p := range products {
		if ov, ok := overrides[p.ID]; ok && ov.Hidden {
			hidden = append(hidden, p)
		}
	}
	return hidden, nil
}

// ClearAllOrders deletes the manual list and every override. Full reset.
func (s *OrderService) ClearAllOrders(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.items.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear manual order items: %w", err)
	}
	if err := s.overrides.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear overrides: %w", err)
	}
	return nil
}
