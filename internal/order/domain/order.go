package domain

import (
	"strings"
	"time"

	stockdomain "github.com/wyfcoding/stockkeeper/internal/stock/domain"
)

// autoIDPrefix marks derived order items on the wire. It is a display
// artifact; dispatch goes through Line, never through string checks in
// business code.
const autoIDPrefix = "auto_"

// Item is a user-entered order line persisted in the manual list.
// Automatic suggestions are also rendered as Items but are never stored.
type Item struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Brand    string    `json:"brand,omitempty"`
	Quantity int       `json:"quantity"`
	Barcode  string    `json:"barcode,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// Validate enforces manual item invariants.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return &stockdomain.ValidationError{Message: "order item name must not be empty"}
	}
	if i.Quantity <= 0 {
		return &stockdomain.ValidationError{Message: "order item quantity must be positive"}
	}
	return nil
}

// Override is the persisted user adjustment layered over a derived
// suggestion, keyed by product id. At most one exists per product.
type Override struct {
	ProductID      string `json:"product_id"`
	CustomQuantity *int   `json:"custom_quantity,omitempty"`
	Hidden         bool   `json:"hidden,omitempty"`
}

// LineKind discriminates automatic from manual order lines.
type LineKind int

const (
	// LineAuto is a derived suggestion, addressed by product id.
	LineAuto LineKind = iota
	// LineManual is a stored item, addressed by its own id.
	LineManual
)

// Line is the parsed form of a wire order-line id.
type Line struct {
	Kind      LineKind
	ProductID string
	ItemID    string
}

// ParseLineID classifies a wire id into an automatic or manual line.
func ParseLineID(id string) Line {
	if pid, ok := strings.CutPrefix(id, autoIDPrefix); ok {
		return Line{Kind: LineAuto, ProductID: pid}
	}
	return Line{Kind: LineManual, ItemID: id}
}

// AutoLineID renders the wire id for a product's automatic suggestion.
func AutoLineID(productID string) string {
	return autoIDPrefix + productID
}

// SuggestedQuantity derives the base reorder quantity from stock state:
// out of stock orders up to minStock, low stock tops up to minStock,
// anything above minStock suggests nothing.
func SuggestedQuantity(p stockdomain.Product) int {
	switch {
	case p.Quantity == 0:
		return p.MinStock
	case p.Quantity <= p.MinStock:
		return p.MinStock - p.Quantity
	default:
		return 0
	}
}

// BuildAutoItems derives the automatic order list from current products
// and the override layer. Hidden products are excluded outright; a custom
// quantity replaces the derived value. Only final quantities above zero
// contribute a line. Product order is preserved.
func BuildAutoItems(products []stockdomain.Product, overrides map[string]Override, now time.Time) []Item {
	items := make([]Item, 0)
	for _, p := range products {
		qty := SuggestedQuantity(p)
		if ov, ok := overrides[p.ID]; ok {
			if ov.Hidden {
				continue
			}
			if ov.CustomQuantity != nil {
				qty = *ov.CustomQuantity
			}
		}
		if qty <= 0 {
			continue
		}
		items = append(items, Item{
			ID:       AutoLineID(p.ID),
			Name:     p.Name,
			Brand:    p.Brand,
			Quantity: qty,
			Barcode:  p.Barcode,
			ImageURL: p.ImageURL,
			AddedAt:  now,
		})
	}
	return items
}
