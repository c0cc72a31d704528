package domain

import "time"

// MovementType discriminates stock-in from stock-out.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Movement reasons recorded by the ledger operations.
const (
	ReasonNewProduct   = "new product"
	ReasonStockAdded   = "stock added"
	ReasonStockRemoved = "stock removed"
)

// Movement is one immutable audit record of a quantity change. Movements
// are append-only and never mutated or deleted.
type Movement struct {
	ID        string       `json:"id"`
	ProductID string       `json:"product_id"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Date      time.Time    `json:"date"`
	Reason    string       `json:"reason,omitempty"`
}

// Validate enforces the movement invariants.
func (m *Movement) Validate() error {
	if m.ProductID == "" {
		return &ValidationError{Message: "movement product id must not be empty"}
	}
	if m.Type != MovementIn && m.Type != MovementOut {
		return &ValidationError{Message: "movement type must be in or out"}
	}
	if m.Quantity <= 0 {
		return &ValidationError{Message: "movement quantity must be positive"}
	}
	return nil
}
