package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMinStock is assigned to products created without an explicit
// minimum threshold.
const DefaultMinStock = 5

// DefaultExpiryHorizonDays bounds the expiring-soon query when the caller
// does not pass a horizon.
const DefaultExpiryHorizonDays = 5

// Product is one tracked physical item, keyed by ID and findable by
// barcode. Quantity is never negative.
type Product struct {
	ID          string     `json:"id"`
	Barcode     string     `json:"barcode"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand,omitempty"`
	Quantity    int        `json:"quantity"`
	MinStock    int        `json:"min_stock"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Category    string     `json:"category,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	AddedAt     time.Time  `json:"added_at"`
	LastUpdated time.Time  `json:"last_updated"`
}

// PlaceholderName is used when the catalog has no metadata for a barcode.
func PlaceholderName(barcode string) string {
	return fmt.Sprintf("Produit %s", barcode)
}

// NewProduct builds a product from scanned barcode plus optional catalog
// metadata. Missing metadata falls back to the placeholder name.
func NewProduct(id, barcode string, quantity int, expiry *time.Time, meta *Metadata, now time.Time) Product {
	p := Product{
		ID:          id,
		Barcode:     barcode,
		Name:        PlaceholderName(barcode),
		Quantity:    quantity,
		MinStock:    DefaultMinStock,
		ExpiryDate:  expiry,
		AddedAt:     now,
		LastUpdated: now,
	}
	if meta != nil {
		if meta.Name != "" {
			p.Name = meta.Name
		}
		p.Brand = meta.Brand
		p.ImageURL = meta.ImageURL
		p.Category = meta.Category
	}
	return p
}

// Validate enforces the product invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Message: "product name must not be empty"}
	}
	if p.Quantity < 0 {
		return &ValidationError{Message: "quantity must not be negative"}
	}
	if p.MinStock < 0 {
		return &ValidationError{Message: "min stock must not be negative"}
	}
	return nil
}

// IsOutOfStock reports quantity == 0.
func (p *Product) IsOutOfStock() bool {
	return p.Quantity == 0
}

// IsLowStock reports 0 < quantity <= minStock.
func (p *Product) IsLowStock() bool {
	return p.Quantity > 0 && p.Quantity <= p.MinStock
}

// ExpiresWithin reports whether the expiry date falls inside
// [now, now+horizon]. Products without an expiry date never match.
func (p *Product) ExpiresWithin(now time.Time, horizon time.Duration) bool {
	if p.ExpiryDate == nil {
		return false
	}
	exp := *p.ExpiryDate
	return !exp.Before(now) && !exp.After(now.Add(horizon))
}

// MatchesQuery reports a case-insensitive substring match over name,
// brand, barcode and category.
func (p *Product) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		(p.Brand != "" && strings.Contains(strings.ToLower(p.Brand), q)) ||
		strings.Contains(p.Barcode, q) ||
		(p.Category != "" && strings.Contains(strings.ToLower(p.Category), q))
}
