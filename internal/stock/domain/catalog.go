package domain

import "context"

// Metadata is the optional product information returned by the catalog
// lookup collaborator.
type Metadata struct {
	Barcode  string `json:"barcode,omitempty"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Category string `json:"category,omitempty"`
}

// CatalogLookup resolves barcodes to product metadata. Implementations
// must absorb 404s, non-2xx responses and transport failures and return
// (nil, nil) / (empty, nil) instead, so catalog unavailability can never
// block stock intake.
type CatalogLookup interface {
	GetByBarcode(ctx context.Context, barcode string) (*Metadata, error)
	SearchByName(ctx context.Context, name string) ([]Metadata, error)
}
