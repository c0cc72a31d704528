package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductWithoutMetadata(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p := NewProduct("id-1", "3017620422003", 4, nil, nil, now)

	assert.Equal(t, "Produit 3017620422003", p.Name)
	assert.Equal(t, DefaultMinStock, p.MinStock)
	assert.Equal(t, 4, p.Quantity)
	assert.Equal(t, now, p.AddedAt)
	assert.Equal(t, now, p.LastUpdated)
}

func TestNewProductWithMetadata(t *testing.T) {
	now := time.Now().UTC()
	meta := &Metadata{
		Name:     "Nutella",
		Brand:    "Ferrero",
		ImageURL: "https://img.example/nutella.jpg",
		Category: "Spreads",
	}

	p := NewProduct("id-1", "3017620422003", 2, nil, meta, now)

	assert.Equal(t, "Nutella", p.Name)
	assert.Equal(t, "Ferrero", p.Brand)
	assert.Equal(t, "Spreads", p.Category)
}

func TestNewProductEmptyMetadataNameFallsBack(t *testing.T) {
	now := time.Now().UTC()

	p := NewProduct("id-1", "123", 1, nil, &Metadata{Brand: "Acme"}, now)

	assert.Equal(t, "Produit 123", p.Name)
	assert.Equal(t, "Acme", p.Brand)
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		wantErr string
	}{
		{"valid", Product{Name: "Milk", Quantity: 2, MinStock: 5}, ""},
		{"empty name", Product{Name: "  ", Quantity: 2, MinStock: 5}, "product name must not be empty"},
		{"negative quantity", Product{Name: "Milk", Quantity: -1, MinStock: 5}, "quantity must not be negative"},
		{"negative min stock", Product{Name: "Milk", Quantity: 2, MinStock: -1}, "min stock must not be negative"},
		{"zero quantity ok", Product{Name: "Milk", Quantity: 0, MinStock: 0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestStockPredicates(t *testing.T) {
	out := Product{Quantity: 0, MinStock: 5}
	low := Product{Quantity: 3, MinStock: 5}
	atThreshold := Product{Quantity: 5, MinStock: 5}
	healthy := Product{Quantity: 6, MinStock: 5}

	assert.True(t, out.IsOutOfStock())
	assert.False(t, out.IsLowStock())

	assert.True(t, low.IsLowStock())
	assert.False(t, low.IsOutOfStock())

	assert.True(t, atThreshold.IsLowStock())

	assert.False(t, healthy.IsLowStock())
	assert.False(t, healthy.IsOutOfStock())
}

func TestExpiresWithin(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	horizon := 5 * 24 * time.Hour

	inWindow := now.Add(3 * 24 * time.Hour)
	atEdge := now.Add(horizon)
	past := now.Add(-time.Hour)
	far := now.Add(6 * 24 * time.Hour)

	assert.True(t, (&Product{ExpiryDate: &inWindow}).ExpiresWithin(now, horizon))
	assert.True(t, (&Product{ExpiryDate: &atEdge}).ExpiresWithin(now, horizon))
	assert.False(t, (&Product{ExpiryDate: &past}).ExpiresWithin(now, horizon))
	assert.False(t, (&Product{ExpiryDate: &far}).ExpiresWithin(now, horizon))
	assert.False(t, (&Product{}).ExpiresWithin(now, horizon))
}

func TestMatchesQuery(t *testing.T) {
	p := Product{
		Name:     "Whole Milk",
		Brand:    "Lactel",
		Barcode:  "3256540000080",
		Category: "Dairy",
	}

	assert.True(t, p.MatchesQuery("milk"))
	assert.True(t, p.MatchesQuery("LACTEL"))
	assert.True(t, p.MatchesQuery("325654"))
	assert.True(t, p.MatchesQuery("dairy"))
	assert.True(t, p.MatchesQuery("  Milk  "))
	assert.False(t, p.MatchesQuery("bread"))
	assert.False(t, p.MatchesQuery(""))
	assert.False(t, p.MatchesQuery("   "))
}

func TestMovementValidate(t *testing.T) {
	valid := Movement{ProductID: "p1", Type: MovementIn, Quantity: 3}
	assert.NoError(t, valid.Validate())

	noProduct := Movement{Type: MovementIn, Quantity: 3}
	assert.Error(t, noProduct.Validate())

	badType := Movement{ProductID: "p1", Type: "sideways", Quantity: 3}
	assert.Error(t, badType.Validate())

	zeroQty := Movement{ProductID: "p1", Type: MovementOut, Quantity: 0}
	assert.Error(t, zeroQty.Validate())
}
