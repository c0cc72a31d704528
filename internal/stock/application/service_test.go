package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
)

type memProductRepo struct {
	products []domain.Product
}

func (r *memProductRepo) GetAll(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Save(ctx context.Context, product *domain.Product) error {
	for i := range r.products {
		if r.products[i].ID == product.ID {
			r.products[i] = *product
			return nil
		}
	}
	r.products = append(r.products, *product)
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id string) error {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrProductNotFound
}

type memMovementRepo struct {
	movements []domain.Movement
}

func (r *memMovementRepo) Append(ctx context.Context, movement *domain.Movement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	out := make([]domain.Movement, 0)
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListAll(ctx context.Context) ([]domain.Movement, error) {
	out := make([]domain.Movement, len(r.movements))
	copy(out, r.movements)
	return out, nil
}

type stubCatalog struct {
	meta  *domain.Metadata
	err   error
	calls int
}

func (c *stubCatalog) GetByBarcode(ctx context.Context, barcode string) (*domain.Metadata, error) {
	c.calls++
	return c.meta, c.err
}

func (c *stubCatalog) SearchByName(ctx context.Context, name string) ([]domain.Metadata, error) {
	if c.meta == nil {
		return []domain.Metadata{}, nil
	}
	return []domain.Metadata{*c.meta}, nil
}

func newTestService(catalog domain.CatalogLookup) (*StockService, *memProductRepo, *memMovementRepo) {
	products := &memProductRepo{}
	movements := &memMovementRepo{}
	return NewStockService(products, movements, catalog, nil, nil), products, movements
}

func TestAddStockCreatesProductWithCatalogMetadata(t *testing.T) {
	ctx := context.Background()
	catalog := &stubCatalog{meta: &domain.Metadata{Name: "Nutella", Brand: "Ferrero"}}
	svc, _, movements := newTestService(catalog)

	p, err := svc.AddStock(ctx, "3017620422003", 3, nil)

	require.NoError(t, err)
	assert.Equal(t, "Nutella", p.Name)
	assert.Equal(t, "Ferrero", p.Brand)
	assert.Equal(t, 3, p.Quantity)
	assert.Equal(t, domain.DefaultMinStock, p.MinStock)
	assert.NotEmpty(t, p.ID)

	history, err := svc.GetMovements(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.MovementIn, history[0].Type)
	assert.Equal(t, domain.ReasonNewProduct, history[0].Reason)
	assert.Len(t, movements.movements, 1)
}

func TestAddStockCatalogFailureStillCreatesProduct(t *testing.T) {
	ctx := context.Background()
	catalog := &stubCatalog{err: errors.New("connection refused")}
	svc, _, _ := newTestService(catalog)

	p, err := svc.AddStock(ctx, "123456", 2, nil)

	require.NoError(t, err)
	assert.Equal(t, "Produit 123456", p.Name)
	assert.Equal(t, 2, p.Quantity)
}

func TestAddStockUnknownBarcodeGetsPlaceholder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&stubCatalog{})

	p, err := svc.AddStock(ctx, "999", 1, nil)

	require.NoError(t, err)
	assert.Equal(t, "Produit 999", p.Name)
}

func TestAddStockExistingProductIncrements(t *testing.T) {
	ctx := context.Background()
	catalog := &stubCatalog{meta: &domain.Metadata{Name: "Milk"}}
	svc, _, _ := newTestService(catalog)

	first, err := svc.AddStock(ctx, "b1", 2, nil)
	require.NoError(t, err)
	second, err := svc.AddStock(ctx, "b1", 3, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	// the catalog is only consulted on first sight
	assert.Equal(t, 1, catalog.calls)

	history, err := svc.GetMovements(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.ReasonNewProduct, history[0].Reason)
	assert.Equal(t, domain.ReasonStockAdded, history[1].Reason)
}

func TestAddStockRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&stubCatalog{})

	_, err := svc.AddStock(ctx, "", 1, nil)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.AddStock(ctx, "b1", 0, nil)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.AddStock(ctx, "b1", -2, nil)
	assert.True(t, domain.IsValidation(err))
}

func TestRemoveStockRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&stubCatalog{})

	added, err := svc.AddStock(ctx, "b1", 7, nil)
	require.NoError(t, err)

	// removing the full added quantity returns to the pre-add level
	removed, err := svc.RemoveStock(ctx, "b1", 7)
	require.NoError(t, err)
	assert.Equal(t, 0, removed.Quantity)

	history, err := svc.GetMovements(ctx, added.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.MovementIn, history[0].Type)
	assert.Equal(t, 7, history[0].Quantity)
	assert.Equal(t, domain.MovementOut, history[1].Type)
	assert.Equal(t, 7, history[1].Quantity)
}

func TestRemoveStockPartial(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&stubCatalog{})

	_, err := svc.AddStock(ctx, "b1", 10, nil)
	require.NoError(t, err)

	removed, err := svc.RemoveStock(ctx, "b1", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, removed.Quantity)
}

func TestRemoveStockInsufficientLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, _, movements := newTestService(&stubCatalog{})

	added, err := svc.AddStock(ctx, "b1", 3, nil)
	require.NoError(t, err)

	_, err = svc.RemoveStock(ctx, "b1", 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	current, err := svc.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, 3, current[0].Quantity)
	assert.Equal(t, added.LastUpdated, current[0].LastUpdated)
	// only the creation movement exists
	assert.Len(t, movements.movements, 1)
}

func TestRemoveStockUnknownBarcode(t *testing.T) {
	ctx := context.Background()
	svc, _, movements := newTestService(&stubCatalog{})

	_, err := svc.RemoveStock(ctx, "unknown", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, movements.movements)
}

func TestCreateProductSynthesizesBarcode(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&stubCatalog{})

	p, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Farm Eggs", Quantity: 6})

	require.NoError(t, err)
	assert.Contains(t, p.Barcode, "manual_")
	assert.Equal(t, domain.DefaultMinStock, p.MinStock)

	history, err := svc.GetMovements(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ReasonNewProduct, history[0].Reason)
}

func TestCreateProductDuplicateBarcodeRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&stubCatalog{})

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Milk", Barcode: "b1", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Other Milk", Barcode: "b1", Quantity: 1})
	assert.True(t, domain.IsValidation(err))
}

func TestCreateProductZeroQuantityRecordsNoMovement(t *testing.T) {
	ctx := context.Background()
	svc, _, movements := newTestService(&stubCatalog{})

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Flour"})

	require.NoError(t, err)
	assert.Empty(t, movements.movements)
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, movements := newTestService(&stubCatalog{})

	p, err := svc.AddStock(ctx, "b1", 2, nil)
	require.NoError(t, err)

	name := "Renamed"
	minStock := 8
	updated, err := svc.UpdateProduct(ctx, p.ID, UpdateProductInput{Name: &name, MinStock: &minStock})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 8, updated.MinStock)
	// manual edits bypass the movement log
	assert.Len(t, movements.movements, 1)

	_, err = svc.UpdateProduct(ctx, "missing", UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateProductClearExpiry(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&stubCatalog{})

	expiry := time.Now().UTC().Add(48 * time.Hour)
	p, err := svc.AddStock(ctx, "b1", 2, &expiry)
	require.NoError(t, err)
	require.NotNil(t, p.ExpiryDate)

	updated, err := svc.UpdateProduct(ctx, p.ID, UpdateProductInput{ClearExpiry: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ExpiryDate)
}

func TestDeleteProductKeepsMovements(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(&stubCatalog{})

	p, err := svc.AddStock(ctx, "b1", 2, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	all, err := svc.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	history, err := svc.GetMovements(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), domain.ErrProductNotFound)
}

func TestStockQueries(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(&stubCatalog{})

	soon := time.Now().UTC().Add(2 * 24 * time.Hour)
	later := time.Now().UTC().Add(30 * 24 * time.Hour)
	repo.products = []domain.Product{
		{ID: "p1", Barcode: "b1", Name: "Milk", Brand: "Lactel", Quantity: 0, MinStock: 5},
		{ID: "p2", Barcode: "b2", Name: "Eggs", Quantity: 3, MinStock: 5, ExpiryDate: &soon},
		{ID: "p3", Barcode: "b3", Name: "Rice", Category: "Grains", Quantity: 20, MinStock: 5, ExpiryDate: &later},
	}

	out, err := svc.GetOutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)

	low, err := svc.GetLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p2", low[0].ID)

	expiring, err := svc.GetExpiring(ctx, 0)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "p2", expiring[0].ID)

	expiringWide, err := svc.GetExpiring(ctx, 60)
	require.NoError(t, err)
	assert.Len(t, expiringWide, 2)

	found, err := svc.SearchInStock(ctx, "grains")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "p3", found[0].ID)

	none, err := svc.SearchInStock(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}
