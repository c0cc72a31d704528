package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/stockkeeper/internal/order/domain"
	stockdomain "github.com/wyfcoding/stockkeeper/internal/stock/domain"
)

type memItemRepo struct {
	items []domain.Item
}

func (r *memItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	out := make([]domain.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *memItemRepo) Save(ctx context.Context, item *domain.Item) error {
	r.items = append(r.items, *item)
	return nil
}

func (r *memItemRepo) ReplaceAll(ctx context.Context, items []domain.Item) error {
	r.items = make([]domain.Item, len(items))
	copy(r.items, items)
	return nil
}

func (r *memItemRepo) Delete(ctx context.Context, id string) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memItemRepo) Clear(ctx context.Context) error {
	r.items = nil
	return nil
}

type memOverrideRepo struct {
	overrides map[string]domain.Override
}

func newMemOverrideRepo() *memOverrideRepo {
	return &memOverrideRepo{overrides: make(map[string]domain.Override)}
}

func (r *memOverrideRepo) Get(ctx context.Context, productID string) (*domain.Override, error) {
	if ov, ok := r.overrides[productID]; ok {
		cp := ov
		return &cp, nil
	}
	return nil, nil
}

func (r *memOverrideRepo) List(ctx context.Context) (map[string]domain.Override, error) {
	out := make(map[string]domain.Override, len(r.overrides))
	for k, v := range r.overrides {
		out[k] = v
	}
	return out, nil
}

func (r *memOverrideRepo) Put(ctx context.Context, override *domain.Override) error {
	r.overrides[override.ProductID] = *override
	return nil
}

func (r *memOverrideRepo) Delete(ctx context.Context, productID string) error {
	delete(r.overrides, productID)
	return nil
}

func (r *memOverrideRepo) Clear(ctx context.Context) error {
	r.overrides = make(map[string]domain.Override)
	return nil
}

type stubSource struct {
	products []stockdomain.Product
}

func (s *stubSource) GetAllProducts(ctx context.Context) ([]stockdomain.Product, error) {
	out := make([]stockdomain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func newTestOrderService(products ...stockdomain.Product) (*OrderService, *memItemRepo, *memOverrideRepo, *stubSource) {
	items := &memItemRepo{}
	overrides := newMemOverrideRepo()
	source := &stubSource{products: products}
	return NewOrderService(items, overrides, source, nil), items, overrides, source
}

func TestGetOrderItemsMergesAutoAndManual(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestOrderService(
		stockdomain.Product{ID: "p1", Name: "Milk", Barcode: "b1", Quantity: 0, MinStock: 5},
	)

	require.NoError(t, svc.AddOrderItem(ctx, AddItemInput{Name: "Napkins", Quantity: 2}))

	all, err := svc.GetOrderItems(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "auto_p1", all[0].ID)
	assert.Equal(t, 5, all[0].Quantity)
	assert.Equal(t, "Napkins", all[1].Name)
}

func TestAddOrderItemMergesByBarcodeInManualList(t *testing.T) {
	ctx := context.Background()
	svc, items, _, _ := newTestOrderService()

	require.NoError(t, svc.AddOrderItem(ctx, AddItemInput{Name: "Juice", Barcode: "b9", Quantity: 2}))
	require.NoError(t, svc.AddOrderItem(ctx, AddItemInput{Name: "Juice", Barcode: "b9", Quantity: 3}))

	require.Len(t, items.items, 1)
	assert.Equal(t, 5, items.items[0].Quantity)
}

func TestAddOrderItemWithoutBarcodeAlwaysAppends(t *testing.T) {
	ctx := context.Background()
	svc, items, _, _ := newTestOrderService()

	require.NoError(t, svc.AddOrderItem(ctx, AddItemInput{Name: "Candles", Quantity: 1}))
	require.NoError(t, svc.AddOrderItem(ctx, AddItemInput{Name: "Candles", Quantity: 1}))

	assert.Len(t, items.items, 2)
}

func TestAddOrderItemFoldsIntoAutoSuggestion(t *testing.T) {
	ctx := context.Background()
	// suggestion for p1 is 5-3 = 2
	svc, items, overrides, _ := newTestOrderService(
		stockdomain.Product{ID: "p1", Name: "Milk", Barcode: "b1", Quantity: 3, MinStock: 5},
	)

	require.NoError(t, svc.AddOrderItem(ctx, AddItemInput{Name: "Milk", Barcode: "b1", Quantity: 4}))

	// nothing appended manually; the override carries 2+4
	assert.Empty(t, items.items)
	ov, err := overrides.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, ov)
	require.NotNil(t, ov.CustomQuantity)
	assert.Equal(t, 6, *ov.CustomQuantity)

	auto, err := svc.GetAutoOrderItems(ctx)
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.Equal(t, 6, auto[0].Quantity)
}

func TestAddOrderItemRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestOrderService()

	assert.True(t, stockdomain.IsValidation(svc.AddOrderItem(ctx, AddItemInput{Name: "", Quantity: 1})))
	assert.True(t, stockdomain.IsValidation(svc.AddOrderItem(ctx, AddItemInput{Name: "Milk", Quantity: 0})))
}

func TestUpdateAutoLinePinsQuantityAgainstStockChanges(t *testing.T) {
	ctx := context.Background()
	svc, _, _, source := newTestOrderService(
		stockdomain.Product{ID: "p1", Name: "Milk", Barcode: "b1", Quantity: 0, MinStock: 5},
	)

	require.NoError(t, svc.UpdateOrderItemQuantity(ctx, "auto_p1", 9))

	// stock moves, the pinned quantity does not
	source.products[0].Quantity = 4

	auto, err := svc.GetAutoOrderItems(ctx)
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.Equal(t, 9, auto[0].Quantity)

	// only a restore returns the line to pure derivation: 5-4 = 1
	require.NoError(t, svc.RestoreAutoOrderItem(ctx, "p1"))

	auto, err = svc.GetAutoOrderItems(ctx)
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.Equal(t, 1, auto[0].Quantity)
}

func TestAutoSuggestionRecomputesWithoutOverride(t *testing.T) {
	ctx := context.Background()
	svc, _, _, source := newTestOrderService(
		stockdomain.Product{ID: "p1", Name: "Milk", Barcode: "b1", Quantity: 0, MinStock: 5},
	)

	auto, err := svc.GetAutoOrderItems(ctx)
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.Equal(t, 5, auto[0].Quantity)

	source.products[0].Quantity = 4

	auto, err = svc.GetAutoOrderItems(ctx)
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.Equal(t, 1, auto[0].Quantity)
}

func TestUpdateAutoLinePreservesHiddenFlag(t *testing.T) {
	ctx := context.Background()
	svc, _, overrides, _ := newTestOrderService(
		stockdomain.Product{ID: "p1", Name: "Milk", Quantity: 0, MinStock: 5},
	)

	require.NoError(t, svc.RemoveOrderItem(ctx, "auto_p1"))
	require.NoError(t, svc.UpdateOrderItemQuantity(ctx, "auto_p1", 7))

	ov, err := overrides.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, ov)
	assert.True(t, ov.Hidden)
	require.NotNil(t, ov.CustomQuantity)
	assert.Equal(t, 7, *ov.CustomQuantity)
}

func TestUpdateManualLine(t *testing.T) {
	ctx := context.Background()
	svc, items, _, _ := newTestOrderService()

	require.NoError(t, svc.AddOrderItem(ctx, AddItemInput{Name: "Juice", Quantity: 2}))
	id := items.items[0].ID

	require.NoError(t, svc.UpdateOrderItemQuantity(ctx, id, 6))
	assert.Equal(t, 6, items.items[0].Quantity)

	// quantity zero removes the entry
	require.NoError(t, svc.UpdateOrderItemQuantity(ctx, id, 0))
	assert.Empty(t, items.items)

	// a stale id is a no-op
	require.NoError(t, svc.UpdateOrderItemQuantity(ctx, id, 3))
	assert.Empty(t, items.items)

	err := svc.UpdateOrderItemQuantity(ctx, id, -1)
	assert.True(t, stockdomain.IsValidation(err))
}

func TestHideAndRestoreAutoSuggestion(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestOrderService(
		stockdomain.Product{ID: "p1", Name: "Milk", Quantity: 0, MinStock: 5},
	)

	require.NoError(t, svc.RemoveOrderItem(ctx, "auto_p1"))

	auto, err := svc.GetAutoOrderItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, auto)

	hidden, err := svc.GetHiddenAutoOrderItems(ctx)
	require.NoError(t, err)
	require.Len(t, hidden, 1)
	assert.Equal(t, "p1", hidden[0].ID)

	// hiding twice changes nothing
	require.NoError(t, svc.RemoveOrderItem(ctx, "auto_p1"))
	hidden, err = svc.GetHiddenAutoOrderItems(ctx)
	require.NoError(t, err)
	assert.Len(t, hidden, 1)

	require.NoError(t, svc.RestoreAutoOrderItem(ctx, "p1"))

	auto, err = svc.GetAutoOrderItems(ctx)
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.Equal(t, 5, auto[0].Quantity)

	// restoring again is idempotent
	require.NoError(t, svc.RestoreAutoOrderItem(ctx, "p1"))
}

func TestRemoveAutoLineKeepsCustomQuantityForRestore(t *testing.T) {
	ctx := context.Background()
	svc, _, overrides, _ := newTestOrderService(
		stockdomain.Product{ID: "p1", Name: "Milk", Quantity: 0, MinStock: 5},
	)

	require.NoError(t, svc.UpdateOrderItemQuantity(ctx, "auto_p1", 8))
	require.NoError(t, svc.RemoveOrderItem(ctx, "auto_p1"))

	ov, err := overrides.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, ov)
	assert.True(t, ov.Hidden)
	require.NotNil(t, ov.CustomQuantity)
	assert.Equal(t, 8, *ov.CustomQuantity)
}

func TestRemoveManualLine(t *testing.T) {
	ctx := context.Background()
	svc, items, _, _ := newTestOrderService()

	require.NoError(t, svc.AddOrderItem(ctx, AddItemInput{Name: "Juice", Quantity: 2}))
	id := items.items[0].ID

	require.NoError(t, svc.RemoveOrderItem(ctx, id))
	assert.Empty(t, items.items)
}

func TestClearAllOrders(t *testing.T) {
	ctx := context.Background()
	svc, items, overrides, _ := newTestOrderService(
		stockdomain.Product{ID: "p1", Name: "Milk", Quantity: 0, MinStock: 5},
	)

	require.NoError(t, svc.AddOrderItem(ctx, AddItemInput{Name: "Juice", Quantity: 2}))
	require.NoError(t, svc.RemoveOrderItem(ctx, "auto_p1"))

	require.NoError(t, svc.ClearAllOrders(ctx))

	assert.Empty(t, items.items)
	assert.Empty(t, overrides.overrides)

	// with the override gone the suggestion resurfaces
	auto, err := svc.GetAutoOrderItems(ctx)
	require.NoError(t, err)
	assert.Len(t, auto, 1)
}

func TestAutoItemsCarryFreshTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestOrderService(
		stockdomain.Product{ID: "p1", Name: "Milk", Quantity: 0, MinStock: 5},
	)

	before := time.Now().UTC().Add(-time.Second)
	auto, err := svc.GetAutoOrderItems(ctx)
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.True(t, auto[0].AddedAt.After(before))
}
