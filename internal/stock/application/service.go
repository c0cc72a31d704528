package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
	"github.com/wyfcoding/stockkeeper/pkg/logger"
	"github.com/wyfcoding/stockkeeper/pkg/metrics"
)

// StockService is the ledger's public contract: it owns product records
// and the append-only movement log. Read-modify-write cycles are
// serialized by a mutex because handlers run concurrently against the
// same underlying collections.
type StockService struct {
	products  domain.ProductRepository
	movements domain.MovementRepository
	catalog   domain.CatalogLookup
	publisher domain.MovementPublisher
	metrics   *metrics.Metrics

	mu sync.Mutex
}

// NewStockService wires the ledger. publisher and m may be nil.
func NewStockService(
	products domain.ProductRepository,
	movements domain.MovementRepository,
	catalog domain.CatalogLookup,
	publisher domain.MovementPublisher,
	m *metrics.Metrics,
) *StockService {
	return &StockService{
		products:  products,
		movements: movements,
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
	}
}

// AddStock increases the quantity for barcode, creating the product on
// first sight. Catalog metadata is best-effort: lookup failure or an
// unknown barcode still creates the product with placeholder metadata.
// The expiry date is only honored at creation time.
func (s *StockService) AddStock(ctx context.Context, barcode string, quantity int, expiry *time.Time) (*domain.Product, error) {
	if barcode == "" {
		return nil, &domain.ValidationError{Message: "barcode must not be empty"}
	}
	if quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	now := time.Now().UTC()

	if product != nil {
		product.Quantity += quantity
		product.LastUpdated = now
		if err := s.products.Save(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to save product: %w", err)
		}
		s.recordMovement(ctx, product.ID, domain.MovementIn, quantity, domain.ReasonStockAdded)
		return product, nil
	}

	meta, err := s.catalog.GetByBarcode(ctx, barcode)
	if err != nil {
		// Catalog unavailability must never block stock entry.
		logger.Warn(ctx, "Catalog lookup failed, creating product with placeholder metadata",
			"barcode", barcode, "error", err)
		meta = nil
	}

	created := domain.NewProduct(uuid.New().String(), barcode, quantity, expiry, meta, now)
	if err := created.Validate(); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, &created); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	s.recordMovement(ctx, created.ID, domain.MovementIn, quantity, domain.ReasonNewProduct)

	logger.Info(ctx, "Product created from stock-in",
		"product_id", created.ID, "barcode", barcode, "name", created.Name)
	return &created, nil
}

// RemoveStock decreases the quantity for barcode. The quantity check
// happens before any mutation so stock can never go negative.
func (s *StockService) RemoveStock(ctx context.Context, barcode string, quantity int) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.products.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if quantity > product.Quantity {
		return nil, domain.ErrInsufficientStock
	}

	product.Quantity -= quantity
	product.LastUpdated = time.Now().UTC()
	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	s.recordMovement(ctx, product.ID, domain.MovementOut, quantity, domain.ReasonStockRemoved)

	return product, nil
}

// CreateProductInput carries a freehand product creation.
type CreateProductInput struct {
	Name       string
	Brand      string
	Barcode    string
	Quantity   int
	MinStock   *int
	ExpiryDate *time.Time
	ImageURL   string
	Category   string
	Unit       string
}

// CreateProduct registers a manually entered product. Items without a
// scanned barcode get a synthetic one so later order dedupe has a key.
func (s *StockService) CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	barcode := in.Barcode
	if barcode == "" {
		barcode = "manual_" + uuid.New().String()
	} else {
		existing, err := s.products.GetByBarcode(ctx, barcode)
		if err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if existing != nil {
			return nil, &domain.ValidationError{Message: "a product with this barcode already exists"}
		}
	}

	product := domain.Product{
		ID:          uuid.New().String(),
		Barcode:     barcode,
		Name:        in.Name,
		Brand:       in.Brand,
		Quantity:    in.Quantity,
		MinStock:    domain.DefaultMinStock,
		ExpiryDate:  in.ExpiryDate,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Unit:        in.Unit,
		AddedAt:     now,
		LastUpdated: now,
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, &product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	if product.Quantity > 0 {
		s.recordMovement(ctx, product.ID, domain.MovementIn, product.Quantity, domain.ReasonNewProduct)
	}
	return &product, nil
}

// UpdateProductInput carries a manual edit; nil fields are left alone.
type UpdateProductInput struct {
	Name        *string
	Brand       *string
	Quantity    *int
	MinStock    *int
	ExpiryDate  *time.Time
	ClearExpiry bool
	ImageURL    *string
	Category    *string
	Unit        *string
}

// UpdateProduct applies a manual edit. No movement is recorded: the audit
// log only tracks ledger in/out operations.
func (s *StockService) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Quantity != nil {
		product.Quantity = *in.Quantity
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.ExpiryDate != nil {
		product.ExpiryDate = in.ExpiryDate
	} else if in.ClearExpiry {
		product.ExpiryDate = nil
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	product.LastUpdated = time.Now().UTC()

	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product explicitly. Its movement history is
// retained.
func (s *StockService) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products.Delete(ctx, id)
}

// GetAllProducts returns every tracked product in storage order.
func (s *StockService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ProductsTracked.Set(float64(len(products)))
	}
	return products, nil
}

// GetLowStock returns products with 0 < quantity <= minStock.
func (s *StockService) GetLowStock(ctx context.Context) ([]domain.Product, error) {
	return s.filterProducts(ctx, func(p domain.Product) bool { return p.IsLowStock() })
}

// GetOutOfStock returns products with quantity == 0.
func (s *StockService) GetOutOfStock(ctx context.Context) ([]domain.Product, error) {
	return s.filterProducts(ctx, func(p domain.Product) bool { return p.IsOutOfStock() })
}

// GetExpiring returns products whose expiry date falls within horizonDays
// from now. Non-positive horizonDays selects the default horizon.
func (s *StockService) GetExpiring(ctx context.Context, horizonDays int) ([]domain.Product, error) {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultExpiryHorizonDays
	}
	now := time.Now().UTC()
	horizon := time.Duration(horizonDays) * 24 * time.Hour
	return s.filterProducts(ctx, func(p domain.Product) bool { return p.ExpiresWithin(now, horizon) })
}

// SearchInStock matches query against name, brand, barcode and category,
// case-insensitively, preserving storage order.
func (s *StockService) SearchInStock(ctx context.Context, query string) ([]domain.Product, error) {
	return s.filterProducts(ctx, func(p domain.Product) bool { return p.MatchesQuery(query) })
}

// GetMovements returns the audit history for one product.
func (s *StockService) GetMovements(ctx context.Context, productID string) ([]domain.Movement, error) {
	return s.movements.ListByProduct(ctx, productID)
}

// LookupBarcode exposes the catalog collaborator to the UI. A nil result
// with nil error means the catalog has nothing for this barcode.
func (s *StockService) LookupBarcode(ctx context.Context, barcode string) (*domain.Metadata, error) {
	return s.catalog.GetByBarcode(ctx, barcode)
}

// SearchCatalog searches the catalog by product name.
func (s *StockService) SearchCatalog(ctx context.Context, name string) ([]domain.Metadata, error) {
	return s.catalog.SearchByName(ctx, name)
}

func (s *StockService) filterProducts(ctx context.Context, keep func(domain.Product) bool) ([]domain.Product, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// recordMovement appends one audit record and publishes it to the stream.
// Append and publish failures are logged, not raised: the quantity change
// has already been persisted.
func (s *StockService) recordMovement(ctx context.Context, productID string, typ domain.MovementType, quantity int, reason string) {
	movement := domain.Movement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Type:      typ,
		Quantity:  quantity,
		Date:      time.Now().UTC(),
		Reason:    reason,
	}
	if err := s.movements.Append(ctx, &movement); err != nil {
		logger.Error(ctx, "Failed to append stock movement",
			"product_id", productID, "type", typ, "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.StockMovementsTotal.WithLabelValues(string(typ)).Inc()
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, &movement); err != nil {
			logger.Warn(ctx, "Failed to publish stock movement",
				"product_id", productID, "movement_id", movement.ID, "error", err)
		}
	}
}
