// Package http exposes the stock ledger over the REST API.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/stockkeeper/internal/stock/application"
	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
	"github.com/wyfcoding/stockkeeper/pkg/logger"
)

// expiry dates travel as calendar dates on the wire
const dateLayout = "2006-01-02"

// StockHandler handles stock ledger requests.
type StockHandler struct {
	stock *application.StockService
}

// NewStockHandler creates the handler.
func NewStockHandler(stock *application.StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

// RegisterRoutes binds the ledger routes.
func (h *StockHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/stock/in", h.AddStock)
	api.POST("/stock/out", h.RemoveStock)

	api.GET("/products", h.ListProducts)
	api.POST("/products", h.CreateProduct)
	api.PUT("/products/:id", h.UpdateProduct)
	api.DELETE("/products/:id", h.DeleteProduct)
	api.GET("/products/low-stock", h.ListLowStock)
	api.GET("/products/out-of-stock", h.ListOutOfStock)
	api.GET("/products/expiring", h.ListExpiring)
	api.GET("/products/:id/movements", h.ListMovements)

	api.GET("/catalog/search", h.SearchCatalog)
	api.GET("/catalog/:barcode", h.LookupBarcode)
}

type stockInRequest struct {
	Barcode    string `json:"barcode" binding:"required"`
	Quantity   int    `json:"quantity"`
	ExpiryDate string `json:"expiry_date"`
}

// AddStock handles POST /stock/in.
func (h *StockHandler) AddStock(c *gin.Context) {
	var req stockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		t, err := time.Parse(dateLayout, req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be formatted as YYYY-MM-DD"})
			return
		}
		expiry = &t
	}

	product, err := h.stock.AddStock(c.Request.Context(), req.Barcode, req.Quantity, expiry)
	if err != nil {
		writeError(c, "Failed to add stock", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type stockOutRequest struct {
	Barcode  string `json:"barcode" binding:"required"`
	Quantity int    `json:"quantity"`
}

// RemoveStock handles POST /stock/out.
func (h *StockHandler) RemoveStock(c *gin.Context) {
	var req stockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.stock.RemoveStock(c.Request.Context(), req.Barcode, req.Quantity)
	if err != nil {
		writeError(c, "Failed to remove stock", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts handles GET /products. With ?q= it becomes a search.
func (h *StockHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if q := c.Query("q"); q != "" {
		products, err := h.stock.SearchInStock(ctx, q)
		if err != nil {
			writeError(c, "Failed to search products", err)
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}

	products, err := h.stock.GetAllProducts(ctx)
	if err != nil {
		writeError(c, "Failed to list products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type createProductRequest struct {
	Name       string `json:"name" binding:"required"`
	Brand      string `json:"brand"`
	Barcode    string `json:"barcode"`
	Quantity   int    `json:"quantity"`
	MinStock   *int   `json:"min_stock"`
	ExpiryDate string `json:"expiry_date"`
	ImageURL   string `json:"image_url"`
	Category   string `json:"category"`
	Unit       string `json:"unit"`
}

// CreateProduct handles POST /products (freehand creation).
func (h *StockHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := application.CreateProductInput{
		Name:     req.Name,
		Brand:    req.Brand,
		Barcode:  req.Barcode,
		Quantity: req.Quantity,
		MinStock: req.MinStock,
		ImageURL: req.ImageURL,
		Category: req.Category,
		Unit:     req.Unit,
	}
	if req.ExpiryDate != "" {
		t, err := time.Parse(dateLayout, req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be formatted as YYYY-MM-DD"})
			return
		}
		in.ExpiryDate = &t
	}

	product, err := h.stock.CreateProduct(c.Request.Context(), in)
	if err != nil {
		writeError(c, "Failed to create product", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Brand       *string `json:"brand"`
	Quantity    *int    `json:"quantity"`
	MinStock    *int    `json:"min_stock"`
	ExpiryDate  *string `json:"expiry_date"`
	ClearExpiry bool    `json:"clear_expiry"`
	ImageURL    *string `json:"image_url"`
	Category    *string `json:"category"`
	Unit        *string `json:"unit"`
}

// UpdateProduct handles PUT /products/:id.
func (h *StockHandler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := application.UpdateProductInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
		ClearExpiry: req.ClearExpiry,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Unit:        req.Unit,
	}
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		t, err := time.Parse(dateLayout, *req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be formatted as YYYY-MM-DD"})
			return
		}
		in.ExpiryDate = &t
	}

	product, err := h.stock.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, "Failed to update product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id.
func (h *StockHandler) DeleteProduct(c *gin.Context) {
	if err := h.stock.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "Failed to delete product", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListLowStock handles GET /products/low-stock.
func (h *StockHandler) ListLowStock(c *gin.Context) {
	products, err := h.stock.GetLowStock(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list low stock products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListOutOfStock handles GET /products/out-of-stock.
func (h *StockHandler) ListOutOfStock(c *gin.Context) {
	products, err := h.stock.GetOutOfStock(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list out of stock products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListExpiring handles GET /products/expiring?days=N.
func (h *StockHandler) ListExpiring(c *gin.Context) {
	days := 0
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = parsed
	}

	products, err := h.stock.GetExpiring(c.Request.Context(), days)
	if err != nil {
		writeError(c, "Failed to list expiring products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListMovements handles GET /products/:id/movements.
func (h *StockHandler) ListMovements(c *gin.Context) {
	movements, err := h.stock.GetMovements(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Failed to list movements", err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

// LookupBarcode handles GET /catalog/:barcode. A null body means the
// catalog has nothing for this barcode.
func (h *StockHandler) LookupBarcode(c *gin.Context) {
	meta, err := h.stock.LookupBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		writeError(c, "Failed to look up barcode", err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// SearchCatalog handles GET /catalog/search?q=.
func (h *StockHandler) SearchCatalog(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	results, err := h.stock.SearchCatalog(c.Request.Context(), q)
	if err != nil {
		writeError(c, "Failed to search catalog", err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// writeError maps ledger errors onto HTTP statuses.
func writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
