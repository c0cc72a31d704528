// Package http exposes the order reconciliation engine over the REST API.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/stockkeeper/internal/order/application"
	stockdomain "github.com/wyfcoding/stockkeeper/internal/stock/domain"
	"github.com/wyfcoding/stockkeeper/pkg/logger"
)

// OrderHandler handles order list requests.
type OrderHandler struct {
	orders *application.OrderService
}

// NewOrderHandler creates the handler.
func NewOrderHandler(orders *application.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes binds the order routes.
func (h *OrderHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/orders", h.ListItems)
	api.POST("/orders", h.AddItem)
	api.PUT("/orders/:id", h.UpdateItem)
	api.DELETE("/orders/:id", h.RemoveItem)
	api.DELETE("/orders", h.ClearAll)

	api.GET("/orders/auto", h.ListAutoItems)
	api.GET("/orders/hidden", h.ListHidden)
	api.POST("/orders/restore/:productId", h.RestoreItem)
}

// ListItems handles GET /orders. The response interleaves recomputed
// auto suggestions with manual entries.
func (h *OrderHandler) ListItems(c *gin.Context) {
	items, err := h.orders.GetOrderItems(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list order items", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListAutoItems handles GET /orders/auto.
func (h *OrderHandler) ListAutoItems(c *gin.Context) {
	items, err := h.orders.GetAutoOrderItems(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list auto order items", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type addItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Brand    string `json:"brand"`
	Quantity int    `json:"quantity"`
	Barcode  string `json:"barcode"`
	ImageURL string `json:"image_url"`
}

// AddItem handles POST /orders.
func (h *OrderHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.orders.AddOrderItem(c.Request.Context(), application.AddItemInput{
		Name:     req.Name,
		Brand:    req.Brand,
		Quantity: req.Quantity,
		Barcode:  req.Barcode,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeError(c, "Failed to add order item", err)
		return
	}
	c.Status(http.StatusCreated)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /orders/:id. The id may address either an auto
// suggestion or a manual entry.
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orders.UpdateOrderItemQuantity(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
		writeError(c, "Failed to update order item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveItem handles DELETE /orders/:id. Removing an auto suggestion
// hides it instead of deleting anything.
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	if err := h.orders.RemoveOrderItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "Failed to remove order item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RestoreItem handles POST /orders/restore/:productId.
func (h *OrderHandler) RestoreItem(c *gin.Context) {
	if err := h.orders.RestoreAutoOrderItem(c.Request.Context(), c.Param("productId")); err != nil {
		writeError(c, "Failed to restore order item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListHidden handles GET /orders/hidden.
func (h *OrderHandler) ListHidden(c *gin.Context) {
	products, err := h.orders.GetHiddenAutoOrderItems(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list hidden suggestions", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ClearAll handles DELETE /orders.
func (h *OrderHandler) ClearAll(c *gin.Context) {
	if err := h.orders.ClearAllOrders(c.Request.Context()); err != nil {
		writeError(c, "Failed to clear orders", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, stockdomain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case stockdomain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
