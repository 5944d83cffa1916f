package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amrahulsaini/casebuddy-sub000/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderController serves the back-office order views.
type OrderController struct {
	orders    repository.OrderRepository
	shipments repository.ShipmentRepository
}

// NewOrderController creates a new OrderController.
func NewOrderController(orders repository.OrderRepository, shipments repository.ShipmentRepository) *OrderController {
	return &OrderController{orders: orders, shipments: shipments}
}

// ListOrders handles GET /orders with page/limit query params.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	orders, total, err := oc.orders.FindAll(ctx.Request.Context(), page, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// GetOrder handles GET /orders/:id, returning the order with its shipments.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := oc.orders.FindByID(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	shipments, err := oc.shipments.FindByOrderID(ctx.Request.Context(), uint(id))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load shipments"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"order":     order,
		"shipments": shipments,
	})
}

// parsePaginationParams extracts and validates page/limit query params.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const maxLimit = 100
	pageInt, limitInt := 1, 10
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil && l > 0 {
		if l > maxLimit {
			l = maxLimit
		}
		limitInt = l
	}
	return pageInt, limitInt
}
