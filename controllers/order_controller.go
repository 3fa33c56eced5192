package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-service/models"
	"restaurant-service/services"
)

// OrderController handles HTTP requests for orders and their items.
type OrderController struct {
	orderService services.OrderService
}

func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder handles POST /orders/create. A new order answers 201, items
// merged into an existing order answer 200.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	result, err := oc.orderService.AddItems(ctx.Request.Context(), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(createdStatus(result.OrderOpened), result)
}

// ListOrders handles GET /orders.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	orders, err := oc.orderService.ListOrders(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// RemoveItem handles DELETE /orders/:table_id/items/:menu_id.
func (oc *OrderController) RemoveItem(ctx *gin.Context) {
	tableID, err := pathID(ctx, "table_id")
	if err != nil {
		fail(ctx, err)
		return
	}
	menuID, err := pathID(ctx, "menu_id")
	if err != nil {
		fail(ctx, err)
		return
	}

	result, err := oc.orderService.RemoveItem(ctx.Request.Context(), tableID, menuID)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetCookingTime handles GET /orders/:order_id/cooking-time.
func (oc *OrderController) GetCookingTime(ctx *gin.Context) {
	orderID, err := pathID(ctx, "order_id")
	if err != nil {
		fail(ctx, err)
		return
	}

	total, err := oc.orderService.TotalCookingTime(ctx.Request.Context(), orderID)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.CookingTimeResponse{OrderID: orderID, TotalCookingTime: total})
}

// ListTableItems handles GET /tables/:table_id/items.
func (oc *OrderController) ListTableItems(ctx *gin.Context) {
	tableID, err := pathID(ctx, "table_id")
	if err != nil {
		fail(ctx, err)
		return
	}

	items, err := oc.orderService.ListTableItems(ctx.Request.Context(), tableID)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// GetTableItem handles GET /tables/:table_id/items/:menu_id.
func (oc *OrderController) GetTableItem(ctx *gin.Context) {
	tableID, err := pathID(ctx, "table_id")
	if err != nil {
		fail(ctx, err)
		return
	}
	menuID, err := pathID(ctx, "menu_id")
	if err != nil {
		fail(ctx, err)
		return
	}

	item, err := oc.orderService.GetTableItem(ctx.Request.Context(), tableID, menuID)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// State handles GET /state.
func (oc *OrderController) State(ctx *gin.Context) {
	state, err := oc.orderService.State(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}
