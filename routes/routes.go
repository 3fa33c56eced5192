package routes

import (
	"github.com/gin-gonic/gin"

	"restaurant-service/controllers"
)

// RegisterTableRoutes sets up table routes, including the per-table item views.
func RegisterTableRoutes(r *gin.Engine, tc *controllers.TableController, oc *controllers.OrderController) {
	tables := r.Group("/tables")
	tables.POST("/create", tc.CreateTable)
	tables.GET("", tc.ListTables)
	tables.GET("/:table_id/items", oc.ListTableItems)
	tables.GET("/:table_id/items/:menu_id", oc.GetTableItem)
}

// RegisterMenuRoutes sets up menu catalog routes.
func RegisterMenuRoutes(r *gin.Engine, mc *controllers.MenuController) {
	menus := r.Group("/menus")
	menus.POST("/create", mc.CreateMenu)
	menus.GET("", mc.ListMenus)
}

// RegisterOrderRoutes sets up order ledger routes.
func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController) {
	orders := r.Group("/orders")
	orders.POST("/create", oc.CreateOrder)
	orders.GET("", oc.ListOrders)
	orders.GET("/:order_id/cooking-time", oc.GetCookingTime)
	orders.DELETE("/:table_id/items/:menu_id", oc.RemoveItem)

	r.GET("/state", oc.State)
}

func RegisterHealthRoutes(r *gin.Engine, hc *controllers.HealthController) {
	r.GET("/health", hc.Health)
}
