package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-service/models"
	"restaurant-service/services"
)

// TableController handles HTTP requests for tables.
type TableController struct {
	tableService services.TableService
}

func NewTableController(tableService services.TableService) *TableController {
	return &TableController{tableService: tableService}
}

// CreateTable handles POST /tables/create. It answers 201 for a new table and
// 200 when the code was already registered.
func (tc *TableController) CreateTable(ctx *gin.Context) {
	var req models.CreateTableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	id, created, err := tc.tableService.Create(ctx.Request.Context(), req.Code)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(createdStatus(created), models.IdentityResponse{ID: id})
}

// ListTables handles GET /tables.
func (tc *TableController) ListTables(ctx *gin.Context) {
	tables, err := tc.tableService.List(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tables)
}

// MenuController handles HTTP requests for the menu catalog.
type MenuController struct {
	menuService services.MenuService
}

func NewMenuController(menuService services.MenuService) *MenuController {
	return &MenuController{menuService: menuService}
}

// CreateMenu handles POST /menus/create.
func (mc *MenuController) CreateMenu(ctx *gin.Context) {
	var req models.CreateMenuRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	id, created, err := mc.menuService.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(createdStatus(created), models.IdentityResponse{ID: id})
}

// ListMenus handles GET /menus.
func (mc *MenuController) ListMenus(ctx *gin.Context) {
	menus, err := mc.menuService.List(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, menus)
}

func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
