package models

import "time"

// Order is the single open tab of a table. It exists only while it owns at
// least one item.
type Order struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	TableID   int64     `gorm:"not null;uniqueIndex" json:"table_id"`
	Table     *Table    `gorm:"foreignKey:TableID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// OrderItem is one menu line of an order. CookingTime is the aggregate for the
// whole quantity, not a per-unit value.
type OrderItem struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	OrderID     int64     `gorm:"not null;uniqueIndex:idx_order_items_order_menu" json:"order_id"`
	Order       *Order    `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"-"`
	MenuID      int64     `gorm:"not null;uniqueIndex:idx_order_items_order_menu;index" json:"menu_id"`
	Menu        *Menu     `gorm:"foreignKey:MenuID;constraint:OnDelete:RESTRICT" json:"-"`
	CookingTime int32     `gorm:"not null" json:"cooking_time"`
	Quantity    int32     `gorm:"not null;default:1" json:"quantity"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RemoveOutcome reports what removing one unit of a menu item did.
type RemoveOutcome string

const (
	OutcomeQuantityReduced        RemoveOutcome = "quantity_reduced"
	OutcomeItemRemoved            RemoveOutcome = "item_removed"
	OutcomeItemRemovedOrderClosed RemoveOutcome = "item_removed_order_closed"
)

// Message is the user-facing confirmation for the outcome.
func (o RemoveOutcome) Message() string {
	switch o {
	case OutcomeQuantityReduced:
		return "Menu quantity updated successfully"
	case OutcomeItemRemovedOrderClosed:
		return "Menu deleted successfully and order deleted"
	default:
		return "Menu deleted successfully"
	}
}

type CreateOrderRequest struct {
	TableID int64   `json:"table_id" binding:"required,gt=0"`
	MenuIDs []int64 `json:"menu_ids"`
}

// AddItemsResult is returned by the ledger after items were added.
type AddItemsResult struct {
	OrderID     int64 `json:"id"`
	OrderOpened bool  `json:"order_opened"`
}

// RemoveItemResult is returned by the ledger after one unit was removed.
type RemoveItemResult struct {
	OrderID int64         `json:"order_id"`
	Outcome RemoveOutcome `json:"outcome"`
	Message string        `json:"message"`
}

// OrderItemView is an order item joined with its menu name.
type OrderItemView struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	MenuID      int64  `json:"menu_id"`
	MenuName    string `json:"menu_name"`
	CookingTime int32  `json:"cooking_time"`
	Quantity    int32  `json:"quantity"`
}

// OrderView is an order with its table code, items and summed cook time.
type OrderView struct {
	ID               int64           `json:"id"`
	TableID          int64           `json:"table_id"`
	TableName        string          `json:"table_name"`
	TotalCookingTime int64           `json:"total_cooking_time"`
	Menus            []OrderItemView `json:"menus"`
}

// CookingTimeResponse carries the computed total for one order.
type CookingTimeResponse struct {
	OrderID          int64 `json:"order_id"`
	TotalCookingTime int64 `json:"total_cooking_time"`
}

// RestaurantState is a consistent snapshot of tables, menus and open orders.
type RestaurantState struct {
	Tables []Table     `json:"tables"`
	Menus  []Menu      `json:"menus"`
	Orders []OrderView `json:"orders"`
}
