package services

import (
	"context"

	apperrors "restaurant-service/common/errors"
	"restaurant-service/models"
	"restaurant-service/repository"
)

// MsgNoItemFound is the NotFound message for item lookups.
const MsgNoItemFound = "No Item Found"

// OrderQuery assembles read models. Each call reads from a single snapshot.
type OrderQuery struct {
	store repository.Store
}

func NewOrderQuery(store repository.Store) *OrderQuery {
	return &OrderQuery{store: store}
}

// ListOrders returns every open order with its items and total cook time.
func (q *OrderQuery) ListOrders(ctx context.Context) ([]models.OrderView, error) {
	var views []models.OrderView
	err := q.store.Snapshot(ctx, func(tx repository.Store) error {
		var err error
		views, err = listOrders(ctx, tx)
		return err
	})
	return views, err
}

func listOrders(ctx context.Context, tx repository.Store) ([]models.OrderView, error) {
	views, err := tx.Orders().ListViews(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(views))
	ids := make([]int64, 0, len(views))
	for i, v := range views {
		index[v.ID] = i
		ids = append(ids, v.ID)
	}

	items, err := tx.OrderItems().ListByOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		i, ok := index[item.OrderID]
		if !ok {
			continue
		}
		views[i].Menus = append(views[i].Menus, item)
		views[i].TotalCookingTime += int64(item.CookingTime)
	}
	return views, nil
}

// ListTableItems returns the items of the table's order, or an empty list
// when the table has no order.
func (q *OrderQuery) ListTableItems(ctx context.Context, tableID int64) ([]models.OrderItemView, error) {
	items := []models.OrderItemView{}
	err := q.store.Snapshot(ctx, func(tx repository.Store) error {
		table, err := tx.Tables().FindByID(ctx, tableID)
		if err != nil {
			return err
		}
		if table == nil {
			return apperrors.NotFound("Table not found")
		}

		order, err := tx.Orders().FindByTable(ctx, tableID)
		if err != nil || order == nil {
			return err
		}
		items, err = tx.OrderItems().ListByOrder(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetTableItem returns the line for menuID on the table's order.
func (q *OrderQuery) GetTableItem(ctx context.Context, tableID, menuID int64) (*models.OrderItemView, error) {
	var item *models.OrderItemView
	err := q.store.Snapshot(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByTable(ctx, tableID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperrors.NotFound(MsgNoItemFound)
		}
		item, err = tx.OrderItems().FindView(ctx, order.ID, menuID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperrors.NotFound(MsgNoItemFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// State returns tables, menus and orders as of one instant.
func (q *OrderQuery) State(ctx context.Context) (*models.RestaurantState, error) {
	state := &models.RestaurantState{}
	err := q.store.Snapshot(ctx, func(tx repository.Store) error {
		var err error
		if state.Tables, err = tx.Tables().List(ctx); err != nil {
			return err
		}
		if state.Menus, err = tx.Menus().List(ctx); err != nil {
			return err
		}
		state.Orders, err = listOrders(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}
