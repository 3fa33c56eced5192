package services

import (
	"context"

	"go.uber.org/zap"

	apperrors "restaurant-service/common/errors"
	"restaurant-service/cooking"
	"restaurant-service/models"
	"restaurant-service/repository"
)

// MsgEmptyItems is returned when an order request carries no menu IDs.
const MsgEmptyItems = "Please Add Items"

// Ledger is the order state machine: a table has no order until its first
// item arrives, and loses it when its last item is removed.
type Ledger interface {
	AddItems(ctx context.Context, tableID int64, menuIDs []int64) (*models.AddItemsResult, error)
	RemoveItem(ctx context.Context, tableID, menuID int64) (*models.RemoveItemResult, error)
	TotalCookingTime(ctx context.Context, orderID int64) (int64, error)
}

// OrderLedger runs every operation in a single transaction that starts by
// locking the table's order row. Two creators racing on a table without an
// order collide on the unique index on orders.table_id; the loser gets a
// ConstraintViolation and is expected to retry once.
type OrderLedger struct {
	store  repository.Store
	policy cooking.Policy
	logger *zap.Logger
}

func NewOrderLedger(store repository.Store, policy cooking.Policy, logger *zap.Logger) *OrderLedger {
	return &OrderLedger{store: store, policy: policy, logger: logger}
}

// AddItems merges menuIDs into the table's order, opening one when the table
// has none. Either every item is applied or none is.
func (l *OrderLedger) AddItems(ctx context.Context, tableID int64, menuIDs []int64) (*models.AddItemsResult, error) {
	if len(menuIDs) == 0 {
		return nil, apperrors.BadRequest(MsgEmptyItems)
	}

	result := &models.AddItemsResult{}
	err := l.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByTableForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if order == nil {
			order = &models.Order{TableID: tableID}
			if err := tx.Orders().Create(ctx, order); err != nil {
				return err
			}
			result.OrderOpened = true
		}
		result.OrderID = order.ID

		items := tx.OrderItems()
		for _, menuID := range menuIDs {
			if err := l.mergeItem(ctx, items, order.ID, menuID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Items added to order",
		zap.Int64("order_id", result.OrderID),
		zap.Int64("table_id", tableID),
		zap.Int("items", len(menuIDs)),
		zap.Bool("order_opened", result.OrderOpened),
	)
	return result, nil
}

func (l *OrderLedger) mergeItem(ctx context.Context, items repository.OrderItemRepository, orderID, menuID int64) error {
	item, err := items.FindItem(ctx, orderID, menuID)
	if err != nil {
		return err
	}
	if item == nil {
		_, err := items.CreateItem(ctx, orderID, menuID, l.policy.InitialCookTime())
		return err
	}

	ok, err := items.IncrementQuantity(ctx, item.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ConstraintViolation("order item disappeared during update", nil)
	}
	return nil
}

// RemoveItem takes one unit of menuID off the table's order and deletes the
// order when that was its last item. The emptiness check and the delete share
// the transaction and the order row lock with the removal.
func (l *OrderLedger) RemoveItem(ctx context.Context, tableID, menuID int64) (*models.RemoveItemResult, error) {
	var result models.RemoveItemResult
	err := l.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByTableForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperrors.NotFound("No order found for table")
		}

		outcome, err := tx.OrderItems().DecrementOrRemove(ctx, order.ID, menuID)
		if err != nil {
			return err
		}

		if outcome == models.OutcomeItemRemoved {
			remaining, err := tx.OrderItems().HasAnyItems(ctx, order.ID)
			if err != nil {
				return err
			}
			if !remaining {
				if err := tx.Orders().Delete(ctx, order.ID); err != nil {
					return err
				}
				outcome = models.OutcomeItemRemovedOrderClosed
			}
		}

		result = models.RemoveItemResult{
			OrderID: order.ID,
			Outcome: outcome,
			Message: outcome.Message(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Item removed from order",
		zap.Int64("order_id", result.OrderID),
		zap.Int64("table_id", tableID),
		zap.Int64("menu_id", menuID),
		zap.String("outcome", string(result.Outcome)),
	)
	return &result, nil
}

// TotalCookingTime sums the cook time of the order's items at read time.
func (l *OrderLedger) TotalCookingTime(ctx context.Context, orderID int64) (int64, error) {
	var total int64
	err := l.store.Snapshot(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperrors.NotFound("Order not found")
		}
		total, err = tx.OrderItems().SumCookingTime(ctx, orderID)
		return err
	})
	return total, err
}
