package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-service/cooking"
	"restaurant-service/models"
)

// OrderItemRepository stores the lines of an order, at most one per
// (order, menu) pair. Quantity changes are read-modify-write under a row lock
// and run in their own transaction, or in a savepoint when the repository was
// obtained inside Store.Transaction.
type OrderItemRepository interface {
	FindItem(ctx context.Context, orderID, menuID int64) (*models.OrderItem, error)
	CreateItem(ctx context.Context, orderID, menuID int64, cookTime int32) (*models.OrderItem, error)
	// IncrementQuantity adds one unit to the item and scales its cook time.
	// It reports false when the item does not exist.
	IncrementQuantity(ctx context.Context, itemID int64) (bool, error)
	// DecrementOrRemove removes one unit of the menu from the order, deleting
	// the line when its last unit goes. A line that does not exist is
	// reported as removed.
	DecrementOrRemove(ctx context.Context, orderID, menuID int64) (models.RemoveOutcome, error)
	HasAnyItems(ctx context.Context, orderID int64) (bool, error)
	SumCookingTime(ctx context.Context, orderID int64) (int64, error)
	ListByOrder(ctx context.Context, orderID int64) ([]models.OrderItemView, error)
	ListByOrders(ctx context.Context, orderIDs []int64) ([]models.OrderItemView, error)
	FindView(ctx context.Context, orderID, menuID int64) (*models.OrderItemView, error)
}

type GormOrderItemRepository struct {
	db *gorm.DB
}

func NewGormOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

func (r *GormOrderItemRepository) FindItem(ctx context.Context, orderID, menuID int64) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND menu_id = ?", orderID, menuID).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

func (r *GormOrderItemRepository) CreateItem(ctx context.Context, orderID, menuID int64, cookTime int32) (*models.OrderItem, error) {
	item := &models.OrderItem{
		OrderID:     orderID,
		MenuID:      menuID,
		CookingTime: cookTime,
		Quantity:    1,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, translateError(err)
	}
	return item, nil
}

func (r *GormOrderItemRepository) IncrementQuantity(ctx context.Context, itemID int64) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", itemID).Take(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return tx.Model(&item).Updates(map[string]any{
			"cooking_time": cooking.ScaleUp(item.CookingTime, item.Quantity),
			"quantity":     item.Quantity + 1,
		}).Error
	})
	if err != nil {
		return false, translateError(err)
	}
	return found, nil
}

func (r *GormOrderItemRepository) DecrementOrRemove(ctx context.Context, orderID, menuID int64) (models.RemoveOutcome, error) {
	var outcome models.RemoveOutcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ? AND menu_id = ?", orderID, menuID).
			Take(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome = models.OutcomeItemRemoved
			return nil
		}
		if err != nil {
			return err
		}

		if cookTime, quantity, ok := cooking.ScaleDown(item.CookingTime, item.Quantity); ok {
			outcome = models.OutcomeQuantityReduced
			return tx.Model(&item).Updates(map[string]any{
				"cooking_time": cookTime,
				"quantity":     quantity,
			}).Error
		}

		outcome = models.OutcomeItemRemoved
		return tx.Delete(&models.OrderItem{}, item.ID).Error
	})
	if err != nil {
		return "", translateError(err)
	}
	return outcome, nil
}

func (r *GormOrderItemRepository) HasAnyItems(ctx context.Context, orderID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// SumCookingTime is computed on every call; no total is stored.
func (r *GormOrderItemRepository) SumCookingTime(ctx context.Context, orderID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("COALESCE(SUM(cooking_time), 0)").
		Where("order_id = ?", orderID).
		Scan(&total).Error
	return total, translateError(err)
}

func (r *GormOrderItemRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.id, order_items.order_id, order_items.menu_id, menus.name AS menu_name, order_items.cooking_time, order_items.quantity").
		Joins("JOIN menus ON menus.id = order_items.menu_id")
}

func (r *GormOrderItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.OrderItemView, error) {
	return r.ListByOrders(ctx, []int64{orderID})
}

// ListByOrders returns the items of all given orders, grouped by order and
// ordered by insertion within each order.
func (r *GormOrderItemRepository) ListByOrders(ctx context.Context, orderIDs []int64) ([]models.OrderItemView, error) {
	items := []models.OrderItemView{}
	if len(orderIDs) == 0 {
		return items, nil
	}
	err := r.views(ctx).
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.order_id, order_items.id").
		Scan(&items).Error
	if err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

func (r *GormOrderItemRepository) FindView(ctx context.Context, orderID, menuID int64) (*models.OrderItemView, error) {
	var items []models.OrderItemView
	err := r.views(ctx).
		Where("order_items.order_id = ? AND order_items.menu_id = ?", orderID, menuID).
		Limit(1).
		Scan(&items).Error
	if err != nil {
		return nil, translateError(err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}
