package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-service/models"
)

// OrderRepository persists the open order of each table. The unique index on
// orders.table_id is what guarantees a single open order per table.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindByTable(ctx context.Context, tableID int64) (*models.Order, error)
	// FindByTableForUpdate also locks the order row until the surrounding
	// transaction ends.
	FindByTableForUpdate(ctx context.Context, tableID int64) (*models.Order, error)
	ListViews(ctx context.Context) ([]models.OrderView, error)
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error)
}

func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	return translateError(r.db.WithContext(ctx).Delete(&models.Order{}, id).Error)
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.take(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormOrderRepository) FindByTable(ctx context.Context, tableID int64) (*models.Order, error) {
	return r.take(r.db.WithContext(ctx).Where("table_id = ?", tableID))
}

func (r *GormOrderRepository) FindByTableForUpdate(ctx context.Context, tableID int64) (*models.Order, error) {
	return r.take(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("table_id = ?", tableID))
}

func (r *GormOrderRepository) take(q *gorm.DB) (*models.Order, error) {
	var order models.Order
	err := q.Take(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

type orderRow struct {
	ID        int64
	TableID   int64
	TableName string
}

// ListViews returns every order with its table code. Items and totals are
// filled in by the caller.
func (r *GormOrderRepository) ListViews(ctx context.Context) ([]models.OrderView, error) {
	var rows []orderRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.id, orders.table_id, tables.code AS table_name").
		Joins("JOIN tables ON tables.id = orders.table_id").
		Order("orders.id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	views := make([]models.OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, models.OrderView{
			ID:        row.ID,
			TableID:   row.TableID,
			TableName: row.TableName,
			Menus:     []models.OrderItemView{},
		})
	}
	return views, nil
}
