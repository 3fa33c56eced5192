package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"restaurant-service/models"
)

// TableRepository defines the persistence operations for tables. Find methods
// return nil, nil when nothing matches.
type TableRepository interface {
	Create(ctx context.Context, table *models.Table) error
	FindByID(ctx context.Context, id int64) (*models.Table, error)
	FindByCode(ctx context.Context, code string) (*models.Table, error)
	List(ctx context.Context) ([]models.Table, error)
}

type GormTableRepository struct {
	db *gorm.DB
}

func NewGormTableRepository(db *gorm.DB) TableRepository {
	return &GormTableRepository{db: db}
}

func (r *GormTableRepository) Create(ctx context.Context, table *models.Table) error {
	return translateError(r.db.WithContext(ctx).Create(table).Error)
}

func (r *GormTableRepository) FindByID(ctx context.Context, id int64) (*models.Table, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormTableRepository) FindByCode(ctx context.Context, code string) (*models.Table, error) {
	return r.findOne(ctx, "code = ?", code)
}

func (r *GormTableRepository) findOne(ctx context.Context, query string, arg any) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).Where(query, arg).Take(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &table, nil
}

func (r *GormTableRepository) List(ctx context.Context) ([]models.Table, error) {
	tables := []models.Table{}
	err := r.db.WithContext(ctx).Order("id").Find(&tables).Error
	return tables, translateError(err)
}
