package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"restaurant-service/models"
)

// MenuRepository defines the persistence operations for the menu catalog.
type MenuRepository interface {
	Create(ctx context.Context, menu *models.Menu) error
	FindByID(ctx context.Context, id int64) (*models.Menu, error)
	FindByName(ctx context.Context, name string) (*models.Menu, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Menu, error)
	List(ctx context.Context) ([]models.Menu, error)
}

type GormMenuRepository struct {
	db *gorm.DB
}

func NewGormMenuRepository(db *gorm.DB) MenuRepository {
	return &GormMenuRepository{db: db}
}

func (r *GormMenuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return translateError(r.db.WithContext(ctx).Create(menu).Error)
}

func (r *GormMenuRepository) FindByID(ctx context.Context, id int64) (*models.Menu, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormMenuRepository) FindByName(ctx context.Context, name string) (*models.Menu, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *GormMenuRepository) findOne(ctx context.Context, query string, arg any) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).Where(query, arg).Take(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &menu, nil
}

// FindByIDs returns the menus that exist among ids, in id order.
func (r *GormMenuRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Menu, error) {
	menus := []models.Menu{}
	if len(ids) == 0 {
		return menus, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&menus).Error
	return menus, translateError(err)
}

func (r *GormMenuRepository) List(ctx context.Context) ([]models.Menu, error) {
	menus := []models.Menu{}
	err := r.db.WithContext(ctx).Order("id").Find(&menus).Error
	return menus, translateError(err)
}
