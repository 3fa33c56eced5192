package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"restaurant-service/models"
)

// Migrate creates or updates the schema, including the unique indexes that
// keep one order per table and one line per (order, menu).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Table{}, &models.Menu{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
