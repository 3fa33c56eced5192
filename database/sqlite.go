package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenSQLite opens a file-backed SQLite database with foreign keys enforced.
// SQLite allows one writer at a time, so the pool is capped at one connection
// and concurrent transactions queue behind each other.
func OpenSQLite(logger *zap.Logger, path string) (*gorm.DB, error) {
	return openSQLite(logger, fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path))
}

// OpenInMemory opens a named in-memory SQLite database. Each name is a separate
// database that lives as long as its connection.
func OpenInMemory(logger *zap.Logger, name string) (*gorm.DB, error) {
	return openSQLite(logger, fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name))
}

func openSQLite(logger *zap.Logger, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	logger.Info("Opened SQLite database", zap.String("dsn", dsn))
	return db, nil
}
