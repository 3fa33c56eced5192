package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"restaurant-service/database"
)

// Store is the unit of work over all repositories. Repositories obtained from
// the tx argument of Transaction or Snapshot run inside that transaction.
type Store interface {
	Tables() TableRepository
	Menus() MenuRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository

	// Transaction runs fn in a read-write transaction and rolls back when fn
	// returns an error.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	// Snapshot runs fn in a read-only transaction that sees one consistent
	// snapshot of the database.
	Snapshot(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Tables() TableRepository         { return NewGormTableRepository(s.db) }
func (s *GormStore) Menus() MenuRepository           { return NewGormMenuRepository(s.db) }
func (s *GormStore) Orders() OrderRepository         { return NewGormOrderRepository(s.db) }
func (s *GormStore) OrderItems() OrderItemRepository { return NewGormOrderItemRepository(s.db) }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
	return translateError(err)
}

func (s *GormStore) Snapshot(ctx context.Context, fn func(tx Store) error) error {
	var opts []*sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	}, opts...)
	return translateError(err)
}

func (s *GormStore) Ping(ctx context.Context) error {
	return translateError(database.Ping(ctx, s.db))
}
