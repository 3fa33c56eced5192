package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restaurant-service/database"
	"restaurant-service/models"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.OpenInMemory(zap.NewNop(), uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return NewGormStore(db)
}

type fixture struct {
	table models.Table
	pasta models.Menu
	salad models.Menu
	order models.Order
	store *GormStore
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := newTestStore(t)
	f := &fixture{
		table: models.Table{Code: "T1"},
		pasta: models.Menu{Name: "pasta"},
		salad: models.Menu{Name: "salad"},
		store: store,
		ctx:   ctx,
	}
	require.NoError(t, store.Tables().Create(ctx, &f.table))
	require.NoError(t, store.Menus().Create(ctx, &f.pasta))
	require.NoError(t, store.Menus().Create(ctx, &f.salad))
	f.order = models.Order{TableID: f.table.ID}
	require.NoError(t, store.Orders().Create(ctx, &f.order))
	return f
}
