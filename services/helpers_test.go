package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restaurant-service/database"
	"restaurant-service/events"
	"restaurant-service/models"
	"restaurant-service/repository"
)

type fixedPolicy int32

func (p fixedPolicy) InitialCookTime() int32 { return int32(p) }

func newTestStore(t *testing.T) *repository.GormStore {
	t.Helper()
	db, err := database.OpenInMemory(zap.NewNop(), uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return repository.NewGormStore(db)
}

func seedTable(t *testing.T, store repository.Store, code string) models.Table {
	t.Helper()
	table := models.Table{Code: code}
	require.NoError(t, store.Tables().Create(context.Background(), &table))
	return table
}

func seedMenu(t *testing.T, store repository.Store, name string) models.Menu {
	t.Helper()
	menu := models.Menu{Name: name}
	require.NoError(t, store.Menus().Create(context.Background(), &menu))
	return menu
}

func itemFor(t *testing.T, store repository.Store, orderID, menuID int64) *models.OrderItem {
	t.Helper()
	item, err := store.OrderItems().FindItem(context.Background(), orderID, menuID)
	require.NoError(t, err)
	return item
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) AddItems(ctx context.Context, tableID int64, menuIDs []int64) (*models.AddItemsResult, error) {
	args := m.Called(ctx, tableID, menuIDs)
	res, _ := args.Get(0).(*models.AddItemsResult)
	return res, args.Error(1)
}

func (m *mockLedger) RemoveItem(ctx context.Context, tableID, menuID int64) (*models.RemoveItemResult, error) {
	args := m.Called(ctx, tableID, menuID)
	res, _ := args.Get(0).(*models.RemoveItemResult)
	return res, args.Error(1)
}

func (m *mockLedger) TotalCookingTime(ctx context.Context, orderID int64) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Emit(ctx context.Context, evt events.OrderEvent) {
	m.Called(ctx, evt)
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counts: map[string]int{}}
}

func (m *countingMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
	return nil
}

func (m *countingMetrics) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

func (m *countingMetrics) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]int64
	gets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]int64{}}
}

func (c *memoryCache) Get(_ context.Context, kind, key string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	id, ok := c.entries[kind+":"+key]
	return id, ok, nil
}

func (c *memoryCache) Set(_ context.Context, kind, key string, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[kind+":"+key] = id
	return nil
}

// staleReadStore hides the table's order from the locked read of the first
// transaction, as if a competing request committed it right after that read.
type staleReadStore struct {
	repository.Store
	mu           sync.Mutex
	transactions int
}

func (s *staleReadStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.mu.Lock()
	s.transactions++
	first := s.transactions == 1
	s.mu.Unlock()

	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		if first {
			return fn(staleReadTx{Store: tx})
		}
		return fn(tx)
	})
}

func (s *staleReadStore) attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions
}

type staleReadTx struct {
	repository.Store
}

func (tx staleReadTx) Orders() repository.OrderRepository {
	return staleOrders{OrderRepository: tx.Store.Orders()}
}

type staleOrders struct {
	repository.OrderRepository
}

func (staleOrders) FindByTableForUpdate(context.Context, int64) (*models.Order, error) {
	return nil, nil
}
