package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "restaurant-service/common/errors"
	"restaurant-service/common/logger"
	"restaurant-service/events"
	"restaurant-service/models"
	awspkg "restaurant-service/pkg/aws"
	"restaurant-service/repository"
)

// OrderService is the entry point for order requests. It validates table and
// menu identities, drives the ledger and publishes the resulting events.
type OrderService interface {
	AddItems(ctx context.Context, req *models.CreateOrderRequest) (*models.AddItemsResult, error)
	RemoveItem(ctx context.Context, tableID, menuID int64) (*models.RemoveItemResult, error)
	TotalCookingTime(ctx context.Context, orderID int64) (int64, error)
	ListOrders(ctx context.Context) ([]models.OrderView, error)
	ListTableItems(ctx context.Context, tableID int64) ([]models.OrderItemView, error)
	GetTableItem(ctx context.Context, tableID, menuID int64) (*models.OrderItemView, error)
	State(ctx context.Context) (*models.RestaurantState, error)
}

type orderServiceImpl struct {
	ledger  Ledger
	query   *OrderQuery
	store   repository.Store
	events  EventPublisher
	metrics metricsSink
	logger  *zap.Logger
}

// NewOrderService wires the order facade. events and metrics may be nil.
func NewOrderService(
	ledger Ledger,
	query *OrderQuery,
	store repository.Store,
	publisher EventPublisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		ledger:  ledger,
		query:   query,
		store:   store,
		events:  publisher,
		metrics: metricsSink{recorder: metrics, service: "restaurant-service", logger: logger},
		logger:  logger,
	}
}

func (s *orderServiceImpl) AddItems(ctx context.Context, req *models.CreateOrderRequest) (*models.AddItemsResult, error) {
	if len(req.MenuIDs) == 0 {
		return nil, apperrors.BadRequest(MsgEmptyItems)
	}
	if err := s.validateIdentities(ctx, req.TableID, req.MenuIDs); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := retryOnConflict(ctx, s, "add_items", func() (*models.AddItemsResult, error) {
		return s.ledger.AddItems(ctx, req.TableID, req.MenuIDs)
	})
	s.metrics.latency(ctx, awspkg.MetricLedgerLatency, time.Since(start), map[string]string{"Operation": "add_items"})
	if err != nil {
		logger.With(ctx, s.logger).Warn("Failed to add items",
			zap.Int64("table_id", req.TableID),
			zap.Int64s("menu_ids", req.MenuIDs),
			zap.Error(err),
		)
		return nil, err
	}

	logger.With(ctx, s.logger).Info("Items added",
		zap.Int64("order_id", result.OrderID),
		zap.Int64("table_id", req.TableID),
		zap.Bool("order_opened", result.OrderOpened),
	)

	s.metrics.count(ctx, awspkg.MetricOrderItemsAdded, nil)
	eventType := events.EventOrderItemsAdded
	if result.OrderOpened {
		s.metrics.count(ctx, awspkg.MetricOrdersOpened, nil)
		eventType = events.EventOrderOpened
	}
	s.emit(ctx, events.OrderEvent{
		EventType: eventType,
		OrderID:   result.OrderID,
		TableID:   req.TableID,
		MenuIDs:   req.MenuIDs,
	})
	return result, nil
}

// validateIdentities turns unknown tables and menus into NotFound before the
// ledger sees them, instead of letting them surface as foreign-key violations.
func (s *orderServiceImpl) validateIdentities(ctx context.Context, tableID int64, menuIDs []int64) error {
	table, err := s.store.Tables().FindByID(ctx, tableID)
	if err != nil {
		return err
	}
	if table == nil {
		return apperrors.NotFound(fmt.Sprintf("Table %d not found", tableID))
	}

	unique := make(map[int64]struct{}, len(menuIDs))
	ids := make([]int64, 0, len(menuIDs))
	for _, id := range menuIDs {
		if _, seen := unique[id]; !seen {
			unique[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	menus, err := s.store.Menus().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(menus) == len(ids) {
		return nil
	}
	for _, m := range menus {
		delete(unique, m.ID)
	}
	for _, id := range ids {
		if _, missing := unique[id]; missing {
			return apperrors.NotFound(fmt.Sprintf("Menu %d not found", id))
		}
	}
	return nil
}

func (s *orderServiceImpl) RemoveItem(ctx context.Context, tableID, menuID int64) (*models.RemoveItemResult, error) {
	start := time.Now()
	result, err := retryOnConflict(ctx, s, "remove_item", func() (*models.RemoveItemResult, error) {
		return s.ledger.RemoveItem(ctx, tableID, menuID)
	})
	s.metrics.latency(ctx, awspkg.MetricLedgerLatency, time.Since(start), map[string]string{"Operation": "remove_item"})
	if err != nil {
		return nil, err
	}

	logger.With(ctx, s.logger).Info("Item removed",
		zap.Int64("order_id", result.OrderID),
		zap.Int64("table_id", tableID),
		zap.Int64("menu_id", menuID),
		zap.String("outcome", string(result.Outcome)),
	)

	s.metrics.count(ctx, awspkg.MetricOrderItemsRemoved, map[string]string{"Outcome": string(result.Outcome)})
	eventType := events.EventOrderItemRemoved
	if result.Outcome == models.OutcomeItemRemovedOrderClosed {
		s.metrics.count(ctx, awspkg.MetricOrdersClosed, nil)
		eventType = events.EventOrderClosed
	}
	s.emit(ctx, events.OrderEvent{
		EventType: eventType,
		OrderID:   result.OrderID,
		TableID:   tableID,
		MenuIDs:   []int64{menuID},
		Outcome:   string(result.Outcome),
	})
	return result, nil
}

func (s *orderServiceImpl) TotalCookingTime(ctx context.Context, orderID int64) (int64, error) {
	return s.ledger.TotalCookingTime(ctx, orderID)
}

func (s *orderServiceImpl) ListOrders(ctx context.Context) ([]models.OrderView, error) {
	return s.query.ListOrders(ctx)
}

func (s *orderServiceImpl) ListTableItems(ctx context.Context, tableID int64) ([]models.OrderItemView, error) {
	return s.query.ListTableItems(ctx, tableID)
}

func (s *orderServiceImpl) GetTableItem(ctx context.Context, tableID, menuID int64) (*models.OrderItemView, error) {
	return s.query.GetTableItem(ctx, tableID, menuID)
}

func (s *orderServiceImpl) State(ctx context.Context) (*models.RestaurantState, error) {
	return s.query.State(ctx)
}

func (s *orderServiceImpl) emit(ctx context.Context, evt events.OrderEvent) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, evt)
}

// retryOnConflict runs op and, when it lost a race (ConstraintViolation), runs
// it exactly once more. The ledger re-reads the order on every attempt, so the
// retry continues from the state the winner committed.
func retryOnConflict[T any](ctx context.Context, s *orderServiceImpl, operation string, op func() (T, error)) (T, error) {
	result, err := op()
	if !errors.Is(err, apperrors.ErrConstraintViolation) {
		return result, err
	}

	logger.With(ctx, s.logger).Warn("Ledger conflict, retrying once",
		zap.String("operation", operation),
		zap.Error(err),
	)
	s.metrics.count(ctx, awspkg.MetricLedgerRetries, map[string]string{"Operation": operation})
	return op()
}
