package features

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "restaurant-service/common/errors"
	"restaurant-service/cooking"
	"restaurant-service/database"
	"restaurant-service/models"
	"restaurant-service/repository"
	"restaurant-service/services"
)

type ledgerTestContext struct {
	db     *gorm.DB
	store  *repository.GormStore
	tables services.TableService
	menus  services.MenuService
	orders services.OrderService

	tableIDs map[string]int64
	menuIDs  map[string]int64

	lastOrderID int64
	added       *models.AddItemsResult
	removed     *models.RemoveItemResult
	err         error
}

func (c *ledgerTestContext) reset() error {
	c.close()

	db, err := database.OpenInMemory(zap.NewNop(), uuid.NewString())
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	c.db = db
	c.store = repository.NewGormStore(db)
	c.tables = services.NewTableService(c.store, nil, nil, zap.NewNop())
	c.menus = services.NewMenuService(c.store, nil, nil, zap.NewNop())
	c.useCookTime(cooking.DefaultPolicy())
	c.tableIDs = map[string]int64{}
	c.menuIDs = map[string]int64{}
	c.lastOrderID = 0
	c.added = nil
	c.removed = nil
	c.err = nil
	return nil
}

func (c *ledgerTestContext) close() {
	if c.db != nil {
		_ = database.Close(c.db)
		c.db = nil
	}
}

func (c *ledgerTestContext) useCookTime(policy cooking.Policy) {
	ledger := services.NewOrderLedger(c.store, policy, zap.NewNop())
	c.orders = services.NewOrderService(ledger, services.NewOrderQuery(c.store), c.store, nil, nil, zap.NewNop())
}

func (c *ledgerTestContext) menuList(names string) ([]int64, error) {
	var ids []int64
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, ok := c.menuIDs[name]
		if !ok {
			return nil, fmt.Errorf("unknown menu %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *ledgerTestContext) table(code string) (int64, error) {
	id, ok := c.tableIDs[code]
	if !ok {
		return 0, fmt.Errorf("unknown table %q", code)
	}
	return id, nil
}

// Given steps

func (c *ledgerTestContext) aTable(code string) error {
	id, _, err := c.tables.Create(context.Background(), code)
	if err != nil {
		return err
	}
	c.tableIDs[code] = id
	return nil
}

func (c *ledgerTestContext) givenMenus(names string) error {
	for _, name := range strings.Split(names, ",") {
		id, _, err := c.menus.Create(context.Background(), name)
		if err != nil {
			return err
		}
		c.menuIDs[strings.TrimSpace(name)] = id
	}
	return nil
}

func (c *ledgerTestContext) newItemsTakeMinutes(minutes int) error {
	c.useCookTime(cooking.UniformPolicy{Min: int32(minutes), Max: int32(minutes)})
	return nil
}

// When steps

func (c *ledgerTestContext) iAddToTable(names, code string) error {
	tableID, err := c.table(code)
	if err != nil {
		return err
	}
	menuIDs, err := c.menuList(names)
	if err != nil {
		return err
	}

	c.added, c.err = c.orders.AddItems(context.Background(), &models.CreateOrderRequest{TableID: tableID, MenuIDs: menuIDs})
	return nil
}

func (c *ledgerTestContext) iRemoveFromTable(name, code string) error {
	tableID, err := c.table(code)
	if err != nil {
		return err
	}
	menuID, ok := c.menuIDs[name]
	if !ok {
		return fmt.Errorf("unknown menu %q", name)
	}

	c.removed, c.err = c.orders.RemoveItem(context.Background(), tableID, menuID)
	return nil
}

// Then steps

func (c *ledgerTestContext) aNewOrderIsOpenedForTable(code string) error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %w", c.err)
	}
	if !c.added.OrderOpened {
		return fmt.Errorf("expected a new order for table %s", code)
	}
	c.lastOrderID = c.added.OrderID
	return c.tableStillHasAnOrder(code)
}

func (c *ledgerTestContext) theExistingOrderIsReused(code string) error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %w", c.err)
	}
	if c.added.OrderOpened {
		return fmt.Errorf("expected the order of table %s to be reused", code)
	}
	if c.added.OrderID != c.lastOrderID {
		return fmt.Errorf("expected order %d, got %d", c.lastOrderID, c.added.OrderID)
	}
	return nil
}

func (c *ledgerTestContext) tableHasItem(code, name string, quantity, cookTime int) error {
	tableID, err := c.table(code)
	if err != nil {
		return err
	}
	item, err := c.orders.GetTableItem(context.Background(), tableID, c.menuIDs[name])
	if err != nil {
		return err
	}
	if item.Quantity != int32(quantity) || item.CookingTime != int32(cookTime) {
		return fmt.Errorf("%s: expected quantity %d and cooking time %d, got %d and %d",
			name, quantity, cookTime, item.Quantity, item.CookingTime)
	}
	return nil
}

func (c *ledgerTestContext) theTotalCookingTimeIs(code string, total int) error {
	if _, err := c.table(code); err != nil {
		return err
	}
	got, err := c.orders.TotalCookingTime(context.Background(), c.lastOrderID)
	if err != nil {
		return err
	}
	if got != int64(total) {
		return fmt.Errorf("expected total cooking time %d, got %d", total, got)
	}
	return nil
}

func (c *ledgerTestContext) theOutcomeIs(outcome string) error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %w", c.err)
	}
	if string(c.removed.Outcome) != outcome {
		return fmt.Errorf("expected outcome %s, got %s", outcome, c.removed.Outcome)
	}
	return nil
}

func (c *ledgerTestContext) theMessageIs(message string) error {
	if c.removed == nil || c.removed.Message != message {
		return fmt.Errorf("expected message %q, got %+v", message, c.removed)
	}
	return nil
}

func (c *ledgerTestContext) tableStillHasAnOrder(code string) error {
	order, err := c.orderFor(code)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("table %s has no order", code)
	}
	return nil
}

func (c *ledgerTestContext) tableHasNoOrder(code string) error {
	order, err := c.orderFor(code)
	if err != nil {
		return err
	}
	if order != nil {
		return fmt.Errorf("table %s still has order %d", code, order.ID)
	}
	return nil
}

func (c *ledgerTestContext) orderFor(code string) (*models.Order, error) {
	tableID, err := c.table(code)
	if err != nil {
		return nil, err
	}
	return c.store.Orders().FindByTable(context.Background(), tableID)
}

func (c *ledgerTestContext) theRequestFailsWith(message string) error {
	if c.err == nil {
		return fmt.Errorf("expected the request to fail with %q", message)
	}
	if got := apperrors.As(c.err).Message; got != message {
		return fmt.Errorf("expected error %q, got %q", message, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &ledgerTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.close()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a table "([^"]*)"$`, tc.aTable)
	ctx.Step(`^menus "([^"]*)"$`, tc.givenMenus)
	ctx.Step(`^new items take (\d+) minutes to cook$`, tc.newItemsTakeMinutes)

	// When steps
	ctx.Step(`^I add "([^"]*)" to table "([^"]*)"$`, tc.iAddToTable)
	ctx.Step(`^I remove "([^"]*)" from table "([^"]*)"$`, tc.iRemoveFromTable)

	// Then steps
	ctx.Step(`^a new order is opened for table "([^"]*)"$`, tc.aNewOrderIsOpenedForTable)
	ctx.Step(`^the existing order for table "([^"]*)" is reused$`, tc.theExistingOrderIsReused)
	ctx.Step(`^table "([^"]*)" has "([^"]*)" with quantity (\d+) and cooking time (\d+)$`, tc.tableHasItem)
	ctx.Step(`^the total cooking time for table "([^"]*)" is (\d+)$`, tc.theTotalCookingTimeIs)
	ctx.Step(`^the outcome is "([^"]*)"$`, tc.theOutcomeIs)
	ctx.Step(`^the message is "([^"]*)"$`, tc.theMessageIs)
	ctx.Step(`^table "([^"]*)" still has an order$`, tc.tableStillHasAnOrder)
	ctx.Step(`^table "([^"]*)" has no order$`, tc.tableHasNoOrder)
	ctx.Step(`^the request fails with "([^"]*)"$`, tc.theRequestFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"order_ledger.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
