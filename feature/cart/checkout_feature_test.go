package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"furniture-store/core/apperror"
	"furniture-store/core/middleware/auth"
	"furniture-store/feature/account"
	"furniture-store/feature/catalog"
	"furniture-store/feature/inventory"
	"furniture-store/feature/order"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type checkoutContext struct {
	inv   *inventory.Inventory
	book  *order.Book
	users *account.Registry
	cart  *Cart
	email string
	order *order.Order
	err   error
}

func (c *checkoutContext) reset() {
	cfg := auth.Config{Secret: "test", BcryptCost: bcrypt.MinCost}
	c.inv = inventory.New(zap.NewNop())
	c.book = order.NewBook()
	c.users = account.NewRegistry(cfg, auth.NewIssuer(cfg), zap.NewNop())
	c.book.Subscribe(order.RestockObserver(c.inv))
	c.book.Subscribe(c.users.OrderObserver())
	c.cart = nil
	c.email = ""
	c.order = nil
	c.err = nil
}

func (c *checkoutContext) theInventoryHoldsChairsWithArmrests(qty int, name string, price int) error {
	it, err := catalog.NewChair(name, decimal.NewFromInt(int64(price)), qty, true)
	if err != nil {
		return err
	}
	_, err = c.inv.Add(it)
	return err
}

func (c *checkoutContext) aRegisteredUser(email string) error {
	_, err := c.users.Register(account.Registration{
		Name: "Bob", Email: email, Password: "s3cret!pass", Address: "1 Main St",
	})
	if err != nil {
		return err
	}
	c.email = email
	c.cart = New(email, Promotion{})
	return nil
}

func (c *checkoutContext) theUserPutsInTheCart(qty int, name string) error {
	it, err := c.inv.Get(catalog.KindChair, name)
	if err != nil {
		return err
	}
	return c.cart.Add(it, qty)
}

func (c *checkoutContext) theUserChecksOut() error {
	c.order, c.err = c.cart.Checkout(c.inv, c.book, c.users)
	return nil
}

func (c *checkoutContext) theUserBought(qty int, name string) error {
	if err := c.theUserPutsInTheCart(qty, name); err != nil {
		return err
	}
	_ = c.theUserChecksOut()
	return c.err
}

func (c *checkoutContext) theCheckoutSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("checkout failed: %w", c.err)
	}
	if c.order == nil || c.order.Status() != order.StatusPending {
		return errors.New("expected a pending order")
	}
	return nil
}

func (c *checkoutContext) theCheckoutFailsWith(kind string) error {
	e, ok := apperror.As(c.err)
	if !ok {
		return fmt.Errorf("expected %s error, got %v", kind, c.err)
	}
	if string(e.Kind) != kind {
		return fmt.Errorf("expected %s, got %s", kind, e.Kind)
	}
	return nil
}

func (c *checkoutContext) theInventoryHolds(qty int, name string) error {
	it, err := c.inv.Get(catalog.KindChair, name)
	if err != nil {
		return err
	}
	if it.Quantity != qty {
		return fmt.Errorf("expected %d %s in stock, got %d", qty, name, it.Quantity)
	}
	return nil
}

func (c *checkoutContext) theOrderTotalIsTimesTheDiscountedPriceOf(qty int, name string) error {
	it, err := c.inv.Get(catalog.KindChair, name)
	if err != nil {
		return err
	}
	want := it.PriceWithDiscount().Mul(decimal.NewFromInt(int64(qty)))
	if !c.order.Total().Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want, c.order.Total())
	}
	return nil
}

func (c *checkoutContext) theUsersOrderHistoryHas(n int) error {
	history, err := c.users.OrderHistory(c.email)
	if err != nil {
		return err
	}
	if len(history) != n {
		return fmt.Errorf("expected %d orders in history, got %d", n, len(history))
	}
	return nil
}

func (c *checkoutContext) theOrderBookHolds(n int) error {
	if got := len(c.book.All()); got != n {
		return fmt.Errorf("expected %d orders in the book, got %d", n, got)
	}
	return nil
}

func (c *checkoutContext) theCartIsEmpty() error {
	if c.cart.Len() != 0 {
		return fmt.Errorf("expected empty cart, got %d lines", c.cart.Len())
	}
	return nil
}

func (c *checkoutContext) theOrderIsCancelled() error {
	_, err := c.book.Cancel(c.order.ID())
	return err
}

func (c *checkoutContext) theUserReceivedANotification(status string) error {
	notes, err := c.users.Notifications(c.email)
	if err != nil {
		return err
	}
	for _, n := range notes {
		if string(n.Status) == status {
			return nil
		}
	}
	return fmt.Errorf("no %s notification in %v", status, notes)
}

func (c *checkoutContext) someoneRegistersAgain(email string) error {
	_, c.err = c.users.Register(account.Registration{
		Name: "Impostor", Email: email, Password: "other!pass", Address: "2 Side St",
	})
	return nil
}

func InitializeCheckoutScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the inventory holds (\d+) "([^"]*)" chairs with armrests priced at (\d+)$`, tc.theInventoryHoldsChairsWithArmrests)
	ctx.Step(`^a registered user "([^"]*)"$`, tc.aRegisteredUser)
	ctx.Step(`^the user bought (\d+) "([^"]*)"$`, tc.theUserBought)

	ctx.Step(`^the user puts (\d+) "([^"]*)" in the cart$`, tc.theUserPutsInTheCart)
	ctx.Step(`^the user checks out$`, tc.theUserChecksOut)
	ctx.Step(`^the order is cancelled$`, tc.theOrderIsCancelled)
	ctx.Step(`^someone registers "([^"]*)" again$`, tc.someoneRegistersAgain)

	ctx.Step(`^the checkout succeeds$`, tc.theCheckoutSucceeds)
	ctx.Step(`^the checkout fails with "([^"]*)"$`, tc.theCheckoutFailsWith)
	ctx.Step(`^the registration fails with "([^"]*)"$`, tc.theCheckoutFailsWith)
	ctx.Step(`^the inventory holds (\d+) "([^"]*)"$`, tc.theInventoryHolds)
	ctx.Step(`^the order total is (\d+) times the discounted price of "([^"]*)"$`, tc.theOrderTotalIsTimesTheDiscountedPriceOf)
	ctx.Step(`^the user's order history has (\d+) orders?$`, tc.theUsersOrderHistoryHas)
	ctx.Step(`^the order book holds (\d+) orders?$`, tc.theOrderBookHolds)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the user received a "([^"]*)" notification$`, tc.theUserReceivedANotification)
}

func TestCheckoutFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeCheckoutScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
