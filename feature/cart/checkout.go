package cart

import (
	"fmt"

	"furniture-store/core/apperror"
	"furniture-store/feature/account"
	"furniture-store/feature/catalog"
	"furniture-store/feature/inventory"
	"furniture-store/feature/order"

	"github.com/shopspring/decimal"
)

// Checkout turns the cart into a pending order.
//
// Every line is reserved in one inventory operation; if any line is short nothing is
// taken and the error lists each shortage. Prices come from the inventory at the time
// of the reservation. On success the order is appended to the owner's history and
// placed in the book, and the cart is emptied.
func (c *Cart) Checkout(inv *inventory.Inventory, book *order.Book, users *account.Registry) (*order.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return nil, apperror.Validation("cart is empty")
	}
	owner, err := users.Get(c.owner)
	if err != nil {
		return nil, err
	}

	requests := make([]inventory.Line, len(c.lines))
	for i, l := range c.lines {
		requests[i] = inventory.Line{Kind: l.Item.Kind, Name: l.Item.Name, Quantity: l.Quantity}
	}
	reserved, err := inv.Reserve(requests)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, len(reserved))
	returned := make([]catalog.Item, len(reserved))
	subtotal := decimal.Zero
	for i, it := range reserved {
		qty := c.lines[i].Quantity
		it.Quantity = qty
		lines[i] = order.Line{Item: it, Quantity: qty, UnitPrice: it.PriceWithDiscount()}
		returned[i] = it
		subtotal = subtotal.Add(lines[i].Subtotal())
	}

	o := order.New(order.Details{
		Owner:           owner.Email,
		ShippingAddress: owner.Address,
		PaymentMethod:   owner.PaymentMethod,
	}, lines, c.promo.Apply(subtotal))

	if err := users.RecordOrder(o); err != nil {
		if rerr := inv.Restock(returned); rerr != nil {
			return nil, fmt.Errorf("failed to restock after %v: %w", err, rerr)
		}
		return nil, err
	}
	book.Place(o)
	c.clearLocked()
	return o, nil
}
