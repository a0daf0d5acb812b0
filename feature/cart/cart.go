package cart

import (
	"math"
	"sync"

	"furniture-store/core/apperror"
	"furniture-store/feature/catalog"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Promotion takes Percent off a subtotal that reaches Threshold.
type Promotion struct {
	Threshold decimal.Decimal
	Percent   decimal.Decimal
}

// Apply returns subtotal after the promotion.
func (p Promotion) Apply(subtotal decimal.Decimal) decimal.Decimal {
	if !p.Percent.IsPositive() || subtotal.LessThan(p.Threshold) {
		return subtotal
	}
	off := subtotal.Mul(p.Percent).Div(hundred)
	return subtotal.Sub(off).Round(2)
}

// Line is one cart entry. Item is the snapshot taken when the line was last added to.
type Line struct {
	Item     catalog.Item `json:"item"`
	Quantity int          `json:"quantity"`
}

// Cart is the staging area of one user. Lines keep insertion order.
type Cart struct {
	owner string
	promo Promotion

	mu    sync.Mutex
	lines []Line
	index map[string]int
}

// New creates an empty cart for owner.
func New(owner string, promo Promotion) *Cart {
	return &Cart{owner: owner, promo: promo, index: make(map[string]int)}
}

// Owner returns the email of the cart owner.
func (c *Cart) Owner() string {
	return c.owner
}

// Add puts qty units of item in the cart, merging with an existing line.
func (c *Cart) Add(item catalog.Item, qty int) error {
	if qty <= 0 {
		return apperror.InvalidQuantity(qty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(item, qty)
}

func (c *Cart) addLocked(item catalog.Item, qty int) error {
	key := item.Key()
	if i, ok := c.index[key]; ok {
		if qty > math.MaxInt-c.lines[i].Quantity {
			return apperror.InvalidQuantity(qty)
		}
		c.lines[i].Item = item
		c.lines[i].Quantity += qty
		return nil
	}
	c.index[key] = len(c.lines)
	c.lines = append(c.lines, Line{Item: item, Quantity: qty})
	return nil
}

// Remove takes qty units of key out of the cart. Removing at least the held quantity
// drops the line.
func (c *Cart) Remove(key string, qty int) error {
	if qty <= 0 {
		return apperror.InvalidQuantity(qty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[key]
	if !ok {
		return apperror.NotInCart(key)
	}
	if c.lines[i].Quantity > qty {
		c.lines[i].Quantity -= qty
		return nil
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.reindexLocked()
	return nil
}

func (c *Cart) reindexLocked() {
	c.index = make(map[string]int, len(c.lines))
	for i, l := range c.lines {
		c.index[l.Item.Key()] = i
	}
}

// Quantity returns the units of key held in the cart.
func (c *Cart) Quantity(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.index[key]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

// Len returns the number of distinct items.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Cart) clearLocked() {
	c.lines = nil
	c.index = make(map[string]int)
}

// Replace swaps the cart contents for lines. Lines that are not positive, or that
// would overflow a merged line, are dropped.
func (c *Cart) Replace(lines []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	for _, l := range lines {
		if l.Quantity > 0 {
			_ = c.addLocked(l.Item, l.Quantity)
		}
	}
}

// CalculateTotal is the sum of list price times quantity.
func (c *Cart) CalculateTotal() decimal.Decimal {
	return sum(c.Lines(), func(it catalog.Item) decimal.Decimal { return it.Price })
}

// ApplyDiscount is the sum of discounted price times quantity, after the cart promotion.
func (c *Cart) ApplyDiscount() decimal.Decimal {
	return c.promo.Apply(sum(c.Lines(), catalog.Item.PriceWithDiscount))
}

// TotalWithTax is ApplyDiscount plus rate percent.
func (c *Cart) TotalWithTax(rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.IsNegative() {
		return decimal.Zero, apperror.Validation("tax rate must not be negative")
	}
	total := c.ApplyDiscount()
	return total.Add(total.Mul(rate).Div(hundred)).Round(2), nil
}

func sum(lines []Line, price func(catalog.Item) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(price(l.Item).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
