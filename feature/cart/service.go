package cart

import (
	"context"
	"math"
	"sync"

	"furniture-store/core/apperror"
	"furniture-store/feature/account"
	"furniture-store/feature/catalog"
	"furniture-store/feature/inventory"
	"furniture-store/feature/order"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Carts holds one cart per user, created on first use.
type Carts struct {
	mu    sync.Mutex
	carts map[string]*Cart
	promo Promotion
}

// NewCarts creates an empty cart registry applying promo to every cart.
func NewCarts(promo Promotion) *Carts {
	return &Carts{carts: make(map[string]*Cart), promo: promo}
}

// For returns the cart of email.
func (cs *Carts) For(email string) *Cart {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c, ok := cs.carts[email]
	if !ok {
		c = New(email, cs.promo)
		cs.carts[email] = c
	}
	return c
}

// LineView is a cart line with its pricing.
type LineView struct {
	Key               string          `json:"key"`
	Type              catalog.Kind    `json:"type"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	PriceWithDiscount decimal.Decimal `json:"price_with_discount"`
	Subtotal          decimal.Decimal `json:"subtotal"`
}

// View is the priced content of a cart.
type View struct {
	Owner           string          `json:"user_email"`
	Lines           []LineView      `json:"items"`
	Total           decimal.Decimal `json:"total"`
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
	TotalWithTax    decimal.Decimal `json:"total_with_tax"`
}

// LoadResult reports a cart restored from storage.
type LoadResult struct {
	View    View     `json:"cart"`
	Missing []string `json:"missing"`
}

// Service implements the shopper cart operations.
type Service struct {
	carts   *Carts
	inv     *inventory.Inventory
	book    *order.Book
	users   *account.Registry
	store   *Store
	taxRate decimal.Decimal
	loads   singleflight.Group
	logger  *zap.Logger
}

// NewService creates a cart service. store may be nil when object storage is unavailable.
func NewService(carts *Carts, inv *inventory.Inventory, book *order.Book, users *account.Registry, store *Store, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		carts:   carts,
		inv:     inv,
		book:    book,
		users:   users,
		store:   store,
		taxRate: decimal.NewFromFloat(cfg.TaxRate),
		logger:  logger,
	}
}

// View prices the cart of email.
func (s *Service) View(email string) View {
	c := s.carts.For(email)
	lines := c.Lines()
	v := View{Owner: email, Lines: make([]LineView, len(lines)), Total: c.CalculateTotal(), DiscountedTotal: c.ApplyDiscount()}
	for i, l := range lines {
		unit := l.Item.PriceWithDiscount()
		v.Lines[i] = LineView{
			Key:               l.Item.Key(),
			Type:              l.Item.Kind,
			Name:              l.Item.Name,
			Quantity:          l.Quantity,
			Price:             l.Item.Price,
			PriceWithDiscount: unit,
			Subtotal:          unit.Mul(decimal.NewFromInt(int64(l.Quantity))),
		}
	}
	withTax, err := c.TotalWithTax(s.taxRate)
	if err != nil {
		s.logger.Warn("Ignoring invalid tax rate", zap.String("rate", s.taxRate.String()))
		withTax = v.DiscountedTotal
	}
	v.TotalWithTax = withTax
	return v
}

// Add puts qty units of kind/name in the cart of email after checking current stock.
func (s *Service) Add(email string, kind catalog.Kind, name string, qty int) (View, error) {
	if qty <= 0 {
		return View{}, apperror.InvalidQuantity(qty)
	}
	it, err := s.inv.Get(kind, name)
	if err != nil {
		return View{}, err
	}
	c := s.carts.For(email)
	held := c.Quantity(it.Key())
	overflow := qty > math.MaxInt-held
	want := math.MaxInt
	if !overflow {
		want = held + qty
	}
	if overflow || !it.IsAvailable(want) {
		return View{}, apperror.InsufficientStock(apperror.Shortage{
			Type: string(kind), Name: name, Requested: want, Available: it.Quantity,
		})
	}
	if err := c.Add(it, qty); err != nil {
		return View{}, err
	}
	return s.View(email), nil
}

// Remove takes qty units of kind/name out of the cart of email.
func (s *Service) Remove(email string, kind catalog.Kind, name string, qty int) (View, error) {
	if err := s.carts.For(email).Remove(catalog.ItemKey(kind, name), qty); err != nil {
		return View{}, err
	}
	return s.View(email), nil
}

// Checkout places an order for the cart of email.
func (s *Service) Checkout(email string) (order.View, error) {
	o, err := s.carts.For(email).Checkout(s.inv, s.book, s.users)
	if err != nil {
		for _, sh := range apperror.Shortages(err) {
			s.logger.Warn("Checkout short of stock",
				zap.String("user", email),
				zap.String("item", catalog.ItemKey(catalog.Kind(sh.Type), sh.Name)),
				zap.Int("requested", sh.Requested),
				zap.Int("available", sh.Available),
			)
		}
		return order.View{}, err
	}
	s.logger.Info("Order placed",
		zap.String("order_id", o.ID()),
		zap.String("user", email),
		zap.String("total", o.Total().StringFixed(2)),
	)
	return o.View(), nil
}

// Save uploads the cart of email.
func (s *Service) Save(ctx context.Context, email string) (string, error) {
	if s.store == nil {
		return "", apperror.Validation("saving carts requires object storage")
	}
	c := s.carts.For(email)
	if c.Len() == 0 {
		return "", apperror.Validation("cart is empty")
	}
	return s.store.Save(ctx, c)
}

// Load replaces the cart of email with its saved copy. Items no longer stocked are
// skipped and reported in Missing.
func (s *Service) Load(ctx context.Context, email string) (LoadResult, error) {
	if s.store == nil {
		return LoadResult{}, apperror.Validation("loading carts requires object storage")
	}
	v, err, _ := s.loads.Do(email, func() (any, error) {
		return s.store.Load(context.WithoutCancel(ctx), email)
	})
	if err != nil {
		return LoadResult{}, err
	}
	rows := v.([]Row)

	res := LoadResult{Missing: []string{}}
	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		it, err := s.inv.Get(r.Kind, r.Name)
		if err != nil {
			res.Missing = append(res.Missing, r.Key())
			continue
		}
		lines = append(lines, Line{Item: it, Quantity: r.Quantity})
	}
	s.carts.For(email).Replace(lines)
	res.View = s.View(email)
	return res, nil
}
