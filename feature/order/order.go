package order

import (
	"fmt"
	"sync"
	"time"

	"furniture-store/core/apperror"
	"furniture-store/feature/catalog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Line is one purchased item: a snapshot of the item at checkout and the unit price paid.
type Line struct {
	Item      catalog.Item    `json:"item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal is UnitPrice times Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Event is delivered to observers when an order is placed or changes status.
// Previous is empty for the placement event.
type Event struct {
	Order    *Order
	Previous Status
	Status   Status
}

// Observer reacts to order events. Errors are logged and never revert the transition.
type Observer func(Event) error

// Order is an immutable purchase record; only its status changes after creation.
type Order struct {
	id              string
	owner           string
	shippingAddress string
	paymentMethod   string
	lines           []Line
	total           decimal.Decimal
	createdAt       time.Time

	mu        sync.RWMutex
	status    Status
	observers []Observer
}

// Details are the buyer-supplied fields recorded on an order.
type Details struct {
	Owner           string
	ShippingAddress string
	PaymentMethod   string
}

// New creates a pending order with a fresh id. total is fixed for the life of the order.
func New(d Details, lines []Line, total decimal.Decimal) *Order {
	return Restore(uuid.NewString(), d, lines, total, StatusPending, time.Now().UTC())
}

// Restore rebuilds an order from persisted state.
func Restore(id string, d Details, lines []Line, total decimal.Decimal, status Status, createdAt time.Time) *Order {
	return &Order{
		id:              id,
		owner:           d.Owner,
		shippingAddress: d.ShippingAddress,
		paymentMethod:   d.PaymentMethod,
		lines:           append([]Line(nil), lines...),
		total:           total,
		createdAt:       createdAt,
		status:          status,
	}
}

func (o *Order) ID() string              { return o.id }
func (o *Order) Owner() string           { return o.owner }
func (o *Order) ShippingAddress() string { return o.shippingAddress }
func (o *Order) PaymentMethod() string   { return o.paymentMethod }
func (o *Order) Total() decimal.Decimal  { return o.total }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }

// Lines returns a copy of the purchased lines.
func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}

// Status returns the current status.
func (o *Order) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// Subscribe adds an observer for future status changes.
func (o *Order) Subscribe(obs Observer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, obs)
}

// MarkCompleted moves a pending order to Completed.
func (o *Order) MarkCompleted() error {
	return o.transition(StatusCompleted)
}

// Cancel moves a pending order to Cancelled.
func (o *Order) Cancel() error {
	return o.transition(StatusCancelled)
}

func (o *Order) transition(to Status) error {
	o.mu.Lock()
	from := o.status
	if from != StatusPending {
		o.mu.Unlock()
		return apperror.InvalidTransition(string(from), string(to))
	}
	o.status = to
	observers := o.observers
	o.mu.Unlock()

	o.notify(observers, Event{Order: o, Previous: from, Status: to})
	return nil
}

func (o *Order) notify(observers []Observer, ev Event) {
	var errs error
	for i, obs := range observers {
		errs = multierr.Append(errs, safeCall(i, obs, ev))
	}
	if errs != nil {
		zap.L().Error("Order observer failed",
			zap.String("order_id", o.id),
			zap.String("status", string(ev.Status)),
			zap.Errors("errors", multierr.Errors(errs)),
		)
	}
}

func safeCall(index int, obs Observer, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer %d panicked: %v", index, r)
		}
	}()
	return obs(ev)
}

// View is the serialisable snapshot of an order.
type View struct {
	ID              string          `json:"order_id"`
	Owner           string          `json:"user_email"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	Lines           []Line          `json:"items"`
	Total           decimal.Decimal `json:"total_price"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// View snapshots the order.
func (o *Order) View() View {
	return View{
		ID:              o.id,
		Owner:           o.owner,
		ShippingAddress: o.shippingAddress,
		PaymentMethod:   o.paymentMethod,
		Lines:           o.Lines(),
		Total:           o.total,
		Status:          o.Status(),
		CreatedAt:       o.createdAt,
	}
}

// String renders the order on one line, e.g. "Order <id>: Oak Chair x 3 | Total: $342.00 | Status: Pending".
func (o *Order) String() string {
	return fmt.Sprintf("Order %s: %s | Total: $%s | Status: %s", o.id, itemsSummary(o.lines, ", ", false), o.total.StringFixed(2), o.Status())
}
