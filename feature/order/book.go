package order

import (
	"sync"

	"furniture-store/core/apperror"
	"furniture-store/feature/catalog"
)

// Book is the ledger of every order the store has taken.
// Observers subscribed on the book are attached to every order it records and
// also receive a placement event (Previous empty, Status Pending).
type Book struct {
	mu        sync.RWMutex
	orders    map[string]*Order
	sequence  []*Order
	observers []Observer
}

// NewBook creates an empty ledger.
func NewBook() *Book {
	return &Book{orders: make(map[string]*Order)}
}

// Subscribe attaches obs to every recorded and future order.
func (b *Book) Subscribe(obs Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, obs)
	for _, o := range b.sequence {
		o.Subscribe(obs)
	}
}

// Place records a newly created order and announces it.
func (b *Book) Place(o *Order) {
	b.mu.Lock()
	b.recordLocked(o)
	observers := b.observers
	b.mu.Unlock()

	o.notify(observers, Event{Order: o, Status: o.Status()})
}

// Load records persisted orders without announcing them.
func (b *Book) Load(orders []*Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range orders {
		b.recordLocked(o)
	}
}

func (b *Book) recordLocked(o *Order) {
	if _, exists := b.orders[o.ID()]; exists {
		return
	}
	for _, obs := range b.observers {
		o.Subscribe(obs)
	}
	b.orders[o.ID()] = o
	b.sequence = append(b.sequence, o)
}

// Get returns the order with id.
func (b *Book) Get(id string) (*Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	if !ok {
		return nil, apperror.NotFound("order %s not found", id)
	}
	return o, nil
}

// All returns every order, oldest first.
func (b *Book) All() []*Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*Order(nil), b.sequence...)
}

// ByOwner returns the orders placed by email, oldest first.
func (b *Book) ByOwner(email string) []*Order {
	var out []*Order
	for _, o := range b.All() {
		if o.Owner() == email {
			out = append(out, o)
		}
	}
	return out
}

// Complete marks order id as completed.
func (b *Book) Complete(id string) (*Order, error) {
	o, err := b.Get(id)
	if err != nil {
		return nil, err
	}
	return o, o.MarkCompleted()
}

// Cancel cancels order id.
func (b *Book) Cancel(id string) (*Order, error) {
	o, err := b.Get(id)
	if err != nil {
		return nil, err
	}
	return o, o.Cancel()
}

// Restocker takes returned goods back into stock.
type Restocker interface {
	Restock(items []catalog.Item) error
}

// RestockObserver returns the goods of a cancelled order to stock.
func RestockObserver(r Restocker) Observer {
	return func(ev Event) error {
		if ev.Status != StatusCancelled {
			return nil
		}
		lines := ev.Order.Lines()
		items := make([]catalog.Item, len(lines))
		for i, l := range lines {
			items[i] = l.Item
			items[i].Quantity = l.Quantity
		}
		return r.Restock(items)
	}
}
