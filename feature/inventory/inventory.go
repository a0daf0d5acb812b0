package inventory

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"furniture-store/core/apperror"
	"furniture-store/feature/catalog"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// EventType names the mutation that produced an Event.
type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event describes one stock change. Item is a copy taken right after the mutation,
// so Item.Quantity is the remaining stock (zero when the entry was purged).
type Event struct {
	Type  EventType
	Item  catalog.Item
	Delta int
}

// Observer is notified after every mutation. A returned error is logged and never
// undoes the mutation.
type Observer func(Event) error

// Line is a request for Quantity units of the item Kind/Name.
type Line struct {
	Kind     catalog.Kind
	Name     string
	Quantity int
}

// LowStock is an item whose remaining quantity is under the requested threshold.
type LowStock struct {
	Item      catalog.Item `json:"item"`
	Remaining int          `json:"remaining"`
}

// Inventory indexes items by kind then name.
//
// A single RWMutex guards every bucket, so concurrent checkouts are serialised
// across the whole store. Entries whose quantity reaches zero are purged; a sold-out
// item is therefore absent from listings and lookups until it is restocked.
type Inventory struct {
	mu        sync.RWMutex
	buckets   map[catalog.Kind]map[string]*catalog.Item
	observers []Observer
	logger    *zap.Logger
}

// New creates an empty inventory.
func New(logger *zap.Logger) *Inventory {
	return &Inventory{
		buckets: make(map[catalog.Kind]map[string]*catalog.Item),
		logger:  logger,
	}
}

// Subscribe appends o to the observer list. Observers run in subscription order.
func (inv *Inventory) Subscribe(o Observer) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.observers = append(inv.observers, o)
}

// Load replaces the contents with items without notifying observers.
// It is used to hydrate the inventory from persistence at startup.
func (inv *Inventory) Load(items []catalog.Item) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.buckets = make(map[catalog.Kind]map[string]*catalog.Item)
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		stored := it
		inv.bucket(it.Kind)[it.Name] = &stored
	}
}

// Add inserts item or, when an item with the same kind and name exists, increases its
// quantity by item.Quantity. The stored attributes of an existing entry are kept.
func (inv *Inventory) Add(item catalog.Item) (catalog.Item, error) {
	if item.Quantity <= 0 {
		return catalog.Item{}, apperror.InvalidQuantity(item.Quantity)
	}
	item, err := catalog.Finalize(item)
	if err != nil {
		return catalog.Item{}, err
	}

	inv.mu.Lock()
	result, err := inv.addLocked(item)
	if err != nil {
		inv.mu.Unlock()
		return catalog.Item{}, err
	}
	observers := inv.observers
	inv.mu.Unlock()

	inv.notify(observers, Event{Type: EventAdded, Item: result, Delta: item.Quantity})
	return result, nil
}

func (inv *Inventory) addLocked(item catalog.Item) (catalog.Item, error) {
	b := inv.bucket(item.Kind)
	if existing, ok := b[item.Name]; ok {
		if item.Quantity > math.MaxInt-existing.Quantity {
			return catalog.Item{}, apperror.Validation("adding %d to %s would exceed the maximum stock of %d",
				item.Quantity, existing.Key(), math.MaxInt)
		}
		existing.Quantity += item.Quantity
		return *existing, nil
	}
	stored := item
	b[item.Name] = &stored
	return stored, nil
}

// Remove takes qty units of kind/name out of stock.
func (inv *Inventory) Remove(kind catalog.Kind, name string, qty int) (catalog.Item, error) {
	if qty <= 0 {
		return catalog.Item{}, apperror.InvalidQuantity(qty)
	}

	inv.mu.Lock()
	existing, ok := inv.lookupLocked(kind, name)
	if !ok {
		inv.mu.Unlock()
		return catalog.Item{}, notFound(kind, name)
	}
	if qty > existing.Quantity {
		available := existing.Quantity
		inv.mu.Unlock()
		return catalog.Item{}, apperror.InsufficientStock(apperror.Shortage{
			Type: string(kind), Name: name, Requested: qty, Available: available,
		})
	}
	result := inv.decrementLocked(existing, qty)
	observers := inv.observers
	inv.mu.Unlock()

	inv.notify(observers, Event{Type: EventRemoved, Item: result, Delta: -qty})
	return result, nil
}

// SetQuantity overwrites the stock of kind/name. Zero purges the entry.
func (inv *Inventory) SetQuantity(kind catalog.Kind, name string, qty int) (catalog.Item, error) {
	if qty < 0 {
		return catalog.Item{}, apperror.Validation("quantity must not be negative, got %d", qty)
	}

	inv.mu.Lock()
	existing, ok := inv.lookupLocked(kind, name)
	if !ok {
		inv.mu.Unlock()
		return catalog.Item{}, notFound(kind, name)
	}
	delta := qty - existing.Quantity
	existing.Quantity = qty
	result := *existing
	if qty == 0 {
		delete(inv.buckets[kind], name)
	}
	observers := inv.observers
	inv.mu.Unlock()

	inv.notify(observers, Event{Type: EventUpdated, Item: result, Delta: delta})
	return result, nil
}

// Delete removes the entry for kind/name regardless of its quantity.
func (inv *Inventory) Delete(kind catalog.Kind, name string) (catalog.Item, error) {
	inv.mu.Lock()
	existing, ok := inv.lookupLocked(kind, name)
	if !ok {
		inv.mu.Unlock()
		return catalog.Item{}, notFound(kind, name)
	}
	delete(inv.buckets[kind], name)
	result := *existing
	delta := -result.Quantity
	result.Quantity = 0
	observers := inv.observers
	inv.mu.Unlock()

	inv.notify(observers, Event{Type: EventDeleted, Item: result, Delta: delta})
	return result, nil
}

// Get returns a copy of kind/name.
func (inv *Inventory) Get(kind catalog.Kind, name string) (catalog.Item, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	existing, ok := inv.lookupLocked(kind, name)
	if !ok {
		return catalog.Item{}, notFound(kind, name)
	}
	return *existing, nil
}

// SearchByType returns copies of every item of kind, sorted by name.
// An unknown kind yields an empty slice.
func (inv *Inventory) SearchByType(kind catalog.Kind) []catalog.Item {
	return inv.Search(Filter{Kind: kind})
}

// All returns copies of every item, sorted by kind then name.
func (inv *Inventory) All() []catalog.Item {
	return inv.Search(Filter{})
}

// Filter narrows Search. Empty fields match everything; text fields match
// case-insensitive substrings.
type Filter struct {
	Kind     catalog.Kind
	Name     string
	Material string
	Color    string
}

func (f Filter) matches(it *catalog.Item) bool {
	return containsFold(it.Name, f.Name) &&
		containsFold(it.Material, f.Material) &&
		containsFold(it.Color, f.Color)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Search returns copies of the items matching f, sorted by kind then name.
func (inv *Inventory) Search(f Filter) []catalog.Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	result := []catalog.Item{}
	for _, kind := range catalog.Kinds {
		if f.Kind != "" && f.Kind != kind {
			continue
		}
		for _, it := range inv.buckets[kind] {
			if f.matches(it) {
				result = append(result, *it)
			}
		}
	}
	sortItems(result)
	return result
}

// CheckLowStock lists items whose quantity is below threshold, sorted by kind then name.
func (inv *Inventory) CheckLowStock(threshold int) []LowStock {
	var low []LowStock
	for _, it := range inv.All() {
		if it.Quantity < threshold {
			low = append(low, LowStock{Item: it, Remaining: it.Quantity})
		}
	}
	return low
}

// Reserve atomically takes every line out of stock. All lines are checked before
// anything is decremented: if any line is short, nothing changes and the returned
// error lists every shortage. Missing items count as zero available.
// On success it returns a copy of each line's item, in line order, as it was before
// the decrement.
func (inv *Inventory) Reserve(lines []Line) ([]catalog.Item, error) {
	if len(lines) == 0 {
		return nil, apperror.Validation("nothing to reserve")
	}

	want := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, apperror.InvalidQuantity(l.Quantity)
		}
		want[catalog.ItemKey(l.Kind, l.Name)] += l.Quantity
	}

	inv.mu.Lock()
	var shortages []apperror.Shortage
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		key := catalog.ItemKey(l.Kind, l.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		available := 0
		if it, ok := inv.lookupLocked(l.Kind, l.Name); ok {
			available = it.Quantity
		}
		if want[key] > available {
			shortages = append(shortages, apperror.Shortage{
				Type: string(l.Kind), Name: l.Name, Requested: want[key], Available: available,
			})
		}
	}
	if len(shortages) > 0 {
		inv.mu.Unlock()
		return nil, apperror.InsufficientStock(shortages...)
	}

	reserved := make([]catalog.Item, len(lines))
	events := make([]Event, len(lines))
	for i, l := range lines {
		it, _ := inv.lookupLocked(l.Kind, l.Name)
		reserved[i] = *it
		events[i] = Event{Type: EventRemoved, Item: inv.decrementLocked(it, l.Quantity), Delta: -l.Quantity}
	}
	observers := inv.observers
	inv.mu.Unlock()

	for _, ev := range events {
		inv.notify(observers, ev)
	}
	return reserved, nil
}

// Restock returns items to stock; each item's Quantity is the amount to add back.
// Purged entries are recreated from the given snapshot.
func (inv *Inventory) Restock(items []catalog.Item) error {
	var errs error
	for _, it := range items {
		if _, err := inv.Add(it); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("restock %s: %w", it.Key(), err))
		}
	}
	return errs
}

func (inv *Inventory) bucket(kind catalog.Kind) map[string]*catalog.Item {
	b, ok := inv.buckets[kind]
	if !ok {
		b = make(map[string]*catalog.Item)
		inv.buckets[kind] = b
	}
	return b
}

func (inv *Inventory) lookupLocked(kind catalog.Kind, name string) (*catalog.Item, bool) {
	it, ok := inv.buckets[kind][name]
	return it, ok
}

func (inv *Inventory) decrementLocked(it *catalog.Item, qty int) catalog.Item {
	it.Quantity -= qty
	result := *it
	if it.Quantity == 0 {
		delete(inv.buckets[it.Kind], it.Name)
	}
	return result
}

// notify calls every observer in order. Panics are recovered so one faulty observer
// cannot starve the rest.
func (inv *Inventory) notify(observers []Observer, ev Event) {
	var errs error
	for i, o := range observers {
		errs = multierr.Append(errs, safeCall(i, o, ev))
	}
	if errs != nil {
		inv.logger.Error("Inventory observer failed",
			zap.String("event", string(ev.Type)),
			zap.String("item", ev.Item.Key()),
			zap.Errors("errors", multierr.Errors(errs)),
		)
	}
}

func safeCall(index int, o Observer, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer %d panicked: %v", index, r)
		}
	}()
	return o(ev)
}

func notFound(kind catalog.Kind, name string) error {
	return apperror.NotFound("item '%s' of type '%s' not found in inventory", name, kind)
}

func sortItems(items []catalog.Item) {
	slices.SortFunc(items, func(a, b catalog.Item) int {
		if a.Kind != b.Kind {
			return slices.Index(catalog.Kinds, a.Kind) - slices.Index(catalog.Kinds, b.Kind)
		}
		return strings.Compare(a.Name, b.Name)
	})
}
