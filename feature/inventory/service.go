package inventory

import (
	"furniture-store/feature/catalog"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemView is an item as presented to shoppers: stored fields plus derived pricing.
type ItemView struct {
	catalog.Item
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	PriceWithDiscount decimal.Decimal `json:"price_with_discount"`
	Detail            string          `json:"detail"`
}

// NewItemView derives the presentation fields of it.
func NewItemView(it catalog.Item) ItemView {
	return ItemView{
		Item:              it,
		DiscountPercent:   it.DiscountPercent(),
		PriceWithDiscount: it.PriceWithDiscount(),
		Detail:            it.Detail(),
	}
}

func views(items []catalog.Item) []ItemView {
	out := make([]ItemView, len(items))
	for i, it := range items {
		out[i] = NewItemView(it)
	}
	return out
}

// Service exposes inventory operations to the HTTP layer.
type Service struct {
	inv       *Inventory
	logger    *zap.Logger
	threshold int
}

// NewService creates a new inventory service.
func NewService(inv *Inventory, logger *zap.Logger, cfg Config) *Service {
	return &Service{inv: inv, logger: logger, threshold: cfg.LowStockThreshold}
}

// List returns every stocked item.
func (s *Service) List() []ItemView {
	return views(s.inv.All())
}

// Search filters the stock. typ may be empty; a non-empty unknown type is a validation error.
func (s *Service) Search(typ, name, material, color string) ([]ItemView, error) {
	f := Filter{Name: name, Material: material, Color: color}
	if typ != "" {
		kind, err := catalog.ParseKind(typ)
		if err != nil {
			return nil, err
		}
		f.Kind = kind
	}
	return views(s.inv.Search(f)), nil
}

// Get returns a single item.
func (s *Service) Get(typ, name string) (ItemView, error) {
	kind, err := catalog.ParseKind(typ)
	if err != nil {
		return ItemView{}, err
	}
	it, err := s.inv.Get(kind, name)
	if err != nil {
		return ItemView{}, err
	}
	return NewItemView(it), nil
}

// Add stocks a new item or tops up an existing one.
func (s *Service) Add(it catalog.Item) (catalog.Item, error) {
	stored, err := s.inv.Add(it)
	if err != nil {
		return catalog.Item{}, err
	}
	s.logger.Info("Inventory item added", zap.String("item", stored.Key()), zap.Int("quantity", stored.Quantity))
	return stored, nil
}

// SetQuantity overwrites the stock of an item.
func (s *Service) SetQuantity(typ, name string, qty int) (catalog.Item, error) {
	kind, err := catalog.ParseKind(typ)
	if err != nil {
		return catalog.Item{}, err
	}
	return s.inv.SetQuantity(kind, name, qty)
}

// Remove takes qty units out of stock, or drops the entry entirely when qty is zero.
func (s *Service) Remove(typ, name string, qty int) (catalog.Item, error) {
	kind, err := catalog.ParseKind(typ)
	if err != nil {
		return catalog.Item{}, err
	}
	if qty == 0 {
		return s.inv.Delete(kind, name)
	}
	return s.inv.Remove(kind, name, qty)
}

// LowStock reports items under threshold, or under the configured default when threshold <= 0.
func (s *Service) LowStock(threshold int) []LowStock {
	if threshold <= 0 {
		threshold = s.threshold
	}
	return s.inv.CheckLowStock(threshold)
}
