package catalog

import (
	"fmt"
	"strings"

	"furniture-store/core/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dimensions are in centimetres.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Attributes holds the kind-specific fields. Only the fields of the item's kind are meaningful.
type Attributes struct {
	// Chair
	HasArmrests bool `json:"has_armrests,omitempty"`
	// Table
	Shape        string `json:"shape,omitempty"`
	IsExtendable bool   `json:"is_extendable,omitempty"`
	// Sofa
	NumSeats    int  `json:"num_seats,omitempty"`
	HasRecliner bool `json:"has_recliner,omitempty"`
	// Bed
	BedSize    string `json:"bed_size,omitempty"`
	HasStorage bool   `json:"has_storage,omitempty"`
	// Wardrobe
	NumDoors  int  `json:"num_doors,omitempty"`
	HasMirror bool `json:"has_mirror,omitempty"`
}

// Item is a sellable piece of furniture. Items are values: the inventory owns the
// authoritative copy and hands out copies to carts and orders.
type Item struct {
	ID              string          `json:"id"`
	Kind            Kind            `json:"type"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Material        string          `json:"material"`
	Color           string          `json:"color"`
	WarrantyYears   int             `json:"warranty_years"`
	Dimensions      Dimensions      `json:"dimensions"`
	CountryOfOrigin string          `json:"country_of_origin"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"available_quantity"`
	Strategy        Strategy        `json:"discount_strategy"`
	Attributes
}

// Key identifies an item across the store: kind and name.
func (it Item) Key() string {
	return ItemKey(it.Kind, it.Name)
}

// ItemKey builds the key for kind and name.
func ItemKey(kind Kind, name string) string {
	return string(kind) + "/" + name
}

// ParseItemKey splits a key produced by ItemKey.
func ParseItemKey(key string) (Kind, string, error) {
	kindPart, name, ok := strings.Cut(key, "/")
	if !ok || name == "" {
		return "", "", apperror.Validation("malformed item key %q", key)
	}
	kind, err := ParseKind(kindPart)
	if err != nil {
		return "", "", err
	}
	return kind, name, nil
}

// DiscountPercent is the effective discount applied by PriceWithDiscount.
func (it Item) DiscountPercent() decimal.Decimal {
	return ComputeDiscount(it)
}

// PriceWithDiscount applies the bound discount, rounded to one decimal place.
func (it Item) PriceWithDiscount() decimal.Decimal {
	factor := decimal.NewFromInt(100).Sub(it.DiscountPercent()).Div(decimal.NewFromInt(100))
	discounted := it.Price.Mul(factor).Round(1)
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}

// ApplyTax returns the undiscounted price including rate percent of tax.
func (it Item) ApplyTax(rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.IsNegative() {
		return decimal.Zero, apperror.Validation("tax rate must not be negative, got %s", rate)
	}
	return it.Price.Mul(decimal.NewFromInt(100).Add(rate)).Div(decimal.NewFromInt(100)), nil
}

// IsAvailable reports whether requested units can be served from stock.
func (it Item) IsAvailable(requested int) bool {
	return it.Quantity >= requested
}

// Validate checks the invariants every stored item must satisfy.
func (it Item) Validate() error {
	switch {
	case !it.Kind.Valid():
		return apperror.Validation("unknown furniture type %q", it.Kind)
	case strings.TrimSpace(it.Name) == "":
		return apperror.Validation("name is required")
	case strings.Contains(it.Name, "/"):
		return apperror.Validation("name must not contain '/'")
	case it.Price.IsNegative():
		return apperror.Validation("price must not be negative, got %s", it.Price)
	case it.Quantity < 0:
		return apperror.Validation("available quantity must not be negative, got %d", it.Quantity)
	case it.WarrantyYears < 0:
		return apperror.Validation("warranty period must not be negative")
	case it.Dimensions.Length < 0 || it.Dimensions.Width < 0 || it.Dimensions.Height < 0:
		return apperror.Validation("dimensions must not be negative")
	case it.NumSeats < 0 || it.NumDoors < 0:
		return apperror.Validation("seat and door counts must not be negative")
	case it.Kind == KindSofa && it.NumSeats == 0:
		return apperror.Validation("a sofa needs at least one seat")
	}
	if _, err := ParseStrategy(string(it.Strategy)); err != nil {
		return err
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

var detailers = map[Kind]func(Item) string{
	KindChair: func(it Item) string {
		return fmt.Sprintf("%s: Armrests - %s, Material - %s", it.Name, yesNo(it.HasArmrests), it.Material)
	},
	KindTable: func(it Item) string {
		return fmt.Sprintf("%s: Shape - %s, Extendable - %s, Material: %s", it.Name, it.Shape, yesNo(it.IsExtendable), it.Material)
	},
	KindSofa: func(it Item) string {
		return fmt.Sprintf("%s: Seats - %d, Recliner - %s", it.Name, it.NumSeats, yesNo(it.HasRecliner))
	},
	KindBed: func(it Item) string {
		return fmt.Sprintf("%s: Size - %s, Storage - %s", it.Name, it.BedSize, yesNo(it.HasStorage))
	},
	KindWardrobe: func(it Item) string {
		return fmt.Sprintf("%s: Doors - %d, Mirror - %s", it.Name, it.NumDoors, yesNo(it.HasMirror))
	},
}

// Detail is the human-readable one-line description of the item.
func (it Item) Detail() string {
	if d, ok := detailers[it.Kind]; ok {
		return d(it)
	}
	return it.Name
}

// Defaults returns an item of kind pre-filled with the catalog defaults. Request bodies
// are decoded on top of it so omitted fields keep these values.
func Defaults(kind Kind) Item {
	return Item{
		Kind:            kind,
		Description:     "None",
		Material:        "Wood",
		Color:           "Black",
		WarrantyYears:   5,
		Dimensions:      Dimensions{Length: 50, Width: 50, Height: 50},
		CountryOfOrigin: "USA",
		Price:           decimal.NewFromInt(100),
		Strategy:        StrategyNone,
	}
}

// New builds a validated item of kind with the catalog defaults for everything not given.
func New(kind Kind, name string, price decimal.Decimal, quantity int, attrs Attributes) (Item, error) {
	it := Defaults(kind)
	it.Name = name
	it.Price = price
	it.Quantity = quantity
	it.Attributes = attrs
	return Finalize(it)
}

// Finalize validates it and assigns an ID when it has none.
func Finalize(it Item) (Item, error) {
	if it.Strategy == "" {
		it.Strategy = StrategyNone
	}
	if err := it.Validate(); err != nil {
		return Item{}, err
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	return it, nil
}

// NewChair builds a chair.
func NewChair(name string, price decimal.Decimal, quantity int, hasArmrests bool) (Item, error) {
	return New(KindChair, name, price, quantity, Attributes{HasArmrests: hasArmrests})
}

// NewTable builds a table.
func NewTable(name string, price decimal.Decimal, quantity int, shape string, extendable bool) (Item, error) {
	return New(KindTable, name, price, quantity, Attributes{Shape: shape, IsExtendable: extendable})
}

// NewSofa builds a sofa.
func NewSofa(name string, price decimal.Decimal, quantity, seats int, recliner bool) (Item, error) {
	return New(KindSofa, name, price, quantity, Attributes{NumSeats: seats, HasRecliner: recliner})
}

// NewBed builds a bed.
func NewBed(name string, price decimal.Decimal, quantity int, size string, storage bool) (Item, error) {
	return New(KindBed, name, price, quantity, Attributes{BedSize: size, HasStorage: storage})
}

// NewWardrobe builds a wardrobe.
func NewWardrobe(name string, price decimal.Decimal, quantity, doors int, mirror bool) (Item, error) {
	return New(KindWardrobe, name, price, quantity, Attributes{NumDoors: doors, HasMirror: mirror})
}
