package inventory

import (
	"context"
	"fmt"
	"sync"

	"furniture-store/feature/catalog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FurnitureRecord is the persisted form of a stocked item.
type FurnitureRecord struct {
	ID              uint            `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID          string          `gorm:"column:item_id;type:varchar(36);not null"`
	Kind            string          `gorm:"column:kind;type:varchar(16);not null;uniqueIndex:idx_furniture_kind_name"`
	Name            string          `gorm:"column:name;type:varchar(128);not null;uniqueIndex:idx_furniture_kind_name"`
	Description     string          `gorm:"column:description;type:text"`
	Material        string          `gorm:"column:material;type:varchar(64)"`
	Color           string          `gorm:"column:color;type:varchar(64)"`
	WarrantyYears   int             `gorm:"column:warranty_years;type:int"`
	Length          float64         `gorm:"column:length;type:double"`
	Width           float64         `gorm:"column:width;type:double"`
	Height          float64         `gorm:"column:height;type:double"`
	CountryOfOrigin string          `gorm:"column:country_of_origin;type:varchar(64)"`
	Price           decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	Quantity        int             `gorm:"column:quantity;type:int;not null"`
	Strategy        string          `gorm:"column:strategy;type:varchar(16)"`
	HasArmrests     bool            `gorm:"column:has_armrests"`
	Shape           string          `gorm:"column:shape;type:varchar(32)"`
	IsExtendable    bool            `gorm:"column:is_extendable"`
	NumSeats        int             `gorm:"column:num_seats;type:int"`
	HasRecliner     bool            `gorm:"column:has_recliner"`
	BedSize         string          `gorm:"column:bed_size;type:varchar(32)"`
	HasStorage      bool            `gorm:"column:has_storage"`
	NumDoors        int             `gorm:"column:num_doors;type:int"`
	HasMirror       bool            `gorm:"column:has_mirror"`
}

// TableName pins the table name used by the schema check.
func (FurnitureRecord) TableName() string {
	return "furniture"
}

func toRecord(it catalog.Item) FurnitureRecord {
	return FurnitureRecord{
		ItemID:          it.ID,
		Kind:            string(it.Kind),
		Name:            it.Name,
		Description:     it.Description,
		Material:        it.Material,
		Color:           it.Color,
		WarrantyYears:   it.WarrantyYears,
		Length:          it.Dimensions.Length,
		Width:           it.Dimensions.Width,
		Height:          it.Dimensions.Height,
		CountryOfOrigin: it.CountryOfOrigin,
		Price:           it.Price,
		Quantity:        it.Quantity,
		Strategy:        string(it.Strategy),
		HasArmrests:     it.HasArmrests,
		Shape:           it.Shape,
		IsExtendable:    it.IsExtendable,
		NumSeats:        it.NumSeats,
		HasRecliner:     it.HasRecliner,
		BedSize:         it.BedSize,
		HasStorage:      it.HasStorage,
		NumDoors:        it.NumDoors,
		HasMirror:       it.HasMirror,
	}
}

func (r FurnitureRecord) toItem() catalog.Item {
	return catalog.Item{
		ID:              r.ItemID,
		Kind:            catalog.Kind(r.Kind),
		Name:            r.Name,
		Description:     r.Description,
		Material:        r.Material,
		Color:           r.Color,
		WarrantyYears:   r.WarrantyYears,
		Dimensions:      catalog.Dimensions{Length: r.Length, Width: r.Width, Height: r.Height},
		CountryOfOrigin: r.CountryOfOrigin,
		Price:           r.Price,
		Quantity:        r.Quantity,
		Strategy:        catalog.Strategy(r.Strategy),
		Attributes: catalog.Attributes{
			HasArmrests:  r.HasArmrests,
			Shape:        r.Shape,
			IsExtendable: r.IsExtendable,
			NumSeats:     r.NumSeats,
			HasRecliner:  r.HasRecliner,
			BedSize:      r.BedSize,
			HasStorage:   r.HasStorage,
			NumDoors:     r.NumDoors,
			HasMirror:    r.HasMirror,
		},
	}
}

// Store mirrors the inventory into the furniture table.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewStore creates a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the furniture table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&FurnitureRecord{})
}

// LoadAll reads every persisted item with stock left.
func (s *Store) LoadAll(ctx context.Context) ([]catalog.Item, error) {
	var records []FurnitureRecord
	if err := s.db.WithContext(ctx).Where("quantity > 0").Order("kind, name").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load furniture: %w", err)
	}
	items := make([]catalog.Item, len(records))
	for i, r := range records {
		items[i] = r.toItem()
	}
	return items, nil
}

// Save upserts it keyed by kind and name, or deletes the row once it has no stock.
func (s *Store) Save(ctx context.Context, it catalog.Item) error {
	db := s.db.WithContext(ctx)
	if it.Quantity <= 0 {
		if err := db.Where("kind = ? AND name = ?", string(it.Kind), it.Name).Delete(&FurnitureRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete furniture %s: %w", it.Key(), err)
		}
		return nil
	}
	rec := toRecord(it)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "price", "strategy", "description", "material", "color"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save furniture %s: %w", it.Key(), err)
	}
	return nil
}

// Observer persists the item touched by each event. Events are delivered outside the
// inventory lock and may arrive out of order, so the current state is re-read from inv
// and writes are serialised; the row always converges on the latest quantity.
func (s *Store) Observer(inv *Inventory) Observer {
	return func(ev Event) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		current, err := inv.Get(ev.Item.Kind, ev.Item.Name)
		if err != nil {
			current = ev.Item
			current.Quantity = 0
		}
		return s.Save(context.Background(), current)
	}
}
