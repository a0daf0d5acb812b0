package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"furniture-store/feature/catalog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRecord is the persisted order header.
type OrderRecord struct {
	OrderID         string            `gorm:"column:order_id;type:varchar(36);primaryKey"`
	UserEmail       string            `gorm:"column:user_email;type:varchar(255);index;not null"`
	ShippingAddress string            `gorm:"column:shipping_address;type:varchar(255)"`
	PaymentMethod   string            `gorm:"column:payment_method;type:varchar(64)"`
	TotalPrice      decimal.Decimal   `gorm:"column:total_price;type:decimal(12,2);not null"`
	Status          string            `gorm:"column:status;type:varchar(16);not null"`
	CreatedAt       time.Time         `gorm:"column:created_at"`
	Lines           []OrderLineRecord `gorm:"foreignKey:OrderID;references:OrderID"`
}

// TableName pins the table name used by the schema check.
func (OrderRecord) TableName() string {
	return "orders"
}

// OrderLineRecord is one persisted order line. Snapshot holds the item as purchased.
type OrderLineRecord struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   string          `gorm:"column:order_id;type:varchar(36);index;not null"`
	Quantity  int             `gorm:"column:quantity;type:int;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null"`
	Snapshot  string          `gorm:"column:snapshot;type:text"`
}

// TableName pins the table name used by the schema check.
func (OrderLineRecord) TableName() string {
	return "order_lines"
}

// Store persists orders.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the order tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&OrderRecord{}, &OrderLineRecord{})
}

// Insert writes a new order with its lines.
func (s *Store) Insert(ctx context.Context, o *Order) error {
	rec := OrderRecord{
		OrderID:         o.ID(),
		UserEmail:       o.Owner(),
		ShippingAddress: o.ShippingAddress(),
		PaymentMethod:   o.PaymentMethod(),
		TotalPrice:      o.Total(),
		Status:          string(o.Status()),
		CreatedAt:       o.CreatedAt(),
	}
	for _, l := range o.Lines() {
		snap, err := json.Marshal(l.Item)
		if err != nil {
			return fmt.Errorf("failed to encode line %s: %w", l.Item.Key(), err)
		}
		rec.Lines = append(rec.Lines, OrderLineRecord{
			OrderID:   o.ID(),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Snapshot:  string(snap),
		})
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to insert order %s: %w", o.ID(), err)
	}
	return nil
}

// UpdateStatus stores the current status of o.
func (s *Store) UpdateStatus(ctx context.Context, o *Order) error {
	err := s.db.WithContext(ctx).Model(&OrderRecord{}).
		Where("order_id = ?", o.ID()).
		Update("status", string(o.Status())).Error
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", o.ID(), err)
	}
	return nil
}

// LoadAll reads every order, oldest first.
func (s *Store) LoadAll(ctx context.Context) ([]*Order, error) {
	var records []OrderRecord
	err := s.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Order("created_at").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	orders := make([]*Order, 0, len(records))
	for _, r := range records {
		lines := make([]Line, len(r.Lines))
		for i, lr := range r.Lines {
			var it catalog.Item
			if err := json.Unmarshal([]byte(lr.Snapshot), &it); err != nil {
				return nil, fmt.Errorf("failed to decode line of order %s: %w", r.OrderID, err)
			}
			lines[i] = Line{Item: it, Quantity: lr.Quantity, UnitPrice: lr.UnitPrice}
		}
		d := Details{Owner: r.UserEmail, ShippingAddress: r.ShippingAddress, PaymentMethod: r.PaymentMethod}
		orders = append(orders, Restore(r.OrderID, d, lines, r.TotalPrice, Status(r.Status), r.CreatedAt))
	}
	return orders, nil
}

// Observer inserts placed orders and records status changes.
func (s *Store) Observer() Observer {
	return func(ev Event) error {
		if ev.Previous == "" {
			return s.Insert(context.Background(), ev.Order)
		}
		return s.UpdateStatus(context.Background(), ev.Order)
	}
}
