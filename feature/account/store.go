package account

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRecord is the persisted form of a User. Order history is rebuilt from the
// orders table and notifications are not persisted.
type UserRecord struct {
	Email         string    `gorm:"column:email;type:varchar(255);primaryKey"`
	Name          string    `gorm:"column:name;type:varchar(255);not null"`
	Address       string    `gorm:"column:address;type:varchar(255)"`
	PaymentMethod string    `gorm:"column:payment_method;type:varchar(64)"`
	Role          string    `gorm:"column:role;type:varchar(16);not null"`
	PasswordHash  string    `gorm:"column:password_hash;type:varchar(72);not null"`
	Wishlist      string    `gorm:"column:wishlist;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

// TableName pins the table name used by the schema check.
func (UserRecord) TableName() string {
	return "users"
}

// Store persists users.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the users table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&UserRecord{})
}

// Save upserts u.
func (s *Store) Save(ctx context.Context, u User) error {
	wishlist, err := json.Marshal(u.Wishlist)
	if err != nil {
		return err
	}
	rec := UserRecord{
		Email:         u.Email,
		Name:          u.Name,
		Address:       u.Address,
		PaymentMethod: u.PaymentMethod,
		Role:          u.Role,
		PasswordHash:  string(u.PasswordHash),
		Wishlist:      string(wishlist),
		CreatedAt:     u.CreatedAt,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "address", "payment_method", "role", "password_hash", "wishlist"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", u.Email, err)
	}
	return nil
}

// Delete removes email.
func (s *Store) Delete(ctx context.Context, email string) error {
	if err := s.db.WithContext(ctx).Delete(&UserRecord{}, "email = ?", email).Error; err != nil {
		return fmt.Errorf("failed to delete user %s: %w", email, err)
	}
	return nil
}

// LoadAll reads every user ordered by email.
func (s *Store) LoadAll(ctx context.Context) ([]User, error) {
	var records []UserRecord
	if err := s.db.WithContext(ctx).Order("email").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	users := make([]User, 0, len(records))
	for _, r := range records {
		var wishlist []string
		if r.Wishlist != "" {
			if err := json.Unmarshal([]byte(r.Wishlist), &wishlist); err != nil {
				return nil, fmt.Errorf("failed to decode wishlist of %s: %w", r.Email, err)
			}
		}
		users = append(users, User{
			Email:         r.Email,
			Name:          r.Name,
			Address:       r.Address,
			PaymentMethod: r.PaymentMethod,
			Role:          r.Role,
			PasswordHash:  []byte(r.PasswordHash),
			Wishlist:      wishlist,
			CreatedAt:     r.CreatedAt,
		})
	}
	return users, nil
}
