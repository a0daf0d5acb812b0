package account

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"furniture-store/core/apperror"
	"furniture-store/core/middleware/auth"
	"furniture-store/feature/order"
)

// DefaultPaymentMethod is recorded when a user registers without one.
const DefaultPaymentMethod = "Credit Card"

const (
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLength = 72
)

// User is a registered customer or administrator. Users are owned by the Registry;
// callers receive Profile snapshots.
type User struct {
	Email         string
	Name          string
	Address       string
	PaymentMethod string
	Role          string
	PasswordHash  []byte
	Wishlist      []string
	Orders        []*order.Order
	Notifications []Notification
	CreatedAt     time.Time
}

// Notification records an order status change delivered to its owner.
type Notification struct {
	OrderID string       `json:"order_id"`
	Status  order.Status `json:"status"`
	At      time.Time    `json:"at"`
}

// Profile is the public view of a user.
type Profile struct {
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	PaymentMethod string   `json:"payment_method"`
	Role          string   `json:"role"`
	Wishlist      []string `json:"wishlist"`
	OrderCount    int      `json:"order_count"`
}

func (u *User) profile() Profile {
	return Profile{
		Email:         u.Email,
		Name:          u.Name,
		Address:       u.Address,
		PaymentMethod: u.PaymentMethod,
		Role:          u.Role,
		Wishlist:      append([]string{}, u.Wishlist...),
		OrderCount:    len(u.Orders),
	}
}

func (u *User) clone() User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	c.Wishlist = append([]string(nil), u.Wishlist...)
	c.Orders = append([]*order.Order(nil), u.Orders...)
	c.Notifications = append([]Notification(nil), u.Notifications...)
	return c
}

// NormalizeEmail trims and lower-cases email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperror.Validation("invalid email address %q", email)
	}
	return nil
}

// ValidatePassword enforces the password policy: at least eight characters including
// one character that is neither a letter nor a digit.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperror.Validation("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return apperror.Validation("password must be at most %d bytes", maxPasswordLength)
	}
	for _, r := range password {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return nil
		}
	}
	return apperror.Validation("password must contain a special character")
}

func validRole(role string) bool {
	return role == auth.RoleClient || role == auth.RoleAdmin
}
