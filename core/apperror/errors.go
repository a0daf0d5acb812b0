package apperror

import (
	"errors"
	"fmt"
)

// Kind is the stable, client-facing error code.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindInvalidQuantity   Kind = "INVALID_QUANTITY"
	KindDuplicateEmail    Kind = "DUPLICATE_EMAIL"
	KindAuthentication    Kind = "AUTHENTICATION"
	KindForbidden         Kind = "FORBIDDEN"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindValidation        Kind = "VALIDATION"
	KindNotInCart         Kind = "NOT_IN_CART"
	KindInternal          Kind = "INTERNAL"
)

// Error is a domain failure. Details is rendered verbatim in API responses.
type Error struct {
	Kind    Kind
	Message string
	Details any
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock, Message: "insufficient stock"}
	ErrInvalidQuantity   = &Error{Kind: KindInvalidQuantity, Message: "quantity must be positive"}
	ErrDuplicateEmail    = &Error{Kind: KindDuplicateEmail, Message: "email already registered"}
	ErrAuthentication    = &Error{Kind: KindAuthentication, Message: "invalid email or password"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotInCart         = &Error{Kind: KindNotInCart, Message: "item not in cart"}
)

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an unknown item, type, order or user.
func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

// InvalidQuantity reports a non-positive quantity.
func InvalidQuantity(qty int) *Error {
	return &Error{Kind: KindInvalidQuantity, Message: fmt.Sprintf("quantity must be positive, got %d", qty)}
}

// Validation reports malformed input attributes.
func Validation(format string, args ...any) *Error {
	return newf(KindValidation, format, args...)
}

// DuplicateEmail reports a registration for a taken address.
func DuplicateEmail(email string) *Error {
	return &Error{Kind: KindDuplicateEmail, Message: fmt.Sprintf("email %s is already registered", email)}
}

// Authentication returns the single login failure, whatever the cause.
func Authentication() *Error {
	return &Error{Kind: KindAuthentication, Message: ErrAuthentication.Message}
}

// Forbidden reports an authenticated caller lacking the required role.
func Forbidden(format string, args ...any) *Error {
	return newf(KindForbidden, format, args...)
}

// InvalidTransition reports an order status change out of a terminal state.
func InvalidTransition(from, to string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf("cannot move order from %s to %s", from, to)}
}

// NotInCart reports a removal of an item the cart does not hold.
func NotInCart(key string) *Error {
	return &Error{Kind: KindNotInCart, Message: fmt.Sprintf("%s is not in the cart", key)}
}
