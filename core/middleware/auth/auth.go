package auth

import (
	"strings"

	"furniture-store/core/apperror"

	"github.com/gofiber/fiber/v2"
)

const (
	// LocalsEmail holds the authenticated caller's email.
	LocalsEmail = "email"
	// LocalsRole holds the authenticated caller's role.
	LocalsRole = "role"
)

// RoleLookup returns the current role of email, or false when the account is gone.
type RoleLookup func(email string) (string, bool)

type options struct {
	lookup RoleLookup
}

// Option configures New.
type Option func(*options)

// WithRoleLookup makes New resolve the caller role through lookup on every request
// instead of trusting the role claim, so demotions and deletions apply before the
// token expires.
func WithRoleLookup(lookup RoleLookup) Option {
	return func(o *options) { o.lookup = lookup }
}

// New rejects requests without a valid "Authorization: Bearer <token>" header and
// stores the caller identity on the context.
func New(issuer *Issuer, opts ...Option) fiber.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return apperror.Respond(c, &apperror.Error{Kind: apperror.KindAuthentication, Message: "missing bearer token"})
		}

		claims, err := issuer.Verify(raw)
		if err != nil {
			return apperror.Respond(c, &apperror.Error{Kind: apperror.KindAuthentication, Message: "invalid or expired token"})
		}

		role := claims.Role
		if o.lookup != nil {
			current, ok := o.lookup(claims.Email)
			if !ok {
				return apperror.Respond(c, &apperror.Error{Kind: apperror.KindAuthentication, Message: "account no longer exists"})
			}
			role = current
		}

		c.Locals(LocalsEmail, claims.Email)
		c.Locals(LocalsRole, role)
		return c.Next()
	}
}

// RequireAdmin must run after New.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Role(c) != RoleAdmin {
			return apperror.Respond(c, apperror.Forbidden("admin role required"))
		}
		return c.Next()
	}
}

// Email returns the authenticated caller's email, or "".
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalsEmail).(string)
	return email
}

// Role returns the authenticated caller's role, or "".
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalsRole).(string)
	return role
}
