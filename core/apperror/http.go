package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var statusByKind = map[Kind]int{
	KindNotFound:          fiber.StatusNotFound,
	KindInsufficientStock: fiber.StatusConflict,
	KindInvalidQuantity:   fiber.StatusBadRequest,
	KindDuplicateEmail:    fiber.StatusConflict,
	KindAuthentication:    fiber.StatusUnauthorized,
	KindForbidden:         fiber.StatusForbidden,
	KindInvalidTransition: fiber.StatusConflict,
	KindValidation:        fiber.StatusBadRequest,
	KindNotInCart:         fiber.StatusNotFound,
}

// As unwraps err to the first *Error in its chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	if e, ok := As(err); ok {
		if code, ok := statusByKind[e.Kind]; ok {
			return code
		}
	}
	return fiber.StatusInternalServerError
}

// Respond writes err as a JSON error body with the status of its kind.
func Respond(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error(), "code": KindInternal}
	if e, ok := As(err); ok {
		body["code"] = e.Kind
		if e.Details != nil {
			body["details"] = e.Details
		}
	}
	return c.Status(Status(err)).JSON(body)
}
