// Package apperror defines the store's domain error taxonomy.
//
// Every recoverable failure carries a Kind with a stable code that clients can switch
// on. Handlers never build status codes by hand: they pass the error to Respond, which
// maps the kind to an HTTP status and renders
//
//	{"error": "...", "code": "INSUFFICIENT_STOCK", "details": [...]}
//
// Anything that is not an *Error (storage or database failures) is reported as 500
// with code INTERNAL.
//
// # Matching
//
// Sentinels such as ErrNotFound match any *Error of the same kind:
//
//	if errors.Is(err, apperror.ErrInsufficientStock) { ... }
package apperror
