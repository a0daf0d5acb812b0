package apperror

import (
	"fmt"
	"strings"
)

// Shortage describes one line that cannot be served from current stock.
type Shortage struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func (s Shortage) String() string {
	return fmt.Sprintf("%s/%s (requested %d, available %d)", s.Type, s.Name, s.Requested, s.Available)
}

// InsufficientStock reports every short line at once so the caller can fix the whole request.
func InsufficientStock(shortages ...Shortage) *Error {
	parts := make([]string, len(shortages))
	for i, s := range shortages {
		parts[i] = s.String()
	}
	return &Error{
		Kind:    KindInsufficientStock,
		Message: "insufficient stock: " + strings.Join(parts, ", "),
		Details: shortages,
	}
}

// Shortages extracts the short lines from an InsufficientStock error.
func Shortages(err error) []Shortage {
	e, ok := As(err)
	if !ok || e.Kind != KindInsufficientStock {
		return nil
	}
	s, _ := e.Details.([]Shortage)
	return s
}
