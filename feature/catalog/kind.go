package catalog

import (
	"strings"

	"furniture-store/core/apperror"
)

// Kind tags the furniture variant of an Item.
type Kind string

const (
	KindChair    Kind = "Chair"
	KindTable    Kind = "Table"
	KindSofa     Kind = "Sofa"
	KindBed      Kind = "Bed"
	KindWardrobe Kind = "Wardrobe"
)

// Kinds lists every furniture kind in display order.
var Kinds = []Kind{KindChair, KindTable, KindSofa, KindBed, KindWardrobe}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", apperror.Validation("unknown furniture type %q", s)
}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}
