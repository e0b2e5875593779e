package layout

import (
	"fmt"

	"vesper/internal/types"
)

// ErrorKind enumerates types of layout calculation errors.
type ErrorKind uint8

const (
	// ErrUnknownType indicates a TypeID with no interned descriptor.
	ErrUnknownType ErrorKind = iota + 1
	// ErrUnsized indicates a type with no fixed ABI size.
	ErrUnsized
)

// Error represents an error during memory layout calculation.
type Error struct {
	Kind ErrorKind
	Type types.TypeID
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrUnknownType:
		return fmt.Sprintf("unknown type (type#%d)", e.Type)
	case ErrUnsized:
		return fmt.Sprintf("type has no fixed ABI size (type#%d)", e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type#%d", e.Kind, e.Type)
	}
}
