// Package decl models the immutable declaration snapshot the foreign-ABI
// backend consumes. Construction and type checking happen upstream; the
// bridge only reads these records.
package decl

import (
	"strings"

	"vesper/internal/types"
)

// Container is the nominal type a member belongs to.
type Container struct {
	Name         string
	IsProtocol   bool
	BoundGeneric bool // instantiation of a generic type
	Super        *Container
}

// MethodKind distinguishes callable member declarations.
type MethodKind uint8

const (
	MethodFunc MethodKind = iota
	MethodInitializer
	MethodDestructor
)

// Method is a method, initializer or destructor declaration.
type Method struct {
	Name     string
	Selector string // full foreign selector text, derived upstream
	Kind     MethodKind
	// Type is the lowered foreign signature with the receiver as the
	// trailing parameter.
	Type types.TypeID
	// FormalType is the receiver-elided formal signature used for the
	// foreign type encoding.
	FormalType types.TypeID
	Parent     *Container
	Overridden *Method
	Generic    bool
	ObjC       bool
	IBAction   bool
	Accessor   bool // synthesized property/subscript accessor
	Instance   bool
}

// Storage is a property or subscript declaration.
type Storage struct {
	Name       string
	Type       types.TypeID // element type
	IndexType  types.TypeID // subscripts only
	Parent     *Container
	Overridden *Storage
	Settable   bool
	ObjC       bool
	Subscript  bool
	Getter     *Method
	Setter     *Method

	// Explicit selector overrides; empty means derive from Name.
	GetterSel string
	SetterSel string
}

// GetterSelector returns the foreign selector of the storage getter.
func (s *Storage) GetterSelector() string {
	if s.GetterSel != "" {
		return s.GetterSel
	}
	if s.Subscript {
		return "objectAtIndexedSubscript:"
	}
	return s.Name
}

// SetterSelector returns the foreign selector of the storage setter.
func (s *Storage) SetterSelector() string {
	if s.SetterSel != "" {
		return s.SetterSel
	}
	if s.Subscript {
		return "setObject:atIndexedSubscript:"
	}
	return "set" + capitalize(s.Name) + ":"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ObjCSelector assembles selector text for a callable taking at least one
// argument: the base name consumes the first argument and each remaining
// label contributes one colon-terminated piece. Nullary callables use their
// bare name as the selector.
func ObjCSelector(base string, extraLabels ...string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte(':')
	for _, label := range extraLabels {
		b.WriteString(label)
		b.WriteByte(':')
	}
	return b.String()
}
