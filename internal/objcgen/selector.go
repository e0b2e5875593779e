package objcgen

import (
	"fmt"
	"strings"

	"vesper/internal/decl"
)

// Family classifies a selector into the naming-convention categories that
// imply ownership semantics for the returned value.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyAlloc
	FamilyCopy
	FamilyInit
	FamilyMutableCopy
	FamilyNew
)

func (f Family) String() string {
	switch f {
	case FamilyNone:
		return "none"
	case FamilyAlloc:
		return "alloc"
	case FamilyCopy:
		return "copy"
	case FamilyInit:
		return "init"
	case FamilyMutableCopy:
		return "mutableCopy"
	case FamilyNew:
		return "new"
	default:
		return fmt.Sprintf("Family(%d)", f)
	}
}

// Note that these are in parallel with the Family constants above.
var familyPrefixes = []struct {
	family Family
	prefix string
}{
	{FamilyAlloc, "alloc"},
	{FamilyCopy, "copy"},
	{FamilyInit, "init"},
	{FamilyMutableCopy, "mutableCopy"},
	{FamilyNew, "new"},
}

// Selector is the foreign runtime's textual name for a callable entity.
// Selectors are cheap to recompute; only their emitted symbols are cached.
type Selector struct {
	text string
}

// NewSelector derives the selector for a method, initializer or destructor.
func NewSelector(m *decl.Method) Selector {
	if m.Kind == decl.MethodDestructor {
		return Selector{text: "dealloc"}
	}
	return Selector{text: m.Selector}
}

// GetterSelector derives the selector for a storage getter.
func GetterSelector(s *decl.Storage) Selector {
	return Selector{text: s.GetterSelector()}
}

// SetterSelector derives the selector for a storage setter.
func SetterSelector(s *decl.Storage) Selector {
	return Selector{text: s.SetterSelector()}
}

// SelectorForRef derives the selector for a callable-entity reference.
// Instance-variable hooks map to fixed pseudo-selectors whose leading '.'
// keeps them out of ordinary method lookup. Asking for the selector of a
// kind that has none is a caller contract violation.
func SelectorForRef(ref decl.Ref) Selector {
	switch ref.Kind {
	case decl.RefAllocator, decl.RefDefaultArgGenerator,
		decl.RefEnumElement, decl.RefGlobalAccessor:
		panic(fmt.Sprintf("objcgen: %v reference has no selector", ref.Kind))
	case decl.RefDestroyer, decl.RefDeallocator:
		return Selector{text: "dealloc"}
	case decl.RefFunc, decl.RefInitializer:
		return NewSelector(ref.Method)
	case decl.RefIVarInitializer:
		return Selector{text: ".cxx_construct"}
	case decl.RefIVarDestroyer:
		return Selector{text: ".cxx_destruct"}
	default:
		panic(fmt.Sprintf("objcgen: unhandled reference kind %v", ref.Kind))
	}
}

func (s Selector) String() string {
	return s.text
}

// Family returns the naming family of this selector. Leading underscores
// are ignored, and a prefix only matches when the character after it (if
// any) is not lowercase.
func (s Selector) Family() Family {
	text := strings.TrimLeft(s.text, "_")
	for _, fp := range familyPrefixes {
		if hasFamilyPrefix(text, fp.prefix) {
			return fp.family
		}
	}
	return FamilyNone
}

// hasFamilyPrefix checks prefix match in the sense of the selector naming
// conventions: "allocate" is not in the alloc family, "allocWithZone:" is.
func hasFamilyPrefix(text, prefix string) bool {
	if !strings.HasPrefix(text, prefix) {
		return false
	}
	if len(text) == len(prefix) {
		return true
	}
	c := text[len(prefix)]
	return c < 'a' || c > 'z'
}
