package decl

import "fmt"

// RefKind enumerates the callable-entity kinds a Ref can point at.
type RefKind uint8

const (
	RefFunc RefKind = iota
	RefInitializer
	RefAllocator
	RefDestroyer
	RefDeallocator
	RefIVarInitializer
	RefIVarDestroyer
	RefDefaultArgGenerator
	RefEnumElement
	RefGlobalAccessor
)

func (k RefKind) String() string {
	switch k {
	case RefFunc:
		return "func"
	case RefInitializer:
		return "initializer"
	case RefAllocator:
		return "allocator"
	case RefDestroyer:
		return "destroyer"
	case RefDeallocator:
		return "deallocator"
	case RefIVarInitializer:
		return "ivar_initializer"
	case RefIVarDestroyer:
		return "ivar_destroyer"
	case RefDefaultArgGenerator:
		return "default_arg_generator"
	case RefEnumElement:
		return "enum_element"
	case RefGlobalAccessor:
		return "global_accessor"
	default:
		return fmt.Sprintf("RefKind(%d)", k)
	}
}

// Ref is a reference to a single lowered callable entity, the closed sum
// over everything the backend can be asked to bridge.
type Ref struct {
	Kind   RefKind
	Method *Method    // RefFunc, RefInitializer
	Class  *Container // destructor and ivar hook kinds
}

// FuncRef references a method declaration.
func FuncRef(m *Method) Ref {
	return Ref{Kind: RefFunc, Method: m}
}

// InitializerRef references an initializer declaration.
func InitializerRef(m *Method) Ref {
	return Ref{Kind: RefInitializer, Method: m}
}

// DeallocatorRef references the deallocation entry point of a class.
func DeallocatorRef(c *Container) Ref {
	return Ref{Kind: RefDeallocator, Class: c}
}

// IVarRef references the synthesized instance-variable init or destroy hook.
func IVarRef(c *Container, destroyer bool) Ref {
	kind := RefIVarInitializer
	if destroyer {
		kind = RefIVarDestroyer
	}
	return Ref{Kind: kind, Class: c}
}

// IsInstanceDispatch reports whether the referenced entity dispatches on an
// instance. Initializers and deallocators always do, even when the
// declaration is formally a type-level member.
func (r Ref) IsInstanceDispatch() bool {
	switch r.Kind {
	case RefInitializer, RefDeallocator, RefDestroyer:
		return true
	case RefFunc:
		return r.Method != nil && r.Method.Instance
	default:
		return false
	}
}

// Container returns the nominal type the referenced entity belongs to.
func (r Ref) Container() *Container {
	if r.Method != nil {
		return r.Method.Parent
	}
	return r.Class
}
