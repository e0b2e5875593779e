package objcgen

import (
	"vesper/internal/decl"
	"vesper/internal/types"
)

// Eligibility predicates decide which declarations receive foreign method
// descriptors. They are pure and override-propagating: a declaration that
// overrides an eligible one is eligible itself, recursively.

// RequiresMethodDescriptor reports whether a method needs a foreign
// descriptor. Accessors are emitted alongside their storage declaration,
// and generic methods or members of bound generic types never cross the
// boundary.
func RequiresMethodDescriptor(method *decl.Method) bool {
	if method.Accessor {
		return false
	}
	if method.Generic || inBoundGeneric(method.Parent) {
		return false
	}
	if method.ObjC || method.IBAction {
		return true
	}
	if method.Overridden != nil {
		return RequiresMethodDescriptor(method.Overridden)
	}
	return false
}

// RequiresInitializerDescriptor reports whether an initializer needs a
// foreign descriptor.
func RequiresInitializerDescriptor(ctor *decl.Method) bool {
	if ctor.Generic || inBoundGeneric(ctor.Parent) {
		return false
	}
	return ctor.ObjC
}

// RequiresPropertyDescriptor reports whether a property needs foreign
// accessor descriptors. Function-typed properties qualify only with a
// block-compatible function type: plain function values cannot cross this
// boundary.
func RequiresPropertyDescriptor(in *types.Interner, property *decl.Storage) bool {
	if inBoundGeneric(property.Parent) {
		return false
	}
	if property.Overridden != nil {
		return RequiresPropertyDescriptor(in, property.Overridden)
	}
	if !property.ObjC {
		return false
	}
	return blockCompatibleElement(in, property.Type)
}

// RequiresSubscriptDescriptor reports whether a subscript needs foreign
// accessor descriptors.
func RequiresSubscriptDescriptor(in *types.Interner, subscript *decl.Storage) bool {
	if inBoundGeneric(subscript.Parent) {
		return false
	}
	if subscript.Overridden != nil {
		return RequiresSubscriptDescriptor(in, subscript.Overridden)
	}
	if !subscript.ObjC {
		return false
	}
	return blockCompatibleElement(in, subscript.Type)
}

func inBoundGeneric(c *decl.Container) bool {
	return c != nil && c.BoundGeneric
}

func blockCompatibleElement(in *types.Interner, elem types.TypeID) bool {
	info, ok := in.FnInfo(elem)
	if !ok {
		return true // not function-typed
	}
	return info.Repr == types.ReprBlock
}
