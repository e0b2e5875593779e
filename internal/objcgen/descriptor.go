package objcgen

import (
	"fmt"

	"vesper/internal/decl"
	"vesper/internal/ir"
)

// DescriptorParts are the three components of a method_t-equivalent
// descriptor. A nil Encoding or Impl is valid: protocol members carry no
// implementation and undeducible foreign types carry no encoding.
type DescriptorParts struct {
	SelectorName *ir.Global
	Encoding     *ir.Global
	Impl         *ir.Func
}

// Descriptor assembles the three-pointer descriptor record:
// selector, type encoding or null, implementation or null.
func (p DescriptorParts) Descriptor() ir.Value {
	fields := []ir.Value{ir.SymRef{Global: p.SelectorName}, ir.Null{}, ir.Null{}}
	if p.Encoding != nil {
		fields[1] = ir.SymRef{Global: p.Encoding}
	}
	if p.Impl != nil {
		fields[2] = ir.FnRef{Func: p.Impl}
	}
	return ir.StructVal{Fields: fields}
}

// MethodDescriptorParts emits the descriptor components for a method,
// initializer or destructor declaration.
func (m *Module) MethodDescriptorParts(method *decl.Method) DescriptorParts {
	sel := NewSelector(method)
	return DescriptorParts{
		SelectorName: m.MethodName(sel.String()),
		Encoding:     m.MethodTypeEncoding(method.FormalType),
		Impl:         m.methodImpl(method),
	}
}

// MethodDescriptor emits the full descriptor record for a method.
func (m *Module) MethodDescriptor(method *decl.Method) ir.Value {
	return m.MethodDescriptorParts(method).Descriptor()
}

// methodImpl locates the foreign entry point for a concrete method.
// Protocol members have no implementation. Destructors are resolved even
// when nothing requested exposure: the runtime always needs a deallocation
// entry point for an exposed class.
func (m *Module) methodImpl(method *decl.Method) *ir.Func {
	if method.Parent != nil && method.Parent.IsProtocol {
		return nil
	}
	var ref decl.Ref
	switch method.Kind {
	case decl.MethodFunc:
		ref = decl.FuncRef(method)
	case decl.MethodInitializer:
		ref = decl.InitializerRef(method)
	case decl.MethodDestructor:
		ref = decl.DeallocatorRef(method.Parent)
	default:
		panic(fmt.Sprintf("objcgen: method descriptor for kind %d", method.Kind))
	}
	return m.ForeignThunk(ref)
}

// GetterDescriptorParts emits the descriptor components for a storage
// getter. Subscript element types stay unencoded.
func (m *Module) GetterDescriptorParts(s *decl.Storage) DescriptorParts {
	sel := GetterSelector(s)
	parts := DescriptorParts{
		SelectorName: m.MethodName(sel.String()),
		Impl:         m.accessorImpl(s, s.Getter),
	}
	if !s.Subscript {
		parts.Encoding = m.getterEncoding(s.Type)
	}
	return parts
}

// SetterDescriptorParts emits the descriptor components for a storage
// setter. Calling it for non-settable storage is a caller contract
// violation.
func (m *Module) SetterDescriptorParts(s *decl.Storage) DescriptorParts {
	if !s.Settable {
		panic(fmt.Sprintf("objcgen: setter descriptor for non-settable %q", s.Name))
	}
	sel := SetterSelector(s)
	parts := DescriptorParts{
		SelectorName: m.MethodName(sel.String()),
		Impl:         m.accessorImpl(s, s.Setter),
	}
	if !s.Subscript {
		parts.Encoding = m.setterEncoding(s.Type)
	}
	return parts
}

func (m *Module) accessorImpl(s *decl.Storage, accessor *decl.Method) *ir.Func {
	if s.Parent != nil && s.Parent.IsProtocol {
		return nil
	}
	if accessor == nil {
		panic(fmt.Sprintf("objcgen: storage %q has no synthesized accessor", s.Name))
	}
	return m.ForeignThunk(decl.FuncRef(accessor))
}

// PropertyMethodDescriptors emits the getter and setter descriptors for a
// property. The setter is nil when the property is not settable. An
// unencodable element type degrades that accessor's encoding to null
// without aborting the descriptor.
func (m *Module) PropertyMethodDescriptors(property *decl.Storage) (getter, setter ir.Value) {
	getter = m.GetterDescriptorParts(property).Descriptor()
	if property.Settable {
		setter = m.SetterDescriptorParts(property).Descriptor()
	}
	return getter, setter
}

// SubscriptMethodDescriptors emits the getter and setter descriptors for a
// subscript. The setter is nil when the subscript is not settable.
func (m *Module) SubscriptMethodDescriptors(subscript *decl.Storage) (getter, setter ir.Value) {
	getter = m.GetterDescriptorParts(subscript).Descriptor()
	if subscript.Settable {
		setter = m.SetterDescriptorParts(subscript).Descriptor()
	}
	return getter, setter
}

// IVarInitDestroyDescriptor emits the descriptor for the synthesized
// instance-variable init or destroy hook. Classes without the hook yield
// no descriptor; that is an expected absence, not an error. The hook's
// native signature has no foreign encoding, so the encoding slot is null.
func (m *Module) IVarInitDestroyDescriptor(c *decl.Container, destroyer bool) (ir.Value, bool) {
	impl, ok := m.ivarHook(c, destroyer)
	if !ok {
		return nil, false
	}
	sel := SelectorForRef(decl.IVarRef(c, destroyer))
	parts := DescriptorParts{
		SelectorName: m.MethodName(sel.String()),
		Impl:         impl,
	}
	return parts.Descriptor(), true
}
