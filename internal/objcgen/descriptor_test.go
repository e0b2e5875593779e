package objcgen

import (
	"testing"

	"vesper/internal/decl"
	"vesper/internal/ir"
	"vesper/internal/layout"
	"vesper/internal/types"
)

func testStorage(m *Module, parent *decl.Container, name string, elem types.TypeID, settable bool) *decl.Storage {
	s := &decl.Storage{
		Name:     name,
		Type:     elem,
		Parent:   parent,
		Settable: settable,
		ObjC:     true,
	}
	if !parent.IsProtocol {
		s.Getter = testMethod(m, parent, name, s.GetterSelector(), nil, elem, types.ConvGuaranteed)
		s.Getter.Accessor = true
		if settable {
			s.Setter = testMethod(m, parent, name, s.SetterSelector(),
				[]types.TypeID{elem}, m.Types.Builtins().Void, types.ConvGuaranteed)
			s.Setter.Accessor = true
		}
	}
	return s
}

func TestMethodDescriptorParts(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	cls := &decl.Container{Name: "Foo"}
	method := testMethod(m, cls, "frob", "frob", nil, m.Types.Builtins().Void, types.ConvGuaranteed)

	parts := m.MethodDescriptorParts(method)
	if parts.SelectorName != m.MethodName("frob") {
		t.Fatalf("selector name global mismatch")
	}
	if got := encodingText(t, parts.Encoding); got != "v16@0:8" {
		t.Fatalf("encoding = %q", got)
	}
	if parts.Impl != m.ForeignThunk(decl.FuncRef(method)) {
		t.Fatalf("impl is not the foreign thunk")
	}

	d := parts.Descriptor()
	sv, ok := d.(ir.StructVal)
	if !ok || len(sv.Fields) != 3 {
		t.Fatalf("descriptor = %#v", d)
	}
	if sv.TypeText() != "{ ptr, ptr, ptr }" {
		t.Fatalf("descriptor type = %q", sv.TypeText())
	}
}

func TestProtocolMethodHasNoImpl(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	proto := &decl.Container{Name: "Drawable", IsProtocol: true}
	method := testMethod(m, proto, "draw", "draw", nil, m.Types.Builtins().Void, types.ConvGuaranteed)

	parts := m.MethodDescriptorParts(method)
	if parts.Impl != nil {
		t.Fatalf("protocol member must have no implementation")
	}
	sv := parts.Descriptor().(ir.StructVal)
	if _, ok := sv.Fields[2].(ir.Null); !ok {
		t.Fatalf("impl slot must render null")
	}
}

func TestDestructorDescriptorAlwaysResolved(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	cls := &decl.Container{Name: "Foo"}
	dtor := testMethod(m, cls, "deinit", "ignored", nil, m.Types.Builtins().Void, types.ConvGuaranteed)
	dtor.Kind = decl.MethodDestructor
	dtor.ObjC = false

	parts := m.MethodDescriptorParts(dtor)
	if parts.SelectorName != m.MethodName("dealloc") {
		t.Fatalf("destructor must use the dealloc selector")
	}
	if parts.Impl == nil {
		t.Fatalf("destructor must resolve an implementation even without exposure")
	}
}

func TestPropertyMethodDescriptors(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	cls := &decl.Container{Name: "Foo"}
	b := m.Types.Builtins()

	readonly := testStorage(m, cls, "title", b.Object, false)
	getter, setter := m.PropertyMethodDescriptors(readonly)
	if getter == nil {
		t.Fatalf("getter descriptor missing")
	}
	if setter != nil {
		t.Fatalf("read-only property must not get a setter descriptor")
	}

	settable := testStorage(m, cls, "width", b.Float64, true)
	getter, setter = m.PropertyMethodDescriptors(settable)
	if getter == nil || setter == nil {
		t.Fatalf("settable property must get both descriptors")
	}
	gp := m.GetterDescriptorParts(settable)
	if got := encodingText(t, gp.Encoding); got != "d16@0:8" {
		t.Fatalf("getter encoding = %q", got)
	}
	sp := m.SetterDescriptorParts(settable)
	if got := encodingText(t, sp.Encoding); got != "v24@0:8d16" {
		t.Fatalf("setter encoding = %q", got)
	}
}

func TestSubscriptDescriptorsHaveNoEncoding(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	cls := &decl.Container{Name: "List"}
	b := m.Types.Builtins()

	sub := &decl.Storage{
		Name:      "subscript",
		Type:      b.Object,
		IndexType: b.Int64,
		Parent:    cls,
		Settable:  true,
		ObjC:      true,
		Subscript: true,
	}
	sub.Getter = testMethod(m, cls, "subscript", sub.GetterSelector(),
		[]types.TypeID{b.Int64}, b.Object, types.ConvGuaranteed)
	sub.Getter.Accessor = true
	sub.Setter = testMethod(m, cls, "subscript", sub.SetterSelector(),
		[]types.TypeID{b.Object, b.Int64}, b.Void, types.ConvGuaranteed)
	sub.Setter.Accessor = true

	gp := m.GetterDescriptorParts(sub)
	if gp.Encoding != nil {
		t.Fatalf("subscript getter must carry no encoding")
	}
	if gp.SelectorName != m.MethodName("objectAtIndexedSubscript:") {
		t.Fatalf("subscript getter selector mismatch")
	}
	sp := m.SetterDescriptorParts(sub)
	if sp.Encoding != nil {
		t.Fatalf("subscript setter must carry no encoding")
	}
	getter, setter := m.SubscriptMethodDescriptors(sub)
	if getter == nil || setter == nil {
		t.Fatalf("settable subscript must get both descriptors")
	}
}

func TestSetterDescriptorPanicsForNonSettable(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	cls := &decl.Container{Name: "Foo"}
	s := testStorage(m, cls, "title", m.Types.Builtins().Object, false)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	m.SetterDescriptorParts(s)
}

func TestAccessorImplPanicsWhenMissing(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	cls := &decl.Container{Name: "Foo"}
	s := &decl.Storage{Name: "broken", Type: m.Types.Builtins().Object, Parent: cls, ObjC: true}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for missing accessor")
		}
	}()
	m.GetterDescriptorParts(s)
}

func TestIVarInitDestroyDescriptor(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	cls := &decl.Container{Name: "Foo"}

	if _, ok := m.IVarInitDestroyDescriptor(cls, false); ok {
		t.Fatalf("class without hooks must yield no descriptor")
	}

	hook := m.ForeignThunk(decl.IVarRef(cls, false))
	m.RegisterIVarHook(cls, false, hook)
	d, ok := m.IVarInitDestroyDescriptor(cls, false)
	if !ok {
		t.Fatalf("registered hook must yield a descriptor")
	}
	sv := d.(ir.StructVal)
	if _, isNull := sv.Fields[1].(ir.Null); !isNull {
		t.Fatalf("hook encoding slot must be null")
	}
	fr, isFn := sv.Fields[2].(ir.FnRef)
	if !isFn || fr.Func != hook {
		t.Fatalf("hook impl slot mismatch")
	}
	if sv.Fields[0].(ir.SymRef).Global != m.MethodName(".cxx_construct") {
		t.Fatalf("hook selector mismatch")
	}

	if _, ok := m.IVarInitDestroyDescriptor(cls, true); ok {
		t.Fatalf("destroy hook was never registered")
	}
}
