package driver

import (
	"fmt"

	"vesper/internal/decl"
	"vesper/internal/encoding"
	"vesper/internal/ir"
	"vesper/internal/layout"
	"vesper/internal/manifest"
	"vesper/internal/objcgen"
)

// EmitModule lowers one realized manifest module to textual IR: protocol
// records, per-class method lists with their descriptors, thunks that
// trampoline into the host entry points, and the selector machinery all of
// those pull in.
func EmitModule(mod *manifest.Module, target layout.Target) (string, error) {
	engine := layout.New(target, mod.Types)
	enc := encoding.NewEncoder(mod.Types, engine)
	m := objcgen.NewModule(mod.Name, target, mod.Types, engine, enc)

	for _, proto := range mod.Protocols {
		m.GetProtocolPair(proto)
	}
	for _, cls := range mod.Classes {
		if err := emitClass(m, cls); err != nil {
			return "", fmt.Errorf("class %q: %w", cls.Decl.Name, err)
		}
	}
	return m.IR.Print(), nil
}

func emitClass(m *objcgen.Module, cls *manifest.Class) error {
	var instance, class []ir.Value

	for _, method := range cls.Methods {
		if !methodEligible(m, method) {
			continue
		}
		fillThunkBody(m, method)
		d := m.MethodDescriptor(method)
		if method.Kind == decl.MethodFunc && !method.Instance {
			class = append(class, d)
			continue
		}
		instance = append(instance, d)
	}

	for _, p := range cls.Properties {
		if !objcgen.RequiresPropertyDescriptor(m.Types, p) {
			continue
		}
		fillAccessorBodies(m, p)
		getter, setter := m.PropertyMethodDescriptors(p)
		instance = append(instance, getter)
		if setter != nil {
			instance = append(instance, setter)
		}
	}
	for _, s := range cls.Subscripts {
		if !objcgen.RequiresSubscriptDescriptor(m.Types, s) {
			continue
		}
		fillAccessorBodies(m, s)
		getter, setter := m.SubscriptMethodDescriptors(s)
		instance = append(instance, getter)
		if setter != nil {
			instance = append(instance, setter)
		}
	}

	if cls.IVarHooks && !cls.Decl.IsProtocol {
		for _, destroyer := range []bool{false, true} {
			hook := fillThunkRef(m, decl.IVarRef(cls.Decl, destroyer))
			m.RegisterIVarHook(cls.Decl, destroyer, hook)
			if d, ok := m.IVarInitDestroyDescriptor(cls.Decl, destroyer); ok {
				instance = append(instance, d)
			}
		}
	}

	if len(instance) > 0 {
		emitMethodList(m, cls.Decl, instance, false)
	}
	if len(class) > 0 {
		emitMethodList(m, cls.Decl, class, true)
	}
	return nil
}

func methodEligible(m *objcgen.Module, method *decl.Method) bool {
	switch method.Kind {
	case decl.MethodInitializer:
		return objcgen.RequiresInitializerDescriptor(method)
	case decl.MethodDestructor:
		// Listing a destructor in the manifest is the exposure request.
		return true
	default:
		return objcgen.RequiresMethodDescriptor(method)
	}
}

// fillThunkBody gives the method's foreign thunk a body trampolining into
// the host-side lowered entry. Protocol members carry no implementation.
func fillThunkBody(m *objcgen.Module, method *decl.Method) {
	if method.Parent != nil && method.Parent.IsProtocol {
		return
	}
	var ref decl.Ref
	switch method.Kind {
	case decl.MethodFunc:
		ref = decl.FuncRef(method)
	case decl.MethodInitializer:
		ref = decl.InitializerRef(method)
	case decl.MethodDestructor:
		ref = decl.DeallocatorRef(method.Parent)
	}
	fillThunkRef(m, ref)
}

func fillAccessorBodies(m *objcgen.Module, s *decl.Storage) {
	if s.Getter != nil {
		fillThunkBody(m, s.Getter)
	}
	if s.Settable && s.Setter != nil {
		fillThunkBody(m, s.Setter)
	}
}

func fillThunkRef(m *objcgen.Module, ref decl.Ref) *ir.Func {
	f := m.ForeignThunk(ref)
	if f.Body != nil {
		return f
	}
	host := m.IR.DeclareFunc(hostEntryName(ref), "ptr", []string{"ptr"}, false)
	b := ir.NewBuilder(m.IR, f)
	t := b.TailCall("ptr (ptr)", host.Name, []string{"ptr %self"})
	b.Ret("ptr", t)
	return f
}

// hostEntryName mangles the host-side lowered symbol the thunk forwards to.
func hostEntryName(ref decl.Ref) string {
	c := ref.Container()
	className := "_"
	if c != nil {
		className = c.Name
	}
	sel := objcgen.SelectorForRef(ref).String()
	san := make([]byte, 0, len(sel))
	for i := 0; i < len(sel); i++ {
		if sel[i] == ':' || sel[i] == '.' {
			san = append(san, '_')
			continue
		}
		san = append(san, sel[i])
	}
	return fmt.Sprintf("_v%d%s%d%s", len(className), className, len(san), san)
}

// emitMethodList packs descriptors into the runtime's method-list blob:
// entry size, entry count, then the descriptor records.
func emitMethodList(m *objcgen.Module, c *decl.Container, entries []ir.Value, classMethods bool) {
	prefix := "\x01l_OBJC_$_INSTANCE_METHODS_"
	if classMethods {
		prefix = "\x01l_OBJC_$_CLASS_METHODS_"
	}
	if c.IsProtocol {
		prefix = "\x01l_OBJC_$_PROTOCOL_INSTANCE_METHODS_"
		if classMethods {
			prefix = "\x01l_OBJC_$_PROTOCOL_CLASS_METHODS_"
		}
	}
	fields := make([]ir.Value, 0, len(entries)+2)
	fields = append(fields,
		ir.Int{Ty: "i32", V: 3 * m.PtrSize()},
		ir.Int{Ty: "i32", V: len(entries)})
	fields = append(fields, entries...)
	m.IR.AddGlobal(&ir.Global{
		Name:    prefix + c.Name,
		Linkage: ir.LinkInternal,
		Section: "__DATA,__objc_const",
		Align:   m.PtrSize(),
		Const:   true,
		Init:    ir.StructVal{Fields: fields},
	})
}
