package manifest

import (
	"fmt"

	"vesper/internal/decl"
	"vesper/internal/types"
)

// Module is the realized declaration snapshot for one manifest: an interner
// populated with every referenced type plus the class and protocol records
// the backend walks.
type Module struct {
	Name  string
	Types *types.Interner

	Classes   []*Class
	Protocols []*decl.Container
}

// Class groups a container with its realized members.
type Class struct {
	Decl       *decl.Container
	Methods    []*decl.Method
	Properties []*decl.Storage
	Subscripts []*decl.Storage
	IVarHooks  bool
}

type realizer struct {
	in         *types.Interner
	structs    map[string]types.TypeID
	containers map[string]*decl.Container
	methods    map[string]*decl.Method // "Class.method" for override links
}

// Realize converts the parsed manifest into a declaration snapshot.
func Realize(f *File) (*Module, error) {
	r := &realizer{
		in:         types.NewInterner(),
		structs:    make(map[string]types.TypeID, len(f.Structs)),
		containers: make(map[string]*decl.Container, len(f.Classes)+len(f.Protocols)),
		methods:    make(map[string]*decl.Method, 16),
	}

	for _, s := range f.Structs {
		if _, ok := r.structs[s.Name]; ok {
			return nil, fmt.Errorf("duplicate struct %q", s.Name)
		}
		fields := make([]types.TypeID, 0, len(s.Fields))
		for _, fn := range s.Fields {
			ft, err := r.resolveType(fn)
			if err != nil {
				return nil, fmt.Errorf("struct %q: %w", s.Name, err)
			}
			fields = append(fields, ft)
		}
		r.structs[s.Name] = r.in.RegisterStruct(s.Name, fields)
	}

	mod := &Module{Name: f.Module.Name, Types: r.in}

	// Containers first so supers and overrides can resolve in any order.
	for i := range f.Classes {
		c := &f.Classes[i]
		if _, ok := r.containers[c.Name]; ok {
			return nil, fmt.Errorf("duplicate class %q", c.Name)
		}
		r.containers[c.Name] = &decl.Container{Name: c.Name, BoundGeneric: c.BoundGeneric}
	}
	for i := range f.Protocols {
		p := &f.Protocols[i]
		if _, ok := r.containers[p.Name]; ok {
			return nil, fmt.Errorf("duplicate container %q", p.Name)
		}
		cont := &decl.Container{Name: p.Name, IsProtocol: true}
		r.containers[p.Name] = cont
		mod.Protocols = append(mod.Protocols, cont)
	}
	for i := range f.Classes {
		c := &f.Classes[i]
		cont := r.containers[c.Name]
		if c.Super != "" {
			super, ok := r.containers[c.Super]
			if !ok {
				// Imported superclass; only the name matters to the backend.
				super = &decl.Container{Name: c.Super}
				r.containers[c.Super] = super
			}
			cont.Super = super
		}
	}

	for i := range f.Classes {
		c := &f.Classes[i]
		rc, err := r.realizeClass(c)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", c.Name, err)
		}
		mod.Classes = append(mod.Classes, rc)
	}
	// Protocol members reuse the class realization path; their containers
	// carry IsProtocol so the backend emits implementation-free descriptors.
	for i := range f.Protocols {
		p := &f.Protocols[i]
		rc, err := r.realizeClass(p)
		if err != nil {
			return nil, fmt.Errorf("protocol %q: %w", p.Name, err)
		}
		mod.Classes = append(mod.Classes, rc)
	}

	if err := r.linkOverrides(f); err != nil {
		return nil, err
	}
	return mod, nil
}

func (r *realizer) realizeClass(c *ClassSection) (*Class, error) {
	cont := r.containers[c.Name]
	rc := &Class{Decl: cont, IVarHooks: c.IVarHooks}

	for i := range c.Methods {
		ms := &c.Methods[i]
		method, err := r.realizeMethod(cont, ms)
		if err != nil {
			return nil, fmt.Errorf("method %q: %w", ms.Name, err)
		}
		rc.Methods = append(rc.Methods, method)
		r.methods[c.Name+"."+ms.Name] = method
	}
	for i := range c.Properties {
		ps := &c.Properties[i]
		st, err := r.realizeStorage(cont, ps, false)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", ps.Name, err)
		}
		rc.Properties = append(rc.Properties, st)
	}
	for i := range c.Subscripts {
		ps := &c.Subscripts[i]
		st, err := r.realizeStorage(cont, ps, true)
		if err != nil {
			return nil, fmt.Errorf("subscript %q: %w", ps.Name, err)
		}
		rc.Subscripts = append(rc.Subscripts, st)
	}
	return rc, nil
}

func (r *realizer) realizeMethod(cont *decl.Container, ms *MethodSection) (*decl.Method, error) {
	kind, err := methodKind(ms.Kind)
	if err != nil {
		return nil, err
	}
	result := r.in.Builtins().Void
	if ms.Result != "" {
		result, err = r.resolveType(ms.Result)
		if err != nil {
			return nil, err
		}
	}
	args := make([]types.Param, 0, len(ms.Args))
	for _, a := range ms.Args {
		at, err := r.resolveType(a)
		if err != nil {
			return nil, err
		}
		args = append(args, types.Param{Type: at, Conv: types.ConvUnowned})
	}
	recvConv, err := receiverConvention(ms.ReceiverCnv)
	if err != nil {
		return nil, err
	}

	selector := ms.Selector
	if selector == "" {
		if len(ms.Args) > 0 {
			return nil, fmt.Errorf("takes arguments but declares no selector")
		}
		selector = ms.Name
	}

	recvType := r.in.Builtins().Object
	if !ms.Instance {
		recvType = r.in.Intern(types.MakeMetatype(r.in.Builtins().Object))
	}
	lowered := r.in.RegisterFn(types.FnInfo{
		Params: append(append([]types.Param{}, args...),
			types.Param{Type: recvType, Conv: recvConv}),
		Result: result,
		Repr:   types.ReprForeignMethod,
	})
	formal := r.in.RegisterFn(types.FnInfo{
		Params: args,
		Result: result,
		Repr:   types.ReprThick,
	})

	return &decl.Method{
		Name:       ms.Name,
		Selector:   selector,
		Kind:       kind,
		Type:       lowered,
		FormalType: formal,
		Parent:     cont,
		Generic:    ms.Generic,
		ObjC:       ms.ObjC,
		IBAction:   ms.IBAction,
		Instance:   ms.Instance,
	}, nil
}

func (r *realizer) realizeStorage(cont *decl.Container, ps *PropertySection, subscript bool) (*decl.Storage, error) {
	elem, err := r.resolveType(ps.Type)
	if err != nil {
		return nil, err
	}
	st := &decl.Storage{
		Name:      ps.Name,
		Type:      elem,
		Parent:    cont,
		Settable:  ps.Settable,
		ObjC:      ps.ObjC,
		Subscript: subscript,
	}
	if subscript {
		if ps.Index == "" {
			return nil, fmt.Errorf("subscript declares no index type")
		}
		st.IndexType, err = r.resolveType(ps.Index)
		if err != nil {
			return nil, err
		}
	}
	if !cont.IsProtocol {
		st.Getter = r.synthesizeAccessor(cont, st, false)
		if st.Settable {
			st.Setter = r.synthesizeAccessor(cont, st, true)
		}
	}
	return st, nil
}

// synthesizeAccessor builds the implicit getter or setter method record.
// Accessors never get their own descriptors; they exist so the storage
// descriptor has an implementation to point at.
func (r *realizer) synthesizeAccessor(cont *decl.Container, st *decl.Storage, setter bool) *decl.Method {
	var args []types.Param
	result := st.Type
	selector := st.GetterSelector()
	if setter {
		args = []types.Param{{Type: st.Type, Conv: types.ConvUnowned}}
		result = r.in.Builtins().Void
		selector = st.SetterSelector()
	}
	if st.Subscript {
		index := types.Param{Type: st.IndexType, Conv: types.ConvUnowned}
		args = append(args, index)
	}
	lowered := r.in.RegisterFn(types.FnInfo{
		Params: append(append([]types.Param{}, args...),
			types.Param{Type: r.in.Builtins().Object, Conv: types.ConvGuaranteed}),
		Result: result,
		Repr:   types.ReprForeignMethod,
	})
	formal := r.in.RegisterFn(types.FnInfo{
		Params: args,
		Result: result,
		Repr:   types.ReprThick,
	})
	return &decl.Method{
		Name:       st.Name,
		Selector:   selector,
		Kind:       decl.MethodFunc,
		Type:       lowered,
		FormalType: formal,
		Parent:     cont,
		ObjC:       st.ObjC,
		Accessor:   true,
		Instance:   true,
	}
}

func (r *realizer) linkOverrides(f *File) error {
	link := func(classes []ClassSection) error {
		for i := range classes {
			c := &classes[i]
			for j := range c.Methods {
				ms := &c.Methods[j]
				if ms.Overrides == "" {
					continue
				}
				base, ok := r.methods[ms.Overrides]
				if !ok {
					return fmt.Errorf("class %q: method %q overrides unknown %q",
						c.Name, ms.Name, ms.Overrides)
				}
				r.methods[c.Name+"."+ms.Name].Overridden = base
			}
		}
		return nil
	}
	if err := link(f.Classes); err != nil {
		return err
	}
	return link(f.Protocols)
}

func methodKind(s string) (decl.MethodKind, error) {
	switch s {
	case "":
		return decl.MethodFunc, nil
	case "init":
		return decl.MethodInitializer, nil
	case "dealloc":
		return decl.MethodDestructor, nil
	default:
		return 0, fmt.Errorf("unknown method kind %q", s)
	}
}

func receiverConvention(s string) (types.Convention, error) {
	switch s {
	case "", "guaranteed":
		return types.ConvGuaranteed, nil
	case "unowned":
		return types.ConvUnowned, nil
	case "owned":
		return types.ConvOwned, nil
	default:
		return 0, fmt.Errorf("unknown receiver convention %q", s)
	}
}

// resolveType maps a manifest type name to an interned type.
func (r *realizer) resolveType(name string) (types.TypeID, error) {
	b := r.in.Builtins()
	switch name {
	case "void":
		return b.Void, nil
	case "bool":
		return b.Bool, nil
	case "int8":
		return b.Int8, nil
	case "int16":
		return b.Int16, nil
	case "int32":
		return b.Int32, nil
	case "int", "int64":
		return b.Int64, nil
	case "uint8":
		return b.Uint8, nil
	case "uint16":
		return b.Uint16, nil
	case "uint32":
		return b.Uint32, nil
	case "uint", "uint64":
		return b.Uint64, nil
	case "float", "float32":
		return b.Float32, nil
	case "double", "float64":
		return b.Float64, nil
	case "cstring":
		return b.CString, nil
	case "object":
		return b.Object, nil
	case "class":
		return b.Class, nil
	case "selector":
		return b.Selector, nil
	case "rawptr":
		return b.RawPointer, nil
	case "block":
		// Opaque block value; the element signature never matters to the
		// bridging metadata, only the representation does.
		return r.in.RegisterFn(types.FnInfo{
			Result: b.Void,
			Repr:   types.ReprBlock,
		}), nil
	case "fn":
		return r.in.RegisterFn(types.FnInfo{
			Result: b.Void,
			Repr:   types.ReprThick,
		}), nil
	}
	if id, ok := r.structs[name]; ok {
		return id, nil
	}
	return types.NoTypeID, fmt.Errorf("unknown type %q", name)
}
