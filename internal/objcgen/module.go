// Package objcgen emits the native artifacts the foreign message-dispatch
// runtime consumes: selector symbols, type-encoding strings, method
// descriptors, protocol records and the call sequences that perform dynamic
// message sends.
package objcgen

import (
	"fmt"

	"vesper/internal/decl"
	"vesper/internal/ir"
	"vesper/internal/layout"
	"vesper/internal/types"
)

// TypeEncoder is the foreign type encoder collaborator: per-type encoding
// codes and encoded sizes. Signature-level synthesis stays in this package.
type TypeEncoder interface {
	Code(types.TypeID) (string, bool)
	Size(types.TypeID) (int, bool)
}

// ProtocolPair couples an emitted protocol record with its reference cell.
// The record must never be used as a live protocol handle directly; the
// runtime fixes up the reference cell at load time and only that cell may
// be dereferenced.
type ProtocolPair struct {
	Record *ir.Global
	Ref    *ir.Global
}

type thunkKey struct {
	kind   decl.RefKind
	method *decl.Method
	class  *decl.Container
}

// Module is the per-compilation-module context for foreign-ABI emission.
// All caches live here; independent modules never share state, so parallel
// compilation needs no synchronization as long as each module stays on one
// goroutine.
type Module struct {
	IR      *ir.Module
	Types   *types.Interner
	Layout  *layout.Engine
	Encoder TypeEncoder

	methodNames  map[string]*ir.Global
	selectorRefs map[string]*ir.Global
	protocols    map[*decl.Container]ProtocolPair
	cstrings     map[string]*ir.Global
	thunks       map[thunkKey]*ir.Func
	ivarHooks    map[thunkKey]*ir.Func
	metaclasses  map[*decl.Container]*ir.Global
	classObjects map[*decl.Container]*ir.Global
	classRefs    map[*decl.Container]*ir.Global

	cstringID      int
	classRefID     int
	partialApplyID int
}

// NewModule creates the emission context for one compilation module.
func NewModule(name string, target layout.Target, typesIn *types.Interner, engine *layout.Engine, enc TypeEncoder) *Module {
	return &Module{
		IR:           ir.NewModule(name, target),
		Types:        typesIn,
		Layout:       engine,
		Encoder:      enc,
		methodNames:  make(map[string]*ir.Global, 64),
		selectorRefs: make(map[string]*ir.Global, 64),
		protocols:    make(map[*decl.Container]ProtocolPair, 8),
		cstrings:     make(map[string]*ir.Global, 32),
		thunks:       make(map[thunkKey]*ir.Func, 32),
		ivarHooks:    make(map[thunkKey]*ir.Func, 4),
		metaclasses:  make(map[*decl.Container]*ir.Global, 8),
		classObjects: make(map[*decl.Container]*ir.Global, 8),
		classRefs:    make(map[*decl.Container]*ir.Global, 8),
	}
}

// PtrSize returns the target pointer size in bytes.
func (m *Module) PtrSize() int {
	return m.IR.Target.PtrSize
}

// Runtime entry points -------------------------------------------------------

func (m *Module) msgSendFn() *ir.Func {
	return m.IR.DeclareFunc("objc_msgSend", "ptr", []string{"ptr", "ptr"}, true)
}

func (m *Module) msgSendStretFn() *ir.Func {
	return m.IR.DeclareFunc("objc_msgSend_stret", "void", []string{"ptr", "ptr", "ptr"}, true)
}

func (m *Module) msgSendSuperFn() *ir.Func {
	return m.IR.DeclareFunc("objc_msgSendSuper", "ptr", []string{"ptr", "ptr"}, true)
}

func (m *Module) msgSendSuperStretFn() *ir.Func {
	return m.IR.DeclareFunc("objc_msgSendSuper_stret", "void", []string{"ptr", "ptr", "ptr"}, true)
}

func (m *Module) msgSendSuper2Fn() *ir.Func {
	return m.IR.DeclareFunc("objc_msgSendSuper2", "ptr", []string{"ptr", "ptr"}, true)
}

func (m *Module) msgSendSuper2StretFn() *ir.Func {
	return m.IR.DeclareFunc("objc_msgSendSuper2_stret", "void", []string{"ptr", "ptr", "ptr"}, true)
}

func (m *Module) retainFn() *ir.Func {
	return m.IR.DeclareFunc("objc_retain", "ptr", []string{"ptr"}, false)
}

func (m *Module) releaseFn() *ir.Func {
	return m.IR.DeclareFunc("objc_release", "void", []string{"ptr"}, false)
}

func (m *Module) autoreleaseReturnFn() *ir.Func {
	return m.IR.DeclareFunc("objc_autoreleaseReturnValue", "ptr", []string{"ptr"}, false)
}

func (m *Module) retainAutoreleasedReturnFn() *ir.Func {
	return m.IR.DeclareFunc("objc_retainAutoreleasedReturnValue", "ptr", []string{"ptr"}, false)
}

func (m *Module) allocBoxFn() *ir.Func {
	return m.IR.DeclareFunc("vesper_allocObject", "ptr", []string{"ptr", "i64", "i64"}, false)
}

func (m *Module) releaseBoxFn() *ir.Func {
	return m.IR.DeclareFunc("vesper_release", "void", []string{"ptr"}, false)
}

// Global strings -------------------------------------------------------------

// globalString returns a cached NUL-terminated string constant.
func (m *Module) globalString(s string) *ir.Global {
	if g, ok := m.cstrings[s]; ok {
		return g
	}
	g := m.IR.AddGlobal(&ir.Global{
		Name:        fmt.Sprintf(".str.%d", m.cstringID),
		Linkage:     ir.LinkInternal,
		Const:       true,
		UnnamedAddr: true,
		Align:       1,
		Init:        ir.CString(s),
	})
	m.cstringID++
	m.cstrings[s] = g
	return g
}

// Foreign thunk registry -----------------------------------------------------

// ForeignThunk returns the native entry point for the export-as-foreign
// variant of the referenced callable, creating the function on first use.
// The entry is internal and unnamed at the symbol-table level: it stays
// reachable only through the descriptors that cite it.
func (m *Module) ForeignThunk(ref decl.Ref) *ir.Func {
	key := thunkKey{kind: ref.Kind, method: ref.Method, class: ref.Class}
	if f, ok := m.thunks[key]; ok {
		return f
	}
	f := &ir.Func{
		Name:        mangleThunk(ref),
		Linkage:     ir.LinkInternal,
		UnnamedAddr: true,
		RetType:     "ptr",
		Params:      []string{"ptr %self", "ptr %_cmd"},
		Attrs:       "nounwind",
	}
	m.IR.AddFunc(f)
	m.thunks[key] = f
	return f
}

// RegisterLoweredEntry attaches the already-lowered body to the foreign
// thunk for ref. Upstream code emission calls this once per exported decl.
func (m *Module) RegisterLoweredEntry(ref decl.Ref, body []string) *ir.Func {
	f := m.ForeignThunk(ref)
	f.Body = body
	return f
}

// RegisterIVarHook records the synthesized instance-variable init/destroy
// hook for a class. Classes without the hook simply never register one.
func (m *Module) RegisterIVarHook(c *decl.Container, destroyer bool, f *ir.Func) {
	kind := decl.RefIVarInitializer
	if destroyer {
		kind = decl.RefIVarDestroyer
	}
	m.ivarHooks[thunkKey{kind: kind, class: c}] = f
}

func (m *Module) ivarHook(c *decl.Container, destroyer bool) (*ir.Func, bool) {
	kind := decl.RefIVarInitializer
	if destroyer {
		kind = decl.RefIVarDestroyer
	}
	f, ok := m.ivarHooks[thunkKey{kind: kind, class: c}]
	return f, ok
}

func mangleThunk(ref decl.Ref) string {
	c := ref.Container()
	className := "_"
	if c != nil {
		className = c.Name
	}
	sel := SelectorForRef(ref).String()
	san := make([]byte, 0, len(sel))
	for i := 0; i < len(sel); i++ {
		if sel[i] == ':' || sel[i] == '.' {
			san = append(san, '_')
			continue
		}
		san = append(san, sel[i])
	}
	return fmt.Sprintf("_vTo%d%s%d%s", len(className), className, len(san), san)
}

// Class metadata collaborators -----------------------------------------------

// MetaclassObject returns the external metaclass symbol for a class.
func (m *Module) MetaclassObject(c *decl.Container) *ir.Global {
	if g, ok := m.metaclasses[c]; ok {
		return g
	}
	g := m.IR.AddGlobal(&ir.Global{
		Name:     "OBJC_METACLASS_$_" + c.Name,
		External: true,
		DeclType: "%struct._class_t",
	})
	m.IR.DefineNamedType("%struct._class_t", "{ ptr, ptr, ptr, ptr, ptr }")
	m.metaclasses[c] = g
	return g
}

// ClassObject returns the external class symbol for a class.
func (m *Module) ClassObject(c *decl.Container) *ir.Global {
	if g, ok := m.classObjects[c]; ok {
		return g
	}
	g := m.IR.AddGlobal(&ir.Global{
		Name:     "OBJC_CLASS_$_" + c.Name,
		External: true,
		DeclType: "%struct._class_t",
	})
	m.IR.DefineNamedType("%struct._class_t", "{ ptr, ptr, ptr, ptr, ptr }")
	m.classObjects[c] = g
	return g
}

// classRefCell returns the classref cell the dynamic linker rewrites to the
// realized class, creating it on first use.
func (m *Module) classRefCell(c *decl.Container) *ir.Global {
	if g, ok := m.classRefs[c]; ok {
		return g
	}
	g := m.IR.AddGlobal(&ir.Global{
		Name:    fmt.Sprintf("\x01L_OBJC_CLASSLIST_REFERENCES_$_%d", m.classRefID),
		Linkage: ir.LinkInternal,
		Section: "__DATA,__objc_classrefs,regular,no_dead_strip",
		Align:   m.PtrSize(),
		Init:    ir.SymRef{Global: m.ClassObject(c)},
	})
	m.classRefID++
	m.IR.MarkUsed(g)
	m.classRefs[c] = g
	return g
}

// EmitClassMetadataRef loads the realized class object for c.
func (m *Module) EmitClassMetadataRef(b *ir.Builder, c *decl.Container) string {
	cell := m.classRefCell(c)
	return b.Load("ptr", ir.RefText(cell.Name))
}
