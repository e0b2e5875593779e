package objcgen

import (
	"vesper/internal/decl"
	"vesper/internal/ir"
)

// MethodName returns the global holding the NUL-terminated selector text,
// creating it on first use. The section is the one the runtime's loader
// scans for selector literals; the linker merges duplicates across units.
func (m *Module) MethodName(selector string) *ir.Global {
	if g, ok := m.methodNames[selector]; ok {
		return g
	}
	g := m.IR.AddGlobal(&ir.Global{
		Name:    "\x01L_selector_data(" + selector + ")",
		Linkage: ir.LinkInternal,
		Section: "__TEXT,__objc_methname,cstring_literals",
		Align:   1,
		Const:   true,
		Init:    ir.CString(selector),
	})
	m.methodNames[selector] = g
	return g
}

// SelectorRef returns the selector reference cell, creating it on first
// use. The compiler emits a load of this cell and the dynamic linker
// uniques it program-wide, so the loaded value is the canonical selector.
// The cell is kept alive even when apparently unused.
func (m *Module) SelectorRef(selector string) *ir.Global {
	if g, ok := m.selectorRefs[selector]; ok {
		return g
	}
	name := m.MethodName(selector)
	g := m.IR.AddGlobal(&ir.Global{
		Name:    "\x01L_selector(" + selector + ")",
		Linkage: ir.LinkInternal,
		Section: "__DATA,__objc_selrefs,literal_pointers,no_dead_strip",
		Align:   m.PtrSize(),
		Init:    ir.SymRef{Global: name},
	})
	m.IR.MarkUsed(g)
	m.selectorRefs[selector] = g
	return g
}

// EmitSelectorRefLoad loads the canonical selector value through its
// reference cell. Selector values are never embedded as literals.
func (m *Module) EmitSelectorRefLoad(b *ir.Builder, selector string) string {
	ref := m.SelectorRef(selector)
	return b.Load("ptr", ir.RefText(ref.Name))
}

// GetProtocolPair returns the protocol record and reference cell for a
// protocol, creating both on first use. Records land in the protocol-list
// section and references in the protocol-reference section, both weak,
// hidden and coalesced so independent link units agree on one instance.
func (m *Module) GetProtocolPair(proto *decl.Container) ProtocolPair {
	if pair, ok := m.protocols[proto]; ok {
		return pair
	}

	record := m.emitProtocolRecord(proto)

	label := m.IR.AddGlobal(&ir.Global{
		Name:       "\x01l_OBJC_LABEL_PROTOCOL_$_" + proto.Name,
		Linkage:    ir.LinkWeakAny,
		Visibility: ir.VisHidden,
		Section:    "__DATA,__objc_protolist,coalesced,no_dead_strip",
		Align:      m.PtrSize(),
		Init:       ir.SymRef{Global: record},
	})
	m.IR.MarkUsed(label)

	ref := m.IR.AddGlobal(&ir.Global{
		Name:       "\x01l_OBJC_PROTOCOL_REFERENCE_$_" + proto.Name,
		Linkage:    ir.LinkWeakAny,
		Visibility: ir.VisHidden,
		Section:    "__DATA,__objc_protorefs,coalesced,no_dead_strip",
		Align:      m.PtrSize(),
		Init:       ir.SymRef{Global: record},
	})
	m.IR.MarkUsed(ref)

	pair := ProtocolPair{Record: record, Ref: ref}
	m.protocols[proto] = pair
	return pair
}

// ProtocolRecord returns the raw protocol record. The result is not a live
// protocol handle; only the paired reference cell may be dereferenced for
// that purpose.
func (m *Module) ProtocolRecord(proto *decl.Container) *ir.Global {
	return m.GetProtocolPair(proto).Record
}

// ProtocolRef returns the protocol reference cell for proto.
func (m *Module) ProtocolRef(proto *decl.Container) *ir.Global {
	return m.GetProtocolPair(proto).Ref
}

// emitProtocolRecord emits the protocol_t-equivalent metadata blob. The
// runtime only requires the isa slot (fixed up at load time) and the name;
// the remaining slots are filled by the class-registration machinery.
func (m *Module) emitProtocolRecord(proto *decl.Container) *ir.Global {
	name := m.globalString(proto.Name)
	return m.IR.AddGlobal(&ir.Global{
		Name:       "\x01l_OBJC_PROTOCOL_$_" + proto.Name,
		Linkage:    ir.LinkWeakAny,
		Visibility: ir.VisHidden,
		Align:      m.PtrSize(),
		Init: ir.StructVal{Fields: []ir.Value{
			ir.Null{},               // isa, fixed up at load
			ir.SymRef{Global: name}, // mangled name
			ir.Null{},               // protocol list
			ir.Null{},               // instance methods
			ir.Null{},               // class methods
		}},
	})
}
