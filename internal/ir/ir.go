// Package ir models the constant globals and functions the backend emits,
// with a textual LLVM IR printer. Globals keep their linkage, visibility,
// section and alignment so runtime-facing metadata renders byte-exact.
package ir

import (
	"fmt"

	"vesper/internal/layout"
)

// Linkage of an emitted global or function.
type Linkage uint8

const (
	LinkExternal Linkage = iota
	LinkInternal
	LinkWeakAny
)

func (l Linkage) String() string {
	switch l {
	case LinkExternal:
		return ""
	case LinkInternal:
		return "internal "
	case LinkWeakAny:
		return "weak "
	default:
		return fmt.Sprintf("Linkage(%d) ", l)
	}
}

// Visibility of an emitted global or function.
type Visibility uint8

const (
	VisDefault Visibility = iota
	VisHidden
)

func (v Visibility) String() string {
	switch v {
	case VisDefault:
		return ""
	case VisHidden:
		return "hidden "
	default:
		return fmt.Sprintf("Visibility(%d) ", v)
	}
}

// Global is a module-level constant or variable. External globals are
// declarations resolved by the linker; their Init is ignored.
type Global struct {
	Name        string
	Linkage     Linkage
	Visibility  Visibility
	Section     string
	Align       int
	Const       bool
	UnnamedAddr bool
	External    bool
	DeclType    string // type text for external declarations, default "ptr"
	Init        Value
}

// Func is a function declaration or definition. A nil Body renders as a
// declaration.
type Func struct {
	Name        string
	Linkage     Linkage
	UnnamedAddr bool
	RetType     string
	Params      []string // typed parameter list, e.g. "ptr %self"
	Variadic    bool
	Attrs       string // trailing attribute text, e.g. "nounwind"
	Body        []string
}

// SigText renders the function-pointer signature, e.g. "void (ptr, ptr, ...)".
func (f *Func) SigText() string {
	params := ""
	for i, p := range f.Params {
		if i > 0 {
			params += ", "
		}
		params += paramType(p)
	}
	if f.Variadic {
		if params != "" {
			params += ", "
		}
		params += "..."
	}
	return fmt.Sprintf("%s (%s)", f.RetType, params)
}

// paramType strips the value name off a typed parameter.
func paramType(p string) string {
	for i := 0; i < len(p); i++ {
		if p[i] == ' ' {
			return p[:i]
		}
	}
	return p
}

// Module owns every artifact emitted for one compilation module.
type Module struct {
	Name   string
	Target layout.Target

	Globals []*Global
	Funcs   []*Func

	used          []*Global
	typeDefs      []string
	typeDefIndex  map[string]bool
	globalsByName map[string]*Global
	funcsByName   map[string]*Func
}

// NewModule creates an empty module for the given target.
func NewModule(name string, target layout.Target) *Module {
	return &Module{
		Name:          name,
		Target:        target,
		typeDefIndex:  make(map[string]bool, 8),
		globalsByName: make(map[string]*Global, 64),
		funcsByName:   make(map[string]*Func, 64),
	}
}

// AddGlobal registers a global. Duplicate names are a caller bug: symbol
// uniquing happens in the caches layered above this package.
func (m *Module) AddGlobal(g *Global) *Global {
	if _, ok := m.globalsByName[g.Name]; ok {
		panic(fmt.Sprintf("ir: duplicate global %q", g.Name))
	}
	m.Globals = append(m.Globals, g)
	m.globalsByName[g.Name] = g
	return g
}

// GlobalByName returns a previously added global.
func (m *Module) GlobalByName(name string) (*Global, bool) {
	g, ok := m.globalsByName[name]
	return g, ok
}

// DeclareFunc returns the declaration for an external function, creating it
// on first use. Idempotent per name.
func (m *Module) DeclareFunc(name, ret string, params []string, variadic bool) *Func {
	if f, ok := m.funcsByName[name]; ok {
		return f
	}
	f := &Func{
		Name:     name,
		RetType:  ret,
		Params:   params,
		Variadic: variadic,
		Attrs:    "nounwind",
	}
	m.Funcs = append(m.Funcs, f)
	m.funcsByName[name] = f
	return f
}

// AddFunc registers a function definition.
func (m *Module) AddFunc(f *Func) *Func {
	if _, ok := m.funcsByName[f.Name]; ok {
		panic(fmt.Sprintf("ir: duplicate function %q", f.Name))
	}
	m.Funcs = append(m.Funcs, f)
	m.funcsByName[f.Name] = f
	return f
}

// FuncByName returns a previously added function.
func (m *Module) FuncByName(name string) (*Func, bool) {
	f, ok := m.funcsByName[name]
	return f, ok
}

// MarkUsed keeps the global alive through @llvm.used so the linker cannot
// strip it even when nothing in the module references it.
func (m *Module) MarkUsed(g *Global) {
	for _, u := range m.used {
		if u == g {
			return
		}
	}
	m.used = append(m.used, g)
}

// Used returns the no-dead-strip global list in registration order.
func (m *Module) Used() []*Global {
	return m.used
}

// DefineNamedType registers a named struct type, e.g.
// ("%struct._objc_super", "{ ptr, ptr }"). Idempotent per name.
func (m *Module) DefineNamedType(name, body string) {
	if m.typeDefIndex[name] {
		return
	}
	m.typeDefIndex[name] = true
	m.typeDefs = append(m.typeDefs, fmt.Sprintf("%s = type %s", name, body))
}
