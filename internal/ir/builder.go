package ir

import (
	"fmt"
	"strings"
)

// Builder appends formatted instructions to one function body, handing out
// sequential temporaries the way the backend emitter numbers them.
type Builder struct {
	Mod *Module
	Fn  *Func

	tmpID  int
	locals map[string]int
}

// NewBuilder starts building the body of fn inside m.
func NewBuilder(m *Module, fn *Func) *Builder {
	if fn.Body == nil {
		fn.Body = []string{}
	}
	return &Builder{Mod: m, Fn: fn}
}

// NextTemp reserves the next SSA temporary name.
func (b *Builder) NextTemp() string {
	t := fmt.Sprintf("%%t%d", b.tmpID)
	b.tmpID++
	return t
}

func (b *Builder) emitf(format string, args ...any) {
	b.Fn.Body = append(b.Fn.Body, fmt.Sprintf(format, args...))
}

// Alloca reserves stack space of the given type. Repeated names within one
// function get a numeric suffix.
func (b *Builder) Alloca(ty string, align int, name string) string {
	if b.locals == nil {
		b.locals = make(map[string]int, 4)
	}
	v := "%" + name
	if n := b.locals[name]; n > 0 {
		v = fmt.Sprintf("%%%s%d", name, n)
	}
	b.locals[name]++
	b.emitf("%s = alloca %s, align %d", v, ty, align)
	return v
}

// Load reads a value of the given type through ptr.
func (b *Builder) Load(ty, ptr string) string {
	t := b.NextTemp()
	b.emitf("%s = load %s, ptr %s", t, ty, ptr)
	return t
}

// Store writes val (of type ty) through ptr.
func (b *Builder) Store(ty, val, ptr string) {
	b.emitf("store %s %s, ptr %s", ty, val, ptr)
}

// GEP computes the address of a field inside a named aggregate.
func (b *Builder) GEP(aggTy, ptr string, field int) string {
	t := b.NextTemp()
	b.emitf("%s = getelementptr inbounds %s, ptr %s, i32 0, i32 %d", t, aggTy, ptr, field)
	return t
}

// GEPByte computes ptr + offset bytes.
func (b *Builder) GEPByte(ptr string, offset int) string {
	t := b.NextTemp()
	b.emitf("%s = getelementptr inbounds i8, ptr %s, i64 %d", t, ptr, offset)
	return t
}

// Call emits a direct call through the given signature text. Returns the
// result temporary, or "" for void calls.
func (b *Builder) Call(sig, callee string, args []string) string {
	stmt := fmt.Sprintf("call %s %s(%s)", sig, RefText(callee), strings.Join(args, ", "))
	if strings.HasPrefix(sig, "void") {
		b.emitf("%s", stmt)
		return ""
	}
	t := b.NextTemp()
	b.emitf("%s = %s", t, stmt)
	return t
}

// TailCall emits a direct tail call. Returns the result temporary, or ""
// for void calls.
func (b *Builder) TailCall(sig, callee string, args []string) string {
	stmt := fmt.Sprintf("tail call %s %s(%s)", sig, RefText(callee), strings.Join(args, ", "))
	if strings.HasPrefix(sig, "void") {
		b.emitf("%s", stmt)
		return ""
	}
	t := b.NextTemp()
	b.emitf("%s = %s", t, stmt)
	return t
}

// Ret emits a typed return.
func (b *Builder) Ret(ty, val string) {
	b.emitf("ret %s %s", ty, val)
}

// RetVoid emits a void return.
func (b *Builder) RetVoid() {
	b.emitf("ret void")
}
