package objcgen

import (
	"vesper/internal/ir"
	"vesper/internal/types"
)

// EmitRetain emits a foreign retain of value and returns the retained
// value.
func (m *Module) EmitRetain(b *ir.Builder, value string) string {
	fn := m.retainFn()
	return b.Call("ptr (ptr)", fn.Name, []string{"ptr " + value})
}

// EmitRelease emits a foreign release of value.
func (m *Module) EmitRelease(b *ir.Builder, value string) {
	fn := m.releaseFn()
	b.Call("void (ptr)", fn.Name, []string{"ptr " + value})
}

// EmitAutoreleaseReturnValue hands the value to the autorelease-return
// optimization. Emitted as a tail call so the runtime's return-address
// check works even without optimization.
func (m *Module) EmitAutoreleaseReturnValue(b *ir.Builder, value string) string {
	fn := m.autoreleaseReturnFn()
	return b.TailCall("ptr (ptr)", fn.Name, []string{"ptr " + value})
}

// EmitRetainAutoreleasedReturnValue reclaims an autoreleased return value.
func (m *Module) EmitRetainAutoreleasedReturnValue(b *ir.Builder, value string) string {
	fn := m.retainAutoreleasedReturnFn()
	return b.Call("ptr (ptr)", fn.Name, []string{"ptr " + value})
}

// HasObjCClassRepresentation reports whether values of the type are (or
// bridge to) foreign class instances.
func (m *Module) HasObjCClassRepresentation(t types.TypeID) bool {
	tt, ok := m.Types.Lookup(t)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindObject, types.KindClass:
		return true
	case types.KindFn:
		info, ok := m.Types.FnInfo(t)
		return ok && info.Repr == types.ReprBlock
	default:
		return false
	}
}
