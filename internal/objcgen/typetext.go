package objcgen

import (
	"fmt"
	"strings"

	"vesper/internal/types"
)

// llvmType renders the LLVM type for an interned type.
func (m *Module) llvmType(t types.TypeID) string {
	tt, ok := m.Types.Lookup(t)
	if !ok {
		panic(fmt.Sprintf("objcgen: no descriptor for type#%d", t))
	}
	switch tt.Kind {
	case types.KindVoid:
		return "void"
	case types.KindBool:
		return "i1"
	case types.KindInt, types.KindUint:
		n := int(tt.Width)
		if n == 0 {
			n = m.PtrSize() * 8
		}
		return fmt.Sprintf("i%d", n)
	case types.KindFloat:
		if tt.Width == types.Width32 {
			return "float"
		}
		return "double"
	case types.KindCString, types.KindObject, types.KindClass,
		types.KindSelector, types.KindRawPointer, types.KindMetatype:
		return "ptr"
	case types.KindFn:
		info, ok := m.Types.FnInfo(t)
		if ok && info.Repr == types.ReprThick {
			return "{ ptr, ptr }"
		}
		return "ptr"
	case types.KindStruct:
		info, ok := m.Types.StructInfo(t)
		if !ok {
			panic(fmt.Sprintf("objcgen: no struct info for type#%d", t))
		}
		parts := make([]string, 0, len(info.Fields))
		for _, f := range info.Fields {
			parts = append(parts, m.llvmType(f))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		panic(fmt.Sprintf("objcgen: type %v cannot cross the foreign boundary", tt.Kind))
	}
}
