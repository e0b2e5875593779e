// Package encoding maps interned types onto the foreign runtime's
// type-encoding codes. Per-signature synthesis (offsets, frame size) lives
// in the objcgen package; this package only answers per-type questions.
package encoding

import (
	"strings"

	"vesper/internal/layout"
	"vesper/internal/types"
)

// Encoder produces foreign type-encoding codes and encoded sizes.
type Encoder struct {
	Types  *types.Interner
	Layout *layout.Engine
}

// NewEncoder creates an encoder over the given interner and layout engine.
func NewEncoder(typesIn *types.Interner, engine *layout.Engine) *Encoder {
	return &Encoder{Types: typesIn, Layout: engine}
}

// Code returns the encoding code for a type, or false when the type has no
// foreign counterpart.
func (e *Encoder) Code(t types.TypeID) (string, bool) {
	tt, ok := e.Types.Lookup(t)
	if !ok {
		return "", false
	}
	switch tt.Kind {
	case types.KindVoid:
		return "v", true
	case types.KindBool:
		return "B", true
	case types.KindInt:
		return intCode(tt.Width, e.Layout.Target.PtrSize, false)
	case types.KindUint:
		return intCode(tt.Width, e.Layout.Target.PtrSize, true)
	case types.KindFloat:
		if tt.Width == types.Width32 {
			return "f", true
		}
		return "d", true
	case types.KindCString:
		return "*", true
	case types.KindObject:
		return "@", true
	case types.KindClass, types.KindMetatype:
		return "#", true
	case types.KindSelector:
		return ":", true
	case types.KindRawPointer:
		return "^v", true
	case types.KindStruct:
		return e.structCode(t)
	case types.KindFn:
		info, ok := e.Types.FnInfo(t)
		if !ok {
			return "", false
		}
		// Only block-representation function values cross the boundary.
		if info.Repr == types.ReprBlock {
			return "@?", true
		}
		return "", false
	default:
		return "", false
	}
}

// Size returns the encoded size of a type in bytes, or false when the type
// has no foreign counterpart.
func (e *Encoder) Size(t types.TypeID) (int, bool) {
	if _, ok := e.Code(t); !ok {
		return 0, false
	}
	l, err := e.Layout.LayoutOf(t)
	if err != nil {
		return 0, false
	}
	return l.Size, true
}

func (e *Encoder) structCode(t types.TypeID) (string, bool) {
	info, ok := e.Types.StructInfo(t)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(info.Name)
	sb.WriteString("=")
	for _, f := range info.Fields {
		code, ok := e.Code(f)
		if !ok {
			return "", false
		}
		sb.WriteString(code)
	}
	sb.WriteString("}")
	return sb.String(), true
}

func intCode(w types.Width, ptrSize int, unsigned bool) (string, bool) {
	n := int(w) / 8
	if n == 0 {
		n = ptrSize
	}
	var c string
	switch n {
	case 1:
		c = "c"
	case 2:
		c = "s"
	case 4:
		c = "i"
	case 8:
		c = "q"
	default:
		return "", false
	}
	if unsigned {
		c = strings.ToUpper(c)
	}
	return c, true
}
