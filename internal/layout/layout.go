package layout

import (
	"vesper/internal/types"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Struct-only:
	FieldOffsets []int
	FieldAligns  []int
}

// Engine computes memory layout for types.
type Engine struct {
	Target Target
	Types  *types.Interner

	cache *cache
}

// New creates a new Engine for the specified target.
func New(target Target, typesIn *types.Interner) *Engine {
	return &Engine{
		Target: target,
		Types:  typesIn,
		cache:  newCache(),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *Engine) LayoutOf(t types.TypeID) (TypeLayout, error) {
	if e == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	if e.cache == nil {
		e.cache = newCache()
	}
	if cached, ok := e.cache.get(t); ok {
		return cached, nil
	}
	l, err := e.layoutOf(t)
	if err != nil {
		return TypeLayout{}, err
	}
	e.cache.put(t, &l)
	return l, nil
}

func (e *Engine) layoutOf(t types.TypeID) (TypeLayout, error) {
	tt, ok := e.Types.Lookup(t)
	if !ok {
		return TypeLayout{}, &Error{Kind: ErrUnknownType, Type: t}
	}
	ptr := TypeLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}
	switch tt.Kind {
	case types.KindVoid:
		return TypeLayout{Size: 0, Align: 1}, nil
	case types.KindBool:
		return TypeLayout{Size: 1, Align: 1}, nil
	case types.KindInt, types.KindUint, types.KindFloat:
		n := int(tt.Width) / 8
		if n == 0 {
			n = e.Target.PtrSize
		}
		return TypeLayout{Size: n, Align: n}, nil
	case types.KindCString, types.KindObject, types.KindClass,
		types.KindSelector, types.KindRawPointer, types.KindMetatype:
		return ptr, nil
	case types.KindFn:
		info, ok := e.Types.FnInfo(t)
		if !ok {
			return TypeLayout{}, &Error{Kind: ErrUnknownType, Type: t}
		}
		if info.Repr == types.ReprThick {
			// context + code pointer
			return TypeLayout{Size: 2 * e.Target.PtrSize, Align: e.Target.PtrAlign}, nil
		}
		return ptr, nil
	case types.KindStruct:
		return e.layoutOfStruct(t)
	case types.KindOpaque:
		return TypeLayout{}, &Error{Kind: ErrUnsized, Type: t}
	default:
		return TypeLayout{}, &Error{Kind: ErrUnknownType, Type: t}
	}
}

func (e *Engine) layoutOfStruct(t types.TypeID) (TypeLayout, error) {
	info, ok := e.Types.StructInfo(t)
	if !ok {
		return TypeLayout{}, &Error{Kind: ErrUnknownType, Type: t}
	}
	l := TypeLayout{Align: 1}
	offset := 0
	for _, f := range info.Fields {
		fl, err := e.LayoutOf(f)
		if err != nil {
			return TypeLayout{}, err
		}
		offset = alignTo(offset, fl.Align)
		l.FieldOffsets = append(l.FieldOffsets, offset)
		l.FieldAligns = append(l.FieldAligns, fl.Align)
		offset += fl.Size
		if fl.Align > l.Align {
			l.Align = fl.Align
		}
	}
	l.Size = alignTo(offset, l.Align)
	return l, nil
}

func alignTo(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
