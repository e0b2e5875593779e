package layout

import "vesper/internal/types"

// HeapLayout is the layout of a runtime-allocated box: a two-word object
// header (metadata pointer + reference count) followed by the captured
// fields in declaration order.
type HeapLayout struct {
	Size         int
	Align        int
	FieldOffsets []int
	FieldTypes   []types.TypeID
}

// NewHeapLayout computes the box layout for the given captured field types.
func NewHeapLayout(e *Engine, fields []types.TypeID) (HeapLayout, error) {
	header := 2 * e.Target.PtrSize
	l := HeapLayout{
		Align:      e.Target.PtrAlign,
		FieldTypes: fields,
	}
	offset := header
	for _, f := range fields {
		fl, err := e.LayoutOf(f)
		if err != nil {
			return HeapLayout{}, err
		}
		offset = alignTo(offset, fl.Align)
		l.FieldOffsets = append(l.FieldOffsets, offset)
		offset += fl.Size
		if fl.Align > l.Align {
			l.Align = fl.Align
		}
	}
	l.Size = alignTo(offset, l.Align)
	return l, nil
}
