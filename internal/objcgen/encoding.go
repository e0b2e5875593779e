package objcgen

import (
	"strconv"
	"strings"

	"vesper/internal/ir"
	"vesper/internal/types"
)

// encodeMethodSignature builds the foreign type-encoding string for a
// callable signature: return code, total frame size, the fixed receiver and
// selector codes at offsets 0 and ptrSize, then each argument's code with
// its cumulative byte offset. Returns false when any element has no
// foreign encoding; no partial string is ever produced.
//
// One routine covers every arity: the single-argument case is simply the
// length-1 argument list.
func (m *Module) encodeMethodSignature(fnType types.TypeID) (string, bool) {
	info, ok := m.Types.FnInfo(fnType)
	if !ok {
		return "", false
	}
	retCode, ok := m.Encoder.Code(info.Result)
	if !ok {
		return "", false
	}

	ptrSize := m.PtrSize()
	args := formalParams(info)

	// First pass: the total frame size, printed right after the return code.
	// The receiver and selector account for the leading 2*ptrSize.
	total := 2 * ptrSize
	sizes := make([]int, len(args))
	for i, arg := range args {
		sz, ok := m.Encoder.Size(arg.Type)
		if !ok {
			return "", false
		}
		sizes[i] = sz
		total += sz
	}

	var sb strings.Builder
	sb.WriteString(retCode)
	sb.WriteString(strconv.Itoa(total))
	sb.WriteString("@0:")
	sb.WriteString(strconv.Itoa(ptrSize))

	// Second pass: per-argument code and cumulative offset.
	offset := 2 * ptrSize
	for i, arg := range args {
		code, ok := m.Encoder.Code(arg.Type)
		if !ok {
			return "", false
		}
		sb.WriteString(code)
		sb.WriteString(strconv.Itoa(offset))
		offset += sizes[i]
	}
	return sb.String(), true
}

// MethodTypeEncoding returns the emitted encoding string for a callable
// signature, or nil when the signature cannot be encoded.
func (m *Module) MethodTypeEncoding(fnType types.TypeID) *ir.Global {
	s, ok := m.encodeMethodSignature(fnType)
	if !ok {
		return nil
	}
	return m.globalString(s)
}

// TypeEncoding returns the emitted encoding of a single type, or nil when
// the type has no foreign encoding.
func (m *Module) TypeEncoding(t types.TypeID) *ir.Global {
	code, ok := m.Encoder.Code(t)
	if !ok {
		return nil
	}
	return m.globalString(code)
}

// getterEncoding encodes a nullary accessor returning elem: the element
// code, the receiver+selector frame size, then the fixed @0:P suffix.
func (m *Module) getterEncoding(elem types.TypeID) *ir.Global {
	code, ok := m.Encoder.Code(elem)
	if !ok {
		return nil
	}
	ptrSize := m.PtrSize()
	s := code + strconv.Itoa(2*ptrSize) + "@0:" + strconv.Itoa(ptrSize)
	return m.globalString(s)
}

// setterEncoding encodes a unary void accessor taking elem.
func (m *Module) setterEncoding(elem types.TypeID) *ir.Global {
	code, ok := m.Encoder.Code(elem)
	if !ok {
		return nil
	}
	sz, ok := m.Encoder.Size(elem)
	if !ok {
		return nil
	}
	ptrSize := m.PtrSize()
	s := "v" + strconv.Itoa(2*ptrSize+sz) + "@0:" + strconv.Itoa(ptrSize) +
		code + strconv.Itoa(2*ptrSize)
	return m.globalString(s)
}
