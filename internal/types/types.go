package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindInt
	KindUint
	KindFloat
	KindCString
	KindObject
	KindClass
	KindSelector
	KindRawPointer
	KindMetatype
	KindStruct
	KindFn
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindCString:
		return "cstring"
	case KindObject:
		return "object"
	case KindClass:
		return "class"
	case KindSelector:
		return "selector"
	case KindRawPointer:
		return "rawpointer"
	case KindMetatype:
		return "metatype"
	case KindStruct:
		return "struct"
	case KindFn:
		return "fn"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // instance type for metatypes
	Width   Width  // for numeric primitives
	Payload uint32 // slot into kind-specific side tables
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeMetatype describes the type of a class object for the given instance type.
func MakeMetatype(instance TypeID) Type {
	return Type{Kind: KindMetatype, Elem: instance}
}
