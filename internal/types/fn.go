package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Convention describes how a parameter value is passed across the ABI.
type Convention uint8

const (
	ConvUnowned Convention = iota
	ConvGuaranteed
	ConvOwned
	ConvIndirectIn
	ConvIndirectOut
	ConvIndirectInout
)

func (c Convention) String() string {
	switch c {
	case ConvUnowned:
		return "unowned"
	case ConvGuaranteed:
		return "guaranteed"
	case ConvOwned:
		return "owned"
	case ConvIndirectIn:
		return "indirect_in"
	case ConvIndirectOut:
		return "indirect_out"
	case ConvIndirectInout:
		return "indirect_inout"
	default:
		return fmt.Sprintf("Convention(%d)", c)
	}
}

// IsIndirect reports whether the convention passes the value through memory.
func (c Convention) IsIndirect() bool {
	switch c {
	case ConvIndirectIn, ConvIndirectOut, ConvIndirectInout:
		return true
	default:
		return false
	}
}

// ResultConvention describes ownership of a returned value.
type ResultConvention uint8

const (
	ResultUnowned ResultConvention = iota
	ResultOwned
	ResultAutoreleased
)

// FnRepr distinguishes function-type representations at the ABI boundary.
type FnRepr uint8

const (
	// ReprThick is an ordinary host function value (context + code pointer).
	ReprThick FnRepr = iota
	// ReprBlock is a foreign block-compatible function value.
	ReprBlock
	// ReprForeignMethod is the foreign method convention (receiver + selector).
	ReprForeignMethod
)

// Param pairs a parameter type with its passing convention.
type Param struct {
	Type TypeID
	Conv Convention
}

// FnInfo stores metadata for function types. For foreign-method signatures the
// receiver is the last parameter, mirroring the lowered calling convention.
type FnInfo struct {
	Params     []Param
	Result     TypeID
	ResultConv ResultConvention
	Repr       FnRepr
}

// RegisterFn creates or finds a function type.
func (in *Interner) RegisterFn(info FnInfo) TypeID {
	if in != nil {
		for id := TypeID(1); int(id) < len(in.types); id++ {
			tt := in.types[id]
			if tt.Kind != KindFn {
				continue
			}
			if int(tt.Payload) >= len(in.fns) {
				continue
			}
			have := in.fns[tt.Payload]
			if have.Result == info.Result && have.ResultConv == info.ResultConv &&
				have.Repr == info.Repr && slices.Equal(have.Params, info.Params) {
				return id
			}
		}
	}
	slot := in.appendFnInfo(info)
	return in.internRaw(Type{Kind: KindFn, Payload: slot})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn {
		return nil, false
	}
	if int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

func (in *Interner) appendFnInfo(info FnInfo) uint32 {
	in.fns = append(in.fns, FnInfo{
		Params:     slices.Clone(info.Params),
		Result:     info.Result,
		ResultConv: info.ResultConv,
		Repr:       info.Repr,
	})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	return slot
}
