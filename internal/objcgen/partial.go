package objcgen

import (
	"fmt"

	"vesper/internal/decl"
	"vesper/internal/ir"
	"vesper/internal/layout"
	"vesper/internal/types"
)

// EmitPartialApplication binds a receiver to a foreign method ahead of
// time: it boxes the receiver on the heap and synthesizes a forwarding
// stub that performs the dispatch, yielding a (code pointer, context)
// pair usable wherever the host language expects a function value.
//
// The box owns exactly one reference to the receiver: taken by retain when
// the method's receiver convention is owned or guaranteed, transferred
// as-is when it is unowned, and released exactly once when the forwarder
// completes.
func (m *Module) EmitPartialApplication(b *ir.Builder, ref decl.Ref, origType types.TypeID, self string, selfType types.TypeID) (*ir.Func, string) {
	info, ok := m.Types.FnInfo(origType)
	if !ok {
		panic(fmt.Sprintf("objcgen: partial application of non-function type#%d", origType))
	}
	retainsSelf := receiverIsRetained(info)

	hl, err := layout.NewHeapLayout(m.Layout, []types.TypeID{selfType})
	if err != nil {
		panic(fmt.Sprintf("objcgen: receiver has no layout: %v", err))
	}

	alloc := m.allocBoxFn()
	data := b.Call("ptr (ptr, i64, i64)", alloc.Name, []string{
		"ptr null",
		fmt.Sprintf("i64 %d", hl.Size),
		fmt.Sprintf("i64 %d", hl.Align-1),
	})

	captured := self
	if retainsSelf {
		captured = m.EmitRetain(b, self)
	}
	fieldAddr := b.GEPByte(data, hl.FieldOffsets[0])
	b.Store("ptr", captured, fieldAddr)

	fwd := m.emitPartialApplicationForwarder(ref, origType, hl, retainsSelf)
	return fwd, data
}

// receiverIsRetained maps the receiver parameter convention onto the
// capture policy. Only the three value-passing modes are legal here.
func receiverIsRetained(info *types.FnInfo) bool {
	if len(info.Params) == 0 {
		panic("objcgen: foreign method signature without receiver")
	}
	conv := info.Params[len(info.Params)-1].Conv
	switch conv {
	case types.ConvUnowned:
		return false
	case types.ConvGuaranteed, types.ConvOwned:
		return true
	default:
		panic(fmt.Sprintf("objcgen: receiver passed %v", conv))
	}
}

// emitPartialApplicationForwarder builds the stub the closure's code
// pointer refers to: the bound method's residual signature plus the
// trailing context parameter.
func (m *Module) emitPartialApplicationForwarder(ref decl.Ref, origType types.TypeID, hl layout.HeapLayout, retainsSelf bool) *ir.Func {
	info, _ := m.Types.FnInfo(origType)
	residual := formalParams(info)
	indirect := m.requiresIndirectResult(info.Result)
	retTy := m.llvmType(info.Result)

	var params []string
	if indirect {
		params = append(params, "ptr %indirectresult")
	}
	for i, p := range residual {
		params = append(params, fmt.Sprintf("%s %%a%d", m.llvmType(p.Type), i))
	}
	params = append(params, "ptr %context")

	fwdRet := retTy
	if indirect || retTy == "void" {
		fwdRet = "void"
	}
	fwd := &ir.Func{
		Name:    fmt.Sprintf("_vTPAo%d", m.partialApplyID),
		Linkage: ir.LinkInternal,
		RetType: fwdRet,
		Params:  params,
		Attrs:   "nounwind",
	}
	m.partialApplyID++
	m.IR.AddFunc(fwd)

	b := ir.NewBuilder(m.IR, fwd)

	// Recover the receiver from the context: a copy when the convention
	// required retaining at capture, a take otherwise.
	selfAddr := b.GEPByte("%context", hl.FieldOffsets[0])
	self := b.Load("ptr", selfAddr)
	if retainsSelf {
		self = m.EmitRetain(b, self)
	}

	callee := m.PrepareMessageSend(ref, origType, MessageNormal)

	var args []string
	if indirect {
		args = append(args, "ptr %indirectresult")
	}
	m.AddImplicitArguments(b, &args, ref, self, nil)
	for i, p := range residual {
		args = append(args, fmt.Sprintf("%s %%a%d", m.llvmType(p.Type), i))
	}

	result := b.Call(callee.Sig, callee.Messenger.Name, args)

	// The context's reference to the receiver dies here, on every exit path.
	release := m.releaseBoxFn()
	b.Call("void (ptr)", release.Name, []string{"ptr %context"})
	if fwdRet == "void" {
		b.RetVoid()
	} else {
		b.Ret(retTy, result)
	}
	return fwd
}
