package objcgen

import (
	"fmt"
	"strings"

	"vesper/internal/decl"
	"vesper/internal/ir"
	"vesper/internal/types"
)

// MessageKind selects the dispatch strategy for a message send.
type MessageKind uint8

const (
	// MessageNormal starts the method search at the receiver's dynamic class.
	MessageNormal MessageKind = iota
	// MessagePeer starts the search at an explicitly given class.
	MessagePeer
	// MessageSuper starts the search above the current class.
	MessageSuper
)

func (k MessageKind) String() string {
	switch k {
	case MessageNormal:
		return "normal"
	case MessagePeer:
		return "peer"
	case MessageSuper:
		return "super"
	default:
		return fmt.Sprintf("MessageKind(%d)", k)
	}
}

// Callee is a ready-to-invoke dispatch descriptor: the messenger entry
// point plus the signature the call site must use.
type Callee struct {
	Messenger *ir.Func
	Sig       string
	Kind      MessageKind
	RetType   string

	indirectResult     bool
	indirectResultType string
}

// HasIndirectResult reports whether the result is returned through a
// caller-allocated slot.
func (c Callee) HasIndirectResult() bool {
	return c.indirectResult
}

// IndirectResultType returns the type of the caller-allocated result slot.
// Asking when the signature has none is a caller contract violation.
func (c Callee) IndirectResultType() string {
	if !c.indirectResult {
		panic("objcgen: signature has no indirect result")
	}
	return c.indirectResultType
}

// PrepareMessageSend builds the callee descriptor for dispatching the
// referenced method, without applying the receiver and selector arguments.
// The messenger selection table is fixed by the foreign runtime's ABI.
func (m *Module) PrepareMessageSend(ref decl.Ref, origType types.TypeID, kind MessageKind) Callee {
	switch ref.Kind {
	case decl.RefFunc, decl.RefInitializer, decl.RefDestroyer, decl.RefDeallocator:
	default:
		panic(fmt.Sprintf("objcgen: message send to %v reference", ref.Kind))
	}
	info, ok := m.Types.FnInfo(origType)
	if !ok {
		panic(fmt.Sprintf("objcgen: message send with non-function type#%d", origType))
	}

	indirect := m.requiresIndirectResult(info.Result)

	var messenger *ir.Func
	if indirect && m.IR.Target.ObjCUseStret {
		switch kind {
		case MessageNormal:
			messenger = m.msgSendStretFn()
		case MessagePeer:
			messenger = m.msgSendSuperStretFn()
		case MessageSuper:
			messenger = m.msgSendSuper2StretFn()
		}
	} else {
		switch kind {
		case MessageNormal:
			messenger = m.msgSendFn()
		case MessagePeer:
			messenger = m.msgSendSuperFn()
		case MessageSuper:
			messenger = m.msgSendSuper2Fn()
		}
	}

	retTy := m.llvmType(info.Result)
	callee := Callee{
		Messenger: messenger,
		Kind:      kind,
		RetType:   retTy,
	}

	// The receiver slot (or the slot after the sret pointer) carries the
	// super-dispatch record for non-normal kinds; with opaque pointers the
	// rewritten slot still renders as ptr.
	params := []string{"ptr", "ptr"}
	if indirect {
		callee.indirectResult = true
		callee.indirectResultType = retTy
		params = append([]string{"ptr"}, params...)
		retTy = "void"
	}
	for _, p := range formalParams(info) {
		params = append(params, m.llvmType(p.Type))
	}
	callee.Sig = fmt.Sprintf("%s (%s)", retTy, strings.Join(params, ", "))
	return callee
}

// formalParams drops the trailing receiver parameter of a lowered
// foreign-method signature.
func formalParams(info *types.FnInfo) []types.Param {
	if info.Repr == types.ReprForeignMethod && len(info.Params) > 0 {
		return info.Params[:len(info.Params)-1]
	}
	return info.Params
}

// requiresIndirectResult applies the target's convention for results that
// do not fit the return registers.
func (m *Module) requiresIndirectResult(result types.TypeID) bool {
	tt, ok := m.Types.Lookup(result)
	if !ok || tt.Kind != types.KindStruct {
		return false
	}
	l, err := m.Layout.LayoutOf(result)
	if err != nil {
		return false
	}
	return l.Size > 2*m.PtrSize()
}

// AddImplicitArguments appends the receiver (or super-dispatch record) and
// the selector to args. The selector is always loaded through its
// reference cell. Ownership of the receiver is whatever the caller already
// holds; no retain or release is inserted here.
func (m *Module) AddImplicitArguments(b *ir.Builder, args *[]string, ref decl.Ref, self string, searchClass *decl.Container) {
	if searchClass != nil {
		super := m.emitSuperArgument(b, ref.IsInstanceDispatch(), self, searchClass)
		*args = append(*args, "ptr "+super)
	} else {
		*args = append(*args, "ptr "+self)
	}
	sel := m.EmitSelectorRefLoad(b, SelectorForRef(ref).String())
	*args = append(*args, "ptr "+sel)
}

// emitSuperArgument materializes the transient two-field super-dispatch
// record: the receiver and the class to begin the method search from.
func (m *Module) emitSuperArgument(b *ir.Builder, isInstanceMethod bool, self string, searchClass *decl.Container) string {
	m.IR.DefineNamedType("%struct._objc_super", "{ ptr, ptr }")
	super := b.Alloca("%struct._objc_super", m.IR.Target.PtrAlign, "objc_super")

	selfAddr := b.GEP("%struct._objc_super", super, 0)
	b.Store("ptr", self, selfAddr)

	var searchValue string
	if isInstanceMethod {
		searchValue = m.EmitClassMetadataRef(b, searchClass)
	} else {
		searchValue = ir.RefText(m.MetaclassObject(searchClass).Name)
	}
	searchAddr := b.GEP("%struct._objc_super", super, 1)
	b.Store("ptr", searchValue, searchAddr)

	return super
}

// EmitAllocObjectCall sends [self allocWithZone: nil] and returns the
// freshly allocated, owned instance.
func (m *Module) EmitAllocObjectCall(b *ir.Builder, self string) string {
	messenger := m.msgSendFn()
	sel := m.EmitSelectorRefLoad(b, "allocWithZone:")
	args := []string{"ptr " + self, "ptr " + sel, "ptr null"}
	return b.Call("ptr (ptr, ptr, ptr)", messenger.Name, args)
}
