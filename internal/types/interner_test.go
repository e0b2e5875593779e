package types

import "testing"

func TestBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	if b.Void == NoTypeID || b.Object == NoTypeID {
		t.Fatalf("builtins not seeded")
	}
	tt := in.MustLookup(b.Int32)
	if tt.Kind != KindInt || tt.Width != Width32 {
		t.Fatalf("int32 descriptor = %+v", tt)
	}
	if in.Intern(MakeInt(Width32)) != b.Int32 {
		t.Fatalf("re-interning a builtin minted a new id")
	}
}

func TestInternDedup(t *testing.T) {
	in := NewInterner()
	a := in.Intern(MakeMetatype(in.Builtins().Object))
	b := in.Intern(MakeMetatype(in.Builtins().Object))
	if a != b {
		t.Fatalf("structurally equal descriptors got distinct ids")
	}
	c := in.Intern(MakeMetatype(in.Builtins().Class))
	if c == a {
		t.Fatalf("distinct descriptors share an id")
	}
}

func TestInternInvalid(t *testing.T) {
	in := NewInterner()
	if in.Intern(Type{Kind: KindInvalid}) != NoTypeID {
		t.Fatalf("invalid descriptor must map to NoTypeID")
	}
	if _, ok := in.Lookup(NoTypeID); ok {
		t.Fatalf("NoTypeID must not resolve")
	}
	if _, ok := in.Lookup(TypeID(9999)); ok {
		t.Fatalf("out-of-range id must not resolve")
	}
}

func TestRegisterFnDedup(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	info := FnInfo{
		Params: []Param{{Type: b.Float64, Conv: ConvUnowned}},
		Result: b.Object,
		Repr:   ReprForeignMethod,
	}
	a := in.RegisterFn(info)
	if in.RegisterFn(info) != a {
		t.Fatalf("equal signatures got distinct ids")
	}
	other := info
	other.Repr = ReprThick
	if in.RegisterFn(other) == a {
		t.Fatalf("representation must distinguish signatures")
	}

	got, ok := in.FnInfo(a)
	if !ok || got.Result != b.Object || len(got.Params) != 1 {
		t.Fatalf("FnInfo = %+v ok=%v", got, ok)
	}
	if _, ok := in.FnInfo(b.Int64); ok {
		t.Fatalf("non-function id must have no FnInfo")
	}
}

func TestRegisterFnClonesParams(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	params := []Param{{Type: b.Int64, Conv: ConvUnowned}}
	id := in.RegisterFn(FnInfo{Params: params, Result: b.Void})
	params[0].Type = b.Object

	got, _ := in.FnInfo(id)
	if got.Params[0].Type != b.Int64 {
		t.Fatalf("stored params alias the caller's slice")
	}
}

func TestRegisterStruct(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	fields := []TypeID{b.Float64, b.Float64}
	a := in.RegisterStruct("CGPoint", fields)
	if in.RegisterStruct("CGPoint", fields) != a {
		t.Fatalf("equal structs got distinct ids")
	}
	if in.RegisterStruct("CGSize", fields) == a {
		t.Fatalf("struct name must distinguish types")
	}
	info, ok := in.StructInfo(a)
	if !ok || info.Name != "CGPoint" || len(info.Fields) != 2 {
		t.Fatalf("StructInfo = %+v ok=%v", info, ok)
	}
}

func TestRegisterOpaque(t *testing.T) {
	in := NewInterner()
	a := in.RegisterOpaque(1)
	if in.RegisterOpaque(1) != a {
		t.Fatalf("same tag minted distinct ids")
	}
	if in.RegisterOpaque(2) == a {
		t.Fatalf("distinct tags share an id")
	}
	if in.MustLookup(a).Kind != KindOpaque {
		t.Fatalf("opaque kind lost")
	}
}

func TestConventionPredicates(t *testing.T) {
	if ConvOwned.IsIndirect() || ConvGuaranteed.IsIndirect() || ConvUnowned.IsIndirect() {
		t.Fatalf("value conventions are not indirect")
	}
	if !ConvIndirectIn.IsIndirect() || !ConvIndirectOut.IsIndirect() || !ConvIndirectInout.IsIndirect() {
		t.Fatalf("indirect conventions misclassified")
	}
}
