package objcgen

import (
	"testing"

	"vesper/internal/ir"
	"vesper/internal/layout"
	"vesper/internal/types"
)

func formalFn(m *Module, args []types.TypeID, result types.TypeID) types.TypeID {
	params := make([]types.Param, 0, len(args))
	for _, a := range args {
		params = append(params, types.Param{Type: a, Conv: types.ConvUnowned})
	}
	return m.Types.RegisterFn(types.FnInfo{
		Params: params,
		Result: result,
		Repr:   types.ReprThick,
	})
}

func encodingText(t *testing.T, g *ir.Global) string {
	t.Helper()
	if g == nil {
		t.Fatalf("nil encoding global")
	}
	bytes, ok := g.Init.(ir.Bytes)
	if !ok {
		t.Fatalf("encoding init = %#v", g.Init)
	}
	return string(bytes.Data[:len(bytes.Data)-1])
}

func TestMethodTypeEncodingNullary(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	b := m.Types.Builtins()

	fn := formalFn(m, nil, b.Object)
	got := encodingText(t, m.MethodTypeEncoding(fn))
	if got != "@16@0:8" {
		t.Fatalf("encoding = %q", got)
	}
}

func TestMethodTypeEncodingArguments(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	b := m.Types.Builtins()

	tests := []struct {
		args   []types.TypeID
		result types.TypeID
		want   string
	}{
		{[]types.TypeID{b.Object, b.Float64}, b.Void, "v32@0:8@16d24"},
		{[]types.TypeID{b.Float32}, b.Void, "v20@0:8f16"},
		{[]types.TypeID{b.Int64}, b.Bool, "B24@0:8q16"},
		{[]types.TypeID{b.Bool}, b.Void, "v17@0:8B16"},
		{nil, b.Void, "v16@0:8"},
	}
	for _, tt := range tests {
		fn := formalFn(m, tt.args, tt.result)
		got := encodingText(t, m.MethodTypeEncoding(fn))
		if got != tt.want {
			t.Errorf("encoding = %q, want %q", got, tt.want)
		}
	}
}

func TestMethodTypeEncodingStructArgument(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	b := m.Types.Builtins()
	point := m.Types.RegisterStruct("CGPoint", []types.TypeID{b.Float64, b.Float64})

	fn := formalFn(m, []types.TypeID{point}, b.Void)
	got := encodingText(t, m.MethodTypeEncoding(fn))
	if got != "v32@0:8{CGPoint=dd}16" {
		t.Fatalf("encoding = %q", got)
	}
}

func TestMethodTypeEncodingUnencodable(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	b := m.Types.Builtins()
	opaque := m.Types.RegisterOpaque(1)
	thick := formalFn(m, nil, b.Void)

	// Opaque argument aborts the whole string.
	if g := m.MethodTypeEncoding(formalFn(m, []types.TypeID{opaque}, b.Void)); g != nil {
		t.Fatalf("opaque argument should yield no encoding, got %q", encodingText(t, g))
	}
	// A non-block function result has no foreign counterpart either.
	if g := m.MethodTypeEncoding(formalFn(m, nil, thick)); g != nil {
		t.Fatalf("thick function result should yield no encoding")
	}
}

func TestBlockArgumentEncoding(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	b := m.Types.Builtins()
	block := m.Types.RegisterFn(types.FnInfo{Result: b.Void, Repr: types.ReprBlock})

	fn := formalFn(m, []types.TypeID{block}, b.Void)
	got := encodingText(t, m.MethodTypeEncoding(fn))
	if got != "v24@0:8@?16" {
		t.Fatalf("encoding = %q", got)
	}
}

func TestAccessorEncodings(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	b := m.Types.Builtins()

	if got := encodingText(t, m.getterEncoding(b.Int64)); got != "q16@0:8" {
		t.Fatalf("getter encoding = %q", got)
	}
	if got := encodingText(t, m.setterEncoding(b.Int64)); got != "v24@0:8q16" {
		t.Fatalf("setter encoding = %q", got)
	}
	if got := encodingText(t, m.getterEncoding(b.Object)); got != "@16@0:8" {
		t.Fatalf("object getter encoding = %q", got)
	}

	opaque := m.Types.RegisterOpaque(2)
	if m.getterEncoding(opaque) != nil || m.setterEncoding(opaque) != nil {
		t.Fatalf("opaque element should yield no accessor encoding")
	}
}

func TestTypeEncodingSingle(t *testing.T) {
	m := newTestModule(t, layout.ARM64Darwin())
	b := m.Types.Builtins()
	if got := encodingText(t, m.TypeEncoding(b.Selector)); got != ":" {
		t.Fatalf("selector code = %q", got)
	}
	if m.TypeEncoding(m.Types.RegisterOpaque(3)) != nil {
		t.Fatalf("opaque type should yield no encoding")
	}
}
