package ir

import (
	"strings"
	"testing"

	"vesper/internal/layout"
)

func TestCStringEscaping(t *testing.T) {
	v := CString("frobWithSpeed:")
	if v.TypeText() != "[15 x i8]" {
		t.Fatalf("type = %q", v.TypeText())
	}
	if v.InitText() != `c"frobWithSpeed:\00"` {
		t.Fatalf("init = %q", v.InitText())
	}
	odd := Bytes{Data: []byte{0x01, '"', '\\', 'a', 0}}
	if odd.InitText() != `c"\01\22\5Ca\00"` {
		t.Fatalf("init = %q", odd.InitText())
	}
}

func TestRefTextQuoting(t *testing.T) {
	if RefText("objc_msgSend") != "@objc_msgSend" {
		t.Fatalf("plain name quoted")
	}
	if RefText("OBJC_CLASS_$_Foo") != "@OBJC_CLASS_$_Foo" {
		t.Fatalf("dollar names need no quoting")
	}
	if got := RefText("\x01L_selector(foo:)"); got != `@"\01L_selector(foo:)"` {
		t.Fatalf("quoted ref = %q", got)
	}
}

func TestIntValue(t *testing.T) {
	v := Int{Ty: "i32", V: 24}
	if v.TypeText() != "i32" || v.InitText() != "i32 24" {
		t.Fatalf("int value = %q %q", v.TypeText(), v.InitText())
	}
}

func TestStructValRendering(t *testing.T) {
	g := &Global{Name: "name"}
	sv := StructVal{Fields: []Value{Null{}, SymRef{Global: g}, Null{}}}
	if sv.TypeText() != "{ ptr, ptr, ptr }" {
		t.Fatalf("type = %q", sv.TypeText())
	}
	if sv.InitText() != "{ ptr null, ptr @name, ptr null }" {
		t.Fatalf("init = %q", sv.InitText())
	}
}

func TestPrintModule(t *testing.T) {
	m := NewModule("demo", layout.ARM64Darwin())
	m.DefineNamedType("%struct._objc_super", "{ ptr, ptr }")

	data := m.AddGlobal(&Global{
		Name:        "\x01L_selector_data(frob)",
		Linkage:     LinkInternal,
		Section:     "__TEXT,__objc_methname,cstring_literals",
		Align:       1,
		Const:       true,
		UnnamedAddr: true,
		Init:        CString("frob"),
	})
	ref := m.AddGlobal(&Global{
		Name:    "\x01L_selector(frob)",
		Linkage: LinkInternal,
		Section: "__DATA,__objc_selrefs,literal_pointers,no_dead_strip",
		Align:   8,
		Init:    SymRef{Global: data},
	})
	m.MarkUsed(ref)
	m.AddGlobal(&Global{
		Name:     "OBJC_CLASS_$_Foo",
		External: true,
		DeclType: "%struct._class_t",
	})
	m.DeclareFunc("objc_msgSend", "ptr", []string{"ptr", "ptr"}, true)

	def := &Func{
		Name:    "thunk",
		Linkage: LinkInternal,
		RetType: "ptr",
		Params:  []string{"ptr %self", "ptr %_cmd"},
		Attrs:   "nounwind",
		Body:    []string{"ret ptr %self"},
	}
	m.AddFunc(def)

	out := m.Print()
	wants := []string{
		"; ModuleID = 'demo'",
		`target triple = "arm64-apple-macosx"`,
		"%struct._objc_super = type { ptr, ptr }",
		`@"\01L_selector_data(frob)" = internal unnamed_addr constant [5 x i8] c"frob\00", section "__TEXT,__objc_methname,cstring_literals", align 1`,
		`@"\01L_selector(frob)" = internal global ptr @"\01L_selector_data(frob)", section "__DATA,__objc_selrefs,literal_pointers,no_dead_strip", align 8`,
		"@OBJC_CLASS_$_Foo = external global %struct._class_t",
		`@llvm.used = appending global [1 x ptr] [ptr @"\01L_selector(frob)"], section "llvm.metadata"`,
		"declare ptr @objc_msgSend(ptr, ptr, ...) nounwind",
		"define internal ptr @thunk(ptr %self, ptr %_cmd) nounwind {",
		"  ret ptr %self",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("missing %q in output:\n%s", w, out)
		}
	}
}

func TestDuplicateGlobalPanics(t *testing.T) {
	m := NewModule("demo", layout.ARM64Darwin())
	m.AddGlobal(&Global{Name: "g"})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	m.AddGlobal(&Global{Name: "g"})
}

func TestDeclareFuncIdempotent(t *testing.T) {
	m := NewModule("demo", layout.ARM64Darwin())
	a := m.DeclareFunc("objc_retain", "ptr", []string{"ptr"}, false)
	b := m.DeclareFunc("objc_retain", "ptr", []string{"ptr"}, false)
	if a != b {
		t.Fatalf("redeclaration minted a new function")
	}
	if a.SigText() != "ptr (ptr)" {
		t.Fatalf("sig = %q", a.SigText())
	}
}

func TestMarkUsedDedup(t *testing.T) {
	m := NewModule("demo", layout.ARM64Darwin())
	g := m.AddGlobal(&Global{Name: "g"})
	m.MarkUsed(g)
	m.MarkUsed(g)
	if len(m.Used()) != 1 {
		t.Fatalf("used list = %d entries", len(m.Used()))
	}
}
