package objcgen

import (
	"testing"

	"vesper/internal/decl"
)

func TestSelectorFamily(t *testing.T) {
	tests := []struct {
		selector string
		want     Family
	}{
		{"alloc", FamilyAlloc},
		{"allocWithZone:", FamilyAlloc},
		{"allocate", FamilyNone},
		{"copy", FamilyCopy},
		{"copyWithZone:", FamilyCopy},
		{"copyingStyle", FamilyNone},
		{"init", FamilyInit},
		{"initWithFrame:", FamilyInit},
		{"initialize", FamilyNone},
		{"mutableCopy", FamilyMutableCopy},
		{"mutableCopyWithZone:", FamilyMutableCopy},
		{"new", FamilyNew},
		{"newDocument", FamilyNew},
		{"news", FamilyNone},
		{"_init", FamilyInit},
		{"__allocBuffer", FamilyAlloc},
		{"_", FamilyNone},
		{"", FamilyNone},
		{"description", FamilyNone},
		{"init_private:", FamilyInit},
	}
	for _, tt := range tests {
		got := Selector{text: tt.selector}.Family()
		if got != tt.want {
			t.Errorf("Family(%q) = %v, want %v", tt.selector, got, tt.want)
		}
	}
}

func TestNewSelector(t *testing.T) {
	m := &decl.Method{Name: "frob", Selector: "frobWithSpeed:", Kind: decl.MethodFunc}
	if got := NewSelector(m).String(); got != "frobWithSpeed:" {
		t.Fatalf("selector = %q", got)
	}
	dtor := &decl.Method{Name: "deinit", Kind: decl.MethodDestructor, Selector: "ignored"}
	if got := NewSelector(dtor).String(); got != "dealloc" {
		t.Fatalf("destructor selector = %q", got)
	}
}

func TestSelectorForRef(t *testing.T) {
	cls := &decl.Container{Name: "Foo"}
	if got := SelectorForRef(decl.DeallocatorRef(cls)).String(); got != "dealloc" {
		t.Fatalf("deallocator selector = %q", got)
	}
	if got := SelectorForRef(decl.IVarRef(cls, false)).String(); got != ".cxx_construct" {
		t.Fatalf("ivar init selector = %q", got)
	}
	if got := SelectorForRef(decl.IVarRef(cls, true)).String(); got != ".cxx_destruct" {
		t.Fatalf("ivar destroy selector = %q", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("allocator ref should have no selector")
		}
	}()
	SelectorForRef(decl.Ref{Kind: decl.RefAllocator, Class: cls})
}

func TestStorageSelectors(t *testing.T) {
	prop := &decl.Storage{Name: "title", Settable: true}
	if got := GetterSelector(prop).String(); got != "title" {
		t.Fatalf("getter = %q", got)
	}
	if got := SetterSelector(prop).String(); got != "setTitle:" {
		t.Fatalf("setter = %q", got)
	}

	sub := &decl.Storage{Name: "subscript", Subscript: true, Settable: true}
	if got := GetterSelector(sub).String(); got != "objectAtIndexedSubscript:" {
		t.Fatalf("subscript getter = %q", got)
	}
	if got := SetterSelector(sub).String(); got != "setObject:atIndexedSubscript:" {
		t.Fatalf("subscript setter = %q", got)
	}

	custom := &decl.Storage{Name: "enabled", Settable: true, GetterSel: "isEnabled", SetterSel: "setOn:"}
	if got := GetterSelector(custom).String(); got != "isEnabled" {
		t.Fatalf("custom getter = %q", got)
	}
	if got := SetterSelector(custom).String(); got != "setOn:" {
		t.Fatalf("custom setter = %q", got)
	}
}

func TestObjCSelectorAssembly(t *testing.T) {
	if got := decl.ObjCSelector("insertObject", "atIndex"); got != "insertObject:atIndex:" {
		t.Fatalf("selector = %q", got)
	}
	if got := decl.ObjCSelector("frobWithSpeed"); got != "frobWithSpeed:" {
		t.Fatalf("selector = %q", got)
	}
}
