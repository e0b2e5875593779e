package manifest

import (
	"strings"
	"testing"

	"vesper/internal/decl"
	"vesper/internal/types"
)

const sampleManifest = `
[module]
name = "shapes"

[[struct]]
name = "CGPoint"
fields = ["double", "double"]

[[class]]
name = "Shape"
super = "NSObject"

[[class.method]]
name = "area"
result = "double"
objc = true
instance = true

[[class.method]]
name = "moveTo"
selector = "moveToPoint:"
args = ["CGPoint"]
objc = true
instance = true

[[class.property]]
name = "title"
type = "object"
settable = true
objc = true

[[class]]
name = "Circle"
super = "Shape"

[[class.method]]
name = "area"
result = "double"
instance = true
overrides = "Shape.area"

[[protocol]]
name = "Drawable"

[[protocol.method]]
name = "draw"
objc = true
instance = true
`

func TestParseRejectsBadManifests(t *testing.T) {
	if _, err := Parse([]byte("not [valid")); err == nil {
		t.Fatalf("syntax error accepted")
	}
	if _, err := Parse([]byte("[emit]\n")); err == nil || !strings.Contains(err.Error(), "no [module]") {
		t.Fatalf("missing module section: %v", err)
	}
	if _, err := Parse([]byte("[module]\nname = \"\"\n")); err == nil {
		t.Fatalf("empty module name accepted")
	}
	if _, err := Parse([]byte("[module]\nname = \"m\"\n[[class]]\n")); err == nil {
		t.Fatalf("nameless class accepted")
	}
}

func TestRealizeSample(t *testing.T) {
	f, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mod, err := Realize(f)
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	if mod.Name != "shapes" {
		t.Fatalf("module name = %q", mod.Name)
	}
	// Two classes plus the protocol's member carrier.
	if len(mod.Classes) != 3 || len(mod.Protocols) != 1 {
		t.Fatalf("classes=%d protocols=%d", len(mod.Classes), len(mod.Protocols))
	}

	shape := mod.Classes[0]
	if shape.Decl.Name != "Shape" || shape.Decl.Super == nil || shape.Decl.Super.Name != "NSObject" {
		t.Fatalf("shape container = %+v", shape.Decl)
	}

	area := shape.Methods[0]
	if area.Selector != "area" {
		t.Fatalf("nullary selector = %q", area.Selector)
	}
	move := shape.Methods[1]
	if move.Selector != "moveToPoint:" {
		t.Fatalf("selector = %q", move.Selector)
	}

	// Lowered signature carries the receiver last; the formal one does not.
	info, ok := mod.Types.FnInfo(move.Type)
	if !ok || info.Repr != types.ReprForeignMethod || len(info.Params) != 2 {
		t.Fatalf("lowered info = %+v", info)
	}
	if info.Params[1].Conv != types.ConvGuaranteed {
		t.Fatalf("default receiver convention = %v", info.Params[1].Conv)
	}
	formal, ok := mod.Types.FnInfo(move.FormalType)
	if !ok || formal.Repr != types.ReprThick || len(formal.Params) != 1 {
		t.Fatalf("formal info = %+v", formal)
	}

	title := shape.Properties[0]
	if title.Getter == nil || title.Setter == nil {
		t.Fatalf("accessors not synthesized")
	}
	if !title.Getter.Accessor || title.Getter.Selector != "title" {
		t.Fatalf("getter = %+v", title.Getter)
	}
	if title.Setter.Selector != "setTitle:" {
		t.Fatalf("setter selector = %q", title.Setter.Selector)
	}

	circle := mod.Classes[1]
	if circle.Decl.Super != shape.Decl {
		t.Fatalf("circle super not linked")
	}
	if circle.Methods[0].Overridden != area {
		t.Fatalf("override not linked")
	}
	if !circle.Methods[0].ObjC && !circle.Methods[0].Overridden.ObjC {
		t.Fatalf("override chain lost exposure")
	}

	proto := mod.Classes[2]
	if !proto.Decl.IsProtocol {
		t.Fatalf("protocol carrier not marked")
	}
	if len(proto.Methods) != 1 || proto.Methods[0].Selector != "draw" {
		t.Fatalf("protocol method = %+v", proto.Methods)
	}
}

func TestRealizeErrors(t *testing.T) {
	bad := func(body string) error {
		f, err := Parse([]byte("[module]\nname = \"m\"\n" + body))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		_, err = Realize(f)
		return err
	}

	if err := bad("[[class]]\nname = \"A\"\n[[class.method]]\nname = \"f\"\nargs = [\"mystery\"]\n"); err == nil {
		t.Fatalf("unknown type accepted")
	}
	if err := bad("[[class]]\nname = \"A\"\n[[class.method]]\nname = \"f\"\nargs = [\"int\"]\n"); err == nil ||
		!strings.Contains(err.Error(), "selector") {
		t.Fatalf("argument without selector: %v", err)
	}
	if err := bad("[[class]]\nname = \"A\"\n[[class.method]]\nname = \"f\"\noverrides = \"B.g\"\n"); err == nil {
		t.Fatalf("dangling override accepted")
	}
	if err := bad("[[class]]\nname = \"A\"\n[[class.subscript]]\nname = \"subscript\"\ntype = \"object\"\n"); err == nil {
		t.Fatalf("subscript without index accepted")
	}
	if err := bad("[[class]]\nname = \"A\"\n[[class.method]]\nname = \"f\"\nreceiver = \"borrowed\"\n"); err == nil {
		t.Fatalf("unknown receiver convention accepted")
	}
	if err := bad("[[class]]\nname = \"A\"\n[[class]]\nname = \"A\"\n"); err == nil {
		t.Fatalf("duplicate class accepted")
	}
}

func TestRealizeMethodKinds(t *testing.T) {
	src := `
[module]
name = "m"

[[class]]
name = "Foo"
ivar_hooks = true

[[class.method]]
name = "init"
kind = "init"
result = "object"
objc = true
instance = true

[[class.method]]
name = "deinit"
kind = "dealloc"
instance = true
`
	f, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mod, err := Realize(f)
	if err != nil {
		t.Fatalf("Realize: %v", err)
	}
	cls := mod.Classes[0]
	if !cls.IVarHooks {
		t.Fatalf("ivar hook flag lost")
	}
	if cls.Methods[0].Kind != decl.MethodInitializer {
		t.Fatalf("kind = %v", cls.Methods[0].Kind)
	}
	if cls.Methods[1].Kind != decl.MethodDestructor {
		t.Fatalf("kind = %v", cls.Methods[1].Kind)
	}
}
