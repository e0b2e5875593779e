package ir

import (
	"fmt"
	"strings"
)

// Value is a constant initializer for a global.
type Value interface {
	// TypeText is the LLVM type of the constant.
	TypeText() string
	// InitText is the constant initializer expression.
	InitText() string
}

// Bytes is a NUL-terminated byte string constant.
type Bytes struct {
	Data []byte
}

// CString builds a Bytes value with an implicit trailing NUL.
func CString(s string) Bytes {
	return Bytes{Data: append([]byte(s), 0)}
}

func (b Bytes) TypeText() string {
	return fmt.Sprintf("[%d x i8]", len(b.Data))
}

func (b Bytes) InitText() string {
	var sb strings.Builder
	sb.WriteString(`c"`)
	for _, c := range b.Data {
		if c >= 0x20 && c <= 0x7e && c != '"' && c != '\\' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "\\%02X", c)
	}
	sb.WriteString(`"`)
	return sb.String()
}

// SymRef is a pointer to another global.
type SymRef struct {
	Global *Global
}

func (s SymRef) TypeText() string { return "ptr" }
func (s SymRef) InitText() string { return "ptr " + RefText(s.Global.Name) }

// FnRef is a pointer to a function.
type FnRef struct {
	Func *Func
}

func (f FnRef) TypeText() string { return "ptr" }
func (f FnRef) InitText() string { return "ptr " + RefText(f.Func.Name) }

// Int is an integer constant of an explicit width.
type Int struct {
	Ty string
	V  int
}

func (i Int) TypeText() string { return i.Ty }
func (i Int) InitText() string { return fmt.Sprintf("%s %d", i.Ty, i.V) }

// Null is a null pointer constant.
type Null struct{}

func (Null) TypeText() string { return "ptr" }
func (Null) InitText() string { return "ptr null" }

// StructVal is an anonymous constant struct.
type StructVal struct {
	Fields []Value
}

func (s StructVal) TypeText() string {
	parts := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		parts = append(parts, f.TypeText())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (s StructVal) InitText() string {
	parts := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		parts = append(parts, f.TypeText()+" "+stripType(f))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// stripType returns the bare initializer for struct-field position, where
// the field type is printed separately.
func stripType(v Value) string {
	init := v.InitText()
	ty := v.TypeText()
	if strings.HasPrefix(init, ty+" ") {
		return init[len(ty)+1:]
	}
	return init
}

// RefText renders a symbol reference, quoting names that need it.
func RefText(name string) string {
	if !needsQuoting(name) {
		return "@" + name
	}
	var sb strings.Builder
	sb.WriteString(`@"`)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 0x20 && c <= 0x7e && c != '"' && c != '\\' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "\\%02X", c)
	}
	sb.WriteString(`"`)
	return sb.String()
}

func needsQuoting(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '.' || c == '$' || c == '-':
		default:
			return true
		}
	}
	return false
}
