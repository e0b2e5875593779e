// Package manifest loads the TOML declaration manifests the vesper CLI
// consumes: a flat description of classes, protocols and their members,
// realized into the declaration snapshot the backend emits from.
package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// File is the top-level manifest schema.
type File struct {
	Module    ModuleSection   `toml:"module"`
	Structs   []StructSection `toml:"struct"`
	Classes   []ClassSection  `toml:"class"`
	Protocols []ClassSection  `toml:"protocol"`
}

type ModuleSection struct {
	Name string `toml:"name"`
}

type StructSection struct {
	Name   string   `toml:"name"`
	Fields []string `toml:"fields"`
}

type ClassSection struct {
	Name         string            `toml:"name"`
	Super        string            `toml:"super"`
	BoundGeneric bool              `toml:"bound_generic"`
	Methods      []MethodSection   `toml:"method"`
	Properties   []PropertySection `toml:"property"`
	Subscripts   []PropertySection `toml:"subscript"`
	IVarHooks    bool              `toml:"ivar_hooks"`
}

type MethodSection struct {
	Name        string   `toml:"name"`
	Selector    string   `toml:"selector"`
	Kind        string   `toml:"kind"` // "", "init", "dealloc"
	Result      string   `toml:"result"`
	Args        []string `toml:"args"`
	ObjC        bool     `toml:"objc"`
	IBAction    bool     `toml:"ibaction"`
	Instance    bool     `toml:"instance"`
	Generic     bool     `toml:"generic"`
	Overrides   string   `toml:"overrides"` // "Class.method"
	ReceiverCnv string   `toml:"receiver"`  // "", "unowned", "guaranteed", "owned"
}

type PropertySection struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Index    string `toml:"index"` // subscripts only
	Settable bool   `toml:"settable"`
	ObjC     bool   `toml:"objc"`
}

// Load parses a manifest file.
func Load(path string) (*File, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	f, err := Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, raw, nil
}

// Parse decodes manifest bytes.
func Parse(raw []byte) (*File, error) {
	var f File
	meta, err := toml.Decode(string(raw), &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("module") {
		return nil, fmt.Errorf("manifest has no [module] section")
	}
	if f.Module.Name == "" {
		return nil, fmt.Errorf("manifest module.name is empty")
	}
	for _, c := range f.Classes {
		if c.Name == "" {
			return nil, fmt.Errorf("class without a name")
		}
	}
	for _, p := range f.Protocols {
		if p.Name == "" {
			return nil, fmt.Errorf("protocol without a name")
		}
	}
	return &f, nil
}
