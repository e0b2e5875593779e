package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// StructInfo stores metadata for nominal struct types.
type StructInfo struct {
	Name   string
	Fields []TypeID
}

// RegisterStruct creates or finds a struct type by name and field list.
func (in *Interner) RegisterStruct(name string, fields []TypeID) TypeID {
	if in != nil {
		for id := TypeID(1); int(id) < len(in.types); id++ {
			tt := in.types[id]
			if tt.Kind != KindStruct {
				continue
			}
			if int(tt.Payload) >= len(in.structs) {
				continue
			}
			have := in.structs[tt.Payload]
			if have.Name == name && slices.Equal(have.Fields, fields) {
				return id
			}
		}
	}
	in.structs = append(in.structs, StructInfo{
		Name:   name,
		Fields: slices.Clone(fields),
	})
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// StructInfo retrieves struct metadata by TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return nil, false
	}
	if int(tt.Payload) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[tt.Payload], true
}

// RegisterOpaque creates a distinct native-only type with no foreign encoding.
func (in *Interner) RegisterOpaque(tag uint32) TypeID {
	return in.Intern(Type{Kind: KindOpaque, Payload: tag})
}
