package view

import "github.com/mesh-intelligence/pantry/pkg/types"

// Record is an explicit field accessor over one computed projection value.
// The projection is computed once, when the record is created; every getter
// reads that snapshot.
type Record struct {
	data any
}

// Value returns the whole snapshot.
func (r Record) Value() any { return r.data }

// Field returns the named field when the snapshot is an entity, else nil.
func (r Record) Field(name string) any {
	if e, ok := r.data.(types.Entity); ok {
		return e[name]
	}
	return nil
}

// Len returns the element count when the snapshot is a list, else zero.
func (r Record) Len() int {
	switch list := r.data.(type) {
	case []types.Entity:
		return len(list)
	case []any:
		return len(list)
	default:
		return 0
	}
}

// At returns a record over the i-th element when the snapshot is a list.
// Out-of-range indexes yield an empty record.
func (r Record) At(i int) Record {
	switch list := r.data.(type) {
	case []types.Entity:
		if i >= 0 && i < len(list) {
			return Record{data: list[i]}
		}
	case []any:
		if i >= 0 && i < len(list) {
			return Record{data: list[i]}
		}
	}
	return Record{}
}
