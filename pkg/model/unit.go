package model

import (
	"fmt"

	"github.com/mesh-intelligence/pantry/pkg/reactive"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Unit is a single optional entity slot.
type Unit struct {
	def  Definition
	cell *reactive.Cell
}

// NewUnit creates a unit slot holding its default value, or nil.
func NewUnit(def Definition) *Unit {
	var initial any
	if def.Default != nil {
		initial = def.Default()
	}
	return &Unit{def: def, cell: reactive.NewCell(initial)}
}

// Kind reports KindUnit.
func (u *Unit) Kind() types.Kind { return types.KindUnit }

// Get returns the current entity, or nil when the slot is empty.
func (u *Unit) Get() types.Entity {
	if e, ok := u.cell.Get().(types.Entity); ok {
		return e
	}
	return nil
}

// Version returns the slot's reactive version.
func (u *Unit) Version() uint64 { return u.cell.Version() }

// Value returns the current entity as an untyped value, for view sources.
func (u *Unit) Value() any {
	if e := u.Get(); e != nil {
		return e
	}
	return nil
}

// Set replaces the entity. nil empties the slot.
func (u *Unit) Set(data types.Entity) {
	if data == nil {
		u.install(OpSet, nil)
		return
	}
	u.install(OpSet, data)
}

// SetAt replaces the value at a nested field path, cloning only the nodes
// along the path. A missing intermediate node or an empty slot makes the
// call a no-op.
func (u *Unit) SetAt(path string, value any) {
	next, changed := updateAtPath(u.Get(), splitPath(path), func(any) any { return value })
	if !changed {
		return
	}
	u.install(OpSet, next)
}

// Patch overlays partial onto the current entity. When partial carries the
// identifier field and it does not match the current entity's identifier,
// the call is a no-op. Patching an empty slot is a no-op. With
// PatchOptions.Path the overlay applies to the nested entity at that path.
func (u *Unit) Patch(partial types.Entity, opts PatchOptions) {
	cur := u.Get()
	if cur == nil || partial == nil {
		return
	}
	if !u.matches(cur, partial) {
		return
	}
	var next types.Entity
	if parts := splitPath(opts.Path); parts != nil {
		var changed bool
		next, changed = updateAtPath(cur, parts, func(at any) any {
			if m, ok := at.(map[string]any); ok {
				return mergeEntities(m, partial, opts.Deep)
			}
			return mergeEntities(nil, partial, opts.Deep)
		})
		if !changed {
			return
		}
	} else {
		next = mergeEntities(cur, partial, opts.Deep)
	}
	u.install(OpPatch, next)
}

// Remove empties the slot. A non-nil matcher only takes effect when its
// identifier matches the current entity's; a mismatch is a no-op.
func (u *Unit) Remove(matcher types.Entity) {
	cur := u.Get()
	if cur == nil {
		return
	}
	if matcher != nil && !u.matches(cur, matcher) {
		return
	}
	u.install(OpRemove, nil)
}

// RemoveAt deletes the field at a nested path, cloning only the spine.
func (u *Unit) RemoveAt(path string) {
	next, changed := updateAtPath(u.Get(), splitPath(path), func(any) any { return removeMarker{} })
	if !changed {
		return
	}
	u.install(OpRemove, next)
}

// Reset restores the slot's default value, or empties it when the
// definition has none.
func (u *Unit) Reset() {
	var next any
	if u.def.Default != nil {
		next = u.def.Default()
	}
	u.install(OpReset, next)
}

// Apply implements Committer.
func (u *Unit) Apply(mode types.CommitMode, value any, opts CommitOptions) error {
	switch mode {
	case types.CommitSet, types.CommitAdd, types.CommitAuto:
		e, err := toEntity(value)
		if err != nil {
			return err
		}
		u.Set(e)
	case types.CommitPatch:
		e, err := toEntity(value)
		if err != nil {
			return err
		}
		u.Patch(e, PatchOptions{Deep: opts.Deep})
	case types.CommitRemove:
		e, err := toEntity(value)
		if err != nil {
			return err
		}
		u.Remove(e)
	default:
		return fmt.Errorf("commit mode %v: %w", mode, types.ErrInvalidCommitValue)
	}
	return nil
}

// matches reports whether ref's identifier field, when present, equals cur's.
func (u *Unit) matches(cur, ref types.Entity) bool {
	id := u.def.identifierField()
	want, ok := ref[id]
	if !ok {
		return true
	}
	have, ok := cur[id]
	return ok && have == want
}

// install runs the hooks and writes the new value into the cell.
func (u *Unit) install(op Op, next any) {
	if u.def.PreMutate != nil {
		u.def.PreMutate(op, next)
	}
	if u.def.Silent {
		u.cell.SetSilent(next)
	} else {
		u.cell.Set(next)
	}
	if u.def.PostMutate != nil {
		u.def.PostMutate(op, next)
	}
}
