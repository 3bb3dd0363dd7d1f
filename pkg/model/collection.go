package model

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/pantry/pkg/reactive"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Collection is an ordered list of entities of one type, indexed by
// identifier. Mutations targeting an identifier absent from the collection
// are silent no-ops for that element; callers needing existence confirmation
// check a view first.
type Collection struct {
	def   Definition
	cell  *reactive.Cell
	mu    sync.Mutex // Serializes read-modify-write cycles and index updates.
	index *indexCache
}

// NewCollection creates a collection slot holding its default value, or an
// empty list.
func NewCollection(def Definition) *Collection {
	c := &Collection{def: def, index: newIndexCache()}
	initial := []types.Entity{}
	if def.Default != nil {
		if list, ok := def.Default().([]types.Entity); ok && list != nil {
			initial = dedupeByIdentifier(list, def.identifierField())
		}
	}
	c.cell = reactive.NewCell(initial)
	c.index.rebuild(initial, def.identifierField())
	return c
}

// Kind reports KindCollection.
func (c *Collection) Kind() types.Kind { return types.KindCollection }

// Get returns the current list.
func (c *Collection) Get() []types.Entity {
	list, _ := c.cell.Get().([]types.Entity)
	return list
}

// Version returns the slot's reactive version.
func (c *Collection) Version() uint64 { return c.cell.Version() }

// Value returns the current list as an untyped value, for view sources.
func (c *Collection) Value() any { return c.Get() }

// IndexOf returns the position of the entity with the given identifier.
func (c *Collection) IndexOf(id any) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.lookup(c.Get(), c.def.identifierField(), id)
}

// Set replaces the whole list and rebuilds the index. Later elements
// repeating an earlier element's identifier are dropped, preserving
// identifier uniqueness.
func (c *Collection) Set(list []types.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idField := c.def.identifierField()
	next := dedupeByIdentifier(list, idField)
	c.index.rebuild(next, idField)
	c.install(OpSet, next)
}

// Add inserts one or more entities, appending by default or prepending with
// AddOptions.Prepend. An item whose identifier is already present — in the
// collection or earlier in the same batch — is a silent no-op for that item,
// preserving identifier uniqueness. Cached positions are shifted by the
// inserted count when prepending.
func (c *Collection) Add(items []types.Entity, opts AddOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.Get()
	idField := c.def.identifierField()

	fresh := make([]types.Entity, 0, len(items))
	seen := make(map[any]bool, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if id, ok := item[idField]; ok {
			if seen[id] {
				continue
			}
			if _, exists := c.index.lookup(cur, idField, id); exists {
				continue
			}
			seen[id] = true
		}
		fresh = append(fresh, item)
	}
	if len(fresh) == 0 {
		return
	}

	var next []types.Entity
	if opts.Prepend {
		next = make([]types.Entity, 0, len(fresh)+len(cur))
		next = append(next, fresh...)
		next = append(next, cur...)
		c.index.shift(len(fresh))
		for i, item := range fresh {
			if id, ok := item[idField]; ok {
				c.index.put(id, i)
			}
		}
	} else {
		next = make([]types.Entity, 0, len(cur)+len(fresh))
		next = append(next, cur...)
		next = append(next, fresh...)
		for i, item := range fresh {
			if id, ok := item[idField]; ok {
				c.index.put(id, len(cur)+i)
			}
		}
	}
	c.install(OpAdd, next)
}

// Patch overlays each item onto the entity sharing its identifier. Items
// without an identifier, or whose identifier is absent from the collection,
// are silent no-ops. With PatchOptions.Path the overlay applies to the
// nested entity at that path inside each matched element. Only touched
// elements are cloned; the rest of the list is shared with the prior state.
func (c *Collection) Patch(items []types.Entity, opts PatchOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.Get()
	idField := c.def.identifierField()
	parts := splitPath(opts.Path)

	var next []types.Entity
	touched := false
	for _, item := range items {
		if item == nil {
			continue
		}
		id, ok := item[idField]
		if !ok {
			continue
		}
		pos, ok := c.index.lookup(cur, idField, id)
		if !ok {
			continue
		}
		if !touched {
			next = make([]types.Entity, len(cur))
			copy(next, cur)
			touched = true
		}
		if parts != nil {
			patched, changed := updateAtPath(next[pos], parts, func(at any) any {
				overlay := withoutField(item, idField)
				if m, ok := at.(map[string]any); ok {
					return mergeEntities(m, overlay, opts.Deep)
				}
				return mergeEntities(nil, overlay, opts.Deep)
			})
			if changed {
				next[pos] = patched
			}
		} else {
			next[pos] = mergeEntities(next[pos], item, opts.Deep)
		}
	}
	if !touched {
		return
	}
	c.install(OpPatch, next)
}

// Remove deletes each entity sharing an item's identifier. Missing
// identifiers are silent no-ops. The index is rebuilt after removal since
// every later position shifts.
func (c *Collection) Remove(items []types.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.Get()
	idField := c.def.identifierField()

	drop := map[int]bool{}
	for _, item := range items {
		if item == nil {
			continue
		}
		id, ok := item[idField]
		if !ok {
			continue
		}
		if pos, ok := c.index.lookup(cur, idField, id); ok {
			drop[pos] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	next := make([]types.Entity, 0, len(cur)-len(drop))
	for i, e := range cur {
		if !drop[i] {
			next = append(next, e)
		}
	}
	c.index.rebuild(next, idField)
	c.install(OpRemove, next)
}

// RemoveAt deletes the field at a nested path inside each entity sharing an
// item's identifier, the collection counterpart of Unit.RemoveAt. Items with
// a missing identifier, and paths that do not exist in a matched element,
// are silent no-ops. Only touched elements are cloned, and within them only
// the nodes along the path.
func (c *Collection) RemoveAt(items []types.Entity, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	parts := splitPath(path)
	if parts == nil {
		return
	}
	cur := c.Get()
	idField := c.def.identifierField()

	var next []types.Entity
	for _, item := range items {
		if item == nil {
			continue
		}
		id, ok := item[idField]
		if !ok {
			continue
		}
		pos, ok := c.index.lookup(cur, idField, id)
		if !ok {
			continue
		}
		base := cur[pos]
		if next != nil {
			base = next[pos]
		}
		updated, changed := updateAtPath(base, parts, func(any) any { return removeMarker{} })
		if !changed {
			continue
		}
		if next == nil {
			next = make([]types.Entity, len(cur))
			copy(next, cur)
		}
		next[pos] = updated
	}
	if next == nil {
		return
	}
	c.install(OpRemove, next)
}

// Reset restores the slot's default value, or empties it.
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := []types.Entity{}
	if c.def.Default != nil {
		if list, ok := c.def.Default().([]types.Entity); ok && list != nil {
			next = dedupeByIdentifier(list, c.def.identifierField())
		}
	}
	c.index.rebuild(next, c.def.identifierField())
	c.install(OpReset, next)
}

// Apply implements Committer.
func (c *Collection) Apply(mode types.CommitMode, value any, opts CommitOptions) error {
	switch mode {
	case types.CommitSet, types.CommitAuto:
		list, err := toEntities(value)
		if err != nil {
			return err
		}
		c.Set(list)
	case types.CommitAdd:
		list, err := toEntities(value)
		if err != nil {
			return err
		}
		c.Add(list, AddOptions{Prepend: opts.Prepend})
	case types.CommitPatch:
		list, err := toEntities(value)
		if err != nil {
			return err
		}
		c.Patch(list, PatchOptions{Deep: opts.Deep})
	case types.CommitRemove:
		list, err := toEntities(value)
		if err != nil {
			return err
		}
		c.Remove(list)
	default:
		return fmt.Errorf("commit mode %v: %w", mode, types.ErrInvalidCommitValue)
	}
	return nil
}

// install runs the hooks and writes the new list into the cell. Callers
// hold c.mu.
func (c *Collection) install(op Op, next []types.Entity) {
	if c.def.PreMutate != nil {
		c.def.PreMutate(op, next)
	}
	if c.def.Silent {
		c.cell.SetSilent(next)
	} else {
		c.cell.Set(next)
	}
	if c.def.PostMutate != nil {
		c.def.PostMutate(op, next)
	}
}

// dedupeByIdentifier returns a copy of list minus later elements repeating an
// earlier element's identifier. Elements without an identifier are kept.
func dedupeByIdentifier(list []types.Entity, idField string) []types.Entity {
	out := make([]types.Entity, 0, len(list))
	seen := make(map[any]bool, len(list))
	for _, e := range list {
		if id, ok := e[idField]; ok {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		out = append(out, e)
	}
	return out
}

// withoutField returns e minus one field, for path patches where the
// identifier addresses the element but does not belong in the overlay.
func withoutField(e types.Entity, field string) types.Entity {
	out := make(types.Entity, len(e))
	for k, v := range e {
		if k == field {
			continue
		}
		out[k] = v
	}
	return out
}

// toEntity coerces a commit value to a single entity. nil stays nil.
func toEntity(v any) (types.Entity, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case types.Entity:
		return val, nil
	default:
		return nil, fmt.Errorf("%w: %T is not an entity", types.ErrInvalidCommitValue, v)
	}
}

// toEntities coerces a commit value to a list of entities. A single entity
// becomes a one-element list; nil becomes an empty list.
func toEntities(v any) ([]types.Entity, error) {
	switch val := v.(type) {
	case nil:
		return []types.Entity{}, nil
	case types.Entity:
		return []types.Entity{val}, nil
	case []types.Entity:
		return val, nil
	case []any:
		out := make([]types.Entity, 0, len(val))
		for _, e := range val {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: list element %T is not an entity", types.ErrInvalidCommitValue, e)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T is not an entity list", types.ErrInvalidCommitValue, v)
	}
}
