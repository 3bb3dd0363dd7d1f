package model

import "github.com/mesh-intelligence/pantry/pkg/types"

// indexCache maps identifier values to positions in a collection's current
// list. It is rebuilt on wholesale replacement, reused across patch and
// remove via cache hits, and repairs itself on a miss or a stale entry by
// falling back to a full scan.
type indexCache struct {
	pos map[any]int
}

func newIndexCache() *indexCache {
	return &indexCache{pos: map[any]int{}}
}

// rebuild recomputes the whole mapping from list. Later duplicates of an
// identifier are ignored; the collection invariant keeps identifiers unique.
func (ix *indexCache) rebuild(list []types.Entity, idField string) {
	ix.pos = make(map[any]int, len(list))
	for i, e := range list {
		id, ok := e[idField]
		if !ok {
			continue
		}
		if _, seen := ix.pos[id]; !seen {
			ix.pos[id] = i
		}
	}
}

// lookup returns the position of the entity with the given identifier. A
// cached entry is verified against the current list; on a stale or missing
// entry the cache falls back to a full scan and repairs itself.
func (ix *indexCache) lookup(list []types.Entity, idField string, id any) (int, bool) {
	if p, ok := ix.pos[id]; ok && p >= 0 && p < len(list) {
		if have, ok := list[p][idField]; ok && have == id {
			return p, true
		}
	}
	for i, e := range list {
		if have, ok := e[idField]; ok && have == id {
			ix.pos[id] = i
			return i, true
		}
	}
	delete(ix.pos, id)
	return 0, false
}

// shift moves every cached position by n, for prepending inserts.
func (ix *indexCache) shift(n int) {
	for id, p := range ix.pos {
		ix.pos[id] = p + n
	}
}

// put records the position of one identifier.
func (ix *indexCache) put(id any, pos int) {
	ix.pos[id] = pos
}
