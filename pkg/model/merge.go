package model

import (
	"strings"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// mergeEntities produces a new entity holding cur's fields overlaid with
// patch's. With deep set, values that are entities on both sides merge
// recursively; keys present in cur but absent from patch survive. Slices
// never merge element-wise: a list-valued patch field replaces the current
// list wholesale, whatever its element types, so lists cannot silently
// degrade into index-keyed objects.
func mergeEntities(cur, patch types.Entity, deep bool) types.Entity {
	out := make(types.Entity, len(cur)+len(patch))
	for k, v := range cur {
		out[k] = v
	}
	for k, v := range patch {
		if deep {
			if cm, ok := out[k].(map[string]any); ok {
				if pm, ok := v.(map[string]any); ok {
					out[k] = mergeEntities(cm, pm, true)
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}

// splitPath splits a dot-separated field path. An empty path yields nil.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// updateAtPath returns a copy of root with fn applied to the value at the
// given path, plus whether an update happened. Only the maps along the path
// are cloned; sibling subtrees are shared with root. When an intermediate
// node is missing or not an entity the update is a no-op. fn receives the
// current value at the path (nil when absent) and returns the replacement;
// returning removeMarker deletes the key instead.
func updateAtPath(root types.Entity, parts []string, fn func(cur any) any) (types.Entity, bool) {
	if root == nil || len(parts) == 0 {
		return root, false
	}
	// Verify the spine exists before cloning anything.
	node := root
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			return root, false
		}
		node = child
	}

	out := make(types.Entity, len(root))
	for k, v := range root {
		out[k] = v
	}
	cursor := out
	for _, p := range parts[:len(parts)-1] {
		child := cursor[p].(map[string]any)
		cloned := make(map[string]any, len(child))
		for k, v := range child {
			cloned[k] = v
		}
		cursor[p] = cloned
		cursor = cloned
	}
	last := parts[len(parts)-1]
	next := fn(cursor[last])
	if _, remove := next.(removeMarker); remove {
		if _, ok := cursor[last]; !ok {
			return root, false
		}
		delete(cursor, last)
	} else {
		cursor[last] = next
	}
	return out, true
}

// removeMarker signals updateAtPath to delete the addressed key.
type removeMarker struct{}
