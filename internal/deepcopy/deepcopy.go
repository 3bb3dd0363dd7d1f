// Package deepcopy copies JSON-shaped values (maps, slices, scalars) at the
// two depths the store needs: one level for cheap reorder safety, full depth
// for complete mutation isolation.
package deepcopy

// Shallow returns a one-level copy of v: a new map or slice whose elements
// are the same references as in v. Scalars are returned as-is.
func Shallow(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = e
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		copy(out, val)
		return out
	case []any:
		out := make([]any, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// Deep returns a full structural copy of v: every nested map and slice is
// duplicated, so no mutation of the copy can reach the original.
func Deep(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = Deep(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, e := range val {
			out[i] = Deep(e).(map[string]any)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = Deep(e)
		}
		return out
	default:
		return v
	}
}
