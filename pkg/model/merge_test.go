package model

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

func TestMergeEntitiesShallow(t *testing.T) {
	cur := types.Entity{"a": 1, "b": map[string]any{"x": 1}}
	patch := types.Entity{"b": map[string]any{"y": 2}, "c": 3}

	got := mergeEntities(cur, patch, false)

	assert.Equal(t, types.Entity{"a": 1, "b": map[string]any{"y": 2}, "c": 3}, got)
	assert.Equal(t, types.Entity{"a": 1, "b": map[string]any{"x": 1}}, cur, "input untouched")
}

func TestMergeEntitiesDeep(t *testing.T) {
	cur := types.Entity{"b": map[string]any{"x": 1, "y": 2}}
	patch := types.Entity{"b": map[string]any{"y": 9, "z": 3}}

	got := mergeEntities(cur, patch, true)

	assert.Equal(t, types.Entity{"b": map[string]any{"x": 1, "y": 9, "z": 3}}, got)
}

// Deep merge must replace list values wholesale. Merging lists element-wise
// (or worse, key-wise) would silently degrade a list into an index-keyed
// object.
func TestMergeEntitiesDeepListsReplaced(t *testing.T) {
	cur := types.Entity{"tags": []any{"a", "b", "c"}}
	patch := types.Entity{"tags": []any{"d"}}

	got := mergeEntities(cur, patch, true)

	tags, ok := got["tags"].([]any)
	require.True(t, ok, "list stays a list")
	assert.Equal(t, []any{"d"}, tags)
}

func TestMergeEntitiesTypeFlip(t *testing.T) {
	cur := types.Entity{"v": map[string]any{"x": 1}}
	patch := types.Entity{"v": "scalar"}

	got := mergeEntities(cur, patch, true)
	assert.Equal(t, "scalar", got["v"], "type flip replaces, never merges")
}

func TestDeepMergeGolden(t *testing.T) {
	cur := types.Entity{
		"id":    1,
		"title": "Buy groceries",
		"done":  false,
		"meta": map[string]any{
			"tags":  []any{"a", "b"},
			"stats": map[string]any{"views": 3, "likes": 4},
		},
	}
	patch := types.Entity{
		"done": true,
		"meta": map[string]any{
			"tags":  []any{"c"},
			"stats": map[string]any{"views": 9},
		},
	}

	merged := mergeEntities(cur, patch, true)
	out, err := json.MarshalIndent(merged, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "deep_merge", out)
}
