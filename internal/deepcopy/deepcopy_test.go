package deepcopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShallowMap(t *testing.T) {
	orig := map[string]any{"a": 1, "nested": map[string]any{"b": 2}}
	c := Shallow(orig).(map[string]any)

	c["a"] = 99
	assert.Equal(t, 1, orig["a"], "top level isolated")

	c["nested"].(map[string]any)["b"] = 99
	assert.Equal(t, 99, orig["nested"].(map[string]any)["b"], "nested values shared")
}

func TestShallowSlice(t *testing.T) {
	orig := []any{map[string]any{"a": 1}}
	c := Shallow(orig).([]any)

	c[0] = "replaced"
	assert.Equal(t, map[string]any{"a": 1}, orig[0], "slice spine isolated")
}

func TestShallowScalar(t *testing.T) {
	assert.Equal(t, 7, Shallow(7))
	assert.Nil(t, Shallow(nil))
}

func TestDeep(t *testing.T) {
	orig := map[string]any{
		"a":    1,
		"tags": []any{"x", "y"},
		"nested": map[string]any{
			"list": []map[string]any{{"b": 2}},
		},
	}
	c := Deep(orig).(map[string]any)

	c["nested"].(map[string]any)["list"].([]map[string]any)[0]["b"] = 99
	c["tags"].([]any)[0] = "z"

	assert.Equal(t, 2, orig["nested"].(map[string]any)["list"].([]map[string]any)[0]["b"])
	assert.Equal(t, "x", orig["tags"].([]any)[0])
}
