package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/pkg/shape"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

func testShape(t *testing.T) *shape.Shape {
	t.Helper()
	s, err := shape.New("todo").
		Field("id", shape.Identifier()).
		Field("title").
		Field("done").
		Build()
	require.NoError(t, err)
	return s
}

func TestUnitSetGet(t *testing.T) {
	u := NewUnit(Definition{Shape: testShape(t)})
	assert.Nil(t, u.Get())

	u.Set(types.Entity{"id": 1, "title": "a"})
	assert.Equal(t, types.Entity{"id": 1, "title": "a"}, u.Get())

	u.Set(nil)
	assert.Nil(t, u.Get())
}

func TestUnitDefault(t *testing.T) {
	u := NewUnit(Definition{Default: func() any { return types.Entity{"id": 0, "title": ""} }})
	assert.Equal(t, types.Entity{"id": 0, "title": ""}, u.Get())

	u.Set(types.Entity{"id": 5})
	u.Reset()
	assert.Equal(t, types.Entity{"id": 0, "title": ""}, u.Get())
}

func TestUnitPatch(t *testing.T) {
	tests := []struct {
		name    string
		initial types.Entity
		patch   types.Entity
		opts    PatchOptions
		want    types.Entity
	}{
		{
			name:    "shallow overlay",
			initial: types.Entity{"id": 1, "title": "a", "done": false},
			patch:   types.Entity{"done": true},
			want:    types.Entity{"id": 1, "title": "a", "done": true},
		},
		{
			name:    "matching identifier applies",
			initial: types.Entity{"id": 1, "title": "a"},
			patch:   types.Entity{"id": 1, "title": "b"},
			want:    types.Entity{"id": 1, "title": "b"},
		},
		{
			name:    "mismatched identifier is a no-op",
			initial: types.Entity{"id": 1, "title": "a"},
			patch:   types.Entity{"id": 2, "title": "b"},
			want:    types.Entity{"id": 1, "title": "a"},
		},
		{
			name:    "shallow replaces nested objects wholesale",
			initial: types.Entity{"id": 1, "meta": map[string]any{"a": 1, "b": 2}},
			patch:   types.Entity{"meta": map[string]any{"a": 9}},
			want:    types.Entity{"id": 1, "meta": map[string]any{"a": 9}},
		},
		{
			name:    "deep keeps absent nested keys",
			initial: types.Entity{"id": 1, "meta": map[string]any{"a": 1, "b": 2}},
			patch:   types.Entity{"meta": map[string]any{"a": 9}},
			opts:    PatchOptions{Deep: true},
			want:    types.Entity{"id": 1, "meta": map[string]any{"a": 9, "b": 2}},
		},
		{
			name:    "deep replaces list fields wholesale",
			initial: types.Entity{"id": 1, "tags": []any{"x", "y", "z"}},
			patch:   types.Entity{"tags": []any{"only"}},
			opts:    PatchOptions{Deep: true},
			want:    types.Entity{"id": 1, "tags": []any{"only"}},
		},
		{
			name:    "path scoped patch",
			initial: types.Entity{"id": 1, "profile": map[string]any{"address": map[string]any{"city": "x", "zip": "1"}}},
			patch:   types.Entity{"city": "y"},
			opts:    PatchOptions{Path: "profile.address"},
			want:    types.Entity{"id": 1, "profile": map[string]any{"address": map[string]any{"city": "y", "zip": "1"}}},
		},
		{
			name:    "path through missing node is a no-op",
			initial: types.Entity{"id": 1, "profile": map[string]any{}},
			patch:   types.Entity{"city": "y"},
			opts:    PatchOptions{Path: "profile.address.extra"},
			want:    types.Entity{"id": 1, "profile": map[string]any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUnit(Definition{Shape: testShape(t)})
			u.Set(tt.initial)
			u.Patch(tt.patch, tt.opts)
			assert.Equal(t, tt.want, u.Get())
		})
	}
}

func TestUnitPatchEmptySlotNoop(t *testing.T) {
	u := NewUnit(Definition{Shape: testShape(t)})
	v := u.Version()
	u.Patch(types.Entity{"title": "x"}, PatchOptions{})
	assert.Nil(t, u.Get())
	assert.Equal(t, v, u.Version(), "no-op does not invalidate")
}

func TestUnitPathStructuralSharing(t *testing.T) {
	sibling := map[string]any{"untouched": true}
	u := NewUnit(Definition{})
	u.Set(types.Entity{
		"id":      1,
		"sibling": sibling,
		"profile": map[string]any{"address": map[string]any{"city": "x"}},
	})

	u.Patch(types.Entity{"city": "y"}, PatchOptions{Path: "profile.address"})

	got := u.Get()
	assert.Equal(t, "y", got["profile"].(map[string]any)["address"].(map[string]any)["city"])
	same := got["sibling"].(map[string]any)
	sibling["untouched"] = false
	assert.Equal(t, false, same["untouched"], "sibling subtree shared by reference")
}

func TestUnitSetAt(t *testing.T) {
	u := NewUnit(Definition{})
	u.Set(types.Entity{"id": 1, "profile": map[string]any{"name": "a"}})

	u.SetAt("profile.name", "b")
	assert.Equal(t, "b", u.Get()["profile"].(map[string]any)["name"])

	u.SetAt("missing.name", "c")
	_, ok := u.Get()["missing"]
	assert.False(t, ok, "missing spine is a no-op")
}

func TestUnitRemoveAt(t *testing.T) {
	u := NewUnit(Definition{})
	u.Set(types.Entity{"id": 1, "profile": map[string]any{"name": "a", "age": 3}})

	u.RemoveAt("profile.age")
	assert.Equal(t, map[string]any{"name": "a"}, u.Get()["profile"])

	v := u.Version()
	u.RemoveAt("profile.age")
	assert.Equal(t, v, u.Version(), "removing an absent key is a no-op")
}

func TestUnitRemove(t *testing.T) {
	u := NewUnit(Definition{Shape: testShape(t)})
	u.Set(types.Entity{"id": 1, "title": "a"})

	u.Remove(types.Entity{"id": 2})
	assert.NotNil(t, u.Get(), "mismatched identifier is a no-op")

	u.Remove(types.Entity{"id": 1})
	assert.Nil(t, u.Get())

	u.Set(types.Entity{"id": 3})
	u.Remove(nil)
	assert.Nil(t, u.Get(), "nil matcher removes unconditionally")
}

func TestUnitStructuralImmutability(t *testing.T) {
	u := NewUnit(Definition{Shape: testShape(t)})
	u.Set(types.Entity{"id": 1, "done": false})
	before := u.Get()

	u.Patch(types.Entity{"done": true}, PatchOptions{})

	assert.Equal(t, false, before["done"], "prior snapshot untouched")
	assert.Equal(t, true, u.Get()["done"])
}

func TestUnitHooks(t *testing.T) {
	var ops []Op
	u := NewUnit(Definition{
		PreMutate:  func(op Op, _ any) { ops = append(ops, "pre:"+op) },
		PostMutate: func(op Op, _ any) { ops = append(ops, "post:"+op) },
	})

	u.Set(types.Entity{"id": 1})
	u.Reset()

	assert.Equal(t, []Op{"pre:" + OpSet, "post:" + OpSet, "pre:" + OpReset, "post:" + OpReset}, ops)
}

func TestUnitSilent(t *testing.T) {
	u := NewUnit(Definition{Silent: true})
	v := u.Version()

	u.Set(types.Entity{"id": 1})

	assert.Equal(t, types.Entity{"id": 1}, u.Get(), "value changes")
	assert.Equal(t, v, u.Version(), "version does not move")
}

func TestUnitApply(t *testing.T) {
	u := NewUnit(Definition{Shape: testShape(t)})

	require.NoError(t, u.Apply(types.CommitSet, types.Entity{"id": 1, "done": false}, CommitOptions{}))
	assert.Equal(t, types.Entity{"id": 1, "done": false}, u.Get())

	require.NoError(t, u.Apply(types.CommitPatch, types.Entity{"id": 1, "done": true}, CommitOptions{}))
	assert.Equal(t, true, u.Get()["done"])

	require.NoError(t, u.Apply(types.CommitRemove, types.Entity{"id": 1}, CommitOptions{}))
	assert.Nil(t, u.Get())

	err := u.Apply(types.CommitSet, 42, CommitOptions{})
	assert.ErrorIs(t, err, types.ErrInvalidCommitValue)
}
