package view

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/pkg/model"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

func todos(items ...types.Entity) *model.Collection {
	c := model.NewCollection(model.Definition{})
	c.Set(items)
	return c
}

func TestFromIdentity(t *testing.T) {
	c := todos(types.Entity{"id": 1}, types.Entity{"id": 2})
	v := From(c, nil, types.CloneNone)

	got := v.Get().([]types.Entity)
	assert.Len(t, got, 2)
}

func TestFromResolver(t *testing.T) {
	c := todos(
		types.Entity{"id": 1, "done": true},
		types.Entity{"id": 2, "done": false},
	)
	pending := From(c, func(values ...any) any {
		var out []types.Entity
		for _, e := range values[0].([]types.Entity) {
			if e["done"] == false {
				out = append(out, e)
			}
		}
		return out
	}, types.CloneNone)

	got := pending.Get().([]types.Entity)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0]["id"])
}

func TestViewLazyRecompute(t *testing.T) {
	c := todos(types.Entity{"id": 1})
	runs := 0
	v := From(c, func(values ...any) any {
		runs++
		return values[0]
	}, types.CloneNone)

	v.Get()
	v.Get()
	assert.Equal(t, 1, runs, "memoized until a source changes")

	c.Add([]types.Entity{{"id": 2}}, model.AddOptions{})
	assert.Equal(t, 1, runs, "mutation alone does not recompute")
	v.Get()
	assert.Equal(t, 2, runs)
}

func TestMergeSources(t *testing.T) {
	u := model.NewUnit(model.Definition{})
	u.Set(types.Entity{"id": 1, "name": "me"})
	c := todos(types.Entity{"id": 1, "owner": 1}, types.Entity{"id": 2, "owner": 2})

	mine := Merge([]Source{u, c}, func(values ...any) any {
		owner := values[0].(types.Entity)
		var out []types.Entity
		for _, e := range values[1].([]types.Entity) {
			if e["owner"] == owner["id"] {
				out = append(out, e)
			}
		}
		return out
	}, types.CloneNone)

	got := mine.Get().([]types.Entity)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0]["id"])

	u.Set(types.Entity{"id": 2, "name": "other"})
	got = mine.Get().([]types.Entity)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0]["id"])
}

// CloneNone hands the resolver the live reference: in-place mutation reaches
// the raw model. The hazard is the documented contract; this test guards it
// against an accidental "fix" that would start copying.
func TestCloneNoneSharesLiveReference(t *testing.T) {
	c := todos(types.Entity{"id": 2}, types.Entity{"id": 1})
	v := From(c, func(values ...any) any {
		list := values[0].([]types.Entity)
		sort.Slice(list, func(i, j int) bool {
			return list[i]["id"].(int) < list[j]["id"].(int)
		})
		return list
	}, types.CloneNone)

	v.Get()

	raw := c.Get()
	assert.Equal(t, 1, raw[0]["id"], "in-place sort visible in the raw model")
}

func TestCloneShallowProtectsOrder(t *testing.T) {
	c := todos(types.Entity{"id": 2}, types.Entity{"id": 1})
	v := From(c, func(values ...any) any {
		list := values[0].([]types.Entity)
		sort.Slice(list, func(i, j int) bool {
			return list[i]["id"].(int) < list[j]["id"].(int)
		})
		return list
	}, types.CloneShallow)

	got := v.Get().([]types.Entity)
	assert.Equal(t, 1, got[0]["id"])

	raw := c.Get()
	assert.Equal(t, 2, raw[0]["id"], "model order untouched")

	// One level only: element maps are still shared.
	got[0]["marker"] = true
	assert.Equal(t, true, raw[1]["marker"])
}

func TestCloneDeepIsolates(t *testing.T) {
	c := todos(types.Entity{"id": 1, "meta": map[string]any{"n": 1}})
	v := From(c, nil, types.CloneDeep)

	got := v.Get().([]map[string]any)
	got[0]["meta"].(map[string]any)["n"] = 99
	got[0]["extra"] = true

	raw := c.Get()
	assert.Equal(t, 1, raw[0]["meta"].(map[string]any)["n"], "nested mutation never reaches the model")
	_, ok := raw[0]["extra"]
	assert.False(t, ok)
}

func TestViewOverView(t *testing.T) {
	c := todos(types.Entity{"id": 1, "done": false})
	all := From(c, nil, types.CloneNone)
	count := From(all, func(values ...any) any {
		return len(values[0].([]types.Entity))
	}, types.CloneNone)

	assert.Equal(t, 1, count.Get())
	c.Add([]types.Entity{{"id": 2}}, model.AddOptions{})
	assert.Equal(t, 2, count.Get())
}

func TestRecord(t *testing.T) {
	u := model.NewUnit(model.Definition{})
	u.Set(types.Entity{"id": 1, "title": "a"})
	v := From(u, nil, types.CloneNone)

	r := v.Record()
	assert.Equal(t, "a", r.Field("title"))
	assert.Nil(t, r.Field("missing"))

	u.Patch(types.Entity{"title": "b"}, model.PatchOptions{})
	assert.Equal(t, "a", r.Field("title"), "record reads its snapshot")
	assert.Equal(t, "b", v.Record().Field("title"))
}

func TestRecordList(t *testing.T) {
	c := todos(types.Entity{"id": 1}, types.Entity{"id": 2})
	r := From(c, nil, types.CloneNone).Record()

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 2, r.At(1).Field("id"))
	assert.Nil(t, r.At(5).Field("id"))
	assert.Nil(t, r.Field("id"), "list snapshot has no fields")
}
