package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellGetSet(t *testing.T) {
	c := NewCell(1)
	assert.Equal(t, 1, c.Get())
	assert.Equal(t, uint64(1), c.Version())

	c.Set(2)
	assert.Equal(t, 2, c.Get())
	assert.Equal(t, uint64(2), c.Version())
}

func TestCellSetSilent(t *testing.T) {
	c := NewCell("a")
	v := c.Version()

	c.SetSilent("b")

	assert.Equal(t, "b", c.Get(), "value changes")
	assert.Equal(t, v, c.Version(), "version does not move")
}

func TestDeriveLazy(t *testing.T) {
	c := NewCell(10)
	runs := 0
	d := Derive(func() any {
		runs++
		return c.Get().(int) * 2
	}, c)

	assert.Equal(t, 0, runs, "no eager computation")
	assert.Equal(t, 20, d.Get())
	assert.Equal(t, 20, d.Get())
	assert.Equal(t, 1, runs, "memoized across reads")

	c.Set(15)
	assert.Equal(t, 1, runs, "mutation alone does not recompute")
	assert.Equal(t, 30, d.Get())
	assert.Equal(t, 2, runs, "read after mutation recomputes once")
}

func TestDeriveMultipleSources(t *testing.T) {
	a := NewCell(1)
	b := NewCell(2)
	d := Derive(func() any {
		return a.Get().(int) + b.Get().(int)
	}, a, b)

	assert.Equal(t, 3, d.Get())
	b.Set(5)
	assert.Equal(t, 6, d.Get())
}

func TestDeriveStacked(t *testing.T) {
	c := NewCell(1)
	double := Derive(func() any { return c.Get().(int) * 2 }, c)
	quad := Derive(func() any { return double.Get().(int) * 2 }, double)

	assert.Equal(t, 4, quad.Get())

	c.Set(3)
	assert.Equal(t, 12, quad.Get(), "change propagates through stacked derives")
}

func TestDeriveSilentWriteInvisible(t *testing.T) {
	c := NewCell(1)
	d := Derive(func() any { return c.Get() }, c)

	assert.Equal(t, 1, d.Get())
	c.SetSilent(99)
	assert.Equal(t, 1, d.Get(), "silent write keeps the memoized value")

	c.Set(2)
	assert.Equal(t, 2, d.Get())
}
