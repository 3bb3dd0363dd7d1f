// Package reactive provides the minimal observable primitive the store is
// built on: versioned value cells and pull-memoized derived computations.
// Writes bump a version counter; reads of a derived value recompute only
// when a dependency's version moved since the last read. Nothing here knows
// about any UI framework.
package reactive

import "sync"

// Source is anything a derived computation can depend on. A Source's version
// strictly increases every time its value changes.
type Source interface {
	Version() uint64
}

// Cell is a mutable observable value.
type Cell struct {
	mu      sync.RWMutex
	value   any
	version uint64
}

// NewCell creates a cell holding the given initial value at version 1.
func NewCell(value any) *Cell {
	return &Cell{value: value, version: 1}
}

// Get returns the current value.
func (c *Cell) Get() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and bumps the version, invalidating dependents.
func (c *Cell) Set(value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.version++
}

// SetSilent replaces the value without bumping the version. Dependents keep
// their memoized result until the next non-silent write.
func (c *Cell) SetSilent(value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
}

// Version returns the current version.
func (c *Cell) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
