package reactive

import "sync"

// Derived is a read-only value computed from one or more sources. The
// computation is pull-based: a read recomputes only when some dependency's
// version changed since the last read, otherwise the memoized value is
// returned. A Derived is itself a Source, so derives can stack.
type Derived struct {
	mu     sync.Mutex
	fn     func() any
	deps   []Source
	seen   []uint64 // Dependency versions captured at the last recompute.
	cached any
	valid  bool
	gen    uint64 // Bumped on every recompute.
}

// Derive creates a derived value computed by fn from the given dependencies.
// fn runs lazily on first read and again whenever a dependency changed.
func Derive(fn func() any, deps ...Source) *Derived {
	return &Derived{fn: fn, deps: deps, seen: make([]uint64, len(deps))}
}

// Get returns the derived value, recomputing it first if stale.
func (d *Derived) Get() any {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refresh()
	return d.cached
}

// Version returns a counter that moves whenever the derived value is
// recomputed. Reading the version refreshes the value, so a stacked derive
// observing this one sees pending dependency changes.
func (d *Derived) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refresh()
	return d.gen
}

// refresh recomputes when invalid or when any dependency version moved.
// Callers hold d.mu.
func (d *Derived) refresh() {
	stale := !d.valid
	for i, dep := range d.deps {
		if v := dep.Version(); v != d.seen[i] {
			d.seen[i] = v
			stale = true
		}
	}
	if !stale {
		return
	}
	d.cached = d.fn()
	d.valid = true
	d.gen++
}
