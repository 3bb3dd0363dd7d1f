// Package view derives read-only projections from model slots. Projections
// recompute lazily: a read recomputes only when a source changed since the
// last read, never eagerly on mutation. Each projection declares a clone
// policy deciding how much of the source data is copied before its resolver
// runs, trading copy cost against mutation safety.
package view

import (
	"github.com/mesh-intelligence/pantry/internal/deepcopy"
	"github.com/mesh-intelligence/pantry/pkg/reactive"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Source is a readable, versioned value a projection can depend on. Model
// units and collections implement it, as do other views.
type Source interface {
	Value() any
	Version() uint64
}

// Resolver computes a projection from its source values, in declaration
// order. Under CloneNone the values are live references into the model;
// mutating them in place corrupts the model and is forbidden by contract.
type Resolver func(values ...any) any

// View is a derived read-only projection.
type View struct {
	derived *reactive.Derived
	policy  types.ClonePolicy
}

// From creates a single-source projection. A nil resolver is the identity.
func From(src Source, resolver Resolver, policy types.ClonePolicy) *View {
	return newView([]Source{src}, resolver, policy)
}

// Merge creates a multi-source projection combining several model slots. A
// nil resolver yields the source values as a []any.
func Merge(srcs []Source, resolver Resolver, policy types.ClonePolicy) *View {
	return newView(srcs, resolver, policy)
}

func newView(srcs []Source, resolver Resolver, policy types.ClonePolicy) *View {
	deps := make([]reactive.Source, len(srcs))
	for i, s := range srcs {
		deps[i] = s
	}
	v := &View{policy: policy}
	v.derived = reactive.Derive(func() any {
		values := make([]any, len(srcs))
		for i, s := range srcs {
			values[i] = clone(s.Value(), policy)
		}
		if resolver == nil {
			if len(values) == 1 {
				return values[0]
			}
			return values
		}
		return resolver(values...)
	}, deps...)
	return v
}

// Get returns the projection, recomputing it first when a source changed.
func (v *View) Get() any { return v.derived.Get() }

// Version returns the projection's reactive version; other views and derives
// may depend on it.
func (v *View) Version() uint64 { return v.derived.Version() }

// Value implements Source.
func (v *View) Value() any { return v.Get() }

// Policy returns the projection's clone policy.
func (v *View) Policy() types.ClonePolicy { return v.policy }

// Record returns a field accessor over the projection, computed once per
// call. Reads through the record do not recompute.
func (v *View) Record() Record {
	return Record{data: v.Get()}
}

// clone applies the view's clone policy to one source value.
func clone(val any, policy types.ClonePolicy) any {
	switch policy {
	case types.CloneShallow:
		return deepcopy.Shallow(val)
	case types.CloneDeep:
		return deepcopy.Deep(val)
	default:
		return val
	}
}
