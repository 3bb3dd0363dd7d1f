// Package model is the mutation engine: it owns unit and collection state
// and every transition of it. All operations are structurally immutable —
// they install a new top-level value instead of mutating in place, so the
// reactive layer invalidates on a cheap version bump. Collection lookups go
// through an identifier-to-position cache that repairs itself when stale.
package model

import (
	"github.com/mesh-intelligence/pantry/pkg/shape"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Op names a mutation for hook observers.
type Op string

// Mutation operations.
const (
	OpSet    Op = "set"
	OpPatch  Op = "patch"
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpReset  Op = "reset"
)

// Hook observes a mutation. Pre hooks run before the new value is installed,
// post hooks after. Hooks receive the next top-level value and must not
// retain or mutate it.
type Hook func(op Op, next any)

// Definition configures a model slot.
type Definition struct {
	// Shape describes the slot's entity type. Its identifier field drives
	// collection indexing and unit target matching. When nil, the
	// identifier field defaults to "id".
	Shape *shape.Shape

	// Default produces the slot's initial value, also restored by Reset.
	// Units fall back to nil, collections to an empty list.
	Default func() any

	// PreMutate and PostMutate run around every mutation.
	PreMutate  Hook
	PostMutate Hook

	// Silent suppresses reactive invalidation for this slot: mutations
	// install the new value without bumping the version.
	Silent bool
}

// identifierField returns the slot's identifier field name.
func (d Definition) identifierField() string {
	if d.Shape != nil && d.Shape.IdentifierField() != "" {
		return d.Shape.IdentifierField()
	}
	return "id"
}

// PatchOptions configures Patch calls.
type PatchOptions struct {
	// Deep merges nested entity values recursively instead of replacing
	// them. List-valued fields are always replaced wholesale, never
	// merged element-wise.
	Deep bool

	// Path scopes the patch to a nested field path ("a.b.c"). Only nodes
	// along the path are cloned; siblings are shared with the previous
	// state.
	Path string
}

// AddOptions configures collection Add calls.
type AddOptions struct {
	// Prepend inserts at the front instead of appending.
	Prepend bool
}

// CommitOptions carries the mutation flags an action commit may set.
type CommitOptions struct {
	Deep    bool
	Prepend bool
}

// Committer is the narrow write capability handed to the action engine: it
// applies a committed value to a slot without exposing the slot itself.
type Committer interface {
	// Kind reports the slot kind, used to derive the default commit mode.
	Kind() types.Kind

	// Apply applies value under the given commit mode.
	Apply(mode types.CommitMode, value any, opts CommitOptions) error
}
