// Package types defines the shared vocabulary of the pantry store: entity
// values, model kinds, action lifecycle states, concurrency and clone
// policies, the transport contract, and the standard errors.
package types

// Entity is a single record in the model: field name to value. Values are
// plain JSON-shaped data (strings, numbers, bools, nested map[string]any,
// []any). Identifier values must be comparable.
type Entity = map[string]any

// Kind selects the shape of a model slot.
type Kind int

// Model slot kinds.
const (
	KindUnit       Kind = iota // A single optional entity.
	KindCollection             // An ordered list of entities, indexed by identifier.
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Status is the lifecycle state of an action. Transitions:
// Idle → Pending on call, Pending → Success on resolve, Pending → Error on
// reject, Success/Error → Idle on reset.
type Status int

// Action lifecycle states.
const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ConcurrencyMode governs a call issued while a prior call on the same
// action is still pending.
type ConcurrencyMode int

// Concurrency modes. The zero value inherits the action definition's mode;
// a definition left at the zero value resolves to ConcurrencyBlock.
const (
	// ConcurrencyInherit defers to the action definition's mode.
	ConcurrencyInherit ConcurrencyMode = iota

	// ConcurrencyBlock rejects the new call with ErrConcurrencyConflict;
	// the in-flight call is untouched.
	ConcurrencyBlock

	// ConcurrencySkip returns the in-flight call's outcome to the new
	// caller without sending a new request.
	ConcurrencySkip

	// ConcurrencyCancel signals the in-flight call's cancellation token
	// and starts a fresh call.
	ConcurrencyCancel

	// ConcurrencyAllow runs calls fully independently. Every call still
	// writes the action's shared status and error on settle, so the last
	// call to settle wins that shared view. That race is part of the
	// contract, not an accident.
	ConcurrencyAllow
)

// String returns the mode name.
func (m ConcurrencyMode) String() string {
	switch m {
	case ConcurrencyInherit:
		return "inherit"
	case ConcurrencyBlock:
		return "block"
	case ConcurrencySkip:
		return "skip"
	case ConcurrencyCancel:
		return "cancel"
	case ConcurrencyAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// ClonePolicy is the mutation-safety tier of a view projection. It decides
// what copy, if any, a resolver receives of the model data it reads.
type ClonePolicy int

// Clone policies.
const (
	// CloneNone hands the resolver the live reference. Mutating it in
	// place corrupts the model; forbidden by contract, never detected.
	CloneNone ClonePolicy = iota

	// CloneShallow makes a one-level copy: safe for top-level reorder or
	// sort, unsafe for mutating nested values.
	CloneShallow

	// CloneDeep makes a full structural copy: safe for any in-place
	// mutation, at full copy cost.
	CloneDeep
)

// String returns the policy name.
func (p ClonePolicy) String() string {
	switch p {
	case CloneNone:
		return "none"
	case CloneShallow:
		return "shallow"
	case CloneDeep:
		return "deep"
	default:
		return "unknown"
	}
}

// CommitMode selects the mutation applied when an action commits its result
// into the model.
type CommitMode int

// Commit modes. CommitAuto derives the mode from the request method and the
// target kind:
//
//	method   unit    collection
//	GET      set     set
//	POST     set     add
//	PUT      set     patch
//	PATCH    patch   patch
//	DELETE   remove  remove
//
// Actions without a request default to set.
const (
	CommitAuto CommitMode = iota
	CommitSet
	CommitAdd
	CommitPatch
	CommitRemove
)

// String returns the commit mode name.
func (m CommitMode) String() string {
	switch m {
	case CommitAuto:
		return "auto"
	case CommitSet:
		return "set"
	case CommitAdd:
		return "add"
	case CommitPatch:
		return "patch"
	case CommitRemove:
		return "remove"
	default:
		return "unknown"
	}
}
