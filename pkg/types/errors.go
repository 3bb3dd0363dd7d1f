package types

import (
	"errors"
	"fmt"
)

// Action call errors.
var (
	// ErrConcurrencyConflict rejects a call issued while another call on
	// the same action is pending under ConcurrencyBlock.
	ErrConcurrencyConflict = errors.New("action call already pending")

	// ErrCallCanceled resolves a call superseded under ConcurrencyCancel
	// or canceled through its context.
	ErrCallCanceled = errors.New("action call canceled")

	// ErrCallTimeout rejects a call whose per-call deadline expired.
	ErrCallTimeout = errors.New("action call timed out")
)

// Store wiring errors.
var (
	ErrSlotNotFound    = errors.New("model slot not found")
	ErrDuplicateSlot   = errors.New("model slot already defined")
	ErrViewNotFound    = errors.New("view not found")
	ErrDuplicateView   = errors.New("view already defined")
	ErrActionNotFound  = errors.New("action not found")
	ErrDuplicateAction = errors.New("action already defined")
	ErrStoreNotFound   = errors.New("store not found")
	ErrDuplicateStore  = errors.New("store already registered")
)

// Commit value errors.
var (
	// ErrInvalidCommitValue reports a commit value whose shape does not
	// fit the target slot (not an entity, or not a list of entities).
	ErrInvalidCommitValue = errors.New("commit value has invalid shape")
)

// Shape definition errors.
var (
	ErrShapeNoName         = errors.New("shape name must not be empty")
	ErrDuplicateField      = errors.New("field already declared")
	ErrMultipleIdentifiers = errors.New("shape declares more than one identifier field")
	ErrMissingIdentifier   = errors.New("shape declares no identifier field")
)

// TransportError reports a failed remote call: the transport could not reach
// the remote end, or the remote end replied with a non-success status.
type TransportError struct {
	StatusCode int    // Status of the reply; zero when the call never completed.
	Body       []byte // Reply body, when available.
	Err        error  // Underlying cause, when the call never completed.
}

// Error describes the failure.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: status %d", e.StatusCode)
	}
	return fmt.Sprintf("transport: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// HandlerError reports that a custom action handler failed; it wraps the
// original cause.
type HandlerError struct {
	Err error
}

// Error describes the failure.
func (e *HandlerError) Error() string { return fmt.Sprintf("handler: %v", e.Err) }

// Unwrap returns the original cause.
func (e *HandlerError) Unwrap() error { return e.Err }

// CommitError reports that an action result could not be applied to the
// model: the declared target does not exist, the value had the wrong shape,
// or the merge step failed.
type CommitError struct {
	Target string // Model slot key the commit addressed.
	Err    error  // Underlying cause.
}

// Error describes the failure.
func (e *CommitError) Error() string {
	return fmt.Sprintf("commit to %q: %v", e.Target, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CommitError) Unwrap() error { return e.Err }
