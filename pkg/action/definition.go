// Package action executes declarative async operations against a remote API
// or a custom handler, tracks their lifecycle on reactive cells, applies a
// per-action concurrency policy, and optionally commits results into the
// mutation engine. Requests are resolved at call time from a read-only view
// snapshot, translated through shape aliases, and dispatched over a
// pluggable transport.
package action

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/pantry/pkg/model"
	"github.com/mesh-intelligence/pantry/pkg/reactive"
	"github.com/mesh-intelligence/pantry/pkg/shape"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// ErrNoRequest rejects a dispatch on an action that defines no request.
var ErrNoRequest = errors.New("action defines no request")

// Snapshot is the read-only window an action resolves requests through. It
// reads views (and raw model slots) of the owning store by key at call time,
// so resolved requests reflect live selection state.
type Snapshot interface {
	Read(key string) any
}

// CommitterLookup resolves a commit target key to its write capability.
type CommitterLookup func(target string) (model.Committer, bool)

// HandlerFunc is a custom async operation. It may perform arbitrary work,
// and may run the action's declared request through call.Dispatch. A handler
// is cancellable only insofar as its body observes ctx.
type HandlerFunc func(ctx context.Context, call *CallContext) (any, error)

// RequestSpec describes a remote call. Every part may be a static value or a
// function of the current view snapshot; functions win when both are set and
// are evaluated at call time, not definition time. URL path placeholders
// (":name") are substituted from call-time params.
type RequestSpec struct {
	Method     string
	MethodFunc func(Snapshot) string

	URL     string
	URLFunc func(Snapshot) string

	Header     map[string]string
	HeaderFunc func(Snapshot) map[string]string

	Query     map[string]string
	QueryFunc func(Snapshot) map[string]string

	Body     any
	BodyFunc func(Snapshot) any

	// Timeout bounds each call; zero means no deadline. Overridable per
	// call.
	Timeout     time.Duration
	TimeoutFunc func(Snapshot) time.Duration
}

// CommitSpec declares how a successful result lands in the model.
type CommitSpec struct {
	// Target is the model slot key the result is applied to.
	Target string

	// Mode selects the mutation. CommitAuto derives it from the request
	// method and the target kind.
	Mode types.CommitMode

	// Deep makes patch commits merge nested entities recursively.
	Deep bool

	// Prepend makes add commits insert at the front.
	Prepend bool

	// Map rewrites the result value before it is applied.
	Map func(any) any
}

// Binding redirects a call's status and error writes to caller-supplied
// cells, so an isolated invocation does not disturb the action's shared
// indicators. A nil cell falls back to the shared one.
type Binding struct {
	Status *reactive.Cell
	Error  *reactive.Cell
}

// CallOptions configures a single call. The zero value inherits everything
// from the definition.
type CallOptions struct {
	// Params substitute URL path placeholders.
	Params map[string]string

	// Body overrides the request body for this call.
	Body any

	// Query merges over the resolved query parameters.
	Query map[string]string

	// Mode overrides the definition's concurrency mode.
	Mode types.ConcurrencyMode

	// Commit replaces the definition's commit spec entirely.
	Commit *CommitSpec

	// CommitMode replaces only the commit mode.
	CommitMode types.CommitMode

	// Bind redirects status and error writes.
	Bind *Binding

	// Timeout overrides the per-call deadline.
	Timeout time.Duration
}

// Definition configures an action. At least one of Request and Handler must
// be set; with both, the handler wraps the request.
type Definition struct {
	Name      string
	Request   *RequestSpec
	Handler   HandlerFunc
	Mode      types.ConcurrencyMode
	Commit    *CommitSpec
	Shape     *shape.Shape
	Transport types.Transport

	// Timeout is the default per-call deadline; zero defers to the
	// request spec's timeout.
	Timeout time.Duration

	// TransformRequest rewrites the fully resolved request before
	// transport dispatch.
	TransformRequest func(types.Request) (types.Request, error)

	// TransformResponse rewrites the raw decoded response before alias
	// translation and commit.
	TransformResponse func(any) (any, error)

	// Logger receives debug-level dispatch and commit records; nil uses
	// slog.Default().
	Logger *slog.Logger
}
