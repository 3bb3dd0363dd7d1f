package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/pantry/pkg/model"
	"github.com/mesh-intelligence/pantry/pkg/reactive"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Action is one declared async operation with shared lifecycle state. The
// call state is created once at store definition time, mutated only by calls
// to this action, and lives as long as the store.
type Action struct {
	def    Definition
	snap   Snapshot
	lookup CommitterLookup

	status  *reactive.Cell // holds types.Status
	errCell *reactive.Cell // holds error or nil
	loading *reactive.Derived

	mu       sync.Mutex
	inflight *inflight
}

// inflight tracks one running call so that concurrent callers can observe,
// share, or supersede it.
type inflight struct {
	token      string
	cancel     context.CancelFunc
	done       chan struct{}
	result     any
	err        error
	superseded bool
}

// New creates an action around the given definition. snap provides the
// read-only view snapshot requests resolve against; lookup resolves commit
// targets. Both may be nil for actions that use neither.
func New(def Definition, snap Snapshot, lookup CommitterLookup) *Action {
	a := &Action{
		def:     def,
		snap:    snap,
		lookup:  lookup,
		status:  reactive.NewCell(types.StatusIdle),
		errCell: reactive.NewCell(nil),
	}
	a.loading = reactive.Derive(func() any {
		return a.status.Get() == types.StatusPending
	}, a.status)
	return a
}

// Name returns the action's declared name.
func (a *Action) Name() string { return a.def.Name }

// Status returns the shared lifecycle state.
func (a *Action) Status() types.Status {
	return a.status.Get().(types.Status)
}

// Err returns the shared error, or nil.
func (a *Action) Err() error {
	if err, ok := a.errCell.Get().(error); ok {
		return err
	}
	return nil
}

// Loading reports whether the shared status is pending, as a derived value.
func (a *Action) Loading() bool {
	return a.loading.Get().(bool)
}

// StatusCell exposes the shared status cell for UI binding and derives.
func (a *Action) StatusCell() *reactive.Cell { return a.status }

// ErrorCell exposes the shared error cell for UI binding and derives.
func (a *Action) ErrorCell() *reactive.Cell { return a.errCell }

// InFlightToken returns the cancellation token of the current in-flight
// call, or "" when none is running.
func (a *Action) InFlightToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inflight != nil {
		return a.inflight.token
	}
	return ""
}

// Reset moves a settled action back to idle and clears the shared error.
// Resetting a pending action is a no-op.
func (a *Action) Reset() {
	if a.Status() == types.StatusPending {
		return
	}
	a.status.Set(types.StatusIdle)
	a.errCell.Set(nil)
}

// CallContext is the per-call environment handed to a custom handler.
type CallContext struct {
	// Token is the call's cancellation token.
	Token string

	// Params and Body echo the call options.
	Params map[string]string
	Body   any

	action *Action
	opts   CallOptions
}

// Dispatch runs the action's declared request: resolution against the live
// snapshot, outbound translation, transformers, transport execution, and
// inbound translation. It fails with ErrNoRequest when the action declares
// none.
func (c *CallContext) Dispatch(ctx context.Context) (any, error) {
	return c.action.dispatch(ctx, c.opts)
}

// Call executes the action once. It blocks until the call settles and
// returns the transformed, translated result. Errors are also written to the
// action's error cell, or to the bound cells when CallOptions.Bind is set,
// so callers may observe either.
func (a *Action) Call(ctx context.Context, opts CallOptions) (any, error) {
	mode := opts.Mode
	if mode == types.ConcurrencyInherit {
		mode = a.def.Mode
	}
	if mode == types.ConcurrencyInherit {
		mode = types.ConcurrencyBlock
	}

	a.mu.Lock()
	if prior := a.inflight; prior != nil {
		switch mode {
		case types.ConcurrencyBlock:
			a.mu.Unlock()
			err := types.ErrConcurrencyConflict
			a.writeError(opts.Bind, err)
			return nil, err
		case types.ConcurrencySkip:
			a.mu.Unlock()
			select {
			case <-prior.done:
				return prior.result, prior.err
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", types.ErrCallCanceled, ctx.Err())
			}
		case types.ConcurrencyCancel:
			prior.superseded = true
			prior.cancel()
		case types.ConcurrencyAllow:
			// Run independently; shared status below is last-writer-wins.
		}
	}

	fl := &inflight{
		token: uuid.Must(uuid.NewV7()).String(),
		done:  make(chan struct{}),
	}
	callCtx, cancel := context.WithCancel(ctx)
	fl.cancel = cancel
	a.inflight = fl
	a.mu.Unlock()
	defer cancel()

	if timeout := a.callTimeout(opts); timeout > 0 {
		var cancelTimeout context.CancelFunc
		callCtx, cancelTimeout = context.WithTimeout(callCtx, timeout)
		defer cancelTimeout()
	}

	a.writeStatus(opts.Bind, types.StatusPending)
	a.writeError(opts.Bind, nil)

	result, err := a.execute(callCtx, fl, opts)
	err = normalizeErr(err)

	a.mu.Lock()
	superseded := fl.superseded
	if !superseded && err == nil {
		// Commit while holding the call slot so commits land in
		// resolution order for this action.
		err = a.commit(result, opts)
	}
	if superseded {
		err = fmt.Errorf("%w: superseded by a newer call", types.ErrCallCanceled)
		result = nil
	}
	fl.result, fl.err = result, err
	close(fl.done)
	if a.inflight == fl {
		a.inflight = nil
	}
	a.mu.Unlock()

	if superseded {
		// A superseded call settles quietly: no shared-cell writes, no
		// stale error after the newer call started.
		return nil, err
	}
	if err != nil {
		a.logger().Debug("action call failed", "action", a.def.Name, "error", err)
		a.writeStatus(opts.Bind, types.StatusError)
		a.writeError(opts.Bind, err)
		return nil, err
	}
	a.writeStatus(opts.Bind, types.StatusSuccess)
	a.writeError(opts.Bind, nil)
	return result, nil
}

// execute runs the handler or the request leg.
func (a *Action) execute(ctx context.Context, fl *inflight, opts CallOptions) (any, error) {
	if a.def.Handler != nil {
		call := &CallContext{
			Token:  fl.token,
			Params: opts.Params,
			Body:   opts.Body,
			action: a,
			opts:   opts,
		}
		result, err := a.def.Handler(ctx, call)
		if err != nil && !isPipelineError(err) {
			err = &types.HandlerError{Err: err}
		}
		return result, err
	}
	return a.dispatch(ctx, opts)
}

// dispatch resolves, translates, transforms, and executes the request, then
// transforms and translates the response.
func (a *Action) dispatch(ctx context.Context, opts CallOptions) (any, error) {
	spec := a.def.Request
	if spec == nil {
		return nil, ErrNoRequest
	}
	if a.def.Transport == nil {
		return nil, &types.TransportError{Err: errors.New("no transport configured")}
	}

	req := resolveRequest(spec, a.snap, opts)
	if a.def.Shape != nil && req.Body != nil {
		req.Body = a.def.Shape.ToWire(req.Body)
	}
	if a.def.TransformRequest != nil {
		var err error
		if req, err = a.def.TransformRequest(req); err != nil {
			return nil, &types.HandlerError{Err: err}
		}
	}

	a.logger().Debug("action dispatch", "action", a.def.Name, "method", req.Method, "url", req.URL)
	resp, err := a.def.Transport.Execute(ctx, req)
	if err != nil {
		if isPipelineError(err) {
			return nil, err
		}
		return nil, &types.TransportError{Err: err}
	}

	value := resp.Value
	if a.def.TransformResponse != nil {
		if value, err = a.def.TransformResponse(value); err != nil {
			return nil, &types.HandlerError{Err: err}
		}
	}
	if a.def.Shape != nil {
		value = a.def.Shape.FromWire(value)
	}
	return value, nil
}

// commit applies a successful result to the declared target.
func (a *Action) commit(result any, opts CallOptions) error {
	spec := a.def.Commit
	if opts.Commit != nil {
		spec = opts.Commit
	}
	if spec == nil {
		return nil
	}
	s := *spec
	if opts.CommitMode != types.CommitAuto {
		s.Mode = opts.CommitMode
	}
	if a.lookup == nil {
		return &types.CommitError{Target: s.Target, Err: types.ErrSlotNotFound}
	}
	target, ok := a.lookup(s.Target)
	if !ok {
		return &types.CommitError{Target: s.Target, Err: types.ErrSlotNotFound}
	}

	value := result
	if s.Map != nil {
		value = s.Map(value)
	}
	mode := s.Mode
	if mode == types.CommitAuto {
		method := ""
		if spec := a.def.Request; spec != nil {
			method = spec.Method
			if spec.MethodFunc != nil {
				method = spec.MethodFunc(a.snap)
			}
		}
		mode = defaultCommitMode(method, target.Kind())
	}
	if err := target.Apply(mode, value, model.CommitOptions{Deep: s.Deep, Prepend: s.Prepend}); err != nil {
		return &types.CommitError{Target: s.Target, Err: err}
	}
	a.logger().Debug("action commit", "action", a.def.Name, "target", s.Target, "mode", mode.String())
	return nil
}

// callTimeout picks the effective per-call deadline: call options first,
// then the definition, then the request spec (where a timeout function wins
// over the static value).
func (a *Action) callTimeout(opts CallOptions) time.Duration {
	if opts.Timeout > 0 {
		return opts.Timeout
	}
	if a.def.Timeout > 0 {
		return a.def.Timeout
	}
	if spec := a.def.Request; spec != nil {
		if spec.TimeoutFunc != nil {
			return spec.TimeoutFunc(a.snap)
		}
		return spec.Timeout
	}
	return 0
}

// writeStatus writes to the bound status cell when present, else the shared
// one.
func (a *Action) writeStatus(b *Binding, s types.Status) {
	if b != nil && b.Status != nil {
		b.Status.Set(s)
		return
	}
	a.status.Set(s)
}

// writeError writes to the bound error cell when present, else the shared
// one.
func (a *Action) writeError(b *Binding, err error) {
	if b != nil && b.Error != nil {
		if err == nil {
			b.Error.Set(nil)
		} else {
			b.Error.Set(err)
		}
		return
	}
	if err == nil {
		a.errCell.Set(nil)
	} else {
		a.errCell.Set(err)
	}
}

func (a *Action) logger() *slog.Logger {
	if a.def.Logger != nil {
		return a.def.Logger
	}
	return slog.Default()
}

// normalizeErr maps context outcomes onto the call error vocabulary.
func normalizeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", types.ErrCallTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", types.ErrCallCanceled, err)
	default:
		return err
	}
}

// isPipelineError reports whether err already carries one of the tagged
// error kinds, so wrappers do not double-tag it.
func isPipelineError(err error) bool {
	var te *types.TransportError
	var he *types.HandlerError
	var ce *types.CommitError
	return errors.Is(err, types.ErrCallTimeout) ||
		errors.Is(err, types.ErrCallCanceled) ||
		errors.Is(err, types.ErrConcurrencyConflict) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &te) ||
		errors.As(err, &he) ||
		errors.As(err, &ce)
}
