package action

import (
	"strings"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// resolveRequest evaluates a request spec against the current snapshot and
// the call options, producing the concrete request handed to the transport.
func resolveRequest(spec *RequestSpec, snap Snapshot, opts CallOptions) types.Request {
	req := types.Request{
		Method:  spec.Method,
		Timeout: spec.Timeout,
	}
	if spec.MethodFunc != nil {
		req.Method = spec.MethodFunc(snap)
	}
	if req.Method == "" {
		req.Method = "GET"
	}
	if spec.TimeoutFunc != nil {
		req.Timeout = spec.TimeoutFunc(snap)
	}
	if opts.Timeout > 0 {
		req.Timeout = opts.Timeout
	}

	url := spec.URL
	if spec.URLFunc != nil {
		url = spec.URLFunc(snap)
	}
	req.URL = substituteParams(url, opts.Params)

	req.Header = mergeKV(spec.Header, nil)
	if spec.HeaderFunc != nil {
		req.Header = mergeKV(req.Header, spec.HeaderFunc(snap))
	}

	req.Query = mergeKV(spec.Query, nil)
	if spec.QueryFunc != nil {
		req.Query = mergeKV(req.Query, spec.QueryFunc(snap))
	}
	req.Query = mergeKV(req.Query, opts.Query)

	switch {
	case opts.Body != nil:
		req.Body = opts.Body
	case spec.BodyFunc != nil:
		req.Body = spec.BodyFunc(snap)
	default:
		req.Body = spec.Body
	}
	return req
}

// substituteParams replaces ":name" path segments with call params. Segments
// without a matching param are left untouched.
func substituteParams(url string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(url, ":") {
		return url
	}
	path := url
	var query string
	if i := strings.IndexByte(url, '?'); i >= 0 {
		path, query = url[:i], url[i:]
	}
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if len(seg) > 1 && seg[0] == ':' {
			if v, ok := params[seg[1:]]; ok {
				segs[i] = v
			}
		}
	}
	return strings.Join(segs, "/") + query
}

// mergeKV overlays b onto a copy of a; nil inputs are tolerated.
func mergeKV(a, b map[string]string) map[string]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// defaultCommitMode derives the commit mode from the request method and the
// target kind:
//
//	method   unit    collection
//	GET      set     set
//	POST     set     add
//	PUT      set     patch
//	PATCH    patch   patch
//	DELETE   remove  remove
//
// Handler-only actions (no method) default to set.
func defaultCommitMode(method string, kind types.Kind) types.CommitMode {
	switch strings.ToUpper(method) {
	case "POST":
		if kind == types.KindCollection {
			return types.CommitAdd
		}
		return types.CommitSet
	case "PUT":
		if kind == types.KindCollection {
			return types.CommitPatch
		}
		return types.CommitSet
	case "PATCH":
		return types.CommitPatch
	case "DELETE":
		return types.CommitRemove
	default:
		return types.CommitSet
	}
}
