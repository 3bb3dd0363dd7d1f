package types

import (
	"context"
	"time"
)

// Request is a fully resolved remote call description handed to a Transport.
type Request struct {
	Method  string            // HTTP-like verb (GET, POST, PUT, PATCH, DELETE).
	URL     string            // Absolute or transport-relative URL, placeholders already substituted.
	Header  map[string]string // Header name to value.
	Query   map[string]string // Query parameter name to value.
	Body    any               // Encoded by the transport; nil means no body.
	Timeout time.Duration     // Per-call deadline; zero means no transport-level deadline.
}

// Response is the outcome of a successful transport execution.
type Response struct {
	StatusCode int    // Status code of the reply.
	Body       []byte // Raw reply body.
	Value      any    // Decoded reply body; nil when the body is empty or undecodable.
}

// Transport executes resolved requests. Implementations must return a
// *TransportError for non-success status replies and must honor context
// cancellation and the request timeout.
type Transport interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

// ShapeInfo is the explicit per-field metadata table describing an entity
// type: declared fields, the identifier field, wire-name aliases, and
// default-value factories.
type ShapeInfo struct {
	Name       string
	Fields     []string
	Identifier string
	Aliases    map[string]string     // Internal field name to wire name.
	Defaults   map[string]func() any // Field name to default factory.
}
