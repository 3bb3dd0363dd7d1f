// Package transport provides the default HTTP transport the action engine
// dispatches through. Bodies are JSON both ways; non-success replies become
// typed transport errors carrying status and body.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// HTTP executes requests against a JSON API.
type HTTP struct {
	// BaseURL prefixes relative request URLs.
	BaseURL string

	// Client is the underlying HTTP client; nil uses a default with a
	// 30 second timeout.
	Client *http.Client

	// Logger receives debug-level request records; nil uses
	// slog.Default().
	Logger *slog.Logger
}

// New creates an HTTP transport for the given base URL.
func New(baseURL string) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Execute implements types.Transport. The request timeout, when set, bounds
// this call through the context. Replies outside the 2xx range return a
// *types.TransportError with the status code and raw body.
func (h *HTTP) Execute(ctx context.Context, req types.Request) (types.Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	target := req.URL
	if h.BaseURL != "" && !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = h.BaseURL + "/" + strings.TrimLeft(target, "/")
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return types.Response{}, &types.TransportError{Err: fmt.Errorf("encode body: %w", err)}
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return types.Response{}, &types.TransportError{Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}
	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	h.logger().Debug("http request", "method", req.Method, "url", httpReq.URL.String())
	resp, err := h.client().Do(httpReq)
	if err != nil {
		// Surface context outcomes unwrapped so callers can map them
		// to timeout and cancellation errors.
		if ctx.Err() != nil {
			return types.Response{}, ctx.Err()
		}
		return types.Response{}, &types.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Response{}, &types.TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.Response{}, &types.TransportError{StatusCode: resp.StatusCode, Body: raw}
	}

	out := types.Response{StatusCode: resp.StatusCode, Body: raw}
	if len(raw) > 0 {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			out.Value = decoded
		}
	}
	return out, nil
}

func (h *HTTP) client() *http.Client {
	if h.Client != nil {
		return h.Client
	}
	return http.DefaultClient
}

func (h *HTTP) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
