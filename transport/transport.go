// Package transport issues the HTTP requests of the client. Resource
// services depend only on the Transport interface; the HTTP implementation
// carries the retry, circuit-breaker, and observability concerns.
package transport

import (
	"context"
	"encoding/json"
	"net/url"
)

// Transport performs one gateway request and returns the raw response body.
// Failures surface as *apierror.TransportError; the caller is expected to
// parse the body defensively.
type Transport interface {
	Request(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error)
}

// Func adapts a function to the Transport interface. Used by tests.
type Func func(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error)

func (f Func) Request(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	return f(ctx, method, path, query, body)
}
