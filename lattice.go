// Package lattice assembles per-route middleware chains. Applications
// register named middleware generators in a Registry, describe their
// endpoints as Routes, and a Builder walks the registry in registration
// order to decide which middleware participates in each route's chain and
// in which order, then registers the assembled chains on a router.
package lattice

import (
	"context"
	"encoding/json"
	"net/http"
)

// Handler takes context and request, returns a Response
type Handler func(ctx context.Context, r *http.Request) Response

// Response knows how to write itself to http.ResponseWriter
type Response interface {
	Write(ctx context.Context, w http.ResponseWriter) error
}

// Middleware wraps a Handler and returns a new Handler.
// Middleware can intercept requests before they reach the handler,
// modify the context, short-circuit the request, or wrap the response.
type Middleware func(Handler) Handler

// Compose builds a middleware chain that executes in the order provided.
// The middlewares are applied right-to-left so they execute left-to-right.
//
// Example:
//
//	Compose(handler, logging, auth, rateLimit)
//	Execution order: logging -> auth -> rateLimit -> handler
func Compose(handler Handler, middlewares ...Middleware) Handler {
	final := handler

	// Wrap in reverse order so they execute in the order provided
	for i := len(middlewares) - 1; i >= 0; i-- {
		final = middlewares[i](final)
	}

	return final
}

// Decorator wraps a single chain link, keyed by the link's middleware name.
// Implementations must keep the handler signature intact and return whatever
// the wrapped handler returned, so decoration stays invisible to the chain.
type Decorator func(label string, next Handler) Handler

// --- Response implementations ---

type JSONResponse struct {
	StatusCode int
	Data       any
}

func (r JSONResponse) Write(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.StatusCode)
	return json.NewEncoder(w).Encode(r.Data)
}

func JSON(statusCode int, data any) Response {
	return JSONResponse{StatusCode: statusCode, Data: data}
}

func Error(data any) Response {
	return JSONResponse{StatusCode: 500, Data: data}
}
