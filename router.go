package lattice

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// Entry records one registered chain, for introspection.
type Entry struct {
	Method string
	Path   string
	Links  int
}

// Mux adapts a gorilla/mux router to the Registrar contract. Each chain is
// composed into a single handler and registered for its method+path pair.
type Mux struct {
	router  *mux.Router
	entries []Entry
}

// NewMux returns a Mux over a fresh gorilla/mux router.
func NewMux() *Mux {
	return &Mux{router: mux.NewRouter()}
}

// Handle composes the chain's links around a JSON 404 terminal and
// registers the result. A chain whose controller link never defers to the
// rest of the chain short-circuits before the terminal is reached.
func (m *Mux) Handle(c Chain) error {
	handler := Compose(unrouted, c.Links...)

	m.router.HandleFunc(c.Path, func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		resp := handler(ctx, req)
		if resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := resp.Write(ctx, w); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}).Methods(strings.ToUpper(c.Method))

	m.entries = append(m.entries, Entry{Method: c.Method, Path: c.Path, Links: len(c.Links)})
	return nil
}

// unrouted terminates chains that carry no controller link.
func unrouted(ctx context.Context, r *http.Request) Response {
	return JSON(http.StatusNotFound, map[string]string{"error": "no handler for route"})
}

// Entries returns a copy of the registration record, in registration order.
func (m *Mux) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of registered chains.
func (m *Mux) Len() int {
	return len(m.entries)
}

// Router exposes the underlying gorilla/mux router for serving.
func (m *Mux) Router() *mux.Router {
	return m.router
}
