package lattice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func badgerRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	if err := reg.Add(Descriptor{Name: HandlerKey, Policy: Policy{IncludeRequired}, Generate: Controller}); err != nil {
		t.Fatalf("Registry setup failed: %v", err)
	}
	return reg
}

func badgerHandler(ctx context.Context, r *http.Request) Response {
	return JSON(200, map[string]string{"animal": "badger"})
}

func TestBuildRouter_OneChainPerRoute(t *testing.T) {
	router := NewMux()
	err := quietBuilder(badgerRegistry(t)).BuildRouter(router, []Route{
		{Method: "get", Path: "/badgers", Handler: badgerHandler},
		{Method: "post", Path: "/badgers", Handler: badgerHandler},
	})
	if err != nil {
		t.Fatalf("BuildRouter failed: %v", err)
	}

	if router.Len() != 2 {
		t.Fatalf("Expected 2 registered chains, got %d", router.Len())
	}

	entries := router.Entries()
	if entries[0].Method != "get" || entries[1].Method != "post" {
		t.Errorf("Expected [get post], got [%s %s]", entries[0].Method, entries[1].Method)
	}
	if entries[0].Path != "/badgers" || entries[1].Path != "/badgers" {
		t.Errorf("Expected both paths /badgers, got %v", entries)
	}
}

func TestBuildRouter_PartialOnFailure(t *testing.T) {
	router := NewMux()
	err := quietBuilder(badgerRegistry(t)).BuildRouter(router, []Route{
		{Method: "get", Path: "/badgers", Handler: badgerHandler},
		{Path: "/broken", Handler: badgerHandler}, // no method
		{Method: "post", Path: "/badgers", Handler: badgerHandler},
	})
	if err == nil {
		t.Fatal("Should fail on the malformed route")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError through the wrap, got %T", err)
	}
	if verr.Kind != KindMalformedRoute {
		t.Errorf("Expected malformed route kind, got %v", verr.Kind)
	}

	// The route before the failure stays registered; no rollback.
	if router.Len() != 1 {
		t.Errorf("Expected 1 registered chain, got %d", router.Len())
	}
}

func TestMux_ServesComposedChain(t *testing.T) {
	router := NewMux()
	err := quietBuilder(badgerRegistry(t)).BuildRouter(router, []Route{
		{Method: "get", Path: "/badgers", Handler: badgerHandler},
	})
	if err != nil {
		t.Fatalf("BuildRouter failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/badgers", nil))

	if rec.Code != 200 {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
}

func TestMux_MethodScoped(t *testing.T) {
	router := NewMux()
	err := quietBuilder(badgerRegistry(t)).BuildRouter(router, []Route{
		{Method: "get", Path: "/badgers", Handler: badgerHandler},
	})
	if err != nil {
		t.Fatalf("BuildRouter failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.Router().ServeHTTP(rec, httptest.NewRequest("DELETE", "/badgers", nil))

	if rec.Code == 200 {
		t.Error("A get chain should not serve DELETE requests")
	}
}

func TestMux_UnroutedTerminal(t *testing.T) {
	// A chain with no controller link falls through to the 404 terminal.
	router := NewMux()
	chain, err := quietBuilder(NewRegistry()).BuildChain(Route{Method: "get", Path: "/empty"})
	if err != nil {
		t.Fatalf("BuildChain failed: %v", err)
	}
	if err := router.Handle(chain); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/empty", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 from the terminal, got %d", rec.Code)
	}
}

func TestMux_ShortCircuitSkipsController(t *testing.T) {
	reg := NewRegistry()
	deny := func(cfg any) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, r *http.Request) Response {
				return JSON(http.StatusForbidden, map[string]string{"error": "denied"})
			}
		}
	}
	if err := reg.AddAll([]Descriptor{
		{Name: "deny", Policy: Policy{IncludeAll}, Generate: deny},
		{Name: HandlerKey, Policy: Policy{IncludeRequired}, Generate: Controller},
	}); err != nil {
		t.Fatalf("Registry setup failed: %v", err)
	}

	router := NewMux()
	err := quietBuilder(reg).BuildRouter(router, []Route{
		{Method: "get", Path: "/badgers", Handler: badgerHandler},
	})
	if err != nil {
		t.Fatalf("BuildRouter failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/badgers", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected the denying link to short-circuit with 403, got %d", rec.Code)
	}
}
