package lattice

import (
	"context"
	"fmt"
	"net/http"
)

// Inclusion-policy tokens. Any other token is matched against the route's
// lowercased HTTP method, so "get" includes the middleware on GET routes.
const (
	// IncludeAll includes the middleware in every route's chain.
	IncludeAll = "all"
	// IncludeRequired demands a configuration value for the middleware on
	// every route; building a chain without one fails.
	IncludeRequired = "required"
	// IncludeOptional includes the middleware only when the route carries a
	// configuration value for it. Configuration presence opts a middleware
	// in regardless of policy, so the token is documentation more than
	// mechanism, but manifests read better with it.
	IncludeOptional = "optional"
)

// Generator is a middleware factory. It receives the route's configuration
// value for the middleware's name (possibly nil) and returns a freshly
// configured chain link. Generators run at chain-build time, never at
// registration time.
type Generator func(cfg any) Middleware

// Policy is a descriptor's inclusion policy in normalized sequence form.
// Zero, one, or many tokens.
type Policy []string

func (p Policy) contains(token string) bool {
	for _, t := range p {
		if t == token {
			return true
		}
	}
	return false
}

// UnmarshalTOML accepts either a single token or a list of tokens, so a
// manifest may write include = "all" or include = ["get", "post"].
func (p *Policy) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case string:
		*p = Policy{t}
		return nil
	case []any:
		tokens := make(Policy, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("policy token must be a string, got %T", e)
			}
			tokens = append(tokens, s)
		}
		*p = tokens
		return nil
	default:
		return fmt.Errorf("policy must be a string or a list of strings, got %T", v)
	}
}

// Descriptor names one middleware, its inclusion policy, and the generator
// that produces its chain links. Descriptors are immutable once registered.
type Descriptor struct {
	Name     string
	Policy   Policy
	Generate Generator
}

// Controller is the generator for the conventional "handler" middleware: it
// turns a route's terminal handler into a chain link. The link ignores the
// rest of the chain; the controller is where a request ends.
//
// Register it required so every route must name its controller:
//
//	reg.Add(lattice.Descriptor{
//	    Name:     lattice.HandlerKey,
//	    Policy:   lattice.Policy{lattice.IncludeRequired},
//	    Generate: lattice.Controller,
//	})
func Controller(cfg any) Middleware {
	var h Handler
	switch v := cfg.(type) {
	case Handler:
		h = v
	case func(context.Context, *http.Request) Response:
		h = v
	default:
		h = func(ctx context.Context, r *http.Request) Response {
			return JSON(http.StatusInternalServerError, map[string]string{
				"error": "route handler is not a lattice.Handler",
			})
		}
	}
	return func(Handler) Handler { return h }
}
