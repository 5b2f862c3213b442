package lattice

import (
	"fmt"
	"strings"
)

// Chain is the assembled middleware sequence for one method+path pair, in
// the exact order the router should run it. Names parallels Links with each
// link's middleware name.
type Chain struct {
	Method string
	Path   string
	Links  []Middleware
	Names  []string
}

// Registrar is the router collaborator: it accepts one assembled chain per
// method+path pair and keeps an introspectable record of what it
// registered. Mux is the gorilla/mux implementation.
type Registrar interface {
	Handle(c Chain) error
}

// Builder assembles chains from a registry. Every included link is wrapped
// by the builder's decorator, keyed by the middleware's name; the default
// decorator traces start, error and completion through the standard logger.
type Builder struct {
	registry *Registry
	decorate Decorator
}

// NewBuilder returns a builder over the given registry.
func NewBuilder(reg *Registry) *Builder {
	return &Builder{registry: reg, decorate: TraceDecorator(nil)}
}

// Decorate replaces the per-link decorator and returns the builder. A nil
// decorator disables wrapping.
func (b *Builder) Decorate(d Decorator) *Builder {
	b.decorate = d
	return b
}

// BuildChain assembles the chain for one route. It walks the registry in
// registration order and, per descriptor:
//
//  1. If the policy contains "required" and the route has no configuration
//     value for the name, the whole build fails. No partial chain.
//  2. The route's Include override, when set, pins the decision.
//  3. Otherwise the descriptor is included when its policy contains "all",
//     contains a token equal to the route's lowercased method, or the route
//     carries a configuration value for the name.
//
// Included generators are invoked with the route's value for their name
// (possibly nil), so every chain gets freshly configured links.
func (b *Builder) BuildChain(rt Route) (Chain, error) {
	if rt.Path == "" {
		return Chain{}, &ValidationError{Kind: KindMalformedRoute, Reason: "route path is required"}
	}
	if rt.Method == "" {
		return Chain{}, &ValidationError{Kind: KindMalformedRoute, Name: rt.Path, Reason: "route method is required"}
	}

	method := strings.ToLower(rt.Method)
	chain := Chain{Method: method, Path: rt.Path}

	for _, d := range b.registry.List() {
		cfg, present := rt.value(d.Name)

		if d.Policy.contains(IncludeRequired) && !present {
			return Chain{}, &ValidationError{
				Kind:   KindMissingRequired,
				Name:   d.Name,
				Reason: fmt.Sprintf("%s is a required configuration", d.Name),
			}
		}

		switch rt.Include[d.Name] {
		case ForcedOut:
			continue
		case ForcedIn:
			// include regardless of policy
		default:
			if !d.Policy.contains(IncludeAll) && !d.Policy.contains(method) && !present {
				continue
			}
		}

		link := d.Generate(cfg)
		if b.decorate != nil {
			link = decorateLink(d.Name, link, b.decorate)
		}
		chain.Links = append(chain.Links, link)
		chain.Names = append(chain.Names, d.Name)
	}

	return chain, nil
}

// decorateLink wraps the handler a link produces, keyed by the link's name.
// The decoration happens when the chain is composed, so the decorator sees
// the fully built handler for that link.
func decorateLink(name string, m Middleware, d Decorator) Middleware {
	return func(next Handler) Handler {
		return d(name, m(next))
	}
}

// BuildRouter assembles and registers a chain for every route, in input
// order. The first failure aborts and is returned; routes registered before
// it stay registered on the registrar. There is no rollback: callers treat
// these errors as fatal at startup.
func (b *Builder) BuildRouter(r Registrar, routes []Route) error {
	for _, rt := range routes {
		chain, err := b.BuildChain(rt)
		if err != nil {
			return fmt.Errorf("route %s %s: %w", rt.Method, rt.Path, err)
		}
		if err := r.Handle(chain); err != nil {
			return fmt.Errorf("route %s %s: %w", rt.Method, rt.Path, err)
		}
	}
	return nil
}
