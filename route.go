package lattice

// Inclusion is a route's explicit per-middleware override. The zero value
// leaves the decision to the middleware's policy and the route's
// configuration; ForcedIn and ForcedOut pin it either way.
type Inclusion int

const (
	// PolicyDecided defers to the descriptor's policy and configuration
	// presence. This is the zero value.
	PolicyDecided Inclusion = iota
	// ForcedIn includes the middleware regardless of policy.
	ForcedIn
	// ForcedOut excludes the middleware regardless of policy. Required
	// middleware must still be configured on the route.
	ForcedOut
)

// HandlerKey is the conventional configuration key for a route's terminal
// controller. A Route's Handler field is exposed under this key.
const HandlerKey = "handler"

// Route describes one endpoint: its method and path, its terminal handler,
// and per-middleware configuration keyed by middleware name. A key's
// presence in Config opts the named middleware into the chain and its value
// is what the middleware's generator receives.
type Route struct {
	Method  string
	Path    string
	Handler Handler
	Config  map[string]any
	Include map[string]Inclusion
}

// value returns the route's configuration value for a middleware name and
// whether one is present. A non-nil Handler counts as the value for
// HandlerKey unless Config overrides it.
func (rt Route) value(name string) (any, bool) {
	if v, ok := rt.Config[name]; ok {
		return v, true
	}
	if name == HandlerKey && rt.Handler != nil {
		return rt.Handler, true
	}
	return nil, false
}
