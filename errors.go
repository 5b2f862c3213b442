package lattice

import "fmt"

// ErrorKind distinguishes the configuration failures this package raises,
// so callers can branch on cause without parsing messages.
type ErrorKind int

const (
	// KindMalformedDescriptor: a descriptor handed to the registry is
	// missing its name or generator.
	KindMalformedDescriptor ErrorKind = iota
	// KindMalformedRoute: a route descriptor is missing its path or method.
	KindMalformedRoute
	// KindMissingRequired: a required-policy middleware has no
	// configuration value on the route being built.
	KindMissingRequired
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedDescriptor:
		return "malformed descriptor"
	case KindMalformedRoute:
		return "malformed route"
	case KindMissingRequired:
		return "missing required configuration"
	default:
		return "validation error"
	}
}

// ValidationError reports a configuration failure. These surface
// synchronously to the caller and are never recovered internally: they are
// programmer errors, typically fatal at startup.
type ValidationError struct {
	Kind   ErrorKind
	Name   string // middleware or route element the failure concerns, when known
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Name, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}
