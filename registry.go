package lattice

import "fmt"

// Registry is an ordered, append-only collection of middleware descriptors.
// Registration order is significant: chains list middleware in the order
// their descriptors were added. Create one per configuration and hand it to
// a Builder; nothing here is process-global.
//
// Registries are meant to be populated once at startup and read thereafter.
// They are not safe for concurrent mutation.
type Registry struct {
	entries []Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add validates the descriptor and appends it to the registry. A missing
// name or generator fails with a ValidationError. Duplicate names are
// accepted: both descriptors run, in registration order, reading the same
// route configuration value.
func (r *Registry) Add(d Descriptor) error {
	if d.Name == "" {
		return &ValidationError{Kind: KindMalformedDescriptor, Reason: "descriptor name is required"}
	}
	if d.Generate == nil {
		return &ValidationError{Kind: KindMalformedDescriptor, Name: d.Name, Reason: "descriptor generator is required"}
	}
	r.entries = append(r.entries, d)
	return nil
}

// AddAll adds descriptors in order. The first failure aborts and is
// returned with the failing index; descriptors added before it stay
// registered. There is no rollback.
func (r *Registry) AddAll(ds []Descriptor) error {
	for i, d := range ds {
		if err := r.Add(d); err != nil {
			return fmt.Errorf("descriptor %d: %w", i, err)
		}
	}
	return nil
}

// List returns an ordered snapshot of the registered descriptors. The slice
// is a copy; mutating it does not affect the registry.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	return len(r.entries)
}
