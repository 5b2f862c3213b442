// Package manifest loads a declarative middleware and route manifest from a
// TOML file and binds it to code-level generators and handlers. The
// manifest owns ordering and policy; the application owns the functions.
package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/kmartindale/lattice"
)

// DefaultPath is where LoadDefault looks when LATTICE_MANIFEST is unset.
const DefaultPath = "lattice.toml"

// MiddlewareDecl declares one registry entry: its name and inclusion
// policy. The generator itself is code, bound by name through
// Manifest.Registry. The include value may be a single token or a list:
//
//	[[middleware]]
//	name = "metrics"
//	include = "all"
//
//	[[middleware]]
//	name = "authorization"
//	include = ["get", "post"]
type MiddlewareDecl struct {
	Name    string         `toml:"name"`
	Include lattice.Policy `toml:"include"`
}

// RouteDecl declares one route: method, path, the name of its controller
// (bound through Manifest.RouteList), per-middleware configuration, and
// explicit inclusion overrides.
type RouteDecl struct {
	Method   string         `toml:"method"`
	Path     string         `toml:"path"`
	Handler  string         `toml:"handler"`
	Config   map[string]any `toml:"config"`
	ForceIn  []string       `toml:"force_in"`
	ForceOut []string       `toml:"force_out"`
}

// Manifest is the decoded manifest file: middleware in registration order,
// routes in registration order.
type Manifest struct {
	Middleware []MiddlewareDecl `toml:"middleware"`
	Routes     []RouteDecl      `toml:"routes"`
}

// Load reads and decodes the manifest at path. Unlike an optional settings
// file, a missing manifest is an error: there is nothing to assemble
// without one.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &m, nil
}

// LoadDefault loads the manifest named by the LATTICE_MANIFEST environment
// variable, falling back to DefaultPath.
func LoadDefault() (*Manifest, error) {
	path := os.Getenv("LATTICE_MANIFEST")
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// Registry binds the declared middleware names to generators, preserving
// the declared order. Every declared name must have a generator in the map.
func (m *Manifest) Registry(generators map[string]lattice.Generator) (*lattice.Registry, error) {
	reg := lattice.NewRegistry()
	for _, decl := range m.Middleware {
		gen, ok := generators[decl.Name]
		if !ok {
			return nil, fmt.Errorf("middleware %q: no generator bound", decl.Name)
		}
		if err := reg.Add(lattice.Descriptor{Name: decl.Name, Policy: decl.Include, Generate: gen}); err != nil {
			return nil, fmt.Errorf("middleware %q: %w", decl.Name, err)
		}
	}
	return reg, nil
}

// RouteList converts the declared routes, resolving controller names
// against the handlers map. Routes that declare no handler pass through
// with none; routes that name an unknown handler fail.
func (m *Manifest) RouteList(handlers map[string]lattice.Handler) ([]lattice.Route, error) {
	routes := make([]lattice.Route, 0, len(m.Routes))
	for _, decl := range m.Routes {
		rt := lattice.Route{Method: decl.Method, Path: decl.Path, Config: decl.Config}

		if decl.Handler != "" {
			h, ok := handlers[decl.Handler]
			if !ok {
				return nil, fmt.Errorf("route %s %s: no handler named %q", decl.Method, decl.Path, decl.Handler)
			}
			rt.Handler = h
		}

		if len(decl.ForceIn)+len(decl.ForceOut) > 0 {
			rt.Include = make(map[string]lattice.Inclusion, len(decl.ForceIn)+len(decl.ForceOut))
			for _, name := range decl.ForceIn {
				rt.Include[name] = lattice.ForcedIn
			}
			for _, name := range decl.ForceOut {
				rt.Include[name] = lattice.ForcedOut
			}
		}

		routes = append(routes, rt)
	}
	return routes, nil
}
