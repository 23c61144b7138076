package universe

import (
	"github.com/bakeware/recipekit/internal/inject"
	"github.com/bakeware/recipekit/internal/registry"
)

// Definition is the resolved, patched-up descriptor for one module: the
// product of parsing its manifest, loading its transitive dependencies and
// resolving its designated constructors against the registry.
type Definition struct {
	// ID is the module's unique identity: the canonical absolute path of
	// its directory.
	ID string

	// Name is the module's display name, the final path segment of ID.
	Name        string
	Description string

	// Capability is the resolved production constructor; CapabilityName is
	// the manifest's designation. Params is the ordered constructor
	// parameter list declared by the manifest.
	Capability     *registry.Capability
	CapabilityName string
	Params         []string

	// TestDouble is nil when the module declares none; the composer then
	// substitutes an empty default double.
	TestDouble     *registry.TestDouble
	TestDoubleName string

	// ConfigContext is the module's opaque configuration context, nil when
	// not declared.
	ConfigContext     any
	ConfigContextName string

	Properties map[string]inject.Property

	// DepOrder is the declaration order of the local dependency names;
	// Deps maps each to its loaded definition.
	DepOrder []string
	Deps     map[string]*Definition
}
