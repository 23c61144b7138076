package registry

import (
	"fmt"
	"log/slog"

	"github.com/bakeware/recipekit/internal/inject"
)

// Module is the interface a compiled recipe module implements to expose its
// constructors to the engine. A module's manifest designates these by the
// names used at registration.
type Module interface {
	Register(r *Registry)
}

// Capability holds the compiled Go side of a module's capability class.
type Capability struct {
	// New constructs the production instance from the resolved arguments.
	New inject.Constructor
}

// TestDouble holds the compiled Go side of a module's test double. Its
// constructor receives the owning module definition as the "module" extra.
type TestDouble struct {
	New inject.Constructor
}

// Registry maps the names used in module manifests to compiled constructors
// and config-context objects for a single engine instance.
type Registry struct {
	capabilities   map[string]*Capability
	testDoubles    map[string]*TestDouble
	configContexts map[string]any
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		capabilities:   make(map[string]*Capability),
		testDoubles:    make(map[string]*TestDouble),
		configContexts: make(map[string]any),
	}
}

// RegisterCapability registers a capability constructor under name.
// Registering the same name twice is a programmer error and panics.
func (r *Registry) RegisterCapability(name string, c *Capability) {
	if c == nil || c.New == nil {
		panic(fmt.Sprintf("capability %q registered without a constructor", name))
	}
	if _, exists := r.capabilities[name]; exists {
		panic(fmt.Sprintf("capability %q already registered", name))
	}
	slog.Debug("Registering capability constructor.", "name", name)
	r.capabilities[name] = c
}

// RegisterTestDouble registers a test-double constructor under name.
func (r *Registry) RegisterTestDouble(name string, d *TestDouble) {
	if d == nil || d.New == nil {
		panic(fmt.Sprintf("test double %q registered without a constructor", name))
	}
	if _, exists := r.testDoubles[name]; exists {
		panic(fmt.Sprintf("test double %q already registered", name))
	}
	slog.Debug("Registering test double constructor.", "name", name)
	r.testDoubles[name] = d
}

// RegisterConfigContext registers a module's configuration-context object
// under name. The object is opaque to the loader; the configuration merging
// subsystem consumes it.
func (r *Registry) RegisterConfigContext(name string, ctx any) {
	if ctx == nil {
		panic(fmt.Sprintf("config context %q registered as nil", name))
	}
	if _, exists := r.configContexts[name]; exists {
		panic(fmt.Sprintf("config context %q already registered", name))
	}
	slog.Debug("Registering config context.", "name", name)
	r.configContexts[name] = ctx
}

// Capability looks up a registered capability constructor.
func (r *Registry) Capability(name string) (*Capability, bool) {
	c, ok := r.capabilities[name]
	return c, ok
}

// TestDouble looks up a registered test-double constructor.
func (r *Registry) TestDouble(name string) (*TestDouble, bool) {
	d, ok := r.testDoubles[name]
	return d, ok
}

// ConfigContext looks up a registered config-context object.
func (r *Registry) ConfigContext(name string) (any, bool) {
	c, ok := r.configContexts[name]
	return c, ok
}
