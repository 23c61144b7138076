// Package properties gives recipes read access to the flat property bag of
// the current run.
package properties

import (
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/bakeware/recipekit/internal/composer"
	"github.com/bakeware/recipekit/internal/inject"
	"github.com/bakeware/recipekit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Properties is the capability instance: a read-only view over the run's
// property bag.
type Properties struct {
	bag map[string]cty.Value
}

// Get returns the property under name, if supplied.
func (p *Properties) Get(name string) (cty.Value, bool) {
	v, ok := p.bag[name]
	return v, ok
}

// Names returns the supplied property names, sorted.
func (p *Properties) Names() []string {
	names := make([]string, 0, len(p.bag))
	for name := range p.bag {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProperties is the constructor designated by the module manifest. It
// reaches the run's bag through the engine context extra.
func NewProperties(call *inject.Call) (any, error) {
	raw, _ := call.Extra("engine")
	eng := raw.(*composer.Engine)
	return &Properties{bag: eng.Properties}, nil
}

// TestDouble serves a simulated property bag sourced from the module's
// slice of the recipe test data.
type TestDouble struct {
	values map[string]cty.Value
}

// Get returns the simulated property under name.
func (d *TestDouble) Get(name string) (cty.Value, bool) {
	v, ok := d.values[name]
	return v, ok
}

// NewTestDouble is the test-double constructor designated by the manifest.
func NewTestDouble(call *inject.Call) (any, error) {
	d := &TestDouble{values: map[string]cty.Value{}}
	if raw, ok := call.Extra("test_data"); ok {
		td := raw.(composer.ModuleTestData)
		if td.Enabled {
			d.values = td.Values
		}
	}
	return d, nil
}

// Register registers the constructors with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCapability("Properties", &registry.Capability{New: NewProperties})
	r.RegisterTestDouble("PropertiesTestDouble", &registry.TestDouble{New: NewTestDouble})
}
