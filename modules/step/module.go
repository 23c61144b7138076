// Package step lets recipes describe the shell steps of a run. The loader
// composes the capability graph; actual step execution belongs to the
// runtime sitting above it, so the capability records the planned steps.
package step

import (
	"fmt"
	"time"

	"github.com/bakeware/recipekit/internal/composer"
	"github.com/bakeware/recipekit/internal/inject"
	"github.com/bakeware/recipekit/internal/registry"
	"github.com/bakeware/recipekit/internal/universe"
	"github.com/bakeware/recipekit/modules/path"
	"github.com/bakeware/recipekit/modules/properties"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Record is one planned step.
type Record struct {
	Name    string
	Cmd     []string
	Cwd     string
	Timeout time.Duration
}

// Steps is the capability instance.
type Steps struct {
	paths          *path.Paths
	props          *properties.Properties
	defaultTimeout time.Duration

	records []Record
}

// Plan records a step with the default timeout.
func (s *Steps) Plan(name string, cmd ...string) *Record {
	return s.PlanIn("", name, cmd...)
}

// PlanIn records a step running in the given working directory.
func (s *Steps) PlanIn(cwd, name string, cmd ...string) *Record {
	s.records = append(s.records, Record{
		Name:    name,
		Cmd:     cmd,
		Cwd:     cwd,
		Timeout: s.defaultTimeout,
	})
	return &s.records[len(s.records)-1]
}

// Records returns the planned steps in plan order.
func (s *Steps) Records() []Record {
	return append([]Record(nil), s.records...)
}

// NewSteps is the constructor designated by the module manifest.
func NewSteps(call *inject.Call) (any, error) {
	rawPaths, _ := call.Extra("path")
	rawProps, _ := call.Extra("properties")

	var timeout float64
	if err := call.Decode("default_timeout", &timeout); err != nil {
		return nil, fmt.Errorf("default_timeout: %w", err)
	}

	return &Steps{
		paths:          rawPaths.(*path.Paths),
		props:          rawProps.(*properties.Properties),
		defaultTimeout: time.Duration(timeout * float64(time.Second)),
	}, nil
}

// TestDouble simulates the step capability: it pre-seeds step outcomes from
// the module's slice of the recipe test data.
type TestDouble struct {
	Def      *universe.Definition
	Outcomes composer.ModuleTestData
}

// NewTestDouble is the test-double constructor designated by the manifest.
func NewTestDouble(call *inject.Call) (any, error) {
	raw, _ := call.Extra("module")
	td := &TestDouble{Def: raw.(*universe.Definition)}
	if raw, ok := call.Extra("test_data"); ok {
		td.Outcomes = raw.(composer.ModuleTestData)
	}
	return td, nil
}

// Register registers the constructors with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCapability("Steps", &registry.Capability{New: NewSteps})
	r.RegisterTestDouble("StepTestDouble", &registry.TestDouble{New: NewTestDouble})
}
