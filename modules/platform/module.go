// Package platform exposes the host platform to recipes: the operating
// system and CPU architecture the run executes on, overridable through
// properties for cross-platform simulation.
package platform

import (
	"runtime"

	"github.com/bakeware/recipekit/internal/composer"
	"github.com/bakeware/recipekit/internal/inject"
	"github.com/bakeware/recipekit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Platform is the capability instance modules and recipes consume.
type Platform struct {
	// OS and Arch default to the values of the running binary; a supplied
	// property or simulation test data overrides them.
	OS   string
	Arch string
}

// Is64Bit reports whether the platform uses 64-bit pointers.
func (p *Platform) Is64Bit() bool {
	switch p.Arch {
	case "amd64", "arm64", "riscv64", "ppc64", "ppc64le", "s390x":
		return true
	}
	return false
}

// NewPlatform is the constructor designated by the module manifest.
func NewPlatform(call *inject.Call) (any, error) {
	p := &Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}

	if v := call.Value("os_name"); v.AsString() != "" {
		p.OS = v.AsString()
	}
	if v := call.Value("arch"); v.AsString() != "" {
		p.Arch = v.AsString()
	}

	// Simulation data wins over everything.
	if raw, ok := call.Extra("test_data"); ok {
		td := raw.(composer.ModuleTestData)
		if v, ok := td.Get("os_name"); ok {
			p.OS = v.AsString()
		}
		if v, ok := td.Get("arch"); ok {
			p.Arch = v.AsString()
		}
	}

	return p, nil
}

// Register registers the constructor with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCapability("Platform", &registry.Capability{New: NewPlatform})
}
