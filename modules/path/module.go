// Package path hands recipes platform-aware filesystem locations: a
// temporary directory plus named base directories remappable through the
// module's config context.
package path

import (
	"os"
	gopath "path"

	"github.com/bakeware/recipekit/internal/inject"
	"github.com/bakeware/recipekit/internal/registry"
	"github.com/bakeware/recipekit/internal/universe"
	"github.com/bakeware/recipekit/modules/platform"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config is the config context registered as "PathConfig". The configuration
// merging subsystem fills BaseDirs per named directory.
type Config struct {
	// BaseDirs maps the names declared in config_definitions to absolute
	// directories.
	BaseDirs map[string]string
}

// Paths is the capability instance.
type Paths struct {
	platform *platform.Platform
	tempDir  string
	baseDirs map[string]string
}

// TempDir returns the run's temporary directory.
func (p *Paths) TempDir() string {
	return p.tempDir
}

// Base returns the configured base directory under name.
func (p *Paths) Base(name string) (string, bool) {
	dir, ok := p.baseDirs[name]
	return dir, ok
}

// Join joins path elements with forward slashes. Recipe-visible paths are
// slash-separated regardless of host platform.
func (p *Paths) Join(elem ...string) string {
	return gopath.Join(elem...)
}

// Separator returns the target platform's path separator.
func (p *Paths) Separator() string {
	if p.platform.OS == "windows" {
		return `\`
	}
	return "/"
}

// NewPaths is the constructor designated by the module manifest.
func NewPaths(call *inject.Call) (any, error) {
	raw, _ := call.Extra("platform")
	plat := raw.(*platform.Platform)

	tempDir := call.Value("temp_dir").AsString()
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	p := &Paths{platform: plat, tempDir: tempDir, baseDirs: map[string]string{}}

	// The merged base directories arrive through the module's config
	// context.
	if raw, ok := call.Extra("module"); ok {
		def := raw.(*universe.Definition)
		if cfg, ok := def.ConfigContext.(*Config); ok {
			for name, dir := range cfg.BaseDirs {
				p.baseDirs[name] = dir
			}
		}
	}
	return p, nil
}

// TestDouble serves deterministic fake locations so simulated runs never
// touch the host filesystem layout.
type TestDouble struct {
	Def *universe.Definition
}

// TempDir returns the simulated temporary directory.
func (d *TestDouble) TempDir() string {
	return "/tmp"
}

// NewTestDouble is the test-double constructor designated by the manifest.
func NewTestDouble(call *inject.Call) (any, error) {
	raw, _ := call.Extra("module")
	return &TestDouble{Def: raw.(*universe.Definition)}, nil
}

// Register registers the constructors and the config context with the
// engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCapability("Paths", &registry.Capability{New: NewPaths})
	r.RegisterTestDouble("PathTestDouble", &registry.TestDouble{New: NewTestDouble})
	r.RegisterConfigContext("PathConfig", &Config{BaseDirs: map[string]string{}})
}
