// Package manifest parses the HCL defining files of one recipe module
// directory into a Manifest: the raw, registry-agnostic declaration of the
// module's capability, test double, config context, property schema and
// dependency specifiers.
//
// A module is a directory containing the defining file, DefiningFile. Every
// .hcl file directly inside the directory contributes declarations; the parse
// enforces the singleton invariants (exactly one capability, at most one test
// double, at most one config context) across all of them.
package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/bakeware/recipekit/internal/ctxlog"
	"github.com/bakeware/recipekit/internal/depspec"
	"github.com/bakeware/recipekit/internal/fsutil"
	"github.com/bakeware/recipekit/internal/inject"
)

// DefiningFile is the file whose presence makes a directory a recipe module.
const DefiningFile = "module.hcl"

// Manifest is the parsed declaration of one module directory.
type Manifest struct {
	Dir         string
	Description string

	// CapabilityName names the registered capability constructor; Params is
	// its ordered constructor parameter list.
	CapabilityName string
	Params         []string

	// TestDoubleName and ConfigContextName are empty when not declared.
	TestDoubleName    string
	ConfigContextName string

	// HasConfigDefinitions records the presence of a config_definitions
	// section, which makes a config context mandatory.
	HasConfigDefinitions bool

	Properties map[string]inject.Property

	// Deps holds the declared dependency specifiers in declaration order.
	Deps []depspec.Spec
}

// IsModuleDir reports whether dir is a recipe module directory.
func IsModuleDir(dir string) bool {
	return fsutil.HasFile(dir, DefiningFile)
}

// Load parses every .hcl file directly inside dir and assembles the module's
// Manifest, enforcing the singleton invariants along the way.
func Load(ctx context.Context, dir string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	if !IsModuleDir(dir) {
		return nil, fmt.Errorf("%s is not a module directory: no %s", dir, DefiningFile)
	}

	files, err := fsutil.ListFilesWithExt(dir, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("scanning module %s: %w", dir, err)
	}

	m := &Manifest{
		Dir:        dir,
		Properties: make(map[string]inject.Property),
	}

	parser := hclparse.NewParser()
	seen := manifestState{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}
		if err := m.mergeFile(hclFile.Body, &seen); err != nil {
			return nil, err
		}
	}

	if m.CapabilityName == "" {
		return nil, &MissingCapabilityError{Identity: dir}
	}
	if m.HasConfigDefinitions && m.ConfigContextName == "" {
		return nil, fmt.Errorf("module %s declares config definitions but no config context", dir)
	}

	logger.Debug("Parsed module manifest.",
		"dir", dir,
		"capability", m.CapabilityName,
		"properties", len(m.Properties),
		"deps", len(m.Deps))
	return m, nil
}

// manifestState tracks singleton declarations across the module's files.
type manifestState struct {
	moduleBlock bool
	capability  bool
	testDouble  bool
	configCtx   bool
	deps        bool
}
