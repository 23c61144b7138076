// Package universe implements the process-scoped module registry: it
// discovers module identities under configured search roots, loads each
// module's definition exactly once, and detects dependency cycles at load
// time.
package universe

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bakeware/recipekit/internal/ctxlog"
	"github.com/bakeware/recipekit/internal/depspec"
	"github.com/bakeware/recipekit/internal/fsutil"
	"github.com/bakeware/recipekit/internal/manifest"
	"github.com/bakeware/recipekit/internal/registry"
)

// Config carries the search configuration supplied by the embedding package
// resolver: ordered module roots for bare names, recipe roots, and named
// package roots for package-qualified specifiers.
type Config struct {
	ModuleRoots []string
	RecipeRoots []string
	Packages    map[string]string // package name -> module root directory
}

// Universe loads module definitions at most once each for its lifetime. It
// is intended for a single load sequence per process; concurrent use must be
// externally serialized.
type Universe struct {
	cfg    Config
	reg    *registry.Registry
	loaded map[string]*loadEntry
}

type loadState int

const (
	stateLoading loadState = iota + 1
	stateLoaded
)

type loadEntry struct {
	state loadState
	def   *Definition
}

// New creates a Universe over the given search configuration and registry.
// Root paths are canonicalized up front so identity resolution stays pure.
func New(cfg Config, reg *registry.Registry) (*Universe, error) {
	canon := Config{
		ModuleRoots: make([]string, 0, len(cfg.ModuleRoots)),
		RecipeRoots: make([]string, 0, len(cfg.RecipeRoots)),
		Packages:    make(map[string]string, len(cfg.Packages)),
	}
	for _, root := range cfg.ModuleRoots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("module root %s: %w", root, err)
		}
		canon.ModuleRoots = append(canon.ModuleRoots, abs)
	}
	for _, root := range cfg.RecipeRoots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("recipe root %s: %w", root, err)
		}
		canon.RecipeRoots = append(canon.RecipeRoots, abs)
	}
	for name, root := range cfg.Packages {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("package %s root %s: %w", name, root, err)
		}
		canon.Packages[name] = abs
	}

	return &Universe{
		cfg:    canon,
		reg:    reg,
		loaded: make(map[string]*loadEntry),
	}, nil
}

// ModuleRoots returns the ordered module search roots.
func (u *Universe) ModuleRoots() []string {
	return append([]string(nil), u.cfg.ModuleRoots...)
}

// RecipeRoots returns the ordered recipe search roots.
func (u *Universe) RecipeRoots() []string {
	return append([]string(nil), u.cfg.RecipeRoots...)
}

// Resolve maps a dependency specifier to the unique module identity it names
// without loading any module code. Resolution is deterministic given the
// Universe's search configuration: bare names scan the module roots in order
// and the first directory containing the defining file wins.
func (u *Universe) Resolve(spec depspec.Spec) (string, error) {
	switch spec.Kind {
	case depspec.Bare:
		for _, root := range u.cfg.ModuleRoots {
			candidate := filepath.Join(root, spec.Name)
			if manifest.IsModuleDir(candidate) {
				return candidate, nil
			}
		}
		return "", &NoSuchModuleError{Name: spec.Name}

	case depspec.PackageQualified:
		root, ok := u.cfg.Packages[spec.Package]
		if !ok {
			return "", &NoSuchModuleError{Name: spec.String()}
		}
		candidate := filepath.Join(root, spec.Name)
		if !manifest.IsModuleDir(candidate) {
			return "", &NoSuchModuleError{Name: spec.String()}
		}
		return candidate, nil

	case depspec.AbsolutePath:
		path := filepath.Clean(spec.Path)
		if !filepath.IsAbs(path) {
			return "", fmt.Errorf("path dependency %q is not absolute", spec.Path)
		}
		// Modules living outside approved directories are forbidden.
		if !u.approvedParent(filepath.Dir(path)) {
			return "", fmt.Errorf("module %s lives outside the approved search roots", path)
		}
		if !manifest.IsModuleDir(path) {
			return "", &NoSuchModuleError{Name: path}
		}
		return path, nil

	default:
		return "", fmt.Errorf("unknown dependency specifier kind %d", spec.Kind)
	}
}

func (u *Universe) approvedParent(dir string) bool {
	for _, root := range u.cfg.ModuleRoots {
		if dir == root {
			return true
		}
	}
	for _, root := range u.cfg.Packages {
		if dir == root {
			return true
		}
	}
	return false
}

// Load resolves a specifier and loads the module definition it names,
// memoized by identity. A request for an identity whose load is still in
// progress is a dependency cycle and fails.
func (u *Universe) Load(ctx context.Context, spec depspec.Spec) (*Definition, error) {
	id, err := u.Resolve(spec)
	if err != nil {
		return nil, err
	}

	if entry, ok := u.loaded[id]; ok {
		if entry.state == stateLoading {
			return nil, &CyclicDependencyError{Identity: id}
		}
		return entry.def, nil
	}

	// Mark the identity as loading before recursing into its own deps so a
	// cycle back to it is caught rather than recursing forever.
	entry := &loadEntry{state: stateLoading}
	u.loaded[id] = entry

	def, err := u.loadDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.state = stateLoaded
	entry.def = def

	ctxlog.FromContext(ctx).Debug("Loaded module definition.", "module", def.Name, "id", id)
	return def, nil
}

func (u *Universe) loadDefinition(ctx context.Context, id string) (*Definition, error) {
	mf, err := manifest.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		ID:                id,
		Name:              filepath.Base(id),
		Description:       mf.Description,
		CapabilityName:    mf.CapabilityName,
		Params:            mf.Params,
		TestDoubleName:    mf.TestDoubleName,
		ConfigContextName: mf.ConfigContextName,
		Properties:        mf.Properties,
		Deps:              make(map[string]*Definition, len(mf.Deps)),
	}

	// Load the declared dependencies before patch-up, the same order they
	// were declared in.
	for _, spec := range mf.Deps {
		local := spec.LocalName()
		if _, dup := def.Deps[local]; dup {
			return nil, fmt.Errorf("module %s: duplicate dependency local name %q", id, local)
		}
		dep, err := u.Load(ctx, spec)
		if err != nil {
			return nil, err
		}
		def.DepOrder = append(def.DepOrder, local)
		def.Deps[local] = dep
	}

	return def, u.patchUp(def)
}

// patchUp resolves the manifest's designated names against the registry.
// The manifest layer already enforced the singleton invariants; here a name
// that designates nothing registered is a definition error.
func (u *Universe) patchUp(def *Definition) error {
	capability, ok := u.reg.Capability(def.CapabilityName)
	if !ok {
		return fmt.Errorf("module %s: capability %q is not registered", def.ID, def.CapabilityName)
	}
	def.Capability = capability

	if def.TestDoubleName != "" {
		double, ok := u.reg.TestDouble(def.TestDoubleName)
		if !ok {
			return fmt.Errorf("module %s: test double %q is not registered", def.ID, def.TestDoubleName)
		}
		def.TestDouble = double
	}

	if def.ConfigContextName != "" {
		cc, ok := u.reg.ConfigContext(def.ConfigContextName)
		if !ok {
			return fmt.Errorf("module %s: config context %q is not registered", def.ID, def.ConfigContextName)
		}
		def.ConfigContext = cc
	}

	return nil
}

// LoadGraph loads an ordered set of top-level dependency specifiers,
// returning the local-name mapping and its declaration order. Duplicate
// local names within one spec list are a caller error.
func (u *Universe) LoadGraph(ctx context.Context, specs []depspec.Spec) (map[string]*Definition, []string, error) {
	deps := make(map[string]*Definition, len(specs))
	order := make([]string, 0, len(specs))

	for _, spec := range specs {
		local := spec.LocalName()
		if _, dup := deps[local]; dup {
			return nil, nil, fmt.Errorf("duplicate dependency local name %q", local)
		}
		def, err := u.Load(ctx, spec)
		if err != nil {
			return nil, nil, err
		}
		deps[local] = def
		order = append(order, local)
	}

	return deps, order, nil
}

// Modules enumerates every module directory under the configured module
// roots, sorted by module name then path.
func (u *Universe) Modules() ([]string, error) {
	var dirs []string
	for _, root := range u.cfg.ModuleRoots {
		subdirs, err := fsutil.ListSubdirs(root)
		if err != nil {
			return nil, fmt.Errorf("scanning module root %s: %w", root, err)
		}
		for _, dir := range subdirs {
			if manifest.IsModuleDir(dir) {
				dirs = append(dirs, dir)
			}
		}
	}
	sort.Slice(dirs, func(i, j int) bool {
		bi, bj := filepath.Base(dirs[i]), filepath.Base(dirs[j])
		if bi != bj {
			return bi < bj
		}
		return dirs[i] < dirs[j]
	})
	return dirs, nil
}

// Recipes enumerates recipe names: every .hcl file under the recipe roots
// (named by its root-relative path without extension) plus every module
// example, named "module:example".
func (u *Universe) Recipes() ([]string, error) {
	var names []string
	for _, root := range u.cfg.RecipeRoots {
		files, err := fsutil.WalkFilesWithExt(root, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("scanning recipe root %s: %w", root, err)
		}
		for _, rel := range files {
			name := strings.TrimSuffix(filepath.ToSlash(rel), ".hcl")
			names = append(names, name)
		}
	}

	modules, err := u.Modules()
	if err != nil {
		return nil, err
	}
	for _, dir := range modules {
		if fsutil.HasFile(dir, "example.hcl") {
			names = append(names, filepath.Base(dir)+":example")
		}
	}

	sort.Strings(names)
	return names, nil
}
