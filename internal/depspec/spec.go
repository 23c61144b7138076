// Package depspec models dependency specifiers: the abstract "which module"
// references declared by recipes and module manifests. A specifier resolves
// to a unique module identity without loading any module code; resolution
// itself lives in the universe package, which owns the search roots.
package depspec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind discriminates the specifier variants.
type Kind int

const (
	// Bare names a module to be found by scanning the ordered module
	// search roots, e.g. "path".
	Bare Kind = iota

	// PackageQualified names a module inside a named package, e.g.
	// "infra/archive".
	PackageQualified

	// AbsolutePath pins a module directory directly. The directory must
	// still live under an approved search root.
	AbsolutePath
)

// Spec describes one declared dependency. Local, when set, overrides the
// derived local name (the object form of a deps declaration).
type Spec struct {
	Kind    Kind
	Name    string // Bare and PackageQualified: the module name
	Package string // PackageQualified only
	Path    string // AbsolutePath only
	Local   string // caller-chosen local name, "" to derive
}

// Parse converts the string surface of a dependency declaration into a Spec.
// Accepted forms are "module" and "package/module".
func Parse(raw string) (Spec, error) {
	if raw == "" {
		return Spec{}, fmt.Errorf("empty dependency specifier")
	}
	if !strings.Contains(raw, "/") {
		return Spec{Kind: Bare, Name: raw}, nil
	}

	parts := strings.Split(raw, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Spec{}, fmt.Errorf("invalid dependency specifier %q: want \"module\" or \"package/module\"", raw)
	}
	return Spec{Kind: PackageQualified, Package: parts[0], Name: parts[1]}, nil
}

// FromPath builds an absolute-path specifier. The path must be absolute.
func FromPath(path string) (Spec, error) {
	if !filepath.IsAbs(path) {
		return Spec{}, fmt.Errorf("path dependency %q is not absolute", path)
	}
	return Spec{Kind: AbsolutePath, Path: filepath.Clean(path)}, nil
}

// LocalName is the identifier under which the resolved module is exposed to
// its dependent: the explicit Local if one was chosen, otherwise the final
// path segment of the specifier.
func (s Spec) LocalName() string {
	if s.Local != "" {
		return s.Local
	}
	switch s.Kind {
	case AbsolutePath:
		return filepath.Base(s.Path)
	default:
		return s.Name
	}
}

// String renders the specifier in its declaration form.
func (s Spec) String() string {
	switch s.Kind {
	case Bare:
		return s.Name
	case PackageQualified:
		return s.Package + "/" + s.Name
	default:
		return s.Path
	}
}
