package universe

import "fmt"

// NoSuchModuleError reports a dependency specifier that cannot be mapped to
// any module directory under the configured search roots.
type NoSuchModuleError struct {
	Name string
}

func (e *NoSuchModuleError) Error() string {
	return fmt.Sprintf("no module named %q exists under the configured search roots", e.Name)
}

// CyclicDependencyError reports a module that transitively depends on itself.
type CyclicDependencyError struct {
	Identity string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency when loading module %s", e.Identity)
}
