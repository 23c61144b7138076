package recipe

import "fmt"

// NoSuchRecipeError reports a recipe name no search root (or module example)
// provides.
type NoSuchRecipeError struct {
	Name string
}

func (e *NoSuchRecipeError) Error() string {
	return fmt.Sprintf("no recipe named %q under the configured recipe roots", e.Name)
}
