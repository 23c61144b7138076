package inject

import "fmt"

// UndefinedPropertyError reports a constructor parameter with no matching
// entry in the module's declared property schema.
type UndefinedPropertyError struct {
	Name string
}

func (e *UndefinedPropertyError) Error() string {
	return fmt.Sprintf("missing property declaration for %q", e.Name)
}

// RequiredPropertyError reports a required property with no supplied value.
type RequiredPropertyError struct {
	Name string
}

func (e *RequiredPropertyError) Error() string {
	return fmt.Sprintf("required property %q has no supplied value", e.Name)
}
