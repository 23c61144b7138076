package inject

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Property is one entry of a module's declared property schema: a name, a
// cty type constraint, and either a default value or the "required" state
// (Default == nil).
type Property struct {
	Name        string
	Type        cty.Type
	Description string
	Default     *cty.Value
}

// Required reports whether a caller must supply a value for this property.
func (p Property) Required() bool {
	return p.Default == nil
}

// Interpret resolves a raw supplied value against the declaration. cty.NilVal
// is the distinguished "unset" sentinel: unset required properties fail,
// unset optional ones take the default. The result is coerced to the declared
// type; values that cannot convert fail.
func (p Property) Interpret(raw cty.Value) (cty.Value, error) {
	if raw == cty.NilVal {
		if p.Default == nil {
			return cty.NilVal, &RequiredPropertyError{Name: p.Name}
		}
		raw = *p.Default
	}

	out, err := convert.Convert(raw, p.Type)
	if err != nil {
		return cty.NilVal, fmt.Errorf("property %q: %w", p.Name, err)
	}
	return out, nil
}
