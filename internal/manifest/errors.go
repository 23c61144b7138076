package manifest

import "fmt"

// ConflictingDefinitionError reports a module directory that declares more
// than one of a singleton kind (capability, test double, config context,
// module block, deps attribute) or a duplicate property name.
type ConflictingDefinitionError struct {
	Kind     string // what was declared more than once
	Identity string // module directory
	Name     string // offending name, when the kind is "property"
}

func (e *ConflictingDefinitionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("module %s: duplicate %s %q", e.Identity, e.Kind, e.Name)
	}
	return fmt.Sprintf("module %s: more than one %s declared", e.Identity, e.Kind)
}

// MissingCapabilityError reports a module directory whose defining files
// declare no capability at all.
type MissingCapabilityError struct {
	Identity string
}

func (e *MissingCapabilityError) Error() string {
	return fmt.Sprintf("module %s declares no capability", e.Identity)
}
