package manifest

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/bakeware/recipekit/internal/depspec"
	"github.com/bakeware/recipekit/internal/inject"
)

// rootSchema describes the declarations a module defining file may contain.
var rootSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "deps"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "module"},
		{Type: "capability", LabelNames: []string{"name"}},
		{Type: "test_double", LabelNames: []string{"name"}},
		{Type: "config_context", LabelNames: []string{"name"}},
		{Type: "config_definitions"},
		{Type: "property", LabelNames: []string{"name"}},
	},
}

var moduleBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
}

var capabilityBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "params"},
	},
}

var emptyBodySchema = &hcl.BodySchema{}

var propertyBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "default"},
		{Name: "description"},
	},
}

// mergeFile folds one defining file's declarations into the manifest,
// enforcing the cross-file singleton invariants.
func (m *Manifest) mergeFile(body hcl.Body, seen *manifestState) error {
	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return fmt.Errorf("module %s: %w", m.Dir, diags)
	}

	if attr, ok := content.Attributes["deps"]; ok {
		if seen.deps {
			return &ConflictingDefinitionError{Kind: "deps attribute", Identity: m.Dir}
		}
		seen.deps = true
		specs, err := DecodeDeps(attr.Expr)
		if err != nil {
			return fmt.Errorf("module %s: %w", m.Dir, err)
		}
		m.Deps = specs
	}

	for _, block := range content.Blocks {
		var err error
		switch block.Type {
		case "module":
			err = m.mergeModuleBlock(block, seen)
		case "capability":
			err = m.mergeCapabilityBlock(block, seen)
		case "test_double":
			err = m.mergeSingleton(block, &seen.testDouble, "test double", &m.TestDoubleName)
		case "config_context":
			err = m.mergeSingleton(block, &seen.configCtx, "config context", &m.ConfigContextName)
		case "config_definitions":
			m.HasConfigDefinitions = true
		case "property":
			err = m.mergePropertyBlock(block)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Manifest) mergeModuleBlock(block *hcl.Block, seen *manifestState) error {
	if seen.moduleBlock {
		return &ConflictingDefinitionError{Kind: "module block", Identity: m.Dir}
	}
	seen.moduleBlock = true

	content, diags := block.Body.Content(moduleBodySchema)
	if diags.HasErrors() {
		return fmt.Errorf("module %s: %w", m.Dir, diags)
	}
	if attr, ok := content.Attributes["description"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &m.Description); diags.HasErrors() {
			return fmt.Errorf("module %s: %w", m.Dir, diags)
		}
	}
	return nil
}

func (m *Manifest) mergeCapabilityBlock(block *hcl.Block, seen *manifestState) error {
	if seen.capability {
		return &ConflictingDefinitionError{Kind: "capability", Identity: m.Dir}
	}
	seen.capability = true
	m.CapabilityName = block.Labels[0]

	content, diags := block.Body.Content(capabilityBodySchema)
	if diags.HasErrors() {
		return fmt.Errorf("module %s: %w", m.Dir, diags)
	}
	if attr, ok := content.Attributes["params"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &m.Params); diags.HasErrors() {
			return fmt.Errorf("module %s: capability params: %w", m.Dir, diags)
		}
	}
	return nil
}

func (m *Manifest) mergeSingleton(block *hcl.Block, flag *bool, kind string, name *string) error {
	if *flag {
		return &ConflictingDefinitionError{Kind: kind, Identity: m.Dir}
	}
	*flag = true
	*name = block.Labels[0]

	if _, diags := block.Body.Content(emptyBodySchema); diags.HasErrors() {
		return fmt.Errorf("module %s: %w", m.Dir, diags)
	}
	return nil
}

func (m *Manifest) mergePropertyBlock(block *hcl.Block) error {
	prop, err := PropertyFromBlock(block)
	if err != nil {
		return fmt.Errorf("module %s: %w", m.Dir, err)
	}
	if _, exists := m.Properties[prop.Name]; exists {
		return &ConflictingDefinitionError{Kind: "property", Identity: m.Dir, Name: prop.Name}
	}
	m.Properties[prop.Name] = prop
	return nil
}

// PropertyFromBlock decodes one `property "name" { ... }` block into its
// schema entry. Recipe scripts share this declaration form.
func PropertyFromBlock(block *hcl.Block) (inject.Property, error) {
	prop := inject.Property{Name: block.Labels[0]}

	content, diags := block.Body.Content(propertyBodySchema)
	if diags.HasErrors() {
		return prop, fmt.Errorf("property %q: %w", prop.Name, diags)
	}

	typeAttr, ok := content.Attributes["type"]
	if !ok {
		return prop, fmt.Errorf("property %q: the type attribute is required", prop.Name)
	}
	ty, diags := typeexpr.TypeConstraint(typeAttr.Expr)
	if diags.HasErrors() {
		return prop, fmt.Errorf("property %q: %w", prop.Name, diags)
	}
	prop.Type = ty

	if attr, ok := content.Attributes["description"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &prop.Description); diags.HasErrors() {
			return prop, fmt.Errorf("property %q: %w", prop.Name, diags)
		}
	}

	if attr, ok := content.Attributes["default"]; ok {
		// Defaults must be literal values, so no eval context.
		raw, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return prop, fmt.Errorf("property %q: %w", prop.Name, diags)
		}
		val, err := convert.Convert(raw, ty)
		if err != nil {
			return prop, fmt.Errorf("property %q: default value is not compatible with its type %s: %w",
				prop.Name, ty.FriendlyName(), err)
		}
		prop.Default = &val
	}

	return prop, nil
}

// DecodeDeps decodes a deps attribute expression. Two surfaces are accepted:
// a list of specifier strings (local names derived from the final path
// segment) and an object mapping caller-chosen local names to specifier
// strings (merged in sorted key order for determinism).
func DecodeDeps(expr hcl.Expression) ([]depspec.Spec, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("deps: %w", diags)
	}

	switch {
	case val.Type().IsTupleType() || val.Type().IsListType():
		var specs []depspec.Spec
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			spec, err := decodeDepString(elem)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
		return specs, nil

	case val.Type().IsObjectType() || val.Type().IsMapType():
		byName := val.AsValueMap()
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)

		specs := make([]depspec.Spec, 0, len(names))
		for _, name := range names {
			spec, err := decodeDepString(byName[name])
			if err != nil {
				return nil, err
			}
			spec.Local = name
			specs = append(specs, spec)
		}
		return specs, nil

	default:
		return nil, fmt.Errorf("deps: want a list of specifier strings or an object of local name to specifier, got %s",
			val.Type().FriendlyName())
	}
}

func decodeDepString(v cty.Value) (depspec.Spec, error) {
	if v.Type() != cty.String || v.IsNull() {
		return depspec.Spec{}, fmt.Errorf("deps: specifiers must be strings, got %s", v.Type().FriendlyName())
	}
	return depspec.Parse(v.AsString())
}
