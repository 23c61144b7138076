// Package recipe loads recipe scripts: single HCL files naming their module
// dependencies and declaring the property schema of a top-level run.
//
// A recipe name is either a recipe-root-relative path without the .hcl
// extension, or the "module:example" form naming the example script shipped
// inside a module directory.
package recipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/bakeware/recipekit/internal/ctxlog"
	"github.com/bakeware/recipekit/internal/depspec"
	"github.com/bakeware/recipekit/internal/inject"
	"github.com/bakeware/recipekit/internal/manifest"
	"github.com/bakeware/recipekit/internal/universe"
)

// ExampleFile is the script a module ships to make itself runnable as
// "module:example".
const ExampleFile = "example.hcl"

// Script is one parsed recipe: its module dependencies and the property
// schema its run accepts.
type Script struct {
	Name        string
	Path        string
	Description string

	// Deps holds the declared dependency specifiers in declaration order.
	Deps []depspec.Spec

	Properties map[string]inject.Property
}

var scriptSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "recipe"},
		{Type: "property", LabelNames: []string{"name"}},
	},
}

var recipeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "deps"},
	},
}

// Load finds the script named name using the universe's search configuration
// and parses it.
func Load(ctx context.Context, u *universe.Universe, name string) (*Script, error) {
	path, err := locate(u, name)
	if err != nil {
		return nil, err
	}

	s, err := parseFile(name, path)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("Loaded recipe script.",
		"recipe", name,
		"path", path,
		"deps", len(s.Deps))
	return s, nil
}

// locate maps a recipe name to the script file it denotes. The
// "module:example" form resolves the module through the universe; plain
// names scan the recipe roots in order, first hit wins.
func locate(u *universe.Universe, name string) (string, error) {
	if mod, ok := strings.CutSuffix(name, ":example"); ok {
		spec, err := depspec.Parse(mod)
		if err != nil {
			return "", fmt.Errorf("recipe %s: %w", name, err)
		}
		dir, err := u.Resolve(spec)
		if err != nil {
			return "", fmt.Errorf("recipe %s: %w", name, err)
		}
		path := filepath.Join(dir, ExampleFile)
		if _, err := os.Stat(path); err != nil {
			return "", &NoSuchRecipeError{Name: name}
		}
		return path, nil
	}

	rel := filepath.FromSlash(name) + ".hcl"
	for _, root := range u.RecipeRoots() {
		path := filepath.Join(root, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", &NoSuchRecipeError{Name: name}
}

func parseFile(name, path string) (*Script, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	content, diags := file.Body.Content(scriptSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("recipe %s: %w", name, diags)
	}

	s := &Script{
		Name:       name,
		Path:       path,
		Properties: make(map[string]inject.Property),
	}

	var sawRecipe bool
	for _, block := range content.Blocks {
		switch block.Type {
		case "recipe":
			if sawRecipe {
				return nil, fmt.Errorf("recipe %s: more than one recipe block", name)
			}
			sawRecipe = true
			if err := s.mergeRecipeBlock(block); err != nil {
				return nil, err
			}
		case "property":
			prop, err := manifest.PropertyFromBlock(block)
			if err != nil {
				return nil, fmt.Errorf("recipe %s: %w", name, err)
			}
			if _, exists := s.Properties[prop.Name]; exists {
				return nil, fmt.Errorf("recipe %s: property %q declared twice", name, prop.Name)
			}
			s.Properties[prop.Name] = prop
		}
	}

	if !sawRecipe {
		return nil, fmt.Errorf("recipe %s: missing recipe block", name)
	}
	return s, nil
}

func (s *Script) mergeRecipeBlock(block *hcl.Block) error {
	content, diags := block.Body.Content(recipeBodySchema)
	if diags.HasErrors() {
		return fmt.Errorf("recipe %s: %w", s.Name, diags)
	}

	if attr, ok := content.Attributes["description"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &s.Description); diags.HasErrors() {
			return fmt.Errorf("recipe %s: %w", s.Name, diags)
		}
	}
	if attr, ok := content.Attributes["deps"]; ok {
		specs, err := manifest.DecodeDeps(attr.Expr)
		if err != nil {
			return fmt.Errorf("recipe %s: %w", s.Name, err)
		}
		s.Deps = specs
	}
	return nil
}
