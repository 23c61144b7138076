package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/bakeware/recipekit/internal/composer"
	"github.com/bakeware/recipekit/internal/ctxlog"
	"github.com/bakeware/recipekit/internal/propbag"
	"github.com/bakeware/recipekit/internal/recipe"
	"github.com/bakeware/recipekit/internal/universe"
)

// Run executes the main application logic: load the recipe, load its module
// dependency graph, and compose the production and test-double instance
// graphs.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	u, err := universe.New(universe.Config{
		ModuleRoots: a.config.ModuleRoots,
		RecipeRoots: a.config.RecipeRoots,
		Packages:    a.config.Packages,
	}, a.registry)
	if err != nil {
		return fmt.Errorf("configuring module universe: %w", err)
	}

	if a.config.ListModules {
		return a.listModules(u)
	}
	if a.config.ListRecipes {
		return a.listRecipes(u)
	}

	var bag map[string]cty.Value
	if a.config.PropertiesFile != "" {
		bag, err = propbag.FromFile(a.config.PropertiesFile)
		if err != nil {
			return err
		}
		a.logger.Debug("Property bag loaded.", "file", a.config.PropertiesFile, "keys", len(bag))
	}

	script, err := recipe.Load(ctx, u, a.config.Recipe)
	if err != nil {
		return err
	}

	deps, order, err := u.LoadGraph(ctx, script.Deps)
	if err != nil {
		return fmt.Errorf("loading modules of recipe %s: %w", script.Name, err)
	}
	a.logger.Debug("Module graph loaded.", "recipe", script.Name, "top_deps", len(order))

	resolved, err := resolveRunProperties(script, bag)
	if err != nil {
		return fmt.Errorf("recipe %s: %w", script.Name, err)
	}

	eng := composer.NewEngine(script.Name, resolved)
	api, err := composer.Production(deps, order, eng, nil)
	if err != nil {
		return fmt.Errorf("composing recipe %s: %w", script.Name, err)
	}
	testRoot, err := composer.Test(deps, order)
	if err != nil {
		return fmt.Errorf("composing test graph of recipe %s: %w", script.Name, err)
	}

	a.logger.Info("Recipe composed.",
		"recipe", script.Name,
		"modules", len(order))
	a.render(script, api, testRoot)
	return nil
}

// resolveRunProperties validates the supplied bag against the recipe's
// declared schema: declared properties get defaults and coercion, values the
// recipe never declared pass through untouched.
func resolveRunProperties(script *recipe.Script, bag map[string]cty.Value) (map[string]cty.Value, error) {
	resolved := make(map[string]cty.Value, len(bag)+len(script.Properties))
	for name, v := range bag {
		resolved[name] = v
	}

	names := make([]string, 0, len(script.Properties))
	for name := range script.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := cty.NilVal
		if v, ok := bag[name]; ok {
			raw = v
		}
		v, err := script.Properties[name].Interpret(raw)
		if err != nil {
			return nil, err
		}
		resolved[name] = v
	}
	return resolved, nil
}

func (a *App) listModules(u *universe.Universe) error {
	dirs, err := u.Modules()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		fmt.Fprintln(a.outW, dir)
	}
	return nil
}

func (a *App) listRecipes(u *universe.Universe) error {
	names, err := u.Recipes()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(a.outW, name)
	}
	return nil
}
