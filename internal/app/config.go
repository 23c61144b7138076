package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Recipe is the name of the recipe to load and compose.
	Recipe string

	// ModuleRoots are the ordered directories scanned for bare module names;
	// RecipeRoots for recipe scripts. Packages maps package names to module
	// root directories for package-qualified specifiers.
	ModuleRoots []string
	RecipeRoots []string
	Packages    map[string]string

	// PropertiesFile optionally points at a JSON or YAML property bag.
	PropertiesFile string

	// ListModules / ListRecipes switch Run into enumeration mode.
	ListModules bool
	ListRecipes bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Recipe == "" && !cfg.ListModules && !cfg.ListRecipes {
		return nil, errors.New("a recipe name is required unless listing modules or recipes")
	}
	if len(cfg.ModuleRoots) == 0 {
		return nil, errors.New("at least one module root is required")
	}

	return &cfg, nil
}
