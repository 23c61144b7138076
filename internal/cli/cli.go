package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bakeware/recipekit/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("recipekit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
recipekit - Loads and composes recipe module dependency graphs.

Usage:
  recipekit [options] [RECIPE]

Arguments:
  RECIPE
    Name of the recipe to compose: a path under the recipe roots without
    the .hcl extension, or "module:example" for a module's example script.

Options:
`)
		flagSet.PrintDefaults()
	}

	recipeFlag := flagSet.String("recipe", "", "Name of the recipe to compose.")
	rFlag := flagSet.String("r", "", "Name of the recipe to compose (shorthand).")
	moduleRootsFlag := flagSet.String("module-roots", "modules", "Comma-separated directories scanned for modules.")
	recipeRootsFlag := flagSet.String("recipe-roots", "recipes", "Comma-separated directories scanned for recipes.")
	packagesFlag := flagSet.String("packages", "", "Comma-separated name=dir pairs of package module roots.")
	propertiesFlag := flagSet.String("properties-file", "", "Path to a JSON or YAML property bag.")
	listModulesFlag := flagSet.Bool("list-modules", false, "List the discoverable modules and exit.")
	listRecipesFlag := flagSet.Bool("list-recipes", false, "List the discoverable recipes and exit.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	recipeName := ""
	if *recipeFlag != "" {
		recipeName = *recipeFlag
	} else if *rFlag != "" {
		recipeName = *rFlag
	} else if flagSet.NArg() > 0 {
		recipeName = flagSet.Arg(0)
	}
	slog.Debug("Recipe name determined.", "recipe", recipeName)

	if recipeName == "" && !*listModulesFlag && !*listRecipesFlag {
		slog.Debug("No recipe provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	packages, err := parsePackages(*packagesFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Recipe:         recipeName,
		ModuleRoots:    splitList(*moduleRootsFlag),
		RecipeRoots:    splitList(*recipeRootsFlag),
		Packages:       packages,
		PropertiesFile: *propertiesFlag,
		ListModules:    *listModulesFlag,
		ListRecipes:    *listRecipesFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "recipe", config.Recipe)
	return config, false, nil
}

func splitList(s string) []string {
	var out []string
	for _, elem := range strings.Split(s, ",") {
		if elem = strings.TrimSpace(elem); elem != "" {
			out = append(out, elem)
		}
	}
	return out
}

func parsePackages(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	packages := make(map[string]string)
	for _, pair := range splitList(s) {
		name, dir, ok := strings.Cut(pair, "=")
		if !ok || name == "" || dir == "" {
			return nil, fmt.Errorf("invalid packages entry %q: want name=dir", pair)
		}
		packages[name] = dir
	}
	return packages, nil
}
