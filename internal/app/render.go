package app

import (
	"fmt"
	"strings"

	"github.com/bakeware/recipekit/internal/composer"
	"github.com/bakeware/recipekit/internal/recipe"
)

// render prints the composed graphs as indented trees, one line per module
// with its designated capability, and the test-double counterpart below.
func (a *App) render(script *recipe.Script, api *composer.API, testRoot *composer.TestAPI) {
	fmt.Fprintf(a.outW, "Recipe: %s", script.Name)
	if script.Description != "" {
		fmt.Fprintf(a.outW, " - %s", script.Description)
	}
	fmt.Fprintln(a.outW)

	fmt.Fprintln(a.outW, "Modules:")
	for _, local := range api.DepNames() {
		node, _ := api.Dep(local)
		a.renderAPI(local, node, 1)
	}

	fmt.Fprintln(a.outW, "Test doubles:")
	for _, local := range testRoot.DepNames() {
		node, _ := testRoot.Dep(local)
		a.renderTestAPI(local, node, 1)
	}
}

func (a *App) renderAPI(local string, node *composer.API, depth int) {
	fmt.Fprintf(a.outW, "%s%s (%s)\n", strings.Repeat("  ", depth), local, node.Def.CapabilityName)
	for _, child := range node.DepNames() {
		dep, _ := node.Dep(child)
		a.renderAPI(child, dep, depth+1)
	}
}

func (a *App) renderTestAPI(local string, node *composer.TestAPI, depth int) {
	name := node.Def.TestDoubleName
	if name == "" {
		name = "empty"
	}
	fmt.Fprintf(a.outW, "%s%s (%s)\n", strings.Repeat("  ", depth), local, name)
	for _, child := range node.DepNames() {
		dep, _ := node.Dep(child)
		a.renderTestAPI(child, dep, depth+1)
	}
}
