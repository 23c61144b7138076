package app

import (
	"github.com/bakeware/recipekit/internal/registry"
	"github.com/bakeware/recipekit/modules/path"
	"github.com/bakeware/recipekit/modules/platform"
	"github.com/bakeware/recipekit/modules/properties"
	"github.com/bakeware/recipekit/modules/step"
)

// coreModules is the definitive list of all modules that are compiled into
// the recipekit binary.
var coreModules = []registry.Module{
	&platform.Module{},
	&path.Module{},
	&properties.Module{},
	&step.Module{},
}
