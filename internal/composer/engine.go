package composer

import (
	"github.com/zclconf/go-cty/cty"
)

// Engine is the engine context handed to every capability constructor as the
// "engine" extra. It carries the flat property bag of the top-level
// invocation; the step-execution runtime that fills in the rest lives
// outside this loader.
type Engine struct {
	// Recipe is the name of the top-level recipe being composed.
	Recipe string

	// Properties is the flat property bag supplied once per invocation.
	Properties map[string]cty.Value
}

// NewEngine creates an engine context. A nil bag is normalized to an empty
// one so constructors can index it freely.
func NewEngine(recipe string, properties map[string]cty.Value) *Engine {
	if properties == nil {
		properties = make(map[string]cty.Value)
	}
	return &Engine{Recipe: recipe, Properties: properties}
}
