package composer

import (
	"github.com/zclconf/go-cty/cty"
)

// ModuleTestData is the per-module slice of a test-data scope, handed to a
// capability constructor as the "test_data" extra.
type ModuleTestData struct {
	Enabled bool
	Values  map[string]cty.Value
}

// Get returns the test value under name, if any. A disabled scope has none.
func (d ModuleTestData) Get(name string) (cty.Value, bool) {
	if !d.Enabled {
		return cty.NilVal, false
	}
	v, ok := d.Values[name]
	return v, ok
}

// TestData scopes simulation data for a whole recipe run, sliced per module
// name.
type TestData interface {
	Enabled() bool
	Module(name string) ModuleTestData
}

// DisabledTestData is the production default: no module gets test data.
type DisabledTestData struct{}

func (DisabledTestData) Enabled() bool { return false }

func (DisabledTestData) Module(string) ModuleTestData { return ModuleTestData{} }

// RecipeTestData holds per-module test values for a simulated run.
type RecipeTestData struct {
	Modules map[string]map[string]cty.Value
}

func (d *RecipeTestData) Enabled() bool { return true }

func (d *RecipeTestData) Module(name string) ModuleTestData {
	return ModuleTestData{Enabled: true, Values: d.Modules[name]}
}
