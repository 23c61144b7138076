package step

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/bakeware/recipekit/internal/composer"
	"github.com/bakeware/recipekit/internal/inject"
	"github.com/bakeware/recipekit/internal/manifest"
	"github.com/bakeware/recipekit/internal/recipe"
	"github.com/bakeware/recipekit/internal/registry"
	"github.com/bakeware/recipekit/internal/universe"
	"github.com/bakeware/recipekit/modules/path"
	"github.com/bakeware/recipekit/modules/properties"
)

func invoke(t *testing.T, supplied map[string]cty.Value) *Steps {
	t.Helper()
	mf, err := manifest.Load(context.Background(), ".")
	require.NoError(t, err)

	extras := map[string]any{
		"path":       &path.Paths{},
		"properties": &properties.Properties{},
	}
	got, err := inject.Invoke(NewSteps, mf.Params, mf.Properties, supplied, extras)
	require.NoError(t, err)
	return got.(*Steps)
}

func TestManifestDesignatesRegisteredNames(t *testing.T) {
	mf, err := manifest.Load(context.Background(), ".")
	require.NoError(t, err)

	r := registry.New()
	(&Module{}).Register(r)
	_, ok := r.Capability(mf.CapabilityName)
	assert.True(t, ok)
	_, ok = r.TestDouble(mf.TestDoubleName)
	assert.True(t, ok)

	require.Len(t, mf.Deps, 2)
	assert.Equal(t, "path", mf.Deps[0].Name)
	assert.Equal(t, "properties", mf.Deps[1].Name)
}

func TestDefaultTimeout(t *testing.T) {
	s := invoke(t, nil)
	rec := s.Plan("compile", "go", "build", "./...")
	assert.Equal(t, 300*time.Second, rec.Timeout)
}

func TestTimeoutOverride(t *testing.T) {
	s := invoke(t, map[string]cty.Value{"default_timeout": cty.NumberFloatVal(1.5)})
	rec := s.Plan("quick", "true")
	assert.Equal(t, 1500*time.Millisecond, rec.Timeout)
}

func TestPlansRecordInOrder(t *testing.T) {
	s := invoke(t, nil)
	s.Plan("first", "echo", "1")
	s.PlanIn("/src", "second", "echo", "2")

	recs := s.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Name)
	assert.Equal(t, []string{"echo", "2"}, recs[1].Cmd)
	assert.Equal(t, "/src", recs[1].Cwd)
}

func TestTestDoubleCarriesModuleAndOutcomes(t *testing.T) {
	def := &universe.Definition{Name: "step"}
	outcomes := composer.ModuleTestData{
		Enabled: true,
		Values:  map[string]cty.Value{"compile": cty.StringVal("ok")},
	}

	got, err := inject.Invoke(NewTestDouble, nil, nil, nil, map[string]any{
		"module":    def,
		"test_data": outcomes,
	})
	require.NoError(t, err)
	td := got.(*TestDouble)

	assert.Same(t, def, td.Def)
	v, ok := td.Outcomes.Get("compile")
	require.True(t, ok)
	assert.Equal(t, cty.StringVal("ok"), v)
}

func TestExampleRecipeShips(t *testing.T) {
	abs, err := filepath.Abs(".")
	require.NoError(t, err)

	root := filepath.Dir(abs)
	u, err := universe.New(universe.Config{ModuleRoots: []string{root}}, registry.New())
	require.NoError(t, err)

	s, err := recipe.Load(context.Background(), u, "step:example")
	require.NoError(t, err)
	require.Len(t, s.Deps, 1)
	assert.Equal(t, "step", s.Deps[0].Name)
	assert.Contains(t, s.Properties, "message")
}
