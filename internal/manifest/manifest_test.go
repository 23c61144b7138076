package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/bakeware/recipekit/internal/depspec"
)

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadFullManifest(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"module.hcl": `
module {
  description = "Path manipulation for recipes."
}

capability "PathCapability" {
  params = ["platform", "temp_dir"]
}

property "temp_dir" {
  type        = string
  default     = "/tmp"
  description = "Directory for scratch files."
}

deps = ["platform"]
`,
		"test_api.hcl": `
test_double "PathTestDouble" {}
`,
		"config.hcl": `
config_context "PathConfig" {}
config_definitions {}
`,
	})

	m, err := Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "Path manipulation for recipes.", m.Description)
	assert.Equal(t, "PathCapability", m.CapabilityName)
	assert.Equal(t, []string{"platform", "temp_dir"}, m.Params)
	assert.Equal(t, "PathTestDouble", m.TestDoubleName)
	assert.Equal(t, "PathConfig", m.ConfigContextName)
	assert.True(t, m.HasConfigDefinitions)

	require.Contains(t, m.Properties, "temp_dir")
	prop := m.Properties["temp_dir"]
	assert.Equal(t, cty.String, prop.Type)
	require.NotNil(t, prop.Default)
	assert.True(t, prop.Default.RawEquals(cty.StringVal("/tmp")))
	assert.False(t, prop.Required())

	require.Len(t, m.Deps, 1)
	assert.Equal(t, depspec.Spec{Kind: depspec.Bare, Name: "platform"}, m.Deps[0])
}

func TestLoadConflicts(t *testing.T) {
	testCases := []struct {
		name  string
		files map[string]string
		kind  string
	}{
		{
			name: "two capabilities in one file",
			files: map[string]string{"module.hcl": `
capability "A" {}
capability "B" {}
`},
			kind: "capability",
		},
		{
			name: "two capabilities across files",
			files: map[string]string{
				"module.hcl": `capability "A" {}`,
				"api.hcl":    `capability "B" {}`,
			},
			kind: "capability",
		},
		{
			name: "two test doubles",
			files: map[string]string{"module.hcl": `
capability "A" {}
test_double "T1" {}
test_double "T2" {}
`},
			kind: "test double",
		},
		{
			name: "two config contexts",
			files: map[string]string{"module.hcl": `
capability "A" {}
config_context "C1" {}
config_context "C2" {}
`},
			kind: "config context",
		},
		{
			name: "duplicate property",
			files: map[string]string{"module.hcl": `
capability "A" {}
property "p" { type = string }
property "p" { type = number }
`},
			kind: "property",
		},
		{
			name: "two deps attributes across files",
			files: map[string]string{
				"module.hcl": "capability \"A\" {}\ndeps = []",
				"api.hcl":    "deps = []",
			},
			kind: "deps attribute",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeModule(t, tc.files)
			_, err := Load(context.Background(), dir)
			var conflict *ConflictingDefinitionError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tc.kind, conflict.Kind)
			assert.Equal(t, dir, conflict.Identity)
		})
	}
}

func TestLoadMissingCapability(t *testing.T) {
	dir := writeModule(t, map[string]string{"module.hcl": `
module { description = "no capability here" }
`})
	_, err := Load(context.Background(), dir)
	var missing *MissingCapabilityError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, dir, missing.Identity)
}

func TestLoadConfigDefinitionsRequireContext(t *testing.T) {
	dir := writeModule(t, map[string]string{"module.hcl": `
capability "A" {}
config_definitions {}
`})
	_, err := Load(context.Background(), dir)
	assert.ErrorContains(t, err, "config definitions but no config context")
}

func TestLoadNotAModuleDir(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(context.Background(), dir)
	assert.ErrorContains(t, err, "not a module directory")
}

func TestLoadRequiredProperty(t *testing.T) {
	dir := writeModule(t, map[string]string{"module.hcl": `
capability "A" {}
property "build_id" { type = string }
`})
	m, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, m.Properties["build_id"].Required())
}

func TestLoadBadPropertyDefault(t *testing.T) {
	dir := writeModule(t, map[string]string{"module.hcl": `
capability "A" {}
property "depth" {
  type    = number
  default = "not-a-number"
}
`})
	_, err := Load(context.Background(), dir)
	assert.ErrorContains(t, err, "default value is not compatible")
}

func TestDecodeDepsObjectForm(t *testing.T) {
	dir := writeModule(t, map[string]string{"module.hcl": `
capability "A" {}
deps = {
  zlib     = "third_party/zlib"
  tarballs = "archive"
}
`})
	m, err := Load(context.Background(), dir)
	require.NoError(t, err)

	// Object form merges in sorted key order.
	require.Len(t, m.Deps, 2)
	assert.Equal(t, "tarballs", m.Deps[0].LocalName())
	assert.Equal(t, "archive", m.Deps[0].Name)
	assert.Equal(t, "zlib", m.Deps[1].LocalName())
	assert.Equal(t, depspec.PackageQualified, m.Deps[1].Kind)
}

func TestDecodeDepsRejectsOtherShapes(t *testing.T) {
	dir := writeModule(t, map[string]string{"module.hcl": `
capability "A" {}
deps = 42
`})
	_, err := Load(context.Background(), dir)
	assert.ErrorContains(t, err, "want a list of specifier strings or an object")
}
