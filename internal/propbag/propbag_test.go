package propbag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestFromJSON(t *testing.T) {
	bag, err := FromJSON([]byte(`{
		"build_id": 42,
		"greeting": "hi",
		"fast": true,
		"tags": ["a", "b"],
		"meta": {"branch": "main"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, cty.NumberIntVal(42), bag["build_id"])
	assert.Equal(t, cty.StringVal("hi"), bag["greeting"])
	assert.Equal(t, cty.True, bag["fast"])
	assert.Equal(t, cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}), bag["tags"])
	assert.Equal(t, cty.ObjectVal(map[string]cty.Value{"branch": cty.StringVal("main")}), bag["meta"])
}

func TestFromJSONRejectsNonObject(t *testing.T) {
	_, err := FromJSON([]byte(`["a", "b"]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top-level object")
}

func TestFromYAML(t *testing.T) {
	bag, err := FromYAML([]byte(`
build_id: 42
greeting: hi
fast: true
ratio: 0.5
tags:
  - a
  - b
meta:
  branch: main
absent: null
`))
	require.NoError(t, err)

	assert.Equal(t, cty.NumberIntVal(42), bag["build_id"])
	assert.Equal(t, cty.StringVal("hi"), bag["greeting"])
	assert.Equal(t, cty.True, bag["fast"])
	assert.Equal(t, cty.NumberFloatVal(0.5), bag["ratio"])
	assert.Equal(t, cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}), bag["tags"])
	assert.Equal(t, cty.ObjectVal(map[string]cty.Value{"branch": cty.StringVal("main")}), bag["meta"])
	assert.True(t, bag["absent"].IsNull())
}

func TestFromFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "props.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"n": 1}`), 0o644))
	yamlPath := filepath.Join(dir, "props.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("n: 1\n"), 0o644))

	for _, path := range []string{jsonPath, yamlPath} {
		bag, err := FromFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, cty.NumberIntVal(1), bag["n"], path)
	}
}

func TestFromFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.toml")
	require.NoError(t, os.WriteFile(path, []byte("n = 1"), 0o644))

	_, err := FromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
