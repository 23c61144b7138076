package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"hello"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "hello", cfg.Recipe)
	assert.Equal(t, []string{"modules"}, cfg.ModuleRoots)
	assert.Equal(t, []string{"recipes"}, cfg.RecipeRoots)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseRecipeFlagWinsOverPositional(t *testing.T) {
	cfg, _, err := Parse([]string{"-recipe", "a", "b"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "a", cfg.Recipe)

	cfg, _, err = Parse([]string{"-r", "short"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "short", cfg.Recipe)
}

func TestParseRootLists(t *testing.T) {
	cfg, _, err := Parse([]string{
		"-module-roots", "modules, extra/modules",
		"-recipe-roots", "recipes",
		"hello",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"modules", "extra/modules"}, cfg.ModuleRoots)
}

func TestParsePackages(t *testing.T) {
	cfg, _, err := Parse([]string{"-packages", "depot=/srv/depot,local=vendor/modules", "hello"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"depot": "/srv/depot",
		"local": "vendor/modules",
	}, cfg.Packages)

	_, _, err = Parse([]string{"-packages", "broken", "hello"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want name=dir")
}

func TestParseNoRecipePrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseListModesNeedNoRecipe(t *testing.T) {
	cfg, shouldExit, err := Parse([]string{"-list-recipes"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.True(t, cfg.ListRecipes)
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad log format", []string{"-log-format", "xml", "hello"}, "invalid log-format"},
		{"bad log level", []string{"-log-level", "loud", "hello"}, "invalid log-level"},
		{"unknown flag", []string{"--no-such-flag"}, "flag provided but not defined"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestParseHelp(t *testing.T) {
	out := &bytes.Buffer{}
	_, shouldExit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "Usage:")
}
