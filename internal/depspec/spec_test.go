package depspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		raw     string
		want    Spec
		wantErr string
	}{
		{raw: "path", want: Spec{Kind: Bare, Name: "path"}},
		{raw: "infra/archive", want: Spec{Kind: PackageQualified, Package: "infra", Name: "archive"}},
		{raw: "", wantErr: "empty dependency specifier"},
		{raw: "a/b/c", wantErr: "invalid dependency specifier"},
		{raw: "/mod", wantErr: "invalid dependency specifier"},
		{raw: "pkg/", wantErr: "invalid dependency specifier"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := Parse(tc.raw)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromPath(t *testing.T) {
	spec, err := FromPath("/roots/main/path")
	require.NoError(t, err)
	assert.Equal(t, AbsolutePath, spec.Kind)
	assert.Equal(t, "/roots/main/path", spec.Path)

	_, err = FromPath("relative/path")
	assert.ErrorContains(t, err, "not absolute")
}

func TestLocalName(t *testing.T) {
	t.Run("derived from bare name", func(t *testing.T) {
		spec, err := Parse("step")
		require.NoError(t, err)
		assert.Equal(t, "step", spec.LocalName())
	})

	t.Run("derived from final segment of qualified name", func(t *testing.T) {
		spec, err := Parse("infra/archive")
		require.NoError(t, err)
		assert.Equal(t, "archive", spec.LocalName())
	})

	t.Run("derived from path base", func(t *testing.T) {
		spec, err := FromPath("/roots/main/fetch")
		require.NoError(t, err)
		assert.Equal(t, "fetch", spec.LocalName())
	})

	t.Run("explicit local name wins", func(t *testing.T) {
		spec, err := Parse("infra/archive")
		require.NoError(t, err)
		spec.Local = "tarballs"
		assert.Equal(t, "tarballs", spec.LocalName())
	})
}

func TestString(t *testing.T) {
	for _, raw := range []string{"path", "infra/archive"} {
		spec, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, spec.String())
	}
}
