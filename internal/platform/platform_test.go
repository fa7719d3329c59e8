package platform

import (
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		token       string
		wantBackend Backend
		wantLevel   FeatureLevel
		wantOptions string
	}{
		{"pc_dx11", BackendD3D11, FeatureLevel11_0, "level:11_0"},
		{"pc_dx10", BackendD3D11, FeatureLevel10_0, "level:10_0"},
		{"pc_dx9", BackendD3D11, FeatureLevel9_3, "level:9_3"},
		{"win_tegra3", BackendD3D11, FeatureLevel9_1, "level:9_1"},
		{"pc_gl4", BackendOpenGL, FeatureLevelNone, ""},
		{"pc_gl3", BackendOpenGL, FeatureLevelNone, ""},
		{"pc_gl2", BackendOpenGL, FeatureLevelNone, ""},
		{"android_tegra3", BackendOpenGLES, FeatureLevelNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p, err := Resolve(tt.token)
			require.NoError(t, err)

			assert.Equal(t, tt.token, p.Token)
			assert.Equal(t, tt.wantBackend, p.Backend)
			assert.Equal(t, tt.wantLevel, p.FeatureLevel)
			assert.Equal(t, tt.wantOptions, p.Options())
			assert.Equal(t, Headless(), p.Flags)
		})
	}
}

func TestResolve_D3DFeatureLevelOrdering(t *testing.T) {
	var levels []FeatureLevel
	for _, token := range Tokens() {
		p, err := Resolve(token)
		require.NoError(t, err)

		if p.Backend == BackendD3D11 {
			levels = append(levels, p.FeatureLevel)
		}
	}

	require.Len(t, levels, 4)

	dx11, _ := Resolve("pc_dx11")
	tegra, _ := Resolve("win_tegra3")

	for _, l := range levels {
		assert.LessOrEqual(t, l, dx11.FeatureLevel, "pc_dx11 should be the highest level")
		assert.GreaterOrEqual(t, l, tegra.FeatureLevel, "win_tegra3 should be the lowest level")
	}
}

func TestResolve_UnknownPlatform(t *testing.T) {
	for _, token := range []string{"", "pc_dx12", "PC_DX11", "pc_gl", " pc_gl4", "android"} {
		p, err := Resolve(token)
		require.Error(t, err, "token %q", token)

		assert.True(t, errors.Is(err, ErrUnknownPlatform))
		assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
		assert.Equal(t, BackendUnset, p.Backend)
	}
}

func TestHeadless(t *testing.T) {
	flags := Headless()

	assert.True(t, flags.HideWindow)
	assert.False(t, flags.HDR)
	assert.False(t, flags.PostAA)
	assert.False(t, flags.Gamma)
	assert.False(t, flags.ColorGrading)
}

func TestTokens_ReturnsCopy(t *testing.T) {
	a := Tokens()
	a[0] = "mutated"

	assert.Equal(t, "pc_dx11", Tokens()[0])
	assert.Len(t, Tokens(), len(table))
}

func TestFeatureLevel_String(t *testing.T) {
	assert.Equal(t, "11_0", FeatureLevel11_0.String())
	assert.Equal(t, "10_0", FeatureLevel10_0.String())
	assert.Equal(t, "9_3", FeatureLevel9_3.String())
	assert.Equal(t, "9_1", FeatureLevel9_1.String())
	assert.Equal(t, "", FeatureLevelNone.String())
}

func TestResolve_TotalOverArbitraryStrings(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		token := rapid.String().Draw(t, "token")

		p, err := Resolve(token)
		if _, known := table[token]; known {
			assert.NoError(t, err)
			assert.NotEqual(t, BackendUnset, p.Backend)
		} else {
			assert.True(t, errors.Is(err, ErrUnknownPlatform))
		}
	})
}
