package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/kfxc/internal/platform"
)

func TestFourCC(t *testing.T) {
	tag := FourCC('K', 'F', 'X', ' ')

	assert.Equal(t, uint32(0x2058464b), tag)
	assert.Equal(t, "KFX ", FourCCString(tag))
}

func TestNew(t *testing.T) {
	tests := []struct {
		token      string
		wantFourCC string
	}{
		{"pc_dx11", "DXBC"},
		{"pc_dx10", "DXBC"},
		{"pc_dx9", "DXBC"},
		{"win_tegra3", "DXBC"},
		{"pc_gl4", "GLSL"},
		{"pc_gl3", "GLSL"},
		{"pc_gl2", "GLSL"},
		{"android_tegra3", "ESSL"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p, err := platform.Resolve(tt.token)
			require.NoError(t, err)

			b := New(p)
			require.NotNil(t, b)

			assert.Equal(t, tt.wantFourCC, FourCCString(b.NativeShaderFourCC()))
			assert.NotZero(t, b.NativeShaderVersion())
			assert.Equal(t, p.Backend, b.Kind)
		})
	}
}

func TestNew_D3DFeatureLevelsHaveDistinctVersions(t *testing.T) {
	seen := make(map[uint32]string)

	for _, token := range []string{"pc_dx11", "pc_dx10", "pc_dx9", "win_tegra3"} {
		p, err := platform.Resolve(token)
		require.NoError(t, err)

		v := New(p).NativeShaderVersion()
		if other, dup := seen[v]; dup {
			t.Errorf("%s and %s share native shader version %#x", token, other, v)
		}
		seen[v] = token
	}
}

func TestNew_OpenGLVersionsShareIdentity(t *testing.T) {
	gl4, _ := platform.Resolve("pc_gl4")
	gl2, _ := platform.Resolve("pc_gl2")

	a, b := New(gl4), New(gl2)
	assert.Equal(t, a.NativeShaderFourCC(), b.NativeShaderFourCC())
	assert.Equal(t, a.NativeShaderVersion(), b.NativeShaderVersion())
}

func TestNew_UnsetBackend(t *testing.T) {
	assert.Nil(t, New(platform.Profile{}))
}

func TestStatic(t *testing.T) {
	var b Backend = Static{FourCC: FourCC('T', 'E', 'S', 'T'), Version: 7}

	assert.Equal(t, "TEST", FourCCString(b.NativeShaderFourCC()))
	assert.Equal(t, uint32(7), b.NativeShaderVersion())
}
