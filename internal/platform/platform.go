// Package platform resolves a target-platform token into the rendering
// backend, feature level and render-context flags an offline effect
// compile runs with.
//
// The set of tokens is closed. Anything outside the table is rejected with
// ErrUnknownPlatform rather than guessed at.
package platform

import (
	"fmt"

	"github.com/jmgilman/go/errors"
)

// ErrUnknownPlatform is returned (wrapped) for tokens outside the table
var ErrUnknownPlatform = errors.New(errors.CodeInvalidConfig, "unknown platform")

// Backend identifies a rendering backend family
type Backend int

const (
	// BackendUnset is the zero value; a resolved profile never carries it
	BackendUnset Backend = iota
	BackendD3D11
	BackendOpenGL
	BackendOpenGLES
)

func (b Backend) String() string {
	switch b {
	case BackendD3D11:
		return "D3D11"
	case BackendOpenGL:
		return "OpenGL"
	case BackendOpenGLES:
		return "OpenGLES"
	default:
		return "unset"
	}
}

// FeatureLevel is a Direct3D capability tier. Values follow the
// D3D_FEATURE_LEVEL encoding so they order naturally.
type FeatureLevel uint32

const (
	FeatureLevelNone FeatureLevel = 0
	FeatureLevel9_1  FeatureLevel = 0x9100
	FeatureLevel9_3  FeatureLevel = 0x9300
	FeatureLevel10_0 FeatureLevel = 0xa000
	FeatureLevel11_0 FeatureLevel = 0xb000
)

// String returns the level in "11_0" form, or "" for FeatureLevelNone
func (l FeatureLevel) String() string {
	if l == FeatureLevelNone {
		return ""
	}

	return fmt.Sprintf("%d_%d", uint32(l)>>12, (uint32(l)>>8)&0xf)
}

// RenderFlags are the render-context switches relevant to an offline compile
type RenderFlags struct {
	HideWindow   bool
	HDR          bool
	PostAA       bool
	Gamma        bool
	ColorGrading bool
}

// Headless returns the flags every offline compile runs with
func Headless() RenderFlags {
	return RenderFlags{
		HideWindow:   true,
		HDR:          false,
		PostAA:       false,
		Gamma:        false,
		ColorGrading: false,
	}
}

// Profile is the immutable result of resolving a platform token
type Profile struct {
	Token        string
	Backend      Backend
	FeatureLevel FeatureLevel
	Flags        RenderFlags
}

// Options returns the backend option string for the profile, e.g.
// "level:11_0" for D3D targets, or "" when no feature level applies.
func (p Profile) Options() string {
	if p.FeatureLevel == FeatureLevelNone {
		return ""
	}

	return "level:" + p.FeatureLevel.String()
}

type entry struct {
	backend Backend
	level   FeatureLevel
}

// tokens is the closed set of supported platforms, in display order
var tokens = []string{
	"pc_dx11",
	"pc_dx10",
	"pc_dx9",
	"win_tegra3",
	"pc_gl4",
	"pc_gl3",
	"pc_gl2",
	"android_tegra3",
}

var table = map[string]entry{
	"pc_dx11":        {BackendD3D11, FeatureLevel11_0},
	"pc_dx10":        {BackendD3D11, FeatureLevel10_0},
	"pc_dx9":         {BackendD3D11, FeatureLevel9_3},
	"win_tegra3":     {BackendD3D11, FeatureLevel9_1},
	"pc_gl4":         {BackendOpenGL, FeatureLevelNone},
	"pc_gl3":         {BackendOpenGL, FeatureLevelNone},
	"pc_gl2":         {BackendOpenGL, FeatureLevelNone},
	"android_tegra3": {BackendOpenGLES, FeatureLevelNone},
}

// Tokens returns every accepted platform token in display order
func Tokens() []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

// Resolve maps a platform token to its profile
func Resolve(token string) (Profile, error) {
	e, ok := table[token]
	if !ok {
		return Profile{}, errors.Wrapf(ErrUnknownPlatform, errors.CodeInvalidConfig, "unknown platform %q", token)
	}

	return Profile{
		Token:        token,
		Backend:      e.backend,
		FeatureLevel: e.level,
		Flags:        Headless(),
	}, nil
}
