// Package backend identifies the native shader format of each rendering backend.
package backend

import (
	"github.com/Norgate-AV/kfxc/internal/platform"
)

// Backend reports the identity of the active backend's native shader
// representation. Compiled artifacts are only reusable by a backend
// reporting the same pair.
type Backend interface {
	NativeShaderFourCC() uint32
	NativeShaderVersion() uint32
}

// Native shader dialect revisions
const (
	D3D11Revision    uint32 = 3
	OpenGLRevision   uint32 = 2
	OpenGLESRevision uint32 = 2
)

// FourCC packs four characters into a little-endian tag
func FourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// FourCCString unpacks a tag produced by FourCC
func FourCCString(tag uint32) string {
	return string([]byte{byte(tag), byte(tag >> 8), byte(tag >> 16), byte(tag >> 24)})
}

// Native is the backend identity derived from a platform profile
type Native struct {
	Kind    platform.Backend
	Level   platform.FeatureLevel
	fourCC  uint32
	version uint32
}

// New returns the backend selected by profile. It returns nil when the
// profile carries no backend.
func New(profile platform.Profile) *Native {
	n := &Native{Kind: profile.Backend, Level: profile.FeatureLevel}

	switch profile.Backend {
	case platform.BackendD3D11:
		// The feature level selects the emitted dialect subset, so it is
		// part of the version.
		n.fourCC = FourCC('D', 'X', 'B', 'C')
		n.version = D3D11Revision<<16 | uint32(profile.FeatureLevel)>>8
	case platform.BackendOpenGL:
		n.fourCC = FourCC('G', 'L', 'S', 'L')
		n.version = OpenGLRevision
	case platform.BackendOpenGLES:
		n.fourCC = FourCC('E', 'S', 'S', 'L')
		n.version = OpenGLESRevision
	default:
		return nil
	}

	return n
}

func (n *Native) NativeShaderFourCC() uint32 {
	return n.fourCC
}

func (n *Native) NativeShaderVersion() uint32 {
	return n.version
}

// Static is a fixed backend identity, such as the pair recorded in an
// artifact header.
type Static struct {
	FourCC  uint32
	Version uint32
}

func (s Static) NativeShaderFourCC() uint32 {
	return s.FourCC
}

func (s Static) NativeShaderVersion() uint32 {
	return s.Version
}
