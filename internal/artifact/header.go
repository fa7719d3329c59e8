package artifact

import (
	"encoding/binary"

	"github.com/jmgilman/go/errors"

	"github.com/Norgate-AV/kfxc/internal/backend"
	"github.com/Norgate-AV/kfxc/internal/codes"
)

const (
	// HeaderSize is the fixed size of the on-disk header in bytes
	HeaderSize = 24

	// Magic tags a file as a compiled effect artifact ("KFX ")
	Magic uint32 = 'K' | 'F'<<8 | 'X'<<16 | ' '<<24

	// FormatVersion is the artifact container format this build reads and writes
	FormatVersion uint32 = 0x0106

	// Extension is the file extension of compiled artifacts
	Extension = ".kfx"
)

// Identity is the part of a header that must match exactly for an
// artifact to be reusable.
type Identity struct {
	Magic          uint32
	FormatVersion  uint32
	BackendTag     uint32
	BackendVersion uint32
}

// Expect returns the identity a reusable artifact must carry for the
// given backend.
func Expect(b backend.Backend) Identity {
	return Identity{
		Magic:          Magic,
		FormatVersion:  FormatVersion,
		BackendTag:     b.NativeShaderFourCC(),
		BackendVersion: b.NativeShaderVersion(),
	}
}

// Header is the fixed-layout prefix of every artifact. All fields are
// stored little-endian in declaration order.
type Header struct {
	Magic           uint32
	FormatVersion   uint32
	BackendTag      uint32
	BackendVersion  uint32
	SourceTimestamp uint64
}

// NewHeader returns the header for an artifact built for b from a source
// last modified at timestamp.
func NewHeader(b backend.Backend, timestamp uint64) Header {
	id := Expect(b)

	return Header{
		Magic:           id.Magic,
		FormatVersion:   id.FormatVersion,
		BackendTag:      id.BackendTag,
		BackendVersion:  id.BackendVersion,
		SourceTimestamp: timestamp,
	}
}

func (h Header) Identity() Identity {
	return Identity{
		Magic:          h.Magic,
		FormatVersion:  h.FormatVersion,
		BackendTag:     h.BackendTag,
		BackendVersion: h.BackendVersion,
	}
}

// AppendBinary appends the encoded header to b
func (h Header) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, h.Magic)
	b = binary.LittleEndian.AppendUint32(b, h.FormatVersion)
	b = binary.LittleEndian.AppendUint32(b, h.BackendTag)
	b = binary.LittleEndian.AppendUint32(b, h.BackendVersion)
	b = binary.LittleEndian.AppendUint64(b, h.SourceTimestamp)
	return b, nil
}

func (h Header) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, HeaderSize))
}

func (h *Header) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}

	*h = decoded
	return nil
}

// Decode reads a header from the first HeaderSize bytes of data. Field
// values are not validated.
func Decode(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errors.Newf(codes.CodeCorruptArtifact, "artifact header truncated: %d of %d bytes", len(data), HeaderSize)
	}

	return Header{
		Magic:           binary.LittleEndian.Uint32(data[0:4]),
		FormatVersion:   binary.LittleEndian.Uint32(data[4:8]),
		BackendTag:      binary.LittleEndian.Uint32(data[8:12]),
		BackendVersion:  binary.LittleEndian.Uint32(data[12:16]),
		SourceTimestamp: binary.LittleEndian.Uint64(data[16:24]),
	}, nil
}
