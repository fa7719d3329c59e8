package artifact

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Shader is one translated entry point
type Shader struct {
	Name     string `cbor:"name" json:"name" yaml:"name"`
	Stage    string `cbor:"stage" json:"stage" yaml:"stage"`
	Language string `cbor:"language" json:"language" yaml:"language"`
	Code     string `cbor:"code" json:"code" yaml:"code"`
}

// Payload is the body stored after the header. Cache validity never
// depends on it.
type Payload struct {
	Platform     string   `cbor:"platform" json:"platform" yaml:"platform"`
	Backend      string   `cbor:"backend" json:"backend" yaml:"backend"`
	FeatureLevel string   `cbor:"feature_level,omitempty" json:"feature_level,omitempty" yaml:"feature_level,omitempty"`
	SourceDigest []byte   `cbor:"source_digest" json:"source_digest" yaml:"source_digest"`
	Shaders      []Shader `cbor:"shaders" json:"shaders" yaml:"shaders"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode

	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error

	// Core deterministic encoding: the same payload always produces the
	// same bytes.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("artifact: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("artifact: CBOR decoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic("artifact: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic("artifact: zstd decoder initialization failed: " + err.Error())
	}
}

// EncodePayload serializes p as CBOR and compresses it as a single zstd frame
func EncodePayload(p *Payload) ([]byte, error) {
	raw, err := encMode.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	return zstdEncoder.EncodeAll(raw, nil), nil
}

// DecodePayload reverses EncodePayload
func DecodePayload(data []byte) (*Payload, error) {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}

	var p Payload
	if err := decMode.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	return &p, nil
}
