// Package artifact reads and writes compiled effect artifacts.
//
// An artifact is a 24-byte little-endian header followed by an optional
// zstd-compressed CBOR payload:
//
//	[magic:4][format_version:4][backend_tag:4][backend_version:4][source_timestamp:8][payload...]
//
// The header alone decides whether an artifact can be reused. Readers must
// tolerate missing, truncated or foreign files; TryReadHeader reports them
// as absent instead of failing.
package artifact

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// PathFor returns the artifact path for an effect source: same directory,
// same base name, artifact extension.
func PathFor(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, base+Extension)
}

// TryReadHeader reads the header of the artifact at path. It returns false
// when the file is missing, unreadable, or shorter than HeaderSize.
func TryReadHeader(fsys billy.Basic, path string) (Header, bool) {
	f, err := fsys.Open(path)
	if err != nil {
		return Header{}, false
	}
	defer f.Close()

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return Header{}, false
	}

	var h Header
	if err := h.UnmarshalBinary(buf); err != nil {
		return Header{}, false
	}

	return h, true
}

// Write creates or truncates the artifact at path with the given header
// and payload. A nil payload writes a header-only artifact.
func Write(fsys billy.Filesystem, path string, h Header, p *Payload) error {
	data, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	if p != nil {
		body, err := EncodePayload(p)
		if err != nil {
			return err
		}

		data = append(data, body...)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	if err := util.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	return nil
}

// Read loads a whole artifact. The payload is nil for header-only artifacts.
func Read(fsys billy.Basic, path string) (Header, *Payload, error) {
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		return Header{}, nil, err
	}

	h, err := Decode(data)
	if err != nil {
		return Header{}, nil, err
	}

	if len(data) == HeaderSize {
		return h, nil, nil
	}

	p, err := DecodePayload(data[HeaderSize:])
	if err != nil {
		return h, nil, err
	}

	return h, p, nil
}
