package cache

import (
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest of an effect source
type Digest [32]byte

// sourceDomainKey keys the source digest so it never collides with hashes
// computed for other purposes over the same bytes.
var sourceDomainKey = [32]byte{
	'k', 'f', 'x', 'c', '.', 's', 'o', 'u', 'r', 'c', 'e',
}

// HashSource computes the keyed BLAKE3 digest of the file at path. The
// digest is recorded in artifact payloads; it never decides reuse.
func HashSource(fsys billy.Basic, path string) (Digest, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	h, err := blake3.NewKeyed(sourceDomainKey[:])
	if err != nil {
		return Digest{}, fmt.Errorf("failed to initialise hasher: %w", err)
	}

	if _, err := io.Copy(h, f); err != nil {
		return Digest{}, fmt.Errorf("failed to hash source file: %w", err)
	}

	var d Digest
	copy(d[:], h.Sum(nil))

	return d, nil
}

// HashBytes is HashSource for in-memory content
func HashBytes(data []byte) Digest {
	h, err := blake3.NewKeyed(sourceDomainKey[:])
	if err != nil {
		panic("cache: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	h.Write(data)

	var d Digest
	copy(d[:], h.Sum(nil))

	return d
}
