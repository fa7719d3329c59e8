package cache

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/errors"
)

// ErrSourceNotFound is returned when the effect source does not exist or
// is not a regular file.
var ErrSourceNotFound = errors.New(errors.CodeNotFound, "effect source not found")

// Source describes an effect source at the moment it was read. Timestamp
// is the last modification time in whole seconds since the Unix epoch.
type Source struct {
	Path      string
	Timestamp uint64
}

// ReadSource resolves path and captures its modification time. The result
// is a snapshot: later changes to the file are not reflected.
func ReadSource(fsys billy.Basic, path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, errors.Wrapf(err, errors.CodeNotFound, "cannot resolve source path %q", path)
	}

	info, err := fsys.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{}, errors.Wrapf(ErrSourceNotFound, errors.CodeNotFound, "%s", abs)
		}

		return Source{}, errors.Wrapf(err, errors.CodeNotFound, "cannot stat source %q", abs)
	}

	if !info.Mode().IsRegular() {
		return Source{}, errors.Wrapf(ErrSourceNotFound, errors.CodeNotFound, "%s is not a regular file", abs)
	}

	return Source{Path: abs, Timestamp: unixSeconds(info)}, nil
}

func unixSeconds(info os.FileInfo) uint64 {
	secs := info.ModTime().Unix()
	if secs < 0 {
		return 0
	}

	return uint64(secs)
}
