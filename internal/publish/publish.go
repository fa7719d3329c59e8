// Package publish copies compiled artifacts to their destination directory.
package publish

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/errors"
)

// Publish copies the artifact at artifactPath into destDir, keeping its file
// name, and returns the path of the published copy. It does nothing when
// destDir is empty or is the artifact's own directory. An existing regular
// file at the target is overwritten.
func Publish(fsys billy.Filesystem, artifactPath, destDir string) (string, error) {
	if destDir == "" {
		return artifactPath, nil
	}

	srcDir, err := filepath.Abs(filepath.Dir(artifactPath))
	if err != nil {
		return "", errors.Wrap(err, errors.CodePublishFailed, "cannot resolve artifact directory")
	}

	dstDir, err := filepath.Abs(destDir)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodePublishFailed, "cannot resolve destination %q", destDir)
	}

	if srcDir == dstDir || sameDir(fsys, srcDir, dstDir) {
		return artifactPath, nil
	}

	dst := filepath.Join(dstDir, filepath.Base(artifactPath))

	if info, err := fsys.Lstat(dst); err == nil && !info.Mode().IsRegular() {
		return "", errors.Newf(errors.CodePublishFailed, "cannot copy artifact to %s: not a regular file", dst)
	}

	if err := copyFile(fsys, artifactPath, dst); err != nil {
		return "", errors.Wrapf(err, errors.CodePublishFailed, "cannot copy artifact to %s", dst)
	}

	return dst, nil
}

// sameDir reports whether a and b resolve to the same directory, following
// symlinks. A directory that cannot be stat'ed is never the same.
func sameDir(fsys billy.Basic, a, b string) bool {
	ai, err := fsys.Stat(a)
	if err != nil {
		return false
	}

	bi, err := fsys.Stat(b)
	if err != nil {
		return false
	}

	return os.SameFile(ai, bi)
}

// copyFile copies src to a temporary file next to dst and renames it into
// place. dst is never opened for writing, so src survives even when dst
// turns out to be the same file.
func copyFile(fsys billy.Filesystem, src, dst string) error {
	srcFile, err := fsys.Open(src)
	if err != nil {
		return err
	}

	defer srcFile.Close()

	// Create parent directory if needed
	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcInfo, err := fsys.Stat(src)
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp")

	tmpFile, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmpFile, srcFile); err != nil {
		tmpFile.Close()
		_ = fsys.Remove(tmp)
		return err
	}

	if err := tmpFile.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}

	if err := fsys.Rename(tmp, dst); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	return nil
}
