// Package cache decides whether a compiled effect artifact can be reused.
//
// An artifact is reusable when its header carries exactly the expected
// identity (magic, format version, backend tag, backend version) and the
// source has not been modified since the timestamp recorded in it. Any
// problem reading the artifact is treated as "no artifact" and leads to a
// recompile, never to an error.
package cache

import (
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/Norgate-AV/kfxc/internal/artifact"
)

// Validator inspects artifacts on a filesystem
type Validator struct {
	fs billy.Basic
}

func NewValidator(fsys billy.Basic) *Validator {
	return &Validator{fs: fsys}
}

// Decide returns Reuse only when the artifact at artifactPath matches want
// and was built from a source no older than src.
func (v *Validator) Decide(src Source, artifactPath string, want artifact.Identity) Decision {
	h, ok := artifact.TryReadHeader(v.fs, artifactPath)
	if !ok {
		reason := ReasonUnreadable
		if _, err := v.fs.Stat(artifactPath); os.IsNotExist(err) {
			reason = ReasonMissing
		}

		return Decision{Action: Recompile, Path: artifactPath, Reason: reason}
	}

	got := h.Identity()
	if got.Magic != want.Magic || got.FormatVersion != want.FormatVersion {
		return Decision{Action: Recompile, Path: artifactPath, Reason: ReasonForeignFormat}
	}

	if got != want {
		return Decision{Action: Recompile, Path: artifactPath, Reason: ReasonBackendChanged}
	}

	if src.Timestamp > h.SourceTimestamp {
		return Decision{Action: Recompile, Path: artifactPath, Reason: ReasonStale}
	}

	return Decision{Action: Reuse, Path: artifactPath, Reason: ReasonUpToDate}
}
