package compiler

import (
	"context"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/errors"

	"github.com/Norgate-AV/kfxc/internal/artifact"
	"github.com/Norgate-AV/kfxc/internal/backend"
	"github.com/Norgate-AV/kfxc/internal/cache"
	"github.com/Norgate-AV/kfxc/internal/platform"
)

// Builtin compiles WGSL effects in process
type Builtin struct {
	fs      billy.Filesystem
	profile platform.Profile
	backend backend.Backend
	logger  *slog.Logger
}

func NewBuiltin(fsys billy.Filesystem, profile platform.Profile, b backend.Backend, logger *slog.Logger) *Builtin {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Builtin{
		fs:      fsys,
		profile: profile,
		backend: b,
		logger:  logger,
	}
}

// Compile translates the effect and writes its artifact. The header records
// the source timestamp taken before the source is read, so an edit made
// during compilation leaves the artifact stale rather than falsely fresh.
func (c *Builtin) Compile(ctx context.Context, sourcePath string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeBuildFailed, "compilation cancelled")
	}

	src, err := cache.ReadSource(c.fs, sourcePath)
	if err != nil {
		return errors.Wrap(err, errors.CodeBuildFailed, "cannot read effect source")
	}

	data, err := util.ReadFile(c.fs, src.Path)
	if err != nil {
		return errors.Wrapf(err, errors.CodeBuildFailed, "cannot read %s", src.Path)
	}

	shaders, err := Translate(string(data), c.profile)
	if err != nil {
		return errors.Wrapf(err, errors.CodeBuildFailed, "cannot compile %s for %s", src.Path, c.profile.Token)
	}

	digest := cache.HashBytes(data)
	payload := &artifact.Payload{
		Platform:     c.profile.Token,
		Backend:      c.profile.Backend.String(),
		FeatureLevel: c.profile.FeatureLevel.String(),
		SourceDigest: digest[:],
		Shaders:      shaders,
	}

	out := artifact.PathFor(src.Path)
	if err := artifact.Write(c.fs, out, artifact.NewHeader(c.backend, src.Timestamp), payload); err != nil {
		return errors.Wrap(err, errors.CodeBuildFailed, "cannot write artifact")
	}

	c.logger.Debug("artifact written",
		"path", out,
		"shaders", len(shaders),
		"source_timestamp", src.Timestamp,
	)

	return nil
}
