// Package build runs one effect build: read the source, decide whether the
// cached artifact can be reused, compile when it cannot, verify the result
// and publish it to the destination directory.
package build

import (
	"context"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/jmgilman/go/errors"

	"github.com/Norgate-AV/kfxc/internal/artifact"
	"github.com/Norgate-AV/kfxc/internal/backend"
	"github.com/Norgate-AV/kfxc/internal/cache"
	"github.com/Norgate-AV/kfxc/internal/compiler"
	"github.com/Norgate-AV/kfxc/internal/publish"
)

// Request describes a single build
type Request struct {
	// SourcePath is the effect source, relative or absolute
	SourcePath string

	// DestDir receives a copy of the artifact. Empty leaves it next to the
	// source.
	DestDir string

	// Force skips the cache decision and always compiles
	Force bool
}

// Result reports what a build did
type Result struct {
	// ArtifactPath is where the final artifact lives
	ArtifactPath string

	// Decision is the cache decision taken before compiling
	Decision cache.Decision

	// Compiled is true when the compiler ran
	Compiled bool
}

// Runner wires the cache validator, compiler and publisher together for
// one backend.
type Runner struct {
	fs        billy.Filesystem
	backend   backend.Backend
	compiler  compiler.Compiler
	validator *cache.Validator
	logger    *slog.Logger
}

func NewRunner(fsys billy.Filesystem, b backend.Backend, c compiler.Compiler, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Runner{
		fs:        fsys,
		backend:   b,
		compiler:  c,
		validator: cache.NewValidator(fsys),
		logger:    logger,
	}
}

// Run performs the build described by req
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	src, err := cache.ReadSource(r.fs, req.SourcePath)
	if err != nil {
		return nil, err
	}

	path := artifact.PathFor(src.Path)
	want := artifact.Expect(r.backend)

	decision := cache.Forced(path)
	if !req.Force {
		decision = r.validator.Decide(src, path, want)
	}

	r.logger.Debug("cache decision",
		"source", src.Path,
		"artifact", path,
		"action", decision.Action.String(),
		"reason", decision.Reason,
	)

	result := &Result{Decision: decision}

	if !decision.Reuse() {
		if err := r.compile(ctx, src, path, want); err != nil {
			return nil, err
		}

		result.Compiled = true
	}

	final, err := publish.Publish(r.fs, path, req.DestDir)
	if err != nil {
		return nil, err
	}

	if final != path {
		r.logger.Debug("artifact published", "from", path, "to", final)
	}

	result.ArtifactPath = final

	return result, nil
}

// compile runs the compiler and checks that it left a reusable artifact
// for the same source snapshot.
func (r *Runner) compile(ctx context.Context, src cache.Source, path string, want artifact.Identity) error {
	r.logger.Debug("compiling", "source", src.Path)

	if err := r.compiler.Compile(ctx, src.Path); err != nil {
		if errors.GetCode(err) == errors.CodeBuildFailed {
			return err
		}

		return errors.Wrapf(err, errors.CodeBuildFailed, "cannot compile %s", src.Path)
	}

	check := r.validator.Decide(src, path, want)
	if !check.Reuse() {
		return errors.Newf(errors.CodeBuildFailed, "compiler did not produce a valid artifact at %s: %s", path, check.Reason)
	}

	r.logger.Debug("compiled", "artifact", path)

	return nil
}
