// Package compiler turns effect sources into compiled artifacts.
//
// A Compiler writes the artifact next to its source (see artifact.PathFor)
// with a header carrying the active backend's identity and the source
// timestamp observed when compilation started. Failures are reported as
// errors.CodeBuildFailed and are never retried.
package compiler

import (
	"context"
)

// Compiler compiles the effect at sourcePath into its artifact
type Compiler interface {
	Compile(ctx context.Context, sourcePath string) error
}

// Func adapts an ordinary function to the Compiler interface
type Func func(ctx context.Context, sourcePath string) error

func (f Func) Compile(ctx context.Context, sourcePath string) error {
	return f(ctx, sourcePath)
}
