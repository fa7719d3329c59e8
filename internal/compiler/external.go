package compiler

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/exec"
)

// ExternalConfig describes an external compiler executable
type ExternalConfig struct {
	// Path is the compiler executable
	Path string

	// Args are passed before the platform token and source path
	Args []string

	// Timeout bounds a single run, as a time.ParseDuration string. Empty
	// means no limit.
	Timeout string

	// Platform is the token handed to the compiler
	Platform string
}

// External runs a separate compiler process for each effect. It is invoked
// as: <path> [args...] <platform> <source>. Its output is streamed to the
// terminal.
type External struct {
	cfg      ExternalConfig
	executor exec.Executor
	logger   *slog.Logger
}

// NewExternal creates a compiler that shells out to cfg.Path
func NewExternal(cfg ExternalConfig, logger *slog.Logger) *External {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &External{
		cfg:      cfg,
		executor: exec.New(exec.WithInheritEnv(), exec.WithPassthrough()),
		logger:   logger,
	}
}

// BuildCommandArgs builds the arguments passed to the compiler
func (c *External) BuildCommandArgs(sourcePath string) ([]string, error) {
	absFile, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeBuildFailed, "failed to resolve absolute path for %s", sourcePath)
	}

	var cmdArgs []string
	for _, arg := range c.cfg.Args {
		if arg != "" {
			cmdArgs = append(cmdArgs, arg)
		}
	}

	cmdArgs = append(cmdArgs, c.cfg.Platform, absFile)

	return cmdArgs, nil
}

// Compile executes the compiler command
func (c *External) Compile(ctx context.Context, sourcePath string) error {
	if c.cfg.Path == "" {
		return errors.New(errors.CodeBuildFailed, "no external compiler configured")
	}

	cmdArgs, err := c.BuildCommandArgs(sourcePath)
	if err != nil {
		return err
	}

	c.logger.Debug("running external compiler",
		"command", c.cfg.Path+" "+strings.Join(cmdArgs, " "),
		"timeout", c.cfg.Timeout,
	)

	e := c.executor.Clone().WithContext(ctx)
	if c.cfg.Timeout != "" {
		e = e.WithTimeout(c.cfg.Timeout)
	}

	_, err = exec.NewWrapper(e, c.cfg.Path).Run(cmdArgs...)
	if err != nil {
		var execErr *exec.ExecError
		if errors.As(err, &execErr) && execErr.ExitCode > 0 {
			return errors.Wrapf(err, errors.CodeBuildFailed, "compilation failed (exit code %d)", execErr.ExitCode)
		}

		return errors.Wrap(err, errors.CodeBuildFailed, "cannot run external compiler")
	}

	return nil
}
