package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/kfxc/internal/backend"
	"github.com/Norgate-AV/kfxc/internal/build"
	"github.com/Norgate-AV/kfxc/internal/compiler"
	"github.com/Norgate-AV/kfxc/internal/config"
	"github.com/Norgate-AV/kfxc/internal/logging"
	"github.com/Norgate-AV/kfxc/internal/platform"
)

var buildCmd = &cobra.Command{
	Use:          "build <platform> <source> [destination]",
	Short:        "Build an effect",
	Long:         `Compile an effect for the given platform, reusing the cached artifact when it is still valid.`,
	RunE:         runBuild,
	SilenceUsage: true,
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: kfxc %s <source> [destination]\n", strings.Join(platform.Tokens(), "|"))
}

func runBuild(cmd *cobra.Command, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		printUsage(cmd.ErrOrStderr())
		return errors.Newf(errors.CodeInvalidInput, "expected 2 or 3 arguments, got %d", len(args))
	}

	profile, err := platform.Resolve(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.NewLoader().LoadForBuild(cmd, args)
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFormat)
	if err != nil {
		return errors.Wrap(err, errors.CodeSchemaFailed, "invalid logging configuration")
	}

	logger.Debug("platform resolved",
		"token", profile.Token,
		"backend", profile.Backend.String(),
		"options", profile.Options(),
	)

	fsys := osfs.New("/")
	b := backend.New(profile)

	var destDir string
	if len(args) == 3 {
		destDir = args[2]
	}

	runner := build.NewRunner(fsys, b, newCompiler(cfg, profile, b, fsys, logger), logger)

	res, err := runner.Run(cmd.Context(), build.Request{
		SourcePath: args[1],
		DestDir:    destDir,
		Force:      cfg.Force,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Compiled kfx has been saved to %s.\n", res.ArtifactPath)

	return nil
}

func newCompiler(cfg *config.Config, profile platform.Profile, b backend.Backend, fsys billy.Filesystem, logger *slog.Logger) compiler.Compiler {
	if cfg.UsesBuiltin() {
		return compiler.NewBuiltin(fsys, profile, b, logger)
	}

	return compiler.NewExternal(compiler.ExternalConfig{
		Path:     cfg.CompilerPath,
		Args:     cfg.CompilerArgs,
		Timeout:  cfg.CompilerTimeout,
		Platform: profile.Token,
	}, logger)
}
