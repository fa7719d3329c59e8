package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/kfxc/internal/codes"
	"github.com/Norgate-AV/kfxc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "kfxc <platform> <source> [destination]",
	Short: "Shader effect compiler",
	Long: `Compile a WGSL effect into a platform-specific .kfx artifact.

The artifact is written next to the source and reused on later runs while
it still matches the platform's backend and is newer than the source. When
a destination directory is given, the artifact is also copied there.`,
	RunE:          runBuild,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
}

// Execute runs the root command and exits with the code matching the
// error, if any.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		code := codes.ExitCode(err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", codes.Describe(code), err)
		os.Exit(code)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Compile even if a valid artifact exists")
	rootCmd.PersistentFlags().StringP("compiler", "c", "", "External effect compiler (default: built-in)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: .kfxc.{yml,yaml,json,toml} near the source)")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(platformsCmd)
}
