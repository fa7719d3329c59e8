package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/kfxc/internal/backend"
	"github.com/Norgate-AV/kfxc/internal/platform"
)

var platformsCmd = &cobra.Command{
	Use:          "platforms",
	Short:        "List the supported platform tokens",
	Args:         cobra.NoArgs,
	RunE:         runPlatforms,
	SilenceUsage: true,
}

func runPlatforms(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "%-16s %-9s %-6s %-5s %s\n", "PLATFORM", "BACKEND", "LEVEL", "TAG", "VERSION")

	for _, token := range platform.Tokens() {
		profile, err := platform.Resolve(token)
		if err != nil {
			return err
		}

		level := profile.FeatureLevel.String()
		if level == "" {
			level = "-"
		}

		b := backend.New(profile)
		fmt.Fprintf(w, "%-16s %-9s %-6s %-5s 0x%08x\n",
			profile.Token,
			profile.Backend,
			level,
			backend.FourCCString(b.NativeShaderFourCC()),
			b.NativeShaderVersion(),
		)
	}

	return nil
}
