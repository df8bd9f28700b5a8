package cli

import (
	"context"
	"fmt"

	"github.com/futureCreator/stackup/internal/config"
	"github.com/futureCreator/stackup/internal/execx"
	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:          "down",
	Short:        "Stop the compose services",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return composeDown(cmd.Context(), &execx.System{}, cfg.ComposeFile)
	},
}

// composeDown tries the compose v2 plugin first, then the standalone v1 binary.
func composeDown(ctx context.Context, r execx.Runner, composeFile string) error {
	res, err := r.Run(ctx, "docker", "compose", "-f", composeFile, "down")
	if err == nil && res.ExitCode == 0 {
		fmt.Println("Services stopped.")
		return nil
	}
	res, err = r.Run(ctx, "docker-compose", "-f", composeFile, "down")
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("docker-compose down exited %d: %s", res.ExitCode, res.Stderr)
	}
	fmt.Println("Services stopped.")
	return nil
}
