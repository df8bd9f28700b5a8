package cli

import (
	"fmt"

	"github.com/futureCreator/stackup/pkg/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stackup",
	Short: "Bootstrap the local AnythingLLM + Docker application stack",
	Long:  `stackup probes the workstation for Docker Desktop and AnythingLLM, installs whatever is missing, collects the engine API key, writes the env file and brings the compose services up.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(initCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stackup %s\n", version.Version)
	},
}
