package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/futureCreator/stackup/internal/assets"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default stackup configuration and a starter compose file",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("getting home dir: %w", err)
	}

	configDir := filepath.Join(home, ".stackup")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists: %s\n", configPath)
	} else {
		content, err := assets.DefaultConfig()
		if err != nil {
			return err
		}
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Printf("Created %s\n", configPath)
	}

	composePath := "docker-compose.yml"
	if _, err := os.Stat(composePath); err == nil {
		fmt.Printf("Compose file already exists: %s\n", composePath)
	} else {
		content, err := assets.StarterCompose()
		if err != nil {
			return err
		}
		if err := os.WriteFile(composePath, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing compose file: %w", err)
		}
		fmt.Printf("Created %s\n", composePath)
	}

	fmt.Println("Edit the config to adjust install paths or the engine URL, then run `stackup up`.")
	return nil
}
