// Package assets provides embedded starter templates for `stackup init`.
package assets

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

//go:embed templates/*.yml templates/*.yaml
var templatesFS embed.FS

// DefaultConfig returns the starter config.yaml content.
func DefaultConfig() (string, error) {
	return loadWithOverride("config.yaml")
}

// StarterCompose returns the starter docker-compose.yml content.
func StarterCompose() (string, error) {
	return loadWithOverride("docker-compose.yml")
}

// loadWithOverride resolves a template. Override lookup order:
// project .stackup/templates/ > user ~/.stackup/templates/ > embedded.
func loadWithOverride(filename string) (string, error) {
	// 1. project-level override
	projectPath := filepath.Join(".stackup", "templates", filename)
	if data, err := os.ReadFile(projectPath); err == nil {
		return string(data), nil
	}

	// 2. user-level override
	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".stackup", "templates", filename)
		if data, err := os.ReadFile(userPath); err == nil {
			return string(data), nil
		}
	}

	// 3. embedded default; embed.FS paths are slash-separated on every OS
	data, err := templatesFS.ReadFile(path.Join("templates", filename))
	if err != nil {
		return "", fmt.Errorf("template %q not found", filename)
	}
	return string(data), nil
}
