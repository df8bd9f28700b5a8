package assets

import (
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig_IsValidYAML(t *testing.T) {
	content, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig failed: %v", err)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		t.Fatalf("embedded config is not valid YAML: %v", err)
	}
	if _, ok := doc["engine"]; !ok {
		t.Error("embedded config missing engine section")
	}
}

func TestEmbeddedFallback_ResolvesWithoutOverrides(t *testing.T) {
	// No project or user overrides present, so only the embedded copy can
	// answer — and embed.FS only accepts slash-separated paths.
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())

	for _, name := range []string{"config.yaml", "docker-compose.yml"} {
		if _, err := loadWithOverride(name); err != nil {
			t.Errorf("embedded template %s not resolved: %v", name, err)
		}
	}
}

func TestStarterCompose_HasServices(t *testing.T) {
	content, err := StarterCompose()
	if err != nil {
		t.Fatalf("StarterCompose failed: %v", err)
	}
	if !strings.Contains(content, "services:") {
		t.Errorf("starter compose missing services block: %q", content)
	}
	if !strings.Contains(content, "env_file: .env") {
		t.Error("starter compose should reference the generated env file")
	}
}
