package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	EnvFile     string          `yaml:"env_file"`
	ComposeFile string          `yaml:"compose_file"`
	Engine      EngineConfig    `yaml:"engine"`
	Docker      DockerConfig    `yaml:"docker"`
	Readiness   ReadinessConfig `yaml:"readiness"`
	LogLevel    string          `yaml:"log_level"`
}

// EngineConfig describes the AnythingLLM desktop engine.
type EngineConfig struct {
	BaseURL       string `yaml:"base_url"`
	WorkspaceSlug string `yaml:"workspace_slug"`
	DebugThinking bool   `yaml:"debug_thinking"`
	// CandidatePaths is the ordered list of install locations to probe;
	// the first existing path wins. ${VAR} references are expanded.
	CandidatePaths []string `yaml:"candidate_paths"`
	WingetID       string   `yaml:"winget_id"`
	DownloadURL    string   `yaml:"download_url"`
}

// DockerConfig describes the container runtime and its installers.
type DockerConfig struct {
	DesktopPaths []string `yaml:"desktop_paths"`
	WingetID     string   `yaml:"winget_id"`
	ChocoID      string   `yaml:"choco_id"`
	DownloadURL  string   `yaml:"download_url"`
}

// ReadinessConfig bounds the readiness poll loops.
type ReadinessConfig struct {
	Attempts int    `yaml:"attempts"`
	Delay    string `yaml:"delay"`   // e.g. "3s"
	Timeout  string `yaml:"timeout"` // per-poll HTTP timeout
}

// DelayDuration parses the poll delay, falling back to 3s.
func (r ReadinessConfig) DelayDuration() time.Duration {
	return parseDuration(r.Delay, 3*time.Second)
}

// TimeoutDuration parses the per-poll timeout, falling back to 3s.
func (r ReadinessConfig) TimeoutDuration() time.Duration {
	return parseDuration(r.Timeout, 3*time.Second)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.EnvFile == "" {
		return fmt.Errorf("env_file is required")
	}
	if c.ComposeFile == "" {
		return fmt.Errorf("compose_file is required")
	}
	if c.Engine.BaseURL == "" {
		return fmt.Errorf("engine.base_url is required")
	}
	if c.Readiness.Attempts <= 0 {
		return fmt.Errorf("readiness.attempts must be positive")
	}
	if c.Readiness.Delay != "" {
		if _, err := time.ParseDuration(c.Readiness.Delay); err != nil {
			return fmt.Errorf("readiness.delay: %w", err)
		}
	}
	return nil
}

// Load resolves config from project → user → defaults.
func Load() (*Config, error) {
	cfg := defaults()

	// user-level config
	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".stackup", "config.yaml")
		if err := mergeFile(cfg, userPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	// project-level config (highest priority)
	projectPath := filepath.Join(".stackup", "config.yaml")
	if err := mergeFile(cfg, projectPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return cfg, nil
}

func mergeFile(dst *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Reject credentials stored in config before merging.
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err == nil {
		if eng, ok := raw["engine"].(map[string]interface{}); ok {
			if _, hasKey := eng["api_key"]; hasKey {
				return fmt.Errorf("configuration field 'engine.api_key' is not supported. "+
					"Remove it from %s; the key is collected interactively during `stackup up` "+
					"and written only to the env file.", path)
			}
		}
	}
	return yaml.Unmarshal(data, dst)
}

func defaults() *Config {
	return &Config{
		EnvFile:     ".env",
		ComposeFile: "docker-compose.yml",
		Engine: EngineConfig{
			BaseURL:       "http://localhost:3001",
			WorkspaceSlug: "MBBuddy",
			DebugThinking: false,
			CandidatePaths: []string{
				`${LOCALAPPDATA}\Programs\AnythingLLM\AnythingLLM.exe`,
				`${USERPROFILE}\AppData\Local\Programs\AnythingLLM\AnythingLLM.exe`,
				`C:\Program Files\AnythingLLM\AnythingLLM.exe`,
			},
			WingetID:    "Mintplex.AnythingLLM",
			DownloadURL: "https://cdn.anythingllm.com/latest/AnythingLLMDesktop.exe",
		},
		Docker: DockerConfig{
			DesktopPaths: []string{
				`C:\Program Files\Docker\Docker\Docker Desktop.exe`,
				`${LOCALAPPDATA}\Docker\Docker Desktop.exe`,
			},
			WingetID:    "Docker.DockerDesktop",
			ChocoID:     "docker-desktop",
			DownloadURL: "https://desktop.docker.com/win/main/amd64/Docker%20Desktop%20Installer.exe",
		},
		Readiness: ReadinessConfig{
			Attempts: 10,
			Delay:    "3s",
			Timeout:  "3s",
		},
		LogLevel: "info",
	}
}
