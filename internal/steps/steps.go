// Package steps defines the concrete bootstrap sequence for the local
// AnythingLLM + Docker application stack.
package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/futureCreator/stackup/internal/bootstrap"
	"github.com/futureCreator/stackup/internal/config"
	"github.com/futureCreator/stackup/internal/envfile"
	"github.com/futureCreator/stackup/internal/execx"
	"github.com/futureCreator/stackup/internal/probe"
	"github.com/futureCreator/stackup/internal/prompt"
	"github.com/futureCreator/stackup/internal/session"
	"github.com/futureCreator/stackup/internal/types"
)

// Session key for the detected engine executable.
const KeyEnginePath = "engine_path"

// Env file keys consumed by the deployed stack.
const (
	EnvBaseURL       = "ANYTHINGLLM_BASE_URL"
	EnvAPIKey        = "ANYTHINGLLM_API_KEY"
	EnvWorkspaceSlug = "ANYTHINGLLM_WORKSPACE_SLUG"
	EnvDebugThinking = "ANYTHINGLLM_DEBUG_THINKING"
)

// Build constructs the ordered step list for one `up` run. Steps are
// evaluated strictly in this order; the session is threaded through via the
// closures below, never via package state.
func Build(cfg *config.Config, sess *session.Session, r execx.Runner, p prompt.Prompter) []types.Step {
	return []types.Step{
		workspaceStep(cfg),
		dockerInstallStep(cfg, r),
		dockerEngineStep(cfg, r),
		engineInstallStep(cfg, sess, r),
		engineReadyStep(cfg, sess, r),
		apiKeyStep(cfg, sess, p),
		envFileStep(cfg, sess),
		servicesStep(cfg, r),
	}
}

// workspaceStep is the environment precondition: the compose file must be in
// the working directory. No strategy can remediate a wrong directory.
func workspaceStep(cfg *config.Config) types.Step {
	return types.Step{
		Name:     "workspace",
		Required: true,
		Probe: types.ProbeFunc(func(ctx context.Context) (types.ProbeResult, error) {
			if _, err := os.Stat(cfg.ComposeFile); err != nil {
				return types.ProbeResult{Detail: fmt.Sprintf("%s not found in current directory", cfg.ComposeFile)}, nil
			}
			return types.ProbeResult{Satisfied: true, Detail: cfg.ComposeFile + " found"}, nil
		}),
		FailHint: fmt.Sprintf("Run stackup from the project root (the directory containing %s),\nor run `stackup init` to create a starter compose file.", cfg.ComposeFile),
	}
}

func dockerInstallStep(cfg *config.Config, r execx.Runner) types.Step {
	installerPath := filepath.Join(os.TempDir(), "DockerDesktopInstaller.exe")
	return types.Step{
		Name:     "docker-install",
		Required: true,
		Probe:    &probe.Command{Runner: r, Name: "docker", Args: []string{"--version"}},
		Confirm:  "Docker Desktop was not detected — install it now?",
		Strategies: []types.Strategy{
			command(r, "winget", "winget", "install", "-e", "--id", cfg.Docker.WingetID,
				"--accept-source-agreements", "--accept-package-agreements"),
			command(r, "chocolatey", "choco", "install", cfg.Docker.ChocoID, "-y"),
			types.StrategyFunc{Label: "direct download", Fn: func(ctx context.Context) error {
				if err := runChecked(ctx, r, "curl", "-fsSL", "-o", installerPath, cfg.Docker.DownloadURL); err != nil {
					return err
				}
				return runChecked(ctx, r, installerPath, "install", "--quiet", "--accept-license")
			}},
		},
		FailHint: "Install Docker Desktop manually from https://www.docker.com/products/docker-desktop/\nthen re-run `stackup up`.",
	}
}

func dockerEngineStep(cfg *config.Config, r execx.Runner) types.Step {
	return types.Step{
		Name:     "docker-engine",
		Required: true,
		Probe:    &probe.Command{Runner: r, Name: "docker", Args: []string{"info"}},
		Strategies: []types.Strategy{
			types.StrategyFunc{Label: "start Docker Desktop", Fn: func(ctx context.Context) error {
				path, ok := probe.FirstExisting(cfg.Docker.DesktopPaths)
				if !ok {
					return errors.New("Docker Desktop executable not found at any known location")
				}
				if err := r.Start(ctx, path); err != nil {
					return err
				}
				return waitCommand(ctx, cfg, r, "docker", "info")
			}},
		},
		FailHint: "Start Docker Desktop manually and wait for the engine to report ready,\nthen re-run `stackup up`.",
	}
}

func engineInstallStep(cfg *config.Config, sess *session.Session, r execx.Runner) types.Step {
	installerPath := filepath.Join(os.TempDir(), "AnythingLLMDesktop.exe")

	// recordPath re-evaluates the candidate list after an install strategy
	// so later steps can launch the detected executable.
	recordPath := func() {
		if path, ok := probe.FirstExisting(cfg.Engine.CandidatePaths); ok {
			sess.Set(KeyEnginePath, path)
		}
	}

	return types.Step{
		Name:     "engine-install",
		Required: true,
		Probe: types.ProbeFunc(func(ctx context.Context) (types.ProbeResult, error) {
			path, ok := probe.FirstExisting(cfg.Engine.CandidatePaths)
			if !ok {
				return types.ProbeResult{Detail: "AnythingLLM not found at any candidate path"}, nil
			}
			sess.Set(KeyEnginePath, path)
			return types.ProbeResult{Satisfied: true, Detail: path}, nil
		}),
		Confirm: "AnythingLLM Desktop was not detected — install it now?",
		Strategies: []types.Strategy{
			types.StrategyFunc{Label: "winget", Fn: func(ctx context.Context) error {
				if err := runChecked(ctx, r, "winget", "install", "-e", "--id", cfg.Engine.WingetID,
					"--accept-source-agreements", "--accept-package-agreements"); err != nil {
					return err
				}
				recordPath()
				return nil
			}},
			types.StrategyFunc{Label: "direct download", Fn: func(ctx context.Context) error {
				if err := runChecked(ctx, r, "curl", "-fsSL", "-o", installerPath, cfg.Engine.DownloadURL); err != nil {
					return err
				}
				if err := runChecked(ctx, r, installerPath, "/S"); err != nil {
					return err
				}
				recordPath()
				return nil
			}},
		},
		FailHint: "Install AnythingLLM Desktop manually from https://anythingllm.com/desktop\nthen re-run `stackup up`.",
	}
}

func engineReadyStep(cfg *config.Config, sess *session.Session, r execx.Runner) types.Step {
	pingURL := cfg.Engine.BaseURL + "/api/ping"
	return types.Step{
		Name: "engine-ready",
		// Not required: an unreachable engine only downgrades confidence;
		// the sequencer asks the user whether to continue.
		Required: false,
		Probe: types.ProbeFunc(func(ctx context.Context) (types.ProbeResult, error) {
			if err := probe.Reachable(ctx, pingURL, cfg.Readiness.TimeoutDuration()); err != nil {
				return types.ProbeResult{Detail: err.Error()}, nil
			}
			return types.ProbeResult{Satisfied: true, Detail: "engine answering at " + cfg.Engine.BaseURL}, nil
		}),
		Strategies: []types.Strategy{
			types.StrategyFunc{Label: "launch AnythingLLM", Fn: func(ctx context.Context) error {
				path, ok := sess.Get(KeyEnginePath)
				if !ok {
					if path, ok = probe.FirstExisting(cfg.Engine.CandidatePaths); !ok {
						return errors.New("no engine executable recorded for this session")
					}
				}
				if err := r.Start(ctx, path); err != nil {
					return err
				}
				return probe.WaitReachable(ctx, pingURL,
					cfg.Readiness.Attempts, cfg.Readiness.DelayDuration(), cfg.Readiness.TimeoutDuration())
			}},
		},
	}
}

func apiKeyStep(cfg *config.Config, sess *session.Session, p prompt.Prompter) types.Step {
	return types.Step{
		Name:     "api-key",
		Required: true,
		Probe: types.ProbeFunc(func(ctx context.Context) (types.ProbeResult, error) {
			if sess.APIKey() != "" {
				return types.ProbeResult{Satisfied: true, Detail: "key already confirmed"}, nil
			}
			// Reuse a key from a previous run when the env file has one.
			if values, err := envfile.Parse(cfg.EnvFile); err == nil {
				if key := values[EnvAPIKey]; key != "" {
					if err := sess.SetAPIKey(key); err != nil {
						return types.ProbeResult{}, err
					}
					return types.ProbeResult{Satisfied: true, Detail: "reusing key from " + cfg.EnvFile}, nil
				}
			}
			return types.ProbeResult{Detail: "no API key on file"}, nil
		}),
		Strategies: []types.Strategy{
			types.StrategyFunc{Label: "interactive prompt", Fn: func(ctx context.Context) error {
				key, err := bootstrap.CollectSecret(p, "AnythingLLM API key", ValidateAPIKey)
				if err != nil {
					return err
				}
				return sess.SetAPIKey(key)
			}},
		},
		FailHint: "Create an API key in AnythingLLM under Settings → Developer API,\nthen re-run `stackup up`.",
	}
}

func envFileStep(cfg *config.Config, sess *session.Session) types.Step {
	return types.Step{
		Name:     "env-file",
		Required: true,
		// The env file is rewritten on every run so stale values never
		// survive; the probe is deliberately never satisfied.
		Probe: types.ProbeFunc(func(ctx context.Context) (types.ProbeResult, error) {
			return types.ProbeResult{Detail: "rewriting " + cfg.EnvFile}, nil
		}),
		Strategies: []types.Strategy{
			types.StrategyFunc{Label: "write " + cfg.EnvFile, Fn: func(ctx context.Context) error {
				return envfile.Write(cfg.EnvFile, []envfile.Pair{
					{Key: EnvBaseURL, Value: cfg.Engine.BaseURL},
					{Key: EnvAPIKey, Value: sess.APIKey()},
					{Key: EnvWorkspaceSlug, Value: cfg.Engine.WorkspaceSlug},
					{Key: EnvDebugThinking, Value: strconv.FormatBool(cfg.Engine.DebugThinking)},
				})
			}},
		},
	}
}

func servicesStep(cfg *config.Config, r execx.Runner) types.Step {
	return types.Step{
		Name:     "services",
		Required: true,
		Probe: types.ProbeFunc(func(ctx context.Context) (types.ProbeResult, error) {
			res, err := r.Run(ctx, "docker", "compose", "-f", cfg.ComposeFile, "ps", "--quiet", "--status", "running")
			if err != nil || res.ExitCode != 0 || strings.TrimSpace(res.Stdout) == "" {
				return types.ProbeResult{Detail: "services not running"}, nil
			}
			return types.ProbeResult{Satisfied: true, Detail: "services already running"}, nil
		}),
		Strategies: []types.Strategy{
			command(r, "docker compose", "docker", "compose", "-f", cfg.ComposeFile, "up", "-d", "--build"),
			command(r, "docker-compose", "docker-compose", "-f", cfg.ComposeFile, "up", "-d", "--build"),
		},
		FailHint: "Run `docker compose up -d --build` manually and inspect its output.",
	}
}

// command wraps a single external invocation whose success criterion is a
// zero exit code.
func command(r execx.Runner, label, name string, args ...string) types.Strategy {
	return types.StrategyFunc{Label: label, Fn: func(ctx context.Context) error {
		return runChecked(ctx, r, name, args...)
	}}
}

func runChecked(ctx context.Context, r execx.Runner, name string, args ...string) error {
	res, err := r.Run(ctx, name, args...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(res.Stdout)
		}
		if i := strings.IndexByte(detail, '\n'); i >= 0 {
			detail = detail[:i]
		}
		return fmt.Errorf("%s exited %d: %s", name, res.ExitCode, detail)
	}
	return nil
}

// waitCommand polls an external command with the configured readiness budget
// until it exits zero.
func waitCommand(ctx context.Context, cfg *config.Config, r execx.Runner, name string, args ...string) error {
	var lastErr error
	for i := 0; i < cfg.Readiness.Attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.Readiness.DelayDuration()):
			}
		}
		if lastErr = runChecked(ctx, r, name, args...); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("not ready after %d attempts: %w", cfg.Readiness.Attempts, lastErr)
}

// ValidateAPIKey is a soft plausibility check: AnythingLLM keys look like
// dash-separated groups. Failing it only triggers a confirmation prompt.
func ValidateAPIKey(key string) error {
	if strings.ContainsAny(key, " \t") {
		return errors.New("contains whitespace")
	}
	groups := strings.Split(key, "-")
	if len(groups) < 2 {
		return errors.New("expected dash-separated groups")
	}
	for _, g := range groups {
		if g == "" {
			return errors.New("empty group between dashes")
		}
	}
	return nil
}
