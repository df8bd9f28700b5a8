package cli

import (
	"fmt"

	"github.com/futureCreator/stackup/internal/config"
	"github.com/futureCreator/stackup/internal/envfile"
	"github.com/futureCreator/stackup/internal/execx"
	"github.com/futureCreator/stackup/internal/probe"
	"github.com/futureCreator/stackup/internal/steps"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check stack prerequisites without remediating anything",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runner := &execx.System{}
	allOK := true

	check := func(label string, ok bool, hint string) {
		if ok {
			fmt.Printf("✅ %s\n", label)
		} else {
			fmt.Printf("❌ %s — %s\n", label, hint)
			allOK = false
		}
	}

	// 1. config
	cfg, cfgErr := config.Load()
	check("config loadable", cfgErr == nil, fmt.Sprintf("fix config: %v", cfgErr))
	if cfgErr != nil {
		return nil
	}
	validateErr := cfg.Validate()
	check("config valid", validateErr == nil, fmt.Sprintf("%v", validateErr))

	// 2. container runtime
	_, dockerOK := runner.LookPath("docker")
	check("docker installed", dockerOK, "install Docker Desktop or run `stackup up`")
	if dockerOK {
		infoRes, infoErr := runner.Run(ctx, "docker", "info")
		check("docker engine running", infoErr == nil && infoRes.ExitCode == 0, "start Docker Desktop")
		composeRes, composeErr := runner.Run(ctx, "docker", "compose", "version")
		if composeErr != nil || composeRes.ExitCode != 0 {
			_, legacy := runner.LookPath("docker-compose")
			check("compose available", legacy, "update Docker Desktop or install docker-compose")
		} else {
			check("compose available", true, "")
		}
	}

	// 3. AI engine
	path, found := probe.FirstExisting(cfg.Engine.CandidatePaths)
	check("AnythingLLM installed", found, "install it or run `stackup up`")
	if found {
		fmt.Printf("   found at %s\n", path)
	}
	reachErr := probe.Reachable(ctx, cfg.Engine.BaseURL+"/api/ping", cfg.Readiness.TimeoutDuration())
	check("engine reachable at "+cfg.Engine.BaseURL, reachErr == nil, "launch AnythingLLM Desktop")

	// 4. env file
	values, envErr := envfile.Parse(cfg.EnvFile)
	check(cfg.EnvFile+" present", envErr == nil, "run `stackup up` to generate it")
	if envErr == nil {
		for _, key := range []string{steps.EnvBaseURL, steps.EnvAPIKey, steps.EnvWorkspaceSlug, steps.EnvDebugThinking} {
			check(key+" set", values[key] != "", "re-run `stackup up`")
		}
	}

	fmt.Println()
	if allOK {
		fmt.Println("All checks passed. The stack is ready.")
	} else {
		fmt.Println("Some checks failed. Run `stackup up` to remediate, or fix the issues above.")
	}
	return nil
}
