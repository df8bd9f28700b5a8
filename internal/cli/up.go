package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/futureCreator/stackup/internal/bootstrap"
	"github.com/futureCreator/stackup/internal/config"
	"github.com/futureCreator/stackup/internal/execx"
	vlog "github.com/futureCreator/stackup/internal/log"
	"github.com/futureCreator/stackup/internal/prompt"
	"github.com/futureCreator/stackup/internal/session"
	"github.com/futureCreator/stackup/internal/steps"
	"github.com/spf13/cobra"
)

var upVerbose bool

var upCmd = &cobra.Command{
	Use:          "up",
	Short:        "Run the full bootstrap sequence",
	Long:         "Probes each prerequisite in order, remediates whatever is missing\n(asking before anything ambiguous), writes the env file and starts the\ncompose services.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUp(cmd, upVerbose)
	},
}

func init() {
	upCmd.Flags().BoolVarP(&upVerbose, "verbose", "v", false, "Stream external command output to the terminal")
}

func runUp(cmd *cobra.Command, verbose bool) error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Init logging
	logFile := openLogFile()
	vlog.Init(cfg.LogLevel, logFile)
	if logFile != nil {
		defer logFile.Close()
	}

	// Create the session journal
	sess, err := session.New(filepath.Join(".stackup", "sessions"))
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	runner := &execx.System{Verbose: verbose}
	prompter := prompt.NewConsole()

	disp := bootstrap.NewDisplay("bringing the stack up", verbose)
	disp.Header()

	seq := &bootstrap.Sequencer{
		Steps:   steps.Build(cfg, sess, runner, prompter),
		Session: sess,
		Display: disp,
		Prompt:  prompter,
	}

	if err := seq.Execute(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("Environment written to %s — session journal in %s\n", cfg.EnvFile, sess.Dir)
	return nil
}

func openLogFile() *os.File {
	dir := ".stackup"
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil
	}
	f, err := os.OpenFile(dir+"/stackup.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	return f
}
