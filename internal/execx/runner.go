// Package execx runs external commands behind a small interface so the
// bootstrap sequence can be exercised in tests without touching the host.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Result holds the outcome of a finished command. A non-zero exit code is
// the failure signal for install/start strategies; err from Run is reserved
// for commands that could not be started at all.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner invokes external collaborators as opaque commands.
type Runner interface {
	// Run executes a command and waits for it to exit.
	Run(ctx context.Context, name string, args ...string) (Result, error)
	// Start launches a command without waiting (desktop apps, GUI installers).
	Start(ctx context.Context, name string, args ...string) error
	// LookPath reports whether a command is resolvable on PATH.
	LookPath(name string) (string, bool)
}

// System is the Runner backed by os/exec.
type System struct {
	// Verbose streams command output to the terminal in addition to
	// capturing it.
	Verbose bool
}

func (s *System) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if s.Verbose {
		cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("running %s: %w", name, err)
	}
	return res, nil
}

func (s *System) Start(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	// Detach: the process outlives the bootstrap run.
	go func() { _ = cmd.Wait() }()
	return nil
}

func (s *System) LookPath(name string) (string, bool) {
	path, err := exec.LookPath(name)
	return path, err == nil
}
