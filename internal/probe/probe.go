// Package probe implements the external-state checks the sequencer runs
// before deciding whether a step needs remediation.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/futureCreator/stackup/internal/execx"
	vlog "github.com/futureCreator/stackup/internal/log"
	"github.com/futureCreator/stackup/internal/types"
)

// Command reports satisfied when an external command exits zero, optionally
// requiring its combined output to match Expect.
type Command struct {
	Runner execx.Runner
	Name   string
	Args   []string
	Expect *regexp.Regexp
}

func (c *Command) Check(ctx context.Context) (types.ProbeResult, error) {
	res, err := c.Runner.Run(ctx, c.Name, c.Args...)
	if err != nil {
		// Command not even startable (e.g. not installed) is just "unsatisfied".
		return types.ProbeResult{Detail: err.Error()}, nil
	}
	if res.ExitCode != 0 {
		return types.ProbeResult{Detail: firstLine(res.Stderr)}, nil
	}
	out := res.Stdout + res.Stderr
	if c.Expect != nil && !c.Expect.MatchString(out) {
		return types.ProbeResult{Detail: fmt.Sprintf("unexpected output: %s", firstLine(out))}, nil
	}
	return types.ProbeResult{Satisfied: true, Detail: firstLine(res.Stdout)}, nil
}

// FirstExisting evaluates an ordered candidate path list and returns the
// first that exists on disk. Environment references like ${LOCALAPPDATA}
// are expanded before the lookup.
func FirstExisting(candidates []string) (string, bool) {
	for _, c := range candidates {
		p := os.ExpandEnv(c)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// Reachable performs a best-effort GET against url. Any HTTP response counts
// as reachable; the caller only wants to know something is listening.
func Reachable(ctx context.Context, url string, timeout time.Duration) error {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("probing %s: %w", url, err)
	}
	resp.Body.Close()
	return nil
}

// WaitReachable polls url until it answers, with a fixed attempt budget and
// a fixed delay between polls.
func WaitReachable(ctx context.Context, url string, attempts int, delay, timeout time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if lastErr = Reachable(ctx, url, timeout); lastErr == nil {
			return nil
		}
		vlog.Debug("readiness poll missed", "url", url, "attempt", i+1, "err", lastErr)
	}
	return fmt.Errorf("not reachable after %d attempts: %w", attempts, lastErr)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
