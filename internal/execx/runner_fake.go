package execx

import (
	"context"
	"fmt"
	"strings"
)

// Fake is a scripted Runner for tests. Responses are keyed by the joined
// command line; every invocation is recorded in Calls.
type Fake struct {
	// Results maps "name arg1 arg2..." to the canned result.
	Results map[string]Result
	// Errs maps a command line to a start failure.
	Errs map[string]error
	// Missing lists command names LookPath should not resolve.
	Missing []string
	// Calls records every Run and Start invocation in order.
	Calls []string
}

func key(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *Fake) Run(_ context.Context, name string, args ...string) (Result, error) {
	k := key(name, args)
	f.Calls = append(f.Calls, k)
	if err, ok := f.Errs[k]; ok {
		return Result{}, err
	}
	if res, ok := f.Results[k]; ok {
		return res, nil
	}
	// Unscripted commands fail, so tests notice unexpected invocations.
	return Result{ExitCode: 1, Stderr: fmt.Sprintf("unscripted command: %s", k)}, nil
}

func (f *Fake) Start(_ context.Context, name string, args ...string) error {
	k := key(name, args)
	f.Calls = append(f.Calls, "start "+k)
	if err, ok := f.Errs[k]; ok {
		return err
	}
	return nil
}

func (f *Fake) LookPath(name string) (string, bool) {
	for _, m := range f.Missing {
		if m == name {
			return "", false
		}
	}
	return name, true
}
