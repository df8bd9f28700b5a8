// Package types holds shared data structures used across packages.
package types

import "context"

// ProbeResult reports what a probe observed about the current system state.
type ProbeResult struct {
	Satisfied bool
	Detail    string // human-readable state, e.g. a detected version or path
}

// Probe checks whether a step's desired state already holds.
type Probe interface {
	Check(ctx context.Context) (ProbeResult, error)
}

// ProbeFunc adapts a plain function to the Probe interface.
type ProbeFunc func(ctx context.Context) (ProbeResult, error)

func (f ProbeFunc) Check(ctx context.Context) (ProbeResult, error) { return f(ctx) }

// Strategy is one remediation technique for a step. Strategies are tried in
// declared order; the first one to succeed completes the step.
type Strategy interface {
	Name() string
	Apply(ctx context.Context) error
}

// StrategyFunc adapts a labeled function to the Strategy interface.
type StrategyFunc struct {
	Label string
	Fn    func(ctx context.Context) error
}

func (s StrategyFunc) Name() string { return s.Label }

func (s StrategyFunc) Apply(ctx context.Context) error { return s.Fn(ctx) }

// Step is a single unit of the bootstrap sequence.
type Step struct {
	Name       string
	Required   bool
	Probe      Probe
	Strategies []Strategy
	// Confirm, when non-empty, is a y/n question asked before remediation
	// runs. Declining records the step as skipped by the user.
	Confirm string
	// FailHint is the manual remediation text shown when every strategy
	// has been exhausted.
	FailHint string
}
