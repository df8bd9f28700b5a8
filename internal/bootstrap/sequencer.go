// Package bootstrap executes the ordered, idempotent setup sequence: each
// step probes current system state, skips when the desired state already
// holds, and otherwise tries its remediation strategies in priority order.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	vlog "github.com/futureCreator/stackup/internal/log"
	"github.com/futureCreator/stackup/internal/prompt"
	"github.com/futureCreator/stackup/internal/session"
	"github.com/futureCreator/stackup/internal/types"
)

// Sequencer runs the step list in order, surfacing progress and handling
// user prompts for ambiguous states.
type Sequencer struct {
	Steps   []types.Step
	Session *session.Session
	Display *Display
	Prompt  prompt.Prompter
}

// Execute runs all steps in sequence. The first required step whose
// strategies are all exhausted aborts the run; the error carries the step
// name so the caller can exit non-zero.
func (s *Sequencer) Execute(ctx context.Context) error {
	startTime := time.Now()

	for _, step := range s.Steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.runStep(ctx, step); err != nil {
			if ferr := s.Session.Fail(err.Error()); ferr != nil {
				vlog.Warn("failed to update session meta", "err", ferr)
			}
			s.Display.Failed(err)
			return fmt.Errorf("step %q failed: %w", step.Name, err)
		}
	}

	if err := s.Session.Complete(); err != nil {
		vlog.Warn("failed to mark session complete", "err", err)
	}
	s.Display.Summary(time.Since(startTime))
	return nil
}

func (s *Sequencer) runStep(ctx context.Context, step types.Step) error {
	stepStart := time.Now()

	res, err := step.Probe.Check(ctx)
	if err != nil {
		// A broken probe only means "state unknown"; remediation decides.
		vlog.Debug("probe error", "step", step.Name, "err", err)
		res = types.ProbeResult{Detail: err.Error()}
	}

	if res.Satisfied {
		s.Display.StepSkipped(step.Name, res.Detail)
		s.record(step, session.StepResult{
			Status: session.StatusSatisfied,
			Detail: res.Detail,
		}, stepStart)
		return nil
	}

	if len(step.Strategies) == 0 {
		// Precondition-only step: nothing can remediate it.
		err := fmt.Errorf("precondition not met: %s", res.Detail)
		s.Display.StepFailed(step.Name, err)
		if step.FailHint != "" {
			s.Display.Hint(step.FailHint)
		}
		s.record(step, session.StepResult{
			Status: session.StatusFailed,
			Error:  err.Error(),
		}, stepStart)
		return err
	}

	if step.Confirm != "" {
		ok, err := s.Prompt.Confirm(step.Confirm, true)
		if err != nil {
			return err
		}
		if !ok {
			s.Display.StepSkipped(step.Name, "skipped by user")
			s.record(step, session.StepResult{Status: session.StatusSkipped}, stepStart)
			return nil
		}
	}

	var lastErr error
	for _, strat := range step.Strategies {
		s.Display.StepStart(step.Name, strat.Name())
		if err := strat.Apply(ctx); err != nil {
			// A failed strategy never aborts the step; the next one runs.
			s.Display.StrategyFailed(step.Name, strat.Name(), err)
			vlog.Warn("strategy failed", "step", step.Name, "strategy", strat.Name(), "err", err)
			lastErr = err
			continue
		}
		s.Display.StepDone(step.Name, strat.Name(), "", time.Since(stepStart))
		s.record(step, session.StepResult{
			Status:   session.StatusRemediated,
			Strategy: strat.Name(),
		}, stepStart)
		return nil
	}

	if step.Required {
		err := fmt.Errorf("all strategies exhausted: %w", lastErr)
		s.Display.StepFailed(step.Name, err)
		if step.FailHint != "" {
			s.Display.Hint(step.FailHint)
		}
		s.record(step, session.StepResult{
			Status: session.StatusFailed,
			Error:  err.Error(),
		}, stepStart)
		return err
	}

	// Soft failure: downgrade to a warning and let the user decide.
	s.Display.StepWarn(step.Name, fmt.Sprintf("could not complete: %v", lastErr))
	ok, perr := s.Prompt.Confirm(fmt.Sprintf("%s could not be completed — continue anyway?", step.Name), false)
	if perr != nil {
		return perr
	}
	if !ok {
		err := fmt.Errorf("aborted after warning: %w", lastErr)
		s.record(step, session.StepResult{
			Status: session.StatusFailed,
			Error:  err.Error(),
		}, stepStart)
		return err
	}
	s.record(step, session.StepResult{
		Status: session.StatusSkipped,
		Detail: "continued after warning",
	}, stepStart)
	return nil
}

func (s *Sequencer) record(step types.Step, sr session.StepResult, start time.Time) {
	sr.Name = step.Name
	sr.DurationMS = time.Since(start).Milliseconds()
	if err := s.Session.AddStepResult(sr); err != nil {
		vlog.Warn("failed to save step result", "step", step.Name, "err", err)
	}
}
