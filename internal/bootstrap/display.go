package bootstrap

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Display handles terminal progress output for the bootstrap sequence.
type Display struct {
	w       io.Writer
	title   string
	verbose bool
	stop    chan struct{}
	done    chan struct{}
}

// NewDisplay creates a display that writes to stdout.
func NewDisplay(title string, verbose bool) *Display {
	return &Display{w: os.Stdout, title: title, verbose: verbose}
}

// strategyColumnWidth is the fixed display width reserved for the strategy column.
var strategyColumnWidth = 24

// ansiEscapeRe matches ANSI terminal escape sequences and C0/DEL control characters.
var ansiEscapeRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]|[\x00-\x1f\x7f]`)

// sanitizeLabel strips ANSI escape sequences and control characters; probe
// details can embed raw command output.
func sanitizeLabel(s string) string {
	return ansiEscapeRe.ReplaceAllString(s, "")
}

// truncateLabel sanitizes and truncates a label to fit within
// strategyColumnWidth runes, appending an ellipsis if truncation occurs.
func truncateLabel(label string) string {
	label = sanitizeLabel(label)
	if utf8.RuneCountInString(label) <= strategyColumnWidth {
		return label
	}
	runes := []rune(label)
	return string(runes[:strategyColumnWidth-1]) + "…"
}

// Header prints the bootstrap header.
func (d *Display) Header() {
	fmt.Fprintf(d.w, "\n🧰 stackup — %s\n", d.title)
	fmt.Fprintln(d.w, strings.Repeat("─", 76))
}

// StepSkipped prints a step whose probe found the desired state already holding.
func (d *Display) StepSkipped(name, detail string) {
	detail = sanitizeLabel(detail)
	if detail == "" {
		detail = "already satisfied"
	}
	fmt.Fprintf(d.w, "✅ %-16s %-24s %s\n", name, "—", detail)
}

// StepStart prints a strategy-in-progress line and starts an elapsed time
// ticker. In non-verbose mode, the line is updated in place every second.
// In verbose mode, a plain line is printed (command output follows).
func (d *Display) StepStart(name, strategy string) {
	strategy = truncateLabel(strategy)
	if d.verbose {
		fmt.Fprintf(d.w, "⏳ %-16s %-24s running...\n", name, strategy)
		return
	}
	// Print without trailing newline so the ticker can overwrite in place.
	fmt.Fprintf(d.w, "⏳ %-16s %-24s running...", name, strategy)

	stop := make(chan struct{})
	done := make(chan struct{})
	d.stop = stop
	d.done = done
	start := time.Now()

	go func() {
		defer close(done)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fmt.Fprintf(d.w, "\r⏳ %-16s %-24s running... %.0fs",
					name, strategy, time.Since(start).Seconds())
			}
		}
	}()
}

// stopTicker stops the elapsed time goroutine and waits for it to finish.
func (d *Display) stopTicker() {
	if d.stop != nil {
		close(d.stop)
		<-d.done
		d.stop = nil
		d.done = nil
	}
}

// StepDone prints a completed step line, overwriting the running line in
// non-verbose mode.
func (d *Display) StepDone(name, strategy, detail string, duration time.Duration) {
	d.stopTicker()
	strategy = truncateLabel(strategy)
	prefix := "\r"
	if d.verbose {
		prefix = ""
	}
	fmt.Fprintf(d.w, "%s✅ %-16s %-24s %-28s %.1fs\n",
		prefix, name, strategy, sanitizeLabel(detail), duration.Seconds())
}

// StrategyFailed prints a failed strategy line; the sequencer moves on to
// the next strategy, so this is not a step failure.
func (d *Display) StrategyFailed(name, strategy string, err error) {
	d.stopTicker()
	strategy = truncateLabel(strategy)
	prefix := "\r"
	if d.verbose {
		prefix = ""
	}
	fmt.Fprintf(d.w, "%s↩️  %-16s %-24s %s\n", prefix, name, strategy, err.Error())
}

// StepFailed prints the final failed step line.
func (d *Display) StepFailed(name string, err error) {
	d.stopTicker()
	fmt.Fprintf(d.w, "❌ %-16s %s\n", name, err.Error())
}

// StepWarn prints a soft warning for a non-required step.
func (d *Display) StepWarn(name, msg string) {
	d.stopTicker()
	prefix := "\r"
	if d.verbose {
		prefix = ""
	}
	fmt.Fprintf(d.w, "%s⚠️  %-16s %s\n", prefix, name, msg)
}

// Hint prints manual remediation instructions for a failed step.
func (d *Display) Hint(text string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		fmt.Fprintf(d.w, "   %s\n", line)
	}
}

// Summary prints the final success summary.
func (d *Display) Summary(totalDuration time.Duration) {
	fmt.Fprintln(d.w, strings.Repeat("─", 76))
	fmt.Fprintf(d.w, "✅ Stack is up  %.0fs\n\n", totalDuration.Seconds())
}

// Failed prints a failure summary.
func (d *Display) Failed(err error) {
	fmt.Fprintln(d.w, strings.Repeat("─", 76))
	fmt.Fprintf(d.w, "❌ Failed: %s\n\n", err.Error())
}
