package bootstrap

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestDisplay(buf *bytes.Buffer) *Display {
	return &Display{w: buf, title: "test"}
}

func TestStepStart_ContainsStrategy(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf)
	d.StepStart("docker-install", "winget")
	d.stopTicker()
	out := buf.String()
	if !strings.Contains(out, "winget") {
		t.Errorf("StepStart output missing strategy: %q", out)
	}
	if !strings.Contains(out, "docker-install") {
		t.Errorf("StepStart output missing step name: %q", out)
	}
}

func TestStepSkipped_DefaultDetail(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf)
	d.StepSkipped("docker-engine", "")
	if !strings.Contains(buf.String(), "already satisfied") {
		t.Errorf("StepSkipped missing default detail: %q", buf.String())
	}
}

func TestStepDone_ContainsStrategyAndDuration(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf)
	d.StepDone("services", "docker compose", "", 3*time.Second)
	out := buf.String()
	if !strings.Contains(out, "docker compose") {
		t.Errorf("StepDone output missing strategy: %q", out)
	}
	if !strings.Contains(out, "3.0s") {
		t.Errorf("StepDone output missing duration: %q", out)
	}
}

func TestStrategyFailed_ContainsError(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf)
	d.StrategyFailed("docker-install", "winget", errors.New("exit 1"))
	out := buf.String()
	if !strings.Contains(out, "winget") || !strings.Contains(out, "exit 1") {
		t.Errorf("StrategyFailed output incomplete: %q", out)
	}
}

func TestHint_IndentsLines(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf)
	d.Hint("line one\nline two")
	out := buf.String()
	if !strings.Contains(out, "   line one") || !strings.Contains(out, "   line two") {
		t.Errorf("Hint should indent each line: %q", out)
	}
}

func TestTruncateLabel_ShortName(t *testing.T) {
	got := truncateLabel("winget")
	if got != "winget" {
		t.Errorf("expected no truncation, got %q", got)
	}
}

func TestTruncateLabel_LongName(t *testing.T) {
	long := "some-very-long-strategy-label-that-overflows-the-column"
	got := truncateLabel(long)
	if len([]rune(got)) > strategyColumnWidth {
		t.Errorf("truncateLabel did not truncate: len=%d, got %q", len([]rune(got)), got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated label should end with ellipsis, got %q", got)
	}
}

func TestTruncateLabel_ExactWidth(t *testing.T) {
	exact := strings.Repeat("a", strategyColumnWidth)
	got := truncateLabel(exact)
	if got != exact {
		t.Errorf("exact-width label should not be truncated, got %q", got)
	}
}

func TestSanitizeLabel_StripsANSI(t *testing.T) {
	input := "\x1b[31mdanger\x1b[0m"
	got := sanitizeLabel(input)
	if strings.Contains(got, "\x1b") {
		t.Errorf("sanitizeLabel did not strip ANSI: %q", got)
	}
	if got != "danger" {
		t.Errorf("expected 'danger', got %q", got)
	}
}

func TestSanitizeLabel_StripsControlChars(t *testing.T) {
	input := "path\x00name\x1f"
	got := sanitizeLabel(input)
	if strings.Contains(got, "\x00") || strings.Contains(got, "\x1f") {
		t.Errorf("sanitizeLabel did not strip control chars: %q", got)
	}
}
