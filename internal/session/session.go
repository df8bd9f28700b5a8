// Package session holds the key-value configuration accumulated across
// bootstrap steps and journals per-step outcomes to disk.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	vlog "github.com/futureCreator/stackup/internal/log"
)

// symlink is swapped out in tests to exercise the plain-file fallback.
var symlink = os.Symlink

// ErrKeyConfirmed is returned when a confirmed API key is written twice;
// once collected, the key is immutable for the rest of the run.
var ErrKeyConfirmed = errors.New("api key already confirmed for this session")

// Step statuses recorded in the journal.
const (
	StatusSatisfied  = "satisfied"  // probe found the desired state, nothing ran
	StatusRemediated = "remediated" // a strategy succeeded
	StatusSkipped    = "skipped"    // user declined remediation or chose to continue
	StatusFailed     = "failed"     // every strategy exhausted
)

// Session is the mutable state threaded through the sequencer. It is owned
// by a single goroutine; there is no locking by construction.
type Session struct {
	ID  string
	Dir string

	Meta Meta

	values map[string]string
	apiKey string
	locked bool
}

// Meta is persisted to meta.json after every step.
type Meta struct {
	StartedAt time.Time    `json:"started_at"`
	Status    string       `json:"status"` // "running" | "completed" | "failed"
	Steps     []StepResult `json:"steps"`
	Error     string       `json:"error,omitempty"`
}

// StepResult records the outcome of a single step.
type StepResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Strategy   string `json:"strategy,omitempty"` // winning strategy, if any
	Detail     string `json:"detail,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// New creates a session with a journal directory under baseDir.
func New(baseDir string) (*Session, error) {
	now := time.Now()
	id := fmt.Sprintf("%s-%s", now.Format("20060102-150405"), uuid.NewString()[:8])

	dir := filepath.Join(baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}

	s := &Session{
		ID:     id,
		Dir:    dir,
		Meta:   Meta{StartedAt: now, Status: "running"},
		values: map[string]string{},
	}

	if err := s.SaveMeta(); err != nil {
		return nil, err
	}
	if err := updateLatestLink(baseDir, id); err != nil {
		// The journal itself is intact; a missing marker is not worth
		// aborting the run over.
		vlog.Warn("could not update latest session marker", "error", err)
	}
	return s, nil
}

// Set stores a collected value, e.g. a detected install path.
func (s *Session) Set(key, value string) { s.values[key] = value }

// Get returns a previously collected value.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// SetAPIKey stores the confirmed credential. The first write locks it.
func (s *Session) SetAPIKey(key string) error {
	if s.locked {
		return ErrKeyConfirmed
	}
	s.apiKey = key
	s.locked = true
	return nil
}

// APIKey returns the confirmed credential, empty until collected.
func (s *Session) APIKey() string { return s.apiKey }

// SaveMeta writes meta.json to the session directory.
func (s *Session) SaveMeta() error {
	data, err := json.MarshalIndent(s.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling meta: %w", err)
	}
	return os.WriteFile(filepath.Join(s.Dir, "meta.json"), data, 0644)
}

// AddStepResult appends a step outcome and persists the journal.
func (s *Session) AddStepResult(sr StepResult) error {
	s.Meta.Steps = append(s.Meta.Steps, sr)
	return s.SaveMeta()
}

// Complete marks the session as completed.
func (s *Session) Complete() error {
	s.Meta.Status = "completed"
	return s.SaveMeta()
}

// Fail marks the session as failed with an error message.
func (s *Session) Fail(msg string) error {
	s.Meta.Status = "failed"
	s.Meta.Error = msg
	return s.SaveMeta()
}

// updateLatestLink atomically points baseDir/latest at the newest session.
// Symlink creation on Windows needs Developer Mode or elevation, so when it
// fails a plain file holding the session id serves as the marker instead.
func updateLatestLink(baseDir, id string) error {
	latestPath := filepath.Join(baseDir, "latest")
	tmpPath := latestPath + ".tmp"

	// Remove any stale tmp link
	os.Remove(tmpPath)

	if err := symlink(id, tmpPath); err != nil {
		if werr := os.WriteFile(tmpPath, []byte(id+"\n"), 0644); werr != nil {
			return fmt.Errorf("recording latest session: %w", werr)
		}
	}
	if err := os.Rename(tmpPath, latestPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("updating latest marker: %w", err)
	}
	return nil
}
