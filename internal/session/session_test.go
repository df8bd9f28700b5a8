package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesJournalAndLatestLink(t *testing.T) {
	base := t.TempDir()
	s, err := New(base)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	_, err = os.Stat(filepath.Join(s.Dir, "meta.json"))
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(base, "latest"))
	require.NoError(t, err)
	assert.Equal(t, s.ID, target)
}

func TestNew_LatestLinkMovesToNewestSession(t *testing.T) {
	base := t.TempDir()
	_, err := New(base)
	require.NoError(t, err)
	s2, err := New(base)
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(base, "latest"))
	require.NoError(t, err)
	assert.Equal(t, s2.ID, target)
}

func TestNew_LatestFallsBackToPlainFileWithoutSymlinks(t *testing.T) {
	orig := symlink
	symlink = func(oldname, newname string) error {
		return errors.New("a required privilege is not held by the client")
	}
	t.Cleanup(func() { symlink = orig })

	base := t.TempDir()
	s, err := New(base)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(base, "latest"))
	require.NoError(t, err)
	assert.Equal(t, s.ID+"\n", string(data))
}

func TestNew_SucceedsWhenLatestMarkerBlocked(t *testing.T) {
	base := t.TempDir()
	// A non-empty directory squatting on the marker path defeats both the
	// symlink and the plain-file fallback.
	require.NoError(t, os.MkdirAll(filepath.Join(base, "latest.tmp", "x"), 0755))

	s, err := New(base)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.Dir, "meta.json"))
	require.NoError(t, err)
}

func TestValues_SetGet(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, ok := s.Get("engine_path")
	assert.False(t, ok)

	s.Set("engine_path", `C:\Program Files\AnythingLLM\AnythingLLM.exe`)
	v, ok := s.Get("engine_path")
	assert.True(t, ok)
	assert.Equal(t, `C:\Program Files\AnythingLLM\AnythingLLM.exe`, v)
}

func TestAPIKey_ImmutableOnceConfirmed(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, s.APIKey())
	require.NoError(t, s.SetAPIKey("ABC1234-DEF5678"))
	assert.Equal(t, "ABC1234-DEF5678", s.APIKey())

	err = s.SetAPIKey("OTHER-KEY")
	assert.ErrorIs(t, err, ErrKeyConfirmed)
	assert.Equal(t, "ABC1234-DEF5678", s.APIKey())
}

func TestJournal_StepResultsPersisted(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.AddStepResult(StepResult{Name: "docker-install", Status: StatusSatisfied}))
	require.NoError(t, s.AddStepResult(StepResult{Name: "services", Status: StatusRemediated, Strategy: "docker compose"}))
	require.NoError(t, s.Complete())

	data, err := os.ReadFile(filepath.Join(s.Dir, "meta.json"))
	require.NoError(t, err)

	var meta Meta
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "completed", meta.Status)
	require.Len(t, meta.Steps, 2)
	assert.Equal(t, "docker-install", meta.Steps[0].Name)
	assert.Equal(t, "docker compose", meta.Steps[1].Strategy)
}

func TestFail_RecordsError(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Fail("all strategies exhausted"))

	data, err := os.ReadFile(filepath.Join(s.Dir, "meta.json"))
	require.NoError(t, err)
	var meta Meta
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "failed", meta.Status)
	assert.Equal(t, "all strategies exhausted", meta.Error)
}
