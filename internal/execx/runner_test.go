package execx

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemRun_CapturesOutputAndExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	s := &System{}

	res, err := s.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestSystemRun_NonZeroExitIsNotAnError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	s := &System{}

	res, err := s.Run(context.Background(), "sh", "-c", "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestSystemRun_MissingBinaryIsAnError(t *testing.T) {
	s := &System{}
	_, err := s.Run(context.Background(), "definitely-not-a-command-xyz")
	assert.Error(t, err)
}

func TestSystemStart_MissingBinaryIsAnError(t *testing.T) {
	s := &System{}
	assert.Error(t, s.Start(context.Background(), "definitely-not-a-command-xyz"))
}

func TestSystemLookPath(t *testing.T) {
	s := &System{}
	_, ok := s.LookPath("definitely-not-a-command-xyz")
	assert.False(t, ok)
}

func TestFake_ScriptedAndRecorded(t *testing.T) {
	f := &Fake{Results: map[string]Result{
		"docker --version": {Stdout: "Docker version 27"},
	}}

	res, err := f.Run(context.Background(), "docker", "--version")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)

	res, err = f.Run(context.Background(), "winget", "install")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode, "unscripted commands fail")

	require.NoError(t, f.Start(context.Background(), "notepad"))
	assert.Equal(t, []string{"docker --version", "winget install", "start notepad"}, f.Calls)
}

func TestFake_MissingLookPath(t *testing.T) {
	f := &Fake{Missing: []string{"choco"}}
	_, ok := f.LookPath("choco")
	assert.False(t, ok)
	_, ok = f.LookPath("docker")
	assert.True(t, ok)
}
