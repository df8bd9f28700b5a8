package prompt

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	// fd -1 is never a terminal, so Secret falls back to a line read.
	return &Console{in: bufio.NewReader(strings.NewReader(input)), out: &out, fd: -1}, &out
}

func TestConfirm_Answers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"yes", "y\n", false, true},
		{"yes long", "YES\n", false, true},
		{"no", "n\n", true, false},
		{"no long", "No\n", true, false},
		{"empty picks default true", "\n", true, true},
		{"empty picks default false", "\n", false, false},
		{"garbage then yes", "maybe\ny\n", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConsole(tt.input)
			got, err := c.Confirm("continue?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirm_ShowsDefaultHint(t *testing.T) {
	c, out := newTestConsole("\n")
	_, err := c.Confirm("continue?", true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[Y/n]")
}

func TestLine_Trims(t *testing.T) {
	c, _ := newTestConsole("  hello world  \n")
	got, err := c.Line("workspace")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestSecret_FallsBackToLineReadWhenNotTerminal(t *testing.T) {
	c, _ := newTestConsole("ABC1234-DEF5678\n")
	got, err := c.Secret("API key")
	require.NoError(t, err)
	assert.Equal(t, "ABC1234-DEF5678", got)
}

func TestReadLine_EOFWithoutInput(t *testing.T) {
	c, _ := newTestConsole("")
	_, err := c.Line("anything")
	assert.Error(t, err)
}

func TestScript_ReplaysAndExhausts(t *testing.T) {
	s := &Script{Confirms: []bool{true}, Secrets: []string{"KEY-ONE"}}

	ok, err := s.Confirm("sure?", false)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Confirm("again?", false)
	assert.Error(t, err, "exhausted queue must error")

	v, err := s.Secret("key")
	require.NoError(t, err)
	assert.Equal(t, "KEY-ONE", v)

	assert.Equal(t, []string{"sure?", "again?", "key"}, s.Asked)
}
