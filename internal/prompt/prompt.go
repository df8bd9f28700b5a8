// Package prompt provides synchronous console input behind an interface so
// interactive flows can be tested with canned responses.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter collects input from the user.
type Prompter interface {
	// Confirm asks a y/n question; empty input picks def.
	Confirm(question string, def bool) (bool, error)
	// Line reads one line of visible input.
	Line(label string) (string, error)
	// Secret reads input without echoing when attached to a terminal.
	Secret(label string) (string, error)
}

// Console is the Prompter backed by stdin/stdout.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewConsole returns a Console reading from stdin and writing to stdout.
func NewConsole() *Console {
	return &Console{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		fd:  int(os.Stdin.Fd()),
	}
}

func (c *Console) Confirm(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(c.out, "%s %s ", question, hint)
		line, err := c.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(c.out, "please answer y or n")
	}
}

func (c *Console) Line(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) Secret(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)
	if term.IsTerminal(c.fd) {
		b, err := term.ReadPassword(c.fd)
		fmt.Fprintln(c.out)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	// Piped stdin: fall back to a plain line read.
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return line, nil
}
