// Package envfile reads and writes the flat KEY=VALUE environment file the
// deployed stack consumes.
package envfile

import (
	"fmt"
	"os"
	"strings"
)

// Pair is one KEY=VALUE entry. Order is preserved on write.
type Pair struct {
	Key   string
	Value string
}

// Write serializes pairs one per line and replaces any existing file at
// path. Re-running the bootstrap overwrites, never appends.
func Write(path string, pairs []Pair) error {
	var b strings.Builder
	for _, p := range pairs {
		if p.Key == "" || strings.ContainsAny(p.Key, "=\n") {
			return fmt.Errorf("invalid env key %q", p.Key)
		}
		if strings.ContainsRune(p.Value, '\n') {
			return fmt.Errorf("env value for %s contains a newline", p.Key)
		}
		fmt.Fprintf(&b, "%s=%s\n", p.Key, p.Value)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("writing env file: %w", err)
	}
	return nil
}

// Parse reads KEY=VALUE lines from path, skipping blanks and # comments.
func Parse(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return values, nil
}
