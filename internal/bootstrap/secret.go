package bootstrap

import (
	"fmt"
	"strings"

	"github.com/futureCreator/stackup/internal/prompt"
)

// maxSecretAttempts bounds the credential loop so a closed stdin cannot
// spin forever.
const maxSecretAttempts = 5

// CollectSecret interactively requests a credential. Input the validator
// rejects triggers a re-prompt, but the user may explicitly override and
// keep an unusual value; empty input always re-prompts.
func CollectSecret(p prompt.Prompter, label string, validate func(string) error) (string, error) {
	for attempt := 0; attempt < maxSecretAttempts; attempt++ {
		value, err := p.Secret(label)
		if err != nil {
			return "", err
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if verr := validate(value); verr != nil {
			ok, err := p.Confirm(
				fmt.Sprintf("that does not look like a typical key (%v) — use it anyway?", verr),
				false)
			if err != nil {
				return "", err
			}
			if !ok {
				continue
			}
		}
		return value, nil
	}
	return "", fmt.Errorf("no usable credential after %d attempts", maxSecretAttempts)
}
