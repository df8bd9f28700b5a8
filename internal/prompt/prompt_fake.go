package prompt

import "fmt"

// Script is a Prompter that replays canned answers, for tests. Each call
// consumes the next queued reply; an exhausted queue is an error so tests
// notice unexpected prompts.
type Script struct {
	Confirms []bool
	Lines    []string
	Secrets  []string
	// Asked records every question in order.
	Asked []string
}

func (s *Script) Confirm(question string, def bool) (bool, error) {
	s.Asked = append(s.Asked, question)
	if len(s.Confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm prompt: %q", question)
	}
	v := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return v, nil
}

func (s *Script) Line(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	if len(s.Lines) == 0 {
		return "", fmt.Errorf("unexpected line prompt: %q", label)
	}
	v := s.Lines[0]
	s.Lines = s.Lines[1:]
	return v, nil
}

func (s *Script) Secret(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	if len(s.Secrets) == 0 {
		return "", fmt.Errorf("unexpected secret prompt: %q", label)
	}
	v := s.Secrets[0]
	s.Secrets = s.Secrets[1:]
	return v, nil
}
