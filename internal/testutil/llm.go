package testutil

import (
	"context"
	"fmt"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"
)

var _ output.LLMPort = (*LLM)(nil)

// LLM replays Responses in order and records every prompt.
type LLM struct {
	Responses []string
	Usage     entity.Usage
	Err       error
	// Partial is returned together with Err when set.
	Partial *entity.Completion
	Prompts []string
}

func (l *LLM) Complete(ctx context.Context, prompt string) (*entity.Completion, error) {
	l.Prompts = append(l.Prompts, prompt)
	if l.Err != nil {
		return l.Partial, l.Err
	}
	i := len(l.Prompts) - 1
	if i >= len(l.Responses) {
		return nil, fmt.Errorf("unexpected inference call #%d", i+1)
	}
	return &entity.Completion{Text: l.Responses[i], Usage: l.Usage}, nil
}

func (l *LLM) Model() string { return "fake-model" }

func (l *LLM) Calls() int { return len(l.Prompts) }
