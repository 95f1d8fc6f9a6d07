package output

import (
	"context"

	"login-agent/internal/domain/entity"
)

// LLMPort is a synchronous single-message completion: one user-role
// prompt in, generated text and token usage out.
type LLMPort interface {
	Complete(ctx context.Context, prompt string) (*entity.Completion, error)
	Model() string
}
