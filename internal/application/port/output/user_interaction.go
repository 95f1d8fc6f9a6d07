package output

import (
	"context"

	"login-agent/internal/domain/entity"
)

// UserInteractionPort is the operator-facing side of a run.
type UserInteractionPort interface {
	ShowStep(ctx context.Context, name, detail string)
	ShowWarning(ctx context.Context, msg string)
	ShowUsage(ctx context.Context, step string, usage entity.Usage, cost entity.Cost)
	ShowSummary(ctx context.Context, report *entity.RunReport)

	// WaitForExit blocks until ctx is cancelled.
	WaitForExit(ctx context.Context, message string) error
}
