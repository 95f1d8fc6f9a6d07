package testutil

import (
	"context"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"
)

var _ output.UserInteractionPort = (*Interaction)(nil)

// Interaction records what would have been shown to the operator.
type Interaction struct {
	Steps    []string
	Warnings []string
	Usages   map[string]entity.Usage
	Summary  *entity.RunReport
	Waited   bool
}

func NewInteraction() *Interaction {
	return &Interaction{Usages: map[string]entity.Usage{}}
}

func (i *Interaction) ShowStep(ctx context.Context, name, detail string) {
	i.Steps = append(i.Steps, name+": "+detail)
}

func (i *Interaction) ShowWarning(ctx context.Context, msg string) {
	i.Warnings = append(i.Warnings, msg)
}

func (i *Interaction) ShowUsage(ctx context.Context, step string, usage entity.Usage, cost entity.Cost) {
	i.Usages[step] = usage
}

func (i *Interaction) ShowSummary(ctx context.Context, report *entity.RunReport) {
	i.Summary = report
}

func (i *Interaction) WaitForExit(ctx context.Context, message string) error {
	i.Waited = true
	<-ctx.Done()
	return ctx.Err()
}
