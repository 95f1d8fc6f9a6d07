package userinteraction

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

type ConsoleUserInteraction struct {
	out     io.Writer
	pricing entity.Pricing
}

func NewConsoleUserInteraction(pricing entity.Pricing) *ConsoleUserInteraction {
	return NewConsoleUserInteractionTo(color.Output, pricing)
}

// NewConsoleUserInteractionTo writes to w instead of the colored stdout.
func NewConsoleUserInteractionTo(w io.Writer, pricing entity.Pricing) *ConsoleUserInteraction {
	return &ConsoleUserInteraction{out: w, pricing: pricing}
}

func (u *ConsoleUserInteraction) ShowStep(ctx context.Context, name, detail string) {
	icon, title := getStepDisplay(name)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(u.out, "\n%s %s\n", icon, title)

	if detail != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(u.out, "   %s\n", truncate(detail, 200))
	}
}

func (u *ConsoleUserInteraction) ShowWarning(ctx context.Context, msg string) {
	red := color.New(color.FgRed)
	red.Fprint(u.out, "⚠ ")

	dim := color.New(color.Faint)
	dim.Fprintln(u.out, truncate(msg, 300))
}

func (u *ConsoleUserInteraction) ShowUsage(ctx context.Context, step string, usage entity.Usage, cost entity.Cost) {
	blue := color.New(color.FgBlue)
	blue.Fprintf(u.out, "   [%s] tokens: %d in / %d out | cost: $%.6f (%s %.4f)\n",
		step, usage.PromptTokens, usage.CompletionTokens, cost.USD, cost.Currency, cost.Local)
}

func (u *ConsoleUserInteraction) ShowSummary(ctx context.Context, report *entity.RunReport) {
	if report == nil {
		return
	}

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(u.out, "\n━━━ Run %s ━━━\n", report.RunID)

	dim := color.New(color.Faint)
	dim.Fprintf(u.out, "URL: %s\n", report.URL)

	if report.TriggerSelector != "" {
		fmt.Fprintf(u.out, "Trigger: %s (clicked: %t)\n", report.TriggerSelector, report.TriggerClicked)
	}
	if report.Mapping.Len() > 0 {
		fmt.Fprintf(u.out, "Mapping: %s\n", report.Mapping)
	}

	green := color.New(color.FgGreen)
	if len(report.Filled) > 0 {
		green.Fprintf(u.out, "✓ Filled: %s\n", strings.Join(report.Filled, ", "))
	}

	if len(report.Skipped) > 0 {
		keys := make([]string, 0, len(report.Skipped))
		for k := range report.Skipped {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dim.Fprintf(u.out, "- Skipped %s: %s\n", k, report.Skipped[k])
		}
	}

	if report.Submitted {
		green.Fprintf(u.out, "✓ Submitted via %s\n", report.SubmitSelector)
	} else {
		dim.Fprintln(u.out, "- Not submitted")
	}

	if report.ScreenshotPath != "" {
		fmt.Fprintf(u.out, "Screenshot: %s\n", report.ScreenshotPath)
	}

	total := report.TotalUsage()
	cost := total.Cost(u.pricing)
	fmt.Fprintf(u.out, "Total tokens: %d (%d in / %d out) | cost: $%.6f (%s %.4f)\n",
		total.Total(), total.PromptTokens, total.CompletionTokens, cost.USD, cost.Currency, cost.Local)

	if report.Failed() {
		red := color.New(color.FgRed, color.Bold)
		red.Fprintln(u.out, "❌ Run failed")
		for _, e := range report.Errors {
			if e.Terminal {
				dim.Fprintf(u.out, "   %s\n", truncate(e.Error(), 300))
			}
		}
		return
	}
	green.Fprintf(u.out, "✓ Completed with %d absorbed issue(s)\n", len(report.Errors))
}

func (u *ConsoleUserInteraction) WaitForExit(ctx context.Context, message string) error {
	magenta := color.New(color.FgMagenta)
	magenta.Fprintf(u.out, "\n⏸ %s\n", message)

	<-ctx.Done()
	return ctx.Err()
}

func getStepDisplay(step string) (string, string) {
	displays := map[string][2]string{
		"navigate":      {"🌐", "Navigate"},
		"trigger":       {"🖱️", "Login trigger"},
		"discover_form": {"🔍", "Form discovery"},
		"map_fields":    {"🧭", "Field mapping"},
		"fill":          {"✏️", "Fill"},
		"submit":        {"⏎", "Submit"},
		"screenshot":    {"📸", "Screenshot"},
	}

	if display, ok := displays[step]; ok {
		return display[0], display[1]
	}
	return "🔧", step
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
