// Package orchestrator drives one login attempt: trigger, form discovery,
// field mapping, fill and submit.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"login-agent/internal/application/port/input"
	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"
	"login-agent/internal/usecase/fieldmap"
	"login-agent/internal/usecase/trigger"
)

var _ input.LoginExecutor = (*UseCase)(nil)

const (
	StepNavigate   = "navigate"
	StepTrigger    = "trigger"
	StepDiscover   = "discover_form"
	StepMapFields  = "map_fields"
	StepFill       = "fill"
	StepSubmit     = "submit"
	StepScreenshot = "screenshot"
)

type TriggerResolver interface {
	Resolve(ctx context.Context) (*trigger.Result, error)
}

type FieldResolver interface {
	Resolve(ctx context.Context, data entity.UserData, formHTML string) (*fieldmap.Plan, error)
}

type Config struct {
	RunID           string
	NavigateTimeout time.Duration
	SettleDelay     time.Duration
	FormTimeout     time.Duration
	FormSelector    string
	ScreenshotPath  string
	Hold            bool
	Pricing         entity.Pricing
}

func DefaultConfig() Config {
	return Config{
		NavigateTimeout: 60 * time.Second,
		SettleDelay:     2 * time.Second,
		FormTimeout:     15 * time.Second,
		FormSelector:    "form",
		Hold:            true,
		Pricing:         entity.DefaultPricing(),
	}
}

type UseCase struct {
	browser         output.BrowserPort
	trigger         TriggerResolver
	fields          FieldResolver
	logger          output.LoggerPort
	userInteraction output.UserInteractionPort
	cfg             Config
}

func New(
	browser output.BrowserPort,
	trigger TriggerResolver,
	fields FieldResolver,
	logger output.LoggerPort,
	userInteraction output.UserInteractionPort,
	cfg Config,
) *UseCase {
	if cfg.FormSelector == "" {
		cfg.FormSelector = "form"
	}
	return &UseCase{
		browser:         browser,
		trigger:         trigger,
		fields:          fields,
		logger:          logger.WithField("component", "orchestrator"),
		userInteraction: userInteraction,
		cfg:             cfg,
	}
}

// runState is threaded through the steps of a single run.
type runState struct {
	url      string
	data     entity.UserData
	formHTML string
	plan     *fieldmap.Plan
	report   *entity.RunReport
}

type step struct {
	name     string
	terminal bool
	run      func(ctx context.Context, st *runState) (string, error)
}

// skipped marks a step that had nothing to do. It is not a failure.
type skipped struct {
	reason string
}

func (s *skipped) Error() string { return s.reason }

func skip(format string, args ...any) error {
	return &skipped{reason: fmt.Sprintf(format, args...)}
}

// Execute runs the pipeline once. The error is non-nil only when a
// terminal step failed; absorbed failures are in the report. When Hold
// is set the call blocks until ctx is cancelled, after the summary.
func (uc *UseCase) Execute(ctx context.Context, url string, data entity.UserData) (*entity.RunReport, error) {
	st := &runState{
		url:    url,
		data:   data,
		report: entity.NewRunReport(uc.cfg.RunID, url),
	}

	uc.logger.Info("Login run started", "url", url, "fields", data.Keys())

	runErr := uc.runPipeline(ctx, st, uc.steps())

	uc.userInteraction.ShowSummary(ctx, st.report)
	uc.logger.Info("Login run finished",
		"filled", st.report.Filled,
		"submitted", st.report.Submitted,
		"errors", len(st.report.Errors),
		"total_tokens", st.report.TotalUsage().Total(),
	)

	if uc.cfg.Hold && ctx.Err() == nil {
		_ = uc.userInteraction.WaitForExit(ctx, "Automation complete, inspect the browser. Press Ctrl+C to exit.")
	}

	return st.report, runErr
}

func (uc *UseCase) steps() []step {
	return []step{
		{name: StepNavigate, terminal: true, run: uc.navigate},
		{name: StepTrigger, terminal: false, run: uc.openTrigger},
		{name: StepDiscover, terminal: true, run: uc.discoverForm},
		{name: StepMapFields, terminal: true, run: uc.mapFields},
		{name: StepFill, terminal: false, run: uc.fill},
		{name: StepSubmit, terminal: false, run: uc.submit},
		{name: StepScreenshot, terminal: false, run: uc.screenshot},
	}
}

func (uc *UseCase) runPipeline(ctx context.Context, st *runState, steps []step) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			se := &entity.StepError{Step: s.name, Err: fmt.Errorf("interrupted: %w", err), Terminal: true}
			st.report.AddError(se)
			st.report.AddStep(entity.StepOutcome{Name: s.name, Status: entity.StepTerminal, Detail: se.Err.Error()})
			return se
		}

		start := time.Now()
		detail, err := s.run(ctx, st)
		outcome := entity.StepOutcome{Name: s.name, Status: entity.StepOK, Detail: detail, Duration: time.Since(start)}

		var sk *skipped
		switch {
		case err == nil:
			uc.logger.Info("Step completed", "step", s.name, "detail", detail, "duration_ms", outcome.Duration.Milliseconds())
			uc.userInteraction.ShowStep(ctx, s.name, detail)
		case errors.As(err, &sk):
			outcome.Status = entity.StepSkipped
			outcome.Detail = sk.reason
			uc.logger.Info("Step skipped", "step", s.name, "reason", sk.reason)
			uc.userInteraction.ShowStep(ctx, s.name, "skipped: "+sk.reason)
		case s.terminal:
			se := &entity.StepError{Step: s.name, Err: err, Terminal: true}
			outcome.Status = entity.StepTerminal
			outcome.Detail = err.Error()
			st.report.AddError(se)
			st.report.AddStep(outcome)
			uc.logger.Error("Step failed, stopping run", "step", s.name, "error", err)
			uc.userInteraction.ShowWarning(ctx, se.Error())
			return se
		default:
			se := &entity.StepError{Step: s.name, Err: err}
			outcome.Status = entity.StepAbsorbed
			outcome.Detail = err.Error()
			st.report.AddError(se)
			uc.logger.Warn("Step failed, continuing", "step", s.name, "error", err)
			uc.userInteraction.ShowWarning(ctx, se.Error())
		}
		st.report.AddStep(outcome)
	}
	return nil
}

func (uc *UseCase) navigate(ctx context.Context, st *runState) (string, error) {
	if err := uc.browser.Navigate(ctx, st.url, uc.cfg.NavigateTimeout); err != nil {
		return "", err
	}
	if err := uc.browser.WaitLoad(ctx); err != nil {
		return "", fmt.Errorf("wait for load: %w", err)
	}
	return uc.browser.CurrentURL(), nil
}

func (uc *UseCase) openTrigger(ctx context.Context, st *runState) (string, error) {
	res, err := uc.trigger.Resolve(ctx)
	if res != nil && len(res.Candidates) > 0 {
		uc.recordUsage(ctx, st, StepTrigger, res.Usage)
	}
	if errors.Is(err, entity.ErrNoTrigger) {
		return "", skip("no login trigger found, trying direct form detection")
	}
	if err != nil {
		return "", err
	}

	st.report.TriggerSelector = res.Selector

	n, err := uc.browser.Count(ctx, res.Selector)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", entity.ErrElementNotLive, res.Selector, err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: %s", entity.ErrElementNotLive, res.Selector)
	}

	if err := uc.browser.Click(ctx, res.Selector); err != nil {
		return "", fmt.Errorf("%w: click %s: %w", entity.ErrActionFailure, res.Selector, err)
	}
	st.report.TriggerClicked = true

	if err := sleep(ctx, uc.cfg.SettleDelay); err != nil {
		return "", err
	}
	return "clicked " + res.Selector, nil
}

func (uc *UseCase) discoverForm(ctx context.Context, st *runState) (string, error) {
	sel := uc.cfg.FormSelector
	if err := uc.browser.WaitForSelector(ctx, sel, uc.cfg.FormTimeout); err != nil {
		return "", fmt.Errorf("%w: %s not visible after %s: %w", entity.ErrDiscoveryTimeout, sel, uc.cfg.FormTimeout, err)
	}

	html, err := uc.browser.InnerHTML(ctx, sel)
	if err != nil {
		return "", fmt.Errorf("read form markup: %w", err)
	}
	st.formHTML = html
	return fmt.Sprintf("form markup %d bytes", len(html)), nil
}

func (uc *UseCase) mapFields(ctx context.Context, st *runState) (string, error) {
	if st.data.Len() == 0 {
		uc.logger.Warn("No user data configured, mapping submit only")
	}

	plan, err := uc.fields.Resolve(ctx, st.data, st.formHTML)
	if plan != nil {
		uc.recordUsage(ctx, st, StepMapFields, plan.Usage)
	}
	if err != nil {
		return "", err
	}

	st.plan = plan
	st.report.Mapping = plan.Mapping
	st.report.SubmitSelector = plan.Submit
	for _, s := range plan.Skipped {
		st.report.Skipped[s.Key] = s.Reason
		st.report.AddError(&entity.StepError{
			Step: StepMapFields + ":" + s.Key,
			Err:  skipReasonError(s),
		})
	}
	return fmt.Sprintf("%d field(s) planned, mapping %s", len(plan.Fields), plan.Mapping.String()), nil
}

func (uc *UseCase) fill(ctx context.Context, st *runState) (string, error) {
	if len(st.plan.Fields) == 0 {
		return "", skip("no fields to fill")
	}

	for _, f := range st.plan.Fields {
		if err := uc.browser.Fill(ctx, f.Selector, f.Value); err != nil {
			se := &entity.StepError{
				Step: StepFill + ":" + f.Key,
				Err:  fmt.Errorf("%w: fill %s into %s: %w", entity.ErrActionFailure, f.Key, f.Selector, err),
			}
			st.report.AddError(se)
			st.report.Skipped[f.Key] = err.Error()
			uc.logger.Warn("Could not fill field", "field", f.Key, "selector", f.Selector, "error", err)
			uc.userInteraction.ShowWarning(ctx, se.Error())
			continue
		}
		st.report.Filled = append(st.report.Filled, f.Key)
		uc.logger.Info("Filled field", "field", f.Key, "selector", f.Selector)
	}

	return fmt.Sprintf("filled %d/%d", len(st.report.Filled), len(st.plan.Fields)), nil
}

func (uc *UseCase) submit(ctx context.Context, st *runState) (string, error) {
	sel := st.plan.Submit
	if sel == "" {
		return "", skip("no submit target found")
	}

	n, err := uc.browser.Count(ctx, sel)
	if err != nil || n == 0 {
		return "", fmt.Errorf("%w: %s", entity.ErrElementNotLive, sel)
	}

	if err := uc.browser.Click(ctx, sel); err != nil {
		return "", fmt.Errorf("%w: click submit %s: %w", entity.ErrActionFailure, sel, err)
	}
	st.report.Submitted = true

	if err := sleep(ctx, uc.cfg.SettleDelay); err != nil {
		return "", err
	}
	return fmt.Sprintf("clicked %s (%s)", sel, st.plan.SubmitSource), nil
}

func (uc *UseCase) screenshot(ctx context.Context, st *runState) (string, error) {
	path := uc.cfg.ScreenshotPath
	if path == "" {
		return "", skip("screenshot disabled")
	}

	shot, err := uc.browser.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, shot.Data, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	st.report.ScreenshotPath = path
	return fmt.Sprintf("%s (%dx%d)", path, shot.Width, shot.Height), nil
}

func (uc *UseCase) recordUsage(ctx context.Context, st *runState, stepName string, usage entity.Usage) {
	st.report.Usage[stepName] = usage
	cost := usage.Cost(uc.cfg.Pricing)
	uc.logger.Info("Inference usage",
		"step", stepName,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"cost_usd", cost.USD,
	)
	uc.userInteraction.ShowUsage(ctx, stepName, usage, cost)
}

func skipReasonError(s fieldmap.SkippedField) error {
	if s.Reason == fieldmap.ReasonNotLive {
		return fmt.Errorf("%w: %s", entity.ErrElementNotLive, s.Key)
	}
	return fmt.Errorf("%s: %s", s.Key, s.Reason)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
