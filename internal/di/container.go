package di

import (
	"context"
	"fmt"

	"login-agent/internal/application/port/input"
	"login-agent/internal/application/port/output"
	"login-agent/internal/infrastructure/browser/rod"
	"login-agent/internal/infrastructure/config"
	"login-agent/internal/infrastructure/llm"
	"login-agent/internal/infrastructure/logger"
	"login-agent/internal/infrastructure/userinteraction"
	"login-agent/internal/usecase/collector"
	"login-agent/internal/usecase/fieldmap"
	"login-agent/internal/usecase/inference"
	"login-agent/internal/usecase/orchestrator"
	"login-agent/internal/usecase/trigger"

	"github.com/google/uuid"
)

type Container struct {
	RunID         string
	Browser       output.BrowserPort
	LLM           output.LLMPort
	Logger        output.LoggerPort
	UI            output.UserInteractionPort
	LoginExecutor input.LoginExecutor
}

// Option replaces an adapter the container would otherwise build.
type Option func(*overrides)

type overrides struct {
	browser output.BrowserPort
	llm     output.LLMPort
	ui      output.UserInteractionPort
	runID   string
}

func WithBrowser(b output.BrowserPort) Option {
	return func(o *overrides) { o.browser = b }
}

func WithLLM(l output.LLMPort) Option {
	return func(o *overrides) { o.llm = l }
}

func WithUserInteraction(ui output.UserInteractionPort) Option {
	return func(o *overrides) { o.ui = ui }
}

func WithRunID(id string) Option {
	return func(o *overrides) { o.runID = id }
}

func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	var ov overrides
	for _, opt := range opts {
		opt(&ov)
	}

	runID := ov.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	logCfg := logger.DefaultConfig(runID)
	logCfg.Dir = cfg.Log.Dir
	logCfg.Level = cfg.Log.Level
	logCfg.Console = cfg.Log.Console
	baseLog, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := baseLog.WithField("run_id", runID)

	model := ov.llm
	if model == nil {
		model, err = llm.New(ctx, llm.Config{
			Provider:    cfg.LLM.Provider,
			APIKey:      cfg.APIKey(),
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: cfg.LLM.Temperature,
		}, log.WithField("component", "llm"))
		if err != nil {
			baseLog.Close()
			return nil, fmt.Errorf("failed to create llm: %w", err)
		}
	}

	browser := ov.browser
	if browser == nil {
		browserCfg := rod.DefaultConfig()
		browserCfg.Headless = cfg.Browser.Headless
		browserCfg.NoSandbox = cfg.Browser.NoSandbox
		browserCfg.Bin = cfg.Browser.Bin
		browserCfg.Timeout = cfg.Browser.Timeout
		browserCfg.SlowMotion = cfg.Browser.SlowMotion
		b, err := rod.NewBrowserAdapter(ctx, browserCfg)
		if err != nil {
			baseLog.Close()
			return nil, fmt.Errorf("failed to create browser: %w", err)
		}
		browser = b
	}

	ui := ov.ui
	if ui == nil {
		ui = userinteraction.NewConsoleUserInteraction(cfg.PricingTable())
	}

	client := inference.New(model, log)

	collectorCfg := collector.DefaultConfig()
	collectorCfg.MaxCandidates = cfg.Run.MaxCandidates
	collectorCfg.ScanLimit = cfg.Run.ScanLimit
	triggers := trigger.New(collector.New(browser, log, collectorCfg), client, log)

	fields := fieldmap.New(browser, client, log, fieldmap.Config{
		RestrictSubmitToForm: cfg.Run.RestrictSubmitToForm,
		DisableFormScan:      cfg.Run.DisableFormScan,
	})

	runCfg := orchestrator.DefaultConfig()
	runCfg.RunID = runID
	runCfg.NavigateTimeout = cfg.Run.NavigateTimeout
	runCfg.SettleDelay = cfg.Run.SettleDelay
	runCfg.FormTimeout = cfg.Run.FormTimeout
	runCfg.FormSelector = cfg.Run.FormSelector
	runCfg.ScreenshotPath = cfg.Run.Screenshot
	runCfg.Hold = !cfg.Run.NoHold
	runCfg.Pricing = cfg.PricingTable()

	uc := orchestrator.New(browser, triggers, fields, log, ui, runCfg)

	log.Info("Container ready",
		"provider", cfg.LLM.Provider,
		"model", model.Model(),
		"logFile", baseLog.Path())

	return &Container{
		RunID:         runID,
		Browser:       browser,
		LLM:           model,
		Logger:        log,
		UI:            ui,
		LoginExecutor: uc,
	}, nil
}

// Close shuts the browser before flushing the log.
func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
