package anthropic

import (
	"context"
	"fmt"
	"strings"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var _ output.LLMPort = (*Adapter)(nil)

const (
	DefaultModel     = string(anthropic.ModelClaudeSonnet4_20250514)
	DefaultMaxTokens = 1024
)

type Adapter struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	logger    output.LoggerPort
}

type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// BaseURL overrides the API endpoint; empty keeps the SDK default.
	BaseURL string
	Logger  output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	if model == "" {
		model = DefaultModel
	}
	return Config{
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: DefaultMaxTokens,
	}
}

func NewAdapter(cfg Config) (*Adapter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	// Each completion is a single request; the SDK retries by default.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(opts...)
	return &Adapter{
		client:    &client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
	}, nil
}

func (a *Adapter) Model() string {
	return a.model
}

func (a *Adapter) Complete(ctx context.Context, prompt string) (*entity.Completion, error) {
	if a.logger != nil {
		a.logger.Debug("Creating message", "model", a.model, "promptChars", len(prompt))
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude api error: %w", err)
	}

	usage := entity.NewUsage(int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens))

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if a.logger != nil {
		a.logger.Debug("Message received",
			"stopReason", resp.StopReason,
			"inputTokens", usage.PromptTokens,
			"outputTokens", usage.CompletionTokens)
	}

	return &entity.Completion{Text: text.String(), Usage: usage}, nil
}
