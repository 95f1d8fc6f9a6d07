package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"

	"google.golang.org/genai"
)

var _ output.LLMPort = (*Adapter)(nil)

const DefaultModel = "gemini-2.5-flash"

type Adapter struct {
	client *genai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	if model == "" {
		model = DefaultModel
	}
	return Config{APIKey: apiKey, Model: model}
}

func NewAdapter(ctx context.Context, cfg Config) (*Adapter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Adapter{client: client, model: cfg.Model, logger: cfg.Logger}, nil
}

func (a *Adapter) Model() string {
	return a.model
}

func (a *Adapter) Complete(ctx context.Context, prompt string) (*entity.Completion, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	var usage entity.Usage
	if md := resp.UsageMetadata; md != nil {
		usage = entity.NewUsage(int(md.PromptTokenCount), int(md.CandidatesTokenCount))
	}

	if a.logger != nil {
		a.logger.Debug("Content generated",
			"model", a.model,
			"candidates", len(resp.Candidates),
			"promptTokens", usage.PromptTokens)
	}

	if len(resp.Candidates) == 0 {
		return &entity.Completion{Usage: usage}, fmt.Errorf("no candidates in response")
	}

	return &entity.Completion{Text: resp.Text(), Usage: usage}, nil
}
