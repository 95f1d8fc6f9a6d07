package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"

	goopenai "github.com/sashabaranov/go-openai"
)

var _ output.LLMPort = (*Adapter)(nil)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel      = "gpt-4o-mini"
)

type Adapter struct {
	client      *goopenai.Client
	model       string
	temperature float32
	logger      output.LoggerPort
}

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Logger      output.LoggerPort
	HTTPClient  *http.Client
}

func DefaultConfig(apiKey, model string) Config {
	if model == "" {
		model = DefaultModel
	}
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: DefaultBaseURL,
	}
}

// OpenRouterConfig points the client at OpenRouter's OpenAI-compatible API.
func OpenRouterConfig(apiKey, model string) Config {
	cfg := DefaultConfig(apiKey, model)
	cfg.BaseURL = OpenRouterBaseURL
	return cfg
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var size int
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(body))
		size = len(body)
	}

	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"bytes", size,
	)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("HTTP Request failed", "error", err)
		return nil, err
	}

	t.logger.Debug("HTTP Response",
		"status", resp.Status,
		"statusCode", resp.StatusCode,
	)
	return resp, nil
}

func NewAdapter(cfg Config) (*Adapter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	config := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Logger != nil {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient = &http.Client{
			Transport: &loggingTransport{base: base, logger: cfg.Logger},
			Timeout:   httpClient.Timeout,
		}
	}
	config.HTTPClient = httpClient

	return &Adapter{
		client:      goopenai.NewClientWithConfig(config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}, nil
}

func (a *Adapter) Model() string {
	return a.model
}

func (a *Adapter) Complete(ctx context.Context, prompt string) (*entity.Completion, error) {
	resp, err := a.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: a.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: a.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	usage := entity.NewUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	if len(resp.Choices) == 0 {
		return &entity.Completion{Usage: usage}, fmt.Errorf("no choices in response")
	}

	return &entity.Completion{
		Text:  resp.Choices[0].Message.Content,
		Usage: usage,
	}, nil
}
