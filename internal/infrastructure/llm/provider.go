// Package llm selects the inference provider behind output.LLMPort.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"login-agent/internal/application/port/output"
	"login-agent/internal/infrastructure/llm/anthropic"
	"login-agent/internal/infrastructure/llm/gemini"
	"login-agent/internal/infrastructure/llm/openai"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
)

var ErrUnknownProvider = errors.New("unknown inference provider")

type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
}

func New(ctx context.Context, cfg Config, logger output.LoggerPort) (output.LLMPort, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI, "":
		c := openai.DefaultConfig(cfg.APIKey, cfg.Model)
		if cfg.BaseURL != "" {
			c.BaseURL = cfg.BaseURL
		}
		c.Temperature = cfg.Temperature
		c.Logger = logger
		return wrap(openai.NewAdapter(c))

	case ProviderOpenRouter:
		c := openai.OpenRouterConfig(cfg.APIKey, cfg.Model)
		if cfg.BaseURL != "" {
			c.BaseURL = cfg.BaseURL
		}
		c.Temperature = cfg.Temperature
		c.Logger = logger
		return wrap(openai.NewAdapter(c))

	case ProviderAnthropic:
		c := anthropic.DefaultConfig(cfg.APIKey, cfg.Model)
		c.BaseURL = cfg.BaseURL
		c.Logger = logger
		return wrap(anthropic.NewAdapter(c))

	case ProviderGemini:
		c := gemini.DefaultConfig(cfg.APIKey, cfg.Model)
		c.BaseURL = cfg.BaseURL
		c.Logger = logger
		return wrap(gemini.NewAdapter(ctx, c))

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// wrap keeps a failed constructor from yielding a non-nil interface.
func wrap(a output.LLMPort, err error) (output.LLMPort, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
