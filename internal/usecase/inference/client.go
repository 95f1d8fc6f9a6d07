// Package inference renders selector requests and sends them to the
// configured provider. It performs no parsing.
package inference

import (
	"context"
	"fmt"
	"time"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"
	"login-agent/internal/infrastructure/browser/htmlclean"
	"login-agent/internal/infrastructure/prompts"
)

type Client struct {
	llm             output.LLMPort
	logger          output.LoggerPort
	triggerTemplate string
	mappingTemplate string
	cleanConfig     *htmlclean.Config
}

type Option func(*Client)

func WithTemplates(trigger, mapping string) Option {
	return func(c *Client) {
		if trigger != "" {
			c.triggerTemplate = trigger
		}
		if mapping != "" {
			c.mappingTemplate = mapping
		}
	}
}

func WithCleanConfig(cfg *htmlclean.Config) Option {
	return func(c *Client) {
		c.cleanConfig = cfg
	}
}

func New(llm output.LLMPort, logger output.LoggerPort, opts ...Option) *Client {
	c := &Client{
		llm:             llm,
		logger:          logger.WithField("component", "inference"),
		triggerTemplate: prompts.TriggerPrompt,
		mappingTemplate: prompts.FieldMappingPrompt,
		cleanConfig:     &htmlclean.DefaultConfig,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectTrigger asks for the one candidate whose activation most likely
// opens a login flow.
func (c *Client) SelectTrigger(ctx context.Context, candidates []entity.Candidate) (*entity.Completion, error) {
	prompt, err := prompts.GenerateTriggerPrompt(c.triggerTemplate, candidates)
	if err != nil {
		return nil, fmt.Errorf("render trigger prompt: %w", err)
	}
	return c.complete(ctx, "trigger", prompt)
}

// MapFields asks for a JSON object mapping each key (and submit) to a
// selector inside formHTML.
func (c *Client) MapFields(ctx context.Context, keys []string, formHTML string) (*entity.Completion, error) {
	cleaned, err := htmlclean.Clean(formHTML, c.cleanConfig)
	if err != nil {
		c.logger.Warn("Form markup cleanup failed, sending raw markup", "error", err)
		cleaned = formHTML
	}

	prompt, err := prompts.GenerateFieldMappingPrompt(c.mappingTemplate, keys, cleaned)
	if err != nil {
		return nil, fmt.Errorf("render field mapping prompt: %w", err)
	}
	return c.complete(ctx, "field_mapping", prompt)
}

func (c *Client) complete(ctx context.Context, kind, prompt string) (*entity.Completion, error) {
	start := time.Now()
	c.logger.Debug("Inference request", "kind", kind, "model", c.llm.Model(), "promptLen", len(prompt))

	// A failed call may still carry billed usage; it is passed back with the error.
	resp, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		c.logger.Error("Inference failed", "kind", kind, "error", err, "duration_ms", time.Since(start).Milliseconds())
		if resp != nil {
			resp.Usage = entity.NewUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		}
		return resp, fmt.Errorf("%w: %s: %w", entity.ErrProviderFailure, kind, err)
	}

	resp.Usage = entity.NewUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	c.logger.Info("Inference completed",
		"kind", kind,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds(),
		"response", resp.Text,
	)
	return resp, nil
}
