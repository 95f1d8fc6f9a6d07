// Package trigger resolves the selector of the element that opens the
// login form.
package trigger

import (
	"context"
	"fmt"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"
	"login-agent/internal/usecase/parser"
)

type CandidateCollector interface {
	Collect(ctx context.Context) ([]entity.Candidate, error)
}

type SelectorClient interface {
	SelectTrigger(ctx context.Context, candidates []entity.Candidate) (*entity.Completion, error)
}

type Result struct {
	Selector   string
	Candidates []entity.Candidate
	Usage      entity.Usage
}

type Resolver struct {
	collector CandidateCollector
	client    SelectorClient
	logger    output.LoggerPort
}

func New(collector CandidateCollector, client SelectorClient, logger output.LoggerPort) *Resolver {
	return &Resolver{
		collector: collector,
		client:    client,
		logger:    logger.WithField("component", "trigger"),
	}
}

// Resolve returns entity.ErrNoTrigger, without consulting the provider,
// when the page has no plausible login element. The returned selector is
// not checked against the live page; that is the caller's job. Usage is
// filled in even when the answer cannot be parsed.
func (r *Resolver) Resolve(ctx context.Context) (*Result, error) {
	candidates, err := r.collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect candidates: %w", err)
	}
	if len(candidates) == 0 {
		r.logger.Info("No login candidates on page")
		return &Result{}, entity.ErrNoTrigger
	}

	resp, err := r.client.SelectTrigger(ctx, candidates)
	if err != nil {
		result := &Result{Candidates: candidates}
		if resp != nil {
			result.Usage = resp.Usage
		}
		return result, err
	}

	result := &Result{Candidates: candidates, Usage: resp.Usage}

	selector, err := parser.ParseSelector(resp.Text)
	if err != nil {
		r.logger.Warn("Trigger answer unusable", "response", resp.Text, "error", err)
		return result, err
	}

	result.Selector = selector
	r.logger.Info("Login trigger resolved", "selector", selector, "candidates", len(candidates))
	return result, nil
}
