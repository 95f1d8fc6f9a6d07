// Package fieldmap turns a login form into a fill plan: which selector
// receives which user value, and what to click to submit.
package fieldmap

import (
	"context"
	"fmt"
	"regexp"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"
	"login-agent/internal/usecase/parser"
)

type MappingClient interface {
	MapFields(ctx context.Context, keys []string, formHTML string) (*entity.Completion, error)
}

type SubmitSource string

const (
	SubmitNone     SubmitSource = ""
	SubmitMapping  SubmitSource = "mapping"
	SubmitFallback SubmitSource = "fallback"
	SubmitFormScan SubmitSource = "form_scan"
)

// Skip reasons reported per field.
const (
	ReasonNoSelector = "no selector"
	ReasonNotLive    = "not found on page"
)

var submitTextRe = regexp.MustCompile(`(?i)submit|login|continue|next`)

// formSubmitSelectors are tried when no mapping entry looks like a
// submit control.
var formSubmitSelectors = []string{
	"form button[type='submit']",
	"form input[type='submit']",
	"form button",
}

type PlannedField struct {
	Key      string
	Selector string
	Value    string
}

type SkippedField struct {
	Key    string
	Reason string
}

type Plan struct {
	Mapping      entity.FieldMapping
	Fields       []PlannedField
	Skipped      []SkippedField
	Submit       string
	SubmitSource SubmitSource
	Usage        entity.Usage
}

type Config struct {
	// RestrictSubmitToForm limits the fallback scan over mapping entries to
	// elements inside a form.
	RestrictSubmitToForm bool
	// DisableFormScan turns off the last-resort scan of the form's own
	// buttons.
	DisableFormScan bool
}

type Resolver struct {
	browser output.BrowserPort
	client  MappingClient
	logger  output.LoggerPort
	cfg     Config
}

func New(browser output.BrowserPort, client MappingClient, logger output.LoggerPort, cfg Config) *Resolver {
	return &Resolver{
		browser: browser,
		client:  client,
		logger:  logger.WithField("component", "fieldmap"),
		cfg:     cfg,
	}
}

// Resolve asks the provider for a mapping and validates it against the
// live page. A mapping that cannot be parsed is ErrResolutionFailure;
// the returned plan still carries the usage.
func (r *Resolver) Resolve(ctx context.Context, data entity.UserData, formHTML string) (*Plan, error) {
	resp, err := r.client.MapFields(ctx, data.Keys(), formHTML)
	if err != nil {
		if resp != nil {
			return &Plan{Usage: resp.Usage}, err
		}
		return nil, err
	}

	plan := &Plan{Usage: resp.Usage}

	mapping, err := parser.ParseMapping(resp.Text)
	if err != nil {
		r.logger.Error("Field mapping unusable", "response", resp.Text, "error", err)
		return plan, err
	}
	plan.Mapping = mapping
	r.logger.Info("Field mapping received", "mapping", mapping.String())

	used := consumed{keys: map[string]bool{}, selectors: map[string]bool{}}
	for _, f := range data.Fields() {
		sel, ok := mapping.Selector(f.Key)
		if !ok {
			plan.skip(f.Key, ReasonNoSelector)
			continue
		}
		if live, reason := r.live(ctx, sel); !live {
			plan.skip(f.Key, reason)
			continue
		}
		plan.Fields = append(plan.Fields, PlannedField{Key: f.Key, Selector: sel, Value: f.Value})
		used.keys[f.Key] = true
		used.selectors[sel] = true
	}

	for _, s := range plan.Skipped {
		r.logger.Warn("Field skipped", "field", s.Key, "reason", s.Reason)
	}

	plan.Submit, plan.SubmitSource = r.resolveSubmit(ctx, mapping, used)
	if plan.Submit == "" {
		r.logger.Warn("No submit target found")
	} else {
		r.logger.Info("Submit target resolved", "selector", plan.Submit, "source", string(plan.SubmitSource))
	}

	return plan, nil
}

type consumed struct {
	keys      map[string]bool
	selectors map[string]bool
}

func (p *Plan) skip(key, reason string) {
	p.Skipped = append(p.Skipped, SkippedField{Key: key, Reason: reason})
}

// resolveSubmit prefers the mapping's own submit entry, then any other
// unconsumed mapping entry that looks like a submit control, then the
// form's buttons. A selector already used for a field is never chosen.
func (r *Resolver) resolveSubmit(ctx context.Context, mapping entity.FieldMapping, used consumed) (string, SubmitSource) {
	if sel, ok := mapping.Selector(entity.FieldSubmit); ok && !used.selectors[sel] {
		if live, _ := r.live(ctx, sel); live {
			return sel, SubmitMapping
		}
		r.logger.Warn("Mapped submit selector not on page", "selector", sel)
	}

	for _, key := range mapping.Keys() {
		if key == entity.FieldSubmit || used.keys[key] {
			continue
		}
		sel, ok := mapping.Selector(key)
		if !ok || used.selectors[sel] {
			continue
		}
		if r.cfg.RestrictSubmitToForm {
			if live, _ := r.live(ctx, "form "+sel); !live {
				continue
			}
		}
		if r.looksLikeSubmit(ctx, sel) {
			return sel, SubmitFallback
		}
	}

	if r.cfg.DisableFormScan {
		return "", SubmitNone
	}
	for _, sel := range formSubmitSelectors {
		if used.selectors[sel] {
			continue
		}
		if r.looksLikeSubmit(ctx, sel) {
			return sel, SubmitFormScan
		}
	}
	return "", SubmitNone
}

func (r *Resolver) looksLikeSubmit(ctx context.Context, selector string) bool {
	info, err := r.browser.Inspect(ctx, selector)
	if err != nil {
		return false
	}
	switch {
	case info.Tag == "button":
		return true
	case info.Tag == "input" && info.Type == "submit":
		return true
	default:
		return submitTextRe.MatchString(info.Text)
	}
}

func (r *Resolver) live(ctx context.Context, selector string) (bool, string) {
	n, err := r.browser.Count(ctx, selector)
	if err != nil {
		return false, fmt.Sprintf("count failed: %v", err)
	}
	if n == 0 {
		return false, ReasonNotLive
	}
	return true, ""
}
