// Package collector shortlists clickable elements that look like login
// triggers.
package collector

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"
)

const (
	defaultMaxCandidates = 15
	defaultScanLimit     = 200
	maxCandidateHTML     = 300
)

var (
	DefaultRoles = []string{"a", "button", "[role='button']", "[tabindex]"}
	DefaultTerms = []string{"login", "sign in", "log in", "account", "signin", "sign-in"}
)

type Config struct {
	MaxCandidates int
	ScanLimit     int
	Roles         []string
	Terms         []string
}

func DefaultConfig() Config {
	return Config{
		MaxCandidates: defaultMaxCandidates,
		ScanLimit:     defaultScanLimit,
		Roles:         DefaultRoles,
		Terms:         DefaultTerms,
	}
}

type Collector struct {
	browser output.BrowserPort
	logger  output.LoggerPort
	cfg     Config
}

func New(browser output.BrowserPort, logger output.LoggerPort, cfg Config) *Collector {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = defaultMaxCandidates
	}
	if cfg.ScanLimit <= 0 {
		cfg.ScanLimit = defaultScanLimit
	}
	if len(cfg.Roles) == 0 {
		cfg.Roles = DefaultRoles
	}
	if len(cfg.Terms) == 0 {
		cfg.Terms = DefaultTerms
	}
	terms := make([]string, 0, len(cfg.Terms))
	for _, t := range cfg.Terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	cfg.Terms = terms
	return &Collector{
		browser: browser,
		logger:  logger.WithField("component", "collector"),
		cfg:     cfg,
	}
}

// Collect scans at most ScanLimit elements and returns up to
// MaxCandidates whose text or aria-label contains a login term.
func (c *Collector) Collect(ctx context.Context) ([]entity.Candidate, error) {
	elements, err := c.browser.Elements(ctx, c.cfg.Roles)
	if err != nil {
		return nil, fmt.Errorf("locate clickable elements: %w", err)
	}

	var candidates []entity.Candidate
	scanned := 0

	for _, el := range elements {
		if scanned >= c.cfg.ScanLimit || len(candidates) >= c.cfg.MaxCandidates {
			break
		}
		if err := ctx.Err(); err != nil {
			return candidates, err
		}
		scanned++

		cand, ok, err := c.inspect(el)
		if err != nil {
			c.logger.Debug("Skipping unreadable element", "index", scanned-1, "error", err)
			continue
		}
		if ok {
			candidates = append(candidates, cand)
		}
	}

	c.logger.Info("Login candidates collected",
		"found", len(elements),
		"scanned", scanned,
		"candidates", len(candidates),
	)
	return candidates, nil
}

func (c *Collector) inspect(el output.ElementHandle) (entity.Candidate, bool, error) {
	text, err := el.Text()
	if err != nil {
		return entity.Candidate{}, false, fmt.Errorf("read text: %w", err)
	}
	aria, _, err := el.Attribute("aria-label")
	if err != nil {
		return entity.Candidate{}, false, fmt.Errorf("read aria-label: %w", err)
	}

	text = strings.ToLower(strings.TrimSpace(text))
	aria = strings.ToLower(strings.TrimSpace(aria))

	if !c.matches(text) && !c.matches(aria) {
		return entity.Candidate{}, false, nil
	}

	tag, err := el.TagName()
	if err != nil {
		return entity.Candidate{}, false, fmt.Errorf("read tag: %w", err)
	}
	id, _, _ := el.Attribute("id")
	class, _, _ := el.Attribute("class")

	cand := entity.Candidate{
		Selector:  entity.SynthesizeSelector(tag, id, class),
		Text:      text,
		AriaLabel: aria,
	}
	if html, err := el.OuterHTML(); err == nil {
		cand.HTML = truncate(html, maxCandidateHTML)
	}
	return cand, true, nil
}

func (c *Collector) matches(s string) bool {
	if s == "" {
		return false
	}
	for _, term := range c.cfg.Terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
