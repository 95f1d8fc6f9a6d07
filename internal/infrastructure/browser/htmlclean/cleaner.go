// Package htmlclean strips form markup down to what a field-mapping
// prompt needs.
package htmlclean

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Config struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// KeepAttrs survive the data-*/aria-*/on* prefix filter.
	KeepAttrs        []string
	MaxOutputSize    int
	CustomAttrFilter func(attr html.Attribute) bool
}

var DefaultConfig = Config{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "template",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	KeepAttrs: []string{
		"aria-label", "aria-labelledby", "data-test", "data-testid", "data-test-id", "data-qa",
	},
	MaxOutputSize: 30_000,
}

const truncationNotice = "\n<!-- form markup truncated -->"

// Clean parses a form's inner markup as a body fragment, drops comments,
// noise tags and noise attributes, and truncates the result.
func Clean(fragment string, cfg *Config) (string, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	ctxNode := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctxNode)
	if err != nil {
		return "", fmt.Errorf("parse form markup: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		if !cleanNode(n, cfg) {
			continue
		}
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render form markup: %w", err)
		}
	}

	return truncate(sb.String(), cfg.MaxOutputSize), nil
}

// cleanNode reports whether n should be kept, cleaning its subtree.
func cleanNode(n *html.Node, cfg *Config) bool {
	switch n.Type {
	case html.CommentNode:
		return false
	case html.TextNode:
		return strings.TrimSpace(n.Data) != ""
	case html.ElementNode:
	default:
		return true
	}

	if isOneOf(n.Data, cfg.TagsToRemove...) {
		return false
	}

	n.Attr = filterAttributes(n.Attr, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !cleanNode(c, cfg) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

func filterAttributes(attrs []html.Attribute, cfg *Config) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if shouldRemoveAttr(attr, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(attr html.Attribute, cfg *Config) bool {
	key := attr.Key
	if isOneOf(key, cfg.KeepAttrs...) {
		return false
	}
	if isOneOf(key, cfg.AttrsToRemove...) {
		return true
	}
	if strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "aria-") || strings.HasPrefix(key, "on") {
		return true
	}
	if cfg.CustomAttrFilter != nil && cfg.CustomAttrFilter(attr) {
		return true
	}
	return false
}

func truncate(s string, maxSize int) string {
	if maxSize <= 0 || len(s) <= maxSize {
		return s
	}
	for maxSize > 0 && !utf8.RuneStart(s[maxSize]) {
		maxSize--
	}
	return s[:maxSize] + truncationNotice
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
