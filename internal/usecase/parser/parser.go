// Package parser turns free-form inference output into either a field
// mapping or a single selector.
package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"login-agent/internal/domain/entity"
)

type Kind int

const (
	KindMapping Kind = iota + 1
	KindSelector
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSelector:
		return "selector"
	default:
		return "unknown"
	}
}

// Result is the decoded answer. Exactly one of Mapping or Selector is
// meaningful, as indicated by Kind.
type Result struct {
	Kind     Kind
	Mapping  entity.FieldMapping
	Selector string
}

var (
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)

	// Tried in this order; the first non-blank capture wins.
	selectorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`'([^']+)'`),
		regexp.MustCompile(`"([^"]+)"`),
		regexp.MustCompile(`([.#][\w\-\[\]='" ]+)`),
	}
)

// Parse decodes the first {...} span as a mapping, falling back to a
// quoted string or bare .class / #id token. It never invents a selector:
// an answer with neither shape is ErrResolutionFailure.
func Parse(text string) (Result, error) {
	if m, ok := decodeObject(text); ok {
		return Result{Kind: KindMapping, Mapping: m}, nil
	}

	for _, re := range selectorPatterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			if sel := strings.TrimSpace(match[1]); sel != "" {
				return Result{Kind: KindSelector, Selector: sel}, nil
			}
		}
	}

	return Result{}, fmt.Errorf("%w: no JSON object or selector in %q", entity.ErrResolutionFailure, abbreviate(text))
}

// ParseMapping requires the JSON-object shape.
func ParseMapping(text string) (entity.FieldMapping, error) {
	res, err := Parse(text)
	if err != nil {
		return entity.FieldMapping{}, err
	}
	if res.Kind != KindMapping {
		return entity.FieldMapping{}, fmt.Errorf("%w: expected a JSON mapping, got selector %q", entity.ErrResolutionFailure, res.Selector)
	}
	return res.Mapping, nil
}

// ParseSelector extracts one selector. A one-token answer that looks like
// a selector is taken as is (minus wrapping quotes or backticks); otherwise the two-stage decoder
// runs, accepting a mapping only when it carries a "selector" key.
func ParseSelector(text string) (string, error) {
	if sel, ok := singleToken(text); ok {
		return sel, nil
	}

	res, err := Parse(text)
	if err != nil {
		return "", err
	}

	switch res.Kind {
	case KindSelector:
		return res.Selector, nil
	case KindMapping:
		if sel, ok := res.Mapping.Selector("selector"); ok {
			return sel, nil
		}
	}
	return "", fmt.Errorf("%w: no selector in %q", entity.ErrResolutionFailure, abbreviate(text))
}

func decodeObject(text string) (entity.FieldMapping, bool) {
	span := objectRe.FindString(text)
	if span == "" {
		return entity.FieldMapping{}, false
	}

	entries, err := decodeEntries(span)
	if err != nil {
		return entity.FieldMapping{}, false
	}
	return entity.NewOrderedFieldMapping(entries...), true
}

// decodeEntries walks one JSON object token by token so keys come back in
// the order the provider wrote them. Non-string values decode as nil.
func decodeEntries(span string) ([]entity.MappingEntry, error) {
	dec := json.NewDecoder(strings.NewReader(span))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("not a json object")
	}

	var entries []entity.MappingEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		e := entity.MappingEntry{Key: key}
		if s, ok := v.(string); ok {
			e.Value = &s
		}
		entries = append(entries, e)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after object")
	}
	return entries, nil
}

func singleToken(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if s == "" || strings.ContainsAny(s, " \t\r\n{}") {
		return "", false
	}
	s = strings.Trim(s, "`\"'")
	if !strings.ContainsAny(s, ".#[") {
		return "", false
	}
	return s, true
}

func abbreviate(s string) string {
	const max = 200
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	n := max
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
