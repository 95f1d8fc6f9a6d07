package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"
)

var (
	_ output.BrowserPort   = (*Browser)(nil)
	_ output.ElementHandle = (*Element)(nil)
)

// Element is a canned DOM element.
type Element struct {
	Tag       string
	InnerText string
	Attrs     map[string]string
	HTML      string
	TextErr   error
}

func (e *Element) TagName() (string, error) { return strings.ToLower(e.Tag), nil }

func (e *Element) Text() (string, error) {
	if e.TextErr != nil {
		return "", e.TextErr
	}
	return e.InnerText, nil
}

func (e *Element) Attribute(name string) (string, bool, error) {
	v, ok := e.Attrs[name]
	return v, ok, nil
}

func (e *Element) OuterHTML() (string, error) {
	if e.HTML != "" {
		return e.HTML, nil
	}
	return fmt.Sprintf("<%s>%s</%s>", e.Tag, e.InnerText, e.Tag), nil
}

type FillCall struct {
	Selector string
	Value    string
}

// Browser resolves selectors through the Matches table only; there is no
// CSS engine behind it.
type Browser struct {
	Scan       []*Element
	Matches    map[string][]*Element
	InnerHTMLs map[string]string

	NavigateErr error
	ScanErr     error
	ClickErr    map[string]error
	FillErr     map[string]error

	Clicks []string
	Fills  []FillCall
	Calls  []string
	Closed bool
	URL    string
}

func NewBrowser() *Browser {
	return &Browser{
		Matches:    map[string][]*Element{},
		InnerHTMLs: map[string]string{},
		ClickErr:   map[string]error{},
		FillErr:    map[string]error{},
	}
}

func (b *Browser) record(format string, args ...any) {
	b.Calls = append(b.Calls, fmt.Sprintf(format, args...))
}

func (b *Browser) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	b.record("navigate %s", url)
	if b.NavigateErr != nil {
		return b.NavigateErr
	}
	b.URL = url
	return nil
}

func (b *Browser) WaitLoad(ctx context.Context) error {
	b.record("wait_load")
	return nil
}

func (b *Browser) Elements(ctx context.Context, selectors []string) ([]output.ElementHandle, error) {
	b.record("elements %s", strings.Join(selectors, ","))
	if b.ScanErr != nil {
		return nil, b.ScanErr
	}
	out := make([]output.ElementHandle, len(b.Scan))
	for i, el := range b.Scan {
		out[i] = el
	}
	return out, nil
}

func (b *Browser) Count(ctx context.Context, selector string) (int, error) {
	b.record("count %s", selector)
	return len(b.Matches[selector]), nil
}

func (b *Browser) Inspect(ctx context.Context, selector string) (*entity.ElementInfo, error) {
	b.record("inspect %s", selector)
	els := b.Matches[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrElementNotLive, selector)
	}
	el := els[0]
	return &entity.ElementInfo{
		Tag:  strings.ToLower(el.Tag),
		Type: strings.ToLower(el.Attrs["type"]),
		Text: el.InnerText,
	}, nil
}

func (b *Browser) Click(ctx context.Context, selector string) error {
	b.record("click %s", selector)
	if err := b.ClickErr[selector]; err != nil {
		return err
	}
	if len(b.Matches[selector]) == 0 {
		return fmt.Errorf("element not found: %s", selector)
	}
	b.Clicks = append(b.Clicks, selector)
	return nil
}

func (b *Browser) Fill(ctx context.Context, selector, value string) error {
	b.record("fill %s", selector)
	if err := b.FillErr[selector]; err != nil {
		return err
	}
	if len(b.Matches[selector]) == 0 {
		return fmt.Errorf("field not found: %s", selector)
	}
	b.Fills = append(b.Fills, FillCall{Selector: selector, Value: value})
	return nil
}

func (b *Browser) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	b.record("wait_for %s", selector)
	if len(b.Matches[selector]) == 0 {
		return fmt.Errorf("wait for %s: %w", selector, context.DeadlineExceeded)
	}
	return nil
}

func (b *Browser) InnerHTML(ctx context.Context, selector string) (string, error) {
	b.record("inner_html %s", selector)
	html, ok := b.InnerHTMLs[selector]
	if !ok {
		return "", errors.New("no markup for " + selector)
	}
	return html, nil
}

func (b *Browser) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	b.record("screenshot")
	return &entity.Screenshot{Data: []byte{0xff, 0xd8, 0xff}, Format: "jpeg", Width: 1, Height: 1}, nil
}

func (b *Browser) CurrentURL() string { return b.URL }

func (b *Browser) Close() {
	b.record("close")
	b.Closed = true
}

// HasCall reports whether a recorded call starts with prefix.
func (b *Browser) HasCall(prefix string) bool {
	for _, c := range b.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
