package output

import (
	"context"
	"time"

	"login-agent/internal/domain/entity"
)

// BrowserPort is every page operation the resolution engine consumes.
// Selectors are CSS; a selector matching nothing is reported through
// Count, never by panicking.
type BrowserPort interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	WaitLoad(ctx context.Context) error

	Elements(ctx context.Context, selectors []string) ([]ElementHandle, error)
	Count(ctx context.Context, selector string) (int, error)
	Inspect(ctx context.Context, selector string) (*entity.ElementInfo, error)

	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error

	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	InnerHTML(ctx context.Context, selector string) (string, error)

	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	CurrentURL() string
	Close()
}

// ElementHandle is a located element captured during a scan.
type ElementHandle interface {
	TagName() (string, error)
	Text() (string, error)
	// Attribute returns "" and false when the attribute is absent.
	Attribute(name string) (string, bool, error)
	OuterHTML() (string, error)
}
