package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"
	"time"

	"login-agent/internal/application/port/output"
	"login-agent/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var (
	_ output.BrowserPort   = (*BrowserAdapter)(nil)
	_ output.ElementHandle = (*elementHandle)(nil)
)

const (
	defaultTimeout    = 10 * time.Second
	defaultSlowMotion = 0
	maxScreenshotW    = 1280
)

var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrBrowserClosed = errors.New("browser is closed")
)

type BrowserAdapter struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	// Timeout bounds every element lookup and action.
	Timeout                 time.Duration
	NoSandbox               bool
	DevTools                bool
	DisableSecurityFeatures bool
	Trace                   bool
	Bin                     string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	if cfg.DisableSecurityFeatures {
		l = l.Set("disable-web-security").
			Set("allow-running-insecure-content")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		Context(ctx).
		ControlURL(controlURL).
		Trace(cfg.Trace).
		SlowMotion(cfg.SlowMotion)

	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
	}, nil
}

// pageFor returns the page bound to ctx, or ErrBrowserClosed.
func (b *BrowserAdapter) pageFor(ctx context.Context) (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrowserClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return b.page.Context(ctx), nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string, timeout time.Duration) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}
	page, err := b.pageFor(ctx)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = b.timeout
	}

	if err := page.Timeout(timeout).Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) WaitLoad(ctx context.Context) error {
	page, err := b.pageFor(ctx)
	if err != nil {
		return err
	}
	if err := page.Timeout(b.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	_ = page.WaitIdle(2 * time.Second)
	return nil
}

func (b *BrowserAdapter) Elements(ctx context.Context, selectors []string) ([]output.ElementHandle, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}

	els, err := page.Elements(strings.Join(selectors, ", "))
	if err != nil {
		return nil, fmt.Errorf("query %v: %w", selectors, err)
	}

	handles := make([]output.ElementHandle, len(els))
	for i, el := range els {
		handles[i] = &elementHandle{el: el}
	}
	return handles, nil
}

// Count never waits: it reports what the page holds right now.
func (b *BrowserAdapter) Count(ctx context.Context, selector string) (int, error) {
	els, err := b.query(ctx, selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

func (b *BrowserAdapter) Inspect(ctx context.Context, selector string) (*entity.ElementInfo, error) {
	els, err := b.query(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrElementNotLive, selector)
	}

	h := &elementHandle{el: els.First()}
	tag, err := h.TagName()
	if err != nil {
		return nil, err
	}
	typ, _, _ := h.Attribute("type")
	text, _ := h.Text()

	return &entity.ElementInfo{
		Tag:  tag,
		Type: strings.ToLower(typ),
		Text: strings.TrimSpace(text),
	}, nil
}

func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	el, err := b.element(ctx, selector, b.timeout)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	if page, err := b.pageFor(ctx); err == nil {
		_ = page.WaitIdle(2 * time.Second)
	}
	return nil
}

func (b *BrowserAdapter) Fill(ctx context.Context, selector, value string) error {
	el, err := b.element(ctx, selector, b.timeout)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(value); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = b.timeout
	}
	_, err := b.element(ctx, selector, timeout)
	return err
}

func (b *BrowserAdapter) InnerHTML(ctx context.Context, selector string) (string, error) {
	el, err := b.element(ctx, selector, b.timeout)
	if err != nil {
		return "", fmt.Errorf("element not found: %s: %w", selector, err)
	}

	res, err := el.Eval(`() => this.innerHTML`)
	if err != nil {
		return "", fmt.Errorf("read inner html: %w", err)
	}
	return res.Value.Str(), nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}

	imgBytes, err := page.Timeout(b.timeout).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotW {
		img = imaging.Resize(img, maxScreenshotW, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) CurrentURL() string {
	page, err := b.pageFor(context.Background())
	if err != nil {
		return ""
	}
	info, err := page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

func (b *BrowserAdapter) query(ctx context.Context, selector string) (rod.Elements, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	if isXPathSelector(selector) {
		return page.ElementsX(xpathExpr(selector))
	}
	return page.Elements(selector)
}

// element waits up to timeout for selector to match.
func (b *BrowserAdapter) element(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	page, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	page = page.Timeout(timeout)
	if isXPathSelector(selector) {
		return page.ElementX(xpathExpr(selector))
	}
	return page.Element(selector)
}

type elementHandle struct {
	el *rod.Element
}

func (h *elementHandle) TagName() (string, error) {
	res, err := h.el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", fmt.Errorf("read tag name: %w", err)
	}
	return res.Value.Str(), nil
}

func (h *elementHandle) Text() (string, error) {
	return h.el.Text()
}

func (h *elementHandle) Attribute(name string) (string, bool, error) {
	v, err := h.el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	return ptrToString(v), v != nil, nil
}

func (h *elementHandle) OuterHTML() (string, error) {
	return h.el.HTML()
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch u.Scheme {
	case "http", "https", "file":
		return nil
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
}

func isXPathSelector(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "xpath=")
}

func xpathExpr(selector string) string {
	return strings.TrimPrefix(selector, "xpath=")
}

func ptrToString(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}
