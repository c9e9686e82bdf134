// Package rod provides a browser-based woocrawl.Fetcher for portal pages
// that render their content with JavaScript. JSON API responses observed
// while rendering are captured and returned with the page.
package rod

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds one page render.
const DefaultFetchTimeout = 30 * time.Second

// DefaultStableWait is how long the network and DOM must be quiet before
// the page counts as rendered.
const DefaultStableWait = 500 * time.Millisecond

// Ensure Fetcher implements woocrawl.Fetcher at compile time.
var _ woocrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager    *BrowserManager
	timeout    time.Duration
	stableWait time.Duration
	capture    func(url, mimeType string) bool
	userAgent  string
	browser    []ManagerOption

	mu     sync.RWMutex
	closed bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the timeout for a single page render.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithStableWait sets how long the page must be idle before it is read.
func WithStableWait(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.stableWait = d
	}
}

// WithCaptureFilter decides which responses are captured. By default every
// JSON response is captured.
func WithCaptureFilter(fn func(url, mimeType string) bool) FetcherOption {
	return func(f *Fetcher) {
		f.capture = fn
	}
}

// WithUserAgent overrides the browser User-Agent on every page.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithBrowserOptions configures the underlying BrowserManager.
func WithBrowserOptions(opts ...ManagerOption) FetcherOption {
	return func(f *Fetcher) {
		f.browser = append(f.browser, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{
		timeout:    DefaultFetchTimeout,
		stableWait: DefaultStableWait,
		capture:    isJSON,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.browser...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML together with
// the JSON responses the page loaded.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*woocrawl.Response, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "fetcher closed")
	}

	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return nil, err
		}
	}
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return nil, err
	}

	rec := &recorder{capture: f.capture}
	go page.EachEvent(rec.onResponse)()

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}
	if err := page.WaitStable(f.stableWait); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	finalURL := url
	if info, err := page.Info(); err == nil {
		finalURL = info.URL
	}

	resp := &woocrawl.Response{
		URL:      finalURL,
		Status:   rec.documentStatus(),
		Body:     []byte(html),
		Captured: rec.bodies(page),
	}
	if resp.Status >= 400 {
		code := woocrawl.EINTERNAL
		if resp.Status == 404 || resp.Status == 410 {
			code = woocrawl.ENOTFOUND
		}
		return resp, woocrawl.Errorf(code, "HTTP %d for %s", resp.Status, url)
	}
	return resp, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// recorder collects network events of one page load.
type recorder struct {
	capture func(url, mimeType string) bool

	mu       sync.Mutex
	status   int
	requests []capturedRequest
}

type capturedRequest struct {
	id  proto.NetworkRequestID
	url string
}

func (r *recorder) onResponse(e *proto.NetworkResponseReceived) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Type == proto.NetworkResourceTypeDocument && r.status == 0 {
		r.status = e.Response.Status
		return
	}
	if r.capture != nil && r.capture(e.Response.URL, e.Response.MIMEType) {
		r.requests = append(r.requests, capturedRequest{id: e.RequestID, url: e.Response.URL})
	}
}

func (r *recorder) documentStatus() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == 0 {
		return 200
	}
	return r.status
}

// bodies reads the captured response bodies. Bodies the browser already
// evicted are skipped.
func (r *recorder) bodies(page *rod.Page) []woocrawl.Capture {
	r.mu.Lock()
	requests := append([]capturedRequest(nil), r.requests...)
	r.mu.Unlock()

	var out []woocrawl.Capture
	for _, req := range requests {
		res, err := proto.NetworkGetResponseBody{RequestID: req.id}.Call(page)
		if err != nil {
			continue
		}
		body := []byte(res.Body)
		if res.Base64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(res.Body)
			if err != nil {
				continue
			}
			body = decoded
		}
		out = append(out, woocrawl.Capture{URL: req.url, Body: body})
	}
	return out
}

func isJSON(_ string, mimeType string) bool {
	return strings.Contains(mimeType, "json")
}
