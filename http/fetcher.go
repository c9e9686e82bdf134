// Package http provides an HTTP-based implementation of woocrawl.Fetcher
// for portal pages that don't require JavaScript rendering, and the
// sitemap service used to discover document URLs.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/woocrawl"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies the crawler to the portals.
const DefaultUserAgent = "woocrawl/1.0 (+https://github.com/fwojciec/woocrawl)"

// DefaultMaxBodySize bounds the size of one response body. Attached PDF
// files are the largest responses.
const DefaultMaxBodySize = 100 << 20

// Ensure Fetcher implements woocrawl.Fetcher at compile time.
var _ woocrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages and files using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript, so responses never
// carry captured API calls.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the URL. A non-2xx status returns the response together
// with an error; 404 and 410 map to ENOTFOUND.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*woocrawl.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "nl-NL,nl;q=0.9,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, err
	}

	out := &woocrawl.Response{
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}
	if err := statusError(url, resp.StatusCode); err != nil {
		return out, err
	}
	return out, nil
}

// statusError returns the error for a non-2xx status.
func statusError(url string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound || status == http.StatusGone:
		return woocrawl.Errorf(woocrawl.ENOTFOUND, "HTTP %d for %s", status, url)
	default:
		return woocrawl.Errorf(woocrawl.EINTERNAL, "HTTP %d for %s", status, url)
	}
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
