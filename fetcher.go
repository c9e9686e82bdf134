package woocrawl

import (
	"context"
	"mime"
	"net/http"
	"strings"
)

// Response is a fetched page. It is transient: consumed by extraction and
// discarded.
type Response struct {
	URL    string
	Status int
	Header http.Header
	Body   []byte

	// Captured holds JSON API responses observed while a browser rendered
	// the page. Empty for plain HTTP fetches.
	Captured []Capture
}

// Capture is a JSON response observed during page rendering.
type Capture struct {
	URL  string
	Body []byte
}

// ContentType returns the media type of the response without parameters.
func (r *Response) ContentType() string {
	if r.Header == nil {
		return ""
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// IsJSON reports whether the response carries a JSON body.
func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	if ct == "application/json" || strings.HasSuffix(ct, "+json") {
		return true
	}
	b := strings.TrimSpace(string(r.Body))
	return ct == "" && (strings.HasPrefix(b, "{") || strings.HasPrefix(b, "["))
}

// Fetcher retrieves pages.
// Failures surface as returned errors. A non-2xx status returns the
// response together with an error so callers can record the status.
type Fetcher interface {
	// Fetch retrieves the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases resources held by the fetcher.
	Close() error
}
