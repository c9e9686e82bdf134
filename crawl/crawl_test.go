package crawl_test

import (
	"context"
	"log/slog"

	"github.com/fwojciec/woocrawl"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// pages returns a fetch function serving bodies by URL. Unknown URLs fail
// with a 404 response.
func pages(bodies map[string]string) func(context.Context, string) (*woocrawl.Response, error) {
	return func(_ context.Context, url string) (*woocrawl.Response, error) {
		body, ok := bodies[url]
		if !ok {
			return &woocrawl.Response{URL: url, Status: 404}, woocrawl.Errorf(woocrawl.ENOTFOUND, "fetch %s: status 404", url)
		}
		return &woocrawl.Response{URL: url, Status: 200, Body: []byte(body)}, nil
	}
}
