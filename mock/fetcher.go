package mock

import (
	"context"

	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of woocrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*woocrawl.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*woocrawl.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
