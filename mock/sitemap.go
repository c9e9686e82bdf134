package mock

import (
	"context"

	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of woocrawl.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *woocrawl.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *woocrawl.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
