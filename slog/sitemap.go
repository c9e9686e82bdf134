package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each sitemap walk. Failed walks are logged
// at warn level.
type LoggingSitemapService struct {
	next   woocrawl.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next woocrawl.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *woocrawl.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "sitemap discovery",
			"base_url", baseURL,
			"filtered", filter != nil,
			"urls", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
