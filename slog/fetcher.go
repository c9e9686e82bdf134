// Package slog provides log/slog decorators for woocrawl services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/woocrawl"
)

// Ensure LoggingFetcher implements woocrawl.Fetcher.
var _ woocrawl.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   woocrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next woocrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *woocrawl.Response, err error) {
	defer func(begin time.Time) {
		var status, bytes, captured int
		if resp != nil {
			status, bytes, captured = resp.Status, len(resp.Body), len(resp.Captured)
		}
		f.logger.Info("fetch",
			"url", url,
			"status", status,
			"bytes", bytes,
			"captured", captured,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
