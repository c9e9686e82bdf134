package crawl

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/woocrawl"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*woocrawl.Response, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry attempts to fetch a URL with exponential backoff retry logic.
// It retries up to 3 times (4 total attempts) with delays of 1s, 2s, 4s.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger) (*woocrawl.Response, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but allows configurable delays.
// Client errors other than 429 are returned without retrying.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (*woocrawl.Response, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastResp *woocrawl.Response
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := fetch(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastResp, lastErr = resp, err

		if attempt >= maxAttempts-1 || !retryable(resp) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if logger != nil {
			logger.Debug("retry fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastResp, lastErr
}

// retryable reports whether a failed fetch may succeed when repeated.
func retryable(resp *woocrawl.Response) bool {
	if resp == nil || resp.Status == 0 {
		return true
	}
	if resp.Status == http.StatusTooManyRequests {
		return true
	}
	return resp.Status >= 500
}
