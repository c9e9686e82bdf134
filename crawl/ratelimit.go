package crawl

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/woocrawl"
	"golang.org/x/time/rate"
)

var _ woocrawl.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces a fixed delay between requests to the same host
// using one token bucket per host.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a new DomainLimiter allowing one request per
// delay for each domain. A zero delay disables limiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// waitFor waits on limiter for the host of rawURL. A nil limiter never waits.
func waitFor(ctx context.Context, limiter woocrawl.DomainLimiter, rawURL string) error {
	if limiter == nil {
		return ctx.Err()
	}
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return limiter.Wait(ctx, host)
}
