package crawl

import (
	"context"
	"sync"
	"time"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"golang.org/x/time/rate"
)

var _ animals.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces requests to each domain by a fixed delay using token
// buckets with a burst of 1. Requests to different domains do not wait on
// each other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing one request per delay to
// each domain. A delay of zero or less disables limiting.
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
