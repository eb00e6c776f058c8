package mock

import (
	"context"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

var _ animals.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of animals.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
