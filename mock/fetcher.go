package mock

import (
	"context"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

var _ animals.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of animals.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
