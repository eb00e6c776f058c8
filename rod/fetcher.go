// Package rod provides a headless Chrome implementation of animals.Fetcher
// for sites that reject plain HTTP clients.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-rod/stealth"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// DefaultFetchTimeout bounds one page load.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements animals.Fetcher at compile time.
var _ animals.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML with a headless Chrome browser. Pages are
// opened in stealth mode, which hides the automation markers bot filters
// look for.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *browser
	timeout  time.Duration
	maxPages int
	headless bool
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout of one page load.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxPages sets how many pages are loaded before the browser is
// relaunched. Zero disables relaunching.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithHeadless controls whether Chrome runs without a window. Defaults to true.
func WithHeadless(headless bool) Option {
	return func(f *Fetcher) {
		f.headless = headless
	}
}

// NewFetcher launches Chrome and returns a Fetcher using it.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
		headless: true,
	}
	for _, opt := range opts {
		opt(f)
	}

	b, err := newBrowser(f.maxPages, f.headless)
	if err != nil {
		return nil, err
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", animals.Errorf(animals.EINVALID, "fetcher closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b := f.browser.acquire()
	if b == nil {
		return "", animals.Errorf(animals.EINVALID, "fetcher closed")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return "", err
	}
	defer page.Close()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.browser.close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.browser.pid()
}
