// Package crawl drives the fetch → parse → store loop over an animal site.
// Pages are processed in waves: every item queued in the frontier is fetched
// and parsed, and the work items they yield form the next wave.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"golang.org/x/sync/errgroup"
)

// Frontier configuration.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.001
	// DefaultMaxPages limits the number of pages fetched to prevent runaway crawls.
	DefaultMaxPages = 5000
)

// Crawler fetches the pages of one site and writes the animals they yield.
type Crawler struct {
	Fetcher     animals.Fetcher
	Parser      animals.PageParser
	RateLimiter animals.DomainLimiter

	// Store receives every extracted animal. May be nil to skip storage.
	Store animals.AnimalWriter

	// Feed, if set, also receives every extracted animal (e.g. a JSON file).
	Feed animals.AnimalWriter

	// Concurrency bounds the pages in flight within a wave. Defaults to 1.
	Concurrency int
	RetryDelays []time.Duration

	// MaxPages caps the pages fetched after the start page. Defaults to
	// DefaultMaxPages.
	MaxPages int

	// Logger, if set, is called for retries and per-page failures.
	Logger LogFunc
}

// Result holds the outcome of a crawl.
type Result struct {
	Pages     int
	Animals   int
	Inserted  int
	Updated   int
	Unchanged int
	Failed    int

	// Truncated is set when the page budget ran out with pages left to crawl.
	Truncated bool
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type   ProgressType
	Item   animals.WorkItem
	Animal *animals.Animal
	Result animals.UpsertResult
	Queued int
	Error  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressFetched ProgressType = iota
	ProgressStored
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// It is never called concurrently.
type ProgressFunc func(event ProgressEvent)

// run holds the mutable state of one Crawl call.
type run struct {
	c        *Crawler
	frontier *Frontier
	progress ProgressFunc

	mu       sync.Mutex
	result   Result
	pages    int
	maxPages int
}

// Crawl starts at startURL, treated as the index page, and follows the work
// items the parser yields until none are left. Animals already written stay
// written when ctx is canceled; the partial result is returned with ctx's
// error. Only a failure to fetch or parse the start page aborts the crawl.
func (c *Crawler) Crawl(ctx context.Context, startURL string, progress ProgressFunc) (*Result, error) {
	if _, err := url.ParseRequestURI(startURL); err != nil {
		return nil, animals.Errorf(animals.EINVALID, "invalid start URL %q", startURL)
	}

	r := &run{
		c:        c,
		frontier: NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate),
		progress: progress,
		maxPages: c.MaxPages,
	}
	if r.maxPages <= 0 {
		r.maxPages = DefaultMaxPages
	}
	r.frontier.Push(animals.WorkItem{
		URL:      startURL,
		Kind:     animals.PageIndex,
		Priority: animals.PriorityIndex,
	})

	// The start page runs alone so its failure can abort the crawl.
	start, _ := r.frontier.Pop()
	if err := r.process(ctx, start); err != nil {
		return &r.result, fmt.Errorf("start page: %w", err)
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	for r.frontier.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return &r.result, err
		}

		wave := r.frontier.Drain()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for _, item := range wave {
			if !r.claimPage() {
				r.truncate()
				break
			}
			g.Go(func() error {
				// Per-page failures are recorded, never returned.
				_ = r.process(gctx, item)
				return nil
			})
		}
		_ = g.Wait()

		if r.exhausted() {
			if r.frontier.Len() > 0 {
				r.truncate()
			}
			break
		}
	}

	if err := ctx.Err(); err != nil {
		return &r.result, err
	}

	r.emit(ProgressEvent{Type: ProgressFinished})
	return &r.result, nil
}

// process fetches, parses and stores one work item, queueing what it links to.
func (r *run) process(ctx context.Context, item animals.WorkItem) error {
	html, err := r.fetch(ctx, item)
	if err != nil {
		r.fail(item, err)
		return err
	}

	parsed, err := r.c.Parser.Parse(item, html)
	if err != nil {
		r.fail(item, err)
		return err
	}

	queued := 0
	for _, next := range parsed.Next {
		if r.frontier.Push(next) {
			queued++
		}
	}

	r.mu.Lock()
	r.result.Pages++
	r.mu.Unlock()
	r.emit(ProgressEvent{Type: ProgressFetched, Item: item, Queued: queued})

	if parsed.Animal != nil {
		return r.store(ctx, item, parsed.Animal)
	}
	return nil
}

// fetch retrieves item, waiting on the domain limiter before every attempt
// so retries stay under the same request rate.
func (r *run) fetch(ctx context.Context, item animals.WorkItem) (string, error) {
	u, err := url.Parse(item.URL)
	if err != nil {
		return "", animals.Errorf(animals.EINVALID, "invalid URL %q", item.URL)
	}

	fetch := r.c.Fetcher.Fetch
	if r.c.RateLimiter != nil {
		fetch = func(ctx context.Context, target string) (string, error) {
			if err := r.c.RateLimiter.Wait(ctx, u.Host); err != nil {
				return "", err
			}
			return r.c.Fetcher.Fetch(ctx, target)
		}
	}

	delays := r.c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetry(ctx, item.URL, fetch, r.c.Logger, delays)
}

// store writes a to the store and the feed.
func (r *run) store(ctx context.Context, item animals.WorkItem, a *animals.Animal) error {
	if err := a.Validate(); err != nil {
		r.fail(item, err)
		return err
	}

	result := animals.UpsertInserted
	if r.c.Store != nil {
		res, err := r.c.Store.Upsert(ctx, a)
		if err != nil {
			r.fail(item, err)
			return err
		}
		result = res
	}
	if r.c.Feed != nil {
		if _, err := r.c.Feed.Upsert(ctx, a); err != nil {
			r.fail(item, err)
			return err
		}
	}

	r.mu.Lock()
	r.result.Animals++
	if r.c.Store != nil {
		switch result {
		case animals.UpsertInserted:
			r.result.Inserted++
		case animals.UpsertUpdated:
			r.result.Updated++
		case animals.UpsertUnchanged:
			r.result.Unchanged++
		}
	}
	r.mu.Unlock()

	r.emit(ProgressEvent{Type: ProgressStored, Item: item, Animal: a, Result: result})
	return nil
}

func (r *run) fail(item animals.WorkItem, err error) {
	// Cancellation is not a page failure.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	r.mu.Lock()
	r.result.Failed++
	r.mu.Unlock()

	if r.c.Logger != nil {
		r.c.Logger("page failed", "url", item.URL, "kind", item.Kind.String(), "err", err)
	}
	r.emit(ProgressEvent{Type: ProgressFailed, Item: item, Error: err})
}

// claimPage reserves one page of the crawl budget.
func (r *run) claimPage() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pages >= r.maxPages {
		return false
	}
	r.pages++
	return true
}

func (r *run) exhausted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pages >= r.maxPages
}

// truncate records that the page budget stopped the crawl early.
func (r *run) truncate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result.Truncated {
		return
	}
	r.result.Truncated = true
	if r.c.Logger != nil {
		r.c.Logger("page limit reached, crawl stopped early", "max_pages", r.maxPages)
	}
}

func (r *run) emit(event ProgressEvent) {
	if r.progress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress(event)
}
