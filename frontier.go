package animals

import "context"

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push adds an item to the frontier.
	// Returns false if its URL has already been seen.
	Push(item WorkItem) bool

	// Pop returns the next item by priority.
	// Returns false if the frontier is empty.
	Pop() (WorkItem, bool)

	// Len returns the number of items in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
