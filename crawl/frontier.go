package crawl

import (
	"container/heap"
	"strings"
	"sync"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"github.com/wilfried-lafaye/scraping-animals-app/bloom"
)

// Compile-time interface verification.
var _ animals.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory work queue ordered by priority, with Bloom filter
// deduplication of URLs. Items of equal priority come out in push order.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *itemHeap
	seq   uint64
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &itemHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds an item to the frontier.
// Returns false if the URL has already been seen. URLs differing only by
// fragment are considered duplicates.
func (f *Frontier) Push(item animals.WorkItem) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(item.URL)
	if f.seen.TestAndAdd(url) {
		return false
	}

	item.URL = url
	heap.Push(f.queue, queued{item: item, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the next item by priority.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (animals.WorkItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return animals.WorkItem{}, false
	}
	q, _ := heap.Pop(f.queue).(queued)
	return q.item, true
}

// Drain removes and returns every queued item in priority order.
func (f *Frontier) Drain() []animals.WorkItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]animals.WorkItem, 0, f.queue.Len())
	for f.queue.Len() > 0 {
		q, _ := heap.Pop(f.queue).(queued)
		items = append(items, q.item)
	}
	return items
}

// Len returns the number of items in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

type queued struct {
	item animals.WorkItem
	seq  uint64
}

// itemHeap implements heap.Interface as a max-heap on priority, FIFO within
// a priority.
type itemHeap []queued

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].item.Priority != h[j].item.Priority {
		return h[i].item.Priority > h[j].item.Priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	q, _ := x.(queued)
	*h = append(*h, q)
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
