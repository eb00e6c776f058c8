package fs

import (
	"context"
	"sync"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Ensure Feed implements animals.AnimalWriter at compile time.
var _ animals.AnimalWriter = (*Feed)(nil)

// Feed collects crawled animals and writes them to an interchange file.
// Records are held in memory and only reach the file on Commit, so an
// aborted crawl never leaves a half-written feed behind.
type Feed struct {
	path string

	mu    sync.Mutex
	list  []*animals.Animal
	index map[animals.Key]int
}

// NewFeed creates a Feed that commits to path.
func NewFeed(path string) *Feed {
	return &Feed{
		path:  path,
		index: make(map[animals.Key]int),
	}
}

// Path returns the file the feed commits to.
func (f *Feed) Path() string {
	return f.path
}

// Upsert adds a copy of a to the feed. A record with the same key as an
// earlier one replaces it in place.
func (f *Feed) Upsert(ctx context.Context, a *animals.Animal) (animals.UpsertResult, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}

	cp := *a
	f.mu.Lock()
	defer f.mu.Unlock()

	if i, ok := f.index[a.Key()]; ok {
		f.list[i] = &cp
		return animals.UpsertUpdated, nil
	}
	f.index[a.Key()] = len(f.list)
	f.list = append(f.list, &cp)
	return animals.UpsertInserted, nil
}

// Len returns the number of records collected so far.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.list)
}

// Commit writes the collected records to the feed file atomically.
func (f *Feed) Commit() error {
	f.mu.Lock()
	list := make([]*animals.Animal, len(f.list))
	copy(list, f.list)
	f.mu.Unlock()

	return WriteAnimals(f.path, list)
}
