package animals

// PageKind identifies the role of a page in the crawl.
type PageKind int

// Page kinds, in traversal order.
const (
	PageIndex PageKind = iota
	PageListing
	PageDetail
)

// String returns the lowercase name of the page kind.
func (k PageKind) String() string {
	switch k {
	case PageIndex:
		return "index"
	case PageListing:
		return "listing"
	case PageDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Priority orders work items in the frontier (higher = first).
type Priority int

// Priority levels. Detail pages come first so records reach the store early.
const (
	PriorityIndex   Priority = 10
	PriorityListing Priority = 50
	PriorityDetail  Priority = 100
)

// WorkItem is a page the crawl still has to fetch.
type WorkItem struct {
	URL      string
	Kind     PageKind
	Priority Priority

	// Name is the anchor text that linked to a detail page.
	Name string

	// SourcePage is the listing page that linked to a detail page.
	SourcePage string
}

// ParseResult is what a page yields: at most one animal and the pages it links to.
type ParseResult struct {
	Animal *Animal
	Next   []WorkItem
}

// PageParser turns fetched HTML into records and further work.
// Implementations are pure: they never fetch or store anything.
type PageParser interface {
	// Parse extracts the result of item from its HTML.
	// Missing optional fields degrade to empty values; only pages that cannot
	// produce what their kind requires return an error.
	Parse(item WorkItem, html string) (*ParseResult, error)
}
