package crawl

import "fmt"

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// progressURLWidth is the display width of URLs in progress lines.
const progressURLWidth = 60

// FormatEvent renders a progress event as a single line, or "" for events
// not worth printing.
func FormatEvent(event ProgressEvent) string {
	switch event.Type {
	case ProgressStored:
		return fmt.Sprintf("  %-9s %s", event.Result, event.Animal.Name)
	case ProgressFailed:
		return fmt.Sprintf("  failed    %s: %v", TruncateURL(event.Item.URL, progressURLWidth), event.Error)
	case ProgressFetched:
		if event.Queued == 0 {
			return ""
		}
		return fmt.Sprintf("  %-9s %s (+%d)", event.Item.Kind, TruncateURL(event.Item.URL, progressURLWidth), event.Queued)
	default:
		return ""
	}
}

// Summary returns a one-line report of the crawl.
func (r *Result) Summary() string {
	s := fmt.Sprintf("Crawled %d pages: %d animals (%d new, %d updated, %d unchanged), %d failed",
		r.Pages, r.Animals, r.Inserted, r.Updated, r.Unchanged, r.Failed)
	if r.Truncated {
		s += " (stopped at the page limit)"
	}
	return s
}
