package slog

import (
	"log/slog"
	"time"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Ensure LoggingParser implements animals.PageParser.
var _ animals.PageParser = (*LoggingParser)(nil)

// LoggingParser wraps a PageParser with debug logging.
type LoggingParser struct {
	next   animals.PageParser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next animals.PageParser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse logs what was extracted from the page.
func (p *LoggingParser) Parse(item animals.WorkItem, html string) (res *animals.ParseResult, err error) {
	defer func(begin time.Time) {
		var name string
		var next int
		if res != nil {
			next = len(res.Next)
			if res.Animal != nil {
				name = res.Animal.Name
			}
		}
		p.logger.Debug("parse",
			"url", item.URL,
			"kind", item.Kind,
			"animal", name,
			"next", next,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(item, html)
}
