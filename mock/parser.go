package mock

import animals "github.com/wilfried-lafaye/scraping-animals-app"

var _ animals.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of animals.PageParser.
type PageParser struct {
	ParseFn func(item animals.WorkItem, html string) (*animals.ParseResult, error)
}

func (p *PageParser) Parse(item animals.WorkItem, html string) (*animals.ParseResult, error) {
	return p.ParseFn(item, html)
}
