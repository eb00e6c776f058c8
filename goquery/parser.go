// Package goquery parses animal site pages with CSS selectors.
package goquery

import (
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Ensure Parser implements animals.PageParser at compile time.
var _ animals.PageParser = (*Parser)(nil)

// DefaultPerLetter is the default number of detail pages followed per listing.
const DefaultPerLetter = 10

// Selectors for the pages of the site.
const (
	listingLinkSelector = `a[href*="/animals/animals-that-start-with-"]`
	detailLinkSelector  = `li > a`
	listingPathMarker   = "animals-that-start-with"
	animalsPathPrefix   = "/animals/"
)

// DefaultSkipLabels returns the anchor texts of category pages that appear
// among the animal links of a listing.
func DefaultSkipLabels() []string {
	return []string{"Amphibians", "Birds", "Fish", "Mammals", "Reptiles", "All Animals"}
}

// Parser extracts work items and animals from the index, listing and detail
// pages of an A-Z animal site.
type Parser struct {
	// PerLetter caps the detail links taken from one listing page.
	// Zero or less means no cap.
	PerLetter int

	// SkipLabels are anchor texts that never name an animal.
	SkipLabels []string

	// Converter, if set, turns the intro paragraphs into Markdown.
	// Without it the description is plain text.
	Converter animals.Converter
}

// NewParser creates a Parser with the default cap and skip labels.
func NewParser(converter animals.Converter) *Parser {
	return &Parser{
		PerLetter:  DefaultPerLetter,
		SkipLabels: DefaultSkipLabels(),
		Converter:  converter,
	}
}

// Parse extracts the result of item from its HTML.
func (p *Parser) Parse(item animals.WorkItem, html string) (*animals.ParseResult, error) {
	base, err := url.Parse(item.URL)
	if err != nil {
		return nil, animals.Errorf(animals.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, animals.Errorf(animals.EINVALID, "failed to parse HTML: %v", err)
	}

	switch item.Kind {
	case animals.PageIndex:
		return p.parseIndex(doc, base), nil
	case animals.PageListing:
		return p.parseListing(doc, base), nil
	case animals.PageDetail:
		a, err := p.parseDetail(doc, item)
		if err != nil {
			return nil, err
		}
		return &animals.ParseResult{Animal: a}, nil
	default:
		return nil, animals.Errorf(animals.EINVALID, "unknown page kind %d", item.Kind)
	}
}

// parseIndex queues every per-letter listing page.
func (p *Parser) parseIndex(doc *goquery.Document, base *url.URL) *animals.ParseResult {
	res := &animals.ParseResult{}
	for _, l := range extractLinks(doc, base, listingLinkSelector, nil) {
		res.Next = append(res.Next, animals.WorkItem{
			URL:      l.URL,
			Kind:     animals.PageListing,
			Priority: animals.PriorityListing,
		})
	}
	return res
}

// parseListing queues up to PerLetter detail pages. Category links and
// anchors without text do not count toward the cap.
func (p *Parser) parseListing(doc *goquery.Document, base *url.URL) *animals.ParseResult {
	isDetail := func(u *url.URL) bool {
		return strings.HasPrefix(u.Path, animalsPathPrefix) &&
			!strings.Contains(u.Path, listingPathMarker)
	}

	res := &animals.ParseResult{}
	for _, l := range extractLinks(doc, base, detailLinkSelector, isDetail) {
		if p.PerLetter > 0 && len(res.Next) >= p.PerLetter {
			break
		}
		if l.Text == "" || slices.Contains(p.SkipLabels, l.Text) {
			continue
		}
		res.Next = append(res.Next, animals.WorkItem{
			URL:        l.URL,
			Kind:       animals.PageDetail,
			Priority:   animals.PriorityDetail,
			Name:       l.Text,
			SourcePage: base.String(),
		})
	}
	return res
}
