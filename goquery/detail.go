package goquery

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Selectors and labels of a detail page.
const (
	classificationSelector = `dl[class*="animal-facts"]`
	factsSelector          = `dl.row[title*="Facts"]`
	locationSelector       = `a[href*="/animals/location/"]`
	introSelector          = `#single-animal-text > p, .entry-content > p`
	keyFactHeadings        = `h2, h3, h4`

	labelScientificName     = "Scientific Name"
	labelConservationStatus = "Conservation Status"
)

// maxIntroParagraphs bounds the paragraphs used as the description.
const maxIntroParagraphs = 2

// excludedLocations are navigation anchors that share the location URL prefix.
var excludedLocations = []string{"By Location", "Location", "By"}

func (p *Parser) parseDetail(doc *goquery.Document, item animals.WorkItem) (*animals.Animal, error) {
	name := item.Name
	if name == "" {
		name = cleanText(doc.Find("h1").First().Text())
	}
	if name == "" {
		return nil, animals.Errorf(animals.EINVALID, "no animal name on %s", item.URL)
	}

	classification := definitionList(doc.Find(classificationSelector))
	facts := definitionList(doc.Find(factsSelector))

	a := &animals.Animal{
		Name:               name,
		URL:                item.URL,
		SourcePage:         item.SourcePage,
		Classification:     classification,
		Facts:              facts,
		ScientificName:     lookup(labelScientificName, classification, facts),
		ConservationStatus: lookup(labelConservationStatus, facts, classification),
		Locations:          locations(doc),
		KeyFacts:           keyFacts(doc),
		Description:        p.description(doc),
	}
	if a.ConservationStatus == "" {
		a.ConservationStatus = labeledValue(doc, labelConservationStatus)
	}
	return a, nil
}

// definitionList pairs the dt and dd elements of sel in document order.
// Labels lose a trailing colon; pairs with an empty side are dropped.
// Returns nil when no pair survives.
func definitionList(sel *goquery.Selection) map[string]string {
	if sel.Length() == 0 {
		return nil
	}

	dts := sel.Find("dt")
	dds := sel.Find("dd")
	n := min(dts.Length(), dds.Length())

	var m map[string]string
	for i := 0; i < n; i++ {
		label := strings.TrimSpace(strings.TrimSuffix(cleanText(dts.Eq(i).Text()), ":"))
		value := cleanText(dds.Eq(i).Text())
		if label == "" || value == "" {
			continue
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[label] = value
	}
	return m
}

// lookup returns the first non-empty value of key in maps.
func lookup(key string, maps ...map[string]string) string {
	for _, m := range maps {
		if v := m[key]; v != "" {
			return v
		}
	}
	return ""
}

// labeledValue finds a dt labeled label anywhere on the page and returns
// the text of the dd that follows it.
func labeledValue(doc *goquery.Document, label string) string {
	var value string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if strings.TrimSuffix(cleanText(dt.Text()), ":") != label {
			return true
		}
		value = cleanText(dt.NextFiltered("dd").Text())
		return value == ""
	})
	return value
}

// locations returns the location anchor texts, deduplicated in order.
// The result is never nil.
func locations(doc *goquery.Document) []string {
	locs := []string{}
	seen := make(map[string]bool)
	doc.Find(locationSelector).Each(func(_ int, sel *goquery.Selection) {
		text := cleanText(sel.Text())
		if text == "" || seen[text] || slices.Contains(excludedLocations, text) {
			return
		}
		seen[text] = true
		locs = append(locs, text)
	})
	return locs
}

// keyFacts returns the items of the first list following a "key facts" or
// "fun fact" heading.
func keyFacts(doc *goquery.Document) []string {
	var facts []string
	doc.Find(keyFactHeadings).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		title := strings.ToLower(h.Text())
		if !strings.Contains(title, "key facts") && !strings.Contains(title, "fun fact") {
			return true
		}
		h.NextAllFiltered("ul, ol").First().Find("li").Each(func(_ int, li *goquery.Selection) {
			if text := cleanText(li.Text()); text != "" {
				facts = append(facts, text)
			}
		})
		return len(facts) == 0
	})
	return facts
}

// description returns the intro paragraphs, falling back to the meta
// description.
func (p *Parser) description(doc *goquery.Document) string {
	var htmls, texts []string
	doc.Find(introSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := cleanText(sel.Text())
		if text == "" {
			return true
		}
		html, err := goquery.OuterHtml(sel)
		if err != nil {
			return true
		}
		htmls = append(htmls, html)
		texts = append(texts, text)
		return len(htmls) < maxIntroParagraphs
	})

	if len(htmls) > 0 {
		if p.Converter != nil {
			if md, err := p.Converter.Convert(strings.Join(htmls, "\n")); err == nil && md != "" {
				return md
			}
		}
		return strings.Join(texts, "\n\n")
	}

	meta, _ := doc.Find(`meta[name="description"]`).Attr("content")
	return strings.TrimSpace(meta)
}
