package goquery_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"github.com/wilfried-lafaye/scraping-animals-app/goquery"
	"github.com/wilfried-lafaye/scraping-animals-app/mock"
)

const (
	indexURL   = "https://a-z-animals.com/animals/"
	listingURL = "https://a-z-animals.com/animals/animals-that-start-with-a/"
	detailURL  = "https://a-z-animals.com/animals/aardvark/"
)

func listingItem() animals.WorkItem {
	return animals.WorkItem{URL: listingURL, Kind: animals.PageListing, Priority: animals.PriorityListing}
}

func detailItem(name string) animals.WorkItem {
	return animals.WorkItem{
		URL:        detailURL,
		Kind:       animals.PageDetail,
		Priority:   animals.PriorityDetail,
		Name:       name,
		SourcePage: listingURL,
	}
}

// listingHTML renders a listing page with n animal links, inserting extra
// list items before the animal at each index of extras.
func listingHTML(n int, extras map[int]string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for i := 0; i < n; i++ {
		if extra, ok := extras[i]; ok {
			b.WriteString(extra)
		}
		fmt.Fprintf(&b, `<li><a href="/animals/animal-%d/">Animal %d</a></li>`, i, i)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func names(items []animals.WorkItem) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestParser_Parse_Index(t *testing.T) {
	t.Parallel()

	t.Run("queues each letter listing once", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/animals/animals-that-start-with-a/">A</a>
<a href="https://a-z-animals.com/animals/animals-that-start-with-b/">B</a>
<a href="/animals/animals-that-start-with-a/#top">A again</a>
<a href="/animals/aardvark/">Aardvark</a>
<a href="https://other.example/animals/animals-that-start-with-c/">C elsewhere</a>
</body></html>`

		res, err := goquery.NewParser(nil).Parse(animals.WorkItem{URL: indexURL, Kind: animals.PageIndex}, html)

		require.NoError(t, err)
		assert.Nil(t, res.Animal)
		require.Len(t, res.Next, 2)
		assert.Equal(t, "https://a-z-animals.com/animals/animals-that-start-with-a/", res.Next[0].URL)
		assert.Equal(t, "https://a-z-animals.com/animals/animals-that-start-with-b/", res.Next[1].URL)
		for _, item := range res.Next {
			assert.Equal(t, animals.PageListing, item.Kind)
			assert.Equal(t, animals.PriorityListing, item.Priority)
		}
	})

	t.Run("yields nothing for an index without letter links", func(t *testing.T) {
		t.Parallel()

		res, err := goquery.NewParser(nil).Parse(animals.WorkItem{URL: indexURL, Kind: animals.PageIndex}, "<html></html>")

		require.NoError(t, err)
		assert.Empty(t, res.Next)
	})
}

func TestParser_Parse_Listing(t *testing.T) {
	t.Parallel()

	t.Run("caps detail links per letter", func(t *testing.T) {
		t.Parallel()

		res, err := goquery.NewParser(nil).Parse(listingItem(), listingHTML(50, nil))

		require.NoError(t, err)
		require.Len(t, res.Next, goquery.DefaultPerLetter)
		assert.Equal(t, "Animal 0", res.Next[0].Name)
		assert.Equal(t, "Animal 9", res.Next[9].Name)

		first := res.Next[0]
		assert.Equal(t, "https://a-z-animals.com/animals/animal-0/", first.URL)
		assert.Equal(t, animals.PageDetail, first.Kind)
		assert.Equal(t, animals.PriorityDetail, first.Priority)
		assert.Equal(t, listingURL, first.SourcePage)
	})

	t.Run("skips category labels anywhere without counting them", func(t *testing.T) {
		t.Parallel()

		extras := map[int]string{
			0: `<li><a href="/animals/birds/">Birds</a></li>`,
			3: `<li><a href="/animals/mammals/"> Mammals </a></li>`,
			7: `<li><a href="/animals/">All Animals</a></li>`,
		}

		res, err := goquery.NewParser(nil).Parse(listingItem(), listingHTML(50, extras))

		require.NoError(t, err)
		require.Len(t, res.Next, 10)
		assert.NotContains(t, names(res.Next), "Birds")
		assert.NotContains(t, names(res.Next), "Mammals")
		assert.NotContains(t, names(res.Next), "All Animals")
		assert.Equal(t, "Animal 9", res.Next[9].Name)
	})

	t.Run("ignores listing, external and non-animal links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><ul>
<li><a href="/animals/animals-that-start-with-b/">B</a></li>
<li><a href="https://other.example/animals/lion/">Lion</a></li>
<li><a href="/blog/aardvark-facts/">Blog</a></li>
<li><a href="mailto:info@a-z-animals.com">Mail</a></li>
<li><a href="/animals/aardvark/">Aardvark</a></li>
<li><a href="/animals/aardvark/#diet">Aardvark diet</a></li>
</ul><a href="/animals/aardwolf/">Aardwolf outside list</a></body></html>`

		res, err := goquery.NewParser(nil).Parse(listingItem(), html)

		require.NoError(t, err)
		assert.Equal(t, []string{"Aardvark"}, names(res.Next))
	})

	t.Run("takes every link when the cap is disabled", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewParser(nil)
		p.PerLetter = 0

		res, err := p.Parse(listingItem(), listingHTML(50, nil))

		require.NoError(t, err)
		assert.Len(t, res.Next, 50)
	})
}

const detailHTML = `<html><head><meta name="description" content="Meta text."></head><body>
<h1>Aardvark Facts</h1>
<div id="single-animal-text">
<p>The aardvark is <strong>nocturnal</strong>.</p>
<p>Second.</p>
<p>Third.</p>
</div>
<dl class="row animal-facts">
<dt>Kingdom:</dt><dd>Animalia</dd>
<dt>Scientific Name</dt><dd> Orycteropus   afer </dd>
<dt></dt><dd>orphan</dd>
</dl>
<dl class="row" title="Aardvark Facts">
<dt>Diet:</dt><dd>Insectivore</dd>
<dt>Habitat</dt><dd>Savannah and grassland</dd>
<dt>Biggest Threat</dt><dd>Habitat loss</dd>
<dt>Conservation Status</dt><dd>Least Concern</dd>
<dt>Lifespan</dt><dd></dd>
</dl>
<a href="/animals/location/">By Location</a>
<a href="/animals/location/africa/">Africa</a>
<a href="/animals/location/">Location</a>
<a href="/animals/location/africa/">Africa</a>
<h2>Aardvark Key Facts</h2>
<p>Intro to the list.</p>
<ul><li>Eats ants</li><li> Digs   burrows </li></ul>
</body></html>`

func TestParser_Parse_Detail(t *testing.T) {
	t.Parallel()

	t.Run("extracts the taxonomy and facts schema", func(t *testing.T) {
		t.Parallel()

		res, err := goquery.NewParser(nil).Parse(detailItem("Aardvark"), detailHTML)

		require.NoError(t, err)
		assert.Empty(t, res.Next)
		a := res.Animal
		require.NotNil(t, a)

		assert.Equal(t, "Aardvark", a.Name)
		assert.Equal(t, detailURL, a.URL)
		assert.Equal(t, listingURL, a.SourcePage)
		assert.Equal(t, map[string]string{
			"Kingdom":         "Animalia",
			"Scientific Name": "Orycteropus afer",
		}, a.Classification)
		assert.Equal(t, map[string]string{
			"Diet":                "Insectivore",
			"Habitat":             "Savannah and grassland",
			"Biggest Threat":      "Habitat loss",
			"Conservation Status": "Least Concern",
		}, a.Facts)
		assert.Equal(t, "Orycteropus afer", a.ScientificName)
		assert.Equal(t, "Least Concern", a.ConservationStatus)
		assert.Equal(t, []string{"Africa"}, a.Locations)
		assert.Equal(t, []string{"Eats ants", "Digs burrows"}, a.KeyFacts)
		assert.Equal(t, "The aardvark is nocturnal.\n\nSecond.", a.Description)

		// Derived fields are left to the enrichment passes.
		assert.Empty(t, a.Habitat)
		assert.Empty(t, a.Diet)
		assert.Nil(t, a.HabitatTags)
		assert.Nil(t, a.DietTags)
	})

	t.Run("converts intro paragraphs with the converter", func(t *testing.T) {
		t.Parallel()

		var got string
		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				got = html
				return "The aardvark is **nocturnal**.", nil
			},
		}

		res, err := goquery.NewParser(conv).Parse(detailItem("Aardvark"), detailHTML)

		require.NoError(t, err)
		assert.Equal(t, "The aardvark is **nocturnal**.", res.Animal.Description)
		assert.Contains(t, got, "<p>The aardvark is <strong>nocturnal</strong>.</p>")
		assert.Contains(t, got, "<p>Second.</p>")
		assert.NotContains(t, got, "Third.")
	})

	t.Run("falls back to the meta description", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="description" content=" Meta text. "></head><body><h1>Aardvark</h1></body></html>`

		res, err := goquery.NewParser(nil).Parse(detailItem("Aardvark"), html)

		require.NoError(t, err)
		assert.Equal(t, "Meta text.", res.Animal.Description)
	})

	t.Run("finds a conservation status outside the fact boxes", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><dl><dt>Conservation Status:</dt><dd>Vulnerable</dd></dl></body></html>`

		res, err := goquery.NewParser(nil).Parse(detailItem("Aardvark"), html)

		require.NoError(t, err)
		assert.Equal(t, "Vulnerable", res.Animal.ConservationStatus)
	})

	t.Run("degrades missing fields to empty values", func(t *testing.T) {
		t.Parallel()

		res, err := goquery.NewParser(nil).Parse(detailItem(""), `<html><body><h1> Mystery  Beast </h1></body></html>`)

		require.NoError(t, err)
		a := res.Animal
		assert.Equal(t, "Mystery Beast", a.Name)
		assert.Nil(t, a.Classification)
		assert.Nil(t, a.Facts)
		assert.NotNil(t, a.Locations)
		assert.Empty(t, a.Locations)
		assert.Empty(t, a.KeyFacts)
		assert.Empty(t, a.ScientificName)
		assert.Empty(t, a.Description)
	})

	t.Run("fails when no name can be found", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewParser(nil).Parse(detailItem(""), `<html><body><p>Nothing</p></body></html>`)

		require.Error(t, err)
		assert.Equal(t, animals.EINVALID, animals.ErrorCode(err))
	})
}

func TestParser_Parse_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := goquery.NewParser(nil).Parse(animals.WorkItem{URL: indexURL, Kind: animals.PageKind(42)}, "<html></html>")

	assert.Equal(t, animals.EINVALID, animals.ErrorCode(err))
}
