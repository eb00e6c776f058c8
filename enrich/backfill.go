// Package enrich fills derived animal fields in place: backfill copies
// values from the facts box, tagging maps diet and habitat text to tags.
package enrich

import (
	"slices"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Facts labels the backfill reads.
const (
	FactHabitat       = "Habitat"
	FactDiet          = "Diet"
	FactBiggestThreat = "Biggest Threat"
)

// Backfill returns the update that copies facts into the empty top-level
// habitat, diet and conservation status of a. Non-empty fields are never
// overwritten, so applying the result twice changes nothing.
//
// The conservation status is taken from "Biggest Threat", the closest label
// the facts box carries.
func Backfill(a *animals.Animal) animals.AnimalUpdate {
	var upd animals.AnimalUpdate
	if v := a.Facts[FactHabitat]; a.Habitat == "" && v != "" {
		upd.Habitat = &v
	}
	if v := a.Facts[FactDiet]; a.Diet == "" && v != "" {
		upd.Diet = &v
	}
	if v := a.Facts[FactBiggestThreat]; a.ConservationStatus == "" && v != "" {
		upd.ConservationStatus = &v
	}
	return upd
}

// Tagger derives diet and habitat tags from free text.
type Tagger struct {
	Keywords *animals.Keywords
}

// NewTagger returns a Tagger using keywords, or the built-in maps when nil.
func NewTagger(keywords *animals.Keywords) *Tagger {
	if keywords == nil {
		keywords = animals.DefaultKeywords()
	}
	return &Tagger{Keywords: keywords}
}

// Tag returns the update that sets the diet and habitat tags of a to the
// first matching category of each map. Text with no match leaves the tags
// alone, as do tags already equal to the result.
func (t *Tagger) Tag(a *animals.Animal) animals.AnimalUpdate {
	var upd animals.AnimalUpdate
	if tags, ok := firstTag(t.Keywords.Diet, a.Diet); ok && !slices.Equal(tags, a.DietTags) {
		upd.DietTags = tags
	}
	if tags, ok := firstTag(t.Keywords.Habitat, a.Habitat); ok && !slices.Equal(tags, a.HabitatTags) {
		upd.HabitatTags = tags
	}
	return upd
}

// firstTag returns the first match as a one-element tag list.
func firstTag(m animals.KeywordMap, text string) ([]string, bool) {
	name, ok := m.FirstMatch(text)
	if !ok {
		return nil, false
	}
	return []string{name}, true
}
