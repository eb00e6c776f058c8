package animals

import "strings"

// Category is a tag and the substrings that select it.
type Category struct {
	Name     string   `json:"name" yaml:"name"`
	Patterns []string `json:"patterns" yaml:"patterns"`
}

// KeywordMap is an ordered list of categories. Order decides which category
// wins when several match.
type KeywordMap []Category

// Match returns every category whose patterns occur in text, in map order.
// Matching is a case-insensitive substring test.
func (m KeywordMap) Match(text string) []string {
	text = strings.ToLower(text)
	if text == "" {
		return nil
	}
	var found []string
	for _, c := range m {
		for _, p := range c.Patterns {
			if p != "" && strings.Contains(text, strings.ToLower(p)) {
				found = append(found, c.Name)
				break
			}
		}
	}
	return found
}

// FirstMatch returns the first category in map order that matches text.
func (m KeywordMap) FirstMatch(text string) (string, bool) {
	text = strings.ToLower(text)
	if text == "" {
		return "", false
	}
	for _, c := range m {
		for _, p := range c.Patterns {
			if p != "" && strings.Contains(text, strings.ToLower(p)) {
				return c.Name, true
			}
		}
	}
	return "", false
}

// Validate returns an error if a category is unnamed, duplicated or has no patterns.
func (m KeywordMap) Validate() error {
	seen := make(map[string]bool, len(m))
	for i, c := range m {
		if c.Name == "" {
			return Errorf(EINVALID, "keyword category %d has no name", i)
		}
		if seen[c.Name] {
			return Errorf(EINVALID, "keyword category %q defined twice", c.Name)
		}
		seen[c.Name] = true
		if len(c.Patterns) == 0 {
			return Errorf(EINVALID, "keyword category %q has no patterns", c.Name)
		}
	}
	return nil
}

// Keywords holds the keyword maps used to tag diet and habitat text.
type Keywords struct {
	Diet    KeywordMap `json:"diet" yaml:"diet"`
	Habitat KeywordMap `json:"habitat" yaml:"habitat"`
}

// Validate returns an error if either map is invalid.
func (k *Keywords) Validate() error {
	if err := k.Diet.Validate(); err != nil {
		return err
	}
	return k.Habitat.Validate()
}

// DefaultKeywords returns a fresh copy of the built-in keyword maps.
//
// Note "fish" selects both carnivore and piscivore; carnivore is listed first
// and therefore wins.
func DefaultKeywords() *Keywords {
	return &Keywords{
		Diet: KeywordMap{
			{Name: "carnivore", Patterns: []string{"carnivorous", "carniv", "meat", "prey", "hunt", "fish", "bird"}},
			{Name: "herbivore", Patterns: []string{"herbivorous", "herb", "grass", "plant", "leaf", "leaves", "vegetable", "seed"}},
			{Name: "omnivore", Patterns: []string{"omnivorous", "omniv", "both plant and meat", "eats both"}},
			{Name: "insectivore", Patterns: []string{"insectivorous", "insect", "arthropod", "invertebrat"}},
			{Name: "piscivore", Patterns: []string{"piscivorous", "pisciv", "fish"}},
		},
		Habitat: KeywordMap{
			{Name: "forest", Patterns: []string{"forest", "woodland", "jungle", "rainforest", "tree", "wood"}},
			{Name: "grassland", Patterns: []string{"grassland", "prairie", "savanna", "grass", "steppe", "plain"}},
			{Name: "desert", Patterns: []string{"desert", "arid", "sand", "dry"}},
			{Name: "ocean", Patterns: []string{"ocean", "sea", "marine", "aquatic", "water", "reef", "coral"}},
			{Name: "mountain", Patterns: []string{"mountain", "alpine", "highland", "peak"}},
			{Name: "river", Patterns: []string{"river", "freshwater", "stream", "creek", "pond"}},
			{Name: "cave", Patterns: []string{"cave", "underground", "burrow"}},
		},
	}
}
