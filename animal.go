package animals

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

// Animal is one scraped animal profile page.
//
// The pair (Name, URL) identifies an animal in storage. Empty strings and nil
// collections mean the field is absent.
type Animal struct {
	ID          string    `json:"-"`
	ContentHash string    `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	Name               string            `json:"name"`
	ScientificName     string            `json:"scientific_name"`
	Description        string            `json:"description"`
	Classification     map[string]string `json:"classification"`
	Facts              map[string]string `json:"facts"`
	Habitat            string            `json:"habitat"`
	Diet               string            `json:"diet"`
	ConservationStatus string            `json:"conservation_status"`
	HabitatTags        []string          `json:"habitat_tags"`
	DietTags           []string          `json:"diet_tags"`
	Locations          []string          `json:"locations"`
	KeyFacts           []string          `json:"key_facts"`
	URL                string            `json:"url"`
	SourcePage         string            `json:"source_page"`
}

// Validate returns an error if the animal contains invalid fields.
func (a *Animal) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return Errorf(EINVALID, "animal name required")
	}
	if a.URL == "" {
		return Errorf(EINVALID, "animal url required for %q", a.Name)
	}
	return nil
}

// Key returns the storage key of the animal.
func (a *Animal) Key() Key {
	return Key{Name: a.Name, URL: a.URL}
}

// UnmarshalJSON decodes an animal, accepting the legacy "animal_name" key
// written by older exports in place of "name".
func (a *Animal) UnmarshalJSON(data []byte) error {
	type animal Animal
	aux := struct {
		*animal
		LegacyName string `json:"animal_name"`
	}{animal: (*animal)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.Name == "" {
		a.Name = aux.LegacyName
	}
	return nil
}

// labelMaxLen is the length after which free text is truncated in tables.
const labelMaxLen = 50

// HabitatLabel returns a short habitat label for tables: the capitalized
// habitat tag when there is one, otherwise the (truncated) habitat text.
func (a *Animal) HabitatLabel() string {
	return shortLabel(a.HabitatTags, a.Habitat)
}

// DietLabel returns a short diet label for tables, like HabitatLabel.
func (a *Animal) DietLabel() string {
	return shortLabel(a.DietTags, a.Diet)
}

func shortLabel(tags []string, text string) string {
	if len(tags) > 0 && tags[0] != "" {
		r, size := utf8.DecodeRuneInString(tags[0])
		return strings.ToUpper(string(r)) + tags[0][size:]
	}
	if text == "" {
		return "N/A"
	}
	if utf8.RuneCountInString(text) > labelMaxLen {
		return string([]rune(text)[:labelMaxLen]) + "..."
	}
	return text
}

// Key identifies an animal in storage.
type Key struct {
	Name string
	URL  string
}

// UpsertResult reports what an upsert did to the store.
type UpsertResult int

// UpsertResult values.
const (
	UpsertInserted UpsertResult = iota
	UpsertUpdated
	UpsertUnchanged
)

// String returns the lowercase name of the result.
func (r UpsertResult) String() string {
	switch r {
	case UpsertInserted:
		return "inserted"
	case UpsertUpdated:
		return "updated"
	case UpsertUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// AnimalWriter writes animals keyed by (name, url).
type AnimalWriter interface {
	// Upsert inserts the animal or, when an animal with the same key exists,
	// overwrites its fields with the ones carried by a.
	Upsert(ctx context.Context, a *Animal) (UpsertResult, error)
}

// AnimalService represents a service for managing stored animals.
type AnimalService interface {
	AnimalWriter

	// FindAnimalByID retrieves an animal by ID.
	// Returns ENOTFOUND if the animal does not exist.
	FindAnimalByID(ctx context.Context, id string) (*Animal, error)

	// FindAnimals retrieves animals matching the filter, sorted by name.
	FindAnimals(ctx context.Context, filter AnimalFilter) ([]*Animal, error)

	// CountAnimals returns the number of animals matching the filter.
	// Offset and Limit are ignored.
	CountAnimals(ctx context.Context, filter AnimalFilter) (int, error)

	// Distinct returns the sorted distinct non-empty values of a text field.
	// Returns EINVALID for fields that are not plain text.
	Distinct(ctx context.Context, field Field) ([]string, error)

	// UpdateAnimal updates the derived fields of an existing animal.
	// Returns ENOTFOUND if the animal does not exist.
	UpdateAnimal(ctx context.Context, id string, upd AnimalUpdate) (*Animal, error)

	// DeleteAll removes every animal and returns how many were removed.
	DeleteAll(ctx context.Context) (int, error)

	// ReplaceAll atomically replaces the collection with the given animals.
	// Nothing is modified if any animal fails to validate or store.
	ReplaceAll(ctx context.Context, animals []*Animal) (int, error)
}

// AnimalFilter represents a filter for FindAnimals and CountAnimals.
// Multi-value fields match any of their values; distinct fields are combined
// with AND.
type AnimalFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	URL  *string `json:"url"`

	// NameContains matches a case-insensitive substring of the name.
	NameContains string `json:"nameContains"`

	Habitats []string `json:"habitats"`
	Diets    []string `json:"diets"`
	Statuses []string `json:"statuses"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// AnimalUpdate represents the fields the enrichment passes may change.
// Nil fields are left untouched.
type AnimalUpdate struct {
	Habitat            *string  `json:"habitat"`
	Diet               *string  `json:"diet"`
	ConservationStatus *string  `json:"conservationStatus"`
	HabitatTags        []string `json:"habitatTags"`
	DietTags           []string `json:"dietTags"`
}

// IsZero reports whether the update changes nothing.
func (u AnimalUpdate) IsZero() bool {
	return u.Habitat == nil && u.Diet == nil && u.ConservationStatus == nil &&
		u.HabitatTags == nil && u.DietTags == nil
}
