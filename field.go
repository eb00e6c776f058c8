package animals

import "strings"

// Field names an Animal field as it appears in the interchange format.
type Field string

// Animal fields in interchange order.
const (
	FieldName               Field = "name"
	FieldScientificName     Field = "scientific_name"
	FieldDescription        Field = "description"
	FieldClassification     Field = "classification"
	FieldFacts              Field = "facts"
	FieldHabitat            Field = "habitat"
	FieldDiet               Field = "diet"
	FieldConservationStatus Field = "conservation_status"
	FieldHabitatTags        Field = "habitat_tags"
	FieldDietTags           Field = "diet_tags"
	FieldLocations          Field = "locations"
	FieldKeyFacts           Field = "key_facts"
	FieldURL                Field = "url"
	FieldSourcePage         Field = "source_page"
)

// Fields returns every Animal field in interchange order.
func Fields() []Field {
	return []Field{
		FieldName, FieldScientificName, FieldDescription, FieldClassification,
		FieldFacts, FieldHabitat, FieldDiet, FieldConservationStatus,
		FieldHabitatTags, FieldDietTags, FieldLocations, FieldKeyFacts,
		FieldURL, FieldSourcePage,
	}
}

// DefaultExportFields returns the columns exported when none are chosen.
func DefaultExportFields() []Field {
	return []Field{FieldName, FieldScientificName, FieldHabitat, FieldDiet, FieldConservationStatus}
}

// ParseField returns the Field named s.
// Returns EINVALID if s is not an Animal field.
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	for _, f := range Fields() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", Errorf(EINVALID, "unknown field %q", s)
}

// ParseFields parses a list of field names. Values may also be
// comma-separated; blank names are skipped. No names means
// DefaultExportFields. Returns EINVALID for an unknown field.
func ParseFields(values []string) ([]Field, error) {
	var fields []Field
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			f, err := ParseField(name)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return DefaultExportFields(), nil
	}
	return fields, nil
}

// IsText reports whether the field holds plain text rather than a list or map.
func (f Field) IsText() bool {
	switch f {
	case FieldClassification, FieldFacts, FieldHabitatTags, FieldDietTags, FieldLocations, FieldKeyFacts:
		return false
	}
	return true
}

// Value returns the value of the field in a: a string, a []string or a
// map[string]string depending on the field.
func (f Field) Value(a *Animal) any {
	switch f {
	case FieldName:
		return a.Name
	case FieldScientificName:
		return a.ScientificName
	case FieldDescription:
		return a.Description
	case FieldClassification:
		return a.Classification
	case FieldFacts:
		return a.Facts
	case FieldHabitat:
		return a.Habitat
	case FieldDiet:
		return a.Diet
	case FieldConservationStatus:
		return a.ConservationStatus
	case FieldHabitatTags:
		return a.HabitatTags
	case FieldDietTags:
		return a.DietTags
	case FieldLocations:
		return a.Locations
	case FieldKeyFacts:
		return a.KeyFacts
	case FieldURL:
		return a.URL
	case FieldSourcePage:
		return a.SourcePage
	}
	return nil
}
