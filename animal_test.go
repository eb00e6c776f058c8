package animals_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

func TestAnimal_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts name and url", func(t *testing.T) {
		t.Parallel()

		a := &animals.Animal{Name: "Tiger", URL: "https://example.com/animals/tiger/"}

		assert.NoError(t, a.Validate())
	})

	t.Run("rejects blank name", func(t *testing.T) {
		t.Parallel()

		a := &animals.Animal{Name: "  ", URL: "https://example.com/animals/tiger/"}

		err := a.Validate()
		require.Error(t, err)
		assert.Equal(t, animals.EINVALID, animals.ErrorCode(err))
	})

	t.Run("rejects missing url", func(t *testing.T) {
		t.Parallel()

		a := &animals.Animal{Name: "Tiger"}

		err := a.Validate()
		require.Error(t, err)
		assert.Equal(t, animals.EINVALID, animals.ErrorCode(err))
	})
}

func TestAnimal_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("accepts null optional fields", func(t *testing.T) {
		t.Parallel()

		var a animals.Animal
		err := json.Unmarshal([]byte(`{"name":"Tiger","url":"u1","habitat":null,"facts":null,"locations":null}`), &a)

		require.NoError(t, err)
		assert.Equal(t, "Tiger", a.Name)
		assert.Empty(t, a.Habitat)
		assert.Nil(t, a.Facts)
	})

	t.Run("accepts legacy animal_name key", func(t *testing.T) {
		t.Parallel()

		var a animals.Animal
		err := json.Unmarshal([]byte(`{"animal_name":"Garden Eel","url":"u2"}`), &a)

		require.NoError(t, err)
		assert.Equal(t, "Garden Eel", a.Name)
	})

	t.Run("prefers name over legacy key", func(t *testing.T) {
		t.Parallel()

		var a animals.Animal
		err := json.Unmarshal([]byte(`{"name":"Lion","animal_name":"Old Lion","url":"u3"}`), &a)

		require.NoError(t, err)
		assert.Equal(t, "Lion", a.Name)
	})

	t.Run("does not emit store fields", func(t *testing.T) {
		t.Parallel()

		a := animals.Animal{ID: "id-1", ContentHash: "abc", Name: "Tiger", URL: "u1"}
		data, err := json.Marshal(&a)

		require.NoError(t, err)
		assert.NotContains(t, string(data), "id-1")
		assert.NotContains(t, string(data), "abc")
	})
}

func TestAnimal_HabitatLabel(t *testing.T) {
	t.Parallel()

	t.Run("uses capitalized first tag", func(t *testing.T) {
		t.Parallel()

		a := &animals.Animal{Habitat: "Dense tropical forests", HabitatTags: []string{"forest"}}

		assert.Equal(t, "Forest", a.HabitatLabel())
	})

	t.Run("truncates long text without tags", func(t *testing.T) {
		t.Parallel()

		a := &animals.Animal{Habitat: strings.Repeat("x", 60)}

		assert.Equal(t, strings.Repeat("x", 50)+"...", a.HabitatLabel())
	})

	t.Run("returns N/A when absent", func(t *testing.T) {
		t.Parallel()

		a := &animals.Animal{}

		assert.Equal(t, "N/A", a.HabitatLabel())
		assert.Equal(t, "N/A", a.DietLabel())
	})
}

func TestParseField(t *testing.T) {
	t.Parallel()

	t.Run("parses every field", func(t *testing.T) {
		t.Parallel()

		for _, f := range animals.Fields() {
			got, err := animals.ParseField(string(f))
			require.NoError(t, err)
			assert.Equal(t, f, got)
		}
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := animals.ParseField("wingspan")

		require.Error(t, err)
		assert.Equal(t, animals.EINVALID, animals.ErrorCode(err))
	})

	t.Run("classifies text fields", func(t *testing.T) {
		t.Parallel()

		assert.True(t, animals.FieldHabitat.IsText())
		assert.False(t, animals.FieldFacts.IsText())
		assert.False(t, animals.FieldDietTags.IsText())
	})
}

func TestField_Value(t *testing.T) {
	t.Parallel()

	a := &animals.Animal{
		Name:      "Tiger",
		Facts:     map[string]string{"Diet": "Carnivore"},
		DietTags:  []string{"carnivore"},
		URL:       "https://example.com/animals/tiger/",
		Locations: []string{"Asia"},
	}

	assert.Equal(t, "Tiger", animals.FieldName.Value(a))
	assert.Equal(t, map[string]string{"Diet": "Carnivore"}, animals.FieldFacts.Value(a))
	assert.Equal(t, []string{"carnivore"}, animals.FieldDietTags.Value(a))
	assert.Equal(t, []string{"Asia"}, animals.FieldLocations.Value(a))
	assert.Equal(t, "", animals.FieldHabitat.Value(a))
	assert.Nil(t, animals.Field("bogus").Value(a))
}

func TestParseFields(t *testing.T) {
	t.Parallel()

	t.Run("accepts repeated and comma-separated values", func(t *testing.T) {
		t.Parallel()

		got, err := animals.ParseFields([]string{"name, diet", "facts", ""})

		require.NoError(t, err)
		assert.Equal(t, []animals.Field{animals.FieldName, animals.FieldDiet, animals.FieldFacts}, got)
	})

	t.Run("defaults when empty", func(t *testing.T) {
		t.Parallel()

		got, err := animals.ParseFields(nil)

		require.NoError(t, err)
		assert.Equal(t, animals.DefaultExportFields(), got)
	})

	t.Run("rejects an unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := animals.ParseFields([]string{"name,wingspan"})

		assert.Equal(t, animals.EINVALID, animals.ErrorCode(err))
	})
}
