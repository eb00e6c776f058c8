package chi

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Query holds the dashboard filters read from a request.
type Query struct {
	Q        string   `json:"q,omitempty"`
	Habitats []string `json:"habitat,omitempty"`
	Diets    []string `json:"diet,omitempty"`
	Statuses []string `json:"status,omitempty"`
}

// ParseQuery reads the filters of r. Multi-select filters are repeated
// parameters; blank values are dropped.
func ParseQuery(r *http.Request) Query {
	v := r.URL.Query()
	return Query{
		Q:        strings.TrimSpace(v.Get("q")),
		Habitats: nonBlank(v["habitat"]),
		Diets:    nonBlank(v["diet"]),
		Statuses: nonBlank(v["status"]),
	}
}

// Filter returns the store filter for the query, capped at MaxResults.
func (q Query) Filter() animals.AnimalFilter {
	return animals.AnimalFilter{
		NameContains: q.Q,
		Habitats:     q.Habitats,
		Diets:        q.Diets,
		Statuses:     q.Statuses,
		Limit:        MaxResults,
	}
}

// Values encodes the query back into URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	for _, s := range q.Habitats {
		v.Add("habitat", s)
	}
	for _, s := range q.Diets {
		v.Add("diet", s)
	}
	for _, s := range q.Statuses {
		v.Add("status", s)
	}
	return v
}

// Count is one bar of a distribution chart.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats holds the dashboard metrics and charts.
//
// Total, Habitats and Diets describe the whole collection regardless of the
// filters. Results, Matches and the charts describe the filtered view.
type Stats struct {
	Total    int `json:"total"`
	Habitats int `json:"distinct_habitats"`
	Diets    int `json:"distinct_diets"`
	Results  int `json:"results"`
	Matches  int `json:"matches"`

	DietTags    []Count `json:"diet_tags"`
	HabitatTags []Count `json:"habitat_tags"`
	Statuses    []Count `json:"statuses"`
}

// Options holds the values offered by the multi-select filters.
type Options struct {
	Habitats []string `json:"habitats"`
	Diets    []string `json:"diets"`
	Statuses []string `json:"statuses"`
}

// topHabitats is the number of bars in the habitat chart.
const topHabitats = 10

// view is everything the dashboard shows for one query.
type view struct {
	Query   Query
	Options Options
	Stats   Stats
	Animals []*animals.Animal
}

// Capped reports whether the filters match more animals than are shown.
func (v *view) Capped() bool {
	return v.Stats.Matches > v.Stats.Results
}

// loadView queries the store for q. Any store error fails the whole view.
func (s *Server) loadView(ctx context.Context, q Query) (*view, error) {
	v := &view{Query: q}

	var err error
	if v.Options.Habitats, err = s.Animals.Distinct(ctx, animals.FieldHabitat); err != nil {
		return nil, err
	}
	if v.Options.Diets, err = s.Animals.Distinct(ctx, animals.FieldDiet); err != nil {
		return nil, err
	}
	if v.Options.Statuses, err = s.Animals.Distinct(ctx, animals.FieldConservationStatus); err != nil {
		return nil, err
	}
	if v.Stats.Total, err = s.Animals.CountAnimals(ctx, animals.AnimalFilter{}); err != nil {
		return nil, err
	}

	filter := q.Filter()
	if v.Animals, err = s.Animals.FindAnimals(ctx, filter); err != nil {
		return nil, err
	}
	if v.Stats.Matches, err = s.Animals.CountAnimals(ctx, filter); err != nil {
		return nil, err
	}

	v.Stats.Habitats = len(v.Options.Habitats)
	v.Stats.Diets = len(v.Options.Diets)
	v.Stats.Results = len(v.Animals)
	v.Stats.DietTags = countTags(v.Animals, func(a *animals.Animal) []string { return a.DietTags }, 0)
	v.Stats.HabitatTags = countTags(v.Animals, func(a *animals.Animal) []string { return a.HabitatTags }, topHabitats)
	v.Stats.Statuses = countTags(v.Animals, func(a *animals.Animal) []string {
		if a.ConservationStatus == "" {
			return nil
		}
		return []string{a.ConservationStatus}
	}, 0)
	return v, nil
}

// countTags counts the non-empty labels returned by fn across list, sorted
// by descending count then label. A positive limit keeps the top entries.
func countTags(list []*animals.Animal, fn func(*animals.Animal) []string, limit int) []Count {
	counts := make(map[string]int)
	for _, a := range list {
		for _, label := range fn(a) {
			if label != "" {
				counts[label]++
			}
		}
	}

	out := make([]Count, 0, len(counts))
	for label, n := range counts {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ExportURL returns the CSV export link for the view's filters.
func (v *view) ExportURL() string {
	if enc := v.Query.Values().Encode(); enc != "" {
		return "/export.csv?" + enc
	}
	return "/export.csv"
}

// column is one choice of the CSV export form.
type column struct {
	Name    string
	Checked bool
}

// Columns returns every exportable field in export order, with the default
// columns checked.
func (v *view) Columns() []column {
	defaults := animals.DefaultExportFields()
	out := make([]column, 0, len(animals.Fields()))
	for _, f := range animals.Fields() {
		out = append(out, column{Name: string(f), Checked: slices.Contains(defaults, f)})
	}
	return out
}
