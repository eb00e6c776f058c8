package chi

import (
	"html/template"
	"slices"
	"strings"
)

var funcs = template.FuncMap{
	"selected": func(values []string, v string) bool {
		return slices.Contains(values, v)
	},
	"join": strings.Join,
	// pct returns n as a whole percentage of max, for chart bar widths.
	"pct": func(n, max int) int {
		if max <= 0 {
			return 0
		}
		return n * 100 / max
	},
	"chartData": func(title string, counts []Count) chart {
		return chart{Title: title, Counts: counts}
	},
	"maxCount": func(counts []Count) int {
		m := 0
		for _, c := range counts {
			if c.Count > m {
				m = c.Count
			}
		}
		return m
	},
}

// chart is the data of one bar chart.
type chart struct {
	Title  string
	Counts []Count
}
