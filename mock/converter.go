package mock

import animals "github.com/wilfried-lafaye/scraping-animals-app"

var _ animals.Converter = (*Converter)(nil)

// Converter is a mock implementation of animals.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
