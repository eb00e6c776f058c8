package enrich

import (
	"context"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Pass computes the update for one animal. A zero update means nothing to do.
type Pass func(a *animals.Animal) animals.AnimalUpdate

// LogFunc is the signature for a logging function.
type LogFunc func(msg string, args ...any)

// Result holds the outcome of a pass over the collection.
type Result struct {
	Scanned int
	Updated int
	Failed  int
}

// Enricher applies passes to every stored animal.
type Enricher struct {
	Animals animals.AnimalService

	// Logger, if set, is called for each animal that fails to update.
	Logger LogFunc
}

// Run applies pass to every animal in the collection. An animal that fails
// to update is logged and counted; the run continues with the next one.
// Only a failure to list the collection or a canceled ctx stops the run.
func (e *Enricher) Run(ctx context.Context, pass Pass) (*Result, error) {
	list, err := e.Animals.FindAnimals(ctx, animals.AnimalFilter{})
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, a := range list {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		upd := pass(a)
		if upd.IsZero() {
			continue
		}

		if _, err := e.Animals.UpdateAnimal(ctx, a.ID, upd); err != nil {
			result.Failed++
			if e.Logger != nil {
				e.Logger("update failed", "name", a.Name, "url", a.URL, "err", err)
			}
			continue
		}
		result.Updated++
	}
	return result, nil
}

// Backfill runs the backfill pass over the collection.
func (e *Enricher) Backfill(ctx context.Context) (*Result, error) {
	return e.Run(ctx, Backfill)
}

// Tag runs the tagging pass of t over the collection.
func (e *Enricher) Tag(ctx context.Context, t *Tagger) (*Result, error) {
	return e.Run(ctx, t.Tag)
}
