package mock

import (
	"context"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

var _ animals.AnimalWriter = (*AnimalWriter)(nil)

// AnimalWriter is a mock implementation of animals.AnimalWriter.
type AnimalWriter struct {
	UpsertFn func(ctx context.Context, a *animals.Animal) (animals.UpsertResult, error)
}

func (w *AnimalWriter) Upsert(ctx context.Context, a *animals.Animal) (animals.UpsertResult, error) {
	return w.UpsertFn(ctx, a)
}
