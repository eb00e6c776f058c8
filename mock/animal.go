package mock

import (
	"context"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

var _ animals.AnimalService = (*AnimalService)(nil)

// AnimalService is a mock implementation of animals.AnimalService.
type AnimalService struct {
	UpsertFn         func(ctx context.Context, a *animals.Animal) (animals.UpsertResult, error)
	FindAnimalByIDFn func(ctx context.Context, id string) (*animals.Animal, error)
	FindAnimalsFn    func(ctx context.Context, filter animals.AnimalFilter) ([]*animals.Animal, error)
	CountAnimalsFn   func(ctx context.Context, filter animals.AnimalFilter) (int, error)
	DistinctFn       func(ctx context.Context, field animals.Field) ([]string, error)
	UpdateAnimalFn   func(ctx context.Context, id string, upd animals.AnimalUpdate) (*animals.Animal, error)
	DeleteAllFn      func(ctx context.Context) (int, error)
	ReplaceAllFn     func(ctx context.Context, list []*animals.Animal) (int, error)
}

func (s *AnimalService) Upsert(ctx context.Context, a *animals.Animal) (animals.UpsertResult, error) {
	return s.UpsertFn(ctx, a)
}

func (s *AnimalService) FindAnimalByID(ctx context.Context, id string) (*animals.Animal, error) {
	return s.FindAnimalByIDFn(ctx, id)
}

func (s *AnimalService) FindAnimals(ctx context.Context, filter animals.AnimalFilter) ([]*animals.Animal, error) {
	return s.FindAnimalsFn(ctx, filter)
}

func (s *AnimalService) CountAnimals(ctx context.Context, filter animals.AnimalFilter) (int, error) {
	return s.CountAnimalsFn(ctx, filter)
}

func (s *AnimalService) Distinct(ctx context.Context, field animals.Field) ([]string, error) {
	return s.DistinctFn(ctx, field)
}

func (s *AnimalService) UpdateAnimal(ctx context.Context, id string, upd animals.AnimalUpdate) (*animals.Animal, error) {
	return s.UpdateAnimalFn(ctx, id, upd)
}

func (s *AnimalService) DeleteAll(ctx context.Context) (int, error) {
	return s.DeleteAllFn(ctx)
}

func (s *AnimalService) ReplaceAll(ctx context.Context, list []*animals.Animal) (int, error) {
	return s.ReplaceAllFn(ctx, list)
}
