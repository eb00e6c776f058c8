package slog

import (
	"context"
	"log/slog"
	"time"

	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Ensure LoggingAnimalService implements animals.AnimalService.
var _ animals.AnimalService = (*LoggingAnimalService)(nil)

// LoggingAnimalService wraps an AnimalService with logging of its writes.
// Reads are logged at debug level.
type LoggingAnimalService struct {
	next   animals.AnimalService
	logger *slog.Logger
}

// NewLoggingAnimalService creates a new LoggingAnimalService.
func NewLoggingAnimalService(next animals.AnimalService, logger *slog.Logger) *LoggingAnimalService {
	return &LoggingAnimalService{next: next, logger: logger}
}

func (s *LoggingAnimalService) Upsert(ctx context.Context, a *animals.Animal) (res animals.UpsertResult, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "upsert",
			"name", a.Name,
			"url", a.URL,
			"result", res,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Upsert(ctx, a)
}

func (s *LoggingAnimalService) FindAnimalByID(ctx context.Context, id string) (a *animals.Animal, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find animal",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindAnimalByID(ctx, id)
}

func (s *LoggingAnimalService) FindAnimals(ctx context.Context, filter animals.AnimalFilter) (list []*animals.Animal, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find animals",
			"filter", filter,
			"n", len(list),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindAnimals(ctx, filter)
}

func (s *LoggingAnimalService) CountAnimals(ctx context.Context, filter animals.AnimalFilter) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("count animals",
			"filter", filter,
			"n", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CountAnimals(ctx, filter)
}

func (s *LoggingAnimalService) Distinct(ctx context.Context, field animals.Field) (values []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("distinct",
			"field", field,
			"n", len(values),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Distinct(ctx, field)
}

func (s *LoggingAnimalService) UpdateAnimal(ctx context.Context, id string, upd animals.AnimalUpdate) (a *animals.Animal, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("update animal",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateAnimal(ctx, id, upd)
}

func (s *LoggingAnimalService) DeleteAll(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete all",
			"n", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteAll(ctx)
}

func (s *LoggingAnimalService) ReplaceAll(ctx context.Context, list []*animals.Animal) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("replace all",
			"records", len(list),
			"n", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReplaceAll(ctx, list)
}
