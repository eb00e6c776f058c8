package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"github.com/wilfried-lafaye/scraping-animals-app/mock"
	animalslog "github.com/wilfried-lafaye/scraping-animals-app/slog"
)

func TestLoggingAnimalService_Upsert(t *testing.T) {
	t.Parallel()

	tiger := &animals.Animal{Name: "Tiger", URL: "https://a-z-animals.com/animals/tiger/"}

	t.Run("logs the upsert result at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.AnimalService{
			UpsertFn: func(ctx context.Context, a *animals.Animal) (animals.UpsertResult, error) {
				return animals.UpsertUpdated, nil
			},
		}

		res, err := animalslog.NewLoggingAnimalService(inner, debugLogger(&buf)).Upsert(context.Background(), tiger)

		require.NoError(t, err)
		assert.Equal(t, animals.UpsertUpdated, res)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "msg=upsert")
		assert.Contains(t, output, "name=Tiger")
		assert.Contains(t, output, "result=updated")
	})

	t.Run("logs failures as warnings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.AnimalService{
			UpsertFn: func(ctx context.Context, a *animals.Animal) (animals.UpsertResult, error) {
				return 0, errors.New("database is locked")
			},
		}

		_, err := animalslog.NewLoggingAnimalService(inner, slog.New(slog.NewTextHandler(&buf, nil))).Upsert(context.Background(), tiger)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, `err="database is locked"`)
	})
}

func TestLoggingAnimalService_Delegates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var calls []string
	inner := &mock.AnimalService{
		FindAnimalByIDFn: func(ctx context.Context, id string) (*animals.Animal, error) {
			calls = append(calls, "find:"+id)
			return &animals.Animal{ID: id}, nil
		},
		FindAnimalsFn: func(ctx context.Context, filter animals.AnimalFilter) ([]*animals.Animal, error) {
			calls = append(calls, "findall")
			return []*animals.Animal{{}, {}}, nil
		},
		CountAnimalsFn: func(ctx context.Context, filter animals.AnimalFilter) (int, error) {
			calls = append(calls, "count")
			return 7, nil
		},
		DistinctFn: func(ctx context.Context, field animals.Field) ([]string, error) {
			calls = append(calls, "distinct:"+string(field))
			return []string{"Forest"}, nil
		},
		UpdateAnimalFn: func(ctx context.Context, id string, upd animals.AnimalUpdate) (*animals.Animal, error) {
			calls = append(calls, "update:"+id)
			return &animals.Animal{ID: id}, nil
		},
		DeleteAllFn: func(ctx context.Context) (int, error) {
			calls = append(calls, "deleteall")
			return 3, nil
		},
		ReplaceAllFn: func(ctx context.Context, list []*animals.Animal) (int, error) {
			calls = append(calls, "replaceall")
			return len(list), nil
		},
	}
	svc := animalslog.NewLoggingAnimalService(inner, debugLogger(&buf))
	ctx := context.Background()

	a, err := svc.FindAnimalByID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", a.ID)

	list, err := svc.FindAnimals(ctx, animals.AnimalFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	n, err := svc.CountAnimals(ctx, animals.AnimalFilter{})
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	values, err := svc.Distinct(ctx, animals.FieldHabitat)
	require.NoError(t, err)
	assert.Equal(t, []string{"Forest"}, values)

	_, err = svc.UpdateAnimal(ctx, "abc", animals.AnimalUpdate{})
	require.NoError(t, err)

	n, err = svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = svc.ReplaceAll(ctx, []*animals.Animal{{}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, []string{
		"find:abc", "findall", "count", "distinct:habitat", "update:abc", "deleteall", "replaceall",
	}, calls)
	output := buf.String()
	assert.Contains(t, output, "msg=distinct field=habitat n=1")
	assert.Contains(t, output, "msg=\"replace all\" records=1 n=1")
}
