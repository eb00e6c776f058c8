package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"github.com/wilfried-lafaye/scraping-animals-app/sqlite"
)

// setupTestDB opens an in-memory database closed at the end of the test.
func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:", "")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates the collection table on first open", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		var n int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM animals").Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, sqlite.DefaultCollection, db.Collection())
	})

	t.Run("uses the collection name as table", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:", "animals_test")
		require.NoError(t, db.Open())
		defer db.Close()

		var n int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM animals_test").Scan(&n)
		require.NoError(t, err)
	})

	t.Run("rejects collection names that are not identifiers", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:", `animals"; DROP TABLE x; --`)
		err := db.Open()

		require.Error(t, err)
		assert.Equal(t, animals.EINVALID, animals.ErrorCode(err))
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite", "")
		require.Error(t, db.Open())
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "animals_db.sqlite"), "")
		require.NoError(t, db.Open())
		defer db.Close()

		var journalMode string
		err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		assert.Equal(t, "wal", journalMode)
	})

	t.Run("keeps data across reopen", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "animals_db.sqlite")
		ctx := context.Background()

		db := sqlite.NewDB(path, "")
		require.NoError(t, db.Open())
		_, err := sqlite.NewAnimalService(db).Upsert(ctx, &animals.Animal{Name: "Aardvark", URL: "https://x/aardvark/"})
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path, "")
		require.NoError(t, db.Open())
		defer db.Close()

		n, err := sqlite.NewAnimalService(db).CountAnimals(ctx, animals.AnimalFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
