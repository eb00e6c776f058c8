// Package sqlite provides SQLite-based storage for animal records.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/ext/unicode"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// DefaultCollection is the table animals are stored in.
const DefaultCollection = "animals"

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DB represents a SQLite database connection. Each collection is a table of
// the database file.
type DB struct {
	db         *sql.DB
	path       string
	collection string
}

// NewDB creates a new DB instance with the given path and collection.
// Use ":memory:" for an in-memory database. An empty collection means
// DefaultCollection.
func NewDB(path, collection string) *DB {
	if collection == "" {
		collection = DefaultCollection
	}
	return &DB{path: path, collection: collection}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	if !identifierRE.MatchString(db.collection) {
		return animals.Errorf(animals.EINVALID, "invalid collection name %q", db.collection)
	}

	// Unicode-aware lower() keeps name search case-insensitive beyond ASCII.
	conn, err := driver.Open(db.path, unicode.Register)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait on lock contention instead of failing with "database is locked".
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// Collection returns the name of the table animals are stored in.
func (db *DB) Collection() string {
	return db.collection
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// table returns the quoted table name of the collection.
func (db *DB) table() string {
	return `"` + db.collection + `"`
}

// createSchema creates the collection table if it doesn't exist.
// List and map fields are stored as JSON text; 'null' keeps absent
// values distinct from empty ones.
func (db *DB) createSchema() error {
	t := db.collection
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%[1]s" (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			scientific_name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			classification TEXT NOT NULL DEFAULT 'null',
			facts TEXT NOT NULL DEFAULT 'null',
			habitat TEXT NOT NULL DEFAULT '',
			diet TEXT NOT NULL DEFAULT '',
			conservation_status TEXT NOT NULL DEFAULT '',
			habitat_tags TEXT NOT NULL DEFAULT 'null',
			diet_tags TEXT NOT NULL DEFAULT 'null',
			locations TEXT NOT NULL DEFAULT 'null',
			key_facts TEXT NOT NULL DEFAULT 'null',
			source_page TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (name, url)
		);

		CREATE INDEX IF NOT EXISTS "idx_%[1]s_name" ON "%[1]s"(name COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS "idx_%[1]s_habitat" ON "%[1]s"(habitat);
		CREATE INDEX IF NOT EXISTS "idx_%[1]s_diet" ON "%[1]s"(diet);
	`, t)

	_, err := db.db.Exec(schema)
	return err
}
