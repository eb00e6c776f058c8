package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

// Compile-time interface verification.
var _ animals.AnimalService = (*AnimalService)(nil)

const animalColumns = `id, name, url, scientific_name, description, classification, facts,
	habitat, diet, conservation_status, habitat_tags, diet_tags, locations, key_facts,
	source_page, content_hash, created_at, updated_at`

// orderByName sorts case-insensitively by name, then by url for a stable order.
const orderByName = " ORDER BY name COLLATE NOCASE, name, url"

// querier is implemented by both *DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rowScanner is implemented by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// AnimalService implements animals.AnimalService using SQLite.
type AnimalService struct {
	db *DB
}

// NewAnimalService creates a new AnimalService.
func NewAnimalService(db *DB) *AnimalService {
	return &AnimalService{db: db}
}

// hashAnimal computes the xxHash of the interchange fields of a.
// Store-internal fields are excluded by their json tags.
func hashAnimal(a *animals.Animal) (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b)), nil
}

// Upsert inserts a or merges it into the stored animal with the same name
// and url. Extracted fields are overwritten; derived fields (habitat, diet,
// conservation status, tags) are overwritten only when a carries a value.
// On return a carries the stored ID, hash and timestamps.
func (s *AnimalService) Upsert(ctx context.Context, a *animals.Animal) (animals.UpsertResult, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := s.upsert(ctx, tx, a)
	if err != nil {
		return 0, err
	}
	return res, tx.Commit()
}

func (s *AnimalService) upsert(ctx context.Context, q querier, a *animals.Animal) (animals.UpsertResult, error) {
	existing, err := s.findByKey(ctx, q, a.Name, a.URL)
	if err != nil && animals.ErrorCode(err) != animals.ENOTFOUND {
		return 0, err
	}

	now := time.Now().UTC()

	if existing == nil {
		hash, err := hashAnimal(a)
		if err != nil {
			return 0, err
		}
		a.ID = uuid.New().String()
		a.ContentHash = hash
		a.CreatedAt = now
		a.UpdatedAt = now
		if err := s.insert(ctx, q, a); err != nil {
			return 0, err
		}
		return animals.UpsertInserted, nil
	}

	merged := merge(existing, a)
	hash, err := hashAnimal(merged)
	if err != nil {
		return 0, err
	}

	a.ID = existing.ID
	a.CreatedAt = existing.CreatedAt
	a.ContentHash = hash

	if hash == existing.ContentHash {
		a.UpdatedAt = existing.UpdatedAt
		return animals.UpsertUnchanged, nil
	}

	merged.ContentHash = hash
	merged.UpdatedAt = now
	a.UpdatedAt = now
	if err := s.update(ctx, q, merged); err != nil {
		return 0, err
	}
	return animals.UpsertUpdated, nil
}

// merge returns existing overwritten with the fields carried by incoming.
func merge(existing, incoming *animals.Animal) *animals.Animal {
	m := *existing

	m.ScientificName = incoming.ScientificName
	m.Description = incoming.Description
	m.Classification = incoming.Classification
	m.Facts = incoming.Facts
	m.Locations = incoming.Locations
	m.KeyFacts = incoming.KeyFacts
	m.SourcePage = incoming.SourcePage

	if incoming.Habitat != "" {
		m.Habitat = incoming.Habitat
	}
	if incoming.Diet != "" {
		m.Diet = incoming.Diet
	}
	if incoming.ConservationStatus != "" {
		m.ConservationStatus = incoming.ConservationStatus
	}
	if incoming.HabitatTags != nil {
		m.HabitatTags = incoming.HabitatTags
	}
	if incoming.DietTags != nil {
		m.DietTags = incoming.DietTags
	}
	return &m
}

// encoded holds the JSON text of the list and map columns of an animal.
type encoded struct {
	classification, facts, habitatTags, dietTags, locations, keyFacts string
}

func encodeAnimal(a *animals.Animal) (*encoded, error) {
	var e encoded
	var err error
	for _, f := range []struct {
		dst *string
		v   any
	}{
		{&e.classification, a.Classification},
		{&e.facts, a.Facts},
		{&e.habitatTags, a.HabitatTags},
		{&e.dietTags, a.DietTags},
		{&e.locations, a.Locations},
		{&e.keyFacts, a.KeyFacts},
	} {
		if *f.dst, err = encodeJSON(f.v); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func (s *AnimalService) insert(ctx context.Context, q querier, a *animals.Animal) error {
	e, err := encodeAnimal(a)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `INSERT INTO `+s.db.table()+` (`+animalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.URL, a.ScientificName, a.Description, e.classification, e.facts,
		a.Habitat, a.Diet, a.ConservationStatus, e.habitatTags, e.dietTags, e.locations, e.keyFacts,
		a.SourcePage, a.ContentHash,
		a.CreatedAt.Format(time.RFC3339Nano), a.UpdatedAt.Format(time.RFC3339Nano))
	return err
}

func (s *AnimalService) update(ctx context.Context, q querier, a *animals.Animal) error {
	e, err := encodeAnimal(a)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `UPDATE `+s.db.table()+`
		SET scientific_name = ?, description = ?, classification = ?, facts = ?,
			habitat = ?, diet = ?, conservation_status = ?, habitat_tags = ?, diet_tags = ?,
			locations = ?, key_facts = ?, source_page = ?, content_hash = ?, updated_at = ?
		WHERE id = ?`,
		a.ScientificName, a.Description, e.classification, e.facts,
		a.Habitat, a.Diet, a.ConservationStatus, e.habitatTags, e.dietTags,
		e.locations, e.keyFacts, a.SourcePage, a.ContentHash, a.UpdatedAt.Format(time.RFC3339Nano),
		a.ID)
	return err
}

func (s *AnimalService) findByKey(ctx context.Context, q querier, name, url string) (*animals.Animal, error) {
	row := q.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM `+s.db.table()+` WHERE name = ? AND url = ?`, name, url)
	return scanAnimalRow(row)
}

// FindAnimalByID retrieves an animal by ID.
func (s *AnimalService) FindAnimalByID(ctx context.Context, id string) (*animals.Animal, error) {
	return s.findByID(ctx, s.db, id)
}

func (s *AnimalService) findByID(ctx context.Context, q querier, id string) (*animals.Animal, error) {
	row := q.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM `+s.db.table()+` WHERE id = ?`, id)
	return scanAnimalRow(row)
}

// scanAnimalRow scans a single row, mapping no rows to ENOTFOUND.
func scanAnimalRow(row *sql.Row) (*animals.Animal, error) {
	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, animals.Errorf(animals.ENOTFOUND, "animal not found")
	}
	return a, err
}

func scanAnimal(row rowScanner) (*animals.Animal, error) {
	var a animals.Animal
	var e encoded
	var createdAt, updatedAt string

	if err := row.Scan(&a.ID, &a.Name, &a.URL, &a.ScientificName, &a.Description,
		&e.classification, &e.facts, &a.Habitat, &a.Diet, &a.ConservationStatus,
		&e.habitatTags, &e.dietTags, &e.locations, &e.keyFacts,
		&a.SourcePage, &a.ContentHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name, value string
		dst         any
	}{
		{"classification", e.classification, &a.Classification},
		{"facts", e.facts, &a.Facts},
		{"habitat_tags", e.habitatTags, &a.HabitatTags},
		{"diet_tags", e.dietTags, &a.DietTags},
		{"locations", e.locations, &a.Locations},
		{"key_facts", e.keyFacts, &a.KeyFacts},
	} {
		if err := decodeJSON(f.value, f.name, f.dst); err != nil {
			return nil, err
		}
	}

	var err error
	if a.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &a, nil
}

// whereClause builds the WHERE clause shared by FindAnimals and CountAnimals.
func whereClause(filter animals.AnimalFilter) (string, []any) {
	var query strings.Builder
	var args []any

	query.WriteString(" WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if q := strings.TrimSpace(filter.NameContains); q != "" {
		query.WriteString(" AND instr(lower(name), lower(?)) > 0")
		args = append(args, q)
	}
	appendIn(&query, &args, "habitat", filter.Habitats)
	appendIn(&query, &args, "diet", filter.Diets)
	appendIn(&query, &args, "conservation_status", filter.Statuses)

	return query.String(), args
}

// FindAnimals retrieves animals matching the filter, sorted by name.
func (s *AnimalService) FindAnimals(ctx context.Context, filter animals.AnimalFilter) ([]*animals.Animal, error) {
	where, args := whereClause(filter)

	var query strings.Builder
	query.WriteString(`SELECT ` + animalColumns + ` FROM ` + s.db.table())
	query.WriteString(where)
	query.WriteString(orderByName)
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}

	return list, rows.Err()
}

// CountAnimals returns the number of animals matching the filter.
func (s *AnimalService) CountAnimals(ctx context.Context, filter animals.AnimalFilter) (int, error) {
	where, args := whereClause(filter)

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.db.table()+where, args...).Scan(&n)
	return n, err
}

// Distinct returns the sorted distinct non-empty values of a text field.
func (s *AnimalService) Distinct(ctx context.Context, field animals.Field) ([]string, error) {
	if _, err := animals.ParseField(string(field)); err != nil {
		return nil, err
	}
	if !field.IsText() {
		return nil, animals.Errorf(animals.EINVALID, "field %q is not a text field", field)
	}

	col := string(field)
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT `+col+` FROM `+s.db.table()+` WHERE `+col+` <> '' ORDER BY `+col+` COLLATE NOCASE, `+col)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// UpdateAnimal updates the derived fields of an existing animal.
func (s *AnimalService) UpdateAnimal(ctx context.Context, id string, upd animals.AnimalUpdate) (*animals.Animal, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a, err := s.findByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if upd.Habitat != nil {
		a.Habitat = *upd.Habitat
	}
	if upd.Diet != nil {
		a.Diet = *upd.Diet
	}
	if upd.ConservationStatus != nil {
		a.ConservationStatus = *upd.ConservationStatus
	}
	if upd.HabitatTags != nil {
		a.HabitatTags = upd.HabitatTags
	}
	if upd.DietTags != nil {
		a.DietTags = upd.DietTags
	}

	hash, err := hashAnimal(a)
	if err != nil {
		return nil, err
	}
	if hash == a.ContentHash {
		return a, nil
	}
	a.ContentHash = hash
	a.UpdatedAt = time.Now().UTC()

	if err := s.update(ctx, tx, a); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAll removes every animal of the collection.
func (s *AnimalService) DeleteAll(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM `+s.db.table())
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// ReplaceAll replaces the collection with list in one transaction and returns
// the number of stored animals. Animals sharing a key are merged as by Upsert.
// Nothing changes if any animal is invalid or fails to store.
func (s *AnimalService) ReplaceAll(ctx context.Context, list []*animals.Animal) (int, error) {
	for i, a := range list {
		if a == nil {
			return 0, animals.Errorf(animals.EINVALID, "record %d: empty record", i)
		}
		if err := a.Validate(); err != nil {
			return 0, animals.Errorf(animals.EINVALID, "record %d: %s", i, animals.ErrorMessage(err))
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+s.db.table()); err != nil {
		return 0, err
	}
	for i, a := range list {
		if _, err := s.upsert(ctx, tx, a); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
	}

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.db.table()).Scan(&n); err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
