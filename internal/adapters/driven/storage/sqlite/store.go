package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/nutrisearch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
)

// Store is the SQLite database holding the Local Food Store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.nutrisearch/data/foods.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".nutrisearch", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "foods.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// NewStoreWithDB wraps an already opened database without running
// migrations. The caller owns the schema.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// FoodStore returns a FoodStore interface backed by this store.
func (s *Store) FoodStore() driven.FoodStore {
	return &foodStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_foods.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Food Store ====================

// foodStore implements driven.FoodStore.
type foodStore struct {
	store *Store
}

var _ driven.FoodStore = (*foodStore)(nil)

const foodColumns = `id, source, source_id, name, brand_name,
	serving_qty, serving_unit, serving_weight_grams,
	calories, protein, carbs, fat, fiber, sugar, sodium,
	photo_thumb, photo_highres, barcode, is_raw, full_nutrients`

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindMany returns foods whose name or brand contains pattern.
func (s *foodStore) FindMany(ctx context.Context, pattern string, limit int) ([]domain.Food, error) {
	if limit <= 0 {
		limit = 25
	}
	like := "%" + likeEscaper.Replace(pattern) + "%"

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+foodColumns+`
		FROM foods
		WHERE name LIKE ? ESCAPE '\' OR brand_name LIKE ? ESCAPE '\'
		ORDER BY name COLLATE NOCASE, id
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("querying foods: %w", err)
	}
	defer rows.Close()

	foods := make([]domain.Food, 0)
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, *food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating foods: %w", err)
	}

	return foods, nil
}

// FindBySource retrieves a food by its origin identity.
func (s *foodStore) FindBySource(
	ctx context.Context, source domain.SourceTag, sourceID string,
) (*domain.Food, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+foodColumns+`
		FROM foods WHERE source = ? AND source_id = ?
	`, string(source), sourceID)
	return scanOne(row)
}

// FindBySourceID retrieves the oldest food with the given origin id.
func (s *foodStore) FindBySourceID(ctx context.Context, sourceID string) (*domain.Food, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+foodColumns+`
		FROM foods WHERE source_id = ?
		ORDER BY id LIMIT 1
	`, sourceID)
	return scanOne(row)
}

// FindByNameBrand retrieves a food by exact, case-insensitive name and brand.
func (s *foodStore) FindByNameBrand(ctx context.Context, name, brand string) (*domain.Food, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+foodColumns+`
		FROM foods
		WHERE lower(name) = lower(?) AND lower(COALESCE(brand_name, '')) = lower(?)
		ORDER BY id LIMIT 1
	`, name, brand)
	return scanOne(row)
}

// Insert stores a food and returns it with its new id. An existing
// (source, source_id) pair is returned unchanged.
func (s *foodStore) Insert(ctx context.Context, food domain.Food) (*domain.Food, error) {
	var fullNutrients sql.NullString
	if len(food.FullNutrients) > 0 {
		data, err := json.Marshal(food.FullNutrients)
		if err != nil {
			return nil, fmt.Errorf("marshalling full nutrients: %w", err)
		}
		fullNutrients = sql.NullString{String: string(data), Valid: true}
	}

	var thumb, highres string
	if food.Photo != nil {
		thumb, highres = food.Photo.Thumb, food.Photo.HighRes
	}

	now := time.Now().UTC()
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO foods (source, source_id, name, brand_name,
			serving_qty, serving_unit, serving_weight_grams,
			calories, protein, carbs, fat, fiber, sugar, sodium,
			photo_thumb, photo_highres, barcode, is_raw, full_nutrients,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, source_id) DO NOTHING
	`, string(food.Source), food.SourceID, food.Name, nullString(food.BrandName),
		nullFloat(food.ServingQty), nullString(food.ServingUnit), nullFloat(food.ServingWeightGrams),
		food.Calories, food.Protein, food.Carbs, food.Fat,
		nullFloat(food.Fiber), nullFloat(food.Sugar), nullFloat(food.Sodium),
		nullString(thumb), nullString(highres), nullString(food.Barcode), nullBool(food.IsRaw), fullNutrients,
		now, now)
	if err != nil {
		return nil, fmt.Errorf("inserting food: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking insert result: %w", err)
	}
	if affected == 0 {
		return s.FindBySource(ctx, food.Source, food.SourceID)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted id: %w", err)
	}
	stored := food.WithLocalID(id)
	return &stored, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (*domain.Food, error) {
	food, err := scanFood(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return food, nil
}

func scanFood(row rowScanner) (*domain.Food, error) {
	var (
		food                      domain.Food
		id                        int64
		source                    string
		brand, servingUnit        sql.NullString
		thumb, highres, code      sql.NullString
		servingQty, servingWeight sql.NullFloat64
		fiber, sugar, sodium      sql.NullFloat64
		isRaw                     sql.NullBool
		fullNutrients             sql.NullString
	)
	err := row.Scan(&id, &source, &food.SourceID, &food.Name, &brand,
		&servingQty, &servingUnit, &servingWeight,
		&food.Calories, &food.Protein, &food.Carbs, &food.Fat, &fiber, &sugar, &sodium,
		&thumb, &highres, &code, &isRaw, &fullNutrients)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning food: %w", err)
	}

	food.LocalID = &id
	food.Source = domain.SourceTag(source)
	food.BrandName = brand.String
	food.ServingQty = floatPtr(servingQty)
	food.ServingUnit = servingUnit.String
	food.ServingWeightGrams = floatPtr(servingWeight)
	food.Fiber = floatPtr(fiber)
	food.Sugar = floatPtr(sugar)
	food.Sodium = floatPtr(sodium)
	food.Barcode = code.String
	if isRaw.Valid {
		food.IsRaw = domain.Bool(isRaw.Bool)
	}
	if thumb.String != "" || highres.String != "" {
		food.Photo = &domain.Photo{Thumb: thumb.String, HighRes: highres.String}
	}
	if fullNutrients.Valid && fullNutrients.String != "" {
		if err := json.Unmarshal([]byte(fullNutrients.String), &food.FullNutrients); err != nil {
			return nil, fmt.Errorf("unmarshalling full nutrients for food %d: %w", id, err)
		}
	}

	return &food, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
