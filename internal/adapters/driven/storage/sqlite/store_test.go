package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create a temporary directory for the test database
	tempDir, err := os.MkdirTemp("", "nutrisearch-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func sampleFood(source domain.SourceTag, sourceID, name, brand string) domain.Food {
	return domain.Food{
		SourceID:    sourceID,
		Source:      source,
		Name:        name,
		BrandName:   brand,
		ServingQty:  domain.Float(1),
		ServingUnit: "cup",
		Calories:    150,
		Protein:     8,
		Carbs:       12,
		Fat:         8,
		Fiber:       domain.Float(0),
		Sodium:      domain.Float(105),
	}
}

// ==================== Store Tests ====================

func TestNewStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotNil(t, store.db)
	assert.Equal(t, "foods.db", filepath.Base(store.Path()))
	assert.FileExists(t, store.Path())
}

func TestNewStore_RecordsMigrations(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
	require.NoError(t, store.Close())

	// Reopening must not re-run migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

// ==================== Food Store Tests ====================

func TestFoodStore_InsertAndFindBySource(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	foods := store.FoodStore()

	food := sampleFood(domain.SourceUSDA, "173430", "Milk, whole", "")
	food.IsRaw = domain.Bool(true)
	food.Photo = &domain.Photo{Thumb: "https://img.example/t.jpg"}
	food.FullNutrients = []domain.Nutrient{{AttrID: 208, Value: 150}, {AttrID: 307, Value: 105}}

	stored, err := foods.Insert(ctx, food)
	require.NoError(t, err)
	require.NotNil(t, stored.LocalID)
	assert.Positive(t, *stored.LocalID)

	found, err := foods.FindBySource(ctx, domain.SourceUSDA, "173430")
	require.NoError(t, err)
	assert.Equal(t, *stored.LocalID, *found.LocalID)
	assert.Equal(t, "Milk, whole", found.Name)
	assert.Equal(t, domain.SourceUSDA, found.Source)
	assert.Empty(t, found.BrandName)
	require.NotNil(t, found.ServingQty)
	assert.InDelta(t, 1.0, *found.ServingQty, 0.0001)
	assert.Equal(t, "cup", found.ServingUnit)
	assert.Nil(t, found.ServingWeightGrams)
	assert.InDelta(t, 150.0, found.Calories, 0.0001)
	require.NotNil(t, found.Fiber)
	assert.InDelta(t, 0.0, *found.Fiber, 0.0001)
	assert.Nil(t, found.Sugar)
	require.NotNil(t, found.IsRaw)
	assert.True(t, *found.IsRaw)
	require.NotNil(t, found.Photo)
	assert.Equal(t, "https://img.example/t.jpg", found.Photo.Thumb)
	assert.Equal(t, food.FullNutrients, found.FullNutrients)
}

func TestFoodStore_FindBySource_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.FoodStore().FindBySource(context.Background(), domain.SourceUSDA, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFoodStore_Insert_ExistingPairReturnsStored(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	foods := store.FoodStore()

	first, err := foods.Insert(ctx, sampleFood(domain.SourceNutritionix, "abc", "Greek Yogurt", "Fage"))
	require.NoError(t, err)

	changed := sampleFood(domain.SourceNutritionix, "abc", "Something Else", "Other")
	second, err := foods.Insert(ctx, changed)
	require.NoError(t, err)

	assert.Equal(t, *first.LocalID, *second.LocalID)
	assert.Equal(t, "Greek Yogurt", second.Name)
}

func TestFoodStore_Insert_SameSourceIDDifferentSource(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	foods := store.FoodStore()

	a, err := foods.Insert(ctx, sampleFood(domain.SourceUSDA, "42", "Apple", ""))
	require.NoError(t, err)
	b, err := foods.Insert(ctx, sampleFood(domain.SourceFatSecret, "42", "Apple", ""))
	require.NoError(t, err)

	assert.NotEqual(t, *a.LocalID, *b.LocalID)
}

func TestFoodStore_FindBySourceID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	foods := store.FoodStore()

	first, err := foods.Insert(ctx, sampleFood(domain.SourceOpenFoodFacts, "3017620422003", "Nutella", "Ferrero"))
	require.NoError(t, err)
	_, err = foods.Insert(ctx, sampleFood(domain.SourceNutritionix, "3017620422003", "Nutella", "Ferrero"))
	require.NoError(t, err)

	found, err := foods.FindBySourceID(ctx, "3017620422003")
	require.NoError(t, err)
	assert.Equal(t, *first.LocalID, *found.LocalID)

	_, err = foods.FindBySourceID(ctx, "0000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFoodStore_FindByNameBrand(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	foods := store.FoodStore()

	stored, err := foods.Insert(ctx, sampleFood(domain.SourceFatSecret, "1", "Peanut Butter", "Jif"))
	require.NoError(t, err)
	plain, err := foods.Insert(ctx, sampleFood(domain.SourceUSDA, "2", "Banana", ""))
	require.NoError(t, err)

	found, err := foods.FindByNameBrand(ctx, "peanut butter", "JIF")
	require.NoError(t, err)
	assert.Equal(t, *stored.LocalID, *found.LocalID)

	found, err = foods.FindByNameBrand(ctx, "banana", "")
	require.NoError(t, err)
	assert.Equal(t, *plain.LocalID, *found.LocalID)

	_, err = foods.FindByNameBrand(ctx, "Peanut Butter", "Skippy")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFoodStore_FindMany(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	foods := store.FoodStore()

	for i, f := range []domain.Food{
		sampleFood(domain.SourceUSDA, "1", "Whole Milk", ""),
		sampleFood(domain.SourceUSDA, "2", "Skim Milk", ""),
		sampleFood(domain.SourceFatSecret, "3", "Chocolate Bar", "Milka"),
		sampleFood(domain.SourceUSDA, "4", "Orange Juice", ""),
	} {
		_, err := foods.Insert(ctx, f)
		require.NoError(t, err, "insert %d", i)
	}

	found, err := foods.FindMany(ctx, "MILK", 10)
	require.NoError(t, err)
	require.Len(t, found, 3)
	names := []string{found[0].Name, found[1].Name, found[2].Name}
	assert.ElementsMatch(t, []string{"Whole Milk", "Skim Milk", "Chocolate Bar"}, names)

	limited, err := foods.FindMany(ctx, "milk", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := foods.FindMany(ctx, "kale", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFoodStore_FindMany_EscapesWildcards(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	foods := store.FoodStore()

	_, err := foods.Insert(ctx, sampleFood(domain.SourceUSDA, "1", "Milk 2% fat", ""))
	require.NoError(t, err)
	_, err = foods.Insert(ctx, sampleFood(domain.SourceUSDA, "2", "Milk 20 fat", ""))
	require.NoError(t, err)

	found, err := foods.FindMany(ctx, "2%", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Milk 2% fat", found[0].Name)

	found, err = foods.FindMany(ctx, "_", 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFoodStore_ConcurrentInsertSamePair(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	foods := store.FoodStore()

	const workers = 8
	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored, err := foods.Insert(ctx, sampleFood(domain.SourceUSDA, "dup", "Oats", ""))
			if assert.NoError(t, err) {
				ids[i] = *stored.LocalID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
}

// ==================== Error Path Tests ====================

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStoreWithDB(db), mock
}

func TestFoodStore_FindMany_QueryError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT .* FROM foods").WillReturnError(errors.New("disk I/O error"))

	_, err := store.FoodStore().FindMany(context.Background(), "milk", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying foods")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFoodStore_FindBySource_ScanError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT .* FROM foods WHERE source = \\? AND source_id = \\?").
		WithArgs("usda", "1").
		WillReturnError(errors.New("database is locked"))

	_, err := store.FoodStore().FindBySource(context.Background(), domain.SourceUSDA, "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFoodStore_Insert_ExecError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO foods").WillReturnError(errors.New("readonly database"))

	_, err := store.FoodStore().Insert(context.Background(), sampleFood(domain.SourceUSDA, "1", "Oats", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting food")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFoodStore_Insert_ConflictReadsExisting(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO foods").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .* FROM foods WHERE source = \\? AND source_id = \\?").
		WithArgs("usda", "1").
		WillReturnError(errors.New("connection reset"))

	_, err := store.FoodStore().Insert(context.Background(), sampleFood(domain.SourceUSDA, "1", "Oats", ""))
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFoodStore_Insert_RowsAffectedError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO foods").WillReturnResult(sqlmock.NewErrorResult(errors.New("driver failure")))

	_, err := store.FoodStore().Insert(context.Background(), sampleFood(domain.SourceUSDA, "1", "Oats", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking insert result")
}
