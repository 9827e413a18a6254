package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/eatlyst/eatlyst/internal/model"
	_ "github.com/mattn/go-sqlite3"
)

// Mock database for testing
type testDB struct {
	*sql.DB
}

func (t *testDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return t.DB.Query(query, args...)
}

func (t *testDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return t.DB.Exec(query, args...)
}

func (t *testDB) Get() *sql.DB {
	return t.DB
}

func (t *testDB) Close() error {
	return t.DB.Close()
}

func (t *testDB) InitDB() error {
	_, err := t.DB.Exec(`
		CREATE TABLE IF NOT EXISTS recipes (
			id TEXT PRIMARY KEY,
			name TEXT,
			total_time INTEGER,
			servings INTEGER,
			difficulty TEXT,
			ingredient_lines TEXT,
			instructions TEXT,
			category TEXT,
			photo_url TEXT,
			author_id TEXT,
			author_name TEXT,
			created_at DATETIME,
			modified_at DATETIME
		)
	`)
	return err
}

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	testDB := &testDB{DB: sqlDB}
	if err := testDB.InitDB(); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	t.Cleanup(func() { testDB.Close() })
	return NewSQLiteStore(testDB)
}

func testRecipe(name string, author model.UserID) *model.Recipe {
	return &model.Recipe{
		Name:         name,
		TotalTime:    40,
		Servings:     2,
		Difficulty:   model.DifficultyHard,
		Instructions: "Reduce the sauce slowly.",
		Category:     "secondi",
		AuthorID:     author,
		AuthorName:   "Test Cook",
		IngredientLines: []model.Ingredient{
			{Name: "manzo", Quantity: 500, Unit: "gr"},
		},
	}
}

func TestSQLiteStoreCreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	r := testRecipe("Brasato", "user-1")
	r.CreatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC) // must be ignored

	id, err := store.Create(ctx, r)
	if err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated recipe id")
	}
	if r.CreatedAt.Year() == 2000 {
		t.Error("Expected the store to assign the creation time")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get recipe: %v", err)
	}
	if got.Name != "Brasato" {
		t.Errorf("Expected name 'Brasato', got %q", got.Name)
	}
	if len(got.IngredientLines) != 1 || got.IngredientLines[0].Name != "manzo" {
		t.Errorf("Expected ingredient lines to round-trip, got %+v", got.IngredientLines)
	}
	if got.AuthorID != "user-1" {
		t.Errorf("Expected author 'user-1', got %q", got.AuthorID)
	}
}

func TestSQLiteStoreGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreQueryByAuthorOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, testRecipe(fmt.Sprintf("Recipe %d", i), "user-1")); err != nil {
			t.Fatalf("Failed to create recipe: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if _, err := store.Create(ctx, testRecipe("Other", "user-2")); err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}

	recipes, err := store.QueryByAuthor(ctx, "user-1")
	if err != nil {
		t.Fatalf("Failed to query recipes: %v", err)
	}

	if len(recipes) != 3 {
		t.Fatalf("Expected 3 recipes, got %d", len(recipes))
	}
	for i := 1; i < len(recipes); i++ {
		if recipes[i].CreatedAt.After(recipes[i-1].CreatedAt) {
			t.Error("Expected recipes ordered by creation time descending")
		}
	}
	if recipes[0].Name != "Recipe 2" {
		t.Errorf("Expected newest recipe first, got %q", recipes[0].Name)
	}
}

func TestSQLiteStoreQueryByAuthorEmpty(t *testing.T) {
	store := setupTestStore(t)

	recipes, err := store.QueryByAuthor(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Expected zero results to not be an error, got %v", err)
	}
	if recipes == nil || len(recipes) != 0 {
		t.Errorf("Expected an empty list, got %v", recipes)
	}
}

func TestSQLiteStoreUpdatePhotoURL(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, testRecipe("Tiramisu", "user-1"))
	if err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}

	url := "https://photos.example.com/recipes/user-1/recipe_x.jpg"
	if err := store.Update(ctx, id, Patch{PhotoURL: &url}); err != nil {
		t.Fatalf("Failed to update recipe: %v", err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get recipe: %v", err)
	}
	if got.PhotoURL != url {
		t.Errorf("Expected photo URL %q, got %q", url, got.PhotoURL)
	}
	if got.Name != "Tiramisu" {
		t.Error("Expected untouched fields to survive a partial update")
	}
}

func TestSQLiteStoreUpdateNotFound(t *testing.T) {
	store := setupTestStore(t)

	url := "https://example.com/x.jpg"
	err := store.Update(context.Background(), "missing", Patch{PhotoURL: &url})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, testRecipe("Panna Cotta", "user-1"))
	if err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Failed to delete recipe: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected recipe to be gone, got %v", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestSQLiteStoreListCacheInvalidation(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, testRecipe("First", "user-1"))
	if err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}

	// Prime the cache.
	if _, err := store.QueryByAuthor(ctx, "user-1"); err != nil {
		t.Fatalf("Failed to query recipes: %v", err)
	}

	url := "https://example.com/photo.jpg"
	if err := store.Update(ctx, id, Patch{PhotoURL: &url}); err != nil {
		t.Fatalf("Failed to update recipe: %v", err)
	}

	recipes, err := store.QueryByAuthor(ctx, "user-1")
	if err != nil {
		t.Fatalf("Failed to query recipes: %v", err)
	}
	if len(recipes) != 1 || recipes[0].PhotoURL != url {
		t.Error("Expected the author list cache to be invalidated on update")
	}
}

func TestClassifyReadError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "permission denied",
			err:  fmt.Errorf("query failed: %w", ErrPermissionDenied),
			want: "permission-denied: insufficient permissions to access the recipe store",
		},
		{
			name: "unavailable",
			err:  fmt.Errorf("query failed: %w", ErrUnavailable),
			want: "network: could not reach the recipe store",
		},
		{
			name: "not found",
			err:  fmt.Errorf("query failed: %w", ErrNotFound),
			want: "not-found: recipe store not configured correctly",
		},
		{
			name: "other errors pass through",
			err:  errors.New("disk on fire"),
			want: "disk on fire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyReadError(tt.err); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
