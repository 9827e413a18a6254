package draft

import (
	"database/sql"
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
		CREATE TABLE IF NOT EXISTS drafts (
			key TEXT PRIMARY KEY,
			content BLOB,
			saved_at DATETIME
		)
	`)
	return err
}

func setupTestDB(t *testing.T) *testDB {
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
	return testDB
}

func testSnapshot() Snapshot {
	return Snapshot{
		Recipe: model.RecipeEdit{
			Name:         "Pasta al Pomodoro",
			TotalTime:    30,
			Servings:     4,
			Difficulty:   model.DifficultyEasy,
			Instructions: "Cook the pasta, add the sauce.",
			Category:     "primi",
			IngredientLines: []model.Ingredient{
				{Name: "pasta", Quantity: 320, Unit: "gr"},
				{Name: "pomodoro", Quantity: 400, Unit: "gr"},
			},
		},
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t), "session-1")

	saved := testSnapshot()
	store.Save(saved)

	loaded, ok := store.Load()
	if !ok {
		t.Fatal("Expected a draft after save")
	}
	if loaded.Recipe.Name != saved.Recipe.Name {
		t.Errorf("Expected name %q, got %q", saved.Recipe.Name, loaded.Recipe.Name)
	}
	if len(loaded.Recipe.IngredientLines) != 2 {
		t.Errorf("Expected 2 ingredient lines, got %d", len(loaded.Recipe.IngredientLines))
	}
	if !loaded.Timestamp.Equal(saved.Timestamp) {
		t.Errorf("Expected timestamp %v, got %v", saved.Timestamp, loaded.Timestamp)
	}
}

func TestSQLiteStoreOverwrites(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t), "session-1")

	first := testSnapshot()
	store.Save(first)

	second := testSnapshot()
	second.Recipe.Name = "Amatriciana"
	store.Save(second)

	loaded, ok := store.Load()
	if !ok {
		t.Fatal("Expected a draft after save")
	}
	if loaded.Recipe.Name != "Amatriciana" {
		t.Errorf("Expected last write to win, got %q", loaded.Recipe.Name)
	}
}

func TestSQLiteStoreLoadEmpty(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t), "session-1")

	if _, ok := store.Load(); ok {
		t.Error("Expected no draft from an empty store")
	}
}

func TestSQLiteStoreMalformedData(t *testing.T) {
	db := setupTestDB(t)
	store := NewSQLiteStore(db, "session-1")

	// Both are garbage: the first is not zstd, the second is valid zstd but
	// not JSON.
	if _, err := db.Exec(`INSERT INTO drafts (key, content, saved_at) VALUES (?, ?, ?)`,
		"session-1", []byte("not a draft"), time.Now().UTC()); err != nil {
		t.Fatalf("Failed to plant malformed draft: %v", err)
	}

	if _, ok := store.Load(); ok {
		t.Error("Expected malformed stored data to read as no draft")
	}

	garbage, err := store.compressor.Compress([]byte("{not json"))
	if err != nil {
		t.Fatalf("Failed to compress garbage: %v", err)
	}
	if _, err := db.Exec(`UPDATE drafts SET content = ? WHERE key = ?`, garbage, "session-1"); err != nil {
		t.Fatalf("Failed to plant malformed draft: %v", err)
	}

	if _, ok := store.Load(); ok {
		t.Error("Expected undecodable JSON to read as no draft")
	}
}

func TestSQLiteStoreClearIdempotent(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t), "session-1")

	store.Save(testSnapshot())
	store.Clear()

	if _, ok := store.Load(); ok {
		t.Error("Expected no draft after clear")
	}

	// Clearing an absent draft is not an error.
	store.Clear()
}

func TestSQLiteStoreKeyIsolation(t *testing.T) {
	db := setupTestDB(t)
	storeA := NewSQLiteStore(db, "session-a")
	storeB := NewSQLiteStore(db, "session-b")

	storeA.Save(testSnapshot())

	if _, ok := storeB.Load(); ok {
		t.Error("Expected session-b to not see session-a's draft")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Load(); ok {
		t.Error("Expected no draft from a fresh store")
	}

	store.Save(testSnapshot())
	loaded, ok := store.Load()
	if !ok {
		t.Fatal("Expected a draft after save")
	}
	if loaded.Recipe.Name != "Pasta al Pomodoro" {
		t.Errorf("Unexpected draft name %q", loaded.Recipe.Name)
	}

	store.Clear()
	if _, ok := store.Load(); ok {
		t.Error("Expected no draft after clear")
	}
	store.Clear()
}
