package db

import (
	"testing"
)

func TestSQLiteInitDB(t *testing.T) {
	database := NewSQLite(":memory:")
	if err := database.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// All three tables should exist and be writable.
	if _, err := database.Exec(`INSERT INTO users (id, display_name, email) VALUES (?, ?, ?)`,
		"user-1", "Test Cook", "cook@example.com"); err != nil {
		t.Errorf("Failed to insert into users: %v", err)
	}

	if _, err := database.Exec(`INSERT INTO drafts (key, content) VALUES (?, ?)`,
		"user-1", []byte("payload")); err != nil {
		t.Errorf("Failed to insert into drafts: %v", err)
	}

	if _, err := database.Exec(`INSERT INTO recipes (id, name, author_id) VALUES (?, ?, ?)`,
		"recipe-1", "Carbonara", "user-1"); err != nil {
		t.Errorf("Failed to insert into recipes: %v", err)
	}

	rows, err := database.Query(`SELECT id FROM recipes WHERE author_id = ?`, "user-1")
	if err != nil {
		t.Fatalf("Failed to query recipes: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if count != 1 {
		t.Errorf("Expected 1 recipe, got %d", count)
	}
}

func TestSQLiteInitDBIdempotent(t *testing.T) {
	database := NewSQLite(":memory:")
	if err := database.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	second := NewSQLite(":memory:")
	if err := second.InitDB(); err != nil {
		t.Fatalf("Expected re-initialization to succeed, got %v", err)
	}
	second.Close()
}

func TestSQLiteCloseWithoutInit(t *testing.T) {
	database := NewSQLite(":memory:")
	if err := database.Close(); err != nil {
		t.Errorf("Expected closing an unopened database to succeed, got %v", err)
	}
}
