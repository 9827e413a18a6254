package blob

import (
	"context"
	"regexp"
	"testing"
)

func TestPhotoPath(t *testing.T) {
	t.Run("with recipe id", func(t *testing.T) {
		path := PhotoPath("user-1", "abc-123")

		want := regexp.MustCompile(`^recipes/user-1/recipe_abc-123_[0-9a-f]{8}\.jpg$`)
		if !want.MatchString(path) {
			t.Errorf("Unexpected path %q", path)
		}
	})

	t.Run("without recipe id falls back to timestamp", func(t *testing.T) {
		path := PhotoPath("user-1", "")

		want := regexp.MustCompile(`^recipes/user-1/recipe_\d+_[0-9a-f]{8}\.jpg$`)
		if !want.MatchString(path) {
			t.Errorf("Unexpected path %q", path)
		}
	})

	t.Run("paths do not collide", func(t *testing.T) {
		a := PhotoPath("user-1", "abc")
		b := PhotoPath("user-1", "abc")
		if a == b {
			t.Errorf("Expected distinct paths, got %q twice", a)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	url, err := store.Upload(ctx, "recipes/u/recipe_1_aaaa.jpg", []byte{0xff, 0xd8})
	if err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}
	if url != "memory://recipes/u/recipe_1_aaaa.jpg" {
		t.Errorf("Unexpected url %q", url)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 object, got %d", store.Len())
	}

	if err := store.Delete(ctx, url); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected 0 objects, got %d", store.Len())
	}

	if err := store.Delete(ctx, url); err == nil {
		t.Error("Expected deleting a missing object to fail")
	}
}
