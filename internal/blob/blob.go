// Package blob stores recipe photos and hands back durable retrieval URLs.
package blob

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Store interface {
	// Upload writes data under path and returns its durable retrieval URL.
	Upload(ctx context.Context, path string, data []byte) (string, error)

	// Delete removes the object a previous Upload returned url for.
	Delete(ctx context.Context, url string) error
}

// PhotoPath builds the upload path for a recipe photo, namespaced by author.
// The recipe id keys the path so the record and its photo cannot diverge;
// when the id is not yet known a timestamp stands in, and a random suffix
// avoids collisions either way.
func PhotoPath(author model.UserID, recipeID model.RecipeID) string {
	ref := string(recipeID)
	if ref == "" {
		ref = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("recipes/%s/recipe_%s_%s.jpg", author, ref, suffix)
}

var blobLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	blobLogger = l
}
