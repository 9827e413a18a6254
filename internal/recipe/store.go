// Package recipe holds the recipe document store and the publication
// validator.
package recipe

import (
	"context"
	"errors"

	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/rs/zerolog"
)

// Read-failure taxonomy. Stores tag their errors with these so the read path
// can report a distinct, actionable message per cause.
var (
	ErrPermissionDenied = errors.New("permission-denied")
	ErrUnavailable      = errors.New("unavailable")
	ErrNotFound         = errors.New("not-found")
)

// Patch is a partial update to a recipe record. Nil fields are untouched.
type Patch struct {
	Name         *string
	Instructions *string
	Category     *string
	PhotoURL     *string
	TotalTime    *int
	Servings     *int
	Difficulty   *model.Difficulty
}

type Store interface {
	// Create stores a new record, assigning its ID and creation time. The
	// client never controls either.
	Create(ctx context.Context, r *model.Recipe) (model.RecipeID, error)

	Get(ctx context.Context, id model.RecipeID) (*model.Recipe, error)

	// QueryByAuthor returns the author's recipes ordered by creation time
	// descending. Zero results is a valid empty list, not an error.
	QueryByAuthor(ctx context.Context, author model.UserID) ([]model.Recipe, error)

	Update(ctx context.Context, id model.RecipeID, patch Patch) error
	Delete(ctx context.Context, id model.RecipeID) error
}

// ClassifyReadError maps a store read failure to its user-facing message.
// Unrecognized failures pass through with their raw message.
func ClassifyReadError(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "permission-denied: insufficient permissions to access the recipe store"
	case errors.Is(err, ErrUnavailable):
		return "network: could not reach the recipe store"
	case errors.Is(err, ErrNotFound):
		return "not-found: recipe store not configured correctly"
	default:
		return err.Error()
	}
}

var recipeLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	recipeLogger = l
}
