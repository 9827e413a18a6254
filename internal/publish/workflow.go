// Package publish orchestrates recipe publication: validation, record
// creation, optional photo upload and patch, and draft cleanup.
//
// The record is deliberately created before the photo is handled, so a
// failure anywhere in image handling never loses the textual recipe.
// Partial success is a first-class outcome, not an error.
package publish

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/eatlyst/eatlyst/internal/blob"
	"github.com/eatlyst/eatlyst/internal/draft"
	"github.com/eatlyst/eatlyst/internal/identity"
	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/eatlyst/eatlyst/internal/recipe"
	"github.com/rs/zerolog"
)

type Status string

const (
	// StatusPublished means the record was created; the photo, if any, was
	// attached.
	StatusPublished Status = "published"

	// StatusPublishedWithoutImage means the record was created but the photo
	// could not be uploaded or attached. The publish still counts.
	StatusPublishedWithoutImage Status = "published-without-image"

	StatusValidationFailed Status = "validation-failed"
	StatusFailed           Status = "failed"
)

type Result struct {
	Status   Status
	RecipeID model.RecipeID

	// MissingFields is set on StatusValidationFailed, in display order.
	MissingFields []string

	// ImageWarning is set on StatusPublishedWithoutImage.
	ImageWarning string
}

// ErrInFlight is returned when a publish is attempted while another one is
// still running on the same workflow.
var ErrInFlight = errors.New("a publish is already in progress")

var ErrNoUser = errors.New("no authenticated user")

type Workflow struct {
	recipes  recipe.Store
	blobs    blob.Store
	identity identity.Provider
	drafts   draft.Store

	notifier  Notifier
	confirmer Confirmer

	inFlight atomic.Bool

	log zerolog.Logger
}

func NewWorkflow(
	recipes recipe.Store,
	blobs blob.Store,
	identity identity.Provider,
	drafts draft.Store,
	notifier Notifier,
	confirmer Confirmer,
	log zerolog.Logger,
) *Workflow {
	return &Workflow{
		recipes:  recipes,
		blobs:    blobs,
		identity: identity,
		drafts:   drafts,

		notifier:  notifier,
		confirmer: confirmer,

		log: log,
	}
}

// Publish runs the edit through validation, record creation, optional photo
// upload and patch, and draft cleanup.
//
// Only record creation can fail the attempt; in that case the draft is left
// intact so the user can retry. Photo failures downgrade the result to
// StatusPublishedWithoutImage. The draft is cleared on any path that reaches
// a created record.
func (w *Workflow) Publish(ctx context.Context, edit *model.RecipeEdit) (*Result, error) {
	if !w.inFlight.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer w.inFlight.Store(false)

	if missing := recipe.Validate(edit); len(missing) > 0 {
		choice := w.confirmer.Confirm(
			"Complete the required fields to publish: "+strings.Join(missing, ", "),
			[]Choice{ChoiceSaveDraft, ChoiceKeepEditing},
		)
		if choice == ChoiceSaveDraft {
			w.drafts.Save(draft.Snapshot{
				Recipe:        edit.Clone(),
				SelectedPhoto: edit.Photo,
				Timestamp:     time.Now().UTC(),
			})
			w.notifier.Notify("Draft saved! Your data is safe.", LevelSuccess)
		}
		return &Result{Status: StatusValidationFailed, MissingFields: missing}, nil
	}

	usr, ok := w.identity.CurrentUser(ctx)
	if !ok {
		w.notifier.Notify("Sign in to publish your recipe.", LevelDanger)
		return &Result{Status: StatusFailed}, ErrNoUser
	}

	rec := &model.Recipe{
		Name:            edit.Name,
		TotalTime:       edit.TotalTime,
		Servings:        edit.Servings,
		Difficulty:      edit.Difficulty,
		IngredientLines: edit.Clone().IngredientLines,
		Instructions:    edit.Instructions,
		Category:        edit.Category,

		AuthorID:   usr.ID,
		AuthorName: usr.Name(),
	}

	id, err := w.recipes.Create(ctx, rec)
	if err != nil {
		// Terminal for this attempt. The draft stays so nothing is lost.
		w.log.Error().Err(err).Str("name", edit.Name).Msg("Error creating recipe record")
		w.notifier.Notify(recipe.ClassifyReadError(err), LevelDanger)
		return &Result{Status: StatusFailed}, fmt.Errorf("creating recipe: %w", err)
	}

	result := &Result{Status: StatusPublished, RecipeID: id}

	if edit.Photo != "" {
		if err := w.attachPhoto(ctx, usr.ID, id, edit.Photo); err != nil {
			// The record already persists; never roll it back over a photo.
			w.log.Warn().Err(err).Str("recipe_id", string(id)).Msg("Photo failed, recipe saved without image")
			w.notifier.Notify("Recipe saved, but the image could not be uploaded.", LevelWarning)
			result.Status = StatusPublishedWithoutImage
			result.ImageWarning = err.Error()
		}
	}

	w.drafts.Clear()
	w.notifier.Notify(fmt.Sprintf("%q published successfully!", edit.Name), LevelSuccess)

	w.log.Info().
		Str("recipe_id", string(id)).
		Str("author_id", string(usr.ID)).
		Str("status", string(result.Status)).
		Msg("Recipe published")
	return result, nil
}

func (w *Workflow) attachPhoto(ctx context.Context, author model.UserID, id model.RecipeID, photo string) error {
	data, err := decodePhoto(photo)
	if err != nil {
		return fmt.Errorf("decoding photo: %w", err)
	}

	url, err := w.blobs.Upload(ctx, blob.PhotoPath(author, id), data)
	if err != nil {
		return fmt.Errorf("uploading photo: %w", err)
	}

	if err := w.recipes.Update(ctx, id, recipe.Patch{PhotoURL: &url}); err != nil {
		return fmt.Errorf("attaching photo url: %w", err)
	}

	return nil
}

// decodePhoto extracts the binary content from a photo reference, typically
// a base64 data URL captured by the mobile camera.
func decodePhoto(photo string) ([]byte, error) {
	if !strings.HasPrefix(photo, "data:") {
		return []byte(photo), nil
	}

	_, payload, found := strings.Cut(photo, ",")
	if !found {
		return nil, errors.New("malformed data URL")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return data, nil
}

// ListMine returns the current user's recipes, newest first. Failures are
// classified into distinct user-facing messages; the returned list is never
// nil so callers can always render it.
func (w *Workflow) ListMine(ctx context.Context) ([]model.Recipe, error) {
	usr, ok := w.identity.CurrentUser(ctx)
	if !ok {
		return []model.Recipe{}, nil
	}

	recipes, err := w.recipes.QueryByAuthor(ctx, usr.ID)
	if err != nil {
		w.log.Error().Err(err).Str("author_id", string(usr.ID)).Msg("Error listing recipes")
		return []model.Recipe{}, errors.New(recipe.ClassifyReadError(err))
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	return recipes, nil
}

// Delete removes a recipe record. If the record references a photo, the blob
// is deleted first; a failure there is logged and swallowed so it never
// blocks the record deletion.
func (w *Workflow) Delete(ctx context.Context, id model.RecipeID) error {
	rec, err := w.recipes.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading recipe: %w", err)
	}

	if rec.PhotoURL != "" {
		if err := w.blobs.Delete(ctx, rec.PhotoURL); err != nil {
			w.log.Warn().Err(err).Str("recipe_id", string(id)).Msg("Error deleting recipe photo")
		}
	}

	if err := w.recipes.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}

	w.log.Info().Str("recipe_id", string(id)).Msg("Recipe deleted")
	return nil
}
