// Package session holds one user's editing session: the in-progress recipe
// edit, its draft slot, and the autosaver. State is passed explicitly so
// concurrent sessions (different users, or tests) never share anything.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/eatlyst/eatlyst/internal/draft"
	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/eatlyst/eatlyst/internal/publish"
	"github.com/rs/zerolog"
)

// Defaults for a fresh edit, matching what the mobile form pre-fills.
func newEdit() model.RecipeEdit {
	return model.RecipeEdit{
		TotalTime:  30,
		Servings:   4,
		Difficulty: model.DifficultyEasy,
		Category:   "other",
	}
}

type Session struct {
	mu   sync.Mutex
	edit model.RecipeEdit

	drafts    draft.Store
	autosaver *draft.Autosaver
	workflow  *publish.Workflow

	notifier  publish.Notifier
	confirmer publish.Confirmer

	log zerolog.Logger
}

func New(
	drafts draft.Store,
	workflow *publish.Workflow,
	notifier publish.Notifier,
	confirmer publish.Confirmer,
	autosaveInterval time.Duration,
	log zerolog.Logger,
) *Session {
	s := &Session{
		edit: newEdit(),

		drafts:   drafts,
		workflow: workflow,

		notifier:  notifier,
		confirmer: confirmer,

		log: log,
	}

	s.autosaver = draft.NewAutosaver(drafts, autosaveInterval, s.snapshotSource)
	return s
}

// Start recovers a previously saved draft, if any, and begins autosaving.
func (s *Session) Start() {
	if snapshot, ok := s.drafts.Load(); ok {
		s.mu.Lock()
		s.edit = snapshot.Recipe.Clone()
		if s.edit.Photo == "" {
			s.edit.Photo = snapshot.SelectedPhoto
		}
		s.mu.Unlock()

		s.log.Info().Str("name", s.Edit().Name).Msg("Draft recovered")
		s.notifier.Notify("Draft recovered! Pick up where you left off.", publish.LevelSuccess)
	}

	s.autosaver.Start()
}

// Close stops the autosaver. The draft, if any, stays for the next session.
func (s *Session) Close() {
	s.autosaver.Stop()
}

func (s *Session) snapshotSource() *model.RecipeEdit {
	s.mu.Lock()
	defer s.mu.Unlock()
	edit := s.edit.Clone()
	return &edit
}

// SetEdit replaces the whole in-progress edit, e.g. with a decoded client
// payload.
func (s *Session) SetEdit(edit model.RecipeEdit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = edit.Clone()
}

// Edit returns a copy of the current edit.
func (s *Session) Edit() model.RecipeEdit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit.Clone()
}

func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit.Name = name
}

func (s *Session) SetInstructions(instructions string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit.Instructions = instructions
}

func (s *Session) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit.Category = category
}

func (s *Session) SetTotalTime(minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit.TotalTime = minutes
}

func (s *Session) SetServings(servings int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit.Servings = servings
}

func (s *Session) SetDifficulty(d model.Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit.Difficulty = d
}

func (s *Session) SetPhoto(photo string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit.Photo = photo
}

// AddIngredient appends a trimmed ingredient line. Blank names and
// non-positive quantities are ignored, matching the form's add button.
func (s *Session) AddIngredient(name string, quantity float64, unit string) {
	name = strings.TrimSpace(name)
	if name == "" || quantity <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit.IngredientLines = append(s.edit.IngredientLines, model.Ingredient{
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
	})
}

func (s *Session) RemoveIngredient(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.edit.IngredientLines) {
		return
	}
	s.edit.IngredientLines = append(s.edit.IngredientLines[:i], s.edit.IngredientLines[i+1:]...)
}

// SaveDraft snapshots the current edit immediately, regardless of content.
func (s *Session) SaveDraft() {
	edit := s.Edit()
	s.drafts.Save(draft.Snapshot{
		Recipe:        edit,
		SelectedPhoto: edit.Photo,
		Timestamp:     time.Now().UTC(),
	})
	s.notifier.Notify("Draft saved! Your data is safe.", publish.LevelSuccess)
}

// Discard asks for confirmation, then drops the draft and resets the edit.
func (s *Session) Discard() bool {
	choice := s.confirmer.Confirm(
		"Delete this draft? Everything you entered will be lost.",
		[]publish.Choice{publish.ChoiceConfirm, publish.ChoiceCancel},
	)
	if choice != publish.ChoiceConfirm {
		return false
	}

	s.drafts.Clear()
	s.mu.Lock()
	s.edit = newEdit()
	s.mu.Unlock()

	s.notifier.Notify("Draft deleted", publish.LevelWarning)
	return true
}

// Publish runs the publication workflow on the current edit. On any outcome
// where the record was created, the in-progress edit is reset; on failure it
// is kept for another attempt.
func (s *Session) Publish(ctx context.Context) (*publish.Result, error) {
	edit := s.Edit()

	result, err := s.workflow.Publish(ctx, &edit)
	if err != nil {
		return result, err
	}

	if result.Status == publish.StatusPublished || result.Status == publish.StatusPublishedWithoutImage {
		s.mu.Lock()
		s.edit = newEdit()
		s.mu.Unlock()
	}

	return result, nil
}
