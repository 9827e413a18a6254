// Package draft persists the single in-progress recipe edit so it survives
// process restarts. Persistence is best-effort: losing a draft write must
// never block editing, so the Store contract has no error returns. Failures
// are logged and swallowed, and malformed stored data reads back as
// "no draft".
package draft

import (
	"time"

	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/rs/zerolog"
)

// Snapshot is a point-in-time copy of the active edit. Exactly one snapshot
// exists per store key; saves overwrite, last write wins.
type Snapshot struct {
	Recipe        model.RecipeEdit `json:"recipe"`
	SelectedPhoto string           `json:"selectedPhoto,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

type Store interface {
	// Save overwrites the stored snapshot. Best-effort; never fails visibly.
	Save(s Snapshot)

	// Load returns the last saved snapshot, or false if there is none or the
	// stored data cannot be decoded.
	Load() (*Snapshot, bool)

	// Clear removes the stored snapshot. Clearing an absent draft is not an
	// error.
	Clear()
}

var draftLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	draftLogger = l
}
