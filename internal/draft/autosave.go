package draft

import (
	"sync"
	"time"

	"github.com/eatlyst/eatlyst/internal/model"
)

const DefaultAutosaveInterval = 5 * time.Second

// Autosaver periodically snapshots the active edit into a Store. A tick only
// saves when the edit has content, so an untouched form never creates a
// draft. Ticks mid-publish are tolerated: they only ever overwrite the
// draft slot, which is last-write-wins.
type Autosaver struct {
	store    Store
	interval time.Duration

	// source returns the current edit, or nil when the session is gone.
	source func() *model.RecipeEdit

	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
}

func NewAutosaver(store Store, interval time.Duration, source func() *model.RecipeEdit) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{
		store:    store,
		interval: interval,
		source:   source,

		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (a *Autosaver) Start() {
	go a.run()
}

// Stop cancels the autosaver and waits for the loop to exit, so no tick
// fires after it returns. An Autosaver cannot be restarted; start a new one
// for a new session.
func (a *Autosaver) Stop() {
	a.stopOnce.Do(func() {
		close(a.done)
		<-a.finished
	})
}

func (a *Autosaver) run() {
	defer close(a.finished)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			a.tick()
		}
	}
}

func (a *Autosaver) tick() {
	edit := a.source()
	if edit == nil || !edit.HasContent() {
		return
	}

	a.store.Save(Snapshot{
		Recipe:        *edit,
		SelectedPhoto: edit.Photo,
		Timestamp:     time.Now().UTC(),
	})
	draftLogger.Debug().Str("name", edit.Name).Msg("Autosaved draft")
}
