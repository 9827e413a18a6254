// Package server exposes the recipe service over HTTP. Handlers are thin:
// they decode, delegate to the user's editing session and its publication
// workflow, and encode. All state is keyed by the authenticated user, one
// session with one draft slot each.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eatlyst/eatlyst/internal/blob"
	"github.com/eatlyst/eatlyst/internal/cache"
	"github.com/eatlyst/eatlyst/internal/config"
	"github.com/eatlyst/eatlyst/internal/db"
	"github.com/eatlyst/eatlyst/internal/draft"
	"github.com/eatlyst/eatlyst/internal/identity"
	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/eatlyst/eatlyst/internal/publish"
	"github.com/eatlyst/eatlyst/internal/recipe"
	"github.com/eatlyst/eatlyst/internal/routes"
	"github.com/eatlyst/eatlyst/internal/session"
	"github.com/rs/zerolog"
)

type Server struct {
	db       db.DB
	recipes  recipe.Store
	blobs    blob.Store
	identity identity.Provider

	// One session per user: the session carries the user's in-progress
	// edit, its draft slot, the autosaver and the publication workflow
	// with its re-entrancy guard.
	sessions *cache.Cache[model.UserID, *userSession]

	autosaveInterval time.Duration

	middleware func(http.Handler) http.Handler
	webhook    http.HandlerFunc

	log zerolog.Logger
}

type userSession struct {
	session  *session.Session
	workflow *publish.Workflow
	drafts   draft.Store
	notifier *publish.MemoryNotifier
}

func New(database db.DB, recipes recipe.Store, blobs blob.Store, provider identity.Provider, autosaveInterval time.Duration, log zerolog.Logger) *Server {
	return &Server{
		db:       database,
		recipes:  recipes,
		blobs:    blobs,
		identity: provider,

		sessions: cache.NewCache[model.UserID, *userSession](),

		autosaveInterval: autosaveInterval,

		log: log,
	}
}

// SetAuth installs the authorization middleware and the user webhook
// handler, typically from the Clerk provider.
func (s *Server) SetAuth(middleware func(http.Handler) http.Handler, webhook http.HandlerFunc) {
	s.middleware = middleware
	s.webhook = webhook
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+routes.Healthz, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if s.webhook != nil {
		mux.HandleFunc("POST "+routes.ClerkWebhook, s.webhook)
	}

	api := http.NewServeMux()
	api.HandleFunc("POST "+routes.APIRecipes, s.handlePublish)
	api.HandleFunc("GET "+routes.APIRecipes, s.handleList)
	api.HandleFunc("DELETE "+routes.APIRecipeByID, s.handleDelete)
	api.HandleFunc("GET "+routes.APIDraft, s.handleDraftGet)
	api.HandleFunc("PUT "+routes.APIDraft, s.handleDraftPut)
	api.HandleFunc("DELETE "+routes.APIDraft, s.handleDraftClear)

	var apiHandler http.Handler = api
	if s.middleware != nil {
		apiHandler = s.middleware(api)
	}
	mux.Handle("/api/", apiHandler)

	return mux
}

// userSessionFor lazily builds the per-user session. Construction runs
// inside the cache lock, so concurrent first requests for a user share one
// session and one publish guard.
//
// The HTTP surface has no dialogs: a static confirm answer makes discards
// proceed and leaves validation failures as keep-editing, with clients
// saving drafts explicitly via ?saveDraft=true or the draft endpoints.
func (s *Server) userSessionFor(userID model.UserID) *userSession {
	return s.sessions.GetOrSet(userID, func() *userSession {
		notifier := publish.NewMemoryNotifier()
		confirmer := publish.StaticConfirmer{Choice: publish.ChoiceConfirm}
		drafts := draft.NewSQLiteStore(s.db, string(userID))

		workflow := publish.NewWorkflow(
			s.recipes, s.blobs, s.identity, drafts,
			notifier, confirmer,
			s.log,
		)

		sess := session.New(drafts, workflow, notifier, confirmer, s.autosaveInterval, s.log)
		sess.Start()

		return &userSession{
			session:  sess,
			workflow: workflow,
			drafts:   drafts,
			notifier: notifier,
		}
	})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	usr, ok := s.identity.CurrentUser(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return nil, false
	}
	return usr, true
}

type publishResponse struct {
	ID            model.RecipeID         `json:"id,omitempty"`
	Status        publish.Status         `json:"status"`
	MissingFields []string               `json:"missingFields,omitempty"`
	ImageWarning  string                 `json:"imageWarning,omitempty"`
	Messages      []publish.Notification `json:"messages,omitempty"`
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	usr, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var edit model.RecipeEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid recipe payload"})
		return
	}

	us := s.userSessionFor(usr.ID)
	us.session.SetEdit(edit)

	result, err := us.session.Publish(r.Context())
	if err != nil {
		if errors.Is(err, publish.ErrInFlight) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, publishResponse{
			Status:   publish.StatusFailed,
			Messages: us.notifier.Drain(),
		})
		return
	}

	resp := publishResponse{
		ID:            result.RecipeID,
		Status:        result.Status,
		MissingFields: result.MissingFields,
		ImageWarning:  result.ImageWarning,
		Messages:      us.notifier.Drain(),
	}

	switch result.Status {
	case publish.StatusValidationFailed:
		// The client may still want the draft kept; honor ?saveDraft=true.
		if r.URL.Query().Get("saveDraft") == "true" {
			us.session.SaveDraft()
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		writeJSON(w, http.StatusCreated, resp)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	usr, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	us := s.userSessionFor(usr.ID)
	recipes, err := us.workflow.ListMine(r.Context())
	if err != nil {
		writeJSON(w, readErrorStatus(err), map[string]interface{}{
			"recipes": recipes,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": recipes})
}

// readErrorStatus maps a classified read failure to an HTTP status.
func readErrorStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "permission-denied"):
		return http.StatusForbidden
	case strings.HasPrefix(msg, "network"):
		return http.StatusServiceUnavailable
	case strings.HasPrefix(msg, "not-found"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	usr, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	id := model.RecipeID(r.PathValue("id"))

	rec, err := s.recipes.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}
	if rec.AuthorID != usr.ID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not your recipe"})
		return
	}

	us := s.userSessionFor(usr.ID)
	if err := us.workflow.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDraftGet(w http.ResponseWriter, r *http.Request) {
	usr, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	us := s.userSessionFor(usr.ID)
	snapshot, ok := us.drafts.Load()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleDraftPut(w http.ResponseWriter, r *http.Request) {
	usr, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var snapshot draft.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft payload"})
		return
	}

	edit := snapshot.Recipe
	if edit.Photo == "" {
		edit.Photo = snapshot.SelectedPhoto
	}

	// The snapshot becomes the live edit, so the autosaver keeps it fresh;
	// SaveDraft persists it immediately with a server-side timestamp.
	us := s.userSessionFor(usr.ID)
	us.session.SetEdit(edit)
	us.session.SaveDraft()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDraftClear(w http.ResponseWriter, r *http.Request) {
	usr, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	us := s.userSessionFor(usr.ID)
	us.session.Discard()

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
