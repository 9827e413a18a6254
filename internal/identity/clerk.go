package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/eatlyst/eatlyst/internal/db"
	"github.com/eatlyst/eatlyst/internal/model"
)

// ClerkProvider resolves users from Clerk session claims and mirrors user
// lifecycle webhooks into the local users table.
type ClerkProvider struct { // implements Provider
	db db.DB

	cookieExtractor clerkhttp.AuthorizationOption
}

func NewClerkProvider(clerkKey string, db db.DB) *ClerkProvider {
	clerk.SetKey(clerkKey)

	return &ClerkProvider{
		db: db,

		cookieExtractor: clerkhttp.AuthorizationJWTExtractor(func(r *http.Request) string {
			cookie, err := r.Cookie("__session")
			if err != nil || cookie == nil {
				identityLogger.Debug().Err(err).Msg("Authorization cookie not found")
				return ""
			}
			return cookie.Value
		}),
	}
}

func (c *ClerkProvider) WithHeaderAuthorization() func(http.Handler) http.Handler {
	return clerkhttp.WithHeaderAuthorization(c.cookieExtractor)
}

func (c *ClerkProvider) CurrentUser(ctx context.Context) (*model.User, bool) {
	claims, ok := clerk.SessionClaimsFromContext(ctx)
	if !ok {
		return nil, false
	}

	usr, err := clerkuser.Get(ctx, claims.Subject)
	if err != nil {
		identityLogger.Error().Err(err).Str("subject", claims.Subject).Msg("Error fetching Clerk user")
		return nil, false
	}

	out := &model.User{
		ID:          model.UserID(usr.ID),
		DisplayName: displayName(usr),
	}
	if len(usr.EmailAddresses) > 0 {
		out.Email = usr.EmailAddresses[0].EmailAddress
	}

	return out, true
}

func displayName(usr *clerk.User) string {
	var parts []string
	if usr.FirstName != nil && *usr.FirstName != "" {
		parts = append(parts, *usr.FirstName)
	}
	if usr.LastName != nil && *usr.LastName != "" {
		parts = append(parts, *usr.LastName)
	}
	return strings.Join(parts, " ")
}

// HandleWebhookUser mirrors Clerk user events into the users table. Inserts
// are idempotent: replaying a user.created event, or a webhook racing a
// sign-in, leaves a single row.
func (c *ClerkProvider) HandleWebhookUser(w http.ResponseWriter, r *http.Request) {
	type EventPayload struct {
		Data struct {
			clerk.User
		} `json:"data"`

		Type string `json:"type"`
	}

	var payload EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		identityLogger.Error().Err(err).Msg("Error decoding webhook payload")
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	usr := payload.Data.User
	switch payload.Type {
	case "user.created":
		email := ""
		if len(usr.EmailAddresses) > 0 {
			email = usr.EmailAddresses[0].EmailAddress
		}

		_, err := c.db.Exec(
			`INSERT INTO users (id, display_name, email) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			usr.ID, displayName(&usr), email,
		)
		if err != nil {
			identityLogger.Error().Err(err).Str("user_id", usr.ID).Msg("Error inserting user")
			http.Error(w, "Error saving user", http.StatusInternalServerError)
			return
		}

		identityLogger.Info().Str("user_id", usr.ID).Msg("User created")
		w.WriteHeader(http.StatusCreated)

	case "user.updated":
		_, err := c.db.Exec(
			`UPDATE users SET display_name = ? WHERE id = ?`,
			displayName(&usr), usr.ID,
		)
		if err != nil {
			identityLogger.Error().Err(err).Str("user_id", usr.ID).Msg("Error updating user")
			http.Error(w, "Error updating user", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)

	case "user.deleted":
		_, err := c.db.Exec(`DELETE FROM users WHERE id = ?`, usr.ID)
		if err != nil {
			identityLogger.Error().Err(err).Str("user_id", usr.ID).Msg("Error deleting user")
			http.Error(w, "Error deleting user", http.StatusInternalServerError)
			return
		}

		identityLogger.Info().Str("user_id", usr.ID).Msg("User deleted")
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Invalid event type", http.StatusBadRequest)
	}
}
