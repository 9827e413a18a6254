package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/eatlyst/eatlyst/internal/blob"
	"github.com/eatlyst/eatlyst/internal/config"
	"github.com/eatlyst/eatlyst/internal/db"
	"github.com/eatlyst/eatlyst/internal/draft"
	"github.com/eatlyst/eatlyst/internal/identity"
	"github.com/eatlyst/eatlyst/internal/logger"
	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/eatlyst/eatlyst/internal/recipe"
	"github.com/eatlyst/eatlyst/internal/server"
)

func main() {
	dotenvErr := godotenv.Load()

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	log := logger.New(level)
	setLoggers(log)

	if dotenvErr != nil {
		log.Debug().Err(dotenvErr).Msg("No .env file loaded")
	}

	if err := config.LoadConfig("config.yaml"); err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	cfg := config.AppConfig

	if cfg.Logging.Level != "" {
		log = logger.New(cfg.Logging.Level)
		setLoggers(log)
	}

	database := db.NewSQLite(cfg.Database.Path)
	if err := database.InitDB(); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	defer database.Close()

	recipes := recipe.NewSQLiteStore(database)
	blobs := newBlobStore(cfg, log)
	provider, clerkProvider := newIdentityProvider(cfg, database, log)

	autosaveInterval := time.Duration(cfg.Drafts.AutosaveIntervalSeconds) * time.Second
	srv := server.New(database, recipes, blobs, provider, autosaveInterval, log)
	if clerkProvider != nil {
		srv.SetAuth(clerkProvider.WithHeaderAuthorization(), clerkProvider.HandleWebhookUser)
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("Listening")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setLoggers(log zerolog.Logger) {
	config.SetLogger(log)
	db.SetLogger(log)
	draft.SetLogger(log)
	recipe.SetLogger(log)
	blob.SetLogger(log)
	identity.SetLogger(log)
}

// newBlobStore returns the S3 photo store when an endpoint is configured,
// falling back to the in-memory store for local development.
func newBlobStore(cfg *config.Config, log zerolog.Logger) blob.Store {
	if cfg.Storage.Endpoint == "" {
		log.Warn().Msg("No storage endpoint configured, photos are kept in memory")
		return blob.NewMemoryStore()
	}

	return blob.NewS3Store(
		os.Getenv("S3_ACCESS_KEY_ID"),
		os.Getenv("S3_SECRET_ACCESS_KEY"),
		cfg.Storage.Region,
		cfg.Storage.Endpoint,
		cfg.Storage.Bucket,
		cfg.Storage.PublicBaseURL,
	)
}

// newIdentityProvider picks the identity source. With auth disabled every
// request runs as a fixed development user.
func newIdentityProvider(cfg *config.Config, database db.DB, log zerolog.Logger) (identity.Provider, *identity.ClerkProvider) {
	if !cfg.Auth.Enabled {
		log.Warn().Msg("Authentication disabled, using the development user")
		return identity.NewStaticProvider(model.User{
			ID:          "dev-user",
			DisplayName: "Dev Cook",
		}), nil
	}

	clerkKey := os.Getenv("CLERK_API")
	if clerkKey == "" {
		log.Fatal().Msg("CLERK_API is required when authentication is enabled")
	}

	provider := identity.NewClerkProvider(clerkKey, database)
	return provider, provider
}
