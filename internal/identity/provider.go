// Package identity resolves the current user for a request or session.
package identity

import (
	"context"

	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/rs/zerolog"
)

type Provider interface {
	// CurrentUser returns the authenticated user for ctx, or false when
	// there is none.
	CurrentUser(ctx context.Context) (*model.User, bool)
}

var identityLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	identityLogger = l
}
