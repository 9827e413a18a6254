package identity

import (
	"context"

	"github.com/eatlyst/eatlyst/internal/model"
)

// StaticProvider always resolves to a fixed user. Used in tests and in
// single-user deployments with authentication disabled.
type StaticProvider struct { // implements Provider
	User model.User
}

func NewStaticProvider(user model.User) *StaticProvider {
	return &StaticProvider{User: user}
}

func (p *StaticProvider) CurrentUser(ctx context.Context) (*model.User, bool) {
	if p.User.ID == "" {
		return nil, false
	}
	u := p.User
	return &u, true
}

// NoneProvider never resolves a user. Used to exercise unauthenticated
// paths in tests.
type NoneProvider struct{} // implements Provider

func (NoneProvider) CurrentUser(ctx context.Context) (*model.User, bool) {
	return nil, false
}
