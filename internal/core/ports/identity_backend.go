package ports

import (
	"context"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

// IdentityListener receives every identity state change; nil means signed out.
type IdentityListener func(identity *domain.Identity)

// IdentityBackend is the third-party authentication backend of one browser.
// Successful credential operations also emit the resulting identity to
// every subscribed listener, asynchronously and in emission order.
type IdentityBackend interface {
	Register(ctx context.Context, email, password string) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
	SignInWithFederated(ctx context.Context, cred domain.FederatedCredential) (*domain.Identity, error)
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Identity, error)
	// RefreshCredential exchanges the refresh token for a new bearer credential.
	RefreshCredential(ctx context.Context) (*domain.Identity, error)
	// Subscribe registers fn; the current state is delivered once the
	// backend has finished restoring it.
	Subscribe(fn IdentityListener) (unsubscribe func())
}

// IdentityStore persists the signed-in identity of a browser session.
type IdentityStore interface {
	Load(ctx context.Context, sessionID string) (*domain.Identity, error)
	Save(ctx context.Context, sessionID string, identity *domain.Identity) error
	Delete(ctx context.Context, sessionID string) error
}
