package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

// credentialRefreshLeeway is how close to expiry a credential is refreshed.
const credentialRefreshLeeway = time.Minute

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	PhotoURL string
}

// SignInResult is returned by flows that also create the backend user record.
// A failed upsert does not undo the sign-in; it is reported in UpsertErr.
type SignInResult struct {
	Identity  *domain.Identity
	Upsert    domain.UpsertOutcome
	UpsertErr error
}

// IdentityProvider owns the Session of one portal instance and exposes the
// credential lifecycle of the identity backend.
type IdentityProvider struct {
	backend ports.IdentityBackend
	users   ports.UserDirectory
	session *Session
	log     zerolog.Logger
	now     func() time.Time

	unsubscribe func()
	closeOnce   sync.Once

	// refreshed is the last credential handed out by a refresh that the
	// session may not reflect yet.
	refreshMu sync.Mutex
	refreshed issuedCredential
}

type issuedCredential struct {
	uid   string
	token string
}

// NewIdentityProvider subscribes to the backend's state-change stream. The
// subscription lives until Close.
func NewIdentityProvider(backend ports.IdentityBackend, users ports.UserDirectory, log zerolog.Logger) *IdentityProvider {
	p := &IdentityProvider{
		backend: backend,
		users:   users,
		session: NewSession(),
		log:     log,
		now:     time.Now,
	}
	p.unsubscribe = backend.Subscribe(p.onStateChange)
	return p
}

// Session returns the session this provider writes to.
func (p *IdentityProvider) Session() *Session { return p.session }

func (p *IdentityProvider) onStateChange(identity *domain.Identity) {
	st := p.session.apply(identity)
	ev := p.log.Debug().Uint64("version", st.Version)
	if identity != nil {
		ev = ev.Str("uid", identity.UID)
	}
	ev.Bool("signed_in", identity != nil).Msg("session updated")
}

// Register creates an email/password account, applies the optional profile
// fields and creates the backend user record.
func (p *IdentityProvider) Register(ctx context.Context, in RegisterInput) (*SignInResult, error) {
	v0 := p.session.Snapshot().Version

	identity, err := p.backend.Register(ctx, strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		return nil, err
	}

	if in.Name != "" || in.PhotoURL != "" {
		update := domain.ProfileUpdate{}
		if in.Name != "" {
			update.DisplayName = &in.Name
		}
		if in.PhotoURL != "" {
			update.PhotoURL = &in.PhotoURL
		}
		updated, err := p.backend.UpdateProfile(ctx, update)
		if err != nil {
			p.log.Warn().Err(err).Str("uid", identity.UID).Msg("profile update after registration failed")
		} else {
			identity = updated
		}
	}

	if _, err := p.awaitIdentity(ctx, v0, identity.UID); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	res := &SignInResult{Identity: identity}
	res.Upsert, res.UpsertErr = p.upsertUser(ctx, identity)
	return res, nil
}

// SignIn verifies an email/password credential.
func (p *IdentityProvider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	v0 := p.session.Snapshot().Version

	identity, err := p.backend.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	if _, err := p.awaitIdentity(ctx, v0, identity.UID); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return identity, nil
}

// SignInWithFederatedProvider completes a federated sign-in and upserts the
// backend user record ("inserted" and "already exists" are both success).
func (p *IdentityProvider) SignInWithFederatedProvider(ctx context.Context, cred domain.FederatedCredential) (*SignInResult, error) {
	v0 := p.session.Snapshot().Version

	identity, err := p.backend.SignInWithFederated(ctx, cred)
	if err != nil {
		return nil, err
	}
	if _, err := p.awaitIdentity(ctx, v0, identity.UID); err != nil {
		return nil, fmt.Errorf("federated sign in: %w", err)
	}

	res := &SignInResult{Identity: identity}
	res.Upsert, res.UpsertErr = p.upsertUser(ctx, identity)
	return res, nil
}

// SignOut tears the session down. It returns once the session is signed out.
func (p *IdentityProvider) SignOut(ctx context.Context) error {
	if err := p.backend.SignOut(ctx); err != nil {
		return err
	}
	_, err := p.session.Await(ctx, func(st SessionState) bool {
		return !st.Resolving && st.Identity == nil
	})
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// UpdateProfile changes the display name and/or photo of the current identity.
func (p *IdentityProvider) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Identity, error) {
	st := p.session.Snapshot()
	if !st.SignedIn() {
		return nil, domain.ErrNotSignedIn
	}

	identity, err := p.backend.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	if _, err := p.awaitIdentity(ctx, st.Version, identity.UID); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return identity, nil
}

// Credential returns the bearer credential of the current identity, read at
// call time. A credential about to expire is refreshed first; if the refresh
// fails the old credential is returned and the backend decides.
func (p *IdentityProvider) Credential(ctx context.Context) (string, bool) {
	st := p.session.Snapshot()
	if st.Identity == nil {
		return "", false
	}
	if !st.Identity.ExpiresWithin(p.now(), credentialRefreshLeeway) {
		return st.Identity.Credential, true
	}

	refreshed, err := p.backend.RefreshCredential(ctx)
	if err != nil {
		p.log.Warn().Err(err).Str("uid", st.Identity.UID).Msg("credential refresh failed")
		return st.Identity.Credential, true
	}
	p.refreshMu.Lock()
	p.refreshed = issuedCredential{uid: st.Identity.UID, token: refreshed.Credential}
	p.refreshMu.Unlock()
	return refreshed.Credential, true
}

// Owns reports whether credential was issued to the identity that is signed
// in now. A credential of an earlier identity, or none at all, is not owned.
func (p *IdentityProvider) Owns(credential string) bool {
	if credential == "" {
		return false
	}
	id := p.session.Snapshot().Identity
	if id == nil {
		return false
	}
	if credential == id.Credential {
		return true
	}
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()
	return p.refreshed.uid == id.UID && p.refreshed.token == credential
}

// Close releases the identity subscription. The session stops accepting updates.
func (p *IdentityProvider) Close() {
	p.closeOnce.Do(func() {
		if p.unsubscribe != nil {
			p.unsubscribe()
		}
		p.session.close()
	})
}

// awaitIdentity waits for a notification newer than v0 carrying uid.
func (p *IdentityProvider) awaitIdentity(ctx context.Context, v0 uint64, uid string) (SessionState, error) {
	return p.session.Await(ctx, func(st SessionState) bool {
		return st.Version > v0 && st.Identity != nil && st.Identity.UID == uid
	})
}

func (p *IdentityProvider) upsertUser(ctx context.Context, identity *domain.Identity) (domain.UpsertOutcome, error) {
	if p.users == nil {
		return "", nil
	}
	outcome, err := p.users.UpsertUser(ctx, &domain.UserRecord{
		Name:  identity.DisplayName,
		Email: identity.Email,
		Photo: identity.PhotoURL,
		Role:  domain.RoleStudent,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.UpsertAlreadyExists, nil
		}
		p.log.Error().Err(err).Str("email", identity.Email).Msg("user record upsert failed")
		return "", fmt.Errorf("upsert user: %w", err)
	}
	return outcome, nil
}
