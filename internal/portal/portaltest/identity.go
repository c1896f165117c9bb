// Package portaltest provides an in-memory identity backend for tests.
package portaltest

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

// Identity is a ports.IdentityBackend that accepts any password and emits
// state changes in order on its own goroutine.
type Identity struct {
	mu        sync.Mutex
	current   *domain.Identity
	listeners map[int]ports.IdentityListener
	seq       int
	events    chan func()
	signOuts  atomic.Int32

	// SignInErr, when set, is returned by SignIn and Register.
	SignInErr error
	// SignOutErr, when set, is returned by SignOut.
	SignOutErr error
}

var _ ports.IdentityBackend = (*Identity)(nil)

// NewIdentity starts the delivery goroutine; it stops when t ends.
func NewIdentity(t testing.TB) *Identity {
	f := &Identity{listeners: map[int]ports.IdentityListener{}, events: make(chan func(), 64)}
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		for {
			select {
			case fn := <-f.events:
				fn()
			case <-done:
				return
			}
		}
	}()
	return f
}

// SignOuts reports how many times SignOut succeeded.
func (f *Identity) SignOuts() int { return int(f.signOuts.Load()) }

// Set replaces the state as if the backend had emitted identity.
func (f *Identity) Set(identity *domain.Identity) *domain.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = identity.Clone()
	for _, fn := range f.listeners {
		fn := fn
		id := identity.Clone()
		f.events <- func() { fn(id) }
	}
	return identity.Clone()
}

func (f *Identity) Subscribe(fn ports.IdentityListener) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := f.seq
	f.listeners[id] = fn
	cur := f.current.Clone()
	f.events <- func() { fn(cur) }
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

// Person builds the identity the fake signs in for email.
func Person(email string) *domain.Identity {
	name, _, _ := strings.Cut(email, "@")
	return &domain.Identity{
		UID:         "uid-" + email,
		Email:       email,
		DisplayName: name,
		Provider:    "password",
		Credential:  "tok-" + email,
	}
}

func (f *Identity) Register(_ context.Context, email, _ string) (*domain.Identity, error) {
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	return f.Set(Person(email)), nil
}

func (f *Identity) SignIn(_ context.Context, email, _ string) (*domain.Identity, error) {
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	return f.Set(Person(email)), nil
}

func (f *Identity) SignInWithFederated(_ context.Context, cred domain.FederatedCredential) (*domain.Identity, error) {
	if cred.ErrorCode != "" {
		return nil, &domain.CredentialError{Op: "federated_sign_in", Code: domain.CodePopupClosedByUser}
	}
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	id := Person("google-user@example.com")
	id.Provider = "google.com"
	return f.Set(id), nil
}

func (f *Identity) SignOut(context.Context) error {
	if f.SignOutErr != nil {
		return f.SignOutErr
	}
	f.signOuts.Add(1)
	f.Set(nil)
	return nil
}

func (f *Identity) UpdateProfile(_ context.Context, update domain.ProfileUpdate) (*domain.Identity, error) {
	f.mu.Lock()
	cur := f.current.Clone()
	f.mu.Unlock()
	if cur == nil {
		return nil, domain.ErrNotSignedIn
	}
	if update.DisplayName != nil {
		cur.DisplayName = *update.DisplayName
	}
	if update.PhotoURL != nil {
		cur.PhotoURL = *update.PhotoURL
	}
	return f.Set(cur), nil
}

func (f *Identity) RefreshCredential(context.Context) (*domain.Identity, error) {
	f.mu.Lock()
	cur := f.current.Clone()
	f.mu.Unlock()
	if cur == nil {
		return nil, domain.ErrNotSignedIn
	}
	return cur, nil
}
