package service

import (
	"context"
	"sync"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

// SessionState is an immutable view of the session at one point in time.
type SessionState struct {
	Identity  *domain.Identity
	Resolving bool
	// Version counts applied identity notifications.
	Version uint64
}

// SignedIn reports whether the state carries an identity.
func (s SessionState) SignedIn() bool { return s.Identity != nil }

// Email returns the identity's email, or "" when signed out.
func (s SessionState) Email() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Email
}

// Session holds the authentication state of one portal instance.
//
// The identity subscription of IdentityProvider is its only writer; every
// other component reads snapshots. Each notification replaces the whole
// state, so readers never observe a partially applied identity.
type Session struct {
	mu      sync.RWMutex
	state   SessionState
	changed chan struct{}
	closed  bool
}

// NewSession returns a session that is still resolving its initial identity.
func NewSession() *Session {
	return &Session{
		state:   SessionState{Resolving: true},
		changed: make(chan struct{}),
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Identity = st.Identity.Clone()
	return st
}

// Changes returns a channel that is closed on the next state change.
func (s *Session) Changes() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// Await blocks until pred holds for the current state, ctx ends, or the
// session is closed.
func (s *Session) Await(ctx context.Context, pred func(SessionState) bool) (SessionState, error) {
	for {
		s.mu.RLock()
		st := s.state
		ch := s.changed
		closed := s.closed
		s.mu.RUnlock()

		st.Identity = st.Identity.Clone()
		if pred(st) {
			return st, nil
		}
		if closed {
			return st, domain.ErrSessionClosed
		}

		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-ch:
		}
	}
}

// AwaitResolved blocks until the initial identity has been reported.
func (s *Session) AwaitResolved(ctx context.Context) (SessionState, error) {
	return s.Await(ctx, func(st SessionState) bool { return !st.Resolving })
}

func (s *Session) apply(identity *domain.Identity) SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.state
	}
	s.state = SessionState{
		Identity:  identity.Clone(),
		Resolving: false,
		Version:   s.state.Version + 1,
	}
	close(s.changed)
	s.changed = make(chan struct{})
	return s.state
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.changed)
	s.changed = make(chan struct{})
}
