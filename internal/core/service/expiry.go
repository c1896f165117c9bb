package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

const expirySignOutTimeout = 10 * time.Second

// ExpiryOutcome reports what the expiry policy did with a rejected response.
type ExpiryOutcome uint8

const (
	// ExpirySkipped: not a session rejection, already handled, or aimed at
	// a credential the current identity does not own.
	ExpirySkipped ExpiryOutcome = iota
	// ExpiryCompleted: signed out, user notified and sent to sign-in.
	ExpiryCompleted
	// ExpirySignOutFailed: sign-out failed; the original error still propagates.
	ExpirySignOutFailed
)

func (o ExpiryOutcome) String() string {
	switch o {
	case ExpiryCompleted:
		return "completed"
	case ExpirySignOutFailed:
		return "signout_failed"
	default:
		return "skipped"
	}
}

// ExpiryPolicy turns 401/403 backend responses into a forced sign-out.
//
// It is Passthrough until a rejection arrives while an identity is present,
// then Expiring until the sign-out returns. Rejections that arrive while
// Expiring, or after the identity is gone, are skipped, so a burst of
// rejections produces one sign-out and one navigation.
type ExpiryPolicy struct {
	identity  *IdentityProvider
	notifier  ports.Notifier
	navigator ports.Navigator
	log       zerolog.Logger

	mu       sync.Mutex
	expiring bool
}

func NewExpiryPolicy(identity *IdentityProvider, notifier ports.Notifier, navigator ports.Navigator, log zerolog.Logger) *ExpiryPolicy {
	return &ExpiryPolicy{
		identity:  identity,
		notifier:  notifier,
		navigator: navigator,
		log:       log,
	}
}

// SessionRejected handles a response status from the backend for a request
// that carried credential. Only a rejection of the signed-in identity's own
// credential signs out; a late rejection of an earlier identity's request
// is skipped.
func (p *ExpiryPolicy) SessionRejected(ctx context.Context, status int, credential string) ExpiryOutcome {
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		return ExpirySkipped
	}

	p.mu.Lock()
	if p.expiring || !p.identity.Owns(credential) {
		p.mu.Unlock()
		return ExpirySkipped
	}
	p.expiring = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.expiring = false
		p.mu.Unlock()
	}()

	// The caller's request may already be cancelled; the sign-out must still run.
	signOutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), expirySignOutTimeout)
	defer cancel()

	if err := p.identity.SignOut(signOutCtx); err != nil {
		p.log.Error().Err(err).Int("status", status).Msg("sign out after session rejection failed")
		return ExpirySignOutFailed
	}

	p.log.Info().Int("status", status).Msg("session expired, signed out")
	p.notifier.Notify(domain.NoticeWarning, domain.SessionExpiredMessage)
	p.navigator.Navigate(domain.LoginPath)
	return ExpiryCompleted
}
