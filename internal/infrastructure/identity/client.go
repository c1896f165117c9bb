// Package identity adapts the Firebase Identity Toolkit REST API to the
// IdentityBackend port. Each browser session gets its own Client holding
// that browser's signed-in identity, persisted across gateway restarts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/scholarhub/portal-gateway/internal/api/metrics"
	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/queue"
	"github.com/scholarhub/portal-gateway/pkg/logger"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"

	restoreTimeout = 10 * time.Second
	refreshLeeway  = time.Minute
)

// Hub creates per-session clients sharing one toolkit, store and dispatcher.
type Hub struct {
	toolkit    *Toolkit
	store      ports.IdentityStore
	dispatcher *queue.Dispatcher
	log        zerolog.Logger
	now        func() time.Time
}

func NewHub(toolkit *Toolkit, store ports.IdentityStore, dispatcher *queue.Dispatcher, log zerolog.Logger) *Hub {
	return &Hub{
		toolkit:    toolkit,
		store:      store,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// Open returns the identity backend of one browser session.
func (h *Hub) Open(sessionID string) *Client {
	return &Client{
		hub:       h,
		sessionID: sessionID,
		listeners: make(map[uint64]ports.IdentityListener),
		log:       logger.Session(h.log, sessionID),
	}
}

// Client is the identity backend of one browser session.
type Client struct {
	hub       *Hub
	sessionID string
	log       zerolog.Logger

	mu        sync.Mutex
	identity  *domain.Identity
	emitted   uint64
	restored  bool
	listeners map[uint64]ports.IdentityListener
	seq       uint64

	restoreOnce sync.Once
	refreshes   singleflight.Group
}

var _ ports.IdentityBackend = (*Client)(nil)

// Subscribe registers fn. The first subscription triggers the restore of the
// persisted identity, which is then emitted as the initial state. Later
// subscribers receive the current state once restore has finished.
func (c *Client) Subscribe(fn ports.IdentityListener) func() {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.listeners[id] = fn
	restored := c.restored
	current := c.identity.Clone()
	if restored {
		c.enqueueLocked(current, []ports.IdentityListener{fn})
	}
	c.mu.Unlock()

	c.restoreOnce.Do(func() { go c.restore() })

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) restore() {
	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()

	c.mu.Lock()
	startedAt := c.emitted
	c.mu.Unlock()

	identity := c.loadPersisted(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.restored = true
	if c.emitted != startedAt {
		// A sign-in or sign-out already produced a newer state.
		return
	}
	c.setLocked(identity)
}

func (c *Client) loadPersisted(ctx context.Context) *domain.Identity {
	if c.hub.store == nil {
		return nil
	}
	identity, err := c.hub.store.Load(ctx, c.sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.Warn().Err(err).Msg("persisted identity could not be loaded")
		}
		return nil
	}

	if identity.ExpiresWithin(c.hub.now(), refreshLeeway) {
		refreshed, err := c.refreshIdentity(ctx, identity)
		if err != nil {
			c.log.Info().Err(err).Str("uid", identity.UID).Msg("persisted identity could not be refreshed")
			metrics.IdentityOperationsTotal.WithLabelValues("restore", domain.CredentialCode(err)).Inc()
			if domain.CredentialCode(err) == domain.CodeUserTokenExpired {
				_ = c.hub.store.Delete(ctx, c.sessionID)
			}
			return nil
		}
		identity = refreshed
	}

	if info, err := c.hub.toolkit.lookup(ctx, identity.Credential); err != nil {
		cerr := credentialError("restore", err)
		if domain.CredentialCode(cerr) == domain.CodeUserTokenExpired {
			_ = c.hub.store.Delete(ctx, c.sessionID)
			metrics.IdentityOperationsTotal.WithLabelValues("restore", domain.CodeUserTokenExpired).Inc()
			return nil
		}
		c.log.Warn().Err(err).Msg("identity lookup during restore failed; using persisted profile")
	} else {
		if info.Disabled {
			_ = c.hub.store.Delete(ctx, c.sessionID)
			metrics.IdentityOperationsTotal.WithLabelValues("restore", domain.CodeUserDisabled).Inc()
			return nil
		}
		mergeAccount(identity, info)
	}

	c.persist(ctx, identity)
	metrics.IdentityOperationsTotal.WithLabelValues("restore", "ok").Inc()
	c.log.Debug().Str("uid", identity.UID).Msg("identity restored")
	return identity
}

func (c *Client) Register(ctx context.Context, email, password string) (*domain.Identity, error) {
	resp, err := c.hub.toolkit.signUp(ctx, email, password)
	if err != nil {
		return nil, c.fail("register", err)
	}
	identity, err := c.fromAuth(resp, ProviderPassword)
	if err != nil {
		return nil, c.fail("register", err)
	}
	return c.signedIn(ctx, "register", identity), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	resp, err := c.hub.toolkit.signInWithPassword(ctx, email, password)
	if err != nil {
		return nil, c.fail("sign_in", err)
	}
	identity, err := c.fromAuth(resp, ProviderPassword)
	if err != nil {
		return nil, c.fail("sign_in", err)
	}
	if info, err := c.hub.toolkit.lookup(ctx, identity.Credential); err == nil {
		mergeAccount(identity, info)
	} else {
		c.log.Debug().Err(err).Msg("profile lookup after sign in failed")
	}
	return c.signedIn(ctx, "sign_in", identity), nil
}

func (c *Client) SignInWithFederated(ctx context.Context, cred domain.FederatedCredential) (*domain.Identity, error) {
	const op = "federated_sign_in"
	if cred.ErrorCode != "" {
		err := &domain.CredentialError{Op: op, Code: popupCode(cred.ErrorCode)}
		metrics.IdentityOperationsTotal.WithLabelValues(op, err.Code).Inc()
		return nil, err
	}
	if cred.IDToken == "" {
		err := &domain.CredentialError{Op: op, Code: domain.CodeInvalidCredential}
		metrics.IdentityOperationsTotal.WithLabelValues(op, err.Code).Inc()
		return nil, err
	}
	provider := cred.ProviderID
	if provider == "" {
		provider = ProviderGoogle
	}

	resp, err := c.hub.toolkit.signInWithIdp(ctx, provider, cred.IDToken)
	if err != nil {
		return nil, c.fail(op, err)
	}
	if resp.NeedConfirmation {
		err := &domain.CredentialError{Op: op, Code: domain.CodeAccountExistsWithOtherCredential}
		metrics.IdentityOperationsTotal.WithLabelValues(op, err.Code).Inc()
		return nil, err
	}
	identity, err := c.fromAuth(resp, provider)
	if err != nil {
		return nil, c.fail(op, err)
	}
	return c.signedIn(ctx, op, identity), nil
}

// SignOut forgets the persisted identity and emits the signed-out state.
// When the persisted copy cannot be removed the identity is kept, so a
// restart cannot resurrect a session the user believes is gone.
func (c *Client) SignOut(ctx context.Context) error {
	if c.hub.store != nil {
		if err := c.hub.store.Delete(ctx, c.sessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			metrics.IdentityOperationsTotal.WithLabelValues("sign_out", "error").Inc()
			return fmt.Errorf("sign out: %w", err)
		}
	}

	c.mu.Lock()
	uid := ""
	if c.identity != nil {
		uid = c.identity.UID
	}
	c.setLocked(nil)
	c.mu.Unlock()

	metrics.IdentityOperationsTotal.WithLabelValues("sign_out", "ok").Inc()
	c.log.Info().Str("uid", uid).Msg("signed out")
	return nil
}

func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Identity, error) {
	const op = "update_profile"
	current := c.current()
	if current == nil {
		return nil, domain.ErrNotSignedIn
	}
	if current.ExpiresWithin(c.hub.now(), refreshLeeway) {
		refreshed, err := c.RefreshCredential(ctx)
		if err != nil {
			return nil, err
		}
		current = refreshed
	}

	info, err := c.hub.toolkit.update(ctx, current.Credential, update.DisplayName, update.PhotoURL)
	if err != nil {
		return nil, c.fail(op, err)
	}

	next := current.Clone()
	if update.DisplayName != nil {
		next.DisplayName = *update.DisplayName
	}
	if update.PhotoURL != nil {
		next.PhotoURL = *update.PhotoURL
	}
	mergeAccount(next, info)
	return c.signedIn(ctx, op, next), nil
}

// RefreshCredential exchanges the refresh token. Concurrent callers share
// one exchange.
func (c *Client) RefreshCredential(ctx context.Context) (*domain.Identity, error) {
	v, err, _ := c.refreshes.Do("refresh", func() (any, error) {
		current := c.current()
		if current == nil {
			return nil, domain.ErrNotSignedIn
		}
		next, err := c.refreshIdentity(ctx, current)
		if err != nil {
			metrics.IdentityOperationsTotal.WithLabelValues("refresh", domain.CredentialCode(err)).Inc()
			return nil, err
		}

		c.persist(ctx, next)
		c.mu.Lock()
		// Skip if the user signed out or switched accounts meanwhile.
		if c.identity != nil && c.identity.UID == next.UID {
			c.setLocked(next)
		}
		c.mu.Unlock()
		metrics.IdentityOperationsTotal.WithLabelValues("refresh", "ok").Inc()
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Identity).Clone(), nil
}

func (c *Client) refreshIdentity(ctx context.Context, current *domain.Identity) (*domain.Identity, error) {
	if current.RefreshToken == "" {
		return nil, &domain.CredentialError{Op: "refresh", Code: domain.CodeUserTokenExpired}
	}
	resp, err := c.hub.toolkit.refresh(ctx, current.RefreshToken)
	if err != nil {
		return nil, credentialError("refresh", err)
	}
	next := current.Clone()
	next.Credential = resp.IDToken
	if resp.RefreshToken != "" {
		next.RefreshToken = resp.RefreshToken
	}
	next.ExpiresAt = expiresIn(resp.ExpiresIn, c.hub.now())
	if claims, err := parseIDToken(resp.IDToken); err == nil && !claims.expiry().IsZero() {
		next.ExpiresAt = claims.expiry()
	}
	return next, nil
}

func (c *Client) fromAuth(resp *authResponse, provider string) (*domain.Identity, error) {
	identity := &domain.Identity{
		UID:          resp.LocalID,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		PhotoURL:     resp.PhotoURL,
		Provider:     provider,
		Credential:   resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresIn(resp.ExpiresIn, c.hub.now()),
	}

	claims, err := parseIDToken(resp.IDToken)
	if err != nil {
		return nil, err
	}
	if identity.UID == "" {
		identity.UID = claims.UserID
	}
	if identity.Email == "" {
		identity.Email = claims.Email
	}
	if identity.DisplayName == "" {
		identity.DisplayName = claims.Name
	}
	if identity.PhotoURL == "" {
		identity.PhotoURL = claims.Picture
	}
	if claims.Firebase.SignInProvider != "" {
		identity.Provider = claims.Firebase.SignInProvider
	}
	if exp := claims.expiry(); !exp.IsZero() {
		identity.ExpiresAt = exp
	}
	if identity.UID == "" {
		return nil, errors.New("identity response carried no user id")
	}
	return identity, nil
}

// signedIn persists identity, emits it and returns a copy for the caller.
func (c *Client) signedIn(ctx context.Context, op string, identity *domain.Identity) *domain.Identity {
	c.persist(ctx, identity)

	c.mu.Lock()
	c.setLocked(identity)
	c.mu.Unlock()

	metrics.IdentityOperationsTotal.WithLabelValues(op, "ok").Inc()
	c.log.Info().Str("op", op).Str("uid", identity.UID).Msg("identity updated")
	return identity.Clone()
}

func (c *Client) persist(ctx context.Context, identity *domain.Identity) {
	if c.hub.store == nil {
		return
	}
	if err := c.hub.store.Save(ctx, c.sessionID, identity); err != nil {
		c.log.Warn().Err(err).Str("uid", identity.UID).Msg("identity could not be persisted")
	}
}

func (c *Client) fail(op string, err error) error {
	cerr := credentialError(op, err)
	code := domain.CredentialCode(cerr)
	metrics.IdentityOperationsTotal.WithLabelValues(op, code).Inc()
	c.log.Debug().Err(err).Str("op", op).Str("code", code).Msg("identity operation failed")
	return cerr
}

func (c *Client) current() *domain.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity.Clone()
}

// setLocked replaces the state and enqueues it for every listener. Holding
// c.mu across the enqueue keeps the delivery order equal to the state order.
func (c *Client) setLocked(identity *domain.Identity) {
	c.identity = identity.Clone()
	c.emitted++

	listeners := make([]ports.IdentityListener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.enqueueLocked(identity.Clone(), listeners)
}

func (c *Client) enqueueLocked(identity *domain.Identity, listeners []ports.IdentityListener) {
	if len(listeners) == 0 {
		return
	}
	n := queue.Notification{SessionID: c.sessionID, Identity: identity, Listeners: listeners}
	if err := c.hub.dispatcher.Enqueue(context.Background(), n); err != nil {
		c.log.Error().Err(err).Msg("identity notification dropped")
	}
}

func mergeAccount(identity *domain.Identity, info *accountInfo) {
	if info == nil {
		return
	}
	if info.Email != "" {
		identity.Email = info.Email
	}
	if info.DisplayName != "" {
		identity.DisplayName = info.DisplayName
	}
	if info.PhotoURL != "" {
		identity.PhotoURL = info.PhotoURL
	}
}
