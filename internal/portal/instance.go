// Package portal hosts one application instance per browser session.
//
// An instance owns the Session, the identity provider, the gateway client
// with its bearer and expiry interceptors, the role resolver and the
// feature services. The interceptors are installed once when the instance
// is built and released when it is closed.
package portal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/api/metrics"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
	"github.com/scholarhub/portal-gateway/internal/core/service"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/backend"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/gateway"
	"github.com/scholarhub/portal-gateway/pkg/logger"
)

// IdentityOpener returns the identity backend of one browser session.
type IdentityOpener func(sessionID string) ports.IdentityBackend

// Deps are shared by every instance.
type Deps struct {
	OpenIdentity IdentityOpener
	Gateway      gateway.Options
	RoleCache    ports.RoleCache
	Roles        service.RoleResolverOptions
	Uploader     ports.ImageUploader
	Log          zerolog.Logger
}

// Instance is the application instance of one browser.
type Instance struct {
	ID string

	Identity     *service.IdentityProvider
	Roles        *service.RoleResolver
	Expiry       *service.ExpiryPolicy
	Gateway      *gateway.Client
	Outbox       *Outbox
	Scholarships *service.ScholarshipService
	Applications *service.ApplicationService
	Reviews      *service.ReviewService
	Users        *service.UserService

	lastSeen  atomic.Int64
	release   func()
	closeOnce sync.Once
}

// NewInstance wires an instance for sessionID.
func NewInstance(sessionID string, deps Deps) (*Instance, error) {
	log := logger.Session(deps.Log, sessionID)

	gw, err := gateway.New(deps.Gateway, log)
	if err != nil {
		return nil, err
	}
	api := backend.New(gw)
	outbox := NewOutbox()

	identity := service.NewIdentityProvider(deps.OpenIdentity(sessionID), api, log)
	expiry := service.NewExpiryPolicy(identity, outbox, outbox, log)
	release := gw.Secure(identity, func(ctx context.Context, status int, credential string) {
		outcome := expiry.SessionRejected(ctx, status, credential)
		metrics.SessionExpiriesTotal.WithLabelValues(outcome.String()).Inc()
	})

	roles := service.NewRoleResolver(api, deps.RoleCache, deps.Roles, log)

	inst := &Instance{
		ID:           sessionID,
		Identity:     identity,
		Roles:        roles,
		Expiry:       expiry,
		Gateway:      gw,
		Outbox:       outbox,
		Scholarships: service.NewScholarshipService(api, api, deps.Uploader, log),
		Applications: service.NewApplicationService(api, api, api, log),
		Reviews:      service.NewReviewService(api, api),
		Users:        service.NewUserService(api, api, roles, log),
		release:      release,
	}
	inst.Touch(time.Now())
	return inst, nil
}

// Session is the authentication state of this instance.
func (i *Instance) Session() *service.Session { return i.Identity.Session() }

// Touch marks the instance as used at now.
func (i *Instance) Touch(now time.Time) { i.lastSeen.Store(now.UnixNano()) }

func (i *Instance) LastSeen() time.Time { return time.Unix(0, i.lastSeen.Load()) }

// Close removes the interceptors and ends the identity subscription.
// The persisted identity is kept so the browser is restored on its next visit.
func (i *Instance) Close() {
	i.closeOnce.Do(func() {
		i.release()
		i.Identity.Close()
	})
}
