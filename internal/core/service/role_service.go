package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

const (
	defaultRoleTTL          = 5 * time.Minute
	defaultRoleFetchTimeout = 10 * time.Second
)

// RoleState is the outcome of a role resolution as seen by a guard.
//
// Loading means a fetch is still in flight. A failed resolution leaves Role
// unresolved and sets Err; it must not be read as a student role.
type RoleState struct {
	Role    domain.Role
	Loading bool
	Err     error
}

// Failed reports whether resolution finished without a role.
func (s RoleState) Failed() bool { return !s.Loading && s.Err != nil }

// RoleResolverOptions tunes caching and fetch behaviour.
type RoleResolverOptions struct {
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

// RoleResolver maps an email to exactly one role, fetching it from the
// backend at most once per email until the cache entry expires or is
// invalidated.
type RoleResolver struct {
	source       ports.RoleSource
	cache        ports.RoleCache
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
	log          zerolog.Logger
}

func NewRoleResolver(source ports.RoleSource, cache ports.RoleCache, opts RoleResolverOptions, log zerolog.Logger) *RoleResolver {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultRoleTTL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultRoleFetchTimeout
	}
	if cache == nil {
		cache = NewMemoryRoleCache()
	}
	return &RoleResolver{
		source:       source,
		cache:        cache,
		ttl:          opts.CacheTTL,
		fetchTimeout: opts.FetchTimeout,
		log:          log,
	}
}

// Resolve returns the role for email. With an empty email nothing is
// fetched and the role stays unresolved. If ctx ends before the fetch
// completes the state is Loading; the fetch keeps running and fills the cache.
func (r *RoleResolver) Resolve(ctx context.Context, email string) RoleState {
	email = normalizeEmail(email)
	if email == "" {
		return RoleState{}
	}

	role, ok, err := r.cache.Get(ctx, email)
	if err != nil {
		r.log.Warn().Err(err).Str("email", email).Msg("role cache read failed")
	} else if ok {
		return RoleState{Role: role}
	}

	ch := r.group.DoChan(email, func() (any, error) {
		return r.fetch(email)
	})

	select {
	case <-ctx.Done():
		return RoleState{Loading: true}
	case res := <-ch:
		if res.Err != nil {
			return RoleState{Err: res.Err}
		}
		return RoleState{Role: res.Val.(domain.Role)}
	}
}

// Invalidate drops the cached role so the next Resolve fetches again. A
// fetch already in flight still answers its waiters but does not refill
// the cache.
func (r *RoleResolver) Invalidate(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	err := r.cache.Delete(ctx, email)
	r.group.Forget(email)
	if err != nil {
		return fmt.Errorf("invalidate role: %w", err)
	}
	return nil
}

func (r *RoleResolver) fetch(email string) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.fetchTimeout)
	defer cancel()

	// Read before fetching: an Invalidate that lands while the fetch is in
	// flight moves the generation and the answer is not cached.
	gen, genErr := r.cache.Generation(ctx, email)
	if genErr != nil {
		r.log.Warn().Err(genErr).Str("email", email).Msg("role cache generation read failed, result will not be cached")
	}

	raw, err := r.source.FetchRole(ctx, email)
	if err != nil {
		r.log.Error().Err(err).Str("email", email).Msg("role fetch failed")
		return domain.RoleUnresolved, fmt.Errorf("resolve role: %w", err)
	}

	var role domain.Role
	if strings.TrimSpace(raw) == "" {
		// Backend omitted the field. Whether that is legitimate is unknown;
		// the fallback keeps the account usable as a student.
		r.log.Warn().Str("email", email).Msg("role missing from backend response, defaulting to student")
		role = domain.DefaultRole
	} else {
		parsed, ok := domain.ParseRole(raw)
		if !ok {
			return domain.RoleUnresolved, fmt.Errorf("resolve role %q: %w", raw, domain.ErrUnknownRole)
		}
		role = parsed
	}

	if genErr != nil {
		return role, nil
	}
	stored, err := r.cache.SetIfGeneration(ctx, email, role, r.ttl, gen)
	switch {
	case err != nil:
		r.log.Warn().Err(err).Str("email", email).Msg("role cache write failed")
	case !stored:
		r.log.Debug().Str("email", email).Msg("role invalidated during fetch, not cached")
	}
	return role, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
