package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

type stubRoleSource struct {
	mu    sync.Mutex
	calls int
	roles map[string]string
	err   error
	// gate, when set, holds every fetch until it is closed.
	gate chan struct{}
}

func (s *stubRoleSource) FetchRole(ctx context.Context, email string) (string, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.roles[email], nil
}

func (s *stubRoleSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestResolver(src *stubRoleSource) *RoleResolver {
	return NewRoleResolver(src, NewMemoryRoleCache(), RoleResolverOptions{}, zerolog.Nop())
}

func TestRoleResolver_EmptyEmailFetchesNothing(t *testing.T) {
	src := &stubRoleSource{}
	r := newTestResolver(src)

	rs := r.Resolve(context.Background(), "  ")
	if rs.Role.Resolved() || rs.Loading || rs.Err != nil {
		t.Fatalf("expected unresolved idle state, got %+v", rs)
	}
	if src.callCount() != 0 {
		t.Fatalf("expected no fetch, got %d", src.callCount())
	}
}

func TestRoleResolver_ResolvesAndCaches(t *testing.T) {
	src := &stubRoleSource{roles: map[string]string{"mod@example.com": "moderator"}}
	r := newTestResolver(src)

	for i := 0; i < 3; i++ {
		rs := r.Resolve(context.Background(), "Mod@Example.com")
		if rs.Role != domain.RoleModerator {
			t.Fatalf("expected moderator, got %+v", rs)
		}
	}
	if src.callCount() != 1 {
		t.Fatalf("expected a single fetch, got %d", src.callCount())
	}
}

func TestRoleResolver_ConcurrentResolvesShareOneFetch(t *testing.T) {
	src := &stubRoleSource{roles: map[string]string{"a@example.com": "admin"}, gate: make(chan struct{})}
	r := newTestResolver(src)

	var wg sync.WaitGroup
	results := make([]RoleState, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), "a@example.com")
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	for i, rs := range results {
		if rs.Role != domain.RoleAdmin {
			t.Fatalf("result %d: expected admin, got %+v", i, rs)
		}
	}
	if src.callCount() != 1 {
		t.Fatalf("expected a single fetch, got %d", src.callCount())
	}
}

func TestRoleResolver_MissingRoleDefaultsToStudent(t *testing.T) {
	src := &stubRoleSource{roles: map[string]string{}}
	r := newTestResolver(src)

	rs := r.Resolve(context.Background(), "new@example.com")
	if rs.Role != domain.RoleStudent {
		t.Fatalf("expected student default, got %+v", rs)
	}
}

func TestRoleResolver_UnknownRoleFails(t *testing.T) {
	src := &stubRoleSource{roles: map[string]string{"x@example.com": "superuser"}}
	r := newTestResolver(src)

	rs := r.Resolve(context.Background(), "x@example.com")
	if !rs.Failed() || !errors.Is(rs.Err, domain.ErrUnknownRole) {
		t.Fatalf("expected unknown role failure, got %+v", rs)
	}
	if rs.Role.Resolved() {
		t.Fatalf("expected role to stay unresolved, got %q", rs.Role)
	}
}

func TestRoleResolver_FetchErrorIsNotStudent(t *testing.T) {
	src := &stubRoleSource{err: errors.New("500")}
	r := newTestResolver(src)

	rs := r.Resolve(context.Background(), "a@example.com")
	if !rs.Failed() {
		t.Fatalf("expected failure, got %+v", rs)
	}
	if rs.Role == domain.RoleStudent {
		t.Fatal("a failed fetch must not read as student")
	}

	// Failures are not cached.
	src.mu.Lock()
	src.err = nil
	src.roles = map[string]string{"a@example.com": "admin"}
	src.mu.Unlock()
	if rs := r.Resolve(context.Background(), "a@example.com"); rs.Role != domain.RoleAdmin {
		t.Fatalf("expected admin after recovery, got %+v", rs)
	}
}

func TestRoleResolver_LoadingWhenContextEndsFirst(t *testing.T) {
	src := &stubRoleSource{roles: map[string]string{"a@example.com": "admin"}, gate: make(chan struct{})}
	r := newTestResolver(src)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	rs := r.Resolve(ctx, "a@example.com")
	if !rs.Loading {
		t.Fatalf("expected loading, got %+v", rs)
	}

	// The detached fetch completes and fills the cache.
	close(src.gate)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if role, ok, _ := r.cache.Get(context.Background(), "a@example.com"); ok && role == domain.RoleAdmin {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected the detached fetch to fill the cache")
}

func TestRoleResolver_InvalidateRefetches(t *testing.T) {
	src := &stubRoleSource{roles: map[string]string{"a@example.com": "student"}}
	r := newTestResolver(src)

	if rs := r.Resolve(context.Background(), "a@example.com"); rs.Role != domain.RoleStudent {
		t.Fatalf("expected student, got %+v", rs)
	}

	src.mu.Lock()
	src.roles["a@example.com"] = "moderator"
	src.mu.Unlock()
	if err := r.Invalidate(context.Background(), "A@example.com"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	if rs := r.Resolve(context.Background(), "a@example.com"); rs.Role != domain.RoleModerator {
		t.Fatalf("expected moderator after invalidation, got %+v", rs)
	}
	if src.callCount() != 2 {
		t.Fatalf("expected 2 fetches, got %d", src.callCount())
	}
}

func TestRoleResolver_InvalidateDuringFetchIsNotCached(t *testing.T) {
	src := &stubRoleSource{roles: map[string]string{"a@example.com": "admin"}, gate: make(chan struct{})}
	r := newTestResolver(src)

	first := make(chan RoleState, 1)
	go func() { first <- r.Resolve(context.Background(), "a@example.com") }()
	time.Sleep(20 * time.Millisecond)

	// Demoted while the admin answer is still on its way.
	if err := r.Invalidate(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	close(src.gate)
	if rs := <-first; rs.Role != domain.RoleAdmin {
		t.Fatalf("expected the in-flight answer for its own caller, got %+v", rs)
	}

	src.mu.Lock()
	src.roles["a@example.com"] = "student"
	src.mu.Unlock()

	if rs := r.Resolve(context.Background(), "a@example.com"); rs.Role != domain.RoleStudent {
		t.Fatalf("expected student after invalidation, got %+v", rs)
	}
	if src.callCount() != 2 {
		t.Fatalf("expected a second fetch, got %d", src.callCount())
	}
}

func TestMemoryRoleCache_DeleteAdvancesGeneration(t *testing.T) {
	c := NewMemoryRoleCache()
	ctx := context.Background()

	gen, _ := c.Generation(ctx, "a@example.com")
	if err := c.Delete(ctx, "a@example.com"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := c.SetIfGeneration(ctx, "a@example.com", domain.RoleAdmin, time.Minute, gen); ok {
		t.Fatal("expected a write with a stale generation to be refused")
	}
	if _, ok, _ := c.Get(ctx, "a@example.com"); ok {
		t.Fatal("expected nothing cached")
	}

	next, _ := c.Generation(ctx, "a@example.com")
	if ok, _ := c.SetIfGeneration(ctx, "a@example.com", domain.RoleStudent, time.Minute, next); !ok {
		t.Fatal("expected a write with the current generation to land")
	}
}

func TestMemoryRoleCache_Expires(t *testing.T) {
	c := NewMemoryRoleCache()
	if ok, err := c.SetIfGeneration(context.Background(), "a@example.com", domain.RoleAdmin, time.Millisecond, 0); err != nil || !ok {
		t.Fatalf("SetIfGeneration: ok=%v err=%v", ok, err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(context.Background(), "a@example.com"); ok {
		t.Fatal("expected entry to expire")
	}
}
