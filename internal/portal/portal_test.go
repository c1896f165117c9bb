package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
	"github.com/scholarhub/portal-gateway/internal/core/service"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/gateway"
	"github.com/scholarhub/portal-gateway/internal/portal/portaltest"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type backendStub struct {
	mu      sync.Mutex
	auth    []string
	handler http.HandlerFunc
}

func (b *backendStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.auth = append(b.auth, r.Header.Get("Authorization"))
	h := b.handler
	b.mu.Unlock()
	h(w, r)
}

func (b *backendStub) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.auth) == 0 {
		return ""
	}
	return b.auth[len(b.auth)-1]
}

func newTestInstance(t *testing.T, handler http.HandlerFunc) (*Instance, *portaltest.Identity, *backendStub) {
	t.Helper()
	stub := &backendStub{handler: handler}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	fake := portaltest.NewIdentity(t)
	inst, err := NewInstance("9b2f7a52-1f7e-4d8e-9a55-3c1c8c4f0a11", Deps{
		OpenIdentity: func(string) ports.IdentityBackend { return fake },
		Gateway:      gateway.Options{BaseURL: srv.URL},
		Log:          zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(inst.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := inst.Session().AwaitResolved(ctx); err != nil {
		t.Fatalf("session never resolved: %v", err)
	}
	return inst, fake, stub
}

func jsonOK(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestInstance_BearerIsReadAtDispatch(t *testing.T) {
	inst, _, stub := newTestInstance(t, jsonOK(`[]`))
	ctx := context.Background()

	if _, err := inst.Applications.ListMine(ctx, "ana@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := stub.lastAuth(); got != "Bearer undefined" {
		t.Fatalf("expected sentinel bearer, got %q", got)
	}

	if _, err := inst.Identity.SignIn(ctx, "ana@example.com", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := inst.Applications.ListMine(ctx, "ana@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := stub.lastAuth(); got != "Bearer tok-ana@example.com" {
		t.Fatalf("expected credential bearer, got %q", got)
	}
}

func TestInstance_RejectedCredentialSignsOutOnce(t *testing.T) {
	inst, fake, _ := newTestInstance(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"unauthorized access"}`))
	})
	ctx := context.Background()
	if _, err := inst.Identity.SignIn(ctx, "ana@example.com", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := inst.Applications.ListMine(ctx, "ana@example.com")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if gateway.StatusOf(err) != http.StatusUnauthorized {
			t.Fatalf("expected the 401 to reach the caller, got %v", err)
		}
	}
	if n := fake.SignOuts(); n != 1 {
		t.Fatalf("expected exactly one sign out, got %d", n)
	}
	if inst.Session().Snapshot().SignedIn() {
		t.Fatal("expected session to be signed out")
	}

	notices := inst.Outbox.Drain()
	if len(notices) != 1 || notices[0].Message != domain.SessionExpiredMessage {
		t.Fatalf("expected one session-expired notice, got %+v", notices)
	}
	if path, ok := inst.Outbox.TakeRedirect(); !ok || path != domain.LoginPath {
		t.Fatalf("expected redirect to %s, got %q", domain.LoginPath, path)
	}
}

func TestInstance_LateRejectionOfPreviousUserKeepsNewSession(t *testing.T) {
	received := make(chan struct{})
	hold := make(chan struct{})
	inst, fake, _ := newTestInstance(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/applications/user/ana@example.com" {
			close(received)
			<-hold
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		jsonOK(`[]`)(w, r)
	})
	ctx := context.Background()
	if _, err := inst.Identity.SignIn(ctx, "ana@example.com", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	errs := make(chan error, 1)
	go func() {
		_, err := inst.Applications.ListMine(ctx, "ana@example.com")
		errs <- err
	}()
	<-received

	if err := inst.Identity.SignOut(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := inst.Identity.SignIn(ctx, "bob@example.com", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(hold)

	if err := <-errs; gateway.StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected the 401 to reach ana's caller, got %v", err)
	}
	if n := fake.SignOuts(); n != 1 {
		t.Fatalf("expected only ana's own sign out, got %d", n)
	}
	st := inst.Session().Snapshot()
	if !st.SignedIn() || st.Identity.Email != "bob@example.com" {
		t.Fatalf("expected bob to stay signed in, got %+v", st.Identity)
	}
	if _, ok := inst.Outbox.TakeRedirect(); ok {
		t.Fatal("expected no navigation for bob")
	}
}

func TestInstance_RejectionWithoutIdentityIsSkipped(t *testing.T) {
	inst, fake, _ := newTestInstance(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := inst.Applications.ListMine(context.Background(), "ana@example.com")
	if gateway.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	if fake.SignOuts() != 0 {
		t.Fatal("expected no sign out without identity")
	}
	if _, ok := inst.Outbox.TakeRedirect(); ok {
		t.Fatal("expected no navigation without identity")
	}
}

func TestInstance_CloseReleasesInterceptors(t *testing.T) {
	inst, _, _ := newTestInstance(t, jsonOK(`{}`))

	if req, resp := inst.Gateway.InterceptorCount(); req != 1 || resp != 1 {
		t.Fatalf("expected one interceptor pair, got %d/%d", req, resp)
	}
	inst.Close()
	inst.Close()
	if req, resp := inst.Gateway.InterceptorCount(); req != 0 || resp != 0 {
		t.Fatalf("expected interceptors removed, got %d/%d", req, resp)
	}
}

func TestInstance_RoleResolvedThroughGateway(t *testing.T) {
	inst, _, stub := newTestInstance(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/mod@example.com/role" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		jsonOK(`{"role":"moderator"}`)(w, r)
	})
	ctx := context.Background()
	if _, err := inst.Identity.SignIn(ctx, "mod@example.com", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rs := inst.Roles.Resolve(ctx, "mod@example.com")
	if rs.Role != domain.RoleModerator {
		t.Fatalf("expected moderator, got %+v", rs)
	}
	if got := stub.lastAuth(); got != "Bearer tok-mod@example.com" {
		t.Fatalf("expected role fetch to carry the credential, got %q", got)
	}
	if d := service.ModeratorOnly(rs); d.Verdict != service.VerdictAllow {
		t.Fatalf("expected allow, got %s", d.Verdict)
	}
}

func TestOutbox_DrainAndRedirect(t *testing.T) {
	o := NewOutbox()
	ch := o.Changes()

	o.Notify(domain.NoticeInfo, "hello")
	select {
	case <-ch:
	default:
		t.Fatal("expected change signal")
	}
	o.Navigate("/a")
	o.Navigate("/b")

	if got := o.Drain(); len(got) != 1 || got[0].Message != "hello" {
		t.Fatalf("unexpected notices: %+v", got)
	}
	if got := o.Drain(); len(got) != 0 {
		t.Fatalf("expected empty after drain, got %+v", got)
	}
	if path, ok := o.TakeRedirect(); !ok || path != "/b" {
		t.Fatalf("expected latest redirect /b, got %q", path)
	}
	if _, ok := o.TakeRedirect(); ok {
		t.Fatal("expected redirect to be consumed")
	}
}

func TestRegistry_OpenReusesAndSweeps(t *testing.T) {
	var built atomic.Int32
	r := NewRegistry(Deps{Log: zerolog.Nop()}, time.Minute)
	r.build = func(sessionID string, deps Deps) (*Instance, error) {
		built.Add(1)
		return &Instance{ID: sessionID, release: func() {}, Identity: service.NewIdentityProvider(portaltest.NewIdentity(t), nil, zerolog.Nop())}, nil
	}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	a, err := r.Open("not-a-uuid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "not-a-uuid" || a.ID == "" {
		t.Fatalf("expected a fresh session id, got %q", a.ID)
	}

	again, _ := r.Open(a.ID)
	if again != a || built.Load() != 1 {
		t.Fatalf("expected the same instance to be reused (built=%d)", built.Load())
	}

	if n := r.Sweep(now.Add(30 * time.Second)); n != 0 {
		t.Fatalf("expected nothing to sweep, got %d", n)
	}
	if n := r.Sweep(now.Add(2 * time.Minute)); n != 1 {
		t.Fatalf("expected one idle instance swept, got %d", n)
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}

	r.Close()
	if _, err := r.Open(""); err == nil {
		t.Fatal("expected open after close to fail")
	}
}
