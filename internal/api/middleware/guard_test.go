package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/gateway"
	"github.com/scholarhub/portal-gateway/internal/portal"
	"github.com/scholarhub/portal-gateway/internal/portal/portaltest"
)

const guardWait = 200 * time.Millisecond

// silentIdentity never reports an initial state, so the session keeps resolving.
type silentIdentity struct{ ports.IdentityBackend }

func (silentIdentity) Subscribe(ports.IdentityListener) func() { return func() {} }

func newInstance(t *testing.T, backend ports.IdentityBackend, roles http.HandlerFunc) *portal.Instance {
	t.Helper()
	if roles == nil {
		roles = func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }
	}
	srv := httptest.NewServer(roles)
	t.Cleanup(srv.Close)

	inst, err := portal.NewInstance("0d9c1b6e-4c1e-4d55-8f2a-5b0f3c7e9a10", portal.Deps{
		OpenIdentity: func(string) ports.IdentityBackend { return backend },
		Gateway:      gateway.Options{BaseURL: srv.URL},
		Log:          zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(inst.Close)
	return inst
}

func signedIn(t *testing.T, email string, roles http.HandlerFunc) *portal.Instance {
	t.Helper()
	fake := portaltest.NewIdentity(t)
	inst := newInstance(t, fake, roles)
	if _, err := inst.Identity.SignIn(context.Background(), email, "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return inst
}

func roleIs(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/user/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"role":"` + role + `"}`))
	}
}

func run(t *testing.T, inst *portal.Instance, target string, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetInstance(c, inst)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called, c
}

func view(t *testing.T, rec *httptest.ResponseRecorder) ViewResponse {
	t.Helper()
	var v ViewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return v
}

func TestRequireAuth_LoadingWhileResolving(t *testing.T) {
	inst := newInstance(t, silentIdentity{}, nil)

	rec, called, _ := run(t, inst, "/api/my/applications", RequireAuth(guardWait))
	if called {
		t.Fatal("next handler must not run while the session resolves")
	}
	if rec.Code != http.StatusAccepted || view(t, rec).View != "loading" {
		t.Fatalf("expected 202 loading, got %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestRequireAuth_RedirectsAnonymousWithAttemptedPath(t *testing.T) {
	inst := newInstance(t, portaltest.NewIdentity(t), nil)

	rec, called, _ := run(t, inst, "/api/my/applications?page=2", RequireAuth(guardWait))
	if called {
		t.Fatal("next handler must not run for an anonymous session")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	want := "/login?from=%2Fapi%2Fmy%2Fapplications%3Fpage%3D2"
	if got := rec.Header().Get(echo.HeaderLocation); got != want {
		t.Fatalf("expected location %s, got %s", want, got)
	}
}

func TestRequireAuth_AllowsSignedIn(t *testing.T) {
	inst := signedIn(t, "ana@example.com", nil)

	rec, called, c := run(t, inst, "/api/my/applications", RequireAuth(guardWait))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next handler to run, got %d", rec.Code)
	}
	if id := IdentityFrom(c); id == nil || id.Email != "ana@example.com" {
		t.Fatalf("expected identity in context, got %+v", id)
	}
}

func TestRequireAdmin_StudentIsForbiddenNotRedirected(t *testing.T) {
	inst := signedIn(t, "stu@example.com", roleIs("student"))

	rec, called, _ := run(t, inst, "/api/admin/users", RequireAdmin(guardWait, zerolog.Nop()))
	if called {
		t.Fatal("student must not reach admin handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if v := view(t, rec); v.View != "forbidden" || v.Required != "admin" {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestRequireAdmin_ModeratorIsForbidden(t *testing.T) {
	inst := signedIn(t, "mod@example.com", roleIs("moderator"))

	rec, called, _ := run(t, inst, "/api/admin/users", RequireAdmin(guardWait, zerolog.Nop()))
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for moderator on admin route, got %d", rec.Code)
	}
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	inst := signedIn(t, "root@example.com", roleIs("admin"))

	rec, called, c := run(t, inst, "/api/admin/users", RequireAdmin(guardWait, zerolog.Nop()))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected admin to pass, got %d", rec.Code)
	}
	if RoleFrom(c) != domain.RoleAdmin {
		t.Fatalf("expected admin role in context, got %q", RoleFrom(c))
	}
}

func TestRequireModerator_ResolutionFailureIsNotForbidden(t *testing.T) {
	inst := signedIn(t, "mod@example.com", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	var logs bytes.Buffer
	rec, called, _ := run(t, inst, "/api/moderator/reviews", RequireModerator(guardWait, zerolog.New(&logs)))
	if called {
		t.Fatal("unresolved role must not be admitted")
	}
	if rec.Code != http.StatusServiceUnavailable || view(t, rec).View != "unavailable" {
		t.Fatalf("expected 503 unavailable, got %d %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(logs.String(), `"message":"role resolution failed"`) || !strings.Contains(logs.String(), `"guard":"moderator"`) {
		t.Fatalf("expected the failure in the guard log, got %q", logs.String())
	}
}

func TestRequireModerator_LoadingWhileRoleFetchIsSlow(t *testing.T) {
	release := make(chan struct{})
	inst := signedIn(t, "mod@example.com", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		roleIs("moderator")(w, r)
	})
	t.Cleanup(func() { close(release) })

	rec, called, _ := run(t, inst, "/api/moderator/reviews", RequireModerator(50*time.Millisecond, zerolog.Nop()))
	if called {
		t.Fatal("role must not be evaluated while loading")
	}
	if rec.Code != http.StatusAccepted || view(t, rec).View != "loading" {
		t.Fatalf("expected 202 loading, got %d", rec.Code)
	}
}

func TestRequireModerator_AnonymousIsRedirected(t *testing.T) {
	inst := newInstance(t, portaltest.NewIdentity(t), roleIs("moderator"))

	rec, called, _ := run(t, inst, "/api/moderator/reviews", RequireModerator(guardWait, zerolog.Nop()))
	if called || rec.Code != http.StatusFound {
		t.Fatalf("expected redirect for anonymous moderator route, got %d", rec.Code)
	}
}
