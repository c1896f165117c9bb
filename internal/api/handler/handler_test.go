package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/api/middleware"
	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/gateway"
	"github.com/scholarhub/portal-gateway/internal/portal"
	"github.com/scholarhub/portal-gateway/internal/portal/portaltest"
)

func newTestRegistry(t *testing.T, backendURL string) *portal.Registry {
	t.Helper()
	fake := portaltest.NewIdentity(t)
	reg := portal.NewRegistry(portal.Deps{
		OpenIdentity: func(string) ports.IdentityBackend { return fake },
		Gateway:      gateway.Options{BaseURL: backendURL},
		Log:          zerolog.Nop(),
	}, time.Minute)
	t.Cleanup(reg.Close)
	return reg
}

func newTestEcho(reg *portal.Registry) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Portal(reg, middleware.CookieOptions{}))
	return e
}

func TestScholarshipList_PageLinks(t *testing.T) {
	var gotQuery string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"scholarships":[{"_id":"s1","scholarshipName":"Rhodes"}],"total":20}`))
	}))
	defer backend.Close()

	e := newTestEcho(newTestRegistry(t, backend.URL))
	e.GET("/api/scholarships", NewScholarshipHandler().List)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scholarships?search=oxford&page=2&sort=bogus", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotQuery == "" {
		t.Fatal("expected the backend to be queried")
	}

	var out struct {
		Query string `json:"query"`
		Next  string `json:"next"`
		Prev  string `json:"prev"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Query != "page=2&search=oxford" {
		t.Fatalf("expected canonical query, got %q", out.Query)
	}
	if out.Next != "page=3&search=oxford" {
		t.Fatalf("expected next page link, got %q", out.Next)
	}
	if out.Prev != "search=oxford" {
		t.Fatalf("expected first page link without page, got %q", out.Prev)
	}
}

func TestSessionNotices_DrainOnce(t *testing.T) {
	reg := newTestRegistry(t, "http://127.0.0.1:1")
	inst, err := reg.Open("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inst.Outbox.Notify(domain.NoticeWarning, domain.SessionExpiredMessage)
	inst.Outbox.Navigate(domain.LoginPath)

	e := newTestEcho(reg)
	e.GET("/api/notices", NewSessionHandler(time.Second, zerolog.Nop()).Notices)

	get := func() streamMessage {
		req := httptest.NewRequest(http.MethodGet, "/api/notices", nil)
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: inst.ID})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var msg streamMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return msg
	}

	first := get()
	if len(first.Notices) != 1 || first.Notices[0].Message != domain.SessionExpiredMessage {
		t.Fatalf("expected the expiry notice, got %+v", first.Notices)
	}
	if first.Redirect != domain.LoginPath {
		t.Fatalf("expected redirect to %s, got %q", domain.LoginPath, first.Redirect)
	}

	second := get()
	if len(second.Notices) != 0 || second.Redirect != "" {
		t.Fatalf("expected nothing pending, got %+v", second)
	}
}

func TestSessionGet_SignedOut(t *testing.T) {
	e := newTestEcho(newTestRegistry(t, "http://127.0.0.1:1"))
	e.GET("/api/session", NewSessionHandler(time.Second, zerolog.Nop()).Get)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Identity != nil || out.Role != "" {
		t.Fatalf("expected no identity and no role, got %+v", out)
	}
}
