package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/gateway"
)

func newTestBackend(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	api, err := gateway.New(gateway.Options{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)
	return New(api)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestFetchRole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/mod+1@example.com/role":
			writeJSON(w, http.StatusOK, map[string]string{"role": "moderator"})
		case "/user/blank@example.com/role":
			writeJSON(w, http.StatusOK, map[string]string{})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no user"})
		}
	})
	c := newTestBackend(t, mux)

	role, err := c.FetchRole(context.Background(), "mod+1@example.com")
	require.NoError(t, err)
	assert.Equal(t, "moderator", role)

	role, err = c.FetchRole(context.Background(), "blank@example.com")
	require.NoError(t, err)
	assert.Empty(t, role)

	_, err = c.FetchRole(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, gateway.StatusOf(err), "the backend error stays reachable")
}

func TestUpsertUser(t *testing.T) {
	responses := map[string]func(w http.ResponseWriter){
		"new@example.com": func(w http.ResponseWriter) { writeJSON(w, http.StatusOK, map[string]string{"insertedId": "65f"}) },
		"old@example.com": func(w http.ResponseWriter) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "user already exists"})
		},
		"dup@example.com":  func(w http.ResponseWriter) { writeJSON(w, http.StatusConflict, map[string]string{"message": "exists"}) },
		"fail@example.com": func(w http.ResponseWriter) { writeJSON(w, http.StatusInternalServerError, nil) },
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		var rec domain.UserRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		responses[rec.Email](w)
	})
	c := newTestBackend(t, mux)
	ctx := context.Background()

	out, err := c.UpsertUser(ctx, &domain.UserRecord{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.UpsertInserted, out)

	out, err = c.UpsertUser(ctx, &domain.UserRecord{Email: "old@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.UpsertAlreadyExists, out)

	out, err = c.UpsertUser(ctx, &domain.UserRecord{Email: "dup@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.UpsertAlreadyExists, out)

	_, err = c.UpsertUser(ctx, &domain.UserRecord{Email: "fail@example.com"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, gateway.StatusOf(err))
}

func TestListScholarshipsForwardsFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/scholarships", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "oxford", q.Get("search"))
		assert.Equal(t, "fees_desc", q.Get("sort"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "9", q.Get("limit"))
		assert.False(t, q.Has("country"), "empty filters are omitted")
		writeJSON(w, http.StatusOK, map[string]any{
			"scholarships": []map[string]any{{"_id": "s1", "scholarshipName": "Rhodes"}},
			"total":        10,
		})
	})
	c := newTestBackend(t, mux)

	items, total, err := c.ListScholarships(context.Background(), ports.ScholarshipFilter{
		Search: "oxford", Sort: "fees_desc", Page: 2, Limit: 9,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 10, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Rhodes", items[0].Name)
}

func TestClassifyStatuses(t *testing.T) {
	status := map[string]int{
		"/scholarships/missing": http.StatusNotFound,
		"/scholarships/bad":     http.StatusUnprocessableEntity,
		"/scholarships/taken":   http.StatusConflict,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/scholarships/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status[r.URL.Path], map[string]string{"message": "x"})
	})
	c := newTestBackend(t, mux)
	ctx := context.Background()

	_, err := c.GetScholarship(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.GetScholarship(ctx, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = c.GetScholarship(ctx, "taken")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreatePaymentIntent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/create-payment-intent", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 6000, body["amount"])
		writeJSON(w, http.StatusOK, map[string]string{"clientSecret": "pi_123_secret"})
	})
	c := newTestBackend(t, mux)

	intent, err := c.CreatePaymentIntent(context.Background(), 6000)
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.EqualValues(t, 6000, intent.AmountCents)

	_, err = c.CreatePaymentIntent(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestModerationCalls(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/applications/", func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestBackend(t, mux)

	err := c.UpdateApplicationStatus(context.Background(), "a1", domain.ApplicationCompleted, "well done")
	require.NoError(t, err)
	assert.Equal(t, "/applications/a1/status", gotPath)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, map[string]string{"status": "completed", "feedback": "well done"}, gotBody)
}
