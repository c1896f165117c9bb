package imgbb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

func TestUpload_ReturnsDisplayURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"success":false,"error":{"message":"bad key"}}`)
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("expected image form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		raw, _ := io.ReadAll(file)
		if header.Filename != "campus.png" || string(raw) != "png-bytes" {
			t.Errorf("unexpected upload %q %q", header.Filename, raw)
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"url":"https://i.ibb.co/x/raw.png","display_url":"https://i.ibb.co/x/campus.png"}}`)
	}))
	defer srv.Close()

	u := New(Options{APIKey: "k1", Endpoint: srv.URL}, zerolog.Nop())
	got, err := u.Upload(context.Background(), "/tmp/campus.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://i.ibb.co/x/campus.png" {
		t.Fatalf("expected display url, got %s", got)
	}
}

func TestUpload_FailureWrapsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"success":false,"error":{"message":"Invalid API v1 key."}}`)
	}))
	defer srv.Close()

	u := New(Options{APIKey: "wrong", Endpoint: srv.URL}, zerolog.Nop())
	_, err := u.Upload(context.Background(), "a.png", strings.NewReader("x"))
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
}

func TestUpload_MissingKey(t *testing.T) {
	u := New(Options{}, zerolog.Nop())
	if _, err := u.Upload(context.Background(), "a.png", strings.NewReader("x")); !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
}
