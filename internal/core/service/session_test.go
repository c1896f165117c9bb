package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

func TestSession_StartsResolving(t *testing.T) {
	s := NewSession()
	st := s.Snapshot()
	if !st.Resolving {
		t.Fatal("expected new session to be resolving")
	}
	if st.SignedIn() {
		t.Fatal("expected no identity")
	}
	if st.Version != 0 {
		t.Fatalf("expected version 0, got %d", st.Version)
	}
}

func TestSession_ApplyReplacesWholeState(t *testing.T) {
	s := NewSession()
	changed := s.Changes()

	s.apply(&domain.Identity{UID: "u1", Email: "a@example.com"})

	select {
	case <-changed:
	default:
		t.Fatal("expected change channel to be closed")
	}
	st := s.Snapshot()
	if st.Resolving || st.Version != 1 || st.Email() != "a@example.com" {
		t.Fatalf("unexpected state: %+v", st)
	}

	s.apply(nil)
	st = s.Snapshot()
	if st.SignedIn() || st.Version != 2 || st.Email() != "" {
		t.Fatalf("expected signed out at version 2, got %+v", st)
	}
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	s := NewSession()
	s.apply(&domain.Identity{UID: "u1", DisplayName: "Ada"})

	st := s.Snapshot()
	st.Identity.DisplayName = "changed"

	if got := s.Snapshot().Identity.DisplayName; got != "Ada" {
		t.Fatalf("expected stored identity untouched, got %q", got)
	}
}

func TestSession_AwaitResolved(t *testing.T) {
	s := NewSession()
	done := make(chan SessionState, 1)
	go func() {
		st, _ := s.AwaitResolved(context.Background())
		done <- st
	}()

	time.Sleep(10 * time.Millisecond)
	s.apply(nil)

	select {
	case st := <-done:
		if st.Resolving {
			t.Fatal("expected resolved state")
		}
	case <-time.After(time.Second):
		t.Fatal("AwaitResolved did not return")
	}
}

func TestSession_AwaitHonoursContext(t *testing.T) {
	s := NewSession()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	st, err := s.AwaitResolved(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !st.Resolving {
		t.Fatal("expected last seen state to still be resolving")
	}
}

func TestSession_CloseEndsWaiters(t *testing.T) {
	s := NewSession()
	errCh := make(chan error, 1)
	go func() {
		_, err := s.AwaitResolved(context.Background())
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	s.close()

	select {
	case err := <-errCh:
		if !errors.Is(err, domain.ErrSessionClosed) {
			t.Fatalf("expected ErrSessionClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter not released by close")
	}

	s.apply(&domain.Identity{UID: "late"})
	if s.Snapshot().SignedIn() {
		t.Fatal("expected closed session to ignore updates")
	}
}
