package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

type recordingOutbox struct {
	mu          sync.Mutex
	notices     []domain.Notice
	navigations []string
}

func (o *recordingOutbox) Notify(level domain.NoticeLevel, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notices = append(o.notices, domain.Notice{Level: level, Message: message})
}

func (o *recordingOutbox) Navigate(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.navigations = append(o.navigations, path)
}

const adaCredential = "tok-ada@example.com"

func signedInPolicy(t *testing.T, b *stubBackend) (*ExpiryPolicy, *recordingOutbox) {
	t.Helper()
	p := newTestProvider(t, b, nil)
	if _, err := p.SignIn(testCtx(t), "ada@example.com", "Secret!"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	out := &recordingOutbox{}
	return NewExpiryPolicy(p, out, out, zerolog.Nop()), out
}

func TestExpiryPolicy_UnauthorizedSignsOut(t *testing.T) {
	b := newStubBackend(t)
	policy, out := signedInPolicy(t, b)

	got := policy.SessionRejected(context.Background(), http.StatusUnauthorized, adaCredential)
	if got != ExpiryCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
	if b.signOutCount() != 1 {
		t.Fatalf("expected 1 sign out, got %d", b.signOutCount())
	}
	if len(out.notices) != 1 || out.notices[0].Message != domain.SessionExpiredMessage || out.notices[0].Level != domain.NoticeWarning {
		t.Fatalf("expected one session-expired warning, got %+v", out.notices)
	}
	if len(out.navigations) != 1 || out.navigations[0] != domain.LoginPath {
		t.Fatalf("expected navigation to /login, got %v", out.navigations)
	}
}

func TestExpiryPolicy_ForbiddenSignsOut(t *testing.T) {
	policy, _ := signedInPolicy(t, newStubBackend(t))

	if got := policy.SessionRejected(context.Background(), http.StatusForbidden, adaCredential); got != ExpiryCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

func TestExpiryPolicy_OtherStatusesPassThrough(t *testing.T) {
	b := newStubBackend(t)
	policy, out := signedInPolicy(t, b)

	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		if got := policy.SessionRejected(context.Background(), status, adaCredential); got != ExpirySkipped {
			t.Fatalf("status %d: expected skipped, got %s", status, got)
		}
	}
	if b.signOutCount() != 0 || len(out.notices) != 0 {
		t.Fatal("expected no sign out and no notice")
	}
}

func TestExpiryPolicy_SkippedWithoutIdentity(t *testing.T) {
	b := newStubBackend(t)
	p := newTestProvider(t, b, nil)
	out := &recordingOutbox{}
	policy := NewExpiryPolicy(p, out, out, zerolog.Nop())

	if got := policy.SessionRejected(context.Background(), http.StatusUnauthorized, adaCredential); got != ExpirySkipped {
		t.Fatalf("expected skipped, got %s", got)
	}
	if b.signOutCount() != 0 || len(out.navigations) != 0 {
		t.Fatal("expected nothing to happen without an identity")
	}
}

func TestExpiryPolicy_BurstSignsOutOnce(t *testing.T) {
	b := newStubBackend(t)
	policy, out := signedInPolicy(t, b)
	b.signOutGate = make(chan struct{})

	const burst = 5
	outcomes := make(chan ExpiryOutcome, burst)
	var wg sync.WaitGroup
	for i := 0; i < burst; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes <- policy.SessionRejected(context.Background(), http.StatusUnauthorized, adaCredential)
		}()
	}
	close(b.signOutGate)
	wg.Wait()
	close(outcomes)

	completed := 0
	for o := range outcomes {
		if o == ExpiryCompleted {
			completed++
		}
	}
	if completed != 1 {
		t.Fatalf("expected exactly one completed outcome, got %d", completed)
	}
	if b.signOutCount() != 1 {
		t.Fatalf("expected 1 sign out, got %d", b.signOutCount())
	}
	if len(out.notices) != 1 || len(out.navigations) != 1 {
		t.Fatalf("expected one notice and one navigation, got %d / %d", len(out.notices), len(out.navigations))
	}
}

func TestExpiryPolicy_SignOutFailure(t *testing.T) {
	b := newStubBackend(t)
	policy, out := signedInPolicy(t, b)
	b.mu.Lock()
	b.signOutErr = errors.New("store unavailable")
	b.mu.Unlock()

	if got := policy.SessionRejected(context.Background(), http.StatusUnauthorized, adaCredential); got != ExpirySignOutFailed {
		t.Fatalf("expected signout_failed, got %s", got)
	}
	if len(out.notices) != 0 || len(out.navigations) != 0 {
		t.Fatal("expected no notice or navigation after a failed sign out")
	}

	// A later rejection tries again.
	b.mu.Lock()
	b.signOutErr = nil
	b.mu.Unlock()
	if got := policy.SessionRejected(context.Background(), http.StatusUnauthorized, adaCredential); got != ExpiryCompleted {
		t.Fatalf("expected completed on retry, got %s", got)
	}
}

func TestExpiryPolicy_CancelledRequestStillSignsOut(t *testing.T) {
	b := newStubBackend(t)
	policy, _ := signedInPolicy(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := policy.SessionRejected(ctx, http.StatusUnauthorized, adaCredential); got != ExpiryCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

func TestExpiryPolicy_RejectionOfEarlierIdentityIgnored(t *testing.T) {
	b := newStubBackend(t)
	p := newTestProvider(t, b, nil)
	out := &recordingOutbox{}
	policy := NewExpiryPolicy(p, out, out, zerolog.Nop())

	if _, err := p.SignIn(testCtx(t), "ada@example.com", "Secret!"); err != nil {
		t.Fatalf("SignIn ada: %v", err)
	}
	if err := p.SignOut(testCtx(t)); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := p.SignIn(testCtx(t), "bob@example.com", "Secret!"); err != nil {
		t.Fatalf("SignIn bob: %v", err)
	}

	// ada's request comes back rejected after bob signed in.
	if got := policy.SessionRejected(context.Background(), http.StatusUnauthorized, adaCredential); got != ExpirySkipped {
		t.Fatalf("expected skipped, got %s", got)
	}
	if b.signOutCount() != 1 {
		t.Fatalf("expected only ada's own sign out, got %d", b.signOutCount())
	}
	if st := p.Session().Snapshot(); !st.SignedIn() || st.Identity.Email != "bob@example.com" {
		t.Fatalf("expected bob to stay signed in, got %+v", st.Identity)
	}
	if len(out.notices) != 0 || len(out.navigations) != 0 {
		t.Fatal("expected no notice or navigation for bob")
	}

	// bob's own credential still expires the session.
	if got := policy.SessionRejected(context.Background(), http.StatusUnauthorized, "tok-bob@example.com"); got != ExpiryCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
}

func TestExpiryPolicy_AnonymousRejectionIgnored(t *testing.T) {
	b := newStubBackend(t)
	policy, _ := signedInPolicy(t, b)

	if got := policy.SessionRejected(context.Background(), http.StatusUnauthorized, ""); got != ExpirySkipped {
		t.Fatalf("expected skipped, got %s", got)
	}
	if b.signOutCount() != 0 {
		t.Fatalf("expected no sign out, got %d", b.signOutCount())
	}
}
