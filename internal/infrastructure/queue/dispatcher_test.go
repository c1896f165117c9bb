package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

func TestDispatcher_PreservesOrderPerSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(4, zerolog.Nop())
	d.Start(ctx)

	const perSession = 50
	sessions := []string{"sid-a", "sid-b", "sid-c"}

	var mu sync.Mutex
	got := map[string][]string{}
	var wg sync.WaitGroup
	wg.Add(perSession * len(sessions))

	for _, sid := range sessions {
		sid := sid
		listener := func(identity *domain.Identity) {
			mu.Lock()
			got[sid] = append(got[sid], identity.UID)
			mu.Unlock()
			wg.Done()
		}
		for i := 0; i < perSession; i++ {
			err := d.Enqueue(ctx, Notification{
				SessionID: sid,
				Identity:  &domain.Identity{UID: fmt.Sprintf("%s-%d", sid, i)},
				Listeners: []ports.IdentityListener{listener},
			})
			if err != nil {
				t.Fatalf("unexpected enqueue error: %v", err)
			}
		}
	}

	waitOrFail(t, &wg)

	for _, sid := range sessions {
		if len(got[sid]) != perSession {
			t.Fatalf("expected %d notifications for %s, got %d", perSession, sid, len(got[sid]))
		}
		for i, uid := range got[sid] {
			if want := fmt.Sprintf("%s-%d", sid, i); uid != want {
				t.Fatalf("expected %s at position %d, got %s", want, i, uid)
			}
		}
	}
}

func TestDispatcher_RecoversFromListenerPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(1, zerolog.Nop())
	d.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	panicky := func(*domain.Identity) { panic("boom") }
	ok := func(*domain.Identity) { wg.Done() }

	if err := d.Enqueue(ctx, Notification{SessionID: "sid", Listeners: []ports.IdentityListener{panicky, ok}}); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}
	waitOrFail(t, &wg)
}

func TestDispatcher_SignedOutNotificationIsNil(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(2, zerolog.Nop())
	d.Start(ctx)

	got := make(chan *domain.Identity, 1)
	listener := func(identity *domain.Identity) { got <- identity }
	if err := d.Enqueue(ctx, Notification{SessionID: "sid", Listeners: []ports.IdentityListener{listener}}); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}

	select {
	case identity := <-got:
		if identity != nil {
			t.Fatalf("expected nil identity, got %+v", identity)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
}

func TestDispatcher_EnqueueHonoursContext(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())
	// Workers are not started, so the buffer fills up.
	for i := 0; i < channelBuffer; i++ {
		if err := d.Enqueue(context.Background(), Notification{SessionID: "sid"}); err != nil {
			t.Fatalf("unexpected enqueue error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Enqueue(ctx, Notification{SessionID: "sid"}); err == nil {
		t.Fatal("expected enqueue on a full shard to fail once ctx ends")
	}
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for notifications")
	}
}
