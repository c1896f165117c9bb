package portal

import (
	"sync"
	"time"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

const maxPendingNotices = 32

// Outbox collects the notices and navigations produced for one browser
// until the browser picks them up. It implements ports.Notifier and
// ports.Navigator.
type Outbox struct {
	mu       sync.Mutex
	notices  []domain.Notice
	redirect string
	changed  chan struct{}
	now      func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{changed: make(chan struct{}), now: time.Now}
}

func (o *Outbox) Notify(level domain.NoticeLevel, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notices = append(o.notices, domain.Notice{Level: level, Message: message, At: o.now().UTC()})
	if len(o.notices) > maxPendingNotices {
		o.notices = o.notices[len(o.notices)-maxPendingNotices:]
	}
	o.signalLocked()
}

// Navigate records the location the browser must move to. A later call
// replaces an earlier one that was not yet taken.
func (o *Outbox) Navigate(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.redirect = path
	o.signalLocked()
}

// Drain returns and clears the pending notices.
func (o *Outbox) Drain() []domain.Notice {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.notices
	o.notices = nil
	if out == nil {
		out = []domain.Notice{}
	}
	return out
}

// TakeRedirect returns and clears the pending navigation.
func (o *Outbox) TakeRedirect() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	path := o.redirect
	o.redirect = ""
	return path, path != ""
}

// Changes returns a channel closed on the next notice or navigation.
func (o *Outbox) Changes() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.changed
}

func (o *Outbox) signalLocked() {
	close(o.changed)
	o.changed = make(chan struct{})
}
