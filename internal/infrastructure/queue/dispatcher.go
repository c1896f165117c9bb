package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/api/metrics"
	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Notification is one identity state change of one browser session, with
// the listeners that were subscribed when it was emitted.
type Notification struct {
	SessionID string
	Identity  *domain.Identity
	Listeners []ports.IdentityListener
}

// Dispatcher delivers identity notifications on a fixed set of workers,
// sharded by session id, so listeners of one session see its notifications
// in emission order and never concurrently.
type Dispatcher struct {
	workers []chan Notification
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Notification, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands n to the worker owning its session. It blocks while that
// worker's buffer is full, until ctx ends.
func (d *Dispatcher) Enqueue(ctx context.Context, n Notification) error {
	idx := d.shardIndex(n.SessionID)
	select {
	case d.workers[idx] <- n:
		metrics.IdentityDispatchQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Notification) {
	depth := metrics.IdentityDispatchQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.deliver(id, n)
		}
	}
}

func (d *Dispatcher) deliver(worker int, n Notification) {
	for _, fn := range n.Listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.log.Error().
						Interface("panic", r).
						Str("session_id", n.SessionID).
						Int("worker_id", worker).
						Msg("identity listener panicked")
				}
			}()
			fn(n.Identity.Clone())
		}()
	}
}
