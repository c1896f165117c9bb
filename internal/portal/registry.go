package portal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/api/metrics"
	"github.com/scholarhub/portal-gateway/pkg/logger"
)

const DefaultIdleTTL = 30 * time.Minute

// Registry maps browser session ids to live instances. Instances idle for
// longer than the idle TTL are closed by Sweep.
type Registry struct {
	deps    Deps
	idleTTL time.Duration
	log     zerolog.Logger
	now     func() time.Time
	build   func(sessionID string, deps Deps) (*Instance, error)

	mu        sync.Mutex
	instances map[string]*Instance
	closed    bool
}

func NewRegistry(deps Deps, idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Registry{
		deps:      deps,
		idleTTL:   idleTTL,
		log:       deps.Log,
		now:       time.Now,
		build:     NewInstance,
		instances: make(map[string]*Instance),
	}
}

// Open returns the instance for sessionID, creating it when needed. An
// empty or malformed id is replaced by a fresh one; the returned instance's
// ID is the id the browser must keep.
func (r *Registry) Open(sessionID string) (*Instance, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, fmt.Errorf("portal registry closed")
	}
	if inst, ok := r.instances[sessionID]; ok {
		inst.Touch(r.now())
		return inst, nil
	}

	inst, err := r.build(sessionID, r.deps)
	if err != nil {
		return nil, fmt.Errorf("open portal instance: %w", err)
	}
	inst.Touch(r.now())
	r.instances[sessionID] = inst
	metrics.PortalInstances.Set(float64(len(r.instances)))
	log := logger.Session(r.log, sessionID)
	log.Debug().Msg("portal instance opened")
	return inst, nil
}

// Get returns a live instance without creating one.
func (r *Registry) Get(sessionID string) (*Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[sessionID]
	return inst, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// Sweep closes instances idle since before now minus the idle TTL and
// returns how many were closed.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	var idle []*Instance
	for id, inst := range r.instances {
		if inst.LastSeen().Before(cutoff) {
			idle = append(idle, inst)
			delete(r.instances, id)
		}
	}
	metrics.PortalInstances.Set(float64(len(r.instances)))
	r.mu.Unlock()

	for _, inst := range idle {
		inst.Close()
	}
	if len(idle) > 0 {
		r.log.Info().Int("closed", len(idle)).Msg("idle portal instances closed")
	}
	return len(idle)
}

// Run sweeps every interval until ctx ends.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = r.idleTTL / 4
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			r.Sweep(t)
		}
	}
}

// Close closes every instance and refuses new ones.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	all := make([]*Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		all = append(all, inst)
	}
	r.instances = make(map[string]*Instance)
	metrics.PortalInstances.Set(0)
	r.mu.Unlock()

	for _, inst := range all {
		inst.Close()
	}
}
