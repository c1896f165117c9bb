package service

import (
	"context"
	"sync"
	"time"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

// MemoryRoleCache is a process-local RoleCache used when Redis is disabled.
type MemoryRoleCache struct {
	mu          sync.Mutex
	entries     map[string]memoryRoleEntry
	generations map[string]uint64
	now         func() time.Time
}

type memoryRoleEntry struct {
	role      domain.Role
	expiresAt time.Time
}

func NewMemoryRoleCache() *MemoryRoleCache {
	return &MemoryRoleCache{
		entries:     make(map[string]memoryRoleEntry),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

func (c *MemoryRoleCache) Get(_ context.Context, email string) (domain.Role, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[email]
	if !ok {
		return domain.RoleUnresolved, false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, email)
		return domain.RoleUnresolved, false, nil
	}
	return e.role, true, nil
}

func (c *MemoryRoleCache) Generation(_ context.Context, email string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[email], nil
}

func (c *MemoryRoleCache) SetIfGeneration(_ context.Context, email string, role domain.Role, ttl time.Duration, gen uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[email] != gen {
		return false, nil
	}
	e := memoryRoleEntry{role: role}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[email] = e
	return true, nil
}

func (c *MemoryRoleCache) Delete(_ context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, email)
	c.generations[email]++
	return nil
}
