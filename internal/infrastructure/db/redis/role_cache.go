package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

const (
	roleKeyPrefix       = "portal:role:"
	generationKeyPrefix = "portal:rolegen:"
	// generationTTL outlives any role fetch by far; an expired generation
	// only resets the counter for emails nobody invalidated recently.
	generationTTL = 24 * time.Hour
)

// KEYS: role key, generation key. ARGV: role, ttl in ms, expected generation.
var setIfGenerationScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[3] then
	return 0
end
if tonumber(ARGV[2]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// KEYS: role key, generation key. ARGV: generation ttl in ms.
var invalidateScript = redis.NewScript(`
redis.call('DEL', KEYS[1])
local gen = redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
return gen
`)

// RoleCache stores resolved roles in Redis so every gateway replica and
// every browser of the same user share one answer.
// Key format: portal:role:<lower-cased email>, generation in
// portal:rolegen:<lower-cased email>.
type RoleCache struct {
	client redis.Cmdable
}

var _ ports.RoleCache = (*RoleCache)(nil)

// NewRoleCache creates a RoleCache wrapping the given Redis client.
func NewRoleCache(client redis.Cmdable) *RoleCache {
	return &RoleCache{client: client}
}

// Get returns the cached role. A stored value that is no longer a known
// role is treated as a miss.
func (c *RoleCache) Get(ctx context.Context, email string) (domain.Role, bool, error) {
	v, err := c.client.Get(ctx, roleKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.RoleUnresolved, false, nil
	}
	if err != nil {
		return domain.RoleUnresolved, false, fmt.Errorf("role cache get: %w", err)
	}
	role, ok := domain.ParseRole(v)
	if !ok {
		return domain.RoleUnresolved, false, nil
	}
	return role, true, nil
}

func (c *RoleCache) Generation(ctx context.Context, email string) (uint64, error) {
	gen, err := c.client.Get(ctx, generationKey(email)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("role cache generation: %w", err)
	}
	return gen, nil
}

func (c *RoleCache) SetIfGeneration(ctx context.Context, email string, role domain.Role, ttl time.Duration, gen uint64) (bool, error) {
	keys := []string{roleKey(email), generationKey(email)}
	n, err := setIfGenerationScript.Run(ctx, c.client, keys,
		role.String(), ttl.Milliseconds(), strconv.FormatUint(gen, 10)).Int64()
	if err != nil {
		return false, fmt.Errorf("role cache set: %w", err)
	}
	return n == 1, nil
}

// Delete removes the role and advances the generation in one step.
func (c *RoleCache) Delete(ctx context.Context, email string) error {
	keys := []string{roleKey(email), generationKey(email)}
	if err := invalidateScript.Run(ctx, c.client, keys, generationTTL.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("role cache delete: %w", err)
	}
	return nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func roleKey(email string) string       { return roleKeyPrefix + normalize(email) }
func generationKey(email string) string { return generationKeyPrefix + normalize(email) }
