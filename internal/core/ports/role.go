package ports

import (
	"context"
	"time"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

// RoleSource fetches the raw role value for an email. An empty string
// means the backend answered without a role field.
type RoleSource interface {
	FetchRole(ctx context.Context, email string) (string, error)
}

// RoleCache stores resolved roles keyed by email.
//
// Every Delete advances the email's generation. SetIfGeneration writes only
// while the generation still equals gen, so a role fetched before an
// invalidation can never be cached after it.
type RoleCache interface {
	Get(ctx context.Context, email string) (domain.Role, bool, error)
	Generation(ctx context.Context, email string) (uint64, error)
	SetIfGeneration(ctx context.Context, email string, role domain.Role, ttl time.Duration, gen uint64) (bool, error)
	Delete(ctx context.Context, email string) error
}
