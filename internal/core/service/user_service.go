package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

// UserService backs the admin user management and analytics views.
type UserService struct {
	users     ports.UserDirectory
	analytics ports.Analytics
	roles     *RoleResolver
	log       zerolog.Logger
}

func NewUserService(users ports.UserDirectory, analytics ports.Analytics, roles *RoleResolver, log zerolog.Logger) *UserService {
	return &UserService{users: users, analytics: analytics, roles: roles, log: log}
}

// List returns users, optionally only those with role.
func (s *UserService) List(ctx context.Context, role domain.Role) ([]domain.UserRecord, error) {
	users, err := s.users.ListUsers(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.UserRecord{}
	}
	return users, nil
}

// ChangeRole updates a user's role and drops the cached role so guards
// see the change on the next request.
func (s *UserService) ChangeRole(ctx context.Context, email string, role domain.Role) error {
	if !role.Resolved() {
		return fmt.Errorf("change role: %w", domain.ErrUnknownRole)
	}
	if err := s.users.SetUserRole(ctx, email, role); err != nil {
		return fmt.Errorf("change role: %w", err)
	}
	if err := s.roles.Invalidate(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("role cache invalidation failed")
	}
	s.log.Info().Str("email", email).Str("role", role.String()).Msg("user role changed")
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *UserService) Analytics(ctx context.Context) (*domain.Analytics, error) {
	a, err := s.analytics.FetchAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	return a, nil
}
