package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

type roleSettingUsers struct {
	stubUsers
	setEmail string
	setRole  domain.Role
}

func (u *roleSettingUsers) SetUserRole(_ context.Context, email string, role domain.Role) error {
	u.setEmail, u.setRole = email, role
	return nil
}

type stubAnalytics struct{}

func (stubAnalytics) FetchAnalytics(context.Context) (*domain.Analytics, error) {
	return &domain.Analytics{TotalUsers: 3}, nil
}

func TestUserService_ChangeRoleInvalidatesCache(t *testing.T) {
	src := &stubRoleSource{roles: map[string]string{"bob@example.com": "student"}}
	roles := newTestResolver(src)
	users := &roleSettingUsers{}
	svc := NewUserService(users, stubAnalytics{}, roles, zerolog.Nop())

	if rs := roles.Resolve(context.Background(), "bob@example.com"); rs.Role != domain.RoleStudent {
		t.Fatalf("expected student, got %+v", rs)
	}
	src.mu.Lock()
	src.roles["bob@example.com"] = "moderator"
	src.mu.Unlock()

	if err := svc.ChangeRole(context.Background(), "bob@example.com", domain.RoleModerator); err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if users.setEmail != "bob@example.com" || users.setRole != domain.RoleModerator {
		t.Fatalf("backend not updated: %q %q", users.setEmail, users.setRole)
	}
	if rs := roles.Resolve(context.Background(), "bob@example.com"); rs.Role != domain.RoleModerator {
		t.Fatalf("expected the guard to see moderator, got %+v", rs)
	}
}

func TestUserService_ChangeRoleRejectsUnresolved(t *testing.T) {
	svc := NewUserService(&roleSettingUsers{}, stubAnalytics{}, newTestResolver(&stubRoleSource{}), zerolog.Nop())

	if err := svc.ChangeRole(context.Background(), "bob@example.com", domain.RoleUnresolved); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestUserService_Analytics(t *testing.T) {
	svc := NewUserService(&roleSettingUsers{}, stubAnalytics{}, newTestResolver(&stubRoleSource{}), zerolog.Nop())

	a, err := svc.Analytics(context.Background())
	if err != nil || a.TotalUsers != 3 {
		t.Fatalf("unexpected analytics: %+v / %v", a, err)
	}
}
