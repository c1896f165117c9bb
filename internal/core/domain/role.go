package domain

import "strings"

// Role is the single authorization tier of a session.
type Role string

const (
	// RoleUnresolved is the state before or without a successful role fetch.
	// It is never a denial on its own.
	RoleUnresolved Role = ""
	RoleStudent    Role = "student"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
)

// DefaultRole is substituted when the backend answers without a role field.
const DefaultRole = RoleStudent

// ParseRole maps a backend value onto the closed set of roles.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleModerator:
		return RoleModerator, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return RoleUnresolved, false
	}
}

func (r Role) Resolved() bool { return r != RoleUnresolved }

func (r Role) String() string {
	if r == RoleUnresolved {
		return "unresolved"
	}
	return string(r)
}
