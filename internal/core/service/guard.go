package service

import (
	"net/url"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

// Verdict is the outcome of a route guard.
type Verdict uint8

const (
	// VerdictLoading suspends the decision until state is resolved.
	VerdictLoading Verdict = iota
	VerdictAllow
	// VerdictRedirect sends the user to sign in, remembering the requested path.
	VerdictRedirect
	// VerdictForbidden renders the forbidden view in place.
	VerdictForbidden
	// VerdictUnavailable means the role could not be determined.
	VerdictUnavailable
)

func (v Verdict) String() string {
	switch v {
	case VerdictLoading:
		return "loading"
	case VerdictAllow:
		return "allow"
	case VerdictRedirect:
		return "redirect"
	case VerdictForbidden:
		return "forbidden"
	case VerdictUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Decision is what a guard tells the router to do.
type Decision struct {
	Verdict  Verdict
	Location string
	From     string
	Required domain.Role
}

// AuthenticatedOnly gates views that need a signed-in user.
func AuthenticatedOnly(st SessionState, requested string) Decision {
	if st.Resolving {
		return Decision{Verdict: VerdictLoading}
	}
	if st.Identity == nil {
		return Decision{
			Verdict:  VerdictRedirect,
			Location: LoginLocation(requested),
			From:     requested,
		}
	}
	return Decision{Verdict: VerdictAllow}
}

// RoleOnly gates views that need exactly the required role. The role is
// not evaluated while it is loading.
func RoleOnly(required domain.Role, rs RoleState) Decision {
	switch {
	case rs.Loading:
		return Decision{Verdict: VerdictLoading, Required: required}
	case rs.Err != nil || !rs.Role.Resolved():
		return Decision{Verdict: VerdictUnavailable, Required: required}
	case rs.Role != required:
		return Decision{Verdict: VerdictForbidden, Required: required}
	default:
		return Decision{Verdict: VerdictAllow, Required: required}
	}
}

// ModeratorOnly gates moderator views.
func ModeratorOnly(rs RoleState) Decision { return RoleOnly(domain.RoleModerator, rs) }

// AdminOnly gates admin views.
func AdminOnly(rs RoleState) Decision { return RoleOnly(domain.RoleAdmin, rs) }

// LoginLocation builds the sign-in URL that returns to from afterwards.
func LoginLocation(from string) string {
	if from == "" || from == domain.LoginPath {
		return domain.LoginPath
	}
	return domain.LoginPath + "?" + url.Values{"from": {from}}.Encode()
}
