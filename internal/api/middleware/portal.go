package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/service"
	"github.com/scholarhub/portal-gateway/internal/portal"
)

// CookieName holds the browser session id.
const CookieName = "portal_sid"

const (
	instanceKey = "portal_instance"
	identityKey = "identity"
	roleKey     = "role"
)

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// Portal binds the request to the caller's portal instance, issuing a
// session cookie when the browser has none or an unusable one.
func Portal(reg *portal.Registry, opts CookieOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if ck, err := c.Cookie(CookieName); err == nil {
				sid = ck.Value
			}

			inst, err := reg.Open(sid)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session unavailable")
			}
			if inst.ID != sid {
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    inst.ID,
					Path:     "/",
					MaxAge:   int(opts.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(instanceKey, inst)
			return next(c)
		}
	}
}

// InstanceFrom returns the instance bound by Portal.
func InstanceFrom(c echo.Context) *portal.Instance {
	inst, _ := c.Get(instanceKey).(*portal.Instance)
	return inst
}

// IdentityFrom returns the identity admitted by a guard, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}

// RoleFrom returns the role admitted by a role guard.
func RoleFrom(c echo.Context) domain.Role {
	r, _ := c.Get(roleKey).(domain.Role)
	return r
}

// SetInstance binds inst to c. Used by handlers and tests that bypass Portal.
func SetInstance(c echo.Context, inst *portal.Instance) { c.Set(instanceKey, inst) }

func setSession(c echo.Context, st service.SessionState) {
	if st.Identity != nil {
		c.Set(identityKey, st.Identity)
	}
}
