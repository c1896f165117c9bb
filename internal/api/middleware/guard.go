package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/api/metrics"
	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/service"
)

// ViewResponse is the body rendered when a guard does not allow the request.
type ViewResponse struct {
	View     string `json:"view"`
	Location string `json:"location,omitempty"`
	Required string `json:"required,omitempty"`
}

// RequireAuth admits signed-in sessions. It waits up to wait for the initial
// identity before rendering the loading view.
func RequireAuth(wait time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d, st := authDecision(c, wait)
			metrics.GuardDecisionsTotal.WithLabelValues("auth", d.Verdict.String()).Inc()
			if d.Verdict != service.VerdictAllow {
				return render(c, d)
			}
			setSession(c, st)
			return next(c)
		}
	}
}

// RequireModerator admits signed-in sessions whose role is exactly moderator.
// Failed role resolutions are logged to log.
func RequireModerator(wait time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return requireRole("moderator", domain.RoleModerator, wait, log)
}

// RequireAdmin admits signed-in sessions whose role is exactly admin.
func RequireAdmin(wait time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return requireRole("admin", domain.RoleAdmin, wait, log)
}

func requireRole(guard string, required domain.Role, wait time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d, st := authDecision(c, wait)
			if d.Verdict != service.VerdictAllow {
				metrics.GuardDecisionsTotal.WithLabelValues(guard, d.Verdict.String()).Inc()
				return render(c, d)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), wait)
			rs := InstanceFrom(c).Roles.Resolve(ctx, st.Email())
			cancel()

			d = service.RoleOnly(required, rs)
			metrics.GuardDecisionsTotal.WithLabelValues(guard, d.Verdict.String()).Inc()
			if d.Verdict != service.VerdictAllow {
				if rs.Err != nil {
					log.Warn().
						Err(rs.Err).
						Str("guard", guard).
						Str("email", st.Email()).
						Str("path", c.Request().URL.Path).
						Msg("role resolution failed")
				}
				return render(c, d)
			}
			setSession(c, st)
			c.Set(roleKey, rs.Role)
			return next(c)
		}
	}
}

func authDecision(c echo.Context, wait time.Duration) (service.Decision, service.SessionState) {
	inst := InstanceFrom(c)
	if inst == nil {
		return service.Decision{Verdict: service.VerdictUnavailable}, service.SessionState{}
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), wait)
	defer cancel()

	// A timeout leaves st resolving, which renders the loading view.
	st, _ := inst.Session().AwaitResolved(ctx)
	return service.AuthenticatedOnly(st, c.Request().URL.RequestURI()), st
}

func render(c echo.Context, d service.Decision) error {
	switch d.Verdict {
	case service.VerdictLoading:
		c.Response().Header().Set("Retry-After", strconv.Itoa(1))
		return c.JSON(http.StatusAccepted, ViewResponse{View: "loading"})
	case service.VerdictRedirect:
		c.Response().Header().Set(echo.HeaderLocation, d.Location)
		return c.JSON(http.StatusFound, ViewResponse{View: "redirect", Location: d.Location})
	case service.VerdictForbidden:
		return c.JSON(http.StatusForbidden, ViewResponse{View: "forbidden", Required: d.Required.String()})
	default:
		c.Response().Header().Set("Retry-After", strconv.Itoa(5))
		return c.JSON(http.StatusServiceUnavailable, ViewResponse{View: "unavailable"})
	}
}
