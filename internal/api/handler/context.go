package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholarhub/portal-gateway/internal/api/middleware"
	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/portal"
)

// instanceOf returns the caller's portal instance. Its absence means the
// Portal middleware did not run, which is a wiring fault.
func instanceOf(c echo.Context) (*portal.Instance, error) {
	inst := middleware.InstanceFrom(c)
	if inst == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "session unavailable")
	}
	return inst, nil
}

// identityOf returns the identity admitted by the guard, falling back to the
// instance's current session for routes without a guard.
func identityOf(c echo.Context, inst *portal.Instance) (*domain.Identity, error) {
	if id := middleware.IdentityFrom(c); id != nil {
		return id, nil
	}
	if id := inst.Session().Snapshot().Identity; id != nil {
		return id, nil
	}
	return nil, domain.ErrNotSignedIn
}

// bindValid binds the request body into req and validates it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
