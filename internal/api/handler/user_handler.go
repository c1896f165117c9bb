package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler { return &UserHandler{} }

// List returns the backend's users, optionally filtered by role.
//
// @Summary      Users
// @Tags         admin
// @Produce      json
// @Param        role  query    string  false  "student, moderator or admin"
// @Success      200   {array}  domain.UserRecord
// @Router       /api/admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	var role domain.Role
	if raw := c.QueryParam("role"); raw != "" {
		parsed, ok := domain.ParseRole(raw)
		if !ok {
			return domain.ErrUnknownRole
		}
		role = parsed
	}
	users, err := inst.Users.List(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// ChangeRole sets the role of the user with the given email.
//
// @Summary      Change user role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        email  path      string             true  "User email"
// @Param        body   body      changeRoleRequest  true  "New role"
// @Success      200    {object}  messageResponse
// @Router       /api/admin/users/{email}/role [patch]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	var req changeRoleRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	role, _ := domain.ParseRole(req.Role)
	if err := inst.Users.ChangeRole(c.Request().Context(), c.Param("email"), role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Role updated."})
}

// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Router       /api/admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	if err := inst.Users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted."})
}

// Analytics returns the dashboard figures.
//
// @Summary      Analytics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.Analytics
// @Router       /api/admin/analytics [get]
func (h *UserHandler) Analytics(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	a, err := inst.Users.Analytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}
