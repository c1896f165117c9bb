package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/service"
)

// AuthHandler exposes the identity operations of the caller's portal instance.
type AuthHandler struct {
	log zerolog.Logger
}

func NewAuthHandler(log zerolog.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

// Register creates an email/password account and signs it in.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	res, err := inst.Identity.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, signInResponse(res, "Registration successful."))
}

// Login signs in with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	identity, err := inst.Identity.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Identity: toIdentityView(identity), Message: "Login successful."})
}

// Google completes a Google sign-in from the ID token the popup returned.
//
// @Summary      Sign in with Google
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleRequest  true  "Popup result"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/google [post]
func (h *AuthHandler) Google(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	var req googleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := inst.Identity.SignInWithFederatedProvider(c.Request().Context(), domain.FederatedCredential{
		ProviderID: "google.com",
		IDToken:    req.IDToken,
		ErrorCode:  req.Error,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, signInResponse(res, "Login successful."))
}

// Logout signs the session out.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	if err := inst.Identity.SignOut(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out."})
}

// UpdateProfile changes the display name and/or photo.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Fields to change"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	inst, err := instanceOf(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if req.DisplayName == nil && req.PhotoURL == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	identity, err := inst.Identity.UpdateProfile(c.Request().Context(), domain.ProfileUpdate{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Identity: toIdentityView(identity), Message: "Profile updated."})
}

func signInResponse(res *service.SignInResult, msg string) authResponse {
	out := authResponse{
		Identity: toIdentityView(res.Identity),
		Upsert:   string(res.Upsert),
		Message:  msg,
	}
	if res.UpsertErr != nil {
		out.UpsertError = "user record could not be saved"
	}
	return out
}
