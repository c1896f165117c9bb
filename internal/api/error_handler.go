package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scholarhub/portal-gateway/internal/api/middleware"
	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/gateway"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// credentialStatus maps credential error codes to HTTP statuses. Codes not
// listed are 400.
var credentialStatus = map[string]int{
	domain.CodeUserNotFound:                     http.StatusUnauthorized,
	domain.CodeWrongPassword:                    http.StatusUnauthorized,
	domain.CodeInvalidCredential:                http.StatusUnauthorized,
	domain.CodeUserTokenExpired:                 http.StatusUnauthorized,
	domain.CodeRequiresRecentLogin:              http.StatusUnauthorized,
	domain.CodeEmailAlreadyInUse:                http.StatusConflict,
	domain.CodeAccountExistsWithOtherCredential: http.StatusConflict,
	domain.CodeTooManyRequests:                  http.StatusTooManyRequests,
	domain.CodeUserDisabled:                     http.StatusForbidden,
	domain.CodeNetworkRequestFailed:             http.StatusBadGateway,
	domain.CodeInternalError:                    http.StatusBadGateway,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain, credential and backend errors to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ce *domain.CredentialError
	if errors.As(err, &ce) {
		status, ok := credentialStatus[ce.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		if status >= http.StatusInternalServerError {
			log.Warn().Err(err).Str("path", c.Path()).Msg("identity backend unreachable")
		}
		return status, errorResponse{Error: ce.Message(), Code: ce.Code}
	}

	switch {
	case errors.Is(err, domain.ErrNotSignedIn):
		return http.StatusUnauthorized, errorResponse{Error: "sign in required", Redirect: domain.LoginPath}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, domain.ErrNotCancellable):
		return http.StatusConflict, errorResponse{Error: domain.ErrNotCancellable.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errorResponse{Error: "already exists"}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnknownRole):
		return http.StatusBadRequest, errorResponse{Error: "unknown role"}
	case errors.Is(err, domain.ErrPaymentIncomplete):
		return http.StatusPaymentRequired, errorResponse{Error: domain.ErrPaymentIncomplete.Error()}
	case errors.Is(err, domain.ErrUploadFailed):
		log.Warn().Err(err).Msg("image upload failed")
		return http.StatusBadGateway, errorResponse{Error: "image upload failed"}
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusServiceUnavailable, errorResponse{Error: "session closed"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorResponse{Error: "backend timed out"}
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return backendError(apiErr, log, c)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// backendError relays a backend failure that no service translated. A
// session rejection carries the sign-in redirect queued by the expiry policy.
func backendError(apiErr *gateway.APIError, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	if apiErr.SessionRejected() {
		body := errorResponse{Error: domain.SessionExpiredMessage}
		if inst := middleware.InstanceFrom(c); inst != nil {
			if path, ok := inst.Outbox.TakeRedirect(); ok {
				body.Redirect = path
			} else if !inst.Session().Snapshot().SignedIn() {
				body.Redirect = domain.LoginPath
			}
		}
		return apiErr.Status, body
	}

	if apiErr.Status >= http.StatusInternalServerError {
		log.Error().
			Err(apiErr).
			Str("path", c.Path()).
			Msg("backend error")
		return http.StatusBadGateway, errorResponse{Error: "backend unavailable"}
	}

	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(apiErr.Status)
	}
	return apiErr.Status, errorResponse{Error: msg}
}
