package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/api/handler"
	"github.com/hospos/hospos-client/internal/api/middleware"
	"github.com/hospos/hospos-client/internal/core/domain"
)

// errorResponse is the JSON error envelope used by the probe endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends the browser back to the login page when the backend rejects the session token.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without showing details to the user.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrNotAuthenticated) {
			if cerr := middleware.StoreFrom(c).ClearAuth(c.Request().Context()); cerr != nil {
				log.Warn().Err(cerr).Msg("clear expired session")
			}
			_ = c.Redirect(http.StatusSeeOther, middleware.LoginPath)
			return
		}

		code, msg := resolveError(err, log, c)
		if wantsJSON(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		if rerr := handler.RenderError(c, code, msg); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrConfirmationDeclined):
		return http.StatusBadRequest, "action cancelled"
	case domain.IsFailureKind(err, domain.FailureValidation):
		return http.StatusBadRequest, domain.UserMessage(err, "invalid input")
	case domain.IsFailureKind(err, domain.FailureTransport):
		return http.StatusBadGateway, "the HOSPOS server could not be reached"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func wantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/health") {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
