package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/perbaikiinaja/dashboard/internal/api/middleware"
	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// validationResponse carries one entry per offending form field.
type validationResponse struct {
	Error  string              `json:"error"`
	Errors []domain.FieldError `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - resolves unauthenticated and unauthorised failures by navigation (303),
//     never as an error body;
//   - renders validation failures as a 422 field list;
//   - surfaces backend failures as a single message;
//   - logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			_ = c.JSON(http.StatusUnprocessableEntity, validationResponse{Error: "validation failed", Errors: verr.Fields})
			return
		}

		if route, ok := redirectFor(err, c); ok {
			_ = c.Redirect(http.StatusSeeOther, route.String())
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// redirectFor maps session failures to navigation. Failures on the login
// and register forms are reported in place instead, since the operator is
// already where a redirect would send them.
func redirectFor(err error, c echo.Context) (domain.Route, bool) {
	if errors.Is(err, domain.ErrInvalidCredentials) || onSignInForm(c) {
		return "", false
	}
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return domain.RouteLogin, true
	case errors.Is(err, domain.ErrForbidden):
		id := middleware.Identity(c)
		if id == nil {
			return "", false
		}
		// Never bounce a screen onto itself.
		if route := id.Role().Fallback(); route.String() != c.Request().URL.Path {
			return route, true
		}
	}
	return "", false
}

func onSignInForm(c echo.Context) bool {
	path := c.Request().URL.Path
	return c.Request().Method == http.MethodPost && (path == domain.RouteLogin.String() || path == routeRegister)
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var be *domain.BackendError

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		if errors.As(err, &be) {
			return http.StatusUnauthorized, be.Error()
		}
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrPaymentMethodNotFound):
		return http.StatusNotFound, "payment method not found"
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusConflict, "this form was already submitted"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, "backend unavailable, try again later"
	case errors.Is(err, domain.ErrMalformedProfile):
		return http.StatusBadGateway, "backend returned an unusable profile"
	case errors.As(err, &be):
		if be.Status >= http.StatusInternalServerError {
			log.Warn().Err(err).Int("backend_status", be.Status).Str("path", c.Path()).Msg("backend failure")
			return http.StatusBadGateway, be.Error()
		}
		return be.Status, be.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
