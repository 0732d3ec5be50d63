package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/perbaikiinaja/dashboard/internal/api/middleware"
	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

// ctxIdentity returns the identity admitted by the Gate middleware. A missing
// identity means the route was registered without the Gate.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id := middleware.Identity(c)
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return id, nil
}

// see answers a navigation signal: 303 to route.
func see(c echo.Context, route domain.Route) error {
	return c.Redirect(http.StatusSeeOther, route.String())
}
