package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/perbaikiinaja/dashboard/internal/core/access"
	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/session"
)

const identityKey = "identity"

// StateSource is the read side of the session.
type StateSource interface {
	State() session.State
}

// Gate runs the access decision for screen before the handler, so restricted
// content is never produced for a visitor that will be redirected:
//   - loading: 202 with a waiting body and Retry-After
//   - redirect: 303 to the decided location
//   - allow: the identity is stored on the context and next runs
//
// observe may be nil.
func Gate(src StateSource, screen access.Screen, observe func(access.Screen, access.Decision)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := src.State()
			d := access.Authorize(st, screen)
			if observe != nil {
				observe(screen, d)
			}

			switch d.Outcome {
			case access.Wait:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusAccepted, map[string]string{
					"status": "loading",
					"screen": screen.Name,
				})
			case access.Redirect:
				return c.Redirect(http.StatusSeeOther, d.Location.String())
			}

			c.Set(identityKey, st.Identity)
			return next(c)
		}
	}
}

// Identity returns the identity the Gate admitted, or nil outside a gated route.
func Identity(c echo.Context) domain.Identity {
	id, _ := c.Get(identityKey).(domain.Identity)
	return id
}
