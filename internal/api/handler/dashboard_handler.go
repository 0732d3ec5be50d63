package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

// DashboardHandler serves the screens that only show the operator's own data.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

type homeResponse struct {
	Greeting string          `json:"greeting"`
	Role     domain.Role     `json:"role"`
	Identity domain.Identity `json:"identity"`
	Screens  []screenLink    `json:"screens"`
}

// Home is the role-aware landing screen. Every role gets the same payload
// shape; the navigation lists only the screens the role may open.
//
// @Summary      Dashboard home
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  homeResponse
// @Success      303
// @Router       /dashboard [get]
func (h *DashboardHandler) Home(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, homeResponse{
		Greeting: "Welcome, " + displayName(id.Base()),
		Role:     id.Role(),
		Identity: id,
		Screens:  links(id),
	})
}

// Profile shows the operator's profile with its role-specific attributes.
//
// @Summary      Profile
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]any
// @Success      303
// @Router       /dashboard/profile [get]
func (h *DashboardHandler) Profile(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}

func displayName(p domain.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}
