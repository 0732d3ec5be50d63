package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/perbaikiinaja/dashboard/internal/api/metrics"
	"github.com/perbaikiinaja/dashboard/internal/core/access"
	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/session"
)

// SessionGate is the session surface the login, register and logout screens drive.
type SessionGate interface {
	State() session.State
	Login(ctx context.Context, email, password string) (domain.Route, error)
	Register(ctx context.Context, input domain.RegisterInput) (domain.Route, error)
	Logout(ctx context.Context) domain.Route
}

type SessionHandler struct {
	gate SessionGate
}

func NewSessionHandler(gate SessionGate) *SessionHandler {
	return &SessionHandler{gate: gate}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Address     string `json:"address"`
}

type screenLink struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Loading       bool            `json:"loading"`
	Identity      domain.Identity `json:"identity,omitempty"`
	Screens       []screenLink    `json:"screens,omitempty"`
}

func newSessionResponse(st session.State) sessionResponse {
	resp := sessionResponse{Authenticated: st.Authenticated(), Loading: st.Loading}
	if st.Identity != nil {
		resp.Identity = st.Identity
		resp.Screens = links(st.Identity)
	}
	return resp
}

func links(id domain.Identity) []screenLink {
	screens := access.Visible(id)
	out := make([]screenLink, 0, len(screens))
	for _, s := range screens {
		out = append(out, screenLink{Name: s.Name, Path: s.Path})
	}
	return out
}

// Session reports the current session state.
//
// @Summary      Session state
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, newSessionResponse(h.gate.State()))
}

// LoginScreen serves the login surface. An operator who is already signed in
// is sent to the dashboard.
//
// @Summary      Login screen
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Success      202  {object}  map[string]string
// @Success      303
// @Router       /login [get]
func (h *SessionHandler) LoginScreen(c echo.Context) error {
	st := h.gate.State()
	switch {
	case st.Loading:
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusAccepted, map[string]string{"status": "loading", "screen": "login"})
	case st.Authenticated():
		return see(c, domain.RouteDashboard)
	}
	return c.JSON(http.StatusOK, newSessionResponse(st))
}

// Login signs the operator in and navigates to the dashboard.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Login credentials"
// @Success      303
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      502   {object}  map[string]string
// @Router       /login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	route, err := h.gate.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("login", "success").Inc()
	return see(c, route)
}

// Register creates an account and signs in with it.
//
// @Summary      Register
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  registerRequest  true  "Registration details"
// @Success      303
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	route, err := h.gate.Register(c.Request().Context(), domain.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("register", "failure").Inc()
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("register", "success").Inc()
	return see(c, route)
}

// Logout signs the operator out. It always succeeds.
//
// @Summary      Logout
// @Tags         session
// @Success      303
// @Router       /logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	return see(c, h.gate.Logout(c.Request().Context()))
}
