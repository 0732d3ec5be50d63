package devbackend

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/validation"
)

const accountKey = "account"

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, errorBody{Code: code, Error: http.StatusText(status), Message: msg})
}

func ok(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, envelope{Status: "success", Message: msg, Data: data})
}

// Server exposes Store and Auth over the backend HTTP contract.
type Server struct {
	store *Store
	auth  *Auth
	log   zerolog.Logger
}

func NewServer(store *Store, auth *Auth, log zerolog.Logger) *Server {
	return &Server{store: store, auth: auth, log: log.With().Str("component", "devbackend").Logger()}
}

// Router builds the Echo instance with all routes registered.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	e.POST("/auth/login", s.login)
	e.POST("/auth/register/user", s.register)

	authed := e.Group("", s.requireAuth)
	authed.GET("/profile", s.profile)
	authed.GET("/payment-methods", s.listMethods)
	authed.GET("/payment-methods/:id", s.getMethod)

	admin := authed.Group("", requireRole(domain.RoleAdmin))
	admin.POST("/payment-methods", s.createMethod)
	admin.PUT("/payment-methods/:id", s.updateMethod)
	admin.DELETE("/payment-methods/:id", s.deleteMethod)

	return e
}

// requireAuth validates the bearer token and stores the account on the context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed authorization header")
		}
		acc, err := s.auth.Verify(parts[1])
		if err != nil {
			return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
		}
		c.Set(accountKey, acc)
		return next(c)
	}
}

// requireRole enforces role-based access control after requireAuth.
func requireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acc, _ := c.Get(accountKey).(*account)
			if acc == nil {
				return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
			}
			if _, ok := allowed[acc.Role]; !ok {
				return fail(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
			}
			return next(c)
		}
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
	}
	grant, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		}
		s.log.Error().Err(err).Msg("login failed")
		return fail(c, http.StatusInternalServerError, "INTERNAL", "login failed")
	}
	return c.JSON(http.StatusOK, grant)
}

func (s *Server) register(c echo.Context) error {
	var in domain.RegisterInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "invalid payload")
	}
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" || len(in.Password) < 6 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "fullName, email and a password of at least 6 characters are required")
	}
	switch err := s.auth.Register(in); {
	case errors.Is(err, errEmailTaken):
		return fail(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case err != nil:
		s.log.Error().Err(err).Msg("register failed")
		return fail(c, http.StatusInternalServerError, "INTERNAL", "registration failed")
	}
	return ok(c, http.StatusCreated, "registered", nil)
}

func (s *Server) profile(c echo.Context) error {
	acc := c.Get(accountKey).(*account)
	return c.JSON(http.StatusOK, acc.identity())
}

func (s *Server) listMethods(c echo.Context) error {
	var (
		filter  domain.PaymentMethodFilter
		variant string
	)
	err := echo.QueryParamsBinder(c).
		String("status", &filter.Status).
		String("paymentMethod", &variant).
		Bool("includeDeleted", &filter.IncludeDeleted).
		BindError()
	if err != nil {
		return fail(c, http.StatusBadRequest, "BAD_REQUEST", "invalid query parameters")
	}
	filter.Type = domain.PaymentMethodType(variant)
	return ok(c, http.StatusOK, "payment methods retrieved", s.store.listMethods(filter))
}

func (s *Server) getMethod(c echo.Context) error {
	r, err := s.store.getMethod(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Payment method not found")
	}
	return ok(c, http.StatusOK, "payment method retrieved", r)
}

func (s *Server) createMethod(c echo.Context) error {
	rec, err := s.readValid(c)
	if err != nil || rec == nil {
		return err
	}
	return ok(c, http.StatusCreated, "payment method created", s.store.createMethod(*rec))
}

func (s *Server) updateMethod(c echo.Context) error {
	rec, err := s.readValid(c)
	if err != nil || rec == nil {
		return err
	}
	updated, err := s.store.updateMethod(c.Param("id"), *rec)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Payment method not found")
	}
	return ok(c, http.StatusOK, "payment method updated", updated)
}

func (s *Server) deleteMethod(c echo.Context) error {
	if err := s.store.deleteMethod(c.Param("id")); err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Payment method not found")
	}
	return ok(c, http.StatusOK, "payment method deleted", nil)
}

// readValid decodes and validates the body. A nil record with a nil error
// means the 400 response has already been written.
func (s *Server) readValid(c echo.Context) (*domain.PaymentMethodRecord, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 64<<10))
	if err != nil {
		return nil, fail(c, http.StatusBadRequest, "BAD_REQUEST", "unreadable body")
	}
	rec := validation.DecodeRecord(body)
	pm, errs := validation.Parse(&rec)
	if len(errs) > 0 {
		return nil, fail(c, http.StatusBadRequest, "VALIDATION_ERROR", (&domain.ValidationError{Fields: errs}).Error())
	}
	out := pm.Record()
	return &out, nil
}
