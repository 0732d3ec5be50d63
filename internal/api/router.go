package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/perbaikiinaja/dashboard/docs"
	"github.com/perbaikiinaja/dashboard/internal/api/handler"
	"github.com/perbaikiinaja/dashboard/internal/api/metrics"
	"github.com/perbaikiinaja/dashboard/internal/api/middleware"
	"github.com/perbaikiinaja/dashboard/internal/core/access"
	"github.com/perbaikiinaja/dashboard/internal/core/ports"
)

const routeRegister = "/register"

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Session  handler.SessionGate
	Payments ports.PaymentMethodService
	// Audit may be nil when the audit trail is disabled.
	Audit  ports.AuditRepository
	Checks map[string]handler.Check
	Log    zerolog.Logger

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Every dashboard screen is mounted behind the Gate for its catalogue entry.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "dashboard",
		Registerer:                d.Registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Operational endpoints ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session screens (not gated) ---
	sessions := handler.NewSessionHandler(d.Session)
	e.GET("/session", sessions.Session)
	e.GET("/login", sessions.LoginScreen)
	e.POST("/login", sessions.Login)
	e.POST(routeRegister, sessions.Register)
	e.POST("/logout", sessions.Logout)

	// --- Gated screens ---
	gate := func(s access.Screen) echo.MiddlewareFunc {
		return middleware.Gate(d.Session, s, metrics.ObserveDecision)
	}
	dashboard := handler.NewDashboardHandler()
	payments := handler.NewPaymentMethodHandler(d.Payments, d.Audit)

	e.GET(access.Home.Path, dashboard.Home, gate(access.Home))
	e.GET(access.Profile.Path, dashboard.Profile, gate(access.Profile))

	e.GET(access.ActiveMethods.Path, payments.ListActive, gate(access.ActiveMethods))
	e.GET(access.MethodDetail.Path, payments.Detail, gate(access.MethodDetail))

	e.GET(access.AdminMethods.Path, payments.List, gate(access.AdminMethods))
	e.POST(access.AdminMethods.Path, payments.Create, gate(access.AdminMethods))
	e.GET(access.AdminMethodDetail.Path, payments.Get, gate(access.AdminMethodDetail))
	e.PUT(access.AdminMethodDetail.Path, payments.Update, gate(access.AdminMethodDetail))
	e.DELETE(access.AdminMethodDetail.Path, payments.Delete, gate(access.AdminMethodDetail))
	e.GET(access.AdminMethodDetail.Path+"/audit", payments.AuditTrail, gate(access.AdminMethodDetail))
	e.GET(access.AdminStatistics.Path, payments.Statistics, gate(access.AdminStatistics))

	return e
}

// requestLogger feeds echo's request logger into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "http").Logger()
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
