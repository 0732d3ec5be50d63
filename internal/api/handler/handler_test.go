package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/perbaikiinaja/dashboard/internal/api/middleware"
	"github.com/perbaikiinaja/dashboard/internal/core/access"
	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/session"
)

var (
	testAdmin = domain.Admin{Profile: domain.Profile{ID: "admin-1", FullName: "Rina", Email: "rina@example.com"}}
	testUser  = domain.User{Profile: domain.Profile{ID: "user-1", Email: "budi@example.com"}}
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// serve runs h for a single request, optionally through the Gate for screen.
func serve(h echo.HandlerFunc, method, target, body string, st *session.State, screen access.Screen) (*httptest.ResponseRecorder, error) {
	e := newEcho()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if st != nil {
		h = middleware.Gate(fixedState(*st), screen, nil)(h)
	}
	return rec, h(c)
}

type fixedState session.State

func (f fixedState) State() session.State { return session.State(f) }

func signedIn(id domain.Identity) *session.State {
	return &session.State{Identity: id}
}

// stubSessionGate records the calls made by the session screens.
type stubSessionGate struct {
	state      session.State
	loginErr   error
	registered domain.RegisterInput
	logouts    int
	logins     []string
}

func (s *stubSessionGate) State() session.State { return s.state }

func (s *stubSessionGate) Login(_ context.Context, email, _ string) (domain.Route, error) {
	s.logins = append(s.logins, email)
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return domain.RouteDashboard, nil
}

func (s *stubSessionGate) Register(_ context.Context, in domain.RegisterInput) (domain.Route, error) {
	s.registered = in
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return domain.RouteDashboard, nil
}

func (s *stubSessionGate) Logout(context.Context) domain.Route {
	s.logouts++
	s.state = session.State{}
	return domain.RouteLogin
}

// stubPayments is an in-memory ports.PaymentMethodService.
type stubPayments struct {
	records    map[string]domain.PaymentMethodRecord
	err        error
	lastFilter domain.PaymentMethodFilter
	lastKey    string
	deleted    []string
}

func (s *stubPayments) ListActive(context.Context) ([]domain.PaymentMethodRecord, error) {
	return s.List(context.Background(), domain.PaymentMethodFilter{Status: domain.StatusActive})
}

func (s *stubPayments) List(_ context.Context, f domain.PaymentMethodFilter) ([]domain.PaymentMethodRecord, error) {
	s.lastFilter = f
	if s.err != nil {
		return nil, s.err
	}
	out := []domain.PaymentMethodRecord{}
	for _, r := range s.records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubPayments) Get(_ context.Context, id string) (*domain.PaymentMethodRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.records[id]
	if !ok {
		return nil, domain.ErrPaymentMethodNotFound
	}
	return &r, nil
}

func (s *stubPayments) Create(_ context.Context, rec domain.PaymentMethodRecord, key string) (*domain.PaymentMethodRecord, error) {
	s.lastKey = key
	if s.err != nil {
		return nil, s.err
	}
	rec.ID = "pm-new"
	return &rec, nil
}

func (s *stubPayments) Update(_ context.Context, id string, rec domain.PaymentMethodRecord) (*domain.PaymentMethodRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec.ID = id
	return &rec, nil
}

func (s *stubPayments) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubPayments) Statistics(context.Context) (domain.PaymentMethodStats, error) {
	if s.err != nil {
		return domain.PaymentMethodStats{}, s.err
	}
	all := make([]domain.PaymentMethodRecord, 0, len(s.records))
	for _, r := range s.records {
		all = append(all, r)
	}
	return domain.ComputeStats(all), nil
}

type stubAuditRepo struct {
	entries []domain.AuditEntry
	limit   int64
}

func (s *stubAuditRepo) Insert(_ context.Context, e domain.AuditEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *stubAuditRepo) ListByPaymentMethod(_ context.Context, id string, limit int64) ([]domain.AuditEntry, error) {
	s.limit = limit
	out := []domain.AuditEntry{}
	for _, e := range s.entries {
		if e.PaymentMethodID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func fee(v float64) *float64 { return &v }
func str(v string) *string { return &v }
