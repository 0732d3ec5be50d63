package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/perbaikiinaja/dashboard/internal/core/access"
	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

func seededPayments() *stubPayments {
	deletedAt := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	return &stubPayments{records: map[string]domain.PaymentMethodRecord{
		"pm-1": {ID: "pm-1", Name: "COD", Type: domain.PaymentCOD, Status: domain.StatusActive, ProcessingFee: fee(0), PhoneNumber: str("+62812")},
		"pm-2": {ID: "pm-2", Name: "BCA", Type: domain.PaymentBankTransfer, Status: domain.StatusInactive, ProcessingFee: fee(2500)},
		"pm-3": {ID: "pm-3", Name: "Old", Type: domain.PaymentEWallet, Status: domain.StatusInactive, ProcessingFee: fee(1000), DeletedAt: &deletedAt},
	}}
}

func TestListActive(t *testing.T) {
	h := NewPaymentMethodHandler(seededPayments(), nil)

	rec, err := serve(h.ListActive, http.MethodGet, "/dashboard/payment-methods/active", "", signedIn(testUser), access.ActiveMethods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || body.Data[0].ID != "pm-1" {
		t.Errorf("expected only pm-1, got %+v", body)
	}
}

func TestDetail_HidesDeleted(t *testing.T) {
	h := NewPaymentMethodHandler(seededPayments(), nil)

	_, err := serve(withID("pm-3", h.Detail), http.MethodGet, "/dashboard/payment-methods/pm-3", "", signedIn(testUser), access.MethodDetail)
	if !errors.Is(err, domain.ErrPaymentMethodNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGet_AdminSeesDeleted(t *testing.T) {
	h := NewPaymentMethodHandler(seededPayments(), nil)

	rec, err := serve(withID("pm-3", h.Get), http.MethodGet, "/dashboard/admin/payment-methods/pm-3", "", signedIn(testAdmin), access.AdminMethodDetail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body recordResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if !body.Data.Deleted() {
		t.Errorf("expected the deleted record, got %+v", body.Data)
	}
}

func TestList_Filters(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		want    domain.PaymentMethodFilter
		wantErr bool
	}{
		{"none", "", domain.PaymentMethodFilter{}, false},
		{"lower-case values", "?status=inactive&paymentMethod=bank_transfer", domain.PaymentMethodFilter{Status: domain.StatusInactive, Type: domain.PaymentBankTransfer}, false},
		{"include deleted", "?includeDeleted=true", domain.PaymentMethodFilter{IncludeDeleted: true}, false},
		{"bad status", "?status=PAUSED", domain.PaymentMethodFilter{}, true},
		{"bad variant", "?paymentMethod=CRYPTO", domain.PaymentMethodFilter{}, true},
		{"bad bool", "?includeDeleted=maybe", domain.PaymentMethodFilter{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := seededPayments()
			h := NewPaymentMethodHandler(svc, nil)

			_, err := serve(h.List, http.MethodGet, "/dashboard/admin/payment-methods"+tc.query, "", signedIn(testAdmin), access.AdminMethods)
			if tc.wantErr {
				var he *echo.HTTPError
				if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.lastFilter != tc.want {
				t.Errorf("expected filter %+v, got %+v", tc.want, svc.lastFilter)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	svc := seededPayments()
	h := NewPaymentMethodHandler(svc, nil)

	body := `{"name":"COD","description":"Cash","processingFee":"0","paymentMethod":"COD","status":"ACTIVE","phoneNumber":"+62812","instructions":"Pay"}`
	rec, err := serve(func(c echo.Context) error {
		c.Request().Header.Set("Idempotency-Key", "form-1")
		return h.Create(c)
	}, http.MethodPost, "/dashboard/admin/payment-methods", body, signedIn(testAdmin), access.AdminMethods)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard/admin/payment-methods/pm-new" {
		t.Errorf("unexpected location %q", loc)
	}
	if svc.lastKey != "form-1" {
		t.Errorf("idempotency key not forwarded, got %q", svc.lastKey)
	}
	var out recordResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.Data.ProcessingFee == nil || *out.Data.ProcessingFee != 0 {
		t.Errorf("numeric-string fee not decoded: %+v", out.Data)
	}
}

func TestCreate_PropagatesValidationError(t *testing.T) {
	svc := &stubPayments{err: &domain.ValidationError{Fields: []domain.FieldError{{Field: "name", Message: "name is required"}}}}
	h := NewPaymentMethodHandler(svc, nil)

	_, err := serve(h.Create, http.MethodPost, "/dashboard/admin/payment-methods", `{}`, signedIn(testAdmin), access.AdminMethods)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "name" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	h := NewPaymentMethodHandler(seededPayments(), nil)

	rec, err := serve(withID("pm-1", h.Update), http.MethodPut, "/dashboard/admin/payment-methods/pm-1", `{"name":"Renamed"}`, signedIn(testAdmin), access.AdminMethodDetail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out recordResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.Data.ID != "pm-1" || out.Data.Name != "Renamed" {
		t.Errorf("unexpected record %+v", out.Data)
	}
}

func TestDelete_NavigatesToList(t *testing.T) {
	svc := seededPayments()
	h := NewPaymentMethodHandler(svc, nil)

	rec, err := serve(withID("pm-1", h.Delete), http.MethodDelete, "/dashboard/admin/payment-methods/pm-1", "", signedIn(testAdmin), access.AdminMethodDetail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard/admin/payment-methods" {
		t.Fatalf("expected 303 to the admin list, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "pm-1" {
		t.Errorf("unexpected deletions %v", svc.deleted)
	}
}

func TestStatistics(t *testing.T) {
	h := NewPaymentMethodHandler(seededPayments(), nil)

	rec, err := serve(h.Statistics, http.MethodGet, "/dashboard/admin/statistics", "", signedIn(testAdmin), access.AdminStatistics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var stats domain.PaymentMethodStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Total != 2 || stats.Active != 1 || stats.Deleted != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestAuditTrail(t *testing.T) {
	repo := &stubAuditRepo{entries: []domain.AuditEntry{
		{ID: "a1", PaymentMethodID: "pm-1", Action: domain.AuditCreate},
		{ID: "a2", PaymentMethodID: "pm-2", Action: domain.AuditCreate},
	}}
	h := NewPaymentMethodHandler(seededPayments(), repo)

	rec, err := serve(withID("pm-1", h.AuditTrail), http.MethodGet, "/dashboard/admin/payment-methods/pm-1/audit", "", signedIn(testAdmin), access.AdminMethodDetail)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out auditResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if len(out.Data) != 1 || out.Data[0].ID != "a1" {
		t.Errorf("unexpected entries %+v", out.Data)
	}
	if repo.limit != auditLimit {
		t.Errorf("expected limit %d, got %d", auditLimit, repo.limit)
	}
}

func TestAuditTrail_Disabled(t *testing.T) {
	h := NewPaymentMethodHandler(seededPayments(), nil)

	_, err := serve(withID("pm-1", h.AuditTrail), http.MethodGet, "/dashboard/admin/payment-methods/pm-1/audit", "", signedIn(testAdmin), access.AdminMethodDetail)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestAdminScreen_UserIsRedirectedBeforeService(t *testing.T) {
	svc := seededPayments()
	svc.err = errors.New("service must not be called")
	h := NewPaymentMethodHandler(svc, nil)

	rec, err := serve(h.Statistics, http.MethodGet, "/dashboard/admin/statistics", "", signedIn(testUser), access.AdminStatistics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard/payment-methods/active" {
		t.Fatalf("expected 303 to the active list, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func withID(id string, h echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetParamNames("id")
		c.SetParamValues(id)
		return h(c)
	}
}
