package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestRole_Fallback(t *testing.T) {
	cases := map[Role]Route{
		RoleAdmin:      RouteAdminPaymentMethods,
		RoleTechnician: RouteActivePaymentMethods,
		RoleUser:       RouteActivePaymentMethods,
	}
	for role, want := range cases {
		if got := role.Fallback(); got != want {
			t.Errorf("%s: expected %s, got %s", role, want, got)
		}
		if !role.Valid() {
			t.Errorf("%s must be valid", role)
		}
	}
	if Role("GUEST").Valid() {
		t.Error("GUEST must not be valid")
	}
}

func TestIdentity_MarshalCarriesRole(t *testing.T) {
	years := 3
	tech := Technician{
		Profile:            Profile{ID: "t1", FullName: "Tom", Email: "t@x.id"},
		Experience:         &years,
		TotalJobsCompleted: 7,
	}

	b, err := json.Marshal(tech)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if m["role"] != "TECHNICIAN" || m["id"] != "t1" || m["experience"] != float64(3) || m["totalJobsCompleted"] != float64(7) {
		t.Errorf("unexpected JSON %s", b)
	}

	b, _ = json.Marshal(Admin{Profile: Profile{ID: "a1"}})
	if string(b) != `{"role":"ADMIN","id":"a1","fullName":"","email":"","phoneNumber":""}` {
		t.Errorf("unexpected admin JSON %s", b)
	}
}

func TestBackendError(t *testing.T) {
	cases := []struct {
		err    *BackendError
		target error
		msg    string
	}{
		{&BackendError{Status: http.StatusUnauthorized}, ErrUnauthenticated, "unauthorized"},
		{&BackendError{Status: http.StatusForbidden, Message: "admins only"}, ErrForbidden, "admins only"},
		{&BackendError{Status: http.StatusNotFound}, ErrPaymentMethodNotFound, "not found"},
		{&BackendError{Status: 599}, nil, "backend responded with status 599"},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("call: %w", tc.err)
		if tc.target != nil && !errors.Is(wrapped, tc.target) {
			t.Errorf("status %d must match %v", tc.err.Status, tc.target)
		}
		if tc.err.Error() != tc.msg {
			t.Errorf("status %d: expected %q, got %q", tc.err.Status, tc.msg, tc.err.Error())
		}
	}
	if errors.Is(&BackendError{Status: http.StatusInternalServerError}, ErrUnauthenticated) {
		t.Error("500 must not match ErrUnauthenticated")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "bankName", Message: "bankName is required"},
	}}
	if err.Error() != "name is required; bankName is required" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestPaymentMethodFilter(t *testing.T) {
	deletedAt := time.Now()
	active := PaymentMethodRecord{Type: PaymentCOD, Status: StatusActive}
	inactive := PaymentMethodRecord{Type: PaymentEWallet, Status: StatusInactive}
	deleted := PaymentMethodRecord{Type: PaymentCOD, Status: StatusActive, DeletedAt: &deletedAt}

	cases := []struct {
		name   string
		filter PaymentMethodFilter
		rec    PaymentMethodRecord
		want   bool
	}{
		{"empty filter keeps live", PaymentMethodFilter{}, inactive, true},
		{"empty filter hides deleted", PaymentMethodFilter{}, deleted, false},
		{"include deleted", PaymentMethodFilter{IncludeDeleted: true}, deleted, true},
		{"status", PaymentMethodFilter{Status: StatusActive}, inactive, false},
		{"type", PaymentMethodFilter{Type: PaymentCOD}, active, true},
		{"type mismatch", PaymentMethodFilter{Type: PaymentBankTransfer}, active, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(tc.rec); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	fee := func(v float64) *float64 { return &v }
	now := time.Now()
	records := []PaymentMethodRecord{
		{Type: PaymentBankTransfer, Status: StatusActive, ProcessingFee: fee(2500)},
		{Type: PaymentBankTransfer, Status: StatusInactive, ProcessingFee: fee(1500)},
		{Type: PaymentEWallet, Status: StatusActive, ProcessingFee: fee(1000)},
		{Type: PaymentCOD, Status: StatusActive, ProcessingFee: fee(0), DeletedAt: &now},
		{Type: "CRYPTO", Status: StatusActive},
	}

	s := ComputeStats(records)
	if s.Total != 4 || s.Active != 3 || s.Inactive != 1 || s.Deleted != 1 {
		t.Errorf("unexpected totals %+v", s)
	}
	bank := s.ByType[PaymentBankTransfer]
	if bank.Count != 2 || bank.Active != 1 || bank.AverageFee != 2000 {
		t.Errorf("unexpected bank stats %+v", bank)
	}
	if cod := s.ByType[PaymentCOD]; cod.Count != 0 || cod.AverageFee != 0 {
		t.Errorf("deleted COD must not count, got %+v", cod)
	}
	if len(s.ByType) != 3 {
		t.Errorf("unknown variants must not get a bucket, got %v", s.ByType)
	}
}
