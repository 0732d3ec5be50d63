package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/perbaikiinaja/dashboard/internal/api/metrics"
	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/ports"
	"github.com/perbaikiinaja/dashboard/internal/core/validation"
)

const (
	idempotencyHeader = "Idempotency-Key"
	maxFormBody       = 64 << 10
	auditLimit        = 50
)

// PaymentMethodHandler serves the payment-method screens.
type PaymentMethodHandler struct {
	service ports.PaymentMethodService
	audit   ports.AuditRepository
}

// NewPaymentMethodHandler wires the handler. audit may be nil when the audit
// trail is disabled.
func NewPaymentMethodHandler(service ports.PaymentMethodService, audit ports.AuditRepository) *PaymentMethodHandler {
	return &PaymentMethodHandler{service: service, audit: audit}
}

// --- Request / Response types ---

type listResponse struct {
	Data  []domain.PaymentMethodRecord `json:"data"`
	Total int                          `json:"total"`
}

type recordResponse struct {
	Data domain.PaymentMethodRecord `json:"data"`
}

type auditResponse struct {
	Data []domain.AuditEntry `json:"data"`
}

// --- Shared screens ---

// ListActive returns the active payment methods.
//
// @Summary      Active payment methods
// @Tags         payment-methods
// @Produce      json
// @Success      200  {object}  listResponse
// @Success      303
// @Router       /dashboard/payment-methods/active [get]
func (h *PaymentMethodHandler) ListActive(c echo.Context) error {
	records, err := h.service.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Data: records, Total: len(records)})
}

// Detail returns one live payment method.
//
// @Summary      Payment method detail
// @Tags         payment-methods
// @Produce      json
// @Param        id   path      string  true  "Payment method id"
// @Success      200  {object}  recordResponse
// @Failure      404  {object}  map[string]string
// @Router       /dashboard/payment-methods/{id} [get]
func (h *PaymentMethodHandler) Detail(c echo.Context) error {
	rec, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if rec.Deleted() {
		return domain.ErrPaymentMethodNotFound
	}
	return c.JSON(http.StatusOK, recordResponse{Data: *rec})
}

// --- Admin screens ---

// List returns payment methods filtered by status, variant and deletion.
//
// @Summary      List payment methods
// @Tags         admin
// @Produce      json
// @Param        status          query  string  false  "ACTIVE or INACTIVE"
// @Param        paymentMethod   query  string  false  "COD, BANK_TRANSFER or E_WALLET"
// @Param        includeDeleted  query  bool    false  "Include soft-deleted methods"
// @Success      200  {object}  listResponse
// @Failure      400  {object}  map[string]string
// @Router       /dashboard/admin/payment-methods [get]
func (h *PaymentMethodHandler) List(c echo.Context) error {
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
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	filter.Status = strings.ToUpper(filter.Status)
	if filter.Status != "" && filter.Status != domain.StatusActive && filter.Status != domain.StatusInactive {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be one of: ACTIVE INACTIVE")
	}
	filter.Type = domain.PaymentMethodType(strings.ToUpper(variant))
	if filter.Type != "" && !knownVariant(filter.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "paymentMethod must be one of: COD BANK_TRANSFER E_WALLET")
	}

	records, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Data: records, Total: len(records)})
}

// Create validates and submits a new payment method. A repeated
// Idempotency-Key is rejected with 409.
//
// @Summary      Create payment method
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                      false  "Form submission key"
// @Param        body             body    domain.PaymentMethodRecord  true   "Payment method"
// @Success      201  {object}  recordResponse
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]any
// @Router       /dashboard/admin/payment-methods [post]
func (h *PaymentMethodHandler) Create(c echo.Context) error {
	rec, err := readRecord(c)
	if err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), rec, c.Request().Header.Get(idempotencyHeader))
	if err != nil {
		return observeValidation(err)
	}
	metrics.PaymentMethodMutationsTotal.WithLabelValues(string(domain.AuditCreate)).Inc()

	c.Response().Header().Set(echo.HeaderLocation, "/dashboard/admin/payment-methods/"+created.ID)
	return c.JSON(http.StatusCreated, recordResponse{Data: *created})
}

// Get returns one payment method, soft-deleted ones included.
//
// @Summary      Get payment method
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Payment method id"
// @Success      200  {object}  recordResponse
// @Failure      404  {object}  map[string]string
// @Router       /dashboard/admin/payment-methods/{id} [get]
func (h *PaymentMethodHandler) Get(c echo.Context) error {
	rec, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordResponse{Data: *rec})
}

// Update validates and replaces a payment method.
//
// @Summary      Update payment method
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "Payment method id"
// @Param        body  body      domain.PaymentMethodRecord  true  "Payment method"
// @Success      200   {object}  recordResponse
// @Failure      422   {object}  map[string]any
// @Router       /dashboard/admin/payment-methods/{id} [put]
func (h *PaymentMethodHandler) Update(c echo.Context) error {
	rec, err := readRecord(c)
	if err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), rec)
	if err != nil {
		return observeValidation(err)
	}
	metrics.PaymentMethodMutationsTotal.WithLabelValues(string(domain.AuditUpdate)).Inc()
	return c.JSON(http.StatusOK, recordResponse{Data: *updated})
}

// Delete soft-deletes a payment method and navigates back to the list.
//
// @Summary      Delete payment method
// @Tags         admin
// @Param        id  path  string  true  "Payment method id"
// @Success      303
// @Failure      404  {object}  map[string]string
// @Router       /dashboard/admin/payment-methods/{id} [delete]
func (h *PaymentMethodHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.PaymentMethodMutationsTotal.WithLabelValues(string(domain.AuditDelete)).Inc()
	return see(c, domain.RouteAdminPaymentMethods)
}

// Statistics returns usage statistics over every payment method.
//
// @Summary      Usage statistics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.PaymentMethodStats
// @Router       /dashboard/admin/statistics [get]
func (h *PaymentMethodHandler) Statistics(c echo.Context) error {
	stats, err := h.service.Statistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// AuditTrail returns the newest audit entries of one payment method.
//
// @Summary      Payment method audit trail
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Payment method id"
// @Success      200  {object}  auditResponse
// @Failure      404  {object}  map[string]string
// @Router       /dashboard/admin/payment-methods/{id}/audit [get]
func (h *PaymentMethodHandler) AuditTrail(c echo.Context) error {
	if h.audit == nil {
		return echo.NewHTTPError(http.StatusNotFound, "audit trail disabled")
	}
	entries, err := h.audit.ListByPaymentMethod(c.Request().Context(), c.Param("id"), auditLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auditResponse{Data: entries})
}

// readRecord decodes the form body leniently: unknown fields are ignored and
// wrong-typed values are treated as absent, so the validator reports them.
func readRecord(c echo.Context) (domain.PaymentMethodRecord, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxFormBody))
	if err != nil {
		return domain.PaymentMethodRecord{}, echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	return validation.DecodeRecord(body), nil
}

func observeValidation(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		metrics.ObserveValidation(verr.Fields)
	}
	return err
}

func knownVariant(t domain.PaymentMethodType) bool {
	for _, v := range domain.PaymentMethodTypes {
		if v == t {
			return true
		}
	}
	return false
}
