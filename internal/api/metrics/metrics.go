// Package metrics defines and registers the custom Prometheus metrics of the
// dashboard gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics live on the default registry via promauto; HTTP request metrics
// come from echoprometheus in the router.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/perbaikiinaja/dashboard/internal/core/access"
	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/session"
)

const namespace = "dashboard"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionAuthenticated is 1 while the gateway holds an identity.
// Label:
//   - role: ADMIN, TECHNICIAN or USER
var SessionAuthenticated = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_authenticated",
		Help:      "1 when the operator session holds an identity of the given role.",
	},
	[]string{"role"},
)

// SessionTransitionsTotal counts committed session states.
// Label:
//   - state: "loading", "authenticated" or "anonymous"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"state"},
)

// LoginAttemptsTotal counts login and register submissions.
// Labels:
//   - kind: "login" or "register"
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login and registration attempts.",
	},
	[]string{"kind", "result"},
)

// GateDecisionsTotal counts authorization decisions per screen.
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of screen authorization decisions.",
	},
	[]string{"screen", "outcome"},
)

// ── Payment method metrics ────────────────────────────────────────────────────

// ValidationFailuresTotal counts field errors returned to forms.
// Label:
//   - field: JSON path of the offending field
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of payment-method field errors, by field.",
	},
	[]string{"field"},
)

// PaymentMethodMutationsTotal counts successful create/update/delete calls.
var PaymentMethodMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_method_mutations_total",
		Help:      "Total number of payment-method mutations accepted by the backend.",
	},
	[]string{"action"},
)

// AuditWritesTotal counts audit trail outcomes: written, failed or dropped.
var AuditWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_writes_total",
		Help:      "Total number of audit entries by outcome.",
	},
	[]string{"outcome"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestDuration measures backend round trips.
// Labels:
//   - endpoint: method and route, ids stripped (e.g. "GET /payment-methods/:id")
//   - outcome: ok, client_error, server_error, transport_error, rejected
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "outcome"},
)

// ObserveBackend has the signature of backend.Observer.
func ObserveBackend(endpoint, outcome string, elapsed time.Duration) {
	BackendRequestDuration.WithLabelValues(endpoint, outcome).Observe(elapsed.Seconds())
}

// ObserveAudit has the signature of the audit dispatcher hook.
func ObserveAudit(outcome string) {
	AuditWritesTotal.WithLabelValues(outcome).Inc()
}

// ObserveSession is subscribed to the session and mirrors every transition.
func ObserveSession(st session.State) {
	for _, r := range []domain.Role{domain.RoleAdmin, domain.RoleTechnician, domain.RoleUser} {
		SessionAuthenticated.WithLabelValues(string(r)).Set(0)
	}
	switch {
	case st.Loading:
		SessionTransitionsTotal.WithLabelValues("loading").Inc()
	case st.Identity != nil:
		SessionTransitionsTotal.WithLabelValues("authenticated").Inc()
	default:
		SessionTransitionsTotal.WithLabelValues("anonymous").Inc()
	}
	if st.Identity != nil {
		SessionAuthenticated.WithLabelValues(string(st.Identity.Role())).Set(1)
	}
}

// ObserveDecision records one gate decision.
func ObserveDecision(screen access.Screen, d access.Decision) {
	GateDecisionsTotal.WithLabelValues(screen.Name, d.Outcome.String()).Inc()
}

// ObserveValidation records the fields of a rejected form.
func ObserveValidation(errs []domain.FieldError) {
	for _, fe := range errs {
		ValidationFailuresTotal.WithLabelValues(fe.Field).Inc()
	}
}
