package ports

import (
	"context"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

// PaymentMethodBackend is the remote store of payment methods. Every call is
// authorised by the operator's credential token.
type PaymentMethodBackend interface {
	List(ctx context.Context, token string, filter domain.PaymentMethodFilter) ([]domain.PaymentMethodRecord, error)
	Get(ctx context.Context, token, id string) (*domain.PaymentMethodRecord, error)
	Create(ctx context.Context, token string, rec domain.PaymentMethodRecord) (*domain.PaymentMethodRecord, error)
	Update(ctx context.Context, token, id string, rec domain.PaymentMethodRecord) (*domain.PaymentMethodRecord, error)
	Delete(ctx context.Context, token, id string) error
}

// PaymentMethodService is the use-case surface of the payment-method screens.
type PaymentMethodService interface {
	ListActive(ctx context.Context) ([]domain.PaymentMethodRecord, error)
	List(ctx context.Context, filter domain.PaymentMethodFilter) ([]domain.PaymentMethodRecord, error)
	Get(ctx context.Context, id string) (*domain.PaymentMethodRecord, error)
	Create(ctx context.Context, rec domain.PaymentMethodRecord, idempotencyKey string) (*domain.PaymentMethodRecord, error)
	Update(ctx context.Context, id string, rec domain.PaymentMethodRecord) (*domain.PaymentMethodRecord, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (domain.PaymentMethodStats, error)
}

// SubmissionGuard rejects a create form submitted twice with the same key.
type SubmissionGuard interface {
	// Claim returns domain.ErrDuplicateSubmission when key was already claimed.
	Claim(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

// AuditRepository persists the payment-method audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
	ListByPaymentMethod(ctx context.Context, paymentMethodID string, limit int64) ([]domain.AuditEntry, error)
}

// AuditSink accepts audit entries without blocking the screen that produced them.
type AuditSink interface {
	Enqueue(entry domain.AuditEntry)
}
