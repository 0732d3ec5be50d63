package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/ports"
	"github.com/perbaikiinaja/dashboard/internal/core/session"
	"github.com/perbaikiinaja/dashboard/internal/core/validation"
)

// Gate is the part of the session the payment-method screens rely on.
type Gate interface {
	State() session.State
	Credential() (string, error)
	Invalidate(ctx context.Context) domain.Route
}

// PaymentMethodService backs the payment-method screens. Records are
// validated before every create and update; nothing reaches the backend
// while field errors remain.
type PaymentMethodService struct {
	backend ports.PaymentMethodBackend
	gate    Gate
	guard   ports.SubmissionGuard
	audit   ports.AuditSink
	log     zerolog.Logger
	now     func() time.Time
}

// NewPaymentMethodService wires the service. guard and audit may be nil.
func NewPaymentMethodService(
	backend ports.PaymentMethodBackend,
	gate Gate,
	guard ports.SubmissionGuard,
	audit ports.AuditSink,
	log zerolog.Logger,
) *PaymentMethodService {
	return &PaymentMethodService{
		backend: backend,
		gate:    gate,
		guard:   guard,
		audit:   audit,
		log:     log.With().Str("component", "payment_methods").Logger(),
		now:     time.Now,
	}
}

// ListActive returns the active, non-deleted payment methods.
func (s *PaymentMethodService) ListActive(ctx context.Context) ([]domain.PaymentMethodRecord, error) {
	return s.List(ctx, domain.PaymentMethodFilter{Status: domain.StatusActive})
}

// List returns the payment methods matching filter.
func (s *PaymentMethodService) List(ctx context.Context, filter domain.PaymentMethodFilter) ([]domain.PaymentMethodRecord, error) {
	var out []domain.PaymentMethodRecord
	err := s.authorized(ctx, func(token string) error {
		records, err := s.backend.List(ctx, token, filter)
		if err != nil {
			return err
		}
		// The backend may ignore some filters; apply them again locally.
		out = make([]domain.PaymentMethodRecord, 0, len(records))
		for _, r := range records {
			if filter.Matches(r) {
				out = append(out, r)
			}
		}
		return nil
	})
	return out, err
}

// Get returns one payment method.
func (s *PaymentMethodService) Get(ctx context.Context, id string) (*domain.PaymentMethodRecord, error) {
	var out *domain.PaymentMethodRecord
	err := s.authorized(ctx, func(token string) error {
		rec, err := s.backend.Get(ctx, token, id)
		out = rec
		return err
	})
	return out, err
}

// Create validates rec and submits it. A non-empty idempotencyKey that was
// already used is rejected with domain.ErrDuplicateSubmission.
func (s *PaymentMethodService) Create(ctx context.Context, rec domain.PaymentMethodRecord, idempotencyKey string) (*domain.PaymentMethodRecord, error) {
	if rec.CreatedBy == "" {
		if id := s.gate.State().Identity; id != nil {
			rec.CreatedBy = id.Base().ID
		}
	}

	pm, errs := validation.Parse(&rec)
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}

	if idempotencyKey != "" && s.guard != nil {
		if err := s.guard.Claim(ctx, idempotencyKey); err != nil {
			return nil, err
		}
	}

	var created *domain.PaymentMethodRecord
	err := s.authorized(ctx, func(token string) error {
		out, err := s.backend.Create(ctx, token, pm.Record())
		created = out
		return err
	})
	if err != nil {
		if idempotencyKey != "" && s.guard != nil {
			if relErr := s.guard.Release(ctx, idempotencyKey); relErr != nil {
				s.log.Warn().Err(relErr).Str("idempotency_key", idempotencyKey).Msg("failed to release submission key")
			}
		}
		return nil, err
	}

	s.log.Info().Str("payment_method_id", created.ID).Str("type", string(created.Type)).Msg("payment method created")
	s.record(domain.AuditCreate, created.ID, created.Type)
	return created, nil
}

// Update validates rec and replaces the payment method id with it.
func (s *PaymentMethodService) Update(ctx context.Context, id string, rec domain.PaymentMethodRecord) (*domain.PaymentMethodRecord, error) {
	rec.ID = id
	pm, errs := validation.Parse(&rec)
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}

	var updated *domain.PaymentMethodRecord
	err := s.authorized(ctx, func(token string) error {
		out, err := s.backend.Update(ctx, token, id, pm.Record())
		updated = out
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("payment_method_id", id).Msg("payment method updated")
	s.record(domain.AuditUpdate, id, updated.Type)
	return updated, nil
}

// Delete soft-deletes the payment method id.
func (s *PaymentMethodService) Delete(ctx context.Context, id string) error {
	err := s.authorized(ctx, func(token string) error {
		return s.backend.Delete(ctx, token, id)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("payment_method_id", id).Msg("payment method deleted")
	s.record(domain.AuditDelete, id, "")
	return nil
}

// Statistics summarises every payment method, soft-deleted ones included.
func (s *PaymentMethodService) Statistics(ctx context.Context) (domain.PaymentMethodStats, error) {
	records, err := s.List(ctx, domain.PaymentMethodFilter{IncludeDeleted: true})
	if err != nil {
		return domain.PaymentMethodStats{}, err
	}
	return domain.ComputeStats(records), nil
}

// authorized runs fn with the session credential. A backend rejection of the
// credential signs the session out so the next screen visit redirects to login.
func (s *PaymentMethodService) authorized(ctx context.Context, fn func(token string) error) error {
	token, err := s.gate.Credential()
	if err != nil {
		return err
	}
	if err := fn(token); err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			s.gate.Invalidate(ctx)
		}
		return fmt.Errorf("payment methods: %w", err)
	}
	return nil
}

func (s *PaymentMethodService) record(action domain.AuditAction, id string, t domain.PaymentMethodType) {
	if s.audit == nil {
		return
	}
	entry := domain.AuditEntry{
		ID:              uuid.NewString(),
		PaymentMethodID: id,
		Action:          action,
		Type:            t,
		At:              s.now().UTC(),
	}
	if identity := s.gate.State().Identity; identity != nil {
		entry.ActorID = identity.Base().ID
		entry.ActorRole = identity.Role()
	}
	s.audit.Enqueue(entry)
}
