// Package service owns the submission lifecycle: creation, the gateway-gated
// pending → paid transition, and staff-driven status changes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mangonet/internal/payment/paystack"
	"mangonet/internal/submission/metrics"
	"mangonet/internal/submission/models"
	dErrors "mangonet/pkg/domain-errors"
	"mangonet/pkg/platform/sentinel"
	"mangonet/pkg/requestcontext"
)

// Store persists submissions. Execute runs validate-then-mutate on one record
// under the store's lock (mutex in memory, row lock in postgres), so every
// transition is a single conditional update with no cached copy held across
// requests.
type Store interface {
	Create(ctx context.Context, sub *models.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	List(ctx context.Context) ([]*models.Submission, error)
	Execute(ctx context.Context, id uuid.UUID,
		validate func(*models.Submission) error,
		mutate func(*models.Submission)) (*models.Submission, error)
}

// Verifier confirms a payment reference with the gateway.
type Verifier interface {
	Verify(ctx context.Context, secret, reference string) (paystack.VerifyResult, error)
}

// SecretSource resolves the gateway secret at call time so staff can rotate
// it through the settings store without a restart.
type SecretSource interface {
	GatewaySecret(ctx context.Context) (string, error)
}

// Notifier dispatches the staff notification for a paid submission.
// Delivery is best-effort; the service logs failures and moves on.
type Notifier interface {
	SubmissionPaid(ctx context.Context, sub models.Submission) error
}

// Service orchestrates the submission lifecycle.
type Service struct {
	store    Store
	verifier Verifier
	secrets  SecretSource
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(s *Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service. logger is required; notifier and metrics are
// optional.
func New(store Store, verifier Verifier, secrets SecretSource, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		verifier: verifier,
		secrets:  secrets,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the applicant fields and persists a pending submission.
// Validation failures enumerate every offending field; nothing is persisted
// partially.
func (s *Service) Create(ctx context.Context, fields models.Fields) (*models.Submission, error) {
	sub, err := models.NewSubmission(uuid.New(), fields, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create submission")
	}

	s.logger.InfoContext(ctx, "submission created",
		"request_id", requestcontext.RequestID(ctx),
		"submission_id", sub.ID,
		"plan", sub.Plan,
	)
	if s.metrics != nil {
		s.metrics.IncrementSubmissionsCreated()
	}
	return sub, nil
}

// List returns all submissions ordered by submission time ascending.
func (s *Service) List(ctx context.Context) ([]*models.Submission, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list submissions")
	}
	return subs, nil
}

// Get returns one submission by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	sub, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "submission not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submission")
	}
	return sub, nil
}

// RecordPayment verifies a payment reference with the gateway and, on
// success, atomically transitions the submission to paid and stores the
// reference. The notification is dispatched after the transition commits and
// its outcome never affects the caller.
//
// Repeat calls for an already paid submission re-verify and re-write; the
// operation is intentionally not idempotent.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, reference string) (*models.Submission, error) {
	if reference == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "payment reference is required")
	}

	secret, err := s.secrets.GatewaySecret(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve gateway secret")
	}

	if secret == "" {
		// Degraded mode: no gateway secret configured, reference accepted on
		// trust. Loud on purpose so it is never silent in production.
		s.logger.WarnContext(ctx, "payment gateway secret not configured, skipping verification",
			"request_id", requestcontext.RequestID(ctx),
			"submission_id", id,
		)
	} else {
		result, err := s.verifier.Verify(ctx, secret, reference)
		if err != nil {
			s.logger.ErrorContext(ctx, "payment verification errored",
				"request_id", requestcontext.RequestID(ctx),
				"submission_id", id,
				"error", err,
			)
			if s.metrics != nil {
				s.metrics.IncrementPaymentsRejected()
			}
			return nil, dErrors.Wrap(err, dErrors.CodePaymentFailed, "payment verification failed")
		}
		if !result.Success || result.Status != "success" {
			s.logger.WarnContext(ctx, "payment verification rejected",
				"request_id", requestcontext.RequestID(ctx),
				"submission_id", id,
				"gateway_status", result.Status,
			)
			if s.metrics != nil {
				s.metrics.IncrementPaymentsRejected()
			}
			return nil, dErrors.New(dErrors.CodePaymentFailed, "payment verification failed")
		}
	}

	sub, err := s.store.Execute(ctx, id, nil, func(sub *models.Submission) {
		sub.ApplyPayment(reference)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "submission not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record payment")
	}

	s.logger.InfoContext(ctx, "payment recorded",
		"request_id", requestcontext.RequestID(ctx),
		"submission_id", sub.ID,
		"payment_ref", reference,
	)
	if s.metrics != nil {
		s.metrics.IncrementPaymentsConfirmed()
	}

	s.dispatchNotification(*sub)
	return sub, nil
}

// SetStatus applies a trusted staff transition. Any source state may reach
// any target state; no gateway verification is involved.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*models.Submission, error) {
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	sub, err := s.store.Execute(ctx, id, nil, func(sub *models.Submission) {
		sub.ApplyStatus(status)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "submission not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update status")
	}

	s.logger.InfoContext(ctx, "submission status updated",
		"request_id", requestcontext.RequestID(ctx),
		"submission_id", sub.ID,
		"status", status,
		"actor", requestcontext.Username(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementStatusTransition(string(status))
	}
	return sub, nil
}

// dispatchNotification fires the staff notification without awaiting it. The
// goroutine gets its own deadline since the request context ends when the
// handler returns.
func (s *Service) dispatchNotification(sub models.Submission) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.SubmissionPaid(ctx, sub); err != nil {
			s.logger.Error("submission notification failed",
				"submission_id", sub.ID,
				"error", err,
			)
			if s.metrics != nil {
				s.metrics.IncrementNotifyFailures()
			}
		}
	}()
}
