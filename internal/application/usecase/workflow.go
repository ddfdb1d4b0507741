package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/pkg/observability"
)

var tracer = otel.Tracer("loanrisk")

// ApplicantWorkflow is the shared load -> decide -> save cycle used by every
// mutating use case. The repository records pending events in the outbox
// with the new state; the outbox relay publishes them.
type ApplicantWorkflow struct {
	repo    port.ApplicantRepository
	locker  port.ApplicantLocker
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewApplicantWorkflow wires dependencies. locker and metrics may be nil.
func NewApplicantWorkflow(
	repo port.ApplicantRepository,
	locker port.ApplicantLocker,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *ApplicantWorkflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicantWorkflow{
		repo:    repo,
		locker:  locker,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// mutation computes the next applicant state from a freshly loaded snapshot.
type mutation func(a model.Applicant, now time.Time) (model.Applicant, error)

// mutate resolves identifier, takes the applicant lock, reloads, applies fn,
// then saves. Nothing is saved when fn fails.
func (w *ApplicantWorkflow) mutate(ctx context.Context, op, identifier string, fn mutation) (model.Applicant, error) {
	ctx, span := tracer.Start(ctx, "usecase."+op, trace.WithAttributes(attribute.String("applicant.identifier", identifier)))
	defer span.End()

	next, err := w.mutateLocked(ctx, identifier, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.Applicant{}, err
	}
	return next, nil
}

func (w *ApplicantWorkflow) mutateLocked(ctx context.Context, identifier string, fn mutation) (model.Applicant, error) {
	// 1. Resolve the identifier to a stable ID so the lock key never depends
	//    on whether the caller used an email or an ID.
	current, err := w.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return model.Applicant{}, fmt.Errorf("find applicant: %w", err)
	}

	// 2. Serialise with concurrent writers and reload under the lock.
	if w.locker != nil {
		unlock, err := w.locker.Lock(ctx, "applicant:"+current.ID())
		if err != nil {
			return model.Applicant{}, fmt.Errorf("lock applicant: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				w.logger.Warn("release applicant lock", "applicant_id", current.ID(), "error", err)
			}
		}()

		current, err = w.repo.FindByID(ctx, current.ID())
		if err != nil {
			return model.Applicant{}, fmt.Errorf("reload applicant: %w", err)
		}
	}

	// 3. Decide.
	next, err := fn(current, w.now())
	if err != nil {
		return model.Applicant{}, err
	}

	// 4. Persist state and events atomically.
	if err := w.commit(ctx, next); err != nil {
		return model.Applicant{}, err
	}

	w.metrics.ObserveTransition(current.LoanStatus().String(), next.LoanStatus().String())
	return next.ClearEvents(), nil
}

// commit saves a and its pending events in one repository call.
func (w *ApplicantWorkflow) commit(ctx context.Context, a model.Applicant) error {
	if err := w.repo.Save(ctx, a); err != nil {
		return fmt.Errorf("save applicant: %w", err)
	}
	w.logger.Debug("applicant saved",
		"applicant_id", a.ID(),
		"loan_status", a.LoanStatus().String(),
		"events", len(a.DomainEvents()),
	)
	return nil
}

// find loads an applicant for read-only use cases.
func find(ctx context.Context, repo port.ApplicantRepository, op, identifier string) (model.Applicant, error) {
	ctx, span := tracer.Start(ctx, "usecase."+op, trace.WithAttributes(attribute.String("applicant.identifier", identifier)))
	defer span.End()

	a, err := repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		span.RecordError(err)
		return model.Applicant{}, fmt.Errorf("find applicant: %w", err)
	}
	return a, nil
}
