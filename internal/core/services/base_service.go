package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/middleware"
	"github.com/simonbravin/bloqer/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	uow       portsrepo.UnitOfWork
	Gate      portssvc.PermissionGate
	Publisher portssvc.EventPublisher
	Clock     func() time.Time
}

// ServiceOption is a functional option for configuring a service
type ServiceOption func(*BaseService)

// WithPermissionGate adds the permission gate every operation is checked against
func WithPermissionGate(gate portssvc.PermissionGate) ServiceOption {
	return func(s *BaseService) {
		s.Gate = gate
	}
}

// WithEventPublisher adds the sink for committed domain events
func WithEventPublisher(publisher portssvc.EventPublisher) ServiceOption {
	return func(s *BaseService) {
		s.Publisher = publisher
	}
}

// WithClock overrides the time source
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

func newBaseService(uow portsrepo.UnitOfWork, options ...ServiceOption) BaseService {
	base := BaseService{uow: uow}
	for _, option := range options {
		option(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// logFailure logs err at a level matching its kind: expected rejections
// (validation, domain rules, missing rows, refusals) at info, the rest at error.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isExpected(err) {
		args := append([]any{slog.String("reason", err.Error())}, keyvals...)
		s.LogInfo(ctx, msg, args...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

func isExpected(err error) bool {
	if _, ok := apperrors.AsDomainError(err); ok {
		return true
	}
	for _, target := range []error{apperrors.ErrValidation, apperrors.ErrNotFound, apperrors.ErrForbidden, apperrors.ErrConflict} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// AuthorizeActor checks scope validity and asks the permission gate whether
// actor may perform action with at least minRole.
func (s *BaseService) AuthorizeActor(ctx context.Context, actor domain.Actor, scope domain.Scope, action domain.Action, minRole domain.ProjectRole) error {
	if !scope.Valid() {
		return apperrors.NewValidationError("scope", "organization and project are required")
	}
	if s.Gate == nil {
		s.LogDebug(ctx, "No permission gate provided, access granted by default",
			slog.String("user_id", actor.UserID),
			slog.String("project_id", scope.ProjectID),
			slog.String("action", string(action)))
		return nil
	}
	if err := s.Gate.Authorize(ctx, actor, scope, action, minRole); err != nil {
		s.LogInfo(ctx, "Permission denied",
			slog.String("user_id", actor.UserID),
			slog.String("project_id", scope.ProjectID),
			slog.String("action", string(action)),
			slog.String("reason", err.Error()))
		return err
	}
	return nil
}

func (s *BaseService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// newEvent builds a domain event stamped with a fresh id and the current time.
func (s *BaseService) newEvent(name string, scope domain.Scope, actor domain.Actor, affected []string, before, after map[string]any) domain.DomainEvent {
	return domain.DomainEvent{
		EventID:     uuid.NewString(),
		Name:        name,
		OrgID:       scope.OrgID,
		ProjectID:   scope.ProjectID,
		ActorID:     actor.UserID,
		AffectedIDs: affected,
		Before:      before,
		After:       after,
		OccurredAt:  s.now(),
	}
}

// mutate runs fn in a transaction, records the outcome for operation and,
// after commit, publishes the events fn returned.
func (s *BaseService) mutate(ctx context.Context, operation string, fn func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error)) error {
	var events []domain.DomainEvent
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		evs, err := fn(ctx, repos)
		if err != nil {
			return err
		}
		if len(evs) > 0 {
			if err := repos.Events.AppendEvents(ctx, evs...); err != nil {
				return err
			}
		}
		events = evs
		return nil
	})
	_, isDomain := apperrors.AsDomainError(err)
	metrics.Mutations.WithLabelValues(operation, metrics.Outcome(err, isDomain)).Inc()
	if err != nil {
		return err
	}
	s.publish(ctx, events)
	return nil
}

func (s *BaseService) view(ctx context.Context, fn portsrepo.TxFunc) error {
	return s.uow.View(ctx, fn)
}

func (s *BaseService) publish(ctx context.Context, events []domain.DomainEvent) {
	if s.Publisher == nil || len(events) == 0 {
		return
	}
	for _, e := range events {
		metrics.EventsPublished.WithLabelValues(e.Name).Inc()
	}
	s.Publisher.Publish(ctx, events...)
}
