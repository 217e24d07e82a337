// Package events delivers committed domain events to downstream sinks.
package events

import (
	"context"
	"log/slog"

	"github.com/simonbravin/bloqer/internal/core/domain"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
)

// LogPublisher writes every event to a structured logger.
type LogPublisher struct {
	logger *slog.Logger
}

var _ portssvc.EventPublisher = (*LogPublisher)(nil)

// NewLogPublisher returns a publisher logging to logger, or slog.Default when nil.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish implements portssvc.EventPublisher.
func (p *LogPublisher) Publish(ctx context.Context, events ...domain.DomainEvent) {
	for _, e := range events {
		p.logger.InfoContext(ctx, "Domain event",
			slog.String("event", e.Name),
			slog.String("event_id", e.EventID),
			slog.String("org_id", e.OrgID),
			slog.String("project_id", e.ProjectID),
			slog.String("actor_id", e.ActorID),
			slog.Any("affected_ids", e.AffectedIDs),
		)
	}
}

// Fanout hands every event to each publisher in order.
type Fanout []portssvc.EventPublisher

var _ portssvc.EventPublisher = Fanout(nil)

// NewFanout drops nil publishers.
func NewFanout(publishers ...portssvc.EventPublisher) Fanout {
	out := make(Fanout, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Publish implements portssvc.EventPublisher.
func (f Fanout) Publish(ctx context.Context, events ...domain.DomainEvent) {
	for _, p := range f {
		p.Publish(ctx, events...)
	}
}
