package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/posthog/posthog-go"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/platform/metrics"
)

// enqueuer is the part of posthog.Client the publisher needs.
type enqueuer interface {
	Enqueue(posthog.Message) error
}

// PosthogPublisher captures domain events in PostHog, one capture per event
// with the acting user as distinct id and the project as a group.
type PosthogPublisher struct {
	client enqueuer
	closer func() error
	logger *slog.Logger
}

var _ portssvc.EventPublisher = (*PosthogPublisher)(nil)

// NewPosthogPublisher creates a PostHog client for apiKey. An empty key yields
// a nil publisher, which NewFanout skips.
func NewPosthogPublisher(apiKey, endpoint string, logger *slog.Logger) (*PosthogPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return nil, nil
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize posthog client: %w", err)
	}
	logger.Info("Initialized posthog client", slog.String("endpoint", endpoint))
	return &PosthogPublisher{client: client, closer: client.Close, logger: logger}, nil
}

// Publish implements portssvc.EventPublisher. Failures are logged and counted.
func (p *PosthogPublisher) Publish(ctx context.Context, events ...domain.DomainEvent) {
	if p == nil || p.client == nil {
		return
	}
	for _, e := range events {
		err := p.client.Enqueue(posthog.Capture{
			DistinctId: e.ActorID,
			Event:      e.Name,
			Timestamp:  e.OccurredAt,
			Groups:     posthog.NewGroups().Set("organization", e.OrgID).Set("project", e.ProjectID),
			Properties: eventProperties(e),
		})
		if err != nil {
			metrics.EventPublishFailures.WithLabelValues("posthog").Inc()
			p.logger.WarnContext(ctx, "Failed to enqueue domain event to posthog",
				slog.String("event", e.Name),
				slog.String("event_id", e.EventID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func eventProperties(e domain.DomainEvent) posthog.Properties {
	props := posthog.NewProperties().
		Set("event_id", e.EventID).
		Set("org_id", e.OrgID).
		Set("project_id", e.ProjectID).
		Set("affected_ids", e.AffectedIDs)
	if e.Before != nil {
		props.Set("before", e.Before)
	}
	if e.After != nil {
		props.Set("after", e.After)
	}
	return props
}

// Close flushes queued captures.
func (p *PosthogPublisher) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	return p.closer()
}
