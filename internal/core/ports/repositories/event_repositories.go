package repositories

import (
	"context"

	"github.com/simonbravin/bloqer/internal/core/domain"
)

// DomainEventWriter appends events to the outbox in the caller's transaction.
type DomainEventWriter interface {
	AppendEvents(ctx context.Context, events ...domain.DomainEvent) error
}
