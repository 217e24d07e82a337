package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	"github.com/simonbravin/bloqer/internal/utils/mapping"
)

// PgxDomainEventRepository appends to the domain_events outbox.
type PgxDomainEventRepository struct {
	BaseRepository
}

var _ portsrepo.DomainEventWriter = (*PgxDomainEventRepository)(nil)

// AppendEvents inserts events in the caller's transaction.
func (r *PgxDomainEventRepository) AppendEvents(ctx context.Context, events ...domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	query := `
		INSERT INTO domain_events (event_id, name, org_id, project_id, actor_id, affected_ids, before_state, after_state, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	batch := &pgx.Batch{}
	for _, e := range events {
		m, err := mapping.ToModelDomainEvent(e)
		if err != nil {
			return err
		}
		batch.Queue(query,
			m.EventID,
			m.Name,
			m.OrgID,
			m.ProjectID,
			m.ActorID,
			m.AffectedIDs,
			m.Before,
			m.After,
			m.OccurredAt,
		)
	}
	if err := r.execBatch(ctx, batch, nil); err != nil {
		return fmt.Errorf("failed to append %d domain events: %w", len(events), err)
	}
	return nil
}
