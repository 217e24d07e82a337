package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simonbravin/bloqer/internal/apperrors"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
)

// PgxUnitOfWork runs repository calls inside one pgx transaction.
type PgxUnitOfWork struct {
	pool *pgxpool.Pool
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

func newPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{pool: pool}
}

// WithinTx runs fn in a read-write transaction and commits when fn succeeds.
func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return u.run(ctx, tx, fn)
}

// View runs fn in a read-only repeatable-read transaction, giving it a
// consistent snapshot across several queries.
func (u *PgxUnitOfWork) View(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin read-only transaction", err)
	}
	return u.run(ctx, tx, fn)
}

func (u *PgxUnitOfWork) run(ctx context.Context, tx pgx.Tx, fn portsrepo.TxFunc) error {
	defer rollback(ctx, tx) // no-op once committed

	if err := fn(ctx, newRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.WarnContext(ctx, "Failed to rollback transaction", "error", err)
	}
}

// newRepositories binds every repository to db.
func newRepositories(db DBTX) portsrepo.Repositories {
	base := BaseRepository{db: db}
	return portsrepo.Repositories{
		Nodes:     &PgxWbsNodeRepository{BaseRepository: base},
		Versions:  &PgxBudgetVersionRepository{BaseRepository: base},
		Lines:     &PgxBudgetLineRepository{BaseRepository: base},
		Resources: &PgxBudgetResourceRepository{BaseRepository: base},
		Events:    &PgxDomainEventRepository{BaseRepository: base},
	}
}
