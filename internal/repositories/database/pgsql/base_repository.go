package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so every
// repository can run inside the unit of work's transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db DBTX
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const pgUniqueViolation = "23505"

// errStaleRow stops a batch at the first conditional update that matched no row.
var errStaleRow = errors.New("conditional update matched no row")

// isUniqueViolation reports whether err is a unique violation, optionally on a named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
}

// staleOrMissing explains why a conditional update touched no row: the row is
// gone (ErrNotFound) or its version moved on (ErrConflict).
func (r *BaseRepository) staleOrMissing(ctx context.Context, table, idColumn, kind string, scope domain.Scope, id string, loaded int64) error {
	query := fmt.Sprintf(`SELECT version FROM %s WHERE org_id = $1 AND project_id = $2 AND %s = $3;`, table, idColumn)
	var stored int64
	err := r.db.QueryRow(ctx, query, scope.OrgID, scope.ProjectID, id).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(kind, id)
		}
		return fmt.Errorf("failed to check version of %s %s: %w", kind, id, err)
	}
	return fmt.Errorf("%w: %s %s was modified (version %d, stored %d)", apperrors.ErrConflict, kind, id, loaded, stored)
}

// execBatch sends b and checks every queued statement. check receives the
// index and command tag of each result and may turn it into an error.
func (r *BaseRepository) execBatch(ctx context.Context, b *pgx.Batch, check func(i int, tag pgconn.CommandTag) error) error {
	br := r.db.SendBatch(ctx, b)
	var firstErr error
	for i := 0; i < b.Len(); i++ {
		tag, err := br.Exec()
		if err != nil {
			firstErr = err
			break
		}
		if check != nil {
			if err := check(i, tag); err != nil {
				firstErr = err
				break
			}
		}
	}
	if err := br.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
