package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the PostgreSQL unit of work.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UnitOfWork: newPgxUnitOfWork(dbPool),
	}
}
