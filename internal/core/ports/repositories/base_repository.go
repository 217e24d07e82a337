package repositories

import (
	"context"
)

// TxFunc is the body of a unit of work. repos are bound to the transaction;
// returning an error rolls every write back.
type TxFunc func(ctx context.Context, repos Repositories) error

// UnitOfWork runs a group of repository calls atomically.
type UnitOfWork interface {
	// WithinTx runs fn in a read-write transaction and commits when fn returns nil.
	WithinTx(ctx context.Context, fn TxFunc) error

	// View runs fn against a consistent read-only snapshot.
	View(ctx context.Context, fn TxFunc) error
}

// Repositories is the set of repositories bound to one transaction.
type Repositories struct {
	Nodes     WbsNodeRepositoryFacade
	Versions  BudgetVersionRepositoryFacade
	Lines     BudgetLineRepositoryFacade
	Resources BudgetResourceRepositoryFacade
	Events    DomainEventWriter
}
