// Package memory provides an in-memory transactional store implementing the
// repository ports. A transaction works on a deep clone of the state, which
// replaces the committed state only when the unit of work succeeds.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
)

var errReadOnly = errors.New("memory store: write attempted in a read-only view")

type state struct {
	nodes     map[string]domain.WbsNode
	versions  map[string]domain.BudgetVersion
	lines     map[string]domain.BudgetLine
	resources map[string]domain.BudgetResource
	events    []domain.DomainEvent
}

func newState() state {
	return state{
		nodes:     map[string]domain.WbsNode{},
		versions:  map[string]domain.BudgetVersion{},
		lines:     map[string]domain.BudgetLine{},
		resources: map[string]domain.BudgetResource{},
	}
}

func (s state) clone() state {
	c := state{
		nodes:     make(map[string]domain.WbsNode, len(s.nodes)),
		versions:  make(map[string]domain.BudgetVersion, len(s.versions)),
		lines:     make(map[string]domain.BudgetLine, len(s.lines)),
		resources: make(map[string]domain.BudgetResource, len(s.resources)),
		events:    append([]domain.DomainEvent(nil), s.events...),
	}
	for k, v := range s.nodes {
		c.nodes[k] = cloneNode(v)
	}
	for k, v := range s.versions {
		c.versions[k] = cloneVersion(v)
	}
	for k, v := range s.lines {
		c.lines[k] = cloneLine(v)
	}
	for k, v := range s.resources {
		c.resources[k] = cloneResource(v)
	}
	return c
}

// Store is the committed state plus the lock serializing transactions.
type Store struct {
	mu    sync.RWMutex
	state state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinTx runs fn against a clone of the state and commits the clone if fn
// succeeds. Transactions are serialized.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txState{state: s.state.clone()}
	if err := fn(ctx, tx.repositories()); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// View runs fn against the committed state; writes fail.
func (s *Store) View(ctx context.Context, fn portsrepo.TxFunc) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txState{state: s.state, readOnly: true}
	return fn(ctx, tx.repositories())
}

// Events returns a copy of the outbox.
func (s *Store) Events() []domain.DomainEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DomainEvent(nil), s.state.events...)
}

type txState struct {
	state    state
	readOnly bool
}

func (tx *txState) repositories() portsrepo.Repositories {
	return portsrepo.Repositories{
		Nodes:     &nodeRepository{tx: tx},
		Versions:  &versionRepository{tx: tx},
		Lines:     &lineRepository{tx: tx},
		Resources: &resourceRepository{tx: tx},
		Events:    &eventRepository{tx: tx},
	}
}

func (tx *txState) writable() error {
	if tx.readOnly {
		return errReadOnly
	}
	return nil
}

func inScope(scope domain.Scope, orgID, projectID string) bool {
	return scope.OrgID == orgID && scope.ProjectID == projectID
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneNode(n domain.WbsNode) domain.WbsNode {
	n.ParentID = clonePtr(n.ParentID)
	n.Quantity = clonePtr(n.Quantity)
	n.Unit = clonePtr(n.Unit)
	return n
}

func cloneVersion(v domain.BudgetVersion) domain.BudgetVersion {
	v.LockedAt = clonePtr(v.LockedAt)
	v.ApprovedAt = clonePtr(v.ApprovedAt)
	v.ApprovedBy = clonePtr(v.ApprovedBy)
	return v
}

func cloneLine(l domain.BudgetLine) domain.BudgetLine {
	l.OverheadPct = clonePtr(l.OverheadPct)
	l.FinancialPct = clonePtr(l.FinancialPct)
	l.ProfitPct = clonePtr(l.ProfitPct)
	l.TaxPct = clonePtr(l.TaxPct)
	l.RetentionPct = clonePtr(l.RetentionPct)
	return l
}

func cloneResource(r domain.BudgetResource) domain.BudgetResource {
	if r.Attributes != nil {
		attrs := make(map[string]string, len(r.Attributes))
		for k, v := range r.Attributes {
			attrs[k] = v
		}
		r.Attributes = attrs
	}
	return r
}
