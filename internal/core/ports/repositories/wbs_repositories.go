package repositories

import (
	"context"

	"github.com/simonbravin/bloqer/internal/core/domain"
)

// WbsNodeReader defines read operations for WBS nodes
type WbsNodeReader interface {
	// FindNodeByID retrieves a node of the project, active or not.
	FindNodeByID(ctx context.Context, scope domain.Scope, nodeID string) (*domain.WbsNode, error)

	// ListNodes retrieves the nodes of a project, optionally including inactive ones.
	ListNodes(ctx context.Context, scope domain.Scope, includeInactive bool) ([]domain.WbsNode, error)
}

// WbsNodeWriter defines write operations for WBS nodes.
// Updates are conditional on the node's Version as loaded and bump it by one;
// a mismatch fails with apperrors.ErrConflict.
type WbsNodeWriter interface {
	// SaveNode persists a new node.
	SaveNode(ctx context.Context, node domain.WbsNode) error

	// UpdateNodes writes code, parent, sort order, attributes and active flag of each node.
	UpdateNodes(ctx context.Context, nodes []domain.WbsNode) error

	// DeleteNodes hard-deletes nodes by id and returns how many were removed.
	DeleteNodes(ctx context.Context, scope domain.Scope, nodeIDs []string) (int64, error)
}

// WbsNodeRepositoryFacade combines all WBS node repository interfaces
type WbsNodeRepositoryFacade interface {
	WbsNodeReader
	WbsNodeWriter
}
