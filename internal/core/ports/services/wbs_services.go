package services

import (
	"context"

	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/dto"
)

// WbsReaderSvc defines read operations on a project's WBS
type WbsReaderSvc interface {
	// ListTree returns the active nodes in pre-order, siblings by sort order.
	ListTree(ctx context.Context, scope domain.Scope, actor domain.Actor) ([]domain.WbsNode, error)

	// GetNode retrieves a single node, active or not.
	GetNode(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) (*domain.WbsNode, error)
}

// WbsWriterSvc defines the structural mutations of a project's WBS.
// Each runs in one transaction and emits its domain event after commit.
type WbsWriterSvc interface {
	// AddNode creates a node as the last child of its parent, optionally from a template.
	AddNode(ctx context.Context, scope domain.Scope, req dto.CreateWbsNodeRequest, actor domain.Actor) (*domain.WbsNode, error)

	// UpdateNode edits a node's descriptive attributes.
	UpdateNode(ctx context.Context, scope domain.Scope, nodeID string, req dto.UpdateWbsNodeRequest, actor domain.Actor) (*domain.WbsNode, error)

	// MoveNode reparents a node and rewrites its subtree's codes. It returns every changed node.
	MoveNode(ctx context.Context, scope domain.Scope, nodeID string, req dto.MoveWbsNodeRequest, actor domain.Actor) ([]domain.WbsNode, error)

	// ReorderChildren sets the sibling order under a parent and resequences codes.
	ReorderChildren(ctx context.Context, scope domain.Scope, req dto.ReorderWbsChildrenRequest, actor domain.Actor) ([]domain.WbsNode, error)

	// SoftDeleteNode deactivates a node and its subtree without renumbering.
	SoftDeleteNode(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) error

	// DeleteNodeWithRenumber deactivates a childless node and closes the gap in its siblings' codes.
	DeleteNodeWithRenumber(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) ([]domain.WbsNode, error)

	// DeleteNodeCascade hard-deletes a subtree and its budget lines, then renumbers siblings.
	DeleteNodeCascade(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) (*domain.CascadeDeleteResult, error)
}

// WbsSvcFacade combines all WBS service interfaces
type WbsSvcFacade interface {
	WbsReaderSvc
	WbsWriterSvc
}
