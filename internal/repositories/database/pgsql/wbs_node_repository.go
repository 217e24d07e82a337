package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	"github.com/simonbravin/bloqer/internal/models"
	"github.com/simonbravin/bloqer/internal/utils/mapping"
)

// PgxWbsNodeRepository persists WBS nodes in wbs_nodes.
type PgxWbsNodeRepository struct {
	BaseRepository
}

// Ensure PgxWbsNodeRepository implements portsrepo.WbsNodeRepositoryFacade
var _ portsrepo.WbsNodeRepositoryFacade = (*PgxWbsNodeRepository)(nil)

const wbsNodeColumns = `node_id, org_id, project_id, code, name, description, category, parent_id, sort_order, active, quantity, unit, created_at, created_by, last_updated_at, last_updated_by, version`

// uniqueActiveCode is the partial unique index over active codes of a project.
const uniqueActiveCode = "wbs_nodes_active_code_key"

func scanWbsNode(row rowScanner) (domain.WbsNode, error) {
	var m models.WbsNode
	err := row.Scan(
		&m.NodeID,
		&m.OrgID,
		&m.ProjectID,
		&m.Code,
		&m.Name,
		&m.Description,
		&m.Category,
		&m.ParentID,
		&m.SortOrder,
		&m.Active,
		&m.Quantity,
		&m.Unit,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	if err != nil {
		return domain.WbsNode{}, err
	}
	return mapping.ToDomainWbsNode(m), nil
}

// FindNodeByID retrieves a node of the project, active or not.
func (r *PgxWbsNodeRepository) FindNodeByID(ctx context.Context, scope domain.Scope, nodeID string) (*domain.WbsNode, error) {
	query := `SELECT ` + wbsNodeColumns + `
		FROM wbs_nodes
		WHERE org_id = $1 AND project_id = $2 AND node_id = $3;`

	node, err := scanWbsNode(r.db.QueryRow(ctx, query, scope.OrgID, scope.ProjectID, nodeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("wbs node", nodeID)
		}
		return nil, fmt.Errorf("failed to find wbs node %s: %w", nodeID, err)
	}
	return &node, nil
}

// ListNodes retrieves the nodes of a project ordered by sort order.
func (r *PgxWbsNodeRepository) ListNodes(ctx context.Context, scope domain.Scope, includeInactive bool) ([]domain.WbsNode, error) {
	query := `SELECT ` + wbsNodeColumns + `
		FROM wbs_nodes
		WHERE org_id = $1 AND project_id = $2 AND (active OR $3)
		ORDER BY sort_order, node_id;`

	rows, err := r.db.Query(ctx, query, scope.OrgID, scope.ProjectID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to query wbs nodes of project %s: %w", scope.ProjectID, err)
	}
	defer rows.Close()

	nodes := make([]domain.WbsNode, 0)
	for rows.Next() {
		node, err := scanWbsNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wbs node row: %w", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wbs node rows: %w", err)
	}
	return nodes, nil
}

// SaveNode inserts a new node.
func (r *PgxWbsNodeRepository) SaveNode(ctx context.Context, node domain.WbsNode) error {
	m := mapping.ToModelWbsNode(node)
	query := `
		INSERT INTO wbs_nodes (` + wbsNodeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`

	_, err := r.db.Exec(ctx, query,
		m.NodeID,
		m.OrgID,
		m.ProjectID,
		m.Code,
		m.Name,
		m.Description,
		m.Category,
		m.ParentID,
		m.SortOrder,
		m.Active,
		m.Quantity,
		m.Unit,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		if isUniqueViolation(err, uniqueActiveCode) {
			return fmt.Errorf("%w: code %s is already used in project %s", apperrors.ErrConflict, m.Code, m.ProjectID)
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: wbs node %s", apperrors.ErrDuplicate, m.NodeID)
		}
		return fmt.Errorf("failed to save wbs node %s: %w", m.NodeID, err)
	}
	return nil
}

// UpdateNodes writes every node conditional on its loaded version.
// Codes are first parked on a per-node placeholder so that a renumbering
// which swaps codes between siblings never trips the unique index halfway.
func (r *PgxWbsNodeRepository) UpdateNodes(ctx context.Context, nodes []domain.WbsNode) error {
	if len(nodes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	parkQuery := `
		UPDATE wbs_nodes SET code = '#' || node_id
		WHERE org_id = $1 AND project_id = $2 AND node_id = $3 AND active;`
	for _, n := range nodes {
		batch.Queue(parkQuery, n.OrgID, n.ProjectID, n.NodeID)
	}

	updateQuery := `
		UPDATE wbs_nodes
		SET code = $1, name = $2, description = $3, parent_id = $4, sort_order = $5, active = $6,
			quantity = $7, unit = $8, last_updated_at = $9, last_updated_by = $10, version = version + 1
		WHERE org_id = $11 AND project_id = $12 AND node_id = $13 AND version = $14;`
	for _, n := range nodes {
		m := mapping.ToModelWbsNode(n)
		batch.Queue(updateQuery,
			m.Code,
			m.Name,
			m.Description,
			m.ParentID,
			m.SortOrder,
			m.Active,
			m.Quantity,
			m.Unit,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
			m.OrgID,
			m.ProjectID,
			m.NodeID,
			m.Version,
		)
	}

	stale := -1
	err := r.execBatch(ctx, batch, func(i int, tag pgconn.CommandTag) error {
		if i >= len(nodes) && tag.RowsAffected() == 0 {
			stale = i - len(nodes)
			return errStaleRow
		}
		return nil
	})
	if errors.Is(err, errStaleRow) {
		n := nodes[stale]
		return r.staleOrMissing(ctx, "wbs_nodes", "node_id", "wbs node", domain.Scope{OrgID: n.OrgID, ProjectID: n.ProjectID}, n.NodeID, n.Version)
	}
	if err != nil {
		if isUniqueViolation(err, uniqueActiveCode) {
			return fmt.Errorf("%w: duplicate active wbs code after update: %v", apperrors.ErrConflict, err)
		}
		return fmt.Errorf("failed to update %d wbs nodes: %w", len(nodes), err)
	}
	return nil
}

// DeleteNodes hard-deletes nodes by id.
func (r *PgxWbsNodeRepository) DeleteNodes(ctx context.Context, scope domain.Scope, nodeIDs []string) (int64, error) {
	if len(nodeIDs) == 0 {
		return 0, nil
	}
	query := `DELETE FROM wbs_nodes WHERE org_id = $1 AND project_id = $2 AND node_id = ANY($3);`
	tag, err := r.db.Exec(ctx, query, scope.OrgID, scope.ProjectID, nodeIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %d wbs nodes: %w", len(nodeIDs), err)
	}
	return tag.RowsAffected(), nil
}
