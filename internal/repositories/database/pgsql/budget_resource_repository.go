package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	"github.com/simonbravin/bloqer/internal/models"
	"github.com/simonbravin/bloqer/internal/utils/mapping"
)

// PgxBudgetResourceRepository persists APU resources in budget_resources.
type PgxBudgetResourceRepository struct {
	BaseRepository
}

var _ portsrepo.BudgetResourceRepositoryFacade = (*PgxBudgetResourceRepository)(nil)

const budgetResourceColumns = `resource_id, org_id, project_id, budget_line_id, resource_type, name, unit, quantity, unit_cost, total_cost, attributes, created_at, created_by, last_updated_at, last_updated_by, version`

func scanBudgetResource(row rowScanner) (domain.BudgetResource, error) {
	var m models.BudgetResource
	err := row.Scan(
		&m.ResourceID,
		&m.OrgID,
		&m.ProjectID,
		&m.BudgetLineID,
		&m.ResourceType,
		&m.Name,
		&m.Unit,
		&m.Quantity,
		&m.UnitCost,
		&m.TotalCost,
		&m.Attributes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	if err != nil {
		return domain.BudgetResource{}, err
	}
	return mapping.ToDomainBudgetResource(m)
}

// FindResourceByID retrieves a resource of the project.
func (r *PgxBudgetResourceRepository) FindResourceByID(ctx context.Context, scope domain.Scope, resourceID string) (*domain.BudgetResource, error) {
	query := `SELECT ` + budgetResourceColumns + `
		FROM budget_resources
		WHERE org_id = $1 AND project_id = $2 AND resource_id = $3;`

	res, err := scanBudgetResource(r.db.QueryRow(ctx, query, scope.OrgID, scope.ProjectID, resourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("budget resource", resourceID)
		}
		return nil, fmt.Errorf("failed to find budget resource %s: %w", resourceID, err)
	}
	return &res, nil
}

// ListResourcesByLines retrieves the resources of the given lines in creation order.
func (r *PgxBudgetResourceRepository) ListResourcesByLines(ctx context.Context, scope domain.Scope, lineIDs []string) ([]domain.BudgetResource, error) {
	resources := make([]domain.BudgetResource, 0)
	if len(lineIDs) == 0 {
		return resources, nil
	}
	query := `SELECT ` + budgetResourceColumns + `
		FROM budget_resources
		WHERE org_id = $1 AND project_id = $2 AND budget_line_id = ANY($3)
		ORDER BY created_at, resource_id;`

	rows, err := r.db.Query(ctx, query, scope.OrgID, scope.ProjectID, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget resources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		res, err := scanBudgetResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget resource row: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget resource rows: %w", err)
	}
	return resources, nil
}

// SaveResources inserts new resources in one batch.
func (r *PgxBudgetResourceRepository) SaveResources(ctx context.Context, resources []domain.BudgetResource) error {
	if len(resources) == 0 {
		return nil
	}
	query := `
		INSERT INTO budget_resources (` + budgetResourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`

	batch := &pgx.Batch{}
	for _, res := range resources {
		m, err := mapping.ToModelBudgetResource(res)
		if err != nil {
			return err
		}
		batch.Queue(query,
			m.ResourceID,
			m.OrgID,
			m.ProjectID,
			m.BudgetLineID,
			m.ResourceType,
			m.Name,
			m.Unit,
			m.Quantity,
			m.UnitCost,
			m.TotalCost,
			m.Attributes,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
			m.Version,
		)
	}
	if err := r.execBatch(ctx, batch, nil); err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: budget resource: %v", apperrors.ErrDuplicate, err)
		}
		return fmt.Errorf("failed to save %d budget resources: %w", len(resources), err)
	}
	return nil
}

// UpdateResource writes a resource, conditional on Version.
func (r *PgxBudgetResourceRepository) UpdateResource(ctx context.Context, resource domain.BudgetResource) error {
	m, err := mapping.ToModelBudgetResource(resource)
	if err != nil {
		return err
	}
	query := `
		UPDATE budget_resources
		SET resource_type = $1, name = $2, unit = $3, quantity = $4, unit_cost = $5, total_cost = $6,
			attributes = $7, last_updated_at = $8, last_updated_by = $9, version = version + 1
		WHERE org_id = $10 AND project_id = $11 AND resource_id = $12 AND version = $13;`

	tag, err := r.db.Exec(ctx, query,
		m.ResourceType,
		m.Name,
		m.Unit,
		m.Quantity,
		m.UnitCost,
		m.TotalCost,
		m.Attributes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.OrgID,
		m.ProjectID,
		m.ResourceID,
		m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget resource %s: %w", m.ResourceID, err)
	}
	if tag.RowsAffected() == 0 {
		scope := domain.Scope{OrgID: m.OrgID, ProjectID: m.ProjectID}
		return r.staleOrMissing(ctx, "budget_resources", "resource_id", "budget resource", scope, m.ResourceID, m.Version)
	}
	return nil
}

// DeleteResource removes one resource.
func (r *PgxBudgetResourceRepository) DeleteResource(ctx context.Context, scope domain.Scope, resourceID string) error {
	query := `DELETE FROM budget_resources WHERE org_id = $1 AND project_id = $2 AND resource_id = $3;`
	tag, err := r.db.Exec(ctx, query, scope.OrgID, scope.ProjectID, resourceID)
	if err != nil {
		return fmt.Errorf("failed to delete budget resource %s: %w", resourceID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("budget resource", resourceID)
	}
	return nil
}
