package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	"github.com/simonbravin/bloqer/internal/models"
	"github.com/simonbravin/bloqer/internal/utils/mapping"
	"github.com/simonbravin/bloqer/internal/utils/pagination"
)

// PgxBudgetLineRepository persists budget lines in budget_lines.
type PgxBudgetLineRepository struct {
	BaseRepository
}

var _ portsrepo.BudgetLineRepositoryFacade = (*PgxBudgetLineRepository)(nil)

const budgetLineColumns = `line_id, org_id, project_id, budget_version_id, wbs_node_id, description, unit, quantity, direct_cost_total, sale_price_total, overhead_pct, financial_pct, profit_pct, tax_pct, retention_pct, sort_order, created_at, created_by, last_updated_at, last_updated_by, version`

func scanBudgetLine(row rowScanner) (domain.BudgetLine, error) {
	var m models.BudgetLine
	err := row.Scan(
		&m.LineID,
		&m.OrgID,
		&m.ProjectID,
		&m.BudgetVersionID,
		&m.WbsNodeID,
		&m.Description,
		&m.Unit,
		&m.Quantity,
		&m.DirectCostTotal,
		&m.SalePriceTotal,
		&m.OverheadPct,
		&m.FinancialPct,
		&m.ProfitPct,
		&m.TaxPct,
		&m.RetentionPct,
		&m.SortOrder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	if err != nil {
		return domain.BudgetLine{}, err
	}
	return mapping.ToDomainBudgetLine(m), nil
}

func (r *PgxBudgetLineRepository) queryLines(ctx context.Context, query string, args ...any) ([]domain.BudgetLine, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.BudgetLine, 0)
	for rows.Next() {
		l, err := scanBudgetLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget line row: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget line rows: %w", err)
	}
	return lines, nil
}

// FindLineByID retrieves a line of the project.
func (r *PgxBudgetLineRepository) FindLineByID(ctx context.Context, scope domain.Scope, lineID string) (*domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + `
		FROM budget_lines
		WHERE org_id = $1 AND project_id = $2 AND line_id = $3;`

	line, err := scanBudgetLine(r.db.QueryRow(ctx, query, scope.OrgID, scope.ProjectID, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("budget line", lineID)
		}
		return nil, fmt.Errorf("failed to find budget line %s: %w", lineID, err)
	}
	return &line, nil
}

// ListLinesByVersion retrieves every line of a version ordered by sort order.
func (r *PgxBudgetLineRepository) ListLinesByVersion(ctx context.Context, scope domain.Scope, versionID string) ([]domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + `
		FROM budget_lines
		WHERE org_id = $1 AND project_id = $2 AND budget_version_id = $3
		ORDER BY sort_order, line_id;`
	return r.queryLines(ctx, query, scope.OrgID, scope.ProjectID, versionID)
}

// ListLinesPage retrieves up to limit lines of a version strictly after the
// cursor, using the (sort_order, line_id) keyset.
func (r *PgxBudgetLineRepository) ListLinesPage(ctx context.Context, scope domain.Scope, versionID string, after *pagination.Cursor, limit int) ([]domain.BudgetLine, error) {
	var sb strings.Builder
	args := []any{scope.OrgID, scope.ProjectID, versionID}

	sb.WriteString(`SELECT ` + budgetLineColumns + `
		FROM budget_lines
		WHERE org_id = $1 AND project_id = $2 AND budget_version_id = $3`)
	if after != nil {
		sb.WriteString(` AND (sort_order, line_id) > ($4, $5)`)
		args = append(args, after.SortOrder, after.ID)
	}
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(` ORDER BY sort_order, line_id LIMIT $%d;`, len(args)))

	return r.queryLines(ctx, sb.String(), args...)
}

// ListLinesByNodes retrieves every line, of any version, attached to one of nodeIDs.
func (r *PgxBudgetLineRepository) ListLinesByNodes(ctx context.Context, scope domain.Scope, nodeIDs []string) ([]domain.BudgetLine, error) {
	if len(nodeIDs) == 0 {
		return []domain.BudgetLine{}, nil
	}
	query := `SELECT ` + budgetLineColumns + `
		FROM budget_lines
		WHERE org_id = $1 AND project_id = $2 AND wbs_node_id = ANY($3)
		ORDER BY sort_order, line_id;`
	return r.queryLines(ctx, query, scope.OrgID, scope.ProjectID, nodeIDs)
}

// SaveLines inserts new lines in one batch.
func (r *PgxBudgetLineRepository) SaveLines(ctx context.Context, lines []domain.BudgetLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO budget_lines (` + budgetLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);`

	batch := &pgx.Batch{}
	for _, l := range lines {
		m := mapping.ToModelBudgetLine(l)
		batch.Queue(query,
			m.LineID,
			m.OrgID,
			m.ProjectID,
			m.BudgetVersionID,
			m.WbsNodeID,
			m.Description,
			m.Unit,
			m.Quantity,
			m.DirectCostTotal,
			m.SalePriceTotal,
			m.OverheadPct,
			m.FinancialPct,
			m.ProfitPct,
			m.TaxPct,
			m.RetentionPct,
			m.SortOrder,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
			m.Version,
		)
	}
	if err := r.execBatch(ctx, batch, nil); err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: budget line: %v", apperrors.ErrDuplicate, err)
		}
		return fmt.Errorf("failed to save %d budget lines: %w", len(lines), err)
	}
	return nil
}

// UpdateLine writes a line, conditional on Version.
func (r *PgxBudgetLineRepository) UpdateLine(ctx context.Context, line domain.BudgetLine) error {
	m := mapping.ToModelBudgetLine(line)
	query := `
		UPDATE budget_lines
		SET wbs_node_id = $1, description = $2, unit = $3, quantity = $4,
			direct_cost_total = $5, sale_price_total = $6,
			overhead_pct = $7, financial_pct = $8, profit_pct = $9, tax_pct = $10, retention_pct = $11,
			sort_order = $12, last_updated_at = $13, last_updated_by = $14, version = version + 1
		WHERE org_id = $15 AND project_id = $16 AND line_id = $17 AND version = $18;`

	tag, err := r.db.Exec(ctx, query,
		m.WbsNodeID,
		m.Description,
		m.Unit,
		m.Quantity,
		m.DirectCostTotal,
		m.SalePriceTotal,
		m.OverheadPct,
		m.FinancialPct,
		m.ProfitPct,
		m.TaxPct,
		m.RetentionPct,
		m.SortOrder,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.OrgID,
		m.ProjectID,
		m.LineID,
		m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget line %s: %w", m.LineID, err)
	}
	if tag.RowsAffected() == 0 {
		scope := domain.Scope{OrgID: m.OrgID, ProjectID: m.ProjectID}
		return r.staleOrMissing(ctx, "budget_lines", "line_id", "budget line", scope, m.LineID, m.Version)
	}
	return nil
}

// DeleteLines removes lines; their resources go with them through ON DELETE CASCADE.
func (r *PgxBudgetLineRepository) DeleteLines(ctx context.Context, scope domain.Scope, lineIDs []string) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	query := `DELETE FROM budget_lines WHERE org_id = $1 AND project_id = $2 AND line_id = ANY($3);`
	tag, err := r.db.Exec(ctx, query, scope.OrgID, scope.ProjectID, lineIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %d budget lines: %w", len(lineIDs), err)
	}
	return tag.RowsAffected(), nil
}
