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

// PgxBudgetVersionRepository persists budget versions in budget_versions.
type PgxBudgetVersionRepository struct {
	BaseRepository
}

var _ portsrepo.BudgetVersionRepositoryFacade = (*PgxBudgetVersionRepository)(nil)

const budgetVersionColumns = `version_id, org_id, project_id, version_code, name, version_type, status, markup_mode, overhead_pct, financial_pct, profit_pct, tax_pct, locked_at, approved_at, approved_by, created_at, created_by, last_updated_at, last_updated_by, version`

const (
	uniqueVersionCode     = "budget_versions_code_key"
	uniqueProjectBaseline = "budget_versions_one_baseline_key"
)

func scanBudgetVersion(row rowScanner) (domain.BudgetVersion, error) {
	var m models.BudgetVersion
	err := row.Scan(
		&m.VersionID,
		&m.OrgID,
		&m.ProjectID,
		&m.VersionCode,
		&m.Name,
		&m.VersionType,
		&m.Status,
		&m.MarkupMode,
		&m.OverheadPct,
		&m.FinancialPct,
		&m.ProfitPct,
		&m.TaxPct,
		&m.LockedAt,
		&m.ApprovedAt,
		&m.ApprovedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	if err != nil {
		return domain.BudgetVersion{}, err
	}
	return mapping.ToDomainBudgetVersion(m), nil
}

func (r *PgxBudgetVersionRepository) findOne(ctx context.Context, versionID, where string, args ...any) (*domain.BudgetVersion, error) {
	query := `SELECT ` + budgetVersionColumns + ` FROM budget_versions WHERE ` + where + `;`
	version, err := scanBudgetVersion(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("budget version", versionID)
		}
		return nil, fmt.Errorf("failed to find budget version %s: %w", versionID, err)
	}
	return &version, nil
}

// FindVersionByID retrieves a version of the project.
func (r *PgxBudgetVersionRepository) FindVersionByID(ctx context.Context, scope domain.Scope, versionID string) (*domain.BudgetVersion, error) {
	return r.findOne(ctx, versionID, `org_id = $1 AND project_id = $2 AND version_id = $3`, scope.OrgID, scope.ProjectID, versionID)
}

// FindVersionInOrg retrieves a version anywhere in the organization.
func (r *PgxBudgetVersionRepository) FindVersionInOrg(ctx context.Context, orgID string, versionID string) (*domain.BudgetVersion, error) {
	return r.findOne(ctx, versionID, `org_id = $1 AND version_id = $2`, orgID, versionID)
}

// ListVersions retrieves every version of the project ordered by creation.
func (r *PgxBudgetVersionRepository) ListVersions(ctx context.Context, scope domain.Scope) ([]domain.BudgetVersion, error) {
	query := `SELECT ` + budgetVersionColumns + `
		FROM budget_versions
		WHERE org_id = $1 AND project_id = $2
		ORDER BY created_at, version_code;`

	rows, err := r.db.Query(ctx, query, scope.OrgID, scope.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget versions of project %s: %w", scope.ProjectID, err)
	}
	defer rows.Close()

	versions := make([]domain.BudgetVersion, 0)
	for rows.Next() {
		v, err := scanBudgetVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget version row: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget version rows: %w", err)
	}
	return versions, nil
}

// SaveVersion inserts a new version.
func (r *PgxBudgetVersionRepository) SaveVersion(ctx context.Context, version domain.BudgetVersion) error {
	m := mapping.ToModelBudgetVersion(version)
	query := `
		INSERT INTO budget_versions (` + budgetVersionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);`

	_, err := r.db.Exec(ctx, query,
		m.VersionID,
		m.OrgID,
		m.ProjectID,
		m.VersionCode,
		m.Name,
		m.VersionType,
		m.Status,
		m.MarkupMode,
		m.OverheadPct,
		m.FinancialPct,
		m.ProfitPct,
		m.TaxPct,
		m.LockedAt,
		m.ApprovedAt,
		m.ApprovedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return r.mapWriteError(err, m)
	}
	return nil
}

// UpdateVersion writes settings, type, status and lock fields, conditional on Version.
func (r *PgxBudgetVersionRepository) UpdateVersion(ctx context.Context, version domain.BudgetVersion) error {
	m := mapping.ToModelBudgetVersion(version)
	query := `
		UPDATE budget_versions
		SET name = $1, version_type = $2, status = $3, markup_mode = $4,
			overhead_pct = $5, financial_pct = $6, profit_pct = $7, tax_pct = $8,
			locked_at = $9, approved_at = $10, approved_by = $11,
			last_updated_at = $12, last_updated_by = $13, version = version + 1
		WHERE org_id = $14 AND project_id = $15 AND version_id = $16 AND version = $17;`

	tag, err := r.db.Exec(ctx, query,
		m.Name,
		m.VersionType,
		m.Status,
		m.MarkupMode,
		m.OverheadPct,
		m.FinancialPct,
		m.ProfitPct,
		m.TaxPct,
		m.LockedAt,
		m.ApprovedAt,
		m.ApprovedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.OrgID,
		m.ProjectID,
		m.VersionID,
		m.Version,
	)
	if err != nil {
		return r.mapWriteError(err, m)
	}
	if tag.RowsAffected() == 0 {
		scope := domain.Scope{OrgID: m.OrgID, ProjectID: m.ProjectID}
		return r.staleOrMissing(ctx, "budget_versions", "version_id", "budget version", scope, m.VersionID, m.Version)
	}
	return nil
}

func (r *PgxBudgetVersionRepository) mapWriteError(err error, m models.BudgetVersion) error {
	switch {
	case isUniqueViolation(err, uniqueVersionCode):
		return fmt.Errorf("%w: version code %s is already used in project %s", apperrors.ErrConflict, m.VersionCode, m.ProjectID)
	case isUniqueViolation(err, uniqueProjectBaseline):
		return fmt.Errorf("%w: project %s already has a baseline version", apperrors.ErrConflict, m.ProjectID)
	case isUniqueViolation(err, ""):
		return fmt.Errorf("%w: budget version %s", apperrors.ErrDuplicate, m.VersionID)
	default:
		return fmt.Errorf("failed to write budget version %s: %w", m.VersionID, err)
	}
}
