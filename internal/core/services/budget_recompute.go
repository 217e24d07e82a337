package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	"github.com/simonbravin/bloqer/internal/utils/costing"
)

// requireEditable fails with VERSION_LOCKED unless the version is DRAFT.
func requireEditable(v *domain.BudgetVersion) error {
	if v.IsEditable() {
		return nil
	}
	return apperrors.NewDomainError(apperrors.CodeVersionLocked,
		"budget version %s is %s; only DRAFT versions can be modified", v.VersionCode, v.Status)
}

// checkExpectedVersion rejects a patch prepared against an older row.
func checkExpectedVersion(kind, id string, expected *int64, actual int64) error {
	if expected == nil || *expected == actual {
		return nil
	}
	return fmt.Errorf("%w: %s %s is at version %d, request expected %d", apperrors.ErrConflict, kind, id, actual, *expected)
}

func loadEditableVersion(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, versionID string) (*domain.BudgetVersion, error) {
	version, err := repos.Versions.FindVersionByID(ctx, scope, versionID)
	if err != nil {
		return nil, err
	}
	if err := requireEditable(version); err != nil {
		return nil, err
	}
	return version, nil
}

// validateLinePercentages checks the per-line overrides that are set.
func validateLinePercentages(l domain.BudgetLine) error {
	fields := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"overheadPct", l.OverheadPct},
		{"financialPct", l.FinancialPct},
		{"profitPct", l.ProfitPct},
		{"taxPct", l.TaxPct},
		{"retentionPct", l.RetentionPct},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := costing.ValidatePercentage(f.name, *f.value); err != nil {
			return err
		}
	}
	return nil
}

func nextLineSortOrder(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, versionID string) (int, error) {
	lines, err := repos.Lines.ListLinesByVersion(ctx, scope, versionID)
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, l := range lines {
		if l.SortOrder > highest {
			highest = l.SortOrder
		}
	}
	return highest + 1, nil
}

// newResource builds a costed resource of line.
func newResource(line domain.BudgetLine, resourceType domain.ResourceType, name, unit string, quantity, unitCost decimal.Decimal, attributes map[string]string, userID string, now time.Time) domain.BudgetResource {
	r := domain.BudgetResource{
		ResourceID:   uuid.NewString(),
		OrgID:        line.OrgID,
		ProjectID:    line.ProjectID,
		BudgetLineID: line.LineID,
		ResourceType: resourceType,
		Name:         name,
		Unit:         unit,
		Quantity:     quantity,
		UnitCost:     unitCost,
		Attributes:   attributes,
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	r.Recost()
	return r
}

// applyResourceTotals sets the line's direct cost from its resources, when it
// has any, and reprices it.
func applyResourceTotals(version domain.BudgetVersion, line *domain.BudgetLine, resources []domain.BudgetResource) {
	if len(resources) > 0 {
		line.DirectCostTotal = costing.SumResources(resources)
	}
	costing.Reprice(version, line)
}

// recomputeLine reloads the line's resources inside the transaction, derives
// its totals and writes it. line.Version is advanced on success.
func recomputeLine(ctx context.Context, repos portsrepo.Repositories, version domain.BudgetVersion, line *domain.BudgetLine, userID string, now time.Time) error {
	resources, err := repos.Resources.ListResourcesByLines(ctx, domain.Scope{OrgID: line.OrgID, ProjectID: line.ProjectID}, []string{line.LineID})
	if err != nil {
		return err
	}
	if len(resources) == 0 {
		line.DirectCostTotal = decimal.Zero
	}
	applyResourceTotals(version, line, resources)
	return saveLine(ctx, repos, line, userID, now)
}

func saveLine(ctx context.Context, repos portsrepo.Repositories, line *domain.BudgetLine, userID string, now time.Time) error {
	line.Touch(userID, now)
	if err := repos.Lines.UpdateLine(ctx, *line); err != nil {
		return err
	}
	line.Version++
	return nil
}

// repriceVersionLines reprices every line of version, used after its markups change.
func repriceVersionLines(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, version domain.BudgetVersion, userID string, now time.Time) ([]string, error) {
	lines, err := repos.Lines.ListLinesByVersion(ctx, scope, version.VersionID)
	if err != nil {
		return nil, err
	}
	var changed []string
	for i := range lines {
		before := lines[i].SalePriceTotal
		costing.Reprice(version, &lines[i])
		if before.Equal(lines[i].SalePriceTotal) {
			continue
		}
		if err := saveLine(ctx, repos, &lines[i], userID, now); err != nil {
			return nil, err
		}
		changed = append(changed, lines[i].LineID)
	}
	return changed, nil
}

// copyLines duplicates lines and their resources into target under new ids,
// repricing each copy with target's markups. It returns the saved copies.
func copyLines(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, target domain.BudgetVersion, lines []domain.BudgetLine, firstSortOrder int, userID string, now time.Time) ([]domain.BudgetLine, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	sourceIDs := make([]string, len(lines))
	for i, l := range lines {
		sourceIDs[i] = l.LineID
	}
	resources, err := repos.Resources.ListResourcesByLines(ctx, scope, sourceIDs)
	if err != nil {
		return nil, err
	}
	byLine := make(map[string][]domain.BudgetResource, len(lines))
	for _, r := range resources {
		byLine[r.BudgetLineID] = append(byLine[r.BudgetLineID], r)
	}

	copies := make([]domain.BudgetLine, len(lines))
	var newResources []domain.BudgetResource
	for i, src := range lines {
		c := src
		c.LineID = uuid.NewString()
		c.BudgetVersionID = target.VersionID
		c.SortOrder = firstSortOrder + i
		c.AuditFields = domain.NewAuditFields(userID, now)
		costing.Reprice(target, &c)
		copies[i] = c
		for _, r := range byLine[src.LineID] {
			newResources = append(newResources, newResource(c, r.ResourceType, r.Name, r.Unit, r.Quantity, r.UnitCost, cloneAttributes(r.Attributes), userID, now))
		}
	}
	if err := repos.Lines.SaveLines(ctx, copies); err != nil {
		return nil, err
	}
	if len(newResources) > 0 {
		if err := repos.Resources.SaveResources(ctx, newResources); err != nil {
			return nil, err
		}
	}
	return copies, nil
}

func cloneAttributes(attrs map[string]string) map[string]string {
	if attrs == nil {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func lineIDs(lines []domain.BudgetLine) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.LineID
	}
	return ids
}
