package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/utils/costing"
	"github.com/simonbravin/bloqer/internal/utils/pagination"
)

const (
	defaultLinePageSize = 50
	maxLinePageSize     = 500
)

// BudgetLineService handles budget lines and the APU resources they are
// costed from. Every mutation requires the owning version to be DRAFT.
type BudgetLineService struct {
	BaseService
	pageSize int
}

// NewBudgetLineService creates a new BudgetLineService. pageSize is the
// default page length of ListLines; 0 selects the built-in default.
func NewBudgetLineService(uow portsrepo.UnitOfWork, pageSize int, options ...ServiceOption) portssvc.BudgetLineSvcFacade {
	if pageSize <= 0 {
		pageSize = defaultLinePageSize
	}
	return &BudgetLineService{BaseService: newBaseService(uow, options...), pageSize: pageSize}
}

// Ensure BudgetLineService implements the portssvc.BudgetLineSvcFacade interface
var _ portssvc.BudgetLineSvcFacade = (*BudgetLineService)(nil)

// GetLineWithResources retrieves a line and its resources.
func (s *BudgetLineService) GetLineWithResources(ctx context.Context, scope domain.Scope, lineID string, actor domain.Actor) (*domain.BudgetLine, []domain.BudgetResource, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionBudgetRead, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}
	var (
		line      *domain.BudgetLine
		resources []domain.BudgetResource
	)
	err := s.view(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		if line, err = repos.Lines.FindLineByID(ctx, scope, lineID); err != nil {
			return err
		}
		resources, err = repos.Resources.ListResourcesByLines(ctx, scope, []string{lineID})
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get budget line", slog.String("line_id", lineID))
		return nil, nil, err
	}
	if resources == nil {
		resources = []domain.BudgetResource{}
	}
	return line, resources, nil
}

// ListLines returns one page of a version's lines ordered by sort order.
func (s *BudgetLineService) ListLines(ctx context.Context, scope domain.Scope, versionID string, params dto.ListBudgetLinesParams, actor domain.Actor) ([]domain.BudgetLine, *string, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionBudgetRead, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}
	after, err := pagination.DecodeCursor(params.NextToken)
	if err != nil {
		return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
	}
	limit := pagination.ClampLimit(params.Limit, s.pageSize, maxLinePageSize)

	var lines []domain.BudgetLine
	err = s.view(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		if _, err := repos.Versions.FindVersionByID(ctx, scope, versionID); err != nil {
			return err
		}
		var err error
		// one extra row tells whether another page exists
		lines, err = repos.Lines.ListLinesPage(ctx, scope, versionID, after, limit+1)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to list budget lines", slog.String("version_id", versionID))
		return nil, nil, err
	}

	var nextToken *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		token := pagination.EncodeCursor(pagination.Cursor{SortOrder: last.SortOrder, ID: last.LineID})
		nextToken = &token
	}
	if lines == nil {
		lines = []domain.BudgetLine{}
	}
	return lines, nextToken, nil
}

// ListResources returns the resources of a line.
func (s *BudgetLineService) ListResources(ctx context.Context, scope domain.Scope, lineID string, actor domain.Actor) ([]domain.BudgetResource, error) {
	_, resources, err := s.GetLineWithResources(ctx, scope, lineID, actor)
	return resources, err
}

// CreateLine adds a priced line to a DRAFT version. With resources the direct
// cost is their sum, otherwise unit direct cost times quantity.
func (s *BudgetLineService) CreateLine(ctx context.Context, scope domain.Scope, versionID string, req dto.CreateBudgetLineRequest, actor domain.Actor) (*domain.BudgetLine, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionLineWrite, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.Quantity.IsPositive() {
		return nil, apperrors.NewValidationError("quantity", "must be greater than zero")
	}
	if req.UnitDirectCost.IsNegative() {
		return nil, apperrors.NewValidationError("unitDirectCost", "must not be negative")
	}
	for i, r := range req.Resources {
		if err := validateResourceInput(fmt.Sprintf("resources[%d].", i), r.ResourceType, r.Quantity, r.UnitCost); err != nil {
			return nil, err
		}
	}
	now := s.now()
	line := &domain.BudgetLine{
		LineID:          uuid.NewString(),
		OrgID:           scope.OrgID,
		ProjectID:       scope.ProjectID,
		BudgetVersionID: versionID,
		WbsNodeID:       req.WbsNodeID,
		Description:     req.Description,
		Unit:            req.Unit,
		Quantity:        req.Quantity,
		OverheadPct:     req.OverheadPct,
		FinancialPct:    req.FinancialPct,
		ProfitPct:       req.ProfitPct,
		TaxPct:          req.TaxPct,
		RetentionPct:    req.RetentionPct,
		AuditFields:     domain.NewAuditFields(actor.UserID, now),
	}
	if err := validateLinePercentages(*line); err != nil {
		return nil, err
	}

	err := s.mutate(ctx, "budget.create_line", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		version, err := loadEditableVersion(ctx, repos, scope, versionID)
		if err != nil {
			return nil, err
		}
		if err := requireLineNode(ctx, repos, scope, req.WbsNodeID); err != nil {
			return nil, err
		}
		if line.SortOrder, err = nextLineSortOrder(ctx, repos, scope, versionID); err != nil {
			return nil, err
		}
		resources := make([]domain.BudgetResource, len(req.Resources))
		for i, r := range req.Resources {
			resources[i] = newResource(*line, domain.ResourceType(r.ResourceType), r.Name, r.Unit, r.Quantity, r.UnitCost, r.Attributes, actor.UserID, now)
		}
		if len(resources) == 0 {
			line.DirectCostTotal = req.UnitDirectCost.Mul(req.Quantity).Round(costing.MoneyScale)
		}
		applyResourceTotals(*version, line, resources)

		if err := repos.Lines.SaveLines(ctx, []domain.BudgetLine{*line}); err != nil {
			return nil, err
		}
		if len(resources) > 0 {
			if err := repos.Resources.SaveResources(ctx, resources); err != nil {
				return nil, err
			}
		}
		return []domain.DomainEvent{s.newEvent(domain.EventLineCreated, scope, actor, []string{line.LineID}, nil, lineTotals(*line))}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create budget line", slog.String("version_id", versionID), slog.String("wbs_node_id", req.WbsNodeID))
		return nil, err
	}
	return line, nil
}

// UpdateLine edits a line of a DRAFT version and recomputes its totals. The
// unit direct cost of a line with resources is derived and cannot be set.
func (s *BudgetLineService) UpdateLine(ctx context.Context, scope domain.Scope, lineID string, req dto.UpdateBudgetLineRequest, actor domain.Actor) (*domain.BudgetLine, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionLineWrite, domain.RoleMember); err != nil {
		return nil, err
	}
	patch := req.ToPatch()
	if patch.Quantity != nil && !patch.Quantity.IsPositive() {
		return nil, apperrors.NewValidationError("quantity", "must be greater than zero")
	}
	if patch.UnitDirectCost != nil && patch.UnitDirectCost.IsNegative() {
		return nil, apperrors.NewValidationError("unitDirectCost", "must not be negative")
	}
	if err := validateLinePercentages(domain.BudgetLine{
		OverheadPct:  patch.OverheadPct,
		FinancialPct: patch.FinancialPct,
		ProfitPct:    patch.ProfitPct,
		TaxPct:       patch.TaxPct,
		RetentionPct: patch.RetentionPct,
	}); err != nil {
		return nil, err
	}

	var line *domain.BudgetLine
	err := s.mutate(ctx, "budget.update_line", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		var err error
		if line, err = repos.Lines.FindLineByID(ctx, scope, lineID); err != nil {
			return nil, err
		}
		version, err := loadEditableVersion(ctx, repos, scope, line.BudgetVersionID)
		if err != nil {
			return nil, err
		}
		if err := checkExpectedVersion("budget line", lineID, patch.ExpectedVersion, line.Version); err != nil {
			return nil, err
		}
		if patch.WbsNodeID != nil && *patch.WbsNodeID != line.WbsNodeID {
			if err := requireLineNode(ctx, repos, scope, *patch.WbsNodeID); err != nil {
				return nil, err
			}
		}
		resources, err := repos.Resources.ListResourcesByLines(ctx, scope, []string{lineID})
		if err != nil {
			return nil, err
		}
		if patch.UnitDirectCost != nil && len(resources) > 0 {
			return nil, apperrors.NewDomainError(apperrors.CodeDirectCostDerived,
				"line %s has %d resources; its direct cost is their sum", lineID, len(resources))
		}

		before := lineTotals(*line)
		oldQuantity := line.Quantity
		patch.Apply(line)
		if patch.Quantity != nil {
			line.Quantity = *patch.Quantity
		}
		switch {
		case len(resources) > 0:
			line.DirectCostTotal = costing.SumResources(resources)
		case patch.UnitDirectCost != nil:
			line.DirectCostTotal = patch.UnitDirectCost.Mul(line.Quantity).Round(costing.MoneyScale)
		case patch.Quantity != nil && !oldQuantity.IsZero():
			// keep the unit direct cost, scale the total
			line.DirectCostTotal = line.DirectCostTotal.Div(oldQuantity).Mul(line.Quantity).Round(costing.MoneyScale)
		}
		costing.Reprice(*version, line)
		if err := saveLine(ctx, repos, line, actor.UserID, s.now()); err != nil {
			return nil, err
		}
		return []domain.DomainEvent{s.newEvent(domain.EventLineUpdated, scope, actor, []string{lineID}, before, lineTotals(*line))}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update budget line", slog.String("line_id", lineID))
		return nil, err
	}
	return line, nil
}

// DeleteLine removes a line of a DRAFT version together with its resources.
func (s *BudgetLineService) DeleteLine(ctx context.Context, scope domain.Scope, lineID string, actor domain.Actor) error {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionLineWrite, domain.RoleMember); err != nil {
		return err
	}
	err := s.mutate(ctx, "budget.delete_line", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		line, err := repos.Lines.FindLineByID(ctx, scope, lineID)
		if err != nil {
			return nil, err
		}
		if _, err := loadEditableVersion(ctx, repos, scope, line.BudgetVersionID); err != nil {
			return nil, err
		}
		if _, err := repos.Lines.DeleteLines(ctx, scope, []string{lineID}); err != nil {
			return nil, err
		}
		return []domain.DomainEvent{s.newEvent(domain.EventLineDeleted, scope, actor, []string{lineID}, lineTotals(*line), nil)}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete budget line", slog.String("line_id", lineID))
		return err
	}
	return nil
}

// AddResource adds a resource to a line and recomputes the line.
func (s *BudgetLineService) AddResource(ctx context.Context, scope domain.Scope, lineID string, req dto.CreateBudgetResourceRequest, actor domain.Actor) (*domain.LineRecompute, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionResourceWrite, domain.RoleMember); err != nil {
		return nil, err
	}
	if err := validateResourceInput("", req.ResourceType, req.Quantity, req.UnitCost); err != nil {
		return nil, err
	}
	var result *domain.LineRecompute
	err := s.mutate(ctx, "budget.add_resource", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		line, version, err := s.loadLineForWrite(ctx, repos, scope, lineID)
		if err != nil {
			return nil, err
		}
		now := s.now()
		resource := newResource(*line, domain.ResourceType(req.ResourceType), req.Name, req.Unit, req.Quantity, req.UnitCost, req.Attributes, actor.UserID, now)
		if err := repos.Resources.SaveResources(ctx, []domain.BudgetResource{resource}); err != nil {
			return nil, err
		}
		before := lineTotals(*line)
		if err := recomputeLine(ctx, repos, *version, line, actor.UserID, now); err != nil {
			return nil, err
		}
		result = &domain.LineRecompute{Resource: &resource, Line: *line}
		return []domain.DomainEvent{s.resourceEvent(scope, actor, *line, resource.ResourceID, "added", before)}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to add budget resource", slog.String("line_id", lineID))
		return nil, err
	}
	return result, nil
}

// UpdateResource edits a resource, recosts it and recomputes its line.
func (s *BudgetLineService) UpdateResource(ctx context.Context, scope domain.Scope, resourceID string, req dto.UpdateBudgetResourceRequest, actor domain.Actor) (*domain.LineRecompute, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionResourceWrite, domain.RoleMember); err != nil {
		return nil, err
	}
	patch := req.ToPatch()
	if patch.ResourceType != nil {
		if err := validateResourceInput("", string(*patch.ResourceType), decimal.Zero, decimal.Zero); err != nil {
			return nil, err
		}
	}
	if patch.Quantity != nil && patch.Quantity.IsNegative() {
		return nil, apperrors.NewValidationError("quantity", "must not be negative")
	}
	if patch.UnitCost != nil && patch.UnitCost.IsNegative() {
		return nil, apperrors.NewValidationError("unitCost", "must not be negative")
	}

	var result *domain.LineRecompute
	err := s.mutate(ctx, "budget.update_resource", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		resource, err := repos.Resources.FindResourceByID(ctx, scope, resourceID)
		if err != nil {
			return nil, err
		}
		line, version, err := s.loadLineForWrite(ctx, repos, scope, resource.BudgetLineID)
		if err != nil {
			return nil, err
		}
		if err := checkExpectedVersion("budget resource", resourceID, patch.ExpectedVersion, resource.Version); err != nil {
			return nil, err
		}
		now := s.now()
		patch.Apply(resource)
		resource.Touch(actor.UserID, now)
		if err := repos.Resources.UpdateResource(ctx, *resource); err != nil {
			return nil, err
		}
		resource.Version++
		before := lineTotals(*line)
		if err := recomputeLine(ctx, repos, *version, line, actor.UserID, now); err != nil {
			return nil, err
		}
		result = &domain.LineRecompute{Resource: resource, Line: *line}
		return []domain.DomainEvent{s.resourceEvent(scope, actor, *line, resourceID, "updated", before)}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update budget resource", slog.String("resource_id", resourceID))
		return nil, err
	}
	return result, nil
}

// DeleteResource removes a resource and recomputes its line. A line left
// without resources has a zero direct cost.
func (s *BudgetLineService) DeleteResource(ctx context.Context, scope domain.Scope, resourceID string, actor domain.Actor) (*domain.LineRecompute, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionResourceWrite, domain.RoleMember); err != nil {
		return nil, err
	}
	var result *domain.LineRecompute
	err := s.mutate(ctx, "budget.delete_resource", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		resource, err := repos.Resources.FindResourceByID(ctx, scope, resourceID)
		if err != nil {
			return nil, err
		}
		line, version, err := s.loadLineForWrite(ctx, repos, scope, resource.BudgetLineID)
		if err != nil {
			return nil, err
		}
		if err := repos.Resources.DeleteResource(ctx, scope, resourceID); err != nil {
			return nil, err
		}
		before := lineTotals(*line)
		if err := recomputeLine(ctx, repos, *version, line, actor.UserID, s.now()); err != nil {
			return nil, err
		}
		result = &domain.LineRecompute{Line: *line}
		return []domain.DomainEvent{s.resourceEvent(scope, actor, *line, resourceID, "deleted", before)}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete budget resource", slog.String("resource_id", resourceID))
		return nil, err
	}
	return result, nil
}

func (s *BudgetLineService) loadLineForWrite(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, lineID string) (*domain.BudgetLine, *domain.BudgetVersion, error) {
	line, err := repos.Lines.FindLineByID(ctx, scope, lineID)
	if err != nil {
		return nil, nil, err
	}
	version, err := loadEditableVersion(ctx, repos, scope, line.BudgetVersionID)
	if err != nil {
		return nil, nil, err
	}
	return line, version, nil
}

func (s *BudgetLineService) resourceEvent(scope domain.Scope, actor domain.Actor, line domain.BudgetLine, resourceID, change string, before map[string]any) domain.DomainEvent {
	after := lineTotals(line)
	after["resourceID"] = resourceID
	after["resourceChange"] = change
	return s.newEvent(domain.EventLineUpdated, scope, actor, []string{line.LineID, resourceID}, before, after)
}

// requireLineNode checks that a line may be attached to nodeID.
func requireLineNode(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, nodeID string) error {
	node, err := repos.Nodes.FindNodeByID(ctx, scope, nodeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewDomainError(apperrors.CodeNodeNotInProject, "WBS node %s is not part of this project", nodeID)
		}
		return err
	}
	if !node.Active {
		return apperrors.NewDomainError(apperrors.CodeNodeInactive, "WBS node %s is inactive", nodeID)
	}
	return nil
}

func validateResourceInput(prefix, resourceType string, quantity, unitCost decimal.Decimal) error {
	switch domain.ResourceType(resourceType) {
	case domain.ResourceMaterial, domain.ResourceLabor, domain.ResourceEquipment:
	default:
		return apperrors.NewValidationError(prefix+"resourceType", fmt.Sprintf("unknown resource type %q", resourceType))
	}
	if quantity.IsNegative() {
		return apperrors.NewValidationError(prefix+"quantity", "must not be negative")
	}
	if unitCost.IsNegative() {
		return apperrors.NewValidationError(prefix+"unitCost", "must not be negative")
	}
	return nil
}

func lineTotals(l domain.BudgetLine) map[string]any {
	return map[string]any{
		"wbsNodeID":       l.WbsNodeID,
		"quantity":        l.Quantity.String(),
		"directCostTotal": l.DirectCostTotal.String(),
		"salePriceTotal":  l.SalePriceTotal.String(),
	}
}
