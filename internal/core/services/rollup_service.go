package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/core/wbs"
	"github.com/simonbravin/bloqer/internal/platform/metrics"
	"github.com/simonbravin/bloqer/internal/utils/costing"
	"golang.org/x/sync/singleflight"
)

// RollupService computes version rollups on demand. Concurrent requests for
// the same version share one computation.
type RollupService struct {
	BaseService
	flight singleflight.Group
}

// NewRollupService creates a new RollupService.
func NewRollupService(uow portsrepo.UnitOfWork, options ...ServiceOption) portssvc.RollupSvcFacade {
	return &RollupService{BaseService: newBaseService(uow, options...)}
}

// Ensure RollupService implements the portssvc.RollupSvcFacade interface
var _ portssvc.RollupSvcFacade = (*RollupService)(nil)

// GetVersionRollup aggregates the version's lines over the project's active tree.
func (s *RollupService) GetVersionRollup(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.VersionRollup, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionBudgetRead, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	key := scope.OrgID + "/" + scope.ProjectID + "/" + versionID
	result, err, shared := s.flight.Do(key, func() (interface{}, error) {
		return s.computeRollup(ctx, scope, versionID)
	})
	if shared {
		metrics.RollupShared.Inc()
	}
	if err != nil {
		s.logFailure(ctx, err, "Failed to compute version rollup", slog.String("version_id", versionID))
		return nil, err
	}

	// callers sharing a result each get their own node slice
	rollup := *result.(*domain.VersionRollup)
	rollup.Nodes = append([]domain.NodeRollup(nil), rollup.Nodes...)
	return &rollup, nil
}

func (s *RollupService) computeRollup(ctx context.Context, scope domain.Scope, versionID string) (*domain.VersionRollup, error) {
	start := time.Now()
	defer func() {
		metrics.RollupDuration.Observe(time.Since(start).Seconds())
	}()

	var rollup domain.VersionRollup
	err := s.view(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		version, err := repos.Versions.FindVersionByID(ctx, scope, versionID)
		if err != nil {
			return err
		}
		nodes, err := repos.Nodes.ListNodes(ctx, scope, false)
		if err != nil {
			return err
		}
		lines, err := repos.Lines.ListLinesByVersion(ctx, scope, versionID)
		if err != nil {
			return err
		}
		rollup = costing.Rollup(wbs.NewTree(nodes), *version, lines, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Version rollup computed",
		slog.String("version_id", versionID),
		slog.Int("nodes", len(rollup.Nodes)),
		slog.String("grand_total", rollup.GrandTotal.String()))
	return &rollup, nil
}

// PreviewMarkup prices a unit direct cost through the cascade and returns the
// breakdown with the line total for quantity. Nothing is persisted.
func (s *RollupService) PreviewMarkup(ctx context.Context, unitDirectCost, quantity decimal.Decimal, p costing.Percentages) (costing.Breakdown, decimal.Decimal, error) {
	if unitDirectCost.IsNegative() {
		return costing.Breakdown{}, decimal.Zero, apperrors.NewValidationError("unitDirectCost", "must not be negative")
	}
	if !quantity.IsPositive() {
		return costing.Breakdown{}, decimal.Zero, apperrors.NewValidationError("quantity", "must be greater than zero")
	}
	if err := p.Validate(); err != nil {
		return costing.Breakdown{}, decimal.Zero, err
	}
	breakdown := costing.Cascade(unitDirectCost, p)
	return breakdown, breakdown.TotalPrice.Mul(quantity).Round(costing.MoneyScale), nil
}
