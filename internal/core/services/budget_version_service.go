package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/utils/costing"
)

// BudgetVersionService handles budget versions: creation, settings, copies,
// imports and the DRAFT/BASELINE/APPROVED lifecycle.
type BudgetVersionService struct {
	BaseService
}

// NewBudgetVersionService creates a new BudgetVersionService.
func NewBudgetVersionService(uow portsrepo.UnitOfWork, options ...ServiceOption) portssvc.BudgetVersionSvcFacade {
	return &BudgetVersionService{BaseService: newBaseService(uow, options...)}
}

// Ensure BudgetVersionService implements the portssvc.BudgetVersionSvcFacade interface
var _ portssvc.BudgetVersionSvcFacade = (*BudgetVersionService)(nil)

// GetVersion retrieves a version of the project.
func (s *BudgetVersionService) GetVersion(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.BudgetVersion, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionBudgetRead, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	var version *domain.BudgetVersion
	err := s.view(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		version, err = repos.Versions.FindVersionByID(ctx, scope, versionID)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get budget version", slog.String("version_id", versionID))
		return nil, err
	}
	return version, nil
}

// ListVersions returns every version of the project, oldest first.
func (s *BudgetVersionService) ListVersions(ctx context.Context, scope domain.Scope, actor domain.Actor) ([]domain.BudgetVersion, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionBudgetRead, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	var versions []domain.BudgetVersion
	err := s.view(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		versions, err = repos.Versions.ListVersions(ctx, scope)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list budget versions", slog.String("project_id", scope.ProjectID))
		return nil, err
	}
	if versions == nil {
		return []domain.BudgetVersion{}, nil
	}
	return versions, nil
}

// CreateVersion opens a DRAFT working version with the next "V<n>" code.
func (s *BudgetVersionService) CreateVersion(ctx context.Context, scope domain.Scope, req dto.CreateBudgetVersionRequest, actor domain.Actor) (*domain.BudgetVersion, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionVersionWrite, domain.RoleMember); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}
	mode := domain.MarkupSimple
	if req.MarkupMode != "" {
		mode = domain.MarkupMode(req.MarkupMode)
	}
	p := costing.Percentages{Overhead: req.OverheadPct, Financial: req.FinancialPct, Profit: req.ProfitPct, Tax: req.TaxPct}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	version := &domain.BudgetVersion{
		VersionID:    uuid.NewString(),
		OrgID:        scope.OrgID,
		ProjectID:    scope.ProjectID,
		Name:         name,
		VersionType:  domain.VersionWorking,
		Status:       domain.StatusDraft,
		MarkupMode:   mode,
		OverheadPct:  p.Overhead,
		FinancialPct: p.Financial,
		ProfitPct:    p.Profit,
		TaxPct:       p.Tax,
		AuditFields:  domain.NewAuditFields(actor.UserID, s.now()),
	}
	err := s.mutate(ctx, "budget.create_version", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		existing, err := repos.Versions.ListVersions(ctx, scope)
		if err != nil {
			return nil, err
		}
		version.VersionCode = domain.NextVersionCode(existing)
		if err := repos.Versions.SaveVersion(ctx, *version); err != nil {
			return nil, err
		}
		return []domain.DomainEvent{s.newEvent(domain.EventVersionCreated, scope, actor, []string{version.VersionID}, nil,
			map[string]any{"versionCode": version.VersionCode, "markupMode": string(mode)})}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create budget version", slog.String("project_id", scope.ProjectID))
		return nil, err
	}
	s.LogInfo(ctx, "Budget version created", slog.String("version_id", version.VersionID), slog.String("version_code", version.VersionCode))
	return version, nil
}

// UpdateVersionSettings edits a DRAFT version. When the markup mode or any
// global percentage changes every line of the version is repriced.
func (s *BudgetVersionService) UpdateVersionSettings(ctx context.Context, scope domain.Scope, versionID string, req dto.UpdateBudgetVersionRequest, actor domain.Actor) (*domain.BudgetVersion, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionVersionWrite, domain.RoleMember); err != nil {
		return nil, err
	}
	patch := req.ToPatch()
	if err := validateVersionPatch(patch); err != nil {
		return nil, err
	}

	var version *domain.BudgetVersion
	err := s.mutate(ctx, "budget.update_version", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		var err error
		if version, err = loadEditableVersion(ctx, repos, scope, versionID); err != nil {
			return nil, err
		}
		if err := checkExpectedVersion("budget version", versionID, patch.ExpectedVersion, version.Version); err != nil {
			return nil, err
		}
		before := versionSettings(*version)
		patch.Apply(version)
		now := s.now()
		version.Touch(actor.UserID, now)
		if err := repos.Versions.UpdateVersion(ctx, *version); err != nil {
			return nil, err
		}
		version.Version++

		var repriced []string
		if patch.TouchesPricing() {
			if repriced, err = repriceVersionLines(ctx, repos, scope, *version, actor.UserID, now); err != nil {
				return nil, err
			}
		}
		after := versionSettings(*version)
		after["repricedLines"] = len(repriced)
		return []domain.DomainEvent{s.newEvent(domain.EventVersionUpdated, scope, actor,
			append([]string{versionID}, repriced...), before, after)}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update budget version", slog.String("version_id", versionID))
		return nil, err
	}
	return version, nil
}

func validateVersionPatch(p domain.BudgetVersionPatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperrors.NewValidationError("name", "must not be blank")
	}
	if p.MarkupMode != nil && *p.MarkupMode != domain.MarkupSimple && *p.MarkupMode != domain.MarkupAdvanced {
		return apperrors.NewValidationError("markupMode", "must be SIMPLE or ADVANCED")
	}
	return validateLinePercentages(domain.BudgetLine{
		OverheadPct:  p.OverheadPct,
		FinancialPct: p.FinancialPct,
		ProfitPct:    p.ProfitPct,
		TaxPct:       p.TaxPct,
	})
}

func versionSettings(v domain.BudgetVersion) map[string]any {
	return map[string]any{
		"name":         v.Name,
		"markupMode":   string(v.MarkupMode),
		"overheadPct":  v.OverheadPct.String(),
		"financialPct": v.FinancialPct.String(),
		"profitPct":    v.ProfitPct.String(),
		"taxPct":       v.TaxPct.String(),
	}
}

// CopyVersion creates a DRAFT working copy of a version in any status, with
// its markup settings and a copy of every line and resource.
func (s *BudgetVersionService) CopyVersion(ctx context.Context, scope domain.Scope, sourceVersionID string, req dto.CopyBudgetVersionRequest, actor domain.Actor) (*domain.BudgetVersion, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionVersionWrite, domain.RoleMember); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}

	var version *domain.BudgetVersion
	err := s.mutate(ctx, "budget.copy_version", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		source, err := repos.Versions.FindVersionByID(ctx, scope, sourceVersionID)
		if err != nil {
			return nil, err
		}
		existing, err := repos.Versions.ListVersions(ctx, scope)
		if err != nil {
			return nil, err
		}
		now := s.now()
		version = &domain.BudgetVersion{
			VersionID:    uuid.NewString(),
			OrgID:        scope.OrgID,
			ProjectID:    scope.ProjectID,
			VersionCode:  domain.NextVersionCode(existing),
			Name:         name,
			VersionType:  domain.VersionWorking,
			Status:       domain.StatusDraft,
			MarkupMode:   source.MarkupMode,
			OverheadPct:  source.OverheadPct,
			FinancialPct: source.FinancialPct,
			ProfitPct:    source.ProfitPct,
			TaxPct:       source.TaxPct,
			AuditFields:  domain.NewAuditFields(actor.UserID, now),
		}
		if err := repos.Versions.SaveVersion(ctx, *version); err != nil {
			return nil, err
		}
		lines, err := repos.Lines.ListLinesByVersion(ctx, scope, sourceVersionID)
		if err != nil {
			return nil, err
		}
		if _, err := copyLines(ctx, repos, scope, *version, lines, 1, actor.UserID, now); err != nil {
			return nil, err
		}
		return []domain.DomainEvent{s.newEvent(domain.EventVersionCreated, scope, actor, []string{version.VersionID}, nil,
			map[string]any{"versionCode": version.VersionCode, "copiedFrom": sourceVersionID, "lineCount": len(lines)})}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to copy budget version", slog.String("source_version_id", sourceVersionID))
		return nil, err
	}
	s.LogInfo(ctx, "Budget version copied",
		slog.String("source_version_id", sourceVersionID),
		slog.String("version_id", version.VersionID))
	return version, nil
}

// ImportLines copies lines of another version of the same project into a
// DRAFT version, appended after its existing lines and priced with the
// target's markups. WbsNodeIDs, when given, restricts the import to lines of
// those nodes.
func (s *BudgetVersionService) ImportLines(ctx context.Context, scope domain.Scope, targetVersionID string, req dto.ImportBudgetLinesRequest, actor domain.Actor) ([]domain.BudgetLine, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionLineWrite, domain.RoleMember); err != nil {
		return nil, err
	}
	if req.SourceVersionID == targetVersionID {
		return nil, apperrors.NewValidationError("sourceVersionID", "must differ from the target version")
	}

	var imported []domain.BudgetLine
	err := s.mutate(ctx, "budget.import_lines", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		target, err := loadEditableVersion(ctx, repos, scope, targetVersionID)
		if err != nil {
			return nil, err
		}
		source, err := repos.Versions.FindVersionInOrg(ctx, scope.OrgID, req.SourceVersionID)
		if err != nil {
			return nil, err
		}
		if source.ProjectID != scope.ProjectID {
			return nil, apperrors.NewDomainError(apperrors.CodeCrossProjectImport,
				"version %s belongs to another project", req.SourceVersionID)
		}
		lines, err := repos.Lines.ListLinesByVersion(ctx, scope, source.VersionID)
		if err != nil {
			return nil, err
		}
		lines = filterLinesByNodes(lines, req.WbsNodeIDs)
		first, err := nextLineSortOrder(ctx, repos, scope, targetVersionID)
		if err != nil {
			return nil, err
		}
		if imported, err = copyLines(ctx, repos, scope, *target, lines, first, actor.UserID, s.now()); err != nil {
			return nil, err
		}
		if len(imported) == 0 {
			return nil, nil
		}
		return []domain.DomainEvent{s.newEvent(domain.EventLinesImported, scope, actor, lineIDs(imported), nil,
			map[string]any{"sourceVersionID": source.VersionID, "targetVersionID": targetVersionID, "count": len(imported)})}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to import budget lines",
			slog.String("source_version_id", req.SourceVersionID),
			slog.String("target_version_id", targetVersionID))
		return nil, err
	}
	if imported == nil {
		return []domain.BudgetLine{}, nil
	}
	return imported, nil
}

func filterLinesByNodes(lines []domain.BudgetLine, nodeIDs []string) []domain.BudgetLine {
	if len(nodeIDs) == 0 {
		return lines
	}
	wanted := make(map[string]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		wanted[id] = struct{}{}
	}
	var out []domain.BudgetLine
	for _, l := range lines {
		if _, ok := wanted[l.WbsNodeID]; ok {
			out = append(out, l)
		}
	}
	return out
}

// SetBaseline makes the version the project's only baseline. The previous
// baseline becomes a working version; if it was only baselined it returns to
// DRAFT, if it was approved it stays approved.
func (s *BudgetVersionService) SetBaseline(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.BudgetVersion, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionVersionLock, domain.RoleMember); err != nil {
		return nil, err
	}
	var version *domain.BudgetVersion
	err := s.mutate(ctx, "budget.set_baseline", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		var err error
		if version, err = repos.Versions.FindVersionByID(ctx, scope, versionID); err != nil {
			return nil, err
		}
		if version.VersionType == domain.VersionBaseline && version.Status == domain.StatusBaseline {
			return nil, nil
		}
		if !domain.CanTransition(version.Status, domain.StatusBaseline) {
			return nil, invalidTransition(version, domain.StatusBaseline)
		}
		before := map[string]any{"status": string(version.Status), "versionType": string(version.VersionType)}
		demoted, err := s.promoteBaseline(ctx, repos, scope, version, actor)
		if err != nil {
			return nil, err
		}
		return []domain.DomainEvent{s.newEvent(domain.EventVersionBaselined, scope, actor, append([]string{versionID}, demoted...),
			before, map[string]any{"status": string(version.Status), "versionType": string(version.VersionType), "demoted": demoted})}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to set baseline", slog.String("version_id", versionID))
		return nil, err
	}
	s.LogInfo(ctx, "Budget baseline set", slog.String("version_id", versionID), slog.String("version_code", version.VersionCode))
	return version, nil
}

// promoteBaseline demotes every other baseline of the project and writes
// version as BASELINE/BASELINE. It returns the ids of the demoted versions.
func (s *BudgetVersionService) promoteBaseline(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, version *domain.BudgetVersion, actor domain.Actor) ([]string, error) {
	all, err := repos.Versions.ListVersions(ctx, scope)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var demoted []string
	for i := range all {
		other := &all[i]
		if other.VersionID == version.VersionID || other.VersionType != domain.VersionBaseline {
			continue
		}
		other.VersionType = domain.VersionWorking
		if other.Status == domain.StatusBaseline {
			other.Status = domain.StatusDraft
			other.LockedAt = nil
		}
		other.Touch(actor.UserID, now)
		if err := repos.Versions.UpdateVersion(ctx, *other); err != nil {
			return nil, err
		}
		demoted = append(demoted, other.VersionID)
	}

	version.VersionType = domain.VersionBaseline
	version.Status = domain.StatusBaseline
	version.LockedAt = &now
	version.Touch(actor.UserID, now)
	if err := repos.Versions.UpdateVersion(ctx, *version); err != nil {
		return nil, err
	}
	version.Version++
	return demoted, nil
}

// ApproveVersion freezes a DRAFT or BASELINE version and records the approver.
func (s *BudgetVersionService) ApproveVersion(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.BudgetVersion, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionVersionApprove, domain.RoleAdmin); err != nil {
		return nil, err
	}
	var version *domain.BudgetVersion
	err := s.mutate(ctx, "budget.approve_version", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		var err error
		if version, err = repos.Versions.FindVersionByID(ctx, scope, versionID); err != nil {
			return nil, err
		}
		if !domain.CanTransition(version.Status, domain.StatusApproved) {
			return nil, invalidTransition(version, domain.StatusApproved)
		}
		before := version.Status
		now := s.now()
		approver := actor.UserID
		version.Status = domain.StatusApproved
		version.ApprovedAt = &now
		version.ApprovedBy = &approver
		if version.LockedAt == nil {
			version.LockedAt = &now
		}
		version.Touch(actor.UserID, now)
		if err := repos.Versions.UpdateVersion(ctx, *version); err != nil {
			return nil, err
		}
		version.Version++
		return []domain.DomainEvent{s.newEvent(domain.EventVersionApproved, scope, actor, []string{versionID},
			map[string]any{"status": string(before)}, map[string]any{"status": string(version.Status), "approvedBy": approver})}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to approve budget version", slog.String("version_id", versionID))
		return nil, err
	}
	s.LogInfo(ctx, "Budget version approved", slog.String("version_id", versionID), slog.String("approved_by", actor.UserID))
	return version, nil
}

// OverrideVersionStatus moves a locked version back to DRAFT or to BASELINE.
// Approval fields are cleared; going to BASELINE keeps the single-baseline rule.
func (s *BudgetVersionService) OverrideVersionStatus(ctx context.Context, scope domain.Scope, versionID string, req dto.OverrideVersionStatusRequest, actor domain.Actor) (*domain.BudgetVersion, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionVersionOverride, domain.RoleAdmin); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reason", "is required")
	}
	to := domain.VersionStatus(req.Status)

	var version *domain.BudgetVersion
	err := s.mutate(ctx, "budget.override_status", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		var err error
		if version, err = repos.Versions.FindVersionByID(ctx, scope, versionID); err != nil {
			return nil, err
		}
		if !domain.CanOverride(version.Status, to) {
			return nil, invalidTransition(version, to)
		}
		before := map[string]any{"status": string(version.Status), "versionType": string(version.VersionType)}
		version.ApprovedAt = nil
		version.ApprovedBy = nil

		affected := []string{versionID}
		if to == domain.StatusBaseline {
			demoted, err := s.promoteBaseline(ctx, repos, scope, version, actor)
			if err != nil {
				return nil, err
			}
			affected = append(affected, demoted...)
		} else {
			version.Status = domain.StatusDraft
			version.LockedAt = nil
			version.Touch(actor.UserID, s.now())
			if err := repos.Versions.UpdateVersion(ctx, *version); err != nil {
				return nil, err
			}
			version.Version++
		}
		return []domain.DomainEvent{s.newEvent(domain.EventVersionStatusOverridden, scope, actor, affected, before,
			map[string]any{"status": string(version.Status), "versionType": string(version.VersionType), "reason": reason})}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to override budget version status", slog.String("version_id", versionID), slog.String("to", req.Status))
		return nil, err
	}
	s.LogInfo(ctx, "Budget version status overridden",
		slog.String("version_id", versionID),
		slog.String("status", string(version.Status)),
		slog.String("reason", reason))
	return version, nil
}

func invalidTransition(v *domain.BudgetVersion, to domain.VersionStatus) error {
	return apperrors.NewDomainError(apperrors.CodeInvalidStatusTransition,
		"version %s cannot go from %s to %s", v.VersionCode, v.Status, to)
}
