package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/utils/costing"
)

// BudgetVersionReaderSvc defines read operations for budget versions
type BudgetVersionReaderSvc interface {
	GetVersion(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.BudgetVersion, error)
	ListVersions(ctx context.Context, scope domain.Scope, actor domain.Actor) ([]domain.BudgetVersion, error)
}

// BudgetVersionWriterSvc defines version creation and settings changes
type BudgetVersionWriterSvc interface {
	// CreateVersion opens a new DRAFT working version with the next "V<n>" code.
	CreateVersion(ctx context.Context, scope domain.Scope, req dto.CreateBudgetVersionRequest, actor domain.Actor) (*domain.BudgetVersion, error)

	// UpdateVersionSettings edits a DRAFT version and reprices its lines when markups change.
	UpdateVersionSettings(ctx context.Context, scope domain.Scope, versionID string, req dto.UpdateBudgetVersionRequest, actor domain.Actor) (*domain.BudgetVersion, error)

	// CopyVersion creates a DRAFT copy of a version with all its lines and resources.
	CopyVersion(ctx context.Context, scope domain.Scope, sourceVersionID string, req dto.CopyBudgetVersionRequest, actor domain.Actor) (*domain.BudgetVersion, error)

	// ImportLines copies lines of another version of the project into a DRAFT version.
	ImportLines(ctx context.Context, scope domain.Scope, targetVersionID string, req dto.ImportBudgetLinesRequest, actor domain.Actor) ([]domain.BudgetLine, error)
}

// BudgetVersionLifecycleSvc defines the version state machine
type BudgetVersionLifecycleSvc interface {
	// SetBaseline makes the version the project's only baseline.
	SetBaseline(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.BudgetVersion, error)

	// ApproveVersion freezes the version.
	ApproveVersion(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.BudgetVersion, error)

	// OverrideVersionStatus is the privileged path out of a locked status.
	OverrideVersionStatus(ctx context.Context, scope domain.Scope, versionID string, req dto.OverrideVersionStatusRequest, actor domain.Actor) (*domain.BudgetVersion, error)
}

// BudgetVersionSvcFacade combines all budget version service interfaces
type BudgetVersionSvcFacade interface {
	BudgetVersionReaderSvc
	BudgetVersionWriterSvc
	BudgetVersionLifecycleSvc
}

// BudgetLineReaderSvc defines read operations for lines and their resources
type BudgetLineReaderSvc interface {
	GetLineWithResources(ctx context.Context, scope domain.Scope, lineID string, actor domain.Actor) (*domain.BudgetLine, []domain.BudgetResource, error)

	// ListLines returns a page of a version's lines and the token of the next page, if any.
	ListLines(ctx context.Context, scope domain.Scope, versionID string, params dto.ListBudgetLinesParams, actor domain.Actor) ([]domain.BudgetLine, *string, error)

	ListResources(ctx context.Context, scope domain.Scope, lineID string, actor domain.Actor) ([]domain.BudgetResource, error)
}

// BudgetLineWriterSvc defines line mutations; all require a DRAFT version
type BudgetLineWriterSvc interface {
	CreateLine(ctx context.Context, scope domain.Scope, versionID string, req dto.CreateBudgetLineRequest, actor domain.Actor) (*domain.BudgetLine, error)
	UpdateLine(ctx context.Context, scope domain.Scope, lineID string, req dto.UpdateBudgetLineRequest, actor domain.Actor) (*domain.BudgetLine, error)
	DeleteLine(ctx context.Context, scope domain.Scope, lineID string, actor domain.Actor) error
}

// BudgetResourceLedgerSvc defines resource mutations. Each recomputes the
// owning line's totals in the same transaction.
type BudgetResourceLedgerSvc interface {
	AddResource(ctx context.Context, scope domain.Scope, lineID string, req dto.CreateBudgetResourceRequest, actor domain.Actor) (*domain.LineRecompute, error)
	UpdateResource(ctx context.Context, scope domain.Scope, resourceID string, req dto.UpdateBudgetResourceRequest, actor domain.Actor) (*domain.LineRecompute, error)
	DeleteResource(ctx context.Context, scope domain.Scope, resourceID string, actor domain.Actor) (*domain.LineRecompute, error)
}

// BudgetLineSvcFacade combines all budget line service interfaces
type BudgetLineSvcFacade interface {
	BudgetLineReaderSvc
	BudgetLineWriterSvc
	BudgetResourceLedgerSvc
}

// RollupSvcFacade defines the read-side aggregation and pricing previews
type RollupSvcFacade interface {
	// GetVersionRollup aggregates a version's lines over the active tree.
	GetVersionRollup(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.VersionRollup, error)

	// PreviewMarkup prices a unit direct cost and quantity without persisting anything.
	PreviewMarkup(ctx context.Context, unitDirectCost, quantity decimal.Decimal, p costing.Percentages) (costing.Breakdown, decimal.Decimal, error)
}
