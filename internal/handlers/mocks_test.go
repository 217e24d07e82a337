package handlers_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/utils/costing"
	"github.com/stretchr/testify/mock"
)

// --- Mock WbsService ---
type MockWbsService struct {
	mock.Mock
}

func (m *MockWbsService) ListTree(ctx context.Context, scope domain.Scope, actor domain.Actor) ([]domain.WbsNode, error) {
	args := m.Called(ctx, scope, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WbsNode), args.Error(1)
}
func (m *MockWbsService) GetNode(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) (*domain.WbsNode, error) {
	args := m.Called(ctx, scope, nodeID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WbsNode), args.Error(1)
}
func (m *MockWbsService) AddNode(ctx context.Context, scope domain.Scope, req dto.CreateWbsNodeRequest, actor domain.Actor) (*domain.WbsNode, error) {
	args := m.Called(ctx, scope, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WbsNode), args.Error(1)
}
func (m *MockWbsService) UpdateNode(ctx context.Context, scope domain.Scope, nodeID string, req dto.UpdateWbsNodeRequest, actor domain.Actor) (*domain.WbsNode, error) {
	args := m.Called(ctx, scope, nodeID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WbsNode), args.Error(1)
}
func (m *MockWbsService) MoveNode(ctx context.Context, scope domain.Scope, nodeID string, req dto.MoveWbsNodeRequest, actor domain.Actor) ([]domain.WbsNode, error) {
	args := m.Called(ctx, scope, nodeID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WbsNode), args.Error(1)
}
func (m *MockWbsService) ReorderChildren(ctx context.Context, scope domain.Scope, req dto.ReorderWbsChildrenRequest, actor domain.Actor) ([]domain.WbsNode, error) {
	args := m.Called(ctx, scope, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WbsNode), args.Error(1)
}
func (m *MockWbsService) SoftDeleteNode(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) error {
	args := m.Called(ctx, scope, nodeID, actor)
	return args.Error(0)
}
func (m *MockWbsService) DeleteNodeWithRenumber(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) ([]domain.WbsNode, error) {
	args := m.Called(ctx, scope, nodeID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WbsNode), args.Error(1)
}
func (m *MockWbsService) DeleteNodeCascade(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) (*domain.CascadeDeleteResult, error) {
	args := m.Called(ctx, scope, nodeID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CascadeDeleteResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.WbsSvcFacade = (*MockWbsService)(nil)

// --- Mock BudgetVersionService ---
type MockBudgetVersionService struct {
	mock.Mock
}

func (m *MockBudgetVersionService) version(args mock.Arguments) (*domain.BudgetVersion, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetVersion), args.Error(1)
}

func (m *MockBudgetVersionService) GetVersion(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.BudgetVersion, error) {
	return m.version(m.Called(ctx, scope, versionID, actor))
}
func (m *MockBudgetVersionService) ListVersions(ctx context.Context, scope domain.Scope, actor domain.Actor) ([]domain.BudgetVersion, error) {
	args := m.Called(ctx, scope, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetVersion), args.Error(1)
}
func (m *MockBudgetVersionService) CreateVersion(ctx context.Context, scope domain.Scope, req dto.CreateBudgetVersionRequest, actor domain.Actor) (*domain.BudgetVersion, error) {
	return m.version(m.Called(ctx, scope, req, actor))
}
func (m *MockBudgetVersionService) UpdateVersionSettings(ctx context.Context, scope domain.Scope, versionID string, req dto.UpdateBudgetVersionRequest, actor domain.Actor) (*domain.BudgetVersion, error) {
	return m.version(m.Called(ctx, scope, versionID, req, actor))
}
func (m *MockBudgetVersionService) CopyVersion(ctx context.Context, scope domain.Scope, sourceVersionID string, req dto.CopyBudgetVersionRequest, actor domain.Actor) (*domain.BudgetVersion, error) {
	return m.version(m.Called(ctx, scope, sourceVersionID, req, actor))
}
func (m *MockBudgetVersionService) ImportLines(ctx context.Context, scope domain.Scope, targetVersionID string, req dto.ImportBudgetLinesRequest, actor domain.Actor) ([]domain.BudgetLine, error) {
	args := m.Called(ctx, scope, targetVersionID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetLine), args.Error(1)
}
func (m *MockBudgetVersionService) SetBaseline(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.BudgetVersion, error) {
	return m.version(m.Called(ctx, scope, versionID, actor))
}
func (m *MockBudgetVersionService) ApproveVersion(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.BudgetVersion, error) {
	return m.version(m.Called(ctx, scope, versionID, actor))
}
func (m *MockBudgetVersionService) OverrideVersionStatus(ctx context.Context, scope domain.Scope, versionID string, req dto.OverrideVersionStatusRequest, actor domain.Actor) (*domain.BudgetVersion, error) {
	return m.version(m.Called(ctx, scope, versionID, req, actor))
}

// Ensure mock implements the interface
var _ portssvc.BudgetVersionSvcFacade = (*MockBudgetVersionService)(nil)

// --- Mock BudgetLineService ---
type MockBudgetLineService struct {
	mock.Mock
}

func (m *MockBudgetLineService) recompute(args mock.Arguments) (*domain.LineRecompute, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineRecompute), args.Error(1)
}

func (m *MockBudgetLineService) GetLineWithResources(ctx context.Context, scope domain.Scope, lineID string, actor domain.Actor) (*domain.BudgetLine, []domain.BudgetResource, error) {
	args := m.Called(ctx, scope, lineID, actor)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.BudgetLine), args.Get(1).([]domain.BudgetResource), args.Error(2)
}
func (m *MockBudgetLineService) ListLines(ctx context.Context, scope domain.Scope, versionID string, params dto.ListBudgetLinesParams, actor domain.Actor) ([]domain.BudgetLine, *string, error) {
	args := m.Called(ctx, scope, versionID, params, actor)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.BudgetLine), args.Get(1).(*string), args.Error(2)
}
func (m *MockBudgetLineService) ListResources(ctx context.Context, scope domain.Scope, lineID string, actor domain.Actor) ([]domain.BudgetResource, error) {
	args := m.Called(ctx, scope, lineID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetResource), args.Error(1)
}
func (m *MockBudgetLineService) CreateLine(ctx context.Context, scope domain.Scope, versionID string, req dto.CreateBudgetLineRequest, actor domain.Actor) (*domain.BudgetLine, error) {
	args := m.Called(ctx, scope, versionID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}
func (m *MockBudgetLineService) UpdateLine(ctx context.Context, scope domain.Scope, lineID string, req dto.UpdateBudgetLineRequest, actor domain.Actor) (*domain.BudgetLine, error) {
	args := m.Called(ctx, scope, lineID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetLine), args.Error(1)
}
func (m *MockBudgetLineService) DeleteLine(ctx context.Context, scope domain.Scope, lineID string, actor domain.Actor) error {
	args := m.Called(ctx, scope, lineID, actor)
	return args.Error(0)
}
func (m *MockBudgetLineService) AddResource(ctx context.Context, scope domain.Scope, lineID string, req dto.CreateBudgetResourceRequest, actor domain.Actor) (*domain.LineRecompute, error) {
	return m.recompute(m.Called(ctx, scope, lineID, req, actor))
}
func (m *MockBudgetLineService) UpdateResource(ctx context.Context, scope domain.Scope, resourceID string, req dto.UpdateBudgetResourceRequest, actor domain.Actor) (*domain.LineRecompute, error) {
	return m.recompute(m.Called(ctx, scope, resourceID, req, actor))
}
func (m *MockBudgetLineService) DeleteResource(ctx context.Context, scope domain.Scope, resourceID string, actor domain.Actor) (*domain.LineRecompute, error) {
	return m.recompute(m.Called(ctx, scope, resourceID, actor))
}

// Ensure mock implements the interface
var _ portssvc.BudgetLineSvcFacade = (*MockBudgetLineService)(nil)

// --- Mock RollupService ---
type MockRollupService struct {
	mock.Mock
}

func (m *MockRollupService) GetVersionRollup(ctx context.Context, scope domain.Scope, versionID string, actor domain.Actor) (*domain.VersionRollup, error) {
	args := m.Called(ctx, scope, versionID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionRollup), args.Error(1)
}
func (m *MockRollupService) PreviewMarkup(ctx context.Context, unitDirectCost, quantity decimal.Decimal, p costing.Percentages) (costing.Breakdown, decimal.Decimal, error) {
	args := m.Called(ctx, unitDirectCost, quantity, p)
	return args.Get(0).(costing.Breakdown), args.Get(1).(decimal.Decimal), args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.RollupSvcFacade = (*MockRollupService)(nil)

// --- Mock TemplateCatalog ---
type MockTemplateCatalog struct {
	mock.Mock
}

func (m *MockTemplateCatalog) FindTemplate(ctx context.Context, code string) (*domain.NodeTemplate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NodeTemplate), args.Error(1)
}
func (m *MockTemplateCatalog) ListTemplates(ctx context.Context) ([]domain.NodeTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NodeTemplate), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TemplateCatalog = (*MockTemplateCatalog)(nil)
