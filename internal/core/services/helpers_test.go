package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	"github.com/simonbravin/bloqer/internal/core/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockPermissionGate is a mock type for the PermissionGate interface
type MockPermissionGate struct {
	mock.Mock
}

func (m *MockPermissionGate) Authorize(ctx context.Context, actor domain.Actor, scope domain.Scope, action domain.Action, minRole domain.ProjectRole) error {
	args := m.Called(ctx, actor, scope, action, minRole)
	return args.Error(0)
}

// MockEventPublisher is a mock type for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...domain.DomainEvent) {
	m.Called(ctx, events)
}

// MockTemplateCatalog is a mock type for the TemplateCatalog interface
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

// failingUnitOfWork runs the transaction body and then fails, so every write
// of the body must be rolled back.
type failingUnitOfWork struct {
	portsrepo.UnitOfWork
	err error
}

func (u failingUnitOfWork) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	return u.UnitOfWork.WithinTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		if err := fn(ctx, repos); err != nil {
			return err
		}
		return u.err
	})
}

var errInjected = errors.New("injected failure after writes")

var (
	testScope = domain.Scope{OrgID: "org-1", ProjectID: "prj-1"}
	testActor = domain.Actor{UserID: "user-1", OrgID: "org-1", Role: domain.RoleAdmin}
	fixedNow  = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
)

// serviceSuite wires every service to one in-memory store with mocked
// collaborators. Published events are collected in published.
type serviceSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	gate      *MockPermissionGate
	publisher *MockEventPublisher
	catalog   *MockTemplateCatalog
	published []domain.DomainEvent

	wbs      *services.WbsService
	versions *services.BudgetVersionService
	lines    *services.BudgetLineService
	rollups  *services.RollupService
}

func (suite *serviceSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.gate = new(MockPermissionGate)
	suite.publisher = new(MockEventPublisher)
	suite.catalog = new(MockTemplateCatalog)
	suite.published = nil

	suite.gate.On("Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		suite.published = append(suite.published, args.Get(1).([]domain.DomainEvent)...)
	}).Return().Maybe()

	suite.wire(suite.store)
}

// wire (re)builds the services over uow.
func (suite *serviceSuite) wire(uow portsrepo.UnitOfWork) {
	options := suite.options()
	suite.wbs = services.NewWbsService(uow, suite.catalog, options...).(*services.WbsService)
	suite.versions = services.NewBudgetVersionService(uow, options...).(*services.BudgetVersionService)
	suite.lines = services.NewBudgetLineService(uow, 2, options...).(*services.BudgetLineService)
	suite.rollups = services.NewRollupService(uow, options...).(*services.RollupService)
}

func (suite *serviceSuite) options() []services.ServiceOption {
	return []services.ServiceOption{
		services.WithPermissionGate(suite.gate),
		services.WithEventPublisher(suite.publisher),
		services.WithClock(func() time.Time { return fixedNow }),
	}
}

// denyAll makes the permission gate refuse every request with err.
func (suite *serviceSuite) denyAll(err error) {
	suite.gate.ExpectedCalls = nil
	suite.gate.On("Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(err)
}

func (suite *serviceSuite) eventNames() []string {
	names := make([]string, len(suite.published))
	for i, e := range suite.published {
		names[i] = e.Name
	}
	return names
}

// snapshot returns every node, line and resource of the test project.
func (suite *serviceSuite) snapshot() ([]domain.WbsNode, []domain.BudgetVersion, []domain.BudgetLine, []domain.BudgetResource) {
	var (
		nodes     []domain.WbsNode
		versions  []domain.BudgetVersion
		lines     []domain.BudgetLine
		resources []domain.BudgetResource
	)
	err := suite.store.View(suite.ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		if nodes, err = repos.Nodes.ListNodes(ctx, testScope, true); err != nil {
			return err
		}
		if versions, err = repos.Versions.ListVersions(ctx, testScope); err != nil {
			return err
		}
		for _, v := range versions {
			vl, err := repos.Lines.ListLinesByVersion(ctx, testScope, v.VersionID)
			if err != nil {
				return err
			}
			lines = append(lines, vl...)
		}
		ids := make([]string, len(lines))
		for i, l := range lines {
			ids[i] = l.LineID
		}
		resources, err = repos.Resources.ListResourcesByLines(ctx, testScope, ids)
		return err
	})
	suite.Require().NoError(err)
	return nodes, versions, lines, resources
}

func (suite *serviceSuite) node(id string) domain.WbsNode {
	var n *domain.WbsNode
	err := suite.store.View(suite.ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		n, err = repos.Nodes.FindNodeByID(ctx, testScope, id)
		return err
	})
	suite.Require().NoError(err)
	return *n
}

func (suite *serviceSuite) version(id string) domain.BudgetVersion {
	var v *domain.BudgetVersion
	err := suite.store.View(suite.ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		v, err = repos.Versions.FindVersionByID(ctx, testScope, id)
		return err
	})
	suite.Require().NoError(err)
	return *v
}

// putVersion stores v directly, bypassing the lifecycle rules.
func (suite *serviceSuite) putVersion(v domain.BudgetVersion) {
	suite.Require().NoError(suite.store.WithinTx(suite.ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		return repos.Versions.SaveVersion(ctx, v)
	}))
}

// seedTree builds phase "1" with tasks "1.1" and "1.2".
func (suite *serviceSuite) seedTree() (phase, task1, task2 string) {
	add := func(parentID *string, name, category string) string {
		n, err := suite.wbs.AddNode(suite.ctx, testScope, dto.CreateWbsNodeRequest{ParentID: parentID, Name: name, Category: category}, testActor)
		suite.Require().NoError(err)
		return n.NodeID
	}
	phase = add(nil, "Structure", "PHASE")
	task1 = add(&phase, "Foundations", "TASK")
	task2 = add(&phase, "Columns", "TASK")
	return phase, task1, task2
}

func (suite *serviceSuite) createVersion(name, overhead, financial, profit, tax string) *domain.BudgetVersion {
	v, err := suite.versions.CreateVersion(suite.ctx, testScope, dto.CreateBudgetVersionRequest{
		Name:         name,
		OverheadPct:  dec(overhead),
		FinancialPct: dec(financial),
		ProfitPct:    dec(profit),
		TaxPct:       dec(tax),
	}, testActor)
	suite.Require().NoError(err)
	return v
}

func (suite *serviceSuite) createLine(versionID, nodeID, quantity, unitDirectCost string, resources ...dto.CreateBudgetResourceRequest) *domain.BudgetLine {
	l, err := suite.lines.CreateLine(suite.ctx, testScope, versionID, dto.CreateBudgetLineRequest{
		WbsNodeID:      nodeID,
		Description:    "line on " + nodeID,
		Unit:           "m3",
		Quantity:       dec(quantity),
		UnitDirectCost: dec(unitDirectCost),
		Resources:      resources,
	}, testActor)
	suite.Require().NoError(err)
	return l
}

func (suite *serviceSuite) line(id string) domain.BudgetLine {
	var l *domain.BudgetLine
	err := suite.store.View(suite.ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		l, err = repos.Lines.FindLineByID(ctx, testScope, id)
		return err
	})
	suite.Require().NoError(err)
	return *l
}

func resource(kind, quantity, unitCost string) dto.CreateBudgetResourceRequest {
	return dto.CreateBudgetResourceRequest{ResourceType: kind, Name: kind + " resource", Unit: "u", Quantity: dec(quantity), UnitCost: dec(unitCost)}
}

// assertDecimal compares decimals by value, ignoring their exponent.
func (suite *serviceSuite) assertDecimal(expected string, actual decimal.Decimal) {
	suite.True(dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}
