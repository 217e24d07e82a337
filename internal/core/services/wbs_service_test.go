package services_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type WbsServiceTestSuite struct {
	serviceSuite
}

func TestWbsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WbsServiceTestSuite))
}

func (suite *WbsServiceTestSuite) add(parentID, name string, category domain.WbsCategory) *domain.WbsNode {
	req := dto.CreateWbsNodeRequest{Name: name, Category: string(category)}
	if parentID != "" {
		req.ParentID = strPtr(parentID)
	}
	n, err := suite.wbs.AddNode(suite.ctx, testScope, req, testActor)
	suite.Require().NoError(err)
	return n
}

// assertCodeHierarchy checks that every active child's code is its parent's
// code plus one segment, and that sibling sequences run 1..n.
func (suite *WbsServiceTestSuite) assertCodeHierarchy() {
	tree, err := suite.wbs.ListTree(suite.ctx, testScope, testActor)
	suite.Require().NoError(err)
	codes := make(map[string]string, len(tree))
	for _, n := range tree {
		codes[n.NodeID] = n.Code
	}
	siblings := make(map[string][]string)
	for _, n := range tree {
		parentCode := ""
		if !n.IsRoot() {
			parentCode = codes[*n.ParentID]
			suite.True(strings.HasPrefix(n.Code, parentCode+"."), "code %s is not under parent %s", n.Code, parentCode)
		}
		siblings[n.ParentKey()] = append(siblings[n.ParentKey()], n.Code)
	}
	for _, kids := range siblings {
		for i, code := range kids {
			segments := strings.Split(code, ".")
			suite.Equal(strconv.Itoa(i+1), segments[len(segments)-1], "sibling codes are not contiguous: %v", kids)
		}
	}
}

// --- AddNode ---

func (suite *WbsServiceTestSuite) TestAddNode_MintsSequentialCodes() {
	first := suite.add("", "Preliminaries", domain.CategoryPhase)
	child := suite.add(first.NodeID, "Site setup", domain.CategoryTask)
	second := suite.add("", "Structure", domain.CategoryPhase)

	suite.Equal("1", first.Code)
	suite.Equal("1.1", child.Code)
	suite.Equal("2", second.Code)
	suite.Equal(2, second.SortOrder)
	suite.Equal(int64(1), child.Version)
	suite.Equal(fixedNow, child.CreatedAt)

	suite.Equal([]string{domain.EventNodeCreated, domain.EventNodeCreated, domain.EventNodeCreated}, suite.eventNames())
	suite.Len(suite.store.Events(), 3)
	suite.assertCodeHierarchy()
}

func (suite *WbsServiceTestSuite) TestAddNode_AcceptsLegacyItemAlias() {
	p := suite.add("", "Phase", domain.CategoryPhase)
	t := suite.add(p.NodeID, "Task", domain.CategoryTask)

	item, err := suite.wbs.AddNode(suite.ctx, testScope, dto.CreateWbsNodeRequest{ParentID: strPtr(t.NodeID), Name: "Item", Category: "item"}, testActor)
	suite.Require().NoError(err)
	suite.Equal(domain.CategoryBudgetItem, item.Category)
	suite.Equal("1.1.1", item.Code)
}

func (suite *WbsServiceTestSuite) TestAddNode_PlacementRules() {
	p := suite.add("", "Phase", domain.CategoryPhase)
	t := suite.add(p.NodeID, "Task", domain.CategoryTask)
	m := suite.add(p.NodeID, "Handover", domain.CategoryMilestone)
	item := suite.add(t.NodeID, "Concrete", domain.CategoryBudgetItem)

	tests := []struct {
		name     string
		parentID *string
		category domain.WbsCategory
		code     apperrors.DomainCode
	}{
		{"root must be phase", nil, domain.CategoryTask, apperrors.CodeRootMustBePhase},
		{"item directly under phase", strPtr(p.NodeID), domain.CategoryBudgetItem, apperrors.CodeCategoryNotAllowed},
		{"milestone is a leaf", strPtr(m.NodeID), domain.CategoryBudgetItem, apperrors.CodeCategoryNotAllowed},
		{"below maximum depth", strPtr(item.NodeID), domain.CategoryBudgetItem, apperrors.CodeMaxDepthExceeded},
		{"unknown parent", strPtr("missing"), domain.CategoryTask, apperrors.CodeParentNotInProject},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.wbs.AddNode(suite.ctx, testScope, dto.CreateWbsNodeRequest{ParentID: tt.parentID, Name: "x", Category: string(tt.category)}, testActor)
			de, ok := apperrors.AsDomainError(err)
			suite.Require().True(ok, "expected a domain error, got %v", err)
			suite.Equal(tt.code, de.Code)
		})
	}

	nodes, _, _, _ := suite.snapshot()
	suite.Len(nodes, 4)
}

func (suite *WbsServiceTestSuite) TestAddNode_RejectsUnknownCategory() {
	_, err := suite.wbs.AddNode(suite.ctx, testScope, dto.CreateWbsNodeRequest{Name: "x", Category: "FLOOR"}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WbsServiceTestSuite) TestAddNode_InactiveParent() {
	p := suite.add("", "Phase", domain.CategoryPhase)
	suite.Require().NoError(suite.wbs.SoftDeleteNode(suite.ctx, testScope, p.NodeID, testActor))

	_, err := suite.wbs.AddNode(suite.ctx, testScope, dto.CreateWbsNodeRequest{ParentID: strPtr(p.NodeID), Name: "x", Category: "TASK"}, testActor)
	de, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.CodeNodeInactive, de.Code)
}

func (suite *WbsServiceTestSuite) TestAddNode_FromTemplateSeedsLine() {
	p := suite.add("", "Phase", domain.CategoryPhase)
	t := suite.add(p.NodeID, "Task", domain.CategoryTask)
	version, err := suite.versions.CreateVersion(suite.ctx, testScope, dto.CreateBudgetVersionRequest{
		Name: "Bid", OverheadPct: dec("10"), FinancialPct: dec("5"), ProfitPct: dec("8"), TaxPct: dec("21"),
	}, testActor)
	suite.Require().NoError(err)

	suite.catalog.On("FindTemplate", mock.Anything, "CONC-SLAB").Return(&domain.NodeTemplate{
		Code:     "CONC-SLAB",
		Name:     "Concrete slab",
		Category: domain.CategoryBudgetItem,
		Unit:     "m3",
		Resources: []domain.TemplateResource{
			{ResourceType: domain.ResourceMaterial, Name: "Concrete H21", Unit: "m3", Quantity: dec("1"), UnitCost: dec("60")},
			{ResourceType: domain.ResourceLabor, Name: "Crew", Unit: "h", Quantity: dec("2"), UnitCost: dec("20")},
		},
	}, nil).Once()

	node, err := suite.wbs.AddNode(suite.ctx, testScope, dto.CreateWbsNodeRequest{
		ParentID:        strPtr(t.NodeID),
		TemplateCode:    strPtr("CONC-SLAB"),
		Quantity:        decPtr("2"),
		BudgetVersionID: strPtr(version.VersionID),
	}, testActor)
	suite.Require().NoError(err)
	suite.Equal("Concrete slab", node.Name)
	suite.Equal(domain.CategoryBudgetItem, node.Category)
	suite.Equal("m3", *node.Unit)

	_, _, lines, resources := suite.snapshot()
	suite.Require().Len(lines, 1)
	suite.Len(resources, 2)
	suite.Equal(node.NodeID, lines[0].WbsNodeID)
	// resources scale with the line quantity: 2*60 + 4*20
	suite.True(dec("200").Equal(lines[0].DirectCostTotal), lines[0].DirectCostTotal.String())
	// 200 * 1.10 * 1.13 * 1.21
	suite.True(dec("300.806").Equal(lines[0].SalePriceTotal), lines[0].SalePriceTotal.String())
	suite.Contains(suite.eventNames(), domain.EventLineCreated)
	suite.catalog.AssertExpectations(suite.T())
}

func (suite *WbsServiceTestSuite) TestAddNode_TemplateIntoLockedVersionRollsBack() {
	p := suite.add("", "Phase", domain.CategoryPhase)
	t := suite.add(p.NodeID, "Task", domain.CategoryTask)
	suite.putVersion(domain.BudgetVersion{
		VersionID: "v-approved", OrgID: testScope.OrgID, ProjectID: testScope.ProjectID, VersionCode: "V1",
		VersionType: domain.VersionWorking, Status: domain.StatusApproved, MarkupMode: domain.MarkupSimple,
		AuditFields: domain.NewAuditFields("user-1", fixedNow),
	})
	suite.catalog.On("FindTemplate", mock.Anything, "CONC-SLAB").Return(&domain.NodeTemplate{
		Code: "CONC-SLAB", Name: "Concrete slab", Category: domain.CategoryBudgetItem,
	}, nil)

	_, err := suite.wbs.AddNode(suite.ctx, testScope, dto.CreateWbsNodeRequest{
		ParentID:        strPtr(t.NodeID),
		TemplateCode:    strPtr("CONC-SLAB"),
		BudgetVersionID: strPtr("v-approved"),
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrVersionLocked)

	nodes, _, lines, _ := suite.snapshot()
	suite.Len(nodes, 2)
	suite.Empty(lines)
}

func (suite *WbsServiceTestSuite) TestAddNode_UnknownTemplate() {
	suite.catalog.On("FindTemplate", mock.Anything, "NOPE").Return(nil, apperrors.ErrNotFound)
	_, err := suite.wbs.AddNode(suite.ctx, testScope, dto.CreateWbsNodeRequest{TemplateCode: strPtr("NOPE")}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *WbsServiceTestSuite) TestAddNode_Forbidden() {
	suite.denyAll(apperrors.ErrForbidden)
	_, err := suite.wbs.AddNode(suite.ctx, testScope, dto.CreateWbsNodeRequest{Name: "x", Category: "PHASE"}, testActor)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	nodes, _, _, _ := suite.snapshot()
	suite.Empty(nodes)
	suite.Empty(suite.published)
}

func (suite *WbsServiceTestSuite) TestAddNode_RequiresScope() {
	_, err := suite.wbs.AddNode(suite.ctx, domain.Scope{OrgID: "org-1"}, dto.CreateWbsNodeRequest{Name: "x", Category: "PHASE"}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- UpdateNode ---

func (suite *WbsServiceTestSuite) TestUpdateNode_ChangesAttributes() {
	p := suite.add("", "Phase", domain.CategoryPhase)

	updated, err := suite.wbs.UpdateNode(suite.ctx, testScope, p.NodeID, dto.UpdateWbsNodeRequest{
		Name: strPtr("Earthworks"), Quantity: decPtr("12.5"), ExpectedVersion: int64Ptr(1),
	}, testActor)
	suite.Require().NoError(err)
	suite.Equal("Earthworks", updated.Name)
	suite.Equal(int64(2), updated.Version)
	suite.Equal(int64(2), suite.node(p.NodeID).Version)

	last := suite.published[len(suite.published)-1]
	suite.Equal(domain.EventNodeUpdated, last.Name)
	suite.Equal("Phase", last.Before["name"])
	suite.Equal("Earthworks", last.After["name"])
}

func (suite *WbsServiceTestSuite) TestUpdateNode_StaleExpectedVersion() {
	p := suite.add("", "Phase", domain.CategoryPhase)
	_, err := suite.wbs.UpdateNode(suite.ctx, testScope, p.NodeID, dto.UpdateWbsNodeRequest{Name: strPtr("A")}, testActor)
	suite.Require().NoError(err)

	_, err = suite.wbs.UpdateNode(suite.ctx, testScope, p.NodeID, dto.UpdateWbsNodeRequest{Name: strPtr("B"), ExpectedVersion: int64Ptr(1)}, testActor)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal("A", suite.node(p.NodeID).Name)
}

func (suite *WbsServiceTestSuite) TestUpdateNode_NoChangeSkipsWrite() {
	p := suite.add("", "Phase", domain.CategoryPhase)
	events := len(suite.published)

	n, err := suite.wbs.UpdateNode(suite.ctx, testScope, p.NodeID, dto.UpdateWbsNodeRequest{Name: strPtr("Phase")}, testActor)
	suite.Require().NoError(err)
	suite.Equal(int64(1), n.Version)
	suite.Len(suite.published, events)
}

// --- MoveNode ---

func (suite *WbsServiceTestSuite) TestMoveNode_RewritesSubtreeCodes() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	t1 := suite.add(p1.NodeID, "T1", domain.CategoryTask)
	i1 := suite.add(t1.NodeID, "I1", domain.CategoryBudgetItem)
	i2 := suite.add(t1.NodeID, "I2", domain.CategoryBudgetItem)
	t2 := suite.add(p1.NodeID, "T2", domain.CategoryTask)
	p2 := suite.add("", "P2", domain.CategoryPhase)
	suite.add(p2.NodeID, "T3", domain.CategoryTask)

	changed, err := suite.wbs.MoveNode(suite.ctx, testScope, t1.NodeID, dto.MoveWbsNodeRequest{NewParentID: strPtr(p2.NodeID)}, testActor)
	suite.Require().NoError(err)
	suite.Len(changed, 3)

	suite.Equal("2.2", suite.node(t1.NodeID).Code)
	suite.Equal(p2.NodeID, *suite.node(t1.NodeID).ParentID)
	suite.Equal("2.2.1", suite.node(i1.NodeID).Code)
	suite.Equal("2.2.2", suite.node(i2.NodeID).Code)
	// the old siblings keep their codes
	suite.Equal("1.2", suite.node(t2.NodeID).Code)

	last := suite.published[len(suite.published)-1]
	suite.Equal(domain.EventNodeReordered, last.Name)
	suite.Equal("1.1", last.Before["code"])
	suite.Equal("2.2", last.After["code"])
}

func (suite *WbsServiceTestSuite) TestMoveNode_SameParentIsNoop() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	t1 := suite.add(p1.NodeID, "T1", domain.CategoryTask)
	events := len(suite.published)

	changed, err := suite.wbs.MoveNode(suite.ctx, testScope, t1.NodeID, dto.MoveWbsNodeRequest{NewParentID: strPtr(p1.NodeID)}, testActor)
	suite.Require().NoError(err)
	suite.Empty(changed)
	suite.Equal(int64(1), suite.node(t1.NodeID).Version)
	suite.Len(suite.published, events)
}

func (suite *WbsServiceTestSuite) TestMoveNode_RejectsCycles() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	t1 := suite.add(p1.NodeID, "T1", domain.CategoryTask)
	i1 := suite.add(t1.NodeID, "I1", domain.CategoryBudgetItem)

	for _, target := range []string{p1.NodeID, t1.NodeID, i1.NodeID} {
		_, err := suite.wbs.MoveNode(suite.ctx, testScope, p1.NodeID, dto.MoveWbsNodeRequest{NewParentID: strPtr(target)}, testActor)
		suite.ErrorIs(err, apperrors.ErrCycleDetected, "moving under %s", target)
	}
	suite.Equal("1", suite.node(p1.NodeID).Code)
	suite.Nil(suite.node(p1.NodeID).ParentID)
	suite.assertCodeHierarchy()
}

func (suite *WbsServiceTestSuite) TestMoveNode_ToRootRequiresPhase() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	t1 := suite.add(p1.NodeID, "T1", domain.CategoryTask)

	_, err := suite.wbs.MoveNode(suite.ctx, testScope, t1.NodeID, dto.MoveWbsNodeRequest{}, testActor)
	de, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.CodeRootMustBePhase, de.Code)
}

func (suite *WbsServiceTestSuite) TestMoveNode_UnknownNode() {
	_, err := suite.wbs.MoveNode(suite.ctx, testScope, "missing", dto.MoveWbsNodeRequest{}, testActor)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *WbsServiceTestSuite) TestMoveNode_FailureAfterWritesLeavesStoreUnchanged() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	t1 := suite.add(p1.NodeID, "T1", domain.CategoryTask)
	suite.add(t1.NodeID, "I1", domain.CategoryBudgetItem)
	p2 := suite.add("", "P2", domain.CategoryPhase)
	before, _, _, _ := suite.snapshot()
	outbox := len(suite.store.Events())
	published := len(suite.published)

	suite.wire(failingUnitOfWork{UnitOfWork: suite.store, err: errInjected})
	_, err := suite.wbs.MoveNode(suite.ctx, testScope, t1.NodeID, dto.MoveWbsNodeRequest{NewParentID: strPtr(p2.NodeID)}, testActor)
	suite.ErrorIs(err, errInjected)

	after, _, _, _ := suite.snapshot()
	suite.Equal(before, after)
	suite.Len(suite.store.Events(), outbox)
	suite.Len(suite.published, published)
}

// --- ReorderChildren ---

func (suite *WbsServiceTestSuite) TestReorderChildren_ResequencesCodes() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	a := suite.add(p1.NodeID, "A", domain.CategoryTask)
	b := suite.add(p1.NodeID, "B", domain.CategoryTask)
	c := suite.add(p1.NodeID, "C", domain.CategoryTask)
	ai := suite.add(a.NodeID, "A1", domain.CategoryBudgetItem)

	_, err := suite.wbs.ReorderChildren(suite.ctx, testScope, dto.ReorderWbsChildrenRequest{
		ParentID: strPtr(p1.NodeID),
		NodeIDs:  []string{c.NodeID, a.NodeID, b.NodeID},
	}, testActor)
	suite.Require().NoError(err)

	suite.Equal("1.1", suite.node(c.NodeID).Code)
	suite.Equal("1.2", suite.node(a.NodeID).Code)
	suite.Equal("1.2.1", suite.node(ai.NodeID).Code)
	suite.Equal("1.3", suite.node(b.NodeID).Code)
	suite.assertCodeHierarchy()
}

func (suite *WbsServiceTestSuite) TestReorderChildren_RequiresEveryChild() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	a := suite.add(p1.NodeID, "A", domain.CategoryTask)
	suite.add(p1.NodeID, "B", domain.CategoryTask)

	_, err := suite.wbs.ReorderChildren(suite.ctx, testScope, dto.ReorderWbsChildrenRequest{
		ParentID: strPtr(p1.NodeID),
		NodeIDs:  []string{a.NodeID},
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- deletes ---

func (suite *WbsServiceTestSuite) TestSoftDeleteNode_DeactivatesSubtreeWithoutRenumbering() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	t1 := suite.add(p1.NodeID, "T1", domain.CategoryTask)
	p2 := suite.add("", "P2", domain.CategoryPhase)

	suite.Require().NoError(suite.wbs.SoftDeleteNode(suite.ctx, testScope, p1.NodeID, testActor))

	suite.False(suite.node(p1.NodeID).Active)
	suite.False(suite.node(t1.NodeID).Active)
	suite.Equal("2", suite.node(p2.NodeID).Code)

	tree, err := suite.wbs.ListTree(suite.ctx, testScope, testActor)
	suite.Require().NoError(err)
	suite.Len(tree, 1)

	// no resurrection
	err = suite.wbs.SoftDeleteNode(suite.ctx, testScope, p1.NodeID, testActor)
	de, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.CodeNodeInactive, de.Code)
}

func (suite *WbsServiceTestSuite) TestDeleteNodeWithRenumber_ClosesGap() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	suite.add(p1.NodeID, "A", domain.CategoryTask)
	b := suite.add(p1.NodeID, "B", domain.CategoryTask)
	c := suite.add(p1.NodeID, "C", domain.CategoryTask)
	ci := suite.add(c.NodeID, "C1", domain.CategoryBudgetItem)

	renumbered, err := suite.wbs.DeleteNodeWithRenumber(suite.ctx, testScope, b.NodeID, testActor)
	suite.Require().NoError(err)
	suite.Len(renumbered, 2)

	suite.False(suite.node(b.NodeID).Active)
	suite.Equal("1.2", suite.node(c.NodeID).Code)
	suite.Equal("1.2.1", suite.node(ci.NodeID).Code)
	suite.assertCodeHierarchy()
}

func (suite *WbsServiceTestSuite) TestDeleteNodeWithRenumber_HasChildren() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	suite.add(p1.NodeID, "A", domain.CategoryTask)
	suite.add(p1.NodeID, "B", domain.CategoryTask)
	events := len(suite.published)

	_, err := suite.wbs.DeleteNodeWithRenumber(suite.ctx, testScope, p1.NodeID, testActor)
	suite.ErrorIs(err, apperrors.ErrHasChildren)
	de, ok := apperrors.AsDomainError(err)
	suite.Require().True(ok)
	suite.Equal(2, de.ChildrenCount)
	suite.True(de.HasChildren())

	suite.True(suite.node(p1.NodeID).Active)
	suite.Len(suite.published, events)
}

func (suite *WbsServiceTestSuite) TestDeleteNodeCascade_RemovesSubtreeAndLines() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	a := suite.add(p1.NodeID, "A", domain.CategoryTask)
	b := suite.add(p1.NodeID, "B", domain.CategoryTask)
	p2 := suite.add("", "P2", domain.CategoryPhase)
	kept := suite.add(p2.NodeID, "Kept", domain.CategoryTask)

	version, err := suite.versions.CreateVersion(suite.ctx, testScope, dto.CreateBudgetVersionRequest{Name: "Bid"}, testActor)
	suite.Require().NoError(err)
	for _, nodeID := range []string{a.NodeID, b.NodeID, kept.NodeID} {
		_, err := suite.lines.CreateLine(suite.ctx, testScope, version.VersionID, dto.CreateBudgetLineRequest{
			WbsNodeID: nodeID, Description: "work", Unit: "u", Quantity: dec("1"), UnitDirectCost: dec("10"),
			Resources: []dto.CreateBudgetResourceRequest{{ResourceType: "MATERIAL", Name: "m", Quantity: dec("1"), UnitCost: dec("10")}},
		}, testActor)
		suite.Require().NoError(err)
	}

	result, err := suite.wbs.DeleteNodeCascade(suite.ctx, testScope, p1.NodeID, testActor)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{p1.NodeID, a.NodeID, b.NodeID}, result.DeletedNodeIDs)
	suite.Equal(int64(2), result.DeletedLineCount)
	suite.ElementsMatch([]string{p2.NodeID, kept.NodeID}, result.RenumberedNodeIDs)

	nodes, _, lines, resources := suite.snapshot()
	suite.Len(nodes, 2)
	suite.Require().Len(lines, 1)
	suite.Equal(kept.NodeID, lines[0].WbsNodeID)
	suite.Len(resources, 1)
	suite.Equal("1", suite.node(p2.NodeID).Code)
	suite.Equal("1.1", suite.node(kept.NodeID).Code)
	suite.Contains(suite.eventNames(), domain.EventLineDeleted)
}

func (suite *WbsServiceTestSuite) TestDeleteNodeCascade_IncludesInactiveDescendants() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	a := suite.add(p1.NodeID, "A", domain.CategoryTask)
	suite.Require().NoError(suite.wbs.SoftDeleteNode(suite.ctx, testScope, a.NodeID, testActor))

	result, err := suite.wbs.DeleteNodeCascade(suite.ctx, testScope, p1.NodeID, testActor)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{p1.NodeID, a.NodeID}, result.DeletedNodeIDs)

	nodes, _, _, _ := suite.snapshot()
	suite.Empty(nodes)
}

func (suite *WbsServiceTestSuite) TestDeleteNodeCascade_LockedVersionBlocks() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	a := suite.add(p1.NodeID, "A", domain.CategoryTask)
	version, err := suite.versions.CreateVersion(suite.ctx, testScope, dto.CreateBudgetVersionRequest{Name: "Bid"}, testActor)
	suite.Require().NoError(err)
	_, err = suite.lines.CreateLine(suite.ctx, testScope, version.VersionID, dto.CreateBudgetLineRequest{
		WbsNodeID: a.NodeID, Description: "work", Unit: "u", Quantity: dec("1"), UnitDirectCost: dec("10"),
	}, testActor)
	suite.Require().NoError(err)
	_, err = suite.versions.SetBaseline(suite.ctx, testScope, version.VersionID, testActor)
	suite.Require().NoError(err)

	_, err = suite.wbs.DeleteNodeCascade(suite.ctx, testScope, p1.NodeID, testActor)
	suite.ErrorIs(err, apperrors.ErrVersionLocked)

	nodes, _, lines, _ := suite.snapshot()
	suite.Len(nodes, 2)
	suite.Len(lines, 1)
}

// --- reads ---

func (suite *WbsServiceTestSuite) TestListTree_PreorderBySortOrder() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	p2 := suite.add("", "P2", domain.CategoryPhase)
	a := suite.add(p1.NodeID, "A", domain.CategoryTask)
	b := suite.add(p2.NodeID, "B", domain.CategoryTask)

	tree, err := suite.wbs.ListTree(suite.ctx, testScope, testActor)
	suite.Require().NoError(err)
	ids := make([]string, len(tree))
	for i, n := range tree {
		ids[i] = n.NodeID
	}
	suite.Equal([]string{p1.NodeID, a.NodeID, p2.NodeID, b.NodeID}, ids)
}

func (suite *WbsServiceTestSuite) TestGetNode_OtherProjectIsNotFound() {
	p1 := suite.add("", "P1", domain.CategoryPhase)
	_, err := suite.wbs.GetNode(suite.ctx, domain.Scope{OrgID: "org-1", ProjectID: "prj-2"}, p1.NodeID, testActor)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
