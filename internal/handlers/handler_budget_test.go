package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/utils/costing"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) draftVersion(code string) domain.BudgetVersion {
	return domain.BudgetVersion{
		VersionID:   uuid.NewString(),
		OrgID:       suite.scope.OrgID,
		ProjectID:   suite.scope.ProjectID,
		VersionCode: code,
		Name:        "Budget " + code,
		VersionType: domain.VersionWorking,
		Status:      domain.StatusDraft,
		MarkupMode:  domain.MarkupSimple,
	}
}

func (suite *HandlerTestSuite) line(versionID string, direct, sale int64) domain.BudgetLine {
	return domain.BudgetLine{
		LineID:          uuid.NewString(),
		OrgID:           suite.scope.OrgID,
		ProjectID:       suite.scope.ProjectID,
		BudgetVersionID: versionID,
		WbsNodeID:       uuid.NewString(),
		Description:     "Concrete slab",
		Unit:            "m3",
		Quantity:        decimal.NewFromInt(10),
		DirectCostTotal: decimal.NewFromInt(direct),
		SalePriceTotal:  decimal.NewFromInt(sale),
	}
}

func (suite *HandlerTestSuite) TestCreateVersion_Created() {
	created := suite.draftVersion("V1")
	suite.versions.On("CreateVersion", mock.Anything, suite.scope,
		mock.MatchedBy(func(r dto.CreateBudgetVersionRequest) bool {
			return r.Name == "Initial" && r.OverheadPct.Equal(decimal.NewFromInt(10))
		}),
		suite.isActor(),
	).Return(&created, nil).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions", map[string]any{"name": "Initial", "overheadPct": "10"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.BudgetVersionResponse
	suite.decode(w, &resp)
	suite.Equal(created.VersionID, resp.VersionID)
	suite.Equal("V1", resp.VersionCode)
}

func (suite *HandlerTestSuite) TestCreateVersion_UnknownMarkupMode() {
	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions", map[string]any{"name": "Initial", "markupMode": "FANCY"})

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	suite.decode(w, &resp)
	suite.Contains(resp.Fields, "markupMode")
}

func (suite *HandlerTestSuite) TestUpdateVersionSettings_StaleVersionConflicts() {
	versionID := uuid.NewString()
	suite.versions.On("UpdateVersionSettings", mock.Anything, suite.scope, versionID,
		mock.MatchedBy(func(r dto.UpdateBudgetVersionRequest) bool {
			return r.ExpectedVersion != nil && *r.ExpectedVersion == 3
		}),
		suite.isActor(),
	).Return(nil, fmt.Errorf("%w: budget version %s was modified", apperrors.ErrConflict, versionID)).Once()

	w := suite.do(http.MethodPatch, suite.projectsPath+"/budget-versions/"+versionID, map[string]any{"name": "Renamed", "expectedVersion": 3})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestSetBaseline_Success() {
	baseline := suite.draftVersion("V2")
	baseline.VersionType = domain.VersionBaseline
	baseline.Status = domain.StatusBaseline
	suite.versions.On("SetBaseline", mock.Anything, suite.scope, baseline.VersionID, suite.isActor()).Return(&baseline, nil).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions/"+baseline.VersionID+"/baseline", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BudgetVersionResponse
	suite.decode(w, &resp)
	suite.Equal(domain.StatusBaseline, resp.Status)
}

func (suite *HandlerTestSuite) TestApproveVersion_ForbiddenForMember() {
	versionID := uuid.NewString()
	suite.versions.On("ApproveVersion", mock.Anything, suite.scope, versionID, suite.isActor()).
		Return(nil, fmt.Errorf("%w: approve requires ADMIN", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions/"+versionID+"/approve", nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestOverrideVersionStatus_ReasonRequired() {
	versionID := uuid.NewString()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions/"+versionID+"/status", map[string]any{"status": "DRAFT"})

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	suite.decode(w, &resp)
	suite.Equal("is required", resp.Fields["reason"])
	suite.versions.AssertNotCalled(suite.T(), "OverrideVersionStatus")
}

func (suite *HandlerTestSuite) TestOverrideVersionStatus_InvalidTransition() {
	versionID := uuid.NewString()
	suite.versions.On("OverrideVersionStatus", mock.Anything, suite.scope, versionID, mock.AnythingOfType("dto.OverrideVersionStatusRequest"), suite.isActor()).
		Return(nil, apperrors.NewDomainError(apperrors.CodeInvalidStatusTransition, "DRAFT cannot be overridden")).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions/"+versionID+"/status", map[string]any{"status": "BASELINE", "reason": "client asked"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	suite.decode(w, &resp)
	suite.Equal("INVALID_STATUS_TRANSITION", resp["code"])
}

func (suite *HandlerTestSuite) TestCopyVersion_Created() {
	source := uuid.NewString()
	copied := suite.draftVersion("V3")
	suite.versions.On("CopyVersion", mock.Anything, suite.scope, source, dto.CopyBudgetVersionRequest{Name: "What-if"}, suite.isActor()).
		Return(&copied, nil).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions/"+source+"/copy", map[string]any{"name": "What-if"})

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlerTestSuite) TestImportLines_CrossProjectRejected() {
	target := uuid.NewString()
	suite.versions.On("ImportLines", mock.Anything, suite.scope, target, mock.AnythingOfType("dto.ImportBudgetLinesRequest"), suite.isActor()).
		Return(nil, apperrors.NewDomainError(apperrors.CodeCrossProjectImport, "source belongs to another project")).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions/"+target+"/import", map[string]any{"sourceVersionID": uuid.NewString()})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	suite.decode(w, &resp)
	suite.Equal("CROSS_PROJECT_IMPORT", resp["code"])
}

func (suite *HandlerTestSuite) TestImportLines_ReportsCount() {
	target := uuid.NewString()
	imported := []domain.BudgetLine{suite.line(target, 100, 130), suite.line(target, 50, 65)}
	suite.versions.On("ImportLines", mock.Anything, suite.scope, target, mock.AnythingOfType("dto.ImportBudgetLinesRequest"), suite.isActor()).
		Return(imported, nil).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions/"+target+"/import", map[string]any{"sourceVersionID": uuid.NewString()})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ImportBudgetLinesResponse
	suite.decode(w, &resp)
	suite.Equal(2, resp.Imported)
	suite.Len(resp.Lines, 2)
}

func (suite *HandlerTestSuite) TestListLines_PassesPagingAndReturnsToken() {
	versionID := uuid.NewString()
	next := "opaque-token"
	suite.lines.On("ListLines", mock.Anything, suite.scope, versionID,
		dto.ListBudgetLinesParams{Limit: 2, NextToken: "abc"},
		suite.isActor(),
	).Return([]domain.BudgetLine{suite.line(versionID, 10, 13)}, &next, nil).Once()

	w := suite.do(http.MethodGet, suite.projectsPath+"/budget-versions/"+versionID+"/lines?limit=2&nextToken=abc", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListBudgetLinesResponse
	suite.decode(w, &resp)
	suite.Len(resp.Lines, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
}

func (suite *HandlerTestSuite) TestListLines_BadLimit() {
	w := suite.do(http.MethodGet, suite.projectsPath+"/budget-versions/"+uuid.NewString()+"/lines?limit=many", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.lines.AssertNotCalled(suite.T(), "ListLines")
}

func (suite *HandlerTestSuite) TestCreateLine_ZeroQuantityRejected() {
	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions/"+uuid.NewString()+"/lines", map[string]any{
		"wbsNodeID":      uuid.NewString(),
		"description":    "Slab",
		"unit":           "m3",
		"quantity":       "0",
		"unitDirectCost": "12.5",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	suite.decode(w, &resp)
	suite.Contains(resp.Fields, "quantity")
}

func (suite *HandlerTestSuite) TestCreateLine_LockedVersion() {
	versionID := uuid.NewString()
	suite.lines.On("CreateLine", mock.Anything, suite.scope, versionID, mock.AnythingOfType("dto.CreateBudgetLineRequest"), suite.isActor()).
		Return(nil, fmt.Errorf("version %s: %w", versionID, apperrors.ErrVersionLocked)).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-versions/"+versionID+"/lines", map[string]any{
		"wbsNodeID":      uuid.NewString(),
		"description":    "Slab",
		"unit":           "m3",
		"quantity":       "4",
		"unitDirectCost": "12.5",
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	suite.decode(w, &resp)
	suite.Equal("VERSION_LOCKED", resp["code"])
}

func (suite *HandlerTestSuite) TestGetLine_WithResources() {
	l := suite.line(uuid.NewString(), 100, 130)
	resources := []domain.BudgetResource{{
		ResourceID:   uuid.NewString(),
		BudgetLineID: l.LineID,
		ResourceType: domain.ResourceMaterial,
		Name:         "Cement",
		Quantity:     decimal.NewFromInt(10),
		UnitCost:     decimal.NewFromInt(10),
		TotalCost:    decimal.NewFromInt(100),
	}}
	suite.lines.On("GetLineWithResources", mock.Anything, suite.scope, l.LineID, suite.isActor()).Return(&l, resources, nil).Once()

	w := suite.do(http.MethodGet, suite.projectsPath+"/budget-lines/"+l.LineID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LineWithResourcesResponse
	suite.decode(w, &resp)
	suite.Equal(l.LineID, resp.Line.LineID)
	suite.Require().Len(resp.Resources, 1)
	suite.Equal("Cement", resp.Resources[0].Name)
}

func (suite *HandlerTestSuite) TestUpdateLine_DirectCostDerived() {
	lineID := uuid.NewString()
	suite.lines.On("UpdateLine", mock.Anything, suite.scope, lineID, mock.AnythingOfType("dto.UpdateBudgetLineRequest"), suite.isActor()).
		Return(nil, apperrors.NewDomainError(apperrors.CodeDirectCostDerived, "line %s has resources", lineID)).Once()

	w := suite.do(http.MethodPatch, suite.projectsPath+"/budget-lines/"+lineID, map[string]any{"unitDirectCost": "20"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	suite.decode(w, &resp)
	suite.Equal("DIRECT_COST_DERIVED", resp["code"])
}

func (suite *HandlerTestSuite) TestDeleteLine_NoContent() {
	lineID := uuid.NewString()
	suite.lines.On("DeleteLine", mock.Anything, suite.scope, lineID, suite.isActor()).Return(nil).Once()

	w := suite.do(http.MethodDelete, suite.projectsPath+"/budget-lines/"+lineID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestAddResource_ReturnsRecomputedLine() {
	l := suite.line(uuid.NewString(), 150, 195)
	res := domain.BudgetResource{
		ResourceID:   uuid.NewString(),
		BudgetLineID: l.LineID,
		ResourceType: domain.ResourceLabor,
		Name:         "Mason",
		Quantity:     decimal.NewFromInt(5),
		UnitCost:     decimal.NewFromInt(10),
		TotalCost:    decimal.NewFromInt(50),
	}
	suite.lines.On("AddResource", mock.Anything, suite.scope, l.LineID,
		mock.MatchedBy(func(r dto.CreateBudgetResourceRequest) bool {
			return r.ResourceType == "LABOR" && r.UnitCost.Equal(decimal.NewFromInt(10))
		}),
		suite.isActor(),
	).Return(&domain.LineRecompute{Resource: &res, Line: l}, nil).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/budget-lines/"+l.LineID+"/resources", map[string]any{
		"resourceType": "LABOR",
		"name":         "Mason",
		"unit":         "h",
		"quantity":     "5",
		"unitCost":     "10",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.LineRecomputeResponse
	suite.decode(w, &resp)
	suite.Require().NotNil(resp.Resource)
	suite.Equal(res.ResourceID, resp.Resource.ResourceID)
	suite.True(resp.Line.DirectCostTotal.Equal(decimal.NewFromInt(150)))
}

func (suite *HandlerTestSuite) TestDeleteResource_ReturnsLineWithoutResource() {
	l := suite.line(uuid.NewString(), 0, 0)
	resourceID := uuid.NewString()
	suite.lines.On("DeleteResource", mock.Anything, suite.scope, resourceID, suite.isActor()).
		Return(&domain.LineRecompute{Line: l}, nil).Once()

	w := suite.do(http.MethodDelete, suite.projectsPath+"/budget-resources/"+resourceID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LineRecomputeResponse
	suite.decode(w, &resp)
	suite.Nil(resp.Resource)
	suite.True(resp.Line.DirectCostTotal.IsZero())
}

func (suite *HandlerTestSuite) TestGetVersionRollup_Success() {
	versionID := uuid.NewString()
	rollup := &domain.VersionRollup{
		VersionID:       versionID,
		VersionCode:     "V1",
		Status:          domain.StatusDraft,
		DirectCostTotal: decimal.NewFromInt(1000),
		GrandTotal:      decimal.NewFromInt(1300),
		Nodes:           []domain.NodeRollup{},
		ComputedAt:      time.Now().UTC(),
	}
	suite.rollups.On("GetVersionRollup", mock.Anything, suite.scope, versionID, suite.isActor()).Return(rollup, nil).Once()

	w := suite.do(http.MethodGet, suite.projectsPath+"/budget-versions/"+versionID+"/rollup", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.VersionRollup
	suite.decode(w, &resp)
	suite.True(resp.GrandTotal.Equal(decimal.NewFromInt(1300)))
}

func (suite *HandlerTestSuite) TestPreviewMarkup_Success() {
	p := costing.Percentages{
		Overhead:  decimal.NewFromInt(10),
		Financial: decimal.NewFromInt(2),
		Profit:    decimal.NewFromInt(8),
		Tax:       decimal.NewFromInt(21),
	}
	breakdown := costing.Breakdown{DirectCost: decimal.NewFromInt(100), TotalPrice: decimal.RequireFromString("159.72")}
	suite.rollups.On("PreviewMarkup", mock.Anything,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(100)) }),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(3)) }),
		mock.MatchedBy(func(got costing.Percentages) bool {
			return got.Overhead.Equal(p.Overhead) && got.Financial.Equal(p.Financial) &&
				got.Profit.Equal(p.Profit) && got.Tax.Equal(p.Tax)
		}),
	).Return(breakdown, decimal.RequireFromString("479.16"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/markup/preview", map[string]any{
		"unitDirectCost": "100",
		"quantity":       "3",
		"overheadPct":    "10",
		"financialPct":   "2",
		"profitPct":      "8",
		"taxPct":         "21",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MarkupPreviewResponse
	suite.decode(w, &resp)
	suite.True(resp.LineTotal.Equal(decimal.RequireFromString("479.16")))
	suite.True(resp.Breakdown.TotalPrice.Equal(decimal.RequireFromString("159.72")))
}

func (suite *HandlerTestSuite) TestPreviewMarkup_PercentageOutOfRange() {
	suite.rollups.On("PreviewMarkup", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(costing.Breakdown{}, decimal.Zero, apperrors.NewDomainError(apperrors.CodePercentageOutOfRange, "tax 150 outside [0, 100]")).Once()

	w := suite.do(http.MethodPost, "/api/v1/markup/preview", map[string]any{"unitDirectCost": "100", "quantity": "1", "taxPct": "150"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestListTemplates() {
	templates := []domain.NodeTemplate{{Code: "BRICK_WALL", Name: "Brick wall", Category: domain.CategoryBudgetItem, Unit: "m2"}}
	suite.catalog.On("ListTemplates", mock.Anything).Return(templates, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/templates", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.NodeTemplateResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp, 1)
	suite.Equal("BRICK_WALL", resp[0].Code)
}

func (suite *HandlerTestSuite) TestUnexpectedErrorIsInternal() {
	suite.versions.On("ListVersions", mock.Anything, suite.scope, suite.isActor()).
		Return(nil, fmt.Errorf("connection reset")).Once()

	w := suite.do(http.MethodGet, suite.projectsPath+"/budget-versions", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}
