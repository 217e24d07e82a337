package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/handlers"
	"github.com/simonbravin/bloqer/internal/platform/config"
	"github.com/simonbravin/bloqer/internal/utils"
	"github.com/simonbravin/bloqer/internal/utils/validation"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testJWTIssuer = "bloqer-test"
)

// HandlerTestSuite drives the full route tree with mocked services.
type HandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	wbs          *MockWbsService
	versions     *MockBudgetVersionService
	lines        *MockBudgetLineService
	rollups      *MockRollupService
	catalog      *MockTemplateCatalog
	actor        domain.Actor
	scope        domain.Scope
	projectsPath string
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(validation.ConfigureGin())
}

func (suite *HandlerTestSuite) SetupTest() {
	suite.wbs = new(MockWbsService)
	suite.versions = new(MockBudgetVersionService)
	suite.lines = new(MockBudgetLineService)
	suite.rollups = new(MockRollupService)
	suite.catalog = new(MockTemplateCatalog)

	suite.scope = domain.Scope{OrgID: uuid.NewString(), ProjectID: uuid.NewString()}
	suite.actor = domain.Actor{UserID: uuid.NewString(), OrgID: suite.scope.OrgID, Role: domain.RoleMember}
	suite.projectsPath = fmt.Sprintf("/api/v1/orgs/%s/projects/%s", suite.scope.OrgID, suite.scope.ProjectID)

	cfg := &config.Config{JWTSecret: testJWTSecret, JWTIssuer: testJWTIssuer, IsProduction: true}
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Wbs:       suite.wbs,
		Versions:  suite.versions,
		Lines:     suite.lines,
		Rollups:   suite.rollups,
		Templates: suite.catalog,
	})
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.wbs.AssertExpectations(suite.T())
	suite.versions.AssertExpectations(suite.T())
	suite.lines.AssertExpectations(suite.T())
	suite.rollups.AssertExpectations(suite.T())
	suite.catalog.AssertExpectations(suite.T())
}

// generateTestToken signs a token for the suite's actor.
func (suite *HandlerTestSuite) generateTestToken() string {
	token, err := utils.GenerateJWT(suite.actor, testJWTSecret, time.Hour, testJWTIssuer)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

// do sends an authenticated request; body, when not nil, is JSON-encoded
// unless it is already a string.
func (suite *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), "Failed to unmarshal response body: %s", w.Body.String())
}

// isActor matches the actor decoded from the bearer token.
func (suite *HandlerTestSuite) isActor() any {
	return mock.MatchedBy(func(a domain.Actor) bool {
		return a.UserID == suite.actor.UserID && a.OrgID == suite.actor.OrgID && a.Role == suite.actor.Role
	})
}

func (suite *HandlerTestSuite) node(code string, parentID *string) domain.WbsNode {
	category := domain.CategoryTask
	if parentID == nil {
		category = domain.CategoryPhase
	}
	return domain.WbsNode{
		NodeID:    uuid.NewString(),
		OrgID:     suite.scope.OrgID,
		ProjectID: suite.scope.ProjectID,
		Code:      code,
		Name:      "Node " + code,
		Category:  category,
		ParentID:  parentID,
		Active:    true,
	}
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestRequestWithoutToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, suite.projectsPath+"/wbs", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.wbs.AssertNotCalled(suite.T(), "ListTree")
}

func (suite *HandlerTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestListTree_Success() {
	root := suite.node("1", nil)
	child := suite.node("1.1", &root.NodeID)
	suite.wbs.On("ListTree", mock.Anything, suite.scope, suite.isActor()).
		Return([]domain.WbsNode{root, child}, nil).Once()

	w := suite.do(http.MethodGet, suite.projectsPath+"/wbs", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListWbsNodesResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Nodes, 2)
	suite.Equal("1", resp.Nodes[0].Code)
	suite.Equal("1.1", resp.Nodes[1].Code)
	suite.Equal(root.NodeID, *resp.Nodes[1].ParentID)
}

func (suite *HandlerTestSuite) TestAddNode_Created() {
	created := suite.node("2", nil)
	suite.wbs.On("AddNode", mock.Anything, suite.scope,
		mock.MatchedBy(func(r dto.CreateWbsNodeRequest) bool {
			return r.Name == "Structure" && r.Category == "PHASE" && r.ParentID == nil
		}),
		suite.isActor(),
	).Return(&created, nil).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/wbs", map[string]any{"name": "Structure", "category": "PHASE"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.WbsNodeResponse
	suite.decode(w, &resp)
	suite.Equal(created.NodeID, resp.NodeID)
	suite.Equal("2", resp.Code)
}

func (suite *HandlerTestSuite) TestAddNode_MissingNameIsFieldError() {
	w := suite.do(http.MethodPost, suite.projectsPath+"/wbs", map[string]any{"description": "no name"})

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	suite.decode(w, &resp)
	suite.Contains(resp.Fields, "name")
	suite.Contains(resp.Fields, "category")
	suite.wbs.AssertNotCalled(suite.T(), "AddNode")
}

func (suite *HandlerTestSuite) TestAddNode_MalformedJSON() {
	w := suite.do(http.MethodPost, suite.projectsPath+"/wbs", `{"name":`)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	suite.decode(w, &resp)
	suite.Equal("malformed JSON", resp.Fields["body"])
}

func (suite *HandlerTestSuite) TestAddNode_DepthExceededIsUnprocessable() {
	parentID := uuid.NewString()
	suite.wbs.On("AddNode", mock.Anything, suite.scope, mock.AnythingOfType("dto.CreateWbsNodeRequest"), suite.isActor()).
		Return(nil, apperrors.NewDomainError(apperrors.CodeMaxDepthExceeded, "depth 4 exceeds 3")).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/wbs", map[string]any{"name": "Too deep", "category": "TASK", "parentID": parentID})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	suite.decode(w, &resp)
	suite.Equal("MAX_DEPTH_EXCEEDED", resp["code"])
	suite.NotContains(resp, "childrenCount")
}

func (suite *HandlerTestSuite) TestGetNode_NotFound() {
	nodeID := uuid.NewString()
	suite.wbs.On("GetNode", mock.Anything, suite.scope, nodeID, suite.isActor()).
		Return(nil, fmt.Errorf("%w: wbs node %s", apperrors.ErrNotFound, nodeID)).Once()

	w := suite.do(http.MethodGet, suite.projectsPath+"/wbs/"+nodeID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateNode_Forbidden() {
	nodeID := uuid.NewString()
	suite.wbs.On("UpdateNode", mock.Anything, suite.scope, nodeID, mock.AnythingOfType("dto.UpdateWbsNodeRequest"), suite.isActor()).
		Return(nil, fmt.Errorf("%w: role READONLY cannot update", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodPatch, suite.projectsPath+"/wbs/"+nodeID, map[string]any{"name": "Renamed"})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestMoveNode_CycleDetected() {
	nodeID := uuid.NewString()
	newParent := uuid.NewString()
	suite.wbs.On("MoveNode", mock.Anything, suite.scope, nodeID,
		mock.MatchedBy(func(r dto.MoveWbsNodeRequest) bool { return r.NewParentID != nil && *r.NewParentID == newParent }),
		suite.isActor(),
	).Return(nil, fmt.Errorf("move %s: %w", nodeID, apperrors.ErrCycleDetected)).Once()

	w := suite.do(http.MethodPost, suite.projectsPath+"/wbs/"+nodeID+"/move", map[string]any{"newParentID": newParent})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	suite.decode(w, &resp)
	suite.Equal("CYCLE_DETECTED", resp["code"])
}

func (suite *HandlerTestSuite) TestReorderChildren_EmptyListRejected() {
	w := suite.do(http.MethodPost, suite.projectsPath+"/wbs/reorder", map[string]any{"nodeIDs": []string{}})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.wbs.AssertNotCalled(suite.T(), "ReorderChildren")
}

func (suite *HandlerTestSuite) TestDeleteNode_DefaultsToSoft() {
	nodeID := uuid.NewString()
	suite.wbs.On("SoftDeleteNode", mock.Anything, suite.scope, nodeID, suite.isActor()).Return(nil).Once()

	w := suite.do(http.MethodDelete, suite.projectsPath+"/wbs/"+nodeID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteNode_RenumberReturnsSiblings() {
	nodeID := uuid.NewString()
	sibling := suite.node("2", nil)
	suite.wbs.On("DeleteNodeWithRenumber", mock.Anything, suite.scope, nodeID, suite.isActor()).
		Return([]domain.WbsNode{sibling}, nil).Once()

	w := suite.do(http.MethodDelete, suite.projectsPath+"/wbs/"+nodeID+"?mode=renumber", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListWbsNodesResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Nodes, 1)
	suite.Equal(sibling.NodeID, resp.Nodes[0].NodeID)
}

func (suite *HandlerTestSuite) TestDeleteNode_RenumberWithChildrenReportsCount() {
	nodeID := uuid.NewString()
	suite.wbs.On("DeleteNodeWithRenumber", mock.Anything, suite.scope, nodeID, suite.isActor()).
		Return(nil, apperrors.NewHasChildrenError(nodeID, 2)).Once()

	w := suite.do(http.MethodDelete, suite.projectsPath+"/wbs/"+nodeID+"?mode=renumber", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp map[string]any
	suite.decode(w, &resp)
	suite.Equal("HAS_CHILDREN", resp["code"])
	suite.EqualValues(2, resp["childrenCount"])
}

func (suite *HandlerTestSuite) TestDeleteNode_Cascade() {
	nodeID := uuid.NewString()
	childID := uuid.NewString()
	result := &domain.CascadeDeleteResult{
		DeletedNodeIDs:    []string{nodeID, childID},
		DeletedLineCount:  3,
		RenumberedNodeIDs: []string{},
	}
	suite.wbs.On("DeleteNodeCascade", mock.Anything, suite.scope, nodeID, suite.isActor()).Return(result, nil).Once()

	w := suite.do(http.MethodDelete, suite.projectsPath+"/wbs/"+nodeID+"?mode=cascade", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CascadeDeleteResponse
	suite.decode(w, &resp)
	suite.ElementsMatch([]string{nodeID, childID}, resp.DeletedNodeIDs)
	suite.EqualValues(3, resp.DeletedLineCount)
}

func (suite *HandlerTestSuite) TestDeleteNode_UnknownMode() {
	w := suite.do(http.MethodDelete, suite.projectsPath+"/wbs/"+uuid.NewString()+"?mode=purge", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
