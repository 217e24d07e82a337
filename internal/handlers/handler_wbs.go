package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/middleware"
)

// Delete modes accepted by DELETE /wbs/:nodeId.
const (
	deleteModeSoft     = "soft"
	deleteModeRenumber = "renumber"
	deleteModeCascade  = "cascade"
)

// wbsHandler holds dependencies for WBS handlers
type wbsHandler struct {
	wbsService portssvc.WbsSvcFacade
}

// newWbsHandler creates a new wbsHandler
func newWbsHandler(wbsService portssvc.WbsSvcFacade) *wbsHandler {
	return &wbsHandler{wbsService: wbsService}
}

// RegisterWbsRoutes registers the WBS routes on a project-scoped group
func RegisterWbsRoutes(rg *gin.RouterGroup, wbsService portssvc.WbsSvcFacade) {
	h := newWbsHandler(wbsService)

	wbs := rg.Group("/wbs")
	{
		wbs.GET("", h.listTree)
		wbs.POST("", h.addNode)
		wbs.POST("/reorder", h.reorderChildren)
		wbs.GET("/:nodeId", h.getNode)
		wbs.PATCH("/:nodeId", h.updateNode)
		wbs.POST("/:nodeId/move", h.moveNode)
		wbs.DELETE("/:nodeId", h.deleteNode)
	}
}

// listTree godoc
// @Summary List the WBS tree
// @Description Returns the active nodes of the project in pre-order, siblings by sort order.
// @Tags wbs
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Success 200 {object} dto.ListWbsNodesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/wbs [get]
func (h *wbsHandler) listTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	nodes, err := h.wbsService.ListTree(c.Request.Context(), requestScope(c), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list WBS")
		return
	}

	c.JSON(http.StatusOK, dto.ListWbsNodesResponse{Nodes: dto.ToWbsNodeResponses(nodes)})
}

// addNode godoc
// @Summary Add a WBS node
// @Description Creates a node as the last child of its parent, or as a root when parentID is null.
// @Description With templateCode the template fills name, category, unit and quantity; with budgetVersionID it also seeds a budget line.
// @Tags wbs
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param node body dto.CreateWbsNodeRequest true "Node details"
// @Success 201 {object} dto.WbsNodeResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 422 {object} map[string]string "Tree rule violated"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/wbs [post]
func (h *wbsHandler) addNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateWbsNodeRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	node, err := h.wbsService.AddNode(c.Request.Context(), requestScope(c), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add WBS node")
		return
	}

	logger.Info("WBS node added", slog.String("node_id", node.NodeID), slog.String("code", node.Code))
	c.JSON(http.StatusCreated, dto.ToWbsNodeResponse(node))
}

// getNode godoc
// @Summary Get a WBS node
// @Description Retrieves a single node, active or not.
// @Tags wbs
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param nodeId path string true "Node ID"
// @Success 200 {object} dto.WbsNodeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Node not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/wbs/{nodeId} [get]
func (h *wbsHandler) getNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	node, err := h.wbsService.GetNode(c.Request.Context(), requestScope(c), c.Param("nodeId"), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get WBS node")
		return
	}

	c.JSON(http.StatusOK, dto.ToWbsNodeResponse(node))
}

// updateNode godoc
// @Summary Update a WBS node
// @Description Edits name, description, unit or quantity. Code, parent and category are changed through move only.
// @Tags wbs
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param nodeId path string true "Node ID"
// @Param node body dto.UpdateWbsNodeRequest true "Fields to update"
// @Success 200 {object} dto.WbsNodeResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Node not found"
// @Failure 409 {object} map[string]string "Stale version"
// @Failure 422 {object} map[string]string "Node inactive"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/wbs/{nodeId} [patch]
func (h *wbsHandler) updateNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateWbsNodeRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	node, err := h.wbsService.UpdateNode(c.Request.Context(), requestScope(c), c.Param("nodeId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update WBS node")
		return
	}

	c.JSON(http.StatusOK, dto.ToWbsNodeResponse(node))
}

// moveNode godoc
// @Summary Move a WBS node
// @Description Reparents a node as the last child of newParentID and rewrites the codes of its subtree.
// @Tags wbs
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param nodeId path string true "Node ID"
// @Param move body dto.MoveWbsNodeRequest true "New parent"
// @Success 200 {object} dto.ListWbsNodesResponse "Every node whose code or parent changed"
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Node not found"
// @Failure 422 {object} map[string]string "Cycle or depth violation"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/wbs/{nodeId}/move [post]
func (h *wbsHandler) moveNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.MoveWbsNodeRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	changed, err := h.wbsService.MoveNode(c.Request.Context(), requestScope(c), c.Param("nodeId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to move WBS node")
		return
	}

	logger.Info("WBS node moved", slog.String("node_id", c.Param("nodeId")), slog.Int("changed", len(changed)))
	c.JSON(http.StatusOK, dto.ListWbsNodesResponse{Nodes: dto.ToWbsNodeResponses(changed)})
}

// reorderChildren godoc
// @Summary Reorder sibling WBS nodes
// @Description Sets the order of every active child of parentID and resequences their codes.
// @Tags wbs
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param reorder body dto.ReorderWbsChildrenRequest true "Desired order"
// @Success 200 {object} dto.ListWbsNodesResponse "Every node whose code changed"
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/wbs/reorder [post]
func (h *wbsHandler) reorderChildren(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.ReorderWbsChildrenRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	changed, err := h.wbsService.ReorderChildren(c.Request.Context(), requestScope(c), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reorder WBS nodes")
		return
	}

	c.JSON(http.StatusOK, dto.ListWbsNodesResponse{Nodes: dto.ToWbsNodeResponses(changed)})
}

// deleteNode godoc
// @Summary Delete a WBS node
// @Description soft deactivates the node and its subtree; renumber deactivates a childless node and closes the code gap;
// @Description cascade hard-deletes the subtree with its budget lines.
// @Tags wbs
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param nodeId path string true "Node ID"
// @Param mode query string false "Delete mode" Enums(soft, renumber, cascade) default(soft)
// @Success 200 {object} dto.ListWbsNodesResponse "renumber: the renumbered siblings"
// @Success 204 "soft: no content"
// @Failure 400 {object} map[string]string "Unknown mode"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Node not found"
// @Failure 422 {object} map[string]any "Node has children or a version is locked"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/wbs/{nodeId} [delete]
func (h *wbsHandler) deleteNode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	scope := requestScope(c)
	nodeID := c.Param("nodeId")
	mode := c.DefaultQuery("mode", deleteModeSoft)
	logger = logger.With(slog.String("node_id", nodeID), slog.String("mode", mode))

	switch mode {
	case deleteModeSoft:
		if err := h.wbsService.SoftDeleteNode(c.Request.Context(), scope, nodeID, actor); err != nil {
			respondWithError(c, logger, err, "Failed to delete WBS node")
			return
		}
		logger.Info("WBS node deactivated")
		c.Status(http.StatusNoContent)
	case deleteModeRenumber:
		renumbered, err := h.wbsService.DeleteNodeWithRenumber(c.Request.Context(), scope, nodeID, actor)
		if err != nil {
			respondWithError(c, logger, err, "Failed to delete WBS node")
			return
		}
		logger.Info("WBS node deactivated and siblings renumbered", slog.Int("renumbered", len(renumbered)))
		c.JSON(http.StatusOK, dto.ListWbsNodesResponse{Nodes: dto.ToWbsNodeResponses(renumbered)})
	case deleteModeCascade:
		result, err := h.wbsService.DeleteNodeCascade(c.Request.Context(), scope, nodeID, actor)
		if err != nil {
			respondWithError(c, logger, err, "Failed to delete WBS subtree")
			return
		}
		logger.Info("WBS subtree deleted",
			slog.Int("nodes", len(result.DeletedNodeIDs)),
			slog.Int64("lines", result.DeletedLineCount))
		c.JSON(http.StatusOK, dto.ToCascadeDeleteResponse(result))
	default:
		logger.Warn("Unknown delete mode")
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be one of soft, renumber, cascade"})
	}
}
