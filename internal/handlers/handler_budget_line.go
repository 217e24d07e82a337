package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/middleware"
	"github.com/simonbravin/bloqer/internal/utils/validation"
)

// budgetLineHandler holds dependencies for budget line and resource handlers
type budgetLineHandler struct {
	lineService portssvc.BudgetLineSvcFacade
}

// newBudgetLineHandler creates a new budgetLineHandler
func newBudgetLineHandler(lineService portssvc.BudgetLineSvcFacade) *budgetLineHandler {
	return &budgetLineHandler{lineService: lineService}
}

// RegisterBudgetLineRoutes registers line and APU resource routes on a project-scoped group
func RegisterBudgetLineRoutes(rg *gin.RouterGroup, lineService portssvc.BudgetLineSvcFacade) {
	h := newBudgetLineHandler(lineService)

	rg.GET("/budget-versions/:versionId/lines", h.listLines)
	rg.POST("/budget-versions/:versionId/lines", h.createLine)

	lines := rg.Group("/budget-lines/:lineId")
	{
		lines.GET("", h.getLine)
		lines.PATCH("", h.updateLine)
		lines.DELETE("", h.deleteLine)
		lines.GET("/resources", h.listResources)
		lines.POST("/resources", h.addResource)
	}

	resources := rg.Group("/budget-resources/:resourceId")
	{
		resources.PATCH("", h.updateResource)
		resources.DELETE("", h.deleteResource)
	}
}

// listLines godoc
// @Summary List budget lines
// @Description Lists a page of a version's lines ordered by sort order. Pass nextToken from the previous page to continue.
// @Tags budget-lines
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Budget version ID"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param nextToken query string false "Token of the next page"
// @Success 200 {object} dto.ListBudgetLinesResponse
// @Failure 400 {object} map[string]any "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId}/lines [get]
func (h *budgetLineHandler) listLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListBudgetLinesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters", slog.String("error", err.Error()))
		respondWithError(c, logger, validation.Translate(err), "Invalid query")
		return
	}

	lines, nextToken, err := h.lineService.ListLines(c.Request.Context(), requestScope(c), c.Param("versionId"), params, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list budget lines")
		return
	}

	c.JSON(http.StatusOK, dto.ListBudgetLinesResponse{
		Lines:     dto.ToBudgetLineResponses(lines),
		NextToken: nextToken,
	})
}

// createLine godoc
// @Summary Create a budget line
// @Description Adds a line for an active WBS node to a DRAFT version and prices it with the markup cascade.
// @Tags budget-lines
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Budget version ID"
// @Param line body dto.CreateBudgetLineRequest true "Line details"
// @Success 201 {object} dto.BudgetLineResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version or node not found"
// @Failure 422 {object} map[string]string "Version locked or node inactive"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId}/lines [post]
func (h *budgetLineHandler) createLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateBudgetLineRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	line, err := h.lineService.CreateLine(c.Request.Context(), requestScope(c), c.Param("versionId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create budget line")
		return
	}

	logger.Info("Budget line created", slog.String("line_id", line.LineID), slog.String("version_id", line.BudgetVersionID))
	c.JSON(http.StatusCreated, dto.ToBudgetLineResponse(line))
}

// getLine godoc
// @Summary Get a budget line
// @Description Retrieves a line with its APU resources.
// @Tags budget-lines
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param lineId path string true "Budget line ID"
// @Success 200 {object} dto.LineWithResourcesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Line not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-lines/{lineId} [get]
func (h *budgetLineHandler) getLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	line, resources, err := h.lineService.GetLineWithResources(c.Request.Context(), requestScope(c), c.Param("lineId"), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get budget line")
		return
	}

	c.JSON(http.StatusOK, dto.LineWithResourcesResponse{
		Line:      dto.ToBudgetLineResponse(line),
		Resources: dto.ToBudgetResourceResponses(resources),
	})
}

// updateLine godoc
// @Summary Update a budget line
// @Description Edits a line of a DRAFT version and reprices it. The unit direct cost cannot be set on a line with resources.
// @Tags budget-lines
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param lineId path string true "Budget line ID"
// @Param line body dto.UpdateBudgetLineRequest true "Fields to update"
// @Success 200 {object} dto.BudgetLineResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Line not found"
// @Failure 409 {object} map[string]string "Stale version"
// @Failure 422 {object} map[string]string "Version locked or direct cost derived"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-lines/{lineId} [patch]
func (h *budgetLineHandler) updateLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateBudgetLineRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	line, err := h.lineService.UpdateLine(c.Request.Context(), requestScope(c), c.Param("lineId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update budget line")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetLineResponse(line))
}

// deleteLine godoc
// @Summary Delete a budget line
// @Description Removes a line of a DRAFT version together with its resources.
// @Tags budget-lines
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param lineId path string true "Budget line ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Line not found"
// @Failure 422 {object} map[string]string "Version locked"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-lines/{lineId} [delete]
func (h *budgetLineHandler) deleteLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	if err := h.lineService.DeleteLine(c.Request.Context(), requestScope(c), c.Param("lineId"), actor); err != nil {
		respondWithError(c, logger, err, "Failed to delete budget line")
		return
	}

	logger.Info("Budget line deleted", slog.String("line_id", c.Param("lineId")))
	c.Status(http.StatusNoContent)
}

// listResources godoc
// @Summary List APU resources
// @Tags budget-lines
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param lineId path string true "Budget line ID"
// @Success 200 {object} dto.ListBudgetResourcesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Line not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-lines/{lineId}/resources [get]
func (h *budgetLineHandler) listResources(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	resources, err := h.lineService.ListResources(c.Request.Context(), requestScope(c), c.Param("lineId"), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list budget resources")
		return
	}

	c.JSON(http.StatusOK, dto.ListBudgetResourcesResponse{Resources: dto.ToBudgetResourceResponses(resources)})
}

// addResource godoc
// @Summary Add an APU resource
// @Description Adds a resource to a line and recomputes the line's direct and sale totals.
// @Tags budget-lines
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param lineId path string true "Budget line ID"
// @Param resource body dto.CreateBudgetResourceRequest true "Resource details"
// @Success 201 {object} dto.LineRecomputeResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Line not found"
// @Failure 422 {object} map[string]string "Version locked"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-lines/{lineId}/resources [post]
func (h *budgetLineHandler) addResource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateBudgetResourceRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	result, err := h.lineService.AddResource(c.Request.Context(), requestScope(c), c.Param("lineId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add budget resource")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLineRecomputeResponse(result))
}

// updateResource godoc
// @Summary Update an APU resource
// @Description Edits a resource and recomputes the owning line's totals.
// @Tags budget-lines
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param resourceId path string true "Budget resource ID"
// @Param resource body dto.UpdateBudgetResourceRequest true "Fields to update"
// @Success 200 {object} dto.LineRecomputeResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Resource not found"
// @Failure 409 {object} map[string]string "Stale version"
// @Failure 422 {object} map[string]string "Version locked"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-resources/{resourceId} [patch]
func (h *budgetLineHandler) updateResource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateBudgetResourceRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	result, err := h.lineService.UpdateResource(c.Request.Context(), requestScope(c), c.Param("resourceId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update budget resource")
		return
	}

	c.JSON(http.StatusOK, dto.ToLineRecomputeResponse(result))
}

// deleteResource godoc
// @Summary Delete an APU resource
// @Description Removes a resource and recomputes the owning line's totals.
// @Tags budget-lines
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param resourceId path string true "Budget resource ID"
// @Success 200 {object} dto.LineRecomputeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Resource not found"
// @Failure 422 {object} map[string]string "Version locked"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-resources/{resourceId} [delete]
func (h *budgetLineHandler) deleteResource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	result, err := h.lineService.DeleteResource(c.Request.Context(), requestScope(c), c.Param("resourceId"), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to delete budget resource")
		return
	}

	c.JSON(http.StatusOK, dto.ToLineRecomputeResponse(result))
}
