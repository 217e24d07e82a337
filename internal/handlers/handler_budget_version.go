package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/middleware"
)

// budgetVersionHandler holds dependencies for budget version handlers
type budgetVersionHandler struct {
	versionService portssvc.BudgetVersionSvcFacade
}

// newBudgetVersionHandler creates a new budgetVersionHandler
func newBudgetVersionHandler(versionService portssvc.BudgetVersionSvcFacade) *budgetVersionHandler {
	return &budgetVersionHandler{versionService: versionService}
}

// RegisterBudgetVersionRoutes registers the budget version routes on a project-scoped group
func RegisterBudgetVersionRoutes(rg *gin.RouterGroup, versionService portssvc.BudgetVersionSvcFacade) {
	h := newBudgetVersionHandler(versionService)

	versions := rg.Group("/budget-versions")
	{
		versions.GET("", h.listVersions)
		versions.POST("", h.createVersion)
		versions.GET("/:versionId", h.getVersion)
		versions.PATCH("/:versionId", h.updateVersionSettings)
		versions.POST("/:versionId/baseline", h.setBaseline)
		versions.POST("/:versionId/approve", h.approveVersion)
		versions.POST("/:versionId/status", h.overrideVersionStatus)
		versions.POST("/:versionId/copy", h.copyVersion)
		versions.POST("/:versionId/import", h.importLines)
	}
}

// listVersions godoc
// @Summary List budget versions
// @Description Lists every budget version of the project in creation order.
// @Tags budget-versions
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Success 200 {object} dto.ListBudgetVersionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions [get]
func (h *budgetVersionHandler) listVersions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	versions, err := h.versionService.ListVersions(c.Request.Context(), requestScope(c), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list budget versions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListBudgetVersionsResponse(versions))
}

// createVersion godoc
// @Summary Create a budget version
// @Description Opens a new DRAFT working version with the next version code.
// @Tags budget-versions
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param version body dto.CreateBudgetVersionRequest true "Version details"
// @Success 201 {object} dto.BudgetVersionResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 422 {object} map[string]string "Percentage out of range"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions [post]
func (h *budgetVersionHandler) createVersion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateBudgetVersionRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	version, err := h.versionService.CreateVersion(c.Request.Context(), requestScope(c), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create budget version")
		return
	}

	logger.Info("Budget version created", slog.String("version_id", version.VersionID), slog.String("version_code", version.VersionCode))
	c.JSON(http.StatusCreated, dto.ToBudgetVersionResponse(version))
}

// getVersion godoc
// @Summary Get a budget version
// @Tags budget-versions
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Budget version ID"
// @Success 200 {object} dto.BudgetVersionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId} [get]
func (h *budgetVersionHandler) getVersion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	version, err := h.versionService.GetVersion(c.Request.Context(), requestScope(c), c.Param("versionId"), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get budget version")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetVersionResponse(version))
}

// updateVersionSettings godoc
// @Summary Update budget version settings
// @Description Edits name, markup mode or default percentages of a DRAFT version. Changed percentages reprice every line.
// @Tags budget-versions
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Budget version ID"
// @Param version body dto.UpdateBudgetVersionRequest true "Settings to update"
// @Success 200 {object} dto.BudgetVersionResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 409 {object} map[string]string "Stale version"
// @Failure 422 {object} map[string]string "Version locked or percentage out of range"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId} [patch]
func (h *budgetVersionHandler) updateVersionSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateBudgetVersionRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	version, err := h.versionService.UpdateVersionSettings(c.Request.Context(), requestScope(c), c.Param("versionId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update budget version")
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetVersionResponse(version))
}

// setBaseline godoc
// @Summary Set the project baseline
// @Description Makes the version the only baseline of the project. Any previous baseline is demoted.
// @Tags budget-versions
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Budget version ID"
// @Success 200 {object} dto.BudgetVersionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 409 {object} map[string]string "Concurrent baseline change"
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId}/baseline [post]
func (h *budgetVersionHandler) setBaseline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	version, err := h.versionService.SetBaseline(c.Request.Context(), requestScope(c), c.Param("versionId"), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to set baseline")
		return
	}

	logger.Info("Budget version set as baseline", slog.String("version_id", version.VersionID))
	c.JSON(http.StatusOK, dto.ToBudgetVersionResponse(version))
}

// approveVersion godoc
// @Summary Approve a budget version
// @Description Freezes the version. Requires the ADMIN role.
// @Tags budget-versions
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Budget version ID"
// @Success 200 {object} dto.BudgetVersionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId}/approve [post]
func (h *budgetVersionHandler) approveVersion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	version, err := h.versionService.ApproveVersion(c.Request.Context(), requestScope(c), c.Param("versionId"), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to approve budget version")
		return
	}

	logger.Info("Budget version approved", slog.String("version_id", version.VersionID))
	c.JSON(http.StatusOK, dto.ToBudgetVersionResponse(version))
}

// overrideVersionStatus godoc
// @Summary Override a budget version status
// @Description Moves an APPROVED or BASELINE version back to DRAFT or BASELINE. Requires the ADMIN role and a reason.
// @Tags budget-versions
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Budget version ID"
// @Param override body dto.OverrideVersionStatusRequest true "Target status and reason"
// @Success 200 {object} dto.BudgetVersionResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 422 {object} map[string]string "Invalid status transition"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId}/status [post]
func (h *budgetVersionHandler) overrideVersionStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.OverrideVersionStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	version, err := h.versionService.OverrideVersionStatus(c.Request.Context(), requestScope(c), c.Param("versionId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to override budget version status")
		return
	}

	logger.Warn("Budget version status overridden",
		slog.String("version_id", version.VersionID),
		slog.String("status", string(version.Status)))
	c.JSON(http.StatusOK, dto.ToBudgetVersionResponse(version))
}

// copyVersion godoc
// @Summary Copy a budget version
// @Description Creates a DRAFT copy of the version with all its lines and resources.
// @Tags budget-versions
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Source budget version ID"
// @Param copy body dto.CopyBudgetVersionRequest true "Copy details"
// @Success 201 {object} dto.BudgetVersionResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId}/copy [post]
func (h *budgetVersionHandler) copyVersion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.CopyBudgetVersionRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	version, err := h.versionService.CopyVersion(c.Request.Context(), requestScope(c), c.Param("versionId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to copy budget version")
		return
	}

	logger.Info("Budget version copied",
		slog.String("source_version_id", c.Param("versionId")),
		slog.String("version_id", version.VersionID))
	c.JSON(http.StatusCreated, dto.ToBudgetVersionResponse(version))
}

// importLines godoc
// @Summary Import budget lines
// @Description Copies lines, with their resources, from another version of the same project into this DRAFT version.
// @Tags budget-versions
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Target budget version ID"
// @Param import body dto.ImportBudgetLinesRequest true "Source version and lines"
// @Success 201 {object} dto.ImportBudgetLinesResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 422 {object} map[string]string "Version locked or source in another project"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId}/import [post]
func (h *budgetVersionHandler) importLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	var req dto.ImportBudgetLinesRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	lines, err := h.versionService.ImportLines(c.Request.Context(), requestScope(c), c.Param("versionId"), req, actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to import budget lines")
		return
	}

	logger.Info("Budget lines imported", slog.String("version_id", c.Param("versionId")), slog.Int("lines", len(lines)))
	c.JSON(http.StatusCreated, dto.ImportBudgetLinesResponse{
		Imported: len(lines),
		Lines:    dto.ToBudgetLineResponses(lines),
	})
}
