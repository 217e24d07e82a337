package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/middleware"
	"github.com/simonbravin/bloqer/internal/utils/costing"
)

// rollupHandler holds dependencies for rollup and pricing handlers
type rollupHandler struct {
	rollupService portssvc.RollupSvcFacade
}

// newRollupHandler creates a new rollupHandler
func newRollupHandler(rollupService portssvc.RollupSvcFacade) *rollupHandler {
	return &rollupHandler{rollupService: rollupService}
}

// RegisterRollupRoutes registers the version rollup on a project-scoped group
func RegisterRollupRoutes(rg *gin.RouterGroup, rollupService portssvc.RollupSvcFacade) {
	h := newRollupHandler(rollupService)
	rg.GET("/budget-versions/:versionId/rollup", h.getVersionRollup)
}

// RegisterMarkupRoutes registers the unscoped markup preview
func RegisterMarkupRoutes(rg *gin.RouterGroup, rollupService portssvc.RollupSvcFacade) {
	h := newRollupHandler(rollupService)
	rg.POST("/markup/preview", h.previewMarkup)
}

// getVersionRollup godoc
// @Summary Get a budget version rollup
// @Description Aggregates the version's lines over the active WBS tree: per-node direct and sale totals and incidence on the grand total.
// @Tags rollups
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param projectId path string true "Project ID"
// @Param versionId path string true "Budget version ID"
// @Success 200 {object} domain.VersionRollup
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Version not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /orgs/{orgId}/projects/{projectId}/budget-versions/{versionId}/rollup [get]
func (h *rollupHandler) getVersionRollup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requestActor(c, logger)
	if !ok {
		return
	}

	rollup, err := h.rollupService.GetVersionRollup(c.Request.Context(), requestScope(c), c.Param("versionId"), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute budget rollup")
		return
	}

	c.JSON(http.StatusOK, rollup)
}

// previewMarkup godoc
// @Summary Preview the markup cascade
// @Description Prices a unit direct cost through overhead, financial, profit and tax without touching any version.
// @Tags rollups
// @Accept json
// @Produce json
// @Param preview body dto.MarkupPreviewRequest true "Unit cost, quantity and percentages"
// @Success 200 {object} dto.MarkupPreviewResponse
// @Failure 400 {object} map[string]any "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Percentage out of range"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /markup/preview [post]
func (h *rollupHandler) previewMarkup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MarkupPreviewRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	p := costing.Percentages{
		Overhead:  req.OverheadPct,
		Financial: req.FinancialPct,
		Profit:    req.ProfitPct,
		Tax:       req.TaxPct,
	}
	breakdown, total, err := h.rollupService.PreviewMarkup(c.Request.Context(), req.UnitDirectCost, req.Quantity, p)
	if err != nil {
		respondWithError(c, logger, err, "Failed to preview markup")
		return
	}

	c.JSON(http.StatusOK, dto.MarkupPreviewResponse{
		Breakdown: breakdown,
		Quantity:  req.Quantity,
		LineTotal: total,
	})
}
