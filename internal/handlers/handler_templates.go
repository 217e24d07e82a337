package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/middleware"
)

type templateHandler struct {
	catalog portssvc.TemplateCatalog
}

// RegisterTemplateRoutes registers the node template catalog routes
func RegisterTemplateRoutes(rg *gin.RouterGroup, catalog portssvc.TemplateCatalog) {
	h := &templateHandler{catalog: catalog}
	rg.GET("/templates", h.listTemplates)
}

// listTemplates godoc
// @Summary List node templates
// @Description Lists the catalog of node templates usable with templateCode when adding a WBS node.
// @Tags templates
// @Produce json
// @Success 200 {array} dto.NodeTemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security BearerAuth
// @Router /templates [get]
func (h *templateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	templates, err := h.catalog.ListTemplates(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list templates")
		return
	}

	c.JSON(http.StatusOK, dto.ToNodeTemplateResponses(templates))
}
