package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/middleware"
	"github.com/simonbravin/bloqer/internal/utils/validation"
)

// requestScope reads the tenant key from the /orgs/:orgId/projects/:projectId prefix.
func requestScope(c *gin.Context) domain.Scope {
	return domain.Scope{OrgID: c.Param("orgId"), ProjectID: c.Param("projectId")}
}

// requestActor returns the authenticated caller, answering 401 when absent.
func requestActor(c *gin.Context, logger *slog.Logger) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}

// bindJSON decodes and validates the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind request body", slog.String("error", err.Error()))
		respondWithError(c, logger, validation.Translate(err), "Invalid request")
		return false
	}
	return true
}

// respondWithError maps err to a status and a JSON body:
// validation 400 with fields, domain rule 422 with code, not found 404,
// forbidden 403, unauthorized 401, conflict 409 and anything else 500
// with fallback as the message.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields})
		return
	}
	if derr, ok := apperrors.AsDomainError(err); ok {
		logger.Info("Domain rule violated", slog.String("code", string(derr.Code)), slog.String("error", err.Error()))
		body := gin.H{"error": derr.Message, "code": derr.Code}
		if derr.Code == apperrors.CodeHasChildren {
			body["childrenCount"] = derr.ChildrenCount
		}
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		logger.Warn("Unauthorized", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting modification", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
