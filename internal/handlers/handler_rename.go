package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRenameRoutes exposes the repair path for partially propagated renames.
func RegisterRenameRoutes(rg *gin.RouterGroup, renameService portssvc.RenameSvc) {
	rg.POST("/reconcile/:kind/:id", reconcileNames(renameService))
}

// reconcileNames godoc
// @Summary Re-apply an entity's current name to every cached copy
// @Description Safe to repeat. Use after a rename reported partial_commit.
// @Tags maintenance
// @Produce  json
// @Param   kind path string true "company, contact, deal, workOrder, deliverable or task"
// @Param   id path string true "Entity ID"
// @Success 200 {object} dto.ReconcileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /reconcile/{kind}/{id} [post]
func reconcileNames(renameService portssvc.RenameSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
			slog.String("kind", c.Param("kind")),
			slog.String("entity_id", c.Param("id")),
		)

		rewritten, err := renameService.Reconcile(c.Request.Context(), domain.EntityKind(c.Param("kind")), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, "reconcile names")
			return
		}
		logger.Info("Names reconciled", slog.Int("rewritten", rewritten))
		c.JSON(http.StatusOK, dto.ReconcileResponse{Rewritten: rewritten})
	}
}
