package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type deliverableHandler struct {
	deliverableService portssvc.DeliverableSvcFacade
}

// RegisterDeliverableRoutes registers routes related to deliverables.
func RegisterDeliverableRoutes(rg *gin.RouterGroup, deliverableService portssvc.DeliverableSvcFacade) {
	h := &deliverableHandler{deliverableService: deliverableService}

	deliverables := rg.Group("/deliverables")
	{
		deliverables.POST("", h.createDeliverable)
		deliverables.POST("/bulk", h.bulkCreateDeliverables)
		deliverables.GET("", h.listDeliverables)
		deliverables.GET("/:id", h.getDeliverable)
		deliverables.PUT("/:id", h.updateDeliverable)
		deliverables.PATCH("/:id/status", h.updateDeliverableStatus)
		deliverables.DELETE("/:id", h.deleteDeliverable)
	}
}

// createDeliverable godoc
// @Summary Create a deliverable on a work order
// @Tags deliverables
// @Accept  json
// @Produce  json
// @Param   deliverable body dto.CreateDeliverableRequest true "Deliverable details"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Work order not found"
// @Security BearerAuth
// @Router /deliverables [post]
func (h *deliverableHandler) createDeliverable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.CreateDeliverableRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	id, err := h.deliverableService.AddDeliverable(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create deliverable")
		return
	}
	logger.Info("Deliverable created successfully", slog.String("deliverable_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// bulkCreateDeliverables godoc
// @Summary Create many deliverables on one work order
// @Description Large requests are written in several batches. If a later batch fails the
// @Description response is a 500 with code partial_commit and the ids that were written.
// @Tags deliverables
// @Accept  json
// @Produce  json
// @Param   deliverables body dto.BulkCreateDeliverablesRequest true "Deliverables"
// @Success 201 {object} dto.CreatedManyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /deliverables/bulk [post]
func (h *deliverableHandler) bulkCreateDeliverables(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.BulkCreateDeliverablesRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger = logger.With(slog.String("work_order_id", req.WorkOrderID))
	ids, err := h.deliverableService.BulkAddDeliverables(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPartialCommit) {
			logger.Error("Bulk deliverables partially committed",
				slog.Int("committed", len(ids)), slog.Int("requested", len(req.Items)),
				slog.Bool("partial_commit", true), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error: "Only some deliverables were created.",
				Code:  "partial_commit",
				IDs:   ids,
			})
			return
		}
		respondError(c, logger, err, "create deliverables")
		return
	}
	logger.Info("Deliverables created successfully", slog.Int("count", len(ids)))
	c.JSON(http.StatusCreated, dto.CreatedManyResponse{IDs: ids})
}

// listDeliverables godoc
// @Summary List deliverables
// @Tags deliverables
// @Produce  json
// @Param   workOrderId query string false "Work order ID"
// @Param   status query string false "Deliverable status"
// @Param   limit query int false "Limit number of results" default(200)
// @Success 200 {object} dto.ListResponse[domain.Deliverable]
// @Security BearerAuth
// @Router /deliverables [get]
func (h *deliverableHandler) listDeliverables(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDeliverablesParams
	if !bindQuery(c, logger, &params) {
		return
	}

	deliverables, err := h.deliverableService.ListDeliverables(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list deliverables")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(deliverables))
}

// getDeliverable godoc
// @Summary Get a deliverable by ID
// @Tags deliverables
// @Produce  json
// @Param   id path string true "Deliverable ID"
// @Success 200 {object} domain.Deliverable
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /deliverables/{id} [get]
func (h *deliverableHandler) getDeliverable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deliverable_id", c.Param("id")))

	deliverable, err := h.deliverableService.GetDeliverableByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve deliverable")
		return
	}
	c.JSON(http.StatusOK, deliverable)
}

// updateDeliverable godoc
// @Summary Update a deliverable
// @Tags deliverables
// @Accept  json
// @Param   id path string true "Deliverable ID"
// @Param   deliverable body dto.UpdateDeliverableRequest true "Fields to update"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /deliverables/{id} [put]
func (h *deliverableHandler) updateDeliverable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deliverable_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateDeliverableRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.deliverableService.UpdateDeliverable(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update deliverable")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateDeliverableStatus godoc
// @Summary Move a deliverable through its workflow
// @Tags deliverables
// @Accept  json
// @Param   id path string true "Deliverable ID"
// @Param   status body dto.UpdateDeliverableStatusRequest true "New status"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /deliverables/{id}/status [patch]
func (h *deliverableHandler) updateDeliverableStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deliverable_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateDeliverableStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.deliverableService.UpdateDeliverableStatus(c.Request.Context(), c.Param("id"), req.Status, actorID); err != nil {
		respondError(c, logger, err, "update deliverable status")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteDeliverable godoc
// @Summary Delete a deliverable
// @Tags deliverables
// @Param   id path string true "Deliverable ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /deliverables/{id} [delete]
func (h *deliverableHandler) deleteDeliverable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deliverable_id", c.Param("id")))

	if err := h.deliverableService.DeleteDeliverable(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete deliverable")
		return
	}
	c.Status(http.StatusNoContent)
}
