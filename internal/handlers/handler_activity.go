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

type activityHandler struct {
	activityService portssvc.ActivitySvcFacade
}

// RegisterActivityRoutes registers routes related to the activity ledger.
func RegisterActivityRoutes(rg *gin.RouterGroup, activityService portssvc.ActivitySvcFacade) {
	h := &activityHandler{activityService: activityService}

	activities := rg.Group("/activities")
	{
		activities.POST("", h.recordActivity)
		activities.GET("", h.listActivities)
		activities.GET("/:kind/:id", h.listActivitiesByParent)
	}
}

// recordActivity godoc
// @Summary Record a user activity
// @Description Resolves the company through the contact or deal, refreshes lastActivityAt on every
// @Description parent and applies an optional next action, all in one atomic write.
// @Tags activities
// @Accept  json
// @Produce  json
// @Param   activity body dto.RecordActivityRequest true "Activity"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /activities [post]
func (h *activityHandler) recordActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.RecordActivityRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger.Info("Received request to record activity", slog.String("type", string(req.Type)))
	id, err := h.activityService.RecordUserActivity(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "record activity")
		return
	}
	logger.Info("Activity recorded", slog.String("activity_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// listActivities godoc
// @Summary List activities, newest first
// @Tags activities
// @Produce  json
// @Param   contactId query string false "Contact ID"
// @Param   companyId query string false "Company ID"
// @Param   dealId query string false "Deal ID"
// @Param   workOrderId query string false "Work order ID"
// @Param   type query string false "Activity type"
// @Param   source query string false "user or system"
// @Param   limit query int false "Page size" default(50)
// @Param   pageToken query string false "Token from the previous page"
// @Success 200 {object} dto.ActivityPage
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /activities [get]
func (h *activityHandler) listActivities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListActivitiesParams
	if !bindQuery(c, logger, &params) {
		return
	}

	page, err := h.activityService.ListActivities(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list activities")
		return
	}
	c.JSON(http.StatusOK, page)
}

// listActivitiesByParent godoc
// @Summary List a parent's activity timeline
// @Tags activities
// @Produce  json
// @Param   kind path string true "company, contact, deal or workOrder"
// @Param   id path string true "Parent ID"
// @Param   limit query int false "Limit number of results" default(50)
// @Success 200 {object} dto.ListResponse[domain.Activity]
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /activities/{kind}/{id} [get]
func (h *activityHandler) listActivitiesByParent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("kind", c.Param("kind")),
		slog.String("parent_id", c.Param("id")),
	)
	var params dto.ListByParentParams
	if !bindQuery(c, logger, &params) {
		return
	}

	activities, err := h.activityService.ListActivitiesByParent(c.Request.Context(), domain.EntityKind(c.Param("kind")), c.Param("id"), params.Limit)
	if err != nil {
		respondError(c, logger, err, "list activities")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(activities))
}
