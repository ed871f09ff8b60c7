package handlers

import (
	"context"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type timeEntryHandler struct {
	timeEntryService portssvc.TimeEntrySvcFacade
}

// RegisterTimeEntryRoutes registers routes related to time entries.
func RegisterTimeEntryRoutes(rg *gin.RouterGroup, timeEntryService portssvc.TimeEntrySvcFacade) {
	h := &timeEntryHandler{timeEntryService: timeEntryService}

	entries := rg.Group("/time-entries")
	{
		entries.POST("", h.createTimeEntry)
		entries.GET("", h.listTimeEntries)
		entries.GET("/:id", h.getTimeEntry)
		entries.PUT("/:id", h.updateTimeEntry)
		entries.DELETE("/:id", h.deleteTimeEntry)
		entries.POST("/:id/submit", h.transition("submit", timeEntryService.SubmitTimeEntry))
		entries.POST("/:id/approve", h.transition("approve", timeEntryService.ApproveTimeEntry))
		entries.POST("/:id/reject", h.transition("reject", timeEntryService.RejectTimeEntry))
		entries.POST("/:id/lock", h.transition("lock", timeEntryService.LockTimeEntry))
	}
}

// createTimeEntry godoc
// @Summary Log time
// @Description Work order, deliverable and task titles are copied onto the entry.
// @Tags time-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateTimeEntryRequest true "Time entry"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /time-entries [post]
func (h *timeEntryHandler) createTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.CreateTimeEntryRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	id, err := h.timeEntryService.AddTimeEntry(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create time entry")
		return
	}
	logger.Info("Time entry created successfully", slog.String("time_entry_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// listTimeEntries godoc
// @Summary List time entries
// @Tags time-entries
// @Produce  json
// @Param   userId query string false "User ID"
// @Param   workOrderId query string false "Work order ID"
// @Param   weekKey query string false "ISO week, e.g. 2026-W11"
// @Param   status query string false "Time entry status"
// @Param   limit query int false "Limit number of results" default(200)
// @Success 200 {object} dto.ListResponse[domain.TimeEntry]
// @Security BearerAuth
// @Router /time-entries [get]
func (h *timeEntryHandler) listTimeEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTimeEntriesParams
	if !bindQuery(c, logger, &params) {
		return
	}

	entries, err := h.timeEntryService.ListTimeEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list time entries")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(entries))
}

// getTimeEntry godoc
// @Summary Get a time entry by ID
// @Tags time-entries
// @Produce  json
// @Param   id path string true "Time entry ID"
// @Success 200 {object} domain.TimeEntry
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /time-entries/{id} [get]
func (h *timeEntryHandler) getTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("time_entry_id", c.Param("id")))

	entry, err := h.timeEntryService.GetTimeEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve time entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// updateTimeEntry godoc
// @Summary Update a draft time entry
// @Tags time-entries
// @Accept  json
// @Param   id path string true "Time entry ID"
// @Param   entry body dto.UpdateTimeEntryRequest true "Fields to update"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Entry is no longer a draft"
// @Security BearerAuth
// @Router /time-entries/{id} [put]
func (h *timeEntryHandler) updateTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("time_entry_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateTimeEntryRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.timeEntryService.UpdateTimeEntry(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update time entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteTimeEntry godoc
// @Summary Delete a draft time entry
// @Tags time-entries
// @Param   id path string true "Time entry ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Entry is no longer a draft"
// @Security BearerAuth
// @Router /time-entries/{id} [delete]
func (h *timeEntryHandler) deleteTimeEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("time_entry_id", c.Param("id")))

	if err := h.timeEntryService.DeleteTimeEntry(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete time entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// transition godoc
// @Summary Submit, approve, reject or lock a time entry
// @Tags time-entries
// @Param   id path string true "Time entry ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /time-entries/{id}/submit [post]
// @Router /time-entries/{id}/approve [post]
// @Router /time-entries/{id}/reject [post]
// @Router /time-entries/{id}/lock [post]
func (h *timeEntryHandler) transition(name string, apply func(ctx context.Context, id, actorID string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("time_entry_id", c.Param("id")))
		actorID, ok := actorFromContext(c, logger)
		if !ok {
			return
		}

		if err := apply(c.Request.Context(), c.Param("id"), actorID); err != nil {
			respondError(c, logger, err, name+" time entry")
			return
		}
		logger.Info("Time entry transitioned", slog.String("transition", name))
		c.Status(http.StatusNoContent)
	}
}
