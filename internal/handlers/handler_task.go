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

type taskHandler struct {
	taskService portssvc.TaskSvcFacade
}

// RegisterTaskRoutes registers routes related to tasks.
func RegisterTaskRoutes(rg *gin.RouterGroup, taskService portssvc.TaskSvcFacade) {
	h := &taskHandler{taskService: taskService}

	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.createTask)
		tasks.POST("/bulk", h.bulkCreateTasks)
		tasks.GET("", h.listTasks)
		tasks.GET("/:id", h.getTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.PATCH("/:id/status", h.updateTaskStatus)
		tasks.DELETE("/:id", h.deleteTask)
	}
}

// createTask godoc
// @Summary Create a task
// @Description A deliverable, when given, must belong to the same work order.
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	id, err := h.taskService.AddTask(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create task")
		return
	}
	logger.Info("Task created successfully", slog.String("task_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// bulkCreateTasks godoc
// @Summary Create many tasks on one work order
// @Description Large requests are written in several batches. If a later batch fails the
// @Description response is a 500 with code partial_commit and the ids that were written.
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   tasks body dto.BulkCreateTasksRequest true "Tasks"
// @Success 201 {object} dto.CreatedManyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/bulk [post]
func (h *taskHandler) bulkCreateTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.BulkCreateTasksRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger = logger.With(slog.String("work_order_id", req.WorkOrderID))
	ids, err := h.taskService.BulkAddTasks(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPartialCommit) {
			logger.Error("Bulk tasks partially committed",
				slog.Int("committed", len(ids)), slog.Int("requested", len(req.Items)),
				slog.Bool("partial_commit", true), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error: "Only some tasks were created.",
				Code:  "partial_commit",
				IDs:   ids,
			})
			return
		}
		respondError(c, logger, err, "create tasks")
		return
	}
	logger.Info("Tasks created successfully", slog.Int("count", len(ids)))
	c.JSON(http.StatusCreated, dto.CreatedManyResponse{IDs: ids})
}

// listTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce  json
// @Param   workOrderId query string false "Work order ID"
// @Param   deliverableId query string false "Deliverable ID"
// @Param   assigneeId query string false "Assignee ID"
// @Param   status query string false "Task status"
// @Param   limit query int false "Limit number of results" default(200)
// @Success 200 {object} dto.ListResponse[domain.Task]
// @Security BearerAuth
// @Router /tasks [get]
func (h *taskHandler) listTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTasksParams
	if !bindQuery(c, logger, &params) {
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list tasks")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(tasks))
}

// getTask godoc
// @Summary Get a task by ID
// @Tags tasks
// @Produce  json
// @Param   id path string true "Task ID"
// @Success 200 {object} domain.Task
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("task_id", c.Param("id")))

	task, err := h.taskService.GetTaskByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// updateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept  json
// @Param   id path string true "Task ID"
// @Param   task body dto.UpdateTaskRequest true "Fields to update"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *taskHandler) updateTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("task_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update task")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateTaskStatus godoc
// @Summary Move a task to another status
// @Tags tasks
// @Accept  json
// @Param   id path string true "Task ID"
// @Param   status body dto.UpdateTaskStatusRequest true "New status"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /tasks/{id}/status [patch]
func (h *taskHandler) updateTaskStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("task_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateTaskStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.taskService.UpdateTaskStatus(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update task status")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Param   id path string true "Task ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *taskHandler) deleteTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("task_id", c.Param("id")))

	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete task")
		return
	}
	c.Status(http.StatusNoContent)
}
