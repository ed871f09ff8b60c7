package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type workOrderHandler struct {
	workOrderService portssvc.WorkOrderSvcFacade
}

// RegisterWorkOrderRoutes registers routes related to work orders.
func RegisterWorkOrderRoutes(rg *gin.RouterGroup, workOrderService portssvc.WorkOrderSvcFacade) {
	h := &workOrderHandler{workOrderService: workOrderService}

	workOrders := rg.Group("/work-orders")
	{
		workOrders.POST("", h.createWorkOrder)
		workOrders.GET("", h.listWorkOrders)
		workOrders.GET("/:id", h.getWorkOrder)
		workOrders.PUT("/:id", h.updateWorkOrder)
		workOrders.PATCH("/:id/status", h.updateWorkOrderStatus)
		workOrders.PATCH("/:id/payment-status", h.updatePaymentStatus)
		workOrders.PATCH("/:id/archive", h.archiveWorkOrder)
		workOrders.DELETE("/:id", h.deleteWorkOrder)
	}
}

// createWorkOrder godoc
// @Summary Create a work order
// @Description The company may be omitted when a deal is given.
// @Tags work-orders
// @Accept  json
// @Produce  json
// @Param   workOrder body dto.CreateWorkOrderRequest true "Work order details"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-orders [post]
func (h *workOrderHandler) createWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.CreateWorkOrderRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	id, err := h.workOrderService.AddWorkOrder(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create work order")
		return
	}
	logger.Info("Work order created successfully", slog.String("work_order_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// listWorkOrders godoc
// @Summary List work orders
// @Tags work-orders
// @Produce  json
// @Param   companyId query string false "Company ID"
// @Param   status query string false "Work order status"
// @Param   includeArchived query bool false "Include archived work orders"
// @Param   limit query int false "Limit number of results" default(100)
// @Success 200 {object} dto.ListResponse[domain.WorkOrder]
// @Security BearerAuth
// @Router /work-orders [get]
func (h *workOrderHandler) listWorkOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListWorkOrdersParams
	if !bindQuery(c, logger, &params) {
		return
	}

	workOrders, err := h.workOrderService.ListWorkOrders(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list work orders")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(workOrders))
}

// getWorkOrder godoc
// @Summary Get a work order by ID
// @Tags work-orders
// @Produce  json
// @Param   id path string true "Work order ID"
// @Success 200 {object} domain.WorkOrder
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-orders/{id} [get]
func (h *workOrderHandler) getWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("work_order_id", c.Param("id")))

	workOrder, err := h.workOrderService.GetWorkOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve work order")
		return
	}
	c.JSON(http.StatusOK, workOrder)
}

// updateWorkOrder godoc
// @Summary Update a work order
// @Description Renaming a work order rewrites its title on deliverables, tasks, time entries and activities.
// @Tags work-orders
// @Accept  json
// @Param   id path string true "Work order ID"
// @Param   workOrder body dto.UpdateWorkOrderRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Failed or partially applied update"
// @Security BearerAuth
// @Router /work-orders/{id} [put]
func (h *workOrderHandler) updateWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("work_order_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateWorkOrderRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.workOrderService.UpdateWorkOrder(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update work order")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateWorkOrderStatus godoc
// @Summary Change a work order's delivery status
// @Tags work-orders
// @Accept  json
// @Param   id path string true "Work order ID"
// @Param   status body dto.UpdateWorkOrderStatusRequest true "New status"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /work-orders/{id}/status [patch]
func (h *workOrderHandler) updateWorkOrderStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("work_order_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateWorkOrderStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.workOrderService.UpdateWorkOrderStatus(c.Request.Context(), c.Param("id"), req.Status, actorID); err != nil {
		respondError(c, logger, err, "update work order status")
		return
	}
	c.Status(http.StatusNoContent)
}

// updatePaymentStatus godoc
// @Summary Advance a work order's payment status
// @Tags work-orders
// @Accept  json
// @Param   id path string true "Work order ID"
// @Param   status body dto.UpdatePaymentStatusRequest true "New payment status"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Payment status cannot move backwards"
// @Security BearerAuth
// @Router /work-orders/{id}/payment-status [patch]
func (h *workOrderHandler) updatePaymentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("work_order_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.workOrderService.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus, actorID); err != nil {
		respondError(c, logger, err, "update payment status")
		return
	}
	c.Status(http.StatusNoContent)
}

// archiveWorkOrder godoc
// @Summary Archive or restore a work order
// @Tags work-orders
// @Accept  json
// @Param   id path string true "Work order ID"
// @Param   archive body dto.ArchiveRequest true "Archived flag"
// @Success 204
// @Security BearerAuth
// @Router /work-orders/{id}/archive [patch]
func (h *workOrderHandler) archiveWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("work_order_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.ArchiveRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.workOrderService.ArchiveWorkOrder(c.Request.Context(), c.Param("id"), req.Archived, actorID); err != nil {
		respondError(c, logger, err, "archive work order")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteWorkOrder godoc
// @Summary Delete a work order
// @Tags work-orders
// @Param   id path string true "Work order ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /work-orders/{id} [delete]
func (h *workOrderHandler) deleteWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("work_order_id", c.Param("id")))

	if err := h.workOrderService.DeleteWorkOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete work order")
		return
	}
	c.Status(http.StatusNoContent)
}
