package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardSvc
}

// RegisterDashboardRoutes registers the read-only dashboard views.
func RegisterDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvc) {
	h := &dashboardHandler{dashboardService: dashboardService}

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("", h.getDashboard)
		dashboard.GET("/follow-ups", h.getFollowUps)
		dashboard.GET("/pipeline", h.getPipeline)
		dashboard.GET("/work-order-risks", h.getWorkOrderRisks)
		dashboard.GET("/timesheets", h.getTimesheetQueue)
		dashboard.GET("/kpis", h.getKPIs)
	}
}

// getDashboard godoc
// @Summary Get every dashboard view at once
// @Tags dashboard
// @Produce  json
// @Param   limit query int false "Follow-up queue size" default(20)
// @Success 200 {object} dto.DashboardResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.FollowUpParams
	if !bindQuery(c, logger, &params) {
		return
	}

	var resp dto.DashboardResponse
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		resp.KPIs, err = h.dashboardService.KPIs(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.FollowUps, err = h.dashboardService.FollowUps(ctx, params.Limit)
		return err
	})
	g.Go(func() (err error) {
		resp.Pipeline, err = h.dashboardService.Pipeline(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Risks, err = h.dashboardService.WorkOrderRisks(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Timesheets, err = h.dashboardService.TimesheetQueue(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, logger, err, "load dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getFollowUps godoc
// @Summary Overdue and due-today next actions, overdue first
// @Tags dashboard
// @Produce  json
// @Param   limit query int false "Queue size" default(20)
// @Success 200 {object} dto.ListResponse[domain.FollowUpItem]
// @Security BearerAuth
// @Router /dashboard/follow-ups [get]
func (h *dashboardHandler) getFollowUps(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.FollowUpParams
	if !bindQuery(c, logger, &params) {
		return
	}

	items, err := h.dashboardService.FollowUps(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, logger, err, "load follow-ups")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(items))
}

// getPipeline godoc
// @Summary Deal count and value per stage
// @Tags dashboard
// @Produce  json
// @Success 200 {object} domain.PipelineSummary
// @Security BearerAuth
// @Router /dashboard/pipeline [get]
func (h *dashboardHandler) getPipeline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.dashboardService.Pipeline(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "load pipeline")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getWorkOrderRisks godoc
// @Summary Work orders that are overdue, due soon, blocked or waiting on a deposit
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.ListResponse[domain.WorkOrderRisk]
// @Security BearerAuth
// @Router /dashboard/work-order-risks [get]
func (h *dashboardHandler) getWorkOrderRisks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	risks, err := h.dashboardService.WorkOrderRisks(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "load work order risks")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(risks))
}

// getTimesheetQueue godoc
// @Summary Submitted time entries grouped by user and week
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.ListResponse[domain.TimesheetGroup]
// @Security BearerAuth
// @Router /dashboard/timesheets [get]
func (h *dashboardHandler) getTimesheetQueue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	groups, err := h.dashboardService.TimesheetQueue(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "load timesheet queue")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(groups))
}

// getKPIs godoc
// @Summary Headline counters
// @Tags dashboard
// @Produce  json
// @Success 200 {object} domain.DashboardKPIs
// @Security BearerAuth
// @Router /dashboard/kpis [get]
func (h *dashboardHandler) getKPIs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kpis, err := h.dashboardService.KPIs(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "load KPIs")
		return
	}
	c.JSON(http.StatusOK, kpis)
}
