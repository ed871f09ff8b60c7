package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type dealHandler struct {
	dealService portssvc.DealSvcFacade
}

// RegisterDealRoutes registers routes related to deals.
func RegisterDealRoutes(rg *gin.RouterGroup, dealService portssvc.DealSvcFacade) {
	h := &dealHandler{dealService: dealService}

	deals := rg.Group("/deals")
	{
		deals.POST("", h.createDeal)
		deals.GET("", h.listDeals)
		deals.GET("/:id", h.getDeal)
		deals.PUT("/:id", h.updateDeal)
		deals.PATCH("/:id/stage", h.updateDealStage)
		deals.PATCH("/:id/archive", h.archiveDeal)
		deals.PUT("/:id/next-action", h.updateNextAction)
		deals.DELETE("/:id", h.deleteDeal)
	}
}

// createDeal godoc
// @Summary Create a new deal
// @Tags deals
// @Accept  json
// @Produce  json
// @Param   deal body dto.CreateDealRequest true "Deal details"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Security BearerAuth
// @Router /deals [post]
func (h *dealHandler) createDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.CreateDealRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger.Info("Received request to create deal", slog.String("company_id", req.CompanyID))
	id, err := h.dealService.AddDeal(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create deal")
		return
	}
	logger.Info("Deal created successfully", slog.String("deal_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// listDeals godoc
// @Summary List deals
// @Tags deals
// @Produce  json
// @Param   companyId query string false "Company ID"
// @Param   stage query string false "Deal stage"
// @Param   includeArchived query bool false "Include archived deals"
// @Param   limit query int false "Limit number of results" default(100)
// @Success 200 {object} dto.ListResponse[domain.Deal]
// @Security BearerAuth
// @Router /deals [get]
func (h *dealHandler) listDeals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDealsParams
	if !bindQuery(c, logger, &params) {
		return
	}

	deals, err := h.dealService.ListDeals(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list deals")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(deals))
}

// getDeal godoc
// @Summary Get a deal by ID
// @Tags deals
// @Produce  json
// @Param   id path string true "Deal ID"
// @Success 200 {object} domain.Deal
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /deals/{id} [get]
func (h *dealHandler) getDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deal_id", c.Param("id")))

	deal, err := h.dealService.GetDealByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve deal")
		return
	}
	c.JSON(http.StatusOK, deal)
}

// updateDeal godoc
// @Summary Update a deal
// @Description Renaming a deal rewrites its title on proposals, work orders and activities.
// @Tags deals
// @Accept  json
// @Param   id path string true "Deal ID"
// @Param   deal body dto.UpdateDealRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Failed or partially applied update"
// @Security BearerAuth
// @Router /deals/{id} [put]
func (h *dealHandler) updateDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateDealRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.dealService.UpdateDeal(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update deal")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateDealStage godoc
// @Summary Move a deal to another pipeline stage
// @Description Won and lost are terminal. A lost reason is kept only for lost deals.
// @Tags deals
// @Accept  json
// @Param   id path string true "Deal ID"
// @Param   stage body dto.UpdateDealStageRequest true "New stage"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /deals/{id}/stage [patch]
func (h *dealHandler) updateDealStage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateDealStageRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger.Info("Received request to change deal stage", slog.String("stage", string(req.Stage)))
	if err := h.dealService.UpdateDealStage(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update deal stage")
		return
	}
	c.Status(http.StatusNoContent)
}

// archiveDeal godoc
// @Summary Archive or restore a deal
// @Tags deals
// @Accept  json
// @Param   id path string true "Deal ID"
// @Param   archive body dto.ArchiveRequest true "Archived flag"
// @Success 204
// @Security BearerAuth
// @Router /deals/{id}/archive [patch]
func (h *dealHandler) archiveDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.ArchiveRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.dealService.ArchiveDeal(c.Request.Context(), c.Param("id"), req.Archived, actorID); err != nil {
		respondError(c, logger, err, "archive deal")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateNextAction godoc
// @Summary Set or clear a deal's next action
// @Tags deals
// @Accept  json
// @Param   id path string true "Deal ID"
// @Param   nextAction body dto.UpdateNextActionRequest true "Next action"
// @Success 204
// @Security BearerAuth
// @Router /deals/{id}/next-action [put]
func (h *dealHandler) updateNextAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateNextActionRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.dealService.UpdateNextAction(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update next action")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteDeal godoc
// @Summary Delete a deal
// @Tags deals
// @Param   id path string true "Deal ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /deals/{id} [delete]
func (h *dealHandler) deleteDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("deal_id", c.Param("id")))

	if err := h.dealService.DeleteDeal(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete deal")
		return
	}
	c.Status(http.StatusNoContent)
}
