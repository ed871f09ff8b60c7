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

// proposalHandler serves proposals and the work orders created from them.
type proposalHandler struct {
	proposalService  portssvc.ProposalSvcFacade
	workOrderService portssvc.WorkOrderSvcFacade
}

// RegisterProposalRoutes registers routes related to proposals.
func RegisterProposalRoutes(rg *gin.RouterGroup, proposalService portssvc.ProposalSvcFacade, workOrderService portssvc.WorkOrderSvcFacade) {
	h := &proposalHandler{proposalService: proposalService, workOrderService: workOrderService}

	proposals := rg.Group("/proposals")
	{
		proposals.POST("", h.createProposal)
		proposals.GET("", h.listProposals)
		proposals.GET("/:id", h.getProposal)
		proposals.PUT("/:id", h.updateProposal)
		proposals.PUT("/:id/items", h.updateProposalItems)
		proposals.PUT("/:id/tax-mode", h.setPricesIncludeTax)
		proposals.POST("/:id/send", h.transition("send", proposalService.MarkAsSent))
		proposals.POST("/:id/accept", h.transition("accept", proposalService.MarkAsAccepted))
		proposals.POST("/:id/reject", h.transition("reject", proposalService.MarkAsRejected))
		proposals.POST("/:id/revisions", h.createRevision)
		proposals.POST("/:id/work-order", h.createWorkOrder)
		proposals.PATCH("/:id/archive", h.archiveProposal)
		proposals.DELETE("/:id", h.deleteProposal)
	}
}

// createProposal godoc
// @Summary Create a draft proposal for a deal
// @Description Totals are derived from the line items. Version is one more than the deal's highest.
// @Tags proposals
// @Accept  json
// @Produce  json
// @Param   proposal body dto.CreateProposalRequest true "Proposal details"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Deal not found"
// @Security BearerAuth
// @Router /proposals [post]
func (h *proposalHandler) createProposal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.CreateProposalRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger.Info("Received request to create proposal", slog.String("deal_id", req.DealID), slog.Int("items", len(req.Items)))
	id, err := h.proposalService.CreateProposal(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create proposal")
		return
	}
	logger.Info("Proposal created successfully", slog.String("proposal_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// listProposals godoc
// @Summary List proposals
// @Tags proposals
// @Produce  json
// @Param   dealId query string false "Deal ID"
// @Param   status query string false "Proposal status"
// @Param   includeArchived query bool false "Include archived proposals"
// @Param   limit query int false "Limit number of results" default(100)
// @Success 200 {object} dto.ListResponse[domain.Proposal]
// @Security BearerAuth
// @Router /proposals [get]
func (h *proposalHandler) listProposals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListProposalsParams
	if !bindQuery(c, logger, &params) {
		return
	}

	proposals, err := h.proposalService.ListProposals(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list proposals")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(proposals))
}

// getProposal godoc
// @Summary Get a proposal by ID
// @Tags proposals
// @Produce  json
// @Param   id path string true "Proposal ID"
// @Success 200 {object} domain.Proposal
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /proposals/{id} [get]
func (h *proposalHandler) getProposal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("proposal_id", c.Param("id")))

	proposal, err := h.proposalService.GetProposalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve proposal")
		return
	}
	c.JSON(http.StatusOK, proposal)
}

// updateProposal godoc
// @Summary Update a proposal's descriptive fields
// @Tags proposals
// @Accept  json
// @Param   id path string true "Proposal ID"
// @Param   proposal body dto.UpdateProposalRequest true "Fields to update"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /proposals/{id} [put]
func (h *proposalHandler) updateProposal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("proposal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateProposalRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.proposalService.UpdateProposal(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update proposal")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateProposalItems godoc
// @Summary Replace the line items of a draft proposal
// @Tags proposals
// @Accept  json
// @Param   id path string true "Proposal ID"
// @Param   items body dto.UpdateProposalItemsRequest true "Line items"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Proposal is no longer a draft"
// @Security BearerAuth
// @Router /proposals/{id}/items [put]
func (h *proposalHandler) updateProposalItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("proposal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateProposalItemsRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.proposalService.UpdateProposalItems(c.Request.Context(), c.Param("id"), dto.ToLineItems(req.Items), actorID); err != nil {
		respondError(c, logger, err, "update proposal items")
		return
	}
	c.Status(http.StatusNoContent)
}

// setPricesIncludeTax godoc
// @Summary Switch a draft proposal between tax-inclusive and tax-exclusive prices
// @Tags proposals
// @Accept  json
// @Param   id path string true "Proposal ID"
// @Param   taxMode body dto.SetPricesIncludeTaxRequest true "Tax mode"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Proposal is no longer a draft"
// @Security BearerAuth
// @Router /proposals/{id}/tax-mode [put]
func (h *proposalHandler) setPricesIncludeTax(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("proposal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.SetPricesIncludeTaxRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.proposalService.SetPricesIncludeTax(c.Request.Context(), c.Param("id"), req.PricesIncludeTax, actorID); err != nil {
		respondError(c, logger, err, "update proposal tax mode")
		return
	}
	c.Status(http.StatusNoContent)
}

// transition godoc
// @Summary Send, accept or reject a proposal
// @Tags proposals
// @Param   id path string true "Proposal ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /proposals/{id}/send [post]
// @Router /proposals/{id}/accept [post]
// @Router /proposals/{id}/reject [post]
func (h *proposalHandler) transition(name string, apply func(ctx context.Context, id, actorID string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("proposal_id", c.Param("id")))
		actorID, ok := actorFromContext(c, logger)
		if !ok {
			return
		}

		logger.Info("Received proposal transition", slog.String("transition", name))
		if err := apply(c.Request.Context(), c.Param("id"), actorID); err != nil {
			respondError(c, logger, err, name+" proposal")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// createRevision godoc
// @Summary Fork a proposal into a new draft version
// @Tags proposals
// @Produce  json
// @Param   id path string true "Proposal ID"
// @Success 201 {object} dto.CreatedResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /proposals/{id}/revisions [post]
func (h *proposalHandler) createRevision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("proposal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	id, err := h.proposalService.CreateRevision(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondError(c, logger, err, "create proposal revision")
		return
	}
	logger.Info("Proposal revision created", slog.String("revision_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// createWorkOrder godoc
// @Summary Create a work order from an accepted proposal
// @Description Seeds one deliverable per line item.
// @Tags proposals
// @Accept  json
// @Produce  json
// @Param   id path string true "Proposal ID"
// @Param   workOrder body dto.CreateWorkOrderFromProposalRequest false "Overrides"
// @Success 201 {object} dto.CreatedResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Proposal is not accepted"
// @Failure 500 {object} dto.ErrorResponse "Failed or partially seeded work order"
// @Security BearerAuth
// @Router /proposals/{id}/work-order [post]
func (h *proposalHandler) createWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("proposal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.CreateWorkOrderFromProposalRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, logger, &req) {
		return
	}

	id, err := h.workOrderService.CreateFromProposal(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create work order from proposal")
		return
	}
	logger.Info("Work order created from proposal", slog.String("work_order_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// archiveProposal godoc
// @Summary Archive or restore a proposal
// @Tags proposals
// @Accept  json
// @Param   id path string true "Proposal ID"
// @Param   archive body dto.ArchiveRequest true "Archived flag"
// @Success 204
// @Security BearerAuth
// @Router /proposals/{id}/archive [patch]
func (h *proposalHandler) archiveProposal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("proposal_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.ArchiveRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.proposalService.ArchiveProposal(c.Request.Context(), c.Param("id"), req.Archived, actorID); err != nil {
		respondError(c, logger, err, "archive proposal")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteProposal godoc
// @Summary Delete a proposal
// @Tags proposals
// @Param   id path string true "Proposal ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /proposals/{id} [delete]
func (h *proposalHandler) deleteProposal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("proposal_id", c.Param("id")))

	if err := h.proposalService.DeleteProposal(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete proposal")
		return
	}
	c.Status(http.StatusNoContent)
}
