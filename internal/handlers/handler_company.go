package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler handles HTTP requests related to companies.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

// newCompanyHandler creates a new companyHandler.
func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// RegisterCompanyRoutes registers routes related to companies.
func RegisterCompanyRoutes(rg *gin.RouterGroup, companyService portssvc.CompanySvcFacade) {
	h := newCompanyHandler(companyService)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("", h.listCompanies)
		companies.GET("/:id", h.getCompany)
		companies.PUT("/:id", h.updateCompany)
		companies.PATCH("/:id/status", h.updateCompanyStatus)
		companies.PATCH("/:id/archive", h.archiveCompany)
		companies.PUT("/:id/next-action", h.updateNextAction)
		companies.DELETE("/:id", h.deleteCompany)
	}
}

// createCompany godoc
// @Summary Create a new company
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.CreateCompanyRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger.Info("Received request to create company", slog.String("company_name", req.Name))
	id, err := h.companyService.AddCompany(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create company")
		return
	}

	logger.Info("Company created successfully", slog.String("company_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// listCompanies godoc
// @Summary List companies
// @Tags companies
// @Produce  json
// @Param   status query string false "Company status"
// @Param   includeArchived query bool false "Include archived companies"
// @Param   limit query int false "Limit number of results" default(100)
// @Success 200 {object} dto.ListResponse[domain.Company]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCompaniesParams
	if !bindQuery(c, logger, &params) {
		return
	}

	companies, err := h.companyService.ListCompanies(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list companies")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(companies))
}

// getCompany godoc
// @Summary Get a company by ID
// @Tags companies
// @Produce  json
// @Param   id path string true "Company ID"
// @Success 200 {object} domain.Company
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /companies/{id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("id")))

	company, err := h.companyService.GetCompanyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve company")
		return
	}
	c.JSON(http.StatusOK, company)
}

// updateCompany godoc
// @Summary Update a company
// @Description Renaming a company rewrites its name on every dependent record.
// @Tags companies
// @Accept  json
// @Param   id path string true "Company ID"
// @Param   company body dto.UpdateCompanyRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Failed or partially applied update"
// @Security BearerAuth
// @Router /companies/{id} [put]
func (h *companyHandler) updateCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateCompanyRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.companyService.UpdateCompany(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update company")
		return
	}
	logger.Info("Company updated successfully")
	c.Status(http.StatusNoContent)
}

// updateCompanyStatus godoc
// @Summary Change a company's status
// @Tags companies
// @Accept  json
// @Param   id path string true "Company ID"
// @Param   status body dto.UpdateCompanyStatusRequest true "New status"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /companies/{id}/status [patch]
func (h *companyHandler) updateCompanyStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateCompanyStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.companyService.UpdateCompanyStatus(c.Request.Context(), c.Param("id"), req.Status, actorID); err != nil {
		respondError(c, logger, err, "update company status")
		return
	}
	c.Status(http.StatusNoContent)
}

// archiveCompany godoc
// @Summary Archive or restore a company
// @Tags companies
// @Accept  json
// @Param   id path string true "Company ID"
// @Param   archive body dto.ArchiveRequest true "Archived flag"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /companies/{id}/archive [patch]
func (h *companyHandler) archiveCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.ArchiveRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.companyService.ArchiveCompany(c.Request.Context(), c.Param("id"), req.Archived, actorID); err != nil {
		respondError(c, logger, err, "archive company")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateNextAction godoc
// @Summary Set or clear a company's next action
// @Tags companies
// @Accept  json
// @Param   id path string true "Company ID"
// @Param   nextAction body dto.UpdateNextActionRequest true "Next action"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /companies/{id}/next-action [put]
func (h *companyHandler) updateNextAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateNextActionRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.companyService.UpdateNextAction(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update next action")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteCompany godoc
// @Summary Delete a company
// @Description Dependent records keep their reference and cached name.
// @Tags companies
// @Param   id path string true "Company ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /companies/{id} [delete]
func (h *companyHandler) deleteCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("id")))

	if err := h.companyService.DeleteCompany(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete company")
		return
	}
	logger.Info("Company deleted")
	c.Status(http.StatusNoContent)
}
