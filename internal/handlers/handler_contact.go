package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type contactHandler struct {
	contactService portssvc.ContactSvcFacade
}

// RegisterContactRoutes registers routes related to contacts.
func RegisterContactRoutes(rg *gin.RouterGroup, contactService portssvc.ContactSvcFacade) {
	h := &contactHandler{contactService: contactService}

	contacts := rg.Group("/contacts")
	{
		contacts.POST("", h.createContact)
		contacts.GET("", h.listContacts)
		contacts.GET("/:id", h.getContact)
		contacts.PUT("/:id", h.updateContact)
		contacts.PATCH("/:id/stage", h.updateContactStage)
		contacts.PUT("/:id/next-action", h.updateNextAction)
		contacts.DELETE("/:id", h.deleteContact)
	}
}

// createContact godoc
// @Summary Create a new contact
// @Description Marking a contact as primary clears the flag on the company's other contacts.
// @Tags contacts
// @Accept  json
// @Produce  json
// @Param   contact body dto.CreateContactRequest true "Contact details"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Security BearerAuth
// @Router /contacts [post]
func (h *contactHandler) createContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.CreateContactRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	id, err := h.contactService.AddContact(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "create contact")
		return
	}
	logger.Info("Contact created successfully", slog.String("contact_id", id))
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

// listContacts godoc
// @Summary List contacts
// @Tags contacts
// @Produce  json
// @Param   companyId query string false "Company ID"
// @Param   stage query string false "Contact stage"
// @Param   limit query int false "Limit number of results" default(100)
// @Success 200 {object} dto.ListResponse[domain.Contact]
// @Security BearerAuth
// @Router /contacts [get]
func (h *contactHandler) listContacts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListContactsParams
	if !bindQuery(c, logger, &params) {
		return
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list contacts")
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(contacts))
}

// getContact godoc
// @Summary Get a contact by ID
// @Tags contacts
// @Produce  json
// @Param   id path string true "Contact ID"
// @Success 200 {object} domain.Contact
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contacts/{id} [get]
func (h *contactHandler) getContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("contact_id", c.Param("id")))

	contact, err := h.contactService.GetContactByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

// updateContact godoc
// @Summary Update a contact
// @Tags contacts
// @Accept  json
// @Param   id path string true "Contact ID"
// @Param   contact body dto.UpdateContactRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contacts/{id} [put]
func (h *contactHandler) updateContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("contact_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateContactRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.contactService.UpdateContact(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update contact")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateContactStage godoc
// @Summary Move a contact to another stage
// @Tags contacts
// @Accept  json
// @Param   id path string true "Contact ID"
// @Param   stage body dto.UpdateContactStageRequest true "New stage"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contacts/{id}/stage [patch]
func (h *contactHandler) updateContactStage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("contact_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateContactStageRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.contactService.UpdateContactStage(c.Request.Context(), c.Param("id"), req.Stage, actorID); err != nil {
		respondError(c, logger, err, "update contact stage")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateNextAction godoc
// @Summary Set or clear a contact's next action
// @Tags contacts
// @Accept  json
// @Param   id path string true "Contact ID"
// @Param   nextAction body dto.UpdateNextActionRequest true "Next action"
// @Success 204
// @Security BearerAuth
// @Router /contacts/{id}/next-action [put]
func (h *contactHandler) updateNextAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("contact_id", c.Param("id")))
	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateNextActionRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.contactService.UpdateNextAction(c.Request.Context(), c.Param("id"), req, actorID); err != nil {
		respondError(c, logger, err, "update next action")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteContact godoc
// @Summary Delete a contact
// @Tags contacts
// @Param   id path string true "Contact ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /contacts/{id} [delete]
func (h *contactHandler) deleteContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("contact_id", c.Param("id")))

	if err := h.contactService.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "delete contact")
		return
	}
	c.Status(http.StatusNoContent)
}
