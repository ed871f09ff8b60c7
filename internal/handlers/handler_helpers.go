package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// actorFromContext returns the authenticated user id or writes a 401.
func actorFromContext(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}

// bindJSON decodes the body into req or writes a 400.
func bindJSON(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, bindingError("Invalid request format", err))
		return false
	}
	return true
}

// bindQuery decodes query parameters into params or writes a 400.
func bindQuery(c *gin.Context, logger *slog.Logger, params any) bool {
	if err := c.ShouldBindQuery(params); err != nil {
		logger.Warn("Failed to bind query params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, bindingError("Invalid query parameters", err))
		return false
	}
	return true
}

// bindingError lists failed fields when the validator produced them.
func bindingError(prefix string, err error) dto.ErrorResponse {
	resp := dto.ErrorResponse{Error: prefix + ": " + err.Error(), Code: "validation"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Error = prefix
		resp.Details = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			resp.Details[lowerFirst(fe.Field())] = rule
		}
	}
	return resp
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// respondError maps service errors onto HTTP statuses. action completes the
// sentence "Failed to ..." for unexpected failures.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrPartialCommit):
		logger.Error("Change partially committed", slog.String("error", err.Error()), slog.Bool("partial_commit", true))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "The change was only partly applied. Retry or reconcile to finish it.",
			Code:  "partial_commit",
		})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Code: "validation"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		logger.Warn("Invalid state transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: "invalid_transition"})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error(), Code: "duplicate"})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden", Code: "forbidden"})
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500:
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(appErr.Code, dto.ErrorResponse{Error: appErr.Message})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to " + action})
	}
}
