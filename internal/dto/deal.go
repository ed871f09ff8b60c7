package dto

import (
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
)

// CreateDealRequest defines the data needed to create a deal.
type CreateDealRequest struct {
	Title                string           `json:"title" binding:"required"`
	CompanyID            string           `json:"companyId" binding:"required"`
	PrimaryContactID     *string          `json:"primaryContactId"`
	Stage                domain.DealStage `json:"stage"`
	LostReason           *string          `json:"lostReason"`
	Currency             string           `json:"currency" binding:"omitempty,len=3"`
	EstimatedBudgetMinor int64            `json:"estimatedBudgetMinor" binding:"min=0"`
	ExpectedCloseDate    *time.Time       `json:"expectedCloseDate"`
	NextAction           *string          `json:"nextAction"`
	NextActionDate       *time.Time       `json:"nextActionDate"`
}

// UpdateDealRequest defines the data allowed for updating a deal.
// An empty PrimaryContactID removes the primary contact.
type UpdateDealRequest struct {
	Title                *string    `json:"title" binding:"omitempty,min=1"`
	CompanyID            *string    `json:"companyId" binding:"omitempty,min=1"`
	PrimaryContactID     *string    `json:"primaryContactId"`
	Currency             *string    `json:"currency" binding:"omitempty,len=3"`
	EstimatedBudgetMinor *int64     `json:"estimatedBudgetMinor" binding:"omitempty,min=0"`
	ExpectedCloseDate    *time.Time `json:"expectedCloseDate"`
}

// UpdateDealStageRequest moves a deal along the pipeline.
type UpdateDealStageRequest struct {
	Stage      domain.DealStage `json:"stage" binding:"required"`
	LostReason *string          `json:"lostReason"`
}

// ListDealsParams defines query parameters for listing deals.
type ListDealsParams struct {
	CompanyID       string           `form:"companyId"`
	Stage           domain.DealStage `form:"stage"`
	IncludeArchived bool             `form:"includeArchived"`
	Limit           int              `form:"limit,default=100" binding:"min=0,max=1000"`
}
