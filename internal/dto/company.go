package dto

import (
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a company.
type CreateCompanyRequest struct {
	Name           string               `json:"name" binding:"required"`
	Status         domain.CompanyStatus `json:"status" binding:"omitempty,oneof=prospect active inactive churned"`
	Source         string               `json:"source"`
	Website        string               `json:"website" binding:"omitempty,url"`
	Tags           []string             `json:"tags"`
	NextAction     *string              `json:"nextAction"`
	NextActionDate *time.Time           `json:"nextActionDate"`
}

// UpdateCompanyRequest defines the data allowed for updating a company.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateCompanyRequest struct {
	Name    *string  `json:"name" binding:"omitempty,min=1"`
	Source  *string  `json:"source"`
	Website *string  `json:"website" binding:"omitempty,url"`
	Tags    []string `json:"tags"` // nil leaves tags unchanged
}

// UpdateCompanyStatusRequest changes a company's lifecycle status.
type UpdateCompanyStatusRequest struct {
	Status domain.CompanyStatus `json:"status" binding:"required,oneof=prospect active inactive churned"`
}

// ListCompaniesParams defines query parameters for listing companies.
type ListCompaniesParams struct {
	Status          domain.CompanyStatus `form:"status"`
	IncludeArchived bool                 `form:"includeArchived"`
	Limit           int                  `form:"limit,default=100" binding:"min=0,max=1000"`
}
