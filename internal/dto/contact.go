package dto

import (
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
)

// CreateContactRequest defines the data needed to create a contact.
type CreateContactRequest struct {
	FullName       string              `json:"fullName" binding:"required"`
	Email          string              `json:"email" binding:"omitempty,email"`
	Phone          string              `json:"phone"`
	Role           string              `json:"role"`
	CompanyID      *string             `json:"companyId"`
	Stage          domain.ContactStage `json:"stage" binding:"omitempty,oneof=new networking warm prospect client inactive"`
	IsPrimary      bool                `json:"isPrimary"`
	NextAction     *string             `json:"nextAction"`
	NextActionDate *time.Time          `json:"nextActionDate"`
}

// UpdateContactRequest defines the data allowed for updating a contact.
// An empty CompanyID detaches the contact from its company.
type UpdateContactRequest struct {
	FullName  *string `json:"fullName" binding:"omitempty,min=1"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	CompanyID *string `json:"companyId"`
	IsPrimary *bool   `json:"isPrimary"`
}

// UpdateContactStageRequest moves a contact to another relationship stage.
type UpdateContactStageRequest struct {
	Stage domain.ContactStage `json:"stage" binding:"required,oneof=new networking warm prospect client inactive"`
}

// ListContactsParams defines query parameters for listing contacts.
type ListContactsParams struct {
	CompanyID string              `form:"companyId"`
	Stage     domain.ContactStage `form:"stage"`
	Limit     int                 `form:"limit,default=100" binding:"min=0,max=1000"`
}
