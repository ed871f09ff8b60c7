package dto

import (
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
)

// RecordActivityRequest is a user-authored activity against one or more parents.
type RecordActivityRequest struct {
	Type           domain.ActivityType `json:"type" binding:"required,oneof=call meeting email note decision networking"`
	Summary        string              `json:"summary" binding:"required"`
	Details        string              `json:"details"`
	ContactID      *string             `json:"contactId"`
	CompanyID      *string             `json:"companyId"`
	DealID         *string             `json:"dealId"`
	WorkOrderID    *string             `json:"workOrderId"`
	RequestID      *string             `json:"requestId"`
	RequestTitle   string              `json:"requestTitle"`
	OccurredAt     *time.Time          `json:"occurredAt"`
	NextAction     *string             `json:"nextAction"`
	NextActionDate *time.Time          `json:"nextActionDate"`
}

// Refs returns the parent references carried by the request.
func (r RecordActivityRequest) Refs() domain.ActivityRefs {
	return domain.ActivityRefs{
		ContactID:   r.ContactID,
		CompanyID:   r.CompanyID,
		DealID:      r.DealID,
		WorkOrderID: r.WorkOrderID,
		RequestID:   r.RequestID,
	}
}

// ListActivitiesParams filters the activity ledger. Results are always
// ordered by occurredAt, newest first.
type ListActivitiesParams struct {
	ContactID   string                `form:"contactId"`
	CompanyID   string                `form:"companyId"`
	DealID      string                `form:"dealId"`
	WorkOrderID string                `form:"workOrderId"`
	Type        domain.ActivityType   `form:"type"`
	Source      domain.ActivitySource `form:"source"`
	Limit       int                   `form:"limit,default=50" binding:"min=0,max=500"`
	PageToken   string                `form:"pageToken"`
}

// ActivityPage is one page of the activity ledger.
type ActivityPage struct {
	Items         []domain.Activity `json:"items"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
}

// ListByParentParams limits a parent's activity timeline.
type ListByParentParams struct {
	Limit int `form:"limit,default=50" binding:"min=0,max=500"`
}

// ReconcileResponse reports how many dependent documents a reconcile rewrote.
type ReconcileResponse struct {
	Rewritten int `json:"rewritten"`
}
