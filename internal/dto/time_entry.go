package dto

import (
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
)

// CreateTimeEntryRequest defines the data needed to log time. UserID defaults
// to the acting user.
type CreateTimeEntryRequest struct {
	UserID          string    `json:"userId"`
	WorkOrderID     *string   `json:"workOrderId"`
	DeliverableID   *string   `json:"deliverableId"`
	TaskID          *string   `json:"taskId"`
	Date            time.Time `json:"date" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"required,min=1,max=1440"`
	Billable        bool      `json:"billable"`
	Notes           string    `json:"notes"`
}

// UpdateTimeEntryRequest defines the data allowed for updating a draft entry.
// An empty reference id clears that reference.
type UpdateTimeEntryRequest struct {
	WorkOrderID     *string    `json:"workOrderId"`
	DeliverableID   *string    `json:"deliverableId"`
	TaskID          *string    `json:"taskId"`
	Date            *time.Time `json:"date"`
	DurationMinutes *int       `json:"durationMinutes" binding:"omitempty,min=1,max=1440"`
	Billable        *bool      `json:"billable"`
	Notes           *string    `json:"notes"`
}

// ListTimeEntriesParams defines query parameters for listing time entries.
type ListTimeEntriesParams struct {
	UserID      string                 `form:"userId"`
	WorkOrderID string                 `form:"workOrderId"`
	WeekKey     string                 `form:"weekKey"`
	Status      domain.TimeEntryStatus `form:"status"`
	Limit       int                    `form:"limit,default=200" binding:"min=0,max=1000"`
}
