package domain

import (
	"fmt"
	"time"
)

// TimeEntryStatus is the approval state of a time entry.
type TimeEntryStatus string

const (
	TimeEntryDraft     TimeEntryStatus = "draft"
	TimeEntrySubmitted TimeEntryStatus = "submitted"
	TimeEntryApproved  TimeEntryStatus = "approved"
	TimeEntryLocked    TimeEntryStatus = "locked"
)

// TimeEntryStatusMachine: submitted entries can be sent back to draft.
var TimeEntryStatusMachine = NewStateMachine("time entry status", map[TimeEntryStatus][]TimeEntryStatus{
	TimeEntryDraft:     {TimeEntrySubmitted},
	TimeEntrySubmitted: {TimeEntryApproved, TimeEntryDraft},
	TimeEntryApproved:  {TimeEntryLocked},
	TimeEntryLocked:    {},
})

// TimeEntry is time a user logged, optionally against work order/deliverable/task.
type TimeEntry struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	WorkOrderID      *string         `json:"workOrderId"`
	WorkOrderTitle   string          `json:"workOrderTitle"`
	DeliverableID    *string         `json:"deliverableId"`
	DeliverableTitle string          `json:"deliverableTitle"`
	TaskID           *string         `json:"taskId"`
	TaskTitle        string          `json:"taskTitle"`
	Date             time.Time       `json:"date"`
	DurationMinutes  int             `json:"durationMinutes"`
	Billable         bool            `json:"billable"`
	Notes            string          `json:"notes"`
	WeekKey          string          `json:"weekKey"`
	Status           TimeEntryStatus `json:"status"`
	SubmittedAt      *time.Time      `json:"submittedAt"`
	ApprovedAt       *time.Time      `json:"approvedAt"`
	ApprovedBy       *string         `json:"approvedBy"`
	AuditFields
}

// WeekKey returns the ISO-8601 week bucket of t, e.g. "2026-W07".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
