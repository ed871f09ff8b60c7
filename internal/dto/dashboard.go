package dto

import "github.com/SscSPs/salesops_app/internal/core/domain"

// FollowUpParams limits the follow-up queue.
type FollowUpParams struct {
	Limit int `form:"limit,default=20" binding:"min=1,max=200"`
}

// DashboardResponse bundles every dashboard view in one payload.
type DashboardResponse struct {
	KPIs       domain.DashboardKPIs    `json:"kpis"`
	FollowUps  []domain.FollowUpItem   `json:"followUps"`
	Pipeline   domain.PipelineSummary  `json:"pipeline"`
	Risks      []domain.WorkOrderRisk  `json:"workOrderRisks"`
	Timesheets []domain.TimesheetGroup `json:"timesheets"`
}
