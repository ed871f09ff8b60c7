package domain

import "time"

// FollowUpItem is a company or deal whose next action is overdue or due today.
type FollowUpItem struct {
	EntityKind     EntityKind `json:"entityKind"`
	EntityID       string     `json:"entityId"`
	Name           string     `json:"name"`
	CompanyName    string     `json:"companyName,omitempty"`
	NextAction     string     `json:"nextAction"`
	NextActionDate time.Time  `json:"nextActionDate"`
	IsOverdue      bool       `json:"isOverdue"`
}

// PipelineStage aggregates open value per deal stage.
type PipelineStage struct {
	Stage       DealStage `json:"stage"`
	Count       int       `json:"count"`
	BudgetMinor int64     `json:"budgetMinor"`
}

// PipelineSummary has one entry per known stage, zero-count stages included.
type PipelineSummary struct {
	Stages []PipelineStage `json:"stages"`
}

// Stage returns the bucket for s.
func (p PipelineSummary) Stage(s DealStage) (PipelineStage, bool) {
	for _, st := range p.Stages {
		if st.Stage == s {
			return st, true
		}
	}
	return PipelineStage{}, false
}

// WorkOrderRisk is a work order that needs attention.
type WorkOrderRisk struct {
	WorkOrderID         string          `json:"workOrderId"`
	Title               string          `json:"title"`
	CompanyName         string          `json:"companyName"`
	Status              WorkOrderStatus `json:"status"`
	PaymentStatus       PaymentStatus   `json:"paymentStatus"`
	TargetDeliveryDate  *time.Time      `json:"targetDeliveryDate"`
	BlockedDeliverables int             `json:"blockedDeliverables"`
	IsOverdue           bool            `json:"isOverdue"`
	IsDueSoon           bool            `json:"isDueSoon"`
}

// TimesheetGroup is the submitted time of one user for one ISO week.
type TimesheetGroup struct {
	UserID       string `json:"userId"`
	WeekKey      string `json:"weekKey"`
	TotalMinutes int    `json:"totalMinutes"`
	EntryCount   int    `json:"entryCount"`
}

// DashboardKPIs are headline counters for the dashboard.
type DashboardKPIs struct {
	ActiveCompanies     int   `json:"activeCompanies"`
	OpenDeals           int   `json:"openDeals"`
	OpenPipelineMinor   int64 `json:"openPipelineMinor"`
	ActiveWorkOrders    int   `json:"activeWorkOrders"`
	OverdueFollowUps    int   `json:"overdueFollowUps"`
	DueTodayFollowUps   int   `json:"dueTodayFollowUps"`
	SubmittedTimesheets int   `json:"submittedTimesheets"`
}
