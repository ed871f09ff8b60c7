package domain

import "time"

// ActivityType classifies an activity. User-chosen types plus the system marker.
type ActivityType string

const (
	ActivityCall       ActivityType = "call"
	ActivityMeeting    ActivityType = "meeting"
	ActivityEmail      ActivityType = "email"
	ActivityNote       ActivityType = "note"
	ActivityDecision   ActivityType = "decision"
	ActivityNetworking ActivityType = "networking"
	ActivitySystem     ActivityType = "system"
)

// IsUserType reports whether t may be chosen by a user.
func (t ActivityType) IsUserType() bool {
	switch t {
	case ActivityCall, ActivityMeeting, ActivityEmail, ActivityNote, ActivityDecision, ActivityNetworking:
		return true
	}
	return false
}

// ActivitySource tells whether a person or the system authored the activity.
type ActivitySource string

const (
	SourceUser   ActivitySource = "user"
	SourceSystem ActivitySource = "system"
)

// SystemEvent names the kind of a system-authored activity.
type SystemEvent string

const (
	EventDealStageChanged    SystemEvent = "deal_stage_changed"
	EventContactStageChanged SystemEvent = "contact_stage_changed"
	EventNextActionUpdated   SystemEvent = "next_action_updated"
	EventProposalCreated     SystemEvent = "proposal_created"
	EventProposalRevised     SystemEvent = "proposal_revised"
	EventProposalSent        SystemEvent = "proposal_sent"
	EventProposalAccepted    SystemEvent = "proposal_accepted"
	EventProposalRejected    SystemEvent = "proposal_rejected"
	EventWorkOrderCreated    SystemEvent = "work_order_created"
	EventWorkOrderStatus     SystemEvent = "work_order_status_changed"
	EventWorkOrderPayment    SystemEvent = "work_order_payment_changed"
)

// ActivityRefs are the parent entities an activity is recorded against.
type ActivityRefs struct {
	ContactID   *string `json:"contactId"`
	CompanyID   *string `json:"companyId"`
	DealID      *string `json:"dealId"`
	WorkOrderID *string `json:"workOrderId"`
	RequestID   *string `json:"requestId"`
}

// IsEmpty reports whether no parent is referenced.
func (r ActivityRefs) IsEmpty() bool {
	return r.ContactID == nil && r.CompanyID == nil && r.DealID == nil && r.WorkOrderID == nil && r.RequestID == nil
}

// Activity is an immutable ledger entry. Only the cached names are rewritten
// when a referenced entity is renamed.
type Activity struct {
	ID      string         `json:"id"`
	Type    ActivityType   `json:"type"`
	Source  ActivitySource `json:"source"`
	Event   SystemEvent    `json:"event"`
	Summary string         `json:"summary"`
	Details string         `json:"details"`
	ActivityRefs
	ContactName    string     `json:"contactName"`
	CompanyName    string     `json:"companyName"`
	DealTitle      string     `json:"dealTitle"`
	WorkOrderTitle string     `json:"workOrderTitle"`
	RequestTitle   string     `json:"requestTitle"`
	OccurredAt     time.Time  `json:"occurredAt"`
	NextAction     *string    `json:"nextAction"`
	NextActionDate *time.Time `json:"nextActionDate"`
	CreatedAt      time.Time  `json:"createdAt"`
	CreatedBy      string     `json:"createdBy"`
}
