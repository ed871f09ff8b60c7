package domain

import "time"

// WorkOrderStatus is the delivery state of a work order.
type WorkOrderStatus string

const (
	WorkOrderActive    WorkOrderStatus = "active"
	WorkOrderOnHold    WorkOrderStatus = "on-hold"
	WorkOrderCompleted WorkOrderStatus = "completed"
	WorkOrderCancelled WorkOrderStatus = "cancelled"
)

var WorkOrderStatusMachine = NewStateMachine("work order status", map[WorkOrderStatus][]WorkOrderStatus{
	WorkOrderActive:    {WorkOrderOnHold, WorkOrderCompleted, WorkOrderCancelled},
	WorkOrderOnHold:    {WorkOrderActive, WorkOrderCompleted, WorkOrderCancelled},
	WorkOrderCompleted: {},
	WorkOrderCancelled: {},
})

// PaymentStatus tracks billing progress of a work order.
type PaymentStatus string

const (
	PaymentUnplanned        PaymentStatus = "unplanned"
	PaymentDepositRequested PaymentStatus = "deposit-requested"
	PaymentDepositReceived  PaymentStatus = "deposit-received"
	PaymentInvoiced         PaymentStatus = "invoiced"
	PaymentPaid             PaymentStatus = "paid"
)

// PaymentStatusMachine only moves forward; skipping steps is allowed.
var PaymentStatusMachine = NewStateMachine("payment status", map[PaymentStatus][]PaymentStatus{
	PaymentUnplanned:        {PaymentDepositRequested, PaymentDepositReceived, PaymentInvoiced, PaymentPaid},
	PaymentDepositRequested: {PaymentDepositReceived, PaymentInvoiced, PaymentPaid},
	PaymentDepositReceived:  {PaymentInvoiced, PaymentPaid},
	PaymentInvoiced:         {PaymentPaid},
	PaymentPaid:             {},
})

// WorkOrder is contracted work for a company, optionally won through a deal.
type WorkOrder struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	CompanyID          string          `json:"companyId"`
	CompanyName        string          `json:"companyName"`
	DealID             *string         `json:"dealId"`
	DealTitle          string          `json:"dealTitle"`
	ProposalID         *string         `json:"proposalId"`
	Status             WorkOrderStatus `json:"status"`
	PaymentStatus      PaymentStatus   `json:"paymentStatus"`
	TargetDeliveryDate *time.Time      `json:"targetDeliveryDate"`
	LastActivityAt     *time.Time      `json:"lastActivityAt"`
	IsArchived         bool            `json:"isArchived"`
	AuditFields
}

// DeliverableStatus is the progress of a single deliverable.
type DeliverableStatus string

const (
	DeliverableNotStarted DeliverableStatus = "not-started"
	DeliverableInProgress DeliverableStatus = "in-progress"
	DeliverableBlocked    DeliverableStatus = "blocked"
	DeliverableDelivered  DeliverableStatus = "delivered"
	DeliverableApproved   DeliverableStatus = "approved"
)

var DeliverableStatusMachine = NewStateMachine("deliverable status", map[DeliverableStatus][]DeliverableStatus{
	DeliverableNotStarted: {DeliverableInProgress, DeliverableBlocked},
	DeliverableInProgress: {DeliverableBlocked, DeliverableDelivered},
	DeliverableBlocked:    {DeliverableInProgress},
	DeliverableDelivered:  {DeliverableApproved, DeliverableInProgress},
	DeliverableApproved:   {},
})

// Deliverable belongs to exactly one work order.
type Deliverable struct {
	ID             string            `json:"id"`
	WorkOrderID    string            `json:"workOrderId"`
	WorkOrderTitle string            `json:"workOrderTitle"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         DeliverableStatus `json:"status"`
	DueDate        *time.Time        `json:"dueDate"`
	AuditFields
}

// TaskStatus is the board column of a task.
type TaskStatus string

const (
	TaskBacklog    TaskStatus = "backlog"
	TaskInProgress TaskStatus = "in-progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskDone       TaskStatus = "done"
)

var TaskStatusMachine = NewStateMachine("task status", map[TaskStatus][]TaskStatus{
	TaskBacklog:    {TaskInProgress, TaskBlocked, TaskDone},
	TaskInProgress: {TaskBacklog, TaskBlocked, TaskDone},
	TaskBlocked:    {TaskBacklog, TaskInProgress, TaskDone},
	TaskDone:       {TaskInProgress},
})

// Task belongs to one work order and optionally one deliverable.
type Task struct {
	ID               string     `json:"id"`
	WorkOrderID      string     `json:"workOrderId"`
	WorkOrderTitle   string     `json:"workOrderTitle"`
	DeliverableID    *string    `json:"deliverableId"`
	DeliverableTitle string     `json:"deliverableTitle"`
	Title            string     `json:"title"`
	Status           TaskStatus `json:"status"`
	BlockedReason    *string    `json:"blockedReason"` // only when Status is blocked
	AssigneeID       *string    `json:"assigneeId"`
	DueDate          *time.Time `json:"dueDate"`
	AuditFields
}
