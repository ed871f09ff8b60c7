package dto

import (
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
)

// CreateWorkOrderRequest defines the data needed to create a work order.
// CompanyID may be omitted when DealID is given; the deal's company is used.
type CreateWorkOrderRequest struct {
	Title              string     `json:"title" binding:"required"`
	CompanyID          string     `json:"companyId"`
	DealID             *string    `json:"dealId"`
	TargetDeliveryDate *time.Time `json:"targetDeliveryDate"`
}

// CreateWorkOrderFromProposalRequest overrides defaults taken from the proposal.
type CreateWorkOrderFromProposalRequest struct {
	Title              string     `json:"title"`
	TargetDeliveryDate *time.Time `json:"targetDeliveryDate"`
}

// UpdateWorkOrderRequest defines the data allowed for updating a work order.
type UpdateWorkOrderRequest struct {
	Title              *string    `json:"title" binding:"omitempty,min=1"`
	DealID             *string    `json:"dealId"`
	TargetDeliveryDate *time.Time `json:"targetDeliveryDate"`
}

// UpdateWorkOrderStatusRequest changes a work order's delivery status.
type UpdateWorkOrderStatusRequest struct {
	Status domain.WorkOrderStatus `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest advances a work order's payment status.
type UpdatePaymentStatusRequest struct {
	PaymentStatus domain.PaymentStatus `json:"paymentStatus" binding:"required"`
}

// ListWorkOrdersParams defines query parameters for listing work orders.
type ListWorkOrdersParams struct {
	CompanyID       string                 `form:"companyId"`
	Status          domain.WorkOrderStatus `form:"status"`
	IncludeArchived bool                   `form:"includeArchived"`
	Limit           int                    `form:"limit,default=100" binding:"min=0,max=1000"`
}

// CreateDeliverableRequest defines the data needed to create a deliverable.
type CreateDeliverableRequest struct {
	WorkOrderID string     `json:"workOrderId" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

// BulkDeliverableItem is one deliverable in a bulk add.
type BulkDeliverableItem struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

// BulkCreateDeliverablesRequest seeds many deliverables on one work order.
type BulkCreateDeliverablesRequest struct {
	WorkOrderID string                `json:"workOrderId" binding:"required"`
	Items       []BulkDeliverableItem `json:"items" binding:"required,min=1,dive"`
}

// UpdateDeliverableRequest defines the data allowed for updating a deliverable.
type UpdateDeliverableRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateDeliverableStatusRequest moves a deliverable through its workflow.
type UpdateDeliverableStatusRequest struct {
	Status domain.DeliverableStatus `json:"status" binding:"required"`
}

// ListDeliverablesParams defines query parameters for listing deliverables.
type ListDeliverablesParams struct {
	WorkOrderID string                   `form:"workOrderId"`
	Status      domain.DeliverableStatus `form:"status"`
	Limit       int                      `form:"limit,default=200" binding:"min=0,max=1000"`
}

// CreateTaskRequest defines the data needed to create a task.
type CreateTaskRequest struct {
	WorkOrderID   string            `json:"workOrderId" binding:"required"`
	DeliverableID *string           `json:"deliverableId"`
	Title         string            `json:"title" binding:"required"`
	Status        domain.TaskStatus `json:"status"`
	BlockedReason *string           `json:"blockedReason"`
	AssigneeID    *string           `json:"assigneeId"`
	DueDate       *time.Time        `json:"dueDate"`
}

// BulkTaskItem is one task in a bulk add.
type BulkTaskItem struct {
	DeliverableID *string           `json:"deliverableId"`
	Title         string            `json:"title" binding:"required"`
	Status        domain.TaskStatus `json:"status"`
	BlockedReason *string           `json:"blockedReason"`
	AssigneeID    *string           `json:"assigneeId"`
	DueDate       *time.Time        `json:"dueDate"`
}

// AsBulkItem drops the work order from a single create request.
func (r CreateTaskRequest) AsBulkItem() BulkTaskItem {
	return BulkTaskItem{
		DeliverableID: r.DeliverableID,
		Title:         r.Title,
		Status:        r.Status,
		BlockedReason: r.BlockedReason,
		AssigneeID:    r.AssigneeID,
		DueDate:       r.DueDate,
	}
}

// BulkCreateTasksRequest seeds many tasks on one work order.
type BulkCreateTasksRequest struct {
	WorkOrderID string         `json:"workOrderId" binding:"required"`
	Items       []BulkTaskItem `json:"items" binding:"required,min=1,dive"`
}

// UpdateTaskRequest defines the data allowed for updating a task.
// An empty DeliverableID or AssigneeID clears the reference.
type UpdateTaskRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=1"`
	DeliverableID *string    `json:"deliverableId"`
	AssigneeID    *string    `json:"assigneeId"`
	DueDate       *time.Time `json:"dueDate"`
}

// UpdateTaskStatusRequest moves a task; BlockedReason is kept only for blocked.
type UpdateTaskStatusRequest struct {
	Status        domain.TaskStatus `json:"status" binding:"required"`
	BlockedReason *string           `json:"blockedReason"`
}

// ListTasksParams defines query parameters for listing tasks.
type ListTasksParams struct {
	WorkOrderID   string            `form:"workOrderId"`
	DeliverableID string            `form:"deliverableId"`
	AssigneeID    string            `form:"assigneeId"`
	Status        domain.TaskStatus `form:"status"`
	Limit         int               `form:"limit,default=200" binding:"min=0,max=1000"`
}
