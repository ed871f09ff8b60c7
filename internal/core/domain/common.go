package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // UserID Reference
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"` // UserID Reference
}

// Collection names used in the document store.
const (
	CollectionCompanies    = "companies"
	CollectionContacts     = "contacts"
	CollectionDeals        = "deals"
	CollectionProposals    = "proposals"
	CollectionWorkOrders   = "workOrders"
	CollectionDeliverables = "deliverables"
	CollectionTasks        = "tasks"
	CollectionTimeEntries  = "timeEntries"
	CollectionActivities   = "activities"
)

// EntityKind identifies an entity type whose display name may be cached elsewhere.
type EntityKind string

const (
	KindCompany     EntityKind = "company"
	KindContact     EntityKind = "contact"
	KindDeal        EntityKind = "deal"
	KindWorkOrder   EntityKind = "workOrder"
	KindDeliverable EntityKind = "deliverable"
	KindTask        EntityKind = "task"
)
