package services

import (
	"context"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	"github.com/SscSPs/salesops_app/internal/dto"
)

// NextActionSvc is implemented by entities that carry a tracked next action.
type NextActionSvc interface {
	UpdateNextAction(ctx context.Context, id string, req dto.UpdateNextActionRequest, actorID string) error
}

type CompanySvcFacade interface {
	AddCompany(ctx context.Context, req dto.CreateCompanyRequest, actorID string) (string, error)
	UpdateCompany(ctx context.Context, id string, req dto.UpdateCompanyRequest, actorID string) error
	UpdateCompanyStatus(ctx context.Context, id string, status domain.CompanyStatus, actorID string) error
	ArchiveCompany(ctx context.Context, id string, archived bool, actorID string) error
	DeleteCompany(ctx context.Context, id string) error
	GetCompanyByID(ctx context.Context, id string) (*domain.Company, error)
	ListCompanies(ctx context.Context, params dto.ListCompaniesParams) ([]domain.Company, error)
	NextActionSvc
}

type ContactSvcFacade interface {
	AddContact(ctx context.Context, req dto.CreateContactRequest, actorID string) (string, error)
	UpdateContact(ctx context.Context, id string, req dto.UpdateContactRequest, actorID string) error
	UpdateContactStage(ctx context.Context, id string, stage domain.ContactStage, actorID string) error
	DeleteContact(ctx context.Context, id string) error
	GetContactByID(ctx context.Context, id string) (*domain.Contact, error)
	ListContacts(ctx context.Context, params dto.ListContactsParams) ([]domain.Contact, error)
	NextActionSvc
}

type DealSvcFacade interface {
	AddDeal(ctx context.Context, req dto.CreateDealRequest, actorID string) (string, error)
	UpdateDeal(ctx context.Context, id string, req dto.UpdateDealRequest, actorID string) error
	UpdateDealStage(ctx context.Context, id string, req dto.UpdateDealStageRequest, actorID string) error
	ArchiveDeal(ctx context.Context, id string, archived bool, actorID string) error
	DeleteDeal(ctx context.Context, id string) error
	GetDealByID(ctx context.Context, id string) (*domain.Deal, error)
	ListDeals(ctx context.Context, params dto.ListDealsParams) ([]domain.Deal, error)
	NextActionSvc
}

type ProposalSvcFacade interface {
	CreateProposal(ctx context.Context, req dto.CreateProposalRequest, actorID string) (string, error)
	UpdateProposal(ctx context.Context, id string, req dto.UpdateProposalRequest, actorID string) error
	UpdateProposalItems(ctx context.Context, id string, items []domain.LineItem, actorID string) error
	SetPricesIncludeTax(ctx context.Context, id string, pricesIncludeTax bool, actorID string) error
	MarkAsSent(ctx context.Context, id string, actorID string) error
	MarkAsAccepted(ctx context.Context, id string, actorID string) error
	MarkAsRejected(ctx context.Context, id string, actorID string) error
	CreateRevision(ctx context.Context, id string, actorID string) (string, error)
	ArchiveProposal(ctx context.Context, id string, archived bool, actorID string) error
	DeleteProposal(ctx context.Context, id string) error
	GetProposalByID(ctx context.Context, id string) (*domain.Proposal, error)
	ListProposals(ctx context.Context, params dto.ListProposalsParams) ([]domain.Proposal, error)
}

type WorkOrderSvcFacade interface {
	AddWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest, actorID string) (string, error)
	CreateFromProposal(ctx context.Context, proposalID string, req dto.CreateWorkOrderFromProposalRequest, actorID string) (string, error)
	UpdateWorkOrder(ctx context.Context, id string, req dto.UpdateWorkOrderRequest, actorID string) error
	UpdateWorkOrderStatus(ctx context.Context, id string, status domain.WorkOrderStatus, actorID string) error
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, actorID string) error
	ArchiveWorkOrder(ctx context.Context, id string, archived bool, actorID string) error
	DeleteWorkOrder(ctx context.Context, id string) error
	GetWorkOrderByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	ListWorkOrders(ctx context.Context, params dto.ListWorkOrdersParams) ([]domain.WorkOrder, error)
}

type DeliverableSvcFacade interface {
	AddDeliverable(ctx context.Context, req dto.CreateDeliverableRequest, actorID string) (string, error)
	BulkAddDeliverables(ctx context.Context, req dto.BulkCreateDeliverablesRequest, actorID string) ([]string, error)
	UpdateDeliverable(ctx context.Context, id string, req dto.UpdateDeliverableRequest, actorID string) error
	UpdateDeliverableStatus(ctx context.Context, id string, status domain.DeliverableStatus, actorID string) error
	DeleteDeliverable(ctx context.Context, id string) error
	GetDeliverableByID(ctx context.Context, id string) (*domain.Deliverable, error)
	ListDeliverables(ctx context.Context, params dto.ListDeliverablesParams) ([]domain.Deliverable, error)
}

type TaskSvcFacade interface {
	AddTask(ctx context.Context, req dto.CreateTaskRequest, actorID string) (string, error)
	BulkAddTasks(ctx context.Context, req dto.BulkCreateTasksRequest, actorID string) ([]string, error)
	UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest, actorID string) error
	UpdateTaskStatus(ctx context.Context, id string, req dto.UpdateTaskStatusRequest, actorID string) error
	DeleteTask(ctx context.Context, id string) error
	GetTaskByID(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, params dto.ListTasksParams) ([]domain.Task, error)
}

type TimeEntrySvcFacade interface {
	AddTimeEntry(ctx context.Context, req dto.CreateTimeEntryRequest, actorID string) (string, error)
	UpdateTimeEntry(ctx context.Context, id string, req dto.UpdateTimeEntryRequest, actorID string) error
	DeleteTimeEntry(ctx context.Context, id string) error
	SubmitTimeEntry(ctx context.Context, id string, actorID string) error
	ApproveTimeEntry(ctx context.Context, id string, actorID string) error
	RejectTimeEntry(ctx context.Context, id string, actorID string) error
	LockTimeEntry(ctx context.Context, id string, actorID string) error
	GetTimeEntryByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	ListTimeEntries(ctx context.Context, params dto.ListTimeEntriesParams) ([]domain.TimeEntry, error)
}
