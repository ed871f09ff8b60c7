package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Activity    ActivitySvcFacade
	Rename      RenameSvc
	Company     CompanySvcFacade
	Contact     ContactSvcFacade
	Deal        DealSvcFacade
	Proposal    ProposalSvcFacade
	WorkOrder   WorkOrderSvcFacade
	Deliverable DeliverableSvcFacade
	Task        TaskSvcFacade
	TimeEntry   TimeEntrySvcFacade
	Dashboard   DashboardSvc
}
