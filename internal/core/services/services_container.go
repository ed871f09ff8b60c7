package services

import (
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	store := repos.Store

	// The activity ledger comes first since every entity service emits events through it
	container.Activity = NewActivityService(store, WithLocation(cfg.Location))
	opts := []ServiceOption{
		WithActivityLedger(container.Activity),
		WithLocation(cfg.Location),
	}
	if repos.Cache != nil {
		opts = append(opts, WithViewInvalidation(repos.Cache))
	}

	container.Rename = NewRenameService(store, opts...)
	container.Company = NewCompanyService(store, container.Rename, opts...)
	container.Contact = NewContactService(store, container.Rename, opts...)
	container.Deal = NewDealService(store, container.Rename, opts...)
	container.Proposal = NewProposalService(store, opts...)
	container.WorkOrder = NewWorkOrderService(store, container.Rename, opts...)
	container.Deliverable = NewDeliverableService(store, container.Rename, opts...)
	container.Task = NewTaskService(store, container.Rename, opts...)
	container.TimeEntry = NewTimeEntryService(store, opts...)

	dashboardOpts := []DashboardOption{WithDashboardLocation(cfg.Location)}
	if repos.Cache != nil {
		dashboardOpts = append(dashboardOpts, WithDashboardCache(repos.Cache, cfg.DashboardCacheTTL))
	}
	container.Dashboard = NewDashboardService(store, dashboardOpts...)

	return container
}
