package handlers_test

import (
	"context"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock CompanyService ---
type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) AddCompany(ctx context.Context, req dto.CreateCompanyRequest, actorID string) (string, error) {
	args := m.Called(ctx, req, actorID)
	return args.String(0), args.Error(1)
}
func (m *MockCompanyService) UpdateCompany(ctx context.Context, id string, req dto.UpdateCompanyRequest, actorID string) error {
	args := m.Called(ctx, id, req, actorID)
	return args.Error(0)
}
func (m *MockCompanyService) UpdateCompanyStatus(ctx context.Context, id string, status domain.CompanyStatus, actorID string) error {
	args := m.Called(ctx, id, status, actorID)
	return args.Error(0)
}
func (m *MockCompanyService) ArchiveCompany(ctx context.Context, id string, archived bool, actorID string) error {
	args := m.Called(ctx, id, archived, actorID)
	return args.Error(0)
}
func (m *MockCompanyService) DeleteCompany(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCompanyService) GetCompanyByID(ctx context.Context, id string) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockCompanyService) ListCompanies(ctx context.Context, params dto.ListCompaniesParams) ([]domain.Company, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}
func (m *MockCompanyService) UpdateNextAction(ctx context.Context, id string, req dto.UpdateNextActionRequest, actorID string) error {
	args := m.Called(ctx, id, req, actorID)
	return args.Error(0)
}

var _ portssvc.CompanySvcFacade = (*MockCompanyService)(nil)

// --- Mock DeliverableService ---
type MockDeliverableService struct {
	mock.Mock
}

func (m *MockDeliverableService) AddDeliverable(ctx context.Context, req dto.CreateDeliverableRequest, actorID string) (string, error) {
	args := m.Called(ctx, req, actorID)
	return args.String(0), args.Error(1)
}
func (m *MockDeliverableService) BulkAddDeliverables(ctx context.Context, req dto.BulkCreateDeliverablesRequest, actorID string) ([]string, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockDeliverableService) UpdateDeliverable(ctx context.Context, id string, req dto.UpdateDeliverableRequest, actorID string) error {
	args := m.Called(ctx, id, req, actorID)
	return args.Error(0)
}
func (m *MockDeliverableService) UpdateDeliverableStatus(ctx context.Context, id string, status domain.DeliverableStatus, actorID string) error {
	args := m.Called(ctx, id, status, actorID)
	return args.Error(0)
}
func (m *MockDeliverableService) DeleteDeliverable(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockDeliverableService) GetDeliverableByID(ctx context.Context, id string) (*domain.Deliverable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deliverable), args.Error(1)
}
func (m *MockDeliverableService) ListDeliverables(ctx context.Context, params dto.ListDeliverablesParams) ([]domain.Deliverable, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deliverable), args.Error(1)
}

var _ portssvc.DeliverableSvcFacade = (*MockDeliverableService)(nil)

// --- Mock TimeEntryService ---
type MockTimeEntryService struct {
	mock.Mock
}

func (m *MockTimeEntryService) AddTimeEntry(ctx context.Context, req dto.CreateTimeEntryRequest, actorID string) (string, error) {
	args := m.Called(ctx, req, actorID)
	return args.String(0), args.Error(1)
}
func (m *MockTimeEntryService) UpdateTimeEntry(ctx context.Context, id string, req dto.UpdateTimeEntryRequest, actorID string) error {
	args := m.Called(ctx, id, req, actorID)
	return args.Error(0)
}
func (m *MockTimeEntryService) DeleteTimeEntry(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTimeEntryService) SubmitTimeEntry(ctx context.Context, id string, actorID string) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}
func (m *MockTimeEntryService) ApproveTimeEntry(ctx context.Context, id string, actorID string) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}
func (m *MockTimeEntryService) RejectTimeEntry(ctx context.Context, id string, actorID string) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}
func (m *MockTimeEntryService) LockTimeEntry(ctx context.Context, id string, actorID string) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}
func (m *MockTimeEntryService) GetTimeEntryByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}
func (m *MockTimeEntryService) ListTimeEntries(ctx context.Context, params dto.ListTimeEntriesParams) ([]domain.TimeEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

var _ portssvc.TimeEntrySvcFacade = (*MockTimeEntryService)(nil)

// --- Mock DashboardService ---
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) FollowUps(ctx context.Context, limit int) ([]domain.FollowUpItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FollowUpItem), args.Error(1)
}
func (m *MockDashboardService) Pipeline(ctx context.Context) (domain.PipelineSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PipelineSummary), args.Error(1)
}
func (m *MockDashboardService) WorkOrderRisks(ctx context.Context) ([]domain.WorkOrderRisk, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkOrderRisk), args.Error(1)
}
func (m *MockDashboardService) TimesheetQueue(ctx context.Context) ([]domain.TimesheetGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimesheetGroup), args.Error(1)
}
func (m *MockDashboardService) KPIs(ctx context.Context) (domain.DashboardKPIs, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DashboardKPIs), args.Error(1)
}

var _ portssvc.DashboardSvc = (*MockDashboardService)(nil)

// --- Mock TaskService ---
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) AddTask(ctx context.Context, req dto.CreateTaskRequest, actorID string) (string, error) {
	args := m.Called(ctx, req, actorID)
	return args.String(0), args.Error(1)
}
func (m *MockTaskService) BulkAddTasks(ctx context.Context, req dto.BulkCreateTasksRequest, actorID string) ([]string, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockTaskService) UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest, actorID string) error {
	args := m.Called(ctx, id, req, actorID)
	return args.Error(0)
}
func (m *MockTaskService) UpdateTaskStatus(ctx context.Context, id string, req dto.UpdateTaskStatusRequest, actorID string) error {
	args := m.Called(ctx, id, req, actorID)
	return args.Error(0)
}
func (m *MockTaskService) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTaskService) GetTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskService) ListTasks(ctx context.Context, params dto.ListTasksParams) ([]domain.Task, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

var _ portssvc.TaskSvcFacade = (*MockTaskService)(nil)
