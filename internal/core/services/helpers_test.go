package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/core/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/platform/config"
	"github.com/SscSPs/salesops_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/suite"
)

const testActor = "user-1"

// tickClock advances one second per reading so server timestamps are ordered.
type tickClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// storeSuite wires the full service container onto a fresh in-memory store.
type storeSuite struct {
	suite.Suite
	ctx   context.Context
	clock *tickClock
	store *memory.Store
	svc   *portssvc.ServiceContainer
}

func (s *storeSuite) SetupTest() {
	s.ctx = context.Background()
	s.useStore()
}

func (s *storeSuite) useStore(opts ...memory.Option) {
	s.clock = &tickClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)}
	opts = append([]memory.Option{memory.WithClock(s.clock.Now)}, opts...)
	s.store = memory.NewStore(opts...)
	s.svc = services.NewServiceContainer(&config.Config{Location: time.UTC}, portsrepo.RepositoryProvider{Store: s.store})
}

func (s *storeSuite) failCommits(err error) {
	s.store.SetCommitHook(func([]portsrepo.BatchOp) error { return err })
}

func (s *storeSuite) addCompany(name string) string {
	id, err := s.svc.Company.AddCompany(s.ctx, dto.CreateCompanyRequest{Name: name}, testActor)
	s.Require().NoError(err)
	return id
}

func (s *storeSuite) addContact(companyID, name string) string {
	req := dto.CreateContactRequest{FullName: name}
	if companyID != "" {
		req.CompanyID = &companyID
	}
	id, err := s.svc.Contact.AddContact(s.ctx, req, testActor)
	s.Require().NoError(err)
	return id
}

func (s *storeSuite) addDeal(companyID, title string, stage domain.DealStage, budget int64) string {
	id, err := s.svc.Deal.AddDeal(s.ctx, dto.CreateDealRequest{
		Title:                title,
		CompanyID:            companyID,
		Stage:                stage,
		Currency:             "eur",
		EstimatedBudgetMinor: budget,
	}, testActor)
	s.Require().NoError(err)
	return id
}

func (s *storeSuite) addWorkOrder(companyID, title string, target *time.Time) string {
	id, err := s.svc.WorkOrder.AddWorkOrder(s.ctx, dto.CreateWorkOrderRequest{
		Title:              title,
		CompanyID:          companyID,
		TargetDeliveryDate: target,
	}, testActor)
	s.Require().NoError(err)
	return id
}

func (s *storeSuite) userActivities(params dto.ListActivitiesParams) []domain.Activity {
	params.Source = domain.SourceUser
	page, err := s.svc.Activity.ListActivities(s.ctx, params)
	s.Require().NoError(err)
	return page.Items
}

func (s *storeSuite) systemEvents(params dto.ListActivitiesParams) []domain.SystemEvent {
	params.Source = domain.SourceSystem
	page, err := s.svc.Activity.ListActivities(s.ctx, params)
	s.Require().NoError(err)
	events := make([]domain.SystemEvent, 0, len(page.Items))
	for _, a := range page.Items {
		events = append(events, a.Event)
	}
	return events
}

func ptr[T any](v T) *T {
	return &v
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
