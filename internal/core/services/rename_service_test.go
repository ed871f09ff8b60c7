package services_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/suite"
)

type RenameServiceTestSuite struct {
	storeSuite
}

func TestRenameServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RenameServiceTestSuite))
}

func (suite *RenameServiceTestSuite) TestCompanyRename_PropagatesToEveryCopy() {
	companyID := suite.addCompany("Acme")
	contactID := suite.addContact(companyID, "Jane Doe")
	dealID := suite.addDeal(companyID, "Relaunch", domain.DealLead, 0)
	workOrderID := suite.addWorkOrder(companyID, "Relaunch build", nil)
	proposalID, err := suite.svc.Proposal.CreateProposal(suite.ctx, dto.CreateProposalRequest{
		DealID: dealID, Title: "Relaunch offer",
	}, testActor)
	suite.Require().NoError(err)
	_, err = suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{
		Type: domain.ActivityNote, Summary: "Kickoff", CompanyID: &companyID,
	}, testActor)
	suite.Require().NoError(err)

	err = suite.svc.Company.UpdateCompany(suite.ctx, companyID, dto.UpdateCompanyRequest{Name: ptr("Acme Corp")}, testActor)
	suite.Require().NoError(err)

	company, err := suite.svc.Company.GetCompanyByID(suite.ctx, companyID)
	suite.Require().NoError(err)
	suite.Equal("Acme Corp", company.Name)

	contact, err := suite.svc.Contact.GetContactByID(suite.ctx, contactID)
	suite.Require().NoError(err)
	suite.Equal("Acme Corp", contact.CompanyName)

	deal, err := suite.svc.Deal.GetDealByID(suite.ctx, dealID)
	suite.Require().NoError(err)
	suite.Equal("Acme Corp", deal.CompanyName)

	workOrder, err := suite.svc.WorkOrder.GetWorkOrderByID(suite.ctx, workOrderID)
	suite.Require().NoError(err)
	suite.Equal("Acme Corp", workOrder.CompanyName)

	proposal, err := suite.svc.Proposal.GetProposalByID(suite.ctx, proposalID)
	suite.Require().NoError(err)
	suite.Equal("Acme Corp", proposal.CompanyName)

	page, err := suite.svc.Activity.ListActivities(suite.ctx, dto.ListActivitiesParams{CompanyID: companyID})
	suite.Require().NoError(err)
	suite.Require().NotEmpty(page.Items)
	for _, a := range page.Items {
		suite.Equal("Acme Corp", a.CompanyName, "activity %s", a.ID)
	}
}

func (suite *RenameServiceTestSuite) TestDealRename_ReachesProposalsAndWorkOrders() {
	companyID := suite.addCompany("Acme")
	dealID := suite.addDeal(companyID, "Relaunch", domain.DealLead, 0)
	proposalID, err := suite.svc.Proposal.CreateProposal(suite.ctx, dto.CreateProposalRequest{DealID: dealID, Title: "Offer"}, testActor)
	suite.Require().NoError(err)
	workOrderID, err := suite.svc.WorkOrder.AddWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{Title: "Build", DealID: &dealID}, testActor)
	suite.Require().NoError(err)

	err = suite.svc.Deal.UpdateDeal(suite.ctx, dealID, dto.UpdateDealRequest{Title: ptr("Relaunch 2.0")}, testActor)
	suite.Require().NoError(err)

	proposal, err := suite.svc.Proposal.GetProposalByID(suite.ctx, proposalID)
	suite.Require().NoError(err)
	suite.Equal("Relaunch 2.0", proposal.DealTitle)
	workOrder, err := suite.svc.WorkOrder.GetWorkOrderByID(suite.ctx, workOrderID)
	suite.Require().NoError(err)
	suite.Equal("Relaunch 2.0", workOrder.DealTitle)
	suite.Equal(companyID, workOrder.CompanyID, "company is inferred from the deal")
}

func (suite *RenameServiceTestSuite) TestCompanyRename_AtomicFailureLeavesOldNames() {
	companyID := suite.addCompany("Acme")
	contactID := suite.addContact(companyID, "Jane Doe")

	suite.failCommits(errors.New("store unavailable"))
	err := suite.svc.Company.UpdateCompany(suite.ctx, companyID, dto.UpdateCompanyRequest{Name: ptr("Acme Corp")}, testActor)
	suite.ErrorIs(err, apperrors.ErrBatchCommit)
	suite.NotErrorIs(err, apperrors.ErrPartialCommit)
	suite.store.SetCommitHook(nil)

	company, err := suite.svc.Company.GetCompanyByID(suite.ctx, companyID)
	suite.Require().NoError(err)
	suite.Equal("Acme", company.Name)
	contact, err := suite.svc.Contact.GetContactByID(suite.ctx, contactID)
	suite.Require().NoError(err)
	suite.Equal("Acme", contact.CompanyName)
}

func (suite *RenameServiceTestSuite) TestCompanyRename_PartialChunkedCommitThenReconcile() {
	suite.useStore(memory.WithMaxBatchOps(2))
	companyID := suite.addCompany("Acme")
	contactIDs := []string{
		suite.addContact(companyID, "Ann"),
		suite.addContact(companyID, "Bob"),
		suite.addContact(companyID, "Cid"),
	}

	commits := 0
	suite.store.SetCommitHook(func([]portsrepo.BatchOp) error {
		commits++
		if commits == 2 {
			return errors.New("deadline exceeded")
		}
		return nil
	})
	err := suite.svc.Company.UpdateCompany(suite.ctx, companyID, dto.UpdateCompanyRequest{Name: ptr("Acme Corp")}, testActor)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPartialCommit)
	var partial *apperrors.PartialCommitError
	suite.Require().ErrorAs(err, &partial)
	suite.Equal(1, partial.CommittedChunks)
	suite.Equal(2, partial.TotalChunks)
	suite.store.SetCommitHook(nil)

	company, err := suite.svc.Company.GetCompanyByID(suite.ctx, companyID)
	suite.Require().NoError(err)
	suite.Equal("Acme Corp", company.Name, "the first chunk carries the entity's own update")

	stale := 0
	for _, id := range contactIDs {
		contact, err := suite.svc.Contact.GetContactByID(suite.ctx, id)
		suite.Require().NoError(err)
		if contact.CompanyName != "Acme Corp" {
			stale++
		}
	}
	suite.Equal(2, stale)

	rewritten, err := suite.svc.Rename.Reconcile(suite.ctx, domain.KindCompany, companyID)
	suite.Require().NoError(err)
	suite.Equal(2, rewritten)

	for _, id := range contactIDs {
		contact, err := suite.svc.Contact.GetContactByID(suite.ctx, id)
		suite.Require().NoError(err)
		suite.Equal("Acme Corp", contact.CompanyName)
	}

	rewritten, err = suite.svc.Rename.Reconcile(suite.ctx, domain.KindCompany, companyID)
	suite.Require().NoError(err)
	suite.Zero(rewritten, "reconcile is idempotent")
}

func (suite *RenameServiceTestSuite) TestWorkOrderRename_ReachesDeliverablesTasksAndTime() {
	companyID := suite.addCompany("Acme")
	workOrderID := suite.addWorkOrder(companyID, "Build", nil)
	deliverableID, err := suite.svc.Deliverable.AddDeliverable(suite.ctx, dto.CreateDeliverableRequest{WorkOrderID: workOrderID, Title: "Design"}, testActor)
	suite.Require().NoError(err)
	taskID, err := suite.svc.Task.AddTask(suite.ctx, dto.CreateTaskRequest{WorkOrderID: workOrderID, DeliverableID: &deliverableID, Title: "Wireframes"}, testActor)
	suite.Require().NoError(err)
	entryID, err := suite.svc.TimeEntry.AddTimeEntry(suite.ctx, dto.CreateTimeEntryRequest{
		WorkOrderID: &workOrderID, DeliverableID: &deliverableID, TaskID: &taskID,
		Date: day(2026, 3, 9), DurationMinutes: 90,
	}, testActor)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svc.WorkOrder.UpdateWorkOrder(suite.ctx, workOrderID, dto.UpdateWorkOrderRequest{Title: ptr("Build v2")}, testActor))
	suite.Require().NoError(suite.svc.Deliverable.UpdateDeliverable(suite.ctx, deliverableID, dto.UpdateDeliverableRequest{Title: ptr("Visual design")}, testActor))
	suite.Require().NoError(suite.svc.Task.UpdateTask(suite.ctx, taskID, dto.UpdateTaskRequest{Title: ptr("Hi-fi wireframes")}, testActor))

	deliverable, err := suite.svc.Deliverable.GetDeliverableByID(suite.ctx, deliverableID)
	suite.Require().NoError(err)
	suite.Equal("Build v2", deliverable.WorkOrderTitle)

	task, err := suite.svc.Task.GetTaskByID(suite.ctx, taskID)
	suite.Require().NoError(err)
	suite.Equal("Build v2", task.WorkOrderTitle)
	suite.Equal("Visual design", task.DeliverableTitle)

	entry, err := suite.svc.TimeEntry.GetTimeEntryByID(suite.ctx, entryID)
	suite.Require().NoError(err)
	suite.Equal("Build v2", entry.WorkOrderTitle)
	suite.Equal("Visual design", entry.DeliverableTitle)
	suite.Equal("Hi-fi wireframes", entry.TaskTitle)
}

func (suite *RenameServiceTestSuite) TestReconcile_UnknownKind() {
	_, err := suite.svc.Rename.Reconcile(suite.ctx, domain.EntityKind("invoice"), "x")
	suite.ErrorIs(err, apperrors.ErrValidation)
}
