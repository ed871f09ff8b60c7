package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/suite"
)

type DeliveryServicesTestSuite struct {
	storeSuite
	companyID string
	dealID    string
}

func TestDeliveryServicesTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryServicesTestSuite))
}

func (suite *DeliveryServicesTestSuite) SetupTest() {
	suite.storeSuite.SetupTest()
	suite.companyID = suite.addCompany("Acme")
	suite.dealID = suite.addDeal(suite.companyID, "Relaunch", domain.DealNegotiation, 15000)
}

func (suite *DeliveryServicesTestSuite) pricedItems() []dto.LineItemRequest {
	return []dto.LineItemRequest{
		{Title: "Design", Quantity: 2, UnitPriceMinor: 5000, TaxRate: 20},
		{Title: "Hosting", Quantity: 1, UnitPriceMinor: 2500, TaxRate: 10},
	}
}

func (suite *DeliveryServicesTestSuite) createProposal() string {
	id, err := suite.svc.Proposal.CreateProposal(suite.ctx, dto.CreateProposalRequest{
		DealID: suite.dealID, Title: "Relaunch offer", Items: suite.pricedItems(),
	}, testActor)
	suite.Require().NoError(err)
	return id
}

func (suite *DeliveryServicesTestSuite) TestCreateProposal_DerivesTotalsAndCaches() {
	id := suite.createProposal()

	proposal, err := suite.svc.Proposal.GetProposalByID(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(1, proposal.Version)
	suite.Equal(domain.ProposalDraft, proposal.Status)
	suite.Equal("EUR", proposal.Currency, "currency defaults from the deal")
	suite.Equal("Relaunch", proposal.DealTitle)
	suite.Equal("Acme", proposal.CompanyName)
	suite.Equal(domain.ProposalTotals{SubtotalMinor: 12500, TaxTotalMinor: 2250, GrandTotalMinor: 14750}, proposal.ProposalTotals)
	suite.Len(proposal.Items, 2)

	suite.Contains(suite.systemEvents(dto.ListActivitiesParams{DealID: suite.dealID}), domain.EventProposalCreated)
}

func (suite *DeliveryServicesTestSuite) TestCreateProposal_RequiresDeal() {
	_, err := suite.svc.Proposal.CreateProposal(suite.ctx, dto.CreateProposalRequest{DealID: "missing", Title: "Offer"}, testActor)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.svc.Proposal.CreateProposal(suite.ctx, dto.CreateProposalRequest{
		DealID: suite.dealID, Title: "Offer", Items: []dto.LineItemRequest{{Title: "Bad", Quantity: 0}},
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DeliveryServicesTestSuite) TestSetPricesIncludeTax_Recomputes() {
	id := suite.createProposal()
	suite.Require().NoError(suite.svc.Proposal.SetPricesIncludeTax(suite.ctx, id, true, testActor))

	proposal, err := suite.svc.Proposal.GetProposalByID(suite.ctx, id)
	suite.Require().NoError(err)
	suite.True(proposal.PricesIncludeTax)
	suite.Equal(domain.ProposalTotals{SubtotalMinor: 10606, TaxTotalMinor: 1894, GrandTotalMinor: 12500}, proposal.ProposalTotals)
}

func (suite *DeliveryServicesTestSuite) TestProposal_PricingFrozenOnceSent() {
	id := suite.createProposal()
	suite.Require().NoError(suite.svc.Proposal.MarkAsSent(suite.ctx, id, testActor))

	err := suite.svc.Proposal.UpdateProposalItems(suite.ctx, id, dto.ToLineItems(suite.pricedItems()[:1]), testActor)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	err = suite.svc.Proposal.SetPricesIncludeTax(suite.ctx, id, true, testActor)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)

	suite.Require().NoError(suite.svc.Proposal.UpdateProposal(suite.ctx, id, dto.UpdateProposalRequest{Notes: ptr("Valid for 30 days")}, testActor))

	proposal, err := suite.svc.Proposal.GetProposalByID(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.ProposalSent, proposal.Status)
	suite.NotNil(proposal.SentAt)
	suite.Equal("Valid for 30 days", proposal.Notes)
	suite.Equal(int64(14750), proposal.GrandTotalMinor)
}

func (suite *DeliveryServicesTestSuite) TestProposal_StatusTransitions() {
	id := suite.createProposal()
	suite.ErrorIs(suite.svc.Proposal.MarkAsAccepted(suite.ctx, id, testActor), apperrors.ErrInvalidTransition)

	suite.Require().NoError(suite.svc.Proposal.MarkAsSent(suite.ctx, id, testActor))
	suite.Require().NoError(suite.svc.Proposal.MarkAsRejected(suite.ctx, id, testActor))
	suite.ErrorIs(suite.svc.Proposal.MarkAsSent(suite.ctx, id, testActor), apperrors.ErrInvalidTransition)

	proposal, err := suite.svc.Proposal.GetProposalByID(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal(domain.ProposalRejected, proposal.Status)
	suite.NotNil(proposal.RespondedAt)
}

func (suite *DeliveryServicesTestSuite) TestCreateRevision_ForksNextVersion() {
	first := suite.createProposal()
	suite.Require().NoError(suite.svc.Proposal.MarkAsSent(suite.ctx, first, testActor))

	second, err := suite.svc.Proposal.CreateRevision(suite.ctx, first, testActor)
	suite.Require().NoError(err)
	third, err := suite.svc.Proposal.CreateRevision(suite.ctx, first, testActor)
	suite.Require().NoError(err)

	revision, err := suite.svc.Proposal.GetProposalByID(suite.ctx, second)
	suite.Require().NoError(err)
	suite.Equal(2, revision.Version)
	suite.Equal(domain.ProposalDraft, revision.Status)
	suite.Nil(revision.SentAt)
	suite.Equal(int64(14750), revision.GrandTotalMinor)

	latest, err := suite.svc.Proposal.GetProposalByID(suite.ctx, third)
	suite.Require().NoError(err)
	suite.Equal(3, latest.Version, "versions come from the deal's maximum, not the source")

	listed, err := suite.svc.Proposal.ListProposals(suite.ctx, dto.ListProposalsParams{DealID: suite.dealID})
	suite.Require().NoError(err)
	suite.Require().Len(listed, 3)
	suite.Equal(3, listed[0].Version)

	original, err := suite.svc.Proposal.GetProposalByID(suite.ctx, first)
	suite.Require().NoError(err)
	suite.Equal(domain.ProposalSent, original.Status, "the source is left untouched")
}

func (suite *DeliveryServicesTestSuite) TestCreateRevision_DeletedVersionIsNotReissued() {
	first := suite.createProposal()
	second, err := suite.svc.Proposal.CreateRevision(suite.ctx, first, testActor)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.svc.Proposal.DeleteProposal(suite.ctx, second))

	third, err := suite.svc.Proposal.CreateRevision(suite.ctx, first, testActor)
	suite.Require().NoError(err)
	revision, err := suite.svc.Proposal.GetProposalByID(suite.ctx, third)
	suite.Require().NoError(err)
	suite.Equal(3, revision.Version)

	deal, err := suite.svc.Deal.GetDealByID(suite.ctx, suite.dealID)
	suite.Require().NoError(err)
	suite.Equal(3, deal.LastProposalVersion)

	suite.Require().NoError(suite.svc.Proposal.DeleteProposal(suite.ctx, third))
	fresh, err := suite.svc.Proposal.CreateProposal(suite.ctx, dto.CreateProposalRequest{DealID: suite.dealID, Title: "Fresh start"}, testActor)
	suite.Require().NoError(err)
	proposal, err := suite.svc.Proposal.GetProposalByID(suite.ctx, fresh)
	suite.Require().NoError(err)
	suite.Equal(4, proposal.Version)
}

func (suite *DeliveryServicesTestSuite) TestCreateFromProposal_SeedsDeliverables() {
	proposalID := suite.createProposal()
	_, err := suite.svc.WorkOrder.CreateFromProposal(suite.ctx, proposalID, dto.CreateWorkOrderFromProposalRequest{}, testActor)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)

	suite.Require().NoError(suite.svc.Proposal.MarkAsSent(suite.ctx, proposalID, testActor))
	suite.Require().NoError(suite.svc.Proposal.MarkAsAccepted(suite.ctx, proposalID, testActor))

	target := day(2026, 5, 1)
	workOrderID, err := suite.svc.WorkOrder.CreateFromProposal(suite.ctx, proposalID, dto.CreateWorkOrderFromProposalRequest{TargetDeliveryDate: &target}, testActor)
	suite.Require().NoError(err)

	workOrder, err := suite.svc.WorkOrder.GetWorkOrderByID(suite.ctx, workOrderID)
	suite.Require().NoError(err)
	suite.Equal("Relaunch offer", workOrder.Title)
	suite.Equal(suite.companyID, workOrder.CompanyID)
	suite.Equal("Acme", workOrder.CompanyName)
	suite.Equal("Relaunch", workOrder.DealTitle)
	suite.Require().NotNil(workOrder.ProposalID)
	suite.Equal(proposalID, *workOrder.ProposalID)
	suite.Equal(domain.WorkOrderActive, workOrder.Status)
	suite.Equal(domain.PaymentUnplanned, workOrder.PaymentStatus)

	deliverables, err := suite.svc.Deliverable.ListDeliverables(suite.ctx, dto.ListDeliverablesParams{WorkOrderID: workOrderID})
	suite.Require().NoError(err)
	suite.Require().Len(deliverables, 2)
	titles := []string{deliverables[0].Title, deliverables[1].Title}
	suite.ElementsMatch([]string{"Design", "Hosting"}, titles)
	for _, d := range deliverables {
		suite.Equal(domain.DeliverableNotStarted, d.Status)
		suite.Equal("Relaunch offer", d.WorkOrderTitle)
	}
}

func (suite *DeliveryServicesTestSuite) TestWorkOrderStatusAndPayment() {
	workOrderID := suite.addWorkOrder(suite.companyID, "Build", nil)

	suite.Require().NoError(suite.svc.WorkOrder.UpdateWorkOrderStatus(suite.ctx, workOrderID, domain.WorkOrderOnHold, testActor))
	suite.Require().NoError(suite.svc.WorkOrder.UpdateWorkOrderStatus(suite.ctx, workOrderID, domain.WorkOrderActive, testActor))
	suite.Require().NoError(suite.svc.WorkOrder.UpdateWorkOrderStatus(suite.ctx, workOrderID, domain.WorkOrderCompleted, testActor))
	suite.ErrorIs(suite.svc.WorkOrder.UpdateWorkOrderStatus(suite.ctx, workOrderID, domain.WorkOrderActive, testActor), apperrors.ErrInvalidTransition)

	suite.Require().NoError(suite.svc.WorkOrder.UpdatePaymentStatus(suite.ctx, workOrderID, domain.PaymentInvoiced, testActor))
	suite.ErrorIs(suite.svc.WorkOrder.UpdatePaymentStatus(suite.ctx, workOrderID, domain.PaymentDepositRequested, testActor), apperrors.ErrInvalidTransition)

	events := suite.systemEvents(dto.ListActivitiesParams{WorkOrderID: workOrderID})
	suite.Contains(events, domain.EventWorkOrderCreated)
	suite.Contains(events, domain.EventWorkOrderStatus)
	suite.Contains(events, domain.EventWorkOrderPayment)
}

func (suite *DeliveryServicesTestSuite) TestAddWorkOrder_RequiresCompany() {
	_, err := suite.svc.WorkOrder.AddWorkOrder(suite.ctx, dto.CreateWorkOrderRequest{Title: "Orphan"}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DeliveryServicesTestSuite) TestDeliverableWorkflow() {
	workOrderID := suite.addWorkOrder(suite.companyID, "Build", nil)
	id, err := suite.svc.Deliverable.AddDeliverable(suite.ctx, dto.CreateDeliverableRequest{WorkOrderID: workOrderID, Title: "Design"}, testActor)
	suite.Require().NoError(err)

	_, err = suite.svc.Deliverable.AddDeliverable(suite.ctx, dto.CreateDeliverableRequest{WorkOrderID: "missing", Title: "Design"}, testActor)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.ErrorIs(suite.svc.Deliverable.UpdateDeliverableStatus(suite.ctx, id, domain.DeliverableApproved, testActor), apperrors.ErrInvalidTransition)
	for _, status := range []domain.DeliverableStatus{domain.DeliverableInProgress, domain.DeliverableDelivered, domain.DeliverableApproved} {
		suite.Require().NoError(suite.svc.Deliverable.UpdateDeliverableStatus(suite.ctx, id, status, testActor), "to %s", status)
	}
	suite.ErrorIs(suite.svc.Deliverable.UpdateDeliverableStatus(suite.ctx, id, domain.DeliverableInProgress, testActor), apperrors.ErrInvalidTransition)
}

func (suite *DeliveryServicesTestSuite) TestBulkAddDeliverables_PartialCommitReportsLandedIDs() {
	suite.useStore(memory.WithMaxBatchOps(2))
	companyID := suite.addCompany("Acme")
	workOrderID := suite.addWorkOrder(companyID, "Build", nil)

	items := make([]dto.BulkDeliverableItem, 5)
	for i := range items {
		items[i] = dto.BulkDeliverableItem{Title: fmt.Sprintf("Item %d", i+1)}
	}
	commits := 0
	suite.store.SetCommitHook(func([]portsrepo.BatchOp) error {
		commits++
		if commits == 2 {
			return errors.New("quota exceeded")
		}
		return nil
	})

	ids, err := suite.svc.Deliverable.BulkAddDeliverables(suite.ctx, dto.BulkCreateDeliverablesRequest{WorkOrderID: workOrderID, Items: items}, testActor)
	suite.ErrorIs(err, apperrors.ErrPartialCommit)
	suite.Len(ids, 2)
	suite.store.SetCommitHook(nil)

	stored, err := suite.svc.Deliverable.ListDeliverables(suite.ctx, dto.ListDeliverablesParams{WorkOrderID: workOrderID})
	suite.Require().NoError(err)
	suite.Len(stored, 2)
	for _, id := range ids {
		_, err := suite.svc.Deliverable.GetDeliverableByID(suite.ctx, id)
		suite.NoError(err)
	}
}

func (suite *DeliveryServicesTestSuite) TestBulkAddTasks_ChunkedSuccessCopiesTitles() {
	suite.useStore(memory.WithMaxBatchOps(2))
	companyID := suite.addCompany("Acme")
	workOrderID := suite.addWorkOrder(companyID, "Build", nil)
	deliverableID, err := suite.svc.Deliverable.AddDeliverable(suite.ctx, dto.CreateDeliverableRequest{WorkOrderID: workOrderID, Title: "Design"}, testActor)
	suite.Require().NoError(err)

	items := make([]dto.BulkTaskItem, 5)
	for i := range items {
		items[i] = dto.BulkTaskItem{Title: fmt.Sprintf("Task %d", i+1), DeliverableID: &deliverableID}
	}
	ids, err := suite.svc.Task.BulkAddTasks(suite.ctx, dto.BulkCreateTasksRequest{WorkOrderID: workOrderID, Items: items}, testActor)
	suite.Require().NoError(err)
	suite.Len(ids, 5)

	stored, err := suite.svc.Task.ListTasks(suite.ctx, dto.ListTasksParams{WorkOrderID: workOrderID})
	suite.Require().NoError(err)
	suite.Require().Len(stored, 5)
	for _, task := range stored {
		suite.Equal("Build", task.WorkOrderTitle)
		suite.Equal("Design", task.DeliverableTitle)
		suite.Equal(domain.TaskBacklog, task.Status)
	}
}

func (suite *DeliveryServicesTestSuite) TestBulkAddTasks_RejectsForeignDeliverable() {
	workOrderID := suite.addWorkOrder(suite.companyID, "Build", nil)
	otherWorkOrderID := suite.addWorkOrder(suite.companyID, "Other", nil)
	foreign, err := suite.svc.Deliverable.AddDeliverable(suite.ctx, dto.CreateDeliverableRequest{WorkOrderID: otherWorkOrderID, Title: "Elsewhere"}, testActor)
	suite.Require().NoError(err)

	_, err = suite.svc.Task.BulkAddTasks(suite.ctx, dto.BulkCreateTasksRequest{
		WorkOrderID: workOrderID,
		Items:       []dto.BulkTaskItem{{Title: "Fine"}, {Title: "Mismatch", DeliverableID: &foreign}},
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	stored, err := suite.svc.Task.ListTasks(suite.ctx, dto.ListTasksParams{WorkOrderID: workOrderID})
	suite.Require().NoError(err)
	suite.Empty(stored, "nothing is written when planning fails")
}

func (suite *DeliveryServicesTestSuite) TestBulkAddTasks_PartialCommitReportsLandedIDs() {
	suite.useStore(memory.WithMaxBatchOps(2))
	companyID := suite.addCompany("Acme")
	workOrderID := suite.addWorkOrder(companyID, "Build", nil)

	items := make([]dto.BulkTaskItem, 5)
	for i := range items {
		items[i] = dto.BulkTaskItem{Title: fmt.Sprintf("Task %d", i+1)}
	}
	commits := 0
	suite.store.SetCommitHook(func([]portsrepo.BatchOp) error {
		commits++
		if commits == 2 {
			return errors.New("quota exceeded")
		}
		return nil
	})

	ids, err := suite.svc.Task.BulkAddTasks(suite.ctx, dto.BulkCreateTasksRequest{WorkOrderID: workOrderID, Items: items}, testActor)
	suite.ErrorIs(err, apperrors.ErrPartialCommit)
	suite.Len(ids, 2)
	suite.store.SetCommitHook(nil)

	stored, err := suite.svc.Task.ListTasks(suite.ctx, dto.ListTasksParams{WorkOrderID: workOrderID})
	suite.Require().NoError(err)
	suite.Len(stored, 2)
	for _, id := range ids {
		_, err := suite.svc.Task.GetTaskByID(suite.ctx, id)
		suite.NoError(err)
	}
}

func (suite *DeliveryServicesTestSuite) TestTaskRules() {
	workOrderID := suite.addWorkOrder(suite.companyID, "Build", nil)
	otherWorkOrderID := suite.addWorkOrder(suite.companyID, "Other", nil)
	foreign, err := suite.svc.Deliverable.AddDeliverable(suite.ctx, dto.CreateDeliverableRequest{WorkOrderID: otherWorkOrderID, Title: "Elsewhere"}, testActor)
	suite.Require().NoError(err)

	_, err = suite.svc.Task.AddTask(suite.ctx, dto.CreateTaskRequest{WorkOrderID: workOrderID, DeliverableID: &foreign, Title: "Mismatch"}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	taskID, err := suite.svc.Task.AddTask(suite.ctx, dto.CreateTaskRequest{WorkOrderID: workOrderID, Title: "Wireframes"}, testActor)
	suite.Require().NoError(err)
	task, err := suite.svc.Task.GetTaskByID(suite.ctx, taskID)
	suite.Require().NoError(err)
	suite.Equal(domain.TaskBacklog, task.Status)
	suite.Equal("Build", task.WorkOrderTitle)

	suite.Require().NoError(suite.svc.Task.UpdateTaskStatus(suite.ctx, taskID, dto.UpdateTaskStatusRequest{Status: domain.TaskBlocked, BlockedReason: ptr("Waiting on copy")}, testActor))
	task, err = suite.svc.Task.GetTaskByID(suite.ctx, taskID)
	suite.Require().NoError(err)
	suite.Require().NotNil(task.BlockedReason)
	suite.Equal("Waiting on copy", *task.BlockedReason)

	suite.Require().NoError(suite.svc.Task.UpdateTaskStatus(suite.ctx, taskID, dto.UpdateTaskStatusRequest{Status: domain.TaskDone, BlockedReason: ptr("stale")}, testActor))
	task, err = suite.svc.Task.GetTaskByID(suite.ctx, taskID)
	suite.Require().NoError(err)
	suite.Equal(domain.TaskDone, task.Status)
	suite.Nil(task.BlockedReason)

	suite.ErrorIs(suite.svc.Task.UpdateTaskStatus(suite.ctx, taskID, dto.UpdateTaskStatusRequest{Status: domain.TaskBlocked}, testActor), apperrors.ErrInvalidTransition)
	suite.Require().NoError(suite.svc.Task.UpdateTaskStatus(suite.ctx, taskID, dto.UpdateTaskStatusRequest{Status: domain.TaskInProgress}, testActor))
}

func (suite *DeliveryServicesTestSuite) TestTimeEntryLifecycle() {
	workOrderID := suite.addWorkOrder(suite.companyID, "Build", nil)
	entryID, err := suite.svc.TimeEntry.AddTimeEntry(suite.ctx, dto.CreateTimeEntryRequest{
		WorkOrderID: &workOrderID, Date: day(2026, 3, 9), DurationMinutes: 120, Billable: true,
	}, testActor)
	suite.Require().NoError(err)

	entry, err := suite.svc.TimeEntry.GetTimeEntryByID(suite.ctx, entryID)
	suite.Require().NoError(err)
	suite.Equal(testActor, entry.UserID, "user defaults to the actor")
	suite.Equal("2026-W11", entry.WeekKey)
	suite.Equal("Build", entry.WorkOrderTitle)
	suite.Equal(domain.TimeEntryDraft, entry.Status)

	suite.Require().NoError(suite.svc.TimeEntry.UpdateTimeEntry(suite.ctx, entryID, dto.UpdateTimeEntryRequest{DurationMinutes: ptr(90)}, testActor))
	suite.Require().NoError(suite.svc.TimeEntry.SubmitTimeEntry(suite.ctx, entryID, testActor))
	suite.ErrorIs(suite.svc.TimeEntry.UpdateTimeEntry(suite.ctx, entryID, dto.UpdateTimeEntryRequest{DurationMinutes: ptr(60)}, testActor), apperrors.ErrInvalidTransition)
	suite.ErrorIs(suite.svc.TimeEntry.DeleteTimeEntry(suite.ctx, entryID), apperrors.ErrInvalidTransition)

	suite.Require().NoError(suite.svc.TimeEntry.RejectTimeEntry(suite.ctx, entryID, "manager"))
	entry, err = suite.svc.TimeEntry.GetTimeEntryByID(suite.ctx, entryID)
	suite.Require().NoError(err)
	suite.Equal(domain.TimeEntryDraft, entry.Status)
	suite.Nil(entry.SubmittedAt)
	suite.Equal(90, entry.DurationMinutes)

	suite.ErrorIs(suite.svc.TimeEntry.LockTimeEntry(suite.ctx, entryID, "manager"), apperrors.ErrInvalidTransition)
	suite.Require().NoError(suite.svc.TimeEntry.SubmitTimeEntry(suite.ctx, entryID, testActor))
	suite.Require().NoError(suite.svc.TimeEntry.ApproveTimeEntry(suite.ctx, entryID, "manager"))
	suite.Require().NoError(suite.svc.TimeEntry.LockTimeEntry(suite.ctx, entryID, "manager"))

	entry, err = suite.svc.TimeEntry.GetTimeEntryByID(suite.ctx, entryID)
	suite.Require().NoError(err)
	suite.Equal(domain.TimeEntryLocked, entry.Status)
	suite.Require().NotNil(entry.ApprovedBy)
	suite.Equal("manager", *entry.ApprovedBy)
	suite.NotNil(entry.ApprovedAt)
	suite.ErrorIs(suite.svc.TimeEntry.ApproveTimeEntry(suite.ctx, entryID, "manager"), apperrors.ErrInvalidTransition)
}

func (suite *DeliveryServicesTestSuite) TestTimeEntry_WeekKeyIgnoresClientOffset() {
	workOrderID := suite.addWorkOrder(suite.companyID, "Build", nil)
	// Sunday evening in New York is already Monday in UTC.
	sundayNight := time.Date(2026, 3, 15, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	entryID, err := suite.svc.TimeEntry.AddTimeEntry(suite.ctx, dto.CreateTimeEntryRequest{
		WorkOrderID: &workOrderID, Date: sundayNight, DurationMinutes: 30,
	}, testActor)
	suite.Require().NoError(err)

	entry, err := suite.svc.TimeEntry.GetTimeEntryByID(suite.ctx, entryID)
	suite.Require().NoError(err)
	suite.Equal("2026-W12", entry.WeekKey)

	// Monday morning in Tokyo is still Sunday in UTC.
	mondayMorning := time.Date(2026, 3, 16, 8, 30, 0, 0, time.FixedZone("JST", 9*3600))
	suite.Require().NoError(suite.svc.TimeEntry.UpdateTimeEntry(suite.ctx, entryID, dto.UpdateTimeEntryRequest{Date: &mondayMorning}, testActor))
	entry, err = suite.svc.TimeEntry.GetTimeEntryByID(suite.ctx, entryID)
	suite.Require().NoError(err)
	suite.Equal("2026-W11", entry.WeekKey)
}

func (suite *DeliveryServicesTestSuite) TestTimeEntry_MissingReferenceKeepsEmptyTitle() {
	missing := "wo-gone"
	entryID, err := suite.svc.TimeEntry.AddTimeEntry(suite.ctx, dto.CreateTimeEntryRequest{
		WorkOrderID: &missing, Date: day(2026, 3, 9), DurationMinutes: 30,
	}, testActor)
	suite.Require().NoError(err)

	entry, err := suite.svc.TimeEntry.GetTimeEntryByID(suite.ctx, entryID)
	suite.Require().NoError(err)
	suite.Equal(missing, *entry.WorkOrderID)
	suite.Empty(entry.WorkOrderTitle)
}
