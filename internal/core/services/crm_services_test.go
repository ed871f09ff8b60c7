package services_test

import (
	"testing"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	"github.com/SscSPs/salesops_app/internal/core/domain"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/stretchr/testify/suite"
)

type CRMServicesTestSuite struct {
	storeSuite
}

func TestCRMServicesTestSuite(t *testing.T) {
	suite.Run(t, new(CRMServicesTestSuite))
}

func (suite *CRMServicesTestSuite) TestAddCompany_DefaultsAndValidation() {
	id := suite.addCompany("  Acme  ")
	company, err := suite.svc.Company.GetCompanyByID(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Equal("Acme", company.Name)
	suite.Equal(domain.CompanyProspect, company.Status)
	suite.Equal(testActor, company.CreatedBy)
	suite.False(company.CreatedAt.IsZero())

	_, err = suite.svc.Company.AddCompany(suite.ctx, dto.CreateCompanyRequest{Name: " "}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Company.AddCompany(suite.ctx, dto.CreateCompanyRequest{Name: "X", NextAction: ptr("Call")}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CRMServicesTestSuite) TestGetCompany_NotFound() {
	_, err := suite.svc.Company.GetCompanyByID(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CRMServicesTestSuite) TestListCompanies_HidesArchived() {
	acme := suite.addCompany("Acme")
	suite.addCompany("Beta")
	suite.Require().NoError(suite.svc.Company.ArchiveCompany(suite.ctx, acme, true, testActor))

	visible, err := suite.svc.Company.ListCompanies(suite.ctx, dto.ListCompaniesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(visible, 1)
	suite.Equal("Beta", visible[0].Name)

	all, err := suite.svc.Company.ListCompanies(suite.ctx, dto.ListCompaniesParams{IncludeArchived: true})
	suite.Require().NoError(err)
	suite.Len(all, 2)
}

func (suite *CRMServicesTestSuite) TestUpdateNextAction_TracksChanges() {
	companyID := suite.addCompany("Acme")
	due := day(2026, 3, 14)

	err := suite.svc.Company.UpdateNextAction(suite.ctx, companyID, dto.UpdateNextActionRequest{NextAction: ptr("Send proposal"), NextActionDate: &due}, testActor)
	suite.Require().NoError(err)
	suite.Equal([]domain.SystemEvent{domain.EventNextActionUpdated}, suite.systemEvents(dto.ListActivitiesParams{CompanyID: companyID}))

	// Whitespace-only differences are not a change.
	err = suite.svc.Company.UpdateNextAction(suite.ctx, companyID, dto.UpdateNextActionRequest{NextAction: ptr(" Send proposal "), NextActionDate: &due}, testActor)
	suite.Require().NoError(err)
	suite.Len(suite.systemEvents(dto.ListActivitiesParams{CompanyID: companyID}), 1)

	err = suite.svc.Company.UpdateNextAction(suite.ctx, companyID, dto.UpdateNextActionRequest{}, testActor)
	suite.Require().NoError(err)
	company, err := suite.svc.Company.GetCompanyByID(suite.ctx, companyID)
	suite.Require().NoError(err)
	suite.Nil(company.NextAction)
	suite.Nil(company.NextActionDate)

	page, err := suite.svc.Activity.ListActivities(suite.ctx, dto.ListActivitiesParams{CompanyID: companyID, Source: domain.SourceSystem})
	suite.Require().NoError(err)
	suite.Require().Len(page.Items, 2)
	suite.Equal(`Next action changed from "Send proposal" (Mar 14, 2026) to None (None)`, page.Items[0].Details)

	err = suite.svc.Company.UpdateNextAction(suite.ctx, companyID, dto.UpdateNextActionRequest{NextAction: ptr("Call")}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CRMServicesTestSuite) TestAddContact_PrimaryIsExclusivePerCompany() {
	companyID := suite.addCompany("Acme")
	first, err := suite.svc.Contact.AddContact(suite.ctx, dto.CreateContactRequest{FullName: "Ann", CompanyID: &companyID, IsPrimary: true}, testActor)
	suite.Require().NoError(err)
	second, err := suite.svc.Contact.AddContact(suite.ctx, dto.CreateContactRequest{FullName: "Bob", CompanyID: &companyID, IsPrimary: true}, testActor)
	suite.Require().NoError(err)

	ann, err := suite.svc.Contact.GetContactByID(suite.ctx, first)
	suite.Require().NoError(err)
	suite.False(ann.IsPrimary)
	bob, err := suite.svc.Contact.GetContactByID(suite.ctx, second)
	suite.Require().NoError(err)
	suite.True(bob.IsPrimary)
	suite.Equal("Acme", bob.CompanyName)

	suite.Require().NoError(suite.svc.Contact.UpdateContact(suite.ctx, first, dto.UpdateContactRequest{IsPrimary: ptr(true)}, testActor))
	bob, err = suite.svc.Contact.GetContactByID(suite.ctx, second)
	suite.Require().NoError(err)
	suite.False(bob.IsPrimary)
}

func (suite *CRMServicesTestSuite) TestUpdateContact_DetachAndMoveCompany() {
	acme := suite.addCompany("Acme")
	globex := suite.addCompany("Globex")
	contactID := suite.addContact(acme, "Jane Doe")

	suite.Require().NoError(suite.svc.Contact.UpdateContact(suite.ctx, contactID, dto.UpdateContactRequest{CompanyID: &globex}, testActor))
	contact, err := suite.svc.Contact.GetContactByID(suite.ctx, contactID)
	suite.Require().NoError(err)
	suite.Equal(globex, *contact.CompanyID)
	suite.Equal("Globex", contact.CompanyName)

	suite.Require().NoError(suite.svc.Contact.UpdateContact(suite.ctx, contactID, dto.UpdateContactRequest{CompanyID: ptr("")}, testActor))
	contact, err = suite.svc.Contact.GetContactByID(suite.ctx, contactID)
	suite.Require().NoError(err)
	suite.Nil(contact.CompanyID)
	suite.Empty(contact.CompanyName)
}

func (suite *CRMServicesTestSuite) TestContactRename_ReachesDealsAndActivities() {
	companyID := suite.addCompany("Acme")
	contactID := suite.addContact(companyID, "Jane Doe")
	dealID, err := suite.svc.Deal.AddDeal(suite.ctx, dto.CreateDealRequest{Title: "Relaunch", CompanyID: companyID, PrimaryContactID: &contactID}, testActor)
	suite.Require().NoError(err)
	_, err = suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{Type: domain.ActivityCall, Summary: "Hi", ContactID: &contactID}, testActor)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svc.Contact.UpdateContact(suite.ctx, contactID, dto.UpdateContactRequest{FullName: ptr("Jane Smith")}, testActor))

	deal, err := suite.svc.Deal.GetDealByID(suite.ctx, dealID)
	suite.Require().NoError(err)
	suite.Equal("Jane Smith", deal.PrimaryContactName)
	activities := suite.userActivities(dto.ListActivitiesParams{ContactID: contactID})
	suite.Require().Len(activities, 1)
	suite.Equal("Jane Smith", activities[0].ContactName)
}

func (suite *CRMServicesTestSuite) TestUpdateContactStage_EmitsEvent() {
	contactID := suite.addContact("", "Jane Doe")
	suite.Require().NoError(suite.svc.Contact.UpdateContactStage(suite.ctx, contactID, domain.ContactWarm, testActor))

	contact, err := suite.svc.Contact.GetContactByID(suite.ctx, contactID)
	suite.Require().NoError(err)
	suite.Equal(domain.ContactWarm, contact.Stage)
	suite.Equal([]domain.SystemEvent{domain.EventContactStageChanged}, suite.systemEvents(dto.ListActivitiesParams{ContactID: contactID}))
}

func (suite *CRMServicesTestSuite) TestAddDeal_Defaults() {
	companyID := suite.addCompany("Acme")
	dealID := suite.addDeal(companyID, "Relaunch", "", 1200)

	deal, err := suite.svc.Deal.GetDealByID(suite.ctx, dealID)
	suite.Require().NoError(err)
	suite.Equal(domain.DealLead, deal.Stage)
	suite.Equal("EUR", deal.Currency)
	suite.Equal("Acme", deal.CompanyName)

	_, err = suite.svc.Deal.AddDeal(suite.ctx, dto.CreateDealRequest{Title: "Bad", CompanyID: companyID, EstimatedBudgetMinor: -1}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CRMServicesTestSuite) TestUpdateDealStage_Transitions() {
	companyID := suite.addCompany("Acme")
	dealID := suite.addDeal(companyID, "Relaunch", domain.DealQualified, 0)

	err := suite.svc.Deal.UpdateDealStage(suite.ctx, dealID, dto.UpdateDealStageRequest{Stage: domain.DealLost, LostReason: ptr("Budget cut")}, testActor)
	suite.Require().NoError(err)

	deal, err := suite.svc.Deal.GetDealByID(suite.ctx, dealID)
	suite.Require().NoError(err)
	suite.Equal(domain.DealLost, deal.Stage)
	suite.Require().NotNil(deal.LostReason)
	suite.Equal("Budget cut", *deal.LostReason)
	suite.Equal([]domain.SystemEvent{domain.EventDealStageChanged}, suite.systemEvents(dto.ListActivitiesParams{DealID: dealID}))

	err = suite.svc.Deal.UpdateDealStage(suite.ctx, dealID, dto.UpdateDealStageRequest{Stage: domain.DealLead}, testActor)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)

	err = suite.svc.Deal.UpdateDealStage(suite.ctx, dealID, dto.UpdateDealStageRequest{Stage: "stalled"}, testActor)
	suite.Error(err)
}

func (suite *CRMServicesTestSuite) TestUpdateDealStage_LostReasonEditableWhileLost() {
	companyID := suite.addCompany("Acme")
	dealID := suite.addDeal(companyID, "Relaunch", domain.DealQualified, 0)
	suite.Require().NoError(suite.svc.Deal.UpdateDealStage(suite.ctx, dealID, dto.UpdateDealStageRequest{Stage: domain.DealLost, LostReason: ptr("Budget cut")}, testActor))

	err := suite.svc.Deal.UpdateDealStage(suite.ctx, dealID, dto.UpdateDealStageRequest{Stage: domain.DealLost, LostReason: ptr("Went with a competitor")}, testActor)
	suite.Require().NoError(err)

	deal, err := suite.svc.Deal.GetDealByID(suite.ctx, dealID)
	suite.Require().NoError(err)
	suite.Equal(domain.DealLost, deal.Stage)
	suite.Require().NotNil(deal.LostReason)
	suite.Equal("Went with a competitor", *deal.LostReason)
	suite.Equal([]domain.SystemEvent{domain.EventDealStageChanged}, suite.systemEvents(dto.ListActivitiesParams{DealID: dealID}),
		"editing the reason is not a stage change")

	suite.Require().NoError(suite.svc.Deal.UpdateDealStage(suite.ctx, dealID, dto.UpdateDealStageRequest{Stage: domain.DealLost}, testActor))
	deal, err = suite.svc.Deal.GetDealByID(suite.ctx, dealID)
	suite.Require().NoError(err)
	suite.Nil(deal.LostReason)
}

func (suite *CRMServicesTestSuite) TestUpdateDealStage_LostReasonDroppedOutsideLost() {
	companyID := suite.addCompany("Acme")
	dealID := suite.addDeal(companyID, "Relaunch", domain.DealLead, 0)

	err := suite.svc.Deal.UpdateDealStage(suite.ctx, dealID, dto.UpdateDealStageRequest{Stage: domain.DealNegotiation, LostReason: ptr("n/a")}, testActor)
	suite.Require().NoError(err)
	deal, err := suite.svc.Deal.GetDealByID(suite.ctx, dealID)
	suite.Require().NoError(err)
	suite.Nil(deal.LostReason)
}

func (suite *CRMServicesTestSuite) TestDeleteCompany_LeavesWeakReferences() {
	companyID := suite.addCompany("Acme")
	contactID := suite.addContact(companyID, "Jane Doe")

	suite.Require().NoError(suite.svc.Company.DeleteCompany(suite.ctx, companyID))
	_, err := suite.svc.Company.GetCompanyByID(suite.ctx, companyID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	contact, err := suite.svc.Contact.GetContactByID(suite.ctx, contactID)
	suite.Require().NoError(err)
	suite.Equal("Acme", contact.CompanyName)

	_, err = suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{Type: domain.ActivityNote, Summary: "After delete", ContactID: &contactID}, testActor)
	suite.Require().NoError(err)
}
