package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	"github.com/SscSPs/salesops_app/internal/core/domain"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ActivityServiceTestSuite struct {
	storeSuite
}

func TestActivityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ActivityServiceTestSuite))
}

func (suite *ActivityServiceTestSuite) TestRecordUserActivity_CascadesAndTargetsContact() {
	companyID := suite.addCompany("Acme")
	contactID := suite.addContact(companyID, "Jane Doe")
	dealID := suite.addDeal(companyID, "Website relaunch", domain.DealLead, 5000)
	due := day(2026, 3, 12)

	id, err := suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{
		Type:           domain.ActivityCall,
		Summary:        "Intro call",
		ContactID:      &contactID,
		DealID:         &dealID,
		NextAction:     ptr("  Send deck "),
		NextActionDate: &due,
	}, testActor)
	suite.Require().NoError(err)
	suite.NotEmpty(id)

	activities := suite.userActivities(dto.ListActivitiesParams{ContactID: contactID})
	suite.Require().Len(activities, 1)
	activity := activities[0]
	suite.Equal(id, activity.ID)
	suite.Require().NotNil(activity.CompanyID)
	suite.Equal(companyID, *activity.CompanyID, "company is inferred from the contact")
	suite.Equal("Acme", activity.CompanyName)
	suite.Equal("Jane Doe", activity.ContactName)
	suite.Equal("Website relaunch", activity.DealTitle)
	suite.False(activity.OccurredAt.IsZero())

	contact, err := suite.svc.Contact.GetContactByID(suite.ctx, contactID)
	suite.Require().NoError(err)
	suite.Require().NotNil(contact.NextAction)
	suite.Equal("Send deck", *contact.NextAction)
	suite.True(due.Equal(*contact.NextActionDate))
	suite.Require().NotNil(contact.LastActivityAt)

	deal, err := suite.svc.Deal.GetDealByID(suite.ctx, dealID)
	suite.Require().NoError(err)
	suite.Nil(deal.NextAction, "only the most specific parent takes the next action")
	suite.Require().NotNil(deal.LastActivityAt)

	company, err := suite.svc.Company.GetCompanyByID(suite.ctx, companyID)
	suite.Require().NoError(err)
	suite.Nil(company.NextAction)
	suite.Require().NotNil(company.LastActivityAt)
	suite.True(contact.LastActivityAt.Equal(*company.LastActivityAt), "cascade lands in one batch")
}

func (suite *ActivityServiceTestSuite) TestRecordUserActivity_NextActionFallsBackToDealThenCompany() {
	companyID := suite.addCompany("Acme")
	dealID := suite.addDeal(companyID, "Retainer", domain.DealQualified, 0)
	due := day(2026, 3, 20)

	_, err := suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{
		Type: domain.ActivityMeeting, Summary: "Scope review", DealID: &dealID,
		NextAction: ptr("Send estimate"), NextActionDate: &due,
	}, testActor)
	suite.Require().NoError(err)

	deal, err := suite.svc.Deal.GetDealByID(suite.ctx, dealID)
	suite.Require().NoError(err)
	suite.Require().NotNil(deal.NextAction)
	suite.Equal("Send estimate", *deal.NextAction)

	_, err = suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{
		Type: domain.ActivityNote, Summary: "Budget approved", CompanyID: &companyID,
		NextAction: ptr("Book kickoff"), NextActionDate: &due,
	}, testActor)
	suite.Require().NoError(err)

	company, err := suite.svc.Company.GetCompanyByID(suite.ctx, companyID)
	suite.Require().NoError(err)
	suite.Require().NotNil(company.NextAction)
	suite.Equal("Book kickoff", *company.NextAction)
}

func (suite *ActivityServiceTestSuite) TestRecordUserActivity_ExplicitCompanyIsKept() {
	acme := suite.addCompany("Acme")
	globex := suite.addCompany("Globex")
	contactID := suite.addContact(acme, "Jane Doe")

	_, err := suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{
		Type: domain.ActivityEmail, Summary: "Referral", ContactID: &contactID, CompanyID: &globex,
	}, testActor)
	suite.Require().NoError(err)

	activities := suite.userActivities(dto.ListActivitiesParams{ContactID: contactID})
	suite.Require().Len(activities, 1)
	suite.Equal(globex, *activities[0].CompanyID)
	suite.Equal("Globex", activities[0].CompanyName)

	acmeCompany, err := suite.svc.Company.GetCompanyByID(suite.ctx, acme)
	suite.Require().NoError(err)
	suite.Nil(acmeCompany.LastActivityAt)
}

func (suite *ActivityServiceTestSuite) TestRecordUserActivity_MissingParentIsTolerated() {
	contactID := suite.addContact("", "Solo Consultant")
	missingDeal := "deal-gone"

	_, err := suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{
		Type: domain.ActivityNetworking, Summary: "Met at meetup", ContactID: &contactID, DealID: &missingDeal,
	}, testActor)
	suite.Require().NoError(err)

	activities := suite.userActivities(dto.ListActivitiesParams{ContactID: contactID})
	suite.Require().Len(activities, 1)
	suite.Equal(missingDeal, *activities[0].DealID)
	suite.Empty(activities[0].DealTitle)
	suite.Nil(activities[0].CompanyID)
}

func (suite *ActivityServiceTestSuite) TestRecordUserActivity_FailedCommitWritesNothing() {
	companyID := suite.addCompany("Acme")
	contactID := suite.addContact(companyID, "Jane Doe")
	due := day(2026, 3, 12)

	suite.failCommits(errors.New("store unavailable"))
	_, err := suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{
		Type: domain.ActivityCall, Summary: "Follow-up", ContactID: &contactID,
		NextAction: ptr("Call back"), NextActionDate: &due,
	}, testActor)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBatchCommit)
	suite.store.SetCommitHook(nil)

	suite.Empty(suite.userActivities(dto.ListActivitiesParams{ContactID: contactID}))
	contact, err := suite.svc.Contact.GetContactByID(suite.ctx, contactID)
	suite.Require().NoError(err)
	suite.Nil(contact.LastActivityAt)
	suite.Nil(contact.NextAction)
	company, err := suite.svc.Company.GetCompanyByID(suite.ctx, companyID)
	suite.Require().NoError(err)
	suite.Nil(company.LastActivityAt)
}

func (suite *ActivityServiceTestSuite) TestRecordUserActivity_Validation() {
	contactID := suite.addContact("", "Jane Doe")
	due := day(2026, 3, 12)

	tests := []struct {
		name string
		req  dto.RecordActivityRequest
	}{
		{"system type", dto.RecordActivityRequest{Type: domain.ActivitySystem, Summary: "x", ContactID: &contactID}},
		{"blank summary", dto.RecordActivityRequest{Type: domain.ActivityNote, Summary: "  ", ContactID: &contactID}},
		{"no parent", dto.RecordActivityRequest{Type: domain.ActivityNote, Summary: "x"}},
		{"action without date", dto.RecordActivityRequest{Type: domain.ActivityNote, Summary: "x", ContactID: &contactID, NextAction: ptr("Call")}},
		{"date without action", dto.RecordActivityRequest{Type: domain.ActivityNote, Summary: "x", ContactID: &contactID, NextActionDate: &due}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.svc.Activity.RecordUserActivity(suite.ctx, tt.req, testActor)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *ActivityServiceTestSuite) TestListActivities_PagesNewestFirst() {
	contactID := suite.addContact("", "Jane Doe")
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	occurred := []time.Time{base, base.Add(time.Hour), base.Add(time.Hour), base.Add(time.Hour), base.Add(2 * time.Hour)}
	for i, at := range occurred {
		at := at
		_, err := suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{
			Type: domain.ActivityNote, Summary: "note", ContactID: &contactID, OccurredAt: &at,
		}, testActor)
		suite.Require().NoError(err, "activity %d", i)
	}

	var (
		seen  = map[string]bool{}
		all   []domain.Activity
		token string
		pages int
	)
	for {
		page, err := suite.svc.Activity.ListActivities(suite.ctx, dto.ListActivitiesParams{ContactID: contactID, Limit: 2, PageToken: token})
		suite.Require().NoError(err)
		pages++
		for _, a := range page.Items {
			suite.False(seen[a.ID], "activity %s returned twice", a.ID)
			seen[a.ID] = true
		}
		all = append(all, page.Items...)
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
		suite.Require().Less(pages, 10)
	}

	suite.Len(all, len(occurred))
	suite.Equal(3, pages)
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		suite.False(cur.OccurredAt.After(prev.OccurredAt), "page order must be newest first")
		if cur.OccurredAt.Equal(prev.OccurredAt) {
			suite.Less(cur.ID, prev.ID)
		}
	}
}

func (suite *ActivityServiceTestSuite) TestListActivities_RejectsBadToken() {
	_, err := suite.svc.Activity.ListActivities(suite.ctx, dto.ListActivitiesParams{PageToken: "%%%"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ActivityServiceTestSuite) TestListActivitiesByParent() {
	companyID := suite.addCompany("Acme")
	_, err := suite.svc.Activity.RecordUserActivity(suite.ctx, dto.RecordActivityRequest{
		Type: domain.ActivityDecision, Summary: "Go ahead", CompanyID: &companyID,
	}, testActor)
	suite.Require().NoError(err)

	items, err := suite.svc.Activity.ListActivitiesByParent(suite.ctx, domain.KindCompany, companyID, 10)
	suite.Require().NoError(err)
	suite.Len(items, 1)

	_, err = suite.svc.Activity.ListActivitiesByParent(suite.ctx, domain.KindTask, "t-1", 10)
	suite.ErrorIs(err, apperrors.ErrValidation)
}
