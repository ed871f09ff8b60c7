package domain

import "time"

// DealStage is a position in the sales pipeline.
type DealStage string

const (
	DealLead         DealStage = "lead"
	DealQualified    DealStage = "qualified"
	DealProposalPrep DealStage = "proposal-prep"
	DealProposalSent DealStage = "proposal-sent"
	DealNegotiation  DealStage = "negotiation"
	DealWon          DealStage = "won"
	DealLost         DealStage = "lost"
)

// DealStages lists every stage in pipeline order.
var DealStages = []DealStage{
	DealLead, DealQualified, DealProposalPrep, DealProposalSent, DealNegotiation, DealWon, DealLost,
}

var openDealTargets = []DealStage{
	DealLead, DealQualified, DealProposalPrep, DealProposalSent, DealNegotiation, DealWon, DealLost,
}

// DealStageMachine allows open deals to move anywhere; won and lost are final.
var DealStageMachine = NewStateMachine("deal stage", map[DealStage][]DealStage{
	DealLead:         openDealTargets,
	DealQualified:    openDealTargets,
	DealProposalPrep: openDealTargets,
	DealProposalSent: openDealTargets,
	DealNegotiation:  openDealTargets,
	DealWon:          {},
	DealLost:         {},
})

// IsClosed reports whether the stage is won or lost.
func (s DealStage) IsClosed() bool {
	return s == DealWon || s == DealLost
}

// Deal is a sales opportunity with a company.
type Deal struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	CompanyID            string     `json:"companyId"`
	CompanyName          string     `json:"companyName"`
	PrimaryContactID     *string    `json:"primaryContactId"`
	PrimaryContactName   string     `json:"primaryContactName"`
	Stage                DealStage  `json:"stage"`
	LostReason           *string    `json:"lostReason"`
	Currency             string     `json:"currency"`
	EstimatedBudgetMinor int64      `json:"estimatedBudgetMinor"`
	ExpectedCloseDate    *time.Time `json:"expectedCloseDate"`
	NextAction           *string    `json:"nextAction"`
	NextActionDate       *time.Time `json:"nextActionDate"`
	LastActivityAt       *time.Time `json:"lastActivityAt"`
	IsArchived           bool       `json:"isArchived"`
	// LastProposalVersion is the highest proposal version ever issued for
	// the deal. Deleting a proposal does not lower it.
	LastProposalVersion int `json:"lastProposalVersion"`
	AuditFields
}
