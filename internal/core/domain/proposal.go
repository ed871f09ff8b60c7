package domain

import "time"

// ProposalStatus is the lifecycle state of a proposal version.
type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "draft"
	ProposalSent     ProposalStatus = "sent"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// ProposalStatusMachine: draft -> sent -> accepted|rejected. Any version can
// still be forked into a new draft, which is a new document rather than a
// transition.
var ProposalStatusMachine = NewStateMachine("proposal status", map[ProposalStatus][]ProposalStatus{
	ProposalDraft:    {ProposalSent},
	ProposalSent:     {ProposalAccepted, ProposalRejected},
	ProposalAccepted: {},
	ProposalRejected: {},
})

// LineItem is one priced row of a proposal.
type LineItem struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Quantity       int64   `json:"quantity"`
	Unit           string  `json:"unit"`
	UnitPriceMinor int64   `json:"unitPriceMinor"`
	TaxRate        float64 `json:"taxRate"` // percent, e.g. 20 for 20%
}

// ProposalTotals are derived from the items and the tax convention.
type ProposalTotals struct {
	SubtotalMinor   int64 `json:"subtotalMinor"`
	TaxTotalMinor   int64 `json:"taxTotalMinor"`
	GrandTotalMinor int64 `json:"grandTotalMinor"`
}

// Proposal is one version of a priced offer made against a deal.
type Proposal struct {
	ID               string         `json:"id"`
	DealID           string         `json:"dealId"`
	DealTitle        string         `json:"dealTitle"`
	CompanyID        string         `json:"companyId"`
	CompanyName      string         `json:"companyName"`
	Title            string         `json:"title"`
	Version          int            `json:"version"`
	Status           ProposalStatus `json:"status"`
	Currency         string         `json:"currency"`
	Items            []LineItem     `json:"items"`
	PricesIncludeTax bool           `json:"pricesIncludeTax"`
	ProposalTotals
	Notes       string     `json:"notes"`
	ValidUntil  *time.Time `json:"validUntil"`
	SentAt      *time.Time `json:"sentAt"`
	RespondedAt *time.Time `json:"respondedAt"`
	IsArchived  bool       `json:"isArchived"`
	AuditFields
}
