package dto

import (
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
)

// LineItemRequest is one priced line of a proposal.
type LineItemRequest struct {
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description"`
	Quantity       int64   `json:"quantity" binding:"min=1"`
	Unit           string  `json:"unit"`
	UnitPriceMinor int64   `json:"unitPriceMinor"`
	TaxRate        float64 `json:"taxRate" binding:"min=0,max=100"`
}

// ToLineItems converts request lines into domain line items.
func ToLineItems(items []LineItemRequest) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		out[i] = domain.LineItem{
			Title:          item.Title,
			Description:    item.Description,
			Quantity:       item.Quantity,
			Unit:           item.Unit,
			UnitPriceMinor: item.UnitPriceMinor,
			TaxRate:        item.TaxRate,
		}
	}
	return out
}

// CreateProposalRequest defines the data needed to create a proposal for a deal.
// Totals are always derived server-side.
type CreateProposalRequest struct {
	DealID           string            `json:"dealId" binding:"required"`
	Title            string            `json:"title" binding:"required"`
	Currency         string            `json:"currency" binding:"omitempty,len=3"`
	Items            []LineItemRequest `json:"items" binding:"dive"`
	PricesIncludeTax bool              `json:"pricesIncludeTax"`
	Notes            string            `json:"notes"`
	ValidUntil       *time.Time        `json:"validUntil"`
}

// UpdateProposalRequest changes descriptive fields, which are editable in any status.
type UpdateProposalRequest struct {
	Title      *string    `json:"title" binding:"omitempty,min=1"`
	Notes      *string    `json:"notes"`
	ValidUntil *time.Time `json:"validUntil"`
}

// UpdateProposalItemsRequest replaces the line items of a draft proposal.
type UpdateProposalItemsRequest struct {
	Items []LineItemRequest `json:"items" binding:"dive"`
}

// SetPricesIncludeTaxRequest switches the tax convention of a draft proposal.
type SetPricesIncludeTaxRequest struct {
	PricesIncludeTax bool `json:"pricesIncludeTax"`
}

// ListProposalsParams defines query parameters for listing proposals.
type ListProposalsParams struct {
	DealID          string                `form:"dealId"`
	Status          domain.ProposalStatus `form:"status"`
	IncludeArchived bool                  `form:"includeArchived"`
	Limit           int                   `form:"limit,default=100" binding:"min=0,max=1000"`
}
