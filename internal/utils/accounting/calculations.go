package accounting

import (
	"github.com/SscSPs/salesops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineAmounts splits one line into its net and tax parts in minor units.
// Rounding is half away from zero and happens per line, never on the aggregate.
func LineAmounts(item domain.LineItem, pricesIncludeTax bool) (subtotal int64, tax int64) {
	lineTotal := decimal.NewFromInt(item.UnitPriceMinor).Mul(decimal.NewFromInt(item.Quantity))
	rate := decimal.NewFromFloat(item.TaxRate).Div(hundred)

	if pricesIncludeTax {
		net := lineTotal.Div(decimal.NewFromInt(1).Add(rate)).Round(0)
		return net.IntPart(), lineTotal.Sub(net).IntPart()
	}
	return lineTotal.IntPart(), lineTotal.Mul(rate).Round(0).IntPart()
}

// CalculateProposalTotals derives the stored totals of a proposal from its
// items. It is pure and safe to re-run on every change.
func CalculateProposalTotals(items []domain.LineItem, pricesIncludeTax bool) domain.ProposalTotals {
	var totals domain.ProposalTotals
	for _, item := range items {
		sub, tax := LineAmounts(item, pricesIncludeTax)
		totals.SubtotalMinor += sub
		totals.TaxTotalMinor += tax
	}
	totals.GrandTotalMinor = totals.SubtotalMinor + totals.TaxTotalMinor
	return totals
}
