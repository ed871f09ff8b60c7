package accounting

import (
	"testing"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestCalculateProposalTotals_Exclusive(t *testing.T) {
	items := []domain.LineItem{
		{Title: "Design", Quantity: 2, UnitPriceMinor: 5000, TaxRate: 20},
		{Title: "Hosting", Quantity: 1, UnitPriceMinor: 1999, TaxRate: 0},
	}

	totals := CalculateProposalTotals(items, false)

	assert.Equal(t, int64(11999), totals.SubtotalMinor)
	assert.Equal(t, int64(2000), totals.TaxTotalMinor)
	assert.Equal(t, int64(13999), totals.GrandTotalMinor)
}

func TestCalculateProposalTotals_Inclusive(t *testing.T) {
	items := []domain.LineItem{
		{Title: "Workshop", Quantity: 1, UnitPriceMinor: 12000, TaxRate: 20},
		{Title: "Travel", Quantity: 3, UnitPriceMinor: 1000, TaxRate: 7},
	}

	totals := CalculateProposalTotals(items, true)

	// 12000/1.2 = 10000; 3000/1.07 = 2803.74 -> 2804
	assert.Equal(t, int64(12804), totals.SubtotalMinor)
	assert.Equal(t, int64(2196), totals.TaxTotalMinor)
	assert.Equal(t, int64(15000), totals.GrandTotalMinor)
}

func TestLineAmounts_HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		name  string
		price int64
		tax   int64
	}{
		{"half rounds up", 250, 3},
		{"odd half rounds up", 150, 2},
		{"negative half rounds down", -250, -3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, tax := LineAmounts(domain.LineItem{Quantity: 1, UnitPriceMinor: tc.price, TaxRate: 1}, false)
			assert.Equal(t, tc.tax, tax)
		})
	}
}

func TestCalculateProposalTotals_RoundsPerLine(t *testing.T) {
	// Each line carries 0.5 of tax; aggregate rounding would give 1, per line gives 2.
	items := []domain.LineItem{
		{Quantity: 1, UnitPriceMinor: 50, TaxRate: 1},
		{Quantity: 1, UnitPriceMinor: 50, TaxRate: 1},
	}

	totals := CalculateProposalTotals(items, false)

	assert.Equal(t, int64(2), totals.TaxTotalMinor)
}

func TestCalculateProposalTotals_Invariants(t *testing.T) {
	inputs := [][]domain.LineItem{
		nil,
		{{Quantity: 1, UnitPriceMinor: 999, TaxRate: 19}},
		{{Quantity: 7, UnitPriceMinor: 333, TaxRate: 5.5}, {Quantity: 2, UnitPriceMinor: 101, TaxRate: 21}},
		{{Quantity: 13, UnitPriceMinor: 4567, TaxRate: 8.25}, {Quantity: 1, UnitPriceMinor: -500, TaxRate: 8.25}},
	}

	for _, items := range inputs {
		for _, inclusive := range []bool{true, false} {
			totals := CalculateProposalTotals(items, inclusive)
			assert.Equal(t, totals.GrandTotalMinor, totals.SubtotalMinor+totals.TaxTotalMinor)
		}

		// Rebuild the tax-exclusive equivalent of each inclusive line and check
		// the grand total survives within one minor unit per line.
		inclusive := CalculateProposalTotals(items, true)
		equivalent := make([]domain.LineItem, 0, len(items))
		for _, item := range items {
			sub, _ := LineAmounts(item, true)
			equivalent = append(equivalent, domain.LineItem{Quantity: 1, UnitPriceMinor: sub, TaxRate: item.TaxRate})
		}
		exclusive := CalculateProposalTotals(equivalent, false)
		assert.InDelta(t, inclusive.GrandTotalMinor, exclusive.GrandTotalMinor, float64(len(items)))
	}
}
