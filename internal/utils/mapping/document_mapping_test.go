package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/SscSPs/salesops_app/internal/utils/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDocument_DealRoundTrip(t *testing.T) {
	closeDate := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	contactID := "contact-1"
	deal := domain.Deal{
		ID:                   "deal-1",
		Title:                "Website rebuild",
		CompanyID:            "company-1",
		CompanyName:          "Acme",
		PrimaryContactID:     &contactID,
		Stage:                domain.DealQualified,
		Currency:             "EUR",
		EstimatedBudgetMinor: 1250000,
		ExpectedCloseDate:    &closeDate,
	}
	doc := mapping.DealToDocument(deal)
	doc["createdBy"] = "user-1"

	got, err := mapping.FromDocument[domain.Deal](doc)
	require.NoError(t, err)
	assert.Equal(t, deal.ID, got.ID)
	assert.Equal(t, domain.DealQualified, got.Stage)
	assert.Equal(t, int64(1250000), got.EstimatedBudgetMinor)
	require.NotNil(t, got.PrimaryContactID)
	assert.Equal(t, contactID, *got.PrimaryContactID)
	require.NotNil(t, got.ExpectedCloseDate)
	assert.True(t, closeDate.Equal(*got.ExpectedCloseDate))
	assert.Nil(t, got.LostReason)
	assert.Nil(t, got.NextActionDate)
	assert.Equal(t, "user-1", got.CreatedBy)
}

func TestFromDocument_TextEncodedValues(t *testing.T) {
	// JSON-backed stores hand back numbers as float64 and times as strings.
	doc := portsrepo.Document{
		"id":               "p-1",
		"version":          float64(3),
		"status":           "sent",
		"grandTotalMinor":  float64(12000),
		"pricesIncludeTax": true,
		"sentAt":           "2026-03-10T09:30:00.000000000Z",
		"items": []any{
			map[string]any{"title": "Design", "quantity": float64(2), "unitPriceMinor": float64(5000), "taxRate": float64(20)},
		},
	}

	got, err := mapping.FromDocument[domain.Proposal](doc)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)
	assert.Equal(t, domain.ProposalSent, got.Status)
	assert.Equal(t, int64(12000), got.GrandTotalMinor)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(2), got.Items[0].Quantity)
	assert.Equal(t, 20.0, got.Items[0].TaxRate)
	require.NotNil(t, got.SentAt)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), *got.SentAt)
}

func TestFromDocument_BadTimestamp(t *testing.T) {
	_, err := mapping.FromDocument[domain.Company](portsrepo.Document{"id": "c", "nextActionDate": "tomorrow"})
	assert.Error(t, err)
}
