package mapping

import (
	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
)

func CompanyToDocument(c domain.Company) portsrepo.Document {
	return portsrepo.Document{
		"id":             c.ID,
		"name":           c.Name,
		"status":         string(c.Status),
		"source":         c.Source,
		"website":        c.Website,
		"tags":           StringSlice(c.Tags),
		"nextAction":     OptionalString(c.NextAction),
		"nextActionDate": OptionalTime(c.NextActionDate),
		"lastActivityAt": OptionalTime(c.LastActivityAt),
		"isArchived":     c.IsArchived,
	}
}

func ContactToDocument(c domain.Contact) portsrepo.Document {
	return portsrepo.Document{
		"id":             c.ID,
		"fullName":       c.FullName,
		"email":          c.Email,
		"phone":          c.Phone,
		"role":           c.Role,
		"companyId":      OptionalString(c.CompanyID),
		"companyName":    c.CompanyName,
		"stage":          string(c.Stage),
		"isPrimary":      c.IsPrimary,
		"nextAction":     OptionalString(c.NextAction),
		"nextActionDate": OptionalTime(c.NextActionDate),
		"lastActivityAt": OptionalTime(c.LastActivityAt),
	}
}

func DealToDocument(d domain.Deal) portsrepo.Document {
	return portsrepo.Document{
		"id":                   d.ID,
		"title":                d.Title,
		"companyId":            d.CompanyID,
		"companyName":          d.CompanyName,
		"primaryContactId":     OptionalString(d.PrimaryContactID),
		"primaryContactName":   d.PrimaryContactName,
		"stage":                string(d.Stage),
		"lostReason":           OptionalString(d.LostReason),
		"currency":             d.Currency,
		"estimatedBudgetMinor": d.EstimatedBudgetMinor,
		"expectedCloseDate":    OptionalTime(d.ExpectedCloseDate),
		"nextAction":           OptionalString(d.NextAction),
		"nextActionDate":       OptionalTime(d.NextActionDate),
		"lastActivityAt":       OptionalTime(d.LastActivityAt),
		"isArchived":           d.IsArchived,
		"lastProposalVersion":  d.LastProposalVersion,
	}
}

// LineItemsToDocuments stores line items as nested documents.
func LineItemsToDocuments(items []domain.LineItem) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = portsrepo.Document{
			"title":          item.Title,
			"description":    item.Description,
			"quantity":       item.Quantity,
			"unit":           item.Unit,
			"unitPriceMinor": item.UnitPriceMinor,
			"taxRate":        item.TaxRate,
		}
	}
	return out
}

// TotalsToDocument returns the stored totals fields of a proposal.
func TotalsToDocument(t domain.ProposalTotals) portsrepo.Document {
	return portsrepo.Document{
		"subtotalMinor":   t.SubtotalMinor,
		"taxTotalMinor":   t.TaxTotalMinor,
		"grandTotalMinor": t.GrandTotalMinor,
	}
}

func ProposalToDocument(p domain.Proposal) portsrepo.Document {
	doc := portsrepo.Document{
		"id":               p.ID,
		"dealId":           p.DealID,
		"dealTitle":        p.DealTitle,
		"companyId":        p.CompanyID,
		"companyName":      p.CompanyName,
		"title":            p.Title,
		"version":          p.Version,
		"status":           string(p.Status),
		"currency":         p.Currency,
		"items":            LineItemsToDocuments(p.Items),
		"pricesIncludeTax": p.PricesIncludeTax,
		"notes":            p.Notes,
		"validUntil":       OptionalTime(p.ValidUntil),
		"sentAt":           OptionalTime(p.SentAt),
		"respondedAt":      OptionalTime(p.RespondedAt),
		"isArchived":       p.IsArchived,
	}
	for k, v := range TotalsToDocument(p.ProposalTotals) {
		doc[k] = v
	}
	return doc
}

func WorkOrderToDocument(w domain.WorkOrder) portsrepo.Document {
	return portsrepo.Document{
		"id":                 w.ID,
		"title":              w.Title,
		"companyId":          w.CompanyID,
		"companyName":        w.CompanyName,
		"dealId":             OptionalString(w.DealID),
		"dealTitle":          w.DealTitle,
		"proposalId":         OptionalString(w.ProposalID),
		"status":             string(w.Status),
		"paymentStatus":      string(w.PaymentStatus),
		"targetDeliveryDate": OptionalTime(w.TargetDeliveryDate),
		"lastActivityAt":     OptionalTime(w.LastActivityAt),
		"isArchived":         w.IsArchived,
	}
}

func DeliverableToDocument(d domain.Deliverable) portsrepo.Document {
	return portsrepo.Document{
		"id":             d.ID,
		"workOrderId":    d.WorkOrderID,
		"workOrderTitle": d.WorkOrderTitle,
		"title":          d.Title,
		"description":    d.Description,
		"status":         string(d.Status),
		"dueDate":        OptionalTime(d.DueDate),
	}
}

func TaskToDocument(t domain.Task) portsrepo.Document {
	return portsrepo.Document{
		"id":               t.ID,
		"workOrderId":      t.WorkOrderID,
		"workOrderTitle":   t.WorkOrderTitle,
		"deliverableId":    OptionalString(t.DeliverableID),
		"deliverableTitle": t.DeliverableTitle,
		"title":            t.Title,
		"status":           string(t.Status),
		"blockedReason":    OptionalString(t.BlockedReason),
		"assigneeId":       OptionalString(t.AssigneeID),
		"dueDate":          OptionalTime(t.DueDate),
	}
}

func TimeEntryToDocument(e domain.TimeEntry) portsrepo.Document {
	return portsrepo.Document{
		"id":               e.ID,
		"userId":           e.UserID,
		"workOrderId":      OptionalString(e.WorkOrderID),
		"workOrderTitle":   e.WorkOrderTitle,
		"deliverableId":    OptionalString(e.DeliverableID),
		"deliverableTitle": e.DeliverableTitle,
		"taskId":           OptionalString(e.TaskID),
		"taskTitle":        e.TaskTitle,
		"date":             e.Date.UTC(),
		"durationMinutes":  e.DurationMinutes,
		"billable":         e.Billable,
		"notes":            e.Notes,
		"weekKey":          e.WeekKey,
		"status":           string(e.Status),
		"submittedAt":      OptionalTime(e.SubmittedAt),
		"approvedAt":       OptionalTime(e.ApprovedAt),
		"approvedBy":       OptionalString(e.ApprovedBy),
	}
}

// ActivityToDocument leaves createdAt to the caller so the ledger can stamp it
// with the server clock.
func ActivityToDocument(a domain.Activity) portsrepo.Document {
	return portsrepo.Document{
		"id":             a.ID,
		"type":           string(a.Type),
		"source":         string(a.Source),
		"event":          string(a.Event),
		"summary":        a.Summary,
		"details":        a.Details,
		"contactId":      OptionalString(a.ContactID),
		"companyId":      OptionalString(a.CompanyID),
		"dealId":         OptionalString(a.DealID),
		"workOrderId":    OptionalString(a.WorkOrderID),
		"requestId":      OptionalString(a.RequestID),
		"contactName":    a.ContactName,
		"companyName":    a.CompanyName,
		"dealTitle":      a.DealTitle,
		"workOrderTitle": a.WorkOrderTitle,
		"requestTitle":   a.RequestTitle,
		"occurredAt":     a.OccurredAt.UTC(),
		"nextAction":     OptionalString(a.NextAction),
		"nextActionDate": OptionalTime(a.NextActionDate),
		"createdBy":      a.CreatedBy,
	}
}
