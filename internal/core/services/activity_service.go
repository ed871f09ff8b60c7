package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/utils/mapping"
	"github.com/SscSPs/salesops_app/internal/utils/pagination"
	"github.com/google/uuid"
)

const defaultActivityPageSize = 50

type activityService struct {
	BaseService
}

// NewActivityService creates the activity ledger.
func NewActivityService(store portsrepo.DocumentStore, options ...ServiceOption) portssvc.ActivitySvcFacade {
	return &activityService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.ActivitySvcFacade = (*activityService)(nil)

// resolvedParents holds the references of an activity after name resolution.
// A parent counts as found only if its document exists.
type resolvedParents struct {
	refs           domain.ActivityRefs
	contactName    string
	companyName    string
	dealTitle      string
	workOrderTitle string
	contactFound   bool
	companyFound   bool
	dealFound      bool
	workOrderFound bool
}

// resolveParents reads each referenced parent for its display name. Contact,
// deal and work order can supply the company when none was given; the first
// inference wins and an explicit companyId is never replaced.
func (s *activityService) resolveParents(ctx context.Context, refs domain.ActivityRefs) (resolvedParents, error) {
	r := resolvedParents{refs: domain.ActivityRefs{
		ContactID:   emptyToNil(refs.ContactID),
		CompanyID:   emptyToNil(refs.CompanyID),
		DealID:      emptyToNil(refs.DealID),
		WorkOrderID: emptyToNil(refs.WorkOrderID),
		RequestID:   emptyToNil(refs.RequestID),
	}}
	inferCompany := func(companyID *string) {
		if r.refs.CompanyID == nil && companyID != nil && *companyID != "" {
			id := *companyID
			r.refs.CompanyID = &id
		}
	}

	contact, err := findEntity[domain.Contact](ctx, s.store, domain.CollectionContacts, r.refs.ContactID)
	if err != nil {
		return r, err
	}
	if contact != nil {
		r.contactFound = true
		r.contactName = contact.FullName
		inferCompany(contact.CompanyID)
	}

	deal, err := findEntity[domain.Deal](ctx, s.store, domain.CollectionDeals, r.refs.DealID)
	if err != nil {
		return r, err
	}
	if deal != nil {
		r.dealFound = true
		r.dealTitle = deal.Title
		inferCompany(&deal.CompanyID)
	}

	workOrder, err := findEntity[domain.WorkOrder](ctx, s.store, domain.CollectionWorkOrders, r.refs.WorkOrderID)
	if err != nil {
		return r, err
	}
	if workOrder != nil {
		r.workOrderFound = true
		r.workOrderTitle = workOrder.Title
		inferCompany(&workOrder.CompanyID)
	}

	company, err := findEntity[domain.Company](ctx, s.store, domain.CollectionCompanies, r.refs.CompanyID)
	if err != nil {
		return r, err
	}
	if company != nil {
		r.companyFound = true
		r.companyName = company.Name
	}
	return r, nil
}

// cascadeOps refreshes lastActivityAt on every parent that exists.
func (r resolvedParents) cascadeOps() []portsrepo.BatchOp {
	touch := func(collection string, id *string) portsrepo.BatchOp {
		return updateOp(collection, *id, portsrepo.Document{"lastActivityAt": portsrepo.ServerTimestamp})
	}
	var ops []portsrepo.BatchOp
	if r.contactFound {
		ops = append(ops, touch(domain.CollectionContacts, r.refs.ContactID))
	}
	if r.companyFound {
		ops = append(ops, touch(domain.CollectionCompanies, r.refs.CompanyID))
	}
	if r.dealFound {
		ops = append(ops, touch(domain.CollectionDeals, r.refs.DealID))
	}
	if r.workOrderFound {
		ops = append(ops, touch(domain.CollectionWorkOrders, r.refs.WorkOrderID))
	}
	return ops
}

// nextActionTarget picks the most specific parent that carries a next action:
// contact, then deal, then company.
func (r resolvedParents) nextActionTarget() (collection, id string, ok bool) {
	switch {
	case r.contactFound:
		return domain.CollectionContacts, *r.refs.ContactID, true
	case r.dealFound:
		return domain.CollectionDeals, *r.refs.DealID, true
	case r.companyFound:
		return domain.CollectionCompanies, *r.refs.CompanyID, true
	}
	return "", "", false
}

func (r resolvedParents) apply(a *domain.Activity) {
	a.ActivityRefs = r.refs
	a.ContactName = r.contactName
	a.CompanyName = r.companyName
	a.DealTitle = r.dealTitle
	a.WorkOrderTitle = r.workOrderTitle
}

func (s *activityService) RecordUserActivity(ctx context.Context, req dto.RecordActivityRequest, actorID string) (string, error) {
	logger := s.GetLogger(ctx)

	if !req.Type.IsUserType() {
		return "", validationError("activity type %q cannot be recorded by a user", req.Type)
	}
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		return "", validationError("activity summary is required")
	}
	if req.Refs().IsEmpty() {
		return "", validationError("activity must reference at least one parent")
	}
	nextAction := domain.NormalizeNextAction(req.NextAction)
	if err := domain.ValidateNextActionPair(nextAction, req.NextActionDate); err != nil {
		return "", err
	}

	parents, err := s.resolveParents(ctx, req.Refs())
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve activity parents")
		return "", fmt.Errorf("failed to resolve activity parents: %w", err)
	}

	activity := domain.Activity{
		ID:             uuid.NewString(),
		Type:           req.Type,
		Source:         domain.SourceUser,
		Summary:        summary,
		Details:        req.Details,
		RequestTitle:   req.RequestTitle,
		NextAction:     nextAction,
		NextActionDate: req.NextActionDate,
		CreatedBy:      actorID,
	}
	parents.apply(&activity)
	doc := mapping.ActivityToDocument(activity)
	doc["createdAt"] = portsrepo.ServerTimestamp
	if req.OccurredAt != nil {
		doc["occurredAt"] = req.OccurredAt.UTC()
	} else {
		doc["occurredAt"] = portsrepo.ServerTimestamp
	}

	ops := []portsrepo.BatchOp{createOp(domain.CollectionActivities, activity.ID, doc)}
	ops = append(ops, parents.cascadeOps()...)
	if nextAction != nil {
		if collection, id, ok := parents.nextActionTarget(); ok {
			ops = append(ops, updateOp(collection, id, mapping.UpdateAuditFields(portsrepo.Document{
				"nextAction":     *nextAction,
				"nextActionDate": req.NextActionDate.UTC(),
			}, actorID)))
		} else {
			logger.Warn("No resolved parent can take the next action; kept on the activity only",
				slog.String("activity_id", activity.ID))
		}
	}

	if err := s.commitAtomic(ctx, "record activity", ops); err != nil {
		return "", err
	}

	logger.Info("Activity recorded",
		slog.String("activity_id", activity.ID),
		slog.String("type", string(activity.Type)),
		slog.Int("cascaded_parents", len(parents.cascadeOps())))
	return activity.ID, nil
}

func (s *activityService) RecordSystemActivity(ctx context.Context, event domain.SystemEvent, summary, details string, refs domain.ActivityRefs, actorID string) (string, error) {
	if event == "" {
		return "", validationError("system activity needs an event")
	}
	if refs.IsEmpty() {
		return "", validationError("activity must reference at least one parent")
	}

	parents, err := s.resolveParents(ctx, refs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve activity parents: %w", err)
	}

	activity := domain.Activity{
		ID:        uuid.NewString(),
		Type:      domain.ActivitySystem,
		Source:    domain.SourceSystem,
		Event:     event,
		Summary:   summary,
		Details:   details,
		CreatedBy: actorID,
	}
	parents.apply(&activity)
	doc := mapping.ActivityToDocument(activity)
	doc["occurredAt"] = portsrepo.ServerTimestamp
	doc["createdAt"] = portsrepo.ServerTimestamp

	ops := append([]portsrepo.BatchOp{createOp(domain.CollectionActivities, activity.ID, doc)}, parents.cascadeOps()...)
	if err := s.commitAtomic(ctx, "record system activity", ops); err != nil {
		return "", err
	}

	s.LogDebug(ctx, "System activity recorded", slog.String("activity_id", activity.ID), slog.String("event", string(event)))
	return activity.ID, nil
}

func (s *activityService) ListActivities(ctx context.Context, params dto.ListActivitiesParams) (*dto.ActivityPage, error) {
	pageSize := params.Limit
	if pageSize <= 0 {
		pageSize = defaultActivityPageSize
	}

	var filters []portsrepo.Filter
	addEq := func(field, value string) {
		if value != "" {
			filters = append(filters, portsrepo.Where(field, portsrepo.OpEqual, value))
		}
	}
	addEq("contactId", params.ContactID)
	addEq("companyId", params.CompanyID)
	addEq("dealId", params.DealID)
	addEq("workOrderId", params.WorkOrderID)
	addEq("type", string(params.Type))
	addEq("source", string(params.Source))

	newestFirst := []portsrepo.Order{
		{Field: "occurredAt", Direction: portsrepo.Descending},
		{Field: "id", Direction: portsrepo.Descending},
	}

	var activities []domain.Activity
	if params.PageToken == "" {
		page, err := listEntities[domain.Activity](ctx, s.store, portsrepo.Query{
			Collection: domain.CollectionActivities, Filters: filters, OrderBy: newestFirst, Limit: pageSize + 1,
		})
		if err != nil {
			return nil, err
		}
		activities = page
	} else {
		at, lastID, err := pagination.DecodeCursor(params.PageToken)
		if err != nil {
			return nil, validationError("%v", err)
		}
		// Rest of the items sharing the cursor timestamp, then everything older.
		sameInstant := append(append([]portsrepo.Filter{}, filters...),
			portsrepo.Where("occurredAt", portsrepo.OpEqual, at),
			portsrepo.Where("id", portsrepo.OpLess, lastID))
		page, err := listEntities[domain.Activity](ctx, s.store, portsrepo.Query{
			Collection: domain.CollectionActivities, Filters: sameInstant,
			OrderBy: []portsrepo.Order{{Field: "id", Direction: portsrepo.Descending}}, Limit: pageSize + 1,
		})
		if err != nil {
			return nil, err
		}
		activities = page
		if remaining := pageSize + 1 - len(activities); remaining > 0 {
			older := append(append([]portsrepo.Filter{}, filters...), portsrepo.Where("occurredAt", portsrepo.OpLess, at))
			rest, err := listEntities[domain.Activity](ctx, s.store, portsrepo.Query{
				Collection: domain.CollectionActivities, Filters: older, OrderBy: newestFirst, Limit: remaining,
			})
			if err != nil {
				return nil, err
			}
			activities = append(activities, rest...)
		}
	}

	result := &dto.ActivityPage{Items: activities}
	if len(activities) > pageSize {
		result.Items = activities[:pageSize]
		last := result.Items[pageSize-1]
		result.NextPageToken = pagination.EncodeCursor(last.OccurredAt, last.ID)
	}
	if result.Items == nil {
		result.Items = []domain.Activity{}
	}
	return result, nil
}

func (s *activityService) ListActivitiesByParent(ctx context.Context, kind domain.EntityKind, parentID string, limit int) ([]domain.Activity, error) {
	if strings.TrimSpace(parentID) == "" {
		return nil, validationError("parent id is required")
	}
	params := dto.ListActivitiesParams{Limit: limit}
	switch kind {
	case domain.KindContact:
		params.ContactID = parentID
	case domain.KindCompany:
		params.CompanyID = parentID
	case domain.KindDeal:
		params.DealID = parentID
	case domain.KindWorkOrder:
		params.WorkOrderID = parentID
	default:
		return nil, validationError("activities cannot be listed for %q", kind)
	}

	page, err := s.ListActivities(ctx, params)
	if err != nil {
		s.LogError(ctx, err, "Failed to list activities by parent", slog.String("kind", string(kind)), slog.String("parent_id", parentID))
		return nil, err
	}
	return page.Items, nil
}
