package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/utils/mapping"
	"github.com/google/uuid"
)

type timeEntryService struct {
	BaseService
}

// NewTimeEntryService creates a time entry service with the provided options
func NewTimeEntryService(store portsrepo.DocumentStore, options ...ServiceOption) portssvc.TimeEntrySvcFacade {
	return &timeEntryService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.TimeEntrySvcFacade = (*timeEntryService)(nil)

// entryRefs are the optional work references of a time entry with their titles.
type entryRefs struct {
	workOrderID, deliverableID, taskID          *string
	workOrderTitle, deliverableTitle, taskTitle string
}

func (r entryRefs) fields() portsrepo.Document {
	return portsrepo.Document{
		"workOrderId":      mapping.OptionalString(r.workOrderID),
		"workOrderTitle":   r.workOrderTitle,
		"deliverableId":    mapping.OptionalString(r.deliverableID),
		"deliverableTitle": r.deliverableTitle,
		"taskId":           mapping.OptionalString(r.taskID),
		"taskTitle":        r.taskTitle,
	}
}

// resolveRefs caches the titles of the referenced work items. Missing items
// keep their id with an empty title.
func (s *timeEntryService) resolveRefs(ctx context.Context, workOrderID, deliverableID, taskID *string) (entryRefs, error) {
	refs := entryRefs{
		workOrderID:   emptyToNil(workOrderID),
		deliverableID: emptyToNil(deliverableID),
		taskID:        emptyToNil(taskID),
	}
	workOrder, err := findEntity[domain.WorkOrder](ctx, s.store, domain.CollectionWorkOrders, refs.workOrderID)
	if err != nil {
		return refs, err
	}
	if workOrder != nil {
		refs.workOrderTitle = workOrder.Title
	}
	deliverable, err := findEntity[domain.Deliverable](ctx, s.store, domain.CollectionDeliverables, refs.deliverableID)
	if err != nil {
		return refs, err
	}
	if deliverable != nil {
		refs.deliverableTitle = deliverable.Title
	}
	task, err := findEntity[domain.Task](ctx, s.store, domain.CollectionTasks, refs.taskID)
	if err != nil {
		return refs, err
	}
	if task != nil {
		refs.taskTitle = task.Title
	}
	return refs, nil
}

func (s *timeEntryService) AddTimeEntry(ctx context.Context, req dto.CreateTimeEntryRequest, actorID string) (string, error) {
	if req.Date.IsZero() {
		return "", validationError("time entry date is required")
	}
	if req.DurationMinutes <= 0 {
		return "", validationError("duration must be positive")
	}
	userID := req.UserID
	if userID == "" {
		userID = actorID
	}
	refs, err := s.resolveRefs(ctx, req.WorkOrderID, req.DeliverableID, req.TaskID)
	if err != nil {
		return "", err
	}

	entry := domain.TimeEntry{
		ID:               uuid.NewString(),
		UserID:           userID,
		WorkOrderID:      refs.workOrderID,
		WorkOrderTitle:   refs.workOrderTitle,
		DeliverableID:    refs.deliverableID,
		DeliverableTitle: refs.deliverableTitle,
		TaskID:           refs.taskID,
		TaskTitle:        refs.taskTitle,
		Date:             req.Date,
		DurationMinutes:  req.DurationMinutes,
		Billable:         req.Billable,
		Notes:            req.Notes,
		WeekKey:          domain.WeekKey(req.Date.In(s.location)),
		Status:           domain.TimeEntryDraft,
	}
	doc := mapping.CreateAuditFields(mapping.TimeEntryToDocument(entry), actorID)
	if err := s.commitAtomic(ctx, "add time entry", []portsrepo.BatchOp{createOp(domain.CollectionTimeEntries, entry.ID, doc)}); err != nil {
		return "", err
	}
	s.LogInfo(ctx, "Time entry created", slog.String("time_entry_id", entry.ID), slog.String("week", entry.WeekKey))
	return entry.ID, nil
}

// draftOnly loads an entry and rejects it unless it is still a draft.
func (s *timeEntryService) draftOnly(ctx context.Context, id, action string) (*domain.TimeEntry, error) {
	entry, err := s.GetTimeEntryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.TimeEntryDraft {
		return nil, transitionError("cannot %s a %s time entry", action, entry.Status)
	}
	return entry, nil
}

func (s *timeEntryService) UpdateTimeEntry(ctx context.Context, id string, req dto.UpdateTimeEntryRequest, actorID string) error {
	entry, err := s.draftOnly(ctx, id, "update")
	if err != nil {
		return err
	}

	fields := portsrepo.Document{}
	if req.WorkOrderID != nil || req.DeliverableID != nil || req.TaskID != nil {
		pick := func(changed, current *string) *string {
			if changed != nil {
				return changed
			}
			return current
		}
		refs, err := s.resolveRefs(ctx,
			pick(req.WorkOrderID, entry.WorkOrderID),
			pick(req.DeliverableID, entry.DeliverableID),
			pick(req.TaskID, entry.TaskID))
		if err != nil {
			return err
		}
		for k, v := range refs.fields() {
			fields[k] = v
		}
	}
	if req.Date != nil {
		if req.Date.IsZero() {
			return validationError("time entry date cannot be empty")
		}
		fields["date"] = req.Date.UTC()
		fields["weekKey"] = domain.WeekKey(req.Date.In(s.location))
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return validationError("duration must be positive")
		}
		fields["durationMinutes"] = *req.DurationMinutes
	}
	if req.Billable != nil {
		fields["billable"] = *req.Billable
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if len(fields) == 0 {
		return nil
	}
	return s.commitAtomic(ctx, "update time entry", []portsrepo.BatchOp{
		updateOp(domain.CollectionTimeEntries, id, mapping.UpdateAuditFields(fields, actorID)),
	})
}

func (s *timeEntryService) DeleteTimeEntry(ctx context.Context, id string) error {
	if _, err := s.draftOnly(ctx, id, "delete"); err != nil {
		return err
	}
	return s.commitAtomic(ctx, "delete time entry", []portsrepo.BatchOp{deleteOp(domain.CollectionTimeEntries, id)})
}

// transition validates and applies a status change plus any extra fields.
func (s *timeEntryService) transition(ctx context.Context, id string, to domain.TimeEntryStatus, extra portsrepo.Document, actorID string) error {
	entry, err := s.GetTimeEntryByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.TimeEntryStatusMachine.Validate(entry.Status, to); err != nil {
		return err
	}
	fields := portsrepo.Document{"status": string(to)}
	for k, v := range extra {
		fields[k] = v
	}
	if err := s.commitAtomic(ctx, "time entry "+string(to), []portsrepo.BatchOp{
		updateOp(domain.CollectionTimeEntries, id, mapping.UpdateAuditFields(fields, actorID)),
	}); err != nil {
		return err
	}
	s.LogInfo(ctx, "Time entry status changed", slog.String("time_entry_id", id),
		slog.String("from", string(entry.Status)), slog.String("to", string(to)))
	return nil
}

func (s *timeEntryService) SubmitTimeEntry(ctx context.Context, id string, actorID string) error {
	return s.transition(ctx, id, domain.TimeEntrySubmitted, portsrepo.Document{"submittedAt": portsrepo.ServerTimestamp}, actorID)
}

func (s *timeEntryService) ApproveTimeEntry(ctx context.Context, id string, actorID string) error {
	return s.transition(ctx, id, domain.TimeEntryApproved, portsrepo.Document{
		"approvedAt": portsrepo.ServerTimestamp,
		"approvedBy": actorID,
	}, actorID)
}

// RejectTimeEntry sends a submitted entry back to draft for correction.
func (s *timeEntryService) RejectTimeEntry(ctx context.Context, id string, actorID string) error {
	return s.transition(ctx, id, domain.TimeEntryDraft, portsrepo.Document{"submittedAt": nil}, actorID)
}

func (s *timeEntryService) LockTimeEntry(ctx context.Context, id string, actorID string) error {
	return s.transition(ctx, id, domain.TimeEntryLocked, nil, actorID)
}

func (s *timeEntryService) GetTimeEntryByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	entry, err := getEntity[domain.TimeEntry](ctx, s.store, domain.CollectionTimeEntries, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get time entry", slog.String("time_entry_id", id))
		}
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) ListTimeEntries(ctx context.Context, params dto.ListTimeEntriesParams) ([]domain.TimeEntry, error) {
	q := portsrepo.Query{
		Collection: domain.CollectionTimeEntries,
		OrderBy:    []portsrepo.Order{{Field: "date", Direction: portsrepo.Descending}},
		Limit:      params.Limit,
	}
	for field, value := range map[string]string{
		"userId":      params.UserID,
		"workOrderId": params.WorkOrderID,
		"weekKey":     params.WeekKey,
		"status":      string(params.Status),
	} {
		if value != "" {
			q.Filters = append(q.Filters, portsrepo.Where(field, portsrepo.OpEqual, value))
		}
	}
	return listEntities[domain.TimeEntry](ctx, s.store, q)
}
