package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/dto"
	"github.com/SscSPs/salesops_app/internal/utils/mapping"
	"github.com/google/uuid"
)

type taskService struct {
	BaseService
	renamer portssvc.RenameSvc
}

// NewTaskService creates a task service with the provided options
func NewTaskService(store portsrepo.DocumentStore, renamer portssvc.RenameSvc, options ...ServiceOption) portssvc.TaskSvcFacade {
	return &taskService{BaseService: newBaseService(store, options...), renamer: renamer}
}

var _ portssvc.TaskSvcFacade = (*taskService)(nil)

// blockedReasonFor keeps a reason only on blocked tasks.
func blockedReasonFor(status domain.TaskStatus, reason *string) *string {
	if status != domain.TaskBlocked {
		return nil
	}
	return emptyToNil(reason)
}

// deliverableTitle checks that a deliverable belongs to the work order and
// returns its title. A deliverable that no longer exists resolves to "".
func (s *taskService) deliverableTitle(ctx context.Context, workOrderID string, deliverableID *string) (string, error) {
	deliverable, err := findEntity[domain.Deliverable](ctx, s.store, domain.CollectionDeliverables, deliverableID)
	if err != nil || deliverable == nil {
		return "", err
	}
	if deliverable.WorkOrderID != workOrderID {
		return "", validationError("deliverable %s belongs to another work order", deliverable.ID)
	}
	return deliverable.Title, nil
}

// newTask builds a backlog task on workOrder. deliverableTitle has already
// been resolved against the same work order.
func newTask(workOrder *domain.WorkOrder, req dto.BulkTaskItem, deliverableTitle string) (domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Task{}, validationError("task title is required")
	}
	status := req.Status
	if status == "" {
		status = domain.TaskBacklog
	}
	if !domain.TaskStatusMachine.Known(status) {
		return domain.Task{}, validationError("unknown task status %q", status)
	}
	return domain.Task{
		ID:               uuid.NewString(),
		WorkOrderID:      workOrder.ID,
		WorkOrderTitle:   workOrder.Title,
		DeliverableID:    emptyToNil(req.DeliverableID),
		DeliverableTitle: deliverableTitle,
		Title:            title,
		Status:           status,
		BlockedReason:    blockedReasonFor(status, req.BlockedReason),
		AssigneeID:       emptyToNil(req.AssigneeID),
		DueDate:          req.DueDate,
	}, nil
}

func (s *taskService) AddTask(ctx context.Context, req dto.CreateTaskRequest, actorID string) (string, error) {
	item := req.AsBulkItem()
	if strings.TrimSpace(item.Title) == "" {
		return "", validationError("task title is required")
	}
	workOrder, err := getEntity[domain.WorkOrder](ctx, s.store, domain.CollectionWorkOrders, req.WorkOrderID)
	if err != nil {
		return "", fmt.Errorf("task work order %s: %w", req.WorkOrderID, err)
	}
	deliverableTitle, err := s.deliverableTitle(ctx, workOrder.ID, emptyToNil(item.DeliverableID))
	if err != nil {
		return "", err
	}
	task, err := newTask(workOrder, item, deliverableTitle)
	if err != nil {
		return "", err
	}

	doc := mapping.CreateAuditFields(mapping.TaskToDocument(task), actorID)
	if err := s.commitAtomic(ctx, "add task", []portsrepo.BatchOp{createOp(domain.CollectionTasks, task.ID, doc)}); err != nil {
		return "", err
	}
	s.LogInfo(ctx, "Task created", slog.String("task_id", task.ID), slog.String("work_order_id", workOrder.ID))
	return task.ID, nil
}

// BulkAddTasks seeds many tasks on one work order. Like bulk deliverables,
// large requests span several batches and a partial commit returns the ids
// that landed together with the error.
func (s *taskService) BulkAddTasks(ctx context.Context, req dto.BulkCreateTasksRequest, actorID string) ([]string, error) {
	if len(req.Items) == 0 {
		return nil, validationError("at least one task is required")
	}
	workOrder, err := getEntity[domain.WorkOrder](ctx, s.store, domain.CollectionWorkOrders, req.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("task work order %s: %w", req.WorkOrderID, err)
	}

	titles := map[string]string{}
	ids := make([]string, 0, len(req.Items))
	ops := make([]portsrepo.BatchOp, 0, len(req.Items))
	for _, item := range req.Items {
		deliverableTitle := ""
		if deliverableID := emptyToNil(item.DeliverableID); deliverableID != nil {
			cached, ok := titles[*deliverableID]
			if !ok {
				if cached, err = s.deliverableTitle(ctx, workOrder.ID, deliverableID); err != nil {
					return nil, err
				}
				titles[*deliverableID] = cached
			}
			deliverableTitle = cached
		}
		task, err := newTask(workOrder, item, deliverableTitle)
		if err != nil {
			return nil, err
		}
		ids = append(ids, task.ID)
		ops = append(ops, createOp(domain.CollectionTasks, task.ID,
			mapping.CreateAuditFields(mapping.TaskToDocument(task), actorID)))
	}

	if err := s.commit(ctx, "bulk add tasks", ops); err != nil {
		var partial *apperrors.PartialCommitError
		if errors.As(err, &partial) {
			return ids[:committedOps(partial, s.store.MaxBatchOps(), len(ops))], err
		}
		return nil, err
	}
	s.LogInfo(ctx, "Tasks created", slog.String("work_order_id", workOrder.ID), slog.Int("count", len(ids)))
	return ids, nil
}

func (s *taskService) UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest, actorID string) error {
	existing, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}

	fields := portsrepo.Document{}
	newTitle := ""
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return validationError("task title cannot be empty")
		}
		if title != existing.Title {
			fields["title"] = title
			newTitle = title
		}
	}
	if req.DeliverableID != nil {
		deliverableID := emptyToNil(req.DeliverableID)
		deliverableTitle, err := s.deliverableTitle(ctx, existing.WorkOrderID, deliverableID)
		if err != nil {
			return err
		}
		fields["deliverableId"] = mapping.OptionalString(deliverableID)
		fields["deliverableTitle"] = deliverableTitle
	}
	if req.AssigneeID != nil {
		fields["assigneeId"] = mapping.OptionalString(emptyToNil(req.AssigneeID))
	}
	if req.DueDate != nil {
		fields["dueDate"] = req.DueDate.UTC()
	}
	if len(fields) == 0 {
		return nil
	}

	own := updateOp(domain.CollectionTasks, id, mapping.UpdateAuditFields(fields, actorID))
	if newTitle == "" {
		return s.commitAtomic(ctx, "update task", []portsrepo.BatchOp{own})
	}
	ops, err := renameOps(ctx, s.renamer, domain.KindTask, own, newTitle)
	if err != nil {
		return fmt.Errorf("failed to plan task rename: %w", err)
	}
	return s.commit(ctx, "rename task", ops)
}

func (s *taskService) UpdateTaskStatus(ctx context.Context, id string, req dto.UpdateTaskStatusRequest, actorID string) error {
	task, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return err
	}
	if task.Status != req.Status {
		if err := domain.TaskStatusMachine.Validate(task.Status, req.Status); err != nil {
			return err
		}
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{
		"status":        string(req.Status),
		"blockedReason": mapping.OptionalString(blockedReasonFor(req.Status, req.BlockedReason)),
	}, actorID)
	if err := s.commitAtomic(ctx, "update task status", []portsrepo.BatchOp{updateOp(domain.CollectionTasks, id, fields)}); err != nil {
		return err
	}
	s.LogInfo(ctx, "Task status changed", slog.String("task_id", id), slog.String("status", string(req.Status)))
	return nil
}

func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.GetTaskByID(ctx, id); err != nil {
		return err
	}
	return s.commitAtomic(ctx, "delete task", []portsrepo.BatchOp{deleteOp(domain.CollectionTasks, id)})
}

func (s *taskService) GetTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := getEntity[domain.Task](ctx, s.store, domain.CollectionTasks, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get task", slog.String("task_id", id))
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, params dto.ListTasksParams) ([]domain.Task, error) {
	q := portsrepo.Query{
		Collection: domain.CollectionTasks,
		OrderBy:    []portsrepo.Order{{Field: "createdAt"}},
		Limit:      params.Limit,
	}
	for field, value := range map[string]string{
		"workOrderId":   params.WorkOrderID,
		"deliverableId": params.DeliverableID,
		"assigneeId":    params.AssigneeID,
		"status":        string(params.Status),
	} {
		if value != "" {
			q.Filters = append(q.Filters, portsrepo.Where(field, portsrepo.OpEqual, value))
		}
	}
	return listEntities[domain.Task](ctx, s.store, q)
}
