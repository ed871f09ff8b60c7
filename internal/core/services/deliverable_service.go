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

type deliverableService struct {
	BaseService
	renamer portssvc.RenameSvc
}

// NewDeliverableService creates a deliverable service with the provided options
func NewDeliverableService(store portsrepo.DocumentStore, renamer portssvc.RenameSvc, options ...ServiceOption) portssvc.DeliverableSvcFacade {
	return &deliverableService{BaseService: newBaseService(store, options...), renamer: renamer}
}

var _ portssvc.DeliverableSvcFacade = (*deliverableService)(nil)

func newDeliverable(workOrder *domain.WorkOrder, item dto.BulkDeliverableItem) (domain.Deliverable, error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return domain.Deliverable{}, validationError("deliverable title is required")
	}
	return domain.Deliverable{
		ID:             uuid.NewString(),
		WorkOrderID:    workOrder.ID,
		WorkOrderTitle: workOrder.Title,
		Title:          title,
		Description:    item.Description,
		Status:         domain.DeliverableNotStarted,
		DueDate:        item.DueDate,
	}, nil
}

func (s *deliverableService) AddDeliverable(ctx context.Context, req dto.CreateDeliverableRequest, actorID string) (string, error) {
	workOrder, err := getEntity[domain.WorkOrder](ctx, s.store, domain.CollectionWorkOrders, req.WorkOrderID)
	if err != nil {
		return "", fmt.Errorf("deliverable work order %s: %w", req.WorkOrderID, err)
	}
	deliverable, err := newDeliverable(workOrder, dto.BulkDeliverableItem{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return "", err
	}

	doc := mapping.CreateAuditFields(mapping.DeliverableToDocument(deliverable), actorID)
	if err := s.commitAtomic(ctx, "add deliverable", []portsrepo.BatchOp{createOp(domain.CollectionDeliverables, deliverable.ID, doc)}); err != nil {
		return "", err
	}
	s.LogInfo(ctx, "Deliverable created", slog.String("deliverable_id", deliverable.ID), slog.String("work_order_id", workOrder.ID))
	return deliverable.ID, nil
}

// BulkAddDeliverables seeds many deliverables. Large requests are split into
// several batches; on a partial commit the ids of the committed ones are
// returned with the error.
func (s *deliverableService) BulkAddDeliverables(ctx context.Context, req dto.BulkCreateDeliverablesRequest, actorID string) ([]string, error) {
	if len(req.Items) == 0 {
		return nil, validationError("at least one deliverable is required")
	}
	workOrder, err := getEntity[domain.WorkOrder](ctx, s.store, domain.CollectionWorkOrders, req.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("deliverable work order %s: %w", req.WorkOrderID, err)
	}

	ids := make([]string, 0, len(req.Items))
	ops := make([]portsrepo.BatchOp, 0, len(req.Items))
	for _, item := range req.Items {
		deliverable, err := newDeliverable(workOrder, item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, deliverable.ID)
		ops = append(ops, createOp(domain.CollectionDeliverables, deliverable.ID,
			mapping.CreateAuditFields(mapping.DeliverableToDocument(deliverable), actorID)))
	}

	if err := s.commit(ctx, "bulk add deliverables", ops); err != nil {
		var partial *apperrors.PartialCommitError
		if errors.As(err, &partial) {
			return ids[:committedOps(partial, s.store.MaxBatchOps(), len(ops))], err
		}
		return nil, err
	}
	s.LogInfo(ctx, "Deliverables created", slog.String("work_order_id", workOrder.ID), slog.Int("count", len(ids)))
	return ids, nil
}

// committedOps is how many leading ops landed before a partial commit failed.
func committedOps(partial *apperrors.PartialCommitError, chunkSize, total int) int {
	if chunkSize <= 0 {
		return 0
	}
	return min(partial.CommittedChunks*chunkSize, total)
}

func (s *deliverableService) UpdateDeliverable(ctx context.Context, id string, req dto.UpdateDeliverableRequest, actorID string) error {
	existing, err := s.GetDeliverableByID(ctx, id)
	if err != nil {
		return err
	}

	fields := portsrepo.Document{}
	newTitle := ""
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return validationError("deliverable title cannot be empty")
		}
		if title != existing.Title {
			fields["title"] = title
			newTitle = title
		}
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.DueDate != nil {
		fields["dueDate"] = req.DueDate.UTC()
	}
	if len(fields) == 0 {
		return nil
	}

	own := updateOp(domain.CollectionDeliverables, id, mapping.UpdateAuditFields(fields, actorID))
	if newTitle == "" {
		return s.commitAtomic(ctx, "update deliverable", []portsrepo.BatchOp{own})
	}
	ops, err := renameOps(ctx, s.renamer, domain.KindDeliverable, own, newTitle)
	if err != nil {
		return fmt.Errorf("failed to plan deliverable rename: %w", err)
	}
	return s.commit(ctx, "rename deliverable", ops)
}

func (s *deliverableService) UpdateDeliverableStatus(ctx context.Context, id string, status domain.DeliverableStatus, actorID string) error {
	deliverable, err := s.GetDeliverableByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.DeliverableStatusMachine.Validate(deliverable.Status, status); err != nil {
		return err
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{"status": string(status)}, actorID)
	if err := s.commitAtomic(ctx, "update deliverable status", []portsrepo.BatchOp{updateOp(domain.CollectionDeliverables, id, fields)}); err != nil {
		return err
	}
	s.LogInfo(ctx, "Deliverable status changed", slog.String("deliverable_id", id), slog.String("status", string(status)))
	return nil
}

func (s *deliverableService) DeleteDeliverable(ctx context.Context, id string) error {
	if _, err := s.GetDeliverableByID(ctx, id); err != nil {
		return err
	}
	return s.commitAtomic(ctx, "delete deliverable", []portsrepo.BatchOp{deleteOp(domain.CollectionDeliverables, id)})
}

func (s *deliverableService) GetDeliverableByID(ctx context.Context, id string) (*domain.Deliverable, error) {
	deliverable, err := getEntity[domain.Deliverable](ctx, s.store, domain.CollectionDeliverables, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get deliverable", slog.String("deliverable_id", id))
		}
		return nil, err
	}
	return deliverable, nil
}

func (s *deliverableService) ListDeliverables(ctx context.Context, params dto.ListDeliverablesParams) ([]domain.Deliverable, error) {
	q := portsrepo.Query{
		Collection: domain.CollectionDeliverables,
		OrderBy:    []portsrepo.Order{{Field: "createdAt"}},
		Limit:      params.Limit,
	}
	if params.WorkOrderID != "" {
		q.Filters = append(q.Filters, portsrepo.Where("workOrderId", portsrepo.OpEqual, params.WorkOrderID))
	}
	if params.Status != "" {
		q.Filters = append(q.Filters, portsrepo.Where("status", portsrepo.OpEqual, string(params.Status)))
	}
	return listEntities[domain.Deliverable](ctx, s.store, q)
}
