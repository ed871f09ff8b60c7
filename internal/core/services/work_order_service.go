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

type workOrderService struct {
	BaseService
	renamer portssvc.RenameSvc
}

// NewWorkOrderService creates a work order service with the provided options
func NewWorkOrderService(store portsrepo.DocumentStore, renamer portssvc.RenameSvc, options ...ServiceOption) portssvc.WorkOrderSvcFacade {
	return &workOrderService{BaseService: newBaseService(store, options...), renamer: renamer}
}

var _ portssvc.WorkOrderSvcFacade = (*workOrderService)(nil)

func workOrderRefs(w *domain.WorkOrder) domain.ActivityRefs {
	return domain.ActivityRefs{
		WorkOrderID: stringPtr(w.ID),
		CompanyID:   emptyToNil(stringPtr(w.CompanyID)),
		DealID:      w.DealID,
	}
}

func (s *workOrderService) AddWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest, actorID string) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", validationError("work order title is required")
	}

	workOrder := domain.WorkOrder{
		ID:                 uuid.NewString(),
		Title:              title,
		CompanyID:          strings.TrimSpace(req.CompanyID),
		DealID:             emptyToNil(req.DealID),
		Status:             domain.WorkOrderActive,
		PaymentStatus:      domain.PaymentUnplanned,
		TargetDeliveryDate: req.TargetDeliveryDate,
	}
	deal, err := findEntity[domain.Deal](ctx, s.store, domain.CollectionDeals, workOrder.DealID)
	if err != nil {
		return "", err
	}
	if deal != nil {
		workOrder.DealTitle = deal.Title
		if workOrder.CompanyID == "" {
			workOrder.CompanyID = deal.CompanyID
		}
	}
	if workOrder.CompanyID == "" {
		return "", validationError("work order company is required")
	}
	company, err := findEntity[domain.Company](ctx, s.store, domain.CollectionCompanies, &workOrder.CompanyID)
	if err != nil {
		return "", err
	}
	if company != nil {
		workOrder.CompanyName = company.Name
	}

	doc := mapping.CreateAuditFields(mapping.WorkOrderToDocument(workOrder), actorID)
	if err := s.commitAtomic(ctx, "add work order", []portsrepo.BatchOp{createOp(domain.CollectionWorkOrders, workOrder.ID, doc)}); err != nil {
		return "", err
	}

	s.LogInfo(ctx, "Work order created", slog.String("work_order_id", workOrder.ID))
	s.recordEvent(ctx, domain.EventWorkOrderCreated, fmt.Sprintf("Work order %q created", workOrder.Title), "",
		workOrderRefs(&workOrder), actorID)
	return workOrder.ID, nil
}

// CreateFromProposal opens a work order for an accepted proposal and seeds one
// deliverable per line item. The work order is in the first chunk, so on a
// partial commit its id is still returned alongside the error.
func (s *workOrderService) CreateFromProposal(ctx context.Context, proposalID string, req dto.CreateWorkOrderFromProposalRequest, actorID string) (string, error) {
	proposal, err := getEntity[domain.Proposal](ctx, s.store, domain.CollectionProposals, proposalID)
	if err != nil {
		return "", err
	}
	if proposal.Status != domain.ProposalAccepted {
		return "", transitionError("work orders can only be created from accepted proposals, this one is %s", proposal.Status)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = proposal.Title
	}
	workOrder := domain.WorkOrder{
		ID:                 uuid.NewString(),
		Title:              title,
		CompanyID:          proposal.CompanyID,
		CompanyName:        proposal.CompanyName,
		DealID:             stringPtr(proposal.DealID),
		DealTitle:          proposal.DealTitle,
		ProposalID:         stringPtr(proposal.ID),
		Status:             domain.WorkOrderActive,
		PaymentStatus:      domain.PaymentUnplanned,
		TargetDeliveryDate: req.TargetDeliveryDate,
	}

	ops := make([]portsrepo.BatchOp, 0, len(proposal.Items)+1)
	ops = append(ops, createOp(domain.CollectionWorkOrders, workOrder.ID,
		mapping.CreateAuditFields(mapping.WorkOrderToDocument(workOrder), actorID)))
	for _, item := range proposal.Items {
		deliverable := domain.Deliverable{
			ID:             uuid.NewString(),
			WorkOrderID:    workOrder.ID,
			WorkOrderTitle: workOrder.Title,
			Title:          item.Title,
			Description:    item.Description,
			Status:         domain.DeliverableNotStarted,
			DueDate:        req.TargetDeliveryDate,
		}
		ops = append(ops, createOp(domain.CollectionDeliverables, deliverable.ID,
			mapping.CreateAuditFields(mapping.DeliverableToDocument(deliverable), actorID)))
	}

	if err := s.commit(ctx, "create work order from proposal", ops); err != nil {
		if errors.Is(err, apperrors.ErrPartialCommit) {
			return workOrder.ID, err
		}
		return "", err
	}

	s.LogInfo(ctx, "Work order created from proposal",
		slog.String("work_order_id", workOrder.ID),
		slog.String("proposal_id", proposal.ID),
		slog.Int("deliverables", len(proposal.Items)))
	s.recordEvent(ctx, domain.EventWorkOrderCreated,
		fmt.Sprintf("Work order %q created from proposal v%d", workOrder.Title, proposal.Version),
		fmt.Sprintf("%d deliverables seeded", len(proposal.Items)), workOrderRefs(&workOrder), actorID)
	return workOrder.ID, nil
}

func (s *workOrderService) UpdateWorkOrder(ctx context.Context, id string, req dto.UpdateWorkOrderRequest, actorID string) error {
	existing, err := s.GetWorkOrderByID(ctx, id)
	if err != nil {
		return err
	}

	fields := portsrepo.Document{}
	newTitle := ""
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return validationError("work order title cannot be empty")
		}
		if title != existing.Title {
			fields["title"] = title
			newTitle = title
		}
	}
	if req.DealID != nil {
		dealID := emptyToNil(req.DealID)
		deal, err := findEntity[domain.Deal](ctx, s.store, domain.CollectionDeals, dealID)
		if err != nil {
			return err
		}
		fields["dealId"] = mapping.OptionalString(dealID)
		fields["dealTitle"] = ""
		if deal != nil {
			fields["dealTitle"] = deal.Title
		}
	}
	if req.TargetDeliveryDate != nil {
		fields["targetDeliveryDate"] = req.TargetDeliveryDate.UTC()
	}
	if len(fields) == 0 {
		return nil
	}

	own := updateOp(domain.CollectionWorkOrders, id, mapping.UpdateAuditFields(fields, actorID))
	if newTitle == "" {
		return s.commitAtomic(ctx, "update work order", []portsrepo.BatchOp{own})
	}
	ops, err := renameOps(ctx, s.renamer, domain.KindWorkOrder, own, newTitle)
	if err != nil {
		return fmt.Errorf("failed to plan work order rename: %w", err)
	}
	if err := s.commit(ctx, "rename work order", ops); err != nil {
		return err
	}
	s.LogInfo(ctx, "Work order renamed", slog.String("work_order_id", id), slog.Int("dependent_updates", len(ops)-1))
	return nil
}

func (s *workOrderService) UpdateWorkOrderStatus(ctx context.Context, id string, status domain.WorkOrderStatus, actorID string) error {
	workOrder, err := s.GetWorkOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.WorkOrderStatusMachine.Validate(workOrder.Status, status); err != nil {
		return err
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{"status": string(status)}, actorID)
	if err := s.commitAtomic(ctx, "update work order status", []portsrepo.BatchOp{updateOp(domain.CollectionWorkOrders, id, fields)}); err != nil {
		return err
	}
	s.recordEvent(ctx, domain.EventWorkOrderStatus,
		fmt.Sprintf("Work order %q moved from %s to %s", workOrder.Title, workOrder.Status, status), "",
		workOrderRefs(workOrder), actorID)
	return nil
}

func (s *workOrderService) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, actorID string) error {
	workOrder, err := s.GetWorkOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.PaymentStatusMachine.Validate(workOrder.PaymentStatus, status); err != nil {
		return err
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{"paymentStatus": string(status)}, actorID)
	if err := s.commitAtomic(ctx, "update payment status", []portsrepo.BatchOp{updateOp(domain.CollectionWorkOrders, id, fields)}); err != nil {
		return err
	}
	s.recordEvent(ctx, domain.EventWorkOrderPayment,
		fmt.Sprintf("Payment for %q moved from %s to %s", workOrder.Title, workOrder.PaymentStatus, status), "",
		workOrderRefs(workOrder), actorID)
	return nil
}

func (s *workOrderService) ArchiveWorkOrder(ctx context.Context, id string, archived bool, actorID string) error {
	if _, err := s.GetWorkOrderByID(ctx, id); err != nil {
		return err
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{"isArchived": archived}, actorID)
	return s.commitAtomic(ctx, "archive work order", []portsrepo.BatchOp{updateOp(domain.CollectionWorkOrders, id, fields)})
}

func (s *workOrderService) DeleteWorkOrder(ctx context.Context, id string) error {
	if _, err := s.GetWorkOrderByID(ctx, id); err != nil {
		return err
	}
	if err := s.commitAtomic(ctx, "delete work order", []portsrepo.BatchOp{deleteOp(domain.CollectionWorkOrders, id)}); err != nil {
		return err
	}
	s.LogInfo(ctx, "Work order deleted", slog.String("work_order_id", id))
	return nil
}

func (s *workOrderService) GetWorkOrderByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	workOrder, err := getEntity[domain.WorkOrder](ctx, s.store, domain.CollectionWorkOrders, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get work order", slog.String("work_order_id", id))
		}
		return nil, err
	}
	return workOrder, nil
}

func (s *workOrderService) ListWorkOrders(ctx context.Context, params dto.ListWorkOrdersParams) ([]domain.WorkOrder, error) {
	q := portsrepo.Query{
		Collection: domain.CollectionWorkOrders,
		OrderBy:    []portsrepo.Order{{Field: "targetDeliveryDate"}},
		Limit:      params.Limit,
	}
	if params.CompanyID != "" {
		q.Filters = append(q.Filters, portsrepo.Where("companyId", portsrepo.OpEqual, params.CompanyID))
	}
	if params.Status != "" {
		q.Filters = append(q.Filters, portsrepo.Where("status", portsrepo.OpEqual, string(params.Status)))
	}
	if !params.IncludeArchived {
		q.Filters = append(q.Filters, portsrepo.Where("isArchived", portsrepo.OpEqual, false))
	}
	return listEntities[domain.WorkOrder](ctx, s.store, q)
}
