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

type dealService struct {
	BaseService
	renamer portssvc.RenameSvc
}

// NewDealService creates a deal service with the provided options
func NewDealService(store portsrepo.DocumentStore, renamer portssvc.RenameSvc, options ...ServiceOption) portssvc.DealSvcFacade {
	return &dealService{BaseService: newBaseService(store, options...), renamer: renamer}
}

var _ portssvc.DealSvcFacade = (*dealService)(nil)

func (s *dealService) companyName(ctx context.Context, companyID string) (string, error) {
	company, err := findEntity[domain.Company](ctx, s.store, domain.CollectionCompanies, &companyID)
	if err != nil || company == nil {
		return "", err
	}
	return company.Name, nil
}

func (s *dealService) contactName(ctx context.Context, contactID *string) (string, error) {
	contact, err := findEntity[domain.Contact](ctx, s.store, domain.CollectionContacts, contactID)
	if err != nil || contact == nil {
		return "", err
	}
	return contact.FullName, nil
}

// lostReasonFor keeps a lost reason only on lost deals.
func lostReasonFor(stage domain.DealStage, reason *string) *string {
	if stage != domain.DealLost {
		return nil
	}
	return emptyToNil(reason)
}

func (s *dealService) AddDeal(ctx context.Context, req dto.CreateDealRequest, actorID string) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", validationError("deal title is required")
	}
	companyID := strings.TrimSpace(req.CompanyID)
	if companyID == "" {
		return "", validationError("deal company is required")
	}
	stage := req.Stage
	if stage == "" {
		stage = domain.DealLead
	}
	if !domain.DealStageMachine.Known(stage) {
		return "", validationError("unknown deal stage %q", stage)
	}
	if req.EstimatedBudgetMinor < 0 {
		return "", validationError("estimated budget cannot be negative")
	}
	nextAction := domain.NormalizeNextAction(req.NextAction)
	if err := domain.ValidateNextActionPair(nextAction, req.NextActionDate); err != nil {
		return "", err
	}

	companyName, err := s.companyName(ctx, companyID)
	if err != nil {
		return "", err
	}
	contactID := emptyToNil(req.PrimaryContactID)
	contactName, err := s.contactName(ctx, contactID)
	if err != nil {
		return "", err
	}

	deal := domain.Deal{
		ID:                   uuid.NewString(),
		Title:                title,
		CompanyID:            companyID,
		CompanyName:          companyName,
		PrimaryContactID:     contactID,
		PrimaryContactName:   contactName,
		Stage:                stage,
		LostReason:           lostReasonFor(stage, req.LostReason),
		Currency:             strings.ToUpper(req.Currency),
		EstimatedBudgetMinor: req.EstimatedBudgetMinor,
		ExpectedCloseDate:    req.ExpectedCloseDate,
		NextAction:           nextAction,
		NextActionDate:       req.NextActionDate,
	}
	doc := mapping.CreateAuditFields(mapping.DealToDocument(deal), actorID)
	if err := s.commitAtomic(ctx, "add deal", []portsrepo.BatchOp{createOp(domain.CollectionDeals, deal.ID, doc)}); err != nil {
		return "", err
	}

	s.LogInfo(ctx, "Deal created", slog.String("deal_id", deal.ID), slog.String("stage", string(stage)))
	return deal.ID, nil
}

func (s *dealService) UpdateDeal(ctx context.Context, id string, req dto.UpdateDealRequest, actorID string) error {
	existing, err := s.GetDealByID(ctx, id)
	if err != nil {
		return err
	}

	fields := portsrepo.Document{}
	newTitle := ""
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return validationError("deal title cannot be empty")
		}
		if title != existing.Title {
			fields["title"] = title
			newTitle = title
		}
	}
	if req.CompanyID != nil {
		companyID := strings.TrimSpace(*req.CompanyID)
		if companyID == "" {
			return validationError("deal company cannot be removed")
		}
		name, err := s.companyName(ctx, companyID)
		if err != nil {
			return err
		}
		fields["companyId"] = companyID
		fields["companyName"] = name
	}
	if req.PrimaryContactID != nil {
		contactID := emptyToNil(req.PrimaryContactID)
		name, err := s.contactName(ctx, contactID)
		if err != nil {
			return err
		}
		fields["primaryContactId"] = mapping.OptionalString(contactID)
		fields["primaryContactName"] = name
	}
	if req.Currency != nil {
		fields["currency"] = strings.ToUpper(*req.Currency)
	}
	if req.EstimatedBudgetMinor != nil {
		if *req.EstimatedBudgetMinor < 0 {
			return validationError("estimated budget cannot be negative")
		}
		fields["estimatedBudgetMinor"] = *req.EstimatedBudgetMinor
	}
	if req.ExpectedCloseDate != nil {
		fields["expectedCloseDate"] = req.ExpectedCloseDate.UTC()
	}
	if len(fields) == 0 {
		return nil
	}

	own := updateOp(domain.CollectionDeals, id, mapping.UpdateAuditFields(fields, actorID))
	if newTitle == "" {
		return s.commitAtomic(ctx, "update deal", []portsrepo.BatchOp{own})
	}
	ops, err := renameOps(ctx, s.renamer, domain.KindDeal, own, newTitle)
	if err != nil {
		return fmt.Errorf("failed to plan deal rename: %w", err)
	}
	if err := s.commit(ctx, "rename deal", ops); err != nil {
		return err
	}
	s.LogInfo(ctx, "Deal renamed", slog.String("deal_id", id), slog.Int("dependent_updates", len(ops)-1))
	return nil
}

func (s *dealService) UpdateDealStage(ctx context.Context, id string, req dto.UpdateDealStageRequest, actorID string) error {
	deal, err := s.GetDealByID(ctx, id)
	if err != nil {
		return err
	}
	lostReason := lostReasonFor(req.Stage, req.LostReason)
	if deal.Stage == req.Stage && ptrEqual(deal.LostReason, lostReason) {
		return nil
	}
	if deal.Stage == req.Stage {
		// Only the lost reason differs.
		fields := mapping.UpdateAuditFields(portsrepo.Document{"lostReason": mapping.OptionalString(lostReason)}, actorID)
		if err := s.commitAtomic(ctx, "update lost reason", []portsrepo.BatchOp{updateOp(domain.CollectionDeals, id, fields)}); err != nil {
			return err
		}
		s.LogInfo(ctx, "Deal lost reason updated", slog.String("deal_id", id))
		return nil
	}
	if err := domain.DealStageMachine.Validate(deal.Stage, req.Stage); err != nil {
		return err
	}

	fields := mapping.UpdateAuditFields(portsrepo.Document{
		"stage":      string(req.Stage),
		"lostReason": mapping.OptionalString(lostReason),
	}, actorID)
	if err := s.commitAtomic(ctx, "update deal stage", []portsrepo.BatchOp{updateOp(domain.CollectionDeals, id, fields)}); err != nil {
		return err
	}
	s.LogInfo(ctx, "Deal stage changed", slog.String("deal_id", id),
		slog.String("from", string(deal.Stage)), slog.String("to", string(req.Stage)))

	details := ""
	if lostReason != nil {
		details = "Lost reason: " + *lostReason
	}
	s.recordEvent(ctx, domain.EventDealStageChanged,
		fmt.Sprintf("%s moved from %s to %s", deal.Title, deal.Stage, req.Stage), details,
		domain.ActivityRefs{DealID: &deal.ID, CompanyID: stringPtr(deal.CompanyID)}, actorID)
	return nil
}

func (s *dealService) ArchiveDeal(ctx context.Context, id string, archived bool, actorID string) error {
	if _, err := s.GetDealByID(ctx, id); err != nil {
		return err
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{"isArchived": archived}, actorID)
	return s.commitAtomic(ctx, "archive deal", []portsrepo.BatchOp{updateOp(domain.CollectionDeals, id, fields)})
}

func (s *dealService) DeleteDeal(ctx context.Context, id string) error {
	if _, err := s.GetDealByID(ctx, id); err != nil {
		return err
	}
	if err := s.commitAtomic(ctx, "delete deal", []portsrepo.BatchOp{deleteOp(domain.CollectionDeals, id)}); err != nil {
		return err
	}
	s.LogInfo(ctx, "Deal deleted", slog.String("deal_id", id))
	return nil
}

func (s *dealService) GetDealByID(ctx context.Context, id string) (*domain.Deal, error) {
	deal, err := getEntity[domain.Deal](ctx, s.store, domain.CollectionDeals, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get deal", slog.String("deal_id", id))
		}
		return nil, err
	}
	return deal, nil
}

func (s *dealService) ListDeals(ctx context.Context, params dto.ListDealsParams) ([]domain.Deal, error) {
	q := portsrepo.Query{
		Collection: domain.CollectionDeals,
		OrderBy:    []portsrepo.Order{{Field: "updatedAt", Direction: portsrepo.Descending}},
		Limit:      params.Limit,
	}
	if params.CompanyID != "" {
		q.Filters = append(q.Filters, portsrepo.Where("companyId", portsrepo.OpEqual, params.CompanyID))
	}
	if params.Stage != "" {
		q.Filters = append(q.Filters, portsrepo.Where("stage", portsrepo.OpEqual, string(params.Stage)))
	}
	if !params.IncludeArchived {
		q.Filters = append(q.Filters, portsrepo.Where("isArchived", portsrepo.OpEqual, false))
	}
	return listEntities[domain.Deal](ctx, s.store, q)
}

func (s *dealService) UpdateNextAction(ctx context.Context, id string, req dto.UpdateNextActionRequest, actorID string) error {
	deal, err := s.GetDealByID(ctx, id)
	if err != nil {
		return err
	}
	return s.trackNextAction(ctx, domain.CollectionDeals, id, "deal "+deal.Title,
		deal.NextAction, deal.NextActionDate, req.NextAction, req.NextActionDate,
		domain.ActivityRefs{DealID: &deal.ID, CompanyID: stringPtr(deal.CompanyID)}, actorID)
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
