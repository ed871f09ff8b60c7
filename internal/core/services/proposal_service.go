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
	"github.com/SscSPs/salesops_app/internal/utils/accounting"
	"github.com/SscSPs/salesops_app/internal/utils/mapping"
	"github.com/google/uuid"
)

type proposalService struct {
	BaseService
}

// NewProposalService creates a proposal service with the provided options
func NewProposalService(store portsrepo.DocumentStore, options ...ServiceOption) portssvc.ProposalSvcFacade {
	return &proposalService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.ProposalSvcFacade = (*proposalService)(nil)

func validateLineItems(items []domain.LineItem) error {
	for i, item := range items {
		if strings.TrimSpace(item.Title) == "" {
			return validationError("line %d: title is required", i+1)
		}
		if item.Quantity <= 0 {
			return validationError("line %d: quantity must be positive", i+1)
		}
		if item.TaxRate < 0 || item.TaxRate > 100 {
			return validationError("line %d: tax rate must be between 0 and 100", i+1)
		}
	}
	return nil
}

// nextVersion returns the version the deal's next proposal gets. The deal's
// counter wins over the stored proposals so a deleted latest version is never
// reissued.
func (s *proposalService) nextVersion(ctx context.Context, deal *domain.Deal, dealID string) (int, error) {
	latest, err := listEntities[domain.Proposal](ctx, s.store, portsrepo.Query{
		Collection: domain.CollectionProposals,
		Filters:    []portsrepo.Filter{portsrepo.Where("dealId", portsrepo.OpEqual, dealID)},
		OrderBy:    []portsrepo.Order{{Field: "version", Direction: portsrepo.Descending}},
		Limit:      1,
	})
	if err != nil {
		return 0, err
	}
	last := 0
	if deal != nil {
		last = deal.LastProposalVersion
	}
	if len(latest) > 0 && latest[0].Version > last {
		last = latest[0].Version
	}
	return last + 1, nil
}

// versionOps creates the proposal and bumps the deal's version counter in
// the same batch. A deal that no longer exists gets no counter update.
func versionOps(deal *domain.Deal, proposalID string, doc portsrepo.Document, version int, actorID string) []portsrepo.BatchOp {
	ops := []portsrepo.BatchOp{createOp(domain.CollectionProposals, proposalID, doc)}
	if deal != nil {
		ops = append(ops, updateOp(domain.CollectionDeals, deal.ID,
			mapping.UpdateAuditFields(portsrepo.Document{"lastProposalVersion": version}, actorID)))
	}
	return ops
}

func proposalRefs(p *domain.Proposal) domain.ActivityRefs {
	return domain.ActivityRefs{DealID: stringPtr(p.DealID), CompanyID: emptyToNil(stringPtr(p.CompanyID))}
}

func (s *proposalService) CreateProposal(ctx context.Context, req dto.CreateProposalRequest, actorID string) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", validationError("proposal title is required")
	}
	items := dto.ToLineItems(req.Items)
	if err := validateLineItems(items); err != nil {
		return "", err
	}
	deal, err := getEntity[domain.Deal](ctx, s.store, domain.CollectionDeals, req.DealID)
	if err != nil {
		return "", fmt.Errorf("proposal deal %s: %w", req.DealID, err)
	}
	version, err := s.nextVersion(ctx, deal, deal.ID)
	if err != nil {
		return "", err
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = deal.Currency
	}

	proposal := domain.Proposal{
		ID:               uuid.NewString(),
		DealID:           deal.ID,
		DealTitle:        deal.Title,
		CompanyID:        deal.CompanyID,
		CompanyName:      deal.CompanyName,
		Title:            title,
		Version:          version,
		Status:           domain.ProposalDraft,
		Currency:         currency,
		Items:            items,
		PricesIncludeTax: req.PricesIncludeTax,
		ProposalTotals:   accounting.CalculateProposalTotals(items, req.PricesIncludeTax),
		Notes:            req.Notes,
		ValidUntil:       req.ValidUntil,
	}
	doc := mapping.CreateAuditFields(mapping.ProposalToDocument(proposal), actorID)
	if err := s.commitAtomic(ctx, "create proposal", versionOps(deal, proposal.ID, doc, version, actorID)); err != nil {
		return "", err
	}

	s.LogInfo(ctx, "Proposal created", slog.String("proposal_id", proposal.ID), slog.Int("version", version))
	s.recordEvent(ctx, domain.EventProposalCreated,
		fmt.Sprintf("Proposal %q v%d created", proposal.Title, version), "", proposalRefs(&proposal), actorID)
	return proposal.ID, nil
}

func (s *proposalService) UpdateProposal(ctx context.Context, id string, req dto.UpdateProposalRequest, actorID string) error {
	if _, err := s.GetProposalByID(ctx, id); err != nil {
		return err
	}
	fields := portsrepo.Document{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return validationError("proposal title cannot be empty")
		}
		fields["title"] = title
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.ValidUntil != nil {
		fields["validUntil"] = req.ValidUntil.UTC()
	}
	if len(fields) == 0 {
		return nil
	}
	return s.commitAtomic(ctx, "update proposal", []portsrepo.BatchOp{
		updateOp(domain.CollectionProposals, id, mapping.UpdateAuditFields(fields, actorID)),
	})
}

// draftOnly loads a proposal and rejects it unless it is still a draft.
func (s *proposalService) draftOnly(ctx context.Context, id, action string) (*domain.Proposal, error) {
	proposal, err := s.GetProposalByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.Status != domain.ProposalDraft {
		return nil, transitionError("cannot %s on a %s proposal; create a revision instead", action, proposal.Status)
	}
	return proposal, nil
}

// writePricing stores items, the tax convention and the totals derived from them.
func (s *proposalService) writePricing(ctx context.Context, id string, items []domain.LineItem, pricesIncludeTax bool, actorID string) error {
	fields := mapping.TotalsToDocument(accounting.CalculateProposalTotals(items, pricesIncludeTax))
	fields["items"] = mapping.LineItemsToDocuments(items)
	fields["pricesIncludeTax"] = pricesIncludeTax
	return s.commitAtomic(ctx, "update proposal pricing", []portsrepo.BatchOp{
		updateOp(domain.CollectionProposals, id, mapping.UpdateAuditFields(fields, actorID)),
	})
}

func (s *proposalService) UpdateProposalItems(ctx context.Context, id string, items []domain.LineItem, actorID string) error {
	if err := validateLineItems(items); err != nil {
		return err
	}
	proposal, err := s.draftOnly(ctx, id, "change items")
	if err != nil {
		return err
	}
	return s.writePricing(ctx, id, items, proposal.PricesIncludeTax, actorID)
}

func (s *proposalService) SetPricesIncludeTax(ctx context.Context, id string, pricesIncludeTax bool, actorID string) error {
	proposal, err := s.draftOnly(ctx, id, "change the tax convention")
	if err != nil {
		return err
	}
	return s.writePricing(ctx, id, proposal.Items, pricesIncludeTax, actorID)
}

// transition moves a proposal along its lifecycle and stamps timeField.
func (s *proposalService) transition(ctx context.Context, id string, to domain.ProposalStatus, timeField string, event domain.SystemEvent, actorID string) error {
	proposal, err := s.GetProposalByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.ProposalStatusMachine.Validate(proposal.Status, to); err != nil {
		return err
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{
		"status":  string(to),
		timeField: portsrepo.ServerTimestamp,
	}, actorID)
	if err := s.commitAtomic(ctx, "proposal "+string(to), []portsrepo.BatchOp{updateOp(domain.CollectionProposals, id, fields)}); err != nil {
		return err
	}

	s.LogInfo(ctx, "Proposal status changed", slog.String("proposal_id", id), slog.String("status", string(to)))
	s.recordEvent(ctx, event, fmt.Sprintf("Proposal %q v%d %s", proposal.Title, proposal.Version, to), "",
		proposalRefs(proposal), actorID)
	return nil
}

func (s *proposalService) MarkAsSent(ctx context.Context, id string, actorID string) error {
	return s.transition(ctx, id, domain.ProposalSent, "sentAt", domain.EventProposalSent, actorID)
}

func (s *proposalService) MarkAsAccepted(ctx context.Context, id string, actorID string) error {
	return s.transition(ctx, id, domain.ProposalAccepted, "respondedAt", domain.EventProposalAccepted, actorID)
}

func (s *proposalService) MarkAsRejected(ctx context.Context, id string, actorID string) error {
	return s.transition(ctx, id, domain.ProposalRejected, "respondedAt", domain.EventProposalRejected, actorID)
}

// CreateRevision forks any proposal into a new draft with the next version.
func (s *proposalService) CreateRevision(ctx context.Context, id string, actorID string) (string, error) {
	source, err := s.GetProposalByID(ctx, id)
	if err != nil {
		return "", err
	}
	deal, err := getEntity[domain.Deal](ctx, s.store, domain.CollectionDeals, source.DealID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		deal = nil
	}
	version, err := s.nextVersion(ctx, deal, source.DealID)
	if err != nil {
		return "", err
	}

	revision := *source
	revision.ID = uuid.NewString()
	revision.Version = version
	revision.Status = domain.ProposalDraft
	revision.SentAt = nil
	revision.RespondedAt = nil
	revision.IsArchived = false
	revision.ProposalTotals = accounting.CalculateProposalTotals(source.Items, source.PricesIncludeTax)

	doc := mapping.CreateAuditFields(mapping.ProposalToDocument(revision), actorID)
	if err := s.commitAtomic(ctx, "revise proposal", versionOps(deal, revision.ID, doc, version, actorID)); err != nil {
		return "", err
	}

	s.LogInfo(ctx, "Proposal revised", slog.String("proposal_id", revision.ID), slog.String("source_id", id), slog.Int("version", version))
	s.recordEvent(ctx, domain.EventProposalRevised,
		fmt.Sprintf("Proposal %q revised to v%d", revision.Title, version),
		fmt.Sprintf("Forked from v%d (%s)", source.Version, source.Status), proposalRefs(&revision), actorID)
	return revision.ID, nil
}

func (s *proposalService) ArchiveProposal(ctx context.Context, id string, archived bool, actorID string) error {
	if _, err := s.GetProposalByID(ctx, id); err != nil {
		return err
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{"isArchived": archived}, actorID)
	return s.commitAtomic(ctx, "archive proposal", []portsrepo.BatchOp{updateOp(domain.CollectionProposals, id, fields)})
}

func (s *proposalService) DeleteProposal(ctx context.Context, id string) error {
	if _, err := s.GetProposalByID(ctx, id); err != nil {
		return err
	}
	return s.commitAtomic(ctx, "delete proposal", []portsrepo.BatchOp{deleteOp(domain.CollectionProposals, id)})
}

func (s *proposalService) GetProposalByID(ctx context.Context, id string) (*domain.Proposal, error) {
	proposal, err := getEntity[domain.Proposal](ctx, s.store, domain.CollectionProposals, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get proposal", slog.String("proposal_id", id))
		}
		return nil, err
	}
	return proposal, nil
}

func (s *proposalService) ListProposals(ctx context.Context, params dto.ListProposalsParams) ([]domain.Proposal, error) {
	q := portsrepo.Query{
		Collection: domain.CollectionProposals,
		OrderBy:    []portsrepo.Order{{Field: "updatedAt", Direction: portsrepo.Descending}},
		Limit:      params.Limit,
	}
	if params.DealID != "" {
		q.Filters = append(q.Filters, portsrepo.Where("dealId", portsrepo.OpEqual, params.DealID))
		q.OrderBy = []portsrepo.Order{{Field: "version", Direction: portsrepo.Descending}}
	}
	if params.Status != "" {
		q.Filters = append(q.Filters, portsrepo.Where("status", portsrepo.OpEqual, string(params.Status)))
	}
	if !params.IncludeArchived {
		q.Filters = append(q.Filters, portsrepo.Where("isArchived", portsrepo.OpEqual, false))
	}
	return listEntities[domain.Proposal](ctx, s.store, q)
}
