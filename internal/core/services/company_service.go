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

type companyService struct {
	BaseService
	renamer portssvc.RenameSvc
}

// NewCompanyService creates a company service with the provided options
func NewCompanyService(store portsrepo.DocumentStore, renamer portssvc.RenameSvc, options ...ServiceOption) portssvc.CompanySvcFacade {
	return &companyService{BaseService: newBaseService(store, options...), renamer: renamer}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) AddCompany(ctx context.Context, req dto.CreateCompanyRequest, actorID string) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", validationError("company name is required")
	}
	status := req.Status
	if status == "" {
		status = domain.CompanyProspect
	}
	if !status.IsValid() {
		return "", validationError("unknown company status %q", status)
	}
	nextAction := domain.NormalizeNextAction(req.NextAction)
	if err := domain.ValidateNextActionPair(nextAction, req.NextActionDate); err != nil {
		return "", err
	}

	company := domain.Company{
		ID:             uuid.NewString(),
		Name:           name,
		Status:         status,
		Source:         req.Source,
		Website:        req.Website,
		Tags:           req.Tags,
		NextAction:     nextAction,
		NextActionDate: req.NextActionDate,
	}
	doc := mapping.CreateAuditFields(mapping.CompanyToDocument(company), actorID)
	if err := s.commitAtomic(ctx, "add company", []portsrepo.BatchOp{createOp(domain.CollectionCompanies, company.ID, doc)}); err != nil {
		return "", err
	}

	s.LogInfo(ctx, "Company created", slog.String("company_id", company.ID))
	return company.ID, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, id string, req dto.UpdateCompanyRequest, actorID string) error {
	existing, err := s.GetCompanyByID(ctx, id)
	if err != nil {
		return err
	}

	fields := portsrepo.Document{}
	renamed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return validationError("company name cannot be empty")
		}
		if name != existing.Name {
			fields["name"] = name
			renamed = true
		}
	}
	if req.Source != nil {
		fields["source"] = *req.Source
	}
	if req.Website != nil {
		fields["website"] = *req.Website
	}
	if req.Tags != nil {
		fields["tags"] = mapping.StringSlice(req.Tags)
	}
	if len(fields) == 0 {
		return nil
	}

	own := updateOp(domain.CollectionCompanies, id, mapping.UpdateAuditFields(fields, actorID))
	if !renamed {
		return s.commitAtomic(ctx, "update company", []portsrepo.BatchOp{own})
	}

	newName := fields["name"].(string)
	ops, err := renameOps(ctx, s.renamer, domain.KindCompany, own, newName)
	if err != nil {
		return fmt.Errorf("failed to plan company rename: %w", err)
	}
	if err := s.commit(ctx, "rename company", ops); err != nil {
		return err
	}
	s.LogInfo(ctx, "Company renamed", slog.String("company_id", id), slog.Int("dependent_updates", len(ops)-1))
	return nil
}

func (s *companyService) UpdateCompanyStatus(ctx context.Context, id string, status domain.CompanyStatus, actorID string) error {
	if !status.IsValid() {
		return validationError("unknown company status %q", status)
	}
	if _, err := s.GetCompanyByID(ctx, id); err != nil {
		return err
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{"status": string(status)}, actorID)
	return s.commitAtomic(ctx, "update company status", []portsrepo.BatchOp{updateOp(domain.CollectionCompanies, id, fields)})
}

func (s *companyService) ArchiveCompany(ctx context.Context, id string, archived bool, actorID string) error {
	if _, err := s.GetCompanyByID(ctx, id); err != nil {
		return err
	}
	fields := mapping.UpdateAuditFields(portsrepo.Document{"isArchived": archived}, actorID)
	return s.commitAtomic(ctx, "archive company", []portsrepo.BatchOp{updateOp(domain.CollectionCompanies, id, fields)})
}

// DeleteCompany removes the company only. Contacts, deals and activities keep
// their weak reference and cached name.
func (s *companyService) DeleteCompany(ctx context.Context, id string) error {
	if _, err := s.GetCompanyByID(ctx, id); err != nil {
		return err
	}
	if err := s.commitAtomic(ctx, "delete company", []portsrepo.BatchOp{deleteOp(domain.CollectionCompanies, id)}); err != nil {
		return err
	}
	s.LogInfo(ctx, "Company deleted", slog.String("company_id", id))
	return nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, id string) (*domain.Company, error) {
	company, err := getEntity[domain.Company](ctx, s.store, domain.CollectionCompanies, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get company", slog.String("company_id", id))
		}
		return nil, err
	}
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context, params dto.ListCompaniesParams) ([]domain.Company, error) {
	q := portsrepo.Query{
		Collection: domain.CollectionCompanies,
		OrderBy:    []portsrepo.Order{{Field: "name"}},
		Limit:      params.Limit,
	}
	if params.Status != "" {
		q.Filters = append(q.Filters, portsrepo.Where("status", portsrepo.OpEqual, string(params.Status)))
	}
	if !params.IncludeArchived {
		q.Filters = append(q.Filters, portsrepo.Where("isArchived", portsrepo.OpEqual, false))
	}
	companies, err := listEntities[domain.Company](ctx, s.store, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies")
		return nil, err
	}
	return companies, nil
}

func (s *companyService) UpdateNextAction(ctx context.Context, id string, req dto.UpdateNextActionRequest, actorID string) error {
	company, err := s.GetCompanyByID(ctx, id)
	if err != nil {
		return err
	}
	return s.trackNextAction(ctx, domain.CollectionCompanies, id, "company "+company.Name,
		company.NextAction, company.NextActionDate, req.NextAction, req.NextActionDate,
		domain.ActivityRefs{CompanyID: &company.ID}, actorID)
}
