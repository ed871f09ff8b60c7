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

type contactService struct {
	BaseService
	renamer portssvc.RenameSvc
}

// NewContactService creates a contact service with the provided options
func NewContactService(store portsrepo.DocumentStore, renamer portssvc.RenameSvc, options ...ServiceOption) portssvc.ContactSvcFacade {
	return &contactService{BaseService: newBaseService(store, options...), renamer: renamer}
}

var _ portssvc.ContactSvcFacade = (*contactService)(nil)

// companyName resolves the cached company name; a dangling id yields "".
func (s *contactService) companyName(ctx context.Context, companyID *string) (string, error) {
	company, err := findEntity[domain.Company](ctx, s.store, domain.CollectionCompanies, companyID)
	if err != nil || company == nil {
		return "", err
	}
	return company.Name, nil
}

// clearPrimaryOps demotes every other primary contact of the company.
func (s *contactService) clearPrimaryOps(ctx context.Context, companyID, keepID, actorID string) ([]portsrepo.BatchOp, error) {
	docs, err := s.store.Query(ctx, portsrepo.Query{
		Collection: domain.CollectionContacts,
		Filters: []portsrepo.Filter{
			portsrepo.Where("companyId", portsrepo.OpEqual, companyID),
			portsrepo.Where("isPrimary", portsrepo.OpEqual, true),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query primary contacts: %w", err)
	}
	var ops []portsrepo.BatchOp
	for _, doc := range docs {
		id, _ := doc["id"].(string)
		if id == keepID {
			continue
		}
		ops = append(ops, updateOp(domain.CollectionContacts, id,
			mapping.UpdateAuditFields(portsrepo.Document{"isPrimary": false}, actorID)))
	}
	return ops, nil
}

func (s *contactService) AddContact(ctx context.Context, req dto.CreateContactRequest, actorID string) (string, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return "", validationError("contact name is required")
	}
	stage := req.Stage
	if stage == "" {
		stage = domain.ContactNew
	}
	if !stage.IsValid() {
		return "", validationError("unknown contact stage %q", stage)
	}
	nextAction := domain.NormalizeNextAction(req.NextAction)
	if err := domain.ValidateNextActionPair(nextAction, req.NextActionDate); err != nil {
		return "", err
	}

	companyID := emptyToNil(req.CompanyID)
	companyName, err := s.companyName(ctx, companyID)
	if err != nil {
		return "", err
	}

	contact := domain.Contact{
		ID:             uuid.NewString(),
		FullName:       fullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           req.Role,
		CompanyID:      companyID,
		CompanyName:    companyName,
		Stage:          stage,
		IsPrimary:      req.IsPrimary,
		NextAction:     nextAction,
		NextActionDate: req.NextActionDate,
	}
	ops := []portsrepo.BatchOp{createOp(domain.CollectionContacts, contact.ID,
		mapping.CreateAuditFields(mapping.ContactToDocument(contact), actorID))}
	if contact.IsPrimary && companyID != nil {
		demote, err := s.clearPrimaryOps(ctx, *companyID, contact.ID, actorID)
		if err != nil {
			return "", err
		}
		ops = append(ops, demote...)
	}

	if err := s.commitAtomic(ctx, "add contact", ops); err != nil {
		return "", err
	}
	s.LogInfo(ctx, "Contact created", slog.String("contact_id", contact.ID))
	return contact.ID, nil
}

func (s *contactService) UpdateContact(ctx context.Context, id string, req dto.UpdateContactRequest, actorID string) error {
	existing, err := s.GetContactByID(ctx, id)
	if err != nil {
		return err
	}

	fields := portsrepo.Document{}
	newName := ""
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return validationError("contact name cannot be empty")
		}
		if name != existing.FullName {
			fields["fullName"] = name
			newName = name
		}
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}

	companyID := existing.CompanyID
	if req.CompanyID != nil {
		companyID = emptyToNil(req.CompanyID)
		name, err := s.companyName(ctx, companyID)
		if err != nil {
			return err
		}
		fields["companyId"] = mapping.OptionalString(companyID)
		fields["companyName"] = name
	}

	isPrimary := existing.IsPrimary
	if req.IsPrimary != nil {
		isPrimary = *req.IsPrimary
		fields["isPrimary"] = isPrimary
	}
	if len(fields) == 0 {
		return nil
	}

	ops := []portsrepo.BatchOp{updateOp(domain.CollectionContacts, id, mapping.UpdateAuditFields(fields, actorID))}
	if isPrimary && companyID != nil && (req.IsPrimary != nil || req.CompanyID != nil) {
		demote, err := s.clearPrimaryOps(ctx, *companyID, id, actorID)
		if err != nil {
			return err
		}
		ops = append(ops, demote...)
	}

	if newName == "" {
		return s.commitAtomic(ctx, "update contact", ops)
	}
	dependents, err := s.renamer.DependentOps(ctx, domain.KindContact, id, newName)
	if err != nil {
		return fmt.Errorf("failed to plan contact rename: %w", err)
	}
	if err := s.commit(ctx, "rename contact", append(ops, dependents...)); err != nil {
		return err
	}
	s.LogInfo(ctx, "Contact renamed", slog.String("contact_id", id), slog.Int("dependent_updates", len(dependents)))
	return nil
}

func (s *contactService) UpdateContactStage(ctx context.Context, id string, stage domain.ContactStage, actorID string) error {
	if !stage.IsValid() {
		return validationError("unknown contact stage %q", stage)
	}
	contact, err := s.GetContactByID(ctx, id)
	if err != nil {
		return err
	}
	if contact.Stage == stage {
		return nil
	}

	fields := mapping.UpdateAuditFields(portsrepo.Document{"stage": string(stage)}, actorID)
	if err := s.commitAtomic(ctx, "update contact stage", []portsrepo.BatchOp{updateOp(domain.CollectionContacts, id, fields)}); err != nil {
		return err
	}

	s.recordEvent(ctx, domain.EventContactStageChanged,
		fmt.Sprintf("%s moved from %s to %s", contact.FullName, contact.Stage, stage), "",
		domain.ActivityRefs{ContactID: &contact.ID}, actorID)
	return nil
}

func (s *contactService) DeleteContact(ctx context.Context, id string) error {
	if _, err := s.GetContactByID(ctx, id); err != nil {
		return err
	}
	if err := s.commitAtomic(ctx, "delete contact", []portsrepo.BatchOp{deleteOp(domain.CollectionContacts, id)}); err != nil {
		return err
	}
	s.LogInfo(ctx, "Contact deleted", slog.String("contact_id", id))
	return nil
}

func (s *contactService) GetContactByID(ctx context.Context, id string) (*domain.Contact, error) {
	contact, err := getEntity[domain.Contact](ctx, s.store, domain.CollectionContacts, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get contact", slog.String("contact_id", id))
		}
		return nil, err
	}
	return contact, nil
}

func (s *contactService) ListContacts(ctx context.Context, params dto.ListContactsParams) ([]domain.Contact, error) {
	q := portsrepo.Query{
		Collection: domain.CollectionContacts,
		OrderBy:    []portsrepo.Order{{Field: "fullName"}},
		Limit:      params.Limit,
	}
	if params.CompanyID != "" {
		q.Filters = append(q.Filters, portsrepo.Where("companyId", portsrepo.OpEqual, params.CompanyID))
	}
	if params.Stage != "" {
		q.Filters = append(q.Filters, portsrepo.Where("stage", portsrepo.OpEqual, string(params.Stage)))
	}
	return listEntities[domain.Contact](ctx, s.store, q)
}

func (s *contactService) UpdateNextAction(ctx context.Context, id string, req dto.UpdateNextActionRequest, actorID string) error {
	contact, err := s.GetContactByID(ctx, id)
	if err != nil {
		return err
	}
	return s.trackNextAction(ctx, domain.CollectionContacts, id, "contact "+contact.FullName,
		contact.NextAction, contact.NextActionDate, req.NextAction, req.NextActionDate,
		domain.ActivityRefs{ContactID: &contact.ID, CompanyID: contact.CompanyID}, actorID)
}
