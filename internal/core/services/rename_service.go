package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
)

// nameCopy is a collection that caches an entity's display name.
type nameCopy struct {
	collection string
	foreignKey string
	nameField  string
}

// renameSource describes where an entity keeps its own display name.
type renameSource struct {
	collection string
	nameField  string
	copies     []nameCopy
}

var renameSources = map[domain.EntityKind]renameSource{
	domain.KindCompany: {
		collection: domain.CollectionCompanies,
		nameField:  "name",
		copies: []nameCopy{
			{domain.CollectionContacts, "companyId", "companyName"},
			{domain.CollectionDeals, "companyId", "companyName"},
			{domain.CollectionWorkOrders, "companyId", "companyName"},
			{domain.CollectionProposals, "companyId", "companyName"},
			{domain.CollectionActivities, "companyId", "companyName"},
		},
	},
	domain.KindContact: {
		collection: domain.CollectionContacts,
		nameField:  "fullName",
		copies: []nameCopy{
			{domain.CollectionDeals, "primaryContactId", "primaryContactName"},
			{domain.CollectionActivities, "contactId", "contactName"},
		},
	},
	domain.KindDeal: {
		collection: domain.CollectionDeals,
		nameField:  "title",
		copies: []nameCopy{
			{domain.CollectionProposals, "dealId", "dealTitle"},
			{domain.CollectionWorkOrders, "dealId", "dealTitle"},
			{domain.CollectionActivities, "dealId", "dealTitle"},
		},
	},
	domain.KindWorkOrder: {
		collection: domain.CollectionWorkOrders,
		nameField:  "title",
		copies: []nameCopy{
			{domain.CollectionDeliverables, "workOrderId", "workOrderTitle"},
			{domain.CollectionTasks, "workOrderId", "workOrderTitle"},
			{domain.CollectionTimeEntries, "workOrderId", "workOrderTitle"},
			{domain.CollectionActivities, "workOrderId", "workOrderTitle"},
		},
	},
	domain.KindDeliverable: {
		collection: domain.CollectionDeliverables,
		nameField:  "title",
		copies: []nameCopy{
			{domain.CollectionTasks, "deliverableId", "deliverableTitle"},
			{domain.CollectionTimeEntries, "deliverableId", "deliverableTitle"},
		},
	},
	domain.KindTask: {
		collection: domain.CollectionTasks,
		nameField:  "title",
		copies: []nameCopy{
			{domain.CollectionTimeEntries, "taskId", "taskTitle"},
		},
	},
}

type renameService struct {
	BaseService
}

// NewRenameService creates the rename propagation service.
func NewRenameService(store portsrepo.DocumentStore, options ...ServiceOption) portssvc.RenameSvc {
	return &renameService{BaseService: newBaseService(store, options...)}
}

var _ portssvc.RenameSvc = (*renameService)(nil)

func (s *renameService) source(kind domain.EntityKind) (renameSource, error) {
	src, ok := renameSources[kind]
	if !ok {
		return renameSource{}, validationError("entity kind %q has no display name", kind)
	}
	return src, nil
}

// DependentOps queries every collection caching the entity's name. Documents
// already holding newName are skipped, which makes re-running it safe.
func (s *renameService) DependentOps(ctx context.Context, kind domain.EntityKind, id, newName string) ([]portsrepo.BatchOp, error) {
	src, err := s.source(kind)
	if err != nil {
		return nil, err
	}

	var ops []portsrepo.BatchOp
	for _, c := range src.copies {
		docs, err := s.store.Query(ctx, portsrepo.Query{
			Collection: c.collection,
			Filters:    []portsrepo.Filter{portsrepo.Where(c.foreignKey, portsrepo.OpEqual, id)},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query %s for %s %s: %w", c.collection, kind, id, err)
		}
		for _, doc := range docs {
			if current, _ := doc[c.nameField].(string); current == newName {
				continue
			}
			docID, _ := doc["id"].(string)
			ops = append(ops, updateOp(c.collection, docID, portsrepo.Document{c.nameField: newName}))
		}
	}

	s.LogDebug(ctx, "Planned rename propagation",
		slog.String("kind", string(kind)),
		slog.String("id", id),
		slog.Int("dependent_updates", len(ops)))
	return ops, nil
}

func (s *renameService) Reconcile(ctx context.Context, kind domain.EntityKind, id string) (int, error) {
	src, err := s.source(kind)
	if err != nil {
		return 0, err
	}
	doc, err := s.store.Get(ctx, src.collection, id)
	if err != nil {
		return 0, err
	}
	name, _ := doc[src.nameField].(string)

	ops, err := s.DependentOps(ctx, kind, id, name)
	if err != nil {
		return 0, err
	}
	if err := s.commit(ctx, "reconcile "+string(kind)+" name", ops); err != nil {
		return 0, err
	}

	s.LogInfo(ctx, "Reconciled denormalized names",
		slog.String("kind", string(kind)),
		slog.String("id", id),
		slog.Int("rewritten", len(ops)))
	return len(ops), nil
}

// renameOps prepends the entity's own update to its dependent rewrites so the
// whole set commits together when it fits in one batch.
func renameOps(ctx context.Context, renamer portssvc.RenameSvc, kind domain.EntityKind, own portsrepo.BatchOp, newName string) ([]portsrepo.BatchOp, error) {
	dependents, err := renamer.DependentOps(ctx, kind, own.ID, newName)
	if err != nil {
		return nil, err
	}
	return append([]portsrepo.BatchOp{own}, dependents...), nil
}
