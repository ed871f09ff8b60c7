package services

import (
	"context"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
)

// RenameSvc keeps denormalized copies of display names in step with their source.
type RenameSvc interface {
	// DependentOps returns one update per dependent document whose cached name
	// differs from newName.
	DependentOps(ctx context.Context, kind domain.EntityKind, id, newName string) ([]portsrepo.BatchOp, error)

	// Reconcile re-applies the entity's current name to every dependent copy and
	// returns the number of documents rewritten.
	Reconcile(ctx context.Context, kind domain.EntityKind, id string) (int, error)
}
