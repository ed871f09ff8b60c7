package pgsql

import (
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the postgres-backed document store. cache may be nil.
func NewRepositoryProvider(dbPool *pgxpool.Pool, maxBatchOps int, cache portsrepo.Cache) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Store: NewDocumentStore(dbPool, maxBatchOps),
		Cache: cache,
	}
}
