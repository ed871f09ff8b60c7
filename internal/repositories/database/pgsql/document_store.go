package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/SscSPs/salesops_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultMaxBatchOps bounds a single transaction when no limit is configured.
const DefaultMaxBatchOps = 500

const (
	insertDocumentSQL = `INSERT INTO documents (collection, id, data, updated_at) VALUES ($1, $2, $3::jsonb, $4)`
	updateDocumentSQL = `UPDATE documents SET data = data || $3::jsonb, updated_at = $4 WHERE collection = $1 AND id = $2`
	deleteDocumentSQL = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	getDocumentSQL    = `SELECT data FROM documents WHERE collection = $1 AND id = $2`
)

// DocumentStore keeps every collection in one JSONB table. A batch is one transaction.
type DocumentStore struct {
	BaseRepository
	maxOps int
}

// NewDocumentStore creates a store on top of an open pool.
func NewDocumentStore(pool *pgxpool.Pool, maxBatchOps int) *DocumentStore {
	if maxBatchOps <= 0 {
		maxBatchOps = DefaultMaxBatchOps
	}
	return &DocumentStore{BaseRepository: BaseRepository{Pool: pool}, maxOps: maxBatchOps}
}

var _ portsrepo.DocumentStore = (*DocumentStore)(nil)

// MaxBatchOps implements portsrepo.DocumentWriter.
func (s *DocumentStore) MaxBatchOps() int {
	return s.maxOps
}

// NewBatch implements portsrepo.DocumentWriter.
func (s *DocumentStore) NewBatch() portsrepo.Batch {
	return &batch{store: s}
}

// Get implements portsrepo.DocumentReader.
func (s *DocumentStore) Get(ctx context.Context, collection, id string) (portsrepo.Document, error) {
	var data map[string]any
	err := s.Pool.QueryRow(ctx, getDocumentSQL, collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return portsrepo.Document(data), nil
}

// Query implements portsrepo.DocumentReader.
func (s *DocumentStore) Query(ctx context.Context, q portsrepo.Query) ([]portsrepo.Document, error) {
	sql, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Collection, err)
	}
	defer rows.Close()

	docs := make([]portsrepo.Document, 0)
	for rows.Next() {
		var data map[string]any
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan %s document: %w", q.Collection, err)
		}
		docs = append(docs, portsrepo.Document(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s documents: %w", q.Collection, err)
	}
	return docs, nil
}

type batch struct {
	portsrepo.OpBuffer
	store *DocumentStore
}

// Commit sends every queued operation in one pgx batch inside a transaction.
// The transaction's start time resolves server timestamps.
func (b *batch) Commit(ctx context.Context) error {
	s := b.store
	ops := b.Ops()
	if len(ops) > s.maxOps {
		return fmt.Errorf("%w: batch has %d operations, limit is %d", apperrors.ErrValidation, len(ops), s.maxOps)
	}
	if len(ops) == 0 {
		return nil
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.Rollback(ctx, tx)

	var now time.Time
	if err := tx.QueryRow(ctx, "SELECT now()").Scan(&now); err != nil {
		return fmt.Errorf("failed to read commit time: %w", err)
	}
	now = now.UTC()

	pgBatch := &pgx.Batch{}
	for _, op := range ops {
		switch op.Kind {
		case portsrepo.OpCreate:
			doc := encodeDocument(op.Data, now)
			doc["id"] = op.ID
			pgBatch.Queue(insertDocumentSQL, op.Collection, op.ID, doc, now)
		case portsrepo.OpUpdate:
			fields := encodeDocument(op.Data, now)
			delete(fields, "id")
			pgBatch.Queue(updateDocumentSQL, op.Collection, op.ID, fields, now)
		case portsrepo.OpDelete:
			pgBatch.Queue(deleteDocumentSQL, op.Collection, op.ID)
		}
	}

	br := tx.SendBatch(ctx, pgBatch)
	for _, op := range ops {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%s/%s: %w", op.Collection, op.ID, apperrors.ErrDuplicate)
			}
			return fmt.Errorf("failed to %s %s/%s: %w", op.Kind, op.Collection, op.ID, err)
		}
		if op.Kind == portsrepo.OpUpdate && tag.RowsAffected() == 0 {
			br.Close()
			return fmt.Errorf("update %s/%s: %w", op.Collection, op.ID, apperrors.ErrNotFound)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute document batch", err)
	}

	return s.Commit(ctx, tx)
}

// encodeDocument prepares values for JSONB. Timestamps become fixed-width
// text so that text comparison matches time order.
func encodeDocument(doc portsrepo.Document, now time.Time) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = encodeValue(v, now)
	}
	return out
}

func encodeValue(v any, now time.Time) any {
	if portsrepo.IsServerTimestamp(v) {
		return now.Format(mapping.TimeLayout)
	}
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(mapping.TimeLayout)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.UTC().Format(mapping.TimeLayout)
	case *string:
		if val == nil {
			return nil
		}
		return *val
	case portsrepo.Document:
		return encodeDocument(val, now)
	case map[string]any:
		return encodeDocument(val, now)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = encodeValue(item, now)
		}
		return out
	case []portsrepo.Document:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = encodeDocument(item, now)
		}
		return out
	}
	return v
}
