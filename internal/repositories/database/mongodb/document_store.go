package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMaxBatchOps keeps a transaction well inside server limits.
const DefaultMaxBatchOps = 500

// DocumentStore maps each collection onto a MongoDB collection and each batch
// onto a multi-document transaction. Transactions need a replica set.
type DocumentStore struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
	maxOps int
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithClock sets the source of server timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *DocumentStore) { s.now = now }
}

// WithMaxBatchOps sets the batch bound.
func WithMaxBatchOps(n int) Option {
	return func(s *DocumentStore) {
		if n > 0 {
			s.maxOps = n
		}
	}
}

// NewDocumentStore creates a store over db.
func NewDocumentStore(client *mongo.Client, db *mongo.Database, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		client: client,
		db:     db,
		now:    func() time.Time { return time.Now().UTC() },
		maxOps: DefaultMaxBatchOps,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
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
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return fromBSON(raw), nil
}

// Query implements portsrepo.DocumentReader.
func (s *DocumentStore) Query(ctx context.Context, q portsrepo.Query) ([]portsrepo.Document, error) {
	filter, err := buildFilter(q.Filters)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(buildSort(q.OrderBy))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(q.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Collection, err)
	}
	defer cursor.Close(ctx)

	docs := make([]portsrepo.Document, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", q.Collection, err)
		}
		docs = append(docs, fromBSON(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

type batch struct {
	portsrepo.OpBuffer
	store *DocumentStore
}

// Commit applies every queued operation inside one transaction.
func (b *batch) Commit(ctx context.Context) error {
	s := b.store
	ops := b.Ops()
	if len(ops) > s.maxOps {
		return fmt.Errorf("%w: batch has %d operations, limit is %d", apperrors.ErrValidation, len(ops), s.maxOps)
	}
	if len(ops) == 0 {
		return nil
	}

	session, err := s.client.StartSession()
	if err != nil {
		return apperrors.NewAppError(500, "failed to start session", err)
	}
	defer session.EndSession(ctx)

	now := s.now().UTC()
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			if err := s.apply(sessCtx, op, now); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (s *DocumentStore) apply(ctx context.Context, op portsrepo.BatchOp, now time.Time) error {
	col := s.db.Collection(op.Collection)
	key := op.Collection + "/" + op.ID
	switch op.Kind {
	case portsrepo.OpCreate:
		doc := toBSON(op.Data, now)
		doc["_id"] = op.ID
		doc["id"] = op.ID
		if _, err := col.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("%s: %w", key, apperrors.ErrDuplicate)
			}
			return fmt.Errorf("failed to create %s: %w", key, err)
		}
	case portsrepo.OpUpdate:
		fields := toBSON(op.Data, now)
		delete(fields, "id")
		delete(fields, "_id")
		res, err := col.UpdateOne(ctx, bson.M{"_id": op.ID}, bson.M{"$set": fields})
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", key, err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("update %s: %w", key, apperrors.ErrNotFound)
		}
	case portsrepo.OpDelete:
		if _, err := col.DeleteOne(ctx, bson.M{"_id": op.ID}); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

func toBSON(doc portsrepo.Document, now time.Time) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = toBSONValue(v, now)
	}
	return out
}

func toBSONValue(v any, now time.Time) any {
	if portsrepo.IsServerTimestamp(v) {
		return now
	}
	switch val := v.(type) {
	case time.Time:
		return val.UTC()
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.UTC()
	case *string:
		if val == nil {
			return nil
		}
		return *val
	case portsrepo.Document:
		return toBSON(val, now)
	case map[string]any:
		return toBSON(val, now)
	case []any:
		out := make(bson.A, len(val))
		for i, item := range val {
			out[i] = toBSONValue(item, now)
		}
		return out
	case []portsrepo.Document:
		out := make(bson.A, len(val))
		for i, item := range val {
			out[i] = toBSON(item, now)
		}
		return out
	}
	return v
}

// fromBSON converts driver types back to plain Go values and drops _id.
func fromBSON(raw bson.M) portsrepo.Document {
	out := make(portsrepo.Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			if _, ok := raw["id"]; !ok {
				out["id"] = v
			}
			continue
		}
		out[k] = fromBSONValue(v)
	}
	return out
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case bson.M:
		return map[string]any(fromBSON(val))
	case bson.D:
		return map[string]any(fromBSON(val.Map()))
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBSONValue(item)
		}
		return out
	}
	return v
}
