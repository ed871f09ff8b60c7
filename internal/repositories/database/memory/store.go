package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
)

// DefaultMaxBatchOps mirrors the bound of common managed document stores.
const DefaultMaxBatchOps = 500

// Store is an in-process document store with all-or-nothing batches.
type Store struct {
	mu           sync.RWMutex
	collections  map[string]map[string]portsrepo.Document
	now          func() time.Time
	maxOps       int
	beforeCommit func(ops []portsrepo.BatchOp) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of server timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMaxBatchOps sets the batch bound.
func WithMaxBatchOps(n int) Option {
	return func(s *Store) { s.maxOps = n }
}

// WithCommitHook installs a hook run before every commit is applied. A non-nil
// error aborts the commit with nothing written.
func WithCommitHook(hook func(ops []portsrepo.BatchOp) error) Option {
	return func(s *Store) { s.beforeCommit = hook }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]map[string]portsrepo.Document),
		now:         func() time.Time { return time.Now().UTC() },
		maxOps:      DefaultMaxBatchOps,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portsrepo.DocumentStore = (*Store)(nil)

// SetCommitHook replaces the commit hook.
func (s *Store) SetCommitHook(hook func(ops []portsrepo.BatchOp) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeCommit = hook
}

// MaxBatchOps implements portsrepo.DocumentWriter.
func (s *Store) MaxBatchOps() int {
	return s.maxOps
}

// NewBatch implements portsrepo.DocumentWriter.
func (s *Store) NewBatch() portsrepo.Batch {
	return &batch{store: s}
}

// Get implements portsrepo.DocumentReader.
func (s *Store) Get(_ context.Context, collection, id string) (portsrepo.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, apperrors.ErrNotFound)
	}
	return cloneDocument(doc), nil
}

// Query implements portsrepo.DocumentReader.
func (s *Store) Query(_ context.Context, q portsrepo.Query) ([]portsrepo.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]portsrepo.Document, 0)
	for _, doc := range s.collections[q.Collection] {
		if matchesAll(doc, q.Filters) {
			results = append(results, cloneDocument(doc))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		for _, o := range q.OrderBy {
			c := compareForSort(results[i][o.Field], results[j][o.Field])
			if c == 0 {
				continue
			}
			if o.Direction == portsrepo.Descending {
				return c > 0
			}
			return c < 0
		}
		return fmt.Sprint(results[i]["id"]) < fmt.Sprint(results[j]["id"])
	})

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

type batch struct {
	portsrepo.OpBuffer
	store *Store
}

// Commit validates every operation against the current state plus the
// operations queued before it, then applies all of them under one lock.
func (b *batch) Commit(_ context.Context) error {
	s := b.store
	ops := b.Ops()
	if len(ops) > s.maxOps {
		return fmt.Errorf("%w: batch has %d operations, limit is %d", apperrors.ErrValidation, len(ops), s.maxOps)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.beforeCommit != nil {
		if err := s.beforeCommit(ops); err != nil {
			return err
		}
	}

	exists := func(collection, id string) bool {
		_, ok := s.collections[collection][id]
		return ok
	}
	staged := make(map[string]bool)
	for _, op := range ops {
		key := op.Collection + "/" + op.ID
		present, seen := staged[key]
		if !seen {
			present = exists(op.Collection, op.ID)
		}
		switch op.Kind {
		case portsrepo.OpCreate:
			if present {
				return fmt.Errorf("%s: %w", key, apperrors.ErrDuplicate)
			}
			staged[key] = true
		case portsrepo.OpUpdate:
			if !present {
				return fmt.Errorf("update %s: %w", key, apperrors.ErrNotFound)
			}
		case portsrepo.OpDelete:
			staged[key] = false
		}
	}

	now := s.now()
	for _, op := range ops {
		coll, ok := s.collections[op.Collection]
		if !ok {
			coll = make(map[string]portsrepo.Document)
			s.collections[op.Collection] = coll
		}
		switch op.Kind {
		case portsrepo.OpCreate:
			doc := resolveDocument(op.Data, now)
			doc["id"] = op.ID
			coll[op.ID] = doc
		case portsrepo.OpUpdate:
			doc := coll[op.ID]
			for k, v := range resolveDocument(op.Data, now) {
				if k == "id" {
					continue
				}
				doc[k] = v
			}
		case portsrepo.OpDelete:
			delete(coll, op.ID)
		}
	}
	return nil
}

func resolveDocument(doc portsrepo.Document, now time.Time) portsrepo.Document {
	out := cloneDocument(doc)
	for k, v := range out {
		if portsrepo.IsServerTimestamp(v) {
			out[k] = now
		}
	}
	return out
}

func cloneDocument(doc portsrepo.Document) portsrepo.Document {
	out := make(portsrepo.Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case portsrepo.Document:
		return cloneDocument(val)
	case map[string]any:
		return map[string]any(cloneDocument(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case []portsrepo.Document:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneDocument(item)
		}
		return out
	case *time.Time:
		if val == nil {
			return nil
		}
		return *val
	case *string:
		if val == nil {
			return nil
		}
		return *val
	default:
		return v
	}
}
