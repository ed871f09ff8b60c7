package repositories

import (
	"context"
)

// Document is a schema-less record. Documents returned by a store always
// carry their id under the "id" key.
type Document map[string]any

// Operator is a comparison used in a query filter.
type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpIn             Operator = "in"
)

// Filter restricts a query to documents whose Field compares to Value.
// A missing field never matches, except OpEqual with a nil Value which
// matches missing and null fields.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Where builds a Filter.
func Where(field string, op Operator, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Order sorts query results by a field.
type Order struct {
	Field     string
	Direction Direction
}

// Query is a compound-filter query over one collection.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    []Order
	Limit      int // 0 means unlimited
}

type serverTimestamp struct{}

// ServerTimestamp is a field value the store replaces with its commit time.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// OpKind is the kind of a batched write.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// BatchOp is a single queued write.
type BatchOp struct {
	Kind       OpKind
	Collection string
	ID         string
	Data       Document
}

// Batch is a set of writes committed all-or-nothing. Update merges the given
// top-level fields and fails the commit if the document does not exist; Create
// fails the commit if it does.
type Batch interface {
	Create(collection, id string, doc Document)
	Update(collection, id string, fields Document)
	Delete(collection, id string)
	Len() int
	Ops() []BatchOp
	Commit(ctx context.Context) error
}

// DocumentReader defines point reads and filtered queries.
type DocumentReader interface {
	// Get returns the document or an error wrapping apperrors.ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Query returns the documents matching q, ordered and limited as requested.
	Query(ctx context.Context, q Query) ([]Document, error)
}

// DocumentWriter defines atomic batched writes.
type DocumentWriter interface {
	// NewBatch starts an empty batch.
	NewBatch() Batch

	// MaxBatchOps is the upper bound on operations in a single batch.
	MaxBatchOps() int
}

// DocumentStore is the document database client the services depend on.
type DocumentStore interface {
	DocumentReader
	DocumentWriter
}

// OpBuffer collects batch operations. Store adapters embed it and supply Commit.
type OpBuffer struct {
	ops []BatchOp
}

// Create queues an insert.
func (b *OpBuffer) Create(collection, id string, doc Document) {
	b.ops = append(b.ops, BatchOp{Kind: OpCreate, Collection: collection, ID: id, Data: doc})
}

// Update queues a field merge.
func (b *OpBuffer) Update(collection, id string, fields Document) {
	b.ops = append(b.ops, BatchOp{Kind: OpUpdate, Collection: collection, ID: id, Data: fields})
}

// Delete queues a hard delete.
func (b *OpBuffer) Delete(collection, id string) {
	b.ops = append(b.ops, BatchOp{Kind: OpDelete, Collection: collection, ID: id})
}

// Len returns the number of queued operations.
func (b *OpBuffer) Len() int {
	return len(b.ops)
}

// Ops returns the queued operations in order.
func (b *OpBuffer) Ops() []BatchOp {
	return b.ops
}
