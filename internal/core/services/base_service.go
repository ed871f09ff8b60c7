package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/SscSPs/salesops_app/internal/utils/mapping"
)

// BaseService provides common functionality for all services
type BaseService struct {
	store    portsrepo.DocumentStore
	writer   portsrepo.ChunkedWriter
	ledger   portssvc.ActivityRecorderSvc
	location *time.Location
	views    portsrepo.Cache
}

// viewGenerationKey holds a counter that is part of every cached dashboard
// key. Bumping it after a write orphans all cached views at once.
const viewGenerationKey = "dashboard:generation"

// ServiceOption is a functional option shared by the entity services.
type ServiceOption func(*BaseService)

// WithActivityLedger lets a service emit system activities.
func WithActivityLedger(ledger portssvc.ActivityRecorderSvc) ServiceOption {
	return func(s *BaseService) {
		s.ledger = ledger
	}
}

// WithLocation sets the timezone used for human readable dates.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *BaseService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithViewInvalidation makes every committed write expire cached dashboard views.
func WithViewInvalidation(cache portsrepo.Cache) ServiceOption {
	return func(s *BaseService) {
		s.views = cache
	}
}

func newBaseService(store portsrepo.DocumentStore, options ...ServiceOption) BaseService {
	base := BaseService{
		store:    store,
		writer:   portsrepo.ChunkedWriter{Store: store},
		location: time.UTC,
	}
	for _, option := range options {
		option(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// commit writes ops through the chunked writer. A write that needs more than
// one batch is not atomic; that is logged up front and a failure after the
// first chunk is logged as a partial commit.
func (s *BaseService) commit(ctx context.Context, operation string, ops []portsrepo.BatchOp) error {
	if limit := s.store.MaxBatchOps(); limit > 0 && len(ops) > limit {
		s.GetLogger(ctx).Warn("Write exceeds batch limit, committing in chunks without cross-chunk atomicity",
			slog.String("operation", operation),
			slog.Int("ops", len(ops)),
			slog.Int("max_batch_ops", limit))
	}

	result, err := s.writer.Write(ctx, operation, ops)
	if err != nil {
		var partial *apperrors.PartialCommitError
		if errors.As(err, &partial) {
			s.GetLogger(ctx).Error("Chunked write partially committed; earlier chunks were not rolled back",
				slog.Bool("partial_commit", true),
				slog.String("operation", operation),
				slog.Int("committed_chunks", partial.CommittedChunks),
				slog.Int("total_chunks", partial.TotalChunks),
				slog.String("error", partial.Err.Error()))
			s.invalidateViews(ctx)
			return err
		}
		s.LogError(ctx, err, "Atomic batch failed", slog.String("operation", operation), slog.Int("ops", len(ops)))
		return err
	}
	s.LogDebug(ctx, "Batch committed", slog.String("operation", operation),
		slog.Int("ops", result.TotalOps), slog.Int("chunks", result.TotalChunks))
	s.invalidateViews(ctx)
	return nil
}

// commitAtomic commits ops as one all-or-nothing batch and refuses writes that
// would not fit in one.
func (s *BaseService) commitAtomic(ctx context.Context, operation string, ops []portsrepo.BatchOp) error {
	if limit := s.store.MaxBatchOps(); limit > 0 && len(ops) > limit {
		return validationError("%s needs %d writes, more than the %d allowed in one batch", operation, len(ops), limit)
	}
	batch := s.store.NewBatch()
	for _, op := range ops {
		portsrepo.Queue(batch, op)
	}
	if err := batch.Commit(ctx); err != nil {
		s.LogError(ctx, err, "Atomic batch failed", slog.String("operation", operation), slog.Int("ops", len(ops)))
		return fmt.Errorf("%s: %w: %w", operation, apperrors.ErrBatchCommit, err)
	}
	s.invalidateViews(ctx)
	return nil
}

// invalidateViews bumps the dashboard generation. A failure leaves views
// stale until their TTL runs out.
func (s *BaseService) invalidateViews(ctx context.Context) {
	if s.views == nil {
		return
	}
	if _, err := s.views.Incr(ctx, viewGenerationKey); err != nil {
		s.GetLogger(ctx).Warn("Failed to invalidate dashboard views", slog.String("error", err.Error()))
	}
}

// recordEvent emits a system activity. The triggering mutation has already
// committed, so a failure here is logged and swallowed.
func (s *BaseService) recordEvent(ctx context.Context, event domain.SystemEvent, summary, details string, refs domain.ActivityRefs, actorID string) {
	if s.ledger == nil {
		return
	}
	if _, err := s.ledger.RecordSystemActivity(ctx, event, summary, details, refs, actorID); err != nil {
		s.GetLogger(ctx).Warn("Failed to record system activity",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
	}
}

// trackNextAction writes a normalized next-action pair onto a document and,
// if the pair actually changed, records a system activity with the diff.
func (s *BaseService) trackNextAction(ctx context.Context, collection, id, label string, oldAction *string, oldDate *time.Time,
	newAction *string, newDate *time.Time, refs domain.ActivityRefs, actorID string) error {
	newAction = domain.NormalizeNextAction(newAction)
	if err := domain.ValidateNextActionPair(newAction, newDate); err != nil {
		return err
	}
	change := domain.NextActionChange{OldAction: oldAction, OldDate: oldDate, NewAction: newAction, NewDate: newDate}
	if !change.Changed() {
		s.LogDebug(ctx, "Next action unchanged, skipping write", slog.String("collection", collection), slog.String("id", id))
		return nil
	}

	fields := mapping.UpdateAuditFields(portsrepo.Document{
		"nextAction":     mapping.OptionalString(newAction),
		"nextActionDate": mapping.OptionalTime(newDate),
	}, actorID)
	ops := []portsrepo.BatchOp{{Kind: portsrepo.OpUpdate, Collection: collection, ID: id, Data: fields}}
	if err := s.commitAtomic(ctx, "update next action", ops); err != nil {
		return fmt.Errorf("failed to update next action on %s %s: %w", collection, id, err)
	}

	s.recordEvent(ctx, domain.EventNextActionUpdated, "Next action updated for "+label,
		change.Details(s.location), refs, actorID)
	return nil
}

// getEntity point-reads and decodes a document. Missing documents surface as
// apperrors.ErrNotFound.
func getEntity[T any](ctx context.Context, store portsrepo.DocumentReader, collection, id string) (*T, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: %s id is required", apperrors.ErrValidation, collection)
	}
	doc, err := store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	entity, err := mapping.FromDocument[T](doc)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// findEntity resolves a weak reference: a missing target yields nil without error.
func findEntity[T any](ctx context.Context, store portsrepo.DocumentReader, collection string, id *string) (*T, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	entity, err := getEntity[T](ctx, store, collection, *id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return entity, err
}

func listEntities[T any](ctx context.Context, store portsrepo.DocumentReader, q portsrepo.Query) ([]T, error) {
	docs, err := store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Collection, err)
	}
	return mapping.FromDocuments[T](docs)
}

func updateOp(collection, id string, fields portsrepo.Document) portsrepo.BatchOp {
	return portsrepo.BatchOp{Kind: portsrepo.OpUpdate, Collection: collection, ID: id, Data: fields}
}

func createOp(collection, id string, doc portsrepo.Document) portsrepo.BatchOp {
	return portsrepo.BatchOp{Kind: portsrepo.OpCreate, Collection: collection, ID: id, Data: doc}
}

func deleteOp(collection, id string) portsrepo.BatchOp {
	return portsrepo.BatchOp{Kind: portsrepo.OpDelete, Collection: collection, ID: id}
}

// emptyToNil turns an explicit empty reference into a cleared one.
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func stringPtr(s string) *string {
	return &s
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// transitionError reports a mutation blocked by the entity's current state.
func transitionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidTransition, fmt.Sprintf(format, args...))
}
