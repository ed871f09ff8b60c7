package repositories

import (
	"context"
	"fmt"

	"github.com/SscSPs/salesops_app/internal/apperrors"
)

// ChunkedWriter splits a large list of operations into store-sized batches and
// commits them in order. Only a single-chunk run is atomic.
type ChunkedWriter struct {
	Store DocumentWriter
}

// ChunkResult reports how a chunked write went.
type ChunkResult struct {
	TotalOps        int
	TotalChunks     int
	CommittedChunks int
}

// Atomic reports whether the write fit in a single batch.
func (r ChunkResult) Atomic() bool {
	return r.TotalChunks <= 1
}

// Write commits ops in chunks of at most MaxBatchOps. A failure on the first
// chunk wraps apperrors.ErrBatchCommit; a failure after earlier chunks committed
// returns a *apperrors.PartialCommitError.
func (w ChunkedWriter) Write(ctx context.Context, operation string, ops []BatchOp) (ChunkResult, error) {
	size := w.Store.MaxBatchOps()
	if size <= 0 {
		size = len(ops)
	}
	result := ChunkResult{TotalOps: len(ops)}
	if len(ops) == 0 {
		return result, nil
	}
	result.TotalChunks = (len(ops) + size - 1) / size

	for start := 0; start < len(ops); start += size {
		end := min(start+size, len(ops))
		batch := w.Store.NewBatch()
		for _, op := range ops[start:end] {
			Queue(batch, op)
		}
		if err := batch.Commit(ctx); err != nil {
			if result.CommittedChunks == 0 {
				return result, fmt.Errorf("%s: %w: %w", operation, apperrors.ErrBatchCommit, err)
			}
			return result, &apperrors.PartialCommitError{
				Operation:       operation,
				CommittedChunks: result.CommittedChunks,
				TotalChunks:     result.TotalChunks,
				Err:             err,
			}
		}
		result.CommittedChunks++
	}
	return result, nil
}

// Queue replays op onto batch.
func Queue(batch Batch, op BatchOp) {
	switch op.Kind {
	case OpCreate:
		batch.Create(op.Collection, op.ID, op.Data)
	case OpUpdate:
		batch.Update(op.Collection, op.ID, op.Data)
	case OpDelete:
		batch.Delete(op.Collection, op.ID)
	}
}
