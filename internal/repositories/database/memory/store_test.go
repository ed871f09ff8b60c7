package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/SscSPs/salesops_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
}

func TestStore_BatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithClock(fixedClock))

	b := store.NewBatch()
	b.Create("companies", "c1", portsrepo.Document{"name": "Acme"})
	b.Update("companies", "missing", portsrepo.Document{"name": "Ghost"})
	err := b.Commit(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = store.Get(ctx, "companies", "c1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "first op must not land when a later one fails")
}

func TestStore_ServerTimestampAndMerge(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithClock(fixedClock))

	b := store.NewBatch()
	b.Create("companies", "c1", portsrepo.Document{"name": "Acme", "createdAt": portsrepo.ServerTimestamp})
	b.Update("companies", "c1", portsrepo.Document{"status": "active"})
	require.NoError(t, b.Commit(ctx))

	doc, err := store.Get(ctx, "companies", "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", doc["id"])
	assert.Equal(t, "Acme", doc["name"])
	assert.Equal(t, "active", doc["status"])
	assert.Equal(t, fixedClock(), doc["createdAt"])
}

func TestStore_QueryFiltersOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := fixedClock()

	b := store.NewBatch()
	b.Create("deals", "d1", portsrepo.Document{"stage": "lead", "budget": int64(100), "due": base.Add(-48 * time.Hour)})
	b.Create("deals", "d2", portsrepo.Document{"stage": "won", "budget": int64(300), "due": base.Add(-24 * time.Hour)})
	b.Create("deals", "d3", portsrepo.Document{"stage": "lead", "budget": int64(200)})
	require.NoError(t, b.Commit(ctx))

	leads, err := store.Query(ctx, portsrepo.Query{
		Collection: "deals",
		Filters:    []portsrepo.Filter{portsrepo.Where("stage", portsrepo.OpEqual, "lead")},
		OrderBy:    []portsrepo.Order{{Field: "budget", Direction: portsrepo.Descending}},
	})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "d3", leads[0]["id"])

	due, err := store.Query(ctx, portsrepo.Query{
		Collection: "deals",
		Filters:    []portsrepo.Filter{portsrepo.Where("due", portsrepo.OpLess, base)},
		OrderBy:    []portsrepo.Order{{Field: "due"}},
		Limit:      1,
	})
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "d1", due[0]["id"], "documents without the field never match a range filter")

	in, err := store.Query(ctx, portsrepo.Query{
		Collection: "deals",
		Filters:    []portsrepo.Filter{portsrepo.Where("stage", portsrepo.OpIn, []string{"won", "lost"})},
	})
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, "d2", in[0]["id"])
}

func TestStore_BatchBoundAndCommitHook(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithMaxBatchOps(2))

	b := store.NewBatch()
	for _, id := range []string{"a", "b", "c"} {
		b.Create("tasks", id, portsrepo.Document{})
	}
	assert.ErrorIs(t, b.Commit(ctx), apperrors.ErrValidation)

	boom := errors.New("quota exceeded")
	store.SetCommitHook(func([]portsrepo.BatchOp) error { return boom })
	b = store.NewBatch()
	b.Create("tasks", "a", portsrepo.Document{})
	assert.ErrorIs(t, b.Commit(ctx), boom)
}

func TestChunkedWriter_PartialCommit(t *testing.T) {
	ctx := context.Background()
	commits := 0
	store := memory.NewStore(memory.WithMaxBatchOps(2), memory.WithCommitHook(func([]portsrepo.BatchOp) error {
		commits++
		if commits == 2 {
			return errors.New("network down")
		}
		return nil
	}))

	ops := make([]portsrepo.BatchOp, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		ops = append(ops, portsrepo.BatchOp{Kind: portsrepo.OpCreate, Collection: "tasks", ID: id, Data: portsrepo.Document{}})
	}

	result, err := portsrepo.ChunkedWriter{Store: store}.Write(ctx, "seed tasks", ops)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPartialCommit)
	assert.Equal(t, 3, result.TotalChunks)
	assert.Equal(t, 1, result.CommittedChunks)

	_, err = store.Get(ctx, "tasks", "a")
	assert.NoError(t, err, "first chunk stays committed")
	_, err = store.Get(ctx, "tasks", "c")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
