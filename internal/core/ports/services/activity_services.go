package services

import (
	"context"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	"github.com/SscSPs/salesops_app/internal/dto"
)

// ActivityRecorderSvc is the single write path of the activity ledger.
type ActivityRecorderSvc interface {
	// RecordUserActivity stores a user-authored activity, refreshes lastActivityAt
	// on every resolved parent and applies an optional next action to the most
	// specific parent, all in one atomic batch.
	RecordUserActivity(ctx context.Context, req dto.RecordActivityRequest, actorID string) (string, error)

	// RecordSystemActivity stores a system event with the same resolution and
	// cascade rules and no next-action payload.
	RecordSystemActivity(ctx context.Context, event domain.SystemEvent, summary, details string, refs domain.ActivityRefs, actorID string) (string, error)
}

// ActivityReaderSvc defines read queries over the ledger.
type ActivityReaderSvc interface {
	ListActivities(ctx context.Context, params dto.ListActivitiesParams) (*dto.ActivityPage, error)
	ListActivitiesByParent(ctx context.Context, kind domain.EntityKind, parentID string, limit int) ([]domain.Activity, error)
}

// ActivitySvcFacade combines all activity ledger operations.
type ActivitySvcFacade interface {
	ActivityRecorderSvc
	ActivityReaderSvc
}
