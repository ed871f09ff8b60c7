package services

import (
	"context"

	"github.com/SscSPs/salesops_app/internal/core/domain"
)

// DashboardSvc exposes read-only aggregate views. None of them write.
type DashboardSvc interface {
	FollowUps(ctx context.Context, limit int) ([]domain.FollowUpItem, error)
	Pipeline(ctx context.Context) (domain.PipelineSummary, error)
	WorkOrderRisks(ctx context.Context) ([]domain.WorkOrderRisk, error)
	TimesheetQueue(ctx context.Context) ([]domain.TimesheetGroup, error)
	KPIs(ctx context.Context) (domain.DashboardKPIs, error)
}
