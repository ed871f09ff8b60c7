package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/SscSPs/salesops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
)

const dueSoonWindowDays = 7

type dashboardService struct {
	BaseService
	now      func() time.Time
	cache    portsrepo.Cache
	cacheTTL time.Duration
}

// DashboardOption configures the dashboard aggregator.
type DashboardOption func(*dashboardService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) DashboardOption {
	return func(s *dashboardService) {
		s.now = now
	}
}

// WithDashboardLocation sets the timezone that defines "today".
func WithDashboardLocation(loc *time.Location) DashboardOption {
	return func(s *dashboardService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithDashboardCache caches each view for ttl.
func WithDashboardCache(cache portsrepo.Cache, ttl time.Duration) DashboardOption {
	return func(s *dashboardService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// NewDashboardService creates the read-only dashboard aggregator.
func NewDashboardService(store portsrepo.DocumentStore, options ...DashboardOption) portssvc.DashboardSvc {
	svc := &dashboardService{BaseService: newBaseService(store), now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DashboardSvc = (*dashboardService)(nil)

// startOfToday is local midnight in the dashboard's timezone.
func (s *dashboardService) startOfToday() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

// viewGeneration reads the counter that writers bump on every commit. A
// missing counter is generation zero.
func (s *dashboardService) viewGeneration(ctx context.Context) (int64, error) {
	raw, ok, err := s.cache.Get(ctx, viewGenerationKey)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}

// cachedView serves a view from the cache when one is configured. Keys carry
// the current write generation, so any commit makes older entries unreachable.
// Cache failures only cost a recomputation.
func cachedView[T any](ctx context.Context, s *dashboardService, key string, compute func(context.Context) (T, error)) (T, error) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return compute(ctx)
	}
	logger := s.GetLogger(ctx)

	gen, err := s.viewGeneration(ctx)
	if err != nil {
		logger.Warn("Dashboard cache generation unavailable, bypassing cache", slog.String("error", err.Error()))
		return compute(ctx)
	}
	key = fmt.Sprintf("%s:v%d", key, gen)

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("Dashboard cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		logger.Warn("Discarding undecodable dashboard cache entry", slog.String("key", key))
	}

	view, err := compute(ctx)
	if err != nil {
		return view, err
	}
	if raw, err := json.Marshal(view); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			logger.Warn("Dashboard cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return view, nil
}

func (s *dashboardService) FollowUps(ctx context.Context, limit int) ([]domain.FollowUpItem, error) {
	today := s.startOfToday()
	key := fmt.Sprintf("dashboard:followups:%s:%d", today.Format(time.DateOnly), limit)
	return cachedView(ctx, s, key, func(ctx context.Context) ([]domain.FollowUpItem, error) {
		return s.followUps(ctx, today, limit)
	})
}

// followUps merges companies and deals whose next action is due before
// tomorrow. Both queries are date ascending, so each only needs limit rows.
func (s *dashboardService) followUps(ctx context.Context, today time.Time, limit int) ([]domain.FollowUpItem, error) {
	tomorrow := today.AddDate(0, 0, 1)
	dueQuery := func(collection string) portsrepo.Query {
		q := portsrepo.Query{
			Collection: collection,
			Filters: []portsrepo.Filter{
				portsrepo.Where("nextActionDate", portsrepo.OpLess, tomorrow),
				portsrepo.Where("isArchived", portsrepo.OpEqual, false),
			},
			OrderBy: []portsrepo.Order{{Field: "nextActionDate"}},
		}
		if limit > 0 {
			q.Limit = limit
		}
		return q
	}

	companies, err := listEntities[domain.Company](ctx, s.store, dueQuery(domain.CollectionCompanies))
	if err != nil {
		return nil, err
	}
	deals, err := listEntities[domain.Deal](ctx, s.store, dueQuery(domain.CollectionDeals))
	if err != nil {
		return nil, err
	}

	items := make([]domain.FollowUpItem, 0, len(companies)+len(deals))
	add := func(kind domain.EntityKind, id, name, companyName string, action *string, date *time.Time) {
		if date == nil {
			return
		}
		item := domain.FollowUpItem{
			EntityKind:     kind,
			EntityID:       id,
			Name:           name,
			CompanyName:    companyName,
			NextActionDate: *date,
			IsOverdue:      date.Before(today),
		}
		if action != nil {
			item.NextAction = *action
		}
		items = append(items, item)
	}
	for _, c := range companies {
		add(domain.KindCompany, c.ID, c.Name, "", c.NextAction, c.NextActionDate)
	}
	for _, d := range deals {
		add(domain.KindDeal, d.ID, d.Title, d.CompanyName, d.NextAction, d.NextActionDate)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsOverdue != b.IsOverdue {
			return a.IsOverdue
		}
		if !a.NextActionDate.Equal(b.NextActionDate) {
			return a.NextActionDate.Before(b.NextActionDate)
		}
		return a.EntityID < b.EntityID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *dashboardService) Pipeline(ctx context.Context) (domain.PipelineSummary, error) {
	return cachedView(ctx, s, "dashboard:pipeline", s.pipeline)
}

func (s *dashboardService) pipeline(ctx context.Context) (domain.PipelineSummary, error) {
	deals, err := listEntities[domain.Deal](ctx, s.store, portsrepo.Query{
		Collection: domain.CollectionDeals,
		Filters:    []portsrepo.Filter{portsrepo.Where("isArchived", portsrepo.OpEqual, false)},
	})
	if err != nil {
		return domain.PipelineSummary{}, err
	}

	summary := domain.PipelineSummary{Stages: make([]domain.PipelineStage, len(domain.DealStages))}
	index := make(map[domain.DealStage]int, len(domain.DealStages))
	for i, stage := range domain.DealStages {
		summary.Stages[i] = domain.PipelineStage{Stage: stage}
		index[stage] = i
	}
	for _, deal := range deals {
		i, ok := index[deal.Stage]
		if !ok {
			s.GetLogger(ctx).Warn("Skipping deal with unknown stage in pipeline",
				slog.String("deal_id", deal.ID), slog.String("stage", string(deal.Stage)))
			continue
		}
		summary.Stages[i].Count++
		summary.Stages[i].BudgetMinor += deal.EstimatedBudgetMinor
	}
	return summary, nil
}

func (s *dashboardService) WorkOrderRisks(ctx context.Context) ([]domain.WorkOrderRisk, error) {
	today := s.startOfToday()
	key := "dashboard:risks:" + today.Format(time.DateOnly)
	return cachedView(ctx, s, key, func(ctx context.Context) ([]domain.WorkOrderRisk, error) {
		return s.workOrderRisks(ctx, today)
	})
}

func (s *dashboardService) workOrderRisks(ctx context.Context, today time.Time) ([]domain.WorkOrderRisk, error) {
	workOrders, err := listEntities[domain.WorkOrder](ctx, s.store, portsrepo.Query{
		Collection: domain.CollectionWorkOrders,
		Filters: []portsrepo.Filter{
			portsrepo.Where("status", portsrepo.OpIn, []string{string(domain.WorkOrderActive), string(domain.WorkOrderOnHold)}),
			portsrepo.Where("isArchived", portsrepo.OpEqual, false),
		},
	})
	if err != nil {
		return nil, err
	}

	blocked, err := s.store.Query(ctx, portsrepo.Query{
		Collection: domain.CollectionDeliverables,
		Filters:    []portsrepo.Filter{portsrepo.Where("status", portsrepo.OpEqual, string(domain.DeliverableBlocked))},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked deliverables: %w", err)
	}
	blockedByWorkOrder := make(map[string]int)
	for _, doc := range blocked {
		if id, ok := doc["workOrderId"].(string); ok {
			blockedByWorkOrder[id]++
		}
	}

	dueSoonLimit := today.AddDate(0, 0, dueSoonWindowDays)
	risks := make([]domain.WorkOrderRisk, 0)
	for _, wo := range workOrders {
		risk := domain.WorkOrderRisk{
			WorkOrderID:         wo.ID,
			Title:               wo.Title,
			CompanyName:         wo.CompanyName,
			Status:              wo.Status,
			PaymentStatus:       wo.PaymentStatus,
			TargetDeliveryDate:  wo.TargetDeliveryDate,
			BlockedDeliverables: blockedByWorkOrder[wo.ID],
		}
		if target := wo.TargetDeliveryDate; target != nil {
			risk.IsOverdue = target.Before(today)
			risk.IsDueSoon = !risk.IsOverdue && !target.After(dueSoonLimit)
		}
		if risk.IsOverdue || risk.IsDueSoon || risk.BlockedDeliverables > 0 || wo.PaymentStatus == domain.PaymentDepositRequested {
			risks = append(risks, risk)
		}
	}

	sort.SliceStable(risks, func(i, j int) bool {
		a, b := risks[i], risks[j]
		if a.IsOverdue != b.IsOverdue {
			return a.IsOverdue
		}
		switch {
		case a.TargetDeliveryDate == nil && b.TargetDeliveryDate == nil:
			return a.WorkOrderID < b.WorkOrderID
		case a.TargetDeliveryDate == nil:
			return false
		case b.TargetDeliveryDate == nil:
			return true
		case !a.TargetDeliveryDate.Equal(*b.TargetDeliveryDate):
			return a.TargetDeliveryDate.Before(*b.TargetDeliveryDate)
		}
		return a.WorkOrderID < b.WorkOrderID
	})
	return risks, nil
}

func (s *dashboardService) TimesheetQueue(ctx context.Context) ([]domain.TimesheetGroup, error) {
	return cachedView(ctx, s, "dashboard:timesheets", s.timesheetQueue)
}

func (s *dashboardService) timesheetQueue(ctx context.Context) ([]domain.TimesheetGroup, error) {
	entries, err := listEntities[domain.TimeEntry](ctx, s.store, portsrepo.Query{
		Collection: domain.CollectionTimeEntries,
		Filters:    []portsrepo.Filter{portsrepo.Where("status", portsrepo.OpEqual, string(domain.TimeEntrySubmitted))},
	})
	if err != nil {
		return nil, err
	}

	type groupKey struct{ userID, weekKey string }
	groups := make(map[groupKey]*domain.TimesheetGroup)
	for _, entry := range entries {
		key := groupKey{entry.UserID, entry.WeekKey}
		group, ok := groups[key]
		if !ok {
			group = &domain.TimesheetGroup{UserID: entry.UserID, WeekKey: entry.WeekKey}
			groups[key] = group
		}
		group.TotalMinutes += entry.DurationMinutes
		group.EntryCount++
	}

	queue := make([]domain.TimesheetGroup, 0, len(groups))
	for _, group := range groups {
		queue = append(queue, *group)
	}
	sort.Slice(queue, func(i, j int) bool {
		if queue[i].WeekKey != queue[j].WeekKey {
			return queue[i].WeekKey > queue[j].WeekKey
		}
		return queue[i].UserID < queue[j].UserID
	})
	return queue, nil
}

func (s *dashboardService) KPIs(ctx context.Context) (domain.DashboardKPIs, error) {
	today := s.startOfToday()
	return cachedView(ctx, s, "dashboard:kpis:"+today.Format(time.DateOnly), func(ctx context.Context) (domain.DashboardKPIs, error) {
		return s.kpis(ctx, today)
	})
}

func (s *dashboardService) kpis(ctx context.Context, today time.Time) (domain.DashboardKPIs, error) {
	var kpis domain.DashboardKPIs

	activeCompanies, err := s.store.Query(ctx, portsrepo.Query{
		Collection: domain.CollectionCompanies,
		Filters: []portsrepo.Filter{
			portsrepo.Where("status", portsrepo.OpEqual, string(domain.CompanyActive)),
			portsrepo.Where("isArchived", portsrepo.OpEqual, false),
		},
	})
	if err != nil {
		return kpis, err
	}
	kpis.ActiveCompanies = len(activeCompanies)

	pipeline, err := s.pipeline(ctx)
	if err != nil {
		return kpis, err
	}
	for _, stage := range pipeline.Stages {
		if !stage.Stage.IsClosed() {
			kpis.OpenDeals += stage.Count
			kpis.OpenPipelineMinor += stage.BudgetMinor
		}
	}

	activeWorkOrders, err := s.store.Query(ctx, portsrepo.Query{
		Collection: domain.CollectionWorkOrders,
		Filters: []portsrepo.Filter{
			portsrepo.Where("status", portsrepo.OpEqual, string(domain.WorkOrderActive)),
			portsrepo.Where("isArchived", portsrepo.OpEqual, false),
		},
	})
	if err != nil {
		return kpis, err
	}
	kpis.ActiveWorkOrders = len(activeWorkOrders)

	followUps, err := s.followUps(ctx, today, 0)
	if err != nil {
		return kpis, err
	}
	for _, item := range followUps {
		if item.IsOverdue {
			kpis.OverdueFollowUps++
		} else {
			kpis.DueTodayFollowUps++
		}
	}

	timesheets, err := s.timesheetQueue(ctx)
	if err != nil {
		return kpis, err
	}
	kpis.SubmittedTimesheets = len(timesheets)
	return kpis, nil
}
