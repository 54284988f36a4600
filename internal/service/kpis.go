package service

import (
	"context"

	"launchtracker/internal/domain"
	"launchtracker/internal/infra/observability"
	"launchtracker/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var kpiTracer = otel.Tracer("service/kpis")

// recentEntryWindow is how many entries feed the status/trend derivation.
const recentEntryWindow = 7

// KpiService owns KPI definitions, daily entries, the derived status and
// trend enrichment, and threshold alerts.
type KpiService struct {
	store   port.KpiStore
	plans   *PlanService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewKpiService creates a new KPI service.
func NewKpiService(store port.KpiStore, plans *PlanService, metrics *observability.Metrics, logger *zap.Logger) *KpiService {
	return &KpiService{store: store, plans: plans, metrics: metrics, logger: logger}
}

// List returns a plan's KPIs, each enriched with its latest value and the
// derived status and trend.
func (s *KpiService) List(ctx context.Context, userID, planID int64) ([]domain.KpiWithStatus, error) {
	ctx, span := kpiTracer.Start(ctx, "KpiService.List")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}

	kpis, err := s.store.ListKpis(ctx, planID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.KpiWithStatus, 0, len(kpis))
	for _, k := range kpis {
		enriched, err := s.enrich(ctx, k)
		if err != nil {
			return nil, err
		}
		out = append(out, *enriched)
	}
	return out, nil
}

// enrich derives status and trend from the KPI's most recent entries.
func (s *KpiService) enrich(ctx context.Context, k domain.Kpi) (*domain.KpiWithStatus, error) {
	recent, err := s.store.RecentEntries(ctx, k.ID, recentEntryWindow)
	if err != nil {
		return nil, err
	}

	e := domain.KpiWithStatus{
		Kpi:    k,
		Status: domain.StatusGreen,
		Trend:  domain.TrendStable,
	}
	if len(recent) == 0 {
		return &e, nil
	}

	latest := recent[0]
	e.LatestValue = &latest.Value
	e.LatestDate = &latest.Date
	e.Status = domain.KpiStatusFor(latest.Value, k.TargetValue, k.TargetType, domain.DefaultWarningThreshold)

	// Recent entries arrive newest first; trend wants chronological order.
	values := make([]float64, len(recent))
	for i, entry := range recent {
		values[len(recent)-1-i] = entry.Value
	}
	e.Trend = domain.KpiTrendOf(values)

	return &e, nil
}

// Create adds a KPI definition.
func (s *KpiService) Create(ctx context.Context, userID, planID int64, in domain.CreateKpiInput) (*domain.Kpi, error) {
	ctx, span := kpiTracer.Start(ctx, "KpiService.Create")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.CreateKpi(ctx, planID, in)
}

// Delete removes a KPI and its entries.
func (s *KpiService) Delete(ctx context.Context, userID, planID, kpiID int64) error {
	ctx, span := kpiTracer.Start(ctx, "KpiService.Delete")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return err
	}
	return s.store.DeleteKpi(ctx, planID, kpiID)
}

// ListEntries returns a KPI's entries, oldest first.
func (s *KpiService) ListEntries(ctx context.Context, userID, planID, kpiID int64) ([]domain.KpiEntry, error) {
	ctx, span := kpiTracer.Start(ctx, "KpiService.ListEntries")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetKpi(ctx, planID, kpiID); err != nil {
		return nil, err
	}
	return s.store.ListEntries(ctx, kpiID)
}

// AddEntry records a value for (kpi, date), overwriting any existing value
// for that date. A value 10% beyond the target in the failing direction
// creates a warning alert; every breaching write creates a fresh one.
func (s *KpiService) AddEntry(ctx context.Context, userID, planID, kpiID int64, in domain.CreateKpiEntryInput) (*domain.KpiEntry, error) {
	ctx, span := kpiTracer.Start(ctx, "KpiService.AddEntry")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}

	kpi, err := s.store.GetKpi(ctx, planID, kpiID)
	if err != nil {
		return nil, err
	}

	entry, created, err := s.store.UpsertEntry(ctx, planID, kpiID, in)
	if err != nil {
		return nil, err
	}
	if created {
		s.metrics.IncrKpiEntry("insert")
	} else {
		s.metrics.IncrKpiEntry("update")
	}

	if domain.ShouldAlert(in.Value, kpi.TargetValue, kpi.TargetType) {
		message := domain.AlertMessageFor(kpi.Name, in.Value, kpi.TargetValue, kpi.TargetType)
		if _, err := s.store.CreateAlert(ctx, planID, kpiID, in.Date, domain.SeverityWarning, message); err != nil {
			return nil, err
		}
		s.metrics.IncrAlertTriggered()
		s.logger.Info("kpi alert triggered",
			zap.Int64("kpi_id", kpiID),
			zap.String("date", in.Date),
			zap.Float64("value", in.Value),
		)
	}

	return entry, nil
}

// ListAlerts returns a plan's alerts, optionally only unresolved ones.
func (s *KpiService) ListAlerts(ctx context.Context, userID, planID int64, unresolvedOnly bool) ([]domain.Alert, error) {
	ctx, span := kpiTracer.Start(ctx, "KpiService.ListAlerts")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.ListAlerts(ctx, planID, unresolvedOnly)
}

// ResolveAlert stamps an alert resolved with a mandatory note.
func (s *KpiService) ResolveAlert(ctx context.Context, userID, planID, alertID int64, in domain.ResolveAlertInput) (*domain.Alert, error) {
	ctx, span := kpiTracer.Start(ctx, "KpiService.ResolveAlert")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.ResolveAlert(ctx, planID, alertID, in.ResolutionNotes)
}
