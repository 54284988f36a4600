package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"launchtracker/internal/domain"
	"launchtracker/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var reportTracer = otel.Tracer("service/report")

// ReportService builds the calendar, day-checklist and end-of-launch report
// views, plus the CSV export.
type ReportService struct {
	plans    port.PlanStore
	tasks    port.TaskStore
	kpis     port.KpiStore
	contacts port.ContactStore
	notes    port.NoteStore
	logger   *zap.Logger
}

// NewReportService creates a new report service.
func NewReportService(plans port.PlanStore, tasks port.TaskStore, kpis port.KpiStore, contacts port.ContactStore, notes port.NoteStore, logger *zap.Logger) *ReportService {
	return &ReportService{plans: plans, tasks: tasks, kpis: kpis, contacts: contacts, notes: notes, logger: logger}
}

// Calendar produces one summary row per distinct due date in the plan. Days
// with no tasks are omitted, not zero-filled.
func (s *ReportService) Calendar(ctx context.Context, userID, planID int64) (*domain.CalendarData, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.Calendar")
	defer span.End()

	plan, err := s.plans.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	stats, err := s.tasks.DayStats(ctx, planID)
	if err != nil {
		return nil, err
	}
	alertDates, err := s.kpis.UnresolvedAlertDates(ctx, planID)
	if err != nil {
		return nil, err
	}

	days := make([]domain.DaySummary, 0, len(stats))
	for _, st := range stats {
		days = append(days, domain.DaySummary{
			Date:                     st.Date,
			TotalTasks:               st.TotalTasks,
			CompletedTasks:           st.CompletedTasks,
			CompletionPercent:        domain.CompletionPercent(st.CompletedTasks, st.TotalTasks),
			HasBlockedTasks:          st.HasBlockedTasks,
			HasCriticalPriorityTasks: st.HasHighPriority,
			HasAlerts:                alertDates[st.Date],
		})
	}

	return &domain.CalendarData{
		PlanID:    plan.ID,
		StartDate: plan.StartDate,
		EndDate:   plan.EndDate,
		Days:      days,
	}, nil
}

// Day produces the checklist view for one date: the day's tasks, priority
// buckets, advisory dependency edges, and the upstream tasks they point at.
func (s *ReportService) Day(ctx context.Context, userID, planID int64, date string) (*domain.DayView, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.Day")
	defer span.End()

	if _, err := s.plans.GetPlan(ctx, userID, planID); err != nil {
		return nil, err
	}

	dayTasks, err := s.tasks.ListTasks(ctx, planID, domain.TaskFilter{Date: date})
	if err != nil {
		return nil, err
	}

	taskIDs := make([]int64, len(dayTasks))
	for i, t := range dayTasks {
		taskIDs[i] = t.ID
	}
	deps, err := s.tasks.DependenciesFor(ctx, taskIDs)
	if err != nil {
		return nil, err
	}

	blockingIDs := make([]int64, 0, len(deps))
	for _, d := range deps {
		blockingIDs = append(blockingIDs, d.DependsOnTaskID)
	}
	blocking, err := s.tasks.TasksByIDs(ctx, planID, blockingIDs)
	if err != nil {
		return nil, err
	}

	view := domain.DayView{
		Date:          date,
		Tasks:         dayTasks,
		Grouped:       domain.GroupedTasks{MustDo: []domain.Task{}, ShouldDo: []domain.Task{}, Optional: []domain.Task{}},
		Dependencies:  deps,
		BlockingTasks: blocking,
	}
	for _, t := range dayTasks {
		switch t.Priority {
		case domain.PriorityHigh:
			view.Grouped.MustDo = append(view.Grouped.MustDo, t)
		case domain.PriorityMedium:
			view.Grouped.ShouldDo = append(view.Grouped.ShouldDo, t)
		default:
			view.Grouped.Optional = append(view.Grouped.Optional, t)
		}
		view.Summary.Total++
		if t.Status == domain.TaskComplete {
			view.Summary.Completed++
		}
		if t.Status == domain.TaskBlocked {
			view.Summary.Blocked++
		}
	}

	return &view, nil
}

// Report assembles the end-of-launch summary, fanning the four independent
// aggregations out concurrently.
func (s *ReportService) Report(ctx context.Context, userID, planID int64) (*domain.Report, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.Report")
	defer span.End()

	plan, err := s.plans.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	report := domain.Report{Plan: plan}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.tasks.StatusCounts(gctx, planID)
		if err != nil {
			return err
		}
		report.TaskSummary = summary
		return nil
	})

	g.Go(func() error {
		lines, err := s.kpiReportLines(gctx, planID)
		if err != nil {
			return err
		}
		report.Kpis = lines
		return nil
	})

	g.Go(func() error {
		funnel, err := s.contacts.FunnelStats(gctx, planID)
		if err != nil {
			return err
		}
		report.OutreachFunnel = funnel
		return nil
	})

	g.Go(func() error {
		learnings, err := s.notes.ListNotes(gctx, planID, domain.NoteFilter{})
		if err != nil {
			return err
		}
		report.Learnings = learnings
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &report, nil
}

// kpiReportLines pairs each KPI's final (most recent) value with a met /
// missed / no_data judgement.
func (s *ReportService) kpiReportLines(ctx context.Context, planID int64) ([]domain.KpiReportLine, error) {
	kpis, err := s.kpis.ListKpis(ctx, planID)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.KpiReportLine, 0, len(kpis))
	for _, k := range kpis {
		line := domain.KpiReportLine{
			Name:        k.Name,
			Category:    k.Category,
			Unit:        k.Unit,
			TargetType:  k.TargetType,
			TargetValue: k.TargetValue,
			Result:      domain.KpiNoData,
		}

		recent, err := s.kpis.RecentEntries(ctx, k.ID, 1)
		if err != nil {
			return nil, err
		}
		if len(recent) > 0 {
			v := recent[0].Value
			line.FinalValue = &v
			if domain.TargetMet(v, k.TargetValue, k.TargetType) {
				line.Result = domain.KpiMet
			} else {
				line.Result = domain.KpiMissed
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ExportCSV serializes every KPI entry of the plan, one row each, under a
// fixed header. Returns the suggested download filename and the bytes.
func (s *ReportService) ExportCSV(ctx context.Context, userID, planID int64) (string, []byte, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.ExportCSV")
	defer span.End()

	if _, err := s.plans.GetPlan(ctx, userID, planID); err != nil {
		return "", nil, err
	}

	entries, err := s.kpis.EntriesForExport(ctx, planID)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "KPI Name", "Category", "Value", "Unit", "Notes"}); err != nil {
		return "", nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Date,
			e.KpiName,
			string(e.Category),
			strconv.FormatFloat(e.Value, 'f', -1, 64),
			string(e.Unit),
			e.Notes,
		}
		if err := w.Write(record); err != nil {
			return "", nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("flush csv: %w", err)
	}

	filename := fmt.Sprintf("launch-kpis-%d-%s.csv", planID, uuid.NewString()[:8])
	s.logger.Debug("csv exported", zap.Int64("plan_id", planID), zap.Int("rows", len(entries)))
	return filename, buf.Bytes(), nil
}
