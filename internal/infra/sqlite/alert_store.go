package sqlite

import (
	"context"
	"fmt"
	"time"

	"launchtracker/internal/domain"
)

// ListAlerts returns a plan's alerts, newest first, each carrying its KPI
// name when the KPI still exists.
func (s *Store) ListAlerts(ctx context.Context, planID int64, unresolvedOnly bool) ([]domain.Alert, error) {
	ctx, span := tracer.Start(ctx, "Store.ListAlerts")
	defer span.End()

	query := `SELECT a.id, a.plan_id, a.kpi_id, k.name, a.date_triggered, a.severity,
			a.message, a.resolved_at, a.resolution_notes, a.created_at
		FROM alerts a LEFT JOIN kpis k ON k.id = a.kpi_id
		WHERE a.plan_id = ?`
	if unresolvedOnly {
		query += ` AND a.resolved_at IS NULL`
	}
	query += ` ORDER BY a.created_at DESC, a.id DESC`

	rows, err := s.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []domain.Alert{}
	for rows.Next() {
		var a domain.Alert
		err := rows.Scan(&a.ID, &a.PlanID, &a.KpiID, &a.KpiName, &a.DateTriggered,
			&a.Severity, &a.Message, &a.ResolvedAt, &a.ResolutionNotes, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// CreateAlert records a threshold breach. Every breaching entry write creates
// a fresh alert, even for the same KPI and date.
func (s *Store) CreateAlert(ctx context.Context, planID, kpiID int64, date string, severity domain.AlertSeverity, message string) (*domain.Alert, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateAlert")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (plan_id, kpi_id, date_triggered, severity, message) VALUES (?, ?, ?, ?, ?)`,
		planID, kpiID, date, string(severity), message)
	if err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("alert id: %w", err)
	}

	var a domain.Alert
	row := s.db.QueryRowContext(ctx,
		`SELECT a.id, a.plan_id, a.kpi_id, k.name, a.date_triggered, a.severity,
			a.message, a.resolved_at, a.resolution_notes, a.created_at
		 FROM alerts a LEFT JOIN kpis k ON k.id = a.kpi_id WHERE a.id = ?`, id)
	err = row.Scan(&a.ID, &a.PlanID, &a.KpiID, &a.KpiName, &a.DateTriggered,
		&a.Severity, &a.Message, &a.ResolvedAt, &a.ResolutionNotes, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	return &a, nil
}

// ResolveAlert stamps an alert resolved with a note. Resolving twice updates
// the note and timestamp.
func (s *Store) ResolveAlert(ctx context.Context, planID, alertID int64, notes string) (*domain.Alert, error) {
	ctx, span := tracer.Start(ctx, "Store.ResolveAlert")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET resolved_at = ?, resolution_notes = ? WHERE id = ? AND plan_id = ?`,
		time.Now().UTC(), notes, alertID, planID)
	if err != nil {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &domain.ErrNotFound{Resource: "alert", ID: alertID}
	}

	var a domain.Alert
	row := s.db.QueryRowContext(ctx,
		`SELECT a.id, a.plan_id, a.kpi_id, k.name, a.date_triggered, a.severity,
			a.message, a.resolved_at, a.resolution_notes, a.created_at
		 FROM alerts a LEFT JOIN kpis k ON k.id = a.kpi_id WHERE a.id = ?`, alertID)
	err = row.Scan(&a.ID, &a.PlanID, &a.KpiID, &a.KpiName, &a.DateTriggered,
		&a.Severity, &a.Message, &a.ResolvedAt, &a.ResolutionNotes, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	return &a, nil
}

// UnresolvedAlertDates returns the distinct trigger dates of open alerts,
// used to flag calendar cells.
func (s *Store) UnresolvedAlertDates(ctx context.Context, planID int64) (map[string]bool, error) {
	ctx, span := tracer.Start(ctx, "Store.UnresolvedAlertDates")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT date_triggered FROM alerts WHERE plan_id = ? AND resolved_at IS NULL`, planID)
	if err != nil {
		return nil, fmt.Errorf("query alert dates: %w", err)
	}
	defer rows.Close()

	dates := map[string]bool{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan alert date: %w", err)
		}
		dates[d] = true
	}
	return dates, rows.Err()
}
