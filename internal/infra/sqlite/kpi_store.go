package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"launchtracker/internal/domain"
)

const kpiColumns = `id, plan_id, name, category, unit, target_type, target_value, calculation_type, created_at`

// ListKpis returns a plan's KPIs in creation order.
func (s *Store) ListKpis(ctx context.Context, planID int64) ([]domain.Kpi, error) {
	ctx, span := tracer.Start(ctx, "Store.ListKpis")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+kpiColumns+` FROM kpis WHERE plan_id = ? ORDER BY id ASC`, planID)
	if err != nil {
		return nil, fmt.Errorf("query kpis: %w", err)
	}
	defer rows.Close()

	kpis := []domain.Kpi{}
	for rows.Next() {
		k, err := scanKpi(rows)
		if err != nil {
			return nil, err
		}
		kpis = append(kpis, *k)
	}
	return kpis, rows.Err()
}

// GetKpi fetches one KPI scoped to its plan.
func (s *Store) GetKpi(ctx context.Context, planID, kpiID int64) (*domain.Kpi, error) {
	ctx, span := tracer.Start(ctx, "Store.GetKpi")
	defer span.End()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+kpiColumns+` FROM kpis WHERE id = ? AND plan_id = ?`, kpiID, planID)
	k, err := scanKpi(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "kpi", ID: kpiID}
	}
	return k, err
}

// CreateKpi inserts a KPI definition.
func (s *Store) CreateKpi(ctx context.Context, planID int64, in domain.CreateKpiInput) (*domain.Kpi, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateKpi")
	defer span.End()

	calc := in.CalculationType
	if calc == "" {
		calc = "manual"
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO kpis (plan_id, name, category, unit, target_type, target_value, calculation_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		planID, in.Name, string(in.Category), string(in.Unit), string(in.TargetType), in.TargetValue, calc,
	)
	if err != nil {
		return nil, fmt.Errorf("insert kpi: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("kpi id: %w", err)
	}
	return s.GetKpi(ctx, planID, id)
}

// DeleteKpi removes a KPI; its entries cascade, alerts keep a null kpi id.
func (s *Store) DeleteKpi(ctx context.Context, planID, kpiID int64) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteKpi")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM kpis WHERE id = ? AND plan_id = ?`, kpiID, planID)
	if err != nil {
		return fmt.Errorf("delete kpi: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "kpi", ID: kpiID}
	}
	return nil
}

// --- Entries ---

const entryColumns = `id, plan_id, kpi_id, date, value, notes, created_at`

// ListEntries returns a KPI's entries, oldest first.
func (s *Store) ListEntries(ctx context.Context, kpiID int64) ([]domain.KpiEntry, error) {
	ctx, span := tracer.Start(ctx, "Store.ListEntries")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM kpi_entries WHERE kpi_id = ? ORDER BY date ASC`, kpiID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// RecentEntries returns up to limit entries, newest date first.
func (s *Store) RecentEntries(ctx context.Context, kpiID int64, limit int) ([]domain.KpiEntry, error) {
	ctx, span := tracer.Start(ctx, "Store.RecentEntries")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM kpi_entries WHERE kpi_id = ? ORDER BY date DESC LIMIT ?`, kpiID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// UpsertEntry inserts a value for (kpi, date) or overwrites the existing one.
// The created flag reports which happened.
func (s *Store) UpsertEntry(ctx context.Context, planID, kpiID int64, in domain.CreateKpiEntryInput) (*domain.KpiEntry, bool, error) {
	ctx, span := tracer.Start(ctx, "Store.UpsertEntry")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM kpi_entries WHERE kpi_id = ? AND date = ?`, kpiID, in.Date).Scan(&existingID)

	created := false
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			`INSERT INTO kpi_entries (plan_id, kpi_id, date, value, notes) VALUES (?, ?, ?, ?, ?)`,
			planID, kpiID, in.Date, in.Value, in.Notes)
		if err != nil {
			return nil, false, fmt.Errorf("insert entry: %w", err)
		}
		existingID, err = res.LastInsertId()
		if err != nil {
			return nil, false, fmt.Errorf("entry id: %w", err)
		}
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("lookup entry: %w", err)
	default:
		_, err := tx.ExecContext(ctx,
			`UPDATE kpi_entries SET value = ?, notes = ? WHERE id = ?`, in.Value, in.Notes, existingID)
		if err != nil {
			return nil, false, fmt.Errorf("update entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit entry: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM kpi_entries WHERE id = ?`, existingID)
	e, err := scanEntry(row)
	if err != nil {
		return nil, false, err
	}
	return e, created, nil
}

// EntriesForExport joins every entry with its KPI for the CSV download,
// ordered by date then KPI name.
func (s *Store) EntriesForExport(ctx context.Context, planID int64) ([]domain.KpiEntryExport, error) {
	ctx, span := tracer.Start(ctx, "Store.EntriesForExport")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT e.date, k.name, k.category, e.value, k.unit, COALESCE(e.notes, '')
		 FROM kpi_entries e JOIN kpis k ON k.id = e.kpi_id
		 WHERE e.plan_id = ? ORDER BY e.date ASC, k.name ASC`, planID)
	if err != nil {
		return nil, fmt.Errorf("query export entries: %w", err)
	}
	defer rows.Close()

	out := []domain.KpiEntryExport{}
	for rows.Next() {
		var r domain.KpiEntryExport
		if err := rows.Scan(&r.Date, &r.KpiName, &r.Category, &r.Value, &r.Unit, &r.Notes); err != nil {
			return nil, fmt.Errorf("scan export entry: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanKpi(row rowScanner) (*domain.Kpi, error) {
	var k domain.Kpi
	err := row.Scan(&k.ID, &k.PlanID, &k.Name, &k.Category, &k.Unit, &k.TargetType,
		&k.TargetValue, &k.CalculationType, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan kpi: %w", err)
	}
	return &k, nil
}

func scanEntry(row rowScanner) (*domain.KpiEntry, error) {
	var e domain.KpiEntry
	err := row.Scan(&e.ID, &e.PlanID, &e.KpiID, &e.Date, &e.Value, &e.Notes, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}
	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]domain.KpiEntry, error) {
	entries := []domain.KpiEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
