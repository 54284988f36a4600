package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"launchtracker/internal/domain"
)

const planColumns = `id, user_id, name, timezone, start_date, end_date, strategy_tags, notes, status, created_at, updated_at`

// ListPlans returns all plans owned by the user, newest first.
func (s *Store) ListPlans(ctx context.Context, userID int64) ([]domain.LaunchPlan, error) {
	ctx, span := tracer.Start(ctx, "Store.ListPlans")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM launch_plans WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	plans := []domain.LaunchPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

// GetPlan fetches one plan, scoped to the owner. A plan belonging to another
// user is indistinguishable from a missing one.
func (s *Store) GetPlan(ctx context.Context, userID, planID int64) (*domain.LaunchPlan, error) {
	ctx, span := tracer.Start(ctx, "Store.GetPlan")
	defer span.End()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM launch_plans WHERE id = ? AND user_id = ?`, planID, userID)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "plan", ID: planID}
	}
	return p, err
}

// CreatePlan inserts a plan together with any template-derived tasks and KPIs
// in a single transaction, so a half-applied template never survives.
func (s *Store) CreatePlan(ctx context.Context, userID int64, in domain.CreatePlanInput, tasks []domain.Task, kpis []domain.Kpi) (*domain.LaunchPlan, error) {
	ctx, span := tracer.Start(ctx, "Store.CreatePlan")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	timezone := in.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO launch_plans (user_id, name, timezone, start_date, end_date, strategy_tags, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, in.Name, timezone, in.StartDate, in.EndDate, encodeList(in.StrategyTags), in.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	planID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("plan id: %w", err)
	}

	for _, t := range tasks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (plan_id, title, description, due_date, estimated_minutes, priority, category)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			planID, t.Title, t.Description, t.DueDate, t.EstimatedMinutes, string(t.Priority), string(t.Category),
		)
		if err != nil {
			return nil, fmt.Errorf("insert template task: %w", err)
		}
	}

	for _, k := range kpis {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kpis (plan_id, name, category, unit, target_type, target_value)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			planID, k.Name, string(k.Category), string(k.Unit), string(k.TargetType), k.TargetValue,
		)
		if err != nil {
			return nil, fmt.Errorf("insert template kpi: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit plan: %w", err)
	}
	return s.GetPlan(ctx, userID, planID)
}

// UpdatePlan applies the non-nil fields of in to an owned plan.
func (s *Store) UpdatePlan(ctx context.Context, userID, planID int64, in domain.UpdatePlanInput) (*domain.LaunchPlan, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdatePlan")
	defer span.End()

	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if in.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Timezone != nil {
		set = append(set, "timezone = ?")
		args = append(args, *in.Timezone)
	}
	if in.StartDate != nil {
		set = append(set, "start_date = ?")
		args = append(args, *in.StartDate)
	}
	if in.EndDate != nil {
		set = append(set, "end_date = ?")
		args = append(args, *in.EndDate)
	}
	if in.StrategyTags != nil {
		set = append(set, "strategy_tags = ?")
		args = append(args, encodeList(in.StrategyTags))
	}
	if in.Notes != nil {
		set = append(set, "notes = ?")
		args = append(args, *in.Notes)
	}
	if in.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*in.Status))
	}

	args = append(args, planID, userID)
	query := fmt.Sprintf(`UPDATE launch_plans SET %s WHERE id = ? AND user_id = ?`, strings.Join(set, ", "))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &domain.ErrNotFound{Resource: "plan", ID: planID}
	}
	return s.GetPlan(ctx, userID, planID)
}

// DeletePlan removes an owned plan; children go with it via cascade.
func (s *Store) DeletePlan(ctx context.Context, userID, planID int64) error {
	ctx, span := tracer.Start(ctx, "Store.DeletePlan")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM launch_plans WHERE id = ? AND user_id = ?`, planID, userID)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "plan", ID: planID}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*domain.LaunchPlan, error) {
	var p domain.LaunchPlan
	var tags string
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Timezone, &p.StartDate, &p.EndDate,
		&tags, &p.Notes, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	p.StrategyTags = decodeList(tags)
	return &p, nil
}
