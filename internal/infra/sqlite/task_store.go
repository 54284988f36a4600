package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"launchtracker/internal/domain"
)

const taskColumns = `id, plan_id, title, description, due_date, due_time, estimated_minutes,
	status, priority, category, owner_id, links, completion_notes, completed_at, created_at, updated_at`

// ListTasks returns a plan's tasks, optionally filtered, ordered by due date
// then priority (high first) then creation time.
func (s *Store) ListTasks(ctx context.Context, planID int64, f domain.TaskFilter) ([]domain.Task, error) {
	ctx, span := tracer.Start(ctx, "Store.ListTasks")
	defer span.End()

	where := []string{"plan_id = ?"}
	args := []any{planID}

	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, f.Priority)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Date != "" {
		where = append(where, "due_date = ?")
		args = append(args, f.Date)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY due_date ASC,
			CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END ASC,
			created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// GetTask fetches one task scoped to its plan.
func (s *Store) GetTask(ctx context.Context, planID, taskID int64) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "Store.GetTask")
	defer span.End()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND plan_id = ?`, taskID, planID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "task", ID: taskID}
	}
	return t, err
}

// TasksByIDs fetches the given tasks within a plan, in id order. Missing ids
// are silently skipped.
func (s *Store) TasksByIDs(ctx context.Context, planID int64, ids []int64) ([]domain.Task, error) {
	ctx, span := tracer.Start(ctx, "Store.TasksByIDs")
	defer span.End()

	if len(ids) == 0 {
		return []domain.Task{}, nil
	}

	args := []any{planID}
	for _, id := range ids {
		args = append(args, id)
	}
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE plan_id = ? AND id IN (` + placeholders(len(ids)) + `) ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks by id: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// CreateTask inserts a task and its advisory dependency edges in one
// transaction. Edges pointing at tasks outside the plan are rejected.
func (s *Store) CreateTask(ctx context.Context, planID int64, in domain.CreateTaskInput) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "Store.CreateTask")
	defer span.End()

	status := in.Status
	if status == "" {
		status = domain.TaskNotStarted
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	category := in.Category
	if category == "" {
		category = domain.CategoryOther
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tasks (plan_id, title, description, due_date, due_time, estimated_minutes,
			status, priority, category, owner_id, links)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		planID, in.Title, in.Description, in.DueDate, in.DueTime, in.EstimatedMinutes,
		string(status), string(priority), string(category), in.OwnerID, encodeList(in.Links),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	taskID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("task id: %w", err)
	}

	for _, depID := range in.DependsOn {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM tasks WHERE id = ? AND plan_id = ?`, depID, planID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check dependency: %w", err)
		}
		if exists == 0 {
			return nil, &domain.ErrValidation{Message: fmt.Sprintf("dependsOn references unknown task %d", depID)}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_dependencies (task_id, depends_on_task_id) VALUES (?, ?)`,
			taskID, depID)
		if err != nil {
			return nil, fmt.Errorf("insert dependency: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task: %w", err)
	}
	return s.GetTask(ctx, planID, taskID)
}

// UpdateTask applies the non-nil fields of in to a task.
func (s *Store) UpdateTask(ctx context.Context, planID, taskID int64, in domain.UpdateTaskInput) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "Store.UpdateTask")
	defer span.End()

	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if in.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *in.Title)
	}
	if in.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *in.Description)
	}
	if in.DueDate != nil {
		set = append(set, "due_date = ?")
		args = append(args, *in.DueDate)
	}
	if in.DueTime != nil {
		set = append(set, "due_time = ?")
		args = append(args, *in.DueTime)
	}
	if in.EstimatedMinutes != nil {
		set = append(set, "estimated_minutes = ?")
		args = append(args, *in.EstimatedMinutes)
	}
	if in.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*in.Status))
		if *in.Status == domain.TaskComplete {
			set = append(set, "completed_at = ?")
			args = append(args, time.Now().UTC())
		} else {
			set = append(set, "completed_at = NULL")
		}
	}
	if in.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, string(*in.Priority))
	}
	if in.Category != nil {
		set = append(set, "category = ?")
		args = append(args, string(*in.Category))
	}
	if in.OwnerID != nil {
		set = append(set, "owner_id = ?")
		args = append(args, *in.OwnerID)
	}
	if in.Links != nil {
		set = append(set, "links = ?")
		args = append(args, encodeList(in.Links))
	}
	if in.CompletionNotes != nil {
		set = append(set, "completion_notes = ?")
		args = append(args, *in.CompletionNotes)
	}

	args = append(args, taskID, planID)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = ? AND plan_id = ?`, strings.Join(set, ", "))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &domain.ErrNotFound{Resource: "task", ID: taskID}
	}
	return s.GetTask(ctx, planID, taskID)
}

// CompleteTask marks a task complete with an optional note. Completing an
// already complete task just refreshes the timestamp.
func (s *Store) CompleteTask(ctx context.Context, planID, taskID int64, notes *string) (*domain.Task, error) {
	ctx, span := tracer.Start(ctx, "Store.CompleteTask")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = 'complete', completed_at = ?, completion_notes = COALESCE(?, completion_notes),
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND plan_id = ?`,
		time.Now().UTC(), notes, taskID, planID)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &domain.ErrNotFound{Resource: "task", ID: taskID}
	}
	return s.GetTask(ctx, planID, taskID)
}

// DeleteTask removes a task; dependency edges cascade.
func (s *Store) DeleteTask(ctx context.Context, planID, taskID int64) error {
	ctx, span := tracer.Start(ctx, "Store.DeleteTask")
	defer span.End()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND plan_id = ?`, taskID, planID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "task", ID: taskID}
	}
	return nil
}

// DependenciesFor returns the advisory edges whose blocked side is one of the
// given tasks.
func (s *Store) DependenciesFor(ctx context.Context, taskIDs []int64) ([]domain.TaskDependency, error) {
	ctx, span := tracer.Start(ctx, "Store.DependenciesFor")
	defer span.End()

	if len(taskIDs) == 0 {
		return []domain.TaskDependency{}, nil
	}

	args := make([]any, len(taskIDs))
	for i, id := range taskIDs {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task_id, depends_on_task_id FROM task_dependencies
		 WHERE task_id IN (`+placeholders(len(taskIDs))+`) ORDER BY id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query dependencies: %w", err)
	}
	defer rows.Close()

	deps := []domain.TaskDependency{}
	for rows.Next() {
		var d domain.TaskDependency
		if err := rows.Scan(&d.ID, &d.TaskID, &d.DependsOnTaskID); err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// DayStats aggregates per-date task progress for the calendar.
func (s *Store) DayStats(ctx context.Context, planID int64) ([]domain.DayTaskStats, error) {
	ctx, span := tracer.Start(ctx, "Store.DayStats")
	defer span.End()

	query := fmt.Sprintf(`SELECT due_date,
			count(*),
			%s,
			%s,
			%s
		FROM tasks WHERE plan_id = ? GROUP BY due_date ORDER BY due_date ASC`,
		countWhere("status = 'complete'"),
		boolOr("status = 'blocked'"),
		boolOr("priority = 'high'"),
	)

	rows, err := s.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("query day stats: %w", err)
	}
	defer rows.Close()

	stats := []domain.DayTaskStats{}
	for rows.Next() {
		var st domain.DayTaskStats
		if err := rows.Scan(&st.Date, &st.TotalTasks, &st.CompletedTasks, &st.HasBlockedTasks, &st.HasHighPriority); err != nil {
			return nil, fmt.Errorf("scan day stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// StatusCounts returns the plan-wide task status breakdown for the report.
func (s *Store) StatusCounts(ctx context.Context, planID int64) (domain.TaskSummary, error) {
	ctx, span := tracer.Start(ctx, "Store.StatusCounts")
	defer span.End()

	query := fmt.Sprintf(`SELECT count(*), %s, %s, %s FROM tasks WHERE plan_id = ?`,
		countWhere("status = 'complete'"),
		countWhere("status = 'skipped'"),
		countWhere("status = 'blocked'"),
	)

	var sum domain.TaskSummary
	var completed, skipped, blocked sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, planID).Scan(&sum.Total, &completed, &skipped, &blocked)
	if err != nil {
		return domain.TaskSummary{}, fmt.Errorf("query status counts: %w", err)
	}
	sum.Completed = int(completed.Int64)
	sum.Skipped = int(skipped.Int64)
	sum.Blocked = int(blocked.Int64)
	return sum, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var links string
	err := row.Scan(&t.ID, &t.PlanID, &t.Title, &t.Description, &t.DueDate, &t.DueTime,
		&t.EstimatedMinutes, &t.Status, &t.Priority, &t.Category, &t.OwnerID, &links,
		&t.CompletionNotes, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Links = decodeList(links)
	return &t, nil
}

func collectTasks(rows *sql.Rows) ([]domain.Task, error) {
	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
