package service

import (
	"context"

	"launchtracker/internal/domain"
	"launchtracker/internal/infra/observability"
	"launchtracker/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var taskTracer = otel.Tracer("service/tasks")

// TaskService owns task CRUD. Plan ownership is checked before every call.
type TaskService struct {
	store   port.TaskStore
	plans   *PlanService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(store port.TaskStore, plans *PlanService, metrics *observability.Metrics, logger *zap.Logger) *TaskService {
	return &TaskService{store: store, plans: plans, metrics: metrics, logger: logger}
}

// List returns a plan's tasks with optional filters.
func (s *TaskService) List(ctx context.Context, userID, planID int64, f domain.TaskFilter) ([]domain.Task, error) {
	ctx, span := taskTracer.Start(ctx, "TaskService.List")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.ListTasks(ctx, planID, f)
}

// Create adds a task, with optional advisory dependency edges.
func (s *TaskService) Create(ctx context.Context, userID, planID int64, in domain.CreateTaskInput) (*domain.Task, error) {
	ctx, span := taskTracer.Start(ctx, "TaskService.Create")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.CreateTask(ctx, planID, in)
}

// Update applies a partial update. Setting status to complete stamps
// completed-at; moving away from complete clears it.
func (s *TaskService) Update(ctx context.Context, userID, planID, taskID int64, in domain.UpdateTaskInput) (*domain.Task, error) {
	ctx, span := taskTracer.Start(ctx, "TaskService.Update")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}

	task, err := s.store.UpdateTask(ctx, planID, taskID, in)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && *in.Status == domain.TaskComplete {
		s.metrics.IncrTaskCompleted()
	}
	return task, nil
}

// Complete is the quick-action variant of Update.
func (s *TaskService) Complete(ctx context.Context, userID, planID, taskID int64, in domain.CompleteTaskInput) (*domain.Task, error) {
	ctx, span := taskTracer.Start(ctx, "TaskService.Complete")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}

	task, err := s.store.CompleteTask(ctx, planID, taskID, in.CompletionNotes)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrTaskCompleted()
	s.logger.Debug("task completed", zap.Int64("task_id", taskID), zap.Int64("plan_id", planID))
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, userID, planID, taskID int64) error {
	ctx, span := taskTracer.Start(ctx, "TaskService.Delete")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return err
	}
	return s.store.DeleteTask(ctx, planID, taskID)
}
