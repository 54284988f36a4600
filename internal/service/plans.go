package service

import (
	"context"
	"fmt"

	"launchtracker/internal/domain"
	"launchtracker/internal/port"
	"launchtracker/internal/template"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var planTracer = otel.Tracer("service/plans")

// PlanService owns launch plan CRUD and template application. It is also the
// ownership gate the other services call through.
type PlanService struct {
	store  port.PlanStore
	logger *zap.Logger
}

// NewPlanService creates a new plan service.
func NewPlanService(store port.PlanStore, logger *zap.Logger) *PlanService {
	return &PlanService{store: store, logger: logger}
}

// List returns the caller's plans.
func (s *PlanService) List(ctx context.Context, userID int64) ([]domain.LaunchPlan, error) {
	ctx, span := planTracer.Start(ctx, "PlanService.List")
	defer span.End()

	return s.store.ListPlans(ctx, userID)
}

// Get returns one owned plan.
func (s *PlanService) Get(ctx context.Context, userID, planID int64) (*domain.LaunchPlan, error) {
	ctx, span := planTracer.Start(ctx, "PlanService.Get")
	defer span.End()

	return s.store.GetPlan(ctx, userID, planID)
}

// RequireOwned verifies that the plan exists and belongs to the caller. Every
// child-resource operation passes through here first.
func (s *PlanService) RequireOwned(ctx context.Context, userID, planID int64) error {
	_, err := s.store.GetPlan(ctx, userID, planID)
	return err
}

// Templates lists the built-in plan templates.
func (s *PlanService) Templates(ctx context.Context) []domain.PlanTemplateInfo {
	_, span := planTracer.Start(ctx, "PlanService.Templates")
	defer span.End()

	return template.List()
}

// Create makes a plan, optionally seeding it from a template in the same
// transaction.
func (s *PlanService) Create(ctx context.Context, userID int64, in domain.CreatePlanInput) (*domain.LaunchPlan, error) {
	ctx, span := planTracer.Start(ctx, "PlanService.Create")
	defer span.End()

	if in.StartDate > in.EndDate {
		return nil, &domain.ErrValidation{Message: "startDate must not be after endDate", Fields: []domain.FieldError{
			{Field: "startDate", Message: "must not be after endDate"},
		}}
	}

	var tasks []domain.Task
	var kpis []domain.Kpi
	if in.TemplateID != "" {
		tmpl, err := template.ByID(in.TemplateID)
		if err != nil {
			return nil, &domain.ErrValidation{Message: "Unknown template", Fields: []domain.FieldError{
				{Field: "templateId", Message: fmt.Sprintf("no template with id %q", in.TemplateID)},
			}}
		}
		tasks, kpis, err = tmpl.Materialize(in.StartDate)
		if err != nil {
			return nil, fmt.Errorf("materialize template: %w", err)
		}
	}

	plan, err := s.store.CreatePlan(ctx, userID, in, tasks, kpis)
	if err != nil {
		return nil, err
	}

	s.logger.Info("plan created",
		zap.Int64("plan_id", plan.ID),
		zap.Int64("user_id", userID),
		zap.String("template", in.TemplateID),
		zap.Int("seeded_tasks", len(tasks)),
		zap.Int("seeded_kpis", len(kpis)),
	)
	return plan, nil
}

// Update applies a partial update to an owned plan.
func (s *PlanService) Update(ctx context.Context, userID, planID int64, in domain.UpdatePlanInput) (*domain.LaunchPlan, error) {
	ctx, span := planTracer.Start(ctx, "PlanService.Update")
	defer span.End()

	if in.StartDate != nil && in.EndDate != nil && *in.StartDate > *in.EndDate {
		return nil, &domain.ErrValidation{Message: "startDate must not be after endDate", Fields: []domain.FieldError{
			{Field: "startDate", Message: "must not be after endDate"},
		}}
	}

	return s.store.UpdatePlan(ctx, userID, planID, in)
}

// Delete removes an owned plan and everything under it.
func (s *PlanService) Delete(ctx context.Context, userID, planID int64) error {
	ctx, span := planTracer.Start(ctx, "PlanService.Delete")
	defer span.End()

	if err := s.store.DeletePlan(ctx, userID, planID); err != nil {
		return err
	}
	s.logger.Info("plan deleted", zap.Int64("plan_id", planID), zap.Int64("user_id", userID))
	return nil
}
