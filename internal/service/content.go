package service

import (
	"context"
	"time"

	"launchtracker/internal/domain"
	"launchtracker/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var contentTracer = otel.Tracer("service/content")

// ContentService owns launch assets and annotations.
type ContentService struct {
	assets port.AssetStore
	notes  port.NoteStore
	plans  *PlanService
	logger *zap.Logger
}

// NewContentService creates a new content service.
func NewContentService(assets port.AssetStore, notes port.NoteStore, plans *PlanService, logger *zap.Logger) *ContentService {
	return &ContentService{assets: assets, notes: notes, plans: plans, logger: logger}
}

// ListAssets returns a plan's assets.
func (s *ContentService) ListAssets(ctx context.Context, userID, planID int64) ([]domain.Asset, error) {
	ctx, span := contentTracer.Start(ctx, "ContentService.ListAssets")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.assets.ListAssets(ctx, planID)
}

// CreateAsset adds a launch artifact.
func (s *ContentService) CreateAsset(ctx context.Context, userID, planID int64, in domain.CreateAssetInput) (*domain.Asset, error) {
	ctx, span := contentTracer.Start(ctx, "ContentService.CreateAsset")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.assets.CreateAsset(ctx, planID, in)
}

// DeleteAsset removes an asset.
func (s *ContentService) DeleteAsset(ctx context.Context, userID, planID, assetID int64) error {
	ctx, span := contentTracer.Start(ctx, "ContentService.DeleteAsset")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return err
	}
	return s.assets.DeleteAsset(ctx, planID, assetID)
}

// ListNotes returns a plan's notes, optionally narrowed to a linked entity.
func (s *ContentService) ListNotes(ctx context.Context, userID, planID int64, f domain.NoteFilter) ([]domain.Note, error) {
	ctx, span := contentTracer.Start(ctx, "ContentService.ListNotes")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.notes.ListNotes(ctx, planID, f)
}

// CreateNote adds an annotation. Day notes link a date; the other kinds must
// reference a row that exists inside the plan.
func (s *ContentService) CreateNote(ctx context.Context, userID, planID int64, in domain.CreateNoteInput) (*domain.Note, error) {
	ctx, span := contentTracer.Start(ctx, "ContentService.CreateNote")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}

	if in.LinkedType == domain.NoteOnDay {
		if _, err := time.Parse(domain.DateLayout, in.LinkedID.String()); err != nil {
			return nil, &domain.ErrValidation{Message: "Invalid request data", Fields: []domain.FieldError{
				{Field: "linkedId", Message: "must be a date in YYYY-MM-DD format for day notes"},
			}}
		}
	} else {
		linkedID, err := in.LinkedID.Int64()
		if err != nil {
			return nil, &domain.ErrValidation{Message: "Invalid request data", Fields: []domain.FieldError{
				{Field: "linkedId", Message: "must be a numeric id"},
			}}
		}
		if err := s.notes.ResolveNoteLink(ctx, planID, in.LinkedType, linkedID); err != nil {
			return nil, err
		}
	}

	return s.notes.CreateNote(ctx, planID, in)
}

// DeleteNote removes a note.
func (s *ContentService) DeleteNote(ctx context.Context, userID, planID, noteID int64) error {
	ctx, span := contentTracer.Start(ctx, "ContentService.DeleteNote")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return err
	}
	return s.notes.DeleteNote(ctx, planID, noteID)
}
