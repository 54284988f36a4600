package service

import (
	"context"

	"launchtracker/internal/domain"
	"launchtracker/internal/infra/observability"
	"launchtracker/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var contactTracer = otel.Tracer("service/contacts")

// ImportResult reports the outcome of a bulk contact import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ContactService owns contacts and the outreach event log.
type ContactService struct {
	store   port.ContactStore
	plans   *PlanService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewContactService creates a new contact service.
func NewContactService(store port.ContactStore, plans *PlanService, metrics *observability.Metrics, logger *zap.Logger) *ContactService {
	return &ContactService{store: store, plans: plans, metrics: metrics, logger: logger}
}

// List returns a plan's contacts with optional filters.
func (s *ContactService) List(ctx context.Context, userID, planID int64, f domain.ContactFilter) ([]domain.Contact, error) {
	ctx, span := contactTracer.Start(ctx, "ContactService.List")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.ListContacts(ctx, planID, f)
}

// Create adds a contact; email must be unique within the plan.
func (s *ContactService) Create(ctx context.Context, userID, planID int64, in domain.CreateContactInput) (*domain.Contact, error) {
	ctx, span := contactTracer.Start(ctx, "ContactService.Create")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.CreateContact(ctx, planID, in)
}

// Update applies a partial update to a contact.
func (s *ContactService) Update(ctx context.Context, userID, planID, contactID int64, in domain.UpdateContactInput) (*domain.Contact, error) {
	ctx, span := contactTracer.Start(ctx, "ContactService.Update")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.UpdateContact(ctx, planID, contactID, in)
}

// Delete removes a contact and its outreach events.
func (s *ContactService) Delete(ctx context.Context, userID, planID, contactID int64) error {
	ctx, span := contactTracer.Start(ctx, "ContactService.Delete")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return err
	}
	return s.store.DeleteContact(ctx, planID, contactID)
}

// Import bulk-adds contacts, skipping emails the plan already has.
func (s *ContactService) Import(ctx context.Context, userID, planID int64, in domain.ImportContactsInput) (*ImportResult, error) {
	ctx, span := contactTracer.Start(ctx, "ContactService.Import")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}

	imported, skipped, err := s.store.ImportContacts(ctx, planID, in.Contacts)
	if err != nil {
		return nil, err
	}
	s.metrics.AddContactsImported(imported)
	s.logger.Info("contacts imported",
		zap.Int64("plan_id", planID),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped),
	)
	return &ImportResult{Imported: imported, Skipped: skipped}, nil
}

// ListEvents returns a plan's outreach log, each event with its contact.
func (s *ContactService) ListEvents(ctx context.Context, userID, planID int64) ([]domain.OutreachEvent, error) {
	ctx, span := contactTracer.Start(ctx, "ContactService.ListEvents")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.store.ListOutreachEvents(ctx, planID)
}

// CreateEvent logs a touch on a contact. A first touch moves the contact
// from not_contacted to contacted; later touches never change status.
func (s *ContactService) CreateEvent(ctx context.Context, userID, planID int64, in domain.CreateOutreachEventInput) (*domain.OutreachEvent, error) {
	ctx, span := contactTracer.Start(ctx, "ContactService.CreateEvent")
	defer span.End()

	if err := s.plans.RequireOwned(ctx, userID, planID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetContact(ctx, planID, in.ContactID); err != nil {
		return nil, err
	}

	event, err := s.store.CreateOutreachEvent(ctx, planID, in)
	if err != nil {
		return nil, err
	}
	if err := s.store.MarkContacted(ctx, planID, in.ContactID); err != nil {
		return nil, err
	}
	return event, nil
}
