// Package port defines the store interfaces the services depend on.
// The sqlite package implements all of them; tests substitute fakes.
package port

import (
	"context"

	"launchtracker/internal/domain"
)

// UserStore handles account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, name string, role domain.UserRole) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// PlanStore handles launch plan persistence. All reads and writes are scoped
// to the owning user.
type PlanStore interface {
	ListPlans(ctx context.Context, userID int64) ([]domain.LaunchPlan, error)
	GetPlan(ctx context.Context, userID, planID int64) (*domain.LaunchPlan, error)
	CreatePlan(ctx context.Context, userID int64, in domain.CreatePlanInput, tasks []domain.Task, kpis []domain.Kpi) (*domain.LaunchPlan, error)
	UpdatePlan(ctx context.Context, userID, planID int64, in domain.UpdatePlanInput) (*domain.LaunchPlan, error)
	DeletePlan(ctx context.Context, userID, planID int64) error
}

// TaskStore handles tasks, their dependency edges, and the per-day and
// plan-wide aggregations derived from them.
type TaskStore interface {
	ListTasks(ctx context.Context, planID int64, f domain.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, planID, taskID int64) (*domain.Task, error)
	TasksByIDs(ctx context.Context, planID int64, ids []int64) ([]domain.Task, error)
	CreateTask(ctx context.Context, planID int64, in domain.CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, planID, taskID int64, in domain.UpdateTaskInput) (*domain.Task, error)
	CompleteTask(ctx context.Context, planID, taskID int64, notes *string) (*domain.Task, error)
	DeleteTask(ctx context.Context, planID, taskID int64) error
	DependenciesFor(ctx context.Context, taskIDs []int64) ([]domain.TaskDependency, error)
	DayStats(ctx context.Context, planID int64) ([]domain.DayTaskStats, error)
	StatusCounts(ctx context.Context, planID int64) (domain.TaskSummary, error)
}

// KpiStore handles KPI definitions, daily entries, and alerts.
type KpiStore interface {
	ListKpis(ctx context.Context, planID int64) ([]domain.Kpi, error)
	GetKpi(ctx context.Context, planID, kpiID int64) (*domain.Kpi, error)
	CreateKpi(ctx context.Context, planID int64, in domain.CreateKpiInput) (*domain.Kpi, error)
	DeleteKpi(ctx context.Context, planID, kpiID int64) error

	ListEntries(ctx context.Context, kpiID int64) ([]domain.KpiEntry, error)
	RecentEntries(ctx context.Context, kpiID int64, limit int) ([]domain.KpiEntry, error)
	UpsertEntry(ctx context.Context, planID, kpiID int64, in domain.CreateKpiEntryInput) (*domain.KpiEntry, bool, error)
	EntriesForExport(ctx context.Context, planID int64) ([]domain.KpiEntryExport, error)

	ListAlerts(ctx context.Context, planID int64, unresolvedOnly bool) ([]domain.Alert, error)
	CreateAlert(ctx context.Context, planID, kpiID int64, date string, severity domain.AlertSeverity, message string) (*domain.Alert, error)
	ResolveAlert(ctx context.Context, planID, alertID int64, notes string) (*domain.Alert, error)
	UnresolvedAlertDates(ctx context.Context, planID int64) (map[string]bool, error)
}

// ContactStore handles contacts, the outreach event log, and the funnel
// rollup.
type ContactStore interface {
	ListContacts(ctx context.Context, planID int64, f domain.ContactFilter) ([]domain.Contact, error)
	GetContact(ctx context.Context, planID, contactID int64) (*domain.Contact, error)
	CreateContact(ctx context.Context, planID int64, in domain.CreateContactInput) (*domain.Contact, error)
	UpdateContact(ctx context.Context, planID, contactID int64, in domain.UpdateContactInput) (*domain.Contact, error)
	DeleteContact(ctx context.Context, planID, contactID int64) error
	ImportContacts(ctx context.Context, planID int64, items []domain.ImportContact) (imported, skipped int, err error)
	MarkContacted(ctx context.Context, planID, contactID int64) error
	FunnelStats(ctx context.Context, planID int64) ([]domain.FunnelSegmentStats, error)

	ListOutreachEvents(ctx context.Context, planID int64) ([]domain.OutreachEvent, error)
	CreateOutreachEvent(ctx context.Context, planID int64, in domain.CreateOutreachEventInput) (*domain.OutreachEvent, error)
}

// AssetStore handles launch artifacts.
type AssetStore interface {
	ListAssets(ctx context.Context, planID int64) ([]domain.Asset, error)
	CreateAsset(ctx context.Context, planID int64, in domain.CreateAssetInput) (*domain.Asset, error)
	DeleteAsset(ctx context.Context, planID, assetID int64) error
}

// NoteStore handles annotations.
type NoteStore interface {
	ListNotes(ctx context.Context, planID int64, f domain.NoteFilter) ([]domain.Note, error)
	CreateNote(ctx context.Context, planID int64, in domain.CreateNoteInput) (*domain.Note, error)
	DeleteNote(ctx context.Context, planID, noteID int64) error
	ResolveNoteLink(ctx context.Context, planID int64, linkedType domain.NoteLinkedType, linkedID int64) error
}
