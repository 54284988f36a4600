package domain

import "time"

// Calendar dates (due dates, KPI entry dates, launch window bounds) travel as
// YYYY-MM-DD strings end to end; only audit timestamps are time.Time.

// User is an account holder. Everything else is owned through LaunchPlan.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LaunchPlan is the root aggregate: a time-boxed launch window owning all
// tasks, KPIs, contacts, assets and notes via cascade delete.
type LaunchPlan struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	Name         string     `json:"name"`
	Timezone     string     `json:"timezone"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
	StrategyTags []string   `json:"strategyTags"`
	Notes        *string    `json:"notes"`
	Status       PlanStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Task is a dated checklist item inside a plan.
type Task struct {
	ID               int64        `json:"id"`
	PlanID           int64        `json:"planId"`
	Title            string       `json:"title"`
	Description      *string      `json:"description"`
	DueDate          string       `json:"dueDate"`
	DueTime          *string      `json:"dueTime"`
	EstimatedMinutes *int         `json:"estimatedMinutes"`
	Status           TaskStatus   `json:"status"`
	Priority         TaskPriority `json:"priority"`
	Category         TaskCategory `json:"category"`
	OwnerID          *int64       `json:"ownerId"`
	Links            []string     `json:"links"`
	CompletionNotes  *string      `json:"completionNotes"`
	CompletedAt      *time.Time   `json:"completedAt"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// TaskDependency is advisory only: the blocked task can still be completed,
// the edge is just surfaced in the day view.
type TaskDependency struct {
	ID              int64 `json:"id"`
	TaskID          int64 `json:"taskId"`
	DependsOnTaskID int64 `json:"dependsOnTaskId"`
}

// Kpi is a named metric tracked daily against a directional target.
type Kpi struct {
	ID              int64         `json:"id"`
	PlanID          int64         `json:"planId"`
	Name            string        `json:"name"`
	Category        KpiCategory   `json:"category"`
	Unit            KpiUnit       `json:"unit"`
	TargetType      KpiTargetType `json:"targetType"`
	TargetValue     float64       `json:"targetValue"`
	CalculationType string        `json:"calculationType"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// KpiEntry is one measured value, unique per (kpiId, date).
type KpiEntry struct {
	ID        int64     `json:"id"`
	PlanID    int64     `json:"planId"`
	KpiID     int64     `json:"kpiId"`
	Date      string    `json:"date"`
	Value     float64   `json:"value"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Alert records a KPI entry breaching its threshold. Resolution is manual.
type Alert struct {
	ID              int64         `json:"id"`
	PlanID          int64         `json:"planId"`
	KpiID           *int64        `json:"kpiId"`
	KpiName         *string       `json:"kpiName,omitempty"`
	DateTriggered   string        `json:"dateTriggered"`
	Severity        AlertSeverity `json:"severity"`
	Message         string        `json:"message"`
	ResolvedAt      *time.Time    `json:"resolvedAt"`
	ResolutionNotes *string       `json:"resolutionNotes"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// Contact is an outreach target tracked through the funnel.
type Contact struct {
	ID        int64          `json:"id"`
	PlanID    int64          `json:"planId"`
	Email     string         `json:"email"`
	Name      *string        `json:"name"`
	Segment   ContactSegment `json:"segment"`
	Status    ContactStatus  `json:"status"`
	Tags      []string       `json:"tags"`
	Notes     *string        `json:"notes"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// OutreachEvent logs one touch on a contact.
type OutreachEvent struct {
	ID          int64           `json:"id"`
	PlanID      int64           `json:"planId"`
	ContactID   int64           `json:"contactId"`
	Date        string          `json:"date"`
	Channel     OutreachChannel `json:"channel"`
	TemplateKey *string         `json:"templateKey"`
	Outcome     OutreachOutcome `json:"outcome"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
	Contact     *Contact        `json:"contact,omitempty"`
}

// Asset is a launch artifact (copy doc, landing page, creative, ...).
type Asset struct {
	ID           int64     `json:"id"`
	PlanID       int64     `json:"planId"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	URL          *string   `json:"url"`
	LinkedTaskID *int64    `json:"linkedTaskId"`
	LinkedDate   *string   `json:"linkedDate"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Note is an ad-hoc annotation; the linked id is stored as text because a
// "day" note links a date string while the others link row ids.
type Note struct {
	ID         int64          `json:"id"`
	PlanID     int64          `json:"planId"`
	LinkedType NoteLinkedType `json:"linkedType"`
	LinkedID   string         `json:"linkedId"`
	Content    string         `json:"content"`
	CreatedAt  time.Time      `json:"createdAt"`
}
