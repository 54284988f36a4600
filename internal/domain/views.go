package domain

// Read-model types assembled by the aggregation services. These are response
// shapes, not stored rows.

// DaySummary is one calendar cell: task progress plus warning flags for a
// single due date. Dates with no tasks are omitted entirely.
type DaySummary struct {
	Date                     string `json:"date"`
	TotalTasks               int    `json:"totalTasks"`
	CompletedTasks           int    `json:"completedTasks"`
	CompletionPercent        int    `json:"completionPercent"`
	HasBlockedTasks          bool   `json:"hasBlockedTasks"`
	HasCriticalPriorityTasks bool   `json:"hasCriticalPriorityTasks"`
	HasAlerts                bool   `json:"hasAlerts"`
}

// CalendarData is the full calendar view for a plan.
type CalendarData struct {
	PlanID    int64        `json:"planId"`
	StartDate string       `json:"startDate"`
	EndDate   string       `json:"endDate"`
	Days      []DaySummary `json:"days"`
}

// DayTaskStats is the raw per-date aggregation row from the store.
type DayTaskStats struct {
	Date            string
	TotalTasks      int
	CompletedTasks  int
	HasBlockedTasks bool
	HasHighPriority bool
}

// GroupedTasks buckets a day's tasks by priority for the checklist view.
type GroupedTasks struct {
	MustDo   []Task `json:"mustDo"`
	ShouldDo []Task `json:"shouldDo"`
	Optional []Task `json:"optional"`
}

// DayCounts summarizes progress for one day.
type DayCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Blocked   int `json:"blocked"`
}

// DayView is the day-checklist response: tasks, priority buckets, advisory
// dependency edges and the upstream tasks they point at.
type DayView struct {
	Date          string           `json:"date"`
	Tasks         []Task           `json:"tasks"`
	Grouped       GroupedTasks     `json:"grouped"`
	Dependencies  []TaskDependency `json:"dependencies"`
	BlockingTasks []Task           `json:"blockingTasks"`
	Summary       DayCounts        `json:"summary"`
}

// KpiWithStatus is a KPI enriched with its latest entry and the derived
// status/trend classifications.
type KpiWithStatus struct {
	Kpi
	LatestValue *float64       `json:"latestValue"`
	LatestDate  *string        `json:"latestDate"`
	Status      KpiStatusValue `json:"status"`
	Trend       KpiTrend       `json:"trend"`
}

// TaskSummary is the grouped status breakdown for the report.
type TaskSummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Blocked   int `json:"blocked"`
}

// KpiResult distinguishes a missed target from a KPI that never got data.
type KpiResult string

const (
	KpiMet    KpiResult = "met"
	KpiMissed KpiResult = "missed"
	KpiNoData KpiResult = "no_data"
)

// KpiReportLine pairs a KPI's final value with its target for the report.
type KpiReportLine struct {
	Name        string        `json:"name"`
	Category    KpiCategory   `json:"category"`
	Unit        KpiUnit       `json:"unit"`
	TargetType  KpiTargetType `json:"targetType"`
	TargetValue float64       `json:"targetValue"`
	FinalValue  *float64      `json:"finalValue"`
	Result      KpiResult     `json:"result"`
}

// FunnelSegmentStats is the outreach funnel rollup for one contact segment.
type FunnelSegmentStats struct {
	Segment   ContactSegment `json:"segment"`
	Total     int            `json:"total"`
	Contacted int            `json:"contacted"`
	Replied   int            `json:"replied"`
	Converted int            `json:"converted"`
}

// Report is the end-of-launch summary.
type Report struct {
	Plan           *LaunchPlan          `json:"plan"`
	TaskSummary    TaskSummary          `json:"taskSummary"`
	Kpis           []KpiReportLine      `json:"kpis"`
	OutreachFunnel []FunnelSegmentStats `json:"outreachFunnel"`
	Learnings      []Note               `json:"learnings"`
}

// KpiEntryExport is one CSV row: an entry joined with its KPI.
type KpiEntryExport struct {
	Date     string
	KpiName  string
	Category KpiCategory
	Value    float64
	Unit     KpiUnit
	Notes    string
}

// PlanTemplateInfo describes a built-in plan template.
type PlanTemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TaskCount   int    `json:"taskCount"`
	KpiCount    int    `json:"kpiCount"`
}

// AdminStats is the counters snapshot behind GET /api/admin/stats.
type AdminStats struct {
	RequestsTotal      float64 `json:"requestsTotal"`
	RequestErrors      float64 `json:"requestErrors"`
	AlertsTriggered    float64 `json:"alertsTriggered"`
	KpiEntriesUpserted float64 `json:"kpiEntriesUpserted"`
	ContactsImported   float64 `json:"contactsImported"`
	TasksCompleted     float64 `json:"tasksCompleted"`
}
