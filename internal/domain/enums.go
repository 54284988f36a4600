package domain

// Enumerated string unions used across the tracker. Values match the wire
// format exactly; inputs are validated at the API boundary so anything past
// the handler layer can assume membership.

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskComplete   TaskStatus = "complete"
	TaskSkipped    TaskStatus = "skipped"
)

// TaskPriority orders tasks within a day checklist.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TaskCategory groups tasks by launch work stream.
type TaskCategory string

const (
	CategoryProduct   TaskCategory = "product"
	CategoryFunnel    TaskCategory = "funnel"
	CategoryOutreach  TaskCategory = "outreach"
	CategoryEmail     TaskCategory = "email"
	CategoryAds       TaskCategory = "ads"
	CategoryAnalytics TaskCategory = "analytics"
	CategorySupport   TaskCategory = "support"
	CategoryOther     TaskCategory = "other"
)

// KpiCategory groups KPIs on the dashboard.
type KpiCategory string

const (
	KpiEmailDeliverability KpiCategory = "email_deliverability"
	KpiFunnelConversion    KpiCategory = "funnel_conversion"
	KpiRevenue             KpiCategory = "revenue"
	KpiActivation          KpiCategory = "activation"
	KpiAds                 KpiCategory = "ads"
)

// KpiUnit describes how a KPI value is displayed.
type KpiUnit string

const (
	UnitPercent  KpiUnit = "percent"
	UnitCount    KpiUnit = "count"
	UnitCurrency KpiUnit = "currency"
	UnitRatio    KpiUnit = "ratio"
)

// KpiTargetType is the direction a KPI is measured against its target.
type KpiTargetType string

const (
	TargetMinimum KpiTargetType = "minimum"
	TargetMaximum KpiTargetType = "maximum"
)

// ContactSegment splits the outreach list.
type ContactSegment string

const (
	SegmentPastPayer ContactSegment = "past_payer"
	SegmentColdList  ContactSegment = "cold_list"
)

// ContactStatus is the ordered outreach funnel position of a contact.
type ContactStatus string

const (
	ContactNotContacted ContactStatus = "not_contacted"
	ContactContacted    ContactStatus = "contacted"
	ContactReplied      ContactStatus = "replied"
	ContactBookedCall   ContactStatus = "booked_call"
	ContactStartedTrial ContactStatus = "started_trial"
	ContactPaidStarter  ContactStatus = "paid_starter"
	ContactPaidPro      ContactStatus = "paid_pro"
	ContactUnsubscribed ContactStatus = "unsubscribed"
)

// OutreachChannel is how a contact was reached.
type OutreachChannel string

const (
	ChannelEmail OutreachChannel = "email"
	ChannelDM    OutreachChannel = "dm"
	ChannelCall  OutreachChannel = "call"
)

// OutreachOutcome is the observed result of an outreach event.
type OutreachOutcome string

const (
	OutcomeDelivered OutreachOutcome = "delivered"
	OutcomeReplied   OutreachOutcome = "replied"
	OutcomeClicked   OutreachOutcome = "clicked"
	OutcomeConverted OutreachOutcome = "converted"
)

// AlertSeverity classifies KPI alerts.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// UserRole gates admin-only routes.
type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleCollaborator UserRole = "collaborator"
)

// PlanStatus is the lifecycle state of a launch plan.
type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

// NoteLinkedType names the entity a note annotates.
type NoteLinkedType string

const (
	NoteOnDay     NoteLinkedType = "day"
	NoteOnTask    NoteLinkedType = "task"
	NoteOnKpi     NoteLinkedType = "kpi"
	NoteOnContact NoteLinkedType = "contact"
)

// LateFunnelStatuses are the contact statuses counted as "replied" in the
// report funnel; ConvertedStatuses are the paid tiers.
var (
	LateFunnelStatuses = []ContactStatus{ContactReplied, ContactBookedCall, ContactStartedTrial, ContactPaidStarter, ContactPaidPro}
	ConvertedStatuses  = []ContactStatus{ContactPaidStarter, ContactPaidPro}
)
