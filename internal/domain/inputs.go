package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Request payloads. Struct tags drive go-playground/validator at the API
// boundary; pointer fields on update inputs distinguish "leave alone" from
// "set to zero value".

// --- Auth ---

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthUser is the public projection of a User.
type AuthUser struct {
	ID    int64    `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  AuthUser `json:"user"`
	Token string   `json:"token"`
}

// --- Plans ---

type CreatePlanInput struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Timezone     string   `json:"timezone"`
	StartDate    string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string   `json:"endDate" validate:"required,datetime=2006-01-02"`
	StrategyTags []string `json:"strategyTags"`
	Notes        *string  `json:"notes"`
	TemplateID   string   `json:"templateId"`
}

type UpdatePlanInput struct {
	Name         *string     `json:"name" validate:"omitempty,min=1,max=255"`
	Timezone     *string     `json:"timezone"`
	StartDate    *string     `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string     `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	StrategyTags []string    `json:"strategyTags"`
	Notes        *string     `json:"notes"`
	Status       *PlanStatus `json:"status" validate:"omitempty,oneof=draft active completed archived"`
}

// --- Tasks ---

type CreateTaskInput struct {
	Title            string       `json:"title" validate:"required,max=500"`
	Description      *string      `json:"description"`
	DueDate          string       `json:"dueDate" validate:"required,datetime=2006-01-02"`
	DueTime          *string      `json:"dueTime" validate:"omitempty,datetime=15:04"`
	EstimatedMinutes *int         `json:"estimatedMinutes" validate:"omitempty,gt=0"`
	Status           TaskStatus   `json:"status" validate:"omitempty,oneof=not_started in_progress blocked complete skipped"`
	Priority         TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category         TaskCategory `json:"category" validate:"omitempty,oneof=product funnel outreach email ads analytics support other"`
	OwnerID          *int64       `json:"ownerId" validate:"omitempty,gt=0"`
	Links            []string     `json:"links" validate:"dive,url"`
	DependsOn        []int64      `json:"dependsOn" validate:"dive,gt=0"`
}

type UpdateTaskInput struct {
	Title            *string       `json:"title" validate:"omitempty,min=1,max=500"`
	Description      *string       `json:"description"`
	DueDate          *string       `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	DueTime          *string       `json:"dueTime" validate:"omitempty,datetime=15:04"`
	EstimatedMinutes *int          `json:"estimatedMinutes" validate:"omitempty,gt=0"`
	Status           *TaskStatus   `json:"status" validate:"omitempty,oneof=not_started in_progress blocked complete skipped"`
	Priority         *TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category         *TaskCategory `json:"category" validate:"omitempty,oneof=product funnel outreach email ads analytics support other"`
	OwnerID          *int64        `json:"ownerId" validate:"omitempty,gt=0"`
	Links            []string      `json:"links" validate:"dive,url"`
	CompletionNotes  *string       `json:"completionNotes"`
}

type CompleteTaskInput struct {
	CompletionNotes *string `json:"completionNotes"`
}

// TaskFilter narrows task listings; zero values mean no filter.
type TaskFilter struct {
	Status   string
	Priority string
	Category string
	Date     string
}

// --- KPIs ---

type CreateKpiInput struct {
	Name            string        `json:"name" validate:"required,max=255"`
	Category        KpiCategory   `json:"category" validate:"required,oneof=email_deliverability funnel_conversion revenue activation ads"`
	Unit            KpiUnit       `json:"unit" validate:"required,oneof=percent count currency ratio"`
	TargetType      KpiTargetType `json:"targetType" validate:"required,oneof=minimum maximum"`
	TargetValue     float64       `json:"targetValue"`
	CalculationType string        `json:"calculationType" validate:"omitempty,oneof=manual calculated"`
}

type CreateKpiEntryInput struct {
	Date  string  `json:"date" validate:"required,datetime=2006-01-02"`
	Value float64 `json:"value"`
	Notes *string `json:"notes"`
}

// --- Alerts ---

type ResolveAlertInput struct {
	ResolutionNotes string `json:"resolutionNotes" validate:"required,min=1"`
}

// --- Contacts ---

type CreateContactInput struct {
	Email   string         `json:"email" validate:"required,email"`
	Name    *string        `json:"name"`
	Segment ContactSegment `json:"segment" validate:"required,oneof=past_payer cold_list"`
	Status  ContactStatus  `json:"status" validate:"omitempty,oneof=not_contacted contacted replied booked_call started_trial paid_starter paid_pro unsubscribed"`
	Tags    []string       `json:"tags"`
	Notes   *string        `json:"notes"`
}

type UpdateContactInput struct {
	Email   *string         `json:"email" validate:"omitempty,email"`
	Name    *string         `json:"name"`
	Segment *ContactSegment `json:"segment" validate:"omitempty,oneof=past_payer cold_list"`
	Status  *ContactStatus  `json:"status" validate:"omitempty,oneof=not_contacted contacted replied booked_call started_trial paid_starter paid_pro unsubscribed"`
	Tags    []string        `json:"tags"`
	Notes   *string         `json:"notes"`
}

type ImportContact struct {
	Email   string         `json:"email" validate:"required,email"`
	Name    *string        `json:"name"`
	Segment ContactSegment `json:"segment" validate:"required,oneof=past_payer cold_list"`
	Tags    []string       `json:"tags"`
}

type ImportContactsInput struct {
	Contacts []ImportContact `json:"contacts" validate:"required,min=1,dive"`
}

// ContactFilter narrows contact listings.
type ContactFilter struct {
	Segment string
	Status  string
}

// --- Outreach ---

type CreateOutreachEventInput struct {
	ContactID   int64           `json:"contactId" validate:"required,gt=0"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Channel     OutreachChannel `json:"channel" validate:"required,oneof=email dm call"`
	TemplateKey *string         `json:"templateKey"`
	Outcome     OutreachOutcome `json:"outcome" validate:"required,oneof=delivered replied clicked converted"`
	Notes       *string         `json:"notes"`
}

// --- Assets ---

type CreateAssetInput struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Type         string  `json:"type" validate:"required"`
	URL          *string `json:"url" validate:"omitempty,url"`
	LinkedTaskID *int64  `json:"linkedTaskId" validate:"omitempty,gt=0"`
	LinkedDate   *string `json:"linkedDate" validate:"omitempty,datetime=2006-01-02"`
	Notes        *string `json:"notes"`
}

// --- Notes ---

// FlexID accepts either a JSON number or string, since day notes link a date
// while the rest link row ids.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n.String())
		return nil
	}
	return fmt.Errorf("linkedId must be a string or number")
}

func (f FlexID) String() string { return string(f) }

// Int64 parses the id for callers linking numeric entities.
func (f FlexID) Int64() (int64, error) {
	return strconv.ParseInt(string(f), 10, 64)
}

type CreateNoteInput struct {
	LinkedType NoteLinkedType `json:"linkedType" validate:"required,oneof=day task kpi contact"`
	LinkedID   FlexID         `json:"linkedId" validate:"required"`
	Content    string         `json:"content" validate:"required,min=1"`
}

// NoteFilter narrows note listings.
type NoteFilter struct {
	LinkedType string
	LinkedID   string
}
