// Package template ships the built-in launch plan templates. Applying one
// seeds a new plan with a full task calendar and a default KPI set.
package template

import (
	"fmt"

	"launchtracker/internal/domain"
)

// Task is one templated task, positioned relative to the plan start date.
type Task struct {
	DayOffset        int
	Title            string
	Description      string
	Priority         domain.TaskPriority
	Category         domain.TaskCategory
	EstimatedMinutes int
}

// Kpi is one templated KPI definition.
type Kpi struct {
	Name        string
	Category    domain.KpiCategory
	Unit        domain.KpiUnit
	TargetType  domain.KpiTargetType
	TargetValue float64
}

// Template bundles the tasks and KPIs applied when a plan is created from it.
type Template struct {
	ID          string
	Name        string
	Description string
	Tasks       []Task
	Kpis        []Kpi
}

// LaunchCalendarID is the id of the built-in 14-day launch template.
const LaunchCalendarID = "feb-2026-launch"

// ByID returns a template by id.
func ByID(id string) (*Template, error) {
	for i := range registry {
		if registry[i].ID == id {
			return &registry[i], nil
		}
	}
	return nil, fmt.Errorf("unknown template %q", id)
}

// List describes all available templates.
func List() []domain.PlanTemplateInfo {
	infos := make([]domain.PlanTemplateInfo, 0, len(registry))
	for _, t := range registry {
		infos = append(infos, domain.PlanTemplateInfo{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			TaskCount:   len(t.Tasks),
			KpiCount:    len(t.Kpis),
		})
	}
	return infos
}

// Materialize turns template rows into insertable tasks and KPIs, resolving
// each day offset against the plan start date.
func (t *Template) Materialize(startDate string) ([]domain.Task, []domain.Kpi, error) {
	tasks := make([]domain.Task, 0, len(t.Tasks))
	for _, tt := range t.Tasks {
		due, err := domain.AddDays(startDate, tt.DayOffset)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve due date: %w", err)
		}
		desc := tt.Description
		minutes := tt.EstimatedMinutes
		tasks = append(tasks, domain.Task{
			Title:            tt.Title,
			Description:      &desc,
			DueDate:          due,
			EstimatedMinutes: &minutes,
			Priority:         tt.Priority,
			Category:         tt.Category,
		})
	}

	kpis := make([]domain.Kpi, 0, len(t.Kpis))
	for _, tk := range t.Kpis {
		kpis = append(kpis, domain.Kpi{
			Name:        tk.Name,
			Category:    tk.Category,
			Unit:        tk.Unit,
			TargetType:  tk.TargetType,
			TargetValue: tk.TargetValue,
		})
	}
	return tasks, kpis, nil
}

var registry = []Template{
	{
		ID:          LaunchCalendarID,
		Name:        "Feb 1-14, 2026 Launch Calendar",
		Description: "A 14-day launch plan with tasks for soft launch, outreach, cold list warm-up, and conversion push.",
		Tasks:       launchCalendarTasks,
		Kpis:        defaultKpis,
	},
}

var defaultKpis = []Kpi{
	{Name: "Delivered Rate", Category: domain.KpiEmailDeliverability, Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 95},
	{Name: "Bounce Rate", Category: domain.KpiEmailDeliverability, Unit: domain.UnitPercent, TargetType: domain.TargetMaximum, TargetValue: 5},
	{Name: "Spam Complaint Rate", Category: domain.KpiEmailDeliverability, Unit: domain.UnitPercent, TargetType: domain.TargetMaximum, TargetValue: 0.1},
	{Name: "Open Rate", Category: domain.KpiEmailDeliverability, Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 25},
	{Name: "Click Rate", Category: domain.KpiEmailDeliverability, Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 3},
	{Name: "Assessment Page → Email Capture", Category: domain.KpiFunnelConversion, Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 30},
	{Name: "Assessment Started → Completed", Category: domain.KpiFunnelConversion, Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 60},
	{Name: "Leads → Starter Conversion", Category: domain.KpiRevenue, Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 2},
	{Name: "Leads → Pro Conversion", Category: domain.KpiRevenue, Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 0.5},
	{Name: "Daily Revenue", Category: domain.KpiRevenue, Unit: domain.UnitCurrency, TargetType: domain.TargetMinimum, TargetValue: 100},
	{Name: "New Users → First Output (24h)", Category: domain.KpiActivation, Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 50},
	{Name: "Daily Ad Spend", Category: domain.KpiAds, Unit: domain.UnitCurrency, TargetType: domain.TargetMaximum, TargetValue: 50},
	{Name: "CAC (Customer Acquisition Cost)", Category: domain.KpiAds, Unit: domain.UnitCurrency, TargetType: domain.TargetMaximum, TargetValue: 100},
}

var launchCalendarTasks = []Task{
	// Day 1: soft launch kickoff
	{0, "Final pre-launch checklist review", "Go through complete checklist: payments working, emails loaded, tracking pixels active, support ready", domain.PriorityHigh, domain.CategoryProduct, 30},
	{0, "Enable payments and go live", "Switch from test mode to live, verify first transaction capability", domain.PriorityHigh, domain.CategoryProduct, 15},
	{0, "Monitor first sales and signups", "Watch for any immediate issues with checkout, onboarding, or delivery", domain.PriorityHigh, domain.CategoryAnalytics, 60},
	{0, "Send soft launch announcement to inner circle", "Personal message to closest supporters about the launch", domain.PriorityMedium, domain.CategoryOutreach, 30},
	{0, "Review KPIs and log day 1 metrics", "Daily KPI review: capture baseline metrics for all key indicators", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 2: past payer outreach
	{1, "Send personal emails to past payers (batch 1)", "Reach out to 5-7 past payers with personalized messages about the new offering", domain.PriorityHigh, domain.CategoryOutreach, 90},
	{1, "Send personal emails to past payers (batch 2)", "Reach out to remaining 5-8 past payers with personalized messages", domain.PriorityHigh, domain.CategoryOutreach, 90},
	{1, "Monitor email deliverability metrics", "Check bounce rates, spam complaints for initial sends", domain.PriorityMedium, domain.CategoryEmail, 15},
	{1, "Respond to any early replies or questions", "Handle any incoming messages from past payers promptly", domain.PriorityHigh, domain.CategorySupport, 30},
	{1, "Review KPIs and log day 2 metrics", "Daily KPI review: track outreach response rates, any conversions", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 3: friction fixes
	{2, "Review checkout session recordings", "Watch 5-10 session recordings to identify friction points in checkout flow", domain.PriorityHigh, domain.CategoryFunnel, 60},
	{2, "Identify top 3 friction points", "Document the biggest drop-off points or confusion areas", domain.PriorityHigh, domain.CategoryFunnel, 30},
	{2, "Fix highest priority friction issue", "Implement quick fix for the most impactful friction point", domain.PriorityHigh, domain.CategoryProduct, 90},
	{2, "Follow up on unreplied past payer emails", "Send gentle follow-up to past payers who haven't responded", domain.PriorityMedium, domain.CategoryOutreach, 45},
	{2, "Review KPIs and log day 3 metrics", "Daily KPI review: focus on funnel conversion metrics", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 4: cold list warm-up begins
	{3, "Prepare cold list email sequence", "Finalize first warm-up email copy and segment cold list", domain.PriorityHigh, domain.CategoryEmail, 60},
	{3, "Send warm-up email 1 to cold list (small batch)", "Start with 50-100 contacts to test deliverability", domain.PriorityHigh, domain.CategoryEmail, 30},
	{3, "Monitor deliverability closely", "Check bounce rate, spam rate within first 2 hours of send", domain.PriorityHigh, domain.CategoryEmail, 30},
	{3, "Fix second friction issue from day 3 review", "Continue improving checkout/onboarding flow", domain.PriorityMedium, domain.CategoryProduct, 60},
	{3, "Review KPIs and log day 4 metrics", "Daily KPI review: email metrics critical today", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 5: scale cold outreach
	{4, "Review day 4 cold email performance", "Analyze open rates, click rates, any spam issues", domain.PriorityHigh, domain.CategoryEmail, 30},
	{4, "Scale cold list send to larger batch", "If metrics healthy, send to 150-200 more contacts", domain.PriorityHigh, domain.CategoryEmail, 30},
	{4, "Handle cold list replies and questions", "Respond to any engagement from cold outreach", domain.PriorityHigh, domain.CategorySupport, 45},
	{4, "Review and improve email copy if needed", "Based on open/click rates, adjust subject lines or body copy", domain.PriorityMedium, domain.CategoryEmail, 45},
	{4, "Review KPIs and log day 5 metrics", "Daily KPI review: track cold list funnel progress", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 6: sequence and funnel tuning
	{5, "Send warm-up email 2 to earlier batches", "Second email in sequence to contacts from days 4-5", domain.PriorityHigh, domain.CategoryEmail, 30},
	{5, "Continue scaling cold list (new batch)", "Add another 100-150 contacts to the sequence", domain.PriorityHigh, domain.CategoryEmail, 30},
	{5, "Review assessment completion rates", "Check how many leads are completing the assessment funnel", domain.PriorityMedium, domain.CategoryFunnel, 30},
	{5, "Optimize assessment flow if completion rate low", "Identify and fix any drop-off points in assessment", domain.PriorityMedium, domain.CategoryProduct, 60},
	{5, "Review KPIs and log day 6 metrics", "Daily KPI review: focus on funnel conversion and email health", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 7: mid-launch checkpoint
	{6, "Mid-launch performance review", "Comprehensive review of all metrics vs targets at halfway point", domain.PriorityHigh, domain.CategoryAnalytics, 60},
	{6, "Decide: continue current strategy or pivot", "Based on data, determine if changes needed to approach", domain.PriorityHigh, domain.CategoryOther, 30},
	{6, "Continue cold list sequence", "Maintain email cadence to active segments", domain.PriorityHigh, domain.CategoryEmail, 30},
	{6, "Document learnings so far", "Capture what's working and what's not in launch notes", domain.PriorityMedium, domain.CategoryOther, 30},
	{6, "Review KPIs and log day 7 metrics", "Daily KPI review: mid-point comprehensive assessment", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 8: act on the checkpoint
	{7, "Implement changes from mid-launch review", "Execute any strategy adjustments decided yesterday", domain.PriorityHigh, domain.CategoryProduct, 90},
	{7, "Scale successful email segments", "Double down on segments showing best engagement", domain.PriorityHigh, domain.CategoryEmail, 45},
	{7, "Pause or adjust underperforming segments", "Stop sending to segments with poor deliverability or engagement", domain.PriorityMedium, domain.CategoryEmail, 30},
	{7, "Review KPIs and log day 8 metrics", "Daily KPI review: track impact of any changes", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 9: nurture engaged leads
	{8, "Continue cold list outreach", "Maintain email sequence to remaining contacts", domain.PriorityHigh, domain.CategoryEmail, 30},
	{8, "Follow up on engaged but unconverted leads", "Personal outreach to leads who clicked but didn't convert", domain.PriorityHigh, domain.CategoryOutreach, 60},
	{8, "Review support tickets and feedback", "Address any customer issues, gather product feedback", domain.PriorityMedium, domain.CategorySupport, 45},
	{8, "Review KPIs and log day 9 metrics", "Daily KPI review: conversion focus", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 10: optional paid retargeting
	{9, "Review retargeting viability", "Decide if budget allows for paid retargeting based on results so far", domain.PriorityMedium, domain.CategoryAds, 30},
	{9, "Set up retargeting audiences (if proceeding)", "Create audiences from site visitors, email clickers, assessment starters", domain.PriorityMedium, domain.CategoryAds, 60},
	{9, "Create retargeting ad creatives (if proceeding)", "Design simple reminder ads for retargeting campaign", domain.PriorityLow, domain.CategoryAds, 60},
	{9, "Continue email sequences", "Maintain outreach to remaining cold list segments", domain.PriorityHigh, domain.CategoryEmail, 30},
	{9, "Review KPIs and log day 10 metrics", "Daily KPI review: assess CAC if running ads", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 11: urgency push
	{10, "Launch urgency-based messaging", "Begin \"ending soon\" or \"limited time\" messaging to engaged leads", domain.PriorityHigh, domain.CategoryEmail, 45},
	{10, "Personal outreach to hot leads", "Direct messages to leads showing high engagement but no purchase", domain.PriorityHigh, domain.CategoryOutreach, 90},
	{10, "Launch retargeting campaign (if set up)", "Activate paid retargeting with small daily budget", domain.PriorityMedium, domain.CategoryAds, 30},
	{10, "Review KPIs and log day 11 metrics", "Daily KPI review: track urgency messaging impact", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 12: high-touch conversion
	{11, "Send reminder emails to engaged non-buyers", "Final sequence emails emphasizing deadline approaching", domain.PriorityHigh, domain.CategoryEmail, 30},
	{11, "Make personal calls to highest-value leads", "Phone outreach to top 5-10 leads who seem most likely to convert", domain.PriorityHigh, domain.CategoryOutreach, 90},
	{11, "Monitor ad spend and CAC", "Ensure retargeting ROI is acceptable, pause if not", domain.PriorityMedium, domain.CategoryAds, 30},
	{11, "Review KPIs and log day 12 metrics", "Daily KPI review: conversion rate focus", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 13: last call
	{12, "Send \"last day\" emails", "Final deadline messaging to all engaged contacts", domain.PriorityHigh, domain.CategoryEmail, 30},
	{12, "Final personal outreach to fence-sitters", "Last chance messages to leads who expressed interest", domain.PriorityHigh, domain.CategoryOutreach, 60},
	{12, "Address any last-minute objections", "Handle questions or concerns from potential buyers", domain.PriorityHigh, domain.CategorySupport, 60},
	{12, "Prepare for launch close", "Plan transition messaging, what happens after launch ends", domain.PriorityMedium, domain.CategoryOther, 30},
	{12, "Review KPIs and log day 13 metrics", "Daily KPI review: near-final performance assessment", domain.PriorityHigh, domain.CategoryAnalytics, 20},

	// Day 14: close and retrospective
	{13, "Send launch closing message", "Final email announcing end of launch offer", domain.PriorityHigh, domain.CategoryEmail, 30},
	{13, "Disable launch-specific pricing/offers", "Transition to post-launch pricing if applicable", domain.PriorityHigh, domain.CategoryProduct, 15},
	{13, "Compile final launch metrics report", "Full summary of all KPIs, conversions, revenue", domain.PriorityHigh, domain.CategoryAnalytics, 90},
	{13, "Document all learnings and decisions", "What worked, what didn't, what to do differently next time", domain.PriorityHigh, domain.CategoryOther, 60},
	{13, "Plan next steps and follow-up actions", "Determine immediate post-launch priorities and next sprint", domain.PriorityMedium, domain.CategoryOther, 45},
	{13, "Final KPI review and close out tracking", "Log final metrics and complete launch tracking", domain.PriorityHigh, domain.CategoryAnalytics, 30},
}
