package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"launchtracker/internal/domain"
	"launchtracker/internal/infra/sqlite"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUserAndPlan(t *testing.T, s *sqlite.Store) (userID, planID int64) {
	t.Helper()
	ctx := context.Background()
	user, err := s.CreateUser(ctx, "owner@example.com", "hash", "Owner", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	plan, err := s.CreatePlan(ctx, user.ID, domain.CreatePlanInput{
		Name:      "Feb Launch",
		StartDate: "2026-02-01",
		EndDate:   "2026-02-14",
	}, nil, nil)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return user.ID, plan.ID
}

func TestOpen_MigrateIdempotent(t *testing.T) {
	// Opening twice against the same handle is not possible with :memory:,
	// but the schema statements themselves must be re-runnable.
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	s2 := newTestStore(t)
	if err := s2.Ping(context.Background()); err != nil {
		t.Fatalf("second open: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "dup@example.com", "h", "A", domain.RoleAdmin); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := s.CreateUser(ctx, "dup@example.com", "h", "B", domain.RoleAdmin)
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *domain.ErrConflict, got %T: %v", err, err)
	}
}

func TestGetPlan_ScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	other, err := s.CreateUser(ctx, "other@example.com", "h", "Other", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	_, err = s.GetPlan(ctx, other.ID, planID)
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *domain.ErrNotFound for foreign plan, got %v", err)
	}
}

func TestDeletePlan_CascadesChildren(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID, planID := seedUserAndPlan(t, s)

	task, err := s.CreateTask(ctx, planID, domain.CreateTaskInput{Title: "Warm up domain", DueDate: "2026-02-01"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	kpi, err := s.CreateKpi(ctx, planID, domain.CreateKpiInput{
		Name: "Delivered Rate", Category: domain.KpiEmailDeliverability,
		Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 95,
	})
	if err != nil {
		t.Fatalf("create kpi: %v", err)
	}
	if _, _, err := s.UpsertEntry(ctx, planID, kpi.ID, domain.CreateKpiEntryInput{Date: "2026-02-01", Value: 96}); err != nil {
		t.Fatalf("upsert entry: %v", err)
	}

	if err := s.DeletePlan(ctx, userID, planID); err != nil {
		t.Fatalf("delete plan: %v", err)
	}

	if _, err := s.GetTask(ctx, planID, task.ID); err == nil {
		t.Error("task should be gone after plan delete")
	}
	if _, err := s.GetKpi(ctx, planID, kpi.ID); err == nil {
		t.Error("kpi should be gone after plan delete")
	}
	entries, err := s.ListEntries(ctx, kpi.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries after cascade, got %d", len(entries))
	}
}

func TestUpsertEntry_OneRowPerKpiDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	kpi, err := s.CreateKpi(ctx, planID, domain.CreateKpiInput{
		Name: "Open Rate", Category: domain.KpiEmailDeliverability,
		Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 40,
	})
	if err != nil {
		t.Fatalf("create kpi: %v", err)
	}

	first, created, err := s.UpsertEntry(ctx, planID, kpi.ID, domain.CreateKpiEntryInput{Date: "2026-02-03", Value: 38})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Error("first write for a date must report created")
	}

	second, created, err := s.UpsertEntry(ctx, planID, kpi.ID, domain.CreateKpiEntryInput{Date: "2026-02-03", Value: 42})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second write for the same date must report updated")
	}
	if second.ID != first.ID {
		t.Errorf("upsert must keep the row id, got %d then %d", first.ID, second.ID)
	}
	if second.Value != 42 {
		t.Errorf("value = %v, want 42", second.Value)
	}

	entries, err := s.ListEntries(ctx, kpi.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one row per (kpi, date), got %d", len(entries))
	}
}

func TestCreateContact_DuplicateEmailInPlan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	in := domain.CreateContactInput{Email: "lead@example.com", Segment: domain.SegmentColdList}
	if _, err := s.CreateContact(ctx, planID, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := s.CreateContact(ctx, planID, in)
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *domain.ErrConflict, got %v", err)
	}
}

func TestImportContacts_SkipsDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	if _, err := s.CreateContact(ctx, planID, domain.CreateContactInput{Email: "known@example.com", Segment: domain.SegmentPastPayer}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	imported, skipped, err := s.ImportContacts(ctx, planID, []domain.ImportContact{
		{Email: "known@example.com", Segment: domain.SegmentPastPayer},
		{Email: "new1@example.com", Segment: domain.SegmentColdList},
		{Email: "new2@example.com", Segment: domain.SegmentColdList},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Errorf("imported=%d skipped=%d, want 2 and 1", imported, skipped)
	}
}

func TestMarkContacted_OnlyFromNotContacted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	contact, err := s.CreateContact(ctx, planID, domain.CreateContactInput{Email: "lead@example.com", Segment: domain.SegmentColdList})
	if err != nil {
		t.Fatalf("create contact: %v", err)
	}

	if err := s.MarkContacted(ctx, planID, contact.ID); err != nil {
		t.Fatalf("mark contacted: %v", err)
	}
	got, err := s.GetContact(ctx, planID, contact.ID)
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if got.Status != domain.ContactContacted {
		t.Fatalf("status = %s, want contacted", got.Status)
	}

	// A contact already further down the funnel must not be demoted.
	replied := domain.ContactReplied
	if _, err := s.UpdateContact(ctx, planID, contact.ID, domain.UpdateContactInput{Status: &replied}); err != nil {
		t.Fatalf("update contact: %v", err)
	}
	if err := s.MarkContacted(ctx, planID, contact.ID); err != nil {
		t.Fatalf("mark contacted again: %v", err)
	}
	got, err = s.GetContact(ctx, planID, contact.ID)
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if got.Status != domain.ContactReplied {
		t.Errorf("status = %s, want replied to survive", got.Status)
	}
}

func TestCreateTask_UnknownDependencyRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	_, err := s.CreateTask(ctx, planID, domain.CreateTaskInput{
		Title: "Send launch email", DueDate: "2026-02-05", DependsOn: []int64{9999},
	})
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ErrValidation, got %v", err)
	}
}

func TestCompleteTask_SetsCompletedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	task, err := s.CreateTask(ctx, planID, domain.CreateTaskInput{Title: "Ship pricing page", DueDate: "2026-02-02"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	notes := "went live at noon"
	done, err := s.CompleteTask(ctx, planID, task.ID, &notes)
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if done.Status != domain.TaskComplete {
		t.Errorf("status = %s, want complete", done.Status)
	}
	if done.CompletedAt == nil {
		t.Error("completedAt must be set on completion")
	}
	if done.CompletionNotes == nil || *done.CompletionNotes != notes {
		t.Errorf("completionNotes = %v, want %q", done.CompletionNotes, notes)
	}
}

func TestDayStats_FlagsHighPriorityAndBlocked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	mk := func(title, date string, priority domain.TaskPriority, status domain.TaskStatus) {
		t.Helper()
		task, err := s.CreateTask(ctx, planID, domain.CreateTaskInput{Title: title, DueDate: date, Priority: priority})
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
		if status != "" && status != domain.TaskNotStarted {
			st := status
			if _, err := s.UpdateTask(ctx, planID, task.ID, domain.UpdateTaskInput{Status: &st}); err != nil {
				t.Fatalf("update task: %v", err)
			}
		}
	}

	mk("a", "2026-02-01", domain.PriorityHigh, domain.TaskComplete)
	mk("b", "2026-02-01", domain.PriorityLow, domain.TaskNotStarted)
	mk("c", "2026-02-02", domain.PriorityMedium, domain.TaskBlocked)

	stats, err := s.DayStats(ctx, planID)
	if err != nil {
		t.Fatalf("day stats: %v", err)
	}
	byDate := make(map[string]domain.DayTaskStats, len(stats))
	for _, st := range stats {
		byDate[st.Date] = st
	}

	day1 := byDate["2026-02-01"]
	if day1.TotalTasks != 2 || day1.CompletedTasks != 1 {
		t.Errorf("day1 total=%d completed=%d, want 2 and 1", day1.TotalTasks, day1.CompletedTasks)
	}
	// A completed high-priority task still marks the day high priority.
	if !day1.HasHighPriority {
		t.Error("day1 must flag high priority")
	}
	if day1.HasBlockedTasks {
		t.Error("day1 must not flag blocked")
	}

	day2 := byDate["2026-02-02"]
	if !day2.HasBlockedTasks {
		t.Error("day2 must flag blocked")
	}
	if day2.HasHighPriority {
		t.Error("day2 must not flag high priority")
	}
}

func TestFunnelStats_ContactedIncludesUnsubscribed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	seed := func(email string, status domain.ContactStatus) {
		t.Helper()
		if _, err := s.CreateContact(ctx, planID, domain.CreateContactInput{
			Email: email, Segment: domain.SegmentColdList, Status: status,
		}); err != nil {
			t.Fatalf("create contact: %v", err)
		}
	}
	seed("a@example.com", domain.ContactNotContacted)
	seed("b@example.com", domain.ContactContacted)
	seed("c@example.com", domain.ContactUnsubscribed)
	seed("d@example.com", domain.ContactReplied)
	seed("e@example.com", domain.ContactPaidPro)

	stats, err := s.FunnelStats(ctx, planID)
	if err != nil {
		t.Fatalf("funnel stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected one segment, got %d", len(stats))
	}
	got := stats[0]
	if got.Total != 5 {
		t.Errorf("total = %d, want 5", got.Total)
	}
	if got.Contacted != 4 {
		t.Errorf("contacted = %d, want 4 (everything except not_contacted)", got.Contacted)
	}
	if got.Replied != 2 {
		t.Errorf("replied = %d, want 2", got.Replied)
	}
	if got.Converted != 1 {
		t.Errorf("converted = %d, want 1", got.Converted)
	}
}

func TestAlerts_ResolveAndUnresolvedFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	kpi, err := s.CreateKpi(ctx, planID, domain.CreateKpiInput{
		Name: "Delivered Rate", Category: domain.KpiEmailDeliverability,
		Unit: domain.UnitPercent, TargetType: domain.TargetMinimum, TargetValue: 95,
	})
	if err != nil {
		t.Fatalf("create kpi: %v", err)
	}

	alert, err := s.CreateAlert(ctx, planID, kpi.ID, "2026-02-04", domain.SeverityWarning, "Delivered Rate is outside target range: 80 (target: minimum 95)")
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}
	if alert.KpiName == nil || *alert.KpiName != "Delivered Rate" {
		t.Errorf("kpiName = %v, want Delivered Rate", alert.KpiName)
	}

	dates, err := s.UnresolvedAlertDates(ctx, planID)
	if err != nil {
		t.Fatalf("unresolved dates: %v", err)
	}
	if !dates["2026-02-04"] {
		t.Error("unresolved alert date missing from map")
	}

	resolved, err := s.ResolveAlert(ctx, planID, alert.ID, "fixed DNS records")
	if err != nil {
		t.Fatalf("resolve alert: %v", err)
	}
	if resolved.ResolvedAt == nil {
		t.Error("resolvedAt must be set")
	}

	open, err := s.ListAlerts(ctx, planID, true)
	if err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("expected no unresolved alerts, got %d", len(open))
	}
	all, err := s.ListAlerts(ctx, planID, false)
	if err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 alert total, got %d", len(all))
	}
}

func TestResolveNoteLink(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, planID := seedUserAndPlan(t, s)

	task, err := s.CreateTask(ctx, planID, domain.CreateTaskInput{Title: "Draft cold email", DueDate: "2026-02-03"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := s.ResolveNoteLink(ctx, planID, domain.NoteOnTask, task.ID); err != nil {
		t.Errorf("existing task link should resolve: %v", err)
	}
	err = s.ResolveNoteLink(ctx, planID, domain.NoteOnTask, task.ID+100)
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("expected *domain.ErrNotFound for missing link target, got %v", err)
	}
}
