package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"launchtracker/internal/domain"
	"launchtracker/internal/handler"
	"launchtracker/internal/infra/observability"
	"launchtracker/internal/infra/sqlite"
	"launchtracker/internal/service"

	"go.uber.org/zap"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	store, err := sqlite.Open(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	metrics := observability.NewMetrics()
	plans := service.NewPlanService(store, logger)
	svcs := handler.Services{
		Auth:     service.NewAuthService(store, "integration-secret", time.Hour, logger),
		Plans:    plans,
		Tasks:    service.NewTaskService(store, plans, metrics, logger),
		Kpis:     service.NewKpiService(store, plans, metrics, logger),
		Contacts: service.NewContactService(store, plans, metrics, logger),
		Content:  service.NewContentService(store, store, plans, logger),
		Reports:  service.NewReportService(store, store, store, store, store, logger),
	}
	return handler.NewRouter(svcs, store, metrics, "http://localhost:5173", time.Hour, logger)
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

// doData performs a request, asserts the status and unwraps the data field.
func (c *client) doData(method, path string, body any, wantStatus int, out any) {
	c.t.Helper()
	rec := c.do(method, path, body)
	if rec.Code != wantStatus {
		c.t.Fatalf("%s %s = %d, want %d. Body: %s", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	if out == nil {
		return
	}
	envelope := struct {
		Data    any  `json:"data"`
		Success bool `json:"success"`
	}{Data: out}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		c.t.Fatalf("decode %s %s: %v", method, path, err)
	}
	if !envelope.Success {
		c.t.Fatalf("%s %s: success=false", method, path)
	}
}

func (c *client) register(email string) {
	c.t.Helper()
	var auth domain.AuthResponse
	c.doData(http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": "secret1", "name": "Integration",
	}, http.StatusCreated, &auth)
	c.token = auth.Token
}

func TestLaunchFlow(t *testing.T) {
	router := newServer(t)
	owner := &client{t: t, router: router}
	owner.register("owner@example.com")

	// --- Create a plan from the built-in template ---
	var plan domain.LaunchPlan
	owner.doData(http.MethodPost, "/api/plans", map[string]any{
		"name":       "Feb 2026 Launch",
		"startDate":  "2026-02-01",
		"endDate":    "2026-02-14",
		"templateId": "feb-2026-launch",
	}, http.StatusCreated, &plan)
	if plan.ID == 0 {
		t.Fatal("plan id missing")
	}
	planPath := fmt.Sprintf("/api/plans/%d", plan.ID)

	var tasks []domain.Task
	owner.doData(http.MethodGet, planPath+"/tasks", nil, http.StatusOK, &tasks)
	if len(tasks) != 67 {
		t.Fatalf("template seeded %d tasks, want 67", len(tasks))
	}
	var kpis []domain.KpiWithStatus
	owner.doData(http.MethodGet, planPath+"/kpis", nil, http.StatusOK, &kpis)
	if len(kpis) != 13 {
		t.Fatalf("template seeded %d kpis, want 13", len(kpis))
	}

	// --- Calendar covers the plan window ---
	var calendar domain.CalendarData
	owner.doData(http.MethodGet, planPath+"/calendar", nil, http.StatusOK, &calendar)
	if calendar.StartDate != "2026-02-01" || calendar.EndDate != "2026-02-14" {
		t.Errorf("calendar window = %s..%s", calendar.StartDate, calendar.EndDate)
	}
	if len(calendar.Days) == 0 {
		t.Fatal("calendar has no day rows")
	}

	// --- Complete a task via the quick action ---
	var done domain.Task
	owner.doData(http.MethodPost, fmt.Sprintf("%s/tasks/%d/complete", planPath, tasks[0].ID),
		map[string]string{"completionNotes": "shipped"}, http.StatusOK, &done)
	if done.Status != domain.TaskComplete || done.CompletedAt == nil {
		t.Errorf("completed task = %+v", done)
	}

	// --- Day view groups by priority ---
	var day domain.DayView
	owner.doData(http.MethodGet, planPath+"/day/2026-02-01", nil, http.StatusOK, &day)
	if day.Summary.Total == 0 {
		t.Error("day one of the template must have tasks")
	}
	if day.Summary.Completed != 1 {
		t.Errorf("day summary completed = %d, want 1", day.Summary.Completed)
	}

	// --- A breaching KPI entry raises an alert ---
	kpiID := kpis[0].ID
	var entry domain.KpiEntry
	owner.doData(http.MethodPost, fmt.Sprintf("%s/kpis/%d/entries", planPath, kpiID),
		map[string]any{"date": "2026-02-03", "value": 1}, http.StatusCreated, &entry)

	var alerts []domain.Alert
	owner.doData(http.MethodGet, planPath+"/alerts?resolved=false", nil, http.StatusOK, &alerts)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 unresolved alert, got %d", len(alerts))
	}

	var resolved domain.Alert
	owner.doData(http.MethodPost, fmt.Sprintf("%s/alerts/%d/resolve", planPath, alerts[0].ID),
		map[string]string{"resolutionNotes": "list cleaned"}, http.StatusOK, &resolved)
	if resolved.ResolvedAt == nil {
		t.Error("alert must carry resolvedAt after resolve")
	}
	owner.doData(http.MethodGet, planPath+"/alerts?resolved=false", nil, http.StatusOK, &alerts)
	if len(alerts) != 0 {
		t.Errorf("expected no unresolved alerts, got %d", len(alerts))
	}

	// --- Outreach: contact import, event logging, status side effect ---
	var imported struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	owner.doData(http.MethodPost, planPath+"/contacts/import", map[string]any{
		"contacts": []map[string]any{
			{"email": "lead1@example.com", "segment": "past_payer"},
			{"email": "lead2@example.com", "segment": "cold_list"},
		},
	}, http.StatusCreated, &imported)
	if imported.Imported != 2 || imported.Skipped != 0 {
		t.Errorf("import = %+v", imported)
	}

	var contacts []domain.Contact
	owner.doData(http.MethodGet, planPath+"/contacts", nil, http.StatusOK, &contacts)
	var event domain.OutreachEvent
	owner.doData(http.MethodPost, planPath+"/outreach-events", map[string]any{
		"contactId": contacts[0].ID, "date": "2026-02-04",
		"channel": "email", "outcome": "delivered",
	}, http.StatusCreated, &event)

	owner.doData(http.MethodGet, planPath+"/contacts", nil, http.StatusOK, &contacts)
	var found bool
	for _, c := range contacts {
		if c.ID == event.ContactID {
			found = true
			if c.Status != domain.ContactContacted {
				t.Errorf("contact status = %s, want contacted", c.Status)
			}
		}
	}
	if !found {
		t.Fatal("event contact missing from listing")
	}

	// --- Report rolls everything up ---
	var report domain.Report
	owner.doData(http.MethodGet, planPath+"/report", nil, http.StatusOK, &report)
	if report.TaskSummary.Total != 67 || report.TaskSummary.Completed != 1 {
		t.Errorf("task summary = %+v", report.TaskSummary)
	}
	if len(report.Kpis) != 13 {
		t.Errorf("report kpi lines = %d, want 13", len(report.Kpis))
	}
	if len(report.OutreachFunnel) == 0 {
		t.Error("report funnel empty")
	}

	// --- CSV export ---
	rec := owner.do(http.MethodGet, planPath+"/export/csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment; filename=launch-kpis-") {
		t.Errorf("content disposition = %s", cd)
	}
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("csv lines = %d, want header plus one entry", len(lines))
	}

	// --- Ownership: another account sees 404, not 403 ---
	intruder := &client{t: t, router: router}
	intruder.register("intruder@example.com")
	rec = intruder.do(http.MethodGet, planPath, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign plan = %d, want 404", rec.Code)
	}

	// --- Deleting the plan removes the subtree ---
	rec = owner.do(http.MethodDelete, planPath, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete plan = %d", rec.Code)
	}
	rec = owner.do(http.MethodGet, planPath, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted plan = %d, want 404", rec.Code)
	}
}
