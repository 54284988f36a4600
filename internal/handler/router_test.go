package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"launchtracker/internal/domain"
	"launchtracker/internal/handler"
	"launchtracker/internal/infra/observability"
	"launchtracker/internal/infra/sqlite"
	"launchtracker/internal/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) (http.Handler, *sqlite.Store) {
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
		Auth:     service.NewAuthService(store, "test-secret", time.Hour, logger),
		Plans:    plans,
		Tasks:    service.NewTaskService(store, plans, metrics, logger),
		Kpis:     service.NewKpiService(store, plans, metrics, logger),
		Contacts: service.NewContactService(store, plans, metrics, logger),
		Content:  service.NewContentService(store, store, plans, logger),
		Reports:  service.NewReportService(store, store, store, store, store, logger),
	}
	return handler.NewRouter(svcs, store, metrics, "http://localhost:5173", time.Hour, logger), store
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/readyz", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("readyz = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/metrics", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("metrics = %d", rec.Code)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/plans", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body struct {
		Error      string `json:"error"`
		StatusCode int    `json:"statusCode"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != "Unauthorized" || body.StatusCode != 401 {
		t.Errorf("error body = %+v", body)
	}
}

func TestRegister_SetsCookieAndReturnsToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "founder@example.com", "password": "secret1", "name": "Founder",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d, body %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("register must set the session cookie")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	var body struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"user"`
		} `json:"data"`
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.Token == "" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.Data.User.Role != "admin" {
		t.Errorf("role = %s, want admin", body.Data.User.Role)
	}

	// The bearer token authenticates /me.
	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", nil, body.Data.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("me with bearer = %d", rec.Code)
	}

	// The cookie alone authenticates too.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(sessionCookie)
	cookieRec := httptest.NewRecorder()
	router.ServeHTTP(cookieRec, req)
	if cookieRec.Code != http.StatusOK {
		t.Fatalf("me with cookie = %d", cookieRec.Code)
	}
}

func TestValidationErrorEnvelope(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "nope", "password": "x",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "ValidationError" {
		t.Errorf("error = %s", body.Error)
	}
	if len(body.Details) == 0 {
		t.Error("expected per-field details")
	}
}

func TestMissingPlanIs404AppError(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "u@example.com", "password": "secret1", "name": "U",
	}, "")
	var auth struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&auth); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/plans/999", nil, auth.Data.Token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "AppError" {
		t.Errorf("error = %s, want AppError", body.Error)
	}
}

func registerForToken(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": "secret1", "name": "Tester",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Data.Token
}

func TestUpdatesUsePatch(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerForToken(t, router, "u@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/plans", map[string]string{
		"name": "Launch", "startDate": "2026-02-01", "endDate": "2026-02-14",
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create plan = %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	planPath := "/api/plans/" + strconv.FormatInt(created.Data.ID, 10)

	rec = doJSON(t, router, http.MethodPatch, planPath, map[string]string{"name": "Renamed"}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH plan = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Data.Name != "Renamed" {
		t.Errorf("name = %s, want Renamed", updated.Data.Name)
	}

	// PUT is not part of the surface.
	rec = doJSON(t, router, http.MethodPut, planPath, map[string]string{"name": "Nope"}, token)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT plan = %d, want 405", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, planPath+"/tasks", map[string]string{
		"title": "Draft email", "dueDate": "2026-02-02",
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task = %d", rec.Code)
	}
	var task struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&task); err != nil {
		t.Fatalf("decode: %v", err)
	}
	taskPath := planPath + "/tasks/" + strconv.FormatInt(task.Data.ID, 10)
	rec = doJSON(t, router, http.MethodPatch, taskPath, map[string]string{"status": "in_progress"}, token)
	if rec.Code != http.StatusOK {
		t.Errorf("PATCH task = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, planPath+"/contacts", map[string]string{
		"email": "lead@example.com", "segment": "cold_list",
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create contact = %d", rec.Code)
	}
	var contact struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&contact); err != nil {
		t.Fatalf("decode: %v", err)
	}
	contactPath := planPath + "/contacts/" + strconv.FormatInt(contact.Data.ID, 10)
	rec = doJSON(t, router, http.MethodPatch, contactPath, map[string]string{"status": "contacted"}, token)
	if rec.Code != http.StatusOK {
		t.Errorf("PATCH contact = %d", rec.Code)
	}
}

func TestDuplicateRegistrationIs400(t *testing.T) {
	router, _ := newTestRouter(t)
	registerForToken(t, router, "dup@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "dup@example.com", "password": "secret1", "name": "Again",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register = %d, want 400", rec.Code)
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "AppError" {
		t.Errorf("error = %s, want AppError", body.Error)
	}
	if body.Message != "Email already registered" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestAdminStats_GatedByRole(t *testing.T) {
	router, store := newTestRouter(t)
	token := registerForToken(t, router, "admin@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/admin/stats", nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin stats as admin = %d", rec.Code)
	}

	// Collaborators are seeded out of band; registration always grants admin.
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := store.CreateUser(context.Background(), "collab@example.com", string(hash), "Collab", domain.RoleCollaborator); err != nil {
		t.Fatalf("create collaborator: %v", err)
	}
	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "collab@example.com", "password": "secret1",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("collaborator login = %d", rec.Code)
	}
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&login); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/admin/stats", nil, login.Data.Token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin stats as collaborator = %d, want 403", rec.Code)
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Forbidden" || body.Message != "Admin access required" {
		t.Errorf("forbidden body = %+v", body)
	}
}

func TestAlertFilter_ResolvedFalse(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerForToken(t, router, "u@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/plans", map[string]string{
		"name": "Launch", "startDate": "2026-02-01", "endDate": "2026-02-14",
	}, token)
	var plan struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	planPath := "/api/plans/" + strconv.FormatInt(plan.Data.ID, 10)

	rec = doJSON(t, router, http.MethodPost, planPath+"/kpis", map[string]any{
		"name": "Delivered Rate", "category": "email_deliverability",
		"unit": "percent", "targetType": "minimum", "targetValue": 95,
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create kpi = %d", rec.Code)
	}
	var kpi struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&kpi); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, router, http.MethodPost, planPath+"/kpis/"+strconv.FormatInt(kpi.Data.ID, 10)+"/entries",
		map[string]any{"date": "2026-02-03", "value": 10}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add entry = %d", rec.Code)
	}

	count := func(path string) int {
		t.Helper()
		rec := doJSON(t, router, http.MethodGet, path, nil, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, rec.Code)
		}
		var body struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return len(body.Data)
	}

	if n := count(planPath + "/alerts?resolved=false"); n != 1 {
		t.Errorf("open alerts = %d, want 1", n)
	}
	if n := count(planPath + "/alerts"); n != 1 {
		t.Errorf("all alerts = %d, want 1", n)
	}

	rec = doJSON(t, router, http.MethodGet, planPath+"/alerts?resolved=false", nil, token)
	var alerts struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&alerts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	rec = doJSON(t, router, http.MethodPost, planPath+"/alerts/"+strconv.FormatInt(alerts.Data[0].ID, 10)+"/resolve",
		map[string]string{"resolutionNotes": "list cleaned"}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve = %d", rec.Code)
	}

	if n := count(planPath + "/alerts?resolved=false"); n != 0 {
		t.Errorf("open alerts after resolve = %d, want 0", n)
	}
	if n := count(planPath + "/alerts"); n != 1 {
		t.Errorf("all alerts after resolve = %d, want 1", n)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout = %d", rec.Code)
	}
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout must expire the session cookie")
	}
}
