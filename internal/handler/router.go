package handler

import (
	"net/http"
	"time"

	"launchtracker/internal/infra/observability"
	"launchtracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Auth     *service.AuthService
	Plans    *service.PlanService
	Tasks    *service.TaskService
	Kpis     *service.KpiService
	Contacts *service.ContactService
	Content  *service.ContentService
	Reports  *service.ReportService
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svcs Services, db Pinger, metrics *observability.Metrics, corsOrigin string, tokenTTL time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger, metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// Cookie auth means credentialed CORS; the origin list cannot be "*".
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(db, logger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API ---
	r.Route("/api", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", registerHandler(svcs.Auth, tokenTTL, logger))
			r.Post("/login", loginHandler(svcs.Auth, tokenTTL, logger))
			r.Post("/logout", logoutHandler())

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(svcs.Auth, logger))
				r.Get("/me", meHandler(svcs.Auth, logger))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(svcs.Auth, logger))

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdmin(logger))
				r.Get("/stats", adminStatsHandler(metrics))
			})

			r.Route("/plans", func(r chi.Router) {
				r.Get("/", listPlansHandler(svcs.Plans, logger))
				r.Post("/", createPlanHandler(svcs.Plans, logger))
				r.Get("/templates", listTemplatesHandler(svcs.Plans))

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", getPlanHandler(svcs.Plans, logger))
					r.Patch("/", updatePlanHandler(svcs.Plans, logger))
					r.Delete("/", deletePlanHandler(svcs.Plans, logger))

					// Aggregation views
					r.Get("/calendar", calendarHandler(svcs.Reports, logger))
					r.Get("/day/{date}", dayViewHandler(svcs.Reports, logger))
					r.Get("/report", reportHandler(svcs.Reports, logger))
					r.Get("/export/csv", exportCSVHandler(svcs.Reports, logger))

					// Tasks
					r.Get("/tasks", listTasksHandler(svcs.Tasks, logger))
					r.Post("/tasks", createTaskHandler(svcs.Tasks, logger))
					r.Patch("/tasks/{taskId}", updateTaskHandler(svcs.Tasks, logger))
					r.Post("/tasks/{taskId}/complete", completeTaskHandler(svcs.Tasks, logger))
					r.Delete("/tasks/{taskId}", deleteTaskHandler(svcs.Tasks, logger))

					// KPIs, entries, alerts
					r.Get("/kpis", listKpisHandler(svcs.Kpis, logger))
					r.Post("/kpis", createKpiHandler(svcs.Kpis, logger))
					r.Delete("/kpis/{kpiId}", deleteKpiHandler(svcs.Kpis, logger))
					r.Get("/kpis/{kpiId}/entries", listKpiEntriesHandler(svcs.Kpis, logger))
					r.Post("/kpis/{kpiId}/entries", addKpiEntryHandler(svcs.Kpis, logger))
					r.Get("/alerts", listAlertsHandler(svcs.Kpis, logger))
					r.Post("/alerts/{alertId}/resolve", resolveAlertHandler(svcs.Kpis, logger))

					// Contacts and outreach
					r.Get("/contacts", listContactsHandler(svcs.Contacts, logger))
					r.Post("/contacts", createContactHandler(svcs.Contacts, logger))
					r.Post("/contacts/import", importContactsHandler(svcs.Contacts, logger))
					r.Patch("/contacts/{contactId}", updateContactHandler(svcs.Contacts, logger))
					r.Delete("/contacts/{contactId}", deleteContactHandler(svcs.Contacts, logger))
					r.Get("/outreach-events", listOutreachEventsHandler(svcs.Contacts, logger))
					r.Post("/outreach-events", createOutreachEventHandler(svcs.Contacts, logger))

					// Assets and notes
					r.Get("/assets", listAssetsHandler(svcs.Content, logger))
					r.Post("/assets", createAssetHandler(svcs.Content, logger))
					r.Delete("/assets/{assetId}", deleteAssetHandler(svcs.Content, logger))
					r.Get("/notes", listNotesHandler(svcs.Content, logger))
					r.Post("/notes", createNoteHandler(svcs.Content, logger))
					r.Delete("/notes/{noteId}", deleteNoteHandler(svcs.Content, logger))
				})
			})
		})
	})

	return r
}
