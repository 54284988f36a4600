package observability

import (
	"time"

	"launchtracker/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the tracker.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can serve it.
	Registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	requestsTotal      *prometheus.CounterVec
	alertsTriggered    prometheus.Counter
	kpiEntriesUpserted *prometheus.CounterVec
	contactsImported   prometheus.Counter
	tasksCompleted     prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracker_request_duration_seconds",
				Help:    "Duration of HTTP requests by method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_requests_total",
				Help: "Total HTTP requests by outcome class.",
			},
			[]string{"class"},
		),
		alertsTriggered: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tracker_alerts_triggered_total",
				Help: "Total KPI threshold alerts created.",
			},
		),
		kpiEntriesUpserted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracker_kpi_entries_total",
				Help: "Total KPI entry writes by kind (insert or update).",
			},
			[]string{"kind"},
		),
		contactsImported: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tracker_contacts_imported_total",
				Help: "Total contacts created through bulk import.",
			},
		),
		tasksCompleted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tracker_tasks_completed_total",
				Help: "Total tasks transitioned to complete.",
			},
		),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method).Observe(d.Seconds())

	class := "success"
	if status >= 500 {
		class = "error"
	} else if status >= 400 {
		class = "client_error"
	}
	m.requestsTotal.WithLabelValues(class).Inc()
}

// IncrAlertTriggered counts a KPI threshold alert.
func (m *Metrics) IncrAlertTriggered() {
	m.alertsTriggered.Inc()
}

// IncrKpiEntry counts a KPI entry write; kind is "insert" or "update".
func (m *Metrics) IncrKpiEntry(kind string) {
	m.kpiEntriesUpserted.WithLabelValues(kind).Inc()
}

// AddContactsImported counts bulk-imported contacts.
func (m *Metrics) AddContactsImported(n int) {
	m.contactsImported.Add(float64(n))
}

// IncrTaskCompleted counts a task completion.
func (m *Metrics) IncrTaskCompleted() {
	m.tasksCompleted.Inc()
}

// Snapshot returns cumulative counter values for the admin stats endpoint.
func (m *Metrics) Snapshot() domain.AdminStats {
	return domain.AdminStats{
		RequestsTotal: counterValue(m.requestsTotal, "success") +
			counterValue(m.requestsTotal, "client_error") +
			counterValue(m.requestsTotal, "error"),
		RequestErrors:   counterValue(m.requestsTotal, "error"),
		AlertsTriggered: plainCounterValue(m.alertsTriggered),
		KpiEntriesUpserted: counterValue(m.kpiEntriesUpserted, "insert") +
			counterValue(m.kpiEntriesUpserted, "update"),
		ContactsImported: plainCounterValue(m.contactsImported),
		TasksCompleted:   plainCounterValue(m.tasksCompleted),
	}
}

// counterValue extracts the current value of a labeled counter via the
// client_model dto, the supported way to read a counter back.
func counterValue(vec *prometheus.CounterVec, label string) float64 {
	c, err := vec.GetMetricWithLabelValues(label)
	if err != nil {
		return 0
	}
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

func plainCounterValue(c prometheus.Counter) float64 {
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}
