// Package metrics provides Prometheus metrics for presence and discovery.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"faculty-locator-backend/internal/model"
)

// Metric names as constants for consistency.
const (
	MetricPresenceTransitionsTotal = "presence_transitions_total"
	MetricFacultyByStatus          = "faculty_by_status"
	MetricDirectoryQueriesTotal    = "directory_queries_total"
)

// Query kinds for labeling.
const (
	QuerySearch   = "search"
	QueryBuilding = "buildings"
	QuerySummary  = "summary"
)

// Metrics contains Prometheus collectors for the presence engine.
// All operations are thread-safe.
type Metrics struct {
	transitions *prometheus.CounterVec
	byStatus    *prometheus.GaugeVec
	queries     *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricPresenceTransitionsTotal,
				Help: "Total number of presence status transitions by source and target status",
			},
			[]string{"from", "to"},
		),
		byStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricFacultyByStatus,
				Help: "Number of faculty members currently in each presence status",
			},
			[]string{"status"},
		),
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricDirectoryQueriesTotal,
				Help: "Total number of directory queries by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.transitions, m.byStatus, m.queries}
}

// SetStatusCounts seeds the per-status gauge, typically from a startup snapshot.
func (m *Metrics) SetStatusCounts(records []model.PresenceRecord) {
	counts := make(map[model.Status]int, len(model.Statuses))
	for _, rec := range records {
		counts[rec.Status]++
	}
	for _, s := range model.Statuses {
		m.byStatus.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}

// ObserveChange records a committed presence change. It has the signature of
// a presence listener.
func (m *Metrics) ObserveChange(prev, next model.PresenceRecord) {
	if prev.Status == next.Status {
		return
	}
	m.transitions.WithLabelValues(string(prev.Status), string(next.Status)).Inc()
	m.byStatus.WithLabelValues(string(prev.Status)).Dec()
	m.byStatus.WithLabelValues(string(next.Status)).Inc()
}

// IncQuery counts a directory query.
func (m *Metrics) IncQuery(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.queries.WithLabelValues(kind, outcome).Inc()
}
