package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	generations  *prometheus.CounterVec
	aiAttempts   *prometheus.CounterVec
	syncWarnings *prometheus.CounterVec
	reauth       prometheus.Counter
	graphql      *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ezproduct",
			Name:      "generations_total",
			Help:      "Product generation submissions by final status.",
		}, []string{"status"}),
		aiAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ezproduct",
			Name:      "ai_attempts_total",
			Help:      "Calls to the text generation API by model and outcome.",
		}, []string{"model", "outcome"}),
		syncWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ezproduct",
			Name:      "sync_warnings_total",
			Help:      "Best-effort sync steps that failed.",
		}, []string{"step"}),
		reauth: f.NewCounter(prometheus.CounterOpts{
			Namespace: "ezproduct",
			Name:      "reauth_total",
			Help:      "Requests answered with a re-authentication redirect.",
		}),
		graphql: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ezproduct",
			Name:      "graphql_request_seconds",
			Help:      "Admin GraphQL request latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) Generation(status string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(status).Inc()
}

func (m *Metrics) AIAttempt(model, outcome string) {
	if m == nil {
		return
	}
	m.aiAttempts.WithLabelValues(model, outcome).Inc()
}

func (m *Metrics) SyncWarning(step string) {
	if m == nil {
		return
	}
	m.syncWarnings.WithLabelValues(step).Inc()
}

func (m *Metrics) Reauth() {
	if m == nil {
		return
	}
	m.reauth.Inc()
}

func (m *Metrics) ObserveGraphQL(operation string, started time.Time) {
	if m == nil {
		return
	}
	m.graphql.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}
