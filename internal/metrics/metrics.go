// Package metrics exposes Prometheus counters for audit runs. Registration
// happens on a private registry so tests can create instances freely.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hostaudit/internal/domain"
)

type Metrics struct {
	registry *prometheus.Registry

	DomainsAudited  *prometheus.CounterVec
	ActionsExecuted *prometheus.CounterVec
	LookupFailures  prometheus.Counter
	RunDuration     prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		DomainsAudited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hostaudit_domains_audited_total",
			Help: "Domains audited, by classified status.",
		}, []string{"status"}),
		ActionsExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hostaudit_actions_total",
			Help: "Remediation actions, by plan kind and outcome.",
		}, []string{"action", "outcome"}),
		LookupFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "hostaudit_lookup_failures_total",
			Help: "Registry lookups that failed or timed out.",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hostaudit_run_duration_seconds",
			Help:    "Wall-clock duration of full audit runs.",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
		}),
	}
}

// ObserveRecord updates the per-domain counters for one finished record.
// Nil-safe so the auditor can run without metrics wired.
func (m *Metrics) ObserveRecord(rec domain.DomainRecord) {
	if m == nil {
		return
	}
	m.DomainsAudited.WithLabelValues(string(rec.Status)).Inc()
	m.ActionsExecuted.WithLabelValues(string(rec.Plan.Action), string(rec.Outcome.Kind)).Inc()
	if rec.Status == domain.StatusLookupFailed {
		m.LookupFailures.Inc()
	}
}

// ObserveRunSeconds records one run's duration.
func (m *Metrics) ObserveRunSeconds(seconds float64) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(seconds)
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
