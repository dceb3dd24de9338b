// Package metrics provides Prometheus instrumentation for compliance
// evaluation runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ComplianceMetrics tracks metrics related to rule evaluation.
//
// Metrics:
//   - themis_rule_evaluations_total: rule evaluations by check type
//   - themis_violations_total: violations produced by check type and risk
//   - themis_rows_processed_total: dataset rows scanned
//   - themis_rows_skipped_total: row/rule pairs skipped on unparseable values
//   - themis_param_defaults_total: default substitutions for missing params
//   - themis_evaluation_duration_seconds: full-run evaluation duration
//
// A nil *ComplianceMetrics is valid: every method is a no-op, so callers
// can instrument unconditionally.
type ComplianceMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	violationsTotal    *prometheus.CounterVec
	rowsProcessedTotal prometheus.Counter
	rowsSkippedTotal   *prometheus.CounterVec
	paramDefaultsTotal *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
}

// New creates and registers compliance metrics with the provided registry.
func New(namespace string, registry *prometheus.Registry) *ComplianceMetrics {
	m := &ComplianceMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rule_evaluations_total",
				Help:      "Total number of rule evaluations against rows",
			},
			[]string{"check_type"},
		),
		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "violations_total",
				Help:      "Total number of violations produced",
			},
			[]string{"check_type", "risk"},
		),
		rowsProcessedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_processed_total",
				Help:      "Total number of dataset rows scanned",
			},
		),
		rowsSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_skipped_total",
				Help:      "Row/rule pairs skipped due to unparseable values",
			},
			[]string{"check_type"},
		),
		paramDefaultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "param_defaults_total",
				Help:      "Default values substituted for missing rule params",
			},
			[]string{"check_type", "param"},
		),
		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of a full evaluation run in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
		),
	}

	registry.MustRegister(
		m.evaluationsTotal,
		m.violationsTotal,
		m.rowsProcessedTotal,
		m.rowsSkippedTotal,
		m.paramDefaultsTotal,
		m.evaluationDuration,
	)
	return m
}

// RecordEvaluation counts one rule evaluated against one row.
func (m *ComplianceMetrics) RecordEvaluation(checkType string) {
	if m == nil {
		return
	}
	m.evaluationsTotal.WithLabelValues(checkType).Inc()
}

// RecordViolation counts one violation produced.
func (m *ComplianceMetrics) RecordViolation(checkType, risk string) {
	if m == nil {
		return
	}
	m.violationsTotal.WithLabelValues(checkType, risk).Inc()
}

// RecordRow counts one dataset row scanned.
func (m *ComplianceMetrics) RecordRow() {
	if m == nil {
		return
	}
	m.rowsProcessedTotal.Inc()
}

// RecordSkip counts one row/rule pair skipped on an unparseable value.
func (m *ComplianceMetrics) RecordSkip(checkType string) {
	if m == nil {
		return
	}
	m.rowsSkippedTotal.WithLabelValues(checkType).Inc()
}

// RecordDefaultUsed counts one default substitution for a missing param.
func (m *ComplianceMetrics) RecordDefaultUsed(checkType, param string) {
	if m == nil {
		return
	}
	m.paramDefaultsTotal.WithLabelValues(checkType, param).Inc()
}

// ObserveEvaluationDuration records the duration of a full evaluation run.
func (m *ComplianceMetrics) ObserveEvaluationDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.evaluationDuration.Observe(d.Seconds())
}

// Handler returns an HTTP handler exposing the registry in Prometheus
// exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
