package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestComplianceMetrics_Counters tests counter increments through the
// recording methods.
func TestComplianceMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New("themis", registry)

	m.RecordEvaluation("benefit_max_amount")
	m.RecordEvaluation("benefit_max_amount")
	m.RecordViolation("benefit_max_amount", "high")
	m.RecordRow()
	m.RecordSkip("leave_advance_days")
	m.RecordDefaultUsed("benefit_max_amount", "max_amount")
	m.ObserveEvaluationDuration(5 * time.Millisecond)

	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("benefit_max_amount")); got != 2 {
		t.Errorf("evaluations_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.violationsTotal.WithLabelValues("benefit_max_amount", "high")); got != 1 {
		t.Errorf("violations_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rowsProcessedTotal); got != 1 {
		t.Errorf("rows_processed_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rowsSkippedTotal.WithLabelValues("leave_advance_days")); got != 1 {
		t.Errorf("rows_skipped_total = %v, want 1", got)
	}
}

// TestComplianceMetrics_NilSafe tests that a nil receiver is a no-op.
func TestComplianceMetrics_NilSafe(t *testing.T) {
	var m *ComplianceMetrics

	// None of these should panic.
	m.RecordEvaluation("x")
	m.RecordViolation("x", "low")
	m.RecordRow()
	m.RecordSkip("x")
	m.RecordDefaultUsed("x", "y")
	m.ObserveEvaluationDuration(time.Second)
}

// TestHandler tests that the exposition handler serves the registry.
func TestHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	New("themis", registry)

	if h := Handler(registry); h == nil {
		t.Fatal("Handler() returned nil")
	}
}
