package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestChecker_Readiness tests aggregation of passing and failing
// component checks.
func TestChecker_Readiness(t *testing.T) {
	c := New(time.Second)
	c.Register("store", func(ctx context.Context) error { return nil })

	status := c.Readiness(context.Background())
	if status.Status != "ready" {
		t.Errorf("Readiness() status = %q, want %q", status.Status, "ready")
	}
	if status.Checks["store"].Status != "ok" {
		t.Errorf("store check = %+v, want ok", status.Checks["store"])
	}

	c.Register("watcher", func(ctx context.Context) error { return errors.New("not running") })
	status = c.Readiness(context.Background())
	if status.Status != "unhealthy" {
		t.Errorf("Readiness() with failing check = %q, want %q", status.Status, "unhealthy")
	}
	if status.Checks["watcher"].Message != "not running" {
		t.Errorf("watcher message = %q", status.Checks["watcher"].Message)
	}
}

// TestChecker_ReadinessHandler tests the probe endpoint status codes.
func TestChecker_ReadinessHandler(t *testing.T) {
	c := New(time.Second)

	rec := httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready with no checks = %d, want 200", rec.Code)
	}

	c.Register("store", func(ctx context.Context) error { return errors.New("closed") })
	rec = httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready with failing check = %d, want 503", rec.Code)
	}

	var status Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if status.Status != "unhealthy" {
		t.Errorf("body status = %q, want %q", status.Status, "unhealthy")
	}
}

// TestChecker_LivenessHandler tests that liveness always answers 200
// and rejects non-GET methods.
func TestChecker_LivenessHandler(t *testing.T) {
	c := New(0)

	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("liveness = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("liveness POST = %d, want 405", rec.Code)
	}
}
